package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate reports field names by their json tag so responses match the
// form the client submitted.
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func formatFieldErrors(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			fields[e.Field()] = fmt.Sprintf("%s is required", e.Field())
		case "email":
			fields[e.Field()] = fmt.Sprintf("%s must be a valid email address", e.Field())
		default:
			fields[e.Field()] = fmt.Sprintf("%s is invalid", e.Field())
		}
	}
	return fields
}

// respondInvalidInput renders a rejected intake as a 400, with per-field
// messages when the cause carries them.
func respondInvalidInput(w http.ResponseWriter, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": formatFieldErrors(fieldErrs)})
		return
	}
	respondError(w, http.StatusBadRequest, err.Error())
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
