// Package consultation records out-of-band advisory requests from clients
// who want help picking a bouquet. Consultations carry their own small
// status set and are worked outside the florist order queue.
package consultation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type Status string

const (
	StatusCreated   Status = "created"
	StatusConsulted Status = "consulted"
	StatusCancelled Status = "cancelled"
)

type Consultation struct {
	ID          int64      `json:"id" db:"id"`
	ClientName  string     `json:"client_name" db:"client_name"`
	Phone       string     `json:"phone" db:"phone"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ConsultedAt *time.Time `json:"consulted_at,omitempty" db:"consulted_at"`
	Status      Status     `json:"status" db:"status"`
	Event       string     `json:"event,omitempty" db:"event"`
	Budget      string     `json:"budget,omitempty" db:"budget"`
}

var ErrInvalidInput = errors.New("invalid consultation input")

type CreateInput struct {
	ClientName string `json:"client_name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Event      string `json:"event"`
	Budget     string `json:"budget"`
}

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

type Repository interface {
	Create(ctx context.Context, c *Consultation) (int64, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, c *Consultation) (int64, error) {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO consultations (client_name, phone, created_at, status, event, budget)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		c.ClientName,
		c.Phone,
		createdAt,
		string(c.Status),
		c.Event,
		c.Budget,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert consultation: %w", err)
	}

	c.ID = id
	c.CreatedAt = createdAt

	return id, nil
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*Consultation, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Consultation, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	c := &Consultation{
		ClientName: in.ClientName,
		Phone:      in.Phone,
		Status:     StatusCreated,
		Event:      in.Event,
		Budget:     in.Budget,
	}

	if _, err := s.repo.Create(ctx, c); err != nil {
		log.Error().Err(err).Msg("service: failed to create consultation")
		return nil, fmt.Errorf("service: failed to create consultation: %w", err)
	}

	log.Info().Int64("consultation_id", c.ID).Msg("service: consultation created")

	return c, nil
}
