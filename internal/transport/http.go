package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexashvetsoff/FlowerShop/internal/auth"
	"github.com/lexashvetsoff/FlowerShop/internal/catalog"
	"github.com/lexashvetsoff/FlowerShop/internal/config"
	"github.com/lexashvetsoff/FlowerShop/internal/consultation"
	"github.com/lexashvetsoff/FlowerShop/internal/handler"
	"github.com/lexashvetsoff/FlowerShop/internal/order"
)

func NewRouter(pool *pgxpool.Pool, cfg *config.Config) *chi.Mux {
	catalogRepo := catalog.NewRepository(pool)
	catalogSvc := catalog.NewService(catalogRepo, cfg.App.CityPrefix)

	orderRepo := order.NewRepository(pool)
	orderSvc := order.NewService(orderRepo, catalogRepo)

	consultationRepo := consultation.NewRepository(pool)
	consultationSvc := consultation.NewService(consultationRepo)

	authRepo := auth.NewRepository(pool)
	authSvc := auth.NewService(authRepo, cfg.Session.TTL)

	authHandler := handler.NewAuthHandler(authSvc, cfg.Session.CookieName)
	staffHandler := handler.NewStaffHandler(catalogSvc, orderSvc)
	publicHandler := handler.NewPublicHandler(catalogSvc, orderSvc, consultationSvc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(auth.Sessions(authSvc, cfg.Session.CookieName))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	r.Get("/catalog", publicHandler.Catalog)
	r.Get("/delivery-windows", publicHandler.DeliveryWindows)
	r.Post("/order", publicHandler.CreateOrder)
	r.Post("/consultation", publicHandler.CreateConsultation)

	// Florist views.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAnyRole(auth.RoleFlorist, auth.RoleAdmin))

		r.Get("/availability", staffHandler.Availability)
		r.Get("/orders", staffHandler.Orders)
		r.Post("/orders/{orderID}/advance", staffHandler.Advance)
	})

	return r
}
