package service

import (
	"shop_ledger/internal/app"
	"shop_ledger/internal/pkg/auth"
	"shop_ledger/internal/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// Service encapsulates the HTTP server configuration, including the application's business logic,
// HTTP handlers, the server's run address, and a logger for event and error logging.
type Service struct {
	handlers   *handlers
	app        *app.App
	runAddress string
	log        *logger.Logger
}

// NewService creates and initializes a new Service instance.
// It sets up the handlers using the provided application and logger,
// and configures the server's run address.
func NewService(app *app.App, runAddress string, l *logger.Logger) *Service {
	handlers := newHandlers(app, l)
	return &Service{handlers: handlers, app: app, runAddress: runAddress, log: l}
}

// NewRouter sets up and returns a new chi.Router instance with the necessary middleware and routes.
// It applies logging middleware globally, and JWT authentication middleware for protected routes.
func (service *Service) NewRouter() chi.Router {
	router := chi.NewRouter()
	router.Use(service.log.WithLogging())
	router.Post("/api/auth", service.handlers.authHandler)
	router.Route("/", func(r chi.Router) {
		r.Use(auth.CheckJWTMiddleware())
		r.Post("/api/shop", service.handlers.initializeShopHandler)
		r.Post("/api/shop/items", service.handlers.addItemHandler)
		r.Post("/api/purchase/first/{id}", service.handlers.firstPurchaseHandler)
		r.Post("/api/purchase/next/{id}", service.handlers.subsequentPurchaseHandler)
		r.Get("/api/info", service.handlers.infoHandler)
	})
	return router
}
