// Package api exposes the ledger over HTTP.
package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/engine"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// DefaultOwnerHeader carries the authenticated owner set by the fronting proxy.
const DefaultOwnerHeader = "X-Owner-ID"

// Config holds HTTP server settings.
type Config struct {
	OwnerHeader string
	ReadTimeout time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		OwnerHeader: DefaultOwnerHeader,
		ReadTimeout: 30 * time.Second,
	}
}

// Server wires the ledger service to fiber routes.
type Server struct {
	app    *fiber.App
	ledger *engine.Ledger
	config Config
}

// NewServer builds the app and registers every route.
func NewServer(ledger *engine.Ledger, config Config) *Server {
	if config.OwnerHeader == "" {
		config.OwnerHeader = DefaultOwnerHeader
	}

	app := fiber.New(fiber.Config{
		AppName:               "books",
		DisableStartupMessage: true,
		ErrorHandler:          handleError,
		ReadTimeout:           config.ReadTimeout,
	})
	app.Use(recover.New())

	s := &Server{app: app, ledger: ledger, config: config}
	s.routes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	return s.serve(ctx, addr, "http", func() error {
		return s.app.Listen(addr)
	})
}

// ListenTLS is Listen over HTTPS with the given PEM files.
func (s *Server) ListenTLS(ctx context.Context, addr, certFile, keyFile string) error {
	return s.serve(ctx, addr, "https", func() error {
		return s.app.ListenTLS(addr, certFile, keyFile)
	})
}

func (s *Server) serve(ctx context.Context, addr, scheme string, listen func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- listen()
	}()

	slog.Info("HTTP API listening", "addr", addr, "scheme", scheme, "owner_header", s.config.OwnerHeader)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("Shutting down HTTP API")
		return s.app.ShutdownWithTimeout(10 * time.Second)
	}
}

func (s *Server) routes() {
	s.app.Get("/api/health", handleHealth)

	api := s.app.Group("/api", s.requireOwner)

	api.Get("/accounts", s.listAccounts)
	api.Post("/accounts", s.createAccount)
	api.Post("/accounts/seed", s.seedAccounts)
	api.Patch("/accounts/:id", s.renameAccount)
	api.Delete("/accounts/:id", s.deleteAccount)
	api.Get("/balances", s.balances)

	api.Get("/accounts/:id/payment-methods", s.listPaymentMethods)
	api.Post("/accounts/:id/payment-methods", s.createPaymentMethod)
	api.Put("/payment-methods/:id", s.updatePaymentMethod)
	api.Delete("/payment-methods/:id", s.deletePaymentMethod)

	api.Get("/transactions", s.listTransactions)
	api.Post("/transactions", s.createTransaction)
	api.Get("/transactions/:id", s.getTransaction)
	api.Put("/transactions/:id", s.updateTransaction)
	api.Delete("/transactions/:id", s.deleteTransaction)
	api.Get("/transactions/:id/evidence", s.evidenceURL)

	api.Get("/reports/financial", s.financialReport)
	api.Get("/reports/monthly", s.monthlyReport)
	api.Get("/reports/categories", s.categoryReport)
	api.Get("/reports/vendors", s.vendorReport)

	api.Get("/vendor-mappings", s.listVendorMappings)
	api.Post("/vendor-mappings", s.createVendorMapping)
	api.Get("/vendor-mappings/suggest", s.suggestCategory)
	api.Delete("/vendor-mappings/:id", s.deleteVendorMapping)
}

func handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// list writes items as a JSON array, never null.
func list[T any](c *fiber.Ctx, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(items)
}
