// Package mockapi serves an in-memory Market Supervisor backend over HTTP.
// It implements the same endpoints as the real API, seeded with sample
// data, and is used for offline development and end-to-end tests.
package mockapi

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dmitrijs2005/marketsupervisor/internal/logging"
)

// DefaultTokenTTL is the lifetime of issued access tokens.
const DefaultTokenTTL = 24 * time.Hour

type Server struct {
	app      *fiber.App
	db       *DB
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
	logger   logging.Logger
}

type Option func(*Server)

func WithTokenTTL(d time.Duration) Option { return func(s *Server) { s.tokenTTL = d } }

func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

func WithLogger(l logging.Logger) Option { return func(s *Server) { s.logger = l } }

// WithDB replaces the seeded dataset.
func WithDB(db *DB) Option { return func(s *Server) { s.db = db } }

// New builds the server and registers every route.
func New(jwtSecret string, opts ...Option) *Server {
	s := &Server{
		db:       NewDB(),
		secret:   []byte(jwtSecret),
		tokenTTL: DefaultTokenTTL,
		now:      time.Now,
		logger:   logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With("module", "mockapi")

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.routes()
	return s
}

// App exposes the fiber application, mainly for app.Test in tests.
func (s *Server) App() *fiber.App { return s.app }

// DB returns the dataset the server mutates.
func (s *Server) DB() *DB { return s.db }

func (s *Server) routes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := s.app.Group("/auth")
	auth.Post("/companies/login", s.companyLogin)
	auth.Post("/users/login", s.adminLogin)
	auth.Post("/register", s.register)
	auth.Post("/forgot-password", s.forgotPassword)
	auth.Post("/reset-password", s.resetPassword)
	auth.Post("/logout", s.logout)
	auth.Get("/verify", s.requireAuth, s.verify)
	auth.Post("/refresh", s.requireAuth, s.refresh)

	companies := s.app.Group("/companies", s.requireAuth)
	companies.Get("/", s.listCompanies)
	companies.Post("/", s.createCompany)
	companies.Get("/:id", s.getCompany)
	companies.Patch("/:id", s.updateCompany)
	companies.Delete("/:id", s.deleteCompany)

	crons := s.app.Group("/crons", s.requireAuth)
	crons.Get("/", s.listCrons)
	crons.Post("/", s.createCron)
	crons.Get("/:id", s.getCron)
	crons.Patch("/:id", s.updateCron)
	crons.Delete("/:id", s.deleteCron)
	crons.Post("/:id/execute", s.executeCron)

	results := s.app.Group("/search-results", s.requireAuth)
	results.Get("/", s.listResults)
	results.Post("/export", s.exportResults)
	results.Get("/cron/:cronId", s.listResultsByCron)
	results.Delete("/:id", s.deleteResult)
	results.Patch("/:id/important", s.markImportant)

	dashboard := s.app.Group("/dashboard", s.requireAuth)
	dashboard.Get("/stats", s.stats)
	dashboard.Get("/analytics", s.analytics)
	dashboard.Get("/cron-performance", s.cronPerformance)
	dashboard.Get("/search-trends", s.searchTrends)
	dashboard.Get("/notifications", s.notifications)
	dashboard.Patch("/notifications/:id/read", s.markNotificationRead)
}

// errorHandler renders every error as a `{message}` body.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"message": err.Error()})
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listener(ln)
	}()

	s.logger.Info(ctx, "mock API listening", "address", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "stopping mock API")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Run listens on addr and serves until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
