// Package server contains the HTTP handlers, route table and authorization
// guards for the petition application.
package server

import (
	"context"
	"log"
	"time"

	"petition/internal/cache"
	"petition/internal/config"
	"petition/internal/database"
	"petition/internal/middleware"
	"petition/internal/repository"
	"petition/internal/service"
	"petition/internal/session"
	"petition/views"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Codec
	userRepo       repository.UserRepository
	profileRepo    repository.ProfileRepository
	signatureRepo  repository.SignatureRepository
	accounts       *service.AccountService
	petitions      *service.PetitionService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	signatureRepo := repository.NewSignatureRepository(db)

	prom := middleware.InitMetrics("petition")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		sessions:       session.NewCodec(cfg.SessionSecret),
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		signatureRepo:  signatureRepo,
	}
	server.accounts = service.NewAccountService(userRepo, profileRepo)
	server.petitions = service.NewPetitionService(userRepo, signatureRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Session cookie decoding must run before the context middleware so the
	// user id lands in the request context for logging.
	app.Use(s.sessions.Middleware())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers. Frames are denied outright.
	app.Use(helmet.New(helmet.Config{
		XFrameOptions: "DENY",
	}))

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).
				SendString("Too many requests, please try again later.")
		},
	}))

	// CSRF token, required on every state-changing POST
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:_csrf",
		CookieName:     "petition_csrf",
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		CookieHTTPOnly: true,
		Expiration:     1 * time.Hour,
		ContextKey:     "csrfToken",
	}))

	// A signed user asking for the home or petition page lands on /thanks.
	app.Use(s.SignedRedirect())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Static assets
	app.Static("/static", "./public")

	app.Get("/", s.Home)

	// Registration and login, logged-out only, brute-force rate limited
	app.Get("/register", s.RequireLoggedOut(), s.ShowRegister)
	app.Post("/register", s.RequireLoggedOut(), middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.Register)
	app.Get("/login", s.RequireLoggedOut(), s.ShowLogin)
	app.Post("/login", s.RequireLoggedOut(), middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Profile
	app.Get("/profile", s.RequireUser(), s.ShowProfileForm)
	app.Post("/profile", s.RequireUser(), s.CreateProfile)
	app.Get("/profile/edit", s.RequireUser(), s.ShowEditProfile)
	app.Post("/profile/edit", s.RequireUser(), s.UpdateProfile)
	app.Post("/profile/delete", s.RequireUser(), s.DeleteAccount)

	// Petition
	app.Get("/petition", s.RequireUser(), s.RequireNoSignature(), s.ShowPetition)
	app.Post("/petition", s.RequireUser(), s.SignPetition)
	app.Post("/delete-sig", s.RequireUser(), s.DeleteSignature)
	app.Get("/thanks", s.RequireSignature(), s.Thanks)

	// Signer listings. The by-city listing is public.
	app.Get("/signers", s.RequireSignature(), s.Signers)
	app.Get("/signers/:city", s.SignersByCity)

	app.Get("/logout", s.Logout)
}

// Home redirects to registration; the SignedRedirect middleware already
// sent signed users to /thanks.
func (s *Server) Home(c *fiber.Ctx) error {
	return c.Redirect("/register")
}

// SignedRedirect sends an Authenticated-Signed session requesting the root
// or petition path to the thanks page, regardless of method.
func (s *Server) SignedRedirect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := session.FromCtx(c)
		if sess.HasSignature() && (c.Path() == "/" || c.Path() == "/petition") {
			return c.Redirect("/thanks")
		}
		return c.Next()
	}
}

// RequireLoggedOut allows only Anonymous sessions; authenticated users are
// sent to the signing page.
func (s *Server) RequireLoggedOut() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session.FromCtx(c).LoggedIn() {
			return c.Redirect("/petition")
		}
		return c.Next()
	}
}

// RequireUser allows any authenticated session; anonymous requests are sent
// to registration.
func (s *Server) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !session.FromCtx(c).LoggedIn() {
			return c.Redirect("/register")
		}
		return c.Next()
	}
}

// RequireSignature allows only Authenticated-Signed sessions; everyone else
// is sent to the petition page.
func (s *Server) RequireSignature() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !session.FromCtx(c).HasSignature() {
			return c.Redirect("/petition")
		}
		return c.Next()
	}
}

// RequireNoSignature allows only Authenticated-NoSig sessions; signed users
// are sent to the thanks page.
func (s *Server) RequireNoSignature() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session.FromCtx(c).HasSignature() {
			return c.Redirect("/thanks")
		}
		return c.Next()
	}
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. The database gates
// readiness; Redis is optional (rate limiting fails open without it).
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Petition",
		Views:   views.Engine(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
				"error", err.Error(), "path", c.Path())
			return c.Status(fiber.StatusInternalServerError).
				SendString("Something went wrong, please try again")
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
