package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/decorhub/storefront/internal/auth"
	"github.com/decorhub/storefront/internal/catalog"
	"github.com/decorhub/storefront/internal/config"
	"github.com/decorhub/storefront/internal/identity"
	"github.com/decorhub/storefront/internal/infra"
	"github.com/decorhub/storefront/internal/metrics"
	"github.com/decorhub/storefront/internal/middleware"
	"github.com/decorhub/storefront/internal/notification"
	"github.com/decorhub/storefront/internal/order"
	"github.com/decorhub/storefront/internal/otp"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// may be nil in development, where in-memory stores take their place.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Logger   *slog.Logger
	Prom     *metrics.Prom
	Gatherer prometheus.Gatherer
	Reporter *infra.ErrorReporter
	// Notifier overrides the SMS/logger notifier chosen from Cfg.
	Notifier notification.Notifier
	// Products seeds the in-memory catalog when DB is nil.
	Products []catalog.Product
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.Tracing("storefront/http"))
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() {
		// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))
	if d.Prom != nil {
		app.Use(d.Prom.Middleware())
	}
	app.Use(middleware.RequestTimeout(d.Cfg.RequestTimeout))

	RegisterHealthRoutes(app, d)

	// Stores
	var (
		userRepo    identity.Repository
		productRepo catalog.Repository
		orderRepo   order.Repository
		otps        otp.Registry
	)
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB, d.Prom)
		productRepo = catalog.NewPostgresRepository(d.DB, d.Prom)
		orderRepo = order.NewPostgresRepository(d.DB, d.Prom)
	} else {
		userRepo = identity.NewMemoryRepository()
		productRepo = catalog.NewMemoryRepository(d.Products...)
		orderRepo = order.NewMemoryRepository()
	}
	if d.Cache != nil {
		otps = otp.NewRedisRegistry(d.Cache, d.Cfg.OTPTTL)
	} else {
		otps = otp.NewMemoryRegistry(d.Cfg.OTPTTL)
	}

	// Services and handlers
	identitySvc := identity.NewService(userRepo)
	tokens := auth.NewTokenIssuer(d.Cfg.JWTSecret)
	gateway := notification.NewGateway(buildNotifier(d), d.Logger, d.Prom)
	authSvc := auth.NewService(auth.Config{
		SignupTokenTTL:  d.Cfg.SignupTokenTTL,
		LoginTokenTTL:   d.Cfg.LoginTokenTTL,
		OTPLength:       d.Cfg.OTPLength,
		RequireLoginOTP: d.Cfg.LoginRequireOTP,
	}, identitySvc, tokens, otps, gateway, d.Logger)

	catalogSvc := catalog.NewService(productRepo)
	var checker order.ProductChecker
	if d.Cfg.ValidateOrderItems {
		checker = catalogSvc
	}
	orderSvc := order.NewService(identitySvc, orderRepo, checker, d.Prom, d.Logger)

	// Public routes
	RegisterAuthRoutes(app, auth.NewHandler(authSvc), middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit))
	RegisterCatalogRoutes(app, catalog.NewHandler(catalogSvc))

	// Protected routes
	gate := middleware.AccessGate(tokens, d.Logger)
	RegisterOrderRoutes(app, order.NewHandler(orderSvc), gate, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))

	return nil
}

func buildNotifier(d Deps) notification.Notifier {
	if d.Notifier != nil {
		return d.Notifier
	}
	if d.Cfg.SMSAPIKey == "" {
		return notification.NewLoggerNotifier(d.Logger)
	}
	sms := notification.NewSMSNotifier(notification.SMSConfig{
		APIKey:  d.Cfg.SMSAPIKey,
		URL:     d.Cfg.SMSAPIURL,
		Timeout: d.Cfg.SMSTimeout,
	})
	return notification.NewProtectedNotifier(sms, notification.ProtectedNotifierConfig{
		Timeout: d.Cfg.SMSTimeout,
	})
}
