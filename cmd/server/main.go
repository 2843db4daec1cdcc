// Package main is the entry point for the PocketLedger backend server
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/pocketledger/backend/internal/application/identity"
	ledgerapp "github.com/pocketledger/backend/internal/application/ledger"
	"github.com/pocketledger/backend/internal/infrastructure/auth"
	"github.com/pocketledger/backend/internal/infrastructure/config"
	"github.com/pocketledger/backend/internal/infrastructure/logger"
	"github.com/pocketledger/backend/internal/infrastructure/persistence"
	"github.com/pocketledger/backend/internal/infrastructure/storage"
	"github.com/pocketledger/backend/internal/infrastructure/telemetry"
	"github.com/pocketledger/backend/internal/interfaces/http/handler"
	"github.com/pocketledger/backend/internal/interfaces/http/middleware"
	"github.com/pocketledger/backend/internal/interfaces/http/router"
)

//	@title			PocketLedger API
//	@version		1.0
//	@description	Personal finance backend: accounts, categorized transactions, card invoices, transfers and monthly reports.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting PocketLedger Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize distributed tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database query tracing (otelgorm)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		dbTracingPlugin := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
		if err := dbTracingPlugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing plugin", zap.Error(err))
		}
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	refreshTokenRepo := persistence.NewGormRefreshTokenRepository(db.DB)
	ledgerScope := persistence.NewGormLedgerScope(db.DB)

	// Initialize JWT service and token blacklist
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("Token blacklist connected", zap.String("addr", cfg.Redis.Addr()))

	// Initialize object storage for attachments
	var objectStorage ledgerapp.ObjectStorage
	if cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage configured",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("endpoint", cfg.Storage.Endpoint),
		)
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage credentials not configured, attachment uploads are disabled")
	}

	// Initialize application services
	authService := identityapp.NewAuthService(userRepo, refreshTokenRepo, ledgerScope, jwtService, blacklist, log)
	accountService := ledgerapp.NewAccountService(ledgerScope)
	categoryService := ledgerapp.NewCategoryService(ledgerScope)
	paymentMethodService := ledgerapp.NewPaymentMethodService(ledgerScope)
	postingService := ledgerapp.NewPostingService(ledgerScope, objectStorage)
	cardInvoiceService := ledgerapp.NewCardInvoiceService(ledgerScope)
	bankTransferService := ledgerapp.NewBankTransferService(ledgerScope)
	attachmentService := ledgerapp.NewAttachmentService(ledgerScope, objectStorage)
	reportService := ledgerapp.NewReportService(ledgerScope)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(accountService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	paymentMethodHandler := handler.NewPaymentMethodHandler(paymentMethodService)
	transactionHandler := handler.NewTransactionHandler(postingService)
	cardInvoiceHandler := handler.NewCardInvoiceHandler(cardInvoiceService)
	bankTransferHandler := handler.NewBankTransferHandler(bankTransferService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Create request spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			Enabled:     true,
			ServiceName: cfg.Telemetry.ServiceName,
		}))
		engine.Use(middleware.TracingAttributeInjector())
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Authentication routes
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	r.Register(authRoutes)

	// Account routes, including per-account payment methods
	accountRoutes := router.NewDomainGroup("accounts", "/accounts")
	accountRoutes.POST("", accountHandler.Create)
	accountRoutes.GET("", accountHandler.List)
	accountRoutes.GET("/:id", accountHandler.Get)
	accountRoutes.PUT("/:id", accountHandler.Update)
	accountRoutes.DELETE("/:id", accountHandler.Delete)
	accountRoutes.POST("/:id/payment-methods", paymentMethodHandler.Create)
	accountRoutes.GET("/:id/payment-methods", paymentMethodHandler.ListByAccount)
	r.Register(accountRoutes)

	// Payment method routes
	paymentMethodRoutes := router.NewDomainGroup("payment-methods", "/payment-methods")
	paymentMethodRoutes.GET("/:id", paymentMethodHandler.Get)
	paymentMethodRoutes.PUT("/:id", paymentMethodHandler.Update)
	paymentMethodRoutes.DELETE("/:id", paymentMethodHandler.Delete)
	r.Register(paymentMethodRoutes)

	// Category routes
	categoryRoutes := router.NewDomainGroup("categories", "/categories")
	categoryRoutes.POST("", categoryHandler.Create)
	categoryRoutes.GET("", categoryHandler.List)
	categoryRoutes.GET("/:id", categoryHandler.Get)
	categoryRoutes.PUT("/:id", categoryHandler.Update)
	categoryRoutes.DELETE("/:id", categoryHandler.Delete)
	r.Register(categoryRoutes)

	// Transaction routes, including attachment upload/listing
	transactionRoutes := router.NewDomainGroup("transactions", "/transactions")
	transactionRoutes.POST("", transactionHandler.Create)
	transactionRoutes.GET("", transactionHandler.List)
	transactionRoutes.GET("/:id", transactionHandler.Get)
	transactionRoutes.PUT("/:id", transactionHandler.Update)
	transactionRoutes.DELETE("/:id", transactionHandler.Delete)
	transactionRoutes.POST("/:id/attachments", attachmentHandler.Upload)
	transactionRoutes.GET("/:id/attachments", attachmentHandler.List)
	r.Register(transactionRoutes)

	// Attachment routes
	attachmentRoutes := router.NewDomainGroup("attachments", "/attachments")
	attachmentRoutes.GET("/:id/download-url", attachmentHandler.DownloadURL)
	attachmentRoutes.DELETE("/:id", attachmentHandler.Delete)
	r.Register(attachmentRoutes)

	// Card invoice routes
	cardInvoiceRoutes := router.NewDomainGroup("card-invoices", "/card-invoices")
	cardInvoiceRoutes.GET("", cardInvoiceHandler.List)
	cardInvoiceRoutes.GET("/:id", cardInvoiceHandler.Get)
	cardInvoiceRoutes.POST("/:id/pay", cardInvoiceHandler.Pay)
	cardInvoiceRoutes.POST("/:id/cancel-payment", cardInvoiceHandler.CancelPayment)
	cardInvoiceRoutes.PUT("/:id/total", cardInvoiceHandler.UpdateTotal)
	cardInvoiceRoutes.DELETE("/:id", cardInvoiceHandler.Delete)
	r.Register(cardInvoiceRoutes)

	// Bank transfer routes
	bankTransferRoutes := router.NewDomainGroup("bank-transfers", "/bank-transfers")
	bankTransferRoutes.POST("", bankTransferHandler.Create)
	bankTransferRoutes.GET("", bankTransferHandler.List)
	r.Register(bankTransferRoutes)

	// Report routes
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/monthly", reportHandler.Monthly)
	r.Register(reportRoutes)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
