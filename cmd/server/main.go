package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/civicconnect/backend/internal/application/catalog"
	chatapp "github.com/civicconnect/backend/internal/application/chat"
	civicapp "github.com/civicconnect/backend/internal/application/civic"
	identityapp "github.com/civicconnect/backend/internal/application/identity"
	newsapp "github.com/civicconnect/backend/internal/application/news"
	"github.com/civicconnect/backend/internal/infrastructure/auth"
	"github.com/civicconnect/backend/internal/infrastructure/cache"
	"github.com/civicconnect/backend/internal/infrastructure/config"
	"github.com/civicconnect/backend/internal/infrastructure/forms"
	"github.com/civicconnect/backend/internal/infrastructure/logger"
	"github.com/civicconnect/backend/internal/infrastructure/mail"
	"github.com/civicconnect/backend/internal/infrastructure/newsfeed"
	"github.com/civicconnect/backend/internal/infrastructure/persistence"
	"github.com/civicconnect/backend/internal/infrastructure/scheduler"
	"github.com/civicconnect/backend/internal/infrastructure/storage"
	"github.com/civicconnect/backend/internal/interfaces/http/handler"
	"github.com/civicconnect/backend/internal/interfaces/http/middleware"
	"github.com/civicconnect/backend/internal/interfaces/http/router"
)

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

	log.Info("Starting CivicConnect Backend",
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

	// Initialize Redis (token blacklist, news cache)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cancelPing()
	log.Info("Redis connected successfully")

	// Initialize repositories
	representativeRepo := persistence.NewGormRepresentativeRepository(db.DB)
	questionRecordRepo := persistence.NewGormQuestionRecordRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	conversationRepo := persistence.NewGormConversationRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)

	// External form provider; also serves as the response source
	formsConfig := &forms.GoogleFormsConfig{
		AccessToken:    cfg.Forms.APIKey,
		APIBaseURL:     cfg.Forms.BaseURL,
		TimeoutSeconds: int(cfg.Forms.Timeout.Seconds()),
	}
	formsAdapter, err := forms.NewGoogleFormsAdapter(formsConfig)
	if err != nil {
		log.Fatal("Failed to initialize form provider", zap.Error(err))
	}

	// Representative notifications over SMTP
	notifier, err := mail.NewSMTPNotifier(&mail.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})
	if err != nil {
		log.Fatal("Failed to initialize mail notifier", zap.Error(err))
	}

	// Upstream news search with a Redis read-through cache
	newsClient, err := newsfeed.NewClient(&newsfeed.Config{
		APIKey:         cfg.News.APIKey,
		APIBaseURL:     cfg.News.BaseURL,
		TimeoutSeconds: int(cfg.News.Timeout.Seconds()),
	})
	if err != nil {
		log.Fatal("Failed to initialize news client", zap.Error(err))
	}
	newsCache := cache.NewRedisNewsCache(redisClient)

	// Object storage for listing media; stub keeps local development working
	// without credentials
	var objectStorage catalogapp.ObjectStorageService
	if cfg.Storage.AccessKeyID == "" {
		log.Warn("No storage credentials configured, using stub object storage")
		objectStorage = storage.NewStubObjectStorage()
	} else {
		objectStorage, err = storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := auth.NewRedisTokenBlacklist(redisClient)
	userService := identityapp.NewUserService(userRepo, jwtService, log)

	// Civic services
	formRegistry := cache.NewInMemoryFormRegistry()
	questionService := civicapp.NewQuestionService(
		representativeRepo,
		questionRecordRepo,
		formsAdapter,
		notifier,
		formsAdapter,
		formRegistry,
		log,
		cfg.Scheduler.ResponseQueryTimeout,
	)
	representativeService := civicapp.NewRepresentativeService(representativeRepo, log)

	// Marketplace services
	productService := catalogapp.NewProductService(productRepo, objectStorage, log)
	chatService := chatapp.NewChatService(conversationRepo, messageRepo, productRepo, log)

	// News service
	newsService := newsapp.NewService(newsClient, newsCache, cfg.News.CacheTTL, log)

	// Background reconciliation loop
	var reconcileScheduler *scheduler.ReconcileScheduler
	if cfg.Scheduler.Enabled {
		reconcileScheduler, err = scheduler.NewReconcileScheduler(scheduler.ReconcileSchedulerConfig{
			Enabled:    cfg.Scheduler.Enabled,
			Interval:   cfg.Scheduler.ReconcileInterval,
			RunTimeout: cfg.Scheduler.ReconcileTimeout,
		}, questionService, log)
		if err != nil {
			log.Fatal("Failed to initialize reconciliation scheduler", zap.Error(err))
		}
		if err := reconcileScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start reconciliation scheduler", zap.Error(err))
		}
		defer func() {
			if err := reconcileScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping reconciliation scheduler", zap.Error(err))
			}
		}()
		log.Info("Reconciliation scheduler started",
			zap.Duration("interval", cfg.Scheduler.ReconcileInterval),
			zap.Duration("run_timeout", cfg.Scheduler.ReconcileTimeout),
		)
	}

	// Initialize HTTP handlers
	civicHandler := handler.NewCivicHandler(questionService, representativeService)
	userHandler := handler.NewUserHandler(userService, tokenBlacklist, cfg.JWT.Expiration)
	productHandler := handler.NewProductHandler(productService)
	chatHandler := handler.NewChatHandler(chatService)
	newsHandler := handler.NewNewsHandler(newsService)
	var passes handler.ReconcilePassSource
	if reconcileScheduler != nil {
		passes = reconcileScheduler
	}
	systemHandler := handler.NewSystemHandler(passes)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register custom binding validators (pincode, phone)
	middleware.SetupValidator()

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
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.HTTP.CORSAllowOrigins,
		AllowedMethods:   cfg.HTTP.CORSAllowMethods,
		AllowedHeaders:   cfg.HTTP.CORSAllowHeaders,
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

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

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT authentication over the API group; public endpoints are skipped
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/check-phone",
			"/api/v1/civic/questions",
			"/api/v1/civic/responses",
			"/api/v1/news/search",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/civic/forms",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthWithConfig(jwtConfig))

	// Civic engagement (questions, forms, representatives)
	civicRoutes := router.NewDomainGroup("civic", "/civic")
	civicRoutes.POST("/questions", civicHandler.SubmitQuestion)
	civicRoutes.GET("/responses", civicHandler.ListResponses)
	civicRoutes.GET("/forms/:form_id", civicHandler.CheckForm)
	civicRoutes.POST("/reconcile", middleware.RequireAdmin(), civicHandler.Reconcile)
	civicRoutes.POST("/representatives", middleware.RequireAdmin(), civicHandler.CreateRepresentative)
	civicRoutes.GET("/representatives", civicHandler.ListRepresentatives)
	civicRoutes.GET("/representatives/lookup", civicHandler.GetRepresentative)

	// Authentication (public)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", userHandler.Register)
	authRoutes.POST("/login", userHandler.Login)
	authRoutes.GET("/check-phone", userHandler.CheckPhone)
	authRoutes.POST("/logout", userHandler.Logout)
	authRoutes.POST("/logout-all", userHandler.LogoutAll)

	// User profile
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.GET("/me", userHandler.GetProfile)
	userRoutes.PUT("/me", userHandler.UpdateProfile)

	// Marketplace listings
	marketplaceRoutes := router.NewDomainGroup("marketplace", "/marketplace")
	marketplaceRoutes.POST("/products", productHandler.Create)
	marketplaceRoutes.GET("/products", productHandler.Search)
	marketplaceRoutes.GET("/products/mine", productHandler.ListMine)
	marketplaceRoutes.GET("/products/:id", productHandler.Get)
	marketplaceRoutes.PUT("/products/:id", productHandler.Update)
	marketplaceRoutes.DELETE("/products/:id", productHandler.Delete)
	marketplaceRoutes.POST("/products/:id/sold", productHandler.MarkSold)
	marketplaceRoutes.POST("/products/:id/flag", productHandler.Flag)
	marketplaceRoutes.POST("/uploads", productHandler.GenerateImageUpload)

	// Buyer-seller chat
	chatRoutes := router.NewDomainGroup("chat", "/chat")
	chatRoutes.POST("/conversations", chatHandler.StartConversation)
	chatRoutes.GET("/conversations", chatHandler.ListConversations)
	chatRoutes.GET("/conversations/:id/messages", chatHandler.ListMessages)
	chatRoutes.POST("/messages", chatHandler.SendMessage)
	chatRoutes.GET("/unread-count", chatHandler.CountUnread)

	// News search (public)
	newsRoutes := router.NewDomainGroup("news", "/news")
	newsRoutes.GET("/search", newsHandler.Search)

	// System info
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/reconciliation", middleware.RequireAdmin(), systemHandler.GetReconciliationStatus)

	r.Register(civicRoutes).
		Register(authRoutes).
		Register(userRoutes).
		Register(marketplaceRoutes).
		Register(chatRoutes).
		Register(newsRoutes).
		Register(systemRoutes)

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
