package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/config"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/gateway"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/handler/middleware"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/queue"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/repository/postgres"
	"github.com/ombhut175/ai-chatbot-platform-sub001/internal/service"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/blacklist"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/jwt"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/logger"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/metrics"
	"github.com/ombhut175/ai-chatbot-platform-sub001/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Log.Level, cfg.Log.Console || cfg.IsDevelopment())

	// Initialize database connection
	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		}
	}()
	log.Info().Msg("Database connection established")

	// Initialize Redis client
	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing Redis connection")
		}
	}()
	log.Info().Msg("Redis connection established")

	verifier, err := initVerifier(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session verifier")
	}

	recorder := metrics.NewProm("chatbot_gateway")
	validate := validator.NewValidator()

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	companyRepo := postgres.NewCompanyRepository(db)
	chatbotRepo := postgres.NewChatbotRepository(db)
	keyRepo := postgres.NewAPIKeyRepository(db)

	// Initialize services
	sessionService := service.NewSessionService(verifier, blacklist.NewTokenBlacklist(redisClient))
	tenantService := service.NewTenantService(userRepo, companyRepo)
	authorizer := service.NewAuthorizer(chatbotRepo, recorder)
	keyService := service.NewAPIKeyService(keyRepo, recorder)
	chatbotService := service.NewChatbotService(chatbotRepo, keyRepo)
	chatStream := queue.NewChatStream(redisClient, cfg.Chat.Stream, cfg.Chat.MaxStreamLen)
	chatService := service.NewChatService(chatbotRepo, sessionService, tenantService, authorizer, chatStream)

	redisPinger := handler.PingerFunc(func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": db,
		"cache":    redisPinger,
	})

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Chatbot Gateway",
		ErrorHandler: handler.ErrorHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// Setup global middlewares; the gateway runs before any route handler
	app.Use(requestid.New())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	app.Use(middleware.MetricsMiddleware(recorder))
	app.Use(middleware.GatewayMiddleware(middleware.GatewayConfig{
		Classifier: gateway.NewClassifier(),
		Sessions:   sessionService,
		Keys:       keyService,
		CookieName: cfg.Identity.CookieName,
		Metrics:    recorder,
	}))

	// Setup routes
	handler.SetupRoutes(
		app,
		handler.Handlers{
			Auth:    handler.NewAuthHandler(sessionService),
			Company: handler.NewCompanyHandler(tenantService, validate),
			Chatbot: handler.NewChatbotHandler(chatbotService, validate),
			APIKey:  handler.NewAPIKeyHandler(keyService, validate),
			Chat:    handler.NewChatHandler(chatService, validate),
			Health:  healthHandler,
			Metrics: adaptor.HTTPHandler(promhttp.HandlerFor(recorder.Registry(), promhttp.HandlerOpts{})),
		},
		middleware.RequireTenant(tenantService),
		middleware.RequireChatbot(authorizer, "id"),
	)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Info().Str("addr", addr).Str("environment", cfg.Server.Environment).Msg("Server starting")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("Server failed to start")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// initDB initializes PostgreSQL database connection with retry logic
func initDB(cfg *config.Config) (*sqlx.DB, error) {
	dsn := cfg.Database.DSN()

	var db *sqlx.DB
	var err error

	maxRetries := 5
	retryInterval := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			break
		}

		log.Warn().Err(err).Int("attempt", i+1).Int("max_attempts", maxRetries).Msg("Failed to connect to database")
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Error closing database after ping failure")
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// initRedis initializes Redis client and verifies connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Error closing Redis after ping failure")
		}
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// initVerifier picks the identity backend's verification key: a shared
// secret or a PEM public key file
func initVerifier(cfg *config.Config) (*jwt.TokenVerifier, error) {
	if cfg.Identity.JWTSecret != "" {
		return jwt.NewHMACVerifier([]byte(cfg.Identity.JWTSecret), cfg.Identity.Issuer, cfg.Identity.Audience)
	}

	publicKey, err := os.ReadFile(cfg.Identity.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file: %w", err)
	}
	if len(publicKey) == 0 {
		return nil, fmt.Errorf("public key file is empty")
	}

	return jwt.NewRSAVerifier(publicKey, cfg.Identity.Issuer, cfg.Identity.Audience)
}
