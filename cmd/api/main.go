package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"ticket-hub/internal/config"
	"ticket-hub/internal/db"
	"ticket-hub/internal/email"
	apihttp "ticket-hub/internal/http"
	"ticket-hub/internal/repository"
	"ticket-hub/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	customerRepo := repository.NewPgCustomerRepository(pool)
	bannerRepo := repository.NewPgBannerRepository(pool)
	categoryRepo := repository.NewPgCategoryRepository(pool)
	eventRepo := repository.NewPgEventRepository(pool)
	orderRepo := repository.NewPgOrderRepository(pool)
	ticketRepo := repository.NewPgTicketRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		otpLimiter  service.OTPRateLimiter
		tokenStore  service.RefreshTokenStore
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			otpLimiter = service.NewRedisOTPRateLimiter(redisClient, 10*time.Minute, 3)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)

	authSvc := service.NewAuthService(logger, customerRepo, emailSender, otpLimiter)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, jwtSvc)
	customerHandler := apihttp.NewCustomerHandler(logger, customerRepo)
	orderHandler := apihttp.NewOrderHandler(logger, orderRepo)
	ticketHandler := apihttp.NewTicketHandler(logger, ticketRepo, orderRepo)
	catalogHandler := apihttp.NewCatalogHandler(logger, bannerRepo, categoryRepo, eventRepo)

	router := apihttp.NewRouter(logger, jwtSvc, authHandler, customerHandler, orderHandler, ticketHandler, catalogHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
