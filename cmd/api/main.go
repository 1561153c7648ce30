package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coachflow-backend/config"
	_ "coachflow-backend/docs" // Important for Swagger
	"coachflow-backend/internal/delivery/http/middleware"
	v1 "coachflow-backend/internal/delivery/http/v1"
	"coachflow-backend/internal/repository/postgres"
	"coachflow-backend/internal/usecase"
	"coachflow-backend/pkg/auth"
	"coachflow-backend/pkg/database"
	"coachflow-backend/pkg/email"
	"coachflow-backend/pkg/logger"
	"coachflow-backend/pkg/payment"
	"coachflow-backend/pkg/redis"
	"coachflow-backend/pkg/security"
	"coachflow-backend/pkg/validation"

	goredis "github.com/redis/go-redis/v9"
)

// @title           The Katha API
// @version         1.0
// @description     Coach and client marketplace: profiles, sessions, bookings, payments, testimonials and follows.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.AppEnv)
	logger.Log.Info("Starting coachflow backend", "port", cfg.Port, "env", cfg.AppEnv)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// Security audit log, persisted for the admin audit trail
	audit := security.NewSecurityLogger("coachflow-api", cfg.AppEnv)
	audit.SetPersistFunc(security.NewSecurityEventRepository(dbPool).PersistEvent)
	defer audit.Sync()

	// 4. Setup Redis (optional)
	var redisClient *goredis.Client
	redisClient, err = redis.NewClient(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		logger.Log.Warn("Redis not configured - rate limiting is in-memory and login blocking is off")
	case err != nil:
		logger.Log.Warn("Redis unavailable - continuing without it", "error", err)
		redisClient = nil
	default:
		defer redisClient.Close()
	}

	// 5. Setup Repositories
	accountRepo := postgres.NewAccountRepository(dbPool)
	coachRepo := postgres.NewCoachProfileRepository(dbPool)
	clientRepo := postgres.NewClientProfileRepository(dbPool)
	sessionRepo := postgres.NewSessionRepository(dbPool)
	bookingRepo := postgres.NewBookingRepository(dbPool)
	testimonialRepo := postgres.NewTestimonialRepository(dbPool)
	followRepo := postgres.NewFollowRepository(dbPool)
	securityEventRepo := postgres.NewSecurityEventRepository(dbPool)

	// 6. Setup external services
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - verification and reset emails will fail")
	}

	gateway := payment.NewClient(payment.Config{
		BaseURL:    cfg.PaymentGatewayURL,
		AppID:      cfg.PaymentGatewayAppID,
		Secret:     cfg.PaymentGatewaySecret,
		APIVersion: cfg.PaymentGatewayAPIVersion,
	}, nil)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	authCfg := usecase.AuthUsecaseConfig{
		Accounts:       accountRepo,
		CoachProfiles:  coachRepo,
		ClientProfiles: clientRepo,
		Tokens:         tokens,
		Mailer:         emailService,
		LoginGuard: security.NewLoginTracker(security.LoginTrackerConfig{
			MaxAttempts:   cfg.FailedLoginMaxAttempts,
			AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
			BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
			UseIPTracking: true,
		}, redisClient, audit),
		Audit:               audit,
		ForgotPasswordFloor: cfg.ForgotPasswordFloor,
	}

	// Social login needs a configured issuer and audience
	if cfg.FederatedIssuer != "" && cfg.FederatedAudience != "" {
		jwksProvider := auth.NewProvider(cfg.FederatedJWKSURL, nil)
		authCfg.Federated = auth.NewFederatedVerifier(jwksProvider, cfg.FederatedIssuer, cfg.FederatedAudience)
	} else {
		logger.Log.Warn("Federated identity not configured - social login disabled")
	}

	// 7. Setup UseCases
	validate := validation.New()
	authCfg.Validate = validate

	authUC := usecase.NewAuthUsecase(authCfg)
	adminUC := usecase.NewAdminUsecase(accountRepo, securityEventRepo, audit)
	coachUC := usecase.NewCoachProfileUsecase(coachRepo, validate)
	clientUC := usecase.NewClientProfileUsecase(clientRepo, validate)
	sessionUC := usecase.NewSessionUsecase(sessionRepo, coachRepo, validate)
	bookingUC := usecase.NewBookingUsecase(bookingRepo, sessionRepo, coachRepo, accountRepo, gateway, cfg.PaymentReturnURL, validate)
	paymentUC := usecase.NewPaymentUsecase(bookingRepo, gateway)
	testimonialUC := usecase.NewTestimonialUsecase(testimonialRepo, bookingRepo, coachRepo, validate)
	followUC := usecase.NewFollowUsecase(followRepo, accountRepo)

	checks := map[string]usecase.Pinger{"database": dbPool.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		AdminUC:       adminUC,
		CoachUC:       coachUC,
		ClientUC:      clientUC,
		SessionUC:     sessionUC,
		BookingUC:     bookingUC,
		PaymentUC:     paymentUC,
		TestimonialUC: testimonialUC,
		FollowUC:      followUC,
		HealthUC:      healthUC,
		Config:        cfg,
		Audit:         audit,
		RateLimiter:   middleware.NewRateLimiter(redisClient, audit),
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
