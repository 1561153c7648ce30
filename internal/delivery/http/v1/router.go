package v1

import (
	"time"

	"coachflow-backend/config"
	"coachflow-backend/internal/delivery/http/middleware"
	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/logger"
	"coachflow-backend/pkg/security"
	"coachflow-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// guard builds the capability check for a route group.
type guard func(domain.Capability) gin.HandlerFunc

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	AdminUC       domain.AdminUsecase
	CoachUC       domain.CoachProfileUsecase
	ClientUC      domain.ClientProfileUsecase
	SessionUC     domain.SessionUsecase
	BookingUC     domain.BookingUsecase
	PaymentUC     domain.PaymentUsecase
	TestimonialUC domain.TestimonialUsecase
	FollowUC      domain.FollowUsecase
	HealthUC      HealthChecker
	Config        *config.Config
	Audit         *security.SecurityLogger
	RateLimiter   *middleware.RateLimiter
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	r := gin.New()

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil, deps.Audit)
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(limiter.Middleware(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")

	NewHealthHandler(api, deps.HealthUC)

	if deps.Config.DocsEnabled() {
		api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		logger.Log.Info("API docs enabled", "path", "/api/swagger/index.html")
	}

	require := func(capability domain.Capability) gin.HandlerFunc {
		return middleware.RequireCapability(capability, deps.Audit)
	}
	authLimit := limiter.Middleware(middleware.AuthRateLimitConfig(deps.Config.RateLimitLoginThreshold, window))

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthUC, deps.Audit))
	{
		NewAuthHandler(api, protected, deps.AuthUC, deps.Config, authLimit)
		NewCoachHandler(api, protected, deps.CoachUC, require)
		NewClientHandler(protected, deps.ClientUC, require)
		NewSessionHandler(api, protected, deps.SessionUC, require)
		NewBookingHandler(protected, deps.BookingUC, require)
		NewPaymentHandler(protected, deps.PaymentUC)
		NewTestimonialHandler(api, protected, deps.TestimonialUC, require)
		NewFollowHandler(api, protected, deps.FollowUC, require)
		NewAdminHandler(protected, deps.AdminUC, require)
	}

	return r
}
