package api

import (
	"saas_backend/internal/config"     // Custom package for configuration
	"saas_backend/internal/mail"       // Mail delivery
	"saas_backend/internal/middleware" // Custom package for middleware
	"saas_backend/internal/payment"    // Payment intents
	"time"                             // Rate limit window

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus"          // Prometheus registry
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics exposition
	"github.com/redis/go-redis/v9"                            // Redis client
	"github.com/sirupsen/logrus"                              // Logrus for structured logging
	"gorm.io/gorm"                                            // GORM ORM library
)

// Env holds the shared service handles built once at startup
type Env struct {
	DB       *gorm.DB              // Database handle
	Redis    *redis.Client         // Optional cache and rate limit store
	Mailer   mail.Sender           // Outbound mail
	Payments payment.IntentCreator // Payment processor
	Config   *config.Config        // Loaded configuration
	Registry *prometheus.Registry  // Optional metrics registry
	Logger   *logrus.Logger        // Request logger, defaults to the standard logger
}

// NewRouter builds the gin engine with every route and middleware
func NewRouter(env *Env) *gin.Engine {
	cfg := env.Config // Shorthand
	logger := env.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	r := gin.New() // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger), middleware.CORS(cfg.AllowedOrigins()))
	if env.Registry != nil {
		r.Use(middleware.NewMetrics(env.Registry).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(env.Registry, promhttp.HandlerOpts{})))
	}

	limit := middleware.RateLimit(env.Redis, cfg.RateLimitPerMin, time.Minute) // Throttle credential endpoints
	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)                        // Session token check

	// Operational routes
	r.GET("/healthz", HealthHandler(env.DB, env.Redis))

	// Auth routes
	r.POST("/register", limit, RegisterHandler(env.DB, env.Mailer, cfg))              // Registration endpoint
	r.GET("/verify/:token", VerifyEmailHandler(env.DB, cfg))                          // Verification link target
	r.POST("/login", limit, LoginHandler(env.DB, cfg))                                // Login endpoint
	r.POST("/forgot-password", limit, ForgotPasswordHandler(env.DB, env.Mailer, cfg)) // Reset link request
	r.POST("/reset-password/:token", limit, ResetPasswordHandler(env.DB, cfg))        // Reset link redemption
	r.GET("/me", auth, MeHandler(env.DB))                                             // Authenticated user

	// User directory routes
	r.GET("/users", ListUsersHandler(env.DB))
	r.GET("/users/:id", GetUserHandler(env.DB))
	r.GET("/user/:user", GetUserByEmailHandler(env.DB))

	// Billing and Google linkage, self-only when routes are protected
	userRoutes := r.Group("/user/:user")
	if cfg.ProtectRoutes {
		userRoutes.Use(auth, middleware.SelfOnlyMiddleware("user"))
	}
	userRoutes.GET("/billing", GetUserBillingHandler(env.DB, env.Redis))
	userRoutes.PUT("/google", LinkGoogleHandler(env.DB))

	// Blog routes, mutations need a session when routes are protected
	blogs := r.Group("/blogs")
	blogs.GET("", ListBlogsHandler(env.DB, env.Redis))
	blogs.GET("/:id", GetBlogHandler(env.DB))
	mutate := blogs.Group("")
	if cfg.ProtectRoutes {
		mutate.Use(auth)
	}
	mutate.POST("", CreateBlogHandler(env.DB, env.Redis))
	mutate.PUT("/:id", UpdateBlogHandler(env.DB, env.Redis))
	mutate.DELETE("/:id", DeleteBlogHandler(env.DB, env.Redis))

	// Payment routes
	r.POST("/create-intent", CreateIntentHandler(env.Payments))

	return r
}
