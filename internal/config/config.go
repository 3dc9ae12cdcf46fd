package config

import (
	"fmt"     // Error wrapping
	"strings" // String manipulation

	"github.com/caarlos0/env/v10" // Struct tag based environment parsing
	"github.com/joho/godotenv"    // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3001"`        // Application port
	AppName string `env:"APP_NAME" envDefault:"BulkDeleter"` // Product name used in mails
	IsProd  bool   `env:"IS_PROD" envDefault:"false"`        // Is production environment

	DBDriver    string `env:"DB_DRIVER" envDefault:"mysql"`        // Database driver: mysql or postgres
	DBUser      string `env:"DB_USER"`                             // Database user
	DBPassword  string `env:"DB_PASSWORD"`                         // Database password
	DBHost      string `env:"DB_HOST" envDefault:"127.0.0.1"`      // Database host
	DBPort      string `env:"DB_PORT" envDefault:"3306"`           // Database port
	DBName      string `env:"DB_NAME" envDefault:"saas"`           // Database name
	DatabaseURL string `env:"DATABASE_URL"`                        // Full DSN, overrides the DB_* parts
	JWTSecret   string `env:"JWT_SECRET,required,notEmpty"`        // JWT secret key
	BcryptCost  int    `env:"BCRYPT_COST" envDefault:"12"`         // bcrypt cost factor
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`         // logrus level
	RedisAddr   string `env:"REDIS_ADDR"`                          // Redis server address, empty disables caching
	RedisPass   string `env:"REDIS_PASS"`                          // Redis password
	RedisDB     int    `env:"REDIS_DB" envDefault:"0"`             // Redis database number
	CORSOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"` // Comma separated list of allowed origins

	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:3001"` // Base URL of this API, used in verification links
	FrontendURL   string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`    // Base URL of the web client

	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"` // SMTP server host
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`            // SMTP server port
	SMTPUsername string `env:"EMAIL_USER"`                            // SMTP user, empty logs mails instead of sending
	SMTPPassword string `env:"EMAIL_PASS"`                            // SMTP password

	StripeSecretKey string `env:"STRIPE_SECRET_KEY"` // Stripe API secret

	RateLimitPerMin       int    `env:"RATE_LIMIT_PER_MIN" envDefault:"20"`              // Requests per minute per IP on auth routes, 0 disables
	VerificationRetrySpec string `env:"VERIFICATION_RETRY_SPEC" envDefault:"@every 15m"` // Cron spec for re-sending verification mails, empty disables
	StrictTokenErrors     bool   `env:"STRICT_TOKEN_ERRORS" envDefault:"false"`          // Answer 401 instead of 500 on undecodable tokens
	ProtectRoutes         bool   `env:"PROTECT_ROUTES" envDefault:"false"`               // Require a session token on mutating blog and user routes
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL // Explicit DSN wins
	}
	if c.DBDriver == "postgres" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	}
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// AllowedOrigins splits the CORS origin list
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// MailEnabled reports whether SMTP credentials were provided
func (c *Config) MailEnabled() bool {
	return c.SMTPUsername != "" && c.SMTPPassword != ""
}
