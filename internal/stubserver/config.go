package stubserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/jub0bs/cors"

	apikit "github.com/appfoundry/apikit"
)

// Config for the stub API server, loaded from the environment.
type Config struct {
	Environment    string        `env:"ENVIRONMENT,default=dev"`
	Host           string        `env:"HOST,default=0.0.0.0"`
	Port           int           `env:"PORT,default=3000"`
	LogLevel       string        `env:"LOG_LEVEL,default=debug"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT,default=65s"`
	IdleTimeout    time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	RateLimitRPS   int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst int32         `env:"RATE_LIMIT_BURST,default=20"`
	MaxRequestSize int64         `env:"MAX_REQUEST_SIZE,default=65536"` // 64KB
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS,separator=|"`

	// SecretKey signs the JWTs issued by the dev login endpoint. The default
	// is fine for local development, which is all this server is for.
	SecretKey string `env:"SECRET_KEY,default=apikit-dev-secret-do-not-use-in-prod"`

	// Fixed credential accepted by POST /api/auth/login.
	DevEmail    string `env:"DEV_EMAIL,default=dev@example.com"`
	DevPassword string `env:"DEV_PASSWORD,default=password"`

	// SchemaPath optionally points at a JSON Schema file; when set, bodies
	// sent to POST /api/echo are validated against it.
	SchemaPath string `env:"SCHEMA_PATH"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"staging": true,
	"prod":    true,
}

func NewConfig() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, staging, prod", cfg.Environment)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive, got %v", cfg.WriteTimeout)
	}
	if cfg.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive, got %v", cfg.IdleTimeout)
	}

	if cfg.MaxRequestSize < 1 {
		return fmt.Errorf("max request size must be at least 1 byte, got %d", cfg.MaxRequestSize)
	}

	if cfg.DevEmail == "" || cfg.DevPassword == "" {
		return fmt.Errorf("DEV_EMAIL and DEV_PASSWORD cannot be empty")
	}

	// default to all origins: browser front-ends on arbitrary dev ports are
	// the expected consumers
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	return nil
}

// newCORSMiddleware builds the CORS policy applied to all API routes.
func newCORSMiddleware(cfg *Config) (*cors.Middleware, error) {
	origins := make([]string, len(cfg.AllowedOrigins))
	for i, origin := range cfg.AllowedOrigins {
		origins[i] = strings.TrimSpace(origin)
	}

	corsConfig := cors.Config{
		Origins: origins,
		Methods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		RequestHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-Id",
		},
		MaxAgeInSeconds: apikit.CORSMaxAgeInSeconds,
	}

	middleware, err := cors.NewMiddleware(corsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create CORS middleware: %w", err)
	}

	return middleware, nil
}
