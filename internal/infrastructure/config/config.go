package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"fitting-room/internal/domain/valueobjects"
)

const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
	BackendVTO    = "vto"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080" validate:"required,numeric"`

	ModelBackend string `env:"MODEL_BACKEND" envDefault:"gemini" validate:"oneof=gemini vertex vto"`

	// GEMINI_API_KEY wins over API_KEY.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	APIKey       string `env:"API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-image" validate:"required"`

	ProjectID       string `env:"PROJECT_ID"`
	Location        string `env:"LOCATION" envDefault:"us-central1" validate:"required"`
	VTOModel        string `env:"VTO_MODEL" envDefault:"virtual-try-on-preview-08-04" validate:"required"`
	CredentialsJSON string `env:"VERTEXAI_CREDENTIALS_JSON" validate:"omitempty,json"`

	AspectRatio  string        `env:"ASPECT_RATIO" envDefault:"3:4" validate:"aspect_ratio"`
	ModelTimeout time.Duration `env:"MODEL_TIMEOUT" envDefault:"120s" validate:"gt=0"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s" validate:"gt=0"`

	ImageProxyURL      string `env:"IMAGE_PROXY_URL" envDefault:"https://images.weserv.nl/" validate:"http_url"`
	ImageProxyDisabled bool   `env:"IMAGE_PROXY_DISABLED" envDefault:"false"`
	ImageProxyWidth    int    `env:"IMAGE_PROXY_WIDTH" envDefault:"1000" validate:"gt=0"`
	MaxUploadBytes     int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760" validate:"gt=0"`
	CatalogFile        string `env:"CATALOG_FILE"`

	// Comma separated; empty disables CORS.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	RedisAddr     string        `env:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	RedisUsername string        `env:"REDIS_USERNAME"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisUseTLS   bool          `env:"REDIS_USE_TLS" envDefault:"false"`
	AssetCacheTTL time.Duration `env:"ASSET_CACHE_TTL" envDefault:"1h" validate:"gt=0"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("aspect_ratio", func(fl validator.FieldLevel) bool {
		return valueobjects.IsSupportedAspectRatio(valueobjects.AspectRatio(fl.Field().String()))
	})
	return v
}

// Load reads .env when present and parses the environment into Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ResolvedAPIKey returns the Gemini API key, empty when none is configured.
func (c Config) ResolvedAPIKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.APIKey
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) TryOnParameters() (*valueobjects.TryOnParameters, error) {
	return valueobjects.NewTryOnParameters(valueobjects.AspectRatio(c.AspectRatio), valueobjects.MimeTypePNG)
}

func (c Config) ImageProxy() valueobjects.ImageProxy {
	if c.ImageProxyDisabled {
		return valueobjects.ImageProxy{}
	}
	proxy, _ := valueobjects.NewImageProxy(c.ImageProxyURL)
	return proxy
}
