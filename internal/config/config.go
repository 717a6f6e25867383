package config

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

const (
	CorrelationLast  = "last"
	CorrelationKeyed = "keyed"

	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

var errMissingRedisAddr = errors.New("rate_limit.redis_addr is required when rate_limit.store is redis")

type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Gateway     GatewayConfig     `koanf:"gateway"`
	Order       OrderConfig       `koanf:"order"`
	Mailer      MailerConfig      `koanf:"mailer"`
	RateLimit   RateLimitConfig   `koanf:"rate_limit"`
	Correlation CorrelationConfig `koanf:"correlation"`
	Worker      WorkerConfig      `koanf:"worker"`
	Logger      LoggerConfig      `koanf:"logger"`
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

// GatewayConfig holds the payment provider credentials and the shape of its order payload.
type GatewayConfig struct {
	BaseURL   string        `koanf:"base_url" validate:"required,url"`
	KeyID     string        `koanf:"key_id" validate:"required"`
	KeySecret string        `koanf:"key_secret" validate:"required"`
	Timeout   time.Duration `koanf:"timeout" validate:"required"`
	Fields    OrderFields   `koanf:"fields"`
}

// OrderFields names the provider response fields read back into an order.
type OrderFields struct {
	ID       string `koanf:"id" validate:"required"`
	Amount   string `koanf:"amount" validate:"required"`
	Currency string `koanf:"currency" validate:"required"`
}

type OrderConfig struct {
	Currency string `koanf:"currency" validate:"required,len=3"`
	Receipt  string `koanf:"receipt" validate:"required"`
}

type MailerConfig struct {
	Host           string        `koanf:"host" validate:"required"`
	Port           int           `koanf:"port" validate:"required"`
	User           string        `koanf:"user" validate:"required"`
	Password       string        `koanf:"password" validate:"required"`
	Timeout        time.Duration `koanf:"timeout" validate:"required"`
	AttachmentPath string        `koanf:"attachment_path" validate:"required"`
}

type RateLimitConfig struct {
	Window    time.Duration `koanf:"window" validate:"required"`
	Max       int           `koanf:"max" validate:"required,min=1"`
	Store     string        `koanf:"store" validate:"required,oneof=memory redis"`
	RedisAddr string        `koanf:"redis_addr"`
}

type CorrelationConfig struct {
	Mode     string        `koanf:"mode" validate:"required,oneof=last keyed"`
	OrderTTL time.Duration `koanf:"order_ttl" validate:"required"`
}

type WorkerConfig struct {
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"required"`
}

// envKeys maps the recognised environment variables onto config keys.
// Variables outside this table are ignored.
var envKeys = map[string]string{
	"PORT":            "server.port",
	"READ_TIMEOUT":    "server.read_timeout",
	"WRITE_TIMEOUT":   "server.write_timeout",
	"IDLE_TIMEOUT":    "server.idle_timeout",
	"REQUEST_TIMEOUT": "server.request_timeout",

	"KEY_ID":                 "gateway.key_id",
	"KEY_SECRET":             "gateway.key_secret",
	"GATEWAY_BASE_URL":       "gateway.base_url",
	"GATEWAY_TIMEOUT":        "gateway.timeout",
	"GATEWAY_FIELD_ID":       "gateway.fields.id",
	"GATEWAY_FIELD_AMOUNT":   "gateway.fields.amount",
	"GATEWAY_FIELD_CURRENCY": "gateway.fields.currency",

	"ORDER_CURRENCY": "order.currency",
	"ORDER_RECEIPT":  "order.receipt",

	"EMAIL_USER":      "mailer.user",
	"EMAIL_PASS":      "mailer.password",
	"SMTP_HOST":       "mailer.host",
	"SMTP_PORT":       "mailer.port",
	"SMTP_TIMEOUT":    "mailer.timeout",
	"ATTACHMENT_PATH": "mailer.attachment_path",

	"RATE_LIMIT_WINDOW": "rate_limit.window",
	"RATE_LIMIT_MAX":    "rate_limit.max",
	"RATE_LIMIT_STORE":  "rate_limit.store",
	"REDIS_ADDR":        "rate_limit.redis_addr",

	"CORRELATION_MODE": "correlation.mode",
	"ORDER_TTL":        "correlation.order_ttl",

	"SWEEP_INTERVAL": "worker.sweep_interval",

	"LOG_LEVEL":  "logger.level",
	"LOG_FORMAT": "logger.format",
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.port":            "3000",
		"server.read_timeout":    15 * time.Second,
		"server.write_timeout":   60 * time.Second,
		"server.idle_timeout":    60 * time.Second,
		"server.request_timeout": 45 * time.Second,

		"gateway.base_url":        "https://api.razorpay.com",
		"gateway.timeout":         10 * time.Second,
		"gateway.fields.id":       "id",
		"gateway.fields.amount":   "amount",
		"gateway.fields.currency": "currency",

		"order.currency": "INR",
		"order.receipt":  "Swagatam Railway Study Center",

		"mailer.host":            "smtp.gmail.com",
		"mailer.port":            465,
		"mailer.timeout":         15 * time.Second,
		"mailer.attachment_path": "./notes.zip",

		"rate_limit.window": 15 * time.Minute,
		"rate_limit.max":    20,
		"rate_limit.store":  RateLimitStoreMemory,

		"correlation.mode":      CorrelationLast,
		"correlation.order_ttl": 24 * time.Hour,

		"worker.sweep_interval": time.Minute,

		"logger.level":  "info",
		"logger.format": "text",
	}
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			logger.Error("failed to load config file", "path", path, "error", err)
			return nil, err
		}
	}

	err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	if err := mainConfig.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// Validate checks struct tags plus the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.RateLimit.Store == RateLimitStoreRedis && c.RateLimit.RedisAddr == "" {
		return errMissingRedisAddr
	}

	return nil
}
