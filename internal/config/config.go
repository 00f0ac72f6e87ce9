package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var current atomic.Pointer[Config]

// Config struct is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Form      FormConfig      `mapstructure:"form"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port          string `mapstructure:"port" validate:"required,numeric"`
	SessionSecret string `mapstructure:"session_secret" validate:"required,min=16"`
	// PublicURL overrides the request origin when building the QR code link.
	PublicURL     string `mapstructure:"public_url" validate:"omitempty,url"`
	SecureCookies bool   `mapstructure:"secure_cookies"`
}

// FormConfig holds the timings of the alumni form.
type FormConfig struct {
	FieldsFile      string        `mapstructure:"fields_file" validate:"required"`
	SubmitDelay     time.Duration `mapstructure:"submit_delay" validate:"gte=0"`
	SuccessDuration time.Duration `mapstructure:"success_duration" validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval" validate:"gt=0"`
}

// RateLimitConfig bounds how often a client may submit.
type RateLimitConfig struct {
	SubmitPerMinute uint `mapstructure:"submit_per_minute" validate:"gt=0"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory" validate:"required"`
	MaxSize    int    `mapstructure:"max_size" validate:"gt=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// Get returns the active configuration. It is safe to call while a reload is
// in progress.
func Get() *Config {
	return current.Load()
}

// Set replaces the active configuration; tests use it to install fixtures.
func Set(c *Config) {
	current.Store(c)
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.session_secret", "")
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.secure_cookies", false)

	// Form defaults
	v.SetDefault("form.fields_file", "config/fields.yaml")
	v.SetDefault("form.submit_delay", 2*time.Second)
	v.SetDefault("form.success_duration", 3*time.Second)
	v.SetDefault("form.idle_timeout", 30*time.Minute)
	v.SetDefault("form.sweep_interval", time.Minute)

	v.SetDefault("rate_limit.submit_per_minute", 5)

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs
}

// Load reads configuration from <projectRoot>/config/config.yaml, defaults and
// ALUMNI_* environment variables, validates it and makes it active. The
// returned viper instance can be passed to Watch.
func Load(projectRoot string) (*viper.Viper, error) {
	v := viper.New()

	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("ALUMNI") // e.g., ALUMNI_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	conf, err := decode(v)
	if err != nil {
		return nil, err
	}
	Set(conf)
	return v, nil
}

// Watch reloads the configuration whenever the file changes. A reload that
// fails validation is logged and the previous configuration stays active.
func Watch(v *viper.Viper, log *zap.Logger) {
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		conf, err := decode(v)
		if err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
			return
		}
		Set(conf)
	})
	v.WatchConfig()
}

func decode(v *viper.Viper) (*Config, error) {
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := validator.New().Struct(&conf); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &conf, nil
}
