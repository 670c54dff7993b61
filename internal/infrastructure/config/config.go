package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// StoreConfig holds the location and behaviour of the two JSON documents
type StoreConfig struct {
	BaseDir        string        `mapstructure:"base_dir"`
	StylesFile     string        `mapstructure:"styles_file"`
	CategoriesFile string        `mapstructure:"categories_file"`
	ImageDir       string        `mapstructure:"image_dir"`
	AllCategory    string        `mapstructure:"all_category"`
	CacheCapacity  int           `mapstructure:"cache_capacity"`
	SettleDelay    time.Duration `mapstructure:"settle_delay"`
	PreviewMaxSize int           `mapstructure:"preview_max_size"`
	Watch          bool          `mapstructure:"watch"`
	WatchDebounce  time.Duration `mapstructure:"watch_debounce"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type loadOptions struct {
	configFile string
	flags      *pflag.FlagSet
	skipDotEnv bool
}

// Option customizes Load
type Option func(*loadOptions)

// WithConfigFile reads an additional yaml/toml/json config file
func WithConfigFile(path string) Option {
	return func(o *loadOptions) { o.configFile = path }
}

// WithFlags binds the command line flags listed in flagKeys over env and file values
func WithFlags(flags *pflag.FlagSet) Option {
	return func(o *loadOptions) { o.flags = flags }
}

// WithoutDotEnv skips loading a .env file from the working directory
func WithoutDotEnv() Option {
	return func(o *loadOptions) { o.skipDotEnv = true }
}

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"base-dir":  "store.base_dir",
	"host":      "server.host",
	"port":      "server.port",
	"log-level": "logger.level",
	"watch":     "store.watch",
}

// Load loads configuration from various sources
func Load(opts ...Option) (*Config, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	// Load .env file if it exists (ignore errors)
	if !o.skipDotEnv {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if o.flags != nil {
		for name, key := range flagKeys {
			if flag := o.flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Style Selector")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.port", 7861)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")

	// Store defaults
	v.SetDefault("store.base_dir", ".")
	v.SetDefault("store.styles_file", "sdxl_styles.json")
	v.SetDefault("store.categories_file", "categories.json")
	v.SetDefault("store.image_dir", "MGTV")
	v.SetDefault("store.all_category", "全部")
	v.SetDefault("store.cache_capacity", 2)
	v.SetDefault("store.settle_delay", "300ms")
	v.SetDefault("store.preview_max_size", 1024)
	v.SetDefault("store.watch", false)
	v.SetDefault("store.watch_debounce", "500ms")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.filename", "")

	// Security defaults
	v.SetDefault("security.cors_allowed_origins", "http://127.0.0.1:7860,http://localhost:7860")
	v.SetDefault("security.rate_limit_requests", 50)
	v.SetDefault("security.rate_limit_window", "1m")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("app.debug", "APP_DEBUG")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")
	v.BindEnv("server.idle_timeout", "SERVER_IDLE_TIMEOUT")

	// Store
	v.BindEnv("store.base_dir", "STYLE_SELECTOR_BASE_DIR")
	v.BindEnv("store.styles_file", "STYLE_SELECTOR_STYLES_FILE")
	v.BindEnv("store.categories_file", "STYLE_SELECTOR_CATEGORIES_FILE")
	v.BindEnv("store.image_dir", "STYLE_SELECTOR_IMAGE_DIR")
	v.BindEnv("store.all_category", "STYLE_SELECTOR_ALL_CATEGORY")
	v.BindEnv("store.cache_capacity", "STYLE_SELECTOR_CACHE_CAPACITY")
	v.BindEnv("store.settle_delay", "STYLE_SELECTOR_SETTLE_DELAY")
	v.BindEnv("store.preview_max_size", "STYLE_SELECTOR_PREVIEW_MAX_SIZE")
	v.BindEnv("store.watch", "STYLE_SELECTOR_WATCH")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
	v.BindEnv("logger.output", "LOG_OUTPUT")
	v.BindEnv("logger.filename", "LOG_FILENAME")

	// Security
	v.BindEnv("security.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	v.BindEnv("security.rate_limit_requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("security.rate_limit_window", "RATE_LIMIT_WINDOW")

	// Metrics
	v.BindEnv("metrics.enabled", "ENABLE_METRICS")
}

func validateConfig(cfg *Config) error {
	if cfg.Store.BaseDir == "" {
		return fmt.Errorf("store base directory is required")
	}

	if cfg.Store.StylesFile == "" || cfg.Store.CategoriesFile == "" {
		return fmt.Errorf("store styles and categories file names are required")
	}

	if cfg.Store.StylesPath() == cfg.Store.CategoriesPath() {
		return fmt.Errorf("styles and categories must be different files")
	}

	if cfg.Store.CacheCapacity < 1 {
		return fmt.Errorf("store cache capacity must be at least 1")
	}

	if cfg.Store.SettleDelay < 0 {
		return fmt.Errorf("store settle delay cannot be negative")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if cfg.Logger.Format != "json" && cfg.Logger.Format != "console" {
		return fmt.Errorf("logger format must be json or console")
	}

	return nil
}

// StylesPath returns the style catalog file path
func (cfg StoreConfig) StylesPath() string {
	return cfg.resolve(cfg.StylesFile)
}

// CategoriesPath returns the category index file path
func (cfg StoreConfig) CategoriesPath() string {
	return cfg.resolve(cfg.CategoriesFile)
}

// ImagePath returns the preview image directory
func (cfg StoreConfig) ImagePath() string {
	return cfg.resolve(cfg.ImageDir)
}

func (cfg StoreConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(cfg.BaseDir, name)
}

// GetAddr returns the server listen address
func (cfg *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// IsProduction returns true if the environment is production
func (cfg *AppConfig) IsProduction() bool {
	return cfg.Environment == "production"
}
