package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for agrisense-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"5000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// SessionSecret signs browser session cookies.
	SessionSecret string `yaml:"-" env:"SESSION_SECRET"`

	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Weather  WeatherConfig  `yaml:"weather"`
	Crop     CropConfig     `yaml:"crop"`
	Detector DetectorConfig `yaml:"detector"`
	Chat     ChatConfig     `yaml:"chat"`
	Uploads  UploadsConfig  `yaml:"uploads"`
}

// AuthConfig holds token issuance settings.
type AuthConfig struct {
	// JWTSecret signs access and refresh tokens. Server refuses to start without it.
	JWTSecret  string        `yaml:"-" env:"JWT_SECRET"`
	AccessTTL  time.Duration `yaml:"access_ttl" env:"AUTH_ACCESS_TTL" env-default:"2h"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"AUTH_REFRESH_TTL" env-default:"168h"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string        `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string        `yaml:"user" env:"PGUSER" env-default:"agrisense"`
	Password       string        `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string        `yaml:"database" env:"PGDATABASE" env-default:"agrisense_engine"`
	MaxConnections int32         `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	ConnLifetime   time.Duration `yaml:"conn_lifetime" env:"PGCONN_LIFETIME" env-default:"1h"`
	ConnIdleTime   time.Duration `yaml:"conn_idle_time" env:"PGCONN_IDLE_TIME" env-default:"30m"`
	SSLMode        string        `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string        `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// RedisConfig holds optional Redis configuration for chat history.
// Leave Host empty to keep history in process memory.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// WeatherConfig holds weather provider and cache settings.
type WeatherConfig struct {
	BaseURL      string        `yaml:"base_url" env:"WEATHER_BASE_URL" env-default:"https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline"`
	APIKey       string        `yaml:"-" env:"WEATHER_API_KEY"`
	CachePath    string        `yaml:"cache_path" env:"WEATHER_CACHE_PATH" env-default:"weather_cache.json"`
	LookbackDays int           `yaml:"lookback_days" env:"WEATHER_LOOKBACK_DAYS" env-default:"90"`
	Timeout      time.Duration `yaml:"timeout" env:"WEATHER_TIMEOUT" env-default:"15s"`
}

// CropConfig holds crop recommendation model settings.
type CropConfig struct {
	// ArtifactPath points to the YAML file with scaler parameters and class names.
	ArtifactPath string        `yaml:"artifact_path" env:"CROP_ARTIFACT_PATH" env-default:"artifacts/crop_model.yaml"`
	ScorerURL    string        `yaml:"scorer_url" env:"CROP_SCORER_URL" env-default:"http://localhost:8501"`
	Timeout      time.Duration `yaml:"timeout" env:"CROP_TIMEOUT" env-default:"30s"`
}

// DetectorConfig holds disease detection model service settings.
type DetectorConfig struct {
	URL     string        `yaml:"url" env:"DETECTOR_URL" env-default:"http://localhost:8600"`
	Timeout time.Duration `yaml:"timeout" env:"DETECTOR_TIMEOUT" env-default:"60s"`
	// Reference tables for enrichment.
	DiseaseInfoPath    string `yaml:"disease_info_path" env:"DISEASE_INFO_PATH" env-default:"artifacts/disease_info.csv"`
	SupplementInfoPath string `yaml:"supplement_info_path" env:"SUPPLEMENT_INFO_PATH" env-default:"artifacts/supplement_info.csv"`
}

// ChatConfig holds chatbot collaborator settings.
type ChatConfig struct {
	LLMBaseURL   string        `yaml:"llm_base_url" env:"CHAT_LLM_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	LLMModel     string        `yaml:"llm_model" env:"CHAT_LLM_MODEL" env-default:"gemini-2.5-flash"`
	LLMAPIKey    string        `yaml:"-" env:"CHAT_LLM_API_KEY"`
	TranslateURL string        `yaml:"translate_url" env:"CHAT_TRANSLATE_URL" env-default:"http://localhost:8700"`
	Timeout      time.Duration `yaml:"timeout" env:"CHAT_TIMEOUT" env-default:"60s"`
}

// UploadsConfig holds uploaded image storage settings.
type UploadsConfig struct {
	Dir      string `yaml:"dir" env:"UPLOADS_DIR" env-default:"static/uploads"`
	MaxBytes int64  `yaml:"max_bytes" env:"UPLOADS_MAX_BYTES" env-default:"10485760"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces required secrets and directory availability at startup.
func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must be set")
	}
	if err := os.MkdirAll(c.Uploads.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create uploads dir %q: %w", c.Uploads.Dir, err)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
