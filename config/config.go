package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Email         EmailConfig
	GoogleSheets  GoogleSheetsConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
	CORSAllowAll   bool
}

type EmailConfig struct {
	Host        string
	Port        int
	User        string
	Pass        string
	Recipient   string
	CompanyName string
	TeamName    string
	SendTimeout time.Duration
}

type GoogleSheetsConfig struct {
	SheetURL           string
	WebhookURL         string
	ServiceAccountPath string
	ServiceAccountJSON string
	SheetName          string
	WebhookTimeout     time.Duration
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	OTLPEndpoint      string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "5000")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("CORS_ALLOW_ALL", true)
	v.SetDefault("ALLOWED_CORS_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("EMAIL_PORT", 587)
	v.SetDefault("EMAIL_SEND_TIMEOUT_SECONDS", 25)
	v.SetDefault("COMPANY_NAME", "Your Company")
	v.SetDefault("TEAM_NAME", "Your Team")
	v.SetDefault("GOOGLE_SHEETS_SHEET_NAME", "Sheet1")
	v.SetDefault("GOOGLE_SHEETS_WEBHOOK_TIMEOUT_SECONDS", 10)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "formrelay-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "formrelay")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "formrelay-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	for _, origin := range strings.Split(v.GetString("ALLOWED_CORS_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: allowedOrigins,
			CORSAllowAll:   v.GetBool("CORS_ALLOW_ALL"),
		},
		Email: EmailConfig{
			Host:        v.GetString("EMAIL_HOST"),
			Port:        v.GetInt("EMAIL_PORT"),
			User:        v.GetString("EMAIL_USER"),
			Pass:        v.GetString("EMAIL_PASS"),
			Recipient:   v.GetString("RECIPIENT_EMAIL"),
			CompanyName: v.GetString("COMPANY_NAME"),
			TeamName:    v.GetString("TEAM_NAME"),
			SendTimeout: time.Duration(v.GetInt("EMAIL_SEND_TIMEOUT_SECONDS")) * time.Second,
		},
		GoogleSheets: GoogleSheetsConfig{
			SheetURL:           v.GetString("GOOGLE_SHEETS_URL"),
			WebhookURL:         v.GetString("GOOGLE_SHEETS_WEBHOOK_URL"),
			ServiceAccountPath: v.GetString("GOOGLE_SERVICE_ACCOUNT_PATH"),
			ServiceAccountJSON: v.GetString("GOOGLE_SERVICE_ACCOUNT_JSON"),
			SheetName:          v.GetString("GOOGLE_SHEETS_SHEET_NAME"),
			WebhookTimeout:     time.Duration(v.GetInt("GOOGLE_SHEETS_WEBHOOK_TIMEOUT_SECONDS")) * time.Second,
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint:      v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set. Email and
// spreadsheet settings are deliberately not required here: their absence
// disables the respective channel per request instead of blocking startup.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if !c.Server.CORSAllowAll && len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required when CORS_ALLOW_ALL is false")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// MissingEmailFields lists required email settings that are unset. A
// non-empty result means the email channel will fail per-request with a
// configuration error; operators should see this at startup.
func (c *Config) MissingEmailFields() []string {
	var missing []string
	if c.Email.Host == "" {
		missing = append(missing, "EMAIL_HOST")
	}
	if c.Email.Port == 0 {
		missing = append(missing, "EMAIL_PORT")
	}
	if c.Email.User == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if c.Email.Pass == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	if c.Email.Recipient == "" {
		missing = append(missing, "RECIPIENT_EMAIL")
	}
	return missing
}

// SheetsConfigured returns true when a spreadsheet URL is set.
func (c *Config) SheetsConfigured() bool {
	return c.GoogleSheets.SheetURL != ""
}

// ServiceAccountConfigured returns true when either service-account
// credential form is present.
func (c *Config) ServiceAccountConfigured() bool {
	return c.GoogleSheets.ServiceAccountPath != "" || c.GoogleSheets.ServiceAccountJSON != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
