package config

import (
	"encoding/json"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to a documented env var.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Database — single local SQLite file
	DBPath string `mapstructure:"DB_PATH"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	// AdminPassword grants the admin role; UserPasswordsJSON is a JSON array
	// of shared passwords that grant the user role.
	AdminPassword     string `mapstructure:"ADMIN_PASSWORD"`
	UserPasswordsJSON string `mapstructure:"USER_PASSWORDS_JSON"`

	// OpenAI
	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`
	VisionModel  string `mapstructure:"OPENAI_MODEL_VISION"`
	TextModel    string `mapstructure:"OPENAI_MODEL_TEXT"`

	// Daily per-user ceilings for external AI calls
	DailyImageLimit int `mapstructure:"DAILY_IMAGE_LIMIT_PER_USER"`
	DailyTextLimit  int `mapstructure:"DAILY_TEXT_LIMIT_PER_USER"`

	// SMTP — optional, used to mail health-check reports to customers
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	// PDF export needs a UTF-8 TTF that covers Traditional Chinese
	// (e.g. NotoSansTC-Regular.ttf). Empty disables the PDF endpoint.
	PDFFontPath string `mapstructure:"PDF_FONT_PATH"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// AutomaticEnv alone is not enough for Unmarshal: keys without a default
	// or a .env entry are invisible to it, so secrets supplied as plain
	// environment variables would come back empty. Bind every mapped key.
	for _, key := range []string{
		"PORT", "APP_ENV", "DB_PATH",
		"JWT_SECRET", "JWT_EXPIRATION_HOURS", "ADMIN_PASSWORD", "USER_PASSWORDS_JSON",
		"OPENAI_API_KEY", "OPENAI_MODEL_VISION", "OPENAI_MODEL_TEXT",
		"DAILY_IMAGE_LIMIT_PER_USER", "DAILY_TEXT_LIMIT_PER_USER",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD",
		"PDF_FONT_PATH",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_PATH", "insurance_app.db")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 8)
	viper.SetDefault("USER_PASSWORDS_JSON", "[]")
	viper.SetDefault("OPENAI_MODEL_VISION", "gpt-4.1-mini")
	viper.SetDefault("OPENAI_MODEL_TEXT", "gpt-4.1-mini")
	viper.SetDefault("DAILY_IMAGE_LIMIT_PER_USER", 30)
	viper.SetDefault("DAILY_TEXT_LIMIT_PER_USER", 80)
	viper.SetDefault("SMTP_PORT", 587)

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UserPasswords decodes USER_PASSWORDS_JSON into the shared password list.
// Malformed JSON yields an empty list: shared logins simply fail instead of
// the server refusing to start over a secondary credential set.
func (c *Config) UserPasswords() []string {
	var list []string
	if err := json.Unmarshal([]byte(c.UserPasswordsJSON), &list); err != nil {
		return nil
	}
	return list
}
