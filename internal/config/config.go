package config

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type JWTConfig struct {
	// Key is the HMAC signing key. Secrets shorter than 32 bytes are
	// stretched through SHA-256 to a fixed-length key.
	Key        []byte
	Issuer     string
	Audience   string
	ExpMinutes int
}

// requiredVars must all be present or the process refuses to start.
var requiredVars = []string{
	"DB_HOST",
	"DB_PORT",
	"DB_USER",
	"DB_PASSWORD",
	"DB_DATABASE",
	"JWT_SECRET",
	"JWT_ISSUER",
	"JWT_AUDIENCE",
	"JWT_EXP_MINUTES",
}

// Load reads configuration from .env and the environment.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:4200")

	// Missing file is fine; process environment may carry everything.
	_ = viper.ReadInConfig()

	var missing []string
	for _, name := range requiredVars {
		if strings.TrimSpace(viper.GetString(name)) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	expMinutes := viper.GetInt("JWT_EXP_MINUTES")
	if expMinutes <= 0 {
		return nil, fmt.Errorf("JWT_EXP_MINUTES must be a positive integer, got %q", viper.GetString("JWT_EXP_MINUTES"))
	}

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			AllowedOrigins: splitOrigins(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		JWT: JWTConfig{
			Key:        SigningKey(viper.GetString("JWT_SECRET")),
			Issuer:     viper.GetString("JWT_ISSUER"),
			Audience:   viper.GetString("JWT_AUDIENCE"),
			ExpMinutes: expMinutes,
		},
	}, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// SigningKey derives the HMAC key from the configured secret. Secrets of 32
// bytes or more are used as-is.
func SigningKey(secret string) []byte {
	if len(secret) < 32 {
		sum := sha256.Sum256([]byte(secret))
		return sum[:]
	}
	return []byte(secret)
}
