package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// DatabaseConfig selects and configures the credential store.
// Driver is one of "postgres", "mongo" or "memory".
type DatabaseConfig struct {
	Driver            string
	Host              string
	Port              string
	Name              string
	User              string
	Password          string
	MaxConns          int32
	MongoURI          string
	MigrationsEnabled bool
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	ProfileTTL time.Duration
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
	Issuer      string
}

type SecurityConfig struct {
	BcryptCost         int
	MasterAdmins       []string
	LoginRatePerMinute int
	LoginBurst         int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "bookstore-api")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIGRATE", true)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_PROFILE_TTL_SECONDS", 300)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_ISSUER", "bookstore-api")
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("MASTER_ADMINS", "admin123@gmail.com,bookstore@gmail.com")
	viper.SetDefault("LOGIN_RATE_PER_MINUTE", 20)
	viper.SetDefault("LOGIN_BURST", 5)

	// .env is optional, environment variables always win
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			RequestTimeout: time.Duration(viper.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver:            strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:              viper.GetString("DB_HOST"),
			Port:              viper.GetString("DB_PORT"),
			Name:              viper.GetString("DB_NAME"),
			User:              viper.GetString("DB_USER"),
			Password:          viper.GetString("DB_PASS"),
			MaxConns:          viper.GetInt32("DB_MAX_CONNS"),
			MongoURI:          viper.GetString("MONGO_URI"),
			MigrationsEnabled: viper.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:       viper.GetString("REDIS_ADDR"),
			Password:   viper.GetString("REDIS_PASSWORD"),
			DB:         viper.GetInt("REDIS_DB"),
			ProfileTTL: time.Duration(viper.GetInt("REDIS_PROFILE_TTL_SECONDS")) * time.Second,
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
			Issuer:      viper.GetString("JWT_ISSUER"),
		},
		Security: SecurityConfig{
			BcryptCost:         viper.GetInt("BCRYPT_COST"),
			MasterAdmins:       splitList(viper.GetString("MASTER_ADMINS")),
			LoginRatePerMinute: viper.GetInt("LOGIN_RATE_PER_MINUTE"),
			LoginBurst:         viper.GetInt("LOGIN_BURST"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if config.Database.MaxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be positive, got %d", config.Database.MaxConns)
	}

	return config, nil
}

// splitList parses a comma separated list into trimmed, lowercased entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := NormalizeEmail(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
