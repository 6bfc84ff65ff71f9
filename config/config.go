package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

type Config struct {
	App         AppConfig
	DB          DBConfig
	Redis       RedisConfig
	ExternalAPI ExternalAPIConfig
	Resi        ResiConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type DBConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// ExternalAPIConfig holds the base URLs of the vehicle and guarantee
// lookup services. Both share one timeout.
type ExternalAPIConfig struct {
	ClaimBaseURL   string
	VehicleBaseURL string
	Timeout        time.Duration
}

type ResiConfig struct {
	Prefix string
}

// LoadConfig reads configuration from the given env file (if it exists)
// and from the process environment. Environment variables win.
func LoadConfig(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config file %s: %w", envFile, err)
			}
		}
	}

	timeout, err := time.ParseDuration(v.GetString("EXTERNAL_API_TIMEOUT"))
	if err != nil || timeout <= 0 {
		timeout = 10 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		ExternalAPI: ExternalAPIConfig{
			ClaimBaseURL:   strings.TrimRight(v.GetString("CLAIM_API_BASE_URL"), "/"),
			VehicleBaseURL: strings.TrimRight(v.GetString("VEHICLE_API_BASE_URL"), "/"),
			Timeout:        timeout,
		},
		Resi: ResiConfig{
			Prefix: v.GetString("RESI_PREFIX"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", DBDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SQLITE_PATH", "jrcts.db")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CLAIM_API_BASE_URL", "https://ceknopol.sukipli.work")
	v.SetDefault("VEHICLE_API_BASE_URL", "https://ceknopol.sukipli.work")
	v.SetDefault("EXTERNAL_API_TIMEOUT", "10s")
	v.SetDefault("RESI_PREFIX", "JR-CTS")
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.ExternalAPI.ClaimBaseURL == "" || c.ExternalAPI.VehicleBaseURL == "" {
		return errors.New("CLAIM_API_BASE_URL and VEHICLE_API_BASE_URL are required")
	}
	if strings.TrimSpace(c.Resi.Prefix) == "" {
		return errors.New("RESI_PREFIX must not be empty")
	}
	return nil
}
