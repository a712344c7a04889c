package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	Storage    Storage    `yaml:"storage"`
	Scheduling Scheduling `yaml:"scheduling"`
	Log        Log        `yaml:"log"`
	CORS       CORS       `yaml:"cors"`

	// Seed заливает станки и BOM из internal/constants при старте (идемпотентно)
	Seed bool `yaml:"seed" env:"SEED" env-default:"false"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Storage struct {
	Driver     string `yaml:"driver" env:"DB_DRIVER" env-default:"mysql"`
	DBUser     string `yaml:"db_user" env:"DB_USER"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost     string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort     int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName     string `yaml:"db_name" env:"DB_NAME"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"./scheduler.db"`
}

type Scheduling struct {
	// RunTimeout ограничивает один прогон авто-планирования
	RunTimeout time.Duration `yaml:"run_timeout" env-default:"2m"`
	// PrefetchLimit сколько BOM/пулов станков грузим параллельно при старте прогона
	PrefetchLimit int `yaml:"prefetch_limit" env-default:"4"`
}

type Log struct {
	ErrorFile  string `yaml:"error_file" env:"LOG_ERROR_FILE" env-default:"errors.log"`
	MaxSizeMB  int    `yaml:"max_size_mb" env-default:"10"`
	MaxBackups int    `yaml:"max_backups" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env-default:"28"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}

// MustConfig читает конфиг по CONFIG_PATH (по умолчанию ./config/local.yaml) и падает при ошибке.
func MustConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultPath
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: config file %s: %w", op, path, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "mysql":
		if c.Storage.DBUser == "" || c.Storage.DBName == "" {
			return fmt.Errorf("storage: db_user and db_name are required for mysql")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage: sqlite_path is required for sqlite")
		}
	default:
		return fmt.Errorf("storage: unknown driver %q", c.Storage.Driver)
	}

	if c.Scheduling.PrefetchLimit < 1 {
		c.Scheduling.PrefetchLimit = 1
	}

	return nil
}
