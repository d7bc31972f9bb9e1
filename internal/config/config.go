package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/pflag"
)

type Config struct {
	Env        string           `yaml:"env" env:"IMPNET_ENV" env-default:"local"` // environment
	LogPath    string           `yaml:"log_path" env-default:"impnet.log"`
	API        APIConfig        `yaml:"api"`
	Session    SessionConfig    `yaml:"session"`
	Storage    StorageConfig    `yaml:"storage"`
	UI         UIConfig         `yaml:"ui"`
	MockServer MockServerConfig `yaml:"mock_server"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// APIConfig адрес бэкенда; префикс /api добавляет клиент
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"IMPNET_BACKEND_URL" env-default:"http://localhost:8001"`
	Timeout time.Duration `yaml:"timeout" env-default:"0s"` // 0 - таймаут транспорта по умолчанию
}

// SessionConfig поведение регистрации: auto_login или then_login
type SessionConfig struct {
	RegisterMode string `yaml:"register_mode" env-default:"auto_login"`
}

// StorageConfig где хранится токен и тема между запусками
type StorageConfig struct {
	Driver   string         `yaml:"driver" env-default:"file"` // file|postgres|redis
	Path     string         `yaml:"path" env-default:"~/.impnet/state.yaml"`
	Profile  string         `yaml:"profile" env-default:"default"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
}

// DatabaseConfig структура по работе с БД
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-default:"postgres"`
	Password string `yaml:"-" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env-default:"impnet"`
}

type RedisConfig struct {
	Address  string `yaml:"address" env-default:"localhost:6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

type UIConfig struct {
	Theme string `yaml:"theme" env-default:"dark"`
}

// MockServerConfig настройка локального тестового бэкенда
type MockServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	TokenTTL    int           `yaml:"token_ttl" env-default:"30"`
	JWTSecret   string        `yaml:"-" env:"JWT_SECRET" env-default:"impnet-dev-secret"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// MustLoad - если не загружаем - паникуем. Без файла конфигурация читается из окружения.
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		return MustLoadEnv()
	}
	return MustLoadByPath(configPath)
}

// fetchConfigPath ищет --config среди аргументов, остальные флаги разбирает cmd
func fetchConfigPath() string {
	var path string

	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.StringVar(&path, "config", "", "path to config file")
	_ = fs.Parse(os.Args[1:])

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s: %v", configPath, err)
	}

	return &cfg
}

func MustLoadEnv() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("can't read config from environment: %v", err)
	}
	return &cfg
}
