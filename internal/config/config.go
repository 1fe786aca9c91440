package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	// DefaultItemsKey es la clave del slot donde vive la lista completa.
	DefaultItemsKey = "pets_items"

	// DefaultMaxImageBytes: 5 MiB antes de codificar.
	DefaultMaxImageBytes = 5 * 1024 * 1024
)

type Config struct {
	HTTP    HTTP    `mapstructure:"http" yaml:"http"`
	Storage Storage `mapstructure:"storage" yaml:"storage"`
	Images  Images  `mapstructure:"images" yaml:"images"`
	Log     Log     `mapstructure:"log" yaml:"log"`
	App     App     `mapstructure:"app" yaml:"app"`
}

type HTTP struct {
	Port int `mapstructure:"port" yaml:"port"`
}

type Storage struct {
	Backend    string `mapstructure:"backend" yaml:"backend"`
	Key        string `mapstructure:"key" yaml:"key"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	DSN        string `mapstructure:"dsn" yaml:"dsn,omitempty"`
	// QuotaBytes solo aplica al backend memory (0 = sin límite).
	QuotaBytes int `mapstructure:"quota_bytes" yaml:"quota_bytes"`
}

type Images struct {
	MaxBytes int64 `mapstructure:"max_bytes" yaml:"max_bytes"`
}

type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type App struct {
	Name string `mapstructure:"name" yaml:"name"`
}

// DefaultPath devuelve ~/.config/lost-pets/config.yml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lost-pets", "config.yml")
}

func defaultSQLitePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "lost-pets", "pets.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 8080)
	v.SetDefault("storage.backend", "")
	v.SetDefault("storage.key", DefaultItemsKey)
	v.SetDefault("storage.sqlite_path", defaultSQLitePath())
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.quota_bytes", 0)
	v.SetDefault("images.max_bytes", DefaultMaxImageBytes)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("app.name", "lost-pets")
}

// Load lee defaults, el archivo YAML (PETS_CONFIG o DefaultPath, opcional)
// y variables de entorno con prefijo PETS_ (p.ej. PETS_STORAGE_BACKEND).
// Se aceptan también PORT, DB_DSN, LOG_LEVEL, LOG_FORMAT y APP_NAME.
func Load() (*Config, error) {
	path := os.Getenv("PETS_CONFIG")
	if path == "" {
		path = DefaultPath()
	}
	return LoadFile(path)
}

// LoadFile es Load con una ruta explícita. Si el archivo no existe se usan
// defaults + env.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PETS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("http.port", "PETS_HTTP_PORT", "PORT")
	_ = v.BindEnv("storage.dsn", "PETS_STORAGE_DSN", "DB_DSN")
	_ = v.BindEnv("log.level", "PETS_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "PETS_LOG_FORMAT", "LOG_FORMAT")
	_ = v.BindEnv("app.name", "PETS_APP_NAME", "APP_NAME")

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Sin backend explícito: postgres si hay DSN, si no in-memory.
	if strings.TrimSpace(cfg.Storage.Backend) == "" {
		cfg.Storage.Backend = BackendMemory
		if strings.TrimSpace(cfg.Storage.DSN) != "" {
			cfg.Storage.Backend = BackendPostgres
		}
	}

	cfg.Storage.SQLitePath = ExpandHome(cfg.Storage.SQLitePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.Storage.Key = strings.TrimSpace(c.Storage.Key)

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return errors.New("config: storage.sqlite_path required for sqlite backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return errors.New("config: storage.dsn required for postgres backend")
		}
	default:
		return fmt.Errorf("config: unknown storage.backend %q", c.Storage.Backend)
	}

	if c.Storage.Key == "" {
		return errors.New("config: storage.key required")
	}
	if c.Storage.QuotaBytes < 0 {
		return errors.New("config: storage.quota_bytes must be >= 0")
	}
	if c.Images.MaxBytes <= 0 {
		return errors.New("config: images.max_bytes must be > 0")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: invalid http.port %d", c.HTTP.Port)
	}
	return nil
}

// Save escribe cfg como YAML en path (lo usa `petsctl config init`).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// Defaults devuelve la configuración sin archivo ni env.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.Storage.Backend = BackendMemory
	return &cfg
}

// ExpandHome expande un ~/ inicial.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
