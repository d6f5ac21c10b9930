// Package config loads the job board's settings: defaults, then a YAML
// file, then a .env file and the process environment.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/koustreak/jobboard/internal/database"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/filestore"
	"github.com/spf13/cast"
	"go.yaml.in/yaml/v3"
)

// Environment overrides.
const (
	EnvDBDriver        = "JOBBOARD_DB_DRIVER"
	EnvDBDSN           = "JOBBOARD_DB_DSN"
	EnvHTTPAddr        = "JOBBOARD_HTTP_ADDR"
	EnvLogLevel        = "JOBBOARD_LOG_LEVEL"
	EnvImportBatchSize = "JOBBOARD_IMPORT_BATCH_SIZE"
	EnvMinioEndpoint   = "JOBBOARD_MINIO_ENDPOINT"
	EnvMinioAccessKey  = "JOBBOARD_MINIO_ACCESS_KEY"
	EnvMinioSecretKey  = "JOBBOARD_MINIO_SECRET_KEY"
)

type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Database  database.Config  `yaml:"database"`
	Log       LogConfig        `yaml:"log"`
	Filestore filestore.Config `yaml:"filestore"`
	Import    ImportConfig     `yaml:"import"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ImportConfig controls the reference-data importer.
type ImportConfig struct {
	// BatchSize is the number of rows written per upsert batch.
	BatchSize int `yaml:"batch_size"`

	// Feeds maps a feed name (cities, industries, professions) to the
	// object key holding its CSV.
	Feeds map[string]string `yaml:"feeds"`
}

// Default returns a config that runs locally against an on-disk SQLite
// database.
func Default() *Config {
	db := database.DefaultConfig("jobboard.db")
	db.Driver = database.DriverSQLite

	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 20 * time.Second,
		},
		Database:  *db,
		Log:       LogConfig{Level: "info", Format: "json"},
		Filestore: filestore.Config{Provider: filestore.ProviderMinIO},
		Import: ImportConfig{
			BatchSize: 500,
			Feeds: map[string]string{
				"cities":      "feeds/cities.csv",
				"industries":  "feeds/industries.csv",
				"professions": "feeds/professions.csv",
			},
		},
	}
}

// Load builds the config from Default, the YAML file at path (skipped when
// path is empty), the given .env files (missing ones are skipped) and the
// environment, then validates it.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindConfig, "failed to read config file "+path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errs.Wrap(errs.ErrKindConfig, "failed to parse config file "+path, err)
		}
	}

	for _, f := range envFiles {
		// godotenv never overrides variables already set in the process.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrKindConfig, "failed to load env file "+f, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvDBDriver); ok {
		c.Database.Driver = database.Driver(strings.ToLower(v))
	}
	if v, ok := os.LookupEnv(EnvDBDSN); ok {
		c.Database.DSN = v
	}
	if v, ok := os.LookupEnv(EnvHTTPAddr); ok {
		c.Server.Addr = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvImportBatchSize); ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return errs.Wrap(errs.ErrKindConfig, EnvImportBatchSize+" must be an integer", err)
		}
		c.Import.BatchSize = n
	}
	if v, ok := os.LookupEnv(EnvMinioEndpoint); ok {
		c.Filestore.Endpoint = v
		if c.Filestore.Provider == "" {
			c.Filestore.Provider = filestore.ProviderMinIO
		}
	}
	if v, ok := os.LookupEnv(EnvMinioAccessKey); ok {
		c.Filestore.AccessKey = v
	}
	if v, ok := os.LookupEnv(EnvMinioSecretKey); ok {
		c.Filestore.SecretKey = v
	}
	return nil
}

// Validate reports the first invalid setting as a configuration error.
func (c *Config) Validate() error {
	if _, ok := c.Database.Driver.Dialect(); !ok {
		return errs.Newf(errs.ErrKindConfig, "database: unsupported driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errs.New(errs.ErrKindConfig, "database: dsn is required")
	}
	if c.Server.Addr == "" {
		return errs.New(errs.ErrKindConfig, "server: addr is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errs.Newf(errs.ErrKindConfig, "log: unknown level %q", c.Log.Level)
	}
	if c.Import.BatchSize <= 0 {
		return errs.Newf(errs.ErrKindConfig, "import: batch_size must be positive, got %d", c.Import.BatchSize)
	}
	return c.Filestore.Validate()
}
