package filestore

import "github.com/koustreak/jobboard/internal/errs"

// Provider identifies the file storage backend.
type Provider string

const (
	ProviderMinIO Provider = "minio"
)

// Config holds the settings for the object store reference feeds are read
// from.
type Config struct {
	// Provider is the storage backend (e.g. ProviderMinIO).
	Provider Provider `yaml:"provider"`

	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string `yaml:"endpoint"`

	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool `yaml:"use_ssl"`

	// Region is used by region-aware backends. Leave empty for MinIO.
	Region string `yaml:"region"`

	// Bucket holds the feed objects.
	Bucket string `yaml:"bucket"`
}

// DefaultConfig returns a local-dev config for MinIO.
func DefaultConfig(endpoint, accessKey, secretKey string) *Config {
	return &Config{
		Provider:  ProviderMinIO,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    "jobboard-feeds",
	}
}

// Enabled reports whether an object store is configured at all.
func (c *Config) Enabled() bool {
	return c != nil && c.Endpoint != ""
}

// Validate checks a configured store's settings.
func (c *Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.Provider != ProviderMinIO {
		return errs.Newf(errs.ErrKindConfig, "filestore: unsupported provider %q", c.Provider)
	}
	if c.Bucket == "" {
		return errs.New(errs.ErrKindConfig, "filestore: bucket is required")
	}
	return nil
}
