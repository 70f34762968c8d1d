// Package config assembles the process configuration: defaults, an optional
// YAML file, environment overrides and finally command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"zooapi/internal/blob"
	"zooapi/internal/core"
	"zooapi/internal/infra/persistence/file"
	"zooapi/internal/infra/persistence/objectstore"
	"zooapi/internal/infra/persistence/sqlite"
)

// DefaultPort is used when neither the config file nor PORT selects one.
const DefaultPort = 3001

// Metrics backends accepted by Config.Metrics.
const (
	MetricsNone       = "none"
	MetricsPrometheus = "prometheus"
	MetricsExpvar     = "expvar"
)

// Config is the full process configuration.
type Config struct {
	Port     int     `yaml:"port"`
	ReadOnly bool    `yaml:"read_only"`
	Storage  Storage `yaml:"storage"`
	Log      Log     `yaml:"log"`
	Metrics  string  `yaml:"metrics"`
	Trace    bool    `yaml:"trace"`
}

// Storage selects the backing source of the collection.
type Storage struct {
	Driver      string `yaml:"driver"`
	DataPath    string `yaml:"data_path"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
	Blob        Blob   `yaml:"blob"`
}

// Blob configures the object store used by the blob storage driver.
type Blob struct {
	Driver string `yaml:"driver"`
	Key    string `yaml:"key"`
	S3     S3     `yaml:"s3"`
}

// S3 holds the S3 connection settings. Credentials are read from the
// environment only and never from the config file.
type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
	SessionToken    string `yaml:"-"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Port: DefaultPort,
		Storage: Storage{
			Driver:     string(core.StorageFile),
			DataPath:   file.DefaultPath,
			SQLitePath: sqlite.DefaultPath,
			Blob: Blob{
				Driver: string(blob.DriverMemory),
				Key:    objectstore.DefaultKey,
			},
		},
		Log:     Log{Level: "info", Format: "text"},
		Metrics: MetricsPrometheus,
	}
}

// Load builds a configuration from the defaults, the YAML file at path (when
// path is non-empty) and the environment looked up through getenv.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		// #nosec G304 -- path is supplied by the operator
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	var errs []error
	setInt := func(key string, dst *int) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %q is not a number", key, v))
				return
			}
			*dst = n
		}
	}
	setBool := func(key string, dst *bool) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %q is not a boolean", key, v))
				return
			}
			*dst = b
		}
	}
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	setInt("PORT", &c.Port)
	setBool("ZOOAPI_READ_ONLY", &c.ReadOnly)
	setString("ZOOAPI_STORAGE_DRIVER", &c.Storage.Driver)
	setString("ZOOAPI_DATA_PATH", &c.Storage.DataPath)
	setString("ZOOAPI_SQLITE_PATH", &c.Storage.SQLitePath)
	setString("ZOOAPI_POSTGRES_DSN", &c.Storage.PostgresDSN)
	setString("ZOOAPI_BLOB_DRIVER", &c.Storage.Blob.Driver)
	setString("ZOOAPI_BLOB_KEY", &c.Storage.Blob.Key)
	setString("ZOOAPI_BLOB_S3_BUCKET", &c.Storage.Blob.S3.Bucket)
	setString("ZOOAPI_BLOB_S3_REGION", &c.Storage.Blob.S3.Region)
	setString("ZOOAPI_BLOB_S3_ENDPOINT", &c.Storage.Blob.S3.Endpoint)
	setBool("ZOOAPI_BLOB_S3_PATH_STYLE", &c.Storage.Blob.S3.PathStyle)
	setString("ZOOAPI_BLOB_S3_ACCESS_KEY_ID", &c.Storage.Blob.S3.AccessKeyID)
	setString("ZOOAPI_BLOB_S3_SECRET_ACCESS_KEY", &c.Storage.Blob.S3.SecretAccessKey)
	setString("ZOOAPI_BLOB_S3_SESSION_TOKEN", &c.Storage.Blob.S3.SessionToken)
	setString("ZOOAPI_LOG_LEVEL", &c.Log.Level)
	setString("ZOOAPI_LOG_FORMAT", &c.Log.Format)
	setString("ZOOAPI_METRICS", &c.Metrics)
	setBool("ZOOAPI_TRACE", &c.Trace)
	return errors.Join(errs...)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if !slices.Contains(core.StorageDrivers, core.StorageDriver(c.Storage.Driver)) {
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Storage.Driver == string(core.StorageBlob) {
		switch blob.Driver(c.Storage.Blob.Driver) {
		case blob.DriverMemory:
		case blob.DriverS3:
			if c.Storage.Blob.S3.Bucket == "" {
				errs = append(errs, errors.New("s3 blob driver requires a bucket"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown blob driver %q", c.Storage.Blob.Driver))
		}
	}
	if _, err := core.ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	switch c.Metrics {
	case "", MetricsNone, MetricsPrometheus, MetricsExpvar:
	default:
		errs = append(errs, fmt.Errorf("unknown metrics backend %q", c.Metrics))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// StorageConfig maps the storage section onto the service storage options.
func (c Config) StorageConfig() core.StorageConfig {
	s := c.Storage
	return core.StorageConfig{
		Driver:      core.StorageDriver(s.Driver),
		DataPath:    s.DataPath,
		SQLitePath:  s.SQLitePath,
		PostgresDSN: s.PostgresDSN,
		BlobKey:     s.Blob.Key,
		Blob: blob.Config{
			Driver: blob.Driver(s.Blob.Driver),
			S3: blob.S3Config{
				Region:          s.Blob.S3.Region,
				Bucket:          s.Blob.S3.Bucket,
				Endpoint:        s.Blob.S3.Endpoint,
				AccessKeyID:     s.Blob.S3.AccessKeyID,
				SecretAccessKey: s.Blob.S3.SecretAccessKey,
				SessionToken:    s.Blob.S3.SessionToken,
				PathStyle:       s.Blob.S3.PathStyle,
			},
		},
	}
}
