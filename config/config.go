package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration of the footnote server.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Storage   StorageConfig   `toml:"storage"`
	Session   SessionConfig   `toml:"session"`
	Thumbnail ThumbnailConfig `toml:"thumbnail"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	MaxUploadBytes int64    `toml:"max_upload_bytes"`
	AllowedOrigin  string   `toml:"allowed_origin"`
}

// DatabaseConfig uses a tagged union: Type selects which fields matter.
type DatabaseConfig struct {
	Type        string `toml:"type"` // "postgres" (default) or "memory"
	URL         string `toml:"url,omitempty"`
	AutoMigrate bool   `toml:"auto_migrate"`
}

// StorageConfig describes the blob store for videos and thumbnails.
// Any S3-compatible service works, DigitalOcean Spaces included.
type StorageConfig struct {
	Type            string `toml:"type"` // "s3" (default) or "memory"
	Endpoint        string `toml:"endpoint,omitempty"`
	Region          string `toml:"region,omitempty"`
	Bucket          string `toml:"bucket"`
	ThumbnailBucket string `toml:"thumbnail_bucket"`
	AccessKey       string `toml:"access_key,omitempty"`
	SecretKey       string `toml:"secret_key,omitempty"`
	PublicBaseURL   string `toml:"public_base_url,omitempty"`
}

// SessionConfig configures verification of session tokens.
type SessionConfig struct {
	Secret     string `toml:"secret"`
	CookieName string `toml:"cookie_name"`
}

// ThumbnailConfig configures ffmpeg frame extraction.
type ThumbnailConfig struct {
	FFmpegPath    string   `toml:"ffmpeg_path"`
	OffsetSeconds *float64 `toml:"offset_seconds"` // nil when unset; 0 is the first frame
	Width         int      `toml:"width"`
	Timeout       Duration `toml:"timeout"`
}

// LogConfig configures the logrus logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" (default) or "text"
}

// Duration decodes TOML strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Read decodes a Config from r without applying defaults.
func Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Load builds the configuration: .env, then the TOML file at path (or
// $FOOTNOTE_CONFIG; no file is fine), then environment overrides, then
// defaults. The result is validated.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("FOOTNOTE_CONFIG")
	}

	cfg := &Config{}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		cfg, err = Read(f)
		if err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("DATABASE_URL", &c.Database.URL)
	str("DATABASE_TYPE", &c.Database.Type)
	str("SESSION_SECRET", &c.Session.Secret)
	str("STORAGE_TYPE", &c.Storage.Type)
	str("DO_SPACES_ENDPOINT", &c.Storage.Endpoint)
	str("DO_SPACES_REGION", &c.Storage.Region)
	str("DO_SPACES_KEY", &c.Storage.AccessKey)
	str("DO_SPACES_SECRET", &c.Storage.SecretKey)
	str("DO_SPACES_BUCKET", &c.Storage.Bucket)
	str("DO_SPACES_THUMBNAIL_BUCKET", &c.Storage.ThumbnailBucket)
	str("FFMPEG_PATH", &c.Thumbnail.FFmpegPath)
	str("LOG_LEVEL", &c.Log.Level)
	str("FRONTEND_URL", &c.Server.AllowedOrigin)

	if v, ok := lookup("PORT"); ok && v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Addr = ":" + v
	}

	if v, ok := lookup("AUTO_MIGRATE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AUTO_MIGRATE %q: %w", v, err)
		}
		c.Database.AutoMigrate = b
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 5 * time.Minute
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 5 * time.Minute
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 500 << 20
	}
	if c.Database.Type == "" {
		c.Database.Type = "postgres"
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "s3"
	}
	if c.Storage.Region == "" {
		c.Storage.Region = "us-east-1"
	}
	if c.Storage.ThumbnailBucket == "" {
		c.Storage.ThumbnailBucket = c.Storage.Bucket
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "session_token"
	}
	if c.Thumbnail.FFmpegPath == "" {
		c.Thumbnail.FFmpegPath = "ffmpeg"
	}
	if c.Thumbnail.OffsetSeconds == nil {
		offset := 1.0
		c.Thumbnail.OffsetSeconds = &offset
	}
	if c.Thumbnail.Width == 0 {
		c.Thumbnail.Width = 320
	}
	if c.Thumbnail.Timeout.Duration == 0 {
		c.Thumbnail.Timeout.Duration = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL not set")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database type: %s", c.Database.Type)
	}

	switch c.Storage.Type {
	case "s3":
		if c.Storage.Bucket == "" {
			return errors.New("storage bucket not set (DO_SPACES_BUCKET)")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}

	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET not set")
	}
	if c.Server.MaxUploadBytes < 0 {
		return errors.New("max_upload_bytes must be positive")
	}
	if c.Thumbnail.OffsetSeconds != nil && *c.Thumbnail.OffsetSeconds < 0 {
		return errors.New("thumbnail offset_seconds must not be negative")
	}
	return nil
}
