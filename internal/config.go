package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no --config flag is given and the file exists
const DefaultConfigFile = "chat-recorder.yaml"

const envPrefix = "CHAT_RECORDER_"

// Source types
const (
	SourceFile   = "file"
	SourceSQLite = "sqlite"
)

// SourceConfig selects where observed chat elements are read from
type SourceConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

// Config holds recorder settings
type Config struct {
	LogDir               string        `yaml:"log_dir"`
	LogLevel             string        `yaml:"log_level"`
	Source               SourceConfig  `yaml:"source"`
	Interval             time.Duration `yaml:"interval"`
	IDPrefixLen          int           `yaml:"id_prefix_len"`
	OfflinePrefixLen     int           `yaml:"offline_prefix_len"`
	MaxConsecutiveErrors int           `yaml:"max_consecutive_errors"`
	SessionSnapshot      bool          `yaml:"session_snapshot"`
	FeedPreview          int           `yaml:"feed_preview"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() Config {
	return Config{
		LogDir:               DefaultLogDir,
		LogLevel:             "info",
		Source:               SourceConfig{Type: SourceFile},
		Interval:             time.Second,
		IDPrefixLen:          DefaultPrefixLen,
		OfflinePrefixLen:     OfflinePrefixLen,
		MaxConsecutiveErrors: 5,
		SessionSnapshot:      true,
		FeedPreview:          3,
	}
}

// LoadConfig builds the configuration from defaults, the YAML file at path
// and CHAT_RECORDER_* environment variables, in increasing precedence.
// A .env file in the working directory is loaded first. An empty path reads
// DefaultConfigFile when it exists.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, &ParseError{Source: "config", Key: path, Err: err}
		}
		LogDebug("Loaded config from %s", path)
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := lookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := lookupEnv(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ParseError{Source: "environment", Key: envPrefix + key, Err: err}
		}
		*dst = n
		return nil
	}

	setString("LOG_DIR", &cfg.LogDir)
	setString("LOG_LEVEL", &cfg.LogLevel)
	setString("SOURCE_TYPE", &cfg.Source.Type)
	setString("SOURCE_PATH", &cfg.Source.Path)

	if v, ok := lookupEnv("INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ParseError{Source: "environment", Key: envPrefix + "INTERVAL", Err: err}
		}
		cfg.Interval = d
	}
	if v, ok := lookupEnv("SESSION_SNAPSHOT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ParseError{Source: "environment", Key: envPrefix + "SESSION_SNAPSHOT", Err: err}
		}
		cfg.SessionSnapshot = b
	}

	for key, dst := range map[string]*int{
		"ID_PREFIX_LEN":          &cfg.IDPrefixLen,
		"OFFLINE_PREFIX_LEN":     &cfg.OfflinePrefixLen,
		"MAX_CONSECUTIVE_ERRORS": &cfg.MaxConsecutiveErrors,
		"FEED_PREVIEW":           &cfg.FeedPreview,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Validate checks that settings are usable
func (c Config) Validate() error {
	if c.LogDir == "" {
		return errors.New("log_dir must not be empty")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Source.Type {
	case SourceFile, SourceSQLite:
	default:
		return fmt.Errorf("unknown source type %q (want %s or %s)", c.Source.Type, SourceFile, SourceSQLite)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.IDPrefixLen <= 0 || c.OfflinePrefixLen <= 0 {
		return fmt.Errorf("prefix lengths must be positive (id_prefix_len=%d, offline_prefix_len=%d)", c.IDPrefixLen, c.OfflinePrefixLen)
	}
	if c.MaxConsecutiveErrors <= 0 {
		return fmt.Errorf("max_consecutive_errors must be positive, got %d", c.MaxConsecutiveErrors)
	}
	if c.FeedPreview < 0 {
		return fmt.Errorf("feed_preview must not be negative, got %d", c.FeedPreview)
	}
	return nil
}
