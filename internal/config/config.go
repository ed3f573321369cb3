// Package config reads the optional varlayout configuration file.
//
// The file lives at $XDG_CONFIG_HOME/varlayout/config.toml (or
// ~/.config/varlayout/config.toml). Every field is optional; command-line
// flags override file values.
//
//	[view]
//	width = 1200
//	mode = "numeric:occurrence"
//
//	[server]
//	addr = ":8080"
//	session_ttl = "30m"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "varlayout"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/pipeline"
	"github.com/matzehuels/varlayout/pkg/source/mongo"
	"github.com/matzehuels/varlayout/pkg/track/viewmode"
)

const (
	appName  = "varlayout"
	fileName = "config.toml"

	// DefaultAddr is the default HTTP listen address.
	DefaultAddr = ":8080"

	// DefaultSessionTTL is how long an idle server session is kept.
	DefaultSessionTTL = 30 * time.Minute
)

// Config is the configuration file.
type Config struct {
	View   View   `toml:"view"`
	Server Server `toml:"server"`
	Mongo  Mongo  `toml:"mongo"`
}

// View holds layout defaults.
type View struct {
	Width          float64 `toml:"width"`
	PixelsPerBase  float64 `toml:"ppb"`
	Mode           string  `toml:"mode"`
	CodingOnly     bool    `toml:"coding_only"`
	GenomicDisplay bool    `toml:"genomic_display"`
}

// Server holds HTTP API settings.
type Server struct {
	Addr       string `toml:"addr"`
	SessionTTL string `toml:"session_ttl"`
}

// Mongo holds the MongoDB payload source settings. An empty URI disables it.
type Mongo struct {
	URI               string `toml:"uri"`
	Database          string `toml:"database"`
	Collection        string `toml:"collection"`
	DatasetCollection string `toml:"dataset_collection"`
	Timeout           string `toml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		View:   View{Width: pipeline.DefaultWidth, Mode: viewmode.CategoricalMode.String()},
		Server: Server{Addr: DefaultAddr, SessionTTL: DefaultSessionTTL.String()},
		Mongo: Mongo{
			Database:          mongo.DefaultDatabase,
			Collection:        mongo.DefaultCollection,
			DatasetCollection: mongo.DefaultDatasetCollection,
			Timeout:           mongo.DefaultTimeout.String(),
		},
	}
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the config directory using XDG standard (~/.config/varlayout/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// =============================================================================
// Load / Save
// =============================================================================

// Load reads the file at path over the defaults. A missing file is not an
// error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// =============================================================================
// Accessors
// =============================================================================

// Validate checks field formats.
func (c Config) Validate() error {
	if c.View.Width < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "view.width must not be negative")
	}
	if c.View.PixelsPerBase < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "view.ppb must not be negative")
	}
	if _, err := c.DefaultMode(); err != nil {
		return err
	}
	if _, err := c.SessionTTL(); err != nil {
		return err
	}
	if _, err := c.MongoTimeout(); err != nil {
		return err
	}
	if c.Mongo.URI != "" {
		return errors.ValidateMongoURI(c.Mongo.URI)
	}
	return nil
}

// DefaultMode parses View.Mode.
func (c Config) DefaultMode() (viewmode.Mode, error) {
	return viewmode.Parse(c.View.Mode)
}

// SessionTTL parses Server.SessionTTL.
func (c Config) SessionTTL() (time.Duration, error) {
	return parseDuration("server.session_ttl", c.Server.SessionTTL, DefaultSessionTTL)
}

// MongoTimeout parses Mongo.Timeout.
func (c Config) MongoTimeout() (time.Duration, error) {
	return parseDuration("mongo.timeout", c.Mongo.Timeout, mongo.DefaultTimeout)
}

// MongoConfig returns the source configuration. ok is false when no URI is set.
func (c Config) MongoConfig() (cfg mongo.Config, ok bool) {
	if c.Mongo.URI == "" {
		return mongo.Config{}, false
	}
	timeout, _ := c.MongoTimeout()
	return mongo.Config{
		URI:               c.Mongo.URI,
		Database:          c.Mongo.Database,
		Collection:        c.Mongo.Collection,
		DatasetCollection: c.Mongo.DatasetCollection,
		Timeout:           timeout,
	}, true
}

func parseDuration(field, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s: invalid duration %q", field, s)
	}
	return d, nil
}
