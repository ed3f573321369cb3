package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/track/viewmode"
)

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("Dir() = %q", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err = Dir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) || !strings.HasSuffix(dir, filepath.Join(".config", appName)) {
		t.Errorf("Dir() = %q, want under %s/.config", dir, home)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.View.Width != 800 || cfg.Server.Addr != DefaultAddr {
		t.Errorf("defaults = %+v", cfg)
	}
	if _, ok := cfg.MongoConfig(); ok {
		t.Error("mongo enabled without URI")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[view]
width = 1200
mode = "numeric:occurrence"

[server]
session_ttl = "5m"

[mongo]
uri = "mongodb://db:27017"
timeout = "3s"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.View.Width != 1200 {
		t.Errorf("width = %v", cfg.View.Width)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("addr = %q, want default kept", cfg.Server.Addr)
	}
	mode, _ := cfg.DefaultMode()
	if !mode.Same(viewmode.OccurrenceMode) {
		t.Errorf("mode = %s", mode)
	}
	if ttl, _ := cfg.SessionTTL(); ttl != 5*time.Minute {
		t.Errorf("ttl = %v", ttl)
	}
	mc, ok := cfg.MongoConfig()
	if !ok || mc.Timeout != 3*time.Second || mc.Collection != "variants" {
		t.Errorf("mongo = %+v, %v", mc, ok)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"syntax", "[view\nwidth=", errors.ErrCodeInvalidFormat},
		{"mode", "[view]\nmode = \"pie\"", errors.ErrCodeInvalidMode},
		{"duration", "[server]\nsession_ttl = \"soon\"", errors.ErrCodeInvalidInput},
		{"uri", "[mongo]\nuri = \"postgres://x\"", errors.ErrCodeInvalidInput},
		{"width", "[view]\nwidth = -3.0", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q (%v), want %q", got, err, tt.code)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.View.Width = 640
	cfg.Mongo.URI = "mongodb+srv://cluster.example.org"
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.View.Width != 640 || got.Mongo.URI != cfg.Mongo.URI {
		t.Errorf("loaded %+v", got)
	}
}
