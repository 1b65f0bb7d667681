package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/streamlens/streamlens/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "streamlens.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[reveal]
chars_per_update = 3
update_interval_ms = 25

[transform]
debounce_delay_ms = 150
original = { width = 1920.0, height = 1080.0 }
display = { width = 960.0, height = 540.0 }
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Reveal.CharsPerUpdate != 3 {
		t.Errorf("CharsPerUpdate = %d, want 3", cfg.Reveal.CharsPerUpdate)
	}
	if cfg.Reveal.interval() != 25*time.Millisecond {
		t.Errorf("interval() = %s, want 25ms", cfg.Reveal.interval())
	}
	if cfg.Transform.Original == nil || cfg.Transform.Original.Width != 1920 {
		t.Errorf("Original = %+v, want width 1920", cfg.Transform.Original)
	}
	if cfg.Transform.Display == nil || cfg.Transform.Display.Height != 540 {
		t.Errorf("Display = %+v, want height 540", cfg.Transform.Display)
	}
}

func TestLoadConfig_PartialFile(t *testing.T) {
	path := writeConfig(t, `
[reveal]
chars_per_update = 2
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Reveal.CharsPerUpdate != 2 {
		t.Errorf("CharsPerUpdate = %d, want 2", cfg.Reveal.CharsPerUpdate)
	}
	if cfg.Transform.Original != nil {
		t.Errorf("Original = %+v, want nil", cfg.Transform.Original)
	}
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	path := writeConfig(t, `
[reveal]
chars_per_updoot = 3
`)

	_, err := loadConfig(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("loadConfig(missing) error = nil, want error")
	}
}
