package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/streamlens/streamlens/pkg/errors"
	"github.com/streamlens/streamlens/pkg/geom"
	"github.com/streamlens/streamlens/pkg/overlay"
)

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    geom.Dimensions
		wantErr bool
	}{
		{"valid", "1920x1080", geom.Dimensions{Width: 1920, Height: 1080}, false},
		{"fractional", "960.5x540.25", geom.Dimensions{Width: 960.5, Height: 540.25}, false},
		{"missing separator", "1920", geom.Dimensions{}, true},
		{"missing height", "1920x", geom.Dimensions{}, true},
		{"non-numeric", "axb", geom.Dimensions{}, true},
		{"zero width", "0x1080", geom.Dimensions{}, true},
		{"negative height", "1920x-5", geom.Dimensions{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDimensions(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDimensions(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parseDimensions(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidDimensions) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidDimensions)
			}
		})
	}
}

func newHalfScaleSession(t *testing.T) *overlay.Session {
	t.Helper()
	s, err := overlay.New(staticElement{d: geom.Dimensions{Width: 960, Height: 540}}, overlay.Config{
		OriginalWidth:      1920,
		OriginalHeight:     1080,
		DisableResizeWatch: true,
		Logger:             log.NewWithOptions(&bytes.Buffer{}, log.Options{Level: log.FatalLevel}),
	})
	if err != nil {
		t.Fatalf("overlay.New() error = %v", err)
	}
	return s
}

func rawJSON(t *testing.T, src string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("unmarshal %q: %v", src, err)
	}
	return v
}

func TestTransformShape(t *testing.T) {
	session := newHalfScaleSession(t)

	tests := []struct {
		name     string
		src      string
		wantKind string
		wantOut  string
		wantOK   bool
	}{
		{"point", `{"x": 100, "y": 100}`, "point", "(50, 50)", true},
		{"polygon", `[{"x": 0, "y": 0}, {"x": 100, "y": 100}]`, "polygon", "(0, 0) (50, 50)", true},
		// A box matches the point shape too; classification must pick box.
		{"box", `{"x": 150, "y": 100, "width": 300, "height": 200}`, "box", "(75, 50) 150x100", true},
		{"unknown", `"not a shape"`, "", "", false},
		{"empty sequence", `[]`, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := transformShape(session, "label", rawJSON(t, tt.src))
			if ok != tt.wantOK {
				t.Fatalf("transformShape() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if row[1] != tt.wantKind {
				t.Errorf("kind = %q, want %q", row[1], tt.wantKind)
			}
			if row[3] != tt.wantOut {
				t.Errorf("display column = %q, want %q", row[3], tt.wantOut)
			}
		})
	}
}

func TestReadShapes(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "shapes.json")
	if err := os.WriteFile(path, []byte(`{"nose": {"x": 1, "y": 2}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	shapes, err := readShapes(path)
	if err != nil {
		t.Fatalf("readShapes() error = %v", err)
	}
	if _, ok := shapes["nose"]; !ok {
		t.Error("readShapes() missing label \"nose\"")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readShapes(bad); !errors.Is(err, errors.ErrCodeInvalidShape) {
		t.Errorf("readShapes(bad) error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidShape)
	}
}

func TestResolveDimensions_FlagsWinOverConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[transform]
original = { width = 100.0, height = 100.0 }
display = { width = 50.0, height = 50.0 }
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := &transformOpts{original: "1920x1080", config: path}
	original, display, err := resolveDimensions(opts)
	if err != nil {
		t.Fatalf("resolveDimensions() error = %v", err)
	}

	if original.Width != 1920 {
		t.Errorf("original.Width = %g, want 1920 (flag wins)", original.Width)
	}
	if display.Width != 50 {
		t.Errorf("display.Width = %g, want 50 (from config)", display.Width)
	}
}

func TestResolveDimensions_MissingIsError(t *testing.T) {
	_, _, err := resolveDimensions(&transformOpts{original: "1920x1080"})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}
