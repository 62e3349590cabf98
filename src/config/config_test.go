package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"

	"slowlife/src/panel"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(name, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestLoad(t *testing.T) {
	name := writeFile(t, `{"size": 5, "interval": "20ms", "max_steps": 40}`)
	o, err := Load(name, panel.DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	want := panel.Options{Size: 5, Interval: 20 * time.Millisecond, MaxSteps: 40}
	if o != want {
		t.Errorf("got %+v, want %+v", o, want)
	}
}

func TestLoad_KeepsDefaults(t *testing.T) {
	name := writeFile(t, `{"size": 9}`)
	o, err := Load(name, panel.DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	if o.Size != 9 || o.Interval != panel.DefInterval || o.MaxSteps != 0 {
		t.Errorf("got %+v", o)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    error
	}{
		{"bad json", `{"size":`, nil},
		{"bad interval", `{"interval": "fast"}`, nil},
		{"negative size", `{"size": -5}`, panel.ErrNumberFormat},
		{"negative max steps", `{"max_steps": -1}`, panel.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Load(writeFile(t, tt.content), panel.DefaultOptions)
			if err == nil {
				t.Fatal("no error")
			}
			if tt.kind != nil && !errors.Is(err, tt.kind) {
				t.Errorf("got %v, want %v", err, tt.kind)
			}
			if o != panel.DefaultOptions {
				t.Errorf("options changed on error: %+v", o)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), panel.DefaultOptions)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want os.ErrNotExist", err)
	}
}
