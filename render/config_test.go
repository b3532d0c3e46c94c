package render

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Width: 8, Height: 8, MaxIterations: 10,
		TilesX: 2, TilesY: 4,
		Threshold: 4.4, Region: "classic", Strategy: StrategyTiles,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -4 }},
		{"zero tiles x", func(c *Config) { c.TilesX = 0 }},
		{"width not divisible", func(c *Config) { c.TilesX = 3 }},
		{"height not divisible", func(c *Config) { c.TilesY = 3 }},
		{"negative iterations", func(c *Config) { c.MaxIterations = -1 }},
		{"zero threshold", func(c *Config) { c.Threshold = 0 }},
		{"nan threshold", func(c *Config) { c.Threshold = math.NaN() }},
		{"inf threshold", func(c *Config) { c.Threshold = math.Inf(1) }},
		{"unknown region", func(c *Config) { c.Region = "atlantis" }},
		{"unknown strategy", func(c *Config) { c.Strategy = "magic" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_ZeroIterationsIsValid(t *testing.T) {
	c := DefaultConfig()
	c.MaxIterations = 0
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		c, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if c != DefaultConfig() {
			t.Errorf("LoadConfig(\"\") = %+v, want %+v", c, DefaultConfig())
		}
	})

	t.Run("yaml with defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mandel.yaml")
		data := []byte("Width: 640\nHeight: 480\nTilesX: 8\nStrategy: locked\n")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}

		c, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}

		want := DefaultConfig()
		want.Width = 640
		want.Height = 480
		want.TilesX = 8
		want.Strategy = StrategyLocked
		if c != want {
			t.Errorf("LoadConfig = %+v, want %+v", c, want)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("LoadConfig(missing) succeeded, want error")
		}
	})
}
