package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	yaml := `
engine:
  sample_rate: 44100
  max_block_size: 256
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.SampleRate != 44100 {
		t.Fatalf("sample rate = %v, want 44100", cfg.Engine.SampleRate)
	}
	if cfg.Engine.MaxBlockSize != 256 {
		t.Fatalf("max block size = %v, want 256", cfg.Engine.MaxBlockSize)
	}
	if cfg.Engine.Channels != 2 {
		t.Fatalf("channels = %v, want default 2", cfg.Engine.Channels)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging level = %v, want debug", cfg.Logging.Level)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load("/nonexistent/engine.yaml"); err == nil {
		t.Fatal("expected an error loading a nonexistent config file")
	}
}

func TestValidateRejectsNonPowerOfTwoRingCapacity(t *testing.T) {
	cfg := Default()
	cfg.Engine.RingCapacity = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a non-power-of-two ring capacity")
	}
}

func TestValidateRejectsZeroSampleRate(t *testing.T) {
	cfg := Default()
	cfg.Engine.SampleRate = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a zero sample rate")
	}
}
