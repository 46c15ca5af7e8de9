package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	FrameRate int `env:"SLIDEREEL_TEST_FRAME_RATE" envDefault:"30"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.FrameRate != 30 {
		t.Fatalf("expected default frame rate 30, got %d", cfg.FrameRate)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("SLIDEREEL_TEST_FRAME_RATE", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
