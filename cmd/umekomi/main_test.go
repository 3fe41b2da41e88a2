package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildEmbedText(t *testing.T) {
	if got := buildEmbedText([]string{"machine", "learning"}); got != "machine learning" {
		t.Errorf("buildEmbedText: got %q", got)
	}
	if got := buildEmbedText([]string{"  spaced  "}); got != "spaced" {
		t.Errorf("buildEmbedText should trim: got %q", got)
	}
	if got := buildEmbedText(nil); got != "" {
		t.Errorf("buildEmbedText(nil): got %q", got)
	}
}

func TestLoadConfig_explicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `
server:
  port: 9999
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Errorf("resolved path: got %s, want %s", resolved, path)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
}

func TestLoadConfig_missingExplicitPath(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config")
	}
}
