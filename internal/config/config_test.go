package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
text_model:
  model_path: "/models/text.onnx"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.TextModel.ModelPath != "/models/text.onnx" {
		t.Errorf("text model path: got %s", cfg.TextModel.ModelPath)
	}
	if cfg.ImageModel.ModelPath == "" {
		t.Error("image model path should be defaulted")
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
text_model:
  model_path: "./models/text.onnx"
  tokenizer_path: "./models/tokenizer.json"
image_model:
  model_path: "./models/vision.onnx"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantText := filepath.Join(dir, "models", "text.onnx")
	if cfg.TextModel.ModelPath != wantText {
		t.Errorf("text model path = %s, want %s", cfg.TextModel.ModelPath, wantText)
	}
	wantVision := filepath.Join(dir, "models", "vision.onnx")
	if cfg.ImageModel.ModelPath != wantVision {
		t.Errorf("image model path = %s, want %s", cfg.ImageModel.ModelPath, wantVision)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.TextModel.Dimensions != 1024 {
		t.Errorf("default text dimensions: got %d", cfg.TextModel.Dimensions)
	}
	if cfg.TextModel.MaxTokens != 512 {
		t.Errorf("default max tokens: got %d", cfg.TextModel.MaxTokens)
	}
	if cfg.TextModel.CacheSize != 10000 {
		t.Errorf("default cache size: got %d", cfg.TextModel.CacheSize)
	}
	if cfg.ImageModel.Dimensions != 512 {
		t.Errorf("default image dimensions: got %d", cfg.ImageModel.Dimensions)
	}
	if cfg.ImageModel.ImageSize != 224 {
		t.Errorf("default image size: got %d", cfg.ImageModel.ImageSize)
	}
}

func TestQuantizedModelPath(t *testing.T) {
	if got := QuantizedModelPath("/models/text.onnx"); got != "/models/text.int8.onnx" {
		t.Errorf("quantized path: got %s", got)
	}
	if got := QuantizedModelPath("/models/text"); got != "/models/text.int8" {
		t.Errorf("quantized path without suffix: got %s", got)
	}
}

func TestResolvedModelPath(t *testing.T) {
	c := TextModelConfig{ModelPath: "/models/text.onnx"}
	if got := c.ResolvedModelPath(); got != "/models/text.onnx" {
		t.Errorf("unquantized path: got %s", got)
	}
	c.UseQuantization = true
	if got := c.ResolvedModelPath(); got != "/models/text.int8.onnx" {
		t.Errorf("quantized path: got %s", got)
	}
}

func TestResolveThreads(t *testing.T) {
	t.Run("env override wins", func(t *testing.T) {
		t.Setenv(ThreadsEnvVar, "3")
		r := &RuntimeConfig{Threads: 7}
		if got := r.ResolveThreads(); got != 3 {
			t.Errorf("threads: got %d, want 3", got)
		}
	})
	t.Run("config value used when env unset", func(t *testing.T) {
		t.Setenv(ThreadsEnvVar, "")
		r := &RuntimeConfig{Threads: 7}
		if got := r.ResolveThreads(); got != 7 {
			t.Errorf("threads: got %d, want 7", got)
		}
	})
	t.Run("defaults to logical CPU count", func(t *testing.T) {
		t.Setenv(ThreadsEnvVar, "")
		r := &RuntimeConfig{}
		if got := r.ResolveThreads(); got != runtime.NumCPU() {
			t.Errorf("threads: got %d, want %d", got, runtime.NumCPU())
		}
	})
	t.Run("invalid env value ignored", func(t *testing.T) {
		t.Setenv(ThreadsEnvVar, "not-a-number")
		r := &RuntimeConfig{Threads: 2}
		if got := r.ResolveThreads(); got != 2 {
			t.Errorf("threads: got %d, want 2", got)
		}
	})
}
