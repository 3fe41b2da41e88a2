// Package config provides configuration loading and structs for the Umekomi server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ThreadsEnvVar overrides the inference thread count when set.
const ThreadsEnvVar = "ORT_NUM_THREADS"

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Runtime    RuntimeConfig    `yaml:"runtime"`
	TextModel  TextModelConfig  `yaml:"text_model"`
	ImageModel ImageModelConfig `yaml:"image_model"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RuntimeConfig holds inference runtime settings shared by both models.
type RuntimeConfig struct {
	// Threads sizes the runtime's intra- and inter-op thread pools.
	// Zero means "use the logical CPU count".
	Threads int `yaml:"threads"`
}

// ResolveThreads returns the thread count to use: the ORT_NUM_THREADS
// environment variable when set, otherwise the configured value, otherwise
// the host's logical CPU count.
func (r *RuntimeConfig) ResolveThreads() int {
	if v := os.Getenv(ThreadsEnvVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if r.Threads > 0 {
		return r.Threads
	}
	return runtime.NumCPU()
}

// TextModelConfig holds settings for the text embedding model.
type TextModelConfig struct {
	ModelPath       string `yaml:"model_path"`
	TokenizerPath   string `yaml:"tokenizer_path"`
	Dimensions      int    `yaml:"dimensions"`
	MaxTokens       int    `yaml:"max_tokens"`
	UseQuantization bool   `yaml:"use_quantization"`
	CacheSize       int    `yaml:"cache_size"`
}

// ResolvedModelPath returns the model file to load, switching to the INT8
// quantized export when quantization is enabled.
func (c *TextModelConfig) ResolvedModelPath() string {
	if c.UseQuantization {
		return QuantizedModelPath(c.ModelPath)
	}
	return c.ModelPath
}

// ImageModelConfig holds settings for the image embedding model.
type ImageModelConfig struct {
	ModelPath       string `yaml:"model_path"`
	Dimensions      int    `yaml:"dimensions"`
	ImageSize       int    `yaml:"image_size"`
	UseQuantization bool   `yaml:"use_quantization"`
}

// ResolvedModelPath returns the model file to load, switching to the INT8
// quantized export when quantization is enabled.
func (c *ImageModelConfig) ResolvedModelPath() string {
	if c.UseQuantization {
		return QuantizedModelPath(c.ModelPath)
	}
	return c.ModelPath
}

// QuantizedModelPath returns the INT8 sibling of an ONNX model path:
// model.onnx becomes model.int8.onnx. Paths without a .onnx suffix get
// ".int8" appended.
func QuantizedModelPath(path string) string {
	if strings.HasSuffix(path, ".onnx") {
		return strings.TrimSuffix(path, ".onnx") + ".int8.onnx"
	}
	return path + ".int8"
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.TextModel.ModelPath = expandPath(cfg.TextModel.ModelPath, configDir)
	cfg.TextModel.TokenizerPath = expandPath(cfg.TextModel.TokenizerPath, configDir)
	cfg.ImageModel.ModelPath = expandPath(cfg.ImageModel.ModelPath, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
