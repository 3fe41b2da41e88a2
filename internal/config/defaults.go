package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.TextModel.ModelPath == "" {
		cfg.TextModel.ModelPath = "/usr/local/var/umekomi/models/bge-m3.onnx"
	}
	if cfg.TextModel.TokenizerPath == "" {
		cfg.TextModel.TokenizerPath = "/usr/local/var/umekomi/models/bge-m3-tokenizer.json"
	}
	if cfg.TextModel.Dimensions == 0 {
		cfg.TextModel.Dimensions = 1024
	}
	if cfg.TextModel.MaxTokens == 0 {
		cfg.TextModel.MaxTokens = 512
	}
	if cfg.TextModel.CacheSize == 0 {
		cfg.TextModel.CacheSize = 10000
	}
	if cfg.ImageModel.ModelPath == "" {
		cfg.ImageModel.ModelPath = "/usr/local/var/umekomi/models/clip-vit-b-32-vision.onnx"
	}
	if cfg.ImageModel.Dimensions == 0 {
		cfg.ImageModel.Dimensions = 512
	}
	if cfg.ImageModel.ImageSize == 0 {
		cfg.ImageModel.ImageSize = 224
	}
}
