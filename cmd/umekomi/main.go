// Package main is the Umekomi CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/umekomi/internal/config"
	"github.com/hyperjump/umekomi/internal/embedding"
	"github.com/hyperjump/umekomi/internal/server"
	"github.com/hyperjump/umekomi/pkg/client"
	"github.com/hyperjump/umekomi/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/umekomi/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "embed":
		runEmbed()
	case "version", "--version", "-v":
		fmt.Printf("umekomi version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (per-request logs)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	threads := cfg.Runtime.ResolveThreads()
	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.Int("threads", threads),
	)

	textEmbedder, err := embedding.NewONNXTextEmbedder(
		cfg.TextModel.ResolvedModelPath(),
		cfg.TextModel.TokenizerPath,
		cfg.TextModel.Dimensions,
		cfg.TextModel.MaxTokens,
		cfg.TextModel.CacheSize,
		threads,
	)
	if err != nil {
		logger.Fatal("Failed to load text model", zap.Error(err))
	}
	defer textEmbedder.Close()
	logger.Info("text model loaded",
		zap.String("path", cfg.TextModel.ResolvedModelPath()),
		zap.Int("dimensions", cfg.TextModel.Dimensions),
		zap.Bool("quantized", cfg.TextModel.UseQuantization),
	)

	imageEmbedder, err := embedding.NewONNXImageEmbedder(
		cfg.ImageModel.ResolvedModelPath(),
		cfg.ImageModel.Dimensions,
		cfg.ImageModel.ImageSize,
		threads,
	)
	if err != nil {
		logger.Fatal("Failed to load image model", zap.Error(err))
	}
	defer imageEmbedder.Close()
	logger.Info("image model loaded",
		zap.String("path", cfg.ImageModel.ResolvedModelPath()),
		zap.Int("dimensions", cfg.ImageModel.Dimensions),
		zap.Bool("quantized", cfg.ImageModel.UseQuantization),
	)

	srv := server.NewServer(textEmbedder, imageEmbedder, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runEmbed() {
	fs := flag.NewFlagSet("embed", flag.ExitOnError)
	addr := fs.String("addr", "http://localhost:8000", "server address")
	isImage := fs.Bool("image", false, "treat the argument as an image file path to upload")
	timeout := fs.Duration("timeout", 2*time.Minute, "request timeout")
	_ = fs.Parse(os.Args[2:])

	args := fs.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: umekomi embed [flags] <text>\n       umekomi embed -image <file>\n")
		fs.PrintDefaults()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	c := client.New(*addr)

	var (
		emb []float32
		err error
	)
	if *isImage {
		path := args[0]
		f, openErr := os.Open(path)
		if openErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", openErr)
			os.Exit(1)
		}
		defer f.Close()
		emb, err = c.EmbedImage(ctx, f, filepath.Base(path))
	} else {
		emb, err = c.EmbedText(ctx, buildEmbedText(args))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedding failed: %v\n", err)
		os.Exit(1)
	}

	out, err := json.Marshal(emb)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal embedding: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// buildEmbedText joins all positional args with spaces so multi-word texts
// work the same with or without shell quoting.
func buildEmbedText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func printUsage() {
	fmt.Println(`Umekomi - text and image embedding service

Usage:
  umekomi server [-config path] [-debug]   Start the embedding server
  umekomi embed [-addr url] <text>         Embed a text via a running server
  umekomi embed -image <file>              Embed an image via a running server
  umekomi version                          Print version
  umekomi help                             Show this help`)
}
