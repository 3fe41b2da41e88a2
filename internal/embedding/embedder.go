// Package embedding hosts the resident text and image models and produces
// vector embeddings via ONNX Runtime.
package embedding

import (
	"context"
	"image"
)

// TextEmbedder produces vector embeddings for text.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch preserves order: the i-th embedding corresponds to the i-th
	// text. Empty input yields an empty, non-nil result.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// ImageEmbedder produces vector embeddings for decoded RGB images.
type ImageEmbedder interface {
	EmbedImage(ctx context.Context, img image.Image) ([]float32, error)
	// EmbedImages returns an empty, non-nil result for empty input without
	// invoking the model.
	EmbedImages(ctx context.Context, images []image.Image) ([][]float32, error)
	Dimensions() int
	Close() error
}
