package embedding

import (
	"context"
	"image"
	"math"
)

// MockTextEmbedder is a deterministic text embedder for tests. It returns a
// fixed-dimension vector derived from the text hash so that the same text
// always gets the same embedding.
type MockTextEmbedder struct {
	dimensions int
}

// NewMockTextEmbedder returns a text embedder producing deterministic embeddings of the given dimensions.
func NewMockTextEmbedder(dimensions int) *MockTextEmbedder {
	if dimensions <= 0 {
		dimensions = 1024
	}
	return &MockTextEmbedder{dimensions: dimensions}
}

// Embed returns a deterministic embedding based on the text hash.
func (e *MockTextEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return hashEmbedding(HashString(text), e.dimensions), nil
}

// EmbedBatch calls Embed for each text, preserving order.
func (e *MockTextEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for _, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, emb)
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *MockTextEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for MockTextEmbedder.
func (e *MockTextEmbedder) Close() error {
	return nil
}

// MockImageEmbedder is a deterministic image embedder for tests. The vector is
// derived from the image dimensions and a pixel sample.
type MockImageEmbedder struct {
	dimensions int
}

// NewMockImageEmbedder returns an image embedder producing deterministic embeddings of the given dimensions.
func NewMockImageEmbedder(dimensions int) *MockImageEmbedder {
	if dimensions <= 0 {
		dimensions = 512
	}
	return &MockImageEmbedder{dimensions: dimensions}
}

// EmbedImage returns a deterministic embedding based on the image content hash.
func (e *MockImageEmbedder) EmbedImage(ctx context.Context, img image.Image) ([]float32, error) {
	return hashEmbedding(hashImage(img), e.dimensions), nil
}

// EmbedImages calls EmbedImage for each image; empty input yields an empty result.
func (e *MockImageEmbedder) EmbedImages(ctx context.Context, images []image.Image) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(images))
	for _, img := range images {
		emb, err := e.EmbedImage(ctx, img)
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, emb)
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *MockImageEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for MockImageEmbedder.
func (e *MockImageEmbedder) Close() error {
	return nil
}

// hashEmbedding builds a unit-length vector from a hash seed.
func hashEmbedding(h, dimensions int) []float32 {
	emb := make([]float32, dimensions)
	for i := 0; i < dimensions; i++ {
		emb[i] = float32(math.Sin(float64(h*(i+1)))*0.1 + 0.01)
	}
	var sum float64
	for _, v := range emb {
		sum += float64(v * v)
	}
	if sum > 0 {
		norm := 1.0 / math.Sqrt(sum)
		for i := range emb {
			emb[i] *= float32(norm)
		}
	}
	return emb
}

// HashString returns a deterministic non-negative hash of s.
func HashString(s string) int {
	h := 0
	for _, c := range s {
		h = 31*h + int(c)
	}
	if h < 0 {
		h = -h
	}
	return h
}

// hashImage folds the image bounds and a sparse pixel sample into a hash.
func hashImage(img image.Image) int {
	bounds := img.Bounds()
	h := 31*bounds.Dx() + bounds.Dy()
	step := bounds.Dx() / 8
	if step < 1 {
		step = 1
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, _ := img.At(x, y).RGBA()
			h = 31*h + int(r>>8) + int(g>>8)*7 + int(b>>8)*13
		}
	}
	if h < 0 {
		h = -h
	}
	return h
}
