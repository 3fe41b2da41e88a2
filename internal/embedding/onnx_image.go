//go:build cgo
// +build cgo

package embedding

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/hyperjump/umekomi/internal/imaging"
	ort "github.com/yalue/onnxruntime_go"
)

// Tensor names of the CLIP vision encoder export.
var (
	imageInputNames  = []string{"pixel_values"}
	imageOutputNames = []string{"image_embeds"}
)

// ONNXImageEmbedder runs a CLIP ViT-B/32 vision encoder through ONNX Runtime.
// The output is the model's raw image embedding, not normalized. It requires
// CGO and the onnxruntime shared library.
type ONNXImageEmbedder struct {
	session    *ort.DynamicAdvancedSession
	dimensions int
	imageSize  int
	mu         sync.Mutex
}

// NewONNXImageEmbedder creates an image embedder from an ONNX model file.
// The ONNX environment is initialized on first use.
func NewONNXImageEmbedder(modelPath string, dimensions, imageSize, threads int) (*ONNXImageEmbedder, error) {
	if err := initRuntime(); err != nil {
		return nil, err
	}
	if imageSize <= 0 {
		imageSize = imaging.DefaultSize
	}

	opts, err := newSessionOptions(threads)
	if err != nil {
		return nil, err
	}
	defer opts.Destroy()

	session, err := ort.NewDynamicAdvancedSession(modelPath, imageInputNames, imageOutputNames, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create image model session: %w", err)
	}

	return &ONNXImageEmbedder{
		session:    session,
		dimensions: dimensions,
		imageSize:  imageSize,
	}, nil
}

// EmbedImage returns the embedding for a single decoded image.
func (e *ONNXImageEmbedder) EmbedImage(ctx context.Context, img image.Image) ([]float32, error) {
	embeddings, err := e.EmbedImages(ctx, []image.Image{img})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedImages embeds all images in one inference call. Empty input returns an
// empty result without touching the session.
func (e *ONNXImageEmbedder) EmbedImages(ctx context.Context, images []image.Image) ([][]float32, error) {
	if len(images) == 0 {
		return [][]float32{}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	batch := len(images)
	plane := 3 * e.imageSize * e.imageSize
	pixels := make([]float32, batch*plane)
	for i, img := range images {
		copy(pixels[i*plane:(i+1)*plane], imaging.PixelValues(img, e.imageSize))
	}

	inputShape := ort.NewShape(int64(batch), 3, int64(e.imageSize), int64(e.imageSize))
	pixelTensor, err := ort.NewTensor(inputShape, pixels)
	if err != nil {
		return nil, fmt.Errorf("failed to create pixel_values tensor: %w", err)
	}
	defer pixelTensor.Destroy()

	outputShape := ort.NewShape(int64(batch), int64(e.dimensions))
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	inputs := []ort.Value{pixelTensor}
	outputs := []ort.Value{outputTensor}
	if err := e.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	flat := outputTensor.GetData()
	embeddings := make([][]float32, batch)
	for b := 0; b < batch; b++ {
		emb := make([]float32, e.dimensions)
		copy(emb, flat[b*e.dimensions:(b+1)*e.dimensions])
		embeddings[b] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *ONNXImageEmbedder) Dimensions() int {
	return e.dimensions
}

// Close destroys the session.
func (e *ONNXImageEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		err := e.session.Destroy()
		e.session = nil
		return err
	}
	return nil
}
