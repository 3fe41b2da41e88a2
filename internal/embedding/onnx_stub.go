//go:build !cgo
// +build !cgo

package embedding

import (
	"context"
	"errors"
	"image"
)

var errNoCGO = errors.New("ONNX embedders require CGO; build with CGO_ENABLED=1 and onnxruntime")

// ONNXTextEmbedder stub type when built without CGO (see onnx_text.go for the real implementation).
type ONNXTextEmbedder struct{}

// NewONNXTextEmbedder returns an error when built without CGO (ONNX not available).
func NewONNXTextEmbedder(_, _ string, _, _, _, _ int) (*ONNXTextEmbedder, error) {
	return nil, errNoCGO
}

func (e *ONNXTextEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errNoCGO
}

func (e *ONNXTextEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errNoCGO
}

func (e *ONNXTextEmbedder) Dimensions() int { return 0 }

func (e *ONNXTextEmbedder) Close() error { return nil }

// ONNXImageEmbedder stub type when built without CGO (see onnx_image.go for the real implementation).
type ONNXImageEmbedder struct{}

// NewONNXImageEmbedder returns an error when built without CGO (ONNX not available).
func NewONNXImageEmbedder(_ string, _, _, _ int) (*ONNXImageEmbedder, error) {
	return nil, errNoCGO
}

func (e *ONNXImageEmbedder) EmbedImage(ctx context.Context, img image.Image) ([]float32, error) {
	return nil, errNoCGO
}

func (e *ONNXImageEmbedder) EmbedImages(ctx context.Context, images []image.Image) ([][]float32, error) {
	return nil, errNoCGO
}

func (e *ONNXImageEmbedder) Dimensions() int { return 0 }

func (e *ONNXImageEmbedder) Close() error { return nil }
