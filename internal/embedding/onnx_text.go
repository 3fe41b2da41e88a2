//go:build cgo
// +build cgo

package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyperjump/umekomi/pkg/utils"
	ort "github.com/yalue/onnxruntime_go"
)

// Tensor names of the BERT-style text encoder export.
var (
	textInputNames  = []string{"input_ids", "attention_mask"}
	textOutputNames = []string{"last_hidden_state"}
)

// ONNXTextEmbedder runs a BGE-M3-style text encoder through ONNX Runtime.
// The model outputs token-level hidden states; the sentence embedding is the
// CLS token vector, L2-normalized. It requires CGO and the onnxruntime
// shared library.
type ONNXTextEmbedder struct {
	session    *ort.DynamicAdvancedSession
	tokenizer  *TextTokenizer
	dimensions int
	cache      *Cache
	mu         sync.Mutex
}

// NewONNXTextEmbedder creates a text embedder from an ONNX model file and its
// tokenizer.json. The ONNX environment is initialized on first use.
func NewONNXTextEmbedder(modelPath, tokenizerPath string, dimensions, maxTokens, cacheSize, threads int) (*ONNXTextEmbedder, error) {
	if err := initRuntime(); err != nil {
		return nil, err
	}

	tok, err := NewTextTokenizer(tokenizerPath, maxTokens)
	if err != nil {
		return nil, err
	}

	opts, err := newSessionOptions(threads)
	if err != nil {
		return nil, err
	}
	defer opts.Destroy()

	session, err := ort.NewDynamicAdvancedSession(modelPath, textInputNames, textOutputNames, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create text model session: %w", err)
	}

	return &ONNXTextEmbedder{
		session:    session,
		tokenizer:  tok,
		dimensions: dimensions,
		cache:      NewCache(cacheSize),
	}, nil
}

// Embed returns the embedding for text, using the cache when available.
func (e *ONNXTextEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}
	embeddings, err := e.compute([]string{text})
	if err != nil {
		return nil, err
	}
	e.cache.Set(text, embeddings[0])
	return embeddings[0], nil
}

// EmbedBatch embeds all texts in one inference call, preserving order.
func (e *ONNXTextEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	embeddings, err := e.compute(texts)
	if err != nil {
		return nil, err
	}
	for i, text := range texts {
		e.cache.Set(text, embeddings[i])
	}
	return embeddings, nil
}

// compute tokenizes and runs the whole batch through the session.
func (e *ONNXTextEmbedder) compute(texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inputIDs, attentionMask, seqLen, err := e.tokenizer.EncodeBatch(texts)
	if err != nil {
		return nil, err
	}
	batch := len(texts)
	inputShape := ort.NewShape(int64(batch), int64(seqLen))

	inputIDsTensor, err := ort.NewTensor(inputShape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	defer inputIDsTensor.Destroy()

	attentionMaskTensor, err := ort.NewTensor(inputShape, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	defer attentionMaskTensor.Destroy()

	outputShape := ort.NewShape(int64(batch), int64(seqLen), int64(e.dimensions))
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	inputs := []ort.Value{inputIDsTensor, attentionMaskTensor}
	outputs := []ort.Value{outputTensor}
	if err := e.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	hidden := outputTensor.GetData()
	embeddings := make([][]float32, batch)
	for b := 0; b < batch; b++ {
		// CLS pooling: the first token of each sequence.
		emb := make([]float32, e.dimensions)
		copy(emb, hidden[b*seqLen*e.dimensions:b*seqLen*e.dimensions+e.dimensions])
		utils.NormalizeL2(emb)
		embeddings[b] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *ONNXTextEmbedder) Dimensions() int {
	return e.dimensions
}

// Close destroys the session.
func (e *ONNXTextEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		err := e.session.Destroy()
		e.session = nil
		return err
	}
	return nil
}
