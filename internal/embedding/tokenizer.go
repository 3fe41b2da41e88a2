package embedding

import (
	"fmt"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// TextTokenizer wraps a HuggingFace tokenizer.json tokenizer and flattens its
// output into the padded int64 planes the ONNX session expects.
type TextTokenizer struct {
	tk        *tokenizer.Tokenizer
	maxTokens int
}

// NewTextTokenizer loads a tokenizer.json file from path. maxTokens caps the
// padded sequence length; zero or negative means no cap.
func NewTextTokenizer(path string, maxTokens int) (*TextTokenizer, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer %s: %w", path, err)
	}
	return &TextTokenizer{tk: tk, maxTokens: maxTokens}, nil
}

// EncodeBatch tokenizes texts and returns flattened input_ids and
// attention_mask planes of shape [len(texts) * seqLen], where seqLen is the
// longest sequence in the batch capped at maxTokens.
func (t *TextTokenizer) EncodeBatch(texts []string) (inputIDs, attentionMask []int64, seqLen int, err error) {
	inputs := make([]tokenizer.EncodeInput, len(texts))
	for i, s := range texts {
		inputs[i] = tokenizer.NewSingleEncodeInput(tokenizer.NewInputSequence(s))
	}
	encodings, err := t.tk.EncodeBatch(inputs, true)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to tokenize: %w", err)
	}
	inputIDs, attentionMask, seqLen = flattenEncodings(encodings, t.maxTokens)
	return inputIDs, attentionMask, seqLen, nil
}

// flattenEncodings pads each encoding to the batch's longest sequence (capped
// at maxLen when positive) and flattens the result row-major. Sequences longer
// than the cap are truncated.
func flattenEncodings(encodings []tokenizer.Encoding, maxLen int) (inputIDs, attentionMask []int64, seqLen int) {
	for _, enc := range encodings {
		if len(enc.Ids) > seqLen {
			seqLen = len(enc.Ids)
		}
	}
	if maxLen > 0 && seqLen > maxLen {
		seqLen = maxLen
	}
	if seqLen == 0 {
		seqLen = 1
	}

	batch := len(encodings)
	inputIDs = make([]int64, batch*seqLen)
	attentionMask = make([]int64, batch*seqLen)
	for b, enc := range encodings {
		n := len(enc.Ids)
		if n > seqLen {
			n = seqLen
		}
		for i := 0; i < n; i++ {
			inputIDs[b*seqLen+i] = int64(enc.Ids[i])
		}
		n = len(enc.AttentionMask)
		if n > seqLen {
			n = seqLen
		}
		for i := 0; i < n; i++ {
			attentionMask[b*seqLen+i] = int64(enc.AttentionMask[i])
		}
	}
	return inputIDs, attentionMask, seqLen
}
