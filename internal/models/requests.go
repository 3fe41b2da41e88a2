// Package models defines the JSON request and response structures of the embedding API.
package models

// TextRequest is the body of POST /embed/text. Text is a pointer so a missing
// field can be told apart from an empty string during validation.
type TextRequest struct {
	Text *string `json:"text"`
}

// TextsRequest is the body of POST /embed/texts. Order of texts is preserved
// in the response: embeddings[i] corresponds to texts[i].
type TextsRequest struct {
	Texts *[]string `json:"texts"`
}

// ImagePathsRequest is the body of POST /embed/image-paths. Paths that do not
// exist on disk are silently dropped before embedding.
type ImagePathsRequest struct {
	Paths *[]string `json:"paths"`
}

// EmbeddingResponse carries a single embedding vector.
type EmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// EmbeddingsResponse carries a batch of embedding vectors. Embeddings is
// always non-nil so an empty batch marshals as [] rather than null.
type EmbeddingsResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}
