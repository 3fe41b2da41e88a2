package server

import (
	"encoding/json"
	"net/http"

	"github.com/hyperjump/umekomi/internal/imaging"
	"github.com/hyperjump/umekomi/internal/models"
	"github.com/hyperjump/umekomi/pkg/utils"
	"go.uber.org/zap"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing; larger
// uploads spill to temp files.
const maxUploadMemory = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEmbedText(w http.ResponseWriter, r *http.Request) {
	var req models.TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if req.Text == nil {
		s.respondError(w, http.StatusUnprocessableEntity, "text is required")
		return
	}
	s.logger.Debug("embed text request", zap.String("text", utils.Truncate(*req.Text, 80)))
	emb, err := s.text.Embed(r.Context(), *req.Text)
	if err != nil {
		s.logger.Error("text embedding failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, models.EmbeddingResponse{Embedding: emb})
}

func (s *Server) handleEmbedTexts(w http.ResponseWriter, r *http.Request) {
	var req models.TextsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if req.Texts == nil {
		s.respondError(w, http.StatusUnprocessableEntity, "texts is required")
		return
	}
	s.logger.Debug("embed texts request", zap.Int("count", len(*req.Texts)))
	embs, err := s.text.EmbedBatch(r.Context(), *req.Texts)
	if err != nil {
		s.logger.Error("batch text embedding failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, models.EmbeddingsResponse{Embeddings: embs})
}

func (s *Server) handleEmbedImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer file.Close()

	s.logger.Debug("embed image request", zap.String("filename", header.Filename), zap.Int64("size", header.Size))
	img, err := imaging.Decode(file)
	if err != nil {
		s.logger.Error("image decode failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	emb, err := s.image.EmbedImage(r.Context(), img)
	if err != nil {
		s.logger.Error("image embedding failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, models.EmbeddingResponse{Embedding: emb})
}

func (s *Server) handleEmbedImagePaths(w http.ResponseWriter, r *http.Request) {
	var req models.ImagePathsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if req.Paths == nil {
		s.respondError(w, http.StatusUnprocessableEntity, "paths is required")
		return
	}
	s.logger.Debug("embed image paths request", zap.Int("count", len(*req.Paths)))

	// Missing paths are dropped silently; the response carries no
	// correspondence to input positions once filtering happens.
	images, err := imaging.OpenAll(*req.Paths)
	if err != nil {
		s.logger.Error("image decode failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	embs, err := s.image.EmbedImages(r.Context(), images)
	if err != nil {
		s.logger.Error("batch image embedding failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, models.EmbeddingsResponse{Embeddings: embs})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
