package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/logger"
)

const (
	serviceMessage   = "Bozok Üniversitesi Yönerge Asistanı API"
	notReadyDetail   = "RAG engine başlatılmadı"
	emptyQuestionMsg = "Soru boş olamaz"
)

type askRequest struct {
	Question string `json:"question"`
	TopK     *int   `json:"top_k"`
}

type rootResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	CollectionSize int    `json:"collection_size"`
}

type healthResponse struct {
	Status         string `json:"status"`
	CollectionName string `json:"collection_name"`
	TotalChunks    int    `json:"total_chunks"`
	EmbeddingModel string `json:"embedding_model"`
}

type statsResponse struct {
	TotalDocuments int    `json:"total_documents"`
	CollectionName string `json:"collection_name"`
	EmbeddingModel string `json:"embedding_model"`
	GeminiModel    string `json:"gemini_model"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) root(c *gin.Context) {
	size := 0
	if stats, err := s.engine.Stats(c.Request.Context()); err == nil {
		size = stats.TotalChunks
	} else {
		logger.Warn("reading collection size: %v", err)
	}
	c.JSON(http.StatusOK, rootResponse{
		Status:         "online",
		Message:        serviceMessage,
		CollectionSize: size,
	})
}

func (s *Server) health(c *gin.Context) {
	if !s.engine.IsReady() {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Detail: notReadyDetail})
		return
	}
	stats, err := s.engine.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, healthResponse{
		Status:         "healthy",
		CollectionName: stats.CollectionName,
		TotalChunks:    stats.TotalChunks,
		EmbeddingModel: stats.EmbeddingModel,
	})
}

func (s *Server) ask(c *gin.Context) {
	if !s.engine.IsReady() {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Detail: notReadyDetail})
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: emptyQuestionMsg})
		return
	}
	topK := domain.DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	result, err := s.engine.GenerateAnswer(c.Request.Context(), req.Question, topK)
	if err != nil {
		writeError(c, err)
		return
	}
	if result.Sources == nil {
		result.Sources = []domain.SourceRef{}
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) stats(c *gin.Context) {
	if !s.engine.IsReady() {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Detail: notReadyDetail})
		return
	}
	stats, err := s.engine.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statsResponse{
		TotalDocuments: stats.TotalChunks,
		CollectionName: stats.CollectionName,
		EmbeddingModel: stats.EmbeddingModel,
		GeminiModel:    stats.GenerativeModel,
	})
}

// writeError maps domain errors to status codes.
func writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		detail := verr.Error()
		if verr.Field == "question" {
			detail = emptyQuestionMsg
		}
		c.JSON(http.StatusBadRequest, errorResponse{Detail: detail})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
	case errors.Is(err, domain.ErrIndexUnavailable):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Detail: notReadyDetail})
	case errors.Is(err, domain.ErrConfigMismatch):
		c.JSON(http.StatusConflict, errorResponse{Detail: err.Error()})
	default:
		logger.Error("request %s failed: %v", c.GetString(requestIDKey), err)
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: err.Error()})
	}
}
