package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/roomie-backend/internal/platform/logger"
	"github.com/yungbote/roomie-backend/internal/services"
)

type PreprocessHandler struct {
	log           *logger.Logger
	preprocessSvc services.PreprocessService
}

func NewPreprocessHandler(log *logger.Logger, preprocessSvc services.PreprocessService) *PreprocessHandler {
	return &PreprocessHandler{
		log:           log.With("handler", "PreprocessHandler"),
		preprocessSvc: preprocessSvc,
	}
}

// POST /api/v1/preprocess
// Backfill embeddings for every profile missing one.
func (h *PreprocessHandler) PreprocessAll(c *gin.Context) {
	report, err := h.preprocessSvc.PreprocessAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, report)
}

// POST /api/v1/preprocess/:id
func (h *PreprocessHandler) PreprocessUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	profile, err := h.preprocessSvc.PreprocessUser(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, profile)
}

// GET /api/v1/preprocess/stats
func (h *PreprocessHandler) Stats(c *gin.Context) {
	stats, err := h.preprocessSvc.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, stats)
}
