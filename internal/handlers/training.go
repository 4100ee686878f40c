package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomie-backend/internal/platform/logger"
	"github.com/yungbote/roomie-backend/internal/services"
)

type TrainingHandler struct {
	log         *logger.Logger
	trainingSvc services.TrainingService
}

func NewTrainingHandler(log *logger.Logger, trainingSvc services.TrainingService) *TrainingHandler {
	return &TrainingHandler{
		log:         log.With("handler", "TrainingHandler"),
		trainingSvc: trainingSvc,
	}
}

// POST /api/v1/models/train
func (h *TrainingHandler) Train(c *gin.Context) {
	report, err := h.trainingSvc.Train(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, report)
}

// POST /api/v1/models/load
// Load the latest persisted bundle from disk.
func (h *TrainingHandler) Load(c *gin.Context) {
	loaded, err := h.trainingSvc.Load(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !loaded {
		RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("no saved models found"))
		return
	}
	RespondOK(c, h.trainingSvc.Status())
}

// GET /api/v1/models/status
func (h *TrainingHandler) Status(c *gin.Context) {
	RespondOK(c, h.trainingSvc.Status())
}

// GET /api/v1/models/requirements
func (h *TrainingHandler) Requirements(c *gin.Context) {
	req, err := h.trainingSvc.Requirements(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, req)
}
