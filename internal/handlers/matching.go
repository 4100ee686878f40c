package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/roomie-backend/internal/platform/logger"
	"github.com/yungbote/roomie-backend/internal/services"
)

type MatchingHandler struct {
	log         *logger.Logger
	matchingSvc services.MatchingService
}

func NewMatchingHandler(log *logger.Logger, matchingSvc services.MatchingService) *MatchingHandler {
	return &MatchingHandler{
		log:         log.With("handler", "MatchingHandler"),
		matchingSvc: matchingSvc,
	}
}

// GET /api/v1/matches/:id?limit=10
// Full fused ranking for one user.
func (h *MatchingHandler) GetMatches(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	ranked, err := h.matchingSvc.GetMatches(c.Request.Context(), id, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"user_id": id, "matches": ranked})
}

// GET /api/v1/matches/:id/simple?limit=10
// Embedding-similarity-only baseline ranking.
func (h *MatchingHandler) GetSimpleMatches(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	ranked, err := h.matchingSvc.GetSimpleMatches(c.Request.Context(), id, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"user_id": id, "matches": ranked})
}

// GET /api/v1/compatibility/:id1/:id2
// Score one pair and persist the breakdown.
func (h *MatchingHandler) GetPairCompatibility(c *gin.Context) {
	id1, err := uuid.Parse(c.Param("id1"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	id2, err := uuid.Parse(c.Param("id2"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	score, err := h.matchingSvc.GetPairCompatibility(c.Request.Context(), id1, id2)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, score)
}
