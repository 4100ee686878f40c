package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/roomie-backend/internal/allocation"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
	"github.com/yungbote/roomie-backend/internal/services"
)

type AllocationHandler struct {
	log           *logger.Logger
	allocationSvc services.AllocationService
}

func NewAllocationHandler(log *logger.Logger, allocationSvc services.AllocationService) *AllocationHandler {
	return &AllocationHandler{
		log:           log.With("handler", "AllocationHandler"),
		allocationSvc: allocationSvc,
	}
}

// POST /api/v1/allocations?strategy=balanced
// Allocate every unassigned user.
func (h *AllocationHandler) AllocateAll(c *gin.Context) {
	strategy := c.DefaultQuery("strategy", allocation.StrategyCompatibility)
	result, err := h.allocationSvc.AllocateAll(c.Request.Context(), strategy)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

// POST /api/v1/allocations/:id?strategy=budget_first
// Allocate a single user.
func (h *AllocationHandler) AllocateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	strategy := c.DefaultQuery("strategy", allocation.StrategyCompatibility)
	result, err := h.allocationSvc.AllocateUser(c.Request.Context(), id, strategy)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

// GET /api/v1/allocations/status
func (h *AllocationHandler) Status(c *gin.Context) {
	status, err := h.allocationSvc.Status(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, status)
}

// GET /api/v1/rooms/:id/details
// Room plus its active occupants.
func (h *AllocationHandler) RoomDetails(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	details, err := h.allocationSvc.RoomDetails(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, details)
}

// DELETE /api/v1/allocations/:id
// Remove a user's active assignment.
func (h *AllocationHandler) RemoveAssignment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.allocationSvc.RemoveAssignment(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": true, "user_id": id})
}
