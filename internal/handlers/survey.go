package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/roomie-backend/internal/platform/logger"
	"github.com/yungbote/roomie-backend/internal/services"
)

type SurveyHandler struct {
	log       *logger.Logger
	surveySvc services.SurveyService
}

func NewSurveyHandler(log *logger.Logger, surveySvc services.SurveyService) *SurveyHandler {
	return &SurveyHandler{
		log:       log.With("handler", "SurveyHandler"),
		surveySvc: surveySvc,
	}
}

// POST /api/v1/survey
// Submit a survey, creating the user profile.
func (h *SurveyHandler) SubmitSurvey(c *gin.Context) {
	var input services.SurveyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	profile, err := h.surveySvc.SubmitSurvey(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// GET /api/v1/users
func (h *SurveyHandler) ListUsers(c *gin.Context) {
	users, err := h.surveySvc.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, users)
}

// GET /api/v1/users/:id
func (h *SurveyHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, err := h.surveySvc.GetUser(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, user)
}

// POST /api/v1/rooms
func (h *SurveyHandler) CreateRoom(c *gin.Context) {
	var input services.RoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	room, err := h.surveySvc.CreateRoom(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// GET /api/v1/rooms
func (h *SurveyHandler) ListRooms(c *gin.Context) {
	rooms, err := h.surveySvc.ListRooms(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, rooms)
}
