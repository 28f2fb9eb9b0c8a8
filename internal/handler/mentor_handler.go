package handler

import (
	"sagetrade/backend/internal/middleware"
	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/service"
	"sagetrade/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// MentorHandler handles mentor chat endpoints
type MentorHandler struct {
	mentorService *service.MentorService
}

// NewMentorHandler creates a new mentor handler
func NewMentorHandler(mentorService *service.MentorService) *MentorHandler {
	return &MentorHandler{mentorService: mentorService}
}

// Chat sends a message to the mentor
// POST /api/v1/mentor/chat
func (h *MentorHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	resp, err := h.mentorService.Chat(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, resp)
}

// History returns the stored conversation, oldest first
// GET /api/v1/mentor/history
func (h *MentorHandler) History(c *gin.Context) {
	history, err := h.mentorService.History(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, history)
}

// ClearHistory drops the stored conversation
// DELETE /api/v1/mentor/history
func (h *MentorHandler) ClearHistory(c *gin.Context) {
	if err := h.mentorService.ClearHistory(c.Request.Context(), middleware.UserID(c)); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "History cleared")
}
