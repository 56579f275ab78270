package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/lifelessons-backend/internal/http/response"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
	"github.com/yungbote/lifelessons-backend/internal/services"
)

type EngagementHandler struct {
	log        *logger.Logger
	engagement services.EngagementService
}

func NewEngagementHandler(log *logger.Logger, engagement services.EngagementService) *EngagementHandler {
	return &EngagementHandler{log: log.With("handler", "EngagementHandler"), engagement: engagement}
}

type lessonRefRequest struct {
	LessonID string `json:"lessonId"`
}

// bindLessonRef reads {lessonId}. Missing id is a 400 with missingMsg.
func bindLessonRef(c *gin.Context, missingMsg string) (uuid.UUID, bool) {
	var req lessonRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return uuid.Nil, false
	}
	if strings.TrimSpace(req.LessonID) == "" {
		response.RespondMessage(c, http.StatusBadRequest, missingMsg)
		return uuid.Nil, false
	}
	return parseLessonID(c, req.LessonID)
}

// PATCH /lessons/like
// body: { "lessonId": "..." }
func (h *EngagementHandler) ToggleLike(c *gin.Context) {
	id, ok := bindLessonRef(c, "Lesson ID required.")
	if !ok {
		return
	}
	res, err := h.engagement.ToggleLike(c.Request.Context(), id, callerEmail(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	msg := "Like removed ❤️"
	if res.Liked {
		msg = "Liked successfully ❤️"
	}
	response.RespondOK(c, gin.H{"message": msg, "liked": res.Liked, "likesCount": res.LikesCount})
}

// PATCH /lessons/save-to-favorites
// body: { "lessonId": "..." }
func (h *EngagementHandler) ToggleFavorite(c *gin.Context) {
	id, ok := bindLessonRef(c, "Lesson ID required.")
	if !ok {
		return
	}
	res, err := h.engagement.ToggleFavorite(c.Request.Context(), id, callerEmail(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	msg := "Removed from favorites ⭐"
	if res.Saved {
		msg = "Saved to favorites ⭐"
	}
	response.RespondOK(c, gin.H{"saved": res.Saved, "message": msg})
}

type commentRequest struct {
	LessonID  string     `json:"lessonId"`
	Comment   string     `json:"comment"`
	CreatedAt *time.Time `json:"createdAt"`
}

// POST /create-comment
func (h *EngagementHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	if strings.TrimSpace(req.LessonID) == "" || strings.TrimSpace(req.Comment) == "" {
		response.RespondMessage(c, http.StatusBadRequest, "Lesson ID & comment required")
		return
	}
	id, ok := parseLessonID(c, req.LessonID)
	if !ok {
		return
	}
	in := services.CommentInput{LessonID: id, Email: callerEmail(c), Comment: req.Comment}
	if req.CreatedAt != nil {
		in.CreatedAt = *req.CreatedAt
	}
	if err := h.engagement.AddComment(c.Request.Context(), in); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Comment added successfully", "status": true})
}

type reportRequest struct {
	LessonID      string `json:"lessonId"`
	ReporterEmail string `json:"reporterEmail"`
	Reason        string `json:"reason"`
	Details       string `json:"details"`
}

// POST /lessons/report
func (h *EngagementHandler) FileReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	if strings.TrimSpace(req.LessonID) == "" || strings.TrimSpace(req.Reason) == "" {
		response.RespondMessage(c, http.StatusBadRequest, "Missing fields")
		return
	}
	id, ok := parseLessonID(c, req.LessonID)
	if !ok {
		return
	}
	reporter := strings.TrimSpace(req.ReporterEmail)
	if reporter == "" {
		reporter = callerEmail(c)
	}
	reportID, err := h.engagement.FileReport(c.Request.Context(), services.ReportInput{
		LessonID:      id,
		ReporterEmail: reporter,
		Reason:        req.Reason,
		Details:       req.Details,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "reportId": reportID})
}
