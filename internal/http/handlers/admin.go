package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/lifelessons-backend/internal/http/response"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
	"github.com/yungbote/lifelessons-backend/internal/services"
)

type AdminHandler struct {
	log        *logger.Logger
	moderation services.ModerationService
}

func NewAdminHandler(log *logger.Logger, moderation services.ModerationService) *AdminHandler {
	return &AdminHandler{log: log.With("handler", "AdminHandler"), moderation: moderation}
}

// GET /admin/all-lessons?category&visibility&status
func (h *AdminHandler) ListLessons(c *gin.Context) {
	out, err := h.moderation.ListLessons(c.Request.Context(), services.AdminLessonQuery{
		Category:   c.Query("category"),
		Visibility: c.Query("visibility"),
		Status:     c.Query("status"),
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// bindFlag reads a strict JSON bool from key. Strings, numbers and
// missing values are rejected.
func bindFlag(c *gin.Context, key string) (bool, bool) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondMessage(c, http.StatusBadRequest, "Invalid status provided.")
		return false, false
	}
	v, ok := body[key].(bool)
	if !ok {
		response.RespondMessage(c, http.StatusBadRequest, "Invalid status provided.")
		return false, false
	}
	return v, true
}

func (h *AdminHandler) setFlag(c *gin.Context, key string, set func(*gin.Context, uuid.UUID, bool) (*services.UpdateAck, error)) {
	id, ok := parseLessonID(c, c.Param("id"))
	if !ok {
		return
	}
	value, ok := bindFlag(c, key)
	if !ok {
		return
	}
	ack, err := set(c, id, value)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, ack)
}

// PATCH /admin/lessons/featured/:id
// body: { "isFeatured": true }
func (h *AdminHandler) SetFeatured(c *gin.Context) {
	h.setFlag(c, "isFeatured", func(c *gin.Context, id uuid.UUID, v bool) (*services.UpdateAck, error) {
		return h.moderation.SetFeatured(c.Request.Context(), id, v)
	})
}

// PATCH /admin/lessons/reviewed/:id
// body: { "isReviewed": true }
func (h *AdminHandler) SetReviewed(c *gin.Context) {
	h.setFlag(c, "isReviewed", func(c *gin.Context, id uuid.UUID, v bool) (*services.UpdateAck, error) {
		return h.moderation.SetReviewed(c.Request.Context(), id, v)
	})
}

// GET /admin/lesson-stats
func (h *AdminHandler) Stats(c *gin.Context) {
	st, err := h.moderation.Stats(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, st)
}

// GET /admin/reported-lessons
func (h *AdminHandler) ListFlagged(c *gin.Context) {
	out, err := h.moderation.ListFlagged(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /admin/reports/lesson/:id
func (h *AdminHandler) ReportsForLesson(c *gin.Context) {
	id, ok := parseLessonID(c, c.Param("id"))
	if !ok {
		return
	}
	out, err := h.moderation.ReportsForLesson(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /admin/lessons/:id
func (h *AdminHandler) DeleteLesson(c *gin.Context) {
	id, ok := parseLessonID(c, c.Param("id"))
	if !ok {
		return
	}
	res, err := h.moderation.DeleteLesson(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// DELETE /admin/reports/lesson/:id
func (h *AdminHandler) IgnoreReports(c *gin.Context) {
	id, ok := parseLessonID(c, c.Param("id"))
	if !ok {
		return
	}
	res, err := h.moderation.IgnoreReports(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}
