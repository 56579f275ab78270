package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifelessons-backend/internal/http/response"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
	"github.com/yungbote/lifelessons-backend/internal/services"
)

type LessonHandler struct {
	log     *logger.Logger
	lessons services.LessonService
}

func NewLessonHandler(log *logger.Logger, lessons services.LessonService) *LessonHandler {
	return &LessonHandler{log: log.With("handler", "LessonHandler"), lessons: lessons}
}

type createLessonRequest struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	EmotionalTone string `json:"emotionalTone"`
	Image         string `json:"image"`
	Visibility    string `json:"visibility" binding:"omitempty,visibility"`
	AccessLevel   string `json:"accessLevel" binding:"omitempty,access_level"`
	Creator       *struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	} `json:"creator"`
}

// POST /lessons
func (h *LessonHandler) Create(c *gin.Context) {
	var req createLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	in := services.LessonInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		EmotionalTone: req.EmotionalTone,
		Image:         req.Image,
		Visibility:    req.Visibility,
		AccessLevel:   req.AccessLevel,
	}
	if req.Creator != nil {
		in.CreatorName = req.Creator.Name
		in.CreatorImage = req.Creator.Image
	}
	lesson, err := h.lessons.Create(c.Request.Context(), callerEmail(c), in)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"acknowledged": true, "insertedId": lesson.ID})
}

type updateLessonRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	EmotionalTone *string `json:"emotionalTone"`
	Image         *string `json:"image"`
	Visibility    *string `json:"visibility" binding:"omitempty,visibility"`
	AccessLevel   *string `json:"accessLevel" binding:"omitempty,access_level"`
}

// PATCH /update-lessons/:id
func (h *LessonHandler) Update(c *gin.Context) {
	id, ok := parseLessonID(c, c.Param("id"))
	if !ok {
		return
	}
	var req updateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	res, err := h.lessons.Update(c.Request.Context(), id, callerEmail(c), services.LessonPatch{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		EmotionalTone: req.EmotionalTone,
		Image:         req.Image,
		Visibility:    req.Visibility,
		AccessLevel:   req.AccessLevel,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":       true,
		"message":       res.Message,
		"modifiedCount": res.Modified,
	})
}

// DELETE /lessons/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	id, ok := parseLessonID(c, c.Param("id"))
	if !ok {
		return
	}
	res, err := h.lessons.Delete(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "message": res.Message})
}

// GET /lessons/:id
func (h *LessonHandler) Get(c *gin.Context) {
	id, ok := parseLessonID(c, c.Param("id"))
	if !ok {
		return
	}
	lesson, err := h.lessons.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, lesson)
}

// GET /my-lessons/:email
func (h *LessonHandler) ListByCreator(c *gin.Context) {
	out, err := h.lessons.ListByCreator(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /public-lessons?category&tone&search&page&limit
func (h *LessonHandler) ListPublic(c *gin.Context) {
	page, err := h.lessons.ListPublic(c.Request.Context(), services.PublicQuery{
		Category: c.Query("category"),
		Tone:     c.Query("tone"),
		Search:   c.Query("search"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /featured-lessons
func (h *LessonHandler) Featured(c *gin.Context) {
	out, err := h.lessons.Featured(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /favorite-lessons
func (h *LessonHandler) Favorites(c *gin.Context) {
	out, err := h.lessons.Favorites(c.Request.Context(), callerEmail(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /allLessons/similar/:id
func (h *LessonHandler) Similar(c *gin.Context) {
	id, ok := parseLessonID(c, c.Param("id"))
	if !ok {
		return
	}
	out, err := h.lessons.Similar(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /all-lessons/most-saved
func (h *LessonHandler) MostSaved(c *gin.Context) {
	out, err := h.lessons.MostSaved(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
