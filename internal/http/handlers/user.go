package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifelessons-backend/internal/http/response"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
	"github.com/yungbote/lifelessons-backend/internal/services"
)

type UserHandler struct {
	log   *logger.Logger
	users services.UserService
}

func NewUserHandler(log *logger.Logger, users services.UserService) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), users: users}
}

// POST /user
// body: { "name": "...", "email": "...", "imageURL": "..." }
func (h *UserHandler) Upsert(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required,email"`
		ImageURL string `json:"imageURL"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	res, err := h.users.UpsertOnLogin(c.Request.Context(), services.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if res.Created != nil {
		response.RespondOK(c, res.Created)
		return
	}
	response.RespondOK(c, res.Updated)
}

// GET /single-user
func (h *UserHandler) Me(c *gin.Context) {
	h.writeUser(c, callerEmail(c))
}

// GET /user-by-email/:email
func (h *UserHandler) ByEmail(c *gin.Context) {
	h.writeUser(c, c.Param("email"))
}

// writeUser renders null for an unknown email.
func (h *UserHandler) writeUser(c *gin.Context, email string) {
	u, err := h.users.Get(c.Request.Context(), email)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	response.RespondOK(c, u)
}

// GET /role
func (h *UserHandler) Role(c *gin.Context) {
	role, err := h.users.Role(c.Request.Context(), callerEmail(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"role": role})
}

// GET /isPremium
func (h *UserHandler) IsPremium(c *gin.Context) {
	premium, err := h.users.IsPremium(c.Request.Context(), callerEmail(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"isPremium": premium})
}

// GET /users/plan/:email
func (h *UserHandler) Plan(c *gin.Context) {
	plan, err := h.users.Plan(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if plan == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	response.RespondOK(c, plan)
}

// PATCH /update-profile
// body: { "name": "...", "image": "...", "coverPhoto": "...", "updatedAt": "..." }
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name       *string    `json:"name"`
		Image      *string    `json:"image"`
		CoverPhoto *string    `json:"coverPhoto"`
		UpdatedAt  *time.Time `json:"updatedAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	ack, err := h.users.UpdateProfile(c.Request.Context(), callerEmail(c), services.ProfilePatch{
		Name:       req.Name,
		Image:      req.Image,
		CoverPhoto: req.CoverPhoto,
		UpdatedAt:  req.UpdatedAt,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, ack)
}

// GET /top-contributors
func (h *UserHandler) TopContributors(c *gin.Context) {
	out, err := h.users.TopContributors(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /dashboard/summary
func (h *UserHandler) DashboardSummary(c *gin.Context) {
	sum, err := h.users.DashboardSummary(c.Request.Context(), callerEmail(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, sum)
}

// GET /all-users
func (h *UserHandler) AllUsers(c *gin.Context) {
	out, err := h.users.AllUsers(c.Request.Context(), callerEmail(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /lesson-creator/:lessonId
func (h *UserHandler) LessonCreator(c *gin.Context) {
	id, ok := parseLessonID(c, c.Param("lessonId"))
	if !ok {
		return
	}
	creator, err := h.users.LessonCreator(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, creator)
}
