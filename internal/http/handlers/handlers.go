package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	domainLesson "github.com/yungbote/lifelessons-backend/internal/domain/lesson"
	"github.com/yungbote/lifelessons-backend/internal/http/response"
	"github.com/yungbote/lifelessons-backend/internal/platform/ctxutil"
)

var errInvalidLessonID = errors.New("invalid lesson id")

// RegisterValidators adds the lesson enum tags to gin's validator. Safe to
// call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator is not go-playground/validator")
	}
	if err := v.RegisterValidation("visibility", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == domainLesson.VisibilityPublic || s == domainLesson.VisibilityPrivate
	}); err != nil {
		return err
	}
	return v.RegisterValidation("access_level", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == domainLesson.AccessFree || s == domainLesson.AccessPremium
	})
}

// parseLessonID writes a 400 and returns false when raw is not a UUID.
func parseLessonID(c *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidLessonID)
		return uuid.Nil, false
	}
	return id, true
}

func callerEmail(c *gin.Context) string {
	return ctxutil.Email(c.Request.Context())
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}
