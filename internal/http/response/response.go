package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yungbote/lifelessons-backend/internal/platform/apierr"
	"github.com/yungbote/lifelessons-backend/internal/platform/ctxutil"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

const genericMessage = "Something went wrong."

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, APIError{Message: msg, Code: code})
}

// RespondAPIError renders an *apierr.Error. Anything at 500 or above is
// logged and replaced with a generic message.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status < http.StatusInternalServerError {
		RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	if log != nil {
		fields := []interface{}{"path", c.FullPath(), "error", err}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		log.Error("request failed", fields...)
	}
	RespondError(c, http.StatusInternalServerError, "internal", errors.New(genericMessage))
}

// RespondBindError turns a binding failure into a 400.
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), describeTag(fe)))
		}
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New(strings.Join(parts, "; ")))
		return
	}
	RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid request body"))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "not a valid email"
	case "visibility":
		return "not Public or Private"
	case "access_level":
		return "not free or premium"
	default:
		return "invalid"
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
