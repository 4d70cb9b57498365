package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/bloodsync/bloodsync/internal/apperr"
	"github.com/bloodsync/bloodsync/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const invalidBodyMessage = "Invalid request body"

func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope. Internal failures are logged with detail
// and reach the client only as the generic message.
func fail(c *gin.Context, err error) {
	e := apperr.As(err)
	status := statusFor(e.Kind)
	msg := e.Message
	if e.Kind == apperr.KindInternal {
		logger.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		msg = apperr.InternalMessage
	}
	c.JSON(status, gin.H{"success": false, "message": msg, "code": e.Code})
}

func badBody(c *gin.Context, err error) {
	logger.Debugf("rejecting request body on %s: %v", c.FullPath(), err)
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": invalidBodyMessage, "code": apperr.CodeInvalidFormat})
}

// bindJSON decodes the request body into dst. A missing body binds as an
// empty object so the services report which fields are required.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		badBody(c, err)
		return false
	}
	return true
}
