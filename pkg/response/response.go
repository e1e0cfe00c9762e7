package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/devevent/backend/pkg/apperr"
)

// JSON sends the standard envelope: {"message": ..., <fields>...}.
func JSON(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{"message": message}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// OK sends a 200 envelope.
func OK(c *gin.Context, message string, fields gin.H) {
	JSON(c, http.StatusOK, message, fields)
}

// Created sends a 201 envelope.
func Created(c *gin.Context, message string, fields gin.H) {
	JSON(c, http.StatusCreated, message, fields)
}

// Fail sends an error envelope with an optional short error string.
func Fail(c *gin.Context, status int, message, errMsg string) {
	body := gin.H{"message": message}
	if errMsg != "" {
		body["error"] = errMsg
	}
	c.JSON(status, body)
}

// BadRequest sends 400 with message only.
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message, "")
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message, "")
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message, "")
}

// NotFound sends 404.
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message, "")
}

// UnsupportedMediaType sends 415.
func UnsupportedMediaType(c *gin.Context, message, errMsg string) {
	Fail(c, http.StatusUnsupportedMediaType, message, errMsg)
}

// Internal sends 500.
func Internal(c *gin.Context, message, errMsg string) {
	Fail(c, http.StatusInternalServerError, message, errMsg)
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error maps err to a status and envelope. Classified errors surface their
// message under "error"; anything else is logged and reduced to "Unexpected error".
func Error(c *gin.Context, logger *zap.Logger, message string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(message,
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		Fail(c, status, message, "Unexpected error")
		return
	}
	Fail(c, status, message, apperr.MessageOf(err, "Unexpected error"))
}
