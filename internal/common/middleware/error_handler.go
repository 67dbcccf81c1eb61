package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"airdrop-backend/internal/common/errors"
)

// RequestID attaches a request ID to every request, generating one when the
// client did not supply X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ErrorHandler recovers panics and converts errors collected on the gin
// context into JSON error responses.
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := getRequestID(c)

		logger.Error().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
			WithRequestID(requestID).
			WithDetail("panic", fmt.Sprintf("%v", recovered))

		sendErrorResponse(c, appErr, logger)
	})
}

// ErrorResponse is the envelope for error replies.
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
	Path      string           `json:"path,omitempty"`
}

// HandleErrors is the terminal middleware: after the handler chain ran, the
// last error set via c.Error is rendered with the status for its error code.
func HandleErrors(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := errors.AsAppError(err)
		if !ok {
			appErr = errors.Wrap(err, errors.ErrCodeInternal, "Unexpected error")
		}

		sendErrorResponse(c, appErr, logger)
	}
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError, logger zerolog.Logger) {
	requestID := getRequestID(c)
	appErr.WithRequestID(requestID)

	logError(appErr, logger, c)

	c.JSON(statusCode(appErr), ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
		Path:      c.Request.URL.Path,
	})
}

func statusCode(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest,
		errors.ErrCodeTaskType, errors.ErrCodeInvalidWallet:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeUserNotFound, errors.ErrCodeTaskNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden, errors.ErrCodeUserBanned:
		return http.StatusForbidden
	case errors.ErrCodeTaskExists:
		// The admin API predates proper 409 handling in the mini app, which
		// expects 400 on duplicate task IDs.
		return http.StatusBadRequest
	case errors.ErrCodeConflict, errors.ErrCodeTaskInactive:
		return http.StatusConflict
	case errors.ErrCodeTelegramAPI:
		return http.StatusBadGateway
	case errors.ErrCodeDatabaseError:
		return http.StatusInternalServerError
	case errors.ErrCodeCacheError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func logError(appErr *errors.AppError, logger zerolog.Logger, c *gin.Context) {
	evt := logger.Error()
	switch {
	case appErr.IsNotFound(), appErr.Code == errors.ErrCodeValidation:
		evt = logger.Info()
	case appErr.Code == errors.ErrCodeUnauthorized, appErr.Code == errors.ErrCodeForbidden:
		evt = logger.Warn()
	}

	evt.
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message).
		Err(appErr.Cause).
		Msg("Request failed")
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
