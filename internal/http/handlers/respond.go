package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/admindash/internal/store"
	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Count     *int        `json:"count,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondData(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func RespondMessage(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, Envelope{Success: true, Message: message})
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, Envelope{
		Success:   false,
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: requestIDFrom(ctx),
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

// RespondStoreError maps store errors onto status codes.
// Anything unrecognised is a 500 carrying the backend's own message, the
// store operation prefix only goes to the log.
func RespondStoreError(ctx *gin.Context, err error, notFound string) {
	var dup *store.DuplicateError
	var opErr *store.OpError

	switch {
	case errors.Is(err, store.ErrInvalidID):
		RespondBadRequest(ctx, "Invalid ID format", nil)
	case errors.Is(err, store.ErrNotFound):
		RespondNotFound(ctx, notFound)
	case errors.As(err, &dup):
		RespondError(ctx, http.StatusBadRequest, "duplicate", dup.Error(), gin.H{"field": dup.Field})
	default:
		slog.Default().ErrorContext(ctx.Request.Context(), "request failed",
			"route", ctx.FullPath(),
			"err", err,
		)
		msg := err.Error()
		if errors.As(err, &opErr) {
			msg = opErr.Err.Error()
		}
		RespondInternal(ctx, msg)
	}
}
