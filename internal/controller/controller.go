// Package controller holds the helpers shared by the user and admin handlers.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bastion/internal/dto"
	"github.com/lshigami/Bastion/internal/service"
	"github.com/rs/zerolog/log"
)

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidModuleID),
		errors.Is(err, service.ErrInvalidRank),
		errors.Is(err, service.ErrEmptyModuleName),
		errors.Is(err, service.ErrInvalidFlag),
		errors.Is(err, service.ErrInvalidFlagMode):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrModuleNotFound),
		errors.Is(err, service.ErrFlagNotConfigured):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadySolved),
		errors.Is(err, service.ErrDuplicateModuleName),
		errors.Is(err, service.ErrFlagModeAlreadySet):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes an ErrorResponse. Internal errors are logged and their
// details are not sent to the client.
func RespondError(ctx *gin.Context, err error, message string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg(message)
		ctx.JSON(status, dto.ErrorResponse{Message: message})
		return
	}
	log.Warn().Err(err).Str("path", ctx.FullPath()).Int("status", status).Msg(message)
	ctx.JSON(status, dto.ErrorResponse{Message: message, Details: []string{err.Error()}})
}

// ParseUserID reads a strictly positive user id.
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidUserID
	}
	return id, nil
}

// UserIDFromQuery reads the user_id query parameter. Temporary - will be from auth token.
func UserIDFromQuery(ctx *gin.Context) (int64, bool) {
	userID, err := ParseUserID(ctx.Query("user_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid User ID format in query"})
		return 0, false
	}
	return userID, true
}
