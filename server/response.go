package server

import (
	"net/http"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/errors"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/middleware"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/types"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// genericServerError is sent for 500-class errors that carry no message of
// their own.
const genericServerError = "Internal server error"

// ErrorResponse is an alias for types.ErrorResponse
// @Description Error body returned by every failed request
type ErrorResponse = types.ErrorResponse

// OK sends a 200 OK response
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// ErrorWithMessage sends {"error": message} with the given status.
func ErrorWithMessage(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, types.ErrorResponse{
		Error:   message,
		TraceID: middleware.GetTraceID(c),
	})
}

// HandleAppError maps err to its HTTP status and writes the error body.
// Errors that are not AppErrors never leak their text to the caller.
func HandleAppError(c *gin.Context, logger zerolog.Logger, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		logger.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("Unhandled error")
		ErrorWithMessage(c, http.StatusInternalServerError, genericServerError)
		return
	}

	status := errors.HTTPStatusFromCode(appErr.Code)
	if errors.IsServerError(appErr.Code) {
		logger.Error().
			Err(err).
			Int("code", appErr.Code).
			Str("trace_id", middleware.GetTraceID(c)).
			Msg("Request failed")
	}

	message := appErr.Message
	if message == "" {
		message = genericServerError
	}
	ErrorWithMessage(c, status, message)
}
