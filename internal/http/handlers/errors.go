package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"discoveryfy/internal/domain"
	"discoveryfy/internal/logging"
	"discoveryfy/internal/resource"
)

// RespondDomainError maps domain errors to error envelopes.
func RespondDomainError(c *gin.Context, err error) {
	if msgs, ok := domain.AsValidation(err); ok {
		respond(c, resource.Errors(http.StatusBadRequest, msgs))
		return
	}
	var unauthorized domain.UnauthorizedError
	switch {
	case domain.IsBadRequest(err):
		respond(c, resource.Error(http.StatusBadRequest, err.Error()))
	case errors.As(err, &unauthorized):
		respond(c, resource.Error(http.StatusUnauthorized, unauthorized.Msg))
	case domain.IsNotFound(err):
		respond(c, resource.Error(http.StatusNotFound, ""))
	case domain.IsConflict(err):
		respond(c, resource.Error(http.StatusConflict, err.Error()))
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		respond(c, resource.Error(http.StatusInternalServerError, ""))
	}
}
