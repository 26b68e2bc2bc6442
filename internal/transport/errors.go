package transport

import (
	"context"
	"errors"
	"net/http"

	"marketplace-geo/internal/domain"
	"marketplace-geo/internal/middleware"
	"marketplace-geo/internal/repository"
	"marketplace-geo/internal/service"

	"go.uber.org/zap"
)

// respondServiceError maps service and repository errors to HTTP responses.
// Anything unrecognised is logged and reported as a 500 with fallbackMessage.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate),
		errors.Is(err, service.ErrInvalidRadius),
		errors.Is(err, service.ErrRadiusTooLarge),
		errors.Is(err, service.ErrInvalidSubtotal):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrBranchNotFound),
		errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBranchNotOwned):
		middleware.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("Request timed out", zap.Error(err))
		middleware.RespondWithError(w, http.StatusGatewayTimeout, "request timed out")
	case errors.Is(err, context.Canceled):
		logger.Debug("Request cancelled by client", zap.Error(err))
	default:
		logger.Error(fallbackMessage, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallbackMessage)
	}
}

// respondDecodeError reports body or query validation failures
func respondDecodeError(w http.ResponseWriter, err error) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}
