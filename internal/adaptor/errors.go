package adaptor

import (
	"net/http"

	"bookstore-api/pkg/apperr"
	"bookstore-api/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError renders a service error with the status its kind maps to.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	appErr := apperr.FromError(err)

	switch appErr.Kind {
	case apperr.KindInternal:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	case apperr.KindValidation:
		log.Warn(operation+" validation failed", zap.Error(err))
	default:
		log.Warn(operation+" failed",
			zap.String("kind", string(appErr.Kind)),
			zap.Error(err))
	}

	utils.ResponseError(w, appErr)
}
