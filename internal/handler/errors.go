package handler

import (
	"errors"
	"net/http"

	"github.com/ritheshbalipersad/Document/internal/domain"
	"github.com/ritheshbalipersad/Document/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var nonEmpty *domain.NonEmptyFolderError
	var conflict *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCyclicMove):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDepthExceeded):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrAccessDenied):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &nonEmpty):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, nonEmpty.Error(), map[string]interface{}{
			"child_count":    nonEmpty.ChildCount,
			"document_count": nonEmpty.DocumentCount,
		})
	case errors.As(err, &conflict):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflict.Error(), map[string]interface{}{
			"resource_type": conflict.ResourceType,
			"resource_id":   conflict.ResourceID,
		})
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
