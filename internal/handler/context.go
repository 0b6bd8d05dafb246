package handler

import (
	"net/http"

	"github.com/ritheshbalipersad/Document/internal/domain/models"
	"github.com/ritheshbalipersad/Document/internal/httputil"
)

// requireActor extracts the authenticated actor set by the auth middleware.
// A request that reaches a handler without one is a wiring bug, not a client
// mistake, but it still gets a clean 401 instead of a panic.
func requireActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := httputil.GetActor(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "no authenticated actor")
		return models.Actor{}, false
	}
	return actor, true
}
