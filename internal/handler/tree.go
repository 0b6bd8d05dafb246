package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ritheshbalipersad/Document/internal/domain/services"
	"github.com/ritheshbalipersad/Document/internal/httputil"
)

// TreeHandler handles HTTP requests for tree operations
type TreeHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(folderService services.FolderService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// GetTree returns the folder tree visible to the caller
// GET /api/folders/tree?root_id=...&max_depth=...
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var rootID *string
	if v := r.URL.Query().Get("root_id"); v != "" {
		rootID = &v
	}

	// Out-of-range depths are clamped by the service, but a non-numeric
	// value is a client error.
	maxDepth := 0
	if v := r.URL.Query().Get("max_depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "max_depth must be an integer")
			return
		}
		maxDepth = n
	}

	tree, err := h.folderService.GetTree(r.Context(), actor, rootID, maxDepth)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"tree": tree})
}
