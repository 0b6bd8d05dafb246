package folders

import (
	"context"
	"fmt"

	"github.com/ritheshbalipersad/Document/internal/config"
	"github.com/ritheshbalipersad/Document/internal/domain"
	"github.com/ritheshbalipersad/Document/internal/domain/repositories"
)

// CycleGuard decides whether a prospective reparent would make a folder its
// own ancestor. It must run before the mutation is applied, inside the same
// transaction, so concurrent reparents on overlapping subtrees cannot race
// past it.
type CycleGuard struct {
	folders  repositories.FolderRepository
	maxDepth int
}

// NewCycleGuard creates a cycle guard bounded by the engine limits.
func NewCycleGuard(folders repositories.FolderRepository, limits *config.EngineLimits) *CycleGuard {
	return &CycleGuard{
		folders:  folders,
		maxDepth: limits.MaxTraversalDepth,
	}
}

// WouldCreateCycle walks upward from the proposed parent following parent
// links. The move is illegal if the folder itself is encountered before a
// root. Moving to a nil parent (root) can never create a cycle.
func (g *CycleGuard) WouldCreateCycle(ctx context.Context, folderID string, proposedParentID *string) (bool, error) {
	if proposedParentID == nil {
		return false, nil
	}
	if *proposedParentID == folderID {
		return true, nil
	}

	currentID := *proposedParentID
	for steps := 0; ; steps++ {
		if steps >= g.maxDepth {
			return false, fmt.Errorf("ancestor chain of %s longer than %d: %w",
				*proposedParentID, g.maxDepth, domain.ErrDepthExceeded)
		}

		folder, err := g.folders.GetByID(ctx, currentID)
		if err != nil {
			return false, fmt.Errorf("walk ancestors at %s: %w", currentID, err)
		}

		if folder.ParentID == nil {
			return false, nil
		}
		if *folder.ParentID == folderID {
			return true, nil
		}
		currentID = *folder.ParentID
	}
}
