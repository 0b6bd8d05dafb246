package folders

import (
	"context"
	"fmt"

	"github.com/ritheshbalipersad/Document/internal/config"
	"github.com/ritheshbalipersad/Document/internal/domain"
	"github.com/ritheshbalipersad/Document/internal/domain/models"
	"github.com/ritheshbalipersad/Document/internal/domain/repositories"
)

// Derive computes a folder's path and level from its immediate parent.
// Roots get "/" + name and level 0; everything else extends the parent.
func Derive(name string, parent *models.Folder) (string, int) {
	if parent == nil {
		return "/" + name, 0
	}
	return parent.Path + "/" + name, parent.Level + 1
}

// PathIndex owns the derived path/level columns. A rename or reparent
// invalidates them for the folder and every descendant, so the rewrite
// walks the full subtree, parents before children.
type PathIndex struct {
	folders  repositories.FolderRepository
	maxDepth int
}

// NewPathIndex creates a path index bounded by the engine limits.
func NewPathIndex(folders repositories.FolderRepository, limits *config.EngineLimits) *PathIndex {
	return &PathIndex{
		folders:  folders,
		maxDepth: limits.MaxTraversalDepth,
	}
}

// RecomputeSubtree rewrites path and level for the folder and its whole
// subtree, using parent as the folder's (possibly new) immediate parent.
// The walk is breadth-first so a parent's new path is always persisted
// before its children are rewritten. It must run inside the mutation's
// transaction: a failure mid-walk aborts the whole operation.
func (p *PathIndex) RecomputeSubtree(ctx context.Context, folder *models.Folder, parent *models.Folder) error {
	folder.Path, folder.Level = Derive(folder.Name, parent)
	if err := p.folders.Update(ctx, folder); err != nil {
		return fmt.Errorf("rewrite path for folder %s: %w", folder.ID, err)
	}

	type frame struct {
		id    string
		path  string
		level int
		depth int
	}

	queue := []frame{{id: folder.ID, path: folder.Path, level: folder.Level, depth: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= p.maxDepth {
			return fmt.Errorf("subtree of folder %s deeper than %d: %w",
				folder.ID, p.maxDepth, domain.ErrDepthExceeded)
		}

		children, err := p.folders.ListChildren(ctx, &cur.id)
		if err != nil {
			return fmt.Errorf("list children of %s: %w", cur.id, err)
		}

		for i := range children {
			child := &children[i]
			if child.ParentID == nil || *child.ParentID != cur.id {
				// Store handed back a child that does not belong here.
				return fmt.Errorf("folder %s listed under %s but has parent %v: %w",
					child.ID, cur.id, child.ParentID, domain.ErrInvariantViolation)
			}

			child.Path = cur.path + "/" + child.Name
			child.Level = cur.level + 1
			if err := p.folders.Update(ctx, child); err != nil {
				return fmt.Errorf("rewrite path for folder %s: %w", child.ID, err)
			}

			queue = append(queue, frame{id: child.ID, path: child.Path, level: child.Level, depth: cur.depth + 1})
		}
	}

	return nil
}
