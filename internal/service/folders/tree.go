package folders

import (
	"context"
	"fmt"

	"github.com/ritheshbalipersad/Document/internal/config"
	"github.com/ritheshbalipersad/Document/internal/domain/models"
	"github.com/ritheshbalipersad/Document/internal/domain/repositories"
)

// TreeBuilder assembles a bounded-depth folder tree for presentation. It is
// read-only: it composes the stored tree with the permission evaluator and
// writes nothing.
type TreeBuilder struct {
	folders repositories.FolderRepository
	limits  *config.EngineLimits
}

// NewTreeBuilder creates a tree builder with the given depth limits.
func NewTreeBuilder(folders repositories.FolderRepository, limits *config.EngineLimits) *TreeBuilder {
	return &TreeBuilder{
		folders: folders,
		limits:  limits,
	}
}

// ClampDepth normalizes a requested tree depth: non-positive values fall
// back to the default, everything else is clamped into the configured range.
func (b *TreeBuilder) ClampDepth(maxDepth int) int {
	if maxDepth <= 0 {
		return b.limits.DefaultTreeDepth
	}
	if maxDepth < b.limits.MinTreeDepth {
		return b.limits.MinTreeDepth
	}
	if maxDepth > b.limits.MaxTreeDepth {
		return b.limits.MaxTreeDepth
	}
	return maxDepth
}

// Build returns the forest of folders visible to the actor, starting at
// rootID (or all roots when nil), descending at most maxDepth levels.
// Children are ordered by name ascending. A node the actor cannot read is
// omitted together with its entire subtree; nodes at the depth bound are
// returned as leaves. Tombstoned folders are excluded unconditionally,
// regardless of permission.
func (b *TreeBuilder) Build(ctx context.Context, rootID *string, maxDepth int, actor models.Actor) ([]*models.FolderNode, error) {
	depth := b.ClampDepth(maxDepth)

	var top []models.Folder
	if rootID != nil {
		folder, err := b.folders.GetByID(ctx, *rootID)
		if err != nil {
			return nil, fmt.Errorf("tree root %s: %w", *rootID, err)
		}
		top = []models.Folder{*folder}
	} else {
		roots, err := b.folders.ListChildren(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("list root folders: %w", err)
		}
		top = roots
	}

	type frame struct {
		folder models.Folder
		depth  int
		parent *models.FolderNode
	}

	forest := make([]*models.FolderNode, 0, len(top))
	queue := make([]frame, 0, len(top))
	for _, f := range top {
		queue = append(queue, frame{folder: f, depth: 1})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		folder := cur.folder
		if folder.Tombstoned() {
			continue
		}
		if !CanAccess(&folder, actor, models.CapabilityRead) {
			// Denied node: subtree omitted entirely, not merely hidden.
			continue
		}

		node := &models.FolderNode{
			ID:            folder.ID,
			Name:          folder.Name,
			Color:         folder.Color,
			ParentID:      folder.ParentID,
			Path:          folder.Path,
			Level:         folder.Level,
			DocumentCount: folder.DocumentCount,
			Size:          folder.Size,
			CreatedAt:     folder.CreatedAt,
			Children:      []*models.FolderNode{},
		}
		if cur.parent == nil {
			forest = append(forest, node)
		} else {
			cur.parent.Children = append(cur.parent.Children, node)
		}

		if cur.depth >= depth {
			continue
		}

		children, err := b.folders.ListChildren(ctx, &folder.ID)
		if err != nil {
			return nil, fmt.Errorf("list children of %s: %w", folder.ID, err)
		}
		for _, child := range children {
			queue = append(queue, frame{folder: child, depth: cur.depth + 1, parent: node})
		}
	}

	return forest, nil
}
