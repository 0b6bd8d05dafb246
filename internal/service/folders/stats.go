package folders

import (
	"context"
	"fmt"

	"github.com/ritheshbalipersad/Document/internal/config"
	"github.com/ritheshbalipersad/Document/internal/domain"
	"github.com/ritheshbalipersad/Document/internal/domain/models"
	"github.com/ritheshbalipersad/Document/internal/domain/repositories"
)

// StatsAggregator derives documentCount and size for folders. Values are
// always recomputed fresh from the current document and folder state, never
// incrementally patched, so partial failures cannot accumulate drift.
type StatsAggregator struct {
	folders   repositories.FolderRepository
	documents repositories.DocumentRepository
	maxDepth  int
}

// NewStatsAggregator creates an aggregator bounded by the engine limits.
func NewStatsAggregator(folders repositories.FolderRepository, documents repositories.DocumentRepository, limits *config.EngineLimits) *StatsAggregator {
	return &StatsAggregator{
		folders:   folders,
		documents: documents,
		maxDepth:  limits.MaxTraversalDepth,
	}
}

// Recompute derives fresh stats for the folder and its entire subtree and
// writes every folder's stats back to the store. The traversal is iterative
// with an explicit depth bound; trees deeper than the bound fail with
// DepthExceeded instead of exhausting the stack.
func (a *StatsAggregator) Recompute(ctx context.Context, folderID string) (models.FolderStats, error) {
	type frame struct {
		id    string
		depth int
	}

	// Breadth-first pass: collect the subtree, remembering each folder's
	// children so the second pass can sum bottom-up.
	order := make([]string, 0, 16)
	childIDs := make(map[string][]string)

	queue := []frame{{id: folderID, depth: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= a.maxDepth {
			return models.FolderStats{}, fmt.Errorf("subtree of folder %s deeper than %d: %w",
				folderID, a.maxDepth, domain.ErrDepthExceeded)
		}

		order = append(order, cur.id)

		children, err := a.folders.ListChildren(ctx, &cur.id)
		if err != nil {
			return models.FolderStats{}, fmt.Errorf("list children of %s: %w", cur.id, err)
		}
		for _, child := range children {
			childIDs[cur.id] = append(childIDs[cur.id], child.ID)
			queue = append(queue, frame{id: child.ID, depth: cur.depth + 1})
		}
	}

	// Reverse-order pass: children appear after their parent in BFS order,
	// so walking backwards computes every child before its parent.
	computed := make(map[string]models.FolderStats, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]

		count, size, err := a.documents.CountAndSize(ctx, &id)
		if err != nil {
			return models.FolderStats{}, fmt.Errorf("count documents in %s: %w", id, err)
		}

		for _, childID := range childIDs[id] {
			child := computed[childID]
			count += child.DocumentCount
			size += child.Size
		}

		computed[id] = models.FolderStats{DocumentCount: count, Size: size}
		if err := a.folders.UpdateStats(ctx, id, count, size); err != nil {
			return models.FolderStats{}, fmt.Errorf("write stats for %s: %w", id, err)
		}
	}

	return computed[folderID], nil
}

// RecomputeChain refreshes the stats of a mutated folder and every ancestor
// up to the root. A nil folder id means the documents involved were unfiled
// and contribute to no folder, so there is nothing to do.
func (a *StatsAggregator) RecomputeChain(ctx context.Context, folderID *string) error {
	if folderID == nil {
		return nil
	}

	// Find the root of the chain; recomputing the root's subtree derives
	// fresh values for the folder, every ancestor, and everything between.
	rootID := *folderID
	for steps := 0; ; steps++ {
		if steps >= a.maxDepth {
			return fmt.Errorf("ancestor chain of %s longer than %d: %w",
				*folderID, a.maxDepth, domain.ErrDepthExceeded)
		}

		folder, err := a.folders.GetByID(ctx, rootID)
		if err != nil {
			return fmt.Errorf("walk ancestors at %s: %w", rootID, err)
		}
		if folder.ParentID == nil {
			break
		}
		rootID = *folder.ParentID
	}

	if _, err := a.Recompute(ctx, rootID); err != nil {
		return err
	}
	return nil
}
