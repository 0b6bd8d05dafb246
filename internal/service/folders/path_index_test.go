package folders

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ritheshbalipersad/Document/internal/config"
	"github.com/ritheshbalipersad/Document/internal/domain"
	"github.com/ritheshbalipersad/Document/internal/domain/models"
	"github.com/ritheshbalipersad/Document/internal/domain/repositories"
	"github.com/ritheshbalipersad/Document/internal/repository/memory"
)

func TestDerive(t *testing.T) {
	path, level := Derive("Reports", nil)
	if path != "/Reports" || level != 0 {
		t.Errorf("root = (%q, %d), want (/Reports, 0)", path, level)
	}

	store := memory.NewStore()
	parent := seedFolder(t, store, "p", "Reports", nil)
	path, level = Derive("2024", parent)
	if path != "/Reports/2024" || level != 1 {
		t.Errorf("child = (%q, %d), want (/Reports/2024, 1)", path, level)
	}
}

func TestRecomputeSubtreeAfterRename(t *testing.T) {
	store := memory.NewStore()
	root := seedFolder(t, store, "root", "Reports", nil)
	child := seedFolder(t, store, "child", "2024", root)
	grandchild := seedFolder(t, store, "grandchild", "Q1", child)

	index := NewPathIndex(store, config.DefaultEngineLimits())

	ctx := context.Background()
	root.Name = "Archives"
	if err := index.RecomputeSubtree(ctx, root, nil); err != nil {
		t.Fatalf("RecomputeSubtree: %v", err)
	}

	got := mustGetFolder(t, store, root.ID)
	if got.Path != "/Archives" || got.Level != 0 {
		t.Errorf("root = (%q, %d), want (/Archives, 0)", got.Path, got.Level)
	}

	got = mustGetFolder(t, store, child.ID)
	if got.Path != "/Archives/2024" || got.Level != 1 {
		t.Errorf("child = (%q, %d), want (/Archives/2024, 1)", got.Path, got.Level)
	}

	got = mustGetFolder(t, store, grandchild.ID)
	if got.Path != "/Archives/2024/Q1" || got.Level != 2 {
		t.Errorf("grandchild = (%q, %d), want (/Archives/2024/Q1, 2)", got.Path, got.Level)
	}
}

func TestRecomputeSubtreeAfterReparent(t *testing.T) {
	store := memory.NewStore()
	seedFolder(t, store, "src", "Inbox", nil)
	dst := seedFolder(t, store, "dst", "Archive", nil)
	moved := seedFolder(t, store, "moved", "Taxes", mustGetFolder(t, store, "src"))
	seedFolder(t, store, "leaf", "2023", moved)

	index := NewPathIndex(store, config.DefaultEngineLimits())

	moved.ParentID = strPtr(dst.ID)
	if err := store.Update(context.Background(), moved); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := index.RecomputeSubtree(context.Background(), moved, dst); err != nil {
		t.Fatalf("RecomputeSubtree: %v", err)
	}

	if got := mustGetFolder(t, store, "moved"); got.Path != "/Archive/Taxes" || got.Level != 1 {
		t.Errorf("moved = (%q, %d), want (/Archive/Taxes, 1)", got.Path, got.Level)
	}
	if got := mustGetFolder(t, store, "leaf"); got.Path != "/Archive/Taxes/2023" || got.Level != 2 {
		t.Errorf("leaf = (%q, %d), want (/Archive/Taxes/2023, 2)", got.Path, got.Level)
	}
}

// foreignChildren wraps a repository and lists a folder that belongs to a
// different parent under the given one, simulating a corrupted store.
type foreignChildren struct {
	repositories.FolderRepository
	parentID string
	child    models.Folder
}

func (f *foreignChildren) ListChildren(ctx context.Context, parentID *string) ([]models.Folder, error) {
	if parentID != nil && *parentID == f.parentID {
		return []models.Folder{f.child}, nil
	}
	return f.FolderRepository.ListChildren(ctx, parentID)
}

func TestRecomputeSubtreeRejectsForeignChild(t *testing.T) {
	store := memory.NewStore()
	root := seedFolder(t, store, "root", "Root", nil)
	other := seedFolder(t, store, "other", "Other", nil)
	stray := seedFolder(t, store, "stray", "Stray", other)

	// The store claims stray is a child of root while its parent link
	// still names other. The rewrite must abort, not repair it.
	repo := &foreignChildren{
		FolderRepository: store,
		parentID:         root.ID,
		child:            *stray,
	}

	index := NewPathIndex(repo, config.DefaultEngineLimits())

	root.Name = "Renamed"
	err := index.RecomputeSubtree(context.Background(), root, nil)
	if !errors.Is(err, domain.ErrInvariantViolation) {
		t.Errorf("err = %v, want InvariantViolation", err)
	}

	// The stray folder's own path is untouched.
	if got := mustGetFolder(t, store, stray.ID); got.Path != "/Other/Stray" {
		t.Errorf("stray path = %q, want /Other/Stray", got.Path)
	}
}

func TestRecomputeSubtreeDepthBound(t *testing.T) {
	store := memory.NewStore()
	limits := config.DefaultEngineLimits()
	limits.MaxTraversalDepth = 3

	parent := seedFolder(t, store, "f0", "f0", nil)
	for i := 1; i <= 5; i++ {
		parent = seedFolder(t, store, fmt.Sprintf("f%d", i), fmt.Sprintf("f%d", i), parent)
	}

	index := NewPathIndex(store, limits)
	root := mustGetFolder(t, store, "f0")

	err := index.RecomputeSubtree(context.Background(), root, nil)
	if !errors.Is(err, domain.ErrDepthExceeded) {
		t.Errorf("err = %v, want DepthExceeded", err)
	}
}
