package folders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ritheshbalipersad/Document/internal/config"
	"github.com/ritheshbalipersad/Document/internal/domain"
	"github.com/ritheshbalipersad/Document/internal/domain/models"
	"github.com/ritheshbalipersad/Document/internal/domain/repositories"
	"github.com/ritheshbalipersad/Document/internal/domain/services"
)

func TestCreateFolderDerivesPathAndLevel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	root, err := env.svc.CreateFolder(ctx, uploaderActor, &services.CreateFolderRequest{Name: "Reports"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if root.Path != "/Reports" || root.Level != 0 || root.ParentID != nil {
		t.Errorf("root = (%q, %d), want (/Reports, 0)", root.Path, root.Level)
	}
	if root.Color != "#007bff" {
		t.Errorf("default color = %q, want #007bff", root.Color)
	}

	child, err := env.svc.CreateFolder(ctx, uploaderActor, &services.CreateFolderRequest{
		Name:     "2024",
		ParentID: &root.ID,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if child.Path != "/Reports/2024" || child.Level != 1 {
		t.Errorf("child = (%q, %d), want (/Reports/2024, 1)", child.Path, child.Level)
	}

	event := env.sink.last(t)
	if event.Action != models.AuditCreateFolder || event.FolderID != child.ID {
		t.Errorf("audit = (%s, %s), want (CREATE_FOLDER, %s)", event.Action, event.FolderID, child.ID)
	}
}

func TestCreateFolderValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *services.CreateFolderRequest
	}{
		{"empty name", &services.CreateFolderRequest{Name: ""}},
		{"whitespace-only name", &services.CreateFolderRequest{Name: "   "}},
		{"slash in name", &services.CreateFolderRequest{Name: "a/b"}},
		{"bad color", &services.CreateFolderRequest{Name: "ok", Color: "blue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateFolder(ctx, uploaderActor, tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want Validation", err)
			}
		})
	}
}

func TestCreateFolderSiblingNameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.CreateFolder(ctx, uploaderActor, &services.CreateFolderRequest{Name: "Reports"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := env.svc.CreateFolder(ctx, uploaderActor, &services.CreateFolderRequest{Name: "Reports"})
	if !errors.Is(err, domain.ErrNameConflict) {
		t.Errorf("err = %v, want NameConflict", err)
	}

	// Same name under a different parent is fine.
	parent, err := env.svc.CreateFolder(ctx, uploaderActor, &services.CreateFolderRequest{Name: "Other"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if _, err := env.svc.CreateFolder(ctx, uploaderActor, &services.CreateFolderRequest{
		Name:     "Reports",
		ParentID: &parent.ID,
	}); err != nil {
		t.Errorf("nested duplicate name rejected: %v", err)
	}
}

func TestCreateFolderViewerDenied(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.CreateFolder(context.Background(), viewerActor, &services.CreateFolderRequest{Name: "Nope"})
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("err = %v, want AccessDenied", err)
	}
}

func TestRenameFolderRewritesSubtreePaths(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	root := seedFolder(t, env.store, "root", "Reports", nil)
	seedFolder(t, env.store, "child", "2024", root)

	renamed, err := env.svc.RenameFolder(ctx, uploaderActor, root.ID, "Archives")
	if err != nil {
		t.Fatalf("RenameFolder: %v", err)
	}
	if renamed.Path != "/Archives" {
		t.Errorf("path = %q, want /Archives", renamed.Path)
	}

	child := mustGetFolder(t, env.store, "child")
	if child.Path != "/Archives/2024" || child.Level != 1 {
		t.Errorf("child = (%q, %d), want (/Archives/2024, 1)", child.Path, child.Level)
	}

	event := env.sink.last(t)
	if event.Action != models.AuditRenameFolder {
		t.Errorf("audit action = %s, want RENAME_FOLDER", event.Action)
	}
	if event.Before["name"] != "Reports" || event.After["name"] != "Archives" {
		t.Errorf("audit before/after = %v / %v", event.Before["name"], event.After["name"])
	}
}

func TestRenameFolderSameNameIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	root := seedFolder(t, env.store, "root", "Reports", nil)

	if _, err := env.svc.RenameFolder(context.Background(), uploaderActor, root.ID, "Reports"); err != nil {
		t.Fatalf("RenameFolder: %v", err)
	}
	if len(env.sink.events) != 0 {
		t.Errorf("no-op rename emitted %d audit events", len(env.sink.events))
	}
}

func TestMoveFolderCycleRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := seedFolder(t, env.store, "a", "A", nil)
	b := seedFolder(t, env.store, "b", "B", a)
	c := seedFolder(t, env.store, "c", "C", b)

	_, err := env.svc.MoveFolder(ctx, uploaderActor, a.ID, &c.ID)
	if !errors.Is(err, domain.ErrCyclicMove) {
		t.Errorf("err = %v, want CyclicMove", err)
	}

	// Nothing changed.
	if got := mustGetFolder(t, env.store, a.ID); got.ParentID != nil {
		t.Errorf("A reparented despite cycle rejection")
	}
}

func TestMoveFolderReparentsAndRefreshesStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	src := seedFolder(t, env.store, "src", "Inbox", nil)
	dst := seedFolder(t, env.store, "dst", "Archive", nil)
	moved := seedFolder(t, env.store, "moved", "Taxes", src)
	seedDocument(t, env.store, "d1", strPtr(moved.ID), 100)

	got, err := env.svc.MoveFolder(ctx, uploaderActor, moved.ID, &dst.ID)
	if err != nil {
		t.Fatalf("MoveFolder: %v", err)
	}
	if got.Path != "/Archive/Taxes" || got.Level != 1 {
		t.Errorf("moved = (%q, %d), want (/Archive/Taxes, 1)", got.Path, got.Level)
	}

	if f := mustGetFolder(t, env.store, src.ID); f.DocumentCount != 0 || f.Size != 0 {
		t.Errorf("old parent stats = (%d, %d), want (0, 0)", f.DocumentCount, f.Size)
	}
	if f := mustGetFolder(t, env.store, dst.ID); f.DocumentCount != 1 || f.Size != 100 {
		t.Errorf("new parent stats = (%d, %d), want (1, 100)", f.DocumentCount, f.Size)
	}

	if event := env.sink.last(t); event.Action != models.AuditMoveFolder {
		t.Errorf("audit action = %s, want MOVE_FOLDER", event.Action)
	}
}

func TestMoveFolderToSameParentIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	root := seedFolder(t, env.store, "root", "Root", nil)
	child := seedFolder(t, env.store, "child", "Child", root)

	if _, err := env.svc.MoveFolder(context.Background(), uploaderActor, child.ID, &root.ID); err != nil {
		t.Fatalf("MoveFolder: %v", err)
	}
	if len(env.sink.events) != 0 {
		t.Errorf("no-op move emitted %d audit events", len(env.sink.events))
	}
}

func TestDeleteFolderRejectsNonEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	root := seedFolder(t, env.store, "root", "Root", nil)
	seedFolder(t, env.store, "child", "Child", root)

	err := env.svc.DeleteFolder(ctx, uploaderActor, root.ID)
	if !errors.Is(err, domain.ErrNonEmptyFolder) {
		t.Fatalf("err = %v, want NonEmptyFolder", err)
	}
	var nonEmpty *domain.NonEmptyFolderError
	if !errors.As(err, &nonEmpty) {
		t.Fatalf("err %v does not carry counts", err)
	}
	if nonEmpty.ChildCount != 1 || nonEmpty.DocumentCount != 0 {
		t.Errorf("counts = (%d, %d), want (1, 0)", nonEmpty.ChildCount, nonEmpty.DocumentCount)
	}

	// Documents block deletion too.
	leaf := seedFolder(t, env.store, "leaf", "Leaf", nil)
	seedDocument(t, env.store, "d1", strPtr(leaf.ID), 10)
	err = env.svc.DeleteFolder(ctx, uploaderActor, leaf.ID)
	if !errors.As(err, &nonEmpty) || nonEmpty.DocumentCount != 1 {
		t.Errorf("err = %v, want NonEmptyFolder with one document", err)
	}
}

func TestDeleteFolderTombstones(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	f := seedFolder(t, env.store, "f", "Empty", nil)
	if err := env.svc.DeleteFolder(ctx, uploaderActor, f.ID); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}

	if _, err := env.svc.GetFolder(ctx, adminActor, f.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleted folder still visible: %v", err)
	}

	// The name is free again for a new sibling.
	if _, err := env.svc.CreateFolder(ctx, uploaderActor, &services.CreateFolderRequest{Name: "Empty"}); err != nil {
		t.Errorf("name still blocked after delete: %v", err)
	}

	if event := env.sink.last(t); event.Action != models.AuditDeleteFolder {
		t.Errorf("audit action = %s, want DELETE_FOLDER", event.Action)
	}
}

func TestGetFolderAccessDeniedThenGranted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	f := seedFolder(t, env.store, "f", "Private", nil)

	_, err := env.svc.GetFolder(ctx, viewerActor, f.ID)
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("err = %v, want AccessDenied", err)
	}

	f.Permissions.Read.Add(viewerActor.ID)
	env.store.PutFolder(f)

	got, err := env.svc.GetFolder(ctx, viewerActor, f.ID)
	if err != nil {
		t.Fatalf("GetFolder after grant: %v", err)
	}
	if got.ID != f.ID {
		t.Errorf("got folder %s, want %s", got.ID, f.ID)
	}
}

func TestMoveDocuments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	src := seedFolder(t, env.store, "src", "Src", nil)
	dst := seedFolder(t, env.store, "dst", "Dst", nil)
	seedDocument(t, env.store, "d1", strPtr(src.ID), 10)
	seedDocument(t, env.store, "d2", strPtr(src.ID), 20)

	moved, err := env.svc.MoveDocuments(ctx, uploaderActor, &services.MoveDocumentsRequest{
		DocumentIDs:    []string{"d1", "d2"},
		SourceFolderID: &src.ID,
		TargetFolderID: &dst.ID,
	})
	if err != nil {
		t.Fatalf("MoveDocuments: %v", err)
	}
	if moved != 2 {
		t.Errorf("moved = %d, want 2", moved)
	}

	if f := mustGetFolder(t, env.store, src.ID); f.DocumentCount != 0 {
		t.Errorf("source count = %d, want 0", f.DocumentCount)
	}
	if f := mustGetFolder(t, env.store, dst.ID); f.DocumentCount != 2 || f.Size != 30 {
		t.Errorf("target stats = (%d, %d), want (2, 30)", f.DocumentCount, f.Size)
	}

	if event := env.sink.last(t); event.Action != models.AuditMoveDocuments {
		t.Errorf("audit action = %s, want MOVE_DOCUMENTS", event.Action)
	}
}

func TestMoveDocumentsSourceMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	src := seedFolder(t, env.store, "src", "Src", nil)
	other := seedFolder(t, env.store, "other", "Other", nil)
	dst := seedFolder(t, env.store, "dst", "Dst", nil)
	seedDocument(t, env.store, "d1", strPtr(src.ID), 10)
	seedDocument(t, env.store, "d2", strPtr(other.ID), 20)

	_, err := env.svc.MoveDocuments(ctx, uploaderActor, &services.MoveDocumentsRequest{
		DocumentIDs:    []string{"d1", "d2"},
		SourceFolderID: &src.ID,
		TargetFolderID: &dst.ID,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}

	// The whole batch failed, d1 included.
	docs, _ := env.store.GetByIDs(ctx, []string{"d1"})
	if len(docs) != 1 || docs[0].FolderID == nil || *docs[0].FolderID != src.ID {
		t.Errorf("d1 moved despite batch failure")
	}
}

// failingFolders wraps a folder repository and fails the nth Update call,
// simulating a mid-transaction store failure.
type failingFolders struct {
	repositories.FolderRepository
	failOn  int
	updates int
}

func (f *failingFolders) Update(ctx context.Context, folder *models.Folder) error {
	f.updates++
	if f.updates == f.failOn {
		return errors.New("store unavailable")
	}
	return f.FolderRepository.Update(ctx, folder)
}

func TestRenameRollsBackOnPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	root := seedFolder(t, env.store, "root", "Reports", nil)
	seedFolder(t, env.store, "child", "2024", root)

	// Root's own rewrite succeeds, the child's fails.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(
		&failingFolders{FolderRepository: env.store, failOn: 2},
		env.store, env.store, env.sink,
		config.DefaultEngineLimits(), logger,
	)

	_, err := svc.RenameFolder(ctx, uploaderActor, root.ID, "Archives")
	if err == nil {
		t.Fatal("expected rename to fail")
	}

	// Atomicity: neither the rename nor the partial path rewrite stuck.
	if got := mustGetFolder(t, env.store, root.ID); got.Name != "Reports" || got.Path != "/Reports" {
		t.Errorf("root = (%q, %q), want (Reports, /Reports)", got.Name, got.Path)
	}
	if got := mustGetFolder(t, env.store, "child"); got.Path != "/Reports/2024" {
		t.Errorf("child path = %q, want /Reports/2024", got.Path)
	}
	if len(env.sink.events) != 0 {
		t.Errorf("failed mutation emitted %d audit events", len(env.sink.events))
	}
}

func TestGetStatsRequiresRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	f := seedFolder(t, env.store, "f", "Private", nil)
	seedDocument(t, env.store, "d1", strPtr(f.ID), 42)

	if _, err := env.svc.GetStats(ctx, viewerActor, f.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("err = %v, want AccessDenied", err)
	}

	stats, err := env.svc.GetStats(ctx, uploaderActor, f.ID)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.DocumentCount != 1 || stats.Size != 42 {
		t.Errorf("stats = (%d, %d), want (1, 42)", stats.DocumentCount, stats.Size)
	}
}

func TestGetContents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	root := seedFolder(t, env.store, "root", "Root", nil)
	seedFolder(t, env.store, "child", "Child", root)
	seedDocument(t, env.store, "d1", strPtr(root.ID), 10)

	contents, err := env.svc.GetContents(ctx, uploaderActor, root.ID)
	if err != nil {
		t.Fatalf("GetContents: %v", err)
	}
	if contents.Folder.ID != root.ID {
		t.Errorf("folder = %s, want %s", contents.Folder.ID, root.ID)
	}
	if len(contents.Folders) != 1 || contents.Folders[0].ID != "child" {
		t.Errorf("subfolders = %d, want 1", len(contents.Folders))
	}
	if len(contents.Documents) != 1 || contents.Documents[0].ID != "d1" {
		t.Errorf("documents = %d, want 1", len(contents.Documents))
	}
}

func TestRenameFolderRejectsWhitespaceName(t *testing.T) {
	env := newTestEnv(t)
	root := seedFolder(t, env.store, "root", "Reports", nil)

	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := env.svc.RenameFolder(context.Background(), uploaderActor, root.ID, name); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("RenameFolder(%q) err = %v, want Validation", name, err)
		}
	}

	if got := mustGetFolder(t, env.store, root.ID); got.Name != "Reports" {
		t.Errorf("name = %q, want Reports", got.Name)
	}
}

// applyOnLock simulates another transaction committing a mutation while
// this one waits on the trigger folder's row lock: the side effect is
// applied the moment the lock is requested, before it is granted.
type applyOnLock struct {
	repositories.FolderRepository
	triggerID string
	apply     func()
	applied   bool
}

func (a *applyOnLock) Lock(ctx context.Context, ids ...string) error {
	if !a.applied {
		for _, id := range ids {
			if id == a.triggerID {
				a.apply()
				a.applied = true
				break
			}
		}
	}
	return a.FolderRepository.Lock(ctx, ids...)
}

// A rename that waits on a concurrent move's lock must resume against the
// committed parent link, not the one it read before blocking. Writing the
// pre-wait struct back would silently undo the move.
func TestRenameSeesCommittedMoveAfterLock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p1 := seedFolder(t, env.store, "p1", "P1", nil)
	p2 := seedFolder(t, env.store, "p2", "P2", nil)
	f := seedFolder(t, env.store, "f", "F", p1)
	seedFolder(t, env.store, "leaf", "Leaf", f)

	repo := &applyOnLock{
		FolderRepository: env.store,
		triggerID:        f.ID,
		apply: func() {
			moved := mustGetFolder(t, env.store, f.ID)
			moved.ParentID = &p2.ID
			moved.Path = "/P2/F"
			moved.Level = 1
			env.store.PutFolder(moved)
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, env.store, env.store, env.sink, config.DefaultEngineLimits(), logger)

	renamed, err := svc.RenameFolder(ctx, uploaderActor, f.ID, "Renamed")
	if err != nil {
		t.Fatalf("RenameFolder: %v", err)
	}

	if renamed.ParentID == nil || *renamed.ParentID != p2.ID {
		t.Errorf("parent = %v, want %s: rename reverted the committed move", renamed.ParentID, p2.ID)
	}
	if renamed.Path != "/P2/Renamed" {
		t.Errorf("path = %q, want /P2/Renamed", renamed.Path)
	}
	if got := mustGetFolder(t, env.store, "leaf"); got.Path != "/P2/Renamed/Leaf" {
		t.Errorf("leaf path = %q, want /P2/Renamed/Leaf", got.Path)
	}
}

// A create that waits on the parent's row lock must see the parent's state
// as of the lock grant: a parent tombstoned in the meantime is gone.
func TestCreateFolderParentDeletedWhileWaiting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parent := seedFolder(t, env.store, "parent", "Parent", nil)

	repo := &applyOnLock{
		FolderRepository: env.store,
		triggerID:        parent.ID,
		apply: func() {
			if err := env.store.SoftDelete(ctx, parent.ID, time.Now()); err != nil {
				t.Fatalf("SoftDelete: %v", err)
			}
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, env.store, env.store, env.sink, config.DefaultEngineLimits(), logger)

	_, err := svc.CreateFolder(ctx, uploaderActor, &services.CreateFolderRequest{
		Name:     "Child",
		ParentID: &parent.ID,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want NotFound", err)
	}
}
