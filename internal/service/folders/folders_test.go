package folders

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ritheshbalipersad/Document/internal/config"
	"github.com/ritheshbalipersad/Document/internal/domain/models"
	"github.com/ritheshbalipersad/Document/internal/domain/services"
	"github.com/ritheshbalipersad/Document/internal/repository/memory"
)

var (
	adminActor    = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	uploaderActor = models.Actor{ID: "u1", Role: models.RoleUploader}
	viewerActor   = models.Actor{ID: "u2", Role: models.RoleViewer}
)

// recordingSink captures audit events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (r *recordingSink) Record(_ context.Context, event models.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) last(t *testing.T) models.AuditEvent {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		t.Fatal("expected at least one audit event")
	}
	return r.events[len(r.events)-1]
}

type testEnv struct {
	store *memory.Store
	sink  *recordingSink
	svc   services.FolderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	sink := &recordingSink{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(store, store, store, sink, config.DefaultEngineLimits(), logger)
	return &testEnv{store: store, sink: sink, svc: svc}
}

// seedFolder inserts a folder directly into the store with derived path and
// level, bypassing the service. The creator defaults to u1.
func seedFolder(t *testing.T, store *memory.Store, id, name string, parent *models.Folder) *models.Folder {
	t.Helper()
	var parentID *string
	if parent != nil {
		pid := parent.ID
		parentID = &pid
	}
	path, level := Derive(name, parent)
	now := time.Now()
	f := &models.Folder{
		ID:          id,
		Name:        name,
		Color:       "#007bff",
		ParentID:    parentID,
		Path:        path,
		Level:       level,
		Permissions: models.NewPermissionSets(),
		CreatedBy:   uploaderActor.ID,
		Status:      models.FolderActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	store.PutFolder(f)
	return f
}

func seedDocument(t *testing.T, store *memory.Store, id string, folderID *string, size int64) *models.Document {
	t.Helper()
	now := time.Now()
	d := &models.Document{
		ID:        id,
		FolderID:  folderID,
		Name:      id,
		FileSize:  size,
		CreatedAt: now,
		UpdatedAt: now,
	}
	store.PutDocument(d)
	return d
}

func mustGetFolder(t *testing.T, store *memory.Store, id string) *models.Folder {
	t.Helper()
	f, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("folder %s: %v", id, err)
	}
	return f
}

func strPtr(s string) *string {
	return &s
}
