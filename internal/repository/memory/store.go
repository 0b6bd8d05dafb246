// Package memory provides an in-memory implementation of the engine's
// repository interfaces. It backs the test suites and the demo wiring; the
// postgres package is the production store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ritheshbalipersad/Document/internal/domain"
	"github.com/ritheshbalipersad/Document/internal/domain/models"
	"github.com/ritheshbalipersad/Document/internal/domain/repositories"
)

// Store keeps folders and documents in maps guarded by a mutex. It
// implements FolderRepository, DocumentRepository and TransactionManager.
// Transactions are serialized by a second mutex and made atomic by
// snapshotting the whole state up front and restoring it on error.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	folders   map[string]*models.Folder
	documents map[string]*models.Document
}

func NewStore() *Store {
	return &Store{
		folders:   make(map[string]*models.Folder),
		documents: make(map[string]*models.Document),
	}
}

// ExecTx runs fn with the whole-store state restored on error. Only one
// transaction runs at a time, which also stands in for the row locking the
// postgres store does.
func (s *Store) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	folders := make(map[string]*models.Folder, len(s.folders))
	for id, f := range s.folders {
		folders[id] = copyFolder(f)
	}
	documents := make(map[string]*models.Document, len(s.documents))
	for id, d := range s.documents {
		cp := *d
		documents[id] = &cp
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.folders = folders
		s.documents = documents
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Create(ctx context.Context, folder *models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.folders[folder.ID]; ok {
		return fmt.Errorf("folder %s already exists: %w", folder.ID, domain.ErrConflict)
	}
	s.folders[folder.ID] = copyFolder(folder)
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.folders[id]
	if !ok || f.Tombstoned() {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return copyFolder(f), nil
}

func (s *Store) Update(ctx context.Context, folder *models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.folders[folder.ID]
	if !ok || existing.Tombstoned() {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	cp := copyFolder(folder)
	cp.DocumentCount = existing.DocumentCount
	cp.Size = existing.Size
	s.folders[folder.ID] = cp
	return nil
}

func (s *Store) UpdateStats(ctx context.Context, id string, documentCount int, size int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.folders[id]
	if !ok || f.Tombstoned() {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	f.DocumentCount = documentCount
	f.Size = size
	return nil
}

func (s *Store) SoftDelete(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.folders[id]
	if !ok || f.Tombstoned() {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	f.Status = models.FolderTombstoned
	deletedAt := at
	f.DeletedAt = &deletedAt
	return nil
}

func (s *Store) ListChildren(ctx context.Context, parentID *string) ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Folder
	for _, f := range s.folders {
		if f.Tombstoned() || !sameID(f.ParentID, parentID) {
			continue
		}
		out = append(out, *copyFolder(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.folders {
		if f.Tombstoned() {
			continue
		}
		if f.Name == name && sameID(f.ParentID, parentID) {
			return copyFolder(f), nil
		}
	}
	return nil, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Folder
	for _, f := range s.folders {
		if f.Tombstoned() {
			continue
		}
		out = append(out, *copyFolder(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Lock is a no-op: ExecTx already serializes all transactions.
func (s *Store) Lock(ctx context.Context, ids ...string) error {
	return nil
}

func (s *Store) GetByIDs(ctx context.Context, ids []string) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Document, 0, len(ids))
	for _, id := range ids {
		if d, ok := s.documents[id]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *Store) ListByFolder(ctx context.Context, folderID *string) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Document
	for _, d := range s.documents {
		if sameID(d.FolderID, folderID) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CountAndSize(ctx context.Context, folderID *string) (int, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	var size int64
	for _, d := range s.documents {
		if sameID(d.FolderID, folderID) {
			count++
			size += d.FileSize
		}
	}
	return count, size, nil
}

func (s *Store) Reassign(ctx context.Context, ids []string, folderID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		d, ok := s.documents[id]
		if !ok {
			return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		if folderID != nil {
			fid := *folderID
			d.FolderID = &fid
		} else {
			d.FolderID = nil
		}
	}
	return nil
}

// PutFolder inserts or replaces a folder record directly, bypassing the
// engine. Intended for tests and seeding.
func (s *Store) PutFolder(folder *models.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders[folder.ID] = copyFolder(folder)
}

// PutDocument inserts or replaces a document record directly.
func (s *Store) PutDocument(doc *models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *doc
	s.documents[doc.ID] = &cp
}

func copyFolder(f *models.Folder) *models.Folder {
	cp := *f
	if f.ParentID != nil {
		pid := *f.ParentID
		cp.ParentID = &pid
	}
	if f.DeletedAt != nil {
		at := *f.DeletedAt
		cp.DeletedAt = &at
	}
	cp.Permissions = models.PermissionSets{
		Read:  copyActorSet(f.Permissions.Read),
		Write: copyActorSet(f.Permissions.Write),
		Admin: copyActorSet(f.Permissions.Admin),
	}
	if f.Metadata != nil {
		cp.Metadata = make(map[string]any, len(f.Metadata))
		for k, v := range f.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

func copyActorSet(set models.ActorSet) models.ActorSet {
	if set == nil {
		return nil
	}
	cp := models.NewActorSet()
	for id := range set {
		cp[id] = struct{}{}
	}
	return cp
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
