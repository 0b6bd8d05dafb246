package folders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ritheshbalipersad/Document/internal/config"
	"github.com/ritheshbalipersad/Document/internal/domain"
	"github.com/ritheshbalipersad/Document/internal/domain/models"
	"github.com/ritheshbalipersad/Document/internal/domain/repositories"
	"github.com/ritheshbalipersad/Document/internal/domain/services"
	"github.com/ritheshbalipersad/Document/internal/metrics"
)

// defaultFolderColor is applied when the caller does not pick one.
const defaultFolderColor = "#007bff"

// Service is the mutation coordinator of the folder engine. It is the only
// writer of the folder tree: every structural mutation runs as one atomic
// transaction in which the path index, cycle guard and stats aggregator are
// invoked as read/write collaborators. All other entry points are read-only.
type Service struct {
	folders   repositories.FolderRepository
	documents repositories.DocumentRepository
	txManager repositories.TransactionManager
	paths     *PathIndex
	cycles    *CycleGuard
	stats     *StatsAggregator
	tree      *TreeBuilder
	audit     services.AuditSink
	logger    *slog.Logger
}

// NewService creates the folder engine service and its internal components.
func NewService(
	folderRepo repositories.FolderRepository,
	documentRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	audit services.AuditSink,
	limits *config.EngineLimits,
	logger *slog.Logger,
) services.FolderService {
	return &Service{
		folders:   folderRepo,
		documents: documentRepo,
		txManager: txManager,
		paths:     NewPathIndex(folderRepo, limits),
		cycles:    NewCycleGuard(folderRepo, limits),
		stats:     NewStatsAggregator(folderRepo, documentRepo, limits),
		tree:      NewTreeBuilder(folderRepo, limits),
		audit:     audit,
		logger:    logger,
	}
}

// GetTree returns the forest of folders visible to the actor.
func (s *Service) GetTree(ctx context.Context, actor models.Actor, rootID *string, maxDepth int) ([]*models.FolderNode, error) {
	return s.tree.Build(ctx, rootID, maxDepth, actor)
}

// GetFolder returns a folder the actor can read.
func (s *Service) GetFolder(ctx context.Context, actor models.Actor, id string) (*models.Folder, error) {
	folder, err := s.folders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAccess(folder, actor, models.CapabilityRead) {
		return nil, fmt.Errorf("read folder %s: %w", id, domain.ErrAccessDenied)
	}
	return folder, nil
}

// ListFolders returns the flat list of folders the actor can read.
func (s *Service) ListFolders(ctx context.Context, actor models.Actor) ([]models.Folder, error) {
	all, err := s.folders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterReadable(all, actor), nil
}

// GetContents returns a folder's readable subfolders and its documents.
func (s *Service) GetContents(ctx context.Context, actor models.Actor, id string) (*models.FolderContents, error) {
	folder, err := s.GetFolder(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	children, err := s.folders.ListChildren(ctx, &folder.ID)
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", id, err)
	}

	documents, err := s.documents.ListByFolder(ctx, &folder.ID)
	if err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", id, err)
	}

	return &models.FolderContents{
		Folder:    folder,
		Folders:   FilterReadable(children, actor),
		Documents: documents,
	}, nil
}

// GetStats returns freshly derived stats for a folder the actor can read.
// The recomputation runs outside any write transaction; it reads a
// point-in-time snapshot and writes only the derived columns.
func (s *Service) GetStats(ctx context.Context, actor models.Actor, id string) (*models.FolderStats, error) {
	folder, err := s.GetFolder(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	stats, err := s.stats.Recompute(ctx, folder.ID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateFolder validates and persists a new folder with derived path/level.
// A new folder starts at 0/0, so no ancestor stats change.
func (s *Service) CreateFolder(ctx context.Context, actor models.Actor, req *services.CreateFolderRequest) (folder *models.Folder, err error) {
	defer func() { metrics.ObserveMutation(models.AuditCreateFolder, err) }()

	// Trim before validating so a whitespace-only name fails Required
	// instead of collapsing to "" after the checks.
	req.Name = strings.TrimSpace(req.Name)
	if err = validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !actor.Role.CanMutate() {
		return nil, fmt.Errorf("role %q cannot create folders: %w", actor.Role, domain.ErrAccessDenied)
	}

	name := req.Name

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		// Lock before reading: the fetch must see the parent as it is
		// after any concurrent mutation we waited on, not before.
		var parent *models.Folder
		if req.ParentID != nil {
			if err := s.folders.Lock(ctx, *req.ParentID); err != nil {
				return err
			}
			var err error
			parent, err = s.folders.GetByID(ctx, *req.ParentID)
			if err != nil {
				return fmt.Errorf("parent folder: %w", err)
			}
			if !CanAccess(parent, actor, models.CapabilityWrite) {
				return fmt.Errorf("write on parent folder %s: %w", parent.ID, domain.ErrAccessDenied)
			}
		}

		if err := s.checkSiblingName(ctx, name, req.ParentID, ""); err != nil {
			return err
		}

		path, level := Derive(name, parent)
		if len(path) > config.MaxFolderPathLength {
			return fmt.Errorf("%w: folder path exceeds %d characters", domain.ErrValidation, config.MaxFolderPathLength)
		}

		color := req.Color
		if color == "" {
			color = defaultFolderColor
		}
		permissions := models.NewPermissionSets()
		if req.Permissions != nil {
			permissions = normalizePermissions(*req.Permissions)
		}

		now := time.Now()
		folder = &models.Folder{
			ID:          uuid.NewString(),
			Name:        name,
			Description: strings.TrimSpace(req.Description),
			Color:       color,
			ParentID:    req.ParentID,
			Path:        path,
			Level:       level,
			IsPublic:    req.IsPublic,
			Permissions: permissions,
			Metadata:    req.Metadata,
			CreatedBy:   actor.ID,
			Status:      models.FolderActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		return s.folders.Create(ctx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.AuditEvent{
		Actor:    actor,
		Action:   models.AuditCreateFolder,
		FolderID: folder.ID,
		After:    snapshot(folder),
		At:       time.Now(),
	})
	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"path", folder.Path,
		"parent_id", folder.ParentID,
		"created_by", actor.ID,
	)

	return folder, nil
}

// RenameFolder changes a folder's name and rewrites the derived paths of the
// folder and its whole subtree. Stats are unaffected.
func (s *Service) RenameFolder(ctx context.Context, actor models.Actor, id, name string) (folder *models.Folder, err error) {
	defer func() { metrics.ObserveMutation(models.AuditRenameFolder, err) }()

	name = strings.TrimSpace(name)
	if err = validateFolderName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !actor.Role.CanMutate() {
		return nil, fmt.Errorf("role %q cannot rename folders: %w", actor.Role, domain.ErrAccessDenied)
	}

	var before map[string]any

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.folders.Lock(ctx, id); err != nil {
			return err
		}
		// Fetched after the lock, so a move we blocked on is visible and
		// the path rewrite below runs against the committed parent link.
		var err error
		folder, err = s.folders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !CanAccess(folder, actor, models.CapabilityWrite) {
			return fmt.Errorf("write on folder %s: %w", id, domain.ErrAccessDenied)
		}
		if folder.Name == name {
			return nil
		}

		if err := s.checkSiblingName(ctx, name, folder.ParentID, folder.ID); err != nil {
			return err
		}

		before = snapshot(folder)
		folder.Name = name
		folder.UpdatedAt = time.Now()

		var parent *models.Folder
		if folder.ParentID != nil {
			parent, err = s.folders.GetByID(ctx, *folder.ParentID)
			if err != nil {
				return fmt.Errorf("parent folder: %w", err)
			}
		}

		return s.paths.RecomputeSubtree(ctx, folder, parent)
	})
	if err != nil {
		return nil, err
	}

	if before != nil {
		s.audit.Record(ctx, models.AuditEvent{
			Actor:    actor,
			Action:   models.AuditRenameFolder,
			FolderID: folder.ID,
			Before:   before,
			After:    snapshot(folder),
			At:       time.Now(),
		})
		s.logger.Info("folder renamed", "id", folder.ID, "name", folder.Name, "path", folder.Path)
	}

	return folder, nil
}

// MoveFolder reparents a folder. The cycle guard runs before anything is
// applied; paths of the whole subtree and stats of both the old and new
// ancestor chains are recomputed inside the same transaction.
func (s *Service) MoveFolder(ctx context.Context, actor models.Actor, id string, newParentID *string) (folder *models.Folder, err error) {
	defer func() { metrics.ObserveMutation(models.AuditMoveFolder, err) }()

	if !actor.Role.CanMutate() {
		return nil, fmt.Errorf("role %q cannot move folders: %w", actor.Role, domain.ErrAccessDenied)
	}

	var before map[string]any

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		// Lock the folder before reading it: its parent link decides the
		// rest of the lock set, so it must not change underneath us.
		if err := s.folders.Lock(ctx, id); err != nil {
			return err
		}
		var err error
		folder, err = s.folders.GetByID(ctx, id)
		if err != nil {
			return err
		}

		// Moving to the current parent is a no-op, not an error, and must
		// not trigger a path recompute.
		if sameID(folder.ParentID, newParentID) {
			return nil
		}

		lockIDs := []string{folder.ID}
		if folder.ParentID != nil {
			lockIDs = append(lockIDs, *folder.ParentID)
		}
		if newParentID != nil {
			lockIDs = append(lockIDs, *newParentID)
		}
		if err := s.folders.Lock(ctx, lockIDs...); err != nil {
			return err
		}

		if !CanAccess(folder, actor, models.CapabilityWrite) {
			return fmt.Errorf("write on folder %s: %w", id, domain.ErrAccessDenied)
		}
		if folder.ParentID != nil {
			oldParent, err := s.folders.GetByID(ctx, *folder.ParentID)
			if err != nil {
				return fmt.Errorf("old parent folder: %w", err)
			}
			if !CanAccess(oldParent, actor, models.CapabilityWrite) {
				return fmt.Errorf("write on old parent %s: %w", oldParent.ID, domain.ErrAccessDenied)
			}
		}

		var newParent *models.Folder
		if newParentID != nil {
			newParent, err = s.folders.GetByID(ctx, *newParentID)
			if err != nil {
				return fmt.Errorf("new parent folder: %w", err)
			}
			if !CanAccess(newParent, actor, models.CapabilityWrite) {
				return fmt.Errorf("write on new parent %s: %w", newParent.ID, domain.ErrAccessDenied)
			}
		}

		cyclic, err := s.cycles.WouldCreateCycle(ctx, folder.ID, newParentID)
		if err != nil {
			return err
		}
		if cyclic {
			return fmt.Errorf("cannot move folder %s under its own descendant: %w", id, domain.ErrCyclicMove)
		}

		if err := s.checkSiblingName(ctx, folder.Name, newParentID, folder.ID); err != nil {
			return err
		}

		before = snapshot(folder)
		oldParentID := folder.ParentID
		folder.ParentID = newParentID
		folder.UpdatedAt = time.Now()

		if err := s.paths.RecomputeSubtree(ctx, folder, newParent); err != nil {
			return err
		}

		if err := s.stats.RecomputeChain(ctx, oldParentID); err != nil {
			return err
		}
		return s.stats.RecomputeChain(ctx, &folder.ID)
	})
	if err != nil {
		return nil, err
	}

	if before != nil {
		s.audit.Record(ctx, models.AuditEvent{
			Actor:    actor,
			Action:   models.AuditMoveFolder,
			FolderID: folder.ID,
			Before:   before,
			After:    snapshot(folder),
			At:       time.Now(),
		})
		s.logger.Info("folder moved", "id", folder.ID, "path", folder.Path, "parent_id", folder.ParentID)
	}

	return folder, nil
}

// DeleteFolder soft-deletes an empty folder. A folder with active children
// or directly contained documents is rejected with the blocking counts.
// Ancestor stats are untouched: an empty folder contributed nothing.
func (s *Service) DeleteFolder(ctx context.Context, actor models.Actor, id string) (err error) {
	defer func() { metrics.ObserveMutation(models.AuditDeleteFolder, err) }()

	if !actor.Role.CanMutate() {
		return fmt.Errorf("role %q cannot delete folders: %w", actor.Role, domain.ErrAccessDenied)
	}

	var before map[string]any

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.folders.Lock(ctx, id); err != nil {
			return err
		}
		// Post-lock fetch, so the emptiness check below counts children
		// and documents as of any mutation we waited on.
		folder, err := s.folders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !CanAccess(folder, actor, models.CapabilityWrite) {
			return fmt.Errorf("write on folder %s: %w", id, domain.ErrAccessDenied)
		}

		children, err := s.folders.ListChildren(ctx, &folder.ID)
		if err != nil {
			return fmt.Errorf("list children of %s: %w", id, err)
		}
		docCount, _, err := s.documents.CountAndSize(ctx, &folder.ID)
		if err != nil {
			return fmt.Errorf("count documents in %s: %w", id, err)
		}
		if len(children) > 0 || docCount > 0 {
			return &domain.NonEmptyFolderError{
				FolderID:      id,
				ChildCount:    len(children),
				DocumentCount: docCount,
			}
		}

		before = snapshot(folder)
		return s.folders.SoftDelete(ctx, id, time.Now())
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, models.AuditEvent{
		Actor:    actor,
		Action:   models.AuditDeleteFolder,
		FolderID: id,
		Before:   before,
		At:       time.Now(),
	})
	s.logger.Info("folder deleted", "id", id, "deleted_by", actor.ID)

	return nil
}

// MoveDocuments reassigns a set of documents from a declared source folder
// to a target folder as one atomic unit, then refreshes stats on both
// ancestor chains. Every document must currently sit in the declared source
// (nil = unfiled).
func (s *Service) MoveDocuments(ctx context.Context, actor models.Actor, req *services.MoveDocumentsRequest) (moved int, err error) {
	defer func() { metrics.ObserveMutation(models.AuditMoveDocuments, err) }()

	if err = validateMoveDocumentsRequest(req); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !actor.Role.CanMutate() {
		return 0, fmt.Errorf("role %q cannot move documents: %w", actor.Role, domain.ErrAccessDenied)
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var lockIDs []string
		if req.SourceFolderID != nil {
			lockIDs = append(lockIDs, *req.SourceFolderID)
		}
		if req.TargetFolderID != nil {
			lockIDs = append(lockIDs, *req.TargetFolderID)
		}
		if len(lockIDs) > 0 {
			if err := s.folders.Lock(ctx, lockIDs...); err != nil {
				return err
			}
		}

		if req.SourceFolderID != nil {
			source, err := s.folders.GetByID(ctx, *req.SourceFolderID)
			if err != nil {
				return fmt.Errorf("source folder: %w", err)
			}
			if !CanAccess(source, actor, models.CapabilityWrite) {
				return fmt.Errorf("write on source folder %s: %w", source.ID, domain.ErrAccessDenied)
			}
		}
		if req.TargetFolderID != nil {
			target, err := s.folders.GetByID(ctx, *req.TargetFolderID)
			if err != nil {
				return fmt.Errorf("target folder: %w", err)
			}
			if !CanAccess(target, actor, models.CapabilityWrite) {
				return fmt.Errorf("write on target folder %s: %w", target.ID, domain.ErrAccessDenied)
			}
		}

		docs, err := s.documents.GetByIDs(ctx, req.DocumentIDs)
		if err != nil {
			return fmt.Errorf("load documents: %w", err)
		}
		if len(docs) != len(req.DocumentIDs) {
			return fmt.Errorf("%d of %d documents: %w",
				len(req.DocumentIDs)-len(docs), len(req.DocumentIDs), domain.ErrNotFound)
		}
		for _, doc := range docs {
			if !sameID(doc.FolderID, req.SourceFolderID) {
				return fmt.Errorf("document %s is not in the declared source folder: %w",
					doc.ID, domain.ErrNotFound)
			}
		}

		if err := s.documents.Reassign(ctx, req.DocumentIDs, req.TargetFolderID); err != nil {
			return fmt.Errorf("reassign documents: %w", err)
		}
		moved = len(docs)

		if err := s.stats.RecomputeChain(ctx, req.SourceFolderID); err != nil {
			return err
		}
		return s.stats.RecomputeChain(ctx, req.TargetFolderID)
	})
	if err != nil {
		return 0, err
	}

	s.audit.Record(ctx, models.AuditEvent{
		Actor:    actor,
		Action:   models.AuditMoveDocuments,
		FolderID: derefOrEmpty(req.TargetFolderID),
		Before:   map[string]any{"source_folder_id": req.SourceFolderID, "document_ids": req.DocumentIDs},
		After:    map[string]any{"target_folder_id": req.TargetFolderID, "moved": moved},
		At:       time.Now(),
	})
	s.logger.Info("documents moved",
		"count", moved,
		"source_folder_id", req.SourceFolderID,
		"target_folder_id", req.TargetFolderID,
	)

	return moved, nil
}

// checkSiblingName rejects a name already used by an active sibling. The
// excludeID lets rename/move skip the folder itself.
func (s *Service) checkSiblingName(ctx context.Context, name string, parentID *string, excludeID string) error {
	sibling, err := s.folders.GetByNameAndParent(ctx, name, parentID)
	if err != nil {
		return fmt.Errorf("check sibling names: %w", err)
	}
	if sibling != nil && sibling.ID != excludeID {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
			ResourceType: "folder",
			ResourceID:   sibling.ID,
		}
	}
	return nil
}

// snapshot captures the audit-relevant fields of a folder.
func snapshot(f *models.Folder) map[string]any {
	return map[string]any{
		"name":      f.Name,
		"parent_id": f.ParentID,
		"path":      f.Path,
		"level":     f.Level,
		"is_public": f.IsPublic,
	}
}

// normalizePermissions fills in any grant set the caller left nil.
func normalizePermissions(p models.PermissionSets) models.PermissionSets {
	if p.Read == nil {
		p.Read = models.NewActorSet()
	}
	if p.Write == nil {
		p.Write = models.NewActorSet()
	}
	if p.Admin == nil {
		p.Admin = models.NewActorSet()
	}
	return p
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
