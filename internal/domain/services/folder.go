package services

import (
	"context"

	"github.com/ritheshbalipersad/Document/internal/domain/models"
)

// CreateFolderRequest carries the caller-supplied fields of a new folder.
// Path, level and stats are derived, never accepted from the caller.
type CreateFolderRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Color       string                 `json:"color"`
	ParentID    *string                `json:"parent_id"`
	IsPublic    bool                   `json:"is_public"`
	Permissions *models.PermissionSets `json:"permissions"`
	Metadata    map[string]any         `json:"metadata"`
}

// MoveDocumentsRequest reassigns a set of documents from a declared source
// folder (nil = unfiled) to a target folder (nil = unfiled).
type MoveDocumentsRequest struct {
	DocumentIDs    []string `json:"document_ids"`
	SourceFolderID *string  `json:"source_folder_id"`
	TargetFolderID *string  `json:"target_folder_id"`
}

// FolderService is the mutation coordinator and query surface of the folder
// engine. Every operation takes an explicit actor; the permission evaluator
// re-runs on every call and never caches a decision.
type FolderService interface {
	GetTree(ctx context.Context, actor models.Actor, rootID *string, maxDepth int) ([]*models.FolderNode, error)
	GetFolder(ctx context.Context, actor models.Actor, id string) (*models.Folder, error)
	ListFolders(ctx context.Context, actor models.Actor) ([]models.Folder, error)
	GetContents(ctx context.Context, actor models.Actor, id string) (*models.FolderContents, error)
	GetStats(ctx context.Context, actor models.Actor, id string) (*models.FolderStats, error)

	CreateFolder(ctx context.Context, actor models.Actor, req *CreateFolderRequest) (*models.Folder, error)
	RenameFolder(ctx context.Context, actor models.Actor, id, name string) (*models.Folder, error)
	MoveFolder(ctx context.Context, actor models.Actor, id string, newParentID *string) (*models.Folder, error)
	DeleteFolder(ctx context.Context, actor models.Actor, id string) error
	MoveDocuments(ctx context.Context, actor models.Actor, req *MoveDocumentsRequest) (int, error)
}
