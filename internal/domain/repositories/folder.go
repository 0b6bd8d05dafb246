package repositories

import (
	"context"
	"time"

	"github.com/ritheshbalipersad/Document/internal/domain/models"
)

// FolderRepository defines the store boundary for folder records. All read
// methods see only active folders; tombstoned rows are invisible to the
// engine except through the soft-delete write itself.
type FolderRepository interface {
	// Create persists a new folder.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves an active folder by id.
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// Update persists name, parent, path, level and the mutable descriptive
	// fields of a folder.
	Update(ctx context.Context, folder *models.Folder) error

	// UpdateStats persists freshly derived document count and size.
	UpdateStats(ctx context.Context, id string, documentCount int, size int64) error

	// SoftDelete tombstones a folder.
	SoftDelete(ctx context.Context, id string, at time.Time) error

	// ListChildren lists active immediate children ordered by name
	// ascending. A nil parent lists the roots.
	ListChildren(ctx context.Context, parentID *string) ([]models.Folder, error)

	// GetByNameAndParent finds an active sibling by name, or nil.
	GetByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Folder, error)

	// ListAll lists every active folder.
	ListAll(ctx context.Context) ([]models.Folder, error)

	// Lock takes row-level write locks on the given folders within the
	// current transaction, so concurrent mutations of overlapping subtrees
	// serialize instead of interleaving.
	Lock(ctx context.Context, ids ...string) error
}
