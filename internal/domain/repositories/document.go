package repositories

import (
	"context"

	"github.com/ritheshbalipersad/Document/internal/domain/models"
)

// DocumentRepository defines the store boundary for document records. The
// engine treats documents as leaves contributing to folder stats; it never
// creates or destroys them.
type DocumentRepository interface {
	// GetByIDs retrieves documents by id. Missing ids are simply absent
	// from the result; the caller decides whether that is an error.
	GetByIDs(ctx context.Context, ids []string) ([]models.Document, error)

	// ListByFolder lists documents filed directly in a folder, ordered by
	// name ascending. A nil folder lists the unfiled documents.
	ListByFolder(ctx context.Context, folderID *string) ([]models.Document, error)

	// CountAndSize returns the count and total file size of documents filed
	// directly in a folder.
	CountAndSize(ctx context.Context, folderID *string) (int, int64, error)

	// Reassign moves the given documents to the target folder (nil =
	// unfiled) as one unit.
	Reassign(ctx context.Context, ids []string, folderID *string) error
}
