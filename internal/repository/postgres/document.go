package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ritheshbalipersad/Document/internal/domain"
	"github.com/ritheshbalipersad/Document/internal/domain/models"
	"github.com/ritheshbalipersad/Document/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByIDs retrieves documents by id; missing ids are absent from the result
func (r *PostgresDocumentRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, folder_id, name, file_size, created_at, updated_at
		FROM %s
		WHERE id = ANY($1)
	`, r.tables.Documents)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// ListByFolder lists documents filed directly in a folder (nil = unfiled)
func (r *PostgresDocumentRepository) ListByFolder(ctx context.Context, folderID *string) ([]models.Document, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT id, folder_id, name, file_size, created_at, updated_at
			FROM %s
			WHERE folder_id IS NULL
			ORDER BY name ASC
		`, r.tables.Documents)
	} else {
		query = fmt.Sprintf(`
			SELECT id, folder_id, name, file_size, created_at, updated_at
			FROM %s
			WHERE folder_id = $1
			ORDER BY name ASC
		`, r.tables.Documents)
		args = append(args, *folderID)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// CountAndSize returns count and total size of documents filed directly in a folder
func (r *PostgresDocumentRepository) CountAndSize(ctx context.Context, folderID *string) (int, int64, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT COUNT(*), COALESCE(SUM(file_size), 0)
			FROM %s
			WHERE folder_id IS NULL
		`, r.tables.Documents)
	} else {
		query = fmt.Sprintf(`
			SELECT COUNT(*), COALESCE(SUM(file_size), 0)
			FROM %s
			WHERE folder_id = $1
		`, r.tables.Documents)
		args = append(args, *folderID)
	}

	var count int
	var size int64
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&count, &size)
	if err != nil {
		return 0, 0, fmt.Errorf("count documents: %w", err)
	}

	return count, size, nil
}

// Reassign moves the given documents to the target folder (nil = unfiled)
func (r *PostgresDocumentRepository) Reassign(ctx context.Context, ids []string, folderID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = NOW()
		WHERE id = ANY($2)
	`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderID, ids)
	if err != nil {
		return fmt.Errorf("reassign documents: %w", err)
	}

	if int(result.RowsAffected()) != len(ids) {
		return fmt.Errorf("%d of %d documents: %w",
			len(ids)-int(result.RowsAffected()), len(ids), domain.ErrNotFound)
	}

	return nil
}

func collectDocuments(rows pgx.Rows) ([]models.Document, error) {
	var documents []models.Document
	for rows.Next() {
		var doc models.Document
		err := rows.Scan(
			&doc.ID,
			&doc.FolderID,
			&doc.Name,
			&doc.FileSize,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return documents, nil
}
