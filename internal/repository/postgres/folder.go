package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ritheshbalipersad/Document/internal/domain"
	"github.com/ritheshbalipersad/Document/internal/domain/models"
	"github.com/ritheshbalipersad/Document/internal/domain/repositories"
)

// folderColumns is the column list every folder query selects, in scan order.
const folderColumns = `id, name, description, color, parent_id, path, level,
	is_public, permissions, metadata, created_by, document_count, size,
	created_at, updated_at, deleted_at`

// PostgresFolderRepository implements the FolderRepository interface.
// All methods run through GetExecutor so they automatically join the
// transaction carried by the context.
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	permissions, metadata, err := encodeJSONFields(folder)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, description, color, parent_id, path, level,
			is_public, permissions, metadata, created_by, document_count, size,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, r.tables.Folders)

	_, err = GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ID,
		folder.Name,
		folder.Description,
		folder.Color,
		folder.ParentID,
		folder.Path,
		folder.Level,
		folder.IsPublic,
		permissions,
		metadata,
		folder.CreatedBy,
		folder.DocumentCount,
		folder.Size,
		folder.CreatedAt,
		folder.UpdatedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", folder.Name),
				ResourceType: "folder",
			}
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves an active folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, folderColumns, r.tables.Folders)

	row := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id)
	folder, err := scanFolder(row)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// Update persists the mutable fields of a folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	permissions, metadata, err := encodeJSONFields(folder)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, color = $3, parent_id = $4,
			path = $5, level = $6, is_public = $7, permissions = $8,
			metadata = $9, updated_at = $10
		WHERE id = $11 AND deleted_at IS NULL
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.Name,
		folder.Description,
		folder.Color,
		folder.ParentID,
		folder.Path,
		folder.Level,
		folder.IsPublic,
		permissions,
		metadata,
		folder.UpdatedAt,
		folder.ID,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", folder.Name),
				ResourceType: "folder",
			}
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdateStats persists freshly derived document count and size
func (r *PostgresFolderRepository) UpdateStats(ctx context.Context, id string, documentCount int, size int64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET document_count = $1, size = $2
		WHERE id = $3 AND deleted_at IS NULL
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentCount, size, id)
	if err != nil {
		return fmt.Errorf("update folder stats: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SoftDelete tombstones a folder
func (r *PostgresFolderRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists active immediate child folders ordered by name
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID *string) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_id IS NULL AND deleted_at IS NULL
			ORDER BY name ASC
		`, folderColumns, r.tables.Folders)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_id = $1 AND deleted_at IS NULL
			ORDER BY name ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, *parentID)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}
	defer rows.Close()

	return collectFolders(rows)
}

// GetByNameAndParent finds an active sibling by name, or nil
func (r *PostgresFolderRepository) GetByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	var query string
	args := []interface{}{name}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE name = $1 AND parent_id IS NULL AND deleted_at IS NULL
		`, folderColumns, r.tables.Folders)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE name = $1 AND parent_id = $2 AND deleted_at IS NULL
		`, folderColumns, r.tables.Folders)
		args = append(args, *parentID)
	}

	row := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...)
	folder, err := scanFolder(row)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get folder by name: %w", err)
	}

	return folder, nil
}

// ListAll lists every active folder ordered by path
func (r *PostgresFolderRepository) ListAll(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE deleted_at IS NULL
		ORDER BY path ASC
	`, folderColumns, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	return collectFolders(rows)
}

// Lock takes row-level write locks on the given folders. Ids are sorted by
// the query so two transactions locking the same set cannot deadlock.
func (r *PostgresFolderRepository) Lock(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("lock folders: %w", err)
	}
	rows.Close()

	return rows.Err()
}

// scanFolder reads one folder row, decoding the JSONB columns.
func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	var permissions, metadata []byte

	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.Description,
		&folder.Color,
		&folder.ParentID,
		&folder.Path,
		&folder.Level,
		&folder.IsPublic,
		&permissions,
		&metadata,
		&folder.CreatedBy,
		&folder.DocumentCount,
		&folder.Size,
		&folder.CreatedAt,
		&folder.UpdatedAt,
		&folder.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	folder.Permissions = models.NewPermissionSets()
	if len(permissions) > 0 {
		if err := json.Unmarshal(permissions, &folder.Permissions); err != nil {
			return nil, fmt.Errorf("decode folder permissions: %w", err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &folder.Metadata); err != nil {
			return nil, fmt.Errorf("decode folder metadata: %w", err)
		}
	}

	folder.Status = models.FolderActive
	if folder.DeletedAt != nil {
		folder.Status = models.FolderTombstoned
	}

	return &folder, nil
}

func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return folders, nil
}

func encodeJSONFields(folder *models.Folder) (permissions, metadata []byte, err error) {
	permissions, err = json.Marshal(folder.Permissions)
	if err != nil {
		return nil, nil, fmt.Errorf("encode folder permissions: %w", err)
	}
	if folder.Metadata != nil {
		metadata, err = json.Marshal(folder.Metadata)
		if err != nil {
			return nil, nil, fmt.Errorf("encode folder metadata: %w", err)
		}
	}
	return permissions, metadata, nil
}
