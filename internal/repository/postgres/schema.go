package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the engine's tables and indexes if they do not exist.
// Sibling name uniqueness is enforced by a partial unique index scoped to
// active rows, so a tombstoned folder frees its name immediately.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				color TEXT NOT NULL DEFAULT '#007bff',
				parent_id UUID REFERENCES %s(id),
				path TEXT NOT NULL,
				level INTEGER NOT NULL DEFAULT 0,
				is_public BOOLEAN NOT NULL DEFAULT FALSE,
				permissions JSONB NOT NULL DEFAULT '{"read":[],"write":[],"admin":[]}',
				metadata JSONB,
				created_by TEXT NOT NULL,
				document_count INTEGER NOT NULL DEFAULT 0,
				size BIGINT NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMPTZ
			)
		`, tables.Folders, tables.Folders),
		fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS %s_active_sibling_name
			ON %s (COALESCE(parent_id::text, ''), name)
			WHERE deleted_at IS NULL
		`, tables.Folders, tables.Folders),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_parent_id
			ON %s (parent_id)
			WHERE deleted_at IS NULL
		`, tables.Folders, tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				folder_id UUID REFERENCES %s(id),
				name TEXT NOT NULL,
				file_size BIGINT NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`, tables.Documents, tables.Folders),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_folder_id
			ON %s (folder_id)
		`, tables.Documents, tables.Documents),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	return nil
}
