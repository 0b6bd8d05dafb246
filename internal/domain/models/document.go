package models

import "time"

// Document is an external entity referenced by the engine, never owned by it.
// The engine only cares about which folder a document sits in and how large
// it is; upload, storage and content are someone else's problem.
type Document struct {
	ID        string    `json:"id" db:"id"`
	FolderID  *string   `json:"folder_id" db:"folder_id"` // NULL = unfiled
	Name      string    `json:"name" db:"name"`
	FileSize  int64     `json:"file_size" db:"file_size"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
