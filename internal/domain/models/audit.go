package models

import "time"

// Audit actions emitted by the mutation coordinator.
const (
	AuditCreateFolder  = "CREATE_FOLDER"
	AuditRenameFolder  = "RENAME_FOLDER"
	AuditMoveFolder    = "MOVE_FOLDER"
	AuditDeleteFolder  = "DELETE_FOLDER"
	AuditMoveDocuments = "MOVE_DOCUMENTS"
)

// AuditEvent is the structured payload of a successful mutation. The engine
// produces it; persisting it is the audit collaborator's job.
type AuditEvent struct {
	Actor    Actor          `json:"actor"`
	Action   string         `json:"action"`
	FolderID string         `json:"folder_id"`
	Before   map[string]any `json:"before,omitempty"`
	After    map[string]any `json:"after,omitempty"`
	At       time.Time      `json:"at"`
}
