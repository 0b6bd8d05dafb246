package models

import (
	"encoding/json"
	"sort"
	"time"
)

// Capability is a flat, non-hierarchical access grant on a folder.
// Holding admin does not imply write unless also listed.
type Capability string

const (
	CapabilityRead  Capability = "read"
	CapabilityWrite Capability = "write"
	CapabilityAdmin Capability = "admin"
)

// FolderStatus is the lifecycle state of a folder. Tombstoned folders are
// excluded from traversal and name-uniqueness checks but their rows persist
// for audit/restore.
type FolderStatus string

const (
	FolderActive     FolderStatus = "active"
	FolderTombstoned FolderStatus = "tombstoned"
)

// ActorSet is a set of actor identifiers granted a single capability.
// It is stored as a JSON array but loaded into a set at the store boundary
// so membership checks never scan raw JSON.
type ActorSet map[string]struct{}

// NewActorSet builds a set from a list of actor ids.
func NewActorSet(ids ...string) ActorSet {
	s := make(ActorSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether the actor id is a member of the set.
func (s ActorSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts an actor id into the set.
func (s ActorSet) Add(id string) {
	s[id] = struct{}{}
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s ActorSet) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return json.Marshal(ids)
}

// UnmarshalJSON decodes a JSON array into the set.
func (s *ActorSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewActorSet(ids...)
	return nil
}

// PermissionSets holds the per-capability grant sets of a folder.
type PermissionSets struct {
	Read  ActorSet `json:"read"`
	Write ActorSet `json:"write"`
	Admin ActorSet `json:"admin"`
}

// NewPermissionSets returns empty grant sets for all three capabilities.
func NewPermissionSets() PermissionSets {
	return PermissionSets{
		Read:  NewActorSet(),
		Write: NewActorSet(),
		Admin: NewActorSet(),
	}
}

// Set returns the grant set for the given capability.
func (p PermissionSets) Set(c Capability) ActorSet {
	switch c {
	case CapabilityRead:
		return p.Read
	case CapabilityWrite:
		return p.Write
	case CapabilityAdmin:
		return p.Admin
	}
	return nil
}

// Folder is a node of the rooted folder forest. Path and Level are derived
// from the parent chain and rewritten whenever name or parent changes;
// DocumentCount and Size are derived from the document set of the subtree.
type Folder struct {
	ID            string         `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Description   string         `json:"description,omitempty" db:"description"`
	Color         string         `json:"color,omitempty" db:"color"`
	ParentID      *string        `json:"parent_id" db:"parent_id"` // NULL = root
	Path          string         `json:"path" db:"path"`
	Level         int            `json:"level" db:"level"`
	IsPublic      bool           `json:"is_public" db:"is_public"`
	Permissions   PermissionSets `json:"permissions" db:"permissions"`
	Metadata      map[string]any `json:"metadata,omitempty" db:"metadata"`
	CreatedBy     string         `json:"created_by" db:"created_by"`
	DocumentCount int            `json:"document_count" db:"document_count"`
	Size          int64          `json:"size" db:"size"`
	Status        FolderStatus   `json:"status"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time     `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsRoot reports whether the folder has no parent.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// Tombstoned reports whether the folder is soft-deleted.
func (f *Folder) Tombstoned() bool {
	return f.Status == FolderTombstoned
}

// FolderStats is a freshly derived count/size pair for a folder's subtree.
type FolderStats struct {
	DocumentCount int   `json:"document_count"`
	Size          int64 `json:"size"`
}
