package models

import "time"

// FolderNode is a folder in the presentation tree with nested children.
// Nodes at the depth bound are returned as leaves with children omitted.
type FolderNode struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Color         string        `json:"color,omitempty"`
	ParentID      *string       `json:"parent_id"`
	Path          string        `json:"path"`
	Level         int           `json:"level"`
	DocumentCount int           `json:"document_count"`
	Size          int64         `json:"size"`
	CreatedAt     time.Time     `json:"created_at"`
	Children      []*FolderNode `json:"children"`
}

// FolderContents is the immediate content listing of a folder: its readable
// subfolders and the documents filed directly in it.
type FolderContents struct {
	Folder    *Folder    `json:"folder"`
	Folders   []Folder   `json:"folders"`
	Documents []Document `json:"documents"`
}
