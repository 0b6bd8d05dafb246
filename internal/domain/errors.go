package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// The handler layer uses this to translate engine errors without a
// switch over every concrete type.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors for the engine's outcome kinds - use with errors.Is()
var (
	// ErrNotFound indicates a folder, parent, or document id does not
	// resolve to an active record.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied indicates the permission evaluator denied the
	// requested capability.
	ErrAccessDenied = errors.New("access denied")

	// ErrNameConflict indicates a duplicate sibling name on create or rename.
	ErrNameConflict = errors.New("name already exists in this location")

	// ErrCyclicMove indicates a reparent would move a folder under its
	// own descendant (or under itself).
	ErrCyclicMove = errors.New("move would create a cycle")

	// ErrNonEmptyFolder indicates a delete was attempted on a folder that
	// still has active children or documents.
	ErrNonEmptyFolder = errors.New("folder is not empty")

	// ErrDepthExceeded indicates a traversal exceeded the configured bound.
	ErrDepthExceeded = errors.New("traversal depth exceeded")

	// ErrConflict indicates a concurrent mutation touched an overlapping
	// subtree; the caller may retry.
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrInvariantViolation indicates an internal consistency check failed.
	// It always aborts the operation and is never silently repaired.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates authentication failure.
	ErrUnauthorized = errors.New("unauthorized")
)

// NonEmptyFolderError reports why a folder cannot be deleted, naming the
// blocking counts so callers can surface them.
type NonEmptyFolderError struct {
	FolderID      string
	ChildCount    int
	DocumentCount int
}

func (e *NonEmptyFolderError) Error() string {
	return fmt.Sprintf("folder %s is not empty: %d child folder(s), %d document(s)",
		e.FolderID, e.ChildCount, e.DocumentCount)
}

// Is allows errors.Is() to match against ErrNonEmptyFolder
func (e *NonEmptyFolderError) Is(target error) bool {
	return target == ErrNonEmptyFolder
}

// StatusCode implements the HTTPError interface
func (e *NonEmptyFolderError) StatusCode() int {
	return http.StatusConflict
}

// ConflictError represents a name conflict with details about the existing
// resource, so the handler can point at the sibling that blocked the operation.
type ConflictError struct {
	Message      string
	ResourceType string
	ResourceID   string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrNameConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrNameConflict
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}
