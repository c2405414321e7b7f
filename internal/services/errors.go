package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Kind classifies an operation failure. Controllers map kinds to HTTP status codes.
type Kind string

const (
	KindInvalidPath      Kind = "invalid_path"
	KindInvalidRequest   Kind = "invalid_request"
	KindNotFound         Kind = "not_found"
	KindAccessDenied     Kind = "access_denied"
	KindAlreadyExists    Kind = "already_exists"
	KindConflict         Kind = "conflict"
	KindCrossVolume      Kind = "cross_volume_move"
	KindUnknownLocation  Kind = "unknown_location"
	KindUnsupportedMedia Kind = "unsupported_media"
	KindIO               Kind = "io"
)

var (
	// ErrEmptyPath indicates a path argument was empty and no fallback applies
	ErrEmptyPath = errors.New("path is required")

	// ErrInvalidName indicates a name that is not a single path element
	ErrInvalidName = errors.New("name must be a single path element")

	// ErrPathEscapesRoot indicates a resolved path outside the configured root
	ErrPathEscapesRoot = errors.New("path escapes root")

	// ErrNotDirectory indicates a listing target that is not a directory
	ErrNotDirectory = errors.New("not a directory")

	// ErrSameLocation indicates a copy whose destination is the source itself
	ErrSameLocation = errors.New("source and destination are the same")

	// ErrIntoItself indicates copying or moving a directory into its own subtree
	ErrIntoItself = errors.New("cannot place a directory inside itself")

	// ErrRootDelete indicates an attempt to delete a volume or configured root
	ErrRootDelete = errors.New("refusing to delete a root directory")

	// ErrUnknownLocation indicates an unrecognised special-location name
	ErrUnknownLocation = errors.New("invalid folder type")

	// ErrUnsupportedType indicates an unknown item type or clipboard operation
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnsupportedImage indicates a thumbnail request for a non-image file
	ErrUnsupportedImage = errors.New("unsupported image format")

	// ErrIrregularFile indicates a device, socket or pipe met during a tree copy
	ErrIrregularFile = errors.New("not a regular file")
)

// Operation names for consistent logging, metrics and error messages
const (
	OpSanitize  = "sanitize"
	OpList      = "list"
	OpVolumes   = "volumes"
	OpUsage     = "usage"
	OpCreate    = "create"
	OpDelete    = "delete"
	OpRename    = "rename"
	OpCopy      = "copy"
	OpMove      = "move"
	OpPaste     = "paste"
	OpResolve   = "resolve"
	OpThumbnail = "thumbnail"
)

// OpError carries the failed operation, the affected path(s) and the error kind.
type OpError struct {
	Op   string
	Path string
	Dest string // Second path for rename, copy and move
	Kind Kind
	Err  error
}

func (e *OpError) Error() string {
	switch {
	case e.Path == "":
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	case e.Dest != "":
		return fmt.Sprintf("%s %s to %s: %v", e.Op, e.Path, e.Dest, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func newOpError(op, path string, kind Kind, err error) *OpError {
	return &OpError{Op: op, Path: path, Kind: kind, Err: err}
}

// KindOf returns the kind of err. Errors that did not come from this package are KindIO.
func KindOf(err error) Kind {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindIO
}

// classify wraps a host error into an OpError, picking the kind from the
// underlying cause. Errors that are already OpErrors pass through untouched.
func classify(op, path string, err error) error {
	return classifyPair(op, path, "", err)
}

func classifyPair(op, path, dest string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return err
	}

	cause := err
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	switch {
	case errors.As(err, &pathErr) && pathErr.Path == path:
		cause = pathErr.Err
	case errors.As(err, &linkErr):
		cause = linkErr.Err
	}

	kind := KindIO
	switch {
	case isCrossDevice(err):
		kind = KindCrossVolume
	case (op == OpRename || op == OpMove || op == OpCopy) && isRenameConflict(err):
		kind = KindConflict
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindAccessDenied
	case errors.Is(err, fs.ErrExist):
		kind = KindAlreadyExists
	}

	return &OpError{Op: op, Path: path, Dest: dest, Kind: kind, Err: cause}
}
