package storage

import "errors"

var (
	// ErrFileNotFound is returned when opening, destroying, or otherwise
	// operating on a page file that does not exist on disk.
	ErrFileNotFound = errors.New("storage: file not found")

	// ErrWriteFailed is returned when a page write is out of bounds or
	// the underlying disk write is short.
	ErrWriteFailed = errors.New("storage: write failed")

	// ErrReadFailed is returned when a page read is out of bounds
	// (including reading past the current end of file).
	ErrReadFailed = errors.New("storage: read failed")

	// ErrFileHandleNotInitialized is returned by any operation on a
	// PageFile that has already been closed.
	ErrFileHandleNotInitialized = errors.New("storage: file handle not initialized")
)
