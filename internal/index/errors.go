package index

import "errors"

var (
	// ErrKeyAlreadyExists is returned by Insert when key compares equal
	// to an entry already present.
	ErrKeyAlreadyExists = errors.New("index: key already exists")

	// ErrKeyNotFound is returned by Find and DeleteKey when no entry's
	// key compares equal to the one searched for.
	ErrKeyNotFound = errors.New("index: key not found")

	// ErrNoMoreEntries is returned by (*Scan).NextEntry once the cursor
	// has passed the last entry.
	ErrNoMoreEntries = errors.New("index: no more entries")
)
