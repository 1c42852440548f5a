package bufferpool

import "errors"

var (
	// ErrNoUnpinnedFrame is returned by Pin when every frame is pinned
	// and the pool must evict but cannot find a candidate.
	ErrNoUnpinnedFrame = errors.New("bufferpool: no unpinned frame available for replacement")

	// ErrPageNotInCache is returned by Unpin/MarkDirty/ForcePage when
	// the referenced page is not currently resident in any frame.
	ErrPageNotInCache = errors.New("bufferpool: page not in cache")

	// ErrShutdownPinnedPages is returned by Shutdown when at least one
	// frame still has a positive fix count; the pool is left untouched
	// (no flush performed) so the caller can unpin and retry.
	ErrShutdownPinnedPages = errors.New("bufferpool: cannot shut down with pinned pages")
)
