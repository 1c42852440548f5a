// Package bufferpool caches pages of a single storage.PageFile in a
// fixed number of in-memory frames, pinning/unpinning them for
// callers and evicting under FIFO or LRU when the pool is full.
//
// The pool is not safe for concurrent use — spec.md's concurrency
// model is single-threaded by design (no transactions, no locking),
// so callers serialize their own access instead of paying for a
// mutex no caller in this engine needs.
package bufferpool

import (
	"log/slog"

	"github.com/tuannm99/gorelix/internal/storage"
)

const logPrefix = "bufferpool: "

// frame is one of the pool's K fixed slots.
type frame struct {
	pageIndex int // -1 when the frame has never held a page
	dirty     bool
	fixCount  int
	bytes     []byte
}

func (f *frame) empty() bool { return f.pageIndex == -1 }

// PageHandle is what Pin hands back to a caller: a stable pointer to
// the frame's bytes for the pinned page, and the page index it backs.
type PageHandle struct {
	Page int
	Data []byte
}

// Pool is a fixed-K-frame cache bound to exactly one storage.PageFile.
type Pool struct {
	file     *storage.PageFile
	strategy Strategy

	frames    []frame
	pageTable map[int]int // page index -> frame index
	list      *recencyList

	reads  int
	writes int
}

// NewPool opens fileName and binds a K-frame pool over it using the
// given replacement strategy. It fails with storage.ErrFileNotFound
// if the file does not already exist — callers create the file first
// (e.g. via the record manager's CreateTable or index.Create).
func NewPool(fileName string, k int, strategy Strategy) (*Pool, error) {
	f, err := storage.OpenPageFile(fileName)
	if err != nil {
		return nil, err
	}

	frames := make([]frame, k)
	for i := range frames {
		frames[i] = frame{pageIndex: -1, bytes: make([]byte, storage.PageSize)}
	}

	p := &Pool{
		file:      f,
		strategy:  strategy,
		frames:    frames,
		pageTable: make(map[int]int, k),
		list:      newRecencyList(k),
	}
	slog.Debug(logPrefix+"init", "file", fileName, "k", k, "strategy", strategy.String())
	return p, nil
}

// Capacity returns the number of frames in the pool.
func (p *Pool) Capacity() int { return len(p.frames) }

// TotalPages returns the number of pages in the underlying file,
// including ones no frame currently holds.
func (p *Pool) TotalPages() int { return p.file.TotalNumPages() }

// Shutdown fails with ErrShutdownPinnedPages (and performs no flush)
// if any frame is still pinned; otherwise it force-flushes every
// dirty frame and closes the underlying file.
func (p *Pool) Shutdown() error {
	for i := range p.frames {
		if p.frames[i].fixCount > 0 {
			return ErrShutdownPinnedPages
		}
	}
	if err := p.ForceFlushPool(); err != nil {
		return err
	}
	slog.Debug(logPrefix+"shutdown", "file", p.file.Name())
	return p.file.Close()
}

// Pin loads page pageIdx into a frame (if not already resident),
// increments its fix count, and returns a handle whose Data points at
// the frame's stable byte buffer. See spec.md §4.1 for the full
// algorithm this implements.
func (p *Pool) Pin(pageIdx int) (PageHandle, error) {
	if fi, ok := p.pageTable[pageIdx]; ok {
		f := &p.frames[fi]
		f.fixCount++
		if p.strategy == LRU {
			p.list.moveToTail(fi)
		}
		slog.Debug(logPrefix+"pin hit", "page", pageIdx, "frame", fi, "fixCount", f.fixCount)
		return PageHandle{Page: pageIdx, Data: f.bytes}, nil
	}

	if fi, ok := p.firstEmptyFrame(); ok {
		if err := p.loadInto(fi, pageIdx); err != nil {
			return PageHandle{}, err
		}
		p.list.pushTail(fi)
		p.frames[fi].fixCount = 1
		p.pageTable[pageIdx] = fi
		slog.Debug(logPrefix+"pin miss (free frame)", "page", pageIdx, "frame", fi)
		return PageHandle{Page: pageIdx, Data: p.frames[fi].bytes}, nil
	}

	victim, err := p.pickVictim()
	if err != nil {
		return PageHandle{}, err
	}

	vf := &p.frames[victim]
	if vf.dirty {
		if err := p.file.WriteBlock(vf.pageIndex, vf.bytes); err != nil {
			return PageHandle{}, err
		}
		p.writes++
		vf.dirty = false
	}
	delete(p.pageTable, vf.pageIndex)
	slog.Debug(logPrefix+"evict", "victimPage", vf.pageIndex, "frame", victim, "newPage", pageIdx)

	if err := p.loadInto(victim, pageIdx); err != nil {
		return PageHandle{}, err
	}
	// pickVictim already spliced this frame out of the list.
	p.list.pushTail(victim)
	vf.fixCount = 1
	p.pageTable[pageIdx] = victim

	return PageHandle{Page: pageIdx, Data: vf.bytes}, nil
}

func (p *Pool) firstEmptyFrame() (int, bool) {
	for i := range p.frames {
		if p.frames[i].empty() {
			return i, true
		}
	}
	return 0, false
}

// loadInto grows the file if pageIdx doesn't exist yet, then reads it
// into frame fi.
func (p *Pool) loadInto(fi, pageIdx int) error {
	if pageIdx >= p.file.TotalNumPages() {
		if err := p.file.EnsureCapacity(pageIdx + 1); err != nil {
			return err
		}
	}
	if err := p.file.ReadBlock(pageIdx, p.frames[fi].bytes); err != nil {
		return err
	}
	p.frames[fi].pageIndex = pageIdx
	p.frames[fi].dirty = false
	p.reads++
	return nil
}

// pickVictim walks the recency list head-to-tail and returns the
// first unpinned frame. Both FIFO and LRU use the same walk; the
// policies differ only in when a frame is moved to the tail (see
// Pin's hit path, which only reorders for LRU).
func (p *Pool) pickVictim() (int, error) {
	for idx := p.list.head; idx != listNil; idx = p.list.next[idx] {
		if p.frames[idx].fixCount == 0 {
			p.list.remove(idx)
			return idx, nil
		}
	}
	return 0, ErrNoUnpinnedFrame
}

// Unpin decrements the fix count of the frame holding handle.Page,
// floored at zero.
func (p *Pool) Unpin(handle PageHandle) error {
	fi, ok := p.pageTable[handle.Page]
	if !ok {
		return ErrPageNotInCache
	}
	if p.frames[fi].fixCount > 0 {
		p.frames[fi].fixCount--
	}
	slog.Debug(logPrefix+"unpin", "page", handle.Page, "fixCount", p.frames[fi].fixCount)
	return nil
}

// MarkDirty marks the frame holding handle.Page as modified.
func (p *Pool) MarkDirty(handle PageHandle) error {
	fi, ok := p.pageTable[handle.Page]
	if !ok {
		return ErrPageNotInCache
	}
	p.frames[fi].dirty = true
	return nil
}

// ForcePage writes the frame holding handle.Page back to disk and
// clears its dirty bit, regardless of whether it's actually dirty.
func (p *Pool) ForcePage(handle PageHandle) error {
	fi, ok := p.pageTable[handle.Page]
	if !ok {
		return ErrPageNotInCache
	}
	f := &p.frames[fi]
	if err := p.file.WriteBlock(f.pageIndex, f.bytes); err != nil {
		return err
	}
	p.writes++
	f.dirty = false
	return nil
}

// ForceFlushPool writes every dirty, unpinned frame back to disk.
// Frames that are still pinned keep their dirty bit set.
func (p *Pool) ForceFlushPool() error {
	for i := range p.frames {
		f := &p.frames[i]
		if f.empty() || !f.dirty || f.fixCount > 0 {
			continue
		}
		if err := p.file.WriteBlock(f.pageIndex, f.bytes); err != nil {
			return err
		}
		p.writes++
		f.dirty = false
	}
	slog.Debug(logPrefix+"force flush pool", "writes", p.writes)
	return nil
}

// ---- read-only accessors ----

// FramePages returns, for each frame, the page index it holds (-1 if
// the frame has never been loaded).
func (p *Pool) FramePages() []int {
	out := make([]int, len(p.frames))
	for i := range p.frames {
		out[i] = p.frames[i].pageIndex
	}
	return out
}

// FrameDirty returns the dirty bit of each frame.
func (p *Pool) FrameDirty() []bool {
	out := make([]bool, len(p.frames))
	for i := range p.frames {
		out[i] = p.frames[i].dirty
	}
	return out
}

// FrameFixCount returns the fix count of each frame.
func (p *Pool) FrameFixCount() []int {
	out := make([]int, len(p.frames))
	for i := range p.frames {
		out[i] = p.frames[i].fixCount
	}
	return out
}

// Reads returns the number of disk page-loads the pool has performed.
func (p *Pool) Reads() int { return p.reads }

// Writes returns the number of disk page-stores the pool has performed.
func (p *Pool) Writes() int { return p.writes }
