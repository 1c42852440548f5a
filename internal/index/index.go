// Package index implements the secondary index: despite the name the
// original system gave it, it's not a B-tree — an ordered array of
// (key, RID) pairs, backed by a metadata file whose only durable
// state is the declared fanout n on page 0. See spec's explicit
// license to reproduce the observable contract with a simpler
// representation.
package index

import (
	"log/slog"

	"github.com/tuannm99/gorelix/internal/alias/bx"
	"github.com/tuannm99/gorelix/internal/bufferpool"
	"github.com/tuannm99/gorelix/internal/storage"
	"github.com/tuannm99/gorelix/internal/types"
)

// indexPoolFrames is the small buffer pool size spec.md calls for:
// "~10 FIFO frames" over the metadata file.
const indexPoolFrames = 10

type entry struct {
	Key types.Value
	RID types.RID
}

// Index is an open secondary index handle: a small buffer pool bound
// to the metadata file, plus the in-memory ordered entry collection
// that is this representation's actual storage.
type Index struct {
	pool    *bufferpool.Pool
	name    string
	keyType types.Kind
	n       uint32
	entries []entry
}

// Create writes a fresh metadata file for name: page 0 holds n (the
// declared fanout) as a little-endian uint32, nothing else.
func Create(name string, n uint32) error {
	if err := storage.CreatePageFile(name); err != nil {
		return err
	}
	f, err := storage.OpenPageFile(name)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, storage.PageSize)
	bx.PutU32(buf[0:4], n)
	return f.WriteBlock(0, buf)
}

// Open reads n off page 0 and binds a 10-frame FIFO pool to the
// metadata file. keyType is supplied by the caller rather than read
// back from disk: spec.md's metadata file durably preserves only n,
// so a reopened index has no entries and must be told what type its
// keys compare as (normally the indexed column's type, known from the
// table schema).
func Open(name string, keyType types.Kind) (*Index, error) {
	pool, err := bufferpool.NewPool(name, indexPoolFrames, bufferpool.FIFO)
	if err != nil {
		return nil, err
	}
	h, err := pool.Pin(0)
	if err != nil {
		return nil, err
	}
	n := bx.U32(h.Data[0:4])
	if err := pool.Unpin(h); err != nil {
		return nil, err
	}

	slog.Debug("index: open", "file", name, "n", n, "keyType", keyType.String())
	return &Index{pool: pool, name: name, keyType: keyType, n: n}, nil
}

// Close shuts down the index's buffer pool.
func (idx *Index) Close() error { return idx.pool.Shutdown() }

// Delete removes an index's metadata file from disk. The index must
// not be open.
func Delete(name string) error { return storage.DestroyPageFile(name) }

// Insert appends (key, rid), failing with ErrKeyAlreadyExists if an
// entry with an equal key is already present.
func (idx *Index) Insert(key types.Value, rid types.RID) error {
	for _, e := range idx.entries {
		cmp, err := types.Compare(e.Key, key)
		if err != nil {
			return err
		}
		if cmp == 0 {
			return ErrKeyAlreadyExists
		}
	}
	idx.entries = append(idx.entries, entry{Key: key, RID: rid})
	return nil
}

// Find returns the RID of the entry whose key compares equal to key.
func (idx *Index) Find(key types.Value) (types.RID, error) {
	for _, e := range idx.entries {
		cmp, err := types.Compare(e.Key, key)
		if err != nil {
			return types.RID{}, err
		}
		if cmp == 0 {
			return e.RID, nil
		}
	}
	return types.RID{}, ErrKeyNotFound
}

// DeleteKey removes the entry whose key compares equal to key,
// shifting the remaining entries down.
func (idx *Index) DeleteKey(key types.Value) error {
	for i, e := range idx.entries {
		cmp, err := types.Compare(e.Key, key)
		if err != nil {
			return err
		}
		if cmp == 0 {
			idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
			return nil
		}
	}
	return ErrKeyNotFound
}

// GetNumEntries returns the number of entries currently held.
func (idx *Index) GetNumEntries() int { return len(idx.entries) }

// GetKeyType returns the type keys in this index are compared as.
func (idx *Index) GetKeyType() types.Kind { return idx.keyType }

// GetNumNodes returns entries - duplicatePagePairCount: the number of
// ordered pairs (i, j), j<i, whose entries share a RID page, counted
// against the entry total.
func (idx *Index) GetNumNodes() int {
	dup := 0
	for i := range idx.entries {
		for j := 0; j < i; j++ {
			if idx.entries[i].RID.Page == idx.entries[j].RID.Page {
				dup++
			}
		}
	}
	return len(idx.entries) - dup
}

// Scan is a cursor over an index's entries sorted ascending by key.
type Scan struct {
	entries []entry
	pos     int
}

// OpenScan sorts a snapshot of the index's entries ascending by key
// (selection sort, matching the source algorithm) and returns a
// cursor positioned before the first entry.
func (idx *Index) OpenScan() *Scan {
	sorted := make([]entry, len(idx.entries))
	copy(sorted, idx.entries)
	selectionSortByKey(sorted)
	return &Scan{entries: sorted}
}

// NextEntry returns the RID of the current entry and advances the
// cursor, or ErrNoMoreEntries once exhausted.
func (s *Scan) NextEntry() (types.RID, error) {
	if s.pos >= len(s.entries) {
		return types.RID{}, ErrNoMoreEntries
	}
	rid := s.entries[s.pos].RID
	s.pos++
	return rid, nil
}

// Close releases the scan's cursor state.
func (s *Scan) Close() error { return nil }

func selectionSortByKey(e []entry) {
	for i := 0; i < len(e)-1; i++ {
		min := i
		for j := i + 1; j < len(e); j++ {
			if cmp, err := types.Compare(e[j].Key, e[min].Key); err == nil && cmp < 0 {
				min = j
			}
		}
		e[i], e[min] = e[min], e[i]
	}
}
