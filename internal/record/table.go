package record

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tuannm99/gorelix/internal/bufferpool"
	"github.com/tuannm99/gorelix/internal/storage"
	"github.com/tuannm99/gorelix/internal/types"
)

// tablePoolFrames is the buffer pool size every table opens with: a
// small fixed K is enough since the table manager only ever pins one
// data page at a time plus, briefly, page 0.
const tablePoolFrames = 3

// Table is an open page file whose page 0 holds a serialized Schema
// and whose remaining pages hold that schema's fixed-width records.
type Table struct {
	pool   *bufferpool.Pool
	schema Schema
	name   string
}

// CreateTable creates a fresh page file for name and writes schema's
// serialized form to page 0. It does not open the table.
func CreateTable(name string, schema Schema) error {
	if name == "" {
		return ErrNullParam
	}
	if len(name) >= maxNameLen {
		return ErrNameTooLong
	}
	if err := storage.CreatePageFile(name); err != nil {
		return err
	}
	f, err := storage.OpenPageFile(name)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, storage.PageSize)
	copy(buf, []byte(schema.Serialize()))
	return f.WriteBlock(0, buf)
}

// OpenTable opens name's page file, binds a K=3 FIFO buffer pool to
// it, and deserializes the schema off page 0.
func OpenTable(name string) (*Table, error) {
	pool, err := bufferpool.NewPool(name, tablePoolFrames, bufferpool.FIFO)
	if err != nil {
		return nil, err
	}

	h, err := pool.Pin(0)
	if err != nil {
		return nil, err
	}
	raw := strings.TrimRight(string(h.Data), "\x00")
	schema, err := ParseSchema(raw)
	if err != nil {
		_ = pool.Unpin(h)
		return nil, fmt.Errorf("%w: %v", ErrSchemaDeserialization, err)
	}
	if err := pool.Unpin(h); err != nil {
		return nil, err
	}

	slog.Debug("record: open table", "file", name, "attrs", schema.NumAttrs())
	return &Table{pool: pool, schema: schema, name: name}, nil
}

// Close shuts down the table's buffer pool, flushing dirty pages.
func (t *Table) Close() error { return t.pool.Shutdown() }

// DeleteTable removes a table's page file from disk. The table must
// not be open.
func DeleteTable(name string) error { return storage.DestroyPageFile(name) }

// Schema returns the table's schema.
func (t *Table) Schema() Schema { return t.schema }

// Name returns the table's underlying file name.
func (t *Table) Name() string { return t.name }

// Pool exposes the table's buffer pool for the scanner, which needs
// to pin data pages directly rather than go through Get/Update.
func (t *Table) Pool() *bufferpool.Pool { return t.pool }

// Insert packs values and places them in the first data page with
// room, or appends a fresh one if none has space. A page has room for
// a new record once used+W <= PageSize, where used is the length of
// the leading run of non-deleted slots starting at offset 0.
func (t *Table) Insert(values []types.Value) (types.RID, error) {
	rec, err := PackRecord(t.schema, values)
	if err != nil {
		return types.RID{}, err
	}
	w := t.schema.Width()

	total := t.pool.TotalPages()
	for page := 1; page < total; page++ {
		h, err := t.pool.Pin(page)
		if err != nil {
			return types.RID{}, err
		}

		used := 0
		for used+w <= storage.PageSize && h.Data[used] != deletedSentinel {
			used += w
		}
		if storage.PageSize-used < w {
			if err := t.pool.Unpin(h); err != nil {
				return types.RID{}, err
			}
			continue
		}

		slot := used / w
		copy(h.Data[used:used+w], rec)
		if err := t.pool.MarkDirty(h); err != nil {
			_ = t.pool.Unpin(h)
			return types.RID{}, err
		}
		if err := t.pool.Unpin(h); err != nil {
			return types.RID{}, err
		}
		return types.RID{Page: uint32(page), Slot: uint32(slot)}, nil
	}

	// No existing data page has room: append one. Pinning a page index
	// at the current file length grows the file first.
	h, err := t.pool.Pin(total)
	if err != nil {
		return types.RID{}, err
	}
	copy(h.Data[0:w], rec)
	if err := t.pool.MarkDirty(h); err != nil {
		_ = t.pool.Unpin(h)
		return types.RID{}, err
	}
	if err := t.pool.Unpin(h); err != nil {
		return types.RID{}, err
	}
	return types.RID{Page: uint32(total), Slot: 0}, nil
}

// Get parses and returns the attribute values stored at rid.
func (t *Table) Get(rid types.RID) ([]types.Value, error) {
	raw, err := t.GetRaw(rid)
	if err != nil {
		return nil, err
	}
	values := make([]types.Value, t.schema.NumAttrs())
	for i := range values {
		v, err := GetAttr(raw, t.schema, i)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// GetRaw returns a copy of the raw record bytes stored at rid,
// regardless of whether the slot is live.
func (t *Table) GetRaw(rid types.RID) ([]byte, error) {
	w := t.schema.Width()
	off, err := t.slotOffset(rid, w)
	if err != nil {
		return nil, err
	}

	h, err := t.pool.Pin(int(rid.Page))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, w)
	copy(buf, h.Data[off:off+w])
	if err := t.pool.Unpin(h); err != nil {
		return nil, err
	}
	return buf, nil
}

// Update overwrites the record at rid with values, assumed to already
// match the schema. No uniqueness checks or index maintenance.
func (t *Table) Update(rid types.RID, values []types.Value) error {
	rec, err := PackRecord(t.schema, values)
	if err != nil {
		return err
	}
	off, err := t.slotOffset(rid, t.schema.Width())
	if err != nil {
		return err
	}

	h, err := t.pool.Pin(int(rid.Page))
	if err != nil {
		return err
	}
	copy(h.Data[off:off+len(rec)], rec)
	if err := t.pool.MarkDirty(h); err != nil {
		_ = t.pool.Unpin(h)
		return err
	}
	return t.pool.Unpin(h)
}

// Delete marks the slot at rid deleted by zeroing its leading byte.
// The rest of the record's bytes are left in place on disk.
func (t *Table) Delete(rid types.RID) error {
	w := t.schema.Width()
	off, err := t.slotOffset(rid, w)
	if err != nil {
		return err
	}

	h, err := t.pool.Pin(int(rid.Page))
	if err != nil {
		return err
	}
	MarkDeleted(h.Data[off : off+w])
	if err := t.pool.MarkDirty(h); err != nil {
		_ = t.pool.Unpin(h)
		return err
	}
	return t.pool.Unpin(h)
}

// GetNumTuples counts live slot-start sentinels across every data
// page.
func (t *Table) GetNumTuples() (int, error) {
	w := t.schema.Width()
	slotsPerPage := storage.PageSize / w
	total := t.pool.TotalPages()

	count := 0
	for page := 1; page < total; page++ {
		h, err := t.pool.Pin(page)
		if err != nil {
			return 0, err
		}
		for s := 0; s < slotsPerPage; s++ {
			if h.Data[s*w] == liveSentinel {
				count++
			}
		}
		if err := t.pool.Unpin(h); err != nil {
			return 0, err
		}
	}
	return count, nil
}

func (t *Table) slotOffset(rid types.RID, w int) (int, error) {
	total := t.pool.TotalPages()
	if rid.Page < 1 || int(rid.Page) >= total {
		return 0, ErrRecordNotFound
	}
	off := int(rid.Slot) * w
	if off+w > storage.PageSize {
		return 0, ErrRecordNotFound
	}
	return off, nil
}
