package scan

import (
	"github.com/tuannm99/gorelix/internal/record"
	"github.com/tuannm99/gorelix/internal/storage"
	"github.com/tuannm99/gorelix/internal/types"
)

// Scan is a sequential cursor over a table's data pages, filtering
// rows through an optional condition. Pages 1..totalPages-1 are
// visited; each page holds PageSize/W slots.
type Scan struct {
	table *record.Table
	cond  *Expr

	w            int
	slotsPerPage int
	totalPages   int

	page, slot int
	done       bool
}

// StartScan fixes a scan over table, keeping only rows for which cond
// evaluates true. cond may be nil to emit every live row.
func StartScan(table *record.Table, cond *Expr) *Scan {
	w := table.Schema().Width()
	return &Scan{
		table:        table,
		cond:         cond,
		w:            w,
		slotsPerPage: storage.PageSize / w,
		totalPages:   table.Pool().TotalPages(),
		page:         1,
		slot:         0,
	}
}

// Next returns the next matching row's RID and values, or
// ErrNoMoreTuples once the cursor passes the last page.
func (s *Scan) Next() (types.RID, []types.Value, error) {
	if s.done {
		return types.RID{}, nil, ErrNoMoreTuples
	}
	schema := s.table.Schema()

	for s.page < s.totalPages {
		h, err := s.table.Pool().Pin(s.page)
		if err != nil {
			return types.RID{}, nil, err
		}
		off := s.slot * s.w
		raw := make([]byte, s.w)
		copy(raw, h.Data[off:off+s.w])
		if err := s.table.Pool().Unpin(h); err != nil {
			return types.RID{}, nil, err
		}

		rid := types.RID{Page: uint32(s.page), Slot: uint32(s.slot)}
		s.advance()

		if !record.IsLive(raw) {
			continue
		}

		if s.cond != nil {
			v, err := Eval(s.cond, raw, schema)
			if err != nil {
				return types.RID{}, nil, err
			}
			if v.Kind != types.KindBool {
				return types.RID{}, nil, ErrNotBoolExpr
			}
			if !v.B {
				continue
			}
		}

		values := make([]types.Value, schema.NumAttrs())
		for i := range values {
			av, err := record.GetAttr(raw, schema, i)
			if err != nil {
				return types.RID{}, nil, err
			}
			values[i] = av
		}
		return rid, values, nil
	}

	s.done = true
	return types.RID{}, nil, ErrNoMoreTuples
}

// advance moves the cursor to the next slot, rolling over to slot 0
// of the following page after the last slot of a page.
func (s *Scan) advance() {
	s.slot++
	if s.slot >= s.slotsPerPage {
		s.slot = 0
		s.page++
	}
}

// Close releases the scan's cursor state. The scan holds no pins
// between calls to Next, so this is a no-op kept for symmetry with
// the table/index lifecycle methods.
func (s *Scan) Close() error { return nil }
