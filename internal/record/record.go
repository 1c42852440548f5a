package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tuannm99/gorelix/internal/types"
)

// liveSentinel is both the leading delimiter before attribute 0 and
// the byte that marks a slot live; a slot whose first byte is
// deletedSentinel (0x00, also what a never-written page reads as) is
// treated as not live.
const (
	liveSentinel    = '|'
	attrSep         = ','
	deletedSentinel = 0x00
)

// IsLive reports whether a slot's first byte marks it as occupied.
// Zero-filled (never-written) slots read as not live for free, since
// deletedSentinel is the zero byte.
func IsLive(rec []byte) bool {
	return len(rec) > 0 && rec[0] != deletedSentinel
}

// MarkDeleted overwrites a record's leading byte with the deletion
// sentinel. The remaining bytes are left untouched.
func MarkDeleted(rec []byte) {
	rec[0] = deletedSentinel
}

// PackRecord encodes values against schema into a new buffer of
// exactly schema.Width() bytes, in the engine's fixed-width delimited
// ASCII layout.
func PackRecord(schema Schema, values []types.Value) ([]byte, error) {
	if len(values) != schema.NumAttrs() {
		return nil, ErrBadSchemaString
	}
	buf := make([]byte, schema.Width())
	for i, v := range values {
		if err := SetAttr(buf, schema, i, v); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// GetAttr parses attribute i out of a packed record.
func GetAttr(rec []byte, schema Schema, i int) (types.Value, error) {
	if i < 0 || i >= schema.NumAttrs() {
		return types.Value{}, ErrAttrIndexOutOfRange
	}
	a := schema.Attrs[i]
	off := schema.attrOffset(i)
	w := a.Width()
	if off+w > len(rec) {
		return types.Value{}, ErrRecordTooShort
	}
	payload := rec[off : off+w]

	switch a.Kind {
	case types.KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(string(payload)))
		if err != nil {
			return types.Value{}, ErrUnknownAttrType
		}
		return types.IntValue(int32(n)), nil
	case types.KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(payload)), 64)
		if err != nil {
			return types.Value{}, ErrUnknownAttrType
		}
		return types.FloatValue(f), nil
	case types.KindBool:
		return types.BoolValue(payload[0] == '1'), nil
	case types.KindString:
		return types.StringValue(strings.TrimRight(string(payload), " ")), nil
	default:
		return types.Value{}, types.ErrUnknownDataType
	}
}

// SetAttr writes attribute i's delimiter and formatted payload into
// rec in place. rec must already be schema.Width() bytes.
func SetAttr(rec []byte, schema Schema, i int, v types.Value) error {
	if i < 0 || i >= schema.NumAttrs() {
		return ErrAttrIndexOutOfRange
	}
	a := schema.Attrs[i]
	off := schema.attrOffset(i)
	w := a.Width()
	if off+w > len(rec) {
		return ErrRecordTooShort
	}

	if i == 0 {
		rec[off-1] = liveSentinel
	} else {
		rec[off-1] = attrSep
	}

	switch a.Kind {
	case types.KindInt:
		s := fmt.Sprintf("%04d", v.I)
		copy(rec[off:off+w], []byte(s))
	case types.KindFloat:
		s := fmt.Sprintf("%15.6f", v.F)
		if len(s) != w {
			// value too large for the fixed field; truncate/pad rather
			// than corrupt neighboring attributes.
			if len(s) > w {
				s = s[:w]
			} else {
				s = strings.Repeat(" ", w-len(s)) + s
			}
		}
		copy(rec[off:off+w], []byte(s))
	case types.KindBool:
		if v.B {
			rec[off] = '1'
		} else {
			rec[off] = '0'
		}
	case types.KindString:
		s := v.S
		if len(s) > w {
			s = s[:w]
		} else {
			s = s + strings.Repeat(" ", w-len(s))
		}
		copy(rec[off:off+w], []byte(s))
	default:
		return types.ErrUnknownDataType
	}
	return nil
}
