// Package record implements the schema and fixed-width record layout
// described by the storage engine's table format: page 0 of a table
// file holds an ASCII-serialized schema, and pages 1..N hold
// fixed-width, delimiter-tagged records addressed by slot.
package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tuannm99/gorelix/internal/types"
)

// Attribute is one column of a Schema: a name and a typed, fixed
// width. String attributes carry their declared length in Len;
// Int/Float/Bool ignore it.
type Attribute struct {
	Name string
	Kind types.Kind
	Len  int // only meaningful for KindString
}

// Width returns the number of ASCII bytes this attribute's payload
// occupies, not counting its leading delimiter byte.
func (a Attribute) Width() int {
	switch a.Kind {
	case types.KindInt:
		return 4
	case types.KindFloat:
		return 15
	case types.KindBool:
		return 1
	case types.KindString:
		return a.Len
	default:
		return 0
	}
}

func (a Attribute) typeToken() string {
	switch a.Kind {
	case types.KindInt:
		return "INT"
	case types.KindFloat:
		return "FLOAT"
	case types.KindBool:
		return "BOOL"
	case types.KindString:
		return fmt.Sprintf("STRING[%d]", a.Len)
	default:
		return "UNKNOWN"
	}
}

// Schema is an ordered list of attributes plus the subset that forms
// the table's key.
type Schema struct {
	Attrs []Attribute
	Keys  []string // attribute names that form the key, possibly empty
}

// NumAttrs returns the number of attributes in the schema.
func (s Schema) NumAttrs() int { return len(s.Attrs) }

// Width computes W(schema) = 1 + sum(attr widths) + (numAttr - 1): one
// leading sentinel/delimiter byte per attribute, plus the payload
// bytes, with no trailing delimiter.
func (s Schema) Width() int {
	n := s.NumAttrs()
	if n == 0 {
		return 1
	}
	w := 1 + (n - 1)
	for _, a := range s.Attrs {
		w += a.Width()
	}
	return w
}

// attrOffset returns the byte offset of attribute i's payload (after
// its leading delimiter byte) within a packed record.
func (s Schema) attrOffset(i int) int {
	off := 1 + i
	for j := 0; j < i; j++ {
		off += s.Attrs[j].Width()
	}
	return off
}

// IndexOf returns the attribute index for name, or -1 if not found.
func (s Schema) IndexOf(name string) int {
	for i, a := range s.Attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Serialize renders the schema using the engine's canonical ASCII
// grammar:
//
//	Schema with <N> attributes (attr1: TYPE1, attr2: TYPE2, …) with keys: (key1, key2, …)
func (s Schema) Serialize() string {
	parts := make([]string, len(s.Attrs))
	for i, a := range s.Attrs {
		parts[i] = fmt.Sprintf("%s: %s", a.Name, a.typeToken())
	}
	return fmt.Sprintf("Schema with <%d> attributes (%s) with keys: (%s)",
		len(s.Attrs), strings.Join(parts, ", "), strings.Join(s.Keys, ", "))
}

// ParseSchema parses the grammar Serialize produces. Delimiters are
// matched strictly: "<"..">"  around N, "("..")" around the attribute
// list, ":" between name and type, ", " between attributes, and a
// second "("..")" around the (possibly empty) key list.
func ParseSchema(src string) (Schema, error) {
	const prefix = "Schema with <"
	if !strings.HasPrefix(src, prefix) {
		return Schema{}, ErrBadSchemaString
	}
	rest := src[len(prefix):]

	gt := strings.Index(rest, ">")
	if gt < 0 {
		return Schema{}, ErrBadSchemaString
	}
	n, err := strconv.Atoi(rest[:gt])
	if err != nil {
		return Schema{}, ErrBadSchemaString
	}
	rest = rest[gt+1:]

	const midMarker = " attributes ("
	if !strings.HasPrefix(rest, midMarker) {
		return Schema{}, ErrBadSchemaString
	}
	rest = rest[len(midMarker):]

	closeParen := strings.Index(rest, ")")
	if closeParen < 0 {
		return Schema{}, ErrBadSchemaString
	}
	attrList := rest[:closeParen]
	rest = rest[closeParen+1:]

	var attrs []Attribute
	if strings.TrimSpace(attrList) != "" {
		for _, tok := range strings.Split(attrList, ", ") {
			colon := strings.Index(tok, ":")
			if colon < 0 {
				return Schema{}, ErrBadSchemaString
			}
			name := strings.TrimSpace(tok[:colon])
			typeTok := strings.TrimSpace(tok[colon+1:])
			attr, err := parseAttrType(name, typeTok)
			if err != nil {
				return Schema{}, err
			}
			attrs = append(attrs, attr)
		}
	}
	if len(attrs) != n {
		return Schema{}, ErrBadSchemaString
	}

	const keysMarker = " with keys: ("
	if !strings.HasPrefix(rest, keysMarker) {
		return Schema{}, ErrBadSchemaString
	}
	rest = rest[len(keysMarker):]
	keyClose := strings.Index(rest, ")")
	if keyClose < 0 {
		return Schema{}, ErrBadSchemaString
	}
	keyList := rest[:keyClose]

	var keys []string
	if strings.TrimSpace(keyList) != "" {
		for _, k := range strings.Split(keyList, ", ") {
			keys = append(keys, strings.TrimSpace(k))
		}
	}

	return Schema{Attrs: attrs, Keys: keys}, nil
}

func parseAttrType(name, typeTok string) (Attribute, error) {
	switch {
	case typeTok == "INT":
		return Attribute{Name: name, Kind: types.KindInt}, nil
	case typeTok == "FLOAT":
		return Attribute{Name: name, Kind: types.KindFloat}, nil
	case typeTok == "BOOL":
		return Attribute{Name: name, Kind: types.KindBool}, nil
	case strings.HasPrefix(typeTok, "STRING[") && strings.HasSuffix(typeTok, "]"):
		lenStr := typeTok[len("STRING[") : len(typeTok)-1]
		n, err := strconv.Atoi(lenStr)
		if err != nil || n <= 0 {
			return Attribute{}, ErrUnknownAttrType
		}
		return Attribute{Name: name, Kind: types.KindString, Len: n}, nil
	default:
		return Attribute{}, ErrUnknownAttrType
	}
}
