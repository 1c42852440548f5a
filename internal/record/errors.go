package record

import "errors"

var (
	// ErrBadSchemaString is returned by ParseSchema when the input
	// doesn't match the strict "Schema with <N> attributes (...) with
	// keys: (...)" grammar.
	ErrBadSchemaString = errors.New("record: malformed schema string")

	// ErrSchemaDeserialization is returned by OpenTable when page 0
	// doesn't parse as a schema.
	ErrSchemaDeserialization = errors.New("record: schema deserialization failed")

	// ErrUnknownAttrType is returned when a type token isn't INT,
	// FLOAT, BOOL, or STRING[n].
	ErrUnknownAttrType = errors.New("record: unknown attribute type")

	// ErrAttrIndexOutOfRange is returned by GetAttr/SetAttr for an
	// attribute index outside the schema.
	ErrAttrIndexOutOfRange = errors.New("record: attribute index out of range")

	// ErrRecordTooShort is returned when a record buffer is smaller
	// than the schema's computed width.
	ErrRecordTooShort = errors.New("record: buffer shorter than record width")

	// ErrRecordNotFound is returned by Get/Update/Delete when rid
	// addresses a page outside the table's data pages.
	ErrRecordNotFound = errors.New("record: rid out of range")

	// ErrNullParam is returned when a required argument is missing
	// (e.g. an empty table name).
	ErrNullParam = errors.New("record: required argument missing")

	// ErrNameTooLong is returned by CreateTable when name is 255 bytes
	// or longer.
	ErrNameTooLong = errors.New("record: table name too long")
)

// maxNameLen is the table-name length limit spec.md's failure
// semantics name: NameTooLong if the name is >= 255 bytes.
const maxNameLen = 255
