package scan

import "errors"

var (
	// ErrNoMoreTuples is returned by (*Scan).Next once the cursor has
	// passed the table's last data page.
	ErrNoMoreTuples = errors.New("scan: no more tuples")

	// ErrNotBoolExpr is returned when AND/OR/NOT or a scan's top-level
	// condition evaluates to a non-Bool Value.
	ErrNotBoolExpr = errors.New("scan: expression did not evaluate to a bool")

	// ErrUnknownExprKind is returned when an Expr's Kind tag is
	// malformed.
	ErrUnknownExprKind = errors.New("scan: unknown expression kind")
)
