// Package scan implements the predicate-driven sequential scan over a
// table's data pages: an expression evaluator plus a cursor that
// walks pages and slots, skipping deleted or uninitialized ones.
package scan

import (
	"github.com/tuannm99/gorelix/internal/record"
	"github.com/tuannm99/gorelix/internal/types"
)

// ExprKind is the tag of an Expr node.
type ExprKind uint8

const (
	ExprConst ExprKind = iota
	ExprAttrRef
	ExprBinOp
	ExprUnOp
)

// BinOpKind is the operator of a BinOp node.
type BinOpKind uint8

const (
	OpEq BinOpKind = iota
	OpLt
	OpAnd
	OpOr
)

// UnOpKind is the operator of a UnOp node. NOT is the only one.
type UnOpKind uint8

const (
	OpNot UnOpKind = iota
)

// Expr is the exhaustive tagged union Const(Value) | AttrRef(i) |
// BinOp(op, left, right) | UnOp(op, inner). Exactly the fields
// relevant to Kind are meaningful.
type Expr struct {
	Kind ExprKind

	ConstVal types.Value

	AttrIndex int

	BinOp       BinOpKind
	Left, Right *Expr

	UnOp  UnOpKind
	Inner *Expr
}

func Const(v types.Value) *Expr { return &Expr{Kind: ExprConst, ConstVal: v} }
func AttrRef(i int) *Expr       { return &Expr{Kind: ExprAttrRef, AttrIndex: i} }
func Eq(l, r *Expr) *Expr       { return &Expr{Kind: ExprBinOp, BinOp: OpEq, Left: l, Right: r} }
func Lt(l, r *Expr) *Expr       { return &Expr{Kind: ExprBinOp, BinOp: OpLt, Left: l, Right: r} }
func And(l, r *Expr) *Expr      { return &Expr{Kind: ExprBinOp, BinOp: OpAnd, Left: l, Right: r} }
func Or(l, r *Expr) *Expr       { return &Expr{Kind: ExprBinOp, BinOp: OpOr, Left: l, Right: r} }
func Not(inner *Expr) *Expr     { return &Expr{Kind: ExprUnOp, UnOp: OpNot, Inner: inner} }

// Eval evaluates e against rec under schema, returning a typed Value.
// Comparisons (=, <) return Bool; AND/OR/NOT require Bool operands.
func Eval(e *Expr, rec []byte, schema record.Schema) (types.Value, error) {
	switch e.Kind {
	case ExprConst:
		return e.ConstVal, nil

	case ExprAttrRef:
		return record.GetAttr(rec, schema, e.AttrIndex)

	case ExprBinOp:
		switch e.BinOp {
		case OpEq, OpLt:
			l, err := Eval(e.Left, rec, schema)
			if err != nil {
				return types.Value{}, err
			}
			r, err := Eval(e.Right, rec, schema)
			if err != nil {
				return types.Value{}, err
			}
			cmp, err := types.Compare(l, r)
			if err != nil {
				return types.Value{}, err
			}
			if e.BinOp == OpEq {
				return types.BoolValue(cmp == 0), nil
			}
			return types.BoolValue(cmp < 0), nil

		case OpAnd, OpOr:
			l, err := Eval(e.Left, rec, schema)
			if err != nil {
				return types.Value{}, err
			}
			if l.Kind != types.KindBool {
				return types.Value{}, ErrNotBoolExpr
			}
			r, err := Eval(e.Right, rec, schema)
			if err != nil {
				return types.Value{}, err
			}
			if r.Kind != types.KindBool {
				return types.Value{}, ErrNotBoolExpr
			}
			if e.BinOp == OpAnd {
				return types.BoolValue(l.B && r.B), nil
			}
			return types.BoolValue(l.B || r.B), nil

		default:
			return types.Value{}, ErrUnknownExprKind
		}

	case ExprUnOp:
		v, err := Eval(e.Inner, rec, schema)
		if err != nil {
			return types.Value{}, err
		}
		if v.Kind != types.KindBool {
			return types.Value{}, ErrNotBoolExpr
		}
		return types.BoolValue(!v.B), nil

	default:
		return types.Value{}, ErrUnknownExprKind
	}
}
