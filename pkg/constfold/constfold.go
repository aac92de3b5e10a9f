/**
 * Copyright 2024 Robert Cronin
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package constfold evaluates the restricted subset of expressions that must
// be known at compile time: const initializers, near-loop radii, and
// parameter-override literals. It is a small stack machine in spirit (like a
// bytecode interpreter that only ever sees push/arith instructions), but it
// walks the AST directly rather than a compiled instruction stream, since
// nothing here ever needs to run more than once.
package constfold

import (
	"fmt"

	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/scope"
	"github.com/openabl/openabl/pkg/types"
)

// Value is a folded compile-time constant. Exactly one of the fields is
// meaningful, selected by Type.Id().
type Value struct {
	Type  types.Type
	I     int64
	F     float64
	B     bool
	S     string
	Vec   [3]float64 // valid components selected by Type (2 for vec2, 3 for vec3)
}

// ErrNotConst marks an expression that cannot be folded.
type ErrNotConst struct{ Reason string }

func (e *ErrNotConst) Error() string { return fmt.Sprintf("not a compile-time constant: %s", e.Reason) }

// Folder evaluates expressions against a frozen scope, so reads of
// already-folded const declarations can be resolved.
type Folder struct {
	Scope *scope.Scope
}

func New(s *scope.Scope) *Folder { return &Folder{Scope: s} }

// Fold evaluates expr, returning ErrNotConst if any part of it is not
// foldable (a variable that isn't a folded const, a call, a non-constant
// array/agent literal, and so on).
func (f *Folder) Fold(expr ast.Expression) (Value, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return Value{Type: types.Int32T, I: e.Value}, nil
	case *ast.FloatLiteral:
		return Value{Type: types.Float32T, F: e.Value}, nil
	case *ast.BoolLiteral:
		return Value{Type: types.BoolT, B: e.Value}, nil
	case *ast.StringLiteral:
		return Value{Type: types.StringT, S: e.Value}, nil
	case *ast.VarExpression:
		return f.foldVar(e)
	case *ast.UnaryOpExpression:
		return f.foldUnary(e)
	case *ast.BinaryOpExpression:
		return f.foldBinary(e)
	case *ast.CallExpression:
		return f.foldVecConstructor(e)
	default:
		return Value{}, &ErrNotConst{Reason: fmt.Sprintf("%T is not foldable", expr)}
	}
}

func (f *Folder) foldVar(e *ast.VarExpression) (Value, error) {
	if e.Var.Id == ast.UnresolvedVarId {
		return Value{}, &ErrNotConst{Reason: "variable not yet resolved"}
	}
	entry := f.Scope.Get(e.Var.Id)
	if !entry.IsConst || entry.Value == nil {
		return Value{}, &ErrNotConst{Reason: fmt.Sprintf("%q is not a folded constant", entry.Name)}
	}
	v, ok := entry.Value.(Value)
	if !ok {
		return Value{}, &ErrNotConst{Reason: fmt.Sprintf("%q has no folded value recorded", entry.Name)}
	}
	return v, nil
}

func (f *Folder) foldUnary(e *ast.UnaryOpExpression) (Value, error) {
	v, err := f.Fold(e.Expr)
	if err != nil {
		return Value{}, err
	}
	switch e.Op {
	case ast.UnaryPlus:
		return v, nil
	case ast.UnaryMinus:
		switch v.Type.Id() {
		case types.Int32:
			v.I = -v.I
		case types.Float32:
			v.F = -v.F
		case types.Vec2, types.Vec3:
			v.Vec[0], v.Vec[1], v.Vec[2] = -v.Vec[0], -v.Vec[1], -v.Vec[2]
		default:
			return Value{}, &ErrNotConst{Reason: "unary - on non-numeric constant"}
		}
		return v, nil
	case ast.UnaryNot:
		if v.Type.Id() != types.Bool {
			return Value{}, &ErrNotConst{Reason: "! on non-bool constant"}
		}
		v.B = !v.B
		return v, nil
	}
	return Value{}, &ErrNotConst{Reason: "unknown unary operator"}
}

func (f *Folder) foldBinary(e *ast.BinaryOpExpression) (Value, error) {
	l, err := f.Fold(e.Left)
	if err != nil {
		return Value{}, err
	}
	r, err := f.Fold(e.Right)
	if err != nil {
		return Value{}, err
	}
	if !e.Op.IsArithmetic() {
		return Value{}, &ErrNotConst{Reason: "only +,-,*,/ can be folded"}
	}
	if l.Type.Id() == types.Int32 && r.Type.Id() == types.Int32 {
		return Value{Type: types.Int32T, I: intArith(e.Op, l.I, r.I)}, nil
	}
	if l.Type.Id() == types.Float32 && r.Type.Id() == types.Float32 {
		return Value{Type: types.Float32T, F: floatArith(e.Op, l.F, r.F)}, nil
	}
	return Value{}, &ErrNotConst{Reason: "mismatched or unsupported operand types in constant expression"}
}

func intArith(op ast.BinaryOp, a, b int64) int64 {
	switch op {
	case ast.Add:
		return a + b
	case ast.Sub:
		return a - b
	case ast.Mul:
		return a * b
	case ast.Div:
		return a / b
	}
	return 0
}

func floatArith(op ast.BinaryOp, a, b float64) float64 {
	switch op {
	case ast.Add:
		return a + b
	case ast.Sub:
		return a - b
	case ast.Mul:
		return a * b
	case ast.Div:
		return a / b
	}
	return 0
}

// foldVecConstructor handles "vec2(x, y)" / "vec3(x, y, z)" calls, the only
// calls that can ever appear in a constant expression.
func (f *Folder) foldVecConstructor(e *ast.CallExpression) (Value, error) {
	var want int
	var t types.Type
	switch e.Name {
	case "vec2":
		want, t = 2, types.Vec2T
	case "vec3":
		want, t = 3, types.Vec3T
	default:
		return Value{}, &ErrNotConst{Reason: fmt.Sprintf("call to %q is not a constant vector constructor", e.Name)}
	}
	if len(e.Args) != want {
		return Value{}, &ErrNotConst{Reason: fmt.Sprintf("%s constructor takes %d arguments", e.Name, want)}
	}
	var out Value
	out.Type = t
	for i, arg := range e.Args {
		v, err := f.Fold(arg.Expr)
		if err != nil {
			return Value{}, err
		}
		switch v.Type.Id() {
		case types.Float32:
			out.Vec[i] = v.F
		case types.Int32:
			out.Vec[i] = float64(v.I)
		default:
			return Value{}, &ErrNotConst{Reason: "vector component is not numeric"}
		}
	}
	return out, nil
}

// ParseLiteral parses a raw string (as supplied by a parameter-override map
// or CLI -D flag) into a Value of the requested type. It supports the
// scalar types only; array/agent/vec overrides are not representable as a
// single literal string.
func ParseLiteral(s string, t types.Type) (Value, error) {
	switch t.Id() {
	case types.Int32:
		var i int64
		if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
			return Value{}, fmt.Errorf("invalid int literal %q", s)
		}
		return Value{Type: t, I: i}, nil
	case types.Float32:
		var fv float64
		if _, err := fmt.Sscanf(s, "%g", &fv); err != nil {
			return Value{}, fmt.Errorf("invalid float literal %q", s)
		}
		return Value{Type: t, F: fv}, nil
	case types.Bool:
		switch s {
		case "true":
			return Value{Type: t, B: true}, nil
		case "false":
			return Value{Type: t, B: false}, nil
		default:
			return Value{}, fmt.Errorf("invalid bool literal %q", s)
		}
	case types.String:
		return Value{Type: t, S: s}, nil
	default:
		return Value{}, fmt.Errorf("type %s has no literal override form", t)
	}
}
