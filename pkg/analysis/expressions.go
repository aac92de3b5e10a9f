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

package analysis

import (
	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/errors"
	"github.com/openabl/openabl/pkg/token"
	"github.com/openabl/openabl/pkg/types"
)

// visitExpr is the exhaustive type switch over every expression kind; it
// fills in e.Typ (via SetType) and returns the resolved type for the
// caller's convenience. On a semantic error it records a diagnostic and
// returns types.VoidT so traversal can keep going.
func (a *Analyzer) visitExpr(expr ast.Expression) types.Type {
	var t types.Type
	switch e := expr.(type) {
	case *ast.IntLiteral:
		t = types.Int32T
	case *ast.FloatLiteral:
		t = types.Float32T
	case *ast.BoolLiteral:
		t = types.BoolT
	case *ast.StringLiteral:
		t = types.StringT
	case *ast.VarExpression:
		t = a.visitVarExpression(e)
	case *ast.UnaryOpExpression:
		t = a.visitUnaryOp(e)
	case *ast.BinaryOpExpression:
		t = a.visitBinaryOp(e)
	case *ast.AssignExpression:
		t = a.visitAssignable(e.Left, e.Right)
	case *ast.AssignOpExpression:
		t = a.visitAssignOp(e.Left, e.Op, e.Right)
	case *ast.CallExpression:
		t = a.visitCall(e)
	case *ast.MemberAccessExpression:
		t = a.visitMemberAccess(e)
	case *ast.ArrayAccessExpression:
		t = a.visitArrayAccess(e)
	case *ast.TernaryExpression:
		t = a.visitTernary(e)
	case *ast.AgentCreationExpression:
		t = a.visitAgentCreation(e)
	case *ast.ArrayInitExpression:
		t = a.visitArrayInit(e)
	case *ast.NewArrayExpression:
		t = a.visitNewArray(e)
	default:
		a.errs.Add(errors.TypeMismatch, expr.Pos(), "unrecognized expression node")
		t = types.VoidT
	}
	expr.SetType(t)
	return t
}

func (a *Analyzer) visitVarExpression(e *ast.VarExpression) types.Type {
	id, ok := a.stack.Lookup(e.Var.Name)
	if !ok {
		a.errs.Add(errors.UndeclaredVariable, e.Pos(), "undeclared variable %q", e.Var.Name)
		return types.VoidT
	}
	e.Var.Id = id
	return a.scope.Get(id).Type
}

func (a *Analyzer) visitUnaryOp(e *ast.UnaryOpExpression) types.Type {
	t := a.visitExpr(e.Expr)
	switch e.Op {
	case ast.UnaryNot:
		if t.Id() != types.Bool {
			a.errs.Add(errors.TypeMismatch, e.Pos(), "! requires bool, got %s", t)
			return types.VoidT
		}
		return types.BoolT
	default: // UnaryPlus, UnaryMinus
		if !t.IsNumeric() && !t.IsVec() {
			a.errs.Add(errors.TypeMismatch, e.Pos(), "unary %s requires a numeric or vector operand, got %s", e.Op.Sigil(), t)
			return types.VoidT
		}
		return t
	}
}

func (a *Analyzer) visitBinaryOp(e *ast.BinaryOpExpression) types.Type {
	l := a.visitExpr(e.Left)
	r := a.visitExpr(e.Right)

	switch {
	case e.Op.IsArithmetic():
		return a.checkArithmetic(e.Op, l, r, e.Pos())
	case e.Op == ast.LogAnd || e.Op == ast.LogOr:
		if l.Id() != types.Bool || r.Id() != types.Bool {
			a.errs.Add(errors.TypeMismatch, e.Pos(), "%s requires bool operands, got %s and %s", e.Op.Sigil(), l, r)
			return types.VoidT
		}
		return types.BoolT
	default: // comparisons
		if l.IsVec() || r.IsVec() {
			a.errs.Add(errors.TypeMismatch, e.Pos(), "vectors cannot be compared with %s", e.Op.Sigil())
			return types.VoidT
		}
		if !l.Equal(r) {
			a.errs.Add(errors.TypeMismatch, e.Pos(), "cannot compare %s with %s", l, r)
			return types.VoidT
		}
		return types.BoolT
	}
}

// checkArithmetic implements the exact operand table from the type system:
// matching scalars or vectors of the same width, plus the vec*scalar,
// scalar*vec and vec/scalar exceptions.
func (a *Analyzer) checkArithmetic(op ast.BinaryOp, l, r types.Type, pos token.Position) types.Type {
	if l.Equal(r) && (l.IsNumeric() || l.IsVec()) {
		return l
	}
	if op == ast.Mul {
		if l.IsVec() && r.Id() == types.Float32 {
			return l
		}
		if l.Id() == types.Float32 && r.IsVec() {
			return r
		}
	}
	if op == ast.Div && l.IsVec() && r.Id() == types.Float32 {
		return l
	}
	a.errs.Add(errors.TypeMismatch, pos, "%s is not defined for %s and %s", op.Sigil(), l, r)
	return types.VoidT
}

// visitAssignable type-checks "lhs = rhs" wherever it appears (expression or
// statement position) and returns the resulting type.
func (a *Analyzer) visitAssignable(left, right ast.Expression) types.Type {
	lt := a.checkAssignTarget(left)
	rt := a.visitExpr(right)
	if lt.Id() != types.Void && !lt.Equal(rt) {
		a.errs.Add(errors.TypeMismatch, left.Pos(), "cannot assign %s to %s", rt, lt)
	}
	return lt
}

// visitAssignOp type-checks "lhs op= rhs" wherever it appears, reusing the
// same arithmetic rules as a plain binary expression.
func (a *Analyzer) visitAssignOp(left ast.Expression, op ast.BinaryOp, right ast.Expression) types.Type {
	lt := a.checkAssignTarget(left)
	rt := a.visitExpr(right)
	if lt.Id() == types.Void {
		return lt
	}
	return a.checkArithmetic(op, lt, rt, left.Pos())
}

// checkAssignTarget visits left as an lvalue: it must be a variable, member
// access or array index, and not a const.
func (a *Analyzer) checkAssignTarget(left ast.Expression) types.Type {
	switch e := left.(type) {
	case *ast.VarExpression:
		t := a.visitExpr(e)
		if e.Var.Id != ast.UnresolvedVarId && t.Id() != types.Void {
			if entry := a.scope.Get(e.Var.Id); entry.IsConst {
				a.errs.Add(errors.AssignToConst, left.Pos(), "cannot assign to const %q", entry.Name)
			}
		}
		return t
	case *ast.MemberAccessExpression, *ast.ArrayAccessExpression:
		return a.visitExpr(left)
	default:
		a.errs.Add(errors.TypeMismatch, left.Pos(), "left side of assignment is not an assignable location")
		return types.VoidT
	}
}

// vecConstructorDims maps a vector constructor's bare name to its component
// count; a call either takes exactly that many scalars (one per component)
// or exactly one (filling every component with the same value).
var vecConstructorDims = map[string]int{"vec2": 2, "vec3": 3}

func (a *Analyzer) visitCall(e *ast.CallExpression) types.Type {
	argTypes := make([]types.Type, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = a.visitExpr(arg.Expr)
	}

	if dims, ok := vecConstructorDims[e.Name]; ok {
		return a.visitVecConstructor(e, dims, argTypes)
	}

	if fn, ok := a.script.Funcs[e.Name]; ok {
		return a.resolveUserCall(e, fn, argTypes)
	}

	match, known, ok := a.bi.Resolve(e.Name, argTypes)
	if ok {
		e.CalledSig = &ast.FunctionSignature{
			Name:          e.Name,
			BuiltinSymbol: match.Sig.Symbol,
			ParamTypes:    match.ParamTypes,
			ReturnType:    match.ReturnType,
			IsBuiltin:     true,
		}
		return match.ReturnType
	}
	if known && a.bi.Ambiguous(e.Name, argTypes) {
		a.errs.Add(errors.AmbiguousOverload, e.Pos(), "call to %q is ambiguous for the given argument types", e.Name)
	} else {
		a.errs.Add(errors.NoMatchingOverload, e.Pos(), "no overload of %q matches the given argument types", e.Name)
	}
	return types.VoidT
}

// visitVecConstructor handles "vec2(...)"/"vec3(...)": either one scalar
// (filling every component) or exactly dims scalars, one per component.
// The resulting CallExpression is left with a nil CalledSig — backends
// distinguish a vector constructor from a real call by that absence.
func (a *Analyzer) visitVecConstructor(e *ast.CallExpression, dims int, argTypes []types.Type) types.Type {
	result := types.Vec2T
	if dims == 3 {
		result = types.Vec3T
	}

	if len(argTypes) != 1 && len(argTypes) != dims {
		a.errs.Add(errors.NoMatchingOverload, e.Pos(), "%s() takes 1 or %d arguments, got %d", e.Name, dims, len(argTypes))
		return result
	}
	for _, t := range argTypes {
		if t.Id() != types.Float32 && t.Id() != types.Int32 {
			a.errs.Add(errors.NoMatchingOverload, e.Pos(), "%s() arguments must be numeric", e.Name)
			return result
		}
	}
	return result
}

func (a *Analyzer) resolveUserCall(e *ast.CallExpression, fn *ast.FunctionDeclaration, argTypes []types.Type) types.Type {
	if len(fn.Params) != len(argTypes) {
		a.errs.Add(errors.NoMatchingOverload, e.Pos(), "%q takes %d argument(s), got %d", e.Name, len(fn.Params), len(argTypes))
		return types.VoidT
	}
	paramTypes := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		pt, _ := a.resolveType(p.ParamType)
		paramTypes[i] = pt
		if !pt.Equal(argTypes[i]) {
			a.errs.Add(errors.NoMatchingOverload, e.Pos(), "argument %d to %q: expected %s, got %s", i+1, e.Name, pt, argTypes[i])
		}
	}
	var ret types.Type = types.VoidT
	if fn.ReturnType != nil {
		ret, _ = a.resolveType(fn.ReturnType)
	}
	e.CalledSig = &ast.FunctionSignature{Name: e.Name, ParamTypes: paramTypes, ReturnType: ret, IsBuiltin: false, Func: fn}
	return ret
}

func (a *Analyzer) visitMemberAccess(e *ast.MemberAccessExpression) types.Type {
	base := a.visitExpr(e.Expr)

	if base.IsVec() {
		switch e.Member {
		case "x", "y":
			return types.Float32T
		case "z":
			if base.Id() == types.Vec3 {
				return types.Float32T
			}
		}
		a.errs.Add(errors.UnknownMember, e.Pos(), "%s has no member %q", base, e.Member)
		return types.VoidT
	}

	if base.IsAgent() {
		decl, _ := base.AgentDecl().(*ast.AgentDeclaration)
		member := decl.Member(e.Member)
		if member == nil {
			a.errs.Add(errors.UnknownMember, e.Pos(), "agent %q has no member %q", decl.Name, e.Member)
			return types.VoidT
		}
		a.recordAccess(e.Expr, e.Member)
		return member.MemberType.Resolved()
	}

	a.errs.Add(errors.TypeMismatch, e.Pos(), "member access on non-agent, non-vector type %s", base)
	return types.VoidT
}

// recordAccess appends member to the enclosing step function's accessed-
// member set when base refers to the collected variable (the step
// parameter), per the analyzer's collect-access-var context.
func (a *Analyzer) recordAccess(base ast.Expression, member string) {
	if a.currentFunc == nil || a.collectAccessVar == -1 {
		return
	}
	ve, ok := base.(*ast.VarExpression)
	if !ok || ve.Var.Id != a.collectAccessVar {
		return
	}
	if a.currentFunc.AccessedMembers == nil {
		a.currentFunc.AccessedMembers = map[string]bool{}
	}
	a.currentFunc.AccessedMembers[member] = true
}

func (a *Analyzer) visitArrayAccess(e *ast.ArrayAccessExpression) types.Type {
	base := a.visitExpr(e.Expr)
	idx := a.visitExpr(e.Index)
	if !base.IsArray() {
		a.errs.Add(errors.TypeMismatch, e.Pos(), "cannot index non-array type %s", base)
		return types.VoidT
	}
	if idx.Id() != types.Int32 {
		a.errs.Add(errors.TypeMismatch, e.Pos(), "array index must be int, got %s", idx)
	}
	return base.Elem()
}

func (a *Analyzer) visitTernary(e *ast.TernaryExpression) types.Type {
	cond := a.visitExpr(e.Cond)
	if cond.Id() != types.Bool {
		a.errs.Add(errors.TypeMismatch, e.Pos(), "ternary condition must be bool, got %s", cond)
	}
	ifT := a.visitExpr(e.If)
	elseT := a.visitExpr(e.Else)
	if !ifT.Equal(elseT) {
		a.errs.Add(errors.TypeMismatch, e.Pos(), "ternary branches have different types: %s vs %s", ifT, elseT)
		return types.VoidT
	}
	return ifT
}

func (a *Analyzer) visitAgentCreation(e *ast.AgentCreationExpression) types.Type {
	decl, ok := a.script.Agents[e.AgentTypeName]
	if !ok {
		a.errs.Add(errors.TypeMismatch, e.Pos(), "undeclared agent type %q", e.AgentTypeName)
		return types.VoidT
	}
	for _, init := range e.Inits {
		member := decl.Member(init.Member)
		if member == nil {
			a.errs.Add(errors.UnknownMember, init.Pos(), "agent %q has no member %q", decl.Name, init.Member)
			continue
		}
		vt := a.visitExpr(init.Value)
		if !vt.Equal(member.MemberType.Resolved()) {
			a.errs.Add(errors.TypeMismatch, init.Pos(), "member %q expects %s, got %s", init.Member, member.MemberType.Resolved(), vt)
		}
	}
	return types.AgentOf(decl)
}

func (a *Analyzer) visitArrayInit(e *ast.ArrayInitExpression) types.Type {
	if len(e.Elems) == 0 {
		a.errs.Add(errors.TypeMismatch, e.Pos(), "cannot infer the element type of an empty array literal")
		return types.VoidT
	}
	elemType := a.visitExpr(e.Elems[0])
	for _, elem := range e.Elems[1:] {
		t := a.visitExpr(elem)
		if !t.Equal(elemType) {
			a.errs.Add(errors.TypeMismatch, elem.Pos(), "array literal element is %s, expected %s", t, elemType)
		}
	}
	return types.ArrayOf(elemType)
}

func (a *Analyzer) visitNewArray(e *ast.NewArrayExpression) types.Type {
	elemType, err := a.resolveType(e.ElemType)
	if err != nil {
		a.errs.Add(errors.TypeMismatch, e.Pos(), "%s", err)
	}
	sizeT := a.visitExpr(e.SizeExpr)
	if sizeT.Id() != types.Int32 {
		a.errs.Add(errors.TypeMismatch, e.Pos(), "array size must be int, got %s", sizeT)
	}
	return types.ArrayOf(elemType)
}
