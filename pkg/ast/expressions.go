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

package ast

import "github.com/openabl/openabl/pkg/types"

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
)

func (op UnaryOp) Sigil() string {
	switch op {
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	case UnaryNot:
		return "!"
	default:
		return "?"
	}
}

// BinaryOp enumerates the binary (and compound-assignment) operators.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Equal
	NotEqual
	Less
	Greater
	LessEqual
	GreaterEqual
	LogAnd
	LogOr
)

func (op BinaryOp) Sigil() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case Less:
		return "<"
	case Greater:
		return ">"
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case LogAnd:
		return "&&"
	case LogOr:
		return "||"
	default:
		return "?"
	}
}

// IsArithmetic reports whether op is +,-,*,/ — the operators with vector
// overloads.
func (op BinaryOp) IsArithmetic() bool {
	return op == Add || op == Sub || op == Mul || op == Div
}

// IntLiteral is a literal integer constant.
type IntLiteral struct {
	ExprBase
	Value int64
}

// FloatLiteral is a literal floating-point constant.
type FloatLiteral struct {
	ExprBase
	Value float64
}

// BoolLiteral is a literal boolean constant.
type BoolLiteral struct {
	ExprBase
	Value bool
}

// StringLiteral is a literal string constant.
type StringLiteral struct {
	ExprBase
	Value string
}

// VarExpression reads a declared variable. Var.Id is filled in by analysis.
type VarExpression struct {
	ExprBase
	Var *Var
}

// UnaryOpExpression applies a prefix operator to a sub-expression.
type UnaryOpExpression struct {
	ExprBase
	Op   UnaryOp
	Expr Expression
}

// BinaryOpExpression applies an infix operator to two sub-expressions.
type BinaryOpExpression struct {
	ExprBase
	Op    BinaryOp
	Left  Expression
	Right Expression
}

// AssignExpression is the expression-position form of "lhs = rhs".
type AssignExpression struct {
	ExprBase
	Left  Expression
	Right Expression
}

// AssignOpExpression is the expression-position form of "lhs op= rhs".
type AssignOpExpression struct {
	ExprBase
	Op    BinaryOp
	Left  Expression
	Right Expression
}

// Arg is one actual argument to a call: a value expression plus an optional
// "out" expression. The parser leaves OutExpr nil, neither analysis nor the
// backends set it, and PrintArgs prints only Expr.
type Arg struct {
	Expr    Expression
	OutExpr Expression
}

// FunctionSignature is the call site's resolved callee: a concrete,
// fully-instantiated signature (generic builtin params like "any agent"
// have already been bound to the actual argument types).
type FunctionSignature struct {
	Name          string
	BuiltinSymbol string
	ParamTypes    []types.Type
	ReturnType    types.Type
	IsBuiltin     bool
	Func          *FunctionDeclaration
}

// CallExpression calls a user function or a builtin. CalledSig is filled in
// by analysis and never changes afterwards (overload resolution is
// deterministic).
type CallExpression struct {
	ExprBase
	Name      string
	Args      []*Arg
	CalledSig *FunctionSignature
}

func (c *CallExpression) IsBuiltin() bool { return c.CalledSig != nil && c.CalledSig.IsBuiltin }

// MemberAccessExpression reads a.member (agent field or vec component).
type MemberAccessExpression struct {
	ExprBase
	Expr   Expression
	Member string
}

// ArrayAccessExpression reads a[index].
type ArrayAccessExpression struct {
	ExprBase
	Expr  Expression
	Index Expression
}

// TernaryExpression is cond ? ifExpr : elseExpr.
type TernaryExpression struct {
	ExprBase
	Cond Expression
	If   Expression
	Else Expression
}

// MemberInitEntry is one "member = expr" entry in an agent creation literal.
type MemberInitEntry struct {
	BaseNode
	Member string
	Value  Expression
}

// AgentCreationExpression constructs an agent value: "Boid { p = ..., v = ... }".
type AgentCreationExpression struct {
	ExprBase
	AgentTypeName string
	Inits         []*MemberInitEntry
}

// ArrayInitExpression is an array literal: "[e0, e1, ...]".
type ArrayInitExpression struct {
	ExprBase
	Elems []Expression
}

// NewArrayExpression allocates a fixed-size array: "new T[n]".
type NewArrayExpression struct {
	ExprBase
	ElemType TypeNode
	SizeExpr Expression
}
