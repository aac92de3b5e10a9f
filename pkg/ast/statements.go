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

// ExpressionStatement wraps a bare expression used for its side effect.
type ExpressionStatement struct {
	StmtBase
	Expr Expression
}

// AssignStatement is "lhs = rhs;".
type AssignStatement struct {
	StmtBase
	Left  Expression
	Right Expression
}

// AssignOpStatement is "lhs op= rhs;".
type AssignOpStatement struct {
	StmtBase
	Op    BinaryOp
	Left  Expression
	Right Expression
}

// BlockStatement is an ordered, braced list of statements; entering one
// pushes a new scope frame.
type BlockStatement struct {
	StmtBase
	Stmts []Statement
}

// VarDeclarationStatement declares a local: "type name [= initializer];".
type VarDeclarationStatement struct {
	StmtBase
	VarType     TypeNode
	Name        *Var
	Initializer Expression
}

// IfStatement is "if (cond) then [else elseStmt]".
type IfStatement struct {
	StmtBase
	Cond Expression
	Then Statement
	Else Statement
}

// WhileStatement is "while (cond) body".
type WhileStatement struct {
	StmtBase
	Cond Expression
	Body Statement
}

// ForKind distinguishes the three surface forms of for-loop.
type ForKind int

const (
	ForRange ForKind = iota
	ForCollection
	ForNear
)

// ForStatement covers all three for-loop forms (see ForKind):
//   - range:      for (v in start..end) body
//   - collection: for (v in expr) body
//   - near:       for (v in near(self, radius)) body
type ForStatement struct {
	StmtBase
	Kind ForKind
	// VarType is the explicit element type written at the loop head (e.g.
	// "Boid" in "for (Boid o in near(self, r))"). Analysis checks it
	// against the inferred type rather than trusting it blindly.
	VarType TypeNode
	Var     *Var

	// ForRange
	Start Expression
	End   Expression

	// ForCollection
	Collection Expression

	// ForNear
	Self   Expression
	Radius Expression

	Body Statement
}

// SimulateStatement marks a simulation driver step; backends that don't
// model execution may treat it as unsupported.
type SimulateStatement struct {
	StmtBase
	Steps Expression
}

// ReturnStatement is "return [value];".
type ReturnStatement struct {
	StmtBase
	Value Expression
}
