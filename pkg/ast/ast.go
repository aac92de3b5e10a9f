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

// Package ast defines the tagged tree produced by the parser: declarations,
// statements and expressions, each carrying a source location and mutable
// slots that the analysis pass fills in (resolved types, variable ids,
// chosen overloads).
package ast

import (
	"github.com/openabl/openabl/pkg/scope"
	"github.com/openabl/openabl/pkg/token"
	"github.com/openabl/openabl/pkg/types"
)

// Node is satisfied by every tree element.
type Node interface {
	Pos() token.Position
}

// BaseNode carries the originating token shared by every concrete node.
type BaseNode struct {
	Token token.Token
}

func (b BaseNode) Pos() token.Position { return b.Token.Pos }

// Expression is satisfied by every expression node. Type is unresolved
// (types.VoidT) until analysis fills it in.
type Expression interface {
	Node
	exprNode()
	Type() types.Type
	SetType(types.Type)
}

// ExprBase is embedded by every expression struct.
type ExprBase struct {
	BaseNode
	Typ types.Type
}

func (e *ExprBase) exprNode()            {}
func (e *ExprBase) Type() types.Type     { return e.Typ }
func (e *ExprBase) SetType(t types.Type) { e.Typ = t }

// Statement is satisfied by every statement node.
type Statement interface {
	Node
	stmtNode()
}

// StmtBase is embedded by every statement struct.
type StmtBase struct {
	BaseNode
}

func (s StmtBase) stmtNode() {}

// Declaration is satisfied by every top-level declaration.
type Declaration interface {
	Node
	declNode()
}

// DeclBase is embedded by every declaration struct.
type DeclBase struct {
	BaseNode
}

func (d DeclBase) declNode() {}

// UnresolvedVarId marks a Var not yet bound by analysis.
const UnresolvedVarId scope.VarId = -1

// Var names a declared variable. Id is filled in by analysis; Name is
// what the parser saw.
type Var struct {
	Name string
	Id   scope.VarId
}

func NewVar(name string) *Var { return &Var{Name: name, Id: UnresolvedVarId} }

// TypeNode is the parsed (unresolved) spelling of a type; analysis fills in
// Resolved.
type TypeNode interface {
	Node
	Resolved() types.Type
	SetResolved(types.Type)
}

// SimpleType names a primitive, vec2/vec3 or agent type by identifier.
type SimpleType struct {
	BaseNode
	Name     string
	resolved types.Type
}

func (t *SimpleType) Resolved() types.Type     { return t.resolved }
func (t *SimpleType) SetResolved(rt types.Type) { t.resolved = rt }

// ArrayTypeNode names an array-of-T type, written "T[]".
type ArrayTypeNode struct {
	BaseNode
	Elem     TypeNode
	resolved types.Type
}

func (t *ArrayTypeNode) Resolved() types.Type     { return t.resolved }
func (t *ArrayTypeNode) SetResolved(rt types.Type) { t.resolved = rt }

// Script is the root of the tree; it exclusively owns every declaration.
type Script struct {
	Decls []Declaration

	// Filled in by analysis. Agents and Funcs index declarations by name
	// for fast forward-reference resolution during the registration pass.
	Agents map[string]*AgentDeclaration
	Funcs  map[string]*FunctionDeclaration
	Consts []*ConstDeclaration
	Env    *EnvironmentDeclaration

	// Scope is populated by analysis: the flat table of every declared
	// variable, indexed by scope.VarId. Frozen once analysis completes.
	Scope *scope.Scope
}

func (s *Script) Pos() token.Position {
	if len(s.Decls) > 0 {
		return s.Decls[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}
