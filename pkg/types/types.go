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

// Package types models the OpenABL value type system: primitives, vectors,
// arrays and agent record types. Types carry no source location; equality is
// structural.
package types

// Id tags the kind of a Type.
type Id int

const (
	Void Id = iota
	Bool
	Int32
	Float32
	String
	Vec2
	Vec3
	Array
	Agent
)

// AgentDecl is the minimal view of an agent declaration a Type needs to
// reference. The ast package's *AgentDeclaration satisfies this.
type AgentDecl interface {
	AgentName() string
}

// Type is a tagged, structurally-comparable value type.
type Type struct {
	id    Id
	elem  *Type    // element type, valid iff id == Array
	agent AgentDecl // valid iff id == Agent
}

func Prim(id Id) Type { return Type{id: id} }

var (
	VoidT    = Type{id: Void}
	BoolT    = Type{id: Bool}
	Int32T   = Type{id: Int32}
	Float32T = Type{id: Float32}
	StringT  = Type{id: String}
	Vec2T    = Type{id: Vec2}
	Vec3T    = Type{id: Vec3}
)

func ArrayOf(elem Type) Type {
	e := elem
	return Type{id: Array, elem: &e}
}

func AgentOf(decl AgentDecl) Type {
	return Type{id: Agent, agent: decl}
}

func (t Type) Id() Id         { return t.id }
func (t Type) IsVec() bool    { return t.id == Vec2 || t.id == Vec3 }
func (t Type) IsArray() bool  { return t.id == Array }
func (t Type) IsAgent() bool  { return t.id == Agent }
func (t Type) IsNumeric() bool {
	return t.id == Int32 || t.id == Float32
}

// Elem returns the array element type. Valid only when IsArray().
func (t Type) Elem() Type { return *t.elem }

// AgentDecl returns the agent declaration behind an agent type. Valid only
// when IsAgent().
func (t Type) AgentDecl() AgentDecl { return t.agent }

// Equal reports structural equality.
func (t Type) Equal(o Type) bool {
	if t.id != o.id {
		return false
	}
	switch t.id {
	case Array:
		return t.elem.Equal(*o.elem)
	case Agent:
		return t.agent == o.agent
	default:
		return true
	}
}

// String is the printable spelling used verbatim by the generic C-like
// printer.
func (t Type) String() string {
	switch t.id {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int32:
		return "int"
	case Float32:
		return "float"
	case String:
		return "char*"
	case Vec2:
		return "float2"
	case Vec3:
		return "float3"
	case Array:
		return t.elem.String() + "[]"
	case Agent:
		return t.agent.AgentName()
	default:
		return "?"
	}
}
