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

// Param is one formal parameter of a function.
type Param struct {
	BaseNode
	Name     *Var
	ParamType TypeNode
}

// FunctionDeclaration declares a user function. The fields below Body are
// filled in by analysis.
type FunctionDeclaration struct {
	DeclBase
	Name       string
	Params     []*Param
	ReturnType TypeNode // nil means void
	Body       *BlockStatement

	// Analysis-filled side information.
	IsStep          bool
	StepAgentType   types.Type
	InMsgName       string
	OutMsgName      string
	AccessedMembers map[string]bool
	// Radiuses holds the folded literal radius of every near() loop found
	// in this function's body, in source order.
	Radiuses []float64
}

func (f *FunctionDeclaration) StepParam() *Param {
	if len(f.Params) == 0 {
		return nil
	}
	return f.Params[0]
}

// AgentMember is one field of an agent record.
type AgentMember struct {
	BaseNode
	Name       string
	MemberType TypeNode
	IsPosition bool
}

// AgentDeclaration declares an agent record type. One member must be tagged
// IsPosition.
type AgentDeclaration struct {
	DeclBase
	Name    string
	Members []*AgentMember
}

// AgentName satisfies types.AgentDecl so *AgentDeclaration can be stored
// directly inside a types.Type without the types package importing ast.
func (a *AgentDeclaration) AgentName() string { return a.Name }

func (a *AgentDeclaration) PositionMember() *AgentMember {
	for _, m := range a.Members {
		if m.IsPosition {
			return m
		}
	}
	return nil
}

func (a *AgentDeclaration) Member(name string) *AgentMember {
	for _, m := range a.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// ConstDeclaration declares a named, typed, compile-time constant.
type ConstDeclaration struct {
	DeclBase
	Name     *Var
	ConstType TypeNode
	Value    Expression
}

// EnvironmentDeclaration declares the simulation's spatial bounds.
type EnvironmentDeclaration struct {
	DeclBase
	Min Expression
	Max Expression
}
