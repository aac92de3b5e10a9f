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

// Package analysis is the single pass that turns a parsed Script into an
// annotated one: every expression gets a resolved type, every var-use gets a
// VarId, every call gets a chosen signature, and functions record whether
// they are step functions plus which agent members they touch.
package analysis

import (
	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/builtins"
	"github.com/openabl/openabl/pkg/constfold"
	"github.com/openabl/openabl/pkg/errors"
	"github.com/openabl/openabl/pkg/scope"
	"github.com/openabl/openabl/pkg/types"
)

// Analyzer holds all mutable analysis context. currentFunc and
// collectAccessVar are the two "globalish" pieces of context the design
// notes call out; both are saved and restored around each function visit
// rather than left as permanent global state.
type Analyzer struct {
	scope *scope.Scope
	stack *scope.Stack
	bi    *builtins.Registry
	errs  *errors.Stream

	script *ast.Script

	currentFunc      *ast.FunctionDeclaration
	collectAccessVar scope.VarId
}

// New creates an Analyzer using the standard builtin registry.
func New() *Analyzer {
	return &Analyzer{
		bi:               builtins.StandardLibrary(),
		errs:             errors.NewStream(),
		collectAccessVar: -1,
	}
}

// Analyze runs the full pass over script, applying paramOverrides to any
// const declaration whose name appears in the map (scenario: CLI -D
// overrides / a params file). It returns the diagnostic stream; the caller
// should treat a non-empty stream as "analysis failed, do not generate".
func (a *Analyzer) Analyze(script *ast.Script, paramOverrides map[string]string) *errors.Stream {
	a.script = script
	a.scope = scope.New()
	a.stack = scope.NewStack()
	script.Scope = a.scope

	script.Agents = map[string]*ast.AgentDeclaration{}
	script.Funcs = map[string]*ast.FunctionDeclaration{}

	a.registerDeclarations(script)
	a.resolveAgentMembers(script)

	for _, decl := range script.Decls {
		if c, ok := decl.(*ast.ConstDeclaration); ok {
			a.visitConst(c, paramOverrides)
		}
	}
	if script.Env != nil {
		a.visitEnvironment(script.Env)
	}
	for _, decl := range script.Decls {
		if fn, ok := decl.(*ast.FunctionDeclaration); ok {
			a.visitFunction(fn)
		}
	}

	return a.errs
}

// registerDeclarations is the top-level pre-pass that lets later
// declarations refer to earlier or later agents/functions by name.
func (a *Analyzer) registerDeclarations(script *ast.Script) {
	for _, decl := range script.Decls {
		switch d := decl.(type) {
		case *ast.AgentDeclaration:
			if _, exists := script.Agents[d.Name]; exists {
				a.errs.Add(errors.Redeclaration, d.Pos(), "agent %q already declared", d.Name)
				continue
			}
			script.Agents[d.Name] = d
		case *ast.FunctionDeclaration:
			if _, exists := script.Funcs[d.Name]; exists {
				a.errs.Add(errors.Redeclaration, d.Pos(), "function %q already declared", d.Name)
				continue
			}
			script.Funcs[d.Name] = d
		case *ast.ConstDeclaration:
			script.Consts = append(script.Consts, d)
		case *ast.EnvironmentDeclaration:
			if script.Env != nil {
				a.errs.Add(errors.Redeclaration, d.Pos(), "environment already declared")
				continue
			}
			script.Env = d
		}
	}
}

func (a *Analyzer) resolveAgentMembers(script *ast.Script) {
	for _, decl := range script.Decls {
		agent, ok := decl.(*ast.AgentDeclaration)
		if !ok {
			continue
		}
		positions := 0
		for _, m := range agent.Members {
			if _, err := a.resolveType(m.MemberType); err != nil {
				a.errs.Add(errors.TypeMismatch, m.Pos(), "%s", err)
			}
			if m.IsPosition {
				positions++
			}
		}
		if positions == 0 {
			a.errs.Add(errors.TypeMismatch, agent.Pos(), "agent %q has no member tagged as its position", agent.Name)
		} else if positions > 1 {
			a.errs.Add(errors.TypeMismatch, agent.Pos(), "agent %q has more than one position member", agent.Name)
		}
	}
}

// resolveType fills in and returns the concrete Type a TypeNode spells.
func (a *Analyzer) resolveType(tn ast.TypeNode) (types.Type, error) {
	switch t := tn.(type) {
	case *ast.SimpleType:
		var rt types.Type
		switch t.Name {
		case "void":
			rt = types.VoidT
		case "bool":
			rt = types.BoolT
		case "int":
			rt = types.Int32T
		case "float":
			rt = types.Float32T
		case "string":
			rt = types.StringT
		case "vec2":
			rt = types.Vec2T
		case "vec3":
			rt = types.Vec3T
		default:
			agent, ok := a.script.Agents[t.Name]
			if !ok {
				return types.VoidT, &typeError{msg: "undeclared type " + t.Name}
			}
			rt = types.AgentOf(agent)
		}
		t.SetResolved(rt)
		return rt, nil
	case *ast.ArrayTypeNode:
		elem, err := a.resolveType(t.Elem)
		if err != nil {
			return types.VoidT, err
		}
		rt := types.ArrayOf(elem)
		t.SetResolved(rt)
		return rt, nil
	default:
		return types.VoidT, &typeError{msg: "unrecognized type node"}
	}
}

type typeError struct{ msg string }

func (e *typeError) Error() string { return e.msg }

func (a *Analyzer) visitConst(c *ast.ConstDeclaration, overrides map[string]string) {
	declaredType, err := a.resolveType(c.ConstType)
	if err != nil {
		a.errs.Add(errors.TypeMismatch, c.Pos(), "%s", err)
		return
	}

	valueType := a.visitExpr(c.Value)
	if !valueType.Equal(declaredType) {
		a.errs.Add(errors.TypeMismatch, c.Pos(), "const %q declared %s but initializer is %s", c.Name.Name, declaredType, valueType)
	}

	var folded constfold.Value
	if raw, ok := overrides[c.Name.Name]; ok {
		v, err := constfold.ParseLiteral(raw, declaredType)
		if err != nil {
			a.errs.Add(errors.InvalidParamLiteral, c.Pos(), "parameter override for %q: %s", c.Name.Name, err)
			return
		}
		folded = v
	} else {
		v, err := constfold.New(a.scope).Fold(c.Value)
		if err != nil {
			a.errs.Add(errors.NonConstInitializer, c.Pos(), "const %q: %s", c.Name.Name, err)
			return
		}
		folded = v
	}

	id := a.scope.Declare(c.Name.Name, declaredType, true, true, folded)
	if err := a.stack.Declare(c.Name.Name, id); err != nil {
		a.errs.Add(errors.Redeclaration, c.Pos(), "%s", err)
		return
	}
	c.Name.Id = id
}

func (a *Analyzer) visitEnvironment(env *ast.EnvironmentDeclaration) {
	minT := a.visitExpr(env.Min)
	maxT := a.visitExpr(env.Max)
	if !minT.IsVec() || !minT.Equal(maxT) {
		a.errs.Add(errors.TypeMismatch, env.Pos(), "environment bounds must be two vectors of the same width")
	}
}
