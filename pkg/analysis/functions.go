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
)

// visitFunction declares params in a fresh frame, decides step-ness, and
// walks the body with currentFunc/collectAccessVar set as context for the
// duration — both are restored on exit, matching the design note that these
// shouldn't be left as permanent global state.
func (a *Analyzer) visitFunction(fn *ast.FunctionDeclaration) {
	savedFunc := a.currentFunc
	savedAccessVar := a.collectAccessVar
	defer func() {
		a.currentFunc = savedFunc
		a.collectAccessVar = savedAccessVar
	}()

	a.stack.Push()
	defer a.stack.Pop()

	for _, p := range fn.Params {
		pt, err := a.resolveType(p.ParamType)
		if err != nil {
			a.errs.Add(errors.TypeMismatch, p.Pos(), "%s", err)
			continue
		}
		id := a.scope.Declare(p.Name.Name, pt, false, false, nil)
		if err := a.stack.Declare(p.Name.Name, id); err != nil {
			a.errs.Add(errors.Redeclaration, p.Pos(), "%s", err)
			continue
		}
		p.Name.Id = id
	}
	if fn.ReturnType != nil {
		if _, err := a.resolveType(fn.ReturnType); err != nil {
			a.errs.Add(errors.TypeMismatch, fn.Pos(), "%s", err)
		}
	}

	a.currentFunc = fn
	a.collectAccessVar = -1

	stepParam := fn.StepParam()
	if fn.IsStep {
		if len(fn.Params) != 1 || stepParam == nil || stepParam.Name.Id == ast.UnresolvedVarId || !a.paramIsAgent(stepParam) {
			a.errs.Add(errors.TypeMismatch, fn.Pos(), "step function %q must take exactly one agent parameter", fn.Name)
		} else {
			fn.StepAgentType = stepParam.ParamType.Resolved()
			a.collectAccessVar = stepParam.Name.Id
		}
	} else if detected := detectNearUsage(fn); detected != nil && a.paramIsAgent(detected) {
		fn.IsStep = true
		fn.StepAgentType = detected.ParamType.Resolved()
		a.collectAccessVar = detected.Name.Id
	}
	if fn.AccessedMembers == nil {
		fn.AccessedMembers = map[string]bool{}
	}

	a.visitStatement(fn.Body)
}

func (a *Analyzer) paramIsAgent(p *ast.Param) bool {
	t := p.ParamType.Resolved()
	return t.IsAgent()
}

// detectNearUsage implements the spec's inferred-step rule: a "function"
// (not declared with the "step" keyword) still counts as a step function if
// its body calls near() on one of its own parameters.
func detectNearUsage(fn *ast.FunctionDeclaration) *ast.Param {
	var found *ast.Param
	var walk func(ast.Statement)
	walk = func(s ast.Statement) {
		if s == nil || found != nil {
			return
		}
		switch st := s.(type) {
		case *ast.BlockStatement:
			for _, inner := range st.Stmts {
				walk(inner)
			}
		case *ast.IfStatement:
			walk(st.Then)
			walk(st.Else)
		case *ast.WhileStatement:
			walk(st.Body)
		case *ast.ForStatement:
			if st.Kind == ast.ForNear {
				if ve, ok := st.Self.(*ast.VarExpression); ok {
					for _, p := range fn.Params {
						if p.Name.Name == ve.Var.Name {
							found = p
						}
					}
				}
			}
			walk(st.Body)
		}
	}
	walk(fn.Body)
	return found
}
