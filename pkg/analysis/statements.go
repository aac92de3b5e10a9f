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
	"strings"

	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/constfold"
	"github.com/openabl/openabl/pkg/errors"
	"github.com/openabl/openabl/pkg/types"
)

func (a *Analyzer) visitStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		a.visitExpr(s.Expr)
	case *ast.AssignStatement:
		a.visitAssignStatement(s)
	case *ast.AssignOpStatement:
		a.visitAssignOp(s.Left, s.Op, s.Right)
		a.checkSelfWrite(s.Left)
	case *ast.BlockStatement:
		a.stack.Push()
		for _, inner := range s.Stmts {
			a.visitStatement(inner)
		}
		a.stack.Pop()
	case *ast.VarDeclarationStatement:
		a.visitVarDeclaration(s)
	case *ast.IfStatement:
		cond := a.visitExpr(s.Cond)
		if cond.Id() != types.Bool {
			a.errs.Add(errors.TypeMismatch, s.Cond.Pos(), "if condition must be bool, got %s", cond)
		}
		a.visitStatement(s.Then)
		if s.Else != nil {
			a.visitStatement(s.Else)
		}
	case *ast.WhileStatement:
		cond := a.visitExpr(s.Cond)
		if cond.Id() != types.Bool {
			a.errs.Add(errors.TypeMismatch, s.Cond.Pos(), "while condition must be bool, got %s", cond)
		}
		a.visitStatement(s.Body)
	case *ast.ForStatement:
		a.visitForStatement(s)
	case *ast.SimulateStatement:
		steps := a.visitExpr(s.Steps)
		if steps.Id() != types.Int32 {
			a.errs.Add(errors.TypeMismatch, s.Steps.Pos(), "simulate step count must be int, got %s", steps)
		}
	case *ast.ReturnStatement:
		a.visitReturnStatement(s)
	default:
		a.errs.Add(errors.TypeMismatch, stmt.Pos(), "unrecognized statement node")
	}
}

func (a *Analyzer) visitAssignStatement(s *ast.AssignStatement) {
	a.visitAssignable(s.Left, s.Right)
	a.checkSelfWrite(s.Left)
}

// checkSelfWrite enforces the design-note rule that an agent-member write
// inside a step function must provably target the step's own agent
// parameter rather than some other agent value.
func (a *Analyzer) checkSelfWrite(left ast.Expression) {
	if a.currentFunc == nil || !a.currentFunc.IsStep {
		return
	}
	member, ok := left.(*ast.MemberAccessExpression)
	if !ok || !member.Expr.Type().IsAgent() {
		return
	}
	ve, ok := member.Expr.(*ast.VarExpression)
	if !ok || ve.Var.Id != a.collectAccessVar {
		a.errs.Add(errors.TypeMismatch, left.Pos(), "write to an agent member inside a step must target the step's own agent parameter")
	}
}

func (a *Analyzer) visitVarDeclaration(s *ast.VarDeclarationStatement) {
	declaredType, err := a.resolveType(s.VarType)
	if err != nil {
		a.errs.Add(errors.TypeMismatch, s.Pos(), "%s", err)
		return
	}
	if s.Initializer != nil {
		initT := a.visitExpr(s.Initializer)
		if !initT.Equal(declaredType) {
			a.errs.Add(errors.TypeMismatch, s.Pos(), "variable %q declared %s but initializer is %s", s.Name.Name, declaredType, initT)
		}
	}
	id := a.scope.Declare(s.Name.Name, declaredType, false, false, nil)
	if err := a.stack.Declare(s.Name.Name, id); err != nil {
		a.errs.Add(errors.Redeclaration, s.Pos(), "%s", err)
		return
	}
	s.Name.Id = id
}

func (a *Analyzer) visitReturnStatement(s *ast.ReturnStatement) {
	var want types.Type = types.VoidT
	if a.currentFunc != nil && a.currentFunc.ReturnType != nil {
		want, _ = a.resolveType(a.currentFunc.ReturnType)
	}
	if s.Value == nil {
		if want.Id() != types.Void {
			a.errs.Add(errors.TypeMismatch, s.Pos(), "missing return value, function returns %s", want)
		}
		return
	}
	got := a.visitExpr(s.Value)
	if !got.Equal(want) {
		a.errs.Add(errors.TypeMismatch, s.Pos(), "return value is %s, function returns %s", got, want)
	}
}

func (a *Analyzer) visitForStatement(s *ast.ForStatement) {
	switch s.Kind {
	case ast.ForRange:
		a.visitForRange(s)
	case ast.ForNear:
		a.visitForNear(s)
	case ast.ForCollection:
		a.visitForCollection(s)
	default:
		a.errs.Add(errors.IllegalForForm, s.Pos(), "unrecognized for-loop form")
	}
}

func (a *Analyzer) visitForRange(s *ast.ForStatement) {
	startT := a.visitExpr(s.Start)
	endT := a.visitExpr(s.End)
	if startT.Id() != types.Int32 || endT.Id() != types.Int32 {
		a.errs.Add(errors.IllegalForForm, s.Pos(), "range for-loop bounds must be int")
	}
	a.declareLoopVar(s, types.Int32T)
	a.stack.Push()
	a.declareAndVisitBody(s, types.Int32T)
	a.stack.Pop()
}

func (a *Analyzer) visitForNear(s *ast.ForStatement) {
	if a.currentFunc == nil || !a.currentFunc.IsStep {
		a.errs.Add(errors.IllegalForForm, s.Pos(), "a near() loop may only appear inside a step function")
		return
	}
	selfT := a.visitExpr(s.Self)
	ve, ok := s.Self.(*ast.VarExpression)
	if !ok || ve.Var.Id != a.collectAccessVar {
		a.errs.Add(errors.IllegalForForm, s.Self.Pos(), "near()'s first argument must be the step function's own agent parameter")
	}
	if !selfT.IsAgent() {
		a.errs.Add(errors.IllegalForForm, s.Self.Pos(), "near()'s first argument must be an agent, got %s", selfT)
	}

	radiusT := a.visitExpr(s.Radius)
	if radiusT.Id() != types.Float32 {
		a.errs.Add(errors.IllegalForForm, s.Radius.Pos(), "near() radius must be float, got %s", radiusT)
	} else {
		folded, err := constfold.New(a.scope).Fold(s.Radius)
		if err != nil {
			a.errs.Add(errors.NonConstInitializer, s.Radius.Pos(), "near() radius must be a constant expression: %s", err)
		} else {
			a.currentFunc.Radiuses = append(a.currentFunc.Radiuses, folded.F)
			// A near() loop only ever iterates instances of the step's own
			// agent type (self-interaction), so that type's message is both
			// what this function consumes and what it must itself output
			// for every other instance's near() loop to see.
			if agent := a.currentFunc.StepAgentType.AgentDecl(); agent != nil {
				msgName := strings.ToLower(agent.AgentName()) + "_message"
				a.currentFunc.InMsgName = msgName
				a.currentFunc.OutMsgName = msgName
			}
		}
	}

	a.declareLoopVar(s, a.currentFunc.StepAgentType)
	a.stack.Push()
	a.declareAndVisitBody(s, a.currentFunc.StepAgentType)
	a.stack.Pop()
}

func (a *Analyzer) visitForCollection(s *ast.ForStatement) {
	collT := a.visitExpr(s.Collection)
	if !collT.IsArray() {
		a.errs.Add(errors.IllegalForForm, s.Collection.Pos(), "for-in requires an array, got %s", collT)
		a.stack.Push()
		a.declareAndVisitBody(s, types.VoidT)
		a.stack.Pop()
		return
	}
	a.declareLoopVar(s, collT.Elem())
	a.stack.Push()
	a.declareAndVisitBody(s, collT.Elem())
	a.stack.Pop()
}

// declareLoopVar checks an explicit loop-head type annotation (if any)
// against the inferred elemType; it does not declare anything.
func (a *Analyzer) declareLoopVar(s *ast.ForStatement, elemType types.Type) {
	if s.VarType == nil {
		return
	}
	t, err := a.resolveType(s.VarType)
	if err != nil {
		a.errs.Add(errors.TypeMismatch, s.Pos(), "%s", err)
		return
	}
	if !t.Equal(elemType) {
		a.errs.Add(errors.TypeMismatch, s.Pos(), "loop variable %q declared %s but iterates %s", s.Var.Name, t, elemType)
	}
}

func (a *Analyzer) declareAndVisitBody(s *ast.ForStatement, elemType types.Type) {
	id := a.scope.Declare(s.Var.Name, elemType, false, false, nil)
	if err := a.stack.Declare(s.Var.Name, id); err != nil {
		a.errs.Add(errors.Redeclaration, s.Pos(), "%s", err)
		return
	}
	s.Var.Id = id
	a.visitStatement(s.Body)
}
