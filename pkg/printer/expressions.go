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

package printer

import (
	"strconv"
	"strings"

	"github.com/openabl/openabl/pkg/ast"
)

func (g *GenericPrinter) PrintExpression(e ast.Expression) {
	switch expr := e.(type) {
	case *ast.IntLiteral:
		g.Write(strconv.FormatInt(expr.Value, 10))
	case *ast.FloatLiteral:
		s := strconv.FormatFloat(expr.Value, 'g', -1, 64)
		g.Write(s)
		if !strings.ContainsAny(s, ".eE") {
			g.Write(".0")
		}
		g.Write("f")
	case *ast.BoolLiteral:
		if expr.Value {
			g.Write("true")
		} else {
			g.Write("false")
		}
	case *ast.StringLiteral:
		g.Writef("%q", expr.Value)
	case *ast.VarExpression:
		g.Write(expr.Var.Name)
	case *ast.UnaryOpExpression:
		g.Write(expr.Op.Sigil())
		g.self().PrintExpression(expr.Expr)
	case *ast.BinaryOpExpression:
		g.self().PrintExpression(expr.Left)
		g.Writef(" %s ", expr.Op.Sigil())
		g.self().PrintExpression(expr.Right)
	case *ast.AssignExpression:
		g.self().PrintExpression(expr.Left)
		g.Write(" = ")
		g.self().PrintExpression(expr.Right)
	case *ast.AssignOpExpression:
		g.self().PrintExpression(expr.Left)
		g.Writef(" %s= ", expr.Op.Sigil())
		g.self().PrintExpression(expr.Right)
	case *ast.CallExpression:
		g.printCall(expr)
	case *ast.MemberAccessExpression:
		g.self().PrintExpression(expr.Expr)
		g.Writef(".%s", expr.Member)
	case *ast.ArrayAccessExpression:
		g.self().PrintExpression(expr.Expr)
		g.Write("[")
		g.self().PrintExpression(expr.Index)
		g.Write("]")
	case *ast.TernaryExpression:
		g.self().PrintExpression(expr.Cond)
		g.Write(" ? ")
		g.self().PrintExpression(expr.If)
		g.Write(" : ")
		g.self().PrintExpression(expr.Else)
	case *ast.AgentCreationExpression:
		g.printAgentCreation(expr)
	case *ast.ArrayInitExpression:
		g.Write("{")
		for i, el := range expr.Elems {
			if i > 0 {
				g.Write(", ")
			}
			g.self().PrintExpression(el)
		}
		g.Write("}")
	case *ast.NewArrayExpression:
		g.Writef("new_array(sizeof(%s), ", expr.ElemType.Resolved().String())
		g.self().PrintExpression(expr.SizeExpr)
		g.Write(")")
	}
}

// printCall renders a call by the resolved symbol when the callee is a
// builtin (CalledSig.BuiltinSymbol), falling back to the written name for
// user functions — a backend overrides this to lower individual builtins
// (near, add, save) to its own runtime calls.
func (g *GenericPrinter) printCall(e *ast.CallExpression) {
	name := e.Name
	if e.IsBuiltin() && e.CalledSig.BuiltinSymbol != "" {
		name = e.CalledSig.BuiltinSymbol
	}
	g.Writef("%s(", name)
	g.self().PrintArgs(e.Args)
	g.Write(")")
}

func (g *GenericPrinter) printAgentCreation(e *ast.AgentCreationExpression) {
	g.Writef("(%s){", e.AgentTypeName)
	for i, init := range e.Inits {
		if i > 0 {
			g.Write(", ")
		}
		g.Writef(".%s = ", init.Member)
		g.self().PrintExpression(init.Value)
	}
	g.Write("}")
}
