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

import "github.com/openabl/openabl/pkg/ast"

func (g *GenericPrinter) PrintStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.BlockStatement:
		g.printBlock(st)
	case *ast.ExpressionStatement:
		g.self().PrintExpression(st.Expr)
		g.Write(";")
	case *ast.AssignStatement:
		g.self().PrintExpression(st.Left)
		g.Write(" = ")
		g.self().PrintExpression(st.Right)
		g.Write(";")
	case *ast.AssignOpStatement:
		g.self().PrintExpression(st.Left)
		g.Writef(" %s= ", st.Op.Sigil())
		g.self().PrintExpression(st.Right)
		g.Write(";")
	case *ast.VarDeclarationStatement:
		g.printVarDeclaration(st)
	case *ast.IfStatement:
		g.printIf(st)
	case *ast.WhileStatement:
		g.Write("while (")
		g.self().PrintExpression(st.Cond)
		g.Write(") ")
		g.self().PrintStatement(st.Body)
	case *ast.ForStatement:
		g.printFor(st)
	case *ast.SimulateStatement:
		g.Write("simulate(")
		g.self().PrintExpression(st.Steps)
		g.Write(");")
	case *ast.ReturnStatement:
		g.Write("return")
		if st.Value != nil {
			g.Write(" ")
			g.self().PrintExpression(st.Value)
		}
		g.Write(";")
	}
}

func (g *GenericPrinter) printBlock(b *ast.BlockStatement) {
	g.Write("{")
	g.Indent()
	for _, stmt := range b.Stmts {
		g.Newline()
		g.self().PrintStatement(stmt)
	}
	g.Outdent()
	g.Newline()
	g.Write("}")
}

func (g *GenericPrinter) printVarDeclaration(st *ast.VarDeclarationStatement) {
	g.self().PrintType(st.VarType)
	g.Writef(" %s", st.Name.Name)
	if st.Initializer != nil {
		g.Write(" = ")
		g.self().PrintExpression(st.Initializer)
	}
	g.Write(";")
}

func (g *GenericPrinter) printIf(st *ast.IfStatement) {
	g.Write("if (")
	g.self().PrintExpression(st.Cond)
	g.Write(") ")
	g.self().PrintStatement(st.Then)
	if st.Else != nil {
		g.Write(" else ")
		g.self().PrintStatement(st.Else)
	}
}

// printFor renders the generic (non-specialized) lowering for all three
// for-loop forms: a plain C for-header for range, a hoisted index loop for
// collection, and an index loop over the result of a near() call for
// neighborhood (with no distance check of its own) — backends override
// whichever of these doesn't match their target runtime.
func (g *GenericPrinter) printFor(st *ast.ForStatement) {
	switch st.Kind {
	case ast.ForRange:
		bound := g.MakeAnonLabel()
		g.Writef("int %s = ", bound)
		g.self().PrintExpression(st.End)
		g.Write(";")
		g.Newline()
		g.Writef("for (int %s = ", st.Var.Name)
		g.self().PrintExpression(st.Start)
		g.Writef("; %s < %s; %s++) ", st.Var.Name, bound, st.Var.Name)
		g.self().PrintStatement(st.Body)
	case ast.ForCollection:
		elemType := st.Collection.Type().Elem().String()
		coll := g.MakeAnonLabel()
		idx := g.MakeAnonLabel()
		g.Writef("%s *%s = ", elemType, coll)
		g.self().PrintExpression(st.Collection)
		g.Write(";")
		g.Newline()
		g.Writef("for (int %s = 0; %s < %s->len; %s++) {", idx, idx, coll, idx)
		g.Indent()
		g.Newline()
		g.Writef("%s %s = %s->items[%s];", elemType, st.Var.Name, coll, idx)
		g.Newline()
		g.self().PrintStatement(st.Body)
		g.Outdent()
		g.Newline()
		g.Write("}")
	case ast.ForNear:
		elemType := st.Self.Type().String()
		g.Writef("for (int __i = 0; __i < dyn_array_size(near(")
		g.self().PrintExpression(st.Self)
		g.Write(", ")
		g.self().PrintExpression(st.Radius)
		g.Writef(")); __i++) { %s %s = __neighbors[__i];", elemType, st.Var.Name)
		g.Newline()
		g.self().PrintStatement(st.Body)
		g.Write("}")
	}
}
