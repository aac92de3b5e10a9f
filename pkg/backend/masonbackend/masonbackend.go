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

// Package masonbackend lowers the AST to a MASON (Java) simulation: vector
// arithmetic becomes Double2D/Double3D method calls, agent members become
// fields of a generated Java class, and each step function becomes an
// instance method taking a SimState.
package masonbackend

import (
	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/printer"
	"github.com/openabl/openabl/pkg/types"
)

type Printer struct {
	printer.GenericPrinter
	script *ast.Script
}

func New(script *ast.Script) *Printer {
	p := &Printer{script: script}
	p.Self = p
	return p
}

func (p *Printer) PrintType(t ast.TypeNode) {
	switch t.Resolved().Id() {
	case types.Float32:
		p.Write("double")
	case types.String:
		p.Write("String")
	case types.Vec2:
		p.Write("Double2D")
	case types.Vec3:
		p.Write("Double3D")
	case types.Agent:
		p.Write(t.Resolved().String())
	default:
		p.Write(t.Resolved().String())
	}
}

func (p *Printer) PrintExpression(e ast.Expression) {
	switch expr := e.(type) {
	case *ast.VarExpression:
		if p.script != nil && expr.Var.Id >= 0 && int(expr.Var.Id) < p.script.Scope.Len() && p.script.Scope.Get(expr.Var.Id).IsGlobal {
			p.Writef("Sim.%s", expr.Var.Name)
			return
		}
		p.Write(expr.Var.Name)
	case *ast.MemberAccessExpression:
		if expr.Expr.Type().IsAgent() {
			p.Writef("this.%s", expr.Member)
			return
		}
		p.GenericPrinter.PrintExpression(e)
	case *ast.BinaryOpExpression:
		p.printBinaryOp(expr.Op, expr.Left, expr.Right)
	case *ast.UnaryOpExpression:
		if expr.Expr.Type().IsVec() {
			switch expr.Op {
			case ast.UnaryPlus:
				p.PrintExpression(expr.Expr)
			case ast.UnaryMinus:
				p.PrintExpression(expr.Expr)
				p.Write(".negate()")
			}
			return
		}
		p.GenericPrinter.PrintExpression(e)
	case *ast.CallExpression:
		p.printCall(expr)
	default:
		p.GenericPrinter.PrintExpression(e)
	}
}

// printBinaryOp renders vector arithmetic as Double2D/Double3D method
// calls; division is emulated via multiply-by-reciprocal since MASON's
// vector classes have no divide method.
func (p *Printer) printBinaryOp(op ast.BinaryOp, left, right ast.Expression) {
	l, r := left.Type(), right.Type()
	if !l.IsVec() && !r.IsVec() {
		p.Write("(")
		p.PrintExpression(left)
		p.Writef(" %s ", op.Sigil())
		p.PrintExpression(right)
		p.Write(")")
		return
	}
	p.PrintExpression(left)
	switch op {
	case ast.Add:
		p.Write(".add(")
		p.PrintExpression(right)
		p.Write(")")
	case ast.Sub:
		p.Write(".subtract(")
		p.PrintExpression(right)
		p.Write(")")
	case ast.Mul:
		p.Write(".multiply(")
		p.PrintExpression(right)
		p.Write(")")
	case ast.Div:
		p.Write(".multiply(1. / ")
		p.PrintExpression(right)
		p.Write(")")
	}
}

func (p *Printer) printCall(e *ast.CallExpression) {
	t := e.Type()
	if t.IsVec() && e.CalledSig == nil {
		width := 2
		ctor := "Double2D"
		if t.Id() == types.Vec3 {
			width = 3
			ctor = "Double3D"
		}
		p.Writef("new %s(", ctor)
		if len(e.Args) == 1 {
			for i := 0; i < width; i++ {
				if i > 0 {
					p.Write(", ")
				}
				p.PrintExpression(e.Args[0].Expr)
			}
		} else {
			p.PrintArgs(e.Args)
		}
		p.Write(")")
		return
	}
	if e.Name == "dist" && len(e.Args) == 2 {
		p.PrintExpression(e.Args[0].Expr)
		p.Write(".distance(")
		p.PrintExpression(e.Args[1].Expr)
		p.Write(")")
		return
	}
	if !e.IsBuiltin() {
		p.Writef("Sim.%s(", e.Name)
		p.PrintArgs(e.Args)
		p.Write(")")
		return
	}
	name := e.Name
	if e.CalledSig.BuiltinSymbol != "" {
		name = e.CalledSig.BuiltinSymbol
	}
	p.Writef("%s(", name)
	p.PrintArgs(e.Args)
	p.Write(")")
}

func (p *Printer) PrintStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.AssignOpStatement:
		p.PrintExpression(st.Left)
		p.Write(" = ")
		p.printBinaryOp(st.Op, st.Left, st.Right)
		p.Write(";")
	case *ast.ForStatement:
		p.printFor(st)
	default:
		p.GenericPrinter.PrintStatement(s)
	}
}

// printFor lowers a near() loop to a scan over every object in the
// environment field. The radius argument is not used: every object in the
// field, the current agent included, is visited.
func (p *Printer) printFor(st *ast.ForStatement) {
	if st.Kind != ast.ForNear {
		p.GenericPrinter.PrintStatement(st)
		return
	}
	agentName := st.Self.Type().String()
	i := p.MakeAnonLabel()
	p.Write("Bag _bag = _sim.env.getAllObjects();")
	p.Newline()
	p.Writef("for (int %s = 0; %s < _bag.size(); %s++) {", i, i, i)
	p.Indent()
	p.Newline()
	p.Writef("%s %s = (%s) _bag.get(%s);", agentName, st.Var.Name, agentName, i)
	p.Newline()
	p.PrintStatement(st.Body)
	p.Outdent()
	p.Newline()
	p.Write("}")
}

func (p *Printer) PrintConstDeclaration(d *ast.ConstDeclaration) {
	p.Write("public static ")
	p.PrintType(d.ConstType)
	p.Writef(" %s = ", d.Name.Name)
	p.PrintExpression(d.Value)
	p.Write(";")
}

func (p *Printer) printStepFunction(fn *ast.FunctionDeclaration) {
	p.Writef("public void %s(SimState state) {", fn.Name)
	p.Indent()
	p.Newline()
	p.Write("Sim _sim = (Sim) state;")
	for _, stmt := range fn.Body.Stmts {
		p.Newline()
		p.PrintStatement(stmt)
	}
	p.Outdent()
	p.Newline()
	p.Write("}")
}

// PrintAgentDeclaration renders the agent record as its own Java class: a
// field per member, a constructor assigning every field, and the body of
// every step function declared over this agent type as an instance method.
func (p *Printer) PrintAgentDeclaration(d *ast.AgentDeclaration) {
	p.Write("import sim.engine.*;")
	p.Newline()
	p.Write("import sim.util.*;")
	p.Newline()
	p.Newline()
	p.Writef("public class %s {", d.Name)
	p.Indent()
	for _, m := range d.Members {
		p.Newline()
		p.PrintType(m.MemberType)
		p.Writef(" %s;", m.Name)
	}
	p.Newline()
	p.Newline()
	p.Writef("public %s(", d.Name)
	for i, m := range d.Members {
		if i > 0 {
			p.Write(", ")
		}
		p.PrintType(m.MemberType)
		p.Writef(" %s", m.Name)
	}
	p.Write(") {")
	p.Indent()
	for _, m := range d.Members {
		p.Newline()
		p.Writef("this.%s = %s;", m.Name, m.Name)
	}
	p.Outdent()
	p.Newline()
	p.Write("}")

	if p.script != nil {
		for _, decl := range p.script.Decls {
			fn, ok := decl.(*ast.FunctionDeclaration)
			if !ok || !fn.IsStep || !fn.StepAgentType.Equal(types.AgentOf(d)) {
				continue
			}
			p.Newline()
			p.Newline()
			p.printStepFunction(fn)
		}
	}

	p.Outdent()
	p.Newline()
	p.Write("}")
}

func (p *Printer) PrintScript(s *ast.Script) {
	p.Write("import sim.engine.*;")
	p.Newline()
	p.Write("import sim.util.*;")
	p.Newline()
	p.Write("import sim.field.continuous.*;")
	p.Newline()
	p.Newline()
	p.Write("public class Sim extends SimState {")
	p.Indent()
	p.Newline()
	for _, decl := range s.Decls {
		if c, ok := decl.(*ast.ConstDeclaration); ok {
			p.PrintConstDeclaration(c)
			p.Newline()
		}
	}
	p.Write("public Continuous2D env = new Continuous2D(1.0, 100, 100);")
	p.Newline()
	p.Newline()
	p.Write("public Sim(long seed) {")
	p.Indent()
	p.Newline()
	p.Write("super(seed);")
	p.Outdent()
	p.Newline()
	p.Write("}")
	p.Newline()
	p.Newline()
	p.Write("public void start() {")
	p.Indent()
	p.Newline()
	p.Write("super.start();")
	p.Outdent()
	p.Newline()
	p.Write("}")
	p.Newline()
	p.Write("public static void main(String[] args) {")
	p.Indent()
	p.Newline()
	p.Write("doLoop(Sim.class, args);")
	p.Newline()
	p.Write("System.exit(0);")
	p.Outdent()
	p.Newline()
	p.Write("}")
	p.Outdent()
	p.Newline()
	p.Write("}")
}

// Generate renders Sim.java (the driver/const holder) plus one Java source
// file per agent declaration.
func Generate(s *ast.Script) map[string]string {
	out := map[string]string{}
	p := New(s)
	p.PrintScript(s)
	out["Sim.java"] = p.String()

	for _, decl := range s.Decls {
		agent, ok := decl.(*ast.AgentDeclaration)
		if !ok {
			continue
		}
		ap := New(s)
		ap.PrintAgentDeclaration(agent)
		out[agent.Name+".java"] = ap.String()
	}
	return out
}
