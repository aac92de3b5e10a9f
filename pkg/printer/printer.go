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

// Package printer is the backend-agnostic emission framework: a byte sink
// with indentation bookkeeping and anonymous-label generation, plus a
// GenericPrinter that knows how to render every AST node kind in a plain
// C-like style. Backends embed GenericPrinter and override the node kinds
// that need framework-specific lowering.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openabl/openabl/pkg/ast"
)

// Printer is the low-level byte sink shared by every backend: a strings
// builder with indent tracking and a counter for __anonN labels.
type Printer struct {
	buf        strings.Builder
	indentLvl  int
	anonCount  int
}

func (p *Printer) Indent()   { p.indentLvl++ }
func (p *Printer) Outdent()  { p.indentLvl-- }

func (p *Printer) Newline() {
	p.buf.WriteByte('\n')
	p.buf.WriteString(strings.Repeat("    ", p.indentLvl))
}

func (p *Printer) Write(s string) { p.buf.WriteString(s) }

func (p *Printer) Writef(format string, args ...interface{}) {
	fmt.Fprintf(&p.buf, format, args...)
}

// MakeAnonLabel returns the next unique anonymous local name, used by
// for-loop lowering to name hoisted bounds/indices/collections.
func (p *Printer) MakeAnonLabel() string {
	label := "__anon" + strconv.Itoa(p.anonCount)
	p.anonCount++
	return label
}

func (p *Printer) String() string { return p.buf.String() }

// NodePrinter is the capability vtable a backend supplies: one method per
// node kind the core contract names. GenericPrinter implements every method
// with the shared C-like default; a backend embeds GenericPrinter and
// shadows only the methods whose lowering differs.
type NodePrinter interface {
	PrintScript(s *ast.Script)
	PrintAgentDeclaration(d *ast.AgentDeclaration)
	PrintConstDeclaration(d *ast.ConstDeclaration)
	PrintFunctionDeclaration(d *ast.FunctionDeclaration)
	PrintEnvironmentDeclaration(d *ast.EnvironmentDeclaration)

	PrintStatement(s ast.Statement)
	PrintExpression(e ast.Expression)
	PrintArgs(args []*ast.Arg)
	PrintType(t ast.TypeNode)
}

// GenericPrinter is the default, framework-agnostic implementation of
// NodePrinter. It is meant to be embedded by value in each concrete backend
// struct, with Self pointing back at the outermost type so recursive calls
// dispatch through the overridden methods instead of back into the generic
// ones (the capability-vtable pattern the design notes call for, since Go
// has no virtual dispatch on embedded structs).
type GenericPrinter struct {
	Printer
	Self NodePrinter
}

func (g *GenericPrinter) self() NodePrinter {
	if g.Self != nil {
		return g.Self
	}
	return g
}

func (g *GenericPrinter) PrintScript(s *ast.Script) {
	for _, decl := range s.Decls {
		switch d := decl.(type) {
		case *ast.AgentDeclaration:
			g.self().PrintAgentDeclaration(d)
		case *ast.ConstDeclaration:
			g.self().PrintConstDeclaration(d)
		case *ast.FunctionDeclaration:
			g.self().PrintFunctionDeclaration(d)
		case *ast.EnvironmentDeclaration:
			g.self().PrintEnvironmentDeclaration(d)
		}
		g.Newline()
	}
}

func (g *GenericPrinter) PrintAgentDeclaration(d *ast.AgentDeclaration) {
	g.Writef("typedef struct {")
	g.Indent()
	for _, m := range d.Members {
		g.Newline()
		g.self().PrintType(m.MemberType)
		g.Writef(" %s;", m.Name)
	}
	g.Outdent()
	g.Newline()
	g.Writef("} %s;", d.Name)
}

func (g *GenericPrinter) PrintConstDeclaration(d *ast.ConstDeclaration) {
	g.self().PrintType(d.ConstType)
	g.Writef(" %s = ", d.Name.Name)
	g.self().PrintExpression(d.Value)
	g.Write(";")
}

func (g *GenericPrinter) PrintEnvironmentDeclaration(d *ast.EnvironmentDeclaration) {
	g.Write("// environment ")
	g.self().PrintExpression(d.Min)
	g.Write(" .. ")
	g.self().PrintExpression(d.Max)
}

func (g *GenericPrinter) PrintFunctionDeclaration(d *ast.FunctionDeclaration) {
	if d.ReturnType != nil {
		g.self().PrintType(d.ReturnType)
	} else {
		g.Write("void")
	}
	g.Writef(" %s(", d.Name)
	for i, p := range d.Params {
		if i > 0 {
			g.Write(", ")
		}
		g.self().PrintType(p.ParamType)
		g.Writef(" %s", p.Name.Name)
	}
	g.Write(") ")
	g.self().PrintStatement(d.Body)
}

func (g *GenericPrinter) PrintType(t ast.TypeNode) {
	g.Write(t.Resolved().String())
}

func (g *GenericPrinter) PrintArgs(args []*ast.Arg) {
	for i, arg := range args {
		if i > 0 {
			g.Write(", ")
		}
		g.self().PrintExpression(arg.Expr)
	}
}
