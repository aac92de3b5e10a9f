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

// Package cbackend lowers the AST to a single C translation unit built on
// libabl's dyn_array/float2/float3 runtime, with an OpenMP pragma on the
// per-agent step loop.
package cbackend

import (
	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/printer"
	"github.com/openabl/openabl/pkg/types"
)

// Printer emits one C source file per script. It embeds GenericPrinter and
// sets Self to itself so the generic default's recursive calls land back
// here.
type Printer struct {
	printer.GenericPrinter
}

func New() *Printer {
	p := &Printer{}
	p.Self = p
	return p
}

// Generate renders the whole script as a single "main.c" translation unit.
func Generate(s *ast.Script) map[string]string {
	p := New()
	p.PrintScript(s)
	return map[string]string{"main.c": p.String()}
}

// storageType is the type written for a dyn_array/agent's backing local:
// arrays always print as "dyn_array", never the element-typed spelling.
func storageType(t types.Type) string {
	if t.IsArray() {
		return "dyn_array"
	}
	return t.String()
}

// refType is the type written at a use site: arrays and agents are always
// handled through a pointer.
func refType(t types.Type) string {
	if t.IsArray() {
		return "dyn_array*"
	}
	if t.IsAgent() {
		return t.String() + "*"
	}
	return t.String()
}

func requiresStorage(t types.Type) bool {
	return t.IsArray() || t.IsAgent()
}

func (p *Printer) PrintType(t ast.TypeNode) {
	p.Write(refType(t.Resolved()))
}

func (p *Printer) PrintScript(s *ast.Script) {
	p.Write("#include \"libabl.h\"")
	p.Newline()
	p.Newline()
	p.GenericPrinter.PrintScript(s)
	p.printStepDrivers(s)
}

// printStepDrivers emits one OpenMP-parallel, double-buffered driver per
// step function: it allocates the buffer lazily on first use, applies the
// step body to every agent in the population concurrently, then swaps the
// buffer in through the caller's array pointer, matching
// ParallelForStatement's lowering in the reference backend.
func (p *Printer) printStepDrivers(s *ast.Script) {
	for _, decl := range s.Decls {
		fn, ok := decl.(*ast.FunctionDeclaration)
		if !ok || !fn.IsStep {
			continue
		}
		agentType := fn.StepAgentType
		p.Newline()
		p.Writef("void %s_step_all(dyn_array** agents) {", fn.Name)
		p.Indent()
		p.Newline()
		p.Write("static dyn_array* double_buf = NULL;")
		p.Newline()
		p.Writef("if (!double_buf) double_buf = DYN_ARRAY_CREATE_FIXED(%s, (*agents)->len);", storageType(agentType))
		p.Newline()
		p.Write("#pragma omp parallel for")
		p.Newline()
		p.Write("for (size_t __i = 0; __i < (*agents)->len; __i++) {")
		p.Indent()
		p.Newline()
		p.Writef("%s __in = DYN_ARRAY_GET(*agents, %s, __i);", refType(agentType), storageType(agentType))
		p.Newline()
		p.Writef("%s __out = DYN_ARRAY_GET(double_buf, %s, __i);", refType(agentType), storageType(agentType))
		p.Newline()
		p.Write("*__out = *__in;")
		p.Newline()
		p.Writef("%s(__out);", fn.Name)
		p.Outdent()
		p.Newline()
		p.Write("}")
		p.Newline()
		p.Write("{ dyn_array* tmp = *agents; *agents = double_buf; double_buf = tmp; }")
		p.Outdent()
		p.Newline()
		p.Write("}")
		p.Newline()
	}
}

func (p *Printer) PrintAgentDeclaration(d *ast.AgentDeclaration) {
	p.Write("typedef struct {")
	p.Indent()
	for _, m := range d.Members {
		p.Newline()
		p.Write(refType(m.MemberType.Resolved()))
		p.Writef(" %s;", m.Name)
	}
	p.Outdent()
	p.Newline()
	p.Writef("} %s;", d.Name)
}

func (p *Printer) PrintConstDeclaration(d *ast.ConstDeclaration) {
	p.Write(refType(d.ConstType.Resolved()))
	p.Writef(" %s = ", d.Name.Name)
	p.PrintExpression(d.Value)
	p.Write(";")
}

func (p *Printer) PrintFunctionDeclaration(d *ast.FunctionDeclaration) {
	if d.ReturnType != nil {
		p.Write(refType(d.ReturnType.Resolved()))
	} else {
		p.Write("void")
	}
	p.Writef(" %s(", d.Name)
	for i, param := range d.Params {
		if i > 0 {
			p.Write(", ")
		}
		p.Write(refType(param.ParamType.Resolved()))
		p.Writef(" %s", param.Name.Name)
	}
	p.Write(") {")
	p.Indent()
	if d.Name == "main" {
		p.Newline()
		p.Write("dyn_array* double_buf = NULL;")
	}
	for _, stmt := range d.Body.Stmts {
		p.Newline()
		p.PrintStatement(stmt)
	}
	// Outdent before the final newline so the closing brace is not indented.
	p.Outdent()
	p.Newline()
	p.Write("}")
}

func (p *Printer) PrintExpression(e ast.Expression) {
	switch expr := e.(type) {
	case *ast.BinaryOpExpression:
		p.printBinaryOp(expr.Op, expr.Left, expr.Right)
	case *ast.AssignOpExpression:
		p.Write("(")
		p.PrintExpression(expr.Left)
		p.Write(" = ")
		p.printBinaryOp(expr.Op, expr.Left, expr.Right)
		p.Write(")")
	case *ast.MemberAccessExpression:
		p.PrintExpression(expr.Expr)
		if expr.Expr.Type().IsAgent() {
			p.Writef("->%s", expr.Member)
		} else {
			p.Writef(".%s", expr.Member)
		}
	case *ast.NewArrayExpression:
		p.Writef("DYN_ARRAY_CREATE_FIXED(%s, ", storageType(expr.ElemType.Resolved()))
		p.PrintExpression(expr.SizeExpr)
		p.Write(")")
	default:
		p.GenericPrinter.PrintExpression(e)
	}
}

// printBinaryOp lowers vector arithmetic to the libabl float2_*/float3_*
// helper calls, commuting a scalar*vec multiply to vec*scalar at the call
// site since the runtime only defines the latter.
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

	prefix := "float2_"
	if (l.IsVec() && l.Id() == types.Vec3) || (r.IsVec() && r.Id() == types.Vec3) {
		prefix = "float3_"
	}

	switch op {
	case ast.Add:
		p.Writef("%sadd(", prefix)
		p.PrintExpression(left)
		p.Write(", ")
		p.PrintExpression(right)
		p.Write(")")
	case ast.Sub:
		p.Writef("%ssub(", prefix)
		p.PrintExpression(left)
		p.Write(", ")
		p.PrintExpression(right)
		p.Write(")")
	case ast.Div:
		p.Writef("%sdiv_scalar(", prefix)
		p.PrintExpression(left)
		p.Write(", ")
		p.PrintExpression(right)
		p.Write(")")
	case ast.Mul:
		p.Writef("%smul_scalar(", prefix)
		if r.IsVec() {
			// scalar * vec: normalize to vec * scalar.
			p.PrintExpression(right)
			p.Write(", ")
			p.PrintExpression(left)
		} else {
			p.PrintExpression(left)
			p.Write(", ")
			p.PrintExpression(right)
		}
		p.Write(")")
	}
}

func (p *Printer) PrintStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.VarDeclarationStatement:
		p.printVarDeclaration(st)
	case *ast.ForStatement:
		p.printFor(st)
	default:
		p.GenericPrinter.PrintStatement(s)
	}
}

// printVarDeclaration follows the original backend's hidden-storage-local
// pattern: an array or agent local is backed by a separately-declared
// plain-typed storage variable, with the visible name bound to its address,
// so every later use of the name is consistently a pointer.
func (p *Printer) printVarDeclaration(st *ast.VarDeclarationStatement) {
	t := st.VarType.Resolved()
	if !requiresStorage(t) {
		p.Write(t.String())
		p.Writef(" %s", st.Name.Name)
		if st.Initializer != nil {
			p.Write(" = ")
			p.PrintExpression(st.Initializer)
		}
		p.Write(";")
		return
	}

	label := p.MakeAnonLabel()
	p.Write(storageType(t))
	p.Writef(" %s", label)
	if st.Initializer != nil {
		p.Write(" = ")
		p.PrintExpression(st.Initializer)
	}
	p.Write(";")
	p.Newline()
	p.Write(refType(t))
	p.Writef(" %s = &%s;", st.Name.Name, label)
}

func (p *Printer) printFor(st *ast.ForStatement) {
	switch st.Kind {
	case ast.ForRange:
		end := p.MakeAnonLabel()
		p.Writef("for (int %s = ", st.Var.Name)
		p.PrintExpression(st.Start)
		p.Writef(", %s = ", end)
		p.PrintExpression(st.End)
		p.Writef("; %s < %s; ++%s) ", st.Var.Name, end, st.Var.Name)
		p.PrintStatement(st.Body)
	case ast.ForCollection:
		elemType := st.Collection.Type().Elem()
		e := p.MakeAnonLabel()
		i := p.MakeAnonLabel()
		p.Write(refType(st.Collection.Type()))
		p.Writef(" %s = ", e)
		p.PrintExpression(st.Collection)
		p.Write(";")
		p.Newline()
		p.Writef("for (size_t %s = 0; %s < %s->len; %s++) {", i, i, e, i)
		p.Indent()
		p.Newline()
		p.Writef("%s %s = DYN_ARRAY_GET(%s, %s, %s);", refType(elemType), st.Var.Name, e, storageType(elemType), i)
		p.Newline()
		p.PrintStatement(st.Body)
		p.Outdent()
		p.Newline()
		p.Write("}")
	case ast.ForNear:
		// The analyzer rejects near() loops outside a step function, so this
		// path is only reached from within one. The loop is lowered inline:
		// the near() result is hoisted into an anonymous local and indexed
		// like a collection.
		elemType := st.Self.Type()
		e := p.MakeAnonLabel()
		i := p.MakeAnonLabel()
		p.Writef("dyn_array* %s = near(", e)
		p.PrintExpression(st.Self)
		p.Write(", ")
		p.PrintExpression(st.Radius)
		p.Write(");")
		p.Newline()
		p.Writef("for (size_t %s = 0; %s < %s->len; %s++) {", i, i, e, i)
		p.Indent()
		p.Newline()
		p.Writef("%s %s = DYN_ARRAY_GET(%s, %s, %s);", refType(elemType), st.Var.Name, e, storageType(elemType), i)
		p.Newline()
		p.PrintStatement(st.Body)
		p.Outdent()
		p.Newline()
		p.Write("}")
	}
}
