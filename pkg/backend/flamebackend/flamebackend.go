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

// Package flamebackend lowers the AST to the per-agent function bodies a
// FlameGPU XML model wraps: member reads/writes become get_*/set_*
// accessor calls on the implicit current agent, and near() loops become
// START_<MSG>_LOOP/FINISH_<MSG>_LOOP message iteration macros.
package flamebackend

import (
	"strings"

	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/printer"
	"github.com/openabl/openabl/pkg/types"
)

type Printer struct {
	printer.GenericPrinter
	agent *ast.AgentDeclaration
}

func New() *Printer {
	p := &Printer{}
	p.Self = p
	return p
}

func vecCtor(t types.Type, numArgs int) string {
	prefix := "float2_"
	if t.Id() == types.Vec3 {
		prefix = "float3_"
	}
	if numArgs == 1 {
		return prefix + "fill"
	}
	return prefix + "create"
}

func (p *Printer) PrintExpression(e ast.Expression) {
	switch expr := e.(type) {
	case *ast.UnaryOpExpression:
		t := expr.Expr.Type()
		if t.IsVec() {
			switch expr.Op {
			case ast.UnaryPlus:
				p.PrintExpression(expr.Expr)
			case ast.UnaryMinus:
				p.printVecScale(expr.Expr, -1.0)
			}
			return
		}
		p.GenericPrinter.PrintExpression(e)
	case *ast.BinaryOpExpression:
		p.printBinaryOp(expr.Op, expr.Left, expr.Right)
	case *ast.MemberAccessExpression:
		if expr.Type().IsVec() {
			p.PrintExpression(expr.Expr)
			p.Writef("_%s", expr.Member)
			return
		}
		if expr.Expr.Type().IsAgent() {
			// Every step function body operates on the implicit current
			// agent; any other agent reference is unsupported.
			p.Writef("get_%s()", expr.Member)
			return
		}
		p.GenericPrinter.PrintExpression(e)
	case *ast.CallExpression:
		p.printCall(expr)
	default:
		p.GenericPrinter.PrintExpression(e)
	}
}

func (p *Printer) printVecScale(vec ast.Expression, scalar float64) {
	prefix := "float2_"
	if vec.Type().Id() == types.Vec3 {
		prefix = "float3_"
	}
	p.Writef("%smul_scalar(", prefix)
	p.PrintExpression(vec)
	p.Writef(", %g)", scalar)
}

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
	var fn string
	switch op {
	case ast.Add:
		fn = "add"
	case ast.Sub:
		fn = "sub"
	case ast.Div:
		fn = "div_scalar"
	case ast.Mul:
		fn = "mul_scalar"
		if r.IsVec() {
			p.Writef("%s%s(", prefix, fn)
			p.PrintExpression(right)
			p.Write(", ")
			p.PrintExpression(left)
			p.Write(")")
			return
		}
	}
	p.Writef("%s%s(", prefix, fn)
	p.PrintExpression(left)
	p.Write(", ")
	p.PrintExpression(right)
	p.Write(")")
}

// printCall lowers a vec type-constructor call to float2/3_fill/create and
// a builtin call to its registered internal symbol (e.g. dot_float2 for
// dot on two vec2s); user calls pass through unchanged.
func (p *Printer) printCall(e *ast.CallExpression) {
	t := e.Type()
	if t.IsVec() && e.CalledSig == nil {
		p.Writef("%s(", vecCtor(t, len(e.Args)))
		p.PrintArgs(e.Args)
		p.Write(")")
		return
	}
	name := e.Name
	if e.IsBuiltin() && e.CalledSig.BuiltinSymbol != "" {
		name = e.CalledSig.BuiltinSymbol
	}
	p.Writef("%s(", name)
	p.PrintArgs(e.Args)
	p.Write(")")
}

func (p *Printer) PrintStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.AssignStatement:
		if p.printAgentMemberWrite(st.Left, st.Right) {
			return
		}
		p.GenericPrinter.PrintStatement(s)
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

// printAgentMemberWrite rewrites "self.member = rhs;" into one or more
// set_member[_x/_y/_z](...) calls, reports whether it handled the
// statement.
func (p *Printer) printAgentMemberWrite(left, right ast.Expression) bool {
	member, ok := left.(*ast.MemberAccessExpression)
	if !ok || !member.Expr.Type().IsAgent() {
		return false
	}
	name := member.Member
	if member.Type().IsVec() {
		p.Writef("set_%s_x(", name)
		p.PrintExpression(right)
		p.Write(".x);")
		p.Newline()
		p.Writef("set_%s_y(", name)
		p.PrintExpression(right)
		p.Write(".y);")
		if member.Type().Id() == types.Vec3 {
			p.Newline()
			p.Writef("set_%s_z(", name)
			p.PrintExpression(right)
			p.Write(".z);")
		}
		return true
	}
	p.Writef("set_%s(", name)
	p.PrintExpression(right)
	p.Write(");")
	return true
}

// printFor lowers a near() loop to the message-iteration macro pair; the
// per-message variable names are reconstructed from the agent's own member
// names since FlameGPU messages mirror the emitting agent's fields.
func (p *Printer) printFor(st *ast.ForStatement) {
	if st.Kind != ast.ForNear {
		// Range/collection loops have no FlameGPU equivalent outside a
		// step body; GenericPrinter's default keeps them readable for a
		// human reviewing output that isn't meant to compile as-is.
		p.GenericPrinter.PrintStatement(st)
		return
	}
	if p.agent == nil {
		p.GenericPrinter.PrintStatement(st)
		return
	}
	msgName := strings.ToLower(p.agent.Name) + "_message"
	upper := strings.ToUpper(msgName)
	p.Writef("START_%s_LOOP", upper)
	p.Indent()
	for _, m := range p.agent.Members {
		if !m.MemberType.Resolved().IsVec() {
			continue
		}
		p.Newline()
		p.Writef("%s %s_%s = %s(%s_message->%s_x, %s_message->%s_y",
			m.MemberType.Resolved().String(), st.Var.Name, m.Name,
			vecCtor(m.MemberType.Resolved(), 2), msgName, m.Name, msgName, m.Name)
		if m.MemberType.Resolved().Id() == types.Vec3 {
			p.Writef(", %s_message->%s_z", msgName, m.Name)
		}
		p.Write(");")
	}
	p.Newline()
	p.PrintStatement(st.Body)
	p.Outdent()
	p.Newline()
	p.Writef("FINISH_%s_LOOP", upper)
}

// PrintFunctionDeclaration renders one non-step, non-main function. Step
// functions go through printStepFunction instead, since they need the
// extractAgentMembers() prologue and the enclosing agent wired for any
// near() loop in their body.
func (p *Printer) PrintFunctionDeclaration(d *ast.FunctionDeclaration) {
	if d.IsStep || d.Name == "main" {
		return
	}
	p.Writef("int %s() {", d.Name)
	p.Indent()
	p.Newline()
	for _, stmt := range d.Body.Stmts {
		p.PrintStatement(stmt)
		p.Newline()
	}
	p.Write("return 0;")
	p.Outdent()
	p.Newline()
	p.Write("}")
}

// printExtractAgentMembers emits the local vecN copies
// (<toVar>_<member> = vecN_create(get_<member>_x(), ...)) a step body's
// member-access printing relies on, mirroring the agent's current field
// values into locals before any of the body's statements run.
func (p *Printer) printExtractAgentMembers(agent *ast.AgentDeclaration, toVar string) {
	for _, m := range agent.Members {
		t := m.MemberType.Resolved()
		if !t.IsVec() {
			continue
		}
		p.Newline()
		p.Writef("%s %s_%s = %s(get_%s_x(), get_%s_y()", t.String(), toVar, m.Name,
			vecCtor(t, 2), m.Name, m.Name)
		if t.Id() == types.Vec3 {
			p.Writef(", get_%s_z()", m.Name)
		}
		p.Write(");")
	}
}

// printStepFunction renders a step function, setting p.agent for the
// duration so a near() loop in its body can lower to the right
// START_*_LOOP/FINISH_*_LOOP message macro pair.
func (p *Printer) printStepFunction(d *ast.FunctionDeclaration) {
	agent, _ := d.StepAgentType.AgentDecl().(*ast.AgentDeclaration)
	p.agent = agent
	defer func() { p.agent = nil }()

	p.Writef("int %s() {", d.Name)
	p.Indent()
	if agent != nil {
		if param := d.StepParam(); param != nil {
			p.printExtractAgentMembers(agent, param.Name.Name)
		}
	}
	for _, stmt := range d.Body.Stmts {
		p.Newline()
		p.PrintStatement(stmt)
	}
	p.Newline()
	p.Write("return 0;")
	p.Outdent()
	p.Newline()
	p.Write("}")
}

// printOutputMessageFunction synthesizes the auto-generated add_<msg>_message
// function FlameGPU's generated model calls once per step to broadcast an
// agent's own fields to every other agent's near() loop.
func (p *Printer) printOutputMessageFunction(msgName string, agent *ast.AgentDeclaration) {
	name := "add_" + msgName
	p.Writef("int %s() {", name)
	p.Indent()
	p.Newline()
	p.Writef("%s(", name)
	for i, m := range agent.Members {
		if i > 0 {
			p.Write(", ")
		}
		t := m.MemberType.Resolved()
		if t.IsVec() {
			p.Writef("get_%s_x(), get_%s_y()", m.Name, m.Name)
			if t.Id() == types.Vec3 {
				p.Writef(", get_%s_z()", m.Name)
			}
		} else {
			p.Writef("get_%s()", m.Name)
		}
	}
	p.Write(");")
	p.Newline()
	p.Write("return 0;")
	p.Outdent()
	p.Newline()
	p.Write("}")
}

// PrintAgentDeclaration is a no-op: FlameGPU agents are declared in the XML
// model document, not as a C struct.
func (p *Printer) PrintAgentDeclaration(d *ast.AgentDeclaration) {}

func (p *Printer) PrintScript(s *ast.Script) {
	p.Write("#include \"header.h\"")
	p.Newline()
	p.Write("#include \"libabl.h\"")
	p.Newline()
	p.Newline()
	for _, decl := range s.Decls {
		if c, ok := decl.(*ast.ConstDeclaration); ok {
			p.PrintConstDeclaration(c)
			p.Newline()
		}
	}
	for _, decl := range s.Decls {
		fn, ok := decl.(*ast.FunctionDeclaration)
		if !ok || fn.IsStep || fn.Name == "main" {
			continue
		}
		p.PrintFunctionDeclaration(fn)
		p.Newline()
	}

	// Step functions are handled in a second phase: each gets its body
	// printed with the extractAgentMembers() prologue, and every distinct
	// outgoing message gets one auto-generated add_<msg>_message function.
	emittedMsg := map[string]bool{}
	for _, decl := range s.Decls {
		fn, ok := decl.(*ast.FunctionDeclaration)
		if !ok || !fn.IsStep {
			continue
		}
		p.printStepFunction(fn)
		p.Newline()
		if fn.OutMsgName == "" || emittedMsg[fn.OutMsgName] {
			continue
		}
		emittedMsg[fn.OutMsgName] = true
		if agent, ok := fn.StepAgentType.AgentDecl().(*ast.AgentDeclaration); ok {
			p.printOutputMessageFunction(fn.OutMsgName, agent)
			p.Newline()
		}
	}
}

// Generate renders the per-agent function bodies FlameGPU's generated XML
// model wraps around. It does not emit the XML model document itself
// (asset templating is the responsibility of the asset-tree copy step).
func Generate(s *ast.Script) map[string]string {
	p := New()
	p.PrintScript(s)
	return map[string]string{"functions.c": p.String()}
}
