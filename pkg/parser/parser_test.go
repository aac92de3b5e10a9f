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

package parser_test

import (
	"testing"

	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/parser"
)

func TestParseAgentAndStep(t *testing.T) {
	script, err := parser.Parse(`
		agent Boid {
			position vec2 p;
			vec2 v;
		}
		step boid_step(Boid self) {
			self.p = self.p + self.v;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(script.Decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(script.Decls))
	}

	agent, ok := script.Decls[0].(*ast.AgentDeclaration)
	if !ok {
		t.Fatalf("expected first decl to be an AgentDeclaration, got %T", script.Decls[0])
	}
	if agent.Name != "Boid" || len(agent.Members) != 2 {
		t.Fatalf("expected agent Boid with 2 members, got %q with %d members", agent.Name, len(agent.Members))
	}

	fn, ok := script.Decls[1].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected second decl to be a FunctionDeclaration, got %T", script.Decls[1])
	}
	if fn.Name != "boid_step" || len(fn.Params) != 1 {
		t.Fatalf("expected boid_step(Boid self), got %q with %d params", fn.Name, len(fn.Params))
	}
}

func TestParseConstAndEnvironment(t *testing.T) {
	script, err := parser.Parse(`
		const int N = 100;
		environment { vec2(0.0, 0.0), vec2(10.0, 10.0) };
	`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(script.Decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(script.Decls))
	}
	if _, ok := script.Decls[0].(*ast.ConstDeclaration); !ok {
		t.Fatalf("expected const declaration, got %T", script.Decls[0])
	}
	if _, ok := script.Decls[1].(*ast.EnvironmentDeclaration); !ok {
		t.Fatalf("expected environment declaration, got %T", script.Decls[1])
	}
}

func TestParseNearLoop(t *testing.T) {
	script, err := parser.Parse(`
		agent Boid { position vec2 p; vec2 v; }
		step s(Boid self) {
			for (Boid o in near(self, 1.0)) {
				self.v = self.v + o.p;
			}
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	fn := script.Decls[1].(*ast.FunctionDeclaration)
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected one statement in step body, got %d", len(fn.Body.Stmts))
	}
	forStmt, ok := fn.Body.Stmts[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected ForStatement, got %T", fn.Body.Stmts[0])
	}
	if forStmt.Kind != ast.ForNear {
		t.Fatalf("expected ForNear, got %v", forStmt.Kind)
	}
}

func TestParseVectorConstructorCall(t *testing.T) {
	script, err := parser.Parse(`
		function f() {
			vec2 a = vec2(1.0, 2.0);
			vec3 b = vec3(1.0);
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	fn := script.Decls[0].(*ast.FunctionDeclaration)
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(fn.Body.Stmts))
	}
	for i, name := range []string{"vec2", "vec3"} {
		decl := fn.Body.Stmts[i].(*ast.VarDeclarationStatement)
		call, ok := decl.Initializer.(*ast.CallExpression)
		if !ok {
			t.Fatalf("statement %d: expected a CallExpression initializer, got %T", i, decl.Initializer)
		}
		if call.Name != name {
			t.Fatalf("statement %d: expected call to %q, got %q", i, name, call.Name)
		}
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := parser.Parse(`agent Boid { position vec2 p`)
	if err == nil {
		t.Fatalf("expected a syntax error for an unterminated agent body")
	}
	if _, ok := err.(*parser.SyntaxError); !ok {
		t.Fatalf("expected *parser.SyntaxError, got %T", err)
	}
}
