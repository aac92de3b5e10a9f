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

package lexer_test

import (
	"testing"

	"github.com/openabl/openabl/pkg/lexer"
	"github.com/openabl/openabl/pkg/token"
)

func TestNextTokenCoversDeclarationSyntax(t *testing.T) {
	input := `agent Boid {
		position vec2 p;
		vec2 v;
	}
	step boid_step(Boid self) {
		self.p = self.p + self.v * 2.5;
	}`

	expected := []token.Type{
		token.AGENT, token.IDENT, token.LBRACE,
		token.POSITION, token.VEC2, token.IDENT, token.SEMI,
		token.VEC2, token.IDENT, token.SEMI,
		token.RBRACE,
		token.STEP, token.IDENT, token.LPAREN, token.IDENT, token.IDENT, token.RPAREN, token.LBRACE,
		token.IDENT, token.DOT, token.IDENT, token.ASSIGN,
		token.IDENT, token.DOT, token.IDENT, token.PLUS,
		token.IDENT, token.DOT, token.IDENT, token.ASTERISK, token.FLOAT, token.SEMI,
		token.RBRACE,
		token.EOF,
	}

	l := lexer.New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: expected %s, got %s (%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestNextTokenOperatorsAndLiterals(t *testing.T) {
	input := `+= -= *= /= .. == != <= >= && || "hi" 42 3.14`
	expected := []token.Type{
		token.PLUS_EQ, token.MINUS_EQ, token.MUL_EQ, token.DIV_EQ, token.DOTDOT,
		token.EQ, token.NOT_EQ, token.LT_EQ, token.GT_EQ, token.AND, token.OR,
		token.STRING, token.INT, token.FLOAT, token.EOF,
	}

	l := lexer.New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: expected %s, got %s (%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestLookupIdentClassifiesKeywords(t *testing.T) {
	cases := map[string]token.Type{
		"agent": token.AGENT,
		"step":  token.STEP,
		"near":  token.IDENT,
		"vec3":  token.VEC3,
	}
	for ident, want := range cases {
		if got := token.LookupIdent(ident); got != want {
			t.Errorf("LookupIdent(%q) = %s, want %s", ident, got, want)
		}
	}
}
