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

// Package parser turns a token stream into an *ast.Script using hand-rolled
// recursive descent for statements/declarations and precedence climbing for
// expressions.
package parser

import (
	"fmt"

	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/lexer"
	"github.com/openabl/openabl/pkg/token"
)

// SyntaxError is returned by Parse on the first malformed construct; the
// grammar does not attempt recovery.
type SyntaxError struct {
	Message string
	Pos     token.Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s on line %d", e.Message, e.Pos.Line)
}

// Parser holds the two-token lookahead state shared by every parse* method.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if !p.curIs(t) {
		return token.Token{}, &SyntaxError{
			Message: fmt.Sprintf("expected %s, got %s %q", t, p.curToken.Type, p.curToken.Literal),
			Pos:     p.curToken.Pos,
		}
	}
	tok := p.curToken
	p.next()
	return tok, nil
}

// Parse consumes the whole token stream and returns a Script, or the first
// SyntaxError encountered.
func Parse(input string) (*ast.Script, error) {
	p := New(lexer.New(input))
	return p.parseScript()
}

func (p *Parser) parseScript() (*ast.Script, error) {
	script := &ast.Script{}
	for !p.curIs(token.EOF) {
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		script.Decls = append(script.Decls, decl)
	}
	return script, nil
}

func (p *Parser) parseDeclaration() (ast.Declaration, error) {
	switch p.curToken.Type {
	case token.AGENT:
		return p.parseAgentDeclaration()
	case token.ENVIRONMENT:
		return p.parseEnvironmentDeclaration()
	case token.CONST:
		return p.parseConstDeclaration()
	case token.FUNCTION, token.STEP:
		return p.parseFunctionDeclaration()
	default:
		return nil, &SyntaxError{
			Message: fmt.Sprintf("expected a declaration, got %s %q", p.curToken.Type, p.curToken.Literal),
			Pos:     p.curToken.Pos,
		}
	}
}

func (p *Parser) parseAgentDeclaration() (*ast.AgentDeclaration, error) {
	tok := p.curToken
	p.next() // 'agent'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	decl := &ast.AgentDeclaration{DeclBase: ast.DeclBase{BaseNode: ast.BaseNode{Token: tok}}, Name: name.Literal}
	for !p.curIs(token.RBRACE) {
		member, err := p.parseAgentMember()
		if err != nil {
			return nil, err
		}
		decl.Members = append(decl.Members, member)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseAgentMember() (*ast.AgentMember, error) {
	tok := p.curToken
	isPosition := false
	if p.curIs(token.POSITION) {
		isPosition = true
		p.next()
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.AgentMember{
		BaseNode:   ast.BaseNode{Token: tok},
		Name:       name.Literal,
		MemberType: typ,
		IsPosition: isPosition,
	}, nil
}

func (p *Parser) parseEnvironmentDeclaration() (*ast.EnvironmentDeclaration, error) {
	tok := p.curToken
	p.next() // 'environment'
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	min, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return nil, err
	}
	max, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.EnvironmentDeclaration{DeclBase: ast.DeclBase{BaseNode: ast.BaseNode{Token: tok}}, Min: min, Max: max}, nil
}

func (p *Parser) parseConstDeclaration() (*ast.ConstDeclaration, error) {
	tok := p.curToken
	p.next() // 'const'
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ConstDeclaration{
		DeclBase:  ast.DeclBase{BaseNode: ast.BaseNode{Token: tok}},
		Name:      ast.NewVar(name.Literal),
		ConstType: typ,
		Value:     value,
	}, nil
}

func (p *Parser) parseFunctionDeclaration() (*ast.FunctionDeclaration, error) {
	tok := p.curToken
	isStep := p.curIs(token.STEP)
	p.next() // 'function' | 'step'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Param
	for !p.curIs(token.RPAREN) {
		if len(params) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	var retType ast.TypeNode
	if p.curIs(token.COLON) {
		p.next()
		retType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDeclaration{
		DeclBase:   ast.DeclBase{BaseNode: ast.BaseNode{Token: tok}},
		Name:       name.Literal,
		Params:     params,
		ReturnType: retType,
		Body:       body,
		IsStep:     isStep,
	}, nil
}

func (p *Parser) parseParam() (*ast.Param, error) {
	tok := p.curToken
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.Param{BaseNode: ast.BaseNode{Token: tok}, Name: ast.NewVar(name.Literal), ParamType: typ}, nil
}

// parseType parses a simple type name (primitive, vec2/vec3, or an agent
// name) followed by zero or more "[]" suffixes.
func (p *Parser) parseType() (ast.TypeNode, error) {
	tok := p.curToken
	var name string
	switch p.curToken.Type {
	case token.VOID, token.BOOL, token.INT32, token.FLOAT32, token.STRINGT, token.VEC2, token.VEC3, token.IDENT:
		name = p.curToken.Literal
		p.next()
	default:
		return nil, &SyntaxError{
			Message: fmt.Sprintf("expected a type, got %s %q", p.curToken.Type, p.curToken.Literal),
			Pos:     p.curToken.Pos,
		}
	}
	var typ ast.TypeNode = &ast.SimpleType{BaseNode: ast.BaseNode{Token: tok}, Name: name}
	for p.curIs(token.LBRACKET) {
		brTok := p.curToken
		p.next()
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		typ = &ast.ArrayTypeNode{BaseNode: ast.BaseNode{Token: brTok}, Elem: typ}
	}
	return typ, nil
}

// looksLikeType reports whether the current token can start a type (used to
// disambiguate a leading-type form, e.g. in for-loop headers, from a bare
// expression).
func (p *Parser) looksLikeType() bool {
	switch p.curToken.Type {
	case token.VOID, token.BOOL, token.INT32, token.FLOAT32, token.STRINGT, token.VEC2, token.VEC3:
		return true
	case token.IDENT:
		// An identifier starts a type only when immediately followed by
		// another identifier (the variable name) — "Boid o", not "o = 1".
		return p.peekIs(token.IDENT)
	default:
		return false
	}
}
