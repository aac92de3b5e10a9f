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

package parser

import (
	"fmt"
	"strconv"

	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/token"
)

// Precedence levels, lowest to highest.
const (
	LOWEST int = iota
	TERNARY
	LOGIC_OR
	LOGIC_AND
	EQUALITY
	RELATIONAL
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POSTFIX
)

var precedences = map[token.Type]int{
	token.QUESTION: TERNARY,
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.EQ:       EQUALITY,
	token.NOT_EQ:   EQUALITY,
	token.LT:       RELATIONAL,
	token.GT:       RELATIONAL,
	token.LT_EQ:    RELATIONAL,
	token.GT_EQ:    RELATIONAL,
	token.PLUS:     ADDITIVE,
	token.MINUS:    ADDITIVE,
	token.ASTERISK: MULTIPLICATIVE,
	token.SLASH:    MULTIPLICATIVE,
	token.DOT:      POSTFIX,
	token.LBRACKET: POSTFIX,
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for !p.curIs(token.SEMI) && precedence < p.curPrecedenceAfterLeft() {
		switch p.curToken.Type {
		case token.QUESTION:
			left, err = p.parseTernary(left)
		case token.DOT:
			left, err = p.parseMemberAccess(left)
		case token.LBRACKET:
			left, err = p.parseArrayAccess(left)
		default:
			left, err = p.parseBinary(left)
		}
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// curPrecedenceAfterLeft looks at the current token (the operator
// immediately following an already-parsed left operand) instead of the
// "peek" token, since parseExpression is entered with curToken already
// sitting on the next operator.
func (p *Parser) curPrecedenceAfterLeft() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parsePrefix() (ast.Expression, error) {
	tok := p.curToken
	switch tok.Type {
	case token.INT:
		p.next()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Message: fmt.Sprintf("invalid integer literal %q", tok.Literal), Pos: tok.Pos}
		}
		return &ast.IntLiteral{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, Value: v}, nil
	case token.FLOAT:
		p.next()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &SyntaxError{Message: fmt.Sprintf("invalid float literal %q", tok.Literal), Pos: tok.Pos}
		}
		return &ast.FloatLiteral{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, Value: v}, nil
	case token.TRUE, token.FALSE:
		p.next()
		return &ast.BoolLiteral{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, Value: tok.Type == token.TRUE}, nil
	case token.STRING:
		p.next()
		return &ast.StringLiteral{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, Value: tok.Literal}, nil
	case token.IDENT:
		return p.parseIdentOrCallOrCreation()
	case token.VEC2, token.VEC3:
		p.next()
		if !p.curIs(token.LPAREN) {
			return nil, &SyntaxError{
				Message: fmt.Sprintf("expected %s(...) constructor call, got %s %q", tok.Literal, p.curToken.Type, p.curToken.Literal),
				Pos:     p.curToken.Pos,
			}
		}
		return p.parseCall(tok, tok.Literal)
	case token.LPAREN:
		p.next()
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBRACKET:
		return p.parseArrayInit()
	case token.NEW:
		return p.parseNewArray()
	case token.MINUS, token.PLUS, token.BANG:
		return p.parseUnary()
	default:
		return nil, &SyntaxError{
			Message: fmt.Sprintf("unexpected token %s %q", tok.Type, tok.Literal),
			Pos:     tok.Pos,
		}
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	tok := p.curToken
	var op ast.UnaryOp
	switch tok.Type {
	case token.PLUS:
		op = ast.UnaryPlus
	case token.MINUS:
		op = ast.UnaryMinus
	case token.BANG:
		op = ast.UnaryNot
	}
	p.next()
	operand, err := p.parseExpression(UNARY)
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOpExpression{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, Op: op, Expr: operand}, nil
}

// parseIdentOrCallOrCreation disambiguates a leading identifier into a bare
// variable use, a call "name(args)", or an agent creation "Name { inits }".
func (p *Parser) parseIdentOrCallOrCreation() (ast.Expression, error) {
	tok := p.curToken
	name := tok.Literal
	p.next()

	switch p.curToken.Type {
	case token.LPAREN:
		return p.parseCall(tok, name)
	case token.LBRACE:
		return p.parseAgentCreation(tok, name)
	default:
		return &ast.VarExpression{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, Var: ast.NewVar(name)}, nil
	}
}

func (p *Parser) parseCall(tok token.Token, name string) (ast.Expression, error) {
	p.next() // '('
	var args []*ast.Arg
	for !p.curIs(token.RPAREN) {
		if len(args) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		args = append(args, &ast.Arg{Expr: arg})
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.CallExpression{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, Name: name, Args: args}, nil
}

func (p *Parser) parseAgentCreation(tok token.Token, typeName string) (ast.Expression, error) {
	p.next() // '{'
	expr := &ast.AgentCreationExpression{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, AgentTypeName: typeName}
	for !p.curIs(token.RBRACE) {
		if len(expr.Inits) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		memberTok := p.curToken
		member, err := p.expect(token.IDENT)
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
		expr.Inits = append(expr.Inits, &ast.MemberInitEntry{BaseNode: ast.BaseNode{Token: memberTok}, Member: member.Literal, Value: value})
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseArrayInit() (ast.Expression, error) {
	tok := p.curToken
	p.next() // '['
	expr := &ast.ArrayInitExpression{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}}
	for !p.curIs(token.RBRACKET) {
		if len(expr.Elems) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		elem, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		expr.Elems = append(expr.Elems, elem)
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseNewArray() (ast.Expression, error) {
	tok := p.curToken
	p.next() // 'new'
	elemType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACKET); err != nil {
		return nil, err
	}
	size, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.NewArrayExpression{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, ElemType: elemType, SizeExpr: size}, nil
}

func (p *Parser) parseTernary(cond ast.Expression) (ast.Expression, error) {
	tok := p.curToken
	p.next() // '?'
	ifExpr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseExpression(TERNARY)
	if err != nil {
		return nil, err
	}
	return &ast.TernaryExpression{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, Cond: cond, If: ifExpr, Else: elseExpr}, nil
}

func (p *Parser) parseMemberAccess(left ast.Expression) (ast.Expression, error) {
	tok := p.curToken
	p.next() // '.'
	member, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.MemberAccessExpression{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, Expr: left, Member: member.Literal}, nil
}

func (p *Parser) parseArrayAccess(left ast.Expression) (ast.Expression, error) {
	tok := p.curToken
	p.next() // '['
	index, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ArrayAccessExpression{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, Expr: left, Index: index}, nil
}

var binaryOps = map[token.Type]ast.BinaryOp{
	token.PLUS:     ast.Add,
	token.MINUS:    ast.Sub,
	token.ASTERISK: ast.Mul,
	token.SLASH:    ast.Div,
	token.EQ:       ast.Equal,
	token.NOT_EQ:   ast.NotEqual,
	token.LT:       ast.Less,
	token.GT:       ast.Greater,
	token.LT_EQ:    ast.LessEqual,
	token.GT_EQ:    ast.GreaterEqual,
	token.AND:      ast.LogAnd,
	token.OR:       ast.LogOr,
}

func (p *Parser) parseBinary(left ast.Expression) (ast.Expression, error) {
	tok := p.curToken
	op, ok := binaryOps[tok.Type]
	if !ok {
		return nil, &SyntaxError{Message: fmt.Sprintf("unexpected operator %s %q", tok.Type, tok.Literal), Pos: tok.Pos}
	}
	prec := precedences[tok.Type]
	p.next()
	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOpExpression{ExprBase: ast.ExprBase{BaseNode: ast.BaseNode{Token: tok}}, Op: op, Left: left, Right: right}, nil
}
