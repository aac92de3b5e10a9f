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

	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/token"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.SIMULATE:
		return p.parseSimulateStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		if p.looksLikeType() {
			return p.parseVarDeclarationStatement()
		}
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseBlockStatement() (*ast.BlockStatement, error) {
	tok, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.BlockStatement{StmtBase: ast.StmtBase{BaseNode: ast.BaseNode{Token: tok}}}
	for !p.curIs(token.RBRACE) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseVarDeclarationStatement() (*ast.VarDeclarationStatement, error) {
	tok := p.curToken
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var init ast.Expression
	if p.curIs(token.ASSIGN) {
		p.next()
		init, err = p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.VarDeclarationStatement{
		StmtBase:    ast.StmtBase{BaseNode: ast.BaseNode{Token: tok}},
		VarType:     typ,
		Name:        ast.NewVar(name.Literal),
		Initializer: init,
	}, nil
}

func (p *Parser) parseIfStatement() (*ast.IfStatement, error) {
	tok := p.curToken
	p.next() // 'if'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{StmtBase: ast.StmtBase{BaseNode: ast.BaseNode{Token: tok}}, Cond: cond, Then: then}
	if p.curIs(token.ELSE) {
		p.next()
		stmt.Else, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhileStatement() (*ast.WhileStatement, error) {
	tok := p.curToken
	p.next() // 'while'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{StmtBase: ast.StmtBase{BaseNode: ast.BaseNode{Token: tok}}, Cond: cond, Body: body}, nil
}

// parseForStatement parses all three surface forms sharing one head syntax,
// "for ( type name in <source> )", distinguishing the source by its shape:
// "a..b" is range, a bare "near(...)" call is neighborhood, anything else is
// a collection iteration.
func (p *Parser) parseForStatement() (*ast.ForStatement, error) {
	tok := p.curToken
	p.next() // 'for'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var varType ast.TypeNode
	var err error
	if p.looksLikeType() {
		varType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}

	stmt := &ast.ForStatement{
		StmtBase: ast.StmtBase{BaseNode: ast.BaseNode{Token: tok}},
		VarType:  varType,
		Var:      ast.NewVar(name.Literal),
	}

	first, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if p.curIs(token.DOTDOT) {
		p.next()
		end, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Kind = ast.ForRange
		stmt.Start = first
		stmt.End = end
	} else if call, ok := first.(*ast.CallExpression); ok && call.Name == "near" {
		stmt.Kind = ast.ForNear
		if len(call.Args) != 2 {
			return nil, &SyntaxError{Message: "near() takes exactly 2 arguments", Pos: call.Pos()}
		}
		stmt.Self = call.Args[0].Expr
		stmt.Radius = call.Args[1].Expr
	} else {
		stmt.Kind = ast.ForCollection
		stmt.Collection = first
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	stmt.Body, err = p.parseStatement()
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseSimulateStatement() (*ast.SimulateStatement, error) {
	tok := p.curToken
	p.next() // 'simulate'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	steps, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.SimulateStatement{StmtBase: ast.StmtBase{BaseNode: ast.BaseNode{Token: tok}}, Steps: steps}, nil
}

func (p *Parser) parseReturnStatement() (*ast.ReturnStatement, error) {
	tok := p.curToken
	p.next() // 'return'
	stmt := &ast.ReturnStatement{StmtBase: ast.StmtBase{BaseNode: ast.BaseNode{Token: tok}}}
	if !p.curIs(token.SEMI) {
		val, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Value = val
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseSimpleStatement handles the remaining statement forms that start with
// a bare expression: plain expression statements, assignments and
// compound-assignments.
func (p *Parser) parseSimpleStatement() (ast.Statement, error) {
	tok := p.curToken
	left, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	var stmt ast.Statement
	switch p.curToken.Type {
	case token.ASSIGN:
		p.next()
		right, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt = &ast.AssignStatement{StmtBase: ast.StmtBase{BaseNode: ast.BaseNode{Token: tok}}, Left: left, Right: right}
	case token.PLUS_EQ, token.MINUS_EQ, token.MUL_EQ, token.DIV_EQ:
		op := compoundOp(p.curToken.Type)
		p.next()
		right, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt = &ast.AssignOpStatement{StmtBase: ast.StmtBase{BaseNode: ast.BaseNode{Token: tok}}, Op: op, Left: left, Right: right}
	default:
		stmt = &ast.ExpressionStatement{StmtBase: ast.StmtBase{BaseNode: ast.BaseNode{Token: tok}}, Expr: left}
	}

	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return stmt, nil
}

func compoundOp(t token.Type) ast.BinaryOp {
	switch t {
	case token.PLUS_EQ:
		return ast.Add
	case token.MINUS_EQ:
		return ast.Sub
	case token.MUL_EQ:
		return ast.Mul
	case token.DIV_EQ:
		return ast.Div
	default:
		panic(fmt.Sprintf("parser: %s is not a compound-assignment operator", t))
	}
}
