package parser

import (
	"strconv"

	"github.com/roxlang/rox/internal/ast"
	"github.com/roxlang/rox/internal/diagnostics"
	"github.com/roxlang/rox/internal/token"
)

// parseExpression is entered with curToken on the expression's first token and
// leaves it on the last token; the Pratt loop drives infix parsing off the
// peek token.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.maxDepthExceeded() {
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorAt(diagnostics.ErrP001, p.curToken, "unexpected %q in expression", describeToken(p.curToken))
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		nextExp := infix(leftExp)
		if nextExp == nil {
			return nil
		}
		leftExp = nextExp
	}

	return leftExp
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, ID: p.nextID(), Value: p.curToken.Lexeme}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Lexeme, 64)
	if err != nil {
		p.errorAt(diagnostics.ErrP001, p.curToken, "could not parse %q as a number", p.curToken.Lexeme)
		return nil
	}
	return &ast.NumberLiteral{Token: p.curToken, ID: p.nextID(), Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, ID: p.nextID(), Value: p.curToken.Lexeme}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, ID: p.nextID(), Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken, ID: p.nextID()}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		ID:       p.nextID(),
		Operator: p.curToken.Lexeme,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		ID:       p.nextID(),
		Left:     left,
		Operator: p.curToken.Lexeme,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

// parseAssignExpression handles '='. Assignment is right-associative and its
// target must be an identifier, a property or an index expression.
func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	if !isAssignable(left) {
		p.errorAt(diagnostics.ErrP005, p.curToken, "invalid assignment target")
		return nil
	}
	expression := &ast.AssignExpression{
		Token:  p.curToken,
		ID:     p.nextID(),
		Target: left,
	}
	p.nextToken()
	expression.Value = p.parseExpression(ASSIGNMENT - 1)
	if expression.Value == nil {
		return nil
	}
	return expression
}

// parseCompoundAssign desugars 'x op= v' into 'x = x op v'. The target node is
// shared between the write and the read, so both sides resolve to the same
// binding.
func (p *Parser) parseCompoundAssign(left ast.Expression) ast.Expression {
	if !isAssignable(left) {
		p.errorAt(diagnostics.ErrP005, p.curToken, "invalid assignment target")
		return nil
	}
	opToken := p.curToken
	baseOp := opToken.Lexeme[:len(opToken.Lexeme)-1]

	expression := &ast.AssignExpression{
		Token:  opToken,
		ID:     p.nextID(),
		Target: left,
	}
	p.nextToken()
	right := p.parseExpression(ASSIGNMENT - 1)
	if right == nil {
		return nil
	}
	expression.Value = &ast.InfixExpression{
		Token:    opToken,
		ID:       p.nextID(),
		Left:     left,
		Operator: baseOp,
		Right:    right,
	}
	return expression
}

func isAssignable(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.PropertyExpression, *ast.IndexExpression:
		return true
	}
	return false
}

// parseGroupedExpression disambiguates '(expr)' grouping from '(a, b)' tuple
// literals: any comma before the closing paren makes it a tuple.
func (p *Parser) parseGroupedExpression() ast.Expression {
	lparen := p.curToken
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.TupleLiteral{Token: lparen, ID: p.nextID()}
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}

	if !p.peekTokenIs(token.COMMA) {
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return first
	}

	tuple := &ast.TupleLiteral{Token: lparen, ID: p.nextID(), Elements: []ast.Expression{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		el := p.parseExpression(LOWEST)
		if el == nil {
			return nil
		}
		tuple.Elements = append(tuple.Elements, el)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return tuple
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken, ID: p.nextID()}
	elements, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	list.Elements = elements
	return list
}

// parseExpressionList parses a comma-separated list up to the end token, with
// curToken on the opening delimiter. Leaves curToken on the end token.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}
	for {
		p.nextToken()
		el := p.parseExpression(LOWEST)
		if el == nil {
			return nil, false
		}
		list = append(list, el)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

func (p *Parser) parseDictLiteral() ast.Expression {
	dict := &ast.DictLiteral{Token: p.curToken, ID: p.nextID()}
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return dict
	}
	for {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if key == nil {
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		dict.Pairs = append(dict.Pairs, ast.DictEntry{Key: key, Value: value})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return dict
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, ID: p.nextID(), Callee: callee}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	call.Arguments = args
	return call
}

func (p *Parser) parsePropertyExpression(object ast.Expression) ast.Expression {
	if !p.expectIdent() {
		return nil
	}
	return &ast.PropertyExpression{
		Token:  p.curToken,
		ID:     p.nextID(),
		Object: object,
		Name:   p.curToken.Lexeme,
	}
}

func (p *Parser) parseIndexExpression(object ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, ID: p.nextID(), Object: object}
	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	if exp.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return exp
}

func (p *Parser) parseThisExpression() ast.Expression {
	return &ast.ThisExpression{Token: p.curToken, ID: p.nextID()}
}

func (p *Parser) parseSuperExpression() ast.Expression {
	exp := &ast.SuperExpression{Token: p.curToken, ID: p.nextID()}
	if !p.expectPeek(token.DOT) {
		return nil
	}
	if !p.expectIdent() {
		return nil
	}
	exp.Method = p.curToken.Lexeme
	return exp
}

func (p *Parser) parseLambdaLiteral() ast.Expression {
	lambda := &ast.LambdaLiteral{Token: p.curToken, ID: p.nextID()}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParameterList()
	if !ok {
		return nil
	}
	lambda.Parameters = params

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	lambda.Body = p.parseFunctionBody()
	if lambda.Body == nil {
		return nil
	}
	return lambda
}
