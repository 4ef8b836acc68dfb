package parser

import (
	"github.com/roxlang/rox/internal/ast"
	"github.com/roxlang/rox/internal/diagnostics"
	"github.com/roxlang/rox/internal/token"
)

// Every statement parser is entered with curToken on the statement's first
// token and leaves it on the statement's last token (';' or '}'); the caller
// advances.

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.VAR:
		return p.parseVarStatement()
	case token.FUN:
		// 'fun' followed by a name declares a function; otherwise it is a
		// lambda in expression position.
		if p.peekTokenIs(token.IDENT) {
			return p.parseFunctionStatement()
		}
		return p.parseExpressionStatement()
	case token.CLASS:
		return p.parseClassStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.PRINT:
		return p.parsePrintStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.EXPORT:
		return p.parseExportStatement()
	case token.LBRACE:
		return p.parseBlockStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVarStatement() *ast.VarStatement {
	stmt := &ast.VarStatement{Token: p.curToken}
	if !p.expectIdent() {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, ID: p.nextID(), Value: p.curToken.Lexeme}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
	}
	if !p.expectSemi() {
		return nil
	}
	return stmt
}

func (p *Parser) parseFunctionStatement() *ast.FunctionStatement {
	stmt := &ast.FunctionStatement{Token: p.curToken}
	if !p.expectIdent() {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, ID: p.nextID(), Value: p.curToken.Lexeme}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParameterList()
	if !ok {
		return nil
	}
	stmt.Parameters = params

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseFunctionBody()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseFunctionBody parses a function or method body. Loop context does not
// cross the function boundary: a break inside a lambda inside a loop is still
// outside any loop.
func (p *Parser) parseFunctionBody() *ast.BlockStatement {
	enclosingLoops := p.loopDepth
	p.loopDepth = 0
	p.funDepth++
	body := p.parseBlockStatement()
	p.funDepth--
	p.loopDepth = enclosingLoops
	return body
}

// parseParameterList parses '(a, b, c)' with curToken on '(' and leaves it
// on ')'.
func (p *Parser) parseParameterList() ([]*ast.Identifier, bool) {
	var params []*ast.Identifier
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}
	for {
		if !p.expectIdent() {
			return nil, false
		}
		params = append(params, &ast.Identifier{Token: p.curToken, ID: p.nextID(), Value: p.curToken.Lexeme})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseClassStatement() *ast.ClassStatement {
	stmt := &ast.ClassStatement{Token: p.curToken}
	if !p.expectIdent() {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, ID: p.nextID(), Value: p.curToken.Lexeme}

	if p.peekTokenIs(token.LT) {
		p.nextToken()
		if !p.expectIdent() {
			return nil
		}
		stmt.Superclass = &ast.Identifier{Token: p.curToken, ID: p.nextID(), Value: p.curToken.Lexeme}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		method := p.parseMethod()
		if method == nil {
			return nil
		}
		stmt.Methods = append(stmt.Methods, method)
		p.nextToken()
	}
	if !p.curTokenIs(token.RBRACE) {
		p.errorAt(diagnostics.ErrP001, p.curToken, "expected %q to close class body, got %q", "}", describeToken(p.curToken))
		return nil
	}
	return stmt
}

// parseMethod parses 'name(params) { body }' with curToken on the name and
// leaves it on the closing '}'.
func (p *Parser) parseMethod() *ast.FunctionStatement {
	if !p.curTokenIs(token.IDENT) {
		p.errorAt(diagnostics.ErrP001, p.curToken, "expected method name, got %q", describeToken(p.curToken))
		return nil
	}
	stmt := &ast.FunctionStatement{Token: p.curToken}
	stmt.Name = &ast.Identifier{Token: p.curToken, ID: p.nextID(), Value: p.curToken.Lexeme}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParameterList()
	if !ok {
		return nil
	}
	stmt.Parameters = params

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseFunctionBody()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseBlockStatement parses '{ stmts }' with curToken on '{' and leaves it
// on '}'.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nesting++
	defer func() { p.nesting-- }()
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}
	if !p.curTokenIs(token.RBRACE) {
		p.errorAt(diagnostics.ErrP001, p.curToken, "expected %q to close block, got %q", "}", describeToken(p.curToken))
		return nil
	}
	return block
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Then = p.parseStatement()
	if stmt.Then == nil {
		return nil
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Else = p.parseStatement()
		if stmt.Else == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	p.loopDepth++
	stmt.Body = p.parseStatement()
	p.loopDepth--
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	stmt := &ast.ForStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	// Initializer: empty, a var declaration, or an expression statement.
	switch p.peekToken.Type {
	case token.SEMI:
		p.nextToken()
	case token.VAR:
		p.nextToken()
		init := p.parseVarStatement()
		if init == nil {
			return nil
		}
		stmt.Init = init
	default:
		p.nextToken()
		init := p.parseExpressionStatement()
		if init == nil {
			return nil
		}
		stmt.Init = init
	}

	// Condition: empty means run forever.
	if p.peekTokenIs(token.SEMI) {
		p.nextToken()
	} else {
		p.nextToken()
		stmt.Condition = p.parseExpression(LOWEST)
		if stmt.Condition == nil {
			return nil
		}
		if !p.expectPeek(token.SEMI) {
			return nil
		}
	}

	// Step: runs after the body, and on continue.
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		p.nextToken()
		stmt.Step = p.parseExpression(LOWEST)
		if stmt.Step == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	p.nextToken()
	p.loopDepth++
	stmt.Body = p.parseStatement()
	p.loopDepth--
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.funDepth == 0 {
		p.errorAt(diagnostics.ErrP003, p.curToken, "return is only allowed inside function bodies")
		return nil
	}
	if !p.peekTokenIs(token.SEMI) {
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
	}
	if !p.expectSemi() {
		return nil
	}
	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	stmt := &ast.BreakStatement{Token: p.curToken}
	if p.loopDepth == 0 {
		p.errorAt(diagnostics.ErrP002, p.curToken, "break is only allowed inside loops")
		return nil
	}
	if !p.expectSemi() {
		return nil
	}
	return stmt
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	stmt := &ast.ContinueStatement{Token: p.curToken}
	if p.loopDepth == 0 {
		p.errorAt(diagnostics.ErrP002, p.curToken, "continue is only allowed inside loops")
		return nil
	}
	if !p.expectSemi() {
		return nil
	}
	return stmt
}

func (p *Parser) parsePrintStatement() *ast.PrintStatement {
	stmt := &ast.PrintStatement{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expectSemi() {
		return nil
	}
	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	stmt := &ast.TryStatement{Token: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.TryBlock = p.parseBlockStatement()
	if stmt.TryBlock == nil {
		return nil
	}
	if !p.expectPeek(token.CATCH) {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.expectIdent() {
		return nil
	}
	stmt.CatchName = &ast.Identifier{Token: p.curToken, ID: p.nextID(), Value: p.curToken.Lexeme}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.CatchBlock = p.parseBlockStatement()
	if stmt.CatchBlock == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	stmt := &ast.ThrowStatement{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expectSemi() {
		return nil
	}
	return stmt
}

func (p *Parser) parseExportStatement() *ast.ExportStatement {
	stmt := &ast.ExportStatement{Token: p.curToken}
	if p.nesting > 0 || p.funDepth > 0 {
		p.errorAt(diagnostics.ErrP004, p.curToken, "export is only allowed at module top level")
		return nil
	}
	p.nextToken()
	switch p.curToken.Type {
	case token.VAR:
		decl := p.parseVarStatement()
		if decl == nil {
			return nil
		}
		stmt.Decl = decl
	case token.FUN:
		decl := p.parseFunctionStatement()
		if decl == nil {
			return nil
		}
		stmt.Decl = decl
	case token.CLASS:
		decl := p.parseClassStatement()
		if decl == nil {
			return nil
		}
		stmt.Decl = decl
	default:
		p.errorAt(diagnostics.ErrP001, p.curToken, "export expects a var, fun or class declaration, got %q", describeToken(p.curToken))
		return nil
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	if !p.expectSemi() {
		return nil
	}
	return stmt
}
