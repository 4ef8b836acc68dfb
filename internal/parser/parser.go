package parser

import (
	"github.com/roxlang/rox/internal/ast"
	"github.com/roxlang/rox/internal/config"
	"github.com/roxlang/rox/internal/diagnostics"
	"github.com/roxlang/rox/internal/token"
)

// Operator precedence, low to high.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // = += -= *= /= %= &= |= ^=
	LOGIC_OR    // or
	LOGIC_AND   // and
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	EQUALITY    // == !=
	COMPARISON  // < <= > >=
	TERM        // + -
	FACTOR      // * / %
	PREFIX      // -x !x
	CALL        // f(x) obj.name obj[key]
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:         ASSIGNMENT,
	token.PLUS_ASSIGN:    ASSIGNMENT,
	token.MINUS_ASSIGN:   ASSIGNMENT,
	token.STAR_ASSIGN:    ASSIGNMENT,
	token.SLASH_ASSIGN:   ASSIGNMENT,
	token.PERCENT_ASSIGN: ASSIGNMENT,
	token.AMP_ASSIGN:     ASSIGNMENT,
	token.PIPE_ASSIGN:    ASSIGNMENT,
	token.CARET_ASSIGN:   ASSIGNMENT,
	token.OR:             LOGIC_OR,
	token.AND:            LOGIC_AND,
	token.PIPE:           BIT_OR,
	token.CARET:          BIT_XOR,
	token.AMP:            BIT_AND,
	token.EQ:             EQUALITY,
	token.NOT_EQ:         EQUALITY,
	token.LT:             COMPARISON,
	token.LT_EQ:          COMPARISON,
	token.GT:             COMPARISON,
	token.GT_EQ:          COMPARISON,
	token.PLUS:           TERM,
	token.MINUS:          TERM,
	token.STAR:           FACTOR,
	token.SLASH:          FACTOR,
	token.PERCENT:        FACTOR,
	token.LPAREN:         CALL,
	token.DOT:            CALL,
	token.LBRACKET:       CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	errors []*diagnostics.Diagnostic

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	// exprCount mints the ExprID of every expression node, in parse order.
	exprCount ast.ExprID

	depth     int // expression nesting, guarded against runaway recursion
	loopDepth int // enclosing loops, for break/continue checks
	funDepth  int // enclosing function bodies, for return checks
	nesting   int // enclosing blocks, for export placement checks
}

func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.NUMBER:   p.parseNumberLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBooleanLiteral,
		token.FALSE:    p.parseBooleanLiteral,
		token.NIL:      p.parseNilLiteral,
		token.BANG:     p.parsePrefixExpression,
		token.MINUS:    p.parsePrefixExpression,
		token.LPAREN:   p.parseGroupedExpression,
		token.LBRACKET: p.parseListLiteral,
		token.LBRACE:   p.parseDictLiteral,
		token.THIS:     p.parseThisExpression,
		token.SUPER:    p.parseSuperExpression,
		token.FUN:      p.parseLambdaLiteral,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:           p.parseInfixExpression,
		token.MINUS:          p.parseInfixExpression,
		token.STAR:           p.parseInfixExpression,
		token.SLASH:          p.parseInfixExpression,
		token.PERCENT:        p.parseInfixExpression,
		token.AMP:            p.parseInfixExpression,
		token.PIPE:           p.parseInfixExpression,
		token.CARET:          p.parseInfixExpression,
		token.EQ:             p.parseInfixExpression,
		token.NOT_EQ:         p.parseInfixExpression,
		token.LT:             p.parseInfixExpression,
		token.LT_EQ:          p.parseInfixExpression,
		token.GT:             p.parseInfixExpression,
		token.GT_EQ:          p.parseInfixExpression,
		token.AND:            p.parseInfixExpression,
		token.OR:             p.parseInfixExpression,
		token.ASSIGN:         p.parseAssignExpression,
		token.PLUS_ASSIGN:    p.parseCompoundAssign,
		token.MINUS_ASSIGN:   p.parseCompoundAssign,
		token.STAR_ASSIGN:    p.parseCompoundAssign,
		token.SLASH_ASSIGN:   p.parseCompoundAssign,
		token.PERCENT_ASSIGN: p.parseCompoundAssign,
		token.AMP_ASSIGN:     p.parseCompoundAssign,
		token.PIPE_ASSIGN:    p.parseCompoundAssign,
		token.CARET_ASSIGN:   p.parseCompoundAssign,
		token.LPAREN:         p.parseCallExpression,
		token.DOT:            p.parsePropertyExpression,
		token.LBRACKET:       p.parseIndexExpression,
	}

	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

// ParseProgram consumes the token stream and returns the program; diagnostics
// accumulate on the parser and are read through Errors. The AST is complete
// for every statement that parsed cleanly; statements with errors are dropped
// after recovery.
func (p *Parser) ParseProgram(path string) *ast.Program {
	program := &ast.Program{File: path}
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMI) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
			p.nextToken()
		} else {
			p.synchronize()
		}
	}
	return program
}

// Errors returns the diagnostics collected while parsing.
func (p *Parser) Errors() []*diagnostics.Diagnostic {
	return p.errors
}

// ExprCount returns how many expression ids have been minted. Exposed so the
// REPL can keep ids unique across successive parses.
func (p *Parser) ExprCount() ast.ExprID {
	return p.exprCount
}

// SetExprBase offsets the id counter, for incremental parsing.
func (p *Parser) SetExprBase(base ast.ExprID) {
	p.exprCount = base
}

func (p *Parser) nextID() ast.ExprID {
	p.exprCount++
	return p.exprCount
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else if len(p.tokens) > 0 {
		p.peekToken = p.tokens[len(p.tokens)-1] // EOF
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances over the expected token type or reports P001.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.errors = append(p.errors, diagnostics.NewError(
		diagnostics.ErrP001,
		p.peekToken,
		"expected %q, got %q", string(t), describeToken(p.peekToken),
	))
}

func (p *Parser) errorAt(code diagnostics.Code, tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.NewError(code, tok, format, args...))
}

// expectIdent advances over an identifier, reporting reserved-word misuse
// separately from plain unexpected tokens.
func (p *Parser) expectIdent() bool {
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		return true
	}
	if token.IsKeyword(p.peekToken.Lexeme) {
		p.errorAt(diagnostics.ErrP007, p.peekToken, "reserved word %q cannot be used as an identifier", p.peekToken.Lexeme)
		p.nextToken()
		return false
	}
	p.peekError(token.IDENT)
	return false
}

func describeToken(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return tok.Lexeme
}

// synchronize discards tokens up to the next statement boundary so one syntax
// error does not cascade.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMI) {
			p.nextToken()
			return
		}
		switch p.peekToken.Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE,
			token.PRINT, token.RETURN, token.TRY, token.THROW, token.EXPORT,
			token.BREAK, token.CONTINUE:
			p.nextToken()
			return
		}
		p.nextToken()
	}
}

// expectSemi consumes the statement-terminating semicolon.
func (p *Parser) expectSemi() bool {
	return p.expectPeek(token.SEMI)
}

func (p *Parser) maxDepthExceeded() bool {
	if p.depth <= config.MaxRecursionDepth {
		return false
	}
	p.errorAt(diagnostics.ErrP006, p.curToken, "expression too complex: recursion depth limit exceeded")
	return true
}
