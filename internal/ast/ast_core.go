package ast

import (
	"github.com/roxlang/rox/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
// Every expression carries a unique ID minted by the parser; the resolver keys
// its depth table by it.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
	ExprID() ExprID
}

// ExprID is the stable identity of an expression node.
type ExprID int

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string // Source file path
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// ExpressionStatement wraps an expression used in statement position.
type ExpressionStatement struct {
	Token      token.Token // first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}

// PrintStatement represents a print statement.
// print expr;
type PrintStatement struct {
	Token token.Token // The 'print' token
	Value Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Lexeme }
func (ps *PrintStatement) GetToken() token.Token {
	if ps == nil {
		return token.Token{}
	}
	return ps.Token
}

// VarStatement represents a variable declaration with an optional initializer.
// var x = expr;
type VarStatement struct {
	Token token.Token // The 'var' token
	Name  *Identifier
	Value Expression // nil when declared without initializer
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Token.Lexeme }
func (vs *VarStatement) GetToken() token.Token {
	if vs == nil {
		return token.Token{}
	}
	return vs.Token
}

// BlockStatement represents a braced statement list with its own scope.
type BlockStatement struct {
	Token      token.Token // The '{' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token {
	if bs == nil {
		return token.Token{}
	}
	return bs.Token
}

// IfStatement represents a conditional with an optional else branch.
type IfStatement struct {
	Token     token.Token // The 'if' token
	Condition Expression
	Then      Statement
	Else      Statement // nil when absent
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

// WhileStatement represents a while loop.
type WhileStatement struct {
	Token     token.Token // The 'while' token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token {
	if ws == nil {
		return token.Token{}
	}
	return ws.Token
}

// ForStatement represents a C-style for loop. The step stays an explicit
// per-loop action so that continue still executes it.
type ForStatement struct {
	Token     token.Token // The 'for' token
	Init      Statement   // nil, *VarStatement or *ExpressionStatement
	Condition Expression  // nil means always true
	Step      Expression  // nil when absent
	Body      Statement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Lexeme }
func (fs *ForStatement) GetToken() token.Token {
	if fs == nil {
		return token.Token{}
	}
	return fs.Token
}

// BreakStatement breaks out of the nearest enclosing loop.
type BreakStatement struct {
	Token token.Token
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BreakStatement) GetToken() token.Token {
	if bs == nil {
		return token.Token{}
	}
	return bs.Token
}

// ContinueStatement skips to the next iteration of the nearest enclosing loop.
type ContinueStatement struct {
	Token token.Token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Lexeme }
func (cs *ContinueStatement) GetToken() token.Token {
	if cs == nil {
		return token.Token{}
	}
	return cs.Token
}

// ReturnStatement represents a return with an optional value. The token is
// kept so runtime diagnostics can point at the return line.
type ReturnStatement struct {
	Token token.Token // The 'return' token
	Value Expression  // nil for a bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token {
	if rs == nil {
		return token.Token{}
	}
	return rs.Token
}

// FunctionStatement represents a named function declaration, including class
// methods.
type FunctionStatement struct {
	Token      token.Token // The 'fun' token, or the method name token
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Lexeme }
func (fs *FunctionStatement) GetToken() token.Token {
	if fs == nil {
		return token.Token{}
	}
	return fs.Token
}

// ClassStatement represents a class declaration.
// class Name < Super { methods }
type ClassStatement struct {
	Token      token.Token // The 'class' token
	Name       *Identifier
	Superclass *Identifier // nil when the class does not inherit
	Methods    []*FunctionStatement
}

func (cs *ClassStatement) statementNode()       {}
func (cs *ClassStatement) TokenLiteral() string { return cs.Token.Lexeme }
func (cs *ClassStatement) GetToken() token.Token {
	if cs == nil {
		return token.Token{}
	}
	return cs.Token
}

// TryStatement represents try { ... } catch (e) { ... }.
type TryStatement struct {
	Token      token.Token // The 'try' token
	TryBlock   *BlockStatement
	CatchName  *Identifier
	CatchBlock *BlockStatement
}

func (ts *TryStatement) statementNode()       {}
func (ts *TryStatement) TokenLiteral() string { return ts.Token.Lexeme }
func (ts *TryStatement) GetToken() token.Token {
	if ts == nil {
		return token.Token{}
	}
	return ts.Token
}

// ThrowStatement raises a user exception carrying any value.
type ThrowStatement struct {
	Token token.Token // The 'throw' token
	Value Expression
}

func (ts *ThrowStatement) statementNode()       {}
func (ts *ThrowStatement) TokenLiteral() string { return ts.Token.Lexeme }
func (ts *ThrowStatement) GetToken() token.Token {
	if ts == nil {
		return token.Token{}
	}
	return ts.Token
}

// ExportStatement wraps a top-level declaration whose name becomes part of the
// module's export map.
type ExportStatement struct {
	Token token.Token // The 'export' token
	Decl  Statement   // *VarStatement, *FunctionStatement or *ClassStatement
}

func (es *ExportStatement) statementNode()       {}
func (es *ExportStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExportStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}
