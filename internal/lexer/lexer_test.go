package lexer_test

import (
	"testing"

	"github.com/roxlang/rox/internal/lexer"
	"github.com/roxlang/rox/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `var five = 5;
var pi = 3.14;
fun add(x, y) { return x + y; }
if (a <= b and c != nil) { print "ok\n"; }
x += 1; y &= 3; z |= 4; w ^= 5;
[1, 2][0]; {"k": true}; obj.field;
// a comment
while (!done) { break; }
`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.VAR, "var"}, {token.IDENT, "five"}, {token.ASSIGN, "="}, {token.NUMBER, "5"}, {token.SEMI, ";"},
		{token.VAR, "var"}, {token.IDENT, "pi"}, {token.ASSIGN, "="}, {token.NUMBER, "3.14"}, {token.SEMI, ";"},
		{token.FUN, "fun"}, {token.IDENT, "add"}, {token.LPAREN, "("}, {token.IDENT, "x"}, {token.COMMA, ","},
		{token.IDENT, "y"}, {token.RPAREN, ")"}, {token.LBRACE, "{"}, {token.RETURN, "return"},
		{token.IDENT, "x"}, {token.PLUS, "+"}, {token.IDENT, "y"}, {token.SEMI, ";"}, {token.RBRACE, "}"},
		{token.IF, "if"}, {token.LPAREN, "("}, {token.IDENT, "a"}, {token.LT_EQ, "<="}, {token.IDENT, "b"},
		{token.AND, "and"}, {token.IDENT, "c"}, {token.NOT_EQ, "!="}, {token.NIL, "nil"}, {token.RPAREN, ")"},
		{token.LBRACE, "{"}, {token.PRINT, "print"}, {token.STRING, "ok\n"}, {token.SEMI, ";"}, {token.RBRACE, "}"},
		{token.IDENT, "x"}, {token.PLUS_ASSIGN, "+="}, {token.NUMBER, "1"}, {token.SEMI, ";"},
		{token.IDENT, "y"}, {token.AMP_ASSIGN, "&="}, {token.NUMBER, "3"}, {token.SEMI, ";"},
		{token.IDENT, "z"}, {token.PIPE_ASSIGN, "|="}, {token.NUMBER, "4"}, {token.SEMI, ";"},
		{token.IDENT, "w"}, {token.CARET_ASSIGN, "^="}, {token.NUMBER, "5"}, {token.SEMI, ";"},
		{token.LBRACKET, "["}, {token.NUMBER, "1"}, {token.COMMA, ","}, {token.NUMBER, "2"}, {token.RBRACKET, "]"},
		{token.LBRACKET, "["}, {token.NUMBER, "0"}, {token.RBRACKET, "]"}, {token.SEMI, ";"},
		{token.LBRACE, "{"}, {token.STRING, "k"}, {token.COLON, ":"}, {token.TRUE, "true"}, {token.RBRACE, "}"}, {token.SEMI, ";"},
		{token.IDENT, "obj"}, {token.DOT, "."}, {token.IDENT, "field"}, {token.SEMI, ";"},
		{token.WHILE, "while"}, {token.LPAREN, "("}, {token.BANG, "!"}, {token.IDENT, "done"}, {token.RPAREN, ")"},
		{token.LBRACE, "{"}, {token.BREAK, "break"}, {token.SEMI, ";"}, {token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := lexer.New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d]: wrong token type, expected %q, got %q (lexeme %q)",
				i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d]: wrong lexeme, expected %q, got %q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	input := "var a = 1;\n  var b = 2;"
	l := lexer.New(input)

	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	if tokens[0].Line != 1 {
		t.Errorf("first token line: expected 1, got %d", tokens[0].Line)
	}
	// tokens[5] is the second 'var'.
	if tokens[5].Line != 2 {
		t.Errorf("second var line: expected 2, got %d", tokens[5].Line)
	}
	if tokens[5].Column != 3 {
		t.Errorf("second var column: expected 3, got %d", tokens[5].Column)
	}
}

func TestIllegalTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unexpected_character", "var a = @;"},
		{"unterminated_string", `var s = "oops`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lexer.New(tt.input)
			found := false
			for {
				tok := l.NextToken()
				if tok.Type == token.ILLEGAL {
					found = true
				}
				if tok.Type == token.EOF {
					break
				}
			}
			if !found {
				t.Fatalf("expected an ILLEGAL token for %q", tt.input)
			}
		})
	}
}

func TestStringEscapes(t *testing.T) {
	l := lexer.New(`"a\tb\\c\"d"`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("expected STRING, got %q", tok.Type)
	}
	if tok.Lexeme != "a\tb\\c\"d" {
		t.Errorf("wrong decoded value: %q", tok.Lexeme)
	}
}
