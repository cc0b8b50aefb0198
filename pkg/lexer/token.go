package lexer

import (
	"fmt"

	"caesar/interpreter-go/pkg/diag"
)

// TokenType represents the type of a token.
type TokenType string

const (
	// Literals
	INTEGER TokenType = "INTEGER"
	FLOAT   TokenType = "FLOAT"
	STRING  TokenType = "STRING"

	IDENTIFIER TokenType = "IDENTIFIER"

	// Keywords
	IF       TokenType = "IF"
	ELIF     TokenType = "ELIF"
	ELSE     TokenType = "ELSE"
	WHILE    TokenType = "WHILE"
	FOR      TokenType = "FOR"
	IN       TokenType = "IN"
	DEF      TokenType = "DEF"
	CLASS    TokenType = "CLASS"
	RETURN   TokenType = "RETURN"
	BREAK    TokenType = "BREAK"
	CONTINUE TokenType = "CONTINUE"
	PASS     TokenType = "PASS"
	AND      TokenType = "AND"
	OR       TokenType = "OR"
	NOT      TokenType = "NOT"
	IS       TokenType = "IS"
	NONE     TokenType = "NONE"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"

	// Operators
	PLUS         TokenType = "+"
	MINUS        TokenType = "-"
	STAR         TokenType = "*"
	SLASH        TokenType = "/"
	FLOOR_DIVIDE TokenType = "//"
	PERCENT      TokenType = "%"
	POWER        TokenType = "**"

	ASSIGN       TokenType = "="
	PLUS_ASSIGN  TokenType = "+="
	MINUS_ASSIGN TokenType = "-="
	STAR_ASSIGN  TokenType = "*="
	SLASH_ASSIGN TokenType = "/="

	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LT     TokenType = "<"
	LE     TokenType = "<="
	GT     TokenType = ">"
	GE     TokenType = ">="

	// Delimiters
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	COMMA     TokenType = ","
	COLON     TokenType = ":"
	SEMICOLON TokenType = ";"
	DOT       TokenType = "."

	// Block structure
	NEWLINE TokenType = "NEWLINE"
	INDENT  TokenType = "INDENT"
	DEDENT  TokenType = "DEDENT"
	END     TokenType = "END"
)

var keywords = map[string]TokenType{
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"def":      DEF,
	"class":    CLASS,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"pass":     PASS,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"is":       IS,
	"None":     NONE,
	"True":     TRUE,
	"False":    FALSE,
}

// twoCharOperators is consulted before the single-character table so that
// "**" never lexes as two stars.
var twoCharOperators = map[string]TokenType{
	"**": POWER,
	"//": FLOOR_DIVIDE,
	"==": EQ,
	"!=": NOT_EQ,
	"<=": LE,
	">=": GE,
	"+=": PLUS_ASSIGN,
	"-=": MINUS_ASSIGN,
	"*=": STAR_ASSIGN,
	"/=": SLASH_ASSIGN,
}

var oneCharOperators = map[byte]TokenType{
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'%': PERCENT,
	'=': ASSIGN,
	'<': LT,
	'>': GT,
	'(': LPAREN,
	')': RPAREN,
	'[': LBRACKET,
	']': RBRACKET,
	'{': LBRACE,
	'}': RBRACE,
	',': COMMA,
	':': COLON,
	';': SEMICOLON,
	'.': DOT,
}

// LookupIdent returns the keyword type for ident, or IDENTIFIER.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENTIFIER
}

// IsStructural reports whether t is a synthesized block-structure token.
func (t TokenType) IsStructural() bool {
	switch t {
	case NEWLINE, INDENT, DEDENT, END:
		return true
	default:
		return false
	}
}

// Token is a lexical token. Text holds the decoded value for strings and the
// source spelling for everything else.
type Token struct {
	Type TokenType
	Text string
	Pos  diag.Position
}

func (t Token) String() string {
	if t.Type.IsStructural() {
		return fmt.Sprintf("%s@%s", t.Type, t.Pos)
	}
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Text, t.Pos)
}

// Describe returns the text a diagnostic should quote for t.
func (t Token) Describe() string {
	switch t.Type {
	case NEWLINE:
		return "newline"
	case INDENT:
		return "indent"
	case DEDENT:
		return "dedent"
	case END:
		return "end of input"
	default:
		return t.Text
	}
}
