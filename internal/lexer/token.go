// Package lexer tokenizes Orangensaft source into a span-annotated token
// stream, switching between normal mode and prompt mode as it scans.
package lexer

import "fmt"

// TokenType identifies the lexical class of a Token.
type TokenType int

const (
	TOKEN_EOF TokenType = iota
	TOKEN_ERROR
	TOKEN_NEWLINE
	TOKEN_INDENT
	TOKEN_DEDENT

	// Literals
	TOKEN_IDENT
	TOKEN_INT
	TOKEN_FLOAT
	TOKEN_STRING

	// Keywords
	TOKEN_F
	TOKEN_IF
	TOKEN_ELSE
	TOKEN_FOR
	TOKEN_IN
	TOKEN_RET
	TOKEN_ASSERT
	TOKEN_NOT
	TOKEN_AND
	TOKEN_OR
	TOKEN_TRUE
	TOKEN_FALSE
	TOKEN_NIL

	// Punctuation / operators
	TOKEN_EQUAL_EQUAL
	TOKEN_BANG_EQUAL
	TOKEN_LESS_EQUAL
	TOKEN_GREATER_EQUAL
	TOKEN_LESS
	TOKEN_GREATER
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_STAR
	TOKEN_SLASH
	TOKEN_PERCENT
	TOKEN_EQUAL
	TOKEN_COMMA
	TOKEN_COLON
	TOKEN_DOT
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_LBRACKET
	TOKEN_RBRACKET
	TOKEN_LBRACE
	TOKEN_RBRACE
	TOKEN_PIPE
	TOKEN_QUESTION
	TOKEN_ARROW

	// Prompt-mode tokens
	TOKEN_PROMPT_DOLLAR
	TOKEN_PROMPT_TEXT
	TOKEN_PROMPT_LBRACE
	TOKEN_PROMPT_RBRACE
)

var tokenNames = map[TokenType]string{
	TOKEN_EOF:           "EOF",
	TOKEN_ERROR:         "ERROR",
	TOKEN_NEWLINE:       "NEWLINE",
	TOKEN_INDENT:        "INDENT",
	TOKEN_DEDENT:        "DEDENT",
	TOKEN_IDENT:         "IDENT",
	TOKEN_INT:           "INT",
	TOKEN_FLOAT:         "FLOAT",
	TOKEN_STRING:        "STRING",
	TOKEN_F:             "f",
	TOKEN_IF:            "if",
	TOKEN_ELSE:          "else",
	TOKEN_FOR:           "for",
	TOKEN_IN:            "in",
	TOKEN_RET:           "ret",
	TOKEN_ASSERT:        "assert",
	TOKEN_NOT:           "not",
	TOKEN_AND:           "and",
	TOKEN_OR:            "or",
	TOKEN_TRUE:          "true",
	TOKEN_FALSE:         "false",
	TOKEN_NIL:           "nil",
	TOKEN_EQUAL_EQUAL:   "==",
	TOKEN_BANG_EQUAL:    "!=",
	TOKEN_LESS_EQUAL:    "<=",
	TOKEN_GREATER_EQUAL: ">=",
	TOKEN_LESS:          "<",
	TOKEN_GREATER:       ">",
	TOKEN_PLUS:          "+",
	TOKEN_MINUS:         "-",
	TOKEN_STAR:          "*",
	TOKEN_SLASH:         "/",
	TOKEN_PERCENT:       "%",
	TOKEN_EQUAL:         "=",
	TOKEN_COMMA:         ",",
	TOKEN_COLON:         ":",
	TOKEN_DOT:           ".",
	TOKEN_LPAREN:        "(",
	TOKEN_RPAREN:        ")",
	TOKEN_LBRACKET:      "[",
	TOKEN_RBRACKET:      "]",
	TOKEN_LBRACE:        "{",
	TOKEN_RBRACE:        "}",
	TOKEN_PIPE:          "|",
	TOKEN_QUESTION:      "?",
	TOKEN_ARROW:         "->",
	TOKEN_PROMPT_DOLLAR: "$",
	TOKEN_PROMPT_TEXT:   "PROMPT_TEXT",
	TOKEN_PROMPT_LBRACE: "PROMPT_LBRACE",
	TOKEN_PROMPT_RBRACE: "PROMPT_RBRACE",
}

// Keywords maps identifier spellings to their keyword token type. Schema
// primitives (int, float, bool, string, any; see SchemaWords) are
// deliberately left out of this table: the parser's schema grammar
// recognizes them contextually so that, say, `string` remains usable as an
// ordinary name in expression position.
var Keywords = map[string]TokenType{
	"f":      TOKEN_F,
	"if":     TOKEN_IF,
	"else":   TOKEN_ELSE,
	"for":    TOKEN_FOR,
	"in":     TOKEN_IN,
	"ret":    TOKEN_RET,
	"assert": TOKEN_ASSERT,
	"not":    TOKEN_NOT,
	"and":    TOKEN_AND,
	"or":     TOKEN_OR,
	"true":   TOKEN_TRUE,
	"false":  TOKEN_FALSE,
	"nil":    TOKEN_NIL,
}

// SchemaWords is the set of identifier spellings the parser's schema
// mini-grammar recognizes as primitive schema terms. The rest of the schema
// grammar (list, tuple, object, union) is structural — "[S]", "(S, S)",
// "{name: S}", "S|S" — not additional reserved words, so e.g. `list` and
// `object` remain ordinary identifiers outside schema position. This set is
// a parser-level contextual interpretation; schema words are still plain
// TOKEN_IDENT tokens at the lexer level, per spec.md's keyword list (which
// does not reserve them).
var SchemaWords = map[string]bool{
	"any":    true,
	"int":    true,
	"float":  true,
	"bool":   true,
	"string": true,
}

// String returns the canonical name of a token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Span is a byte-offset and line/column range within one source file.
// Every AST node and diagnostic carries a Span whose range lies inside the
// source text it was built from.
type Span struct {
	File  string
	Start int
	End   int
	Line  int
	Col   int
}

// Token is one lexical unit: a kind, its literal payload (for INT/FLOAT/
// STRING/IDENT/PROMPT_TEXT), and its source span.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{} // int64, float64, string, or nil
	Span    Span
}

// String renders a token for debugging/trace logging.
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s(%v) [%d:%d]", t.Type, t.Literal, t.Span.Line, t.Span.Col)
	}
	return fmt.Sprintf("%s(%s) [%d:%d]", t.Type, t.Lexeme, t.Span.Line, t.Span.Col)
}

// LexError is a lexical-analysis failure with source position.
type LexError struct {
	Message string
	Span    Span
}

// Error implements the error interface.
func (e LexError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Span.File, e.Span.Line, e.Span.Col, e.Message)
}
