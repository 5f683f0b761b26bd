// Package parser implements Orangensaft's recursive-descent parser: tokens
// to a span-annotated AST, including the schema mini-grammar and
// prompt-interpolation parsing.
package parser

import (
	"fmt"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/errors"
	"github.com/orangensaft-lang/orangensaft/internal/lexer"
)

// Parser transforms a token stream into an AST.
type Parser struct {
	tokens    []lexer.Token
	current   int
	file      string
	errs      []errors.CompilerError
	panicMode bool
}

// New creates a Parser over a token stream produced by the lexer.
func New(tokens []lexer.Token, file string) *Parser {
	return &Parser{tokens: tokens, file: file}
}

// Parse parses the token stream and returns the Program AST together with
// any parse errors. Parsing continues past an error via synchronize, so a
// single invocation can surface more than one diagnostic.
func (p *Parser) Parse() (*ast.Program, []errors.CompilerError) {
	start := p.peek().Span
	var stmts []ast.Stmt
	p.skipNewlines()
	for !p.isAtEnd() {
		if stmt := p.parseStmt(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.skipNewlines()
	}
	end := p.previous().Span
	return &ast.Program{Statements: stmts, Sp: joinSpan(start, end)}, p.errs
}

func joinSpan(start, end lexer.Span) ast.Span {
	return ast.Span{File: start.File, Start: start.Start, End: end.End, Line: start.Line, Col: start.Col}
}

func tokSpan(t lexer.Token) ast.Span { return t.Span }

// --- token stream helpers ---

func (p *Parser) isAtEnd() bool { return p.peek().Type == lexer.TOKEN_EOF }

func (p *Parser) peek() lexer.Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.current + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) previous() lexer.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t lexer.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it matches t, otherwise records a
// parse error at the current token's span and returns false.
func (p *Parser) expect(t lexer.TokenType, code, message string) (lexer.Token, bool) {
	if p.check(t) {
		return p.advance(), true
	}
	p.errorAt(p.peek(), code, message)
	return p.peek(), false
}

func (p *Parser) errorAt(tok lexer.Token, code, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.errs = append(p.errs, errors.NewCompilerError(
		"parser", code, message,
		errors.SourceLocation{File: tok.Span.File, Line: tok.Span.Line, Column: tok.Span.Col, Length: tok.Span.End - tok.Span.Start},
		errors.Error,
	))
}

// synchronize discards tokens until a likely statement boundary, so parsing
// can resume after an error instead of cascading.
func (p *Parser) synchronize() {
	p.panicMode = false
	for !p.isAtEnd() {
		if p.previous().Type == lexer.TOKEN_NEWLINE || p.previous().Type == lexer.TOKEN_DEDENT {
			return
		}
		switch p.peek().Type {
		case lexer.TOKEN_F, lexer.TOKEN_IF, lexer.TOKEN_FOR, lexer.TOKEN_RET, lexer.TOKEN_ASSERT:
			return
		}
		p.advance()
	}
}

func (p *Parser) skipNewlines() {
	for p.check(lexer.TOKEN_NEWLINE) {
		p.advance()
	}
}

// --- statements ---

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peek().Type {
	case lexer.TOKEN_F:
		return p.parseFuncDef()
	case lexer.TOKEN_IF:
		return p.parseIf()
	case lexer.TOKEN_FOR:
		return p.parseFor()
	case lexer.TOKEN_RET:
		return p.parseReturn()
	case lexer.TOKEN_ASSERT:
		return p.parseAssert()
	default:
		if p.check(lexer.TOKEN_IDENT) && (p.peekAt(1).Type == lexer.TOKEN_EQUAL || p.peekAt(1).Type == lexer.TOKEN_COLON) {
			return p.parseAssign()
		}
		return p.parseExprStmt()
	}
}

// parseBlock consumes "NEWLINE INDENT stmt+ DEDENT". An INDENT immediately
// followed by DEDENT is an empty-block error.
func (p *Parser) parseBlock() []ast.Stmt {
	p.expect(lexer.TOKEN_NEWLINE, errors.ErrExpectedToken, "expected newline before block")
	indentTok, ok := p.expect(lexer.TOKEN_INDENT, errors.ErrExpectedToken, "expected an indented block")
	if !ok {
		p.synchronize()
		return nil
	}
	if p.check(lexer.TOKEN_DEDENT) {
		p.errorAt(indentTok, errors.ErrEmptyBlock, "block body cannot be empty")
		p.advance()
		return nil
	}
	var stmts []ast.Stmt
	p.skipNewlines()
	for !p.check(lexer.TOKEN_DEDENT) && !p.isAtEnd() {
		if stmt := p.parseStmt(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.skipNewlines()
	}
	p.expect(lexer.TOKEN_DEDENT, errors.ErrExpectedToken, "expected dedent to close block")
	return stmts
}

func (p *Parser) parseFuncDef() ast.Stmt {
	start := p.advance() // 'f'
	nameTok, ok := p.expect(lexer.TOKEN_IDENT, errors.ErrExpectedToken, "expected function name")
	if !ok {
		p.synchronize()
		return nil
	}
	p.expect(lexer.TOKEN_LPAREN, errors.ErrExpectedToken, "expected '(' after function name")

	var params []ast.Param
	seen := map[string]bool{}
	if !p.check(lexer.TOKEN_RPAREN) {
		for {
			pTok, ok := p.expect(lexer.TOKEN_IDENT, errors.ErrExpectedToken, "expected parameter name")
			if !ok {
				break
			}
			if seen[pTok.Lexeme] {
				p.errorAt(pTok, errors.ErrDuplicateParam, fmt.Sprintf("duplicate parameter %q", pTok.Lexeme))
			}
			seen[pTok.Lexeme] = true
			var schema ast.SchemaExpr
			if p.match(lexer.TOKEN_COLON) {
				schema = p.parseSchema()
			}
			params = append(params, ast.Param{Name: pTok.Lexeme, Schema: schema, Sp: tokSpan(pTok)})
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	}
	p.expect(lexer.TOKEN_RPAREN, errors.ErrExpectedToken, "expected ')' after parameters")

	var ret ast.SchemaExpr
	if p.match(lexer.TOKEN_ARROW) {
		ret = p.parseSchema()
	}
	p.expect(lexer.TOKEN_COLON, errors.ErrExpectedToken, "expected ':' before function body")
	body := p.parseBlock()

	return &ast.FuncDef{
		Name: nameTok.Lexeme, Params: params, ReturnType: ret, Body: body,
		Sp: joinSpan(start.Span, p.previous().Span),
	}
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.advance() // 'if'
	cond := p.parseExpression()
	p.expect(lexer.TOKEN_COLON, errors.ErrExpectedToken, "expected ':' after if condition")
	then := p.parseBlock()

	var elseBody []ast.Stmt
	p.skipNewlines()
	if p.check(lexer.TOKEN_ELSE) {
		p.advance()
		p.expect(lexer.TOKEN_COLON, errors.ErrExpectedToken, "expected ':' after else")
		elseBody = p.parseBlock()
	}
	return &ast.If{Cond: cond, Then: then, Else: elseBody, Sp: joinSpan(start.Span, p.previous().Span)}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.advance() // 'for'
	var targets []string
	for {
		tok, ok := p.expect(lexer.TOKEN_IDENT, errors.ErrExpectedToken, "expected loop variable name")
		if !ok {
			break
		}
		targets = append(targets, tok.Lexeme)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}
	p.expect(lexer.TOKEN_IN, errors.ErrExpectedToken, "expected 'in' in for loop")
	iterable := p.parseExpression()
	p.expect(lexer.TOKEN_COLON, errors.ErrExpectedToken, "expected ':' after for clause")
	body := p.parseBlock()
	return &ast.For{Targets: targets, Iterable: iterable, Body: body, Sp: joinSpan(start.Span, p.previous().Span)}
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.advance() // 'ret'
	var value ast.Expr
	if !p.check(lexer.TOKEN_NEWLINE) && !p.isAtEnd() {
		value = p.parseExpression()
	}
	end := p.previous().Span
	p.expect(lexer.TOKEN_NEWLINE, errors.ErrExpectedToken, "expected newline after return statement")
	return &ast.Return{Value: value, Sp: joinSpan(start.Span, end)}
}

func (p *Parser) parseAssert() ast.Stmt {
	start := p.advance() // 'assert'
	value := p.parseExpression()
	end := p.previous().Span
	p.expect(lexer.TOKEN_NEWLINE, errors.ErrExpectedToken, "expected newline after assert statement")
	return &ast.Assert{Value: value, Sp: joinSpan(start.Span, end)}
}

func (p *Parser) parseAssign() ast.Stmt {
	nameTok := p.advance() // IDENT
	var schema ast.SchemaExpr
	if p.match(lexer.TOKEN_COLON) {
		schema = p.parseSchema()
	}
	p.expect(lexer.TOKEN_EQUAL, errors.ErrExpectedToken, "expected '=' in assignment")
	value := p.parseExpression()
	end := p.previous().Span
	p.expect(lexer.TOKEN_NEWLINE, errors.ErrExpectedToken, "expected newline after assignment")
	return &ast.Assign{Name: nameTok.Lexeme, Schema: schema, Value: value, Sp: joinSpan(nameTok.Span, end)}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	startTok := p.peek()
	value := p.parseExpression()
	end := p.previous().Span
	p.expect(lexer.TOKEN_NEWLINE, errors.ErrExpectedToken, "expected newline after expression statement")
	return &ast.ExprStmt{Value: value, Sp: joinSpan(startTok.Span, end)}
}
