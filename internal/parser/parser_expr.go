package parser

import (
	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/errors"
	"github.com/orangensaft-lang/orangensaft/internal/lexer"
)

// binaryPrec returns the precedence of a binary operator per the table in
// spec.md §4.2, and whether t is a binary operator at all. All six levels
// are left-associative; the climbing loop always recurses at prec+1.
func binaryPrec(t lexer.TokenType) (int, bool) {
	switch t {
	case lexer.TOKEN_OR:
		return 1, true
	case lexer.TOKEN_AND:
		return 2, true
	case lexer.TOKEN_EQUAL_EQUAL, lexer.TOKEN_BANG_EQUAL:
		return 3, true
	case lexer.TOKEN_LESS, lexer.TOKEN_LESS_EQUAL, lexer.TOKEN_GREATER, lexer.TOKEN_GREATER_EQUAL:
		return 4, true
	case lexer.TOKEN_PLUS, lexer.TOKEN_MINUS:
		return 5, true
	case lexer.TOKEN_STAR, lexer.TOKEN_SLASH, lexer.TOKEN_PERCENT:
		return 6, true
	default:
		return 0, false
	}
}

func (p *Parser) parseExpression() ast.Expr {
	return p.parseBinaryExpr(1)
}

func (p *Parser) parseBinaryExpr(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		prec, ok := binaryPrec(p.peek().Type)
		if !ok || prec < minPrec {
			break
		}
		opTok := p.advance()
		right := p.parseBinaryExpr(prec + 1)
		left = &ast.BinaryExpr{Op: opTok.Type, Left: left, Right: right, Sp: joinSpan(left.Span(), right.Span())}
	}
	return left
}

// parseUnary handles the right-associative prefix operators `-` and `not`.
func (p *Parser) parseUnary() ast.Expr {
	if p.check(lexer.TOKEN_MINUS) || p.check(lexer.TOKEN_NOT) {
		opTok := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: opTok.Type, Operand: operand, Sp: joinSpan(opTok.Span, operand.Span())}
	}
	return p.parsePostfix(p.parsePrimary())
}

// parsePostfix chains call/index/member/tuple-index operators, left to
// right, binding tighter than any binary operator.
func (p *Parser) parsePostfix(expr ast.Expr) ast.Expr {
	for {
		switch {
		case p.match(lexer.TOKEN_LPAREN):
			var args []ast.Expr
			if !p.check(lexer.TOKEN_RPAREN) {
				for {
					args = append(args, p.parseExpression())
					if !p.match(lexer.TOKEN_COMMA) {
						break
					}
				}
			}
			closeTok, _ := p.expect(lexer.TOKEN_RPAREN, errors.ErrExpectedToken, "expected ')' after call arguments")
			expr = &ast.CallExpr{Callee: expr, Args: args, Sp: joinSpan(expr.Span(), closeTok.Span)}

		case p.match(lexer.TOKEN_LBRACKET):
			idx := p.parseExpression()
			closeTok, _ := p.expect(lexer.TOKEN_RBRACKET, errors.ErrExpectedToken, "expected ']' after index expression")
			expr = &ast.IndexExpr{Object: expr, Index: idx, Sp: joinSpan(expr.Span(), closeTok.Span)}

		case p.match(lexer.TOKEN_DOT):
			if p.check(lexer.TOKEN_INT) {
				tok := p.advance()
				expr = &ast.TupleIndexExpr{Object: expr, Index: int(tok.Literal.(int64)), Sp: joinSpan(expr.Span(), tok.Span)}
			} else {
				tok, _ := p.expect(lexer.TOKEN_IDENT, errors.ErrExpectedToken, "expected field name after '.'")
				expr = &ast.MemberExpr{Object: expr, Name: tok.Lexeme, Sp: joinSpan(expr.Span(), tok.Span)}
			}

		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case lexer.TOKEN_INT:
		p.advance()
		return &ast.IntLit{Value: tok.Literal.(int64), Sp: tokSpan(tok)}
	case lexer.TOKEN_FLOAT:
		p.advance()
		return &ast.FloatLit{Value: tok.Literal.(float64), Sp: tokSpan(tok)}
	case lexer.TOKEN_STRING:
		p.advance()
		return &ast.StringLit{Value: tok.Literal.(string), Sp: tokSpan(tok)}
	case lexer.TOKEN_TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, Sp: tokSpan(tok)}
	case lexer.TOKEN_FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, Sp: tokSpan(tok)}
	case lexer.TOKEN_NIL:
		p.advance()
		return &ast.NilLit{Sp: tokSpan(tok)}
	case lexer.TOKEN_IDENT:
		p.advance()
		return &ast.Ident{Name: tok.Lexeme, Sp: tokSpan(tok)}
	case lexer.TOKEN_LPAREN:
		return p.parseGroupOrTuple()
	case lexer.TOKEN_LBRACKET:
		return p.parseListLit()
	case lexer.TOKEN_LBRACE:
		return p.parseObjectLit()
	case lexer.TOKEN_PROMPT_DOLLAR:
		return p.parsePromptExpr()
	default:
		p.errorAt(tok, errors.ErrUnexpectedToken, "unexpected token in expression: "+tok.Lexeme)
		p.advance()
		return &ast.NilLit{Sp: tokSpan(tok)}
	}
}

// parseGroupOrTuple disambiguates `(e)` (a grouped expression, unwrapped
// with no node of its own) from `(e1, e2, ...)` (a tuple literal, arity >= 2).
func (p *Parser) parseGroupOrTuple() ast.Expr {
	open := p.advance() // '('
	first := p.parseExpression()
	if p.match(lexer.TOKEN_COMMA) {
		elements := []ast.Expr{first}
		for {
			elements = append(elements, p.parseExpression())
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
		closeTok, _ := p.expect(lexer.TOKEN_RPAREN, errors.ErrExpectedToken, "expected ')' after tuple elements")
		return &ast.TupleLit{Elements: elements, Sp: joinSpan(open.Span, closeTok.Span)}
	}
	p.expect(lexer.TOKEN_RPAREN, errors.ErrExpectedToken, "expected ')' after grouped expression")
	return first
}

func (p *Parser) parseListLit() ast.Expr {
	open := p.advance() // '['
	var elements []ast.Expr
	if !p.check(lexer.TOKEN_RBRACKET) {
		for {
			elements = append(elements, p.parseExpression())
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	}
	closeTok, _ := p.expect(lexer.TOKEN_RBRACKET, errors.ErrExpectedToken, "expected ']' after list elements")
	return &ast.ListLit{Elements: elements, Sp: joinSpan(open.Span, closeTok.Span)}
}

func (p *Parser) parseObjectLit() ast.Expr {
	open := p.advance() // '{'
	var fields []ast.ObjectField
	seen := map[string]bool{}
	if !p.check(lexer.TOKEN_RBRACE) {
		for {
			nameTok, ok := p.expect(lexer.TOKEN_IDENT, errors.ErrExpectedToken, "expected field name in object literal")
			if !ok {
				break
			}
			if seen[nameTok.Lexeme] {
				p.errorAt(nameTok, errors.ErrDuplicateKey, "duplicate object-literal key: "+nameTok.Lexeme)
			}
			seen[nameTok.Lexeme] = true
			p.expect(lexer.TOKEN_COLON, errors.ErrExpectedToken, "expected ':' after object field name")
			value := p.parseExpression()
			fields = append(fields, ast.ObjectField{Name: nameTok.Lexeme, Value: value, Sp: joinSpan(nameTok.Span, value.Span())})
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	}
	closeTok, _ := p.expect(lexer.TOKEN_RBRACE, errors.ErrExpectedToken, "expected '}' after object fields")
	return &ast.ObjectLit{Fields: fields, Sp: joinSpan(open.Span, closeTok.Span)}
}

// parsePromptExpr parses `$ (TEXT | "{" expr "}")* $`. The lexer has already
// split prompt content into PROMPT_TEXT / PROMPT_LBRACE / PROMPT_RBRACE /
// PROMPT_DOLLAR tokens; the parser just assembles the parts.
func (p *Parser) parsePromptExpr() ast.Expr {
	open := p.advance() // opening PROMPT_DOLLAR
	var parts []ast.PromptPart
	for !p.check(lexer.TOKEN_PROMPT_DOLLAR) && !p.isAtEnd() {
		switch {
		case p.check(lexer.TOKEN_PROMPT_TEXT):
			tok := p.advance()
			parts = append(parts, ast.PromptPart{Text: tok.Literal.(string)})
		case p.check(lexer.TOKEN_PROMPT_LBRACE):
			p.advance()
			expr := p.parseExpression()
			p.expect(lexer.TOKEN_PROMPT_RBRACE, errors.ErrExpectedToken, "expected '}' to close prompt interpolation")
			parts = append(parts, ast.PromptPart{Expr: expr})
		default:
			p.errorAt(p.peek(), errors.ErrUnexpectedToken, "unexpected token inside prompt expression")
			p.advance()
		}
	}
	closeTok, _ := p.expect(lexer.TOKEN_PROMPT_DOLLAR, errors.ErrExpectedToken, "expected closing '$' for prompt expression")
	return &ast.PromptExpr{Parts: parts, Sp: joinSpan(open.Span, closeTok.Span)}
}

// --- schema mini-grammar ---
//
// schema ::= prim | "[" schema "]" | "(" schema ("," schema)+ ")"
//          | "{" IDENT ":" schema ("," IDENT ":" schema)* "}"
//          | schema "|" schema | schema "?"

func (p *Parser) parseSchema() ast.SchemaExpr {
	variants := []ast.SchemaExpr{p.parseSchemaPostfix()}
	for p.match(lexer.TOKEN_PIPE) {
		variants = append(variants, p.parseSchemaPostfix())
	}
	if len(variants) == 1 {
		return variants[0]
	}
	return &ast.UnionSchema{Variants: variants, Sp: joinSpan(variants[0].Span(), variants[len(variants)-1].Span())}
}

// parseSchemaPostfix handles the "?" suffix, which binds tightly to the
// preceding primary.
func (p *Parser) parseSchemaPostfix() ast.SchemaExpr {
	s := p.parseSchemaPrimary()
	for p.match(lexer.TOKEN_QUESTION) {
		q := p.previous()
		s = &ast.OptionalSchema{Elem: s, Sp: joinSpan(s.Span(), q.Span)}
	}
	return s
}

func (p *Parser) parseSchemaPrimary() ast.SchemaExpr {
	tok := p.peek()
	switch {
	case tok.Type == lexer.TOKEN_IDENT && lexer.SchemaWords[tok.Lexeme]:
		p.advance()
		return schemaPrimitiveNode(tok)

	case tok.Type == lexer.TOKEN_LBRACKET:
		p.advance()
		elem := p.parseSchema()
		closeTok, _ := p.expect(lexer.TOKEN_RBRACKET, errors.ErrMalformedSchema, "expected ']' to close list schema")
		return &ast.ListSchema{Elem: elem, Sp: joinSpan(tok.Span, closeTok.Span)}

	case tok.Type == lexer.TOKEN_LPAREN:
		p.advance()
		first := p.parseSchema()
		if p.match(lexer.TOKEN_COMMA) {
			elems := []ast.SchemaExpr{first}
			for {
				elems = append(elems, p.parseSchema())
				if !p.match(lexer.TOKEN_COMMA) {
					break
				}
			}
			closeTok, _ := p.expect(lexer.TOKEN_RPAREN, errors.ErrMalformedSchema, "expected ')' to close tuple schema")
			return &ast.TupleSchema{Elements: elems, Sp: joinSpan(tok.Span, closeTok.Span)}
		}
		p.expect(lexer.TOKEN_RPAREN, errors.ErrMalformedSchema, "expected ')' to close grouped schema")
		return first

	case tok.Type == lexer.TOKEN_LBRACE:
		p.advance()
		var fields []ast.ObjectSchemaField
		if !p.check(lexer.TOKEN_RBRACE) {
			for {
				nameTok, ok := p.expect(lexer.TOKEN_IDENT, errors.ErrMalformedSchema, "expected field name in object schema")
				if !ok {
					break
				}
				p.expect(lexer.TOKEN_COLON, errors.ErrMalformedSchema, "expected ':' after object schema field name")
				fieldSchema := p.parseSchema()
				fields = append(fields, ast.ObjectSchemaField{Name: nameTok.Lexeme, Schema: fieldSchema, Sp: joinSpan(nameTok.Span, fieldSchema.Span())})
				if !p.match(lexer.TOKEN_COMMA) {
					break
				}
			}
		}
		closeTok, _ := p.expect(lexer.TOKEN_RBRACE, errors.ErrMalformedSchema, "expected '}' to close object schema")
		return &ast.ObjectSchema{Fields: fields, Sp: joinSpan(tok.Span, closeTok.Span)}

	default:
		p.errorAt(tok, errors.ErrMalformedSchema, "expected a schema")
		p.advance()
		return &ast.AnySchema{Sp: tokSpan(tok)}
	}
}

func schemaPrimitiveNode(tok lexer.Token) ast.SchemaExpr {
	switch tok.Lexeme {
	case "any":
		return &ast.AnySchema{Sp: tokSpan(tok)}
	case "int":
		return &ast.IntSchema{Sp: tokSpan(tok)}
	case "float":
		return &ast.FloatSchema{Sp: tokSpan(tok)}
	case "bool":
		return &ast.BoolSchema{Sp: tokSpan(tok)}
	case "string":
		return &ast.StringSchema{Sp: tokSpan(tok)}
	default:
		return &ast.AnySchema{Sp: tokSpan(tok)}
	}
}
