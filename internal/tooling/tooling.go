// Package tooling is the front end over the lex/parse/resolve pipeline
// used by the LSP server: one source snapshot per document URI, and
// diagnostics rendered independent of any editor protocol.
package tooling

import (
	"sync"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/errors"
	"github.com/orangensaft-lang/orangensaft/internal/lexer"
	"github.com/orangensaft-lang/orangensaft/internal/parser"
	"github.com/orangensaft-lang/orangensaft/internal/resolver"
	"github.com/orangensaft-lang/orangensaft/internal/stdlib"
)

// Position is a zero-based line/character offset, matching LSP convention.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open [Start, End) span over Positions.
type Range struct {
	Start Position
	End   Position
}

// DiagnosticSeverity mirrors LSP's four-level severity scale.
type DiagnosticSeverity int

const (
	DiagnosticSeverityError DiagnosticSeverity = iota + 1
	DiagnosticSeverityWarning
	DiagnosticSeverityInfo
	DiagnosticSeverityHint
)

// Diagnostic is one lex/parse/resolve failure, ready to hand to an editor
// protocol or render to a terminal.
type Diagnostic struct {
	Range    Range
	Severity DiagnosticSeverity
	Code     string
	Source   string
	Message  string
}

// API holds one source snapshot per open document URI.
type API struct {
	mu   sync.Mutex
	docs map[string]string
}

// NewAPI returns an API with no open documents.
func NewAPI() *API {
	return &API{docs: map[string]string{}}
}

// ParseFile records uri's content and parses it.
func (a *API) ParseFile(uri, content string) (*ast.Program, error) {
	a.mu.Lock()
	a.docs[uri] = content
	a.mu.Unlock()
	prog, _ := parseAll(uri, content)
	return prog, nil
}

// UpdateDocument replaces uri's content (full-document sync; version is
// accepted for interface symmetry with didChange notifications but isn't
// otherwise tracked).
func (a *API) UpdateDocument(uri, content string, version int) (*ast.Program, error) {
	return a.ParseFile(uri, content)
}

// CloseDocument forgets uri's snapshot.
func (a *API) CloseDocument(uri string) {
	a.mu.Lock()
	delete(a.docs, uri)
	a.mu.Unlock()
}

// GetDiagnostics re-runs the pipeline over uri's last recorded snapshot.
func (a *API) GetDiagnostics(uri string) []Diagnostic {
	a.mu.Lock()
	content := a.docs[uri]
	a.mu.Unlock()

	_, errs := parseAll(uri, content)
	diags := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		diags = append(diags, fromCompilerError(e))
	}
	return diags
}

// parseAll runs lex, then parse, then resolve, stopping at the first phase
// that reports any error — later phases assume a clean tree from the one
// before, same as internal/eval's test harness.
func parseAll(file, content string) (*ast.Program, []errors.CompilerError) {
	l := lexer.New(content, file)
	toks, lexErrs := l.ScanTokens()
	if len(lexErrs) > 0 {
		all := make([]errors.CompilerError, len(lexErrs))
		for i, le := range lexErrs {
			all[i] = lexErrorToCompilerError(le)
		}
		return nil, all
	}

	p := parser.New(toks, file)
	prog, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		return nil, parseErrs
	}

	resolveErrs := resolver.Resolve(prog, file, stdlib.Names())
	if len(resolveErrs) > 0 {
		return prog, resolveErrs
	}
	return prog, nil
}

func lexErrorToCompilerError(e lexer.LexError) errors.CompilerError {
	return errors.NewCompilerError("lexer", "", e.Message, errors.SourceLocation{
		File:   e.Span.File,
		Line:   e.Span.Line,
		Column: e.Span.Col,
		Length: e.Span.End - e.Span.Start,
	}, errors.Error)
}

func fromCompilerError(e errors.CompilerError) Diagnostic {
	line := e.Location.Line - 1
	if line < 0 {
		line = 0
	}
	col := e.Location.Column - 1
	if col < 0 {
		col = 0
	}
	length := e.Location.Length
	if length < 1 {
		length = 1
	}
	return Diagnostic{
		Range: Range{
			Start: Position{Line: line, Character: col},
			End:   Position{Line: line, Character: col + length},
		},
		Severity: severityFromCompiler(e.Severity),
		Code:     e.Code,
		Source:   "orangensaft",
		Message:  e.Message,
	}
}

func severityFromCompiler(s errors.Severity) DiagnosticSeverity {
	switch s {
	case errors.Warning:
		return DiagnosticSeverityWarning
	case errors.Info:
		return DiagnosticSeverityInfo
	default:
		return DiagnosticSeverityError
	}
}
