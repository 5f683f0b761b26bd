// Package resolver implements Orangensaft's single pre-execution pass:
// undefined-name checks, duplicate-definition checks, and the top-level
// `ret` diagnostic, over an already-parsed AST.
package resolver

import (
	"fmt"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/cli/ui"
	"github.com/orangensaft-lang/orangensaft/internal/errors"
)

// scope is one lexical level of name bindings, chained to its parent.
type scope struct {
	parent *scope
	names  map[string]bool
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: map[string]bool{}}
}

func (s *scope) define(name string) { s.names[name] = true }

func (s *scope) has(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.names[name] {
			return true
		}
	}
	return false
}

// allNames collects every binding visible from s, used to build "did you
// mean" candidate lists.
func (s *scope) allNames() []string {
	var out []string
	seen := map[string]bool{}
	for sc := s; sc != nil; sc = sc.parent {
		for name := range sc.names {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// Resolver walks a Program checking names and definitions.
type Resolver struct {
	file     string
	errs     []errors.CompilerError
	funcDepth int
}

// Resolve runs the pass over prog and returns every diagnostic found. It
// does not stop at the first error: like the parser, it keeps going so a
// single invocation surfaces as many problems as possible.
func Resolve(prog *ast.Program, file string, builtinNames []string) []errors.CompilerError {
	r := &Resolver{file: file}
	global := newScope(nil)
	for _, name := range builtinNames {
		global.define(name)
	}
	r.resolveBlock(prog.Statements, global)
	return r.errs
}

func (r *Resolver) errorAt(sp ast.Span, code, message string) errors.CompilerError {
	e := errors.NewCompilerError(
		"resolver", code, message,
		errors.SourceLocation{File: sp.File, Line: sp.Line, Column: sp.Col, Length: sp.End - sp.Start},
		errors.Error,
	)
	r.errs = append(r.errs, e)
	return e
}

// hoist pre-binds every name a block introduces directly (function defs,
// assignments) before the block's statements are resolved, so a forward
// reference to a variable assigned later in the same block passes this
// static pass — it remains a documented sharp edge, failing at runtime
// with an unbound-variable error if the reference actually executes before
// the assignment does.
func (r *Resolver) hoist(stmts []ast.Stmt, sc *scope) {
	funcNames := map[string]bool{}
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.FuncDef:
			if funcNames[s.Name] {
				r.errorAt(s.Sp, errors.ErrDuplicateFunction, fmt.Sprintf("duplicate function definition %q", s.Name))
			}
			funcNames[s.Name] = true
			sc.define(s.Name)
		case *ast.Assign:
			sc.define(s.Name)
		}
	}
}

func (r *Resolver) resolveBlock(stmts []ast.Stmt, sc *scope) {
	r.hoist(stmts, sc)
	for _, stmt := range stmts {
		r.resolveStmt(stmt, sc)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt, sc *scope) {
	switch s := stmt.(type) {
	case *ast.FuncDef:
		inner := newScope(sc)
		for _, p := range s.Params {
			inner.define(p.Name)
		}
		r.funcDepth++
		r.resolveBlock(s.Body, inner)
		r.funcDepth--
	case *ast.Assign:
		r.resolveExpr(s.Value, sc)
	case *ast.If:
		r.resolveExpr(s.Cond, sc)
		r.resolveBlock(s.Then, newScope(sc))
		if s.Else != nil {
			r.resolveBlock(s.Else, newScope(sc))
		}
	case *ast.For:
		r.resolveExpr(s.Iterable, sc)
		inner := newScope(sc)
		for _, t := range s.Targets {
			inner.define(t)
		}
		r.resolveBlock(s.Body, inner)
	case *ast.Return:
		if r.funcDepth == 0 {
			r.errorAt(s.Sp, errors.ErrTopLevelReturn, errors.GetErrorMessage(errors.ErrTopLevelReturn))
		}
		if s.Value != nil {
			r.resolveExpr(s.Value, sc)
		}
	case *ast.Assert:
		r.resolveExpr(s.Value, sc)
	case *ast.ExprStmt:
		r.resolveExpr(s.Value, sc)
	}
}

func (r *Resolver) resolveExpr(expr ast.Expr, sc *scope) {
	switch e := expr.(type) {
	case *ast.Ident:
		if !sc.has(e.Name) {
			diag := r.errorAt(e.Span(), errors.ErrUndefinedName, fmt.Sprintf("undefined name %q", e.Name))
			if suggestions := ui.FindSimilar(e.Name, sc.allNames(), nil); len(suggestions) > 0 {
				r.errs[len(r.errs)-1] = diag.WithSuggestions(suggestions)
			}
		}
	case *ast.ListLit:
		for _, el := range e.Elements {
			r.resolveExpr(el, sc)
		}
	case *ast.TupleLit:
		for _, el := range e.Elements {
			r.resolveExpr(el, sc)
		}
	case *ast.ObjectLit:
		for _, f := range e.Fields {
			r.resolveExpr(f.Value, sc)
		}
	case *ast.UnaryExpr:
		r.resolveExpr(e.Operand, sc)
	case *ast.BinaryExpr:
		r.resolveExpr(e.Left, sc)
		r.resolveExpr(e.Right, sc)
	case *ast.CallExpr:
		r.resolveExpr(e.Callee, sc)
		for _, a := range e.Args {
			r.resolveExpr(a, sc)
		}
	case *ast.IndexExpr:
		r.resolveExpr(e.Object, sc)
		r.resolveExpr(e.Index, sc)
	case *ast.MemberExpr:
		r.resolveExpr(e.Object, sc)
	case *ast.TupleIndexExpr:
		r.resolveExpr(e.Object, sc)
	case *ast.PromptExpr:
		for _, part := range e.Parts {
			if part.Expr != nil {
				r.resolveExpr(part.Expr, sc)
			}
		}
	}
}
