package resolver_test

import (
	"testing"

	"github.com/orangensaft-lang/orangensaft/internal/errors"
	"github.com/orangensaft-lang/orangensaft/internal/lexer"
	"github.com/orangensaft-lang/orangensaft/internal/parser"
	"github.com/orangensaft-lang/orangensaft/internal/resolver"
)

var builtins = []string{"len", "type", "assert_eq", "string", "time", "json", "table"}

func resolve(t *testing.T, src string) []errors.CompilerError {
	t.Helper()
	l := lexer.New(src, "test.orj")
	toks, lexErrs := l.ScanTokens()
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lex errors: %v", lexErrs)
	}
	p := parser.New(toks, "test.orj")
	prog, parseErrs := p.Parse()
	if len(parseErrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	return resolver.Resolve(prog, "test.orj", builtins)
}

func TestResolve_UndefinedName(t *testing.T) {
	errs := resolve(t, "x = nme\n")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs[0].Code != errors.ErrUndefinedName {
		t.Errorf("expected %s, got %s", errors.ErrUndefinedName, errs[0].Code)
	}
}

func TestResolve_DidYouMeanSuggestion(t *testing.T) {
	errs := resolve(t, "name = 1\nx = nme\n")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if len(errs[0].Suggestions) == 0 || errs[0].Suggestions[0] != "name" {
		t.Errorf("expected suggestion \"name\", got %v", errs[0].Suggestions)
	}
}

func TestResolve_BuiltinNamesAreBound(t *testing.T) {
	errs := resolve(t, "x = len(\"abc\")\n")
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestResolve_ForwardReferenceWithinBlockPassesStatically(t *testing.T) {
	// A documented sharp edge: the resolver is not a flow analyzer, so a
	// use-before-assignment in the same block passes this static pass and
	// would only fail at runtime if actually executed out of order.
	errs := resolve(t, "f foo():\n  ret a\n  a = 1\n")
	if len(errs) != 0 {
		t.Fatalf("expected no resolve errors for forward reference, got %v", errs)
	}
}

func TestResolve_DuplicateFunctionDefinition(t *testing.T) {
	errs := resolve(t, "f foo():\n  ret 1\nf foo():\n  ret 2\n")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs[0].Code != errors.ErrDuplicateFunction {
		t.Errorf("expected %s, got %s", errors.ErrDuplicateFunction, errs[0].Code)
	}
}

func TestResolve_TopLevelReturnIsResolveError(t *testing.T) {
	errs := resolve(t, "ret 1\n")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs[0].Code != errors.ErrTopLevelReturn {
		t.Errorf("expected %s, got %s", errors.ErrTopLevelReturn, errs[0].Code)
	}
}

func TestResolve_ReturnInsideFunctionIsFine(t *testing.T) {
	errs := resolve(t, "f foo():\n  ret 1\n")
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestResolve_ParamsBindInsideFunctionBody(t *testing.T) {
	errs := resolve(t, "f foo(x):\n  ret x\n")
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestResolve_LoopVariableBindsInsideLoopBodyOnly(t *testing.T) {
	errs := resolve(t, "for item in [1, 2]:\n  assert item > 0\nassert item > 0\n")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error for out-of-scope loop variable, got %v", errs)
	}
	if errs[0].Code != errors.ErrUndefinedName {
		t.Errorf("expected %s, got %s", errors.ErrUndefinedName, errs[0].Code)
	}
}

func TestResolve_PromptInterpolationIsResolved(t *testing.T) {
	errs := resolve(t, "x = $ hi { nme } $\n")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs[0].Code != errors.ErrUndefinedName {
		t.Errorf("expected %s, got %s", errors.ErrUndefinedName, errs[0].Code)
	}
}
