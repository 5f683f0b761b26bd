// Package stdlib builds the builtin environment every Orangensaft program
// starts with: a handful of unnamespaced core functions plus namespaced
// objects-of-builtins (string.*, time.*, json.*, table.*), grounded on
// pkg/runtime/stdlib.go's String/Time namespacing convention.
package stdlib

import (
	"fmt"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/value"
)

// Names lists every identifier the core builtins (unnamespaced) and
// namespace roots bind at the top level, for the resolver's seed scope.
func Names() []string {
	return []string{"len", "type", "assert_eq", "string", "time", "json", "table"}
}

// Install populates env with every stdlib builtin.
func Install(env *value.Env) {
	env.Define("len", lenBuiltin())
	env.Define("type", typeBuiltin())
	env.Define("assert_eq", assertEqBuiltin())
	env.Define("string", stringNamespace())
	env.Define("time", timeNamespace())
	env.Define("json", jsonNamespace())
	env.Define("table", tableNamespace())
}

func param(name string, sch ast.SchemaExpr) value.FuncParam {
	return value.FuncParam{Name: name, Schema: sch}
}

func anySchema() ast.SchemaExpr    { return &ast.AnySchema{} }
func stringSchema() ast.SchemaExpr { return &ast.StringSchema{} }

// len(x) -> int — works on list, tuple, string, and object (key count).
// Maps to: len(x: any!) -> int!
func lenBuiltin() *value.Builtin {
	return &value.Builtin{
		Name:     "len",
		Params_:  []value.FuncParam{param("x", anySchema())},
		Ret:      &ast.IntSchema{},
		Variadic: false,
		Fn: func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("len: expected 1 argument, got %d", len(args))
			}
			switch v := args[0].(type) {
			case value.String:
				return value.Int(len([]rune(string(v)))), nil
			case *value.List:
				return value.Int(len(v.Elements)), nil
			case *value.Tuple:
				return value.Int(len(v.Elements)), nil
			case *value.Object:
				return value.Int(len(v.Keys)), nil
			default:
				return nil, fmt.Errorf("len: %s has no length", args[0].Kind())
			}
		},
	}
}

// type(x) -> string — the runtime kind name, e.g. "int", "list", "function".
// Maps to: type(x: any!) -> string!
func typeBuiltin() *value.Builtin {
	return &value.Builtin{
		Name:    "type",
		Params_: []value.FuncParam{param("x", anySchema())},
		Ret:     &ast.StringSchema{},
		Fn: func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("type: expected 1 argument, got %d", len(args))
			}
			return value.String(args[0].Kind().String()), nil
		},
	}
}

// assert_eq(actual, expected) -> bool — raises a runtime error (via the
// evaluator's normal error path, not a panic) when the two values are not
// structurally equal. A test-only helper, per spec.md §8's testable
// properties, but not gated behind a build tag: an Orangensaft program can
// call it like any other builtin.
func assertEqBuiltin() *value.Builtin {
	return &value.Builtin{
		Name:    "assert_eq",
		Params_: []value.FuncParam{param("actual", anySchema()), param("expected", anySchema())},
		Ret:     &ast.BoolSchema{},
		Fn: func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("assert_eq: expected 2 arguments, got %d", len(args))
			}
			if !value.Equal(args[0], args[1]) {
				return nil, fmt.Errorf("assert_eq: %s != %s", args[0], args[1])
			}
			return value.Bool(true), nil
		},
	}
}

func namespaceObject(fields map[string]*value.Builtin) *value.Object {
	names := make([]string, 0, len(fields))
	vals := make([]value.Value, 0, len(fields))
	for name, fn := range fields {
		names = append(names, name)
		vals = append(vals, fn)
	}
	return value.NewObject(names, vals)
}

func argString(args []value.Value, i int, fn string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%s: missing argument %d", fn, i)
	}
	s, ok := args[i].(value.String)
	if !ok {
		return "", fmt.Errorf("%s: argument %d must be a string, got %s", fn, i, args[i].Kind())
	}
	return string(s), nil
}
