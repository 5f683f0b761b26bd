package stdlib

import (
	"strings"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/value"
)

// stringNamespace builds the string.* object, grounded on
// pkg/runtime/stdlib.go's StringUpcase/StringDowncase/StringTrim/
// StringContains/StringReplace, renamed to match spec.md's naming and
// extended with split (the teacher has no equivalent).
func stringNamespace() *value.Object {
	return namespaceObject(map[string]*value.Builtin{
		"upper": {
			Name:    "string.upper",
			Params_: []value.FuncParam{param("s", stringSchema())},
			Ret:     &ast.StringSchema{},
			Fn: func(args []value.Value) (value.Value, error) {
				s, err := argString(args, 0, "string.upper")
				if err != nil {
					return nil, err
				}
				return value.String(strings.ToUpper(s)), nil
			},
		},
		"lower": {
			Name:    "string.lower",
			Params_: []value.FuncParam{param("s", stringSchema())},
			Ret:     &ast.StringSchema{},
			Fn: func(args []value.Value) (value.Value, error) {
				s, err := argString(args, 0, "string.lower")
				if err != nil {
					return nil, err
				}
				return value.String(strings.ToLower(s)), nil
			},
		},
		"trim": {
			Name:    "string.trim",
			Params_: []value.FuncParam{param("s", stringSchema())},
			Ret:     &ast.StringSchema{},
			Fn: func(args []value.Value) (value.Value, error) {
				s, err := argString(args, 0, "string.trim")
				if err != nil {
					return nil, err
				}
				return value.String(strings.TrimSpace(s)), nil
			},
		},
		"contains": {
			Name:    "string.contains",
			Params_: []value.FuncParam{param("s", stringSchema()), param("substr", stringSchema())},
			Ret:     &ast.BoolSchema{},
			Fn: func(args []value.Value) (value.Value, error) {
				s, err := argString(args, 0, "string.contains")
				if err != nil {
					return nil, err
				}
				substr, err := argString(args, 1, "string.contains")
				if err != nil {
					return nil, err
				}
				return value.Bool(strings.Contains(s, substr)), nil
			},
		},
		"replace": {
			Name:    "string.replace",
			Params_: []value.FuncParam{param("s", stringSchema()), param("old", stringSchema()), param("new", stringSchema())},
			Ret:     &ast.StringSchema{},
			Fn: func(args []value.Value) (value.Value, error) {
				s, err := argString(args, 0, "string.replace")
				if err != nil {
					return nil, err
				}
				old, err := argString(args, 1, "string.replace")
				if err != nil {
					return nil, err
				}
				repl, err := argString(args, 2, "string.replace")
				if err != nil {
					return nil, err
				}
				return value.String(strings.ReplaceAll(s, old, repl)), nil
			},
		},
		"split": {
			Name:    "string.split",
			Params_: []value.FuncParam{param("s", stringSchema()), param("sep", stringSchema())},
			Ret:     &ast.ListSchema{Elem: &ast.StringSchema{}},
			Fn: func(args []value.Value) (value.Value, error) {
				s, err := argString(args, 0, "string.split")
				if err != nil {
					return nil, err
				}
				sep, err := argString(args, 1, "string.split")
				if err != nil {
					return nil, err
				}
				parts := strings.Split(s, sep)
				elems := make([]value.Value, len(parts))
				for i, p := range parts {
					elems[i] = value.String(p)
				}
				return &value.List{Elements: elems}, nil
			},
		},
	})
}
