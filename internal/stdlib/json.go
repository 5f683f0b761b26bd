package stdlib

import (
	"fmt"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/value"
)

// jsonNamespace builds the json.* object over the canonical JSON codec
// (internal/value/json.go) also used by the prompt renderer's non-function
// interpolation and by typed-prompt response parsing.
func jsonNamespace() *value.Object {
	return namespaceObject(map[string]*value.Builtin{
		"stringify": {
			Name:    "json.stringify",
			Params_: []value.FuncParam{param("x", anySchema())},
			Ret:     &ast.StringSchema{},
			Fn: func(args []value.Value) (value.Value, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("json.stringify: expected 1 argument, got %d", len(args))
				}
				s, err := value.ToJSON(args[0])
				if err != nil {
					return nil, fmt.Errorf("json.stringify: %w", err)
				}
				return value.String(s), nil
			},
		},
		"parse": {
			Name:    "json.parse",
			Params_: []value.FuncParam{param("s", stringSchema())},
			Ret:     &ast.AnySchema{},
			Fn: func(args []value.Value) (value.Value, error) {
				s, err := argString(args, 0, "json.parse")
				if err != nil {
					return nil, err
				}
				v, err := value.FromJSON([]byte(s))
				if err != nil {
					return nil, fmt.Errorf("json.parse: %w", err)
				}
				return v, nil
			},
		},
	})
}
