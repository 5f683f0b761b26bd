package stdlib

import (
	"fmt"
	"strings"
	"time"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/value"
)

// timeNamespace builds the time.* object, grounded on
// pkg/runtime/stdlib.go's TimeNow/TimeFormat. Timestamps are represented
// as strings (RFC 3339) rather than a dedicated timestamp Value kind:
// spec.md §3's closed value set has no timestamp variant, so time.now
// returns the same string kind every other builtin interpolates cleanly
// into a prompt.
func timeNamespace() *value.Object {
	return namespaceObject(map[string]*value.Builtin{
		"now": {
			Name:    "time.now",
			Params_: nil,
			Ret:     &ast.StringSchema{},
			Fn: func(args []value.Value) (value.Value, error) {
				if len(args) != 0 {
					return nil, fmt.Errorf("time.now: expected 0 arguments, got %d", len(args))
				}
				return value.String(time.Now().UTC().Format(time.RFC3339)), nil
			},
		},
		"format": {
			Name:    "time.format",
			Params_: []value.FuncParam{param("t", stringSchema()), param("layout", stringSchema())},
			Ret:     &ast.StringSchema{},
			Fn: func(args []value.Value) (value.Value, error) {
				raw, err := argString(args, 0, "time.format")
				if err != nil {
					return nil, err
				}
				layout, err := argString(args, 1, "time.format")
				if err != nil {
					return nil, err
				}
				t, err := time.Parse(time.RFC3339, raw)
				if err != nil {
					return nil, fmt.Errorf("time.format: %q is not an RFC 3339 timestamp: %w", raw, err)
				}
				return value.String(t.Format(goLayout(layout))), nil
			},
		},
	})
}

// goLayout translates a handful of common strftime-style tokens into Go's
// reference-time layout, so prompt authors don't need to memorize
// "Mon Jan 2 15:04:05 MST 2006". Anything not recognized passes through
// unchanged, letting a caller supply a raw Go layout directly.
func goLayout(layout string) string {
	replacer := strings.NewReplacer(
		"%Y", "2006", "%m", "01", "%d", "02",
		"%H", "15", "%M", "04", "%S", "05",
	)
	return replacer.Replace(layout)
}
