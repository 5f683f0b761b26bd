// Package schema validates runtime values against SchemaExpr annotations
// and projects schemas to a JSON-shape description for typed prompts and
// tool descriptors.
package schema

import (
	"fmt"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/value"
)

// MismatchError is a structural validation failure: a path into the value
// (e.g. "$.items[2].name") plus the expected and actual kind descriptions.
type MismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Validate checks v against schema, returning nil on a match or a
// MismatchError rooted at path (pass "$" for the top-level call).
func Validate(sch ast.SchemaExpr, v value.Value, path string) *MismatchError {
	if sch == nil {
		return nil // an unannotated parameter/assignment defaults to "any"
	}
	switch s := sch.(type) {
	case *ast.AnySchema:
		return nil
	case *ast.IntSchema:
		return kindCheck(v, value.KindInt, "int", path)
	case *ast.FloatSchema:
		return kindCheck(v, value.KindFloat, "float", path)
	case *ast.BoolSchema:
		return kindCheck(v, value.KindBool, "bool", path)
	case *ast.StringSchema:
		return kindCheck(v, value.KindString, "string", path)
	case *ast.ListSchema:
		return validateList(s, v, path)
	case *ast.TupleSchema:
		return validateTuple(s, v, path)
	case *ast.ObjectSchema:
		return validateObject(s, v, path)
	case *ast.UnionSchema:
		return validateUnion(s, v, path)
	case *ast.OptionalSchema:
		if v.Kind() == value.KindNil {
			return nil
		}
		return Validate(s.Elem, v, path)
	default:
		return &MismatchError{Path: path, Expected: "known schema", Actual: "unrecognized schema node"}
	}
}

func kindCheck(v value.Value, want value.Kind, wantName, path string) *MismatchError {
	if v.Kind() != want {
		return &MismatchError{Path: path, Expected: wantName, Actual: v.Kind().String()}
	}
	return nil
}

func validateList(s *ast.ListSchema, v value.Value, path string) *MismatchError {
	if v.Kind() != value.KindList {
		return &MismatchError{Path: path, Expected: "list", Actual: v.Kind().String()}
	}
	l := v.(*value.List)
	for i, elem := range l.Elements {
		if err := Validate(s.Elem, elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func validateTuple(s *ast.TupleSchema, v value.Value, path string) *MismatchError {
	if v.Kind() != value.KindTuple {
		return &MismatchError{Path: path, Expected: "tuple", Actual: v.Kind().String()}
	}
	t := v.(*value.Tuple)
	if len(t.Elements) != len(s.Elements) {
		return &MismatchError{
			Path:     path,
			Expected: fmt.Sprintf("tuple of arity %d", len(s.Elements)),
			Actual:   fmt.Sprintf("tuple of arity %d", len(t.Elements)),
		}
	}
	for i, elemSchema := range s.Elements {
		if err := Validate(elemSchema, t.Elements[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func validateObject(s *ast.ObjectSchema, v value.Value, path string) *MismatchError {
	if v.Kind() != value.KindObject {
		return &MismatchError{Path: path, Expected: "object", Actual: v.Kind().String()}
	}
	obj := v.(*value.Object)
	if len(obj.Fields) != len(s.Fields) {
		return &MismatchError{Path: path, Expected: fmt.Sprintf("object with %d fields", len(s.Fields)), Actual: fmt.Sprintf("object with %d fields", len(obj.Fields))}
	}
	for _, f := range s.Fields {
		fv, ok := obj.Fields[f.Name]
		if !ok {
			return &MismatchError{Path: path, Expected: fmt.Sprintf("field %q present", f.Name), Actual: "missing field"}
		}
		if err := Validate(f.Schema, fv, fmt.Sprintf("%s.%s", path, f.Name)); err != nil {
			return err
		}
	}
	return nil
}

func validateUnion(s *ast.UnionSchema, v value.Value, path string) *MismatchError {
	for _, variant := range s.Variants {
		if err := Validate(variant, v, path); err == nil {
			return nil
		}
	}
	return &MismatchError{Path: path, Expected: "one of the union's variants", Actual: v.Kind().String()}
}

// JSONShape is a JSON-Schema-shaped projection of a SchemaExpr, used for
// the typed-prompt envelope and tool descriptors sent to a model backend.
type JSONShape struct {
	Type                 string                `json:"type,omitempty"`                 // "integer", "number", "boolean", "string", "array", "object", "null"
	Items                *JSONShape            `json:"items,omitempty"`                // element shape for list[S]
	PrefixItems          []*JSONShape          `json:"prefixItems,omitempty"`          // positional element shapes for tuple[S...]
	MinItems             *int                  `json:"minItems,omitempty"`             // fixed arity lower bound for tuples
	MaxItems             *int                  `json:"maxItems,omitempty"`             // fixed arity upper bound for tuples
	Properties           map[string]*JSONShape `json:"properties,omitempty"`           // field shapes for object{...}
	Required             []string              `json:"required,omitempty"`             // every field is required; no optional object fields in v0
	AdditionalProperties *bool                 `json:"additionalProperties,omitempty"` // always false when set, per the "no extra keys" rule
	OneOf                []*JSONShape          `json:"oneOf,omitempty"`                // union[S...] and optional[S] (S plus null)
}

var falseVal = false

// Project converts sch to its JSON-shape description. The validator and
// the projector must agree on what values would be accepted (spec.md §4.4).
func Project(sch ast.SchemaExpr) *JSONShape {
	if sch == nil {
		return &JSONShape{} // any: no constraint
	}
	switch s := sch.(type) {
	case *ast.AnySchema:
		return &JSONShape{}
	case *ast.IntSchema:
		return &JSONShape{Type: "integer"}
	case *ast.FloatSchema:
		return &JSONShape{Type: "number"}
	case *ast.BoolSchema:
		return &JSONShape{Type: "boolean"}
	case *ast.StringSchema:
		return &JSONShape{Type: "string"}
	case *ast.ListSchema:
		return &JSONShape{Type: "array", Items: Project(s.Elem)}
	case *ast.TupleSchema:
		n := len(s.Elements)
		items := make([]*JSONShape, n)
		for i, elemSchema := range s.Elements {
			items[i] = Project(elemSchema)
		}
		return &JSONShape{Type: "array", PrefixItems: items, MinItems: &n, MaxItems: &n}
	case *ast.ObjectSchema:
		props := make(map[string]*JSONShape, len(s.Fields))
		required := make([]string, 0, len(s.Fields))
		for _, f := range s.Fields {
			props[f.Name] = Project(f.Schema)
			required = append(required, f.Name)
		}
		return &JSONShape{Type: "object", Properties: props, Required: required, AdditionalProperties: &falseVal}
	case *ast.UnionSchema:
		variants := make([]*JSONShape, len(s.Variants))
		for i, v := range s.Variants {
			variants[i] = Project(v)
		}
		return &JSONShape{OneOf: variants}
	case *ast.OptionalSchema:
		return &JSONShape{OneOf: []*JSONShape{Project(s.Elem), {Type: "null"}}}
	default:
		return &JSONShape{}
	}
}
