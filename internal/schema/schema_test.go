package schema_test

import (
	"testing"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/schema"
	"github.com/orangensaft-lang/orangensaft/internal/value"
)

func TestValidate_Primitives(t *testing.T) {
	if err := schema.Validate(&ast.IntSchema{}, value.Int(1), "$"); err != nil {
		t.Errorf("expected int to match int schema, got %v", err)
	}
	if err := schema.Validate(&ast.IntSchema{}, value.Float(1.0), "$"); err == nil {
		t.Error("expected float to not match int schema (no widening)")
	}
	if err := schema.Validate(&ast.FloatSchema{}, value.Int(1), "$"); err == nil {
		t.Error("expected int to not match float schema (no widening)")
	}
}

func TestValidate_AnyMatchesNil(t *testing.T) {
	if err := schema.Validate(&ast.AnySchema{}, value.NilValue, "$"); err != nil {
		t.Errorf("expected any to match nil, got %v", err)
	}
}

func TestValidate_List(t *testing.T) {
	sch := &ast.ListSchema{Elem: &ast.IntSchema{}}
	ok := &value.List{Elements: []value.Value{value.Int(1), value.Int(2)}}
	bad := &value.List{Elements: []value.Value{value.Int(1), value.String("x")}}

	if err := schema.Validate(sch, ok, "$"); err != nil {
		t.Errorf("expected list of ints to match, got %v", err)
	}
	err := schema.Validate(sch, bad, "$")
	if err == nil {
		t.Fatal("expected mismatch for list with a string element")
	}
	if err.Path != "$[1]" {
		t.Errorf("expected path $[1], got %s", err.Path)
	}
}

func TestValidate_TupleArity(t *testing.T) {
	sch := &ast.TupleSchema{Elements: []ast.SchemaExpr{&ast.IntSchema{}, &ast.StringSchema{}}}
	ok := &value.Tuple{Elements: []value.Value{value.Int(1), value.String("x")}}
	wrongArity := &value.Tuple{Elements: []value.Value{value.Int(1)}}

	if err := schema.Validate(sch, ok, "$"); err != nil {
		t.Errorf("expected matching tuple to validate, got %v", err)
	}
	if err := schema.Validate(sch, wrongArity, "$"); err == nil {
		t.Error("expected arity mismatch to fail validation")
	}
}

func TestValidate_ObjectExactKeyset(t *testing.T) {
	sch := &ast.ObjectSchema{Fields: []ast.ObjectSchemaField{
		{Name: "name", Schema: &ast.StringSchema{}},
		{Name: "age", Schema: &ast.IntSchema{}},
	}}
	ok := value.NewObject([]string{"name", "age"}, []value.Value{value.String("Sam"), value.Int(30)})
	missingField := value.NewObject([]string{"name"}, []value.Value{value.String("Sam")})
	extraField := value.NewObject([]string{"name", "age", "extra"}, []value.Value{value.String("Sam"), value.Int(30), value.Bool(true)})

	if err := schema.Validate(sch, ok, "$"); err != nil {
		t.Errorf("expected matching object to validate, got %v", err)
	}
	if err := schema.Validate(sch, missingField, "$"); err == nil {
		t.Error("expected missing field to fail validation")
	}
	if err := schema.Validate(sch, extraField, "$"); err == nil {
		t.Error("expected extra field to fail validation")
	}
}

func TestValidate_UnionMatchesAnyVariant(t *testing.T) {
	sch := &ast.UnionSchema{Variants: []ast.SchemaExpr{&ast.IntSchema{}, &ast.StringSchema{}}}
	if err := schema.Validate(sch, value.Int(1), "$"); err != nil {
		t.Errorf("expected int to match union[int, string], got %v", err)
	}
	if err := schema.Validate(sch, value.String("x"), "$"); err != nil {
		t.Errorf("expected string to match union[int, string], got %v", err)
	}
	if err := schema.Validate(sch, value.Bool(true), "$"); err == nil {
		t.Error("expected bool to not match union[int, string]")
	}
}

func TestValidate_OptionalMatchesNilOrElem(t *testing.T) {
	sch := &ast.OptionalSchema{Elem: &ast.IntSchema{}}
	if err := schema.Validate(sch, value.NilValue, "$"); err != nil {
		t.Errorf("expected optional to match nil, got %v", err)
	}
	if err := schema.Validate(sch, value.Int(1), "$"); err != nil {
		t.Errorf("expected optional to match int, got %v", err)
	}
	if err := schema.Validate(sch, value.String("x"), "$"); err == nil {
		t.Error("expected optional[int] to reject string")
	}
}

func TestProject_Primitives(t *testing.T) {
	if got := schema.Project(&ast.IntSchema{}).Type; got != "integer" {
		t.Errorf("expected integer, got %s", got)
	}
	if got := schema.Project(&ast.FloatSchema{}).Type; got != "number" {
		t.Errorf("expected number, got %s", got)
	}
}

func TestProject_ObjectHasNoAdditionalProperties(t *testing.T) {
	sch := &ast.ObjectSchema{Fields: []ast.ObjectSchemaField{{Name: "x", Schema: &ast.IntSchema{}}}}
	shape := schema.Project(sch)
	if shape.AdditionalProperties == nil || *shape.AdditionalProperties != false {
		t.Error("expected additionalProperties to be false")
	}
	if len(shape.Required) != 1 || shape.Required[0] != "x" {
		t.Errorf("expected required [x], got %v", shape.Required)
	}
}

func TestProject_TupleHasFixedArity(t *testing.T) {
	sch := &ast.TupleSchema{Elements: []ast.SchemaExpr{&ast.IntSchema{}, &ast.IntSchema{}}}
	shape := schema.Project(sch)
	if shape.MinItems == nil || *shape.MinItems != 2 || shape.MaxItems == nil || *shape.MaxItems != 2 {
		t.Error("expected fixed arity of 2")
	}
}

func TestProject_OptionalIsOneOfElemAndNull(t *testing.T) {
	sch := &ast.OptionalSchema{Elem: &ast.StringSchema{}}
	shape := schema.Project(sch)
	if len(shape.OneOf) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(shape.OneOf))
	}
	if shape.OneOf[1].Type != "null" {
		t.Errorf("expected second branch to be null, got %s", shape.OneOf[1].Type)
	}
}
