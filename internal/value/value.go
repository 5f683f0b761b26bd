// Package value defines Orangensaft's runtime Value sum type: the closed
// set of kinds produced by evaluation, plus structural equality and
// truthiness.
package value

import (
	"fmt"
	"math"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
)

// Kind tags the variant of a Value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindList
	KindTuple
	KindObject
	KindFunction
	KindNil
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindNil:
		return "nil"
	default:
		return "unknown"
	}
}

// Value is implemented by every runtime value variant.
type Value interface {
	Kind() Kind
	fmt.Stringer
}

type Int int64

func (Int) Kind() Kind         { return KindInt }
func (v Int) String() string   { return fmt.Sprintf("%d", int64(v)) }

type Float float64

func (Float) Kind() Kind       { return KindFloat }
func (v Float) String() string { return fmt.Sprintf("%g", float64(v)) }

type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (v Bool) String() string { return fmt.Sprintf("%t", bool(v)) }

type String string

func (String) Kind() Kind       { return KindString }
func (v String) String() string { return string(v) }

// List is an ordered, growable sequence.
type List struct {
	Elements []Value
}

func (*List) Kind() Kind { return KindList }
func (v *List) String() string {
	return formatSequence('[', ']', v.Elements)
}

// Tuple is ordered with arity fixed at construction, per the tuple-arity
// invariant (spec.md §3, invariant ii).
type Tuple struct {
	Elements []Value
}

func (*Tuple) Kind() Kind { return KindTuple }
func (v *Tuple) String() string {
	return formatSequence('(', ')', v.Elements)
}

func formatSequence(open, close byte, elems []Value) string {
	s := string(open)
	for i, e := range elems {
		if i > 0 {
			s += ", "
		}
		s += formatElement(e)
	}
	return s + string(close)
}

func formatElement(v Value) string {
	if s, ok := v.(String); ok {
		return fmt.Sprintf("%q", string(s))
	}
	return v.String()
}

// Object is a field mapping with an immutable key set after construction
// (spec.md §3, invariant iv); Keys preserves field order for rendering and
// JSON projection even though order is not semantically observable.
type Object struct {
	Keys   []string
	Fields map[string]Value
}

// NewObject builds an Object from ordered field name/value pairs.
func NewObject(names []string, values []Value) *Object {
	fields := make(map[string]Value, len(names))
	for i, name := range names {
		fields[name] = values[i]
	}
	return &Object{Keys: append([]string(nil), names...), Fields: fields}
}

func (*Object) Kind() Kind { return KindObject }
func (v *Object) String() string {
	s := "{"
	for i, k := range v.Keys {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s: %s", k, formatElement(v.Fields[k]))
	}
	return s + "}"
}

// Nil is Orangensaft's sole null value.
type Nil struct{}

func (Nil) Kind() Kind       { return KindNil }
func (Nil) String() string   { return "nil" }

// NilValue is the single shared nil instance.
var NilValue = Nil{}

// Function is implemented by both user-defined and builtin callables; both
// are first-class and may be interpolated into prompts (spec.md §3,
// Function value variants a/b).
type Function interface {
	Value
	FuncName() string
	Params() []FuncParam
	ReturnSchema() ast.SchemaExpr
}

// FuncParam names one parameter alongside its optional schema.
type FuncParam struct {
	Name   string
	Schema ast.SchemaExpr // nil means "any"
}

// UserFunction is a function value produced by a `f name(...):` definition,
// closing over the environment active at definition time.
type UserFunction struct {
	Name    string
	Def     []FuncParam
	Ret     ast.SchemaExpr
	Body    []ast.Stmt
	Closure *Env
}

func (*UserFunction) Kind() Kind              { return KindFunction }
func (f *UserFunction) String() string        { return fmt.Sprintf("<function %s>", f.Name) }
func (f *UserFunction) FuncName() string      { return f.Name }
func (f *UserFunction) Params() []FuncParam   { return f.Def }
func (f *UserFunction) ReturnSchema() ast.SchemaExpr { return f.Ret }

// BuiltinFunc is the native dispatch handle for a Builtin function value.
type BuiltinFunc func(args []Value) (Value, error)

// Builtin is a native function value, e.g. `len`, `string.upper`.
type Builtin struct {
	Name     string
	Params_  []FuncParam
	Ret      ast.SchemaExpr
	Variadic bool
	Fn       BuiltinFunc
}

func (*Builtin) Kind() Kind              { return KindFunction }
func (b *Builtin) String() string        { return fmt.Sprintf("<builtin %s>", b.Name) }
func (b *Builtin) FuncName() string      { return b.Name }
func (b *Builtin) Params() []FuncParam   { return b.Params_ }
func (b *Builtin) ReturnSchema() ast.SchemaExpr { return b.Ret }

// Truthy implements spec.md §3 invariant (v): only false and nil are
// falsey; every other value, including 0, "", and [], is truthy.
func Truthy(v Value) bool {
	switch vv := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(vv)
	default:
		return true
	}
}

// Equal implements structural, same-kind equality with numeric int/float
// comparison across kinds (spec.md §3: "Equality is structural and
// same-kind; numeric int↔float comparisons compare by numeric value.").
func Equal(a, b Value) bool {
	if an, aok := numeric(a); aok {
		if bn, bok := numeric(b); bok {
			return an == bn
		}
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Bool:
		return av == b.(Bool)
	case String:
		return av == b.(String)
	case Nil:
		return true
	case *List:
		bv := b.(*List)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		bv := b.(*Tuple)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv := b.(*Object)
		if len(av.Fields) != len(bv.Fields) {
			return false
		}
		for k, v := range av.Fields {
			bvv, ok := bv.Fields[k]
			if !ok || !Equal(v, bvv) {
				return false
			}
		}
		return true
	case *UserFunction:
		return av == b.(*UserFunction)
	case *Builtin:
		return av == b.(*Builtin)
	default:
		return false
	}
}

func numeric(v Value) (float64, bool) {
	switch vv := v.(type) {
	case Int:
		return float64(vv), true
	case Float:
		return float64(vv), true
	default:
		return 0, false
	}
}

// IsInt reports whether f holds an integral value with no fractional part,
// used by callers that need to distinguish "1.0" from "1" in float contexts.
func IsInt(f float64) bool { return f == math.Trunc(f) }
