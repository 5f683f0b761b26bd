package stdlib_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orangensaft-lang/orangensaft/internal/stdlib"
	"github.com/orangensaft-lang/orangensaft/internal/value"
)

func newEnv(t *testing.T) *value.Env {
	t.Helper()
	env := value.NewEnv()
	stdlib.Install(env)
	return env
}

func callNamespaced(t *testing.T, env *value.Env, namespace, fn string, args ...value.Value) (value.Value, error) {
	t.Helper()
	nsVal, ok := env.Get(namespace)
	require.True(t, ok, "namespace %q not bound", namespace)
	ns, ok := nsVal.(*value.Object)
	require.True(t, ok, "%q is not an object", namespace)
	fnVal, ok := ns.Fields[fn]
	require.True(t, ok, "%s.%s not bound", namespace, fn)
	builtin, ok := fnVal.(*value.Builtin)
	require.True(t, ok, "%s.%s is not a builtin", namespace, fn)
	return builtin.Fn(args)
}

func TestLen_String(t *testing.T) {
	env := newEnv(t)
	fnVal, _ := env.Get("len")
	fn := fnVal.(*value.Builtin)
	result, err := fn.Fn([]value.Value{value.String("hello")})
	require.NoError(t, err)
	require.Equal(t, value.Int(5), result)
}

func TestLen_List(t *testing.T) {
	env := newEnv(t)
	fnVal, _ := env.Get("len")
	fn := fnVal.(*value.Builtin)
	result, err := fn.Fn([]value.Value{&value.List{Elements: []value.Value{value.Int(1), value.Int(2)}}})
	require.NoError(t, err)
	require.Equal(t, value.Int(2), result)
}

func TestType_ReturnsKindName(t *testing.T) {
	env := newEnv(t)
	fnVal, _ := env.Get("type")
	fn := fnVal.(*value.Builtin)
	result, err := fn.Fn([]value.Value{value.Int(1)})
	require.NoError(t, err)
	require.Equal(t, value.String("int"), result)
}

func TestAssertEq_PassesOnEqualValues(t *testing.T) {
	env := newEnv(t)
	fnVal, _ := env.Get("assert_eq")
	fn := fnVal.(*value.Builtin)
	_, err := fn.Fn([]value.Value{value.Int(1), value.Int(1)})
	require.NoError(t, err)
}

func TestAssertEq_FailsOnUnequalValues(t *testing.T) {
	env := newEnv(t)
	fnVal, _ := env.Get("assert_eq")
	fn := fnVal.(*value.Builtin)
	_, err := fn.Fn([]value.Value{value.Int(1), value.Int(2)})
	require.Error(t, err)
}

func TestStringNamespace_Upper(t *testing.T) {
	env := newEnv(t)
	result, err := callNamespaced(t, env, "string", "upper", value.String("hi"))
	require.NoError(t, err)
	require.Equal(t, value.String("HI"), result)
}

func TestStringNamespace_Contains(t *testing.T) {
	env := newEnv(t)
	result, err := callNamespaced(t, env, "string", "contains", value.String("hello world"), value.String("world"))
	require.NoError(t, err)
	require.Equal(t, value.Bool(true), result)
}

func TestStringNamespace_Split(t *testing.T) {
	env := newEnv(t)
	result, err := callNamespaced(t, env, "string", "split", value.String("a,b,c"), value.String(","))
	require.NoError(t, err)
	list, ok := result.(*value.List)
	require.True(t, ok)
	require.Len(t, list.Elements, 3)
	require.Equal(t, value.String("b"), list.Elements[1])
}

func TestTimeNamespace_NowFormatsAsRFC3339(t *testing.T) {
	env := newEnv(t)
	result, err := callNamespaced(t, env, "time", "now")
	require.NoError(t, err)
	s, ok := result.(value.String)
	require.True(t, ok)
	require.Contains(t, string(s), "T")
}

func TestTimeNamespace_Format(t *testing.T) {
	env := newEnv(t)
	result, err := callNamespaced(t, env, "time", "format", value.String("2025-10-17T14:30:00Z"), value.String("%Y-%m-%d"))
	require.NoError(t, err)
	require.Equal(t, value.String("2025-10-17"), result)
}

func TestJSONNamespace_RoundTrip(t *testing.T) {
	env := newEnv(t)
	obj := value.NewObject([]string{"name", "age"}, []value.Value{value.String("ana"), value.Int(30)})

	stringified, err := callNamespaced(t, env, "json", "stringify", obj)
	require.NoError(t, err)
	s, ok := stringified.(value.String)
	require.True(t, ok)

	parsed, err := callNamespaced(t, env, "json", "parse", s)
	require.NoError(t, err)
	require.True(t, value.Equal(obj, parsed))
}
