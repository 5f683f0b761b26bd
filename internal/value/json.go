package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ToJSON renders v as canonical JSON text: objects, lists, and tuples all
// become JSON arrays/objects; numbers render as JSON numbers; nil as
// JSON null. This is the machinery both the prompt renderer's
// non-function interpolation (spec.md §4.6 rule 2) and the json.stringify
// builtin use.
func ToJSON(v Value) (string, error) {
	native, err := toNative(v)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(native)
	if err != nil {
		return "", fmt.Errorf("value: marshaling to JSON: %w", err)
	}
	return string(data), nil
}

func toNative(v Value) (interface{}, error) {
	switch vv := v.(type) {
	case Int:
		return int64(vv), nil
	case Float:
		return float64(vv), nil
	case Bool:
		return bool(vv), nil
	case String:
		return string(vv), nil
	case Nil:
		return nil, nil
	case *List:
		out := make([]interface{}, len(vv.Elements))
		for i, e := range vv.Elements {
			n, err := toNative(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case *Tuple:
		out := make([]interface{}, len(vv.Elements))
		for i, e := range vv.Elements {
			n, err := toNative(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case *Object:
		out := make(map[string]interface{}, len(vv.Keys))
		keys := append([]string(nil), vv.Keys...)
		sort.Strings(keys)
		for _, k := range keys {
			n, err := toNative(vv.Fields[k])
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("value: %s is not JSON-serializable", v.Kind())
	}
}

// FromJSON parses JSON text into a Value: JSON objects become Object
// values, arrays become List values (never Tuple — arity is a schema-time
// concept, not something JSON parsing can infer), numbers written as
// integers (no decimal point or exponent, within int64 range) become Int,
// others Float.
func FromJSON(data []byte) (Value, error) {
	var native interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&native); err != nil {
		return nil, fmt.Errorf("value: parsing JSON: %w", err)
	}
	return fromNative(native), nil
}

func fromNative(native interface{}) Value {
	switch n := native.(type) {
	case nil:
		return NilValue
	case bool:
		return Bool(n)
	case string:
		return String(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return Int(i)
		}
		f, _ := n.Float64()
		return Float(f)
	case []interface{}:
		elems := make([]Value, len(n))
		for i, e := range n {
			elems[i] = fromNative(e)
		}
		return &List{Elements: elems}
	case map[string]interface{}:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		vals := make([]Value, len(keys))
		for i, k := range keys {
			vals[i] = fromNative(n[k])
		}
		return NewObject(keys, vals)
	default:
		return NilValue
	}
}
