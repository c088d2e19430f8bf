package extractor

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Kind identifies the shape held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "null"
	}
}

// Value is a schema-free JSON node returned by the extraction service.
// The zero value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	arr  []Value
	obj  map[string]Value
}

// FromAny converts a decoded JSON document (map[string]any, []any, scalars) into a Value.
// Unsupported Go types become null.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case string:
		return Value{kind: KindString, str: t}
	case bool:
		return Value{kind: KindBool, b: t}
	case float64:
		return Value{kind: KindNumber, num: t}
	case float32:
		return Value{kind: KindNumber, num: float64(t)}
	case int:
		return Value{kind: KindNumber, num: float64(t)}
	case int64:
		return Value{kind: KindNumber, num: float64(t)}
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{kind: KindString, str: t.String()}
		}
		return Value{kind: KindNumber, num: f}
	case []any:
		arr := make([]Value, 0, len(t))
		for _, item := range t {
			arr = append(arr, FromAny(item))
		}
		return Value{kind: KindArray, arr: arr}
	case []map[string]any:
		arr := make([]Value, 0, len(t))
		for _, item := range t {
			arr = append(arr, FromAny(item))
		}
		return Value{kind: KindArray, arr: arr}
	case []string:
		arr := make([]Value, 0, len(t))
		for _, item := range t {
			arr = append(arr, Value{kind: KindString, str: item})
		}
		return Value{kind: KindArray, arr: arr}
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for key, item := range t {
			obj[key] = FromAny(item)
		}
		return Value{kind: KindObject, obj: obj}
	default:
		return Value{}
	}
}

// ParseJSON decodes a raw JSON document into a Value.
func ParseJSON(data []byte) (Value, error) {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Value{}, err
	}
	return FromAny(decoded), nil
}

// Kind reports the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsObject reports whether the value is a JSON object.
func (v Value) IsObject() bool { return v.kind == KindObject }

// IsArray reports whether the value is a JSON array.
func (v Value) IsArray() bool { return v.kind == KindArray }

// Field returns the member stored under key. Non-objects never have fields.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	field, ok := v.obj[key]
	return field, ok
}

// Items returns the elements of an array value, or nil for any other kind.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Text coerces a scalar to a trimmed string. The boolean result is false for
// null, false, zero (number or "0"), arrays, objects and blank strings.
func (v Value) Text() (string, bool) {
	var s string
	switch v.kind {
	case KindString:
		s = strings.TrimSpace(v.str)
		if s == "0" {
			return "", false
		}
	case KindNumber:
		if v.num == 0 {
			return "", false
		}
		s = strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		if !v.b {
			return "", false
		}
		s = "true"
	default:
		return "", false
	}
	return s, s != ""
}

// Any converts the value back into plain Go types.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindArray:
		out := make([]any, 0, len(v.arr))
		for _, item := range v.arr {
			out = append(out, item.Any())
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for key, item := range v.obj {
			out[key] = item.Any()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes the value as plain JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON decodes any JSON document into the value.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
