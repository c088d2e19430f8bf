package extractor

import "strings"

// Resolve returns the first candidate key whose value coerces to a non-empty
// trimmed string. Keys holding arrays or objects are skipped.
func Resolve(raw Value, keys ...string) *string {
	for _, key := range keys {
		field, ok := raw.Field(key)
		if !ok {
			continue
		}
		if text, ok := field.Text(); ok {
			return &text
		}
	}
	return nil
}

// ResolveArrayOrString returns the first candidate holding a non-empty array or
// a non-empty scalar, without converting it. The caller decides how to split it.
func ResolveArrayOrString(raw Value, keys ...string) (Value, bool) {
	for _, key := range keys {
		field, ok := raw.Field(key)
		if !ok {
			continue
		}
		switch field.Kind() {
		case KindArray:
			if len(field.Items()) > 0 {
				return field, true
			}
		case KindString, KindNumber, KindBool:
			if _, ok := field.Text(); ok {
				return field, true
			}
		}
	}
	return Value{}, false
}

// ResolveObject returns the first candidate holding a nested object.
func ResolveObject(raw Value, keys ...string) (Value, bool) {
	for _, key := range keys {
		field, ok := raw.Field(key)
		if ok && field.IsObject() {
			return field, true
		}
	}
	return Value{}, false
}

// ResolveCollection returns the elements of the first candidate holding an
// array. When no candidate matches and raw is itself an array of objects, raw is
// treated as the collection.
func ResolveCollection(raw Value, keys ...string) []Value {
	for _, key := range keys {
		field, ok := raw.Field(key)
		if ok && field.IsArray() {
			return field.Items()
		}
	}

	if items := raw.Items(); len(items) > 0 && items[0].IsObject() {
		return items
	}
	return nil
}

// splitList turns an array or a "," / ";" separated string into lower-cased,
// trimmed, non-empty entries, preserving order.
func splitList(v Value) []string {
	var pieces []string
	switch v.Kind() {
	case KindArray:
		for _, item := range v.Items() {
			if text, ok := item.Text(); ok {
				pieces = append(pieces, text)
			}
		}
	default:
		text, ok := v.Text()
		if !ok {
			return []string{}
		}
		pieces = strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ';'
		})
	}

	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		out = append(out, strings.ToLower(piece))
	}
	return out
}
