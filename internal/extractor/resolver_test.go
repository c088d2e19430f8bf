package extractor

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	raw := FromAny(map[string]any{
		"empty":  "   ",
		"list":   []any{"x"},
		"obj":    map[string]any{"a": "b"},
		"zero":   float64(0),
		"no":     false,
		"name":   "  Jane ",
		"alias":  "Later",
		"number": float64(42),
	})

	if got := Resolve(raw, "missing", "also_missing"); got != nil {
		t.Fatalf("expected nil for absent keys, got %q", *got)
	}
	if got := Resolve(raw, "empty", "list", "obj", "zero", "no", "name", "alias"); got == nil || *got != "Jane" {
		t.Fatalf("expected first non-empty scalar, got %v", got)
	}
	if got := Resolve(raw, "alias", "name"); got == nil || *got != "Later" {
		t.Fatalf("candidate order must win over payload order, got %v", got)
	}
	if got := Resolve(raw, "number"); got == nil || *got != "42" {
		t.Fatalf("expected number coerced to string, got %v", got)
	}
	if got := Resolve(FromAny("not an object"), "name"); got != nil {
		t.Fatalf("expected nil for non-object payload")
	}
	if got := Resolve(Value{}, "name"); got != nil {
		t.Fatalf("expected nil for null payload")
	}
}

func TestResolveArrayOrString(t *testing.T) {
	raw := FromAny(map[string]any{
		"empty_list": []any{},
		"blank":      "",
		"csv":        "a, b",
		"list":       []any{"c"},
	})
	v, ok := ResolveArrayOrString(raw, "empty_list", "blank", "csv", "list")
	if !ok || v.Kind() != KindString {
		t.Fatalf("expected csv string, got %v %v", v.Kind(), ok)
	}
	v, ok = ResolveArrayOrString(raw, "list", "csv")
	if !ok || v.Kind() != KindArray {
		t.Fatalf("expected array, got %v", v.Kind())
	}
	if _, ok := ResolveArrayOrString(raw, "empty_list", "blank"); ok {
		t.Fatalf("expected no match for empty candidates")
	}
}

func TestResolveObject(t *testing.T) {
	raw := FromAny(map[string]any{
		"owner":   "just a string",
		"profile": map[string]any{"name": "X"},
	})
	v, ok := ResolveObject(raw, "owner", "profile")
	if !ok {
		t.Fatalf("expected profile object")
	}
	if name := Resolve(v, "name"); name == nil || *name != "X" {
		t.Fatalf("unexpected object: %v", v.Any())
	}
	if _, ok := ResolveObject(raw, "owner"); ok {
		t.Fatalf("strings are not objects")
	}
}

func TestResolveCollection(t *testing.T) {
	raw := FromAny(map[string]any{
		"works":  []any{map[string]any{"title": "A"}},
		"string": "nope",
	})
	if got := ResolveCollection(raw, "string", "works"); len(got) != 1 {
		t.Fatalf("expected works collection, got %d", len(got))
	}

	present := FromAny(map[string]any{"portfolio_works": []any{}, "works": []any{map[string]any{}}})
	if got := ResolveCollection(present, "portfolio_works", "works"); len(got) != 0 {
		t.Fatalf("present empty array should win, got %d items", len(got))
	}

	bare := FromAny([]any{map[string]any{"title": "A"}, map[string]any{"title": "B"}})
	if got := ResolveCollection(bare, "works"); len(got) != 2 {
		t.Fatalf("expected bare array of objects to be used, got %d", len(got))
	}

	scalars := FromAny([]any{"a", "b"})
	if got := ResolveCollection(scalars, "works"); len(got) != 0 {
		t.Fatalf("array of scalars is not a collection, got %d", len(got))
	}
	if got := ResolveCollection(FromAny(map[string]any{}), "works"); len(got) != 0 {
		t.Fatalf("expected empty collection")
	}
}

func TestSplitList(t *testing.T) {
	cases := []struct {
		in   any
		want []string
	}{
		{"Editing, Color;  MOTION ,,", []string{"editing", "color", "motion"}},
		{[]any{" Premiere ", "", nil, float64(3), map[string]any{}}, []string{"premiere", "3"}},
		{"", []string{}},
	}
	for _, tc := range cases {
		got := splitList(FromAny(tc.in))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitList(%#v) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestSplitListIdempotent(t *testing.T) {
	first := splitList(FromAny("  Adobe Premiere; After Effects , davinci "))
	items := make([]any, 0, len(first))
	for _, s := range first {
		items = append(items, s)
	}
	second := splitList(FromAny(items))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalizing twice changed the list: %v vs %v", first, second)
	}
}
