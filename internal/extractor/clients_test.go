package extractor

import "testing"

func TestNormalizeClients_DropsIncompleteEntries(t *testing.T) {
	raw := FromAny(map[string]any{
		"clients": []any{
			map[string]any{"name": "Bob", "feedback": "Great!"},
			map[string]any{"name": "NoFeedback"},
			map[string]any{"name": "", "feedback": "Anonymous"},
			map[string]any{"name": "Blank", "feedback": "   "},
			map[string]any{"customer_name": "Ann", "quote": "Fast", "position": "CTO", "about": "Founder", "avatar": "https://img.example.com/ann.png"},
			"not an object",
		},
	})
	clients := NormalizeClients(raw)
	if len(clients) != 2 {
		t.Fatalf("expected 2 clients, got %+v", clients)
	}
	if clients[0].Name != "Bob" || clients[0].Feedback != "Great!" || clients[0].JobTitle != nil || clients[0].PhotoURL != nil {
		t.Fatalf("unexpected first client: %+v", clients[0])
	}
	ann := clients[1]
	if ann.Name != "Ann" || ann.Feedback != "Fast" {
		t.Fatalf("unexpected second client: %+v", ann)
	}
	if ann.JobTitle == nil || *ann.JobTitle != "CTO" || ann.Introduction == nil || *ann.Introduction != "Founder" {
		t.Fatalf("unexpected optional fields: %+v", ann)
	}
	if ann.PhotoURL == nil || *ann.PhotoURL != "https://img.example.com/ann.png" {
		t.Fatalf("unexpected photo: %v", ann.PhotoURL)
	}
}

func TestNormalizeClients_CollectionKeys(t *testing.T) {
	for _, key := range clientsCollectionKeys {
		raw := FromAny(map[string]any{key: []any{map[string]any{"reviewer": "Zed", "content": "Solid"}}})
		clients := NormalizeClients(raw)
		if len(clients) != 1 || clients[0].Name != "Zed" || clients[0].Feedback != "Solid" {
			t.Fatalf("key %s: unexpected clients %+v", key, clients)
		}
	}
	if clients := NormalizeClients(FromAny(map[string]any{})); clients == nil || len(clients) != 0 {
		t.Fatalf("expected empty non-nil clients")
	}
}

func TestNormalizeClients_NeverEmitsEmptyRequiredFields(t *testing.T) {
	inputs := []any{
		[]any{map[string]any{"name": "  ", "feedback": "x"}},
		[]any{map[string]any{"name": "x", "feedback": false}},
		[]any{map[string]any{"name": float64(0), "feedback": "x"}},
		[]any{map[string]any{"name": []any{"x"}, "feedback": "x"}},
		[]any{nil, float64(1), true},
	}
	for _, in := range inputs {
		for _, c := range NormalizeClients(FromAny(map[string]any{"clients": in})) {
			if c.Name == "" || c.Feedback == "" {
				t.Fatalf("emitted empty required field for %#v: %+v", in, c)
			}
		}
	}
}
