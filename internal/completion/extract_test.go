package completion

import (
	"testing"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json_fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare_fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripFences(tc.in); got != tc.want {
				t.Fatalf("StripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"object_with_prose", `Sure! Here it is: {"title":"X"} hope that helps`, `{"title":"X"}`},
		{"nested", `{"a":{"b":[1,2]}}`, `{"a":{"b":[1,2]}}`},
		{"array_first", `[{"a":1}] trailing`, `[{"a":1}]`},
		{"braces_in_strings", `{"msg":"use { and } freely"}`, `{"msg":"use { and } freely"}`},
		{"unbalanced", `{"a":1`, ``},
		{"no_json", `nothing here`, ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Fatalf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeRepairsCommonDamage(t *testing.T) {
	type payload struct {
		Title string   `json:"title"`
		Items []string `json:"items"`
	}

	cases := []struct {
		name string
		in   string
	}{
		{"clean", `{"title":"T","items":["a"]}`},
		{"fenced", "```json\n{\"title\":\"T\",\"items\":[\"a\"]}\n```"},
		{"prose_wrapped", "Here is the slide content:\n```json\n{\"title\":\"T\",\"items\":[\"a\"]}\n```\nLet me know!"},
		{"trailing_comma", `{"title":"T","items":["a",],}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p payload
			if err := Decode(tc.in, &p, 3); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if p.Title != "T" || len(p.Items) != 1 || p.Items[0] != "a" {
				t.Fatalf("decoded %+v", p)
			}
		})
	}
}

func TestDecodeGivesUpOnGarbage(t *testing.T) {
	var v map[string]interface{}
	if err := Decode("utter nonsense, no braces", &v, 3); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}
