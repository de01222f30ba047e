package sanitize

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValues_DropsUnsafeKeys(t *testing.T) {
	got := Values(map[string]any{
		"fine":        "ok",
		"also_fine_2": "ok",
		"bad key":     "dropped",
		"bad-key":     "dropped",
		"<script>":    "dropped",
		"":            "dropped",
	})
	want := map[string]any{"fine": "ok", "also_fine_2": "ok"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestValues_StripsMarkup(t *testing.T) {
	got := Values(map[string]any{
		"note": "  hello <script>alert('x')</script>world  ",
		"bold": "<b>loud</b>",
	})
	note := got["note"].(string)
	if strings.Contains(note, "<script>") || strings.Contains(note, "alert") {
		t.Fatalf("script content survived: %q", note)
	}
	if strings.HasPrefix(note, " ") || strings.HasSuffix(note, " ") {
		t.Fatalf("whitespace not trimmed: %q", note)
	}
	if bold := got["bold"].(string); strings.Contains(bold, "<b>") {
		t.Fatalf("markup survived: %q", bold)
	}
}

func TestValues_ScalarsPassThrough(t *testing.T) {
	got := Values(map[string]any{
		"count":   3,
		"ratio":   2.5,
		"urgent":  true,
		"offline": false,
	})
	want := map[string]any{"count": 3, "ratio": 2.5, "urgent": true, "offline": false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("scalars must pass unchanged (-want +got):\n%s", diff)
	}
}

func TestValues_ListsElementWise(t *testing.T) {
	got := Values(map[string]any{
		"tags": []any{" a ", nil, "<i>b</i>", []any{"nested", nil}},
	})
	want := map[string]any{
		"tags": []any{"a", "b", []any{"nested"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected list handling (-want +got):\n%s", diff)
	}
}

func TestValues_NilBecomesEmptyString(t *testing.T) {
	got := Values(map[string]any{"gone": nil})
	if got["gone"] != "" {
		t.Fatalf("nil should map to empty string, got %#v", got["gone"])
	}
}

func TestValues_Idempotent(t *testing.T) {
	inputs := []map[string]any{
		{"a": "  <script>x</script> hi & bye ", "b": 1, "c": true},
		{"list": []any{"<b>x</b>", nil, []any{" y ", 2.5}}},
		{"odd": map[string]any{"inner": "<u>v</u>"}},
		{"quote": `it's "quoted" & <tagged>`},
	}
	for i, input := range inputs {
		once := Values(input)
		twice := Values(once)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("case %d not idempotent (-once +twice):\n%s", i, diff)
		}
	}
}

func TestValues_NilInput(t *testing.T) {
	if got := Values(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty mapping, got %#v", got)
	}
}
