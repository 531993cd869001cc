package export

import (
	"net/http"
	"reflect"
	"testing"
)

func TestMergeLastWriterWins(t *testing.T) {
	m := Map{}

	if replaced := m.Merge("orders", map[string]any{"onCreate": 1, "onDelete": 2}); len(replaced) != 0 {
		t.Fatalf("expected no replacements on first merge, got %v", replaced)
	}

	replaced := m.Merge("orders", map[string]any{"onCreate": 3})
	if !reflect.DeepEqual(replaced, []string{"onCreate"}) {
		t.Fatalf("unexpected replaced keys: %v", replaced)
	}

	want := Bucket{"onCreate": 3, "onDelete": 2}
	if !reflect.DeepEqual(m["orders"], want) {
		t.Fatalf("unexpected bucket: got %v want %v", m["orders"], want)
	}
}

func TestMergeCreatesEmptyBucket(t *testing.T) {
	m := Map{}
	m.Merge("", nil)

	b, ok := m[""]
	if !ok {
		t.Fatal("expected bucket for the empty group")
	}
	if len(b) != 0 {
		t.Fatalf("expected empty bucket, got %v", b)
	}
}

func TestEntryPointIsOverwritten(t *testing.T) {
	m := Map{}
	first := http.NotFoundHandler()
	second := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	m.SetEntryPoint("orders", first)
	m.SetEntryPoint("orders", second)

	if len(m["orders"]) != 1 {
		t.Fatalf("expected a single entry, got %v", m["orders"])
	}

	got, ok := m.EntryPoint("orders")
	if !ok {
		t.Fatal("expected entry point")
	}
	if reflect.ValueOf(got).Pointer() != reflect.ValueOf(second).Pointer() {
		t.Fatal("expected the later entry point to win")
	}

	if _, ok := m.EntryPoint("missing"); ok {
		t.Fatal("expected no entry point for unknown group")
	}
}

func TestGroupsAndFunctionsAreSorted(t *testing.T) {
	m := Map{}
	m.Merge("users", map[string]any{"b": 1, "a": 2})
	m.Merge("orders", map[string]any{"z": 1})
	m.SetEntryPoint("users", http.NotFoundHandler())

	if got := m.Groups(); !reflect.DeepEqual(got, []string{"orders", "users"}) {
		t.Fatalf("unexpected groups: %v", got)
	}
	if got := m["users"].Functions(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected functions: %v", got)
	}
}
