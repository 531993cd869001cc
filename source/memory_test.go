package source

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var cmpSorted = cmp.Transformer("sorted", func(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)
	return out
})

func TestMemoryListsInRegistrationOrder(t *testing.T) {
	m := NewMemory("/app")
	b := m.Add("users/b/b.function.go", nil)
	a := m.Add("orders/a/a.function.go", nil)
	m.Add("orders/a/list.endpoint.go", nil)

	got, err := m.List("**/*.function.go")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if diff := cmp.Diff([]string{b, a}, got); diff != "" {
		t.Fatalf("unexpected paths (-want +got):\n%s", diff)
	}
	if want := filepath.Join("/app", "users", "b", "b.function.go"); b != want {
		t.Fatalf("unexpected path %q, want %q", b, want)
	}
}

func TestMemoryLoadCountsAndErrors(t *testing.T) {
	m := NewMemory("/app")
	ok := m.Add("orders/a.function.go", map[string]any{"A": 1})
	boom := errors.New("boom")
	bad := m.AddError("orders/b.function.go", boom)

	if _, err := m.Load(ok); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := m.Load(bad); !errors.Is(err, boom) {
		t.Fatalf("expected registered error, got %v", err)
	}
	if _, err := m.Load("/app/missing.function.go"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if m.Loads(ok) != 1 || m.Loads(bad) != 1 {
		t.Fatalf("unexpected load counts %d %d", m.Loads(ok), m.Loads(bad))
	}
}

func TestMemoryRejectsInvalidPattern(t *testing.T) {
	if _, err := NewMemory("/app").List("["); err == nil {
		t.Fatal("expected invalid pattern error")
	}
}

func TestMemoryListSkipsExcludedDirectories(t *testing.T) {
	m := NewMemory("/app")
	keep := m.Add("orders/a/a.function.go", nil)
	m.Add("node_modules/pkg/b.function.go", nil)
	m.Add("orders/vendor/c.function.go", nil)

	got, err := m.List("**/*.function.go")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if diff := cmp.Diff([]string{keep}, got); diff != "" {
		t.Fatalf("unexpected paths (-want +got):\n%s", diff)
	}

	m.SetExcludes("orders")
	got, err = m.List("**/*.function.go")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if want := 1; len(got) != want {
		t.Fatalf("expected %d path, got %v", want, got)
	}
}
