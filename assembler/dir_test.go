package assembler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/drblury/fnweaver/export"
	"github.com/drblury/fnweaver/source"
)

func writeFile(t *testing.T, root, rel, src string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestAssemblesModulesFromDisk(t *testing.T) {
	t.Setenv(FunctionNameEnv, "")
	root := t.TempDir()
	writeFile(t, root, "orders/foo/notify.function.go", `package main

import "context"

func OnCreate(ctx context.Context, payload []byte) error { return nil }
`)
	writeFile(t, root, "orders/foo/list.endpoint.go", `package main

import (
	"fmt"
	"net/http"

	"github.com/drblury/fnweaver/endpoint"
)

var Endpoint = endpoint.Get(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "from disk")
}))
`)
	writeFile(t, root, "node_modules/pkg/x/ignored.function.go", "package main\n\nvar Ignored = 1\n")

	exports := export.Map{}
	if _, err := New(root, exports, WithLogger(quietLogger())); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if got := exports["orders"].Functions(); len(got) != 1 || got[0] != "OnCreate" {
		t.Fatalf("unexpected functions %v", got)
	}
	if _, ok := exports["pkg"]; ok {
		t.Fatal("expected node_modules to be skipped")
	}

	rr := serve(t, exports, "orders", http.MethodGet, "/list")
	body, _ := io.ReadAll(rr.Body)
	if string(body) != "from disk" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestRerunFromDiskReusesLoadedModules(t *testing.T) {
	t.Setenv(FunctionNameEnv, "")
	root := t.TempDir()
	writeFile(t, root, "orders/token/token.function.go", "package main\n\nvar Token = new(int)\n")

	token := func() any {
		t.Helper()
		exports := export.Map{}
		if _, err := New(root, exports, WithoutEndpoints(), WithLogger(quietLogger())); err != nil {
			t.Fatalf("assemble: %v", err)
		}
		v, ok := exports["orders"]["Token"]
		if !ok {
			t.Fatal("expected Token to be exported")
		}
		return v
	}

	first := token()
	if second := token(); second != first {
		t.Fatal("expected a second assembly to reuse the loaded module")
	}

	source.Invalidate(root)
	if third := token(); third == first {
		t.Fatal("expected Invalidate to force the module to run again")
	}
}
