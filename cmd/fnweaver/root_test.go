package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/drblury/fnweaver/internal/config"
	"github.com/drblury/fnweaver/manifest"
)

const functionModule = `//go:build fnweaver

package main

const Topic = "orders"
`

const endpointModule = `//go:build fnweaver

package main

import (
	"fmt"
	"net/http"

	"github.com/drblury/fnweaver/endpoint"
)

var Endpoint = endpoint.Get(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "orders")
}))
`

func writeModule(t *testing.T, root, rel, src string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("FUNCTION_NAME", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func moduleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeModule(t, root, "orders/events/notify.function.go", functionModule)
	writeModule(t, root, "orders/api/list.endpoint.go", endpointModule)
	writeModule(t, root, "orders/node_modules/pkg/hidden.function.go", functionModule)
	return root
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "fnweaver dev") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestListCommand(t *testing.T) {
	root := moduleTree(t)

	out, _, err := execute(t, "list", "--root", root, "--log-level", "error")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var got manifest.Manifest
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode manifest: %v (output: %s)", err, out)
	}
	if len(got.Groups) != 1 {
		t.Fatalf("expected one group, got %+v", got.Groups)
	}
	group := got.Groups[0]
	if group.Name != "orders" || !group.EntryPoint {
		t.Fatalf("unexpected group %+v", group)
	}
	if diff := cmp.Diff([]string{"Topic"}, group.Functions); diff != "" {
		t.Fatalf("unexpected functions (-want +got):\n%s", diff)
	}
	if len(group.Routes) != 1 || group.Routes[0].Path != "/list" {
		t.Fatalf("unexpected routes %+v", group.Routes)
	}
}

func TestListCommandFunctionFilter(t *testing.T) {
	root := moduleTree(t)

	out, _, err := execute(t, "list", "--root", root, "--function-name", "other", "--endpoints=false", "--log-level", "error")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var got manifest.Manifest
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(got.Groups) != 0 {
		t.Fatalf("expected no groups, got %+v", got.Groups)
	}
}

func TestOpenAPICommand(t *testing.T) {
	root := moduleTree(t)

	out, _, err := execute(t, "openapi", "--root", root, "--title", "orders", "--validate", "--log-level", "error")
	if err != nil {
		t.Fatalf("openapi failed: %v", err)
	}
	var doc struct {
		Info  struct{ Title string } `json:"info"`
		Paths map[string]any         `json:"paths"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if doc.Info.Title != "orders" {
		t.Fatalf("unexpected title %q", doc.Info.Title)
	}
	if _, ok := doc.Paths["/list"]; !ok {
		t.Fatalf("expected /list in %v", doc.Paths)
	}
}

func TestInvalidConfigIsRejected(t *testing.T) {
	_, _, err := execute(t, "version", "--log-format", "xml")
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestConfigFileIsRead(t *testing.T) {
	root := moduleTree(t)
	path := filepath.Join(t.TempDir(), "fnweaver.toml")
	content := "root = \"" + filepath.ToSlash(root) + "\"\n\n[log]\nlevel = \"error\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, _, err := execute(t, "list", "--config", path)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, `"orders"`) {
		t.Fatalf("expected the configured root to be assembled, got %s", out)
	}
}

func TestServeFailsBeforeListeningWhenWatcherCannotStart(t *testing.T) {
	root := moduleTree(t)

	_, stderr, err := execute(t, "serve",
		"--root", root,
		"--addr", "127.0.0.1:0",
		"--watch",
		"--exclude", "[",
		"--log-format", "json",
	)
	if err == nil || !strings.Contains(err.Error(), "invalid pattern") {
		t.Fatalf("expected the watcher error, got %v", err)
	}
	if strings.Contains(stderr, `"msg":"Serving"`) {
		t.Fatalf("expected no listener to start, got logs %s", stderr)
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		t.Run(format, func(t *testing.T) {
			cfg := config.Default()
			cfg.Log.Format = format
			var buf bytes.Buffer
			logger, err := newLogger(&cfg, &buf)
			if err != nil {
				t.Fatalf("new logger: %v", err)
			}
			logger.Info("assembled", "group", "orders")
			logger.Debug("hidden")
			if !strings.Contains(buf.String(), "assembled") || strings.Contains(buf.String(), "hidden") {
				t.Fatalf("unexpected log output %q", buf.String())
			}
		})
	}
}

func TestReadinessProbes(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	self := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	probes := readinessProbes([]string{"/healthz", upstream.URL}, self)
	if len(probes) != 2 {
		t.Fatalf("expected two probes, got %d", len(probes))
	}
	if err := probes[0](context.Background()); err != nil {
		t.Fatalf("local probe failed: %v", err)
	}
	if err := probes[1](context.Background()); err == nil {
		t.Fatal("expected the upstream probe to fail")
	}
}

func TestExcludeIgnores(t *testing.T) {
	got := excludeIgnores([]string{"vendor", "dist"})
	if diff := cmp.Diff([]string{"**/vendor/**", "**/dist/**"}, got); diff != "" {
		t.Fatalf("unexpected ignores (-want +got):\n%s", diff)
	}
}
