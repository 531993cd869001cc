package source

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/drblury/fnweaver/discovery"
)

// BuildTag is the build constraint module files may carry to stay out of
// regular builds. The interpreter treats it as satisfied.
const BuildTag = "fnweaver"

// Dir loads Go module files below a root directory. Each file is evaluated
// in its own interpreter. Results are cached by absolute path for the whole
// process and shared by every Dir until Invalidate drops them.
type Dir struct {
	root     string
	excludes []string
	logger   *slog.Logger
}

var loaded = struct {
	sync.Mutex
	m map[string]map[string]any
}{m: make(map[string]map[string]any)}

// Invalidate drops cached loads so the next Load evaluates the file again.
// A path naming a directory drops every module below it. Without arguments
// the whole cache is cleared.
func Invalidate(paths ...string) {
	loaded.Lock()
	defer loaded.Unlock()

	if len(paths) == 0 {
		clear(loaded.m)
		return
	}
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		prefix := abs + string(filepath.Separator)
		for cached := range loaded.m {
			if cached == abs || strings.HasPrefix(cached, prefix) {
				delete(loaded.m, cached)
			}
		}
	}
}

// DirOption configures a Dir.
type DirOption func(*Dir)

// WithExcludes replaces the directory names skipped while listing.
func WithExcludes(excludes ...string) DirOption {
	return func(d *Dir) {
		d.excludes = append([]string(nil), excludes...)
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) DirOption {
	return func(d *Dir) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDir returns a Dir rooted at root.
func NewDir(root string, opts ...DirOption) *Dir {
	d := &Dir{
		root:     root,
		excludes: append([]string(nil), discovery.DefaultExcludes...),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Root returns the directory the Dir lists from.
func (d *Dir) Root() string {
	return d.root
}

// List implements Source.
func (d *Dir) List(pattern string) ([]string, error) {
	return discovery.Scan(d.root, pattern, d.excludes)
}

// Load implements Source.
func (d *Dir) Load(path string) (map[string]any, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("source: resolve %s: %w", path, err)
	}

	loaded.Lock()
	defer loaded.Unlock()

	if exports, ok := loaded.m[abs]; ok {
		return exports, nil
	}

	exports, err := evalFile(abs)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("Module loaded", "file", abs, "exports", len(exports))
	loaded.m[abs] = exports
	return exports, nil
}

func evalFile(path string) (map[string]any, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}

	names, err := exportedNames(path, src)
	if err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{BuildTags: []string{BuildTag}})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("source: load stdlib symbols: %w", err)
	}
	if err := i.Use(Symbols); err != nil {
		return nil, fmt.Errorf("source: load module symbols: %w", err)
	}
	if _, err := i.Eval(string(src)); err != nil {
		return nil, fmt.Errorf("source: evaluate %s: %w", path, err)
	}

	exports := make(map[string]any, len(names))
	for _, name := range names {
		v, err := i.Eval("main." + name)
		if err != nil {
			return nil, fmt.Errorf("source: resolve %s in %s: %w", name, path, err)
		}
		if !v.IsValid() {
			continue
		}
		exports[name] = v.Interface()
	}
	return exports, nil
}

// exportedNames returns the exported top-level functions, variables and
// constants declared in src, in declaration order.
func exportedNames(path string, src []byte) ([]string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("source: parse %s: %w", path, err)
	}
	if file.Name.Name != "main" {
		return nil, fmt.Errorf("%w: %s declares package %s", ErrNotMain, path, file.Name.Name)
	}

	var names []string
	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *ast.FuncDecl:
			if decl.Recv == nil && decl.Name.IsExported() {
				names = append(names, decl.Name.Name)
			}
		case *ast.GenDecl:
			if decl.Tok != token.VAR && decl.Tok != token.CONST {
				continue
			}
			for _, spec := range decl.Specs {
				for _, ident := range spec.(*ast.ValueSpec).Names {
					if ident.IsExported() {
						names = append(names, ident.Name)
					}
				}
			}
		}
	}
	return names, nil
}
