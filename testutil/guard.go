// Package testutil holds the import-boundary assertions used by the
// architecture tests of the domain, core and adapter packages.
package testutil

import (
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// ImportPredicate reports whether an import path is off limits.
type ImportPredicate func(path string) bool

// Any combines predicates; the result forbids a path if any of them does.
func Any(preds ...ImportPredicate) ImportPredicate {
	return func(path string) bool {
		for _, p := range preds {
			if p(path) {
				return true
			}
		}
		return false
	}
}

// InternalImportForbidden matches any path with an internal/ segment.
func InternalImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/")
}

// TransportImportForbidden matches net/http and the gin router.
func TransportImportForbidden(path string) bool {
	return path == "net/http" || strings.HasPrefix(path, "net/http/") || RouterImportForbidden(path)
}

// RouterImportForbidden matches the gin router and its subpackages.
func RouterImportForbidden(path string) bool {
	return strings.HasPrefix(path, "github.com/gin-gonic/")
}

var storageDriverPrefixes = []string{
	"github.com/jackc/pgx/",
	"modernc.org/sqlite",
	"github.com/aws/aws-sdk-go-v2",
}

// StorageDriverImportForbidden matches the database and object store client
// libraries behind the persistence drivers.
func StorageDriverImportForbidden(path string) bool {
	for _, prefix := range storageDriverPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AssertNoDirectImports parses the non-test .go files directly inside dir and
// fails t if any of their imports is forbidden. Build tags are ignored.
func AssertNoDirectImports(t testing.TB, dir string, forbidden ImportPredicate, reason string) {
	t.Helper()
	imports, err := directImports(dir)
	if err != nil {
		t.Fatalf("scan %s: %v", dir, err)
	}
	report(t, "forbidden direct imports", reason, matching(imports, forbidden))
}

// AssertNoTransitiveDependency runs `go list -deps pattern` and fails t if any
// package in the build graph is forbidden.
func AssertNoTransitiveDependency(t testing.TB, pattern string, forbidden ImportPredicate, reason string) {
	t.Helper()
	deps, out, err := listDeps(pattern)
	if err != nil {
		t.Fatalf("go list -deps %s: %v\n%s", pattern, err, out)
	}
	report(t, "forbidden transitive dependencies", reason, matching(deps, forbidden))
}

var goListDeps = func(pattern string) ([]byte, error) {
	return exec.Command("go", "list", "-deps", pattern).CombinedOutput()
}

func listDeps(pattern string) ([]importRef, []byte, error) {
	out, err := goListDeps(pattern)
	if err != nil {
		return nil, out, err
	}
	var deps []importRef
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			deps = append(deps, importRef{path: line})
		}
	}
	return deps, out, nil
}

// directImports lists the imports of dir's non-test files with their file names.
func directImports(dir string) ([]importRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var refs []importRef
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			return nil, err
		}
		for _, imp := range f.Imports {
			refs = append(refs, importRef{path: strings.Trim(imp.Path.Value, `"`), file: name})
		}
	}
	return refs, nil
}

type importRef struct {
	path string
	file string
}

func (r importRef) String() string {
	if r.file == "" {
		return r.path
	}
	return r.path + " (in " + r.file + ")"
}

func matching(refs []importRef, forbidden ImportPredicate) []string {
	var out []string
	for _, r := range refs {
		if forbidden(r.path) {
			out = append(out, r.String())
		}
	}
	return out
}

type fatalf interface {
	Fatalf(format string, args ...any)
}

func report(t fatalf, what, reason string, viols []string) {
	if len(viols) == 0 {
		return
	}
	t.Fatalf("%s (%s):\n%s", what, reason, strings.Join(viols, "\n"))
}
