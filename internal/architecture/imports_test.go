package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type importRef struct {
	file string
	imp  string
}

// walkImports calls fn for every internal import in internal/**.go.
func walkImports(t *testing.T, fn func(rel, imp string)) {
	t.Helper()

	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}

	fset := token.NewFileSet()
	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil || !strings.HasPrefix(imp, modulePath+"/") {
				continue
			}
			fn(filepath.ToSlash(rel), strings.TrimPrefix(imp, modulePath+"/"))
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
}

func TestImportBoundaries(t *testing.T) {
	var violations []importRef
	walkImports(t, func(rel, imp string) {
		for _, bad := range disallowedImports(layerFor(rel)) {
			if strings.HasPrefix(imp, bad) {
				violations = append(violations, importRef{file: rel, imp: imp})
				return
			}
		}
	})
	if len(violations) > 0 {
		var b strings.Builder
		b.WriteString("import boundary violations:\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %s imports %q\n", v.file, v.imp)
		}
		t.Fatal(b.String())
	}
}

func TestClientsOnlyWiredFromApp(t *testing.T) {
	var violations []importRef
	walkImports(t, func(rel, imp string) {
		if !strings.HasPrefix(imp, "internal/clients/") {
			return
		}
		if strings.HasPrefix(rel, "internal/clients/") || strings.HasPrefix(rel, "internal/app/") {
			return
		}
		violations = append(violations, importRef{file: rel, imp: imp})
	})
	if len(violations) > 0 {
		var b strings.Builder
		b.WriteString("internal/clients imported outside internal/app (depend on a services interface instead):\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %s imports %q\n", v.file, v.imp)
		}
		t.Fatal(b.String())
	}
}

func layerFor(rel string) string {
	for _, layer := range []string{"platform", "domain", "data", "services", "http", "observability", "clients"} {
		if strings.HasPrefix(rel, "internal/"+layer+"/") {
			return layer
		}
	}
	return ""
}

func disallowedImports(layer string) []string {
	switch layer {
	case "platform", "observability":
		return []string{"internal/domain/", "internal/data/", "internal/services", "internal/http", "internal/app"}
	case "domain":
		return []string{"internal/data/", "internal/services", "internal/http", "internal/app"}
	case "data":
		return []string{"internal/services", "internal/http", "internal/app"}
	case "services", "clients":
		return []string{"internal/http", "internal/app"}
	case "http":
		return []string{"internal/app", "internal/data/db"}
	default:
		return nil
	}
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if mp, ok := strings.CutPrefix(line, "module "); ok {
			if mp = strings.TrimSpace(mp); mp == "" {
				return "", fmt.Errorf("empty module path in %s", goModPath)
			}
			return mp, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
