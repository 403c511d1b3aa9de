// Package testutil builds Cargo workspace fixtures on disk for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to root/rel, creating parent directories.
// It returns the full path of the written file.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	return path
}

// CreateWorkspace writes a root Cargo.toml declaring the given member entries
// into a fresh temp directory and returns that directory.
// Extra is appended verbatim after the [workspace] table.
func CreateWorkspace(t *testing.T, members []string, extra string) string {
	t.Helper()
	root := t.TempDir()

	quoted := make([]string, len(members))
	for i, m := range members {
		quoted[i] = `"` + m + `"`
	}
	content := "[workspace]\nresolver = \"2\"\nmembers = [" + strings.Join(quoted, ", ") + "]\n"
	if extra != "" {
		content += "\n" + extra
	}
	WriteFile(t, root, "Cargo.toml", content)
	return root
}

// CreateMember writes dir/Cargo.toml for a package named name.
// Deps and devDeps are raw TOML lines placed under [dependencies] and
// [dev-dependencies]; empty slices omit the table.
func CreateMember(t *testing.T, root, dir, name string, deps, devDeps []string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("[package]\nname = \"" + name + "\"\nversion = \"0.1.0\"\nedition = \"2021\"\n")
	if len(deps) > 0 {
		b.WriteString("\n[dependencies]\n" + strings.Join(deps, "\n") + "\n")
	}
	if len(devDeps) > 0 {
		b.WriteString("\n[dev-dependencies]\n" + strings.Join(devDeps, "\n") + "\n")
	}
	return WriteFile(t, root, filepath.Join(dir, "Cargo.toml"), b.String())
}
