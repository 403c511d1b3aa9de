package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"github.com/pelletier/go-toml/v2"
)

// LoadPackage reads and parses a member Cargo.toml.
func LoadPackage(path string, opts Options) (*Package, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a workspace member manifest
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	pkg, err := ParsePackage(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pkg, nil
}

// ParsePackage parses member manifest content.
func ParsePackage(data []byte, opts Options) (*Package, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	return PackageFromValue(doc, opts)
}

// PackageFromValue builds a Package from a decoded manifest document.
func PackageFromValue(value any, opts Options) (*Package, error) {
	table, ok := value.(map[string]any)
	if !ok {
		return nil, &UnexpectedValueError{What: "package", Value: value}
	}

	pkgTable, ok := table["package"].(map[string]any)
	if !ok {
		return nil, &PropertyNotFoundError{Property: "package", Context: table}
	}
	name, ok := pkgTable["name"].(string)
	if !ok {
		return nil, &PropertyNotFoundError{Property: "name", Context: pkgTable}
	}

	deps, err := classifyTableEntries(subTable(table, "dependencies"), opts)
	if err != nil {
		return nil, fmt.Errorf("package %s dependencies: %w", name, err)
	}
	devDeps, err := classifyTableEntries(subTable(table, "dev-dependencies"), opts)
	if err != nil {
		return nil, fmt.Errorf("package %s dev-dependencies: %w", name, err)
	}

	return &Package{
		Name:            name,
		Dependencies:    deps,
		DevDependencies: devDeps,
	}, nil
}

// LoadWorkspace reads and parses the root Cargo.toml.
func LoadWorkspace(path string, opts Options) (*Workspace, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the workspace root manifest
	if err != nil {
		return nil, fmt.Errorf("reading workspace manifest %s: %w", path, err)
	}
	ws, err := ParseWorkspace(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ws, nil
}

// ParseWorkspace parses root manifest content.
func ParseWorkspace(data []byte, opts Options) (*Workspace, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	return WorkspaceFromValue(doc, opts)
}

// WorkspaceFromValue builds a Workspace from a decoded root manifest.
// Non-string entries of the members array are skipped.
func WorkspaceFromValue(value any, opts Options) (*Workspace, error) {
	table, ok := value.(map[string]any)
	if !ok {
		return nil, &UnexpectedValueError{What: "workspace", Value: value}
	}

	raw, ok := table["workspace"]
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	wsTable, _ := raw.(map[string]any)

	rawMembers, ok := wsTable["members"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: members not found in %s", ErrNoMembers, describe(raw))
	}
	members := make([]string, 0, len(rawMembers))
	for _, m := range rawMembers {
		if s, ok := m.(string); ok {
			members = append(members, s)
		}
	}

	deps, err := classifyTableEntries(subTable(wsTable, "dependencies"), opts)
	if err != nil {
		return nil, fmt.Errorf("workspace dependencies: %w", err)
	}

	return &Workspace{Members: members, Dependencies: deps}, nil
}

func decode(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing manifest TOML: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// subTable returns table[key] when it is a table, nil otherwise.
func subTable(table map[string]any, key string) map[string]any {
	t, _ := table[key].(map[string]any)
	return t
}

// CheckExists returns a *PathNotFoundError when path does not exist,
// including when one of its parents is a regular file.
func CheckExists(path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return &PathNotFoundError{Path: path}
	default:
		return fmt.Errorf("checking %s: %w", path, err)
	}
}
