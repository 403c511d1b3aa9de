package manifest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ClassifyVersion turns the raw manifest value of a dependency entry into a
// VersionSpec.
//
// A string is an explicit version. A table is checked for, in order,
// workspace = true, version, path and git + branch; when several of them are
// present the last one checked wins unless opts.Strict is set, in which case
// the declaration is rejected.
func ClassifyVersion(name string, value any, opts Options) (VersionSpec, error) {
	switch v := value.(type) {
	case string:
		return VersionOf(v), nil
	case map[string]any:
		return classifyTable(name, v, opts)
	default:
		return VersionSpec{}, &UnexpectedValueError{What: "dependency " + name, Value: value}
	}
}

func classifyTable(name string, table map[string]any, opts Options) (VersionSpec, error) {
	var (
		spec    VersionSpec
		matched []string
	)

	if ws, ok := table["workspace"].(bool); ok && ws {
		spec = WorkspaceSpec()
		matched = append(matched, "workspace")
	}
	if v, ok := table["version"].(string); ok {
		spec = VersionOf(v)
		matched = append(matched, "version")
	}
	if p, ok := table["path"].(string); ok {
		spec = PathOf(p)
		matched = append(matched, "path")
	}
	git, gitOK := table["git"].(string)
	branch, branchOK := table["branch"].(string)
	if gitOK && branchOK {
		spec = GitBranchOf(git, branch)
		matched = append(matched, "git+branch")
	}

	switch {
	case len(matched) == 0:
		return VersionSpec{}, &InvalidVersionError{Name: name, Value: table}
	case len(matched) > 1 && opts.Strict:
		return VersionSpec{}, &AmbiguousVersionError{Name: name, Fields: matched}
	}
	return spec, nil
}

// classifyTableEntries classifies every entry of a dependency table.
// A nil table yields an empty map.
func classifyTableEntries(table map[string]any, opts Options) (map[string]Dependency, error) {
	deps := make(map[string]Dependency, len(table))
	for name, raw := range table {
		spec, err := ClassifyVersion(name, raw, opts)
		if err != nil {
			return nil, err
		}
		deps[name] = Dependency{Name: name, Spec: spec}
	}
	return deps, nil
}

// describe renders a decoded TOML value as a compact inline table, used in
// error messages.
func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return strconv.Quote(t)
	case map[string]any:
		if len(t) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + " = " + describe(t[k])
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = describe(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(t)
	}
}
