package manifest

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// FileName is the manifest file read from the workspace root and from every
// member directory.
const FileName = "Cargo.toml"

// VersionKind identifies how a dependency declares its version.
type VersionKind int

const (
	KindUnknown VersionKind = iota
	// KindWorkspace inherits the version from [workspace.dependencies].
	KindWorkspace
	// KindVersion is an explicit version requirement such as "1.0".
	KindVersion
	// KindGitBranch points to a git repository and a branch.
	KindGitBranch
	// KindPath points to a local project on disk.
	KindPath
)

func (k VersionKind) String() string {
	switch k {
	case KindWorkspace:
		return "Workspace"
	case KindVersion:
		return "Version"
	case KindGitBranch:
		return "GitBranch"
	case KindPath:
		return "Path"
	default:
		return "Unknown"
	}
}

// VersionSpec is the classified version declaration of a dependency.
// Only the fields belonging to Kind are set.
type VersionSpec struct {
	Kind    VersionKind
	Version string
	Git     string
	Branch  string
	Path    string
}

// WorkspaceSpec returns a spec inheriting from the workspace.
func WorkspaceSpec() VersionSpec { return VersionSpec{Kind: KindWorkspace} }

// VersionOf returns an explicit version spec.
func VersionOf(v string) VersionSpec { return VersionSpec{Kind: KindVersion, Version: v} }

// GitBranchOf returns a spec pointing at a branch of a git repository.
func GitBranchOf(url, branch string) VersionSpec {
	return VersionSpec{Kind: KindGitBranch, Git: url, Branch: branch}
}

// PathOf returns a spec pointing at a local path.
func PathOf(p string) VersionSpec { return VersionSpec{Kind: KindPath, Path: p} }

// String renders the spec the way the text report prints it,
// e.g. Version("1.0") or GitBranch("https://...", "main").
func (s VersionSpec) String() string {
	switch s.Kind {
	case KindWorkspace:
		return "Workspace"
	case KindVersion:
		return fmt.Sprintf("Version(%s)", strconv.Quote(s.Version))
	case KindGitBranch:
		return fmt.Sprintf("GitBranch(%s, %s)", strconv.Quote(s.Git), strconv.Quote(s.Branch))
	case KindPath:
		return fmt.Sprintf("Path(%s)", strconv.Quote(s.Path))
	default:
		return "Unknown"
	}
}

// MarshalJSON encodes the spec as a tagged value:
// "Workspace", {"Version":"1.0"}, {"GitBranch":["url","branch"]} or {"Path":"../foo"}.
func (s VersionSpec) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case KindWorkspace:
		return json.Marshal(KindWorkspace.String())
	case KindVersion:
		return json.Marshal(map[string]string{KindVersion.String(): s.Version})
	case KindGitBranch:
		return json.Marshal(map[string][2]string{KindGitBranch.String(): {s.Git, s.Branch}})
	case KindPath:
		return json.Marshal(map[string]string{KindPath.String(): s.Path})
	default:
		return nil, fmt.Errorf("marshaling version spec: unknown kind %d", s.Kind)
	}
}

// Dependency is a single entry of a dependency table.
type Dependency struct {
	Name string
	Spec VersionSpec
}

// Package is a member project manifest.
type Package struct {
	Name            string
	Dependencies    map[string]Dependency
	DevDependencies map[string]Dependency
}

// Workspace is the [workspace] section of the root manifest.
type Workspace struct {
	// Members holds the member entries in declaration order. Entries ending
	// in "/*" stand for every immediate child of the prefix directory.
	Members      []string
	Dependencies map[string]Dependency
}

// Options controls how manifests are classified.
type Options struct {
	// Strict rejects dependency tables where more than one version field
	// matches instead of letting the last matching field win.
	Strict bool
}
