// Package aggregate finds dependencies declared independently by several
// workspace members, the candidates for [workspace.dependencies].
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/rodoufu/work-dep/internal/manifest"
	"github.com/rodoufu/work-dep/internal/workspace"
)

// ManifestReader loads the manifest of a single member.
type ManifestReader interface {
	ReadManifest(path string) (*manifest.Package, error)
}

// FileReader reads member manifests from disk.
type FileReader struct {
	Options manifest.Options
}

// ReadManifest fails with *manifest.PathNotFoundError when path is absent.
func (r FileReader) ReadManifest(path string) (*manifest.Package, error) {
	if err := manifest.CheckExists(path); err != nil {
		return nil, err
	}
	return manifest.LoadPackage(path, r.Options)
}

// Options tunes candidate selection.
type Options struct {
	// Ignore lists dependency names that are never reported.
	Ignore []string
	// WorkspaceDependencies is the root [workspace.dependencies] table, used
	// to flag candidates that are already declared there.
	WorkspaceDependencies map[string]manifest.Dependency
}

// Report lists, per candidate dependency, the package name of every member
// declaring it and the version spec it declares.
type Report struct {
	WorkspacePath      string                                     `json:"workspace_path"`
	Dependencies       map[string]map[string]manifest.VersionSpec `json:"dependency_project_and_version"`
	AlreadyInWorkspace []string                                   `json:"already_in_workspace,omitempty"`
}

// Names returns the candidate dependency names, sorted.
func (r *Report) Names() []string {
	names := make([]string, 0, len(r.Dependencies))
	for name := range r.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InWorkspace reports whether dep is already declared in [workspace.dependencies].
func (r *Report) InWorkspace(dep string) bool {
	i := sort.SearchStrings(r.AlreadyInWorkspace, dep)
	return i < len(r.AlreadyInWorkspace) && r.AlreadyInWorkspace[i] == dep
}

// Build reads every member manifest and collects the dependencies declared
// by two or more members. Any member failure aborts the run.
func Build(ctx context.Context, root string, members []workspace.Member, reader ManifestReader, opts Options) (*Report, error) {
	packages := make(map[string]*manifest.Package, len(members))
	users := make(map[string]map[string]struct{})

	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pkg, err := reader.ReadManifest(m.ManifestPath)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", m.Name, err)
		}
		slog.Debug("Parsed member manifest",
			"member", m.Name,
			"package", pkg.Name,
			"dependencies", len(pkg.Dependencies),
			"dev_dependencies", len(pkg.DevDependencies))
		packages[m.Name] = pkg

		for name, dep := range pkg.Dependencies {
			if counts(dep.Spec, false) {
				addUser(users, name, m.Name)
			}
		}
		for name, dep := range pkg.DevDependencies {
			if counts(dep.Spec, true) {
				addUser(users, name, m.Name)
			}
		}
	}

	ignored := make(map[string]bool, len(opts.Ignore))
	for _, name := range opts.Ignore {
		ignored[name] = true
	}

	report := &Report{
		WorkspacePath: root,
		Dependencies:  make(map[string]map[string]manifest.VersionSpec),
	}
	for dep, declaredBy := range users {
		if len(declaredBy) < 2 {
			continue
		}
		if ignored[dep] {
			slog.Debug("Ignoring shared dependency", "dependency", dep, "members", len(declaredBy))
			continue
		}

		versions := make(map[string]manifest.VersionSpec, len(declaredBy))
		for _, pkg := range packages {
			if spec, ok := declaredSpec(pkg, dep); ok {
				versions[pkg.Name] = spec
			}
		}
		report.Dependencies[dep] = versions

		if _, ok := opts.WorkspaceDependencies[dep]; ok {
			report.AlreadyInWorkspace = append(report.AlreadyInWorkspace, dep)
		}
	}
	sort.Strings(report.AlreadyInWorkspace)

	return report, nil
}

// counts reports whether a declaration makes its member a user of the
// dependency. Normal dependencies skip workspace-inherited and path
// declarations; dev dependencies only skip workspace-inherited ones.
func counts(spec manifest.VersionSpec, dev bool) bool {
	switch spec.Kind {
	case manifest.KindWorkspace:
		return false
	case manifest.KindPath:
		return dev
	case manifest.KindVersion, manifest.KindGitBranch:
		return true
	default:
		return false
	}
}

// declaredSpec returns the member's spec for dep, preferring the normal
// dependency table over dev-dependencies.
func declaredSpec(pkg *manifest.Package, dep string) (manifest.VersionSpec, bool) {
	if d, ok := pkg.Dependencies[dep]; ok {
		return d.Spec, true
	}
	if d, ok := pkg.DevDependencies[dep]; ok {
		return d.Spec, true
	}
	return manifest.VersionSpec{}, false
}

func addUser(users map[string]map[string]struct{}, dep, member string) {
	set, ok := users[dep]
	if !ok {
		set = make(map[string]struct{})
		users[dep] = set
	}
	set[member] = struct{}{}
}
