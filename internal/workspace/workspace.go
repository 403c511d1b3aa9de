package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rodoufu/work-dep/internal/manifest"
)

// globSuffix marks a member entry that stands for every immediate child of
// its prefix directory.
const globSuffix = "/*"

// Context holds the resolved root and the parsed root manifest.
type Context struct {
	Root         string
	ManifestPath string
	Workspace    *manifest.Workspace
}

// Member is a resolved workspace member.
type Member struct {
	// Name is the member entry as written in the root manifest, or the full
	// child path for entries expanded from "dir/*".
	Name         string
	ManifestPath string
}

// Dir returns the member's directory.
func (m Member) Dir() string {
	return filepath.Dir(m.ManifestPath)
}

// Load resolves the workspace root and parses its Cargo.toml.
func Load(root string, opts manifest.Options) (*Context, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	if err := manifest.CheckExists(root); err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(root, manifest.FileName)
	if err := manifest.CheckExists(manifestPath); err != nil {
		return nil, err
	}

	ws, err := manifest.LoadWorkspace(manifestPath, opts)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded workspace manifest", "path", manifestPath, "members", len(ws.Members))

	return &Context{
		Root:         root,
		ManifestPath: manifestPath,
		Workspace:    ws,
	}, nil
}

// Members resolves the member entries in declaration order. Literal entries
// are not checked for existence here; "dir/*" entries are expanded by listing
// the directory, sorted by name.
func (c *Context) Members() ([]Member, error) {
	members := make([]Member, 0, len(c.Workspace.Members))
	for _, entry := range c.Workspace.Members {
		if !strings.HasSuffix(entry, globSuffix) {
			members = append(members, Member{
				Name:         entry,
				ManifestPath: filepath.Join(c.Root, entry, manifest.FileName),
			})
			continue
		}

		expanded, err := c.expand(strings.TrimSuffix(entry, globSuffix))
		if err != nil {
			return nil, err
		}
		slog.Debug("Expanded member pattern", "pattern", entry, "count", len(expanded))
		members = append(members, expanded...)
	}
	return members, nil
}

func (c *Context) expand(prefix string) ([]Member, error) {
	dir := filepath.Join(c.Root, prefix)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing members in %s: %w", dir, err)
	}

	members := make([]Member, 0, len(entries))
	for _, e := range entries {
		child := filepath.Join(dir, e.Name())
		members = append(members, Member{
			Name:         child,
			ManifestPath: filepath.Join(child, manifest.FileName),
		})
	}
	return members, nil
}
