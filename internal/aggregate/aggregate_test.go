package aggregate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rodoufu/work-dep/internal/manifest"
	"github.com/rodoufu/work-dep/internal/testutil"
	"github.com/rodoufu/work-dep/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader serves packages by manifest path.
type fakeReader struct {
	packages map[string]*manifest.Package
	err      map[string]error
	reads    []string
}

func (f *fakeReader) ReadManifest(path string) (*manifest.Package, error) {
	f.reads = append(f.reads, path)
	if err, ok := f.err[path]; ok {
		return nil, err
	}
	pkg, ok := f.packages[path]
	if !ok {
		return nil, &manifest.PathNotFoundError{Path: path}
	}
	return pkg, nil
}

func pkg(name string, deps, devDeps map[string]manifest.VersionSpec) *manifest.Package {
	p := &manifest.Package{
		Name:            name,
		Dependencies:    map[string]manifest.Dependency{},
		DevDependencies: map[string]manifest.Dependency{},
	}
	for n, s := range deps {
		p.Dependencies[n] = manifest.Dependency{Name: n, Spec: s}
	}
	for n, s := range devDeps {
		p.DevDependencies[n] = manifest.Dependency{Name: n, Spec: s}
	}
	return p
}

// build runs Build over packages keyed by member name.
func build(t *testing.T, opts Options, pkgs ...*manifest.Package) *Report {
	t.Helper()
	reader := &fakeReader{packages: map[string]*manifest.Package{}}
	members := make([]workspace.Member, 0, len(pkgs))
	for _, p := range pkgs {
		path := filepath.Join("/ws", p.Name, manifest.FileName)
		reader.packages[path] = p
		members = append(members, workspace.Member{Name: p.Name, ManifestPath: path})
	}
	report, err := Build(context.Background(), "/ws", members, reader, opts)
	require.NoError(t, err)
	return report
}

func TestBuild_sharedVersion(t *testing.T) {
	report := build(t, Options{},
		pkg("a", map[string]manifest.VersionSpec{"serde": manifest.VersionOf("1.0")}, nil),
		pkg("b", map[string]manifest.VersionSpec{"serde": manifest.VersionOf("1.0")}, nil),
	)

	assert.Equal(t, "/ws", report.WorkspacePath)
	assert.Equal(t, map[string]map[string]manifest.VersionSpec{
		"serde": {
			"a": manifest.VersionOf("1.0"),
			"b": manifest.VersionOf("1.0"),
		},
	}, report.Dependencies)
	assert.Empty(t, report.AlreadyInWorkspace)
}

func TestBuild_pathExcludedFromNormalDependencies(t *testing.T) {
	report := build(t, Options{},
		pkg("a", map[string]manifest.VersionSpec{"foo": manifest.PathOf("../foo")}, nil),
		pkg("b", map[string]manifest.VersionSpec{"foo": manifest.VersionOf("2.0")}, nil),
	)
	assert.Empty(t, report.Dependencies)
}

func TestBuild_singleDeclarerNeverReported(t *testing.T) {
	for _, spec := range []manifest.VersionSpec{
		manifest.VersionOf("1"),
		manifest.GitBranchOf("https://g", "main"),
		manifest.PathOf("../x"),
		manifest.WorkspaceSpec(),
	} {
		t.Run(spec.Kind.String(), func(t *testing.T) {
			report := build(t, Options{},
				pkg("a", map[string]manifest.VersionSpec{"dep": spec}, map[string]manifest.VersionSpec{"dep": spec}),
				pkg("b", nil, nil),
			)
			assert.Empty(t, report.Dependencies)
		})
	}
}

func TestBuild_allWorkspaceInheritedIsEmpty(t *testing.T) {
	ws := manifest.WorkspaceSpec()
	report := build(t, Options{},
		pkg("a", map[string]manifest.VersionSpec{"serde": ws}, map[string]manifest.VersionSpec{"tokio": ws}),
		pkg("b", map[string]manifest.VersionSpec{"serde": ws}, map[string]manifest.VersionSpec{"tokio": ws}),
		pkg("c", map[string]manifest.VersionSpec{"serde": ws}, nil),
	)
	assert.Empty(t, report.Dependencies)
}

// Workspace declarations do not count, but the members using them still show
// up next to the members that do.
func TestBuild_workspaceMemberListedWhenOthersQualify(t *testing.T) {
	report := build(t, Options{},
		pkg("a", map[string]manifest.VersionSpec{"serde": manifest.WorkspaceSpec()}, nil),
		pkg("b", map[string]manifest.VersionSpec{"serde": manifest.VersionOf("1.0")}, nil),
		pkg("c", nil, map[string]manifest.VersionSpec{"serde": manifest.GitBranchOf("https://g", "dev")}),
	)
	assert.Equal(t, map[string]manifest.VersionSpec{
		"a": manifest.WorkspaceSpec(),
		"b": manifest.VersionOf("1.0"),
		"c": manifest.GitBranchOf("https://g", "dev"),
	}, report.Dependencies["serde"])
}

// Path dev-dependencies still count, unlike path normal dependencies.
func TestBuild_devPathDependenciesCount(t *testing.T) {
	report := build(t, Options{},
		pkg("a", nil, map[string]manifest.VersionSpec{"testkit": manifest.PathOf("../testkit")}),
		pkg("b", nil, map[string]manifest.VersionSpec{"testkit": manifest.PathOf("../testkit")}),
	)
	require.Contains(t, report.Dependencies, "testkit")
	assert.Equal(t, manifest.PathOf("../testkit"), report.Dependencies["testkit"]["a"])

	report = build(t, Options{},
		pkg("a", map[string]manifest.VersionSpec{"testkit": manifest.PathOf("../testkit")}, nil),
		pkg("b", map[string]manifest.VersionSpec{"testkit": manifest.PathOf("../testkit")}, nil),
	)
	assert.Empty(t, report.Dependencies)
}

func TestBuild_normalPreferredOverDev(t *testing.T) {
	report := build(t, Options{},
		pkg("a",
			map[string]manifest.VersionSpec{"rand": manifest.VersionOf("0.8")},
			map[string]manifest.VersionSpec{"rand": manifest.VersionOf("0.9")}),
		pkg("b", nil, map[string]manifest.VersionSpec{"rand": manifest.VersionOf("0.9")}),
	)
	assert.Equal(t, map[string]manifest.VersionSpec{
		"a": manifest.VersionOf("0.8"),
		"b": manifest.VersionOf("0.9"),
	}, report.Dependencies["rand"])
}

func TestBuild_sameMemberInBothTablesCountsOnce(t *testing.T) {
	report := build(t, Options{},
		pkg("a",
			map[string]manifest.VersionSpec{"log": manifest.VersionOf("0.4")},
			map[string]manifest.VersionSpec{"log": manifest.VersionOf("0.4")}),
		pkg("b", nil, nil),
	)
	assert.Empty(t, report.Dependencies)
}

func TestBuild_ignore(t *testing.T) {
	v := manifest.VersionOf("1")
	report := build(t, Options{Ignore: []string{"anyhow"}},
		pkg("a", map[string]manifest.VersionSpec{"anyhow": v, "serde": v}, nil),
		pkg("b", map[string]manifest.VersionSpec{"anyhow": v, "serde": v}, nil),
	)
	assert.Equal(t, []string{"serde"}, report.Names())
}

func TestBuild_alreadyInWorkspace(t *testing.T) {
	v := manifest.VersionOf("1")
	report := build(t, Options{WorkspaceDependencies: map[string]manifest.Dependency{
		"serde":  {Name: "serde", Spec: v},
		"unused": {Name: "unused", Spec: v},
	}},
		pkg("a", map[string]manifest.VersionSpec{"serde": v, "log": v}, nil),
		pkg("b", map[string]manifest.VersionSpec{"serde": v, "log": v}, nil),
	)
	assert.Equal(t, []string{"log", "serde"}, report.Names())
	assert.Equal(t, []string{"serde"}, report.AlreadyInWorkspace)
	assert.True(t, report.InWorkspace("serde"))
	assert.False(t, report.InWorkspace("log"))
	assert.False(t, report.InWorkspace("unused"))
}

func TestBuild_memberFailureAborts(t *testing.T) {
	boom := errors.New("boom")
	reader := &fakeReader{
		packages: map[string]*manifest.Package{"/ws/a/Cargo.toml": pkg("a", nil, nil)},
		err:      map[string]error{"/ws/b/Cargo.toml": boom},
	}
	members := []workspace.Member{
		{Name: "a", ManifestPath: "/ws/a/Cargo.toml"},
		{Name: "b", ManifestPath: "/ws/b/Cargo.toml"},
		{Name: "c", ManifestPath: "/ws/c/Cargo.toml"},
	}

	report, err := Build(context.Background(), "/ws", members, reader, Options{})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "member b")
	assert.Equal(t, []string{"/ws/a/Cargo.toml", "/ws/b/Cargo.toml"}, reader.reads)
}

func TestBuild_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &fakeReader{}
	_, err := Build(ctx, "/ws", []workspace.Member{{Name: "a", ManifestPath: "/ws/a/Cargo.toml"}}, reader, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reader.reads)
}

func TestFileReader_missingManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", manifest.FileName)

	_, err := FileReader{}.ReadManifest(path)
	require.Error(t, err)
	var notFound *manifest.PathNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, path, notFound.Path)
}

func TestBuild_fromDisk(t *testing.T) {
	root := testutil.CreateWorkspace(t, []string{"app", "crates/*"}, "[workspace.dependencies]\ntokio = \"1\"\n")
	testutil.CreateMember(t, root, "app", "app",
		[]string{`serde = "1.0"`, `tokio = { workspace = true }`, `core = { path = "../crates/core" }`}, nil)
	testutil.CreateMember(t, root, "crates/core", "core",
		[]string{`serde = { version = "1.0", features = ["derive"] }`, `tokio = "1.38"`}, nil)
	testutil.CreateMember(t, root, "crates/net", "net",
		[]string{`tokio = { version = "1.38", features = ["net"] }`}, []string{`serde = "1.0"`})
	testutil.CreateMember(t, root, "crates/util", "util",
		[]string{`itoa = "1"`}, []string{`core = { path = "../core" }`})

	ctx, err := workspace.Load(root, manifest.Options{})
	require.NoError(t, err)
	members, err := ctx.Members()
	require.NoError(t, err)
	require.Len(t, members, 4)

	report, err := Build(context.Background(), ctx.Root, members, FileReader{},
		Options{WorkspaceDependencies: ctx.Workspace.Dependencies})
	require.NoError(t, err)

	assert.Equal(t, ctx.Root, report.WorkspacePath)
	assert.Equal(t, []string{"serde", "tokio"}, report.Names())
	assert.Equal(t, map[string]manifest.VersionSpec{
		"app":  manifest.VersionOf("1.0"),
		"core": manifest.VersionOf("1.0"),
		"net":  manifest.VersionOf("1.0"),
	}, report.Dependencies["serde"])
	assert.Equal(t, map[string]manifest.VersionSpec{
		"app":  manifest.WorkspaceSpec(),
		"core": manifest.VersionOf("1.38"),
		"net":  manifest.VersionOf("1.38"),
	}, report.Dependencies["tokio"])
	assert.Equal(t, []string{"tokio"}, report.AlreadyInWorkspace)
}

func TestBuild_fromDiskMissingMember(t *testing.T) {
	root := testutil.CreateWorkspace(t, []string{"a", "ghost"}, "")
	testutil.CreateMember(t, root, "a", "a", nil, nil)

	ctx, err := workspace.Load(root, manifest.Options{})
	require.NoError(t, err)
	members, err := ctx.Members()
	require.NoError(t, err)

	_, err = Build(context.Background(), ctx.Root, members, FileReader{}, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, manifest.ErrPathNotFound))
	assert.Contains(t, err.Error(), filepath.Join(ctx.Root, "ghost", "Cargo.toml"))
}
