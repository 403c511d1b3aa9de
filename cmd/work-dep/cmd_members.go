package main

import (
	"github.com/rodoufu/work-dep/internal/manifest"
	"github.com/rodoufu/work-dep/internal/ui"
	"github.com/rodoufu/work-dep/internal/workspace"
	"github.com/spf13/cobra"
)

func newMembersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List the resolved workspace members",
		Args:  cobra.NoArgs,
		RunE:  runMembers,
	}
	addWorkspaceFlag(cmd)
	return cmd
}

func runMembers(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("workspace-path")

	ctx, err := workspace.Load(root, manifest.Options{})
	if err != nil {
		return err
	}
	members, err := ctx.Members()
	if err != nil {
		return err
	}

	tbl := ui.NewTable(cmd.OutOrStdout(), "MEMBER", "MANIFEST", "PACKAGE")
	for _, m := range members {
		tbl.Row(m.Name, m.ManifestPath, packageName(m))
	}
	return tbl.Flush()
}

// packageName describes the member's package for display; unreadable
// manifests are reported inline rather than failing the listing.
func packageName(m workspace.Member) string {
	if err := manifest.CheckExists(m.ManifestPath); err != nil {
		return "(missing)"
	}
	pkg, err := manifest.LoadPackage(m.ManifestPath, manifest.Options{})
	if err != nil {
		return "(invalid)"
	}
	return pkg.Name
}
