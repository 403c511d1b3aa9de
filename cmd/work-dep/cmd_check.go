package main

import (
	"github.com/rodoufu/work-dep/internal/aggregate"
	"github.com/rodoufu/work-dep/internal/config"
	"github.com/rodoufu/work-dep/internal/manifest"
	"github.com/rodoufu/work-dep/internal/report"
	"github.com/rodoufu/work-dep/internal/ui"
	"github.com/rodoufu/work-dep/internal/workspace"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report dependencies declared by several members instead of the workspace",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
	addWorkspaceFlag(cmd)
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	cmd.Flags().Bool("strict", false, "Reject dependency tables with conflicting version fields")
	cmd.Flags().StringSlice("ignore", nil, "Dependencies never reported (repeatable)")
	return cmd
}

// checkSettings merges .work-dep.yaml with the flags; flags win when set.
type checkSettings struct {
	format report.Format
	strict bool
	ignore []string
}

func resolveCheckSettings(cmd *cobra.Command, cfg *config.File) (checkSettings, error) {
	output := cfg.Output
	if cmd.Flags().Changed("output") || output == "" {
		output, _ = cmd.Flags().GetString("output")
	}
	format, err := report.ParseFormat(output)
	if err != nil {
		return checkSettings{}, err
	}

	strict := cfg.Strict
	if cmd.Flags().Changed("strict") {
		strict, _ = cmd.Flags().GetBool("strict")
	}

	ignore, _ := cmd.Flags().GetStringSlice("ignore")
	ignore = append(append([]string{}, cfg.Ignore...), ignore...)

	return checkSettings{format: format, strict: strict, ignore: ignore}, nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("workspace-path")

	cfg, err := config.LoadOptional(root)
	if err != nil {
		return err
	}
	settings, err := resolveCheckSettings(cmd, cfg)
	if err != nil {
		return err
	}
	opts := manifest.Options{Strict: settings.strict}

	ctx, err := workspace.Load(root, opts)
	if err != nil {
		return err
	}
	members, err := ctx.Members()
	if err != nil {
		return err
	}

	rep, err := aggregate.Build(cmd.Context(), ctx.Root, members, aggregate.FileReader{Options: opts}, aggregate.Options{
		Ignore:                settings.ignore,
		WorkspaceDependencies: ctx.Workspace.Dependencies,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return report.Render(out, rep, settings.format, report.Options{Styled: ui.IsTerminal(out)})
}
