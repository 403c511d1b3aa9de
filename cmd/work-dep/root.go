package main

import (
	"github.com/rodoufu/work-dep/internal/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "work-dep",
		Short:         "Find dependencies shared by workspace members that could move to the workspace",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logging.Setup(cmd.ErrOrStderr(), verbose)
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log progress to stderr")

	cmd.AddCommand(
		newCheckCmd(),
		newMembersCmd(),
	)

	return cmd
}

// addWorkspaceFlag registers the required --workspace-path flag.
func addWorkspaceFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("workspace-path", "w", "",
		"Path to the workspace whose member projects should be checked")
	_ = cmd.MarkFlagRequired("workspace-path")
}
