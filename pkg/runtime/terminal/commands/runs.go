package commands

import (
	"github.com/de-tools/tradeline-atlas/pkg/store/sqlite/runs"
	"github.com/spf13/cobra"
)

func NewRunsCmd(env *Env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent analysis runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := env.Service.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return env.Reporter.Runs(result)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", runs.DefaultListLimit, "Maximum number of runs to list")
	return cmd
}
