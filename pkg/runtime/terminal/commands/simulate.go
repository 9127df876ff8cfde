package commands

import (
	"github.com/de-tools/tradeline-atlas/pkg/adapters"
	"github.com/de-tools/tradeline-atlas/pkg/models/api"
	"github.com/de-tools/tradeline-atlas/pkg/services/paydown"
	"github.com/spf13/cobra"
)

func NewSimulateCmd(env *Env) *cobra.Command {
	var (
		inputPath string
		strategy  string
		months    int
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate paying down balances over a number of months",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req api.PaydownRequest
			if err := decodeJSON(inputPath, &req); err != nil {
				return err
			}
			if strategy != "" {
				req.Strategy = strategy
			}
			if months > 0 {
				req.Months = months
			}
			if err := req.Validate(); err != nil {
				return err
			}
			return env.Reporter.Paydown(paydown.Simulate(adapters.MapPaydownRequestApiToDomain(req)))
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Paydown request JSON file")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Override the strategy: proportional or avalanche")
	cmd.Flags().IntVar(&months, "months", 0, "Override the number of months")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
