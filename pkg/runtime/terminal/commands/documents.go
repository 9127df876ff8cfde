package commands

import (
	"github.com/spf13/cobra"
)

const documentArgsUsage = "bureau=path [bureau=path...]"

// NewParseCmd parses each document and prints its accounts and quality metrics.
func NewParseCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "parse " + documentArgsUsage,
		Short:   "Parse bureau report text and evaluate extraction quality",
		Example: "  tradeline parse equifax=reports/eq.txt transunion=s3://reports/tu.txt",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(cmd.Context(), env.Loader, args)
			if err != nil {
				return err
			}
			result, err := env.Service.AnalyzeDocuments(cmd.Context(), docs)
			if err != nil {
				return err
			}
			return env.Reporter.Documents(result.Documents)
		},
	}
}

// NewMergeCmd parses every document and reconciles accounts across bureaus.
func NewMergeCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "merge " + documentArgsUsage,
		Short: "Merge accounts reported by several bureaus",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(cmd.Context(), env.Loader, args)
			if err != nil {
				return err
			}
			result, err := env.Service.AnalyzeDocuments(cmd.Context(), docs)
			if err != nil {
				return err
			}
			return env.Reporter.Merge(result.Merge)
		},
	}
}
