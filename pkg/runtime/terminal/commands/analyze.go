package commands

import (
	"fmt"

	"github.com/de-tools/tradeline-atlas/pkg/adapters"
	"github.com/de-tools/tradeline-atlas/pkg/models/api"
	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/services/analysis"
	"github.com/spf13/cobra"
)

type manualEdits []api.ManualEdit

func (e manualEdits) Validate() error {
	return api.ValidateManualEdits(e)
}

type AnalyzeCmd struct {
	env *Env

	inputPath string
	editsPath string
	userID    string
	scoreBand string
	surplus   float64
	lumpSum   float64
	flags     api.Flags
}

func NewAnalyzeCmd(env *Env) *cobra.Command {
	ac := &AnalyzeCmd{env: env}
	cmd := &cobra.Command{
		Use:   "analyze [" + documentArgsUsage + "]",
		Short: "Build a ranked action plan from bureau documents or a prepared request",
		Long: "With documents, runs the full pipeline: parse, merge, apply manual edits and plan.\n" +
			"With --input, plans the accounts of an analyze request JSON file as given.",
		RunE: ac.run,
	}

	cmd.Flags().StringVar(&ac.inputPath, "input", "", "Analyze request JSON file")
	cmd.Flags().StringVar(&ac.editsPath, "edits", "", "JSON file with a list of manual edits")
	cmd.Flags().StringVar(&ac.userID, "user-id", "cli", "User identifier recorded with the run")
	cmd.Flags().StringVar(&ac.scoreBand, "score-band", string(domain.ScoreBandUnknown), "Credit score band")
	cmd.Flags().Float64Var(&ac.surplus, "surplus", 0, "Monthly surplus available for paydown")
	cmd.Flags().Float64Var(&ac.lumpSum, "lump-sum", 0, "One-off amount available for paydown")
	cmd.Flags().BoolVar(&ac.flags.Any60dLate, "any-60d-late", false, "A payment was 60+ days late")
	cmd.Flags().BoolVar(&ac.flags.LateFeeLastTwoStatements, "late-fee", false, "A late fee was charged in the last two statements")
	cmd.Flags().BoolVar(&ac.flags.PenaltyAPRActive, "penalty-apr", false, "A penalty APR is active")

	cmd.MarkFlagsMutuallyExclusive("input", "edits")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if ac.inputPath != "" {
		if len(args) > 0 {
			return fmt.Errorf("documents cannot be combined with --input")
		}
		var req api.AnalyzeRequest
		if err := readJSON(ac.inputPath, &req); err != nil {
			return err
		}
		input, err := adapters.MapAnalyzeRequestApiToDomain(req)
		if err != nil {
			return err
		}
		plan, err := ac.env.Service.Analyze(ctx, input)
		if err != nil {
			return err
		}
		return ac.env.Reporter.Plan(plan)
	}

	if len(args) == 0 {
		return fmt.Errorf("at least one document or --input is required")
	}

	req := api.ReportRequest{
		User:  api.User{ID: ac.userID, ScoreBand: ac.scoreBand},
		Flags: ac.flags,
	}
	if ac.surplus > 0 || ac.lumpSum > 0 {
		req.Paydown = &api.PaydownPreferences{MonthlySurplus: ac.surplus, LumpSum: ac.lumpSum}
		if err := req.Paydown.Validate(); err != nil {
			return err
		}
	}
	if err := req.User.Validate(); err != nil {
		return err
	}
	if ac.editsPath != "" {
		var edits manualEdits
		if err := readJSON(ac.editsPath, &edits); err != nil {
			return err
		}
		req.ManualEdits = edits
	}

	user, err := adapters.MapUserApiToDomain(req.User)
	if err != nil {
		return err
	}
	docs, err := loadDocuments(ctx, ac.env.Loader, args)
	if err != nil {
		return err
	}

	report, err := ac.env.Service.Report(ctx, analysis.ReportInput{
		Documents:   docs,
		ManualEdits: adapters.MapManualEditsApiToDomain(req.ManualEdits),
		User:        user,
		Flags:       adapters.MapFlagsApiToDomain(req.Flags),
		Paydown:     adapters.MapPaydownPreferencesApiToDomain(req.Paydown),
	})
	if err != nil {
		return err
	}
	return ac.env.Reporter.Report(report)
}
