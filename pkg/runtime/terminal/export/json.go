package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/tradeline-atlas/pkg/adapters"
	"github.com/de-tools/tradeline-atlas/pkg/models/api"
	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/services/analysis"
)

// JSONReporter writes the same payloads the HTTP API returns.
type JSONReporter struct {
	writer io.Writer
}

func NewJSONReporter(writer io.Writer) *JSONReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &JSONReporter{writer: writer}
}

func (c *JSONReporter) encode(v any) error {
	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func (c *JSONReporter) Documents(docs []domain.DocumentAnalysis) error {
	out := make([]api.DocumentAnalysis, 0, len(docs))
	for _, d := range docs {
		out = append(out, adapters.MapDocumentAnalysisDomainToApi(d))
	}
	return c.encode(out)
}

func (c *JSONReporter) Merge(result domain.MergeResult) error {
	return c.encode(adapters.MapMergeResultDomainToApi(result))
}

func (c *JSONReporter) Plan(plan domain.Plan) error {
	return c.encode(adapters.MapPlanDomainToApi(plan))
}

func (c *JSONReporter) Report(report analysis.Report) error {
	out := api.ReportResponse{
		Documents: make([]api.DocumentAnalysis, 0, len(report.Documents)),
		Merge:     adapters.MapMergeResultDomainToApi(report.Merge),
		Accounts:  make([]api.Account, 0, len(report.Accounts)),
		Analysis:  adapters.MapPlanDomainToApi(report.Plan),
	}
	for _, d := range report.Documents {
		out.Documents = append(out.Documents, adapters.MapDocumentAnalysisDomainToApi(d))
	}
	for _, a := range report.Accounts {
		out.Accounts = append(out.Accounts, adapters.MapAccountDomainToApi(a))
	}
	return c.encode(out)
}

func (c *JSONReporter) Paydown(result domain.PaydownResult) error {
	return c.encode(adapters.MapPaydownResultDomainToApi(result))
}

func (c *JSONReporter) Runs(runs []domain.AnalysisRun) error {
	out := make([]api.Run, 0, len(runs))
	for _, r := range runs {
		out = append(out, adapters.MapRunDomainToApi(r))
	}
	return c.encode(out)
}
