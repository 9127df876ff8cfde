package export

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/services/analysis"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Reporter renders pipeline results for the terminal.
type Reporter interface {
	Documents(docs []domain.DocumentAnalysis) error
	Merge(result domain.MergeResult) error
	Plan(plan domain.Plan) error
	Report(report analysis.Report) error
	Paydown(result domain.PaydownResult) error
	Runs(runs []domain.AnalysisRun) error
}

var printer = message.NewPrinter(language.AmericanEnglish)

func money(v any) string {
	switch value := v.(type) {
	case float64:
		return printer.Sprintf("$%.2f", value)
	case *float64:
		if value == nil {
			return "-"
		}
		return printer.Sprintf("$%.2f", *value)
	case *domain.Scored[float64]:
		if value == nil {
			return "-"
		}
		return printer.Sprintf("$%.2f", value.Value)
	default:
		return "-"
	}
}

func text(v any) string {
	switch value := v.(type) {
	case nil:
		return "-"
	case *string:
		if value == nil {
			return "-"
		}
		return *value
	case *domain.AccountStatus:
		if value == nil {
			return "-"
		}
		return string(*value)
	case *domain.Ownership:
		if value == nil {
			return "-"
		}
		return string(*value)
	case *domain.Scored[string]:
		if value == nil {
			return "-"
		}
		return value.Value
	case *domain.Scored[domain.AccountStatus]:
		if value == nil {
			return "-"
		}
		return string(value.Value)
	case float64:
		return printer.Sprintf("%.2f", value)
	default:
		s := fmt.Sprint(value)
		if s == "" {
			return "-"
		}
		return s
	}
}

// cell pads or truncates s to exactly width runes.
func cell(width int, s string) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		return string([]rune(s)[:width-1]) + "~"
	}
	return s + strings.Repeat(" ", width-n)
}

func separator(widths ...int) string {
	parts := make([]string, 0, len(widths))
	for _, w := range widths {
		parts = append(parts, strings.Repeat("-", w+2))
	}
	return "+" + strings.Join(parts, "+") + "+"
}

func probability(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", *p*100)
}

func bureaus(list []domain.Bureau) string {
	names := make([]string, 0, len(list))
	for _, b := range list {
		names = append(names, b.String())
	}
	return strings.Join(names, ",")
}

var funcMap = template.FuncMap{
	"money":       money,
	"text":        text,
	"cell":        cell,
	"separator":   separator,
	"probability": probability,
	"bureaus":     bureaus,
	"sortedKeys": func(m map[string]float64) []string {
		return slices.Sorted(maps.Keys(m))
	},
	"inc": func(i int) int { return i + 1 },
}

const documentsTmpl = `{{range .}}
=== {{.Bureau}} ===
Accounts: {{len .Accounts}}  Inquiries: {{len .Inquiries}}
Coverage: {{printf "%.2f" .Metrics.CoveragePercent}}% (min {{.Thresholds.CoveragePercent}})  Numeric exact: {{printf "%.2f" .Metrics.NumericExactPercent}}% (min {{.Thresholds.NumericExactPercent}})  Categorical/date: {{printf "%.2f" .Metrics.CategoricalDatePercent}}% (min {{.Thresholds.CategoricalDatePercent}})
Manual review: {{if .RequiresManualReview}}required ({{len .AccountsNeedingReview}} accounts){{else}}not required{{end}}
{{if .Accounts}}{{separator 28 14 14 12 9}}
| {{cell 28 "Account"}} | {{cell 14 "Balance"}} | {{cell 14 "Limit"}} | {{cell 12 "Status"}} | {{cell 9 "Reported"}} |
{{separator 28 14 14 12 9}}
{{range .Accounts}}| {{cell 28 .Name}} | {{cell 14 (money .Balance)}} | {{cell 14 (money .CreditLimit)}} | {{cell 12 (text .Status)}} | {{cell 9 (text .ReportedDate)}} |
{{end}}{{separator 28 14 14 12 9}}
{{end}}{{range .Inquiries}}- inquiry: {{.Creditor}}{{if .Date}} ({{.Date.Value}}){{end}}{{if .Type}} [{{.Type}}]{{end}}
{{end}}{{end}}`

const mergeTmpl = `
Merged accounts: {{len .MergedAccounts}}  Excluded: {{len .ExcludedAccounts}}  Conflicts: {{len .Conflicts}}
{{if .MergedAccounts}}{{separator 28 22 14 14 12 9}}
| {{cell 28 "Account"}} | {{cell 22 "Bureaus"}} | {{cell 14 "Balance"}} | {{cell 14 "Limit"}} | {{cell 12 "Status"}} | {{cell 9 "Reported"}} |
{{separator 28 22 14 14 12 9}}
{{range .MergedAccounts}}| {{cell 28 .Name}} | {{cell 22 (bureaus .Bureaus)}} | {{cell 14 (money .Balance)}} | {{cell 14 (money .CreditLimit)}} | {{cell 12 (text .Status)}} | {{cell 9 (text .ReportedDate)}} |
{{end}}{{separator 28 22 14 14 12 9}}
{{end}}{{range .ExcludedAccounts}}- excluded (authorized user): {{.Name}}
{{end}}{{range .Conflicts}}- conflict: {{.AccountName}} {{.Field}} chose {{text .Chosen.Value}} from {{.Chosen.Bureau}} ({{.Resolution}}){{range .Others}}; {{.Bureau}} reported {{text .Value}}{{end}}
{{end}}`

const planTmpl = `
Actions:
{{range $i, $a := .Actions}}{{inc $i}}. {{$a.Title}}: {{money $a.EstimatedSavingsUSD}}{{if $a.ScenarioRange}} (range {{money $a.ScenarioRange.Low}} to {{money $a.ScenarioRange.High}}){{end}}, success {{probability $a.ProbabilityOfSuccess}}, impact {{$a.Metadata.ScoreImpact}}
   {{$a.Summary}}
{{range $a.NextSteps}}   * {{.}}
{{end}}{{else}}  none
{{end}}{{range .Warnings}}! [{{.Level}}] {{.Code}}: {{.Message}}
{{end}}
Engine {{.Audit.EngineVersion}}, run {{.Audit.RunID}}, {{.Audit.ComputeMs}} ms
`

const paydownTmpl = `
Interest paid: {{money .InterestPaid}}
{{range $id := sortedKeys .Balances}}- {{$id}}: {{money (index $.Balances $id)}}
{{end}}`

const runsTmpl = `{{separator 36 20 22 8 10 12}}
| {{cell 36 "Run"}} | {{cell 20 "Created"}} | {{cell 22 "Bureaus"}} | {{cell 8 "Actions"}} | {{cell 10 "Review"}} | {{cell 12 "Savings"}} |
{{separator 36 20 22 8 10 12}}
{{range .}}| {{cell 36 .ID}} | {{cell 20 (.CreatedAt.Format "2006-01-02 15:04:05")}} | {{cell 22 (bureaus .Bureaus)}} | {{cell 8 (print .ActionCount)}} | {{cell 10 (print .RequiresManualReview)}} | {{cell 12 (money .TotalSavingsUSD)}} |
{{end}}{{separator 36 20 22 8 10 12}}
`

var templates = template.Must(template.New("export").Funcs(funcMap).Parse(""))

func init() {
	for name, body := range map[string]string{
		"documents": documentsTmpl,
		"merge":     mergeTmpl,
		"plan":      planTmpl,
		"paydown":   paydownTmpl,
		"runs":      runsTmpl,
	} {
		template.Must(templates.New(name).Parse(body))
	}
}

// TextReporter writes human-readable tables.
type TextReporter struct {
	writer io.Writer
}

func NewTextReporter(writer io.Writer) *TextReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &TextReporter{writer: writer}
}

func (c *TextReporter) render(name string, data any) error {
	if err := templates.ExecuteTemplate(c.writer, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

func (c *TextReporter) Documents(docs []domain.DocumentAnalysis) error {
	return c.render("documents", docs)
}

func (c *TextReporter) Merge(result domain.MergeResult) error {
	return c.render("merge", result)
}

func (c *TextReporter) Plan(plan domain.Plan) error {
	return c.render("plan", plan)
}

func (c *TextReporter) Report(report analysis.Report) error {
	if err := c.Documents(report.Documents); err != nil {
		return err
	}
	if err := c.Merge(report.Merge); err != nil {
		return err
	}
	return c.Plan(report.Plan)
}

func (c *TextReporter) Paydown(result domain.PaydownResult) error {
	return c.render("paydown", result)
}

func (c *TextReporter) Runs(runs []domain.AnalysisRun) error {
	return c.render("runs", runs)
}
