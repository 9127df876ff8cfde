package terminal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/services/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) AnalyzeDocuments(ctx context.Context, docs []analysis.Document) (analysis.DocumentsResult, error) {
	args := m.Called(ctx, docs)
	return args.Get(0).(analysis.DocumentsResult), args.Error(1)
}

func (m *mockService) Analyze(ctx context.Context, input domain.AnalyzeInput) (domain.Plan, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Plan), args.Error(1)
}

func (m *mockService) Report(ctx context.Context, input analysis.ReportInput) (analysis.Report, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(analysis.Report), args.Error(1)
}

func (m *mockService) ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.AnalysisRun), args.Error(1)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, svc *mockService, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out, Service: svc})
	cli.SetArgs(args)
	err := cli.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	// Given
	path := writeFile(t, "eq.txt", "report text")
	svc := &mockService{}
	svc.On("AnalyzeDocuments", mock.Anything, []analysis.Document{{Bureau: domain.BureauEquifax, Text: "report text"}}).
		Return(analysis.DocumentsResult{Documents: []domain.DocumentAnalysis{{
			Evaluation: domain.Evaluation{Bureau: domain.BureauEquifax},
		}}}, nil)

	// When
	out, err := run(t, svc, "parse", "--json", "equifax="+path)

	// Then
	require.NoError(t, err)
	assert.Contains(t, out, `"bureau": "equifax"`)
	svc.AssertExpectations(t)
}

func TestMergeCommand(t *testing.T) {
	// Given
	eq := writeFile(t, "eq.txt", "eq")
	tu := writeFile(t, "tu.txt", "tu")
	svc := &mockService{}
	svc.On("AnalyzeDocuments", mock.Anything, []analysis.Document{
		{Bureau: domain.BureauEquifax, Text: "eq"},
		{Bureau: domain.BureauTransUnion, Text: "tu"},
	}).Return(analysis.DocumentsResult{Merge: domain.MergeResult{
		MergedAccounts: []domain.ReviewAccount{{ID: "acct-1", Name: "Prime Bank Visa"}},
	}}, nil)

	// When
	out, err := run(t, svc, "merge", "--json", "equifax="+eq, "transunion="+tu)

	// Then
	require.NoError(t, err)
	assert.Contains(t, out, "Prime Bank Visa")
	svc.AssertExpectations(t)
}

func TestDocumentArguments(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		err  string
	}{
		{name: "Missing separator", arg: "equifax", err: "bureau=path"},
		{name: "Unknown bureau", arg: "acme=/tmp/x.txt", err: "invalid document"},
		{name: "Missing file", arg: "equifax=/does/not/exist.txt", err: "/does/not/exist.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			svc := &mockService{}

			// When
			_, err := run(t, svc, "parse", tt.arg)

			// Then
			assert.ErrorContains(t, err, tt.err)
			svc.AssertNotCalled(t, "AnalyzeDocuments", mock.Anything, mock.Anything)
		})
	}
}

func TestAnalyzeCommand(t *testing.T) {
	t.Run("Documents with flags and edits", func(t *testing.T) {
		// Given
		doc := writeFile(t, "eq.txt", "eq")
		edits := writeFile(t, "edits.json", `[{"id": "Prime Bank Visa", "fields": {"balance": 120}}]`)
		balance := 120.0
		svc := &mockService{}
		svc.On("Report", mock.Anything, analysis.ReportInput{
			Documents:   []analysis.Document{{Bureau: domain.BureauEquifax, Text: "eq"}},
			ManualEdits: []domain.ManualEdit{{ID: "Prime Bank Visa", Fields: domain.ManualEditFields{Balance: &balance}}},
			User:        domain.User{ID: "user-9", ScoreBand: domain.ScoreBandGood},
			Flags:       domain.AnalyzeFlags{LateFeeLastTwoStatements: true},
			Paydown:     &domain.PaydownPreferences{MonthlySurplus: 200},
		}).Return(analysis.Report{Plan: domain.Plan{Audit: domain.Audit{RunID: "run-7"}}}, nil)

		// When
		out, err := run(t, svc, "analyze", "--json",
			"--user-id", "user-9", "--score-band", "good", "--late-fee", "--surplus", "200",
			"--edits", edits, "equifax="+doc)

		// Then
		require.NoError(t, err)
		assert.Contains(t, out, "run-7")
		svc.AssertExpectations(t)
	})

	t.Run("Prepared request", func(t *testing.T) {
		// Given
		input := writeFile(t, "request.json", `{
			"user": {"id": "u1", "score_band": "fair"},
			"accounts": [{"id": "a1", "creditor_name": "Bank", "bureau": "equifax", "product_type": "credit_card",
				"ownership": "individual", "status": "open", "payment_status": "current", "balance": 50}],
			"flags": {}
		}`)
		svc := &mockService{}
		svc.On("Analyze", mock.Anything, mock.MatchedBy(func(in domain.AnalyzeInput) bool {
			return in.User.ID == "u1" && len(in.Accounts) == 1 && in.Accounts[0].ID == "a1"
		})).Return(domain.Plan{Audit: domain.Audit{RunID: "run-8"}}, nil)

		// When
		out, err := run(t, svc, "analyze", "--json", "--input", input)

		// Then
		require.NoError(t, err)
		assert.Contains(t, out, "run-8")
		svc.AssertExpectations(t)
	})

	t.Run("Invalid score band", func(t *testing.T) {
		// Given
		doc := writeFile(t, "eq.txt", "eq")
		svc := &mockService{}

		// When
		_, err := run(t, svc, "analyze", "--score-band", "stellar", "equifax="+doc)

		// Then
		assert.Error(t, err)
		svc.AssertNotCalled(t, "Report", mock.Anything, mock.Anything)
	})

	t.Run("No input", func(t *testing.T) {
		// When
		_, err := run(t, &mockService{}, "analyze")

		// Then
		assert.ErrorContains(t, err, "at least one document or --input is required")
	})
}

func TestSimulateCommand(t *testing.T) {
	t.Run("Overrides strategy", func(t *testing.T) {
		// Given
		input := writeFile(t, "paydown.json", `{
			"accounts": [{"id": "a", "balance": 100, "apr": 0}],
			"surplus": 60, "months": 1, "strategy": "proportional"
		}`)

		// When
		out, err := run(t, &mockService{}, "simulate", "--json", "--input", input, "--strategy", "avalanche", "--months", "2")

		// Then
		require.NoError(t, err)
		assert.Contains(t, out, `"interest_paid": 0`)
		assert.Contains(t, out, `"a": 0`)
	})

	t.Run("Invalid strategy", func(t *testing.T) {
		// Given
		input := writeFile(t, "paydown.json", `{"accounts": [{"id": "a", "balance": 100, "apr": 0}], "surplus": 10, "months": 1, "strategy": "snowball"}`)

		// When
		_, err := run(t, &mockService{}, "simulate", "--input", input)

		// Then
		assert.Error(t, err)
	})
}

func TestRunsCommand(t *testing.T) {
	// Given
	svc := &mockService{}
	svc.On("ListRuns", mock.Anything, 3).Return([]domain.AnalysisRun{{ID: "run-1", UserID: "u1"}}, nil)

	// When
	out, err := run(t, svc, "runs", "--json", "--limit", "3")

	// Then
	require.NoError(t, err)
	assert.Contains(t, out, "run-1")
	svc.AssertExpectations(t)
}
