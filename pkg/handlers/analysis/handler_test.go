package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/tradeline-atlas/pkg/models/api"
	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/services/analysis"
	"github.com/de-tools/tradeline-atlas/pkg/services/ev"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) AnalyzeDocument(ctx context.Context, bureau domain.Bureau, text string) (domain.DocumentAnalysis, error) {
	args := m.Called(ctx, bureau, text)
	return args.Get(0).(domain.DocumentAnalysis), args.Error(1)
}

func (m *mockAnalyzer) Analyze(ctx context.Context, input domain.AnalyzeInput) (domain.Plan, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Plan), args.Error(1)
}

func (m *mockAnalyzer) Report(ctx context.Context, input analysis.ReportInput) (analysis.Report, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(analysis.Report), args.Error(1)
}

func (m *mockAnalyzer) ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]domain.AnalysisRun)
	return runs, args.Error(1)
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorBody {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

const analyzeBody = `{
	"user": {"id": "user-1", "score_band": "good"},
	"accounts": [{
		"id": "card-1", "bureau": "equifax", "creditor_name": "Prime Bank",
		"product_type": "credit_card", "ownership": "individual", "status": "open",
		"payment_status": "current", "balance": 2000, "credit_limit": 5000, "apr": %s
	}],
	"flags": {"late_fee_last_two_statements": true}
}`

func TestHandler_AnalyzeDocument(t *testing.T) {
	tests := []struct {
		name           string
		bureau         string
		body           string
		setupMock      func(m *mockAnalyzer)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "successful response",
			bureau: "Equifax",
			body:   "Account Name: Prime Bank",
			setupMock: func(m *mockAnalyzer) {
				m.On("AnalyzeDocument", mock.Anything, domain.BureauEquifax, "Account Name: Prime Bank").Return(
					domain.DocumentAnalysis{
						ParseResult: domain.ParseResult{Accounts: []domain.ParsedAccount{{Name: "Prime Bank"}}},
						Evaluation:  domain.Evaluation{Bureau: domain.BureauEquifax, Metrics: domain.Metrics{CoveragePercent: 100}},
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{name: "unknown bureau", bureau: "acme", body: "text", setupMock: func(*mockAnalyzer) {}, expectedStatus: http.StatusBadRequest, expectedCode: api.CodeInvalidRequest},
		{name: "empty document", bureau: "equifax", body: "   ", setupMock: func(*mockAnalyzer) {}, expectedStatus: http.StatusBadRequest, expectedCode: api.CodeInvalidRequest},
		{
			name:   "service failure",
			bureau: "experian",
			body:   "text",
			setupMock: func(m *mockAnalyzer) {
				m.On("AnalyzeDocument", mock.Anything, domain.BureauExperian, "text").
					Return(domain.DocumentAnalysis{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   api.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			analyzer := &mockAnalyzer{}
			tt.setupMock(analyzer)
			h := NewHandler(analyzer)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+tt.bureau, strings.NewReader(tt.body))
			req = withURLParams(req, map[string]string{"bureau": tt.bureau})
			rec := httptest.NewRecorder()

			// When
			h.AnalyzeDocument(rec, req)

			// Then
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, rec).Code)
				return
			}
			var resp api.DocumentAnalysis
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, "equifax", resp.Bureau)
			assert.Equal(t, 100.0, resp.Metrics.CoveragePercent)
			require.Len(t, resp.Accounts, 1)
			analyzer.AssertExpectations(t)
		})
	}
}

func TestHandler_Merge(t *testing.T) {
	t.Run("merges accounts", func(t *testing.T) {
		// Given
		body := `{"accounts": [
			{"bureau": "equifax", "name": "Prime Bank Visa", "balance": 1200, "reported_date": "2024-02"},
			{"bureau": "transunion", "name": "Prime Bank Visa", "balance": 1300, "reported_date": "2024-03"}
		]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/merge", strings.NewReader(body))
		rec := httptest.NewRecorder()

		// When
		NewHandler(&mockAnalyzer{}).Merge(rec, req)

		// Then
		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.MergeResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp.MergedAccounts, 1)
		assert.Equal(t, 1300.0, *resp.MergedAccounts[0].Balance)
		assert.Equal(t, []string{"equifax", "transunion"}, resp.MergedAccounts[0].Bureaus)
		require.Len(t, resp.Conflicts, 2)
		assert.Equal(t, "balance", resp.Conflicts[0].Field)
		assert.Equal(t, 1300.0, resp.Conflicts[0].Chosen.Value)
	})

	t.Run("negative balance", func(t *testing.T) {
		body := `{"accounts": [{"bureau": "equifax", "name": "x", "balance": -1}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/merge", strings.NewReader(body))
		rec := httptest.NewRecorder()

		NewHandler(&mockAnalyzer{}).Merge(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, api.CodeInvalidRequest, decodeError(t, rec).Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/merge", strings.NewReader(`{"accounts": [`))
		rec := httptest.NewRecorder()

		NewHandler(&mockAnalyzer{}).Merge(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, api.CodeBadRequest, decodeError(t, rec).Code)
	})
}

func TestHandler_Analyze(t *testing.T) {
	t.Run("successful response", func(t *testing.T) {
		// Given
		analyzer := &mockAnalyzer{}
		analyzer.On("Analyze", mock.Anything, mock.MatchedBy(func(in domain.AnalyzeInput) bool {
			return in.User.ScoreBand == domain.ScoreBandGood && len(in.Accounts) == 1 &&
				in.Flags.LateFeeLastTwoStatements && *in.Accounts[0].APR == 22.99
		})).Return(domain.Plan{
			Actions:  []domain.Action{{ID: "action-late-fee", Type: domain.ActionLateFeeReversal, EstimatedSavingsUSD: 26}},
			Warnings: []domain.Warning{},
			Audit:    domain.Audit{EngineVersion: ev.EngineVersion, RunID: "run-1", GeneratedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(fmt.Sprintf(analyzeBody, "22.99")))
		rec := httptest.NewRecorder()

		// When
		NewHandler(analyzer).Analyze(rec, req)

		// Then
		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.AnalyzeResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp.Actions, 1)
		assert.Equal(t, "late_fee_reversal", resp.Actions[0].Type)
		assert.Equal(t, "run-1", resp.Audit.RunID)
		analyzer.AssertExpectations(t)
	})

	t.Run("non-finite APR from the engine", func(t *testing.T) {
		analyzer := &mockAnalyzer{}
		analyzer.On("Analyze", mock.Anything, mock.Anything).
			Return(domain.Plan{}, fmt.Errorf("failed to build plan: %w", ev.ErrNonFiniteAPR))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(fmt.Sprintf(analyzeBody, "22.99")))
		rec := httptest.NewRecorder()

		NewHandler(analyzer).Analyze(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, api.CodeInvalidRequest, decodeError(t, rec).Code)
	})

	t.Run("negative APR", func(t *testing.T) {
		analyzer := &mockAnalyzer{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(fmt.Sprintf(analyzeBody, "-3")))
		rec := httptest.NewRecorder()

		NewHandler(analyzer).Analyze(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "accounts[0].apr")
		analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	})

	t.Run("unknown enum", func(t *testing.T) {
		body := strings.Replace(fmt.Sprintf(analyzeBody, "20"), `"credit_card"`, `"boat"`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
		rec := httptest.NewRecorder()

		NewHandler(&mockAnalyzer{}).Analyze(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, api.CodeInvalidRequest, decodeError(t, rec).Code)
	})
}

func TestHandler_Report(t *testing.T) {
	// Given
	analyzer := &mockAnalyzer{}
	analyzer.On("Report", mock.Anything, mock.MatchedBy(func(in analysis.ReportInput) bool {
		return len(in.Documents) == 1 && in.Documents[0].Bureau == domain.BureauTransUnion &&
			len(in.ManualEdits) == 1 && in.User.ID == "user-1"
	})).Return(analysis.Report{
		DocumentsResult: analysis.DocumentsResult{
			Documents: []domain.DocumentAnalysis{{Evaluation: domain.Evaluation{Bureau: domain.BureauTransUnion}}},
		},
		Accounts: []domain.Account{{ID: "prime_bank_visa-0", Bureau: domain.BureauTransUnion}},
		Plan:     domain.Plan{Audit: domain.Audit{RunID: "run-1"}},
	}, nil)
	body := `{
		"documents": [{"bureau": "transunion", "text": "Account Name: Prime Bank Visa"}],
		"manual_edits": [{"id": "Prime Bank Visa", "fields": {"balance": 900}}],
		"user": {"id": "user-1", "score_band": "fair"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(body))
	rec := httptest.NewRecorder()

	// When
	NewHandler(analyzer).Report(rec, req)

	// Then
	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.ReportResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "transunion", resp.Documents[0].Bureau)
	require.Len(t, resp.Accounts, 1)
	assert.Equal(t, "run-1", resp.Analysis.Audit.RunID)
	analyzer.AssertExpectations(t)
}

func TestHandler_SimulatePaydown(t *testing.T) {
	t.Run("avalanche", func(t *testing.T) {
		// Given
		// card-2 (2%/month) takes the whole surplus while card-1 (1%/month) only accrues:
		// month 1: card-2 600->400, interest 10 on avg 500; card-1 interest 12.
		// month 2: card-2 410->210, interest 6.20 on avg 310; card-1 interest 12.12.
		body := `{
			"accounts": [{"id": "card-1", "balance": 1200, "apr": 12}, {"id": "card-2", "balance": 600, "apr": 24}],
			"surplus": 200, "months": 2, "strategy": "avalanche"
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/paydown/simulate", strings.NewReader(body))
		rec := httptest.NewRecorder()

		// When
		NewHandler(&mockAnalyzer{}).SimulatePaydown(rec, req)

		// Then
		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.PaydownResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 40.32, resp.InterestPaid)
		assert.Equal(t, map[string]float64{"card-1": 1224.12, "card-2": 216.2}, resp.Balances)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		body := `{"accounts": [{"id": "a", "balance": 1, "apr": 1}], "surplus": 1, "months": 1, "strategy": "snowball"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/paydown/simulate", strings.NewReader(body))
		rec := httptest.NewRecorder()

		NewHandler(&mockAnalyzer{}).SimulatePaydown(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_ListRuns(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(m *mockAnalyzer)
		expectedStatus int
	}{
		{
			name:  "default limit",
			query: "",
			setupMock: func(m *mockAnalyzer) {
				m.On("ListRuns", mock.Anything, 0).Return([]domain.AnalysisRun{{ID: "run-1"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "explicit limit",
			query: "?limit=5",
			setupMock: func(m *mockAnalyzer) {
				m.On("ListRuns", mock.Anything, 5).Return([]domain.AnalysisRun{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{name: "invalid limit", query: "?limit=abc", setupMock: func(*mockAnalyzer) {}, expectedStatus: http.StatusBadRequest},
		{
			name:  "run log disabled",
			query: "",
			setupMock: func(m *mockAnalyzer) {
				m.On("ListRuns", mock.Anything, 0).Return(nil, analysis.ErrRunLogDisabled)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &mockAnalyzer{}
			tt.setupMock(analyzer)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/runs"+tt.query, nil)
			rec := httptest.NewRecorder()

			NewHandler(analyzer).ListRuns(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			analyzer.AssertExpectations(t)
		})
	}
}
