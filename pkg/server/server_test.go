package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/tradeline-atlas/pkg/models/api"
	"github.com/de-tools/tradeline-atlas/pkg/services/analysis"
	"github.com/de-tools/tradeline-atlas/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const equifaxText = `Accounts
Account Name: Prime Bank Visa
Account Type: Revolving
Balance: $1,200
Credit Limit: $5,000
Status: Open
Date Reported: 2024-02`

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var result T
		err := json.Unmarshal(data, &result)
		return result, err
	}
}

func newTestAPI(t *testing.T) *WebAPI {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return NewWebAPI(logger, Config{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		Dependencies: Dependencies{
			Analyzer: analysis.NewService(config.NewDefaultRegistry()),
		},
	})
}

func TestWebAPI_Endpoints(t *testing.T) {
	testServer := httptest.NewServer(newTestAPI(t).Handler())
	defer testServer.Close()

	tests := []struct {
		name           string
		method         string
		path           string
		contentType    string
		body           string
		expectedStatus int
		check          func(t *testing.T, parsed interface{})
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name:           "AnalyzeDocument",
			method:         http.MethodPost,
			path:           "/api/v1/documents/equifax",
			contentType:    "text/plain",
			body:           equifaxText,
			expectedStatus: http.StatusOK,
			parseResponse:  unmarshalResponse[api.DocumentAnalysis](),
			check: func(t *testing.T, parsed interface{}) {
				doc := parsed.(api.DocumentAnalysis)
				require.Len(t, doc.Accounts, 1)
				assert.Equal(t, "Prime Bank Visa", doc.Accounts[0].Name)
				assert.Equal(t, 1200.0, *doc.Accounts[0].Balance)
			},
		},
		{
			name:           "Analyze",
			method:         http.MethodPost,
			path:           "/api/v1/analyze",
			contentType:    "application/json",
			body:           `{"user": {"id": "u1", "score_band": "good"}, "accounts": []}`,
			expectedStatus: http.StatusOK,
			parseResponse:  unmarshalResponse[api.AnalyzeResponse](),
			check: func(t *testing.T, parsed interface{}) {
				resp := parsed.(api.AnalyzeResponse)
				assert.Empty(t, resp.Actions)
				require.Len(t, resp.Warnings, 1)
				assert.Equal(t, "no_revolving_balances", resp.Warnings[0].Code)
				assert.Equal(t, "v1.0.0", resp.Audit.EngineVersion)
				assert.NotEmpty(t, resp.Audit.RunID)
			},
		},
		{
			name:           "ListRuns without a run log",
			method:         http.MethodGet,
			path:           "/api/v1/runs",
			expectedStatus: http.StatusNotFound,
			parseResponse:  unmarshalResponse[api.ErrorResponse](),
			check: func(t *testing.T, parsed interface{}) {
				assert.Equal(t, api.CodeNotFound, parsed.(api.ErrorResponse).Error.Code)
			},
		},
		{
			name:           "unknown route",
			method:         http.MethodGet,
			path:           "/api/v1/workspaces",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			req, err := http.NewRequest(tt.method, testServer.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			// When
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			// Then
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
			if tt.parseResponse == nil {
				return
			}
			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			parsed, err := tt.parseResponse(data)
			require.NoError(t, err)
			tt.check(t, parsed)
		})
	}
	http.DefaultClient.CloseIdleConnections()
}

func TestWebAPI_StartStopsOnCancel(t *testing.T) {
	// Given
	webAPI := newTestAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// When
	go func() { done <- webAPI.Start(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	// Then
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
