package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/de-tools/tradeline-atlas/pkg/adapters"
	"github.com/de-tools/tradeline-atlas/pkg/models/api"
	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/services/analysis"
	"github.com/de-tools/tradeline-atlas/pkg/services/ev"
	"github.com/de-tools/tradeline-atlas/pkg/services/merge"
	"github.com/de-tools/tradeline-atlas/pkg/services/paydown"
	"github.com/de-tools/tradeline-atlas/pkg/store/source"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxJSONBytes allows a report request carrying three full documents.
const maxJSONBytes = 4 * source.MaxDocumentBytes

// Analyzer is the part of analysis.Service the handlers call.
type Analyzer interface {
	AnalyzeDocument(ctx context.Context, bureau domain.Bureau, text string) (domain.DocumentAnalysis, error)
	Analyze(ctx context.Context, input domain.AnalyzeInput) (domain.Plan, error)
	Report(ctx context.Context, input analysis.ReportInput) (analysis.Report, error)
	ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error)
}

type Handler struct {
	analyzer Analyzer
}

func NewHandler(analyzer Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, api.ErrorResponse{Error: api.ErrorBody{Code: code, Message: message}})
}

// writeFailure maps a service error onto a status code. Validation failures are the
// caller's fault; anything else is logged and reported as internal.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, api.ErrInvalidRequest),
		errors.Is(err, ev.ErrNonFiniteAPR),
		errors.Is(err, domain.ErrUnknownBureau):
		writeError(w, r, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
	case errors.Is(err, analysis.ErrRunLogDisabled):
		writeError(w, r, http.StatusNotFound, api.CodeNotFound, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, api.CodeInternal, "internal server error")
	}
}

type validator interface {
	Validate() error
}

// decode reads a JSON body into v and validates it. It writes the error response itself
// and reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, v validator) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes)).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, api.CodeBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	if err := v.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		return false
	}
	return true
}

// AnalyzeDocument parses a plain-text bureau document.
func (h *Handler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	bureau, err := domain.ParseBureau(chi.URLParam(r, "bureau"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, source.MaxDocumentBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, api.CodeBadRequest, fmt.Sprintf("failed to read document: %v", err))
		return
	}
	doc := api.Document{Bureau: bureau.String(), Text: string(body)}
	if err := doc.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		return
	}

	result, err := h.analyzer.AnalyzeDocument(r.Context(), bureau, doc.Text)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDocumentAnalysisDomainToApi(result))
}

func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	var req api.MergeRequest
	if !decode(w, r, &req) {
		return
	}
	accounts, err := adapters.MapMergeRequestApiToDomain(req)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapMergeResultDomainToApi(merge.Merge(accounts)))
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req api.AnalyzeRequest
	if !decode(w, r, &req) {
		return
	}
	input, err := adapters.MapAnalyzeRequestApiToDomain(req)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	plan, err := h.analyzer.Analyze(r.Context(), input)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapPlanDomainToApi(plan))
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	var req api.ReportRequest
	if !decode(w, r, &req) {
		return
	}

	input := analysis.ReportInput{
		ManualEdits: adapters.MapManualEditsApiToDomain(req.ManualEdits),
		Flags:       adapters.MapFlagsApiToDomain(req.Flags),
		Paydown:     adapters.MapPaydownPreferencesApiToDomain(req.Paydown),
	}
	for i, d := range req.Documents {
		bureau, err := domain.ParseBureau(d.Bureau)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Sprintf("documents[%d]: %v", i, err))
			return
		}
		input.Documents = append(input.Documents, analysis.Document{Bureau: bureau, Text: d.Text})
	}
	user, err := adapters.MapUserApiToDomain(req.User)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	input.User = user

	report, err := h.analyzer.Report(r.Context(), input)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	resp := api.ReportResponse{
		Documents: make([]api.DocumentAnalysis, 0, len(report.Documents)),
		Merge:     adapters.MapMergeResultDomainToApi(report.Merge),
		Accounts:  make([]api.Account, 0, len(report.Accounts)),
		Analysis:  adapters.MapPlanDomainToApi(report.Plan),
	}
	for _, d := range report.Documents {
		resp.Documents = append(resp.Documents, adapters.MapDocumentAnalysisDomainToApi(d))
	}
	for _, a := range report.Accounts {
		resp.Accounts = append(resp.Accounts, adapters.MapAccountDomainToApi(a))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) SimulatePaydown(w http.ResponseWriter, r *http.Request) {
	var req api.PaydownRequest
	if !decode(w, r, &req) {
		return
	}
	result := paydown.Simulate(adapters.MapPaydownRequestApiToDomain(req))
	writeJSON(w, r, http.StatusOK, adapters.MapPaydownResultDomainToApi(result))
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, api.CodeInvalidRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	runs, err := h.analyzer.ListRuns(r.Context(), limit)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	resp := make([]api.Run, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, adapters.MapRunDomainToApi(run))
	}
	writeJSON(w, r, http.StatusOK, resp)
}
