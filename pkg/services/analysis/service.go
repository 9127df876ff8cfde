// Package analysis runs the report pipeline: parse each bureau document, gate it on
// coverage, merge across bureaus, overlay manual edits and build the action plan.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/de-tools/tradeline-atlas/pkg/adapters"
	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/services/config"
	"github.com/de-tools/tradeline-atlas/pkg/services/coverage"
	"github.com/de-tools/tradeline-atlas/pkg/services/ev"
	"github.com/de-tools/tradeline-atlas/pkg/services/merge"
	"github.com/de-tools/tradeline-atlas/pkg/services/money"
	"github.com/de-tools/tradeline-atlas/pkg/services/parser"
	"github.com/de-tools/tradeline-atlas/pkg/store/sqlite/runs"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MaxParallelDocuments bounds the parse fan-out; there are at most three bureaus.
const MaxParallelDocuments = 3

var ErrRunLogDisabled = errors.New("run log is not configured")

type Document struct {
	Bureau domain.Bureau
	Text   string
}

type DocumentsResult struct {
	Documents []domain.DocumentAnalysis
	Merge     domain.MergeResult
}

type ReportInput struct {
	Documents   []Document
	ManualEdits []domain.ManualEdit
	User        domain.User
	Flags       domain.AnalyzeFlags
	Paydown     *domain.PaydownPreferences
}

type Report struct {
	DocumentsResult
	Accounts []domain.Account
	Plan     domain.Plan
}

type Option func(*Service)

func WithRunStore(store runs.Store) Option {
	return func(s *Service) { s.runs = store }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

type Service struct {
	registry config.Registry
	runs     runs.Store
	now      func() time.Time
	newID    func() string
}

func NewService(registry config.Registry, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) AnalyzeDocument(ctx context.Context, bureau domain.Bureau, text string) (domain.DocumentAnalysis, error) {
	thresholds, err := s.registry.GetThresholds(ctx, bureau)
	if err != nil {
		return domain.DocumentAnalysis{}, fmt.Errorf("failed to get thresholds for %s: %w", bureau, err)
	}

	result := parser.Parse(text)
	return domain.DocumentAnalysis{
		ParseResult: result,
		Evaluation:  coverage.Evaluate(bureau, result.Accounts, thresholds),
	}, nil
}

// AnalyzeDocuments parses documents concurrently and merges their accounts. Results keep
// the order of docs.
func (s *Service) AnalyzeDocuments(ctx context.Context, docs []Document) (DocumentsResult, error) {
	analyses := make([]domain.DocumentAnalysis, len(docs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(MaxParallelDocuments)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			analysis, err := s.AnalyzeDocument(gCtx, doc.Bureau, doc.Text)
			if err != nil {
				return err
			}
			analyses[i] = analysis
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DocumentsResult{}, fmt.Errorf("failed to analyze documents: %w", err)
	}

	var tagged []domain.BureauAccount
	for i, analysis := range analyses {
		for _, account := range analysis.Accounts {
			tagged = append(tagged, domain.BureauAccount{Bureau: docs[i].Bureau, ParsedAccount: account})
		}
	}

	return DocumentsResult{Documents: analyses, Merge: merge.Merge(tagged)}, nil
}

// Analyze builds the action plan for confirmed accounts and stamps its audit block.
func (s *Service) Analyze(ctx context.Context, input domain.AnalyzeInput) (domain.Plan, error) {
	return s.plan(ctx, input, domain.AnalysisRun{Bureaus: accountBureaus(input.Accounts)})
}

// Report runs the whole pipeline from raw documents to a plan. Unmatched manual edits are
// appended to the plan's warnings.
func (s *Service) Report(ctx context.Context, input ReportInput) (Report, error) {
	docs, err := s.AnalyzeDocuments(ctx, input.Documents)
	if err != nil {
		return Report{}, err
	}

	analyzeInput, overlayWarnings := BuildAnalyzeInput(docs.Merge, input.ManualEdits, input.User, input.Flags, input.Paydown)

	run := domain.AnalysisRun{ConflictCount: len(docs.Merge.Conflicts)}
	for _, d := range docs.Documents {
		if !slices.Contains(run.Bureaus, d.Bureau) {
			run.Bureaus = append(run.Bureaus, d.Bureau)
		}
		run.RequiresManualReview = run.RequiresManualReview || d.RequiresManualReview
	}

	plan, err := s.plan(ctx, analyzeInput, run)
	if err != nil {
		return Report{}, err
	}
	plan.Warnings = append(plan.Warnings, overlayWarnings...)

	return Report{
		DocumentsResult: docs,
		Accounts:        analyzeInput.Accounts,
		Plan:            plan,
	}, nil
}

func (s *Service) plan(ctx context.Context, input domain.AnalyzeInput, run domain.AnalysisRun) (domain.Plan, error) {
	logger := zerolog.Ctx(ctx)
	started := s.now()

	plan, err := ev.BuildPlan(input)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("failed to build plan: %w", err)
	}

	plan.Audit.RunID = s.newID()
	plan.Audit.GeneratedAt = started.UTC()
	plan.Audit.ComputeMs = s.now().Sub(started).Milliseconds()

	run.ID = plan.Audit.RunID
	run.CreatedAt = plan.Audit.GeneratedAt
	run.UserID = input.User.ID
	run.AccountCount = len(input.Accounts)
	run.ActionCount = len(plan.Actions)
	run.EngineVersion = plan.Audit.EngineVersion
	for _, a := range plan.Actions {
		run.TotalSavingsUSD += a.EstimatedSavingsUSD
	}
	run.TotalSavingsUSD = money.Cents(run.TotalSavingsUSD)

	logger.Info().
		Str("run_id", run.ID).
		Int("accounts", run.AccountCount).
		Int("actions", run.ActionCount).
		Float64("total_savings_usd", run.TotalSavingsUSD).
		Int64("compute_ms", plan.Audit.ComputeMs).
		Msg("analysis completed")

	// the run log is best effort; a failed append does not fail the analysis
	if s.runs != nil {
		if err := s.runs.Add(ctx, adapters.MapDomainRunToStore(run)); err != nil {
			logger.Warn().Err(err).Str("run_id", run.ID).Msg("failed to record analysis run")
		}
	}

	return plan, nil
}

func (s *Service) ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	if s.runs == nil {
		return nil, ErrRunLogDisabled
	}
	records, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	result := make([]domain.AnalysisRun, 0, len(records))
	for _, r := range records {
		result = append(result, adapters.MapStoreRunToDomain(r))
	}
	return result, nil
}

func accountBureaus(accounts []domain.Account) []domain.Bureau {
	var bureaus []domain.Bureau
	for _, a := range accounts {
		if a.Bureau != "" && a.Bureau != domain.BureauUnknown && !slices.Contains(bureaus, a.Bureau) {
			bureaus = append(bureaus, a.Bureau)
		}
	}
	return bureaus
}
