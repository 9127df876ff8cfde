package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/tradeline-atlas/pkg/services/analysis"
	"github.com/de-tools/tradeline-atlas/pkg/store/source"
)

// Service is the part of analysis.Service the commands call.
type Service interface {
	AnalyzeDocuments(ctx context.Context, docs []analysis.Document) (analysis.DocumentsResult, error)
	Analyze(ctx context.Context, input domain.AnalyzeInput) (domain.Plan, error)
	Report(ctx context.Context, input analysis.ReportInput) (analysis.Report, error)
	ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error)
}

// Env is filled in by the root command before any subcommand runs.
type Env struct {
	Service  Service
	Loader   source.Loader
	Reporter export.Reporter
}

func loadDocuments(ctx context.Context, loader source.Loader, args []string) ([]analysis.Document, error) {
	docs := make([]analysis.Document, 0, len(args))
	for _, arg := range args {
		input, err := source.ParseInput(arg)
		if err != nil {
			return nil, err
		}
		bureau, err := domain.ParseBureau(input.Bureau)
		if err != nil {
			return nil, fmt.Errorf("invalid document %q: %w", arg, err)
		}
		text, err := loader.Load(ctx, input.Location)
		if err != nil {
			return nil, err
		}
		docs = append(docs, analysis.Document{Bureau: bureau, Text: text})
	}
	return docs, nil
}

type validator interface {
	Validate() error
}

func decodeJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v validator) error {
	if err := decodeJSON(path, v); err != nil {
		return err
	}
	return v.Validate()
}
