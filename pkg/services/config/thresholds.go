package config

import (
	"context"
	"fmt"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const (
	keyCoverage        = "coverage_percent"
	keyNumericExact    = "numeric_exact_percent"
	keyCategoricalDate = "categorical_date_percent"
)

var (
	// PrimaryThresholds gate the bureau the parser grammar was tuned on.
	PrimaryThresholds = domain.Thresholds{CoveragePercent: 70, NumericExactPercent: 60, CategoricalDatePercent: 60}
	// BetaThresholds are deliberately stricter; the other bureaus' layouts are less tested.
	BetaThresholds = domain.Thresholds{CoveragePercent: 80, NumericExactPercent: 95, CategoricalDatePercent: 95}
)

// DefaultThresholds returns the built-in quality gate for a bureau. Unknown bureaus use
// the primary set.
func DefaultThresholds(bureau domain.Bureau) domain.Thresholds {
	switch bureau {
	case domain.BureauExperian, domain.BureauTransUnion:
		return BetaThresholds
	default:
		return PrimaryThresholds
	}
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetThresholds(ctx context.Context, bureau domain.Bureau) (domain.Thresholds, error)
}

// cfgRegistry reads per-bureau threshold sections from an INI file:
//
//	[experian]
//	coverage_percent = 75
//	numeric_exact_percent = 90
//
// Keys missing from a section keep their built-in value.
type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load thresholds file %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

// NewDefaultRegistry serves the built-in thresholds only.
func NewDefaultRegistry() Registry {
	return &cfgRegistry{cfg: ini.Empty()}
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetThresholds(_ context.Context, bureau domain.Bureau) (domain.Thresholds, error) {
	thresholds := DefaultThresholds(bureau)

	section, err := cr.cfg.GetSection(bureau.String())
	if err != nil {
		return thresholds, nil
	}

	fields := []struct {
		key    string
		target *float64
	}{
		{keyCoverage, &thresholds.CoveragePercent},
		{keyNumericExact, &thresholds.NumericExactPercent},
		{keyCategoricalDate, &thresholds.CategoricalDatePercent},
	}
	for _, f := range fields {
		if !section.HasKey(f.key) {
			continue
		}
		value, err := section.Key(f.key).Float64()
		if err != nil {
			return domain.Thresholds{}, fmt.Errorf("failed to read %s.%s: %w", bureau, f.key, err)
		}
		if value < 0 || value > 100 {
			return domain.Thresholds{}, fmt.Errorf("%s.%s must be within [0, 100], got %v", bureau, f.key, value)
		}
		*f.target = value
	}
	return thresholds, nil
}
