// Package coverage scores how much of a parsed report can be trusted and decides when a
// person has to review it before the accounts are used.
package coverage

import (
	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/services/money"
)

const (
	NumericConfidence     = 0.90
	CategoricalConfidence = 0.75
	DateConfidence        = 0.75
)

type fieldKind int

const (
	kindNumeric fieldKind = iota
	kindCategorical
	kindDate
)

// field describes one scored account field. present reports whether the account carries a
// value confident at the given threshold.
type field struct {
	name      domain.ConflictField
	kind      fieldKind
	threshold float64
	present   func(a domain.ParsedAccount, threshold float64) bool
}

func (f field) confident(a domain.ParsedAccount) bool {
	return f.present(a, f.threshold)
}

var (
	balanceField = field{
		name: domain.FieldBalance, kind: kindNumeric, threshold: NumericConfidence,
		present: func(a domain.ParsedAccount, t float64) bool { return a.Balance.ConfidentAt(t) },
	}
	creditLimitField = field{
		name: domain.FieldCreditLimit, kind: kindNumeric, threshold: NumericConfidence,
		present: func(a domain.ParsedAccount, t float64) bool { return a.CreditLimit.ConfidentAt(t) },
	}
	highCreditField = field{
		name: domain.FieldHighCredit, kind: kindNumeric, threshold: NumericConfidence,
		present: func(a domain.ParsedAccount, t float64) bool { return a.HighCredit.ConfidentAt(t) },
	}
	statusField = field{
		name: domain.FieldStatus, kind: kindCategorical, threshold: CategoricalConfidence,
		present: func(a domain.ParsedAccount, t float64) bool {
			return a.Status != nil && a.Status.Value != "" && a.Status.ConfidentAt(t)
		},
	}
	ownershipField = field{
		name: domain.FieldOwnership, kind: kindCategorical, threshold: CategoricalConfidence,
		present: func(a domain.ParsedAccount, t float64) bool {
			return a.Ownership != nil && a.Ownership.Value != "" && a.Ownership.ConfidentAt(t)
		},
	}
	openDateField = field{
		name: domain.FieldOpenDate, kind: kindDate, threshold: DateConfidence,
		present: func(a domain.ParsedAccount, t float64) bool {
			return a.OpenDate != nil && a.OpenDate.Value != "" && a.OpenDate.ConfidentAt(t)
		},
	}
	reportedDateField = field{
		name: domain.FieldReportedDate, kind: kindDate, threshold: DateConfidence,
		present: func(a domain.ParsedAccount, t float64) bool {
			return a.ReportedDate != nil && a.ReportedDate.Value != "" && a.ReportedDate.ConfidentAt(t)
		},
	}
)

var fields = []field{
	balanceField, creditLimitField, highCreditField,
	statusField, ownershipField, openDateField, reportedDateField,
}

var (
	numericFields         = fieldsOfKind(kindNumeric)
	categoricalDateFields = fieldsOfKind(kindCategorical, kindDate)
)

func fieldsOfKind(kinds ...fieldKind) []field {
	var selected []field
	for _, f := range fields {
		for _, k := range kinds {
			if f.kind == k {
				selected = append(selected, f)
				break
			}
		}
	}
	return selected
}

// PassesGateB reports whether an account has a confident balance, a confident credit limit
// or high credit, and a confident status.
func PassesGateB(a domain.ParsedAccount) bool {
	return balanceField.confident(a) &&
		(creditLimitField.confident(a) || highCreditField.confident(a)) &&
		statusField.confident(a)
}

func countConfident(accounts []domain.ParsedAccount, fields []field) int {
	hits := 0
	for _, a := range accounts {
		for _, f := range fields {
			if f.confident(a) {
				hits++
			}
		}
	}
	return hits
}

// ComputeMetrics returns the three quality percentages. All are 0 for an empty input.
func ComputeMetrics(accounts []domain.ParsedAccount) domain.Metrics {
	gateHits := 0
	for _, a := range accounts {
		if PassesGateB(a) {
			gateHits++
		}
	}

	return domain.Metrics{
		CoveragePercent:        money.Percent(gateHits, len(accounts)),
		NumericExactPercent:    money.Percent(countConfident(accounts, numericFields), len(accounts)*len(numericFields)),
		CategoricalDatePercent: money.Percent(countConfident(accounts, categoricalDateFields), len(accounts)*len(categoricalDateFields)),
	}
}

// Evaluate scores the accounts of one bureau document against the bureau's thresholds.
func Evaluate(bureau domain.Bureau, accounts []domain.ParsedAccount, thresholds domain.Thresholds) domain.Evaluation {
	metrics := ComputeMetrics(accounts)

	needingReview := []domain.ParsedAccount{}
	for _, a := range accounts {
		if !PassesGateB(a) {
			needingReview = append(needingReview, a)
		}
	}

	return domain.Evaluation{
		Bureau:                bureau,
		Metrics:               metrics,
		Thresholds:            thresholds,
		RequiresManualReview:  !metrics.Meets(thresholds),
		AccountsNeedingReview: needingReview,
	}
}
