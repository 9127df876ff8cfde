package ev

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/services/money"
	"github.com/de-tools/tradeline-atlas/pkg/services/paydown"
)

const (
	EngineVersion = "v1.0.0"

	// assumedUtilization is used when no revolving account has a known limit.
	assumedUtilization = 50
	// missingLimitRatio is the share of balance without a limit above which utilization is
	// bumped a bracket and every estimate is halved.
	missingLimitRatio   = 0.3
	missingLimitHaircut = 0.5
)

const (
	WarningNoRevolvingBalances = "no_revolving_balances"
	WarningMissingLimits       = "missing_limits"
)

// IsRevolving reports whether an account counts toward revolving utilization: an open
// credit, charge, or secured card.
func IsRevolving(a domain.Account) bool {
	return a.ProductType.IsRevolving() && a.Status == domain.StatusOpen
}

// accountAPR prefers a positive reported APR and otherwise estimates one.
func accountAPR(a domain.Account, band domain.ScoreBand) (float64, error) {
	if a.APR != nil && *a.APR > 0 {
		return ClampAPR(*a.APR)
	}
	return EstimateAPR(a.ProductType, band), nil
}

// accountLimit is the reported credit limit, or the high credit when no limit is reported.
func accountLimit(a domain.Account) (float64, bool) {
	limit := a.CreditLimit
	if limit == nil {
		limit = a.HighCredit
	}
	if limit == nil || *limit <= 0 {
		return 0, false
	}
	return *limit, true
}

type aggregate struct {
	totalBalance        float64
	knownLimitBalance   float64
	knownLimits         float64
	missingLimitBalance float64
}

func aggregateBalances(accounts []domain.Account) aggregate {
	var agg aggregate
	for _, a := range accounts {
		balance := max(0, a.Balance)
		agg.totalBalance += balance
		if limit, ok := accountLimit(a); ok {
			agg.knownLimits += limit
			agg.knownLimitBalance += balance
		} else {
			agg.missingLimitBalance += balance
		}
	}
	return agg
}

func (agg aggregate) missingRatio() float64 {
	if agg.totalBalance <= 0 {
		return 0
	}
	return agg.missingLimitBalance / agg.totalBalance
}

func (agg aggregate) utilization() float64 {
	if agg.knownLimits <= 0 {
		return assumedUtilization
	}
	return agg.knownLimitBalance / agg.knownLimits * 100
}

// validateAPRs rejects any non-finite APR on the input, revolving or not.
func validateAPRs(accounts []domain.Account) error {
	for i, a := range accounts {
		if a.APR != nil && !isFinite(*a.APR) {
			return fmt.Errorf("account %d (%s): %w", i, a.ID, ErrNonFiniteAPR)
		}
	}
	return nil
}

// BuildPlan turns confirmed accounts and flags into a ranked list of actions. Only
// revolving accounts contribute; actions worth nothing are left out.
func BuildPlan(input domain.AnalyzeInput) (domain.Plan, error) {
	if err := validateAPRs(input.Accounts); err != nil {
		return domain.Plan{}, err
	}

	band := input.User.ScoreBand
	if band == "" {
		band = domain.ScoreBandUnknown
	}

	var revolving []domain.Account
	for _, a := range input.Accounts {
		if IsRevolving(a) {
			revolving = append(revolving, a)
		}
	}
	agg := aggregateBalances(revolving)

	bracket := UtilBracket(agg.utilization())
	haircut := 1.0
	missingLimits := agg.missingRatio() > missingLimitRatio
	if missingLimits {
		bracket = BumpBracket(bracket)
		haircut = missingLimitHaircut
	}

	weightedAPR := 0.0
	if agg.totalBalance > 0 {
		for _, a := range revolving {
			apr, err := accountAPR(a, band)
			if err != nil {
				return domain.Plan{}, err
			}
			weightedAPR += apr * max(0, a.Balance)
		}
		weightedAPR /= agg.totalBalance
	}

	p := profile{
		band:        band,
		bracket:     bracket,
		balance:     agg.totalBalance,
		weightedAPR: weightedAPR,
		any60dLate:  input.Flags.Any60dLate,
		haircut:     haircut,
	}

	builders := []func(profile) (domain.Action, bool){aprReductionAction, balanceTransferAction}
	if input.Flags.LateFeeLastTwoStatements {
		builders = append(builders, lateFeeAction)
	}
	if input.Flags.PenaltyAPRActive {
		builders = append(builders, penaltyAPRAction)
	}

	actions := []domain.Action{}
	for _, build := range builders {
		if action, ok := build(p); ok {
			actions = append(actions, action)
		}
	}
	if input.Paydown != nil && input.Paydown.MonthlySurplus > 0 {
		if action, ok := payDownAction(revolving, band, *input.Paydown); ok {
			actions = append(actions, action)
		}
	}
	SortActions(actions)

	warnings := []domain.Warning{}
	if agg.totalBalance <= 0 {
		warnings = append(warnings, domain.Warning{
			Code:    WarningNoRevolvingBalances,
			Message: "No revolving balances detected; action values may be limited.",
			Level:   domain.WarningLevelWarning,
		})
	}
	if missingLimits {
		warnings = append(warnings, domain.Warning{
			Code:    WarningMissingLimits,
			Message: "More than 30% of balances are missing credit limits. Savings estimates include a 50% haircut.",
			Level:   domain.WarningLevelWarning,
		})
	}

	return domain.Plan{
		Actions:  actions,
		Warnings: warnings,
		Audit:    domain.Audit{EngineVersion: EngineVersion},
	}, nil
}

// SortActions orders actions by estimated savings, highest first, then by score impact.
func SortActions(actions []domain.Action) {
	slices.SortStableFunc(actions, func(a, b domain.Action) int {
		if c := cmp.Compare(b.EstimatedSavingsUSD, a.EstimatedSavingsUSD); c != 0 {
			return c
		}
		return a.Metadata.ScoreImpact.Priority() - b.Metadata.ScoreImpact.Priority()
	})
}

// payDownAction compares three months of the user's surplus spread proportionally against
// targeting the highest APR first, with and without the optional lump sum. Interest depends
// only on balances and APRs, so the missing-limit haircut does not apply.
func payDownAction(revolving []domain.Account, band domain.ScoreBand, prefs domain.PaydownPreferences) (domain.Action, bool) {
	var accounts []domain.PaydownAccount
	for i, a := range revolving {
		if a.Balance <= 0 {
			continue
		}
		apr, err := accountAPR(a, band)
		if err != nil {
			return domain.Action{}, false
		}
		id := a.ID
		if id == "" {
			id = "account-" + strconv.Itoa(i)
		}
		accounts = append(accounts, domain.PaydownAccount{ID: id, Balance: a.Balance, APR: apr})
	}
	if len(accounts) == 0 {
		return domain.Action{}, false
	}

	plan := func(strategy domain.PaydownStrategy, lumpSum float64) domain.PaydownPlan {
		return domain.PaydownPlan{
			Accounts: accounts,
			Surplus:  prefs.MonthlySurplus,
			Months:   paydownMonths,
			Strategy: strategy,
			LumpSum:  lumpSum,
		}
	}
	baseline := plan(domain.StrategyProportional, 0)
	avalanche := plan(domain.StrategyAvalanche, 0)
	threeMonth := plan(domain.StrategyAvalanche, max(0, prefs.LumpSum))

	savings := paydown.EVPaydown(threeMonth, baseline, avalanche)
	if savings <= 0 {
		return domain.Action{}, false
	}
	avalancheOnly := paydown.Savings(avalanche, baseline)

	whyThis := []string{
		fmt.Sprintf("Putting %s a month toward the highest APR first beats splitting it evenly.", usd(prefs.MonthlySurplus)),
		fmt.Sprintf("Targeting APR alone saves about %s over %d months.", usd(avalancheOnly), paydownMonths),
	}
	if prefs.LumpSum > 0 {
		whyThis = append(whyThis, fmt.Sprintf("A %s lump sum up front raises that to about %s.", usd(prefs.LumpSum), usd(savings)))
	}

	return domain.Action{
		ID:                  "action-pay-down",
		Type:                domain.ActionPayDown,
		Title:               "Pay down the highest-APR balance first",
		Summary:             fmt.Sprintf("Direct your monthly surplus at the most expensive card for the next %d months.", paydownMonths),
		EstimatedSavingsUSD: savings,
		ScenarioRange:       &domain.ScenarioRange{Low: avalancheOnly, High: savings},
		NextSteps: []string{
			"Pay the minimum on every card to stay current.",
			"Send the rest of your surplus to the card with the highest APR.",
			"Move to the next card once the first balance is cleared.",
		},
		Tags: []string{"pay-down"},
		Metadata: domain.ActionMetadata{
			CashNeededUSD:      money.Cents(max(0, prefs.LumpSum)),
			TimeToEffectMonths: paydownMonths,
			ScoreImpact:        domain.ScoreImpactHigh,
			WhyThis:            whyThis,
		},
	}, true
}
