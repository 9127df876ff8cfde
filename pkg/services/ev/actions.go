package ev

import (
	"fmt"
	"math"
	"strconv"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/services/money"
)

const (
	aprReductionMonths = 6

	transferShare      = 0.7
	transferCap        = 5000
	transferFeeRate    = 0.03
	transferPromoMonth = 2.67

	lateFeeAmount      = 40
	lateFeeMonths      = 0.25
	lateFeeLateScaling = 0.6

	penaltyMonths      = 1
	penaltyMinDelta    = 6
	penaltyDeltaBump   = 4
	penaltyOddsScaling = 0.8

	paydownMonths = 3
)

// profile is the aggregate view of a user's revolving debt that every action builder reads.
type profile struct {
	band        domain.ScoreBand
	bracket     UtilizationBracket
	balance     float64
	weightedAPR float64
	any60dLate  bool
	haircut     float64
}

func probabilityOf(p float64) *float64 {
	rounded := money.Round(min(1, p), 3)
	return &rounded
}

// scenarioRange evaluates compute one tier below and above the profile band.
func scenarioRange(band domain.ScoreBand, compute func(domain.ScoreBand) float64) *domain.ScenarioRange {
	low, high := ScenarioBounds(band, func(b domain.ScoreBand) float64 {
		return money.Cents(compute(b))
	})
	return &domain.ScenarioRange{Low: money.Cents(low), High: money.Cents(high)}
}

func aprReductionAction(p profile) (domain.Action, bool) {
	if p.balance <= 0 {
		return domain.Action{}, false
	}

	compute := func(band domain.ScoreBand) float64 {
		odds := APRReductionOdds(band, p.bracket, p.any60dLate)
		return EVAPRReduction(odds, DeltaAPR(band), p.balance, aprReductionMonths) * p.haircut
	}
	probability := APRReductionOdds(p.band, p.bracket, p.any60dLate)
	savings := money.Cents(compute(p.band))
	if savings <= 0 {
		return domain.Action{}, false
	}

	label := p.bracket.Label()
	return domain.Action{
		ID:    "action-apr-reduction",
		Type:  domain.ActionAPRReduction,
		Title: "Request an APR reduction",
		Summary: fmt.Sprintf("Call your issuer and ask for a lower rate. With %s utilization, success is around %s%%.",
			label, percent(probability)),
		EstimatedSavingsUSD:  savings,
		ProbabilityOfSuccess: probabilityOf(probability),
		ScenarioRange:        scenarioRange(p.band, compute),
		NextSteps: []string{
			"Call the customer service number on the back of the card.",
			"Ask for a rate review citing on-time history and utilization plans.",
			"Escalate to a supervisor if the first rep cannot assist.",
		},
		Tags: []string{"apr", "phone-call"},
		Metadata: domain.ActionMetadata{
			CashNeededUSD:      0,
			TimeToEffectMonths: aprReductionMonths,
			ScoreImpact:        domain.ScoreImpactMedium,
			WhyThis: []string{
				fmt.Sprintf("About %s in revolving balances.", usd(p.balance)),
				fmt.Sprintf("Utilization bracket %s.", label),
				fmt.Sprintf("Estimated savings assumes %s%% success for your profile.", percent(probability)),
			},
		},
	}, true
}

func balanceTransferAction(p profile) (domain.Action, bool) {
	if p.balance <= 0 || p.weightedAPR <= 0 {
		return domain.Action{}, false
	}
	amount := min(p.balance*transferShare, transferCap)
	if amount <= 0 {
		return domain.Action{}, false
	}

	compute := func(band domain.ScoreBand) float64 {
		odds := BalanceTransferOdds(band, p.bracket, p.any60dLate)
		return EVBalanceTransfer(odds, p.weightedAPR, amount, transferFeeRate, transferPromoMonth) * p.haircut
	}
	probability := BalanceTransferOdds(p.band, p.bracket, p.any60dLate)
	savings := money.Cents(compute(p.band))
	if savings <= 0 {
		return domain.Action{}, false
	}
	fee := money.Cents(amount * transferFeeRate)

	return domain.Action{
		ID:                   "action-balance-transfer",
		Type:                 domain.ActionBalanceTransfer,
		Title:                "Move balances to a 0% promo card",
		Summary:              "Shift high-interest balances to a 0% offer for ~3 months of runway.",
		EstimatedSavingsUSD:  savings,
		ProbabilityOfSuccess: probabilityOf(probability),
		ScenarioRange:        scenarioRange(p.band, compute),
		NextSteps: []string{
			"Compare balance transfer offers with $0 intro APR.",
			"Confirm the transfer fee and promo length before applying.",
			"Schedule payoff reminders before the promo expires.",
		},
		Tags: []string{"balance-transfer"},
		Metadata: domain.ActionMetadata{
			CashNeededUSD:      fee,
			TimeToEffectMonths: math.Round(transferPromoMonth),
			ScoreImpact:        domain.ScoreImpactHigh,
			WhyThis: []string{
				fmt.Sprintf("Transferring about %s at 0%% saves interest immediately.", usd(amount)),
				fmt.Sprintf("We assumed a 3%% transfer fee (%s).", usd(fee)),
				fmt.Sprintf("Success odds roughly %s%% given your utilization.", percent(probability)),
			},
		},
	}, true
}

func lateFeeProbability(band domain.ScoreBand, any60dLate bool) float64 {
	p := LateFeeRefundProbability(band)
	if any60dLate {
		p *= lateFeeLateScaling
	}
	return p
}

func lateFeeAction(p profile) (domain.Action, bool) {
	compute := func(band domain.ScoreBand) float64 {
		return EVLateFee(lateFeeProbability(band, p.any60dLate), lateFeeAmount)
	}
	probability := lateFeeProbability(p.band, p.any60dLate)
	savings := money.Cents(compute(p.band))
	if savings <= 0 {
		return domain.Action{}, false
	}

	return domain.Action{
		ID:                   "action-late-fee",
		Type:                 domain.ActionLateFeeReversal,
		Title:                "Ask for a late-fee refund",
		Summary:              "Call and request a goodwill credit for the most recent late fee.",
		EstimatedSavingsUSD:  savings,
		ProbabilityOfSuccess: probabilityOf(probability),
		ScenarioRange:        scenarioRange(p.band, compute),
		NextSteps: []string{
			"Call the issuer and cite your history of on-time payments.",
			"Explain the late payment was an exception and request a courtesy credit.",
			"Confirm the refund posts before ending the call.",
		},
		Tags: []string{"late-fee", "phone-call"},
		Metadata: domain.ActionMetadata{
			CashNeededUSD:      0,
			TimeToEffectMonths: lateFeeMonths,
			ScoreImpact:        domain.ScoreImpactLow,
			WhyThis: []string{
				"Issuers often waive one late fee every 12 months.",
				fmt.Sprintf("Projected refund %s with ~%s%% odds.", usd(savings), percent(probability)),
				"A successful refund resets penalty clocks for future goodwill credits.",
			},
		},
	}, true
}

func penaltyDelta(band domain.ScoreBand) float64 {
	return max(penaltyMinDelta, DeltaAPR(band)+penaltyDeltaBump)
}

func penaltyAPRAction(p profile) (domain.Action, bool) {
	if p.balance <= 0 {
		return domain.Action{}, false
	}

	compute := func(band domain.ScoreBand) float64 {
		odds := APRReductionOdds(band, p.bracket, p.any60dLate) * penaltyOddsScaling
		return EVPenaltyAPR(odds, penaltyDelta(band), p.balance, penaltyMonths) * p.haircut
	}
	probability := APRReductionOdds(p.band, p.bracket, p.any60dLate) * penaltyOddsScaling
	savings := money.Cents(compute(p.band))
	if savings <= 0 {
		return domain.Action{}, false
	}

	return domain.Action{
		ID:                   "action-penalty-apr",
		Type:                 domain.ActionPenaltyAPRReduction,
		Title:                "Reverse the penalty APR",
		Summary:              "Call the issuer, make the minimum payment, and request the original APR.",
		EstimatedSavingsUSD:  savings,
		ProbabilityOfSuccess: probabilityOf(probability),
		ScenarioRange:        scenarioRange(p.band, compute),
		NextSteps: []string{
			"Bring the account current before calling.",
			"Ask the retention team to restore the pre-penalty APR.",
			"Request written confirmation of the rate change.",
		},
		Tags: []string{"penalty-apr", "phone-call"},
		Metadata: domain.ActionMetadata{
			CashNeededUSD:      0,
			TimeToEffectMonths: penaltyMonths,
			ScoreImpact:        domain.ScoreImpactMedium,
			WhyThis: []string{
				fmt.Sprintf("Penalty APR reversal saves about %s this month.", usd(savings)),
				fmt.Sprintf("Delta APR assumed %s%%.", strconv.FormatFloat(penaltyDelta(p.band), 'f', 1, 64)),
				fmt.Sprintf("Success odds roughly %s%% with quick follow-up.", percent(probability)),
			},
		},
	}, true
}
