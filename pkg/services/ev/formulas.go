// Package ev estimates what remediation actions are worth.
//
// Every function is pure and deterministic over fixed lookup tables. Degenerate inputs
// (non-positive balances, probabilities, or durations) yield 0 rather than an error; the
// only rejected input is a non-finite APR.
package ev

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/services/money"
)

var ErrNonFiniteAPR = errors.New("APR must be a finite number")

const (
	minPaymentFloor = 25
	minPaymentRatio = 0.02
)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ClampAPR rounds an APR to cents and bounds it to [MinAPR, MaxAPR].
func ClampAPR(apr float64) (float64, error) {
	if !isFinite(apr) {
		return 0, fmt.Errorf("%w: got %v", ErrNonFiniteAPR, apr)
	}
	return min(MaxAPR, max(MinAPR, money.Cents(apr))), nil
}

// clampAPR is ClampAPR for values already known to be finite.
func clampAPR(apr float64) float64 {
	clamped, err := ClampAPR(apr)
	if err != nil {
		return MinAPR
	}
	return clamped
}

// EstimateAPR derives an APR from the product baseline adjusted for the score band.
func EstimateAPR(product domain.ProductType, band domain.ScoreBand) float64 {
	base := ProductAPRBaseline(product)
	return clampAPR(base + base*ScoreBandAdjustment(band))
}

// UtilBracket maps a utilization percentage to its bracket. Negative and non-finite
// values fall into under_10.
func UtilBracket(utilPercent float64) UtilizationBracket {
	if !isFinite(utilPercent) || utilPercent < 0 {
		return Under10
	}
	for _, b := range utilizationBrackets {
		if utilPercent <= b.max {
			return b.bracket
		}
	}
	return Over80
}

// BumpBracket moves a bracket one step worse, stopping at over_80.
func BumpBracket(bracket UtilizationBracket) UtilizationBracket {
	i := slices.Index(UtilizationOrder, bracket)
	if i == -1 {
		return bracket
	}
	return UtilizationOrder[min(i+1, len(UtilizationOrder)-1)]
}

// MinPayment estimates an issuer's minimum payment: 2% of the balance plus a month of
// interest, rounded up, never below $25.
func MinPayment(balance, apr float64) float64 {
	if balance <= 0 {
		return 0
	}
	raw := balance*minPaymentRatio + balance*(apr/100)/12
	return max(minPaymentFloor, math.Ceil(raw))
}

// ExpectedMonthlySavings is the monthly interest saved if the APR moved by the band's
// adjustment.
func ExpectedMonthlySavings(balance, currentAPR float64, band domain.ScoreBand) (float64, error) {
	if !isFinite(currentAPR) {
		return 0, fmt.Errorf("%w: got %v", ErrNonFiniteAPR, currentAPR)
	}
	if balance <= 0 {
		return 0, nil
	}
	newAPR := clampAPR(currentAPR + currentAPR*ScoreBandAdjustment(band))
	return money.Cents(balance * ((currentAPR - newAPR) / 12 / 100)), nil
}

func clampProbability(p float64) float64 {
	return min(1, max(0, p))
}

func odds(table oddsTable, band domain.ScoreBand, bracket UtilizationBracket, any60dLate bool) float64 {
	p := table.lookup(band, bracket)
	if any60dLate {
		p *= LatePenalty
	}
	return clampProbability(p)
}

func APRReductionOdds(band domain.ScoreBand, bracket UtilizationBracket, any60dLate bool) float64 {
	return odds(aprReductionOddsTable, band, bracket, any60dLate)
}

func BalanceTransferOdds(band domain.ScoreBand, bracket UtilizationBracket, any60dLate bool) float64 {
	return odds(balanceTransferOddsTable, band, bracket, any60dLate)
}

func EVLateFee(pRefund, feeAmount float64) float64 {
	if pRefund <= 0 || feeAmount <= 0 {
		return 0
	}
	return money.Cents(clampProbability(pRefund) * feeAmount)
}

// aprSavings is the probability-weighted interest saved by a lower APR.
func aprSavings(p, deltaAPR, avgBalance, monthsActive float64) float64 {
	if p <= 0 || deltaAPR <= 0 || avgBalance <= 0 || monthsActive <= 0 {
		return 0
	}
	monthly := deltaAPR / 100 / 12 * avgBalance
	return money.Cents(clampProbability(p) * monthly * monthsActive)
}

func EVPenaltyAPR(pReversion, deltaAPR, avgBalance, monthsActive float64) float64 {
	return aprSavings(pReversion, deltaAPR, avgBalance, monthsActive)
}

func EVAPRReduction(pSuccess, deltaAPR, avgBalance, monthsActive float64) float64 {
	return aprSavings(pSuccess, deltaAPR, avgBalance, monthsActive)
}

// EVBalanceTransfer weighs the interest avoided on the transferred amount, net of the
// transfer fee, by the approval odds.
func EVBalanceTransfer(pApproval, srcAPR, amount, feeRate, monthsActive float64) float64 {
	if pApproval <= 0 || srcAPR <= 0 || amount <= 0 || feeRate < 0 || monthsActive <= 0 {
		return 0
	}
	interest := srcAPR / 100 / 12 * amount * monthsActive
	net := interest - amount*feeRate
	if net <= 0 {
		return 0
	}
	return money.Cents(clampProbability(pApproval) * net)
}

// ScenarioBounds evaluates lookup one band tier below and one above the given band. The
// unknown band is treated as fair; tiers clamp at poor and excellent. The pair is returned
// as computed, so low may exceed high.
func ScenarioBounds(band domain.ScoreBand, lookup func(domain.ScoreBand) float64) (low, high float64) {
	i := slices.Index(scoreBandOrder, band)
	if i == -1 {
		i = slices.Index(scoreBandOrder, domain.ScoreBandFair)
	}
	down := scoreBandOrder[max(0, i-1)]
	up := scoreBandOrder[min(len(scoreBandOrder)-1, i+1)]
	return lookup(down), lookup(up)
}
