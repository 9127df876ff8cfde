package ev

import (
	"math"
	"testing"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allBands = []domain.ScoreBand{
	domain.ScoreBandExcellent,
	domain.ScoreBandVeryGood,
	domain.ScoreBandGood,
	domain.ScoreBandFair,
	domain.ScoreBandPoor,
	domain.ScoreBandUnknown,
}

func TestClampAPR(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{input: 99, expected: MaxAPR},
		{input: 5, expected: MinAPR},
		{input: 22.456, expected: 22.46},
		{input: 34.994, expected: 34.99},
		{input: 9.99, expected: 9.99},
		{input: -3, expected: MinAPR},
	}

	for _, tt := range tests {
		clamped, err := ClampAPR(tt.input)

		require.NoError(t, err)
		assert.Equal(t, tt.expected, clamped, "ClampAPR(%v)", tt.input)
		assert.GreaterOrEqual(t, clamped, MinAPR)
		assert.LessOrEqual(t, clamped, MaxAPR)
	}
}

func TestClampAPR_RejectsNonFinite(t *testing.T) {
	for _, input := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ClampAPR(input)
		assert.ErrorIs(t, err, ErrNonFiniteAPR)
	}
}

func TestEstimateAPR(t *testing.T) {
	tests := []struct {
		name     string
		product  domain.ProductType
		band     domain.ScoreBand
		expected float64
	}{
		{name: "credit card good", product: domain.ProductCreditCard, band: domain.ScoreBandGood, expected: 24.62},
		{name: "secured card poor", product: domain.ProductSecuredCard, band: domain.ScoreBandPoor, expected: 27.8},
		{name: "mortgage clamps to floor", product: domain.ProductMortgage, band: domain.ScoreBandExcellent, expected: MinAPR},
		{name: "unknown product uses other", product: domain.ProductType("boat_loan"), band: domain.ScoreBandFair, expected: 20.19},
		{name: "unrecognised band has no adjustment", product: domain.ProductChargeCard, band: domain.ScoreBand("platinum"), expected: 23.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateAPR(tt.product, tt.band))
		})
	}
}

func TestUtilBracket(t *testing.T) {
	tests := []struct {
		input    float64
		expected UtilizationBracket
	}{
		{input: 0, expected: Under10},
		{input: 9, expected: Under10},
		{input: 9.5, expected: Under30},
		{input: 10, expected: Under30},
		{input: 29, expected: Under30},
		{input: 30, expected: Under50},
		{input: 49, expected: Under50},
		{input: 50, expected: Under80},
		{input: 79, expected: Under80},
		{input: 80, expected: Over80},
		{input: 250, expected: Over80},
		{input: -1, expected: Under10},
		{input: math.NaN(), expected: Under10},
		{input: math.Inf(1), expected: Under10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, UtilBracket(tt.input), "UtilBracket(%v)", tt.input)
	}
}

func TestBumpBracket(t *testing.T) {
	assert.Equal(t, Under30, BumpBracket(Under10))
	assert.Equal(t, Over80, BumpBracket(Under80))
	assert.Equal(t, Over80, BumpBracket(Over80))
	assert.Equal(t, UtilizationBracket("bogus"), BumpBracket("bogus"))
}

func TestMinPayment(t *testing.T) {
	assert.Equal(t, 25.0, MinPayment(24, 19.99))
	assert.Equal(t, 0.0, MinPayment(0, 19.99))
	// 2% of 1000 plus a month at 24.99% is 40.825, rounded up
	assert.Equal(t, 41.0, MinPayment(1000, 24.99))
}

func TestExpectedMonthlySavings(t *testing.T) {
	savings, err := ExpectedMonthlySavings(1200, 24.99, domain.ScoreBandExcellent)
	require.NoError(t, err)
	// 24.99 drops to 23.74
	assert.Equal(t, 1.25, savings)

	savings, err = ExpectedMonthlySavings(0, 24.99, domain.ScoreBandExcellent)
	require.NoError(t, err)
	assert.Zero(t, savings)

	_, err = ExpectedMonthlySavings(1200, math.Inf(1), domain.ScoreBandGood)
	assert.ErrorIs(t, err, ErrNonFiniteAPR)
}

func TestOdds_LatePenaltyScalesEveryCell(t *testing.T) {
	for _, band := range allBands {
		for _, bracket := range UtilizationOrder {
			apr := APRReductionOdds(band, bracket, false)
			assert.Equal(t, min(1, apr*LatePenalty), APRReductionOdds(band, bracket, true), "%s/%s", band, bracket)

			transfer := BalanceTransferOdds(band, bracket, false)
			assert.Equal(t, min(1, transfer*LatePenalty), BalanceTransferOdds(band, bracket, true), "%s/%s", band, bracket)
		}
	}
}

func TestOdds_Lookup(t *testing.T) {
	assert.Equal(t, 0.42, APRReductionOdds(domain.ScoreBandGood, Under50, false))
	assert.Equal(t, 0.18, BalanceTransferOdds(domain.ScoreBandExcellent, Over80, false))
	// unrecognised bands read the unknown row
	assert.Equal(t, 0.45, APRReductionOdds(domain.ScoreBand("platinum"), Under10, false))
	// unrecognised brackets read over_80
	assert.Equal(t, 0.02, APRReductionOdds(domain.ScoreBandPoor, UtilizationBracket("bogus"), false))
}

func TestEVFormulas(t *testing.T) {
	assert.Equal(t, 24.0, EVLateFee(0.6, 40))
	assert.Equal(t, 15.0, EVPenaltyAPR(0.5, 10, 1200, 3))
	assert.Equal(t, 16.0, EVAPRReduction(0.4, 6, 2000, 4))
	assert.Equal(t, 72.0, EVBalanceTransfer(0.4, 24, 2000, 0.03, 6))
}

func TestEVFormulas_DegenerateInputsYieldZero(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{name: "late fee without odds", value: EVLateFee(0, 40)},
		{name: "late fee without fee", value: EVLateFee(0.5, -1)},
		{name: "penalty without balance", value: EVPenaltyAPR(0.5, 10, 0, 3)},
		{name: "penalty without months", value: EVPenaltyAPR(0.5, 10, 1200, 0)},
		{name: "reduction without delta", value: EVAPRReduction(0.4, 0, 2000, 4)},
		{name: "reduction with negative odds", value: EVAPRReduction(-0.4, 6, 2000, 4)},
		{name: "transfer with negative fee", value: EVBalanceTransfer(0.4, 24, 2000, -0.01, 6)},
		{name: "transfer fee exceeds interest", value: EVBalanceTransfer(0.9, 10, 2000, 0.05, 1)},
		{name: "transfer without amount", value: EVBalanceTransfer(0.4, 24, 0, 0.03, 6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, tt.value)
		})
	}
}

func TestEVFormulas_ClampProbability(t *testing.T) {
	assert.Equal(t, 40.0, EVLateFee(1.7, 40))
}

func TestScenarioBounds(t *testing.T) {
	identity := map[domain.ScoreBand]float64{
		domain.ScoreBandPoor:      1,
		domain.ScoreBandFair:      2,
		domain.ScoreBandGood:      3,
		domain.ScoreBandVeryGood:  4,
		domain.ScoreBandExcellent: 5,
	}
	lookup := func(b domain.ScoreBand) float64 { return identity[b] }

	tests := []struct {
		band      domain.ScoreBand
		low, high float64
	}{
		{band: domain.ScoreBandPoor, low: 1, high: 2},
		{band: domain.ScoreBandFair, low: 1, high: 3},
		{band: domain.ScoreBandGood, low: 2, high: 4},
		{band: domain.ScoreBandExcellent, low: 4, high: 5},
		{band: domain.ScoreBandUnknown, low: 1, high: 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.band), func(t *testing.T) {
			low, high := ScenarioBounds(tt.band, lookup)

			assert.Equal(t, tt.low, low)
			assert.Equal(t, tt.high, high)
		})
	}
}

func TestUSDFormatting(t *testing.T) {
	assert.Equal(t, "$3,000", usd(3000))
	assert.Equal(t, "$63", usd(63))
	assert.Equal(t, "$1,235", usd(1234.5))
	assert.Equal(t, "58", percent(0.58))
	assert.Equal(t, "34", percent(0.336))
}
