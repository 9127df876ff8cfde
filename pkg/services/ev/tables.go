package ev

import "github.com/de-tools/tradeline-atlas/pkg/models/domain"

const (
	MinAPR = 9.99
	MaxAPR = 34.99

	// LatePenalty scales approval odds when any account is 60+ days late.
	LatePenalty = 0.45
)

type UtilizationBracket string

const (
	Under10 UtilizationBracket = "under_10"
	Under30 UtilizationBracket = "under_30"
	Under50 UtilizationBracket = "under_50"
	Under80 UtilizationBracket = "under_80"
	Over80  UtilizationBracket = "over_80"
)

// utilizationBrackets are matched in order against a percentage with <=.
var utilizationBrackets = []struct {
	max     float64
	bracket UtilizationBracket
}{
	{9, Under10},
	{29, Under30},
	{49, Under50},
	{79, Under80},
}

// UtilizationOrder lists brackets from best to worst.
var UtilizationOrder = []UtilizationBracket{Under10, Under30, Under50, Under80, Over80}

var utilizationLabels = map[UtilizationBracket]string{
	Under10: "<10%",
	Under30: "10–30%",
	Under50: "30–50%",
	Under80: "50–80%",
	Over80:  ">80%",
}

func (u UtilizationBracket) Label() string {
	if label, ok := utilizationLabels[u]; ok {
		return label
	}
	return "unknown"
}

// scoreBandOrder runs from worst to best; unknown is not a tier.
var scoreBandOrder = []domain.ScoreBand{
	domain.ScoreBandPoor,
	domain.ScoreBandFair,
	domain.ScoreBandGood,
	domain.ScoreBandVeryGood,
	domain.ScoreBandExcellent,
}

var scoreBandAdjustments = map[domain.ScoreBand]float64{
	domain.ScoreBandExcellent: -0.05,
	domain.ScoreBandVeryGood:  -0.03,
	domain.ScoreBandGood:      -0.015,
	domain.ScoreBandFair:      0.01,
	domain.ScoreBandPoor:      0.03,
	domain.ScoreBandUnknown:   0.02,
}

var productAPRBaseline = map[domain.ProductType]float64{
	domain.ProductCreditCard:   24.99,
	domain.ProductChargeCard:   23.5,
	domain.ProductPersonalLoan: 18.99,
	domain.ProductAutoLoan:     9.5,
	domain.ProductStudentLoan:  7.1,
	domain.ProductMortgage:     6.5,
	domain.ProductHomeEquity:   8.2,
	domain.ProductSecuredCard:  26.99,
	domain.ProductOther:        19.99,
}

type oddsTable map[domain.ScoreBand]map[UtilizationBracket]float64

var aprReductionOddsTable = oddsTable{
	domain.ScoreBandExcellent: {Under10: 0.85, Under30: 0.78, Under50: 0.62, Under80: 0.44, Over80: 0.22},
	domain.ScoreBandVeryGood:  {Under10: 0.8, Under30: 0.7, Under50: 0.53, Under80: 0.35, Over80: 0.18},
	domain.ScoreBandGood:      {Under10: 0.7, Under30: 0.58, Under50: 0.42, Under80: 0.26, Over80: 0.12},
	domain.ScoreBandFair:      {Under10: 0.55, Under30: 0.4, Under50: 0.25, Under80: 0.15, Over80: 0.06},
	domain.ScoreBandPoor:      {Under10: 0.35, Under30: 0.22, Under50: 0.12, Under80: 0.05, Over80: 0.02},
	domain.ScoreBandUnknown:   {Under10: 0.45, Under30: 0.32, Under50: 0.18, Under80: 0.11, Over80: 0.05},
}

var balanceTransferOddsTable = oddsTable{
	domain.ScoreBandExcellent: {Under10: 0.75, Under30: 0.68, Under50: 0.55, Under80: 0.36, Over80: 0.18},
	domain.ScoreBandVeryGood:  {Under10: 0.7, Under30: 0.6, Under50: 0.46, Under80: 0.3, Over80: 0.15},
	domain.ScoreBandGood:      {Under10: 0.6, Under30: 0.5, Under50: 0.35, Under80: 0.22, Over80: 0.1},
	domain.ScoreBandFair:      {Under10: 0.45, Under30: 0.32, Under50: 0.2, Under80: 0.12, Over80: 0.04},
	domain.ScoreBandPoor:      {Under10: 0.28, Under30: 0.18, Under50: 0.1, Under80: 0.03, Over80: 0.01},
	domain.ScoreBandUnknown:   {Under10: 0.38, Under30: 0.26, Under50: 0.15, Under80: 0.08, Over80: 0.03},
}

// lookup falls back to the unknown row for unrecognised bands and to over_80 for
// unrecognised brackets.
func (t oddsTable) lookup(band domain.ScoreBand, bracket UtilizationBracket) float64 {
	row, ok := t[band]
	if !ok {
		row = t[domain.ScoreBandUnknown]
	}
	if odds, ok := row[bracket]; ok {
		return odds
	}
	return row[Over80]
}

var deltaAPRTable = map[domain.ScoreBand]float64{
	domain.ScoreBandExcellent: 8,
	domain.ScoreBandVeryGood:  6,
	domain.ScoreBandGood:      4,
	domain.ScoreBandFair:      3,
	domain.ScoreBandPoor:      2,
	domain.ScoreBandUnknown:   3.5,
}

var lateFeeRefundProbability = map[domain.ScoreBand]float64{
	domain.ScoreBandExcellent: 0.85,
	domain.ScoreBandVeryGood:  0.78,
	domain.ScoreBandGood:      0.65,
	domain.ScoreBandFair:      0.45,
	domain.ScoreBandPoor:      0.32,
	domain.ScoreBandUnknown:   0.5,
}

func bandValue(table map[domain.ScoreBand]float64, band domain.ScoreBand) float64 {
	if v, ok := table[band]; ok {
		return v
	}
	return table[domain.ScoreBandUnknown]
}

// DeltaAPR is the APR cut an issuer typically grants a band.
func DeltaAPR(band domain.ScoreBand) float64 {
	return bandValue(deltaAPRTable, band)
}

// LateFeeRefundProbability is the chance an issuer waives a late fee for a band.
func LateFeeRefundProbability(band domain.ScoreBand) float64 {
	return bandValue(lateFeeRefundProbability, band)
}

// ProductAPRBaseline is the typical APR of a product; unknown products use "other".
func ProductAPRBaseline(product domain.ProductType) float64 {
	if v, ok := productAPRBaseline[product]; ok {
		return v
	}
	return productAPRBaseline[domain.ProductOther]
}

// ScoreBandAdjustment is the relative APR shift of a band, 0 when unrecognised.
func ScoreBandAdjustment(band domain.ScoreBand) float64 {
	return scoreBandAdjustments[band]
}
