package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
)

// Fixed grammar confidences. The quality gate thresholds (0.90 numeric, 0.75 categorical)
// are calibrated against these values.
const (
	MoneyConfidence        = 0.95
	NumericMonthConfidence = 0.90
	NamedMonthConfidence   = 0.80
	StatusConfidence       = 0.80
	OwnershipConfidence    = 0.90
)

var (
	moneyRegex     = regexp.MustCompile(`\$?\s*(-?(?:[0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)(?:\.[0-9]{2})?)`)
	monthRegex     = regexp.MustCompile(`(?i)(?:(\d{4})[-/](\d{2}))|(?:(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s*(\d{4}))`)
	statusRegex    = regexp.MustCompile(`(?i)(open|closed|paid|charge ?off|delinquent|current|late)`)
	ownershipRegex = regexp.MustCompile(`(?i)(individual|joint|authorized user|business)`)
	whitespace     = regexp.MustCompile(`\s+`)
)

var monthLookup = map[string]string{
	"jan": "01",
	"feb": "02",
	"mar": "03",
	"apr": "04",
	"may": "05",
	"jun": "06",
	"jul": "07",
	"aug": "08",
	"sep": "09",
	"oct": "10",
	"nov": "11",
	"dec": "12",
}

// Match is a grammar hit: the normalized value and the fixed confidence of the rule that matched.
type Match[T any] struct {
	Value      T
	Confidence float64
}

func (m Match[T]) scored() *domain.Scored[T] {
	return domain.NewScored(m.Value, m.Confidence)
}

func ParseMoney(input string) (Match[float64], bool) {
	m := moneyRegex.FindStringSubmatch(input)
	if m == nil {
		return Match[float64]{}, false
	}

	normalized := strings.NewReplacer("$", "", ",", "", " ", "").Replace(m[1])
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return Match[float64]{}, false
	}
	return Match[float64]{Value: value, Confidence: MoneyConfidence}, true
}

// ParseMonth returns dates as YYYY-MM.
func ParseMonth(input string) (Match[string], bool) {
	m := monthRegex.FindStringSubmatch(input)
	if m == nil {
		return Match[string]{}, false
	}

	if m[1] != "" && m[2] != "" {
		return Match[string]{Value: m[1] + "-" + m[2], Confidence: NumericMonthConfidence}, true
	}

	if m[3] != "" && m[4] != "" {
		month, ok := monthLookup[strings.ToLower(m[3][:3])]
		if !ok {
			return Match[string]{}, false
		}
		return Match[string]{Value: m[4] + "-" + month, Confidence: NamedMonthConfidence}, true
	}

	return Match[string]{}, false
}

func ParseStatus(input string) (Match[domain.AccountStatus], bool) {
	m := statusRegex.FindStringSubmatch(input)
	if m == nil {
		return Match[domain.AccountStatus]{}, false
	}
	return Match[domain.AccountStatus]{
		Value:      domain.AccountStatus(normalizeKeyword(m[1])),
		Confidence: StatusConfidence,
	}, true
}

func ParseOwnership(input string) (Match[domain.Ownership], bool) {
	m := ownershipRegex.FindStringSubmatch(input)
	if m == nil {
		return Match[domain.Ownership]{}, false
	}
	return Match[domain.Ownership]{
		Value:      domain.Ownership(normalizeKeyword(m[1])),
		Confidence: OwnershipConfidence,
	}, true
}

func normalizeKeyword(s string) string {
	return strings.ToLower(whitespace.ReplaceAllString(s, "_"))
}
