package domain

import "time"

type ActionType string

const (
	ActionAPRReduction        ActionType = "apr_reduction"
	ActionBalanceTransfer     ActionType = "balance_transfer"
	ActionLateFeeReversal     ActionType = "late_fee_reversal"
	ActionPenaltyAPRReduction ActionType = "penalty_apr_reduction"
	ActionPayDown             ActionType = "pay_down"
	ActionDispute             ActionType = "dispute"
	ActionEducation           ActionType = "education"
)

type ScoreImpact string

const (
	ScoreImpactLow    ScoreImpact = "low"
	ScoreImpactMedium ScoreImpact = "medium"
	ScoreImpactHigh   ScoreImpact = "high"
)

// Priority orders impacts for tie-breaking; lower sorts first.
func (s ScoreImpact) Priority() int {
	switch s {
	case ScoreImpactHigh:
		return 0
	case ScoreImpactLow:
		return 2
	default:
		return 1
	}
}

type ScenarioRange struct {
	Low  float64
	High float64
}

type ActionMetadata struct {
	CashNeededUSD      float64
	TimeToEffectMonths float64
	ScoreImpact        ScoreImpact
	WhyThis            []string
}

type Action struct {
	ID                   string
	Type                 ActionType
	Title                string
	Summary              string
	EstimatedSavingsUSD  float64
	ProbabilityOfSuccess *float64
	ScenarioRange        *ScenarioRange
	NextSteps            []string
	Tags                 []string
	Metadata             ActionMetadata
}

type WarningLevel string

const (
	WarningLevelInfo    WarningLevel = "info"
	WarningLevelWarning WarningLevel = "warning"
	WarningLevelError   WarningLevel = "error"
)

type Warning struct {
	Code    string
	Message string
	Level   WarningLevel
}

type Audit struct {
	EngineVersion string
	ComputeMs     int64
	RunID         string
	GeneratedAt   time.Time
}

type Plan struct {
	Actions  []Action
	Warnings []Warning
	Audit    Audit
}
