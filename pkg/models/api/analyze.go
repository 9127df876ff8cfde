package api

import (
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID        string `json:"id"`
	ScoreBand string `json:"score_band"`
}

type Account struct {
	ID            string   `json:"id"`
	Bureau        string   `json:"bureau"`
	CreditorName  string   `json:"creditor_name"`
	ProductType   string   `json:"product_type"`
	Ownership     string   `json:"ownership"`
	Status        string   `json:"status"`
	PaymentStatus string   `json:"payment_status"`
	Balance       float64  `json:"balance"`
	CreditLimit   *float64 `json:"credit_limit,omitempty"`
	HighCredit    *float64 `json:"high_credit,omitempty"`
	LimitSource   string   `json:"limit_source,omitempty"`
	APR           *float64 `json:"apr,omitempty"`
	APRSource     string   `json:"apr_source,omitempty"`
	OpenDate      string   `json:"open_date,omitempty"`
	ReportedMonth string   `json:"reported_month,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

type Flags struct {
	Any60dLate               bool `json:"any_60d_late,omitempty"`
	LateFeeLastTwoStatements bool `json:"late_fee_last_two_statements,omitempty"`
	PenaltyAPRActive         bool `json:"penalty_apr_active,omitempty"`
}

type PaydownPreferences struct {
	MonthlySurplus float64 `json:"monthly_surplus"`
	LumpSum        float64 `json:"lump_sum,omitempty"`
}

type AnalyzeRequest struct {
	User     User                `json:"user"`
	Accounts []Account           `json:"accounts"`
	Flags    Flags               `json:"flags"`
	Paydown  *PaydownPreferences `json:"paydown,omitempty"`
}

func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("%w: user.id is required", ErrInvalidRequest)
	}
	if u.ScoreBand == "" {
		return fmt.Errorf("%w: user.score_band is required", ErrInvalidRequest)
	}
	return nil
}

func (a Account) validate(field string) error {
	if a.ID == "" {
		return fmt.Errorf("%w: %s.id is required", ErrInvalidRequest, field)
	}
	if a.CreditorName == "" {
		return fmt.Errorf("%w: %s.creditor_name is required", ErrInvalidRequest, field)
	}
	balance := a.Balance
	amounts := []struct {
		name  string
		value *float64
	}{
		{"balance", &balance},
		{"credit_limit", a.CreditLimit},
		{"high_credit", a.HighCredit},
		{"apr", a.APR},
	}
	for _, amount := range amounts {
		if err := validateAmount(field+"."+amount.name, amount.value); err != nil {
			return err
		}
	}
	return nil
}

func (p PaydownPreferences) Validate() error {
	if err := validateAmount("paydown.monthly_surplus", &p.MonthlySurplus); err != nil {
		return err
	}
	return validateAmount("paydown.lump_sum", &p.LumpSum)
}

func (r AnalyzeRequest) Validate() error {
	if err := r.User.Validate(); err != nil {
		return err
	}
	for i, a := range r.Accounts {
		if err := a.validate(fmt.Sprintf("accounts[%d]", i)); err != nil {
			return err
		}
	}
	if r.Paydown != nil {
		return r.Paydown.Validate()
	}
	return nil
}

type ScenarioRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

type ActionMetadata struct {
	CashNeededUSD      float64  `json:"cash_needed_usd"`
	TimeToEffectMonths float64  `json:"time_to_effect_months"`
	ScoreImpact        string   `json:"score_impact"`
	WhyThis            []string `json:"why_this"`
}

type Action struct {
	ID                   string         `json:"id"`
	Type                 string         `json:"type"`
	Title                string         `json:"title"`
	Summary              string         `json:"summary"`
	EstimatedSavingsUSD  float64        `json:"estimated_savings_usd"`
	ProbabilityOfSuccess *float64       `json:"probability_of_success,omitempty"`
	ScenarioRange        *ScenarioRange `json:"scenario_range,omitempty"`
	NextSteps            []string       `json:"next_steps"`
	Tags                 []string       `json:"tags"`
	Metadata             ActionMetadata `json:"metadata"`
}

type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Level   string `json:"level"`
}

type Audit struct {
	EngineVersion string    `json:"engine_version"`
	ComputeMs     int64     `json:"compute_ms"`
	RunID         string    `json:"run_id,omitempty"`
	GeneratedAt   time.Time `json:"generated_at"`
}

type AnalyzeResponse struct {
	Actions  []Action  `json:"actions"`
	Warnings []Warning `json:"warnings"`
	Audit    Audit     `json:"audit"`
}
