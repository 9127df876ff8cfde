package api

import (
	"fmt"
	"strings"
)

type ParsedAccount struct {
	Name                   string   `json:"name"`
	RawLines               []string `json:"raw_lines,omitempty"`
	Balance                *float64 `json:"balance,omitempty"`
	BalanceConfidence      *float64 `json:"balance_confidence,omitempty"`
	CreditLimit            *float64 `json:"credit_limit,omitempty"`
	CreditLimitConfidence  *float64 `json:"credit_limit_confidence,omitempty"`
	HighCredit             *float64 `json:"high_credit,omitempty"`
	HighCreditConfidence   *float64 `json:"high_credit_confidence,omitempty"`
	Status                 string   `json:"status,omitempty"`
	StatusConfidence       *float64 `json:"status_confidence,omitempty"`
	Ownership              string   `json:"ownership,omitempty"`
	OwnershipConfidence    *float64 `json:"ownership_confidence,omitempty"`
	OpenDate               string   `json:"open_date,omitempty"`
	OpenDateConfidence     *float64 `json:"open_date_confidence,omitempty"`
	ReportedDate           string   `json:"reported_date,omitempty"`
	ReportedDateConfidence *float64 `json:"reported_date_confidence,omitempty"`
}

type ParsedInquiry struct {
	Creditor       string   `json:"creditor"`
	Date           string   `json:"date,omitempty"`
	DateConfidence *float64 `json:"date_confidence,omitempty"`
	Type           string   `json:"type,omitempty"`
}

type Metrics struct {
	CoveragePercent        float64 `json:"coverage_percent"`
	NumericExactPercent    float64 `json:"numeric_exact_percent"`
	CategoricalDatePercent float64 `json:"categorical_date_percent"`
}

type DocumentAnalysis struct {
	Bureau                string          `json:"bureau"`
	Accounts              []ParsedAccount `json:"accounts"`
	Inquiries             []ParsedInquiry `json:"inquiries"`
	Metrics               Metrics         `json:"metrics"`
	Thresholds            Metrics         `json:"thresholds"`
	RequiresManualReview  bool            `json:"requires_manual_review"`
	AccountsNeedingReview []ParsedAccount `json:"accounts_needing_review"`
}

// Document is raw report text tagged with its bureau.
type Document struct {
	Bureau string `json:"bureau"`
	Text   string `json:"text"`
}

func (d Document) Validate() error {
	if strings.TrimSpace(d.Bureau) == "" {
		return fmt.Errorf("%w: document bureau is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(d.Text) == "" {
		return fmt.Errorf("%w: document text for %s is empty", ErrInvalidRequest, d.Bureau)
	}
	return nil
}
