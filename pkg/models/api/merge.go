package api

import (
	"fmt"
	"math"
)

// validateAmount accepts an absent value or a finite, non-negative one.
func validateAmount(field string, v *float64) error {
	if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0) {
		return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidRequest, field)
	}
	return nil
}

type BureauAccount struct {
	Bureau string `json:"bureau"`
	ParsedAccount
}

type MergeRequest struct {
	Accounts []BureauAccount `json:"accounts"`
}

func (r MergeRequest) Validate() error {
	for i, a := range r.Accounts {
		if a.Bureau == "" {
			return fmt.Errorf("%w: accounts[%d].bureau is required", ErrInvalidRequest, i)
		}
		amounts := []struct {
			name  string
			value *float64
		}{
			{"balance", a.Balance},
			{"credit_limit", a.CreditLimit},
			{"high_credit", a.HighCredit},
		}
		for _, amount := range amounts {
			if err := validateAmount(fmt.Sprintf("accounts[%d].%s", i, amount.name), amount.value); err != nil {
				return err
			}
		}
	}
	return nil
}

type FieldSnapshot struct {
	Bureau       string `json:"bureau"`
	Value        any    `json:"value"`
	ReportedDate string `json:"reported_date,omitempty"`
}

type ConflictEntry struct {
	AccountName string          `json:"account_name"`
	Field       string          `json:"field"`
	Chosen      FieldSnapshot   `json:"chosen"`
	Others      []FieldSnapshot `json:"others"`
	Resolution  string          `json:"resolution"`
}

type SourceSnapshot struct {
	Bureau       string   `json:"bureau"`
	ReportedDate *string  `json:"reported_date,omitempty"`
	Balance      *float64 `json:"balance,omitempty"`
	CreditLimit  *float64 `json:"credit_limit,omitempty"`
	HighCredit   *float64 `json:"high_credit,omitempty"`
	Ownership    *string  `json:"ownership,omitempty"`
	Status       *string  `json:"status,omitempty"`
	OpenDate     *string  `json:"open_date,omitempty"`
}

type ReviewAccount struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Bureaus        []string         `json:"bureaus"`
	Ownership      *string          `json:"ownership,omitempty"`
	Status         *string          `json:"status,omitempty"`
	Balance        *float64         `json:"balance,omitempty"`
	CreditLimit    *float64         `json:"credit_limit,omitempty"`
	HighCredit     *float64         `json:"high_credit,omitempty"`
	OpenDate       *string          `json:"open_date,omitempty"`
	ReportedDate   *string          `json:"reported_date,omitempty"`
	SourceAccounts []SourceSnapshot `json:"source_accounts"`
}

type MergeResponse struct {
	MergedAccounts   []ReviewAccount `json:"merged_accounts"`
	ExcludedAccounts []ReviewAccount `json:"excluded_accounts"`
	Conflicts        []ConflictEntry `json:"conflicts"`
}
