package api

import "fmt"

type ManualEditFields struct {
	ProductType string   `json:"product_type,omitempty"`
	Status      string   `json:"status,omitempty"`
	Balance     *float64 `json:"balance,omitempty"`
	CreditLimit *float64 `json:"credit_limit,omitempty"`
	HighCredit  *float64 `json:"high_credit,omitempty"`
}

// ManualEdit corrects a merged account; ID is the account name.
type ManualEdit struct {
	ID     string           `json:"id"`
	Fields ManualEditFields `json:"fields"`
}

// ReportRequest runs the whole pipeline: parse every document, merge, overlay edits, and
// build the action plan.
type ReportRequest struct {
	Documents   []Document          `json:"documents"`
	ManualEdits []ManualEdit        `json:"manual_edits,omitempty"`
	User        User                `json:"user"`
	Flags       Flags               `json:"flags"`
	Paydown     *PaydownPreferences `json:"paydown,omitempty"`
}

func (r ReportRequest) Validate() error {
	if len(r.Documents) == 0 {
		return fmt.Errorf("%w: at least one document is required", ErrInvalidRequest)
	}
	for _, d := range r.Documents {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	if err := ValidateManualEdits(r.ManualEdits); err != nil {
		return err
	}
	if err := r.User.Validate(); err != nil {
		return err
	}
	if r.Paydown != nil {
		return r.Paydown.Validate()
	}
	return nil
}

func ValidateManualEdits(edits []ManualEdit) error {
	for i, e := range edits {
		if e.ID == "" {
			return fmt.Errorf("%w: manual_edits[%d].id is required", ErrInvalidRequest, i)
		}
		if err := validateAmount(fmt.Sprintf("manual_edits[%d].fields.balance", i), e.Fields.Balance); err != nil {
			return err
		}
		if err := validateAmount(fmt.Sprintf("manual_edits[%d].fields.credit_limit", i), e.Fields.CreditLimit); err != nil {
			return err
		}
		if err := validateAmount(fmt.Sprintf("manual_edits[%d].fields.high_credit", i), e.Fields.HighCredit); err != nil {
			return err
		}
	}
	return nil
}

type ReportResponse struct {
	Documents []DocumentAnalysis `json:"documents"`
	Merge     MergeResponse      `json:"merge"`
	Accounts  []Account          `json:"accounts"`
	Analysis  AnalyzeResponse    `json:"analysis"`
}

type PaydownAccount struct {
	ID      string  `json:"id"`
	Balance float64 `json:"balance"`
	APR     float64 `json:"apr"`
}

type PaydownRequest struct {
	Accounts []PaydownAccount `json:"accounts"`
	Surplus  float64          `json:"surplus"`
	Months   int              `json:"months"`
	Strategy string           `json:"strategy"`
	LumpSum  float64          `json:"lump_sum,omitempty"`
}

func (r PaydownRequest) Validate() error {
	if len(r.Accounts) == 0 {
		return fmt.Errorf("%w: at least one account is required", ErrInvalidRequest)
	}
	if r.Months <= 0 || r.Months > 600 {
		return fmt.Errorf("%w: months must be between 1 and 600", ErrInvalidRequest)
	}
	if r.Strategy != "proportional" && r.Strategy != "avalanche" {
		return fmt.Errorf("%w: strategy must be proportional or avalanche", ErrInvalidRequest)
	}
	if err := validateAmount("surplus", &r.Surplus); err != nil {
		return err
	}
	if err := validateAmount("lump_sum", &r.LumpSum); err != nil {
		return err
	}
	for i, a := range r.Accounts {
		if a.ID == "" {
			return fmt.Errorf("%w: accounts[%d].id is required", ErrInvalidRequest, i)
		}
		balance, apr := a.Balance, a.APR
		if err := validateAmount(fmt.Sprintf("accounts[%d].balance", i), &balance); err != nil {
			return err
		}
		if err := validateAmount(fmt.Sprintf("accounts[%d].apr", i), &apr); err != nil {
			return err
		}
	}
	return nil
}

type PaydownResponse struct {
	InterestPaid float64            `json:"interest_paid"`
	Balances     map[string]float64 `json:"balances"`
}

// Run is one entry of the analysis run log.
type Run struct {
	ID                   string   `json:"id"`
	CreatedAt            string   `json:"created_at"`
	UserID               string   `json:"user_id"`
	Bureaus              []string `json:"bureaus"`
	AccountCount         int      `json:"account_count"`
	ConflictCount        int      `json:"conflict_count"`
	ActionCount          int      `json:"action_count"`
	TotalSavingsUSD      float64  `json:"total_savings_usd"`
	RequiresManualReview bool     `json:"requires_manual_review"`
	EngineVersion        string   `json:"engine_version"`
}
