package adapters

import (
	"regexp"
	"strings"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
)

var spaceRun = regexp.MustCompile(`\s+`)

// analyzeStatuses are the statuses the EV engine accepts.
var analyzeStatuses = map[domain.AccountStatus]bool{
	domain.StatusOpen:       true,
	domain.StatusClosed:     true,
	domain.StatusPaid:       true,
	domain.StatusDelinquent: true,
	domain.StatusChargedOff: true,
	domain.StatusCollection: true,
	domain.StatusUnknown:    true,
}

// NormalizeProductType reads a free-text product description. Anything unrecognised,
// including an empty value, is a credit card.
func NormalizeProductType(value string) domain.ProductType {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch {
	case normalized == "":
		return domain.ProductCreditCard
	case strings.Contains(normalized, "charge"):
		return domain.ProductChargeCard
	case strings.Contains(normalized, "install"):
		return domain.ProductPersonalLoan
	case strings.Contains(normalized, "auto"):
		return domain.ProductAutoLoan
	case strings.Contains(normalized, "mortgage"):
		return domain.ProductMortgage
	case strings.Contains(normalized, "home"):
		return domain.ProductHomeEquity
	case strings.Contains(normalized, "secured"):
		return domain.ProductSecuredCard
	default:
		return domain.ProductCreditCard
	}
}

// NormalizeStatus maps a status onto the EV engine's set. "current" means open; anything
// unrecognised is treated as open.
func NormalizeStatus(value string) domain.AccountStatus {
	normalized := domain.AccountStatus(strings.ToLower(spaceRun.ReplaceAllString(strings.TrimSpace(value), "_")))
	if normalized == domain.StatusCurrent || !analyzeStatuses[normalized] {
		return domain.StatusOpen
	}
	return normalized
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// MapReviewAccountToAnalyzeAccount overlays an optional manual edit on a merged account.
// Edited values win; the merged record itself is left untouched.
func MapReviewAccountToAnalyzeAccount(account domain.ReviewAccount, edit *domain.ManualEditFields) domain.Account {
	var fields domain.ManualEditFields
	if edit != nil {
		fields = *edit
	}

	balance := 0.0
	if b := firstFloat(fields.Balance, account.Balance); b != nil {
		balance = *b
	}
	creditLimit := firstFloat(fields.CreditLimit, account.CreditLimit)
	highCredit := firstFloat(fields.HighCredit, account.HighCredit)

	limitSource := domain.LimitSourceUnknown
	switch {
	case creditLimit != nil && *creditLimit != 0:
		limitSource = domain.LimitSourceReported
	case highCredit != nil && *highCredit != 0:
		limitSource = domain.LimitSourceHighCreditProxy
	}

	bureau := domain.BureauUnknown
	if len(account.Bureaus) == 1 {
		bureau = account.Bureaus[0]
	}

	ownership := domain.OwnershipUnknown
	if account.Ownership != nil {
		ownership = *account.Ownership
	}

	status := fields.Status
	if status == "" && account.Status != nil {
		status = string(*account.Status)
	}

	tags := []string{}
	if ownership == domain.OwnershipJoint {
		tags = append(tags, "joint")
	}

	mapped := domain.Account{
		ID:            account.ID,
		Bureau:        bureau,
		CreditorName:  account.Name,
		ProductType:   NormalizeProductType(fields.ProductType),
		Ownership:     ownership,
		Status:        NormalizeStatus(status),
		PaymentStatus: domain.PaymentCurrent,
		Balance:       balance,
		CreditLimit:   creditLimit,
		HighCredit:    highCredit,
		LimitSource:   limitSource,
		APRSource:     domain.APRSourceUnknown,
		Tags:          tags,
	}
	if account.OpenDate != nil {
		mapped.OpenDate = *account.OpenDate
	}
	if account.ReportedDate != nil {
		mapped.ReportedMonth = *account.ReportedDate
	}
	return mapped
}
