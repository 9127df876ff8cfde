package adapters

import (
	"fmt"
	"slices"

	"github.com/de-tools/tradeline-atlas/pkg/models/api"
	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
)

var (
	ownershipValues = []domain.Ownership{
		domain.OwnershipIndividual, domain.OwnershipJoint, domain.OwnershipAuthorizedUser,
		domain.OwnershipBusiness, domain.OwnershipUnknown,
	}
	productTypeValues = []domain.ProductType{
		domain.ProductCreditCard, domain.ProductChargeCard, domain.ProductPersonalLoan,
		domain.ProductAutoLoan, domain.ProductStudentLoan, domain.ProductMortgage,
		domain.ProductHomeEquity, domain.ProductSecuredCard, domain.ProductOther,
	}
	statusValues = []domain.AccountStatus{
		domain.StatusOpen, domain.StatusClosed, domain.StatusPaid, domain.StatusDelinquent,
		domain.StatusChargedOff, domain.StatusCollection, domain.StatusUnknown,
	}
	paymentStatusValues = []domain.PaymentStatus{
		domain.PaymentCurrent, domain.PaymentLate30, domain.PaymentLate60,
		domain.PaymentLate90Plus, domain.PaymentDerogatory, domain.PaymentUnknown,
	}
	limitSourceValues = []domain.LimitSource{
		domain.LimitSourceReported, domain.LimitSourceHighCreditProxy, domain.LimitSourceUnknown,
	}
	aprSourceValues = []domain.APRSource{
		domain.APRSourceReported, domain.APRSourceEstimated, domain.APRSourceNone, domain.APRSourceUnknown,
	}
	scoreBandValues = []domain.ScoreBand{
		domain.ScoreBandUnknown, domain.ScoreBandExcellent, domain.ScoreBandVeryGood,
		domain.ScoreBandGood, domain.ScoreBandFair, domain.ScoreBandPoor,
	}
)

func parseEnum[T ~string](field, value string, allowed []T) (T, error) {
	if v := T(value); slices.Contains(allowed, v) {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s %q is not one of %v", api.ErrInvalidRequest, field, value, allowed)
}

// parseEnumOr is parseEnum with a default for empty values.
func parseEnumOr[T ~string](field, value string, allowed []T, fallback T) (T, error) {
	if value == "" {
		return fallback, nil
	}
	return parseEnum(field, value, allowed)
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func MapUserApiToDomain(u api.User) (domain.User, error) {
	band, err := parseEnum("user.score_band", u.ScoreBand, scoreBandValues)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: u.ID, ScoreBand: band}, nil
}

func MapFlagsApiToDomain(f api.Flags) domain.AnalyzeFlags {
	return domain.AnalyzeFlags{
		Any60dLate:               f.Any60dLate,
		LateFeeLastTwoStatements: f.LateFeeLastTwoStatements,
		PenaltyAPRActive:         f.PenaltyAPRActive,
	}
}

func MapPaydownPreferencesApiToDomain(p *api.PaydownPreferences) *domain.PaydownPreferences {
	if p == nil {
		return nil
	}
	return &domain.PaydownPreferences{MonthlySurplus: p.MonthlySurplus, LumpSum: p.LumpSum}
}

func MapAccountApiToDomain(a api.Account) (domain.Account, error) {
	var err error
	out := domain.Account{
		ID:            a.ID,
		CreditorName:  a.CreditorName,
		Balance:       a.Balance,
		CreditLimit:   cloneFloat(a.CreditLimit),
		HighCredit:    cloneFloat(a.HighCredit),
		APR:           cloneFloat(a.APR),
		OpenDate:      a.OpenDate,
		ReportedMonth: a.ReportedMonth,
		Tags:          slices.Clone(a.Tags),
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.Bureau, err = domain.ParseBureau(a.Bureau); err != nil {
		return domain.Account{}, fmt.Errorf("%w: %w", api.ErrInvalidRequest, err)
	}
	if out.ProductType, err = parseEnum("product_type", a.ProductType, productTypeValues); err != nil {
		return domain.Account{}, err
	}
	if out.Ownership, err = parseEnum("ownership", a.Ownership, ownershipValues); err != nil {
		return domain.Account{}, err
	}
	if out.Status, err = parseEnum("status", a.Status, statusValues); err != nil {
		return domain.Account{}, err
	}
	if out.PaymentStatus, err = parseEnum("payment_status", a.PaymentStatus, paymentStatusValues); err != nil {
		return domain.Account{}, err
	}
	if out.LimitSource, err = parseEnumOr("limit_source", a.LimitSource, limitSourceValues, domain.LimitSourceUnknown); err != nil {
		return domain.Account{}, err
	}
	if out.APRSource, err = parseEnumOr("apr_source", a.APRSource, aprSourceValues, domain.APRSourceUnknown); err != nil {
		return domain.Account{}, err
	}
	return out, nil
}

func MapAnalyzeRequestApiToDomain(r api.AnalyzeRequest) (domain.AnalyzeInput, error) {
	user, err := MapUserApiToDomain(r.User)
	if err != nil {
		return domain.AnalyzeInput{}, err
	}
	accounts := make([]domain.Account, 0, len(r.Accounts))
	for i, a := range r.Accounts {
		account, err := MapAccountApiToDomain(a)
		if err != nil {
			return domain.AnalyzeInput{}, fmt.Errorf("accounts[%d]: %w", i, err)
		}
		accounts = append(accounts, account)
	}
	return domain.AnalyzeInput{
		User:     user,
		Accounts: accounts,
		Flags:    MapFlagsApiToDomain(r.Flags),
		Paydown:  MapPaydownPreferencesApiToDomain(r.Paydown),
	}, nil
}

func MapAccountDomainToApi(a domain.Account) api.Account {
	return api.Account{
		ID:            a.ID,
		Bureau:        a.Bureau.String(),
		CreditorName:  a.CreditorName,
		ProductType:   string(a.ProductType),
		Ownership:     string(a.Ownership),
		Status:        string(a.Status),
		PaymentStatus: string(a.PaymentStatus),
		Balance:       a.Balance,
		CreditLimit:   cloneFloat(a.CreditLimit),
		HighCredit:    cloneFloat(a.HighCredit),
		LimitSource:   string(a.LimitSource),
		APR:           cloneFloat(a.APR),
		APRSource:     string(a.APRSource),
		OpenDate:      a.OpenDate,
		ReportedMonth: a.ReportedMonth,
		Tags:          slices.Clone(a.Tags),
	}
}

func MapActionDomainToApi(a domain.Action) api.Action {
	out := api.Action{
		ID:                   a.ID,
		Type:                 string(a.Type),
		Title:                a.Title,
		Summary:              a.Summary,
		EstimatedSavingsUSD:  a.EstimatedSavingsUSD,
		ProbabilityOfSuccess: cloneFloat(a.ProbabilityOfSuccess),
		NextSteps:            slices.Clone(a.NextSteps),
		Tags:                 slices.Clone(a.Tags),
		Metadata: api.ActionMetadata{
			CashNeededUSD:      a.Metadata.CashNeededUSD,
			TimeToEffectMonths: a.Metadata.TimeToEffectMonths,
			ScoreImpact:        string(a.Metadata.ScoreImpact),
			WhyThis:            slices.Clone(a.Metadata.WhyThis),
		},
	}
	if a.ScenarioRange != nil {
		out.ScenarioRange = &api.ScenarioRange{Low: a.ScenarioRange.Low, High: a.ScenarioRange.High}
	}
	return out
}

func MapPlanDomainToApi(p domain.Plan) api.AnalyzeResponse {
	actions := make([]api.Action, 0, len(p.Actions))
	for _, a := range p.Actions {
		actions = append(actions, MapActionDomainToApi(a))
	}
	warnings := make([]api.Warning, 0, len(p.Warnings))
	for _, w := range p.Warnings {
		warnings = append(warnings, api.Warning{Code: w.Code, Message: w.Message, Level: string(w.Level)})
	}
	return api.AnalyzeResponse{
		Actions:  actions,
		Warnings: warnings,
		Audit: api.Audit{
			EngineVersion: p.Audit.EngineVersion,
			ComputeMs:     p.Audit.ComputeMs,
			RunID:         p.Audit.RunID,
			GeneratedAt:   p.Audit.GeneratedAt,
		},
	}
}

func MapManualEditsApiToDomain(edits []api.ManualEdit) []domain.ManualEdit {
	out := make([]domain.ManualEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, domain.ManualEdit{
			ID: e.ID,
			Fields: domain.ManualEditFields{
				ProductType: e.Fields.ProductType,
				Status:      e.Fields.Status,
				Balance:     cloneFloat(e.Fields.Balance),
				CreditLimit: cloneFloat(e.Fields.CreditLimit),
				HighCredit:  cloneFloat(e.Fields.HighCredit),
			},
		})
	}
	return out
}

func MapPaydownRequestApiToDomain(r api.PaydownRequest) domain.PaydownPlan {
	accounts := make([]domain.PaydownAccount, 0, len(r.Accounts))
	for _, a := range r.Accounts {
		accounts = append(accounts, domain.PaydownAccount{ID: a.ID, Balance: a.Balance, APR: a.APR})
	}
	return domain.PaydownPlan{
		Accounts: accounts,
		Surplus:  r.Surplus,
		Months:   r.Months,
		Strategy: domain.PaydownStrategy(r.Strategy),
		LumpSum:  r.LumpSum,
	}
}

func MapPaydownResultDomainToApi(r domain.PaydownResult) api.PaydownResponse {
	return api.PaydownResponse{InterestPaid: r.InterestPaid, Balances: r.Balances}
}
