package adapters

import (
	"slices"

	"github.com/de-tools/tradeline-atlas/pkg/models/api"
	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
)

func scoredValue[T any](s *domain.Scored[T]) (*T, *float64) {
	if s == nil {
		return nil, nil
	}
	v := s.Value
	return &v, s.Confidence
}

func scoredString[T ~string](s *domain.Scored[T]) (string, *float64) {
	if s == nil {
		return "", nil
	}
	return string(s.Value), s.Confidence
}

// toScored rebuilds a scored value from its wire halves. A confidence without a value is
// dropped.
func toScored[T any](value *T, confidence *float64) *domain.Scored[T] {
	if value == nil {
		return nil
	}
	s := domain.Unscored(*value)
	if confidence != nil {
		c := *confidence
		s.Confidence = &c
	}
	return s
}

func toScoredString[T ~string](value string, confidence *float64) *domain.Scored[T] {
	if value == "" {
		return nil
	}
	v := T(value)
	return toScored(&v, confidence)
}

func MapParsedAccountDomainToApi(a domain.ParsedAccount) api.ParsedAccount {
	out := api.ParsedAccount{
		Name:     a.Name,
		RawLines: slices.Clone(a.RawLines),
	}
	out.Balance, out.BalanceConfidence = scoredValue(a.Balance)
	out.CreditLimit, out.CreditLimitConfidence = scoredValue(a.CreditLimit)
	out.HighCredit, out.HighCreditConfidence = scoredValue(a.HighCredit)
	out.Status, out.StatusConfidence = scoredString(a.Status)
	out.Ownership, out.OwnershipConfidence = scoredString(a.Ownership)
	out.OpenDate, out.OpenDateConfidence = scoredString(a.OpenDate)
	out.ReportedDate, out.ReportedDateConfidence = scoredString(a.ReportedDate)
	return out
}

// MapParsedAccountApiToDomain fails only on an ownership outside the known set. Statuses
// are kept verbatim; the merge engine treats them as opaque keywords.
func MapParsedAccountApiToDomain(a api.ParsedAccount) (domain.ParsedAccount, error) {
	out := domain.ParsedAccount{
		Name:         a.Name,
		RawLines:     slices.Clone(a.RawLines),
		Balance:      toScored(a.Balance, a.BalanceConfidence),
		CreditLimit:  toScored(a.CreditLimit, a.CreditLimitConfidence),
		HighCredit:   toScored(a.HighCredit, a.HighCreditConfidence),
		Status:       toScoredString[domain.AccountStatus](a.Status, a.StatusConfidence),
		OpenDate:     toScoredString[string](a.OpenDate, a.OpenDateConfidence),
		ReportedDate: toScoredString[string](a.ReportedDate, a.ReportedDateConfidence),
	}
	if a.Ownership != "" {
		ownership, err := parseEnum("ownership", a.Ownership, ownershipValues)
		if err != nil {
			return domain.ParsedAccount{}, err
		}
		out.Ownership = toScored(&ownership, a.OwnershipConfidence)
	}
	return out, nil
}

func MapParsedAccountsDomainToApi(accounts []domain.ParsedAccount) []api.ParsedAccount {
	out := make([]api.ParsedAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, MapParsedAccountDomainToApi(a))
	}
	return out
}

func MapParsedInquiryDomainToApi(i domain.ParsedInquiry) api.ParsedInquiry {
	out := api.ParsedInquiry{Creditor: i.Creditor, Type: i.Type}
	out.Date, out.DateConfidence = scoredString(i.Date)
	return out
}

func MapMetricsDomainToApi(m domain.Metrics) api.Metrics {
	return api.Metrics{
		CoveragePercent:        m.CoveragePercent,
		NumericExactPercent:    m.NumericExactPercent,
		CategoricalDatePercent: m.CategoricalDatePercent,
	}
}

func MapDocumentAnalysisDomainToApi(d domain.DocumentAnalysis) api.DocumentAnalysis {
	inquiries := make([]api.ParsedInquiry, 0, len(d.Inquiries))
	for _, i := range d.Inquiries {
		inquiries = append(inquiries, MapParsedInquiryDomainToApi(i))
	}
	return api.DocumentAnalysis{
		Bureau:                d.Bureau.String(),
		Accounts:              MapParsedAccountsDomainToApi(d.Accounts),
		Inquiries:             inquiries,
		Metrics:               MapMetricsDomainToApi(d.Metrics),
		Thresholds:            MapMetricsDomainToApi(domain.Metrics(d.Thresholds)),
		RequiresManualReview:  d.RequiresManualReview,
		AccountsNeedingReview: MapParsedAccountsDomainToApi(d.AccountsNeedingReview),
	}
}
