package adapters

import (
	"fmt"

	"github.com/de-tools/tradeline-atlas/pkg/models/api"
	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
)

func MapMergeRequestApiToDomain(r api.MergeRequest) ([]domain.BureauAccount, error) {
	accounts := make([]domain.BureauAccount, 0, len(r.Accounts))
	for i, a := range r.Accounts {
		bureau, err := domain.ParseBureau(a.Bureau)
		if err != nil {
			return nil, fmt.Errorf("%w: accounts[%d]: %w", api.ErrInvalidRequest, i, err)
		}
		parsed, err := MapParsedAccountApiToDomain(a.ParsedAccount)
		if err != nil {
			return nil, fmt.Errorf("accounts[%d]: %w", i, err)
		}
		accounts = append(accounts, domain.BureauAccount{Bureau: bureau, ParsedAccount: parsed})
	}
	return accounts, nil
}

func stringPtr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

// snapshotValue flattens enum kinds to plain strings so the wire value is a number or a
// string.
func snapshotValue(v any) any {
	switch value := v.(type) {
	case domain.AccountStatus:
		return string(value)
	case domain.Ownership:
		return string(value)
	default:
		return value
	}
}

func mapFieldSnapshot(s domain.FieldSnapshot) api.FieldSnapshot {
	return api.FieldSnapshot{
		Bureau:       s.Bureau.String(),
		Value:        snapshotValue(s.Value),
		ReportedDate: s.ReportedDate,
	}
}

func MapConflictDomainToApi(c domain.ConflictEntry) api.ConflictEntry {
	others := make([]api.FieldSnapshot, 0, len(c.Others))
	for _, o := range c.Others {
		others = append(others, mapFieldSnapshot(o))
	}
	return api.ConflictEntry{
		AccountName: c.AccountName,
		Field:       string(c.Field),
		Chosen:      mapFieldSnapshot(c.Chosen),
		Others:      others,
		Resolution:  string(c.Resolution),
	}
}

func MapReviewAccountDomainToApi(r domain.ReviewAccount) api.ReviewAccount {
	bureaus := make([]string, 0, len(r.Bureaus))
	for _, b := range r.Bureaus {
		bureaus = append(bureaus, b.String())
	}
	sources := make([]api.SourceSnapshot, 0, len(r.SourceAccounts))
	for _, s := range r.SourceAccounts {
		sources = append(sources, api.SourceSnapshot{
			Bureau:       s.Bureau.String(),
			ReportedDate: s.ReportedDate,
			Balance:      s.Balance,
			CreditLimit:  s.CreditLimit,
			HighCredit:   s.HighCredit,
			Ownership:    stringPtr(s.Ownership),
			Status:       stringPtr(s.Status),
			OpenDate:     s.OpenDate,
		})
	}
	return api.ReviewAccount{
		ID:             r.ID,
		Name:           r.Name,
		Bureaus:        bureaus,
		Ownership:      stringPtr(r.Ownership),
		Status:         stringPtr(r.Status),
		Balance:        r.Balance,
		CreditLimit:    r.CreditLimit,
		HighCredit:     r.HighCredit,
		OpenDate:       r.OpenDate,
		ReportedDate:   r.ReportedDate,
		SourceAccounts: sources,
	}
}

func mapReviewAccounts(accounts []domain.ReviewAccount) []api.ReviewAccount {
	out := make([]api.ReviewAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, MapReviewAccountDomainToApi(a))
	}
	return out
}

func MapMergeResultDomainToApi(m domain.MergeResult) api.MergeResponse {
	conflicts := make([]api.ConflictEntry, 0, len(m.Conflicts))
	for _, c := range m.Conflicts {
		conflicts = append(conflicts, MapConflictDomainToApi(c))
	}
	return api.MergeResponse{
		MergedAccounts:   mapReviewAccounts(m.MergedAccounts),
		ExcludedAccounts: mapReviewAccounts(m.ExcludedAccounts),
		Conflicts:        conflicts,
	}
}
