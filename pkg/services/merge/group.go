package merge

import (
	"slices"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
)

// group is the set of bureau accounts sharing one name key.
type group struct {
	id        string
	name      string
	accounts  []domain.BureauAccount
	conflicts []domain.ConflictEntry
}

func newGroup(accounts []domain.BureauAccount, id string) *group {
	return &group{id: id, name: accounts[0].Name, accounts: accounts}
}

func (g *group) merge() domain.ReviewAccount {
	account := domain.ReviewAccount{
		ID:             g.id,
		Name:           g.name,
		Bureaus:        g.bureaus(),
		SourceAccounts: g.sourceSnapshots(),
	}

	account.Balance = resolveField(g, domain.FieldBalance, balanceOf, tieMax)
	account.CreditLimit = resolveField(g, domain.FieldCreditLimit, creditLimitOf, tieMin)
	account.HighCredit = resolveField(g, domain.FieldHighCredit, highCreditOf, tieMax)
	account.Status = resolveField(g, domain.FieldStatus, statusOf, tieNone[domain.AccountStatus])
	account.Ownership = resolveField(g, domain.FieldOwnership, ownershipOf, tieNone[domain.Ownership])
	account.OpenDate = resolveField(g, domain.FieldOpenDate, openDateOf, tieNone[string])
	account.ReportedDate = resolveField(g, domain.FieldReportedDate, reportedDateOf, tieNone[string])

	return account
}

func (g *group) bureaus() []domain.Bureau {
	var bureaus []domain.Bureau
	for _, a := range g.accounts {
		if !slices.Contains(bureaus, a.Bureau) {
			bureaus = append(bureaus, a.Bureau)
		}
	}
	return bureaus
}

func (g *group) sourceSnapshots() []domain.SourceSnapshot {
	snapshots := make([]domain.SourceSnapshot, 0, len(g.accounts))
	for _, a := range g.accounts {
		snapshots = append(snapshots, domain.SourceSnapshot{
			Bureau:       a.Bureau,
			ReportedDate: valuePtr(reportedDateOf(a)),
			Balance:      valuePtr(balanceOf(a)),
			CreditLimit:  valuePtr(creditLimitOf(a)),
			HighCredit:   valuePtr(highCreditOf(a)),
			Ownership:    valuePtr(ownershipOf(a)),
			Status:       valuePtr(statusOf(a)),
			OpenDate:     valuePtr(openDateOf(a)),
		})
	}
	return snapshots
}

func valuePtr[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

// reportedDate is the raw reported month used for ranking and snapshot provenance.
func reportedDate(a domain.BureauAccount) string {
	if a.ReportedDate == nil {
		return ""
	}
	return a.ReportedDate.Value
}

func scoredValue[T any](s *domain.Scored[T]) (T, bool) {
	if s == nil {
		var zero T
		return zero, false
	}
	return s.Value, true
}

func nonEmpty[T ~string](s *domain.Scored[T]) (T, bool) {
	v, ok := scoredValue(s)
	return v, ok && v != ""
}

func balanceOf(a domain.BureauAccount) (float64, bool)     { return scoredValue(a.Balance) }
func creditLimitOf(a domain.BureauAccount) (float64, bool) { return scoredValue(a.CreditLimit) }
func highCreditOf(a domain.BureauAccount) (float64, bool)  { return scoredValue(a.HighCredit) }

func statusOf(a domain.BureauAccount) (domain.AccountStatus, bool) { return nonEmpty(a.Status) }
func ownershipOf(a domain.BureauAccount) (domain.Ownership, bool)  { return nonEmpty(a.Ownership) }
func openDateOf(a domain.BureauAccount) (string, bool)             { return nonEmpty(a.OpenDate) }
func reportedDateOf(a domain.BureauAccount) (string, bool)         { return nonEmpty(a.ReportedDate) }
