package domain

type ConflictField string

const (
	FieldBalance      ConflictField = "balance"
	FieldCreditLimit  ConflictField = "creditLimit"
	FieldHighCredit   ConflictField = "highCredit"
	FieldStatus       ConflictField = "status"
	FieldOwnership    ConflictField = "ownership"
	FieldOpenDate     ConflictField = "openDate"
	FieldReportedDate ConflictField = "reportedDate"
)

type ConflictResolution string

const (
	ResolutionLatest     ConflictResolution = "latest"
	ResolutionTieBalance ConflictResolution = "tie_balance"
	ResolutionTieLimit   ConflictResolution = "tie_limit"
)

// FieldSnapshot is one bureau's value for a field. Value holds a float64 for money
// fields and a string (or string-kinded enum) otherwise.
type FieldSnapshot struct {
	Bureau       Bureau
	Value        any
	ReportedDate string
}

type ConflictEntry struct {
	AccountName string
	Field       ConflictField
	Chosen      FieldSnapshot
	Others      []FieldSnapshot
	Resolution  ConflictResolution
}

// SourceSnapshot keeps every raw value one bureau reported for a merged account.
type SourceSnapshot struct {
	Bureau       Bureau
	ReportedDate *string
	Balance      *float64
	CreditLimit  *float64
	HighCredit   *float64
	Ownership    *Ownership
	Status       *AccountStatus
	OpenDate     *string
}

type ReviewAccount struct {
	ID             string
	Name           string
	Bureaus        []Bureau
	Ownership      *Ownership
	Status         *AccountStatus
	Balance        *float64
	CreditLimit    *float64
	HighCredit     *float64
	OpenDate       *string
	ReportedDate   *string
	SourceAccounts []SourceSnapshot
}

func (r ReviewAccount) IsAuthorizedUser() bool {
	return r.Ownership != nil && *r.Ownership == OwnershipAuthorizedUser
}

type MergeResult struct {
	MergedAccounts   []ReviewAccount
	ExcludedAccounts []ReviewAccount
	Conflicts        []ConflictEntry
}
