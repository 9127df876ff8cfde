package domain

// Scored pairs an extracted value with the confidence of the grammar that produced it.
// Confidence is nil for values that did not come from the parser (manual entry, API input).
type Scored[T any] struct {
	Value      T
	Confidence *float64
}

func NewScored[T any](value T, confidence float64) *Scored[T] {
	return &Scored[T]{Value: value, Confidence: &confidence}
}

func Unscored[T any](value T) *Scored[T] {
	return &Scored[T]{Value: value}
}

// ConfidentAt reports whether the value is present and either carries no confidence or
// meets the threshold.
func (s *Scored[T]) ConfidentAt(threshold float64) bool {
	if s == nil {
		return false
	}
	return s.Confidence == nil || *s.Confidence >= threshold
}

type AccountStatus string

const (
	StatusOpen       AccountStatus = "open"
	StatusClosed     AccountStatus = "closed"
	StatusPaid       AccountStatus = "paid"
	StatusChargeOff  AccountStatus = "charge_off"
	StatusDelinquent AccountStatus = "delinquent"
	StatusCurrent    AccountStatus = "current"
	StatusLate       AccountStatus = "late"
	StatusChargedOff AccountStatus = "charged_off"
	StatusCollection AccountStatus = "collection"
	StatusUnknown    AccountStatus = "unknown"
)

type Ownership string

const (
	OwnershipIndividual     Ownership = "individual"
	OwnershipJoint          Ownership = "joint"
	OwnershipAuthorizedUser Ownership = "authorized_user"
	OwnershipBusiness       Ownership = "business"
	OwnershipUnknown        Ownership = "unknown"
)

// ParsedAccount is a single tradeline as extracted from bureau text.
// It is never mutated after parsing; user corrections travel as ManualEdit.
type ParsedAccount struct {
	Name         string
	RawLines     []string
	Balance      *Scored[float64]
	CreditLimit  *Scored[float64]
	HighCredit   *Scored[float64]
	Status       *Scored[AccountStatus]
	Ownership    *Scored[Ownership]
	OpenDate     *Scored[string] // YYYY-MM
	ReportedDate *Scored[string] // YYYY-MM
}

type ParsedInquiry struct {
	Creditor string
	Date     *Scored[string]
	Type     string
}

type ParseResult struct {
	Accounts  []ParsedAccount
	Inquiries []ParsedInquiry
}

type BureauAccount struct {
	Bureau Bureau
	ParsedAccount
}
