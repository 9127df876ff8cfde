package domain

type ScoreBand string

const (
	ScoreBandUnknown   ScoreBand = "unknown"
	ScoreBandExcellent ScoreBand = "excellent"
	ScoreBandVeryGood  ScoreBand = "very_good"
	ScoreBandGood      ScoreBand = "good"
	ScoreBandFair      ScoreBand = "fair"
	ScoreBandPoor      ScoreBand = "poor"
)

type ProductType string

const (
	ProductCreditCard   ProductType = "credit_card"
	ProductChargeCard   ProductType = "charge_card"
	ProductPersonalLoan ProductType = "personal_loan"
	ProductAutoLoan     ProductType = "auto_loan"
	ProductStudentLoan  ProductType = "student_loan"
	ProductMortgage     ProductType = "mortgage"
	ProductHomeEquity   ProductType = "home_equity"
	ProductSecuredCard  ProductType = "secured_card"
	ProductOther        ProductType = "other"
)

func (p ProductType) IsRevolving() bool {
	return p == ProductCreditCard || p == ProductChargeCard || p == ProductSecuredCard
}

type PaymentStatus string

const (
	PaymentCurrent    PaymentStatus = "current"
	PaymentLate30     PaymentStatus = "late_30"
	PaymentLate60     PaymentStatus = "late_60"
	PaymentLate90Plus PaymentStatus = "late_90_plus"
	PaymentDerogatory PaymentStatus = "derogatory"
	PaymentUnknown    PaymentStatus = "unknown"
)

type LimitSource string

const (
	LimitSourceReported        LimitSource = "reported_limit"
	LimitSourceHighCreditProxy LimitSource = "high_credit_proxy"
	LimitSourceUnknown         LimitSource = "unknown"
)

type APRSource string

const (
	APRSourceReported  APRSource = "reported"
	APRSourceEstimated APRSource = "estimated"
	APRSourceNone      APRSource = "none"
	APRSourceUnknown   APRSource = "unknown"
)

// Account is a user-confirmed tradeline handed to the EV engine.
type Account struct {
	ID            string
	Bureau        Bureau
	CreditorName  string
	ProductType   ProductType
	Ownership     Ownership
	Status        AccountStatus
	PaymentStatus PaymentStatus
	Balance       float64
	CreditLimit   *float64
	HighCredit    *float64
	LimitSource   LimitSource
	APR           *float64
	APRSource     APRSource
	OpenDate      string
	ReportedMonth string
	Tags          []string
}

type User struct {
	ID        string
	ScoreBand ScoreBand
}

type AnalyzeFlags struct {
	Any60dLate               bool
	LateFeeLastTwoStatements bool
	PenaltyAPRActive         bool
}

// PaydownPreferences enables the pay_down action when MonthlySurplus is positive.
type PaydownPreferences struct {
	MonthlySurplus float64
	LumpSum        float64
}

type AnalyzeInput struct {
	User     User
	Accounts []Account
	Flags    AnalyzeFlags
	Paydown  *PaydownPreferences
}

// ManualEdit overrides merged account fields. ID is the account name, matched
// case-insensitively.
type ManualEdit struct {
	ID     string
	Fields ManualEditFields
}

type ManualEditFields struct {
	ProductType string
	Status      string
	Balance     *float64
	CreditLimit *float64
	HighCredit  *float64
}
