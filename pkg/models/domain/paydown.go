package domain

type PaydownStrategy string

const (
	StrategyProportional PaydownStrategy = "proportional"
	StrategyAvalanche    PaydownStrategy = "avalanche"
)

type PaydownAccount struct {
	ID      string
	Balance float64
	APR     float64
}

type PaydownPlan struct {
	Accounts []PaydownAccount
	Surplus  float64
	Months   int
	Strategy PaydownStrategy
	LumpSum  float64
}

type PaydownResult struct {
	InterestPaid float64
	Balances     map[string]float64
}
