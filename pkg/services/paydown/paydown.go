// Package paydown simulates month-by-month repayment of revolving balances.
package paydown

import (
	"cmp"
	"slices"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/services/money"
)

type account struct {
	id      string
	balance float64
	apr     float64
}

// ordered returns the accounts in payment order: highest APR first for avalanche, smallest
// balance first otherwise. Equal keys keep their input order.
func ordered(accounts []*account, strategy domain.PaydownStrategy) []*account {
	sorted := slices.Clone(accounts)
	slices.SortStableFunc(sorted, func(a, b *account) int {
		if strategy == domain.StrategyAvalanche {
			return cmp.Compare(b.apr, a.apr)
		}
		return cmp.Compare(a.balance, b.balance)
	})
	return sorted
}

// proportional splits the amount across positive balances by their share of the total.
func proportional(accounts []*account, amount float64) map[string]float64 {
	total := 0.0
	for _, a := range accounts {
		if a.balance > 0 {
			total += a.balance
		}
	}

	payments := make(map[string]float64, len(accounts))
	for _, a := range accounts {
		if a.balance <= 0 {
			continue
		}
		share := 0.0
		if total != 0 {
			share = a.balance / total * amount
		}
		payments[a.id] = share
	}
	return payments
}

// avalanche clears balances in order until the amount runs out. Anything left once every
// balance is covered goes to the last account.
func avalanche(accounts []*account, amount float64) map[string]float64 {
	payments := make(map[string]float64, len(accounts))
	remaining := amount

	for _, a := range accounts {
		if remaining <= 0 || a.balance <= 0 {
			payments[a.id] = 0
			continue
		}
		pay := min(a.balance, remaining)
		payments[a.id] = pay
		remaining -= pay
	}

	if remaining > 0 && len(accounts) > 0 {
		payments[accounts[len(accounts)-1].id] += remaining
	}
	return payments
}

func allocate(accounts []*account, amount float64, strategy domain.PaydownStrategy) map[string]float64 {
	if strategy == domain.StrategyAvalanche {
		return avalanche(accounts, amount)
	}
	return proportional(accounts, amount)
}

func applyLumpSum(accounts []*account, lumpSum float64, strategy domain.PaydownStrategy) {
	if lumpSum <= 0 {
		return
	}
	allocations := allocate(ordered(accounts, strategy), lumpSum, strategy)
	for _, a := range accounts {
		a.balance = max(0, a.balance-allocations[a.id])
	}
}

// Simulate runs the plan and reports the interest accrued over its months. Interest on
// each month's average balance is added back to the balance.
func Simulate(plan domain.PaydownPlan) domain.PaydownResult {
	accounts := make([]*account, 0, len(plan.Accounts))
	for _, a := range plan.Accounts {
		accounts = append(accounts, &account{id: a.ID, balance: a.Balance, apr: a.APR})
	}

	applyLumpSum(accounts, plan.LumpSum, plan.Strategy)

	totalInterest := 0.0
	for month := 0; month < plan.Months; month++ {
		order := ordered(accounts, plan.Strategy)
		payments := allocate(order, plan.Surplus, plan.Strategy)

		for _, a := range order {
			newBalance := max(0, a.balance-payments[a.id])
			average := (a.balance + newBalance) / 2
			interest := a.apr / 100 / 12 * average
			totalInterest += interest
			a.balance = newBalance + interest
		}
	}

	balances := make(map[string]float64, len(accounts))
	for _, a := range accounts {
		balances[a.id] = money.Cents(a.balance)
	}
	return domain.PaydownResult{
		InterestPaid: money.Cents(totalInterest),
		Balances:     balances,
	}
}

// Savings is the interest a plan saves relative to a baseline, never negative.
func Savings(plan, baseline domain.PaydownPlan) float64 {
	return money.Cents(max(0, Simulate(baseline).InterestPaid-Simulate(plan).InterestPaid))
}

// EVPaydown returns the larger interest saving of the three-month and avalanche plans
// against the baseline, floored at 0.
func EVPaydown(threeMonth, baseline, avalanche domain.PaydownPlan) float64 {
	baselineTotal := Simulate(baseline).InterestPaid
	savingsThreeMonth := baselineTotal - Simulate(threeMonth).InterestPaid
	savingsAvalanche := baselineTotal - Simulate(avalanche).InterestPaid

	return money.Cents(max(0, savingsThreeMonth, savingsAvalanche))
}
