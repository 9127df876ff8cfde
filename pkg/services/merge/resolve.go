package merge

import (
	"slices"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
)

type candidate[T comparable] struct {
	index  int // position within the group
	bureau domain.Bureau
	date   string
	score  int
	value  T
}

func (c candidate[T]) snapshot() domain.FieldSnapshot {
	return domain.FieldSnapshot{Bureau: c.bureau, Value: c.value, ReportedDate: c.date}
}

// tieBreak picks the winner among candidates sharing the top reported-date score.
type tieBreak[T comparable] func(top []candidate[T]) (candidate[T], domain.ConflictResolution)

// tieNone keeps the first candidate in ranked order.
func tieNone[T comparable](top []candidate[T]) (candidate[T], domain.ConflictResolution) {
	return top[0], domain.ResolutionLatest
}

// tieMax favors the larger amount, keeping the earlier candidate on equal values.
func tieMax(top []candidate[float64]) (candidate[float64], domain.ConflictResolution) {
	if len(top) == 1 {
		return top[0], domain.ResolutionLatest
	}
	winner := top[0]
	for _, c := range top[1:] {
		if c.value > winner.value {
			winner = c
		}
	}
	return winner, domain.ResolutionTieBalance
}

// tieMin favors the smaller amount, keeping the earlier candidate on equal values.
func tieMin(top []candidate[float64]) (candidate[float64], domain.ConflictResolution) {
	if len(top) == 1 {
		return top[0], domain.ResolutionLatest
	}
	winner := top[0]
	for _, c := range top[1:] {
		if c.value < winner.value {
			winner = c
		}
	}
	return winner, domain.ResolutionTieLimit
}

// resolveField picks a group's value for one field and records a conflict when another
// source reported something different. It returns nil when no source has a value.
func resolveField[T comparable](
	g *group,
	field domain.ConflictField,
	get func(domain.BureauAccount) (T, bool),
	breakTie tieBreak[T],
) *T {
	var candidates []candidate[T]
	for i, a := range g.accounts {
		value, ok := get(a)
		if !ok {
			continue
		}
		date := reportedDate(a)
		candidates = append(candidates, candidate[T]{
			index:  i,
			bureau: a.Bureau,
			date:   date,
			score:  ReportedDateScore(date),
			value:  value,
		})
	}
	if len(candidates) == 0 {
		return nil
	}

	slices.SortStableFunc(candidates, func(a, b candidate[T]) int {
		return b.score - a.score
	})

	top := candidates
	for i, c := range candidates {
		if c.score != candidates[0].score {
			top = candidates[:i]
			break
		}
	}

	winner, resolution := breakTie(top)

	var others []domain.FieldSnapshot
	for _, c := range candidates {
		if c.index != winner.index && c.value != winner.value {
			others = append(others, c.snapshot())
		}
	}

	if len(others) > 0 {
		g.conflicts = append(g.conflicts, domain.ConflictEntry{
			AccountName: g.name,
			Field:       field,
			Chosen:      winner.snapshot(),
			Others:      others,
			Resolution:  resolution,
		})
	}

	value := winner.value
	return &value
}
