// Package merge reconciles the same tradeline as reported by several bureaus.
//
// Accounts are grouped by normalized name and every field is resolved on its own: the most
// recently reported value wins, ties go to the field's tie-break rule, and any source that
// disagrees with the winner is recorded as a conflict. Merging is deterministic for a given
// input order.
package merge

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
)

const unknownAccountKey = "unknown_account"

var (
	nameKeyRegex      = regexp.MustCompile(`[^a-z0-9]`)
	reportedDateRegex = regexp.MustCompile(`^(\d{4})(?:-(\d{2}))?`)
)

// NormalizeName builds the grouping key of an account name. Each character outside
// [a-z0-9] becomes an underscore.
func NormalizeName(name string) string {
	key := nameKeyRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	if key == "" {
		return unknownAccountKey
	}
	return key
}

// ReportedDateScore ranks a YYYY or YYYY-MM date as year*12+month. Missing or unreadable
// dates score 0.
func ReportedDateScore(reportedDate string) int {
	m := reportedDateRegex.FindStringSubmatch(reportedDate)
	if m == nil {
		return 0
	}
	year, _ := strconv.Atoi(m[1])
	month := 1
	if m[2] != "" {
		month, _ = strconv.Atoi(m[2])
	}
	return year*12 + month
}

// Merge groups accounts by name and resolves each group into a review account. Groups are
// processed in key order, so IDs are reproducible.
func Merge(accounts []domain.BureauAccount) domain.MergeResult {
	result := domain.MergeResult{
		MergedAccounts:   []domain.ReviewAccount{},
		ExcludedAccounts: []domain.ReviewAccount{},
		Conflicts:        []domain.ConflictEntry{},
	}

	groups := make(map[string][]domain.BureauAccount)
	for _, account := range accounts {
		key := NormalizeName(account.Name)
		groups[key] = append(groups[key], account)
	}

	for index, key := range slices.Sorted(maps.Keys(groups)) {
		g := newGroup(groups[key], key+"-"+strconv.Itoa(index))
		account := g.merge()

		result.Conflicts = append(result.Conflicts, g.conflicts...)
		if account.IsAuthorizedUser() {
			result.ExcludedAccounts = append(result.ExcludedAccounts, account)
		} else {
			result.MergedAccounts = append(result.MergedAccounts, account)
		}
	}

	return result
}
