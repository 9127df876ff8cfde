package analysis

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/de-tools/tradeline-atlas/pkg/adapters"
	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
)

const WarningUnmatchedEdit = "unmatched_edit"

func editKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// closestName returns the merged account name nearest to key, provided it is within a
// third of the key's length.
func closestName(key string, accounts []domain.ReviewAccount) (string, bool) {
	best, bestDistance := "", -1
	for _, a := range accounts {
		d := levenshtein.ComputeDistance(key, editKey(a.Name))
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = a.Name, d
		}
	}
	if bestDistance < 0 || bestDistance > max(1, len(key)/3) {
		return "", false
	}
	return best, true
}

// BuildAnalyzeInput overlays manual edits on the merged accounts. Authorized-user accounts
// stay excluded. When several edits name the same account the last one wins; edits that
// match no account come back as warnings.
func BuildAnalyzeInput(
	merged domain.MergeResult,
	edits []domain.ManualEdit,
	user domain.User,
	flags domain.AnalyzeFlags,
	paydown *domain.PaydownPreferences,
) (domain.AnalyzeInput, []domain.Warning) {
	byName := make(map[string]domain.ManualEditFields, len(edits))
	for _, e := range edits {
		byName[editKey(e.ID)] = e.Fields
	}

	accounts := make([]domain.Account, 0, len(merged.MergedAccounts))
	matched := make(map[string]bool, len(edits))
	for _, review := range merged.MergedAccounts {
		key := editKey(review.Name)
		var edit *domain.ManualEditFields
		if fields, ok := byName[key]; ok {
			edit = &fields
			matched[key] = true
		}
		accounts = append(accounts, adapters.MapReviewAccountToAnalyzeAccount(review, edit))
	}

	warnings := []domain.Warning{}
	reported := make(map[string]bool)
	for _, e := range edits {
		key := editKey(e.ID)
		if matched[key] || reported[key] {
			continue
		}
		reported[key] = true

		message := fmt.Sprintf("Manual edit for %q did not match any account.", e.ID)
		if suggestion, ok := closestName(key, merged.MergedAccounts); ok {
			message = fmt.Sprintf("Manual edit for %q did not match any account. Did you mean %q?", e.ID, suggestion)
		}
		warnings = append(warnings, domain.Warning{
			Code:    WarningUnmatchedEdit,
			Message: message,
			Level:   domain.WarningLevelWarning,
		})
	}

	return domain.AnalyzeInput{
		User:     user,
		Accounts: accounts,
		Flags:    flags,
		Paydown:  paydown,
	}, warnings
}
