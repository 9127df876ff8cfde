// Package parser turns loosely structured bureau report text into typed tradelines.
//
// Parsing is best effort: it never fails, and anything it cannot read is left out of the
// result. Only open or current revolving accounts are kept; every other account chunk is
// dropped without a diagnostic. That filter is a scope limit of the parser, not an error.
package parser

import (
	"regexp"
	"strings"

	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
)

const defaultAccountName = "Unknown account"

var (
	lineSplit     = regexp.MustCompile(`\r?\n`)
	revolvingLine = regexp.MustCompile(`(?i)revolving`)
	openStatus    = regexp.MustCompile(`open|current`)
)

// Parse extracts revolving accounts and inquiries from raw report text.
func Parse(text string) domain.ParseResult {
	s := newScanner()
	for _, line := range splitLines(text) {
		s.feed(line)
	}
	chunks, drafts := s.finish()

	result := domain.ParseResult{
		Accounts:  []domain.ParsedAccount{},
		Inquiries: []domain.ParsedInquiry{},
	}
	for _, chunk := range chunks {
		if account, ok := parseAccountChunk(chunk); ok {
			result.Accounts = append(result.Accounts, account)
		}
	}
	for _, draft := range drafts {
		result.Inquiries = append(result.Inquiries, parseInquiry(draft))
	}
	return result
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range lineSplit.Split(text, -1) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitField splits a "label: value" line on its first colon.
func splitField(line string) (label, value string, ok bool) {
	label, value, found := strings.Cut(line, ":")
	if !found || label == "" {
		return "", "", false
	}
	return label, strings.TrimSpace(value), true
}

func parseAccountChunk(chunk []string) (domain.ParsedAccount, bool) {
	account := domain.ParsedAccount{
		Name:     defaultAccountName,
		RawLines: append([]string(nil), chunk...),
	}

	for _, line := range chunk {
		rawLabel, value, ok := splitField(line)
		if !ok || value == "" {
			continue
		}
		label, ok := NormalizeLabel(rawLabel)
		if !ok {
			continue
		}

		switch label {
		case LabelAccountName:
			account.Name = value
		case LabelBalance:
			if m, ok := ParseMoney(value); ok {
				account.Balance = m.scored()
			}
		case LabelCreditLimit:
			if m, ok := ParseMoney(value); ok {
				account.CreditLimit = m.scored()
			}
		case LabelHighCredit:
			if m, ok := ParseMoney(value); ok {
				account.HighCredit = m.scored()
			}
		case LabelStatus:
			if m, ok := ParseStatus(value); ok {
				account.Status = m.scored()
			}
		case LabelOwnership:
			if m, ok := ParseOwnership(value); ok {
				account.Ownership = m.scored()
			}
		case LabelOpenDate:
			if m, ok := ParseMonth(value); ok {
				account.OpenDate = m.scored()
			}
		case LabelReportedDate:
			if m, ok := ParseMonth(value); ok {
				account.ReportedDate = m.scored()
			}
		}
	}

	if !isRevolving(chunk) || !isOpen(account) {
		return domain.ParsedAccount{}, false
	}
	return account, true
}

func isRevolving(chunk []string) bool {
	for _, line := range chunk {
		if revolvingLine.MatchString(line) {
			return true
		}
	}
	return false
}

func isOpen(account domain.ParsedAccount) bool {
	return account.Status != nil && openStatus.MatchString(string(account.Status.Value))
}

func parseInquiry(draft inquiryDraft) domain.ParsedInquiry {
	inquiry := domain.ParsedInquiry{Creditor: draft.Creditor}

	for _, line := range draft.Lines {
		rawLabel, value, ok := splitField(line)
		if !ok || value == "" {
			continue
		}
		label, ok := NormalizeLabel(rawLabel)
		if !ok {
			continue
		}

		switch label {
		case LabelInquiryDate:
			if m, ok := ParseMonth(value); ok {
				inquiry.Date = m.scored()
			}
		case LabelInquiryCreditor:
			inquiry.Creditor = value
		case LabelInquiryType:
			inquiry.Type = strings.ToLower(value)
		}
	}
	return inquiry
}
