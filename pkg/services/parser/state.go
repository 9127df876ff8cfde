package parser

import (
	"regexp"
	"strings"
)

type section int

const (
	sectionAccounts section = iota
	sectionInquiries
)

func (s section) String() string {
	if s == sectionInquiries {
		return "inquiries"
	}
	return "accounts"
}

var (
	sectionHeaderRegex = regexp.MustCompile(`(?i)^(?:accounts|inquiries)`)
	chunkStartRegex    = regexp.MustCompile(`(?i)^account name`)
	inquiryStartRegex  = regexp.MustCompile(`(?i)^inquiry\s*:`)
)

// scanner walks report lines through a two-dimensional state: the current section and
// whether an account chunk is open. Switching sections never closes the open chunk or
// inquiry record; content of a section continues where it left off when the section
// header reappears.
type scanner struct {
	section section
	chunk   []string   // open account chunk, nil when none
	chunks  [][]string // closed account chunks

	inquiry   *inquiryDraft
	inquiries []inquiryDraft
}

// inquiryDraft is an inquiry record being assembled from consecutive lines.
type inquiryDraft struct {
	Creditor string
	Lines    []string
}

func newScanner() *scanner {
	return &scanner{section: sectionAccounts}
}

func (s *scanner) chunkOpen() bool {
	return s.chunk != nil
}

func (s *scanner) feed(line string) {
	if sectionHeaderRegex.MatchString(line) {
		s.section = headerSection(line)
		return
	}

	switch s.section {
	case sectionInquiries:
		s.feedInquiry(line)
	default:
		s.feedAccount(line)
	}
}

func (s *scanner) feedAccount(line string) {
	if chunkStartRegex.MatchString(line) && s.chunkOpen() {
		s.chunks = append(s.chunks, s.chunk)
		s.chunk = nil
	}
	s.chunk = append(s.chunk, line)
}

func (s *scanner) feedInquiry(line string) {
	if inquiryStartRegex.MatchString(line) {
		s.closeInquiry()
		creditor := strings.TrimSpace(inquiryStartRegex.ReplaceAllString(line, ""))
		if creditor == "" {
			creditor = "Unknown"
		}
		s.inquiry = &inquiryDraft{Creditor: creditor}
		return
	}

	// fields before the first inquiry: line have no record to attach to
	if s.inquiry == nil {
		return
	}
	s.inquiry.Lines = append(s.inquiry.Lines, line)
}

func (s *scanner) closeInquiry() {
	if s.inquiry != nil {
		s.inquiries = append(s.inquiries, *s.inquiry)
		s.inquiry = nil
	}
}

// finish flushes the open chunk and inquiry record.
func (s *scanner) finish() ([][]string, []inquiryDraft) {
	if s.chunkOpen() {
		s.chunks = append(s.chunks, s.chunk)
		s.chunk = nil
	}
	s.closeInquiry()
	return s.chunks, s.inquiries
}

// headerSection picks inquiries only for headers starting with "inquiries"; any other
// header, including ambiguous ones, selects accounts.
func headerSection(line string) section {
	if strings.HasPrefix(strings.ToLower(line), "inquiries") {
		return sectionInquiries
	}
	return sectionAccounts
}
