package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(lines ...string) ([][]string, []inquiryDraft) {
	s := newScanner()
	for _, line := range lines {
		s.feed(line)
	}
	return s.finish()
}

func TestScanner_ChunkStartsOnlyWhenChunkIsOpen(t *testing.T) {
	s := newScanner()
	assert.False(t, s.chunkOpen())

	s.feed("Account Name: First")
	assert.True(t, s.chunkOpen())
	assert.Empty(t, s.chunks)

	s.feed("Balance: $10")
	s.feed("account name: Second")
	require.Len(t, s.chunks, 1)
	assert.Equal(t, []string{"Account Name: First", "Balance: $10"}, s.chunks[0])
	assert.Equal(t, []string{"account name: Second"}, s.chunk)
}

func TestScanner_HeadersSwitchSectionsWithoutContent(t *testing.T) {
	chunks, inquiries := feedAll(
		"ACCOUNTS",
		"Account Name: Card",
		"INQUIRIES (last 24 months)",
		"Inquiry: Lender",
	)

	require.Len(t, chunks, 1)
	assert.Equal(t, []string{"Account Name: Card"}, chunks[0])
	require.Len(t, inquiries, 1)
	assert.Equal(t, "Lender", inquiries[0].Creditor)
}

func TestScanner_SectionSwitchMidChunkResumesChunk(t *testing.T) {
	// Given an account chunk interrupted by an inquiries block
	chunks, inquiries := feedAll(
		"Account Name: Split Card",
		"Balance: $100",
		"Inquiries",
		"Inquiry: Lender",
		"Accounts (continued)",
		"Status: Open",
	)

	// Then the chunk continues after the section returns
	require.Len(t, chunks, 1)
	assert.Equal(t, []string{"Account Name: Split Card", "Balance: $100", "Status: Open"}, chunks[0])
	require.Len(t, inquiries, 1)
}

func TestScanner_SectionSwitchMidInquiryResumesRecord(t *testing.T) {
	_, inquiries := feedAll(
		"Inquiries",
		"Inquiry: Lender",
		"Accounts",
		"Account Name: Card",
		"Inquiries",
		"Date: 2024-05",
	)

	require.Len(t, inquiries, 1)
	assert.Equal(t, []string{"Date: 2024-05"}, inquiries[0].Lines)
}

func TestHeaderSection(t *testing.T) {
	assert.Equal(t, sectionInquiries, headerSection("Inquiries"))
	assert.Equal(t, sectionInquiries, headerSection("inquiries and accounts"))
	assert.Equal(t, sectionAccounts, headerSection("Accounts and Inquiries"))
	assert.Equal(t, sectionAccounts, headerSection("ACCOUNTS"))
}
