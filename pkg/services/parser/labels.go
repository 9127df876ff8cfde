package parser

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type LabelKey string

const (
	LabelAccountName     LabelKey = "account_name"
	LabelHighCredit      LabelKey = "high_credit"
	LabelCreditLimit     LabelKey = "credit_limit"
	LabelBalance         LabelKey = "balance"
	LabelStatus          LabelKey = "status"
	LabelOwnership       LabelKey = "ownership"
	LabelOpenDate        LabelKey = "open_date"
	LabelReportedDate    LabelKey = "reported_date"
	LabelAccountType     LabelKey = "account_type"
	LabelInquiryCreditor LabelKey = "inquiry_creditor"
	LabelInquiryDate     LabelKey = "inquiry_date"
	LabelInquiryType     LabelKey = "inquiry_type"
)

//go:embed labels.yaml
var defaultLabels []byte

type labelEntry struct {
	Key      LabelKey `yaml:"key"`
	Synonyms []string `yaml:"synonyms"`
}

// LabelTable maps free-text field labels onto canonical keys.
type LabelTable struct {
	entries []labelEntry
	index   map[string]LabelKey
}

var defaultTable = mustLoadLabelTable(defaultLabels)

func mustLoadLabelTable(data []byte) *LabelTable {
	t, err := LoadLabelTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// LoadLabelTable parses an ordered YAML synonym table. A synonym may belong to one key only.
func LoadLabelTable(data []byte) (*LabelTable, error) {
	var entries []labelEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse label table: %w", err)
	}

	index := make(map[string]LabelKey)
	for i, entry := range entries {
		if entry.Key == "" {
			return nil, fmt.Errorf("label table entry %d has no key", i)
		}
		for j, synonym := range entry.Synonyms {
			synonym = strings.ToLower(strings.TrimSpace(synonym))
			if synonym == "" {
				return nil, fmt.Errorf("label %q has an empty synonym", entry.Key)
			}
			if owner, exists := index[synonym]; exists {
				return nil, fmt.Errorf("synonym %q is listed under both %q and %q", synonym, owner, entry.Key)
			}
			index[synonym] = entry.Key
			entries[i].Synonyms[j] = synonym
		}
	}

	return &LabelTable{entries: entries, index: index}, nil
}

// Normalize returns the canonical key for a raw label: an exact synonym match first, then
// the first key in table order with a synonym contained in the label.
func (t *LabelTable) Normalize(label string) (LabelKey, bool) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if key, ok := t.index[normalized]; ok {
		return key, true
	}

	for _, entry := range t.entries {
		for _, synonym := range entry.Synonyms {
			if strings.Contains(normalized, synonym) {
				return entry.Key, true
			}
		}
	}
	return "", false
}

// NormalizeLabel resolves a label against the built-in synonym table.
func NormalizeLabel(label string) (LabelKey, bool) {
	return defaultTable.Normalize(label)
}
