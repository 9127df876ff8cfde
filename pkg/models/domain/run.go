package domain

import "time"

// AnalysisRun summarises one Analyze call for the run log.
type AnalysisRun struct {
	ID                   string
	CreatedAt            time.Time
	UserID               string
	Bureaus              []Bureau
	AccountCount         int
	ConflictCount        int
	ActionCount          int
	TotalSavingsUSD      float64
	RequiresManualReview bool
	EngineVersion        string
}
