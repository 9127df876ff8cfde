package store

import "time"

type AnalysisRun struct {
	ID                   string
	CreatedAt            time.Time
	UserID               string
	Bureaus              string // comma separated
	AccountCount         int64
	ConflictCount        int64
	ActionCount          int64
	TotalSavingsUSD      float64
	RequiresManualReview bool
	EngineVersion        string
}
