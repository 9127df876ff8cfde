package adapters

import (
	"strings"
	"time"

	"github.com/de-tools/tradeline-atlas/pkg/models/api"
	"github.com/de-tools/tradeline-atlas/pkg/models/domain"
	"github.com/de-tools/tradeline-atlas/pkg/models/store"
)

func bureauNames(bureaus []domain.Bureau) []string {
	names := make([]string, 0, len(bureaus))
	for _, b := range bureaus {
		names = append(names, b.String())
	}
	return names
}

func MapDomainRunToStore(r domain.AnalysisRun) store.AnalysisRun {
	return store.AnalysisRun{
		ID:                   r.ID,
		CreatedAt:            r.CreatedAt.UTC(),
		UserID:               r.UserID,
		Bureaus:              strings.Join(bureauNames(r.Bureaus), ","),
		AccountCount:         int64(r.AccountCount),
		ConflictCount:        int64(r.ConflictCount),
		ActionCount:          int64(r.ActionCount),
		TotalSavingsUSD:      r.TotalSavingsUSD,
		RequiresManualReview: r.RequiresManualReview,
		EngineVersion:        r.EngineVersion,
	}
}

// MapStoreRunToDomain keeps bureau names it cannot parse as unknown rather than failing
// the whole listing.
func MapStoreRunToDomain(r store.AnalysisRun) domain.AnalysisRun {
	var bureaus []domain.Bureau
	for _, name := range strings.Split(r.Bureaus, ",") {
		if name == "" {
			continue
		}
		b, err := domain.ParseBureau(name)
		if err != nil {
			b = domain.BureauUnknown
		}
		bureaus = append(bureaus, b)
	}
	return domain.AnalysisRun{
		ID:                   r.ID,
		CreatedAt:            r.CreatedAt,
		UserID:               r.UserID,
		Bureaus:              bureaus,
		AccountCount:         int(r.AccountCount),
		ConflictCount:        int(r.ConflictCount),
		ActionCount:          int(r.ActionCount),
		TotalSavingsUSD:      r.TotalSavingsUSD,
		RequiresManualReview: r.RequiresManualReview,
		EngineVersion:        r.EngineVersion,
	}
}

func MapRunDomainToApi(r domain.AnalysisRun) api.Run {
	return api.Run{
		ID:                   r.ID,
		CreatedAt:            r.CreatedAt.UTC().Format(time.RFC3339),
		UserID:               r.UserID,
		Bureaus:              bureauNames(r.Bureaus),
		AccountCount:         r.AccountCount,
		ConflictCount:        r.ConflictCount,
		ActionCount:          r.ActionCount,
		TotalSavingsUSD:      r.TotalSavingsUSD,
		RequiresManualReview: r.RequiresManualReview,
		EngineVersion:        r.EngineVersion,
	}
}
