// Package filter selects hands whose best-action EV lies in a closed band,
// and ranks retained hands by decision difficulty.
package filter

import (
	"sort"

	"github.com/rangeforge/handviz/internal/models"
)

// Apply returns the subset of records with minEV <= BestEV <= maxEV, interval
// closed on both ends. Pure and order-preserving; an empty result is valid.
// The band itself is validated at configuration time, not here.
func Apply(records []models.HandRecord, minEV, maxEV float64) []models.HandRecord {
	out := make([]models.HandRecord, 0, len(records))
	for _, rec := range records {
		if rec.BestEV >= minEV && rec.BestEV <= maxEV {
			out = append(out, rec)
		}
	}
	return out
}

// TakeHardest returns the n hardest records: lowest difficulty score first,
// hand code breaking ties so the ranking is deterministic. n <= 0 or
// n >= len(records) keeps everything, in ranked order.
func TakeHardest(records []models.HandRecord, n int) []models.HandRecord {
	ranked := make([]models.HandRecord, len(records))
	copy(ranked, records)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Difficulty != ranked[j].Difficulty {
			return ranked[i].Difficulty < ranked[j].Difficulty
		}
		return ranked[i].Hand < ranked[j].Hand
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
