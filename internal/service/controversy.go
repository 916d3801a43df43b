package service

import (
	"sort"

	"github.com/Harshitk-cp/credence/internal/domain"
	"gonum.org/v1/gonum/stat"
)

const (
	// varianceCeiling is the empirical variance of a maximally split
	// population (half at 0, half at 1 gives 0.25; 0.15 already reads as
	// "very controversial"), used to normalize scores into [0,1].
	varianceCeiling = 0.15

	// minOpinions is how many users must have rated an entity before its
	// disagreement counts as signal.
	minOpinions = 2
)

// ScoreControversy measures disagreement across the population: population
// variance of trust values per entity, averaged over qualifying entities,
// normalized against the variance ceiling. Pure function.
func ScoreControversy(valuesByEntity map[string][]float64) domain.ControversyReport {
	report := domain.ControversyReport{}

	var varianceSum float64
	for entityID, values := range valuesByEntity {
		if len(values) < minOpinions {
			continue
		}

		mean := stat.Mean(values, nil)
		variance := stat.PopVariance(values, nil)
		varianceSum += variance

		report.AssertionCount++
		// Opinions arrive as bare values, so the widest opinion set is
		// the best available proxy for population size.
		if len(values) > report.UserCount {
			report.UserCount = len(values)
		}

		report.Entities = append(report.Entities, domain.EntityControversy{
			EntityID:  entityID,
			Variance:  variance,
			Mean:      mean,
			UserCount: len(values),
		})
	}

	if report.AssertionCount == 0 {
		return report
	}

	report.AvgVariance = varianceSum / float64(report.AssertionCount)
	report.Score = report.AvgVariance / varianceCeiling
	if report.Score > 1 {
		report.Score = 1
	}

	sort.Slice(report.Entities, func(i, j int) bool {
		return report.Entities[i].Variance > report.Entities[j].Variance
	})

	return report
}
