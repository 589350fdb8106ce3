// Package score provides deterministic local aggregation of criterion
// scores. No model calls are made here.
package score

import (
	"math"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/catalog"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/recommend"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

// Total computes the arithmetic mean of the scores of criteria belonging to
// the selected environments, rounded to one decimal place. Criteria outside
// the valid score range are excluded; post-validation none should exist, but
// the aggregate must never be poisoned by one that does. Returns 0 when no
// criterion qualifies.
func Total(results []schema.CriterionResult, selectedEnvironments []string) float64 {
	selected := make(map[string]bool, len(selectedEnvironments))
	for _, id := range selectedEnvironments {
		selected[id] = true
	}

	sum, n := 0, 0
	for _, r := range results {
		if !selected[catalog.EnvironmentOf(r.ID)] {
			continue
		}
		if r.Score < schema.MinScore || r.Score > schema.MaxScore {
			continue
		}
		sum += r.Score
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

// EditScore applies a user edit to one criterion and returns the recomputed
// total. The recommendation markup is re-synthesized over the edited scores
// so the displayed classification and the displayed total always agree. The
// edit is rejected when the new score is out of range or the id is not
// present in the result.
func EditScore(result *schema.EvaluationResult, criterionID string, newScore int, selectedEnvironments []string) (float64, bool) {
	if newScore < schema.MinScore || newScore > schema.MaxScore {
		return result.TotalScore, false
	}
	edited := false
	for i := range result.Criteria {
		if result.Criteria[i].ID == criterionID {
			result.Criteria[i].Score = newScore
			edited = true
			break
		}
	}
	if !edited {
		return result.TotalScore, false
	}
	result.TotalScore = Total(result.Criteria, selectedEnvironments)
	result.Recommendations = recommend.Refresh(result.Recommendations, result.Criteria, selectedEnvironments, result.Language)
	return result.TotalScore, true
}
