// Package summary derives per-player averages and trend from assessment
// history. Results are recomputed on every read.
package summary

import (
	"sort"
	"time"

	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/types"
)

// Averages holds the per-dimension means and the overall mean.
type Averages struct {
	Technical     float64 `json:"technical"`
	Tactical      float64 `json:"tactical"`
	Physical      float64 `json:"physical"`
	Psychological float64 `json:"psychological"`
	Social        float64 `json:"social"`
	Overall       float64 `json:"overall"`
}

// Summary aggregates one player's assessments.
type Summary struct {
	AverageScores        Averages
	Trend                types.Trend
	AssessmentCount      int
	LatestAssessmentDate *time.Time
}

// Composite is the mean of the five scores of one assessment.
func Composite(s types.Scores) float64 {
	v := s.Values()
	sum := 0
	for _, n := range v {
		sum += n
	}
	return float64(sum) / float64(len(v))
}

// Summarize computes the summary of assessments. An empty set yields zero
// averages, a stable trend and no latest date.
func Summarize(assessments []model.Assessment) Summary {
	out := Summary{Trend: types.TrendStable, AssessmentCount: len(assessments)}
	if len(assessments) == 0 {
		return out
	}

	var sums [5]float64
	latest := assessments[0].AssessmentDate
	for _, a := range assessments {
		for i, n := range a.Scores.Values() {
			sums[i] += float64(n)
		}
		if a.AssessmentDate.After(latest) {
			latest = a.AssessmentDate
		}
	}
	count := float64(len(assessments))
	out.AverageScores = Averages{
		Technical:     sums[0] / count,
		Tactical:      sums[1] / count,
		Physical:      sums[2] / count,
		Psychological: sums[3] / count,
		Social:        sums[4] / count,
	}
	out.AverageScores.Overall = (out.AverageScores.Technical +
		out.AverageScores.Tactical +
		out.AverageScores.Physical +
		out.AverageScores.Psychological +
		out.AverageScores.Social) / 5
	out.LatestAssessmentDate = &latest
	out.Trend = Trend(assessments)
	return out
}

// Trend compares the composites of the two most recent assessments.
// Older history does not influence the result.
func Trend(assessments []model.Assessment) types.Trend {
	if len(assessments) < 2 {
		return types.TrendStable
	}
	sorted := ByDateDesc(assessments)
	latest, previous := Composite(sorted[0].Scores), Composite(sorted[1].Scores)
	switch {
	case latest > previous:
		return types.TrendImproving
	case latest < previous:
		return types.TrendDeclining
	default:
		return types.TrendStable
	}
}

// ByDateDesc returns a copy of assessments sorted newest first. Equal
// dates keep their input order.
func ByDateDesc(assessments []model.Assessment) []model.Assessment {
	out := make([]model.Assessment, len(assessments))
	copy(out, assessments)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AssessmentDate.After(out[j].AssessmentDate)
	})
	return out
}
