// Package roster builds the player history view: one row per player with
// its summary, filtered by name and sorted by a chosen key.
package roster

import (
	"cmp"
	"sort"
	"strings"
	"time"

	"github.com/okian/devtrack/internal/domain/apperr"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/summary"
)

// SortKey selects the column rows are ordered by.
type SortKey string

// Direction is ascending or descending.
type Direction string

// Sort keys.
const (
	SortName            SortKey = "name"
	SortTeam            SortKey = "team"
	SortAssessmentCount SortKey = "assessmentCount"
	SortLatestDate      SortKey = "latestAssessmentDate"
	SortAverageScore    SortKey = "averageScore"
)

// Directions.
const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// Sort is an ordering request.
type Sort struct {
	Key       SortKey
	Direction Direction
}

// DefaultSort orders by name ascending.
var DefaultSort = Sort{Key: SortName, Direction: Ascending}

// Query filters and orders a roster.
type Query struct {
	Search string
	Sort   Sort
}

// ProcessedPlayer is a player with its summary and newest-first history.
type ProcessedPlayer struct {
	Player      model.Player
	Summary     summary.Summary
	Assessments []model.Assessment
}

// ParseSort validates raw query values. Empty values fall back to DefaultSort.
func ParseSort(key, direction string) (Sort, error) {
	s := DefaultSort
	v := apperr.NewValidation()
	if key != "" {
		switch k := SortKey(key); k {
		case SortName, SortTeam, SortAssessmentCount, SortLatestDate, SortAverageScore:
			s.Key = k
		default:
			v.Add("sort", "unknown sort key "+key)
		}
	}
	if direction != "" {
		switch d := Direction(direction); d {
		case Ascending, Descending:
			s.Direction = d
		default:
			v.Add("direction", "must be ascending or descending")
		}
	}
	if err := v.Err(); err != nil {
		return Sort{}, err
	}
	return s, nil
}

// GroupByPlayer buckets joined assessment rows by player id.
func GroupByPlayer(rows []model.AssessmentWithPlayer) map[uint][]model.Assessment {
	out := make(map[uint][]model.Assessment)
	for _, r := range rows {
		out[r.Player.ID] = append(out[r.Player.ID], r.Assessment)
	}
	return out
}

// Build produces one row per player, in the order players are given.
// Players without assessments get an empty summary.
func Build(players []model.Player, byPlayer map[uint][]model.Assessment) []ProcessedPlayer {
	out := make([]ProcessedPlayer, 0, len(players))
	for _, p := range players {
		history := summary.ByDateDesc(byPlayer[p.ID])
		out = append(out, ProcessedPlayer{
			Player:      p,
			Summary:     summary.Summarize(history),
			Assessments: history,
		})
	}
	return out
}

// List filters rows by a case-insensitive name substring and sorts them
// stably. The input slice is not modified.
func List(rows []ProcessedPlayer, q Query) ([]ProcessedPlayer, error) {
	s := q.Sort
	if s.Key == "" && s.Direction == "" {
		s = DefaultSort
	}
	s, err := ParseSort(string(s.Key), string(s.Direction))
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]ProcessedPlayer, 0, len(rows))
	for _, r := range rows {
		if needle == "" || strings.Contains(strings.ToLower(r.Player.Name), needle) {
			out = append(out, r)
		}
	}

	compare := comparator(s.Key)
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if s.Direction == Descending {
			return c > 0
		}
		return c < 0
	})
	return out, nil
}

func comparator(key SortKey) func(a, b ProcessedPlayer) int {
	switch key {
	case SortTeam:
		return func(a, b ProcessedPlayer) int { return strings.Compare(string(a.Player.Team), string(b.Player.Team)) }
	case SortAssessmentCount:
		return func(a, b ProcessedPlayer) int { return cmp.Compare(a.Summary.AssessmentCount, b.Summary.AssessmentCount) }
	case SortLatestDate:
		return func(a, b ProcessedPlayer) int { return latest(a).Compare(latest(b)) }
	case SortAverageScore:
		return func(a, b ProcessedPlayer) int {
			return cmp.Compare(a.Summary.AverageScores.Overall, b.Summary.AverageScores.Overall)
		}
	default:
		return func(a, b ProcessedPlayer) int {
			return strings.Compare(strings.ToLower(a.Player.Name), strings.ToLower(b.Player.Name))
		}
	}
}

// latest treats a missing date as the zero time.
func latest(p ProcessedPlayer) time.Time {
	if p.Summary.LatestAssessmentDate == nil {
		return time.Time{}
	}
	return *p.Summary.LatestAssessmentDate
}

