package loadcheck

import (
	"fmt"
	"math"
)

const averageTolerance = 1e-6

// Verify checks the server state against the accepted submissions: one
// player per tuple, one creation per tuple, every accepted assessment
// counted and the overall average equal to the mean composite.
func Verify(results []Result, rows []HistoryRow) error {
	type expect struct {
		playerID uint
		created  int
		count    int
		sum      float64
	}
	want := make(map[string]*expect)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		k := r.Submission.Key()
		e, ok := want[k]
		if !ok {
			e = &expect{playerID: r.PlayerID}
			want[k] = e
		}
		if e.playerID != r.PlayerID {
			return fmt.Errorf("%w: %s resolved to players %d and %d", ErrVerification, k, e.playerID, r.PlayerID)
		}
		if r.Created {
			e.created++
		}
		e.count++
		e.sum += r.Submission.Composite()
	}

	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		k := row.Key()
		if seen[k] {
			return fmt.Errorf("%w: duplicate player rows for %s", ErrVerification, k)
		}
		seen[k] = true

		e, ok := want[k]
		if !ok {
			continue
		}
		if row.ID != e.playerID {
			return fmt.Errorf("%w: %s listed as player %d, created as %d", ErrVerification, k, row.ID, e.playerID)
		}
		if row.AssessmentCount != e.count {
			return fmt.Errorf("%w: %s has %d assessments, want %d", ErrVerification, k, row.AssessmentCount, e.count)
		}
		mean := e.sum / float64(e.count)
		if math.Abs(row.AverageScores.Overall-mean) > averageTolerance {
			return fmt.Errorf("%w: %s averages %.4f, want %.4f", ErrVerification, k, row.AverageScores.Overall, mean)
		}
	}
	for k, e := range want {
		if !seen[k] {
			return fmt.Errorf("%w: %s missing from history", ErrVerification, k)
		}
		if e.created != 1 {
			return fmt.Errorf("%w: %s reported as created %d times", ErrVerification, k, e.created)
		}
	}
	return nil
}
