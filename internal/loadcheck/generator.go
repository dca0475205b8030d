package loadcheck

import (
	"fmt"
	"math/rand/v2"
	"time"
)

var (
	teams     = []string{"9M", "10M", "11M", "12M", "13M", "14M", "15M", "16M", "12F", "14F", "16F"}
	positions = []string{"GK", "DEF", "MID", "FWD"}
	feet      = []string{"Left", "Right"}
	assessors = []string{"Ken Tougher", "Sam Keane", "Laura Byrne", "Dave Murphy"}
)

// Generate builds Submissions assessments for each of Players tuples,
// interleaved so duplicates of one tuple are in flight together.
func Generate(cfg Config, rng *rand.Rand) []Submission {
	day := time.Now().UTC()
	out := make([]Submission, 0, cfg.Players*cfg.Submissions)
	for round := 0; round < cfg.Submissions; round++ {
		for p := 0; p < cfg.Players; p++ {
			out = append(out, Submission{
				PlayerName:         fmt.Sprintf("Loadcheck %s %03d", cfg.RunID, p),
				Team:               teams[p%len(teams)],
				Position:           positions[p%len(positions)],
				Foot:               feet[p%len(feet)],
				Assessor:           assessors[rng.IntN(len(assessors))],
				AssessmentDate:     day.AddDate(0, 0, -round).Format("2006-01-02"),
				TechnicalScore:     1 + rng.IntN(5),
				TacticalScore:      1 + rng.IntN(5),
				PhysicalScore:      1 + rng.IntN(5),
				PsychologicalScore: 1 + rng.IntN(5),
				SocialScore:        1 + rng.IntN(5),
			})
		}
	}
	return out
}
