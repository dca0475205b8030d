package types

import (
	"math"

	"github.com/okian/devtrack/internal/domain/apperr"
)

// Score bounds.
const (
	MinScore = 1
	MaxScore = 5
)

// Score field names as they appear in requests and validation detail.
const (
	FieldTechnical     = "technicalScore"
	FieldTactical      = "tacticalScore"
	FieldPhysical      = "physicalScore"
	FieldPsychological = "psychologicalScore"
	FieldSocial        = "socialScore"
)

// Scores holds the five assessed dimensions.
type Scores struct {
	Technical     int `json:"technicalScore"`
	Tactical      int `json:"tacticalScore"`
	Physical      int `json:"physicalScore"`
	Psychological int `json:"psychologicalScore"`
	Social        int `json:"socialScore"`
}

// Values returns the five scores in dimension order.
func (s Scores) Values() [5]int {
	return [5]int{s.Technical, s.Tactical, s.Physical, s.Psychological, s.Social}
}

// Validate checks every score lies in [MinScore, MaxScore].
func (s Scores) Validate() error {
	v := apperr.NewValidation()
	checkRange(v, FieldTechnical, s.Technical)
	checkRange(v, FieldTactical, s.Tactical)
	checkRange(v, FieldPhysical, s.Physical)
	checkRange(v, FieldPsychological, s.Psychological)
	checkRange(v, FieldSocial, s.Social)
	return v.Err()
}

func checkRange(v *apperr.ValidationError, field string, n int) {
	if n < MinScore || n > MaxScore {
		v.Add(field, "must be between 1 and 5")
	}
}

// RawScores is the untrusted numeric form decoded from a request.
// A nil field means the value was absent.
type RawScores struct {
	Technical     *float64 `json:"technicalScore"`
	Tactical      *float64 `json:"tacticalScore"`
	Physical      *float64 `json:"physicalScore"`
	Psychological *float64 `json:"psychologicalScore"`
	Social        *float64 `json:"socialScore"`
}

// Scores converts r, rejecting missing, fractional and out of range values.
func (r RawScores) Scores() (Scores, error) {
	v := apperr.NewValidation()
	s := Scores{
		Technical:     toScore(v, FieldTechnical, r.Technical),
		Tactical:      toScore(v, FieldTactical, r.Tactical),
		Physical:      toScore(v, FieldPhysical, r.Physical),
		Psychological: toScore(v, FieldPsychological, r.Psychological),
		Social:        toScore(v, FieldSocial, r.Social),
	}
	if err := v.Err(); err != nil {
		return Scores{}, err
	}
	return s, nil
}

func toScore(v *apperr.ValidationError, field string, f *float64) int {
	switch {
	case f == nil:
		v.Add(field, "is required")
		return 0
	case math.IsNaN(*f) || math.IsInf(*f, 0) || *f != math.Trunc(*f):
		v.Add(field, "must be an integer")
		return 0
	case *f < MinScore || *f > MaxScore:
		v.Add(field, "must be between 1 and 5")
		return 0
	}
	return int(*f)
}
