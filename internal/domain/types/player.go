package types

import (
	"strings"

	"github.com/okian/devtrack/internal/domain/apperr"
)

// PlayerTuple is the identity of a player: two players with an equal tuple are the same person.
type PlayerTuple struct {
	Name     string
	Team     Team
	Position Position
	Foot     Foot
}

// NewPlayerTuple validates raw identity fields. Name is trimmed but keeps its case.
func NewPlayerTuple(name, team, position, foot string) (PlayerTuple, error) {
	v := apperr.NewValidation()
	t := PlayerTuple{Name: strings.TrimSpace(name)}
	if t.Name == "" {
		v.Add("playerName", "is required")
	}
	var err error
	if t.Team, err = ParseTeam(team); err != nil {
		v.Add("team", err.Error())
	}
	if t.Position, err = ParsePosition(position); err != nil {
		v.Add("position", err.Error())
	}
	if t.Foot, err = ParseFoot(foot); err != nil {
		v.Add("foot", err.Error())
	}
	if err := v.Err(); err != nil {
		return PlayerTuple{}, err
	}
	return t, nil
}

// Validate re-checks an already constructed tuple.
func (t PlayerTuple) Validate() error {
	_, err := NewPlayerTuple(t.Name, string(t.Team), string(t.Position), string(t.Foot))
	return err
}
