// Package types contains the closed value sets and score types shared across the application.
package types

import (
	"fmt"
	"strings"
)

// Team is a squad code such as "13M".
type Team string

// Position is a playing position.
type Position string

// Foot is the preferred foot.
type Foot string

// Assessor is one of the coaches allowed to record assessments.
type Assessor string

// Role is a user's permission level.
type Role string

// Status is a user's approval state.
type Status string

// Trend classifies the direction of a player's two most recent composites.
type Trend string

// Teams.
const (
	Team9M  Team = "9M"
	Team10M Team = "10M"
	Team11M Team = "11M"
	Team12M Team = "12M"
	Team13M Team = "13M"
	Team14M Team = "14M"
	Team15M Team = "15M"
	Team16M Team = "16M"
	Team12F Team = "12F"
	Team14F Team = "14F"
	Team16F Team = "16F"
)

// Positions.
const (
	PositionGK  Position = "GK"
	PositionDEF Position = "DEF"
	PositionMID Position = "MID"
	PositionFWD Position = "FWD"
)

// Feet.
const (
	FootLeft  Foot = "Left"
	FootRight Foot = "Right"
)

// Assessors.
const (
	AssessorKenTougher Assessor = "Ken Tougher"
	AssessorSamKeane   Assessor = "Sam Keane"
	AssessorLauraByrne Assessor = "Laura Byrne"
	AssessorDaveMurphy Assessor = "Dave Murphy"
)

// Roles.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Statuses.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Trends.
const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Teams lists every valid team in display order.
var Teams = []Team{Team9M, Team10M, Team11M, Team12M, Team13M, Team14M, Team15M, Team16M, Team12F, Team14F, Team16F}

// Positions lists every valid position in display order.
var Positions = []Position{PositionGK, PositionDEF, PositionMID, PositionFWD}

// Feet lists every valid foot.
var Feet = []Foot{FootLeft, FootRight}

// Assessors lists every valid assessor.
var Assessors = []Assessor{AssessorKenTougher, AssessorSamKeane, AssessorLauraByrne, AssessorDaveMurphy}

// Statuses lists every user status.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

func parse[T ~string](kind, raw string, valid []T) (T, error) {
	for _, v := range valid {
		if string(v) == raw {
			return v, nil
		}
	}
	names := make([]string, len(valid))
	for i, v := range valid {
		names[i] = string(v)
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q; must be one of %s", kind, raw, strings.Join(names, ", "))
}

// ParseTeam validates a team code.
func ParseTeam(s string) (Team, error) { return parse("team", s, Teams) }

// ParsePosition validates a position.
func ParsePosition(s string) (Position, error) { return parse("position", s, Positions) }

// ParseFoot validates a foot.
func ParseFoot(s string) (Foot, error) { return parse("foot", s, Feet) }

// ParseAssessor validates an assessor name.
func ParseAssessor(s string) (Assessor, error) { return parse("assessor", s, Assessors) }

// ParseStatus validates a user status.
func ParseStatus(s string) (Status, error) { return parse("status", s, Statuses) }
