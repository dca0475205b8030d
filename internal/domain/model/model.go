// Package model contains domain models passed between layers.
// The gorm tags describe how the relational store lays them out.
package model

import (
	"time"

	"github.com/okian/devtrack/internal/domain/apperr"
	"github.com/okian/devtrack/internal/domain/types"
)

// Player is a person being assessed. The (Name, Team, Position, Foot)
// tuple is unique.
type Player struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"size:200;not null;uniqueIndex:idx_players_tuple,priority:1"`
	Team      types.Team     `gorm:"size:8;not null;uniqueIndex:idx_players_tuple,priority:2"`
	Position  types.Position `gorm:"size:8;not null;uniqueIndex:idx_players_tuple,priority:3"`
	Foot      types.Foot     `gorm:"size:8;not null;uniqueIndex:idx_players_tuple,priority:4"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName sets the players table name.
func (Player) TableName() string { return "players" }

// Assessment is one scored evaluation of a player. Only Scores and
// UpdatedAt change after creation.
type Assessment struct {
	ID             uint           `gorm:"primaryKey"`
	PlayerID       uint           `gorm:"not null;index"`
	Assessor       types.Assessor `gorm:"size:64;not null;index"`
	AssessmentDate time.Time      `gorm:"type:date;not null;index"`
	Scores         types.Scores   `gorm:"embedded"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName sets the assessments table name.
func (Assessment) TableName() string { return "assessments" }

// AssessmentWithPlayer is an assessment joined with its player.
type AssessmentWithPlayer struct {
	Assessment
	Player Player
}

// NewAssessment is the input for recording an assessment.
type NewAssessment struct {
	Player         types.PlayerTuple
	Assessor       types.Assessor
	AssessmentDate time.Time
	Scores         types.Scores
}

// Validate checks every field of n before any store access.
func (n NewAssessment) Validate() error {
	v := apperr.NewValidation()
	merge(v, n.Player.Validate())
	if _, err := types.ParseAssessor(string(n.Assessor)); err != nil {
		v.Add("assessor", err.Error())
	}
	if n.AssessmentDate.IsZero() {
		v.Add("assessmentDate", "is required")
	}
	merge(v, n.Scores.Validate())
	return v.Err()
}

func merge(dst *apperr.ValidationError, err error) {
	for k, p := range apperr.FieldErrors(err) {
		dst.Add(k, p)
	}
}

// User is an account allowed to sign in once approved.
type User struct {
	ID           uint         `gorm:"primaryKey"`
	Email        string       `gorm:"size:255;not null;uniqueIndex"`
	DisplayName  string       `gorm:"size:200;not null"`
	PasswordHash string       `gorm:"size:255;not null"`
	Role         types.Role   `gorm:"size:16;not null;default:user"`
	Status       types.Status `gorm:"size:16;not null;default:pending;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName sets the users table name.
func (User) TableName() string { return "users" }

// Approved reports whether u may use the application.
func (u User) Approved() bool { return u.Status == types.StatusApproved }

// Admin reports whether u holds the admin role.
func (u User) Admin() bool { return u.Role == types.RoleAdmin }

// Counts summarizes table sizes.
type Counts struct {
	Players     int64
	Assessments int64
	Users       int64
}
