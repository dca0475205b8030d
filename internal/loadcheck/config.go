// Package loadcheck drives a running service with concurrent duplicate
// assessment submissions and verifies that each player tuple resolves to
// exactly one player with consistent averages.
package loadcheck

import (
	"errors"
	"time"
)

// Sentinel kinds for loadcheck failures.
var (
	ErrUnhealthy    = errors.New("service is not healthy")
	ErrLogin        = errors.New("login failed")
	ErrVerification = errors.New("verification failed")
)

// Config holds configuration for a load check run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Email       string        // Approved account used for submissions
	Password    string        // Password of that account
	Players     int           // Distinct player tuples to create
	Submissions int           // Assessments submitted per player
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	RunID       string        // Tags player names; random when empty
	Verbose     bool          // Log every failed submission
}

// Stats holds run statistics.
type Stats struct {
	Submitted  int
	Successful int
	Failed     int
	Created    int // submissions that reported a new player
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// Submission is one assessment request body.
type Submission struct {
	PlayerName         string `json:"playerName"`
	Team               string `json:"team"`
	Position           string `json:"position"`
	Foot               string `json:"foot"`
	Assessor           string `json:"assessor"`
	AssessmentDate     string `json:"assessmentDate"`
	TechnicalScore     int    `json:"technicalScore"`
	TacticalScore      int    `json:"tacticalScore"`
	PhysicalScore      int    `json:"physicalScore"`
	PsychologicalScore int    `json:"psychologicalScore"`
	SocialScore        int    `json:"socialScore"`
}

// Composite is the mean of the five scores.
func (s Submission) Composite() float64 {
	return float64(s.TechnicalScore+s.TacticalScore+s.PhysicalScore+s.PsychologicalScore+s.SocialScore) / 5
}

// Key identifies the player tuple of s.
func (s Submission) Key() string {
	return s.PlayerName + "|" + s.Team + "|" + s.Position + "|" + s.Foot
}

// createdResponse is the part of the create response the check reads.
type createdResponse struct {
	PlayerID      uint `json:"playerId"`
	PlayerCreated bool `json:"playerCreated"`
}

// HistoryRow is the part of a player history row the check verifies.
type HistoryRow struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Team            string `json:"team"`
	Position        string `json:"position"`
	Foot            string `json:"foot"`
	AssessmentCount int    `json:"assessmentCount"`
	AverageScores   struct {
		Overall float64 `json:"overall"`
	} `json:"averageScores"`
}

// Key identifies the player tuple of r.
func (r HistoryRow) Key() string {
	return r.Name + "|" + r.Team + "|" + r.Position + "|" + r.Foot
}

// Result is what the server accepted for one submission.
type Result struct {
	Submission Submission
	PlayerID   uint
	Created    bool
	Err        error
}
