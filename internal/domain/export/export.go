// Package export shapes assessments and player summaries into tabular
// form for spreadsheet output.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/roster"
	"github.com/okian/devtrack/internal/domain/summary"
	"github.com/okian/devtrack/internal/domain/types"
)

// Sheet names.
const (
	SheetAssessments    = "Assessments"
	SheetPlayerOverview = "Player Overview"
	SheetHistory        = "Detailed History"
)

// NotAvailable fills overview cells for players without assessments.
const NotAvailable = "N/A"

// Table is one worksheet: a header row and string cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

var scoreLabels = map[int]string{
	1: "Not Yet Demonstrated",
	2: "Inconsistent",
	3: "Functional",
	4: "Effective",
	5: "Advanced",
}

// ScoreLabel renders n as "n - Label".
func ScoreLabel(n int) string {
	label, ok := scoreLabels[n]
	if !ok {
		label = "Unknown Score"
	}
	return strconv.Itoa(n) + " - " + label
}

// AssessmentHeader is the column set of assessment rows.
var AssessmentHeader = []string{
	"Player Name", "Team", "Position", "Foot", "Assessor", "Assessment Date",
	"Technical Score", "Tactical Score", "Physical Score", "Psychological Score", "Social Score",
	"Average Score",
}

// OverviewHeader is the column set of player overview rows.
var OverviewHeader = []string{
	"Player Name", "Team", "Position", "Foot", "Total Assessments", "Latest Assessment Date",
	"Avg Technical", "Avg Tactical", "Avg Physical", "Avg Psychological", "Avg Social",
	"Overall Average",
}

// AssessmentRows builds the "Assessments" sheet.
func AssessmentRows(rows []model.AssessmentWithPlayer) Table {
	return assessmentTable(SheetAssessments, rows)
}

// HistoryRows builds the "Detailed History" sheet from processed players,
// one row per assessment.
func HistoryRows(players []roster.ProcessedPlayer) Table {
	var joined []model.AssessmentWithPlayer
	for _, p := range players {
		for _, a := range p.Assessments {
			joined = append(joined, model.AssessmentWithPlayer{Assessment: a, Player: p.Player})
		}
	}
	return assessmentTable(SheetHistory, joined)
}

func assessmentTable(name string, rows []model.AssessmentWithPlayer) Table {
	t := Table{Name: name, Header: AssessmentHeader, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		s := r.Scores
		t.Rows = append(t.Rows, []string{
			r.Player.Name,
			string(r.Player.Team),
			string(r.Player.Position),
			string(r.Player.Foot),
			string(r.Assessor),
			types.FormatDate(r.AssessmentDate),
			ScoreLabel(s.Technical),
			ScoreLabel(s.Tactical),
			ScoreLabel(s.Physical),
			ScoreLabel(s.Psychological),
			ScoreLabel(s.Social),
			decimal(summary.Composite(s)),
		})
	}
	return t
}

// PlayerOverviewRows builds the "Player Overview" sheet.
func PlayerOverviewRows(players []roster.ProcessedPlayer) Table {
	t := Table{Name: SheetPlayerOverview, Header: OverviewHeader, Rows: make([][]string, 0, len(players))}
	for _, p := range players {
		row := []string{
			p.Player.Name,
			string(p.Player.Team),
			string(p.Player.Position),
			string(p.Player.Foot),
			strconv.Itoa(p.Summary.AssessmentCount),
		}
		if p.Summary.AssessmentCount == 0 {
			for range 7 {
				row = append(row, NotAvailable)
			}
		} else {
			avg := p.Summary.AverageScores
			row = append(row,
				types.FormatDate(*p.Summary.LatestAssessmentDate),
				decimal(avg.Technical),
				decimal(avg.Tactical),
				decimal(avg.Physical),
				decimal(avg.Psychological),
				decimal(avg.Social),
				decimal(avg.Overall),
			)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// AssessmentsFilename names the assessment workbook for day.
func AssessmentsFilename(day time.Time) string {
	return "player-assessments-" + types.FormatDate(day) + ".xlsx"
}

// PlayerHistoryFilename names the player history workbook for day.
func PlayerHistoryFilename(day time.Time) string {
	return "player-history-export-" + types.FormatDate(day) + ".xlsx"
}

// AssessmentsSubject is the email subject of the assessment export.
func AssessmentsSubject(day time.Time) string {
	return "Player Development Assessments Export - " + types.FormatDate(day)
}

// PlayerHistorySubject is the email subject of the player history export.
func PlayerHistorySubject(day time.Time) string {
	return "Player History Export - " + types.FormatDate(day)
}

func decimal(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
