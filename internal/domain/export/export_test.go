package export_test

import (
	"testing"
	"time"

	"github.com/okian/devtrack/internal/domain/export"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/roster"
	"github.com/okian/devtrack/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestScoreLabel(t *testing.T) {
	convey.Convey("Given score values", t, func() {
		convey.So(export.ScoreLabel(1), convey.ShouldEqual, "1 - Not Yet Demonstrated")
		convey.So(export.ScoreLabel(3), convey.ShouldEqual, "3 - Functional")
		convey.So(export.ScoreLabel(5), convey.ShouldEqual, "5 - Advanced")
		convey.So(export.ScoreLabel(7), convey.ShouldEqual, "7 - Unknown Score")
	})
}

func TestRows(t *testing.T) {
	convey.Convey("Given assessments and players", t, func() {
		date := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
		player := model.Player{ID: 1, Name: "Alex Ryan", Team: types.Team13M, Position: types.PositionMID, Foot: types.FootRight}
		a := model.Assessment{ID: 9, PlayerID: 1, Assessor: types.AssessorSamKeane, AssessmentDate: date,
			Scores: types.Scores{Technical: 3, Tactical: 4, Physical: 3, Psychological: 5, Social: 4}}

		convey.Convey("Assessment rows carry labels and a two-decimal average", func() {
			tbl := export.AssessmentRows([]model.AssessmentWithPlayer{{Assessment: a, Player: player}})
			convey.So(tbl.Name, convey.ShouldEqual, "Assessments")
			convey.So(len(tbl.Header), convey.ShouldEqual, 12)
			convey.So(tbl.Rows[0], convey.ShouldResemble, []string{
				"Alex Ryan", "13M", "MID", "Right", "Sam Keane", "2024-06-02",
				"3 - Functional", "4 - Effective", "3 - Functional", "5 - Advanced", "4 - Effective", "3.80",
			})
		})

		convey.Convey("Overview rows use N/A for players without history", func() {
			rows := roster.Build([]model.Player{player, {ID: 2, Name: "Empty", Team: types.Team9M, Position: types.PositionGK, Foot: types.FootLeft}},
				map[uint][]model.Assessment{1: {a}})
			tbl := export.PlayerOverviewRows(rows)
			convey.So(tbl.Name, convey.ShouldEqual, "Player Overview")
			convey.So(tbl.Rows[0][4:], convey.ShouldResemble, []string{"1", "2024-06-02", "3.00", "4.00", "3.00", "5.00", "4.00", "3.80"})
			convey.So(tbl.Rows[1][4:], convey.ShouldResemble, []string{"0", "N/A", "N/A", "N/A", "N/A", "N/A", "N/A", "N/A"})

			history := export.HistoryRows(rows)
			convey.So(history.Name, convey.ShouldEqual, "Detailed History")
			convey.So(len(history.Rows), convey.ShouldEqual, 1)
		})

		convey.Convey("Filenames and subjects carry the date", func() {
			convey.So(export.AssessmentsFilename(date), convey.ShouldEqual, "player-assessments-2024-06-02.xlsx")
			convey.So(export.PlayerHistoryFilename(date), convey.ShouldEqual, "player-history-export-2024-06-02.xlsx")
			convey.So(export.AssessmentsSubject(date), convey.ShouldEqual, "Player Development Assessments Export - 2024-06-02")
			convey.So(export.PlayerHistorySubject(date), convey.ShouldEqual, "Player History Export - 2024-06-02")
		})
	})
}
