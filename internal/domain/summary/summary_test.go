package summary

import (
	"testing"
	"time"

	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func uniform(n int, d int) model.Assessment {
	return model.Assessment{AssessmentDate: day(d), Scores: types.Scores{Technical: n, Tactical: n, Physical: n, Psychological: n, Social: n}}
}

func TestComposite(t *testing.T) {
	Convey("Composite is the mean of the five scores", t, func() {
		So(Composite(types.Scores{Technical: 3, Tactical: 4, Physical: 3, Psychological: 5, Social: 4}), ShouldAlmostEqual, 3.8, 1e-9)
		So(Composite(types.Scores{Technical: 1, Tactical: 1, Physical: 1, Psychological: 1, Social: 1}), ShouldEqual, 1.0)
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given assessment history", t, func() {
		Convey("An empty set has zero averages and a stable trend", func() {
			s := Summarize(nil)
			So(s.AssessmentCount, ShouldEqual, 0)
			So(s.AverageScores, ShouldResemble, Averages{})
			So(s.Trend, ShouldEqual, types.TrendStable)
			So(s.LatestAssessmentDate, ShouldBeNil)
		})

		Convey("A single assessment is stable", func() {
			s := Summarize([]model.Assessment{uniform(4, 3)})
			So(s.Trend, ShouldEqual, types.TrendStable)
			So(s.AverageScores.Overall, ShouldEqual, 4.0)
			So(*s.LatestAssessmentDate, ShouldEqual, day(3))
		})

		Convey("All fives then all ones average 3 and decline", func() {
			s := Summarize([]model.Assessment{uniform(5, 1), uniform(1, 2)})
			So(s.AssessmentCount, ShouldEqual, 2)
			So(s.AverageScores.Overall, ShouldEqual, 3.0)
			So(s.AverageScores.Technical, ShouldEqual, 3.0)
			So(s.Trend, ShouldEqual, types.TrendDeclining)
			So(*s.LatestAssessmentDate, ShouldEqual, day(2))
		})

		Convey("Input order does not matter; the two newest decide", func() {
			s := Summarize([]model.Assessment{uniform(4, 9), uniform(1, 1), uniform(2, 5)})
			So(s.Trend, ShouldEqual, types.TrendImproving)
			So(*s.LatestAssessmentDate, ShouldEqual, day(9))
		})

		Convey("Older history is ignored for trend", func() {
			s := Summarize([]model.Assessment{uniform(5, 1), uniform(2, 2), uniform(2, 3)})
			So(s.Trend, ShouldEqual, types.TrendStable)
		})

		Convey("Per-dimension means are independent", func() {
			a := model.Assessment{AssessmentDate: day(1), Scores: types.Scores{Technical: 1, Tactical: 2, Physical: 3, Psychological: 4, Social: 5}}
			b := model.Assessment{AssessmentDate: day(2), Scores: types.Scores{Technical: 3, Tactical: 2, Physical: 1, Psychological: 4, Social: 5}}
			s := Summarize([]model.Assessment{a, b})
			So(s.AverageScores.Technical, ShouldEqual, 2.0)
			So(s.AverageScores.Physical, ShouldEqual, 2.0)
			So(s.AverageScores.Social, ShouldEqual, 5.0)
			So(s.AverageScores.Overall, ShouldAlmostEqual, 3.0, 1e-9)
			So(s.Trend, ShouldEqual, types.TrendStable)
		})
	})
}

func TestByDateDesc(t *testing.T) {
	Convey("Sorting keeps ties in input order and leaves the input alone", t, func() {
		in := []model.Assessment{{ID: 1, AssessmentDate: day(1)}, {ID: 2, AssessmentDate: day(2)}, {ID: 3, AssessmentDate: day(2)}}
		out := ByDateDesc(in)
		So([]uint{out[0].ID, out[1].ID, out[2].ID}, ShouldResemble, []uint{2, 3, 1})
		So(in[0].ID, ShouldEqual, uint(1))
	})
}
