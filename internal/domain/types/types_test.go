package types

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/devtrack/internal/domain/apperr"
	. "github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }

func TestParseEnums(t *testing.T) {
	Convey("Given the closed value sets", t, func() {
		Convey("Known values parse", func() {
			team, err := ParseTeam("13M")
			So(err, ShouldBeNil)
			So(team, ShouldEqual, Team13M)

			pos, err := ParsePosition("GK")
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, PositionGK)

			foot, err := ParseFoot("Left")
			So(err, ShouldBeNil)
			So(foot, ShouldEqual, FootLeft)

			a, err := ParseAssessor("Ken Tougher")
			So(err, ShouldBeNil)
			So(a, ShouldEqual, AssessorKenTougher)

			st, err := ParseStatus("pending")
			So(err, ShouldBeNil)
			So(st, ShouldEqual, StatusPending)
		})

		Convey("Unknown values are rejected", func() {
			_, err := ParseTeam("99X")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "13M")

			_, err = ParsePosition("mid")
			So(err, ShouldNotBeNil)

			_, err = ParseFoot("Both")
			So(err, ShouldNotBeNil)

			_, err = ParseAssessor("ken tougher")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestScores(t *testing.T) {
	Convey("Given raw scores", t, func() {
		Convey("Integers in range convert", func() {
			s, err := RawScores{f(3), f(4), f(3), f(5), f(4)}.Scores()
			So(err, ShouldBeNil)
			So(s, ShouldResemble, Scores{3, 4, 3, 5, 4})
			So(s.Values(), ShouldResemble, [5]int{3, 4, 3, 5, 4})
		})

		Convey("Each bad field is reported by name", func() {
			_, err := RawScores{f(0), f(6), f(2.5), nil, f(1)}.Scores()
			So(errors.Is(err, apperr.ErrValidation), ShouldBeTrue)
			fields := apperr.FieldErrors(err)
			So(fields, ShouldContainKey, FieldTechnical)
			So(fields, ShouldContainKey, FieldTactical)
			So(fields[FieldPhysical], ShouldEqual, "must be an integer")
			So(fields[FieldPsychological], ShouldEqual, "is required")
			So(fields, ShouldNotContainKey, FieldSocial)
		})

		Convey("Validate mirrors the range rule", func() {
			So(Scores{1, 2, 3, 4, 5}.Validate(), ShouldBeNil)
			err := Scores{1, 2, 3, 4, 7}.Validate()
			So(apperr.FieldErrors(err), ShouldContainKey, FieldSocial)
		})
	})
}

func TestPlayerTuple(t *testing.T) {
	Convey("Given player identity fields", t, func() {
		Convey("The name is trimmed but its case kept", func() {
			tp, err := NewPlayerTuple("  Alex Ryan ", "13M", "MID", "Right")
			So(err, ShouldBeNil)
			So(tp.Name, ShouldEqual, "Alex Ryan")
			So(tp.Team, ShouldEqual, Team13M)
		})

		Convey("Bad fields are collected together", func() {
			_, err := NewPlayerTuple(" ", "XX", "MID", "Both")
			fields := apperr.FieldErrors(err)
			So(fields, ShouldContainKey, "playerName")
			So(fields, ShouldContainKey, "team")
			So(fields, ShouldContainKey, "foot")
			So(fields, ShouldNotContainKey, "position")
		})
	})
}

func TestDates(t *testing.T) {
	Convey("Given date strings", t, func() {
		d, err := ParseDate("2024-03-05")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
		So(FormatDate(d), ShouldEqual, "2024-03-05")

		d, err = ParseDate("2024-03-05T17:30:00Z")
		So(err, ShouldBeNil)
		So(FormatDate(d), ShouldEqual, "2024-03-05")

		_, err = ParseDate("05/03/2024")
		So(err, ShouldNotBeNil)
		_, err = ParseDate("")
		So(err, ShouldNotBeNil)
	})
}
