package model_test

import (
	"testing"
	"time"

	"github.com/okian/devtrack/internal/domain/apperr"
	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewAssessmentValidate(t *testing.T) {
	convey.Convey("Given a new assessment", t, func() {
		n := model.NewAssessment{
			Player:         types.PlayerTuple{Name: "Alex Ryan", Team: types.Team13M, Position: types.PositionMID, Foot: types.FootRight},
			Assessor:       types.AssessorKenTougher,
			AssessmentDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Scores:         types.Scores{Technical: 3, Tactical: 4, Physical: 3, Psychological: 5, Social: 4},
		}

		convey.Convey("When every field is valid", func() {
			convey.So(n.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When fields are wrong, all problems are reported", func() {
			n.Player.Team = "1M"
			n.Assessor = "Nobody"
			n.AssessmentDate = time.Time{}
			n.Scores.Social = 9

			fields := apperr.FieldErrors(n.Validate())
			convey.So(fields, convey.ShouldContainKey, "team")
			convey.So(fields, convey.ShouldContainKey, "assessor")
			convey.So(fields, convey.ShouldContainKey, "assessmentDate")
			convey.So(fields, convey.ShouldContainKey, types.FieldSocial)
		})
	})
}

func TestUserFlags(t *testing.T) {
	convey.Convey("Given users", t, func() {
		u := model.User{Role: types.RoleAdmin, Status: types.StatusApproved}
		convey.So(u.Admin(), convey.ShouldBeTrue)
		convey.So(u.Approved(), convey.ShouldBeTrue)

		u = model.User{Role: types.RoleUser, Status: types.StatusPending}
		convey.So(u.Admin(), convey.ShouldBeFalse)
		convey.So(u.Approved(), convey.ShouldBeFalse)
	})
}
