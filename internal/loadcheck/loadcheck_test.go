package loadcheck_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"

	"github.com/okian/devtrack/internal/adapters/auth"
	"github.com/okian/devtrack/internal/adapters/http/api"
	"github.com/okian/devtrack/internal/adapters/repository"
	service "github.com/okian/devtrack/internal/app"
	"github.com/okian/devtrack/internal/loadcheck"
	"github.com/okian/devtrack/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	store, err := repository.Open(ctx, repository.Config{Driver: repository.DriverSQLite, DSN: dsn}, repository.WithMaxOpenConns(1))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	issuer, err := auth.NewIssuer("secret", "devtrack", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	svc := service.New(store, issuer, service.WithHasher(auth.NewHasher(bcrypt.MinCost)))
	if err := svc.BootstrapAdmin(ctx, "admin@club.ie", "admin-pass", "Admin"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	server := api.NewServer(svc)
	mux := http.NewServeMux()
	server.Register(ctx, mux)
	ts := httptest.NewServer(server.Handler(mux))
	t.Cleanup(func() {
		ts.Close()
		_ = store.Close()
	})
	return ts
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		ts := newServer(t)
		cfg := loadcheck.Config{
			BaseURL:     ts.URL,
			Email:       "admin@club.ie",
			Password:    "admin-pass",
			Players:     4,
			Submissions: 3,
			Workers:     6,
			Timeout:     10 * time.Second,
		}

		Convey("Concurrent duplicates resolve to one player per tuple", func() {
			stats, err := loadcheck.Run(context.Background(), cfg)
			So(err, ShouldBeNil)
			So(stats.Submitted, ShouldEqual, 12)
			So(stats.Failed, ShouldEqual, 0)
			So(stats.Created, ShouldEqual, 4)
		})

		Convey("Bad credentials stop the run", func() {
			cfg.Password = "wrong-pass"
			_, err := loadcheck.Run(context.Background(), cfg)
			So(errors.Is(err, loadcheck.ErrLogin), ShouldBeTrue)
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given accepted submissions", t, func() {
		cfg := loadcheck.Config{Players: 1, Submissions: 2, RunID: "abc"}
		subs := loadcheck.Generate(cfg, rand.New(rand.NewPCG(1, 2)))
		So(len(subs), ShouldEqual, 2)
		So(subs[0].Key(), ShouldEqual, subs[1].Key())

		results := []loadcheck.Result{
			{Submission: subs[0], PlayerID: 9, Created: true},
			{Submission: subs[1], PlayerID: 9},
		}
		row := loadcheck.HistoryRow{
			ID: 9, Name: subs[0].PlayerName, Team: subs[0].Team, Position: subs[0].Position, Foot: subs[0].Foot,
			AssessmentCount: 2,
		}
		row.AverageScores.Overall = (subs[0].Composite() + subs[1].Composite()) / 2

		Convey("A consistent history passes", func() {
			So(loadcheck.Verify(results, []loadcheck.HistoryRow{row}), ShouldBeNil)
		})

		Convey("Two player ids for one tuple fail", func() {
			results[1].PlayerID = 10
			So(errors.Is(loadcheck.Verify(results, []loadcheck.HistoryRow{row}), loadcheck.ErrVerification), ShouldBeTrue)
		})

		Convey("A second creation fails", func() {
			results[1].Created = true
			So(loadcheck.Verify(results, []loadcheck.HistoryRow{row}), ShouldNotBeNil)
		})

		Convey("A missing assessment fails", func() {
			row.AssessmentCount = 1
			So(loadcheck.Verify(results, []loadcheck.HistoryRow{row}), ShouldNotBeNil)
		})

		Convey("A wrong average fails", func() {
			row.AverageScores.Overall += 0.5
			So(loadcheck.Verify(results, []loadcheck.HistoryRow{row}), ShouldNotBeNil)
		})

		Convey("A missing player fails", func() {
			So(loadcheck.Verify(results, nil), ShouldNotBeNil)
		})
	})
}
