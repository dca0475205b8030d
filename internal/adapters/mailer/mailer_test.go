package mailer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSend(t *testing.T) {
	Convey("Given a fake SendGrid endpoint", t, func() {
		var (
			mu      sync.Mutex
			calls   int32
			status  = http.StatusAccepted
			gotAuth string
			gotPath string
			got     mail.SGMailV3
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			mu.Lock()
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.Method + " " + r.URL.Path
			got = mail.SGMailV3{}
			_ = json.NewDecoder(r.Body).Decode(&got)
			code := status
			mu.Unlock()
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"errors":[{"message":"nope"}]}`))
		}))
		defer srv.Close()

		msg := Message{
			To:         "coach@club.ie",
			Subject:    "Player History Export - 2024-06-02",
			Body:       "Please find attached the export of all player history and assessments.",
			Attachment: &Attachment{Filename: "player-history-export-2024-06-02.xlsx", Content: []byte("xlsx-bytes")},
		}

		Convey("A 2xx response is success and the payload is SendGrid shaped", func() {
			s := New("key-123", WithHost(srv.URL))
			So(s.Send(context.Background(), msg), ShouldBeNil)
			mu.Lock()
			defer mu.Unlock()
			So(gotPath, ShouldEqual, "POST /v3/mail/send")
			So(gotAuth, ShouldEqual, "Bearer key-123")
			So(got.Personalizations, ShouldHaveLength, 1)
			So(got.Personalizations[0].To[0].Address, ShouldEqual, "coach@club.ie")
			So(got.From.Address, ShouldEqual, DefaultFrom)
			So(got.From.Name, ShouldEqual, DefaultFromName)
			So(got.Subject, ShouldEqual, msg.Subject)
			So(got.Content[0].Type, ShouldEqual, "text/plain")
			So(got.Content[0].Value, ShouldEqual, msg.Body)
			So(got.Attachments, ShouldHaveLength, 1)
			So(got.Attachments[0].Filename, ShouldEqual, "player-history-export-2024-06-02.xlsx")
			So(got.Attachments[0].Type, ShouldEqual, XLSXContentType)
			So(got.Attachments[0].Disposition, ShouldEqual, "attachment")
			decoded, err := base64.StdEncoding.DecodeString(got.Attachments[0].Content)
			So(err, ShouldBeNil)
			So(string(decoded), ShouldEqual, "xlsx-bytes")
		})

		Convey("A rejected request fails once without retrying", func() {
			mu.Lock()
			status = http.StatusUnauthorized
			mu.Unlock()
			s := New("key-123", WithHost(srv.URL+"/"), WithFrom("exports@club.ie", "Club"))
			err := s.Send(context.Background(), msg)
			So(errors.Is(err, ErrSendFailed), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "401")
			So(err.Error(), ShouldContainSubstring, "nope")
			So(atomic.LoadInt32(&calls), ShouldEqual, int32(1))
			mu.Lock()
			defer mu.Unlock()
			So(got.From.Address, ShouldEqual, "exports@club.ie")
		})

		Convey("Without an API key nothing is sent", func() {
			s := New("", WithHost(srv.URL))
			So(s.Configured(), ShouldBeFalse)
			err := s.Send(context.Background(), msg)
			So(errors.Is(err, ErrNotConfigured), ShouldBeTrue)
			So(atomic.LoadInt32(&calls), ShouldEqual, int32(0))
		})

		Convey("A custom HTTP client is used for delivery", func() {
			s := New("key-123", WithHost(srv.URL), WithHTTPClient(srv.Client()))
			So(s.Send(context.Background(), msg), ShouldBeNil)
			So(atomic.LoadInt32(&calls), ShouldEqual, int32(1))
		})

		Convey("Transport failures are send failures", func() {
			s := New("key-123", WithHost("http://127.0.0.1:1"))
			So(errors.Is(s.Send(context.Background(), msg), ErrSendFailed), ShouldBeTrue)
		})
	})
}
