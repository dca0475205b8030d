package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"

	"github.com/okian/devtrack/internal/domain/model"
	"github.com/okian/devtrack/internal/domain/types"
)

func TestIssuer(t *testing.T) {
	Convey("Given a token issuer", t, func() {
		now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		iss, err := NewIssuer("s3cret", "devtrack", time.Hour, WithIssuerClock(clock))
		So(err, ShouldBeNil)
		user := model.User{ID: 42, Role: types.RoleAdmin}

		Convey("An issued token parses back to the same identity", func() {
			tok, err := iss.Issue(user)
			So(err, ShouldBeNil)
			So(tok.ID, ShouldNotBeEmpty)

			id, err := iss.Parse(tok.Value)
			So(err, ShouldBeNil)
			So(id.UserID, ShouldEqual, uint(42))
			So(id.Role, ShouldEqual, types.RoleAdmin)
			So(id.TokenID, ShouldEqual, tok.ID)
			So(id.ExpiresAt.Equal(now.Add(time.Hour)), ShouldBeTrue)
		})

		Convey("Expired tokens are rejected", func() {
			tok, _ := iss.Issue(user)
			now = now.Add(2 * time.Hour)
			_, err := iss.Parse(tok.Value)
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("Tokens signed with another secret or issuer are rejected", func() {
			other, _ := NewIssuer("other", "devtrack", time.Hour, WithIssuerClock(clock))
			tok, _ := other.Issue(user)
			_, err := iss.Parse(tok.Value)
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)

			foreign, _ := NewIssuer("s3cret", "someone-else", time.Hour, WithIssuerClock(clock))
			tok, _ = foreign.Issue(user)
			_, err = iss.Parse(tok.Value)
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("Unsigned tokens are rejected", func() {
			raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "42", "iss": "devtrack"}).
				SignedString(jwt.UnsafeAllowNoneSignatureType)
			So(err, ShouldBeNil)
			_, err = iss.Parse(raw)
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("Garbage is rejected", func() {
			_, err := iss.Parse("not-a-token")
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("Construction needs a secret and a positive ttl", func() {
			_, err := NewIssuer("", "x", time.Hour)
			So(errors.Is(err, ErrMissingSecret), ShouldBeTrue)
			_, err = NewIssuer("s", "x", 0)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestHasher(t *testing.T) {
	Convey("Given a bcrypt hasher", t, func() {
		h := NewHasher(bcrypt.MinCost)
		hash, err := h.Hash("correct horse")
		So(err, ShouldBeNil)
		So(hash, ShouldNotEqual, "correct horse")

		So(h.Verify(hash, "correct horse"), ShouldBeNil)
		So(errors.Is(h.Verify(hash, "wrong"), ErrInvalidCredentials), ShouldBeTrue)
		So(NewHasher(0).cost, ShouldEqual, bcrypt.DefaultCost)

		h.VerifyDummy("anything")
		So(h.dummy, ShouldNotBeEmpty)
	})
}

func TestMemoryRevoker(t *testing.T) {
	Convey("Given an in-process revoker", t, func() {
		ctx := context.Background()
		now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
		r := NewMemoryRevoker()
		r.now = func() time.Time { return now }

		So(r.Revoke(ctx, "a", now.Add(time.Minute)), ShouldBeNil)
		revoked, err := r.Revoked(ctx, "a")
		So(err, ShouldBeNil)
		So(revoked, ShouldBeTrue)

		revoked, _ = r.Revoked(ctx, "b")
		So(revoked, ShouldBeFalse)

		Convey("Entries lapse with the token", func() {
			now = now.Add(2 * time.Minute)
			revoked, _ := r.Revoked(ctx, "a")
			So(revoked, ShouldBeFalse)

			So(r.Revoke(ctx, "c", now.Add(time.Minute)), ShouldBeNil)
			So(len(r.revoked), ShouldEqual, 1)
		})
	})
}

// fakeRedis implements the two commands RedisRevoker uses.
type fakeRedis struct {
	redis.Cmdable
	keys map[string]time.Duration
}

func (f *fakeRedis) Set(ctx context.Context, key string, _ interface{}, ttl time.Duration) *redis.StatusCmd {
	f.keys[key] = ttl
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(n)
	return cmd
}

func TestRedisRevoker(t *testing.T) {
	Convey("Given a Redis-backed revoker", t, func() {
		ctx := context.Background()
		fake := &fakeRedis{keys: map[string]time.Duration{}}
		r := NewRedisRevoker(fake)

		So(r.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)), ShouldBeNil)
		So(fake.keys["devtrack:revoked:jti-1"], ShouldBeGreaterThan, 0)

		revoked, err := r.Revoked(ctx, "jti-1")
		So(err, ShouldBeNil)
		So(revoked, ShouldBeTrue)

		revoked, err = r.Revoked(ctx, "jti-2")
		So(err, ShouldBeNil)
		So(revoked, ShouldBeFalse)

		Convey("Already expired tokens are not stored", func() {
			So(r.Revoke(ctx, "old", time.Now().Add(-time.Minute)), ShouldBeNil)
			_, ok := fake.keys["devtrack:revoked:old"]
			So(ok, ShouldBeFalse)
		})
	})
}

func TestPrincipalContext(t *testing.T) {
	Convey("A principal round-trips through the context", t, func() {
		_, ok := FromContext(context.Background())
		So(ok, ShouldBeFalse)

		p := NewPrincipal(model.User{ID: 3, Role: types.RoleUser, Status: types.StatusApproved}, Identity{TokenID: "t"})
		ctx := WithPrincipal(context.Background(), p)
		got, ok := FromContext(ctx)
		So(ok, ShouldBeTrue)
		So(got.UserID, ShouldEqual, uint(3))
		So(got.Approved(), ShouldBeTrue)
		So(got.Admin(), ShouldBeFalse)
	})
}
