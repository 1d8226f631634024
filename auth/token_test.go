package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
}

func newTestCodec(t *testing.T, ttl time.Duration, clock *fakeClock) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(testSecret, ttl, WithClock(clock.Now))
	require.NoError(t, err)
	return codec
}

func TestNewTokenCodec(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewTokenCodec(nil, time.Hour)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		_, err := NewTokenCodec(testSecret, 0)
		assert.Error(t, err)
	})

	t.Run("exposes ttl", func(t *testing.T) {
		codec, err := NewTokenCodec(testSecret, 90*time.Second)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, codec.TTL())
	})
}

func TestTokenCodec_IssueVerify(t *testing.T) {
	t.Run("round trip returns subject", func(t *testing.T) {
		codec := newTestCodec(t, time.Hour, newClock())

		token, err := codec.Issue("alice@example.com")
		require.NoError(t, err)

		subject, err := codec.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", subject)
	})

	t.Run("issued claims carry iat and exp", func(t *testing.T) {
		clock := newClock()
		codec := newTestCodec(t, 1500*time.Millisecond, clock)

		token, err := codec.Issue("alice")
		require.NoError(t, err)

		claims := &jwt.RegisteredClaims{}
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
		assert.True(t, claims.IssuedAt.Time.Equal(clock.Now()))
		assert.True(t, claims.ExpiresAt.Time.Equal(clock.Now().Add(1500*time.Millisecond)))
	})

	t.Run("reported expiry matches the exp claim", func(t *testing.T) {
		clock := newClock()
		codec := newTestCodec(t, time.Hour, clock)

		token, expiresAt, err := codec.IssueWithExpiry("alice")
		require.NoError(t, err)

		claims := &jwt.RegisteredClaims{}
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
		require.NoError(t, err)
		assert.True(t, expiresAt.Equal(claims.ExpiresAt.Time))
		assert.True(t, expiresAt.Equal(clock.Now().Add(time.Hour)))
	})

	t.Run("empty subject is rejected", func(t *testing.T) {
		codec := newTestCodec(t, time.Hour, newClock())
		_, err := codec.Issue("")
		assert.Error(t, err)
	})

	t.Run("expires exactly at exp", func(t *testing.T) {
		clock := newClock()
		codec := newTestCodec(t, time.Second, clock)

		token, err := codec.Issue("alice")
		require.NoError(t, err)

		clock.Advance(999 * time.Millisecond)
		subject, err := codec.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", subject)

		clock.Advance(time.Millisecond)
		_, err = codec.Verify(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.Equal(t, "expired", ErrorKind(err))
	})

	t.Run("token from another codec with same secret verifies", func(t *testing.T) {
		clock := newClock()
		issuer := newTestCodec(t, time.Hour, clock)
		verifier := newTestCodec(t, time.Minute, clock)

		token, err := issuer.Issue("bob")
		require.NoError(t, err)

		subject, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "bob", subject)
	})
}

func TestTokenCodec_VerifyFailures(t *testing.T) {
	clock := newClock()
	codec := newTestCodec(t, time.Hour, clock)

	foreign, err := NewTokenCodec([]byte("ffffffffffffffffffffffffffffffff"), time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	foreignToken, err := foreign.Issue("mallory")
	require.NoError(t, err)

	expiredForeign, err := NewTokenCodec([]byte("ffffffffffffffffffffffffffffffff"), time.Millisecond,
		WithClock(func() time.Time { return clock.Now().Add(-time.Hour) }))
	require.NoError(t, err)
	expiredForeignToken, err := expiredForeign.Issue("mallory")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "mallory",
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	rs256Token := rawToken(`{"alg":"RS256","typ":"JWT"}`, `{"sub":"mallory","exp":4102444800}`, "c2lnbmF0dXJl")
	unknownAlgToken := rawToken(`{"alg":"XYZ","typ":"JWT"}`, `{"sub":"mallory","exp":4102444800}`, "c2lnbmF0dXJl")

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
		kind    string
	}{
		{"empty string", "", ErrMalformedToken, "malformed"},
		{"garbage", "garbage", ErrMalformedToken, "malformed"},
		{"three garbage segments", "a.b.c", ErrMalformedToken, "malformed"},
		{"foreign secret", foreignToken, ErrSignatureInvalid, "signature_invalid"},
		{"expired with foreign secret", expiredForeignToken, ErrSignatureInvalid, "signature_invalid"},
		{"alg none", noneToken, ErrUnsupportedAlgorithm, "unsupported_algorithm"},
		{"rs256 header", rs256Token, ErrUnsupportedAlgorithm, "unsupported_algorithm"},
		{"unknown alg", unknownAlgToken, ErrUnsupportedAlgorithm, "unsupported_algorithm"},
		{"missing subject", noSubject, ErrMalformedToken, "malformed"},
		{"missing expiry", noExpiry, ErrMalformedToken, "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := codec.Verify(tt.token)
			assert.Empty(t, subject)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.kind, ErrorKind(err))
		})
	}
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "unknown", ErrorKind(assert.AnError))
}

func rawToken(header, payload, sig string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(payload)) + "." + sig
}
