package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func init() {
	// Token lifetimes are configured in milliseconds; keep iat/exp at that precision
	// instead of the library's default whole seconds.
	jwt.TimePrecision = time.Millisecond
}

var (
	// ErrMalformedToken is returned when the token is structurally invalid
	ErrMalformedToken = errors.New("malformed token")

	// ErrExpiredToken is returned when the signature is valid but the token has expired
	ErrExpiredToken = errors.New("token expired")

	// ErrSignatureInvalid is returned when the token was not signed with the configured secret
	ErrSignatureInvalid = errors.New("token signature invalid")

	// ErrUnsupportedAlgorithm is returned when the token header names an algorithm other than HS256
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// ErrorKind returns a short label for a codec error, suitable as a log field.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrExpiredToken):
		return "expired"
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return "unsupported_algorithm"
	default:
		return "unknown"
	}
}

// TokenCodec issues and verifies HS256 session tokens
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption configures a TokenCodec
type CodecOption func(*TokenCodec)

// WithClock overrides the wall clock used for iat, exp and expiry checks
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec creates a codec signing with secret and issuing tokens valid for ttl
func NewTokenCodec(secret []byte, ttl time.Duration, opts ...CodecOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token TTL must be positive")
	}

	c := &TokenCodec{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the lifetime of issued tokens
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subject with iat = now and exp = now + TTL
func (c *TokenCodec) Issue(subject string) (string, error) {
	token, _, err := c.IssueWithExpiry(subject)
	return token, err
}

// IssueWithExpiry is Issue that also returns the exp claim written into the token
func (c *TokenCodec) IssueWithExpiry(subject string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject is required")
	}

	now := c.now()
	expiresAt := jwt.NewNumericDate(now.Add(c.ttl))
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: expiresAt,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt.Time, nil
}

// Verify checks the token's signature and expiry and returns its subject.
// A token is expired once now >= exp.
func (c *TokenCodec) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(token, claims, c.keyFunc)
	if err != nil {
		return "", classify(err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}
	return claims.Subject, nil
}

func (c *TokenCodec) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, t.Header["alg"])
	}
	return c.secret, nil
}

// classify maps golang-jwt validation errors onto the codec's error kinds.
// Order matters: the library wraps several sentinels in one error.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return err
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpiredToken, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}
