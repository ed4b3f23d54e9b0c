package auth

import (
	"errors"
	"finance-tracker/internal/config"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newService(secret string, ttl time.Duration) *TokenService {
	return NewTokenService(config.Config{JWTSecret: secret, JWTExpiresIn: ttl})
}

func sign(t *testing.T, method jwt.SigningMethod, claims jwt.Claims, key any) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestIssueAndVerify(t *testing.T) {
	ts := newService("s3cret", time.Hour)
	fixed := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	ts.now = func() time.Time { return fixed }

	tok, exp, err := ts.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Equal(fixed.Add(time.Hour)) {
		t.Fatalf("expires at %v", exp)
	}
	uid, err := ts.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if uid != 42 {
		t.Fatalf("user_id = %d", uid)
	}

	// через час с секундой токен уже просрочен
	ts.now = func() time.Time { return fixed.Add(time.Hour + time.Second) }
	if _, err := ts.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: err = %v", err)
	}
}

func TestIssueRejectsNonPositiveUser(t *testing.T) {
	ts := newService("s3cret", time.Hour)
	for _, id := range []int64{0, -5} {
		if _, _, err := ts.Issue(id); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Issue(%d) err = %v", id, err)
		}
	}
}

func TestVerifyRejects(t *testing.T) {
	ts := newService("s3cret", time.Hour)
	foreign, _, _ := newService("other", time.Hour).Issue(1)
	stale, _, _ := newService("s3cret", -time.Minute).Issue(1)

	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))
	valid := Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, Subject: "1", ExpiresAt: exp}}

	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"
	noExpiry := valid
	noExpiry.ExpiresAt = nil
	zeroUser := valid
	zeroUser.UserID, zeroUser.Subject = 0, "0"
	otherSubject := valid
	otherSubject.Subject = "2"

	for name, tok := range map[string]string{
		"garbage":       "not-a-jwt",
		"wrong secret":  foreign,
		"expired":       stale,
		"hs512":         sign(t, jwt.SigningMethodHS512, valid, []byte("s3cret")),
		"alg none":      sign(t, jwt.SigningMethodNone, valid, jwt.UnsafeAllowNoneSignatureType),
		"wrong issuer":  sign(t, jwt.SigningMethodHS256, wrongIssuer, []byte("s3cret")),
		"no exp":        sign(t, jwt.SigningMethodHS256, noExpiry, []byte("s3cret")),
		"zero user":     sign(t, jwt.SigningMethodHS256, zeroUser, []byte("s3cret")),
		"other subject": sign(t, jwt.SigningMethodHS256, otherSubject, []byte("s3cret")),
	} {
		if _, err := ts.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: err = %v", name, err)
		}
	}

	if uid, err := ts.Verify(sign(t, jwt.SigningMethodHS256, valid, []byte("s3cret"))); err != nil || uid != 1 {
		t.Fatalf("hand-signed valid token: uid=%d err=%v", uid, err)
	}
}
