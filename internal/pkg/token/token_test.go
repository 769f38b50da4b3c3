package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "unit-test-signing-secret"

func TestIssueAndValidate(t *testing.T) {
	issuer := NewIssuer(testSecret, DefaultTTL)

	raw, err := issuer.Issue(42, "student")
	assert.NoError(t, err)
	assert.NotEmpty(t, raw)

	sc, err := issuer.Validate(raw)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), sc.UserID)
	assert.Equal(t, "student", sc.Role)
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := NewIssuer(testSecret, DefaultTTL)
	other := NewIssuer("a-different-secret", DefaultTTL)

	raw, err := issuer.Issue(42, "student")
	assert.NoError(t, err)

	_, err = other.Validate(raw)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestValidate_TamperedToken(t *testing.T) {
	issuer := NewIssuer(testSecret, DefaultTTL)

	raw, err := issuer.Issue(42, "student")
	assert.NoError(t, err)

	parts := strings.Split(raw, ".")
	assert.Len(t, parts, 3)

	// Flip one byte in the payload segment.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = issuer.Validate(tampered)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestValidate_Expired(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Millisecond)

	raw, err := issuer.Issue(42, "student")
	assert.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = issuer.Validate(raw)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestValidate_NoneAlgorithmRejected(t *testing.T) {
	issuer := NewIssuer(testSecret, DefaultTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "student",
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = issuer.Validate(unsigned)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestValidate_Garbage(t *testing.T) {
	issuer := NewIssuer(testSecret, DefaultTTL)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Validate(raw)
		assert.ErrorIs(t, err, ErrBadToken)
	}
}

func TestNewIssuer_TTLFallback(t *testing.T) {
	issuer := NewIssuer(testSecret, 0)
	assert.Equal(t, DefaultTTL, issuer.ttl)
}
