package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

func TestAuthRoundTrip(t *testing.T) {
	svc := NewAuthService(logger.Nop(), "secret", "learnpath", time.Minute)
	user := uuid.New()

	token, exp, err := svc.IssueToken(user, " ada@example.com ")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	rd, err := svc.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user, rd.UserID)
	assert.Equal(t, "ada@example.com", rd.Email)
	assert.Equal(t, token, rd.TokenString)
}

func TestAuthRejects(t *testing.T) {
	svc := NewAuthService(logger.Nop(), "secret", "learnpath", time.Minute)
	user := uuid.New()

	other := NewAuthService(logger.Nop(), "other-secret", "learnpath", time.Minute)
	wrongKey, _, err := other.IssueToken(user, "")
	require.NoError(t, err)

	wrongIssuer, _, err := NewAuthService(logger.Nop(), "secret", "someone-else", time.Minute).IssueToken(user, "")
	require.NoError(t, err)

	expiredSvc := NewAuthService(logger.Nop(), "secret", "learnpath", time.Minute).(*authService)
	expiredSvc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _, err := expiredSvc.IssueToken(user, "")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.String(),
			Issuer:    "learnpath",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"empty":        "",
		"garbage":      "not.a.jwt",
		"wrong key":    wrongKey,
		"wrong issuer": wrongIssuer,
		"expired":      expired,
		"alg none":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.VerifyToken(context.Background(), tok)
			assert.ErrorIs(t, err, apierr.ErrUnauthenticated)
		})
	}
}

func TestIssueTokenRequiresUser(t *testing.T) {
	_, _, err := NewAuthService(logger.Nop(), "secret", "", 0).IssueToken(uuid.Nil, "")
	assert.Error(t, err)
}
