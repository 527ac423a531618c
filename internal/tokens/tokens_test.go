package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return New(Config{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	})
}

func testPayload() Payload {
	return Payload{UserID: 42, Email: "a@x.com", Username: "alice"}
}

func TestSignAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	token, err := svc.SignAccessToken(testPayload())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(DefaultAccessTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestSignRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	token, expiresAt, err := svc.SignRefreshToken(testPayload())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(DefaultRefreshTTL), expiresAt, 5*time.Second)

	claims, err := svc.VerifyRefreshToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "refresh", claims.TokenType)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Time.Unix())
}

func TestSignAccessToken_UniquePerCall(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	first, err := svc.SignAccessToken(testPayload())
	require.NoError(t, err)
	second, err := svc.SignAccessToken(testPayload())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	t.Parallel()

	svc := New(Config{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	})
	claims := newClaims(testPayload(), -time.Minute, "")
	token, err := sign(claims, []byte("test-access-secret"))
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_CrossSecretFails(t *testing.T) {
	t.Parallel()

	svc := newTestService()

	accessToken, err := svc.SignAccessToken(testPayload())
	require.NoError(t, err)
	_, err = svc.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	refreshToken, _, err := svc.SignRefreshToken(testPayload())
	require.NoError(t, err)
	_, err = svc.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_WrongSecretFails(t *testing.T) {
	t.Parallel()

	token, err := newTestService().SignAccessToken(testPayload())
	require.NoError(t, err)

	other := New(Config{
		AccessSecret:  []byte("another-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	})
	_, err = other.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := newTestService()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9.e30"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.VerifyAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}
