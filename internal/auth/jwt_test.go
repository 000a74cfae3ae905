package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "tycoonhub",
		Duration: time.Hour,
	}
}

func TestSignAndParse(t *testing.T) {
	ts := testTokenService()
	user := &User{ID: "u-1", Username: "alice", TokenVersion: 3}

	token, exp, err := ts.Sign(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := ts.Parse(token)
	require.NoError(t, err)

	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, "tycoonhub", claims.Issuer)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestParse_WrongSecret(t *testing.T) {
	ts := testTokenService()
	token, _, err := ts.Sign(&User{ID: "u-1", Username: "alice"})
	require.NoError(t, err)

	other := testTokenService()
	other.Secret = []byte("different")

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParse_ExpiredToken(t *testing.T) {
	ts := testTokenService()
	ts.Duration = -time.Hour

	token, _, err := ts.Sign(&User{ID: "u-1", Username: "alice"})
	require.NoError(t, err)

	_, err = ts.Parse(token)
	assert.Error(t, err)
}

func TestParse_RejectsUnexpectedSigningMethod(t *testing.T) {
	ts := testTokenService()

	// token signed with none instead of HS256
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u-1"})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.Parse(raw)
	assert.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	_, err := testTokenService().Parse("not.a.token")
	assert.Error(t, err)
}
