package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-portal-api/internal/model"
)

func testProfile() *model.Profile {
	return &model.Profile{
		Base:  model.Base{ID: uuid.New()},
		Email: "pat@example.com",
		Role:  model.RolePatient,
	}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "care-portal", time.Hour)
	profile := testProfile()

	token, issued, err := svc.GenerateAccessToken(profile)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims.UserID)
	assert.Equal(t, profile.Email, claims.Email)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, _, err := NewJWTService("test-secret", "care-portal", time.Hour).GenerateAccessToken(testProfile())
	require.NoError(t, err)

	_, err = NewJWTService("wrong-secret", "care-portal", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", "care-portal", time.Hour).(*jwtService)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateAccessToken(testProfile())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	claims := &model.TokenClaims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "care-portal",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", "care-portal", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Garbage(t *testing.T) {
	_, err := NewJWTService("test-secret", "care-portal", time.Hour).ValidateToken("invalid-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
