package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func TestAuthService_SignupThenSignin(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(memory.NewUserRepository(), testSecret, time.Hour)

	for _, role := range []string{"Trainer", "Trainee"} {
		t.Run(role, func(t *testing.T) {
			username := "user-" + role
			user, err := auth.Signup(ctx, username, "s3cret", role)
			require.NoError(t, err)
			assert.Empty(t, user.PasswordHash)
			assert.Equal(t, domain.Role(role), user.Role)

			token, signedIn, err := auth.Signin(ctx, username, "s3cret")
			require.NoError(t, err)
			assert.Equal(t, user.ID, signedIn.ID)

			session, err := auth.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, session.UserID)
			assert.Equal(t, domain.Role(role), session.Role)
		})
	}
}

func TestAuthService_SignupRejectsUnknownRole(t *testing.T) {
	auth := NewAuthService(memory.NewUserRepository(), testSecret, time.Hour)

	for _, role := range []string{"", "trainer", "Admin", "TRAINEE"} {
		_, err := auth.Signup(context.Background(), "bob", "pw", role)
		assert.ErrorIs(t, err, ErrInvalidRole, "role %q", role)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestAuthService_SignupDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(memory.NewUserRepository(), testSecret, time.Hour)

	_, err := auth.Signup(ctx, "alice", "pw", "Trainer")
	require.NoError(t, err)
	_, err = auth.Signup(ctx, "alice", "other", "Trainee")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_SigninFailures(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(memory.NewUserRepository(), testSecret, time.Hour)
	_, err := auth.Signup(ctx, "alice", "right", "Trainee")
	require.NoError(t, err)

	_, _, err = auth.Signin(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrAuthentication)

	_, _, err = auth.Signin(ctx, "nobody", "right")
	assert.ErrorIs(t, err, ErrAuthentication)
}

func signTestToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwtClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthService_VerifyRejectsBadTokens(t *testing.T) {
	auth := NewAuthService(memory.NewUserRepository(), testSecret, time.Hour)
	uid := primitive.NewObjectID().Hex()
	valid := func(exp time.Time) jwtClaims {
		return jwtClaims{
			UserID:           uid,
			Role:             domain.RoleTrainee,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp), Issuer: tokenIssuer},
		}
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not-a-token"},
		{"expired", signTestToken(t, testSecret, jwt.SigningMethodHS256, valid(time.Now().Add(-time.Minute)))},
		{"wrong signature", signTestToken(t, "other-secret", jwt.SigningMethodHS256, valid(time.Now().Add(time.Hour)))},
		{"no expiry", signTestToken(t, testSecret, jwt.SigningMethodHS256, jwtClaims{UserID: uid, Role: domain.RoleTrainee})},
		{"bad role", signTestToken(t, testSecret, jwt.SigningMethodHS256, jwtClaims{
			UserID: uid, Role: "Admin",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)), Issuer: tokenIssuer},
		})},
		{"foreign issuer", signTestToken(t, testSecret, jwt.SigningMethodHS256, jwtClaims{
			UserID: uid, Role: domain.RoleTrainee,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)), Issuer: "someone-else"},
		})},
		{"no issuer", signTestToken(t, testSecret, jwt.SigningMethodHS256, jwtClaims{
			UserID: uid, Role: domain.RoleTrainee,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Verify(tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	session, err := auth.Verify(signTestToken(t, testSecret, jwt.SigningMethodHS256, valid(time.Now().Add(time.Hour))))
	require.NoError(t, err)
	assert.Equal(t, uid, session.UserID.Hex())
}

func TestNewAuthService_PanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() { NewAuthService(memory.NewUserRepository(), "", time.Hour) })
}
