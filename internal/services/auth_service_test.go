package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/EvgeniyKrainov/foodgram/internal/apperrors"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
	"github.com/EvgeniyKrainov/foodgram/internal/repositories"
	"github.com/EvgeniyKrainov/foodgram/internal/services"
)

const testJWTSecret = "test_jwt_secret"

func newAuthFixture(t *testing.T) (*services.AuthService, *repositories.MockUserRepository) {
	t.Helper()
	users := repositories.NewMockUserRepository()
	return services.NewAuthService(users, testJWTSecret), users
}

func TestAuthService_RegisterHashesPassword(t *testing.T) {
	authService, users := newAuthFixture(t)

	user := &models.User{
		Email:     "alice@example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "A",
		Password:  "password123",
	}
	err := authService.Register(user)
	assert.NoError(t, err)
	assert.NotZero(t, user.ID)

	stored, err := users.GetByEmail("alice@example.com")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	authService, _ := newAuthFixture(t)

	first := &models.User{Email: "alice@example.com", Username: "alice", Password: "password123"}
	assert.NoError(t, authService.Register(first))

	second := &models.User{Email: "alice@example.com", Username: "other", Password: "password123"}
	err := authService.Register(second)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRelation)
}

func TestAuthService_LoginAndValidateToken(t *testing.T) {
	authService, _ := newAuthFixture(t)

	user := &models.User{Email: "alice@example.com", Username: "alice", Password: "password123"}
	assert.NoError(t, authService.Register(user))

	token, err := authService.Login("alice@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	authService, _ := newAuthFixture(t)

	user := &models.User{Email: "alice@example.com", Username: "alice", Password: "password123"}
	assert.NoError(t, authService.Register(user))

	_, err := authService.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_SetPassword(t *testing.T) {
	authService, _ := newAuthFixture(t)

	user := &models.User{Email: "alice@example.com", Username: "alice", Password: "password123"}
	assert.NoError(t, authService.Register(user))

	err := authService.SetPassword(user.ID, "wrong", "newpassword1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	err = authService.SetPassword(user.ID, "password123", "newpassword1")
	assert.NoError(t, err)

	_, err = authService.Login("alice@example.com", "newpassword1")
	assert.NoError(t, err)
}

func TestAuthService_ValidateGarbageToken(t *testing.T) {
	authService, _ := newAuthFixture(t)

	_, err := authService.ValidateToken("not.a.token")
	assert.Error(t, err)
}
