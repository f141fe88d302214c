package services

import (
	"testing"
	"time"

	"github.com/itsmeter/piggy-point-plan/internal/database"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupAuthTestDB(t *testing.T) (*gorm.DB, *AuthService) {
	db, err := database.Connect(":memory:")
	assert.NoError(t, err)

	err = database.Migrate(db)
	assert.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	authService := NewAuthService(userRepo, pointsRepo, settingsRepo, db, "test-secret", time.Hour)

	return db, authService
}

func TestAuthService_SignUp(t *testing.T) {
	db, authService := setupAuthTestDB(t)

	user, token, err := authService.SignUp("alice@example.com", "alice", "hunter2hunter2")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash, "password must be stored hashed")

	var account models.PointsAccount
	assert.NoError(t, db.Where("user_id = ?", user.ID).First(&account).Error)
	assert.Equal(t, 0, account.TotalPoints)
	assert.Equal(t, 1, account.CurrentLevel)
	assert.Equal(t, 1000, account.PointsToNextLevel)

	var settings models.UserSettings
	assert.NoError(t, db.Where("user_id = ?", user.ID).First(&settings).Error)
	assert.Equal(t, "PHP", settings.DefaultCurrency)
	assert.False(t, settings.FirstSetupCompleted)
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	_, authService := setupAuthTestDB(t)

	_, _, err := authService.SignUp("alice@example.com", "alice", "hunter2hunter2")
	assert.NoError(t, err)

	_, _, err = authService.SignUp("alice@example.com", "alice2", "hunter2hunter2")
	assert.Equal(t, ErrUserExists, err, "email reuse is rejected")

	_, _, err = authService.SignUp("other@example.com", "alice", "hunter2hunter2")
	assert.Equal(t, ErrUserExists, err, "username reuse is rejected")
}

func TestAuthService_SignUp_InvalidUsername(t *testing.T) {
	_, authService := setupAuthTestDB(t)

	_, _, err := authService.SignUp("a@example.com", "ab", "hunter2hunter2")
	assert.Equal(t, ErrInvalidUsername, err)

	_, _, err = authService.SignUp("a@example.com", "has spaces", "hunter2hunter2")
	assert.Equal(t, ErrInvalidUsername, err)
}

func TestAuthService_SignUp_WeakPassword(t *testing.T) {
	_, authService := setupAuthTestDB(t)

	_, _, err := authService.SignUp("a@example.com", "alice", "short")
	assert.Equal(t, ErrWeakPassword, err)
}

func TestAuthService_SignIn(t *testing.T) {
	_, authService := setupAuthTestDB(t)

	_, _, err := authService.SignUp("alice@example.com", "alice", "hunter2hunter2")
	assert.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		user, token, err := authService.SignIn("alice@example.com", "hunter2hunter2")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("by username", func(t *testing.T) {
		user, token, err := authService.SignIn("alice", "hunter2hunter2")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := authService.SignIn("alice", "wrongpassword")
		assert.Equal(t, ErrInvalidCredentials, err)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, _, err := authService.SignIn("nobody", "hunter2hunter2")
		assert.Equal(t, ErrInvalidCredentials, err, "unknown users get the same generic error")
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	_, authService := setupAuthTestDB(t)

	user, token, err := authService.SignUp("alice@example.com", "alice", "hunter2hunter2")
	assert.NoError(t, err)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, err = authService.ValidateToken("not-a-token")
	assert.Equal(t, ErrInvalidToken, err)
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	db, _ := setupAuthTestDB(t)

	userRepo := repository.NewUserRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	other := NewAuthService(userRepo, pointsRepo, settingsRepo, db, "other-secret", time.Hour)

	user, _, err := other.SignUp("bob@example.com", "bob", "hunter2hunter2")
	assert.NoError(t, err)

	token, err := other.GenerateToken(user)
	assert.NoError(t, err)

	_, validateWith := setupAuthTestDB(t)
	_, err = validateWith.ValidateToken(token)
	assert.Equal(t, ErrInvalidToken, err)
}
