package unit

import (
	"coinlings/internal/domain/models"
	"coinlings/internal/lib/jwt"
	"coinlings/internal/middlewares"
	"coinlings/internal/repository"
	"coinlings/internal/services"
	"coinlings/internal/tests/mocks"
	"context"
	"errors"
	"testing"

	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService() (*services.AuthService, *mocks.AuthRepositoryMock, *mocks.RedisClientMock, *jwt.Generator) {
	authRepo := new(mocks.AuthRepositoryMock)
	redisMock := new(mocks.RedisClientMock)
	jwtGen := jwt.NewGenerator("secret", 0, 0)
	return services.NewAuthService(slog.Default(), authRepo, redisMock, jwtGen), authRepo, redisMock, jwtGen
}

func TestAuthService_Register_CreatesUserAndStoresTokens(t *testing.T) {
	// Arrange
	ctx := context.Background()
	email := "newuser@example.com"
	password := "strongPass"
	userID := uuid.New()

	service, authRepo, redisMock, jwtGen := newAuthService()

	authRepo.On("CreateUser", ctx, email, mockHashedPassword(password)).
		Return(userID, nil).Once()
	redisMock.On("StoreRefreshToken", ctx, userID.String(), mock.Anything).
		Return(nil).Once()

	// Act
	resp, err := service.Register(ctx, "  NewUser@Example.com", password)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, userID.String(), resp.UserID)
	assert.Equal(t, email, resp.Email)
	assert.True(t, resp.Balance.IsZero())

	subject, err := jwtGen.ParseAccess(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), subject)
	assert.NotEmpty(t, resp.RefreshToken)
	authRepo.AssertExpectations(t)
	redisMock.AssertExpectations(t)
}

func TestAuthService_Register_ReturnsErrorForExistingEmail(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, authRepo, redisMock, _ := newAuthService()

	authRepo.On("CreateUser", ctx, "taken@example.com", mock.Anything).
		Return(uuid.Nil, repository.ErrUserAlreadyExists).Once()

	// Act
	resp, err := service.Register(ctx, "taken@example.com", "password123")

	// Assert
	assert.ErrorIs(t, err, services.ErrUserAlreadyExists)
	assert.Empty(t, resp.Token)
	authRepo.AssertExpectations(t)
	redisMock.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Register_ReturnsErrorForInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "empty", email: "", password: "password123", want: middlewares.ErrEmptyField},
		{name: "bad email", email: "nope", password: "password123", want: middlewares.ErrInvalidEmail},
		{name: "short password", email: "a@example.com", password: "short", want: middlewares.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			service, authRepo, _, _ := newAuthService()

			// Act
			_, err := service.Register(context.Background(), tt.email, tt.password)

			// Assert
			assert.ErrorIs(t, err, services.ErrInvalidInput)
			var svcErr *services.Error
			require.ErrorAs(t, err, &svcErr)
			assert.Contains(t, svcErr.Msg, tt.want.Error())
			authRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_Login_ReturnsTokensForValidPassword(t *testing.T) {
	// Arrange
	ctx := context.Background()
	password := "correctPass"
	storedHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{ID: uuid.New(), Email: "existing@example.com", Password: storedHash, Balance: decimal.NewFromInt(4200)}

	service, authRepo, redisMock, _ := newAuthService()

	authRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()
	redisMock.On("StoreRefreshToken", ctx, user.ID.String(), mock.Anything).Return(nil).Once()

	// Act
	resp, err := service.Login(ctx, user.Email, password)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.True(t, decimal.NewFromInt(4200).Equal(resp.Balance))
	authRepo.AssertExpectations(t)
	redisMock.AssertExpectations(t)
}

func TestAuthService_Login_ReturnsInvalidCredentialsForWrongPassword(t *testing.T) {
	// Arrange
	ctx := context.Background()
	storedHash, err := bcrypt.GenerateFromPassword([]byte("correctPass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{ID: uuid.New(), Email: "existing@example.com", Password: storedHash}

	service, authRepo, redisMock, _ := newAuthService()
	authRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()

	// Act
	resp, err := service.Login(ctx, user.Email, "wrongPass")

	// Assert
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.Empty(t, resp.Token)
	assert.Empty(t, resp.RefreshToken)
	authRepo.AssertExpectations(t)
	redisMock.AssertExpectations(t)
}

func TestAuthService_Login_ReturnsInvalidCredentialsForUnknownUser(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, authRepo, _, _ := newAuthService()
	authRepo.On("GetUserByEmail", ctx, "ghost@example.com").
		Return(models.User{}, repository.ErrUserNotFound).Once()

	// Act
	_, err := service.Login(ctx, "ghost@example.com", "password123")

	// Assert
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	authRepo.AssertExpectations(t)
}

func TestAuthService_Login_PropagatesRepositoryErrors(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, authRepo, redisMock, _ := newAuthService()

	loginErr := errors.New("db failure")
	authRepo.On("GetUserByEmail", ctx, "broken@example.com").
		Return(models.User{}, loginErr).Once()

	// Act
	resp, err := service.Login(ctx, "broken@example.com", "password123")

	// Assert
	assert.ErrorContains(t, err, "db failure")
	assert.Empty(t, resp.Token)
	authRepo.AssertExpectations(t)
	redisMock.AssertExpectations(t)
}

func TestAuthService_Login_ReturnsErrorWhenRefreshTokenStorageFails(t *testing.T) {
	// Arrange
	ctx := context.Background()
	password := "password123"
	storedHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{ID: uuid.New(), Email: "redisuser@example.com", Password: storedHash}

	service, authRepo, redisMock, _ := newAuthService()
	authRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()
	redisErr := errors.New("redis down")
	redisMock.On("StoreRefreshToken", ctx, user.ID.String(), mock.Anything).
		Return(redisErr).Once()

	// Act
	resp, err := service.Login(ctx, user.Email, password)

	// Assert
	assert.ErrorIs(t, err, services.ErrFailedToStoreRefreshToken)
	assert.Empty(t, resp.Token)
	assert.Empty(t, resp.RefreshToken)
	authRepo.AssertExpectations(t)
	redisMock.AssertExpectations(t)
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	// Arrange
	ctx := context.Background()
	user := models.User{ID: uuid.New(), Email: "a@example.com"}
	service, authRepo, redisMock, jwtGen := newAuthService()

	_, oldRefresh, err := jwtGen.GeneratePair(user.ID.String())
	require.NoError(t, err)

	redisMock.On("TakeRefreshToken", ctx, oldRefresh).Return(user.ID.String(), nil).Once()
	authRepo.On("GetUserByID", ctx, user.ID).Return(user, nil).Once()
	redisMock.On("StoreRefreshToken", ctx, user.ID.String(), mock.Anything).Return(nil).Once()

	// Act
	resp, err := service.Refresh(ctx, oldRefresh)

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, oldRefresh, resp.RefreshToken)
	assert.Equal(t, user.ID.String(), resp.UserID)
	authRepo.AssertExpectations(t)
	redisMock.AssertExpectations(t)
}

func TestAuthService_Refresh_RejectsRevokedToken(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, authRepo, redisMock, jwtGen := newAuthService()

	_, refresh, err := jwtGen.GeneratePair(uuid.NewString())
	require.NoError(t, err)
	redisMock.On("TakeRefreshToken", ctx, refresh).Return("", repository.ErrTokenNotFound).Once()

	// Act
	_, err = service.Refresh(ctx, refresh)

	// Assert
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
	authRepo.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	redisMock.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	// Arrange
	service, _, redisMock, jwtGen := newAuthService()
	access, _, err := jwtGen.GeneratePair(uuid.NewString())
	require.NoError(t, err)

	// Act
	_, err = service.Refresh(context.Background(), access)

	// Assert
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
	redisMock.AssertNotCalled(t, "TakeRefreshToken", mock.Anything, mock.Anything)
}

func mockHashedPassword(password string) interface{} {
	return mock.MatchedBy(func(hash []byte) bool {
		return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
	})
}
