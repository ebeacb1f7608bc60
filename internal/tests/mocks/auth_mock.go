package mocks

import (
	"coinlings/internal/domain/models"
	"context"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type AuthRepositoryMock struct {
	mock.Mock
}

func (m *AuthRepositoryMock) CreateUser(ctx context.Context, email string, passHash []byte) (uuid.UUID, error) {
	args := m.Called(ctx, email, passHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *AuthRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *AuthRepositoryMock) GetUserByID(ctx context.Context, ownerID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(models.User), args.Error(1)
}
