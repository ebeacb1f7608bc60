package services

import (
	"coinlings/internal/domain/dto"
	"coinlings/internal/domain/models"
	"coinlings/internal/lib/jwt"
	"coinlings/internal/middlewares"
	"coinlings/internal/repository"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"log/slog"
	"strings"
)

type AuthService struct {
	log            *slog.Logger
	authRepository AuthRepository
	redis          RedisClient
	jwtGen         *jwt.Generator
}

type AuthRepository interface {
	CreateUser(ctx context.Context, email string, passHash []byte) (uuid.UUID, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, ownerID uuid.UUID) (models.User, error)
}

type RedisClient interface {
	StoreRefreshToken(ctx context.Context, userID, refreshToken string) error
	TakeRefreshToken(ctx context.Context, refreshToken string) (string, error)
}

func NewAuthService(log *slog.Logger, authRepository AuthRepository, redis RedisClient,
	jwtGen *jwt.Generator) *AuthService {
	return &AuthService{
		log:            log,
		authRepository: authRepository,
		redis:          redis,
		jwtGen:         jwtGen,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, email, password string) (dto.AuthResponse, error) {
	const op = "services.AuthService.Register"

	email = normalizeEmail(email)

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	if err := middlewares.CheckCredentials(email, password); err != nil {
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, &Error{Kind: ErrInvalidInput, Msg: err.Error()})
	}

	log.Info("hashing password")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("saving user")

	id, err := s.authRepository.CreateUser(ctx, email, passHash)
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			log.Info("user already exists")
			return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, ErrUserAlreadyExists)
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user saved", slog.String("user_id", id.String()))

	return s.issue(ctx, log, op, models.User{ID: id, Email: email})
}

func (s *AuthService) Login(ctx context.Context, email, password string) (dto.AuthResponse, error) {
	const op = "services.AuthService.Login"

	email = normalizeEmail(email)

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	if email == "" || password == "" {
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.authRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Info("user not found")
			return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("comparing passwords")

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		log.Info("invalid credentials")
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	log.Info("passwords match")

	return s.issue(ctx, log, op, user)
}

// Refresh trades a stored refresh token for a new pair. Redeeming the token revokes it,
// so concurrent refreshes with one token succeed at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (dto.AuthResponse, error) {
	const op = "services.AuthService.Refresh"

	log := s.log.With(slog.String("op", op))

	userID, err := s.jwtGen.ParseRefresh(refreshToken)
	if err != nil {
		log.Info("refresh token rejected", slog.String("error", err.Error()))
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
	}

	stored, err := s.redis.TakeRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			log.Info("refresh token revoked or expired")
			return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
		}
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	if stored != userID {
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
	}
	user, err := s.authRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
		}
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("refresh token rotated", slog.String("user_id", userID))

	return s.issue(ctx, log, op, user)
}

func (s *AuthService) issue(ctx context.Context, log *slog.Logger, op string, user models.User) (dto.AuthResponse, error) {
	userID := user.ID.String()

	log.Info("generating tokens")

	accessToken, refreshToken, err := s.jwtGen.GeneratePair(userID)
	if err != nil {
		log.Error("failed to generate tokens", slog.String("error", err.Error()))
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, ErrFailedToGenerateTokens)
	}

	log.Info("storing refresh token")

	if err := s.redis.StoreRefreshToken(ctx, userID, refreshToken); err != nil {
		log.Error("failed to store refresh token", slog.String("error", err.Error()))
		return dto.AuthResponse{}, fmt.Errorf("%s: %w", op, ErrFailedToStoreRefreshToken)
	}

	log.Info("tokens stored")

	return dto.AuthResponse{
		UserID:       userID,
		Email:        user.Email,
		Balance:      user.Balance,
		Token:        accessToken,
		RefreshToken: refreshToken,
	}, nil
}
