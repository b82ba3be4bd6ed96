package profile

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/repository"
	"github.com/fastygo/habits/usecase"
)

type UseCase struct {
	users  repository.UserRepository
	buffer usecase.OperationBuffer
	cache  repository.LeaderboardCache
	logger *zap.Logger
}

func New(users repository.UserRepository, buffer usecase.OperationBuffer, cache repository.LeaderboardCache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		buffer: buffer,
		cache:  cache,
		logger: logger,
	}
}

// Ensure returns the stored user for identity, registering it on first sight.
func (uc *UseCase) Ensure(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := uc.users.GetByID(ctx, identity.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	role := identity.Role
	if role == "" {
		role = domain.RoleMember
	}
	user = &domain.User{
		ID:       identity.UserID,
		Username: identity.DisplayName(),
		Role:     role,
		Status:   domain.StatusActive,
	}
	if err := uc.save(ctx, usecase.OperationCreate, user); err != nil {
		return nil, err
	}
	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	uc.invalidate(ctx)
	return user, nil
}

func (uc *UseCase) GetProfile(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	return uc.Ensure(ctx, identity)
}

func (uc *UseCase) UpdateProfile(ctx context.Context, identity domain.Identity, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.ErrInvalidUsername
	}

	user, err := uc.Ensure(ctx, identity)
	if err != nil {
		return nil, err
	}
	if user.Username == username {
		return user, nil
	}

	user.Username = username
	if err := uc.save(ctx, usecase.OperationUpdate, user); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return user, nil
}

func (uc *UseCase) save(ctx context.Context, operation string, user *domain.User) error {
	err := uc.users.Upsert(ctx, user)
	if err == nil {
		return nil
	}
	var dErr *domain.Error
	if errors.As(err, &dErr) || uc.buffer == nil {
		return err
	}
	if bufErr := uc.buffer.BufferUser(ctx, operation, user); bufErr != nil {
		uc.logger.Error("failed to buffer profile write", zap.Error(bufErr))
		return err
	}
	uc.logger.Warn("profile write buffered due to repository error", zap.Error(err))
	return nil
}

func (uc *UseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}

var _ usecase.UserDirectory = (*UseCase)(nil)
