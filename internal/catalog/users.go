package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog.ListUsers: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalog.GetUser: %w", err)
	}
	return &u, nil
}

func (s *Service) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.users.Add(ctx, in.user(0))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("catalog.CreateUser: %w", err)
	}

	s.log.Info("user created", zap.Int64("user_id", created.ID))
	return &created, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, in UserInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.users.Update(ctx, in.user(id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("catalog.UpdateUser: %w", err)
	}
	return &updated, nil
}

// DeleteUser fails with domain.ErrConflict while orders reference the user.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.users.Remove(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("catalog.DeleteUser: %w", err)
	}

	s.log.Info("user deleted", zap.Int64("user_id", id))
	return nil
}
