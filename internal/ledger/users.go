package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/model"
)

// CreateUser provisions a user together with their default preferences.
// Authentication lives outside this service; this exists so the CLI can
// seed owners for all other entities.
func (s *Service) CreateUser(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, common.Validationf("a valid email is required")
	}

	user := &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns all provisioned users.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.store.ListUsers(ctx)
}
