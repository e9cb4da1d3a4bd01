package user

import (
	"context"

	"github.com/medrec/medrec/internal/platform/chain"
	"github.com/medrec/medrec/internal/platform/httperr"
)

type Service struct {
	users Repository
}

func NewService(users Repository) *Service {
	return &Service{users: users}
}

// Register inserts a wallet/role pair. A duplicate wallet is rejected with
// a conflict error; registration is not idempotent.
func (s *Service) Register(ctx context.Context, u *User) error {
	if !chain.ValidAddress(u.Wallet) {
		return httperr.Validation("wallet must be a valid account address")
	}
	if !ValidRole(u.Role) {
		return httperr.Validation("role must be %q or %q", RolePatient, RoleProvider)
	}
	return s.users.Insert(ctx, u)
}

func (s *Service) GetByWallet(ctx context.Context, wallet string) (*User, error) {
	if !chain.ValidAddress(wallet) {
		return nil, httperr.Validation("wallet must be a valid account address")
	}
	return s.users.GetByWallet(ctx, wallet)
}
