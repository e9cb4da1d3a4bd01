package user

import "context"

type Repository interface {
	Insert(ctx context.Context, u *User) error
	GetByWallet(ctx context.Context, wallet string) (*User, error)
	// IDByWallet resolves a wallet to its surrogate id; other domains use
	// this before inserting rows that reference app_users.
	IDByWallet(ctx context.Context, wallet string) (int64, error)
}
