package relationship

import "context"

type Repository interface {
	Insert(ctx context.Context, r *Relationship) error
}

// WalletResolver maps a wallet address to its app_users id. Satisfied by the
// user repository.
type WalletResolver interface {
	IDByWallet(ctx context.Context, wallet string) (int64, error)
}
