package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medrec/medrec/internal/platform/httperr"
)

// uniqueViolation is the SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Insert(ctx context.Context, u *User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO app_users (wallet, role)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		u.Wallet, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return httperr.Conflict("wallet %s is already registered", u.Wallet)
		}
		return httperr.Upstream(err, "insert user")
	}
	return nil
}

func (r *repoPG) GetByWallet(ctx context.Context, wallet string) (*User, error) {
	u := &User{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, wallet, role, created_at
		FROM app_users
		WHERE wallet = $1`,
		wallet,
	).Scan(&u.ID, &u.Wallet, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httperr.NotFound("user with wallet %s not found", wallet)
		}
		return nil, httperr.Upstream(err, "get user by wallet")
	}
	return u, nil
}

func (r *repoPG) IDByWallet(ctx context.Context, wallet string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM app_users WHERE wallet = $1`, wallet).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, httperr.NotFound("user with wallet %s not found", wallet)
		}
		return 0, httperr.Upstream(err, "resolve wallet")
	}
	return id, nil
}
