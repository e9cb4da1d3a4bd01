package relationship

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medrec/medrec/internal/platform/httperr"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Insert(ctx context.Context, rel *Relationship) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO relationships (patient_id, provider_id)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		rel.PatientID, rel.ProviderID,
	).Scan(&rel.ID, &rel.CreatedAt)
	if err != nil {
		return httperr.Upstream(err, "insert relationship")
	}
	return nil
}
