package record

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medrec/medrec/internal/platform/httperr"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

// suppressedDuplicate reports whether the RETURNING scan signals an insert
// suppressed by ON CONFLICT DO NOTHING, as opposed to a query failure.
func suppressedDuplicate(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func (r *repoPG) InsertOrGet(ctx context.Context, rec *StoredRecord) error {
	// ON CONFLICT DO NOTHING returns no row for a duplicate CID, so the
	// second query picks up whichever row won.
	err := r.pool.QueryRow(ctx, `
		INSERT INTO medical_records (cid, file_url, patient_id, provider_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cid) DO NOTHING
		RETURNING id, created_at`,
		rec.CID, rec.FileURL, rec.PatientID, rec.ProviderID,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err == nil {
		return nil
	}
	if !suppressedDuplicate(err) {
		return httperr.Upstream(err, "insert medical record")
	}

	err = r.pool.QueryRow(ctx, `
		SELECT id, cid, file_url, patient_id, provider_id, created_at
		FROM medical_records
		WHERE cid = $1`,
		rec.CID,
	).Scan(&rec.ID, &rec.CID, &rec.FileURL, &rec.PatientID, &rec.ProviderID, &rec.CreatedAt)
	if err != nil {
		return httperr.Upstream(err, "read back existing record")
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64) ([]*StoredRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, cid, file_url, patient_id, provider_id, created_at
		FROM medical_records
		WHERE patient_id = $1
		ORDER BY created_at DESC, id DESC`,
		patientID,
	)
	if err != nil {
		return nil, httperr.Upstream(err, "list medical records")
	}
	defer rows.Close()

	var records []*StoredRecord
	for rows.Next() {
		rec := &StoredRecord{}
		if err := rows.Scan(&rec.ID, &rec.CID, &rec.FileURL, &rec.PatientID, &rec.ProviderID, &rec.CreatedAt); err != nil {
			return nil, httperr.Upstream(err, "scan medical record")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, httperr.Upstream(err, "list medical records")
	}
	return records, nil
}
