package record

import "context"

type Repository interface {
	// InsertOrGet inserts the row, or returns the existing row when the CID
	// is already indexed. Re-pinning identical content is idempotent.
	InsertOrGet(ctx context.Context, r *StoredRecord) error
	// ListByPatient returns the patient's rows, newest first.
	ListByPatient(ctx context.Context, patientID int64) ([]*StoredRecord, error)
}

// WalletResolver maps a wallet address to its app_users id. Satisfied by the
// user repository.
type WalletResolver interface {
	IDByWallet(ctx context.Context, wallet string) (int64, error)
}
