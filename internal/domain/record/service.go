package record

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/medrec/medrec/internal/platform/chain"
	"github.com/medrec/medrec/internal/platform/httperr"
	"github.com/medrec/medrec/internal/platform/ipfs"
)

type Service struct {
	chain   chain.Client
	store   ipfs.Store
	repo    Repository
	wallets WalletResolver
	logger  zerolog.Logger
}

func NewService(ch chain.Client, store ipfs.Store, repo Repository, wallets WalletResolver, logger zerolog.Logger) *Service {
	return &Service{chain: ch, store: store, repo: repo, wallets: wallets, logger: logger}
}

// Add submits add_record signed by the provider. The data hash is the
// client-computed digest of the record payload, hex encoded. recordType is
// the on-chain u8 encoding.
func (s *Service) Add(ctx context.Context, patientAddress, dataHashHex string, recordType uint8, providerPrivateKey string) (string, error) {
	if !chain.ValidAddress(patientAddress) {
		return "", httperr.Validation("patient_address is not a valid account address")
	}
	if recordType > chain.RecordTypeImaging {
		return "", httperr.Validation("record_type must be between %d and %d",
			chain.RecordTypeGeneral, chain.RecordTypeImaging)
	}
	dataHash, err := chain.ParseHexBytes(dataHashHex)
	if err != nil {
		return "", httperr.Validation("data_hash must be a hex string")
	}
	signer, err := chain.AccountFromHex(providerPrivateKey)
	if err != nil {
		return "", httperr.Validation("provider_private_key is not a valid ed25519 private key")
	}

	txHash, err := s.chain.AddRecord(ctx, signer, patientAddress, dataHash, recordType)
	if err != nil {
		return "", err
	}
	s.logger.Info().
		Str("patient", patientAddress).
		Str("provider", signer.Address()).
		Uint8("record_type", recordType).
		Str("tx_hash", txHash).
		Msg("record added on chain")
	return txHash, nil
}

// Get reads one on-chain record. A patient with no record store, or an id
// outside the store, maps to a not-found error.
func (s *Service) Get(ctx context.Context, patientAddress string, recordID uint64) (*chain.Record, error) {
	if !chain.ValidAddress(patientAddress) {
		return nil, httperr.Validation("patient address is not a valid account address")
	}
	rec, err := s.chain.GetRecord(ctx, patientAddress, recordID)
	if err != nil {
		if errors.Is(err, chain.ErrResourceAbsent) || errors.Is(err, chain.ErrRecordNotFound) {
			return nil, httperr.NotFound("record %d not found for patient %s", recordID, patientAddress)
		}
		return nil, err
	}
	return rec, nil
}

// UpdateStatus submits update_record_status signed by the provider.
func (s *Service) UpdateStatus(ctx context.Context, patientAddress string, recordID uint64, active bool, providerPrivateKey string) (string, error) {
	if !chain.ValidAddress(patientAddress) {
		return "", httperr.Validation("patient address is not a valid account address")
	}
	signer, err := chain.AccountFromHex(providerPrivateKey)
	if err != nil {
		return "", httperr.Validation("provider_private_key is not a valid ed25519 private key")
	}
	return s.chain.UpdateRecordStatus(ctx, signer, patientAddress, recordID, active)
}

// Upload pins the file and indexes it off chain. Uploading content that is
// already indexed returns the existing row.
func (s *Service) Upload(ctx context.Context, filename string, content io.Reader, patientWallet, providerWallet string) (*UploadResult, error) {
	if !chain.ValidAddress(patientWallet) {
		return nil, httperr.Validation("patient_wallet is not a valid account address")
	}
	if providerWallet != "" && !chain.ValidAddress(providerWallet) {
		return nil, httperr.Validation("provider_wallet is not a valid account address")
	}

	patientID, err := s.wallets.IDByWallet(ctx, patientWallet)
	if err != nil {
		return nil, err
	}
	var providerID *int64
	if providerWallet != "" {
		id, err := s.wallets.IDByWallet(ctx, providerWallet)
		if err != nil {
			return nil, err
		}
		providerID = &id
	}

	cid, err := s.store.Store(ctx, filename, content)
	if err != nil {
		switch {
		case errors.Is(err, ipfs.ErrFileTooLarge):
			return nil, httperr.Validation("file exceeds the maximum allowed size")
		case errors.Is(err, ipfs.ErrMissingFileName):
			return nil, httperr.Validation("file name is required")
		}
		return nil, err
	}

	rec := &StoredRecord{
		CID:        cid,
		FileURL:    s.store.PublicURL(cid),
		PatientID:  patientID,
		ProviderID: providerID,
	}
	if err := s.repo.InsertOrGet(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("cid", cid).
		Str("patient_wallet", patientWallet).
		Msg("record uploaded")

	return &UploadResult{CID: cid, FileURL: rec.FileURL, Record: rec}, nil
}

// List returns the off-chain rows for a patient wallet, newest first.
func (s *Service) List(ctx context.Context, wallet string) ([]*StoredRecord, error) {
	if !chain.ValidAddress(wallet) {
		return nil, httperr.Validation("wallet must be a valid account address")
	}
	patientID, err := s.wallets.IDByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// Download fetches the bytes behind a CID from the gateway chain.
func (s *Service) Download(ctx context.Context, cid string) ([]byte, error) {
	if cid == "" {
		return nil, httperr.Validation("cid is required")
	}
	data, err := s.store.Fetch(ctx, cid)
	if err != nil {
		if errors.Is(err, ipfs.ErrContentUnavailable) {
			return nil, httperr.Upstream(err, "content for %s unavailable on all gateways", cid)
		}
		return nil, err
	}
	return data, nil
}
