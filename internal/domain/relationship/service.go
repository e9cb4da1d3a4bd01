package relationship

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/medrec/medrec/internal/platform/chain"
	"github.com/medrec/medrec/internal/platform/httperr"
)

type Service struct {
	chain   chain.Client
	repo    Repository
	wallets WalletResolver
	logger  zerolog.Logger
}

func NewService(ch chain.Client, repo Repository, wallets WalletResolver, logger zerolog.Logger) *Service {
	return &Service{chain: ch, repo: repo, wallets: wallets, logger: logger}
}

// Create submits create_relationship signed by the patient. Finality follows
// the client-wide policy.
func (s *Service) Create(ctx context.Context, providerAddress, patientPrivateKey string) (string, error) {
	if !chain.ValidAddress(providerAddress) {
		return "", httperr.Validation("provider_address is not a valid account address")
	}
	signer, err := chain.AccountFromHex(patientPrivateKey)
	if err != nil {
		return "", httperr.Validation("patient_private_key is not a valid ed25519 private key")
	}
	txHash, err := s.chain.CreateRelationship(ctx, signer, providerAddress)
	if err != nil {
		return "", err
	}
	s.logger.Info().
		Str("patient", signer.Address()).
		Str("provider", providerAddress).
		Str("tx_hash", txHash).
		Msg("relationship created")
	return txHash, nil
}

// AddViewer submits add_viewer signed by the patient. The signer must match
// the patient address in the path.
func (s *Service) AddViewer(ctx context.Context, patientAddress, viewerAddress, patientPrivateKey string) (string, error) {
	if !chain.ValidAddress(patientAddress) {
		return "", httperr.Validation("patient address is not a valid account address")
	}
	if !chain.ValidAddress(viewerAddress) {
		return "", httperr.Validation("viewer_address is not a valid account address")
	}
	signer, err := chain.AccountFromHex(patientPrivateKey)
	if err != nil {
		return "", httperr.Validation("patient_private_key is not a valid ed25519 private key")
	}
	want, _ := chain.ParseAddress(patientAddress)
	if signer.Address() != want.String() {
		return "", httperr.Validation("patient_private_key does not match patient address")
	}
	return s.chain.AddViewer(ctx, signer, viewerAddress)
}

// Viewers reads the viewer list for one patient/provider relationship. A
// patient with no Relationships resource, or no relationship with the
// provider, maps to a not-found error.
func (s *Service) Viewers(ctx context.Context, patientAddress, providerAddress string) ([]string, error) {
	if !chain.ValidAddress(patientAddress) {
		return nil, httperr.Validation("patient address is not a valid account address")
	}
	if !chain.ValidAddress(providerAddress) {
		return nil, httperr.Validation("provider address is not a valid account address")
	}
	viewers, err := s.chain.GetViewers(ctx, patientAddress, providerAddress)
	if err != nil {
		if errors.Is(err, chain.ErrResourceAbsent) {
			return nil, httperr.NotFound("no relationship between %s and %s", patientAddress, providerAddress)
		}
		return nil, err
	}
	return viewers, nil
}

// Register inserts the off-chain relationship row, resolving both wallets
// to their user ids first.
func (s *Service) Register(ctx context.Context, patientWallet, providerWallet string) (*Relationship, error) {
	if !chain.ValidAddress(patientWallet) {
		return nil, httperr.Validation("patient_wallet is not a valid account address")
	}
	if !chain.ValidAddress(providerWallet) {
		return nil, httperr.Validation("provider_wallet is not a valid account address")
	}
	patientID, err := s.wallets.IDByWallet(ctx, patientWallet)
	if err != nil {
		return nil, err
	}
	providerID, err := s.wallets.IDByWallet(ctx, providerWallet)
	if err != nil {
		return nil, err
	}

	rel := &Relationship{
		PatientID:      patientID,
		ProviderID:     providerID,
		PatientWallet:  patientWallet,
		ProviderWallet: providerWallet,
	}
	if err := s.repo.Insert(ctx, rel); err != nil {
		return nil, err
	}
	return rel, nil
}
