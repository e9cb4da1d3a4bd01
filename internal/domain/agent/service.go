// Package agent exposes on-chain agent registration: keypair generation,
// faucet funding, agent creation, and the custodian list.
package agent

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/medrec/medrec/internal/platform/chain"
	"github.com/medrec/medrec/internal/platform/httperr"
)

// Symbolic agent type names accepted alongside the numeric u8 encoding.
const (
	TypePatient  = "patient"
	TypeProvider = "provider"
)

// CreatedAgent is the result of creating an agent: a freshly generated
// keypair and the hash of the create transaction. The private key is
// returned to the caller, who holds custody of it.
type CreatedAgent struct {
	Address    string `json:"address"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
	TxHash     string `json:"tx_hash"`
}

type Service struct {
	chain  chain.Client
	logger zerolog.Logger
}

func NewService(ch chain.Client, logger zerolog.Logger) *Service {
	return &Service{chain: ch, logger: logger}
}

// Create generates a keypair, funds it from the faucet, and submits
// create_agent signed by the new account. agentType is the on-chain u8
// encoding.
func (s *Service) Create(ctx context.Context, agentType uint8) (*CreatedAgent, error) {
	if agentType > chain.AgentTypeProvider {
		return nil, httperr.Validation("agent_type must be %d (patient) or %d (provider)",
			chain.AgentTypePatient, chain.AgentTypeProvider)
	}

	acct, err := chain.GenerateAccount()
	if err != nil {
		return nil, httperr.Internal(err)
	}
	if err := s.chain.FundAccount(ctx, acct.Address()); err != nil {
		return nil, err
	}

	txHash, err := s.chain.CreateAgent(ctx, acct, agentType)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("address", acct.Address()).
		Uint8("agent_type", agentType).
		Str("tx_hash", txHash).
		Msg("agent created")

	return &CreatedAgent{
		Address:    acct.Address(),
		PublicKey:  acct.PublicKeyHex(),
		PrivateKey: acct.PrivateKeyHex(),
		TxHash:     txHash,
	}, nil
}

// AddCustodian submits add_custodian signed with the agent's key. The signer
// address must match the agent address in the path.
func (s *Service) AddCustodian(ctx context.Context, agentAddress, custodian, privateKey string) (string, error) {
	if !chain.ValidAddress(agentAddress) {
		return "", httperr.Validation("agent address is not a valid account address")
	}
	if !chain.ValidAddress(custodian) {
		return "", httperr.Validation("custodian_address is not a valid account address")
	}
	signer, err := chain.AccountFromHex(privateKey)
	if err != nil {
		return "", httperr.Validation("agent_private_key is not a valid ed25519 private key")
	}
	want, _ := chain.ParseAddress(agentAddress)
	if signer.Address() != want.String() {
		return "", httperr.Validation("agent_private_key does not match agent address")
	}
	return s.chain.AddCustodian(ctx, signer, custodian)
}

// Custodians reads the agent's custodian list. An agent with no Agent
// resource on chain maps to a not-found error.
func (s *Service) Custodians(ctx context.Context, agentAddress string) ([]string, error) {
	if !chain.ValidAddress(agentAddress) {
		return nil, httperr.Validation("agent address is not a valid account address")
	}
	custodians, err := s.chain.GetCustodians(ctx, agentAddress)
	if err != nil {
		if errors.Is(err, chain.ErrResourceAbsent) {
			return nil, httperr.NotFound("no agent registered at %s", agentAddress)
		}
		return nil, err
	}
	return custodians, nil
}
