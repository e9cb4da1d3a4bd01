// Package chain is the adapter for the on-chain Agent, Relationship and
// MedicalRecord modules. Each write operation builds one typed entry-function
// call, signs it with the caller-supplied account, submits it, and returns
// the transaction hash. Read operations fetch an account resource and
// extract one field, with an explicit signal when the resource is absent.
package chain

import (
	"context"
	"errors"
)

// Agent types, matching the on-chain u8 encoding.
const (
	AgentTypePatient  uint8 = 0
	AgentTypeProvider uint8 = 1
)

// Record types, matching the on-chain u8 encoding.
const (
	RecordTypeGeneral      uint8 = 0
	RecordTypeLab          uint8 = 1
	RecordTypePrescription uint8 = 2
	RecordTypeImaging      uint8 = 3
)

var (
	// ErrResourceAbsent signals that the account holds no resource of the
	// requested type, as opposed to a resource with an empty field.
	ErrResourceAbsent = errors.New("account has no such resource")
	// ErrRecordNotFound signals that the patient's record set exists but
	// contains no record with the requested id.
	ErrRecordNotFound = errors.New("record not found")
)

// Record is a medical record entry as stored on chain.
type Record struct {
	ID              uint64 `json:"id"`
	PatientAddress  string `json:"patient_address"`
	ProviderAddress string `json:"provider_address"`
	DataHash        string `json:"data_hash"`
	Timestamp       uint64 `json:"timestamp"`
	RecordType      uint8  `json:"record_type"`
	IsActive        bool   `json:"is_active"`
}

// Client is the contract surface the domain services depend on. The
// production implementation talks to an Aptos node; tests substitute a mock.
//
// Whether a write waits for execution before returning is a single
// client-wide policy; when waiting is enabled a rejected transaction
// surfaces the chain's stated reason.
type Client interface {
	CreateAgent(ctx context.Context, signer *Account, agentType uint8) (txHash string, err error)
	AddCustodian(ctx context.Context, signer *Account, custodian string) (txHash string, err error)
	CreateRelationship(ctx context.Context, signer *Account, provider string) (txHash string, err error)
	AddViewer(ctx context.Context, signer *Account, viewer string) (txHash string, err error)
	AddRecord(ctx context.Context, signer *Account, patient string, dataHash []byte, recordType uint8) (txHash string, err error)
	UpdateRecordStatus(ctx context.Context, signer *Account, patient string, recordID uint64, active bool) (txHash string, err error)

	GetCustodians(ctx context.Context, agent string) ([]string, error)
	GetViewers(ctx context.Context, patient, provider string) ([]string, error)
	GetRecord(ctx context.Context, patient string, recordID uint64) (*Record, error)

	FundAccount(ctx context.Context, address string) error
}
