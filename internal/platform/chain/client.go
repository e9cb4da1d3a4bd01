package chain

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/bcs"
	"github.com/rs/zerolog"

	"github.com/medrec/medrec/internal/platform/httperr"
)

// faucetAmount is the octa amount newly created accounts are funded with on
// devnet/testnet.
const faucetAmount = 100_000_000

// Config configures the node client.
type Config struct {
	NodeURL         string
	FaucetURL       string
	ContractAddress string
	// WaitFinality selects the uniform submission policy: when true every
	// write waits for execution and surfaces on-chain rejection; when false
	// every write returns right after submission.
	WaitFinality bool
}

// NodeClient implements Client against an Aptos fullnode.
type NodeClient struct {
	client       *aptos.Client
	contract     aptos.AccountAddress
	waitFinality bool
	logger       zerolog.Logger
}

func NewNodeClient(cfg Config, logger zerolog.Logger) (*NodeClient, error) {
	contract, err := ParseAddress(cfg.ContractAddress)
	if err != nil {
		return nil, fmt.Errorf("contract address: %w", err)
	}

	client, err := aptos.NewClient(aptos.NetworkConfig{
		Name:      "medrec",
		NodeUrl:   cfg.NodeURL,
		FaucetUrl: cfg.FaucetURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create aptos client: %w", err)
	}

	return &NodeClient{
		client:       client,
		contract:     contract,
		waitFinality: cfg.WaitFinality,
		logger:       logger,
	}, nil
}

// submit signs and submits one entry-function call and applies the finality
// policy. The SDK's methods take no context, so an expired request deadline
// ends the HTTP response but not an in-flight node call.
func (c *NodeClient) submit(ctx context.Context, signer *Account, module, function string, args [][]byte) (string, error) {
	payload := aptos.TransactionPayload{
		Payload: &aptos.EntryFunction{
			Module:   aptos.ModuleId{Address: c.contract, Name: module},
			Function: function,
			ArgTypes: []aptos.TypeTag{},
			Args:     args,
		},
	}

	resp, err := c.client.BuildSignAndSubmitTransaction(signer.inner, payload)
	if err != nil {
		return "", httperr.Upstream(err, "submit %s::%s", module, function)
	}

	c.logger.Info().
		Str("module", module).
		Str("function", function).
		Str("tx_hash", resp.Hash).
		Str("sender", signer.Address()).
		Msg("transaction submitted")

	if !c.waitFinality {
		return resp.Hash, nil
	}

	txn, err := c.client.WaitForTransaction(resp.Hash)
	if err != nil {
		return "", httperr.Upstream(err, "wait for %s::%s", module, function)
	}
	if !txn.Success {
		return "", httperr.TxRejected(txn.VmStatus)
	}
	return resp.Hash, nil
}

func (c *NodeClient) CreateAgent(ctx context.Context, signer *Account, agentType uint8) (string, error) {
	typeArg, err := bcs.SerializeU8(agentType)
	if err != nil {
		return "", fmt.Errorf("serialize agent type: %w", err)
	}
	return c.submit(ctx, signer, "Agent", "create_agent", [][]byte{typeArg})
}

func (c *NodeClient) AddCustodian(ctx context.Context, signer *Account, custodian string) (string, error) {
	addrArg, err := serializeAddress(custodian)
	if err != nil {
		return "", err
	}
	return c.submit(ctx, signer, "Agent", "add_custodian", [][]byte{addrArg})
}

func (c *NodeClient) CreateRelationship(ctx context.Context, signer *Account, provider string) (string, error) {
	addrArg, err := serializeAddress(provider)
	if err != nil {
		return "", err
	}
	return c.submit(ctx, signer, "Relationship", "create_relationship", [][]byte{addrArg})
}

func (c *NodeClient) AddViewer(ctx context.Context, signer *Account, viewer string) (string, error) {
	addrArg, err := serializeAddress(viewer)
	if err != nil {
		return "", err
	}
	return c.submit(ctx, signer, "Relationship", "add_viewer", [][]byte{addrArg})
}

func (c *NodeClient) AddRecord(ctx context.Context, signer *Account, patient string, dataHash []byte, recordType uint8) (string, error) {
	patientArg, err := serializeAddress(patient)
	if err != nil {
		return "", err
	}
	hashArg, err := bcs.SerializeBytes(dataHash)
	if err != nil {
		return "", fmt.Errorf("serialize data hash: %w", err)
	}
	typeArg, err := bcs.SerializeU8(recordType)
	if err != nil {
		return "", fmt.Errorf("serialize record type: %w", err)
	}
	return c.submit(ctx, signer, "MedicalRecord", "add_record", [][]byte{patientArg, hashArg, typeArg})
}

func (c *NodeClient) UpdateRecordStatus(ctx context.Context, signer *Account, patient string, recordID uint64, active bool) (string, error) {
	patientArg, err := serializeAddress(patient)
	if err != nil {
		return "", err
	}
	idArg, err := bcs.SerializeU64(recordID)
	if err != nil {
		return "", fmt.Errorf("serialize record id: %w", err)
	}
	activeArg, err := bcs.SerializeBool(active)
	if err != nil {
		return "", fmt.Errorf("serialize active flag: %w", err)
	}
	return c.submit(ctx, signer, "MedicalRecord", "update_record_status", [][]byte{patientArg, idArg, activeArg})
}

// -- Reads --

func (c *NodeClient) GetCustodians(ctx context.Context, agent string) ([]string, error) {
	data, err := c.resource(agent, "Agent", "Agent")
	if err != nil {
		return nil, err
	}
	return stringList(data["custodians"]), nil
}

func (c *NodeClient) GetViewers(ctx context.Context, patient, provider string) ([]string, error) {
	data, err := c.resource(patient, "Relationship", "Relationships")
	if err != nil {
		return nil, err
	}

	providerAddr, err := ParseAddress(provider)
	if err != nil {
		return nil, httperr.Validation("invalid provider address")
	}

	relationships, _ := data["relationships"].(map[string]any)
	for key, value := range relationships {
		keyAddr, err := ParseAddress(key)
		if err != nil || keyAddr != providerAddr {
			continue
		}
		rel, _ := value.(map[string]any)
		return stringList(rel["viewers"]), nil
	}
	return []string{}, nil
}

func (c *NodeClient) GetRecord(ctx context.Context, patient string, recordID uint64) (*Record, error) {
	data, err := c.resource(patient, "MedicalRecord", "PatientRecords")
	if err != nil {
		return nil, err
	}

	records, _ := data["records"].(map[string]any)
	raw, ok := records[strconv.FormatUint(recordID, 10)]
	if !ok {
		return nil, ErrRecordNotFound
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, httperr.Upstream(fmt.Errorf("record %d has unexpected shape", recordID), "malformed on-chain record")
	}

	return &Record{
		ID:              asUint64(fields["id"]),
		PatientAddress:  asString(fields["patient_address"]),
		ProviderAddress: asString(fields["provider_address"]),
		DataHash:        asString(fields["data_hash"]),
		Timestamp:       asUint64(fields["timestamp"]),
		RecordType:      uint8(asUint64(fields["record_type"])),
		IsActive:        asBool(fields["is_active"]),
	}, nil
}

func (c *NodeClient) FundAccount(ctx context.Context, address string) error {
	addr, err := ParseAddress(address)
	if err != nil {
		return httperr.Validation("invalid address")
	}
	if err := c.client.Fund(addr, faucetAmount); err != nil {
		return httperr.Upstream(err, "faucet funding failed")
	}
	return nil
}

// resource fetches one account resource and unwraps its data map. A missing
// resource maps to ErrResourceAbsent so callers can tell "no resource" from
// "resource with an empty field".
func (c *NodeClient) resource(address, module, name string) (map[string]any, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return nil, httperr.Validation("invalid address %q", address)
	}

	resourceType := fmt.Sprintf("%s::%s::%s", c.contract.String(), module, name)
	res, err := c.client.AccountResource(addr, resourceType)
	if err != nil {
		if isResourceNotFound(err) {
			return nil, ErrResourceAbsent
		}
		return nil, httperr.Upstream(err, "fetch resource %s", resourceType)
	}

	if data, ok := res["data"].(map[string]any); ok {
		return data, nil
	}
	return res, nil
}

// isResourceNotFound matches the node's 404 for absent resources or
// accounts. The REST error shape is not typed by the SDK, so this is a
// best-effort string check.
func isResourceNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "resource_not_found") ||
		strings.Contains(msg, "account_not_found") ||
		strings.Contains(msg, "404")
}

// -- JSON field helpers: the node renders u64 as string and addresses in
// short hex form. --

func serializeAddress(address string) ([]byte, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return nil, httperr.Validation("invalid address %q", address)
	}
	out, err := bcs.Serialize(&addr)
	if err != nil {
		return nil, fmt.Errorf("serialize address: %w", err)
	}
	return out, nil
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asUint64(v any) uint64 {
	switch value := v.(type) {
	case string:
		n, _ := strconv.ParseUint(value, 10, 64)
		return n
	case float64:
		return uint64(value)
	case uint64:
		return value
	default:
		return 0
	}
}
