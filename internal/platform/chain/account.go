package chain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/crypto"
)

// Account wraps an Aptos ed25519 account used to sign entry-function calls.
type Account struct {
	inner *aptos.Account
}

// GenerateAccount creates a fresh ed25519 keypair.
func GenerateAccount() (*Account, error) {
	acct, err := aptos.NewEd25519Account()
	if err != nil {
		return nil, fmt.Errorf("generate account: %w", err)
	}
	return &Account{inner: acct}, nil
}

// AccountFromHex loads an account from a hex-encoded ed25519 private key,
// with or without the 0x prefix.
func AccountFromHex(privateKeyHex string) (*Account, error) {
	key := &crypto.Ed25519PrivateKey{}
	if err := key.FromHex(privateKeyHex); err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	acct, err := aptos.NewAccountFromSigner(key)
	if err != nil {
		return nil, fmt.Errorf("derive account: %w", err)
	}
	return &Account{inner: acct}, nil
}

// Address returns the account address in hex form.
func (a *Account) Address() string {
	return a.inner.Address.String()
}

// PublicKeyHex returns the hex-encoded public key.
func (a *Account) PublicKeyHex() string {
	return a.inner.Signer.PubKey().ToHex()
}

// PrivateKeyHex returns the hex-encoded private key. Exposed because agent
// creation hands the generated keypair back to the caller.
func (a *Account) PrivateKeyHex() string {
	if key, ok := a.inner.Signer.(*crypto.Ed25519PrivateKey); ok {
		return key.ToHex()
	}
	return ""
}

// ParseAddress validates a hex account address and returns its canonical
// SDK representation.
func ParseAddress(s string) (aptos.AccountAddress, error) {
	var addr aptos.AccountAddress
	if err := addr.ParseStringRelaxed(s); err != nil {
		return addr, fmt.Errorf("parse address %q: %w", s, err)
	}
	return addr, nil
}

// ValidAddress reports whether s is a well-formed account address.
func ValidAddress(s string) bool {
	_, err := ParseAddress(s)
	return err == nil
}

// ParseHexBytes decodes a hex string (optionally 0x-prefixed) into raw
// bytes. Used for data hashes supplied by clients.
func ParseHexBytes(s string) ([]byte, error) {
	trimmed := strings.TrimPrefix(s, "0x")
	if trimmed == "" {
		return nil, fmt.Errorf("empty hex string")
	}
	if len(trimmed)%2 != 0 {
		trimmed = "0" + trimmed
	}
	b, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("decode hex %q: %w", s, err)
	}
	return b, nil
}
