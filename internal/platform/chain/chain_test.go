package chain

import (
	"bytes"
	"testing"
)

func TestGenerateAccount(t *testing.T) {
	acct, err := GenerateAccount()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acct.Address() == "" {
		t.Error("expected non-empty address")
	}
	if acct.PublicKeyHex() == "" {
		t.Error("expected non-empty public key")
	}
	if acct.PrivateKeyHex() == "" {
		t.Error("expected non-empty private key")
	}
}

func TestAccountFromHex_RoundTrip(t *testing.T) {
	acct, err := GenerateAccount()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored, err := AccountFromHex(acct.PrivateKeyHex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.Address() != acct.Address() {
		t.Errorf("restored address %s differs from original %s", restored.Address(), acct.Address())
	}
	if restored.PublicKeyHex() != acct.PublicKeyHex() {
		t.Error("restored public key differs from original")
	}
}

func TestAccountFromHex_Invalid(t *testing.T) {
	if _, err := AccountFromHex("not-hex"); err == nil {
		t.Error("expected error for malformed private key")
	}
	if _, err := AccountFromHex(""); err == nil {
		t.Error("expected error for empty private key")
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.String() == "" {
		t.Error("expected canonical string form")
	}

	if _, err := ParseAddress("zz-not-an-address"); err == nil {
		t.Error("expected error for malformed address")
	}
	if !ValidAddress("0x1") {
		t.Error("expected 0x1 to be valid")
	}
	if ValidAddress("nope") {
		t.Error("expected 'nope' to be invalid")
	}
}

func TestParseHexBytes(t *testing.T) {
	got, err := ParseHexBytes("0xabc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, []byte{0xab, 0xc1, 0x23}) {
		t.Errorf("unexpected bytes %x", got)
	}

	if _, err := ParseHexBytes(""); err == nil {
		t.Error("expected error for empty string")
	}
	if _, err := ParseHexBytes("0x"); err == nil {
		t.Error("expected error for bare prefix")
	}
	if _, err := ParseHexBytes("xyz"); err == nil {
		t.Error("expected error for non-hex input")
	}
}

func TestParseHexBytes_OddLength(t *testing.T) {
	got, err := ParseHexBytes("0xabc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, []byte{0x0a, 0xbc}) {
		t.Errorf("expected left-padded decode, got %x", got)
	}
}

func TestSerializeAddress(t *testing.T) {
	out, err := serializeAddress("0x1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// BCS encodes an account address as exactly 32 raw bytes.
	if len(out) != 32 {
		t.Errorf("expected 32-byte BCS address, got %d", len(out))
	}

	if _, err := serializeAddress("bogus"); err == nil {
		t.Error("expected error for malformed address")
	}
}

func TestAsUint64(t *testing.T) {
	cases := []struct {
		in   any
		want uint64
	}{
		{"42", 42},
		{float64(7), 7},
		{uint64(9), 9},
		{nil, 0},
		{"not-a-number", 0},
	}
	for _, tc := range cases {
		if got := asUint64(tc.in); got != tc.want {
			t.Errorf("asUint64(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestStringList(t *testing.T) {
	got := stringList([]any{"0xa", "0xb", 3})
	if len(got) != 2 || got[0] != "0xa" || got[1] != "0xb" {
		t.Errorf("unexpected list %v", got)
	}
	if got := stringList(nil); len(got) != 0 {
		t.Errorf("expected empty list for nil, got %v", got)
	}
}

func TestIsResourceNotFound(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"API error: resource_not_found", true},
		{"API error: account_not_found", true},
		{"unexpected status 404", true},
		{"connection refused", false},
	}
	for _, tc := range cases {
		err := &testError{tc.msg}
		if got := isResourceNotFound(err); got != tc.want {
			t.Errorf("isResourceNotFound(%q) = %v, want %v", tc.msg, got, tc.want)
		}
	}
}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
