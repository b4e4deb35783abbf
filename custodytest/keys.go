package custodytest

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
)

// NewKey returns a new random signing key.
func NewKey(t testing.TB) *crypto.PrivateKey {
	t.Helper()
	key, err := crypto.GenPrivateKey()
	if err != nil {
		t.Fatalf("cannot generate key: %s", err)
	}
	return key
}

// RandomAddr returns the address of a new random key. It is always a valid
// curve point, like the address of any real signer.
func RandomAddr(t testing.TB) custody.Address {
	t.Helper()
	return NewKey(t).Address()
}

// RandomProgram returns a random address to register a program under.
func RandomProgram(t testing.TB) custody.Address {
	t.Helper()
	addr := make(custody.Address, custody.AddressLength)
	if _, err := rand.Read(addr); err != nil {
		t.Fatalf("cannot read random data: %s", err)
	}
	return addr
}

// SequenceAddr returns a deterministic address built from n. It is useful
// when a test needs a stable, readable value.
func SequenceAddr(n uint64) custody.Address {
	addr := make(custody.Address, custody.AddressLength)
	binary.BigEndian.PutUint64(addr[custody.AddressLength-8:], n)
	return addr
}
