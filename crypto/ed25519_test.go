package crypto

import (
	"bytes"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
)

func TestEd25519Signing(t *testing.T) {
	private, err := GenPrivateKey()
	assert.Nil(t, err)
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig := private.Sign(msg)
	sig2 := private.Sign(msg2)
	if bytes.Equal(sig, sig2) {
		t.Fatal("different messages produce the same signature")
	}

	if !public.Verify(msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !public.Verify(msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if public.Verify(msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if public.Verify(msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}
	if PublicKey(nil).Verify(msg, sig) {
		t.Fatal("verified with an empty public key")
	}
}

func TestEd25519Address(t *testing.T) {
	private, err := GenPrivateKey()
	assert.Nil(t, err)
	addr := private.Address()
	assert.Nil(t, addr.Validate())
	assert.Equal(t, custody.Address(private.PublicKey()), addr)
	// addresses of signers are always valid curve points
	if !custody.IsOnCurve(addr) {
		t.Fatal("public key must be on the curve")
	}
}

func TestPrivateKeyFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := PrivateKeyFromSeed(seed)
	assert.Nil(t, err)
	b, err := ParsePrivateKey(a.Seed())
	assert.Nil(t, err)
	assert.Equal(t, a.Address(), b.Address())

	_, err = PrivateKeyFromSeed(seed[:5])
	assert.IsErr(t, errors.ErrInvalidArgument, err)
	_, err = ParsePrivateKey("not hex")
	assert.IsErr(t, errors.ErrDecoding, err)
}

func TestDeriveAccount(t *testing.T) {
	master := bytes.Repeat([]byte{1}, 64)

	first, err := DeriveAccount(master, 0)
	assert.Nil(t, err)
	again, err := DeriveAccount(master, 0)
	assert.Nil(t, err)
	second, err := DeriveAccount(master, 1)
	assert.Nil(t, err)

	assert.Equal(t, first.Address(), again.Address())
	if first.Address().Equals(second.Address()) {
		t.Fatal("different paths must derive different keys")
	}

	_, err = DeriveForPath(master, "m/44'/501'/0")
	assert.IsErr(t, errors.ErrInvalidArgument, err)
	_, err = DeriveAccount(master[:8], 0)
	assert.IsErr(t, errors.ErrInvalidArgument, err)
}
