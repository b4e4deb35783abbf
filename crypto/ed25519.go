package crypto

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is an ed25519 public key. It doubles as an account address.
type PublicKey []byte

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Address returns the account address controlled by this key.
func (p PublicKey) Address() custody.Address {
	return custody.Address(p).Clone()
}

// PrivateKey is an ed25519 signing key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenPrivateKey generates a new random private key.
func GenPrivateKey() (*PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromSeed restores a private key from its 32 byte seed.
func PrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "seed length %d", len(seed))
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// ParsePrivateKey restores a private key from its hex encoded seed.
func ParsePrivateKey(enc string) (*PrivateKey, error) {
	seed, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDecoding, "hex seed")
	}
	return PrivateKeyFromSeed(seed)
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(p.key, message)
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() PublicKey {
	pub := p.key.Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// Address returns the account address controlled by this key.
func (p *PrivateKey) Address() custody.Address {
	return p.PublicKey().Address()
}

// Seed returns the hex encoded seed this key can be restored from.
func (p *PrivateKey) Seed() string {
	return hex.EncodeToString(p.key.Seed())
}
