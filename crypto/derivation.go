package crypto

import (
	"fmt"

	"github.com/iov-one/custody/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// AccountPathFormat is the SLIP-0010 path of the n-th account key.
const AccountPathFormat = "m/44'/501'/%d'"

// DeriveForPath derives the private key for the given hardened path from a
// master seed.
func DeriveForPath(seed []byte, path string) (*PrivateKey, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "master seed length %d", len(seed))
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "path %q: %s", path, err)
	}
	return PrivateKeyFromSeed(k.Key)
}

// DeriveAccount derives the n-th account key from a master seed.
func DeriveAccount(seed []byte, n uint32) (*PrivateKey, error) {
	return DeriveForPath(seed, fmt.Sprintf(AccountPathFormat, n))
}
