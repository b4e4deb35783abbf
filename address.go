package custody

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/custody/crypto/bech32"
	"github.com/iov-one/custody/errors"
)

// AddressLength is the length of all addresses. Signer addresses are ed25519
// public keys, derived addresses are sha256 digests that are not valid curve
// points.
const AddressLength = 32

// Address identifies an account on the ledger.
type Address []byte

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Clone returns an independent copy of the address.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	cpy := make(Address, len(a))
	copy(cpy, a)
	return cpy
}

// String returns the base58 representation of the address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return base58.Encode(a)
}

// Validate returns an error if the address is not the valid size
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInvalidArgument, "address length %d", len(a))
	}
	return nil
}

// MarshalJSON provides a base58 representation for JSON,
// to override the standard base64 []byte encoding
func (a Address) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts the formats understood by ParseAddress.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrDecoding, "cannot decode json")
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes an address from its human readable form. The default
// encoding is base58. A "hex:" or "bech32:" prefix selects another format.
// An empty string decodes to a nil address.
func ParseAddress(enc string) (Address, error) {
	chunks := strings.SplitN(enc, ":", 2)
	format := "base58"
	if len(chunks) == 2 {
		format, enc = chunks[0], chunks[1]
	}
	if len(enc) == 0 {
		return nil, nil
	}

	var raw []byte
	switch format {
	case "base58":
		raw = base58.Decode(enc)
		if len(raw) == 0 {
			return nil, errors.Wrap(errors.ErrDecoding, "invalid base58")
		}
	case "hex":
		val, err := hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDecoding, "cannot decode hex")
		}
		raw = val
	case "bech32":
		_, payload, err := bech32.Decode(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrDecoding, "bech32: %s", err)
		}
		raw = payload
	default:
		return nil, errors.Wrapf(errors.ErrInvalidType, "unknown format %q", format)
	}

	addr := Address(raw)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on error. Use it only for
// constants known at compile time.
func MustParseAddress(enc string) Address {
	addr, err := ParseAddress(enc)
	if err != nil {
		panic(err)
	}
	return addr
}

// NewProgramID returns the well known address of a built-in program.
func NewProgramID(name string) Address {
	sum := sha256.Sum256([]byte("program:" + name))
	return Address(sum[:])
}
