package custody

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/iov-one/custody/errors"
)

const (
	// MaxSeeds is the maximum number of seeds, the bump included, that can
	// be used to derive a program address.
	MaxSeeds = 16

	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	derivedAddressMarker = "ProgramDerivedAddress"
)

// IsOnCurve returns true if given bytes are a valid ed25519 point encoding,
// meaning that a private key may exist for it.
func IsOnCurve(b []byte) bool {
	if len(b) != AddressLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateProgramAddress hashes the seeds together with the program address.
// An error is returned when the seeds are malformed or when the digest is a
// valid curve point, in which case someone could hold a key for it.
func CreateProgramAddress(seeds [][]byte, program Address) (Address, error) {
	if err := validateSeeds(seeds); err != nil {
		return nil, err
	}
	if err := program.Validate(); err != nil {
		return nil, errors.Wrap(err, "program")
	}
	addr, ok := hashSeeds(seeds, program)
	if !ok {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "derived address is on the curve")
	}
	return addr, nil
}

// FindProgramAddress searches for the first bump, starting at 255 and going
// down, that makes the derived address fall off the curve. The result is a
// pure function of seeds and program.
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return nil, 0, errors.Wrapf(errors.ErrInvalidArgument, "too many seeds: %d", len(seeds))
	}
	if err := validateSeeds(seeds); err != nil {
		return nil, 0, err
	}
	if err := program.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "program")
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		if addr, ok := hashSeeds(withBump, program); ok {
			return addr, uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrap(errors.ErrNotFound, "no viable bump")
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errors.ErrInvalidArgument, "too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInvalidArgument, "seed %d too long: %d", i, len(s))
		}
	}
	return nil
}

func hashSeeds(seeds [][]byte, program Address) (Address, bool) {
	h := sha256.New()
	for _, s := range seeds {
		_, _ = h.Write(s)
	}
	_, _ = h.Write(program)
	_, _ = h.Write([]byte(derivedAddressMarker))
	sum := h.Sum(nil)
	if IsOnCurve(sum) {
		return nil, false
	}
	return Address(sum), true
}

// DerivedAuthority proves that a program knows the seeds of an address it
// derived. It is the only way for a program to act for an address without a
// private key.
//
// Values can only be created by DeriveAuthority and ProveAuthority. They
// cannot be serialized and a zero value authorizes nothing.
type DerivedAuthority struct {
	program Address
	seeds   [][]byte
	bump    uint8
	address Address
}

// DeriveAuthority finds the canonical bump for the seeds and returns the
// authority over the resulting address.
func DeriveAuthority(program Address, seeds ...[]byte) (DerivedAuthority, error) {
	addr, bump, err := FindProgramAddress(seeds, program)
	if err != nil {
		return DerivedAuthority{}, err
	}
	return newDerivedAuthority(program, seeds, bump, addr), nil
}

// ProveAuthority re-derives the address for the seeds and the given bump. It
// fails if that combination lands on the curve. It does not check that bump
// is the canonical one, compare with FindProgramAddress when that matters.
func ProveAuthority(program Address, bump uint8, seeds ...[]byte) (DerivedAuthority, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	withBump[len(seeds)] = []byte{bump}
	addr, err := CreateProgramAddress(withBump, program)
	if err != nil {
		return DerivedAuthority{}, err
	}
	return newDerivedAuthority(program, seeds, bump, addr), nil
}

func newDerivedAuthority(program Address, seeds [][]byte, bump uint8, addr Address) DerivedAuthority {
	cpy := make([][]byte, len(seeds))
	for i, s := range seeds {
		cpy[i] = append([]byte(nil), s...)
	}
	return DerivedAuthority{
		program: program.Clone(),
		seeds:   cpy,
		bump:    bump,
		address: addr,
	}
}

// Address returns the address this authority acts for.
func (d DerivedAuthority) Address() Address {
	return d.address.Clone()
}

// Program returns the program that derived the address.
func (d DerivedAuthority) Program() Address {
	return d.program.Clone()
}

// Bump returns the disambiguation nonce used in the derivation.
func (d DerivedAuthority) Bump() uint8 {
	return d.bump
}

// Grants returns true if this authority was derived by the given program for
// the given address.
func (d DerivedAuthority) Grants(program, addr Address) bool {
	if d.address.Validate() != nil {
		return false
	}
	return d.program.Equals(program) && d.address.Equals(addr)
}

// String never reveals the seeds.
func (d DerivedAuthority) String() string {
	return fmt.Sprintf("DerivedAuthority(%s)", d.address)
}

// MarshalJSON always fails. An authority is only valid inside the invocation
// that derived it.
func (d DerivedAuthority) MarshalJSON() ([]byte, error) {
	return nil, errors.Wrap(errors.ErrHuman, "derived authority cannot be serialized")
}
