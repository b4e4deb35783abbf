package sigs

import (
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// instruction. Signatures are made over these bytes.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the
	// instruction.
	GetSignatures() []*StdSignature
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Pubkey) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

// Pubkey returns the key that made this signature.
func (s *StdSignature) PublicKey() crypto.PublicKey {
	return crypto.PublicKey(s.Pubkey)
}
