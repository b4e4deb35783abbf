package sigs

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the signers
const BucketName = "sigs"

// Validate ensures the user data is consistent.
func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if err := custody.Address(u.Pubkey).Validate(); err != nil {
		return errors.Wrap(err, "pubkey")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}

	// The greatest supported nonce value at client side is
	//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
	const maxSequenceValue = (1 << 53) - 1
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData keyed by the signer address.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket for managing signers
func NewBucket() Bucket {
	return Bucket{orm.NewBucket(BucketName, &UserData{})}
}

// GetOrCreate loads the signer data or initializes a new one with sequence
// zero. The result is not saved.
func (b Bucket) GetOrCreate(db custody.ReadOnlyKVStore, pubkey []byte) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey, &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// NextSequence returns the sequence the signer must use next.
func NextSequence(db custody.ReadOnlyKVStore, addr custody.Address) (int64, error) {
	user, err := NewBucket().GetOrCreate(db, addr)
	if err != nil {
		return 0, err
	}
	return user.Sequence, nil
}

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("auth", qr)
}
