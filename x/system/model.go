package system

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where accounts are stored.
const BucketName = "acct"

// Validate ensures the account is consistent.
func (a *Account) Validate() error {
	if a.Lamports == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "an account without lamports must not be stored")
	}
	if len(a.Owner) != 0 {
		if err := custody.Address(a.Owner).Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if len(a.Data) != 0 && len(a.Owner) == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "data without owner")
	}
	return nil
}

// OwnerAddress returns the program allowed to write the account data.
func (a *Account) OwnerAddress() custody.Address {
	return custody.Address(a.Owner)
}

// AccountBucket stores accounts keyed by address.
type AccountBucket struct {
	orm.Bucket
}

// NewAccountBucket returns a bucket for managing accounts.
func NewAccountBucket() AccountBucket {
	return AccountBucket{
		Bucket: orm.NewBucket(BucketName, &Account{}).
			WithIndex("owner", ownerIndexer),
	}
}

func ownerIndexer(m orm.Model) ([]byte, error) {
	acct, ok := m.(*Account)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, m)
	}
	// not indexed
	if len(acct.Owner) == 0 {
		return nil, nil
	}
	return acct.Owner, nil
}

// Get returns the account stored at the address. An address that was never
// funded is a zero account, it is never an error.
func (b AccountBucket) Get(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error) {
	var acct Account
	switch err := b.One(db, addr, &acct); {
	case err == nil:
		return &acct, nil
	case errors.ErrNotFound.Is(err):
		return &Account{}, nil
	default:
		return nil, err
	}
}

// Save writes the account. An account without lamports is removed, as a
// zero balance cannot be told apart from a missing account.
func (b AccountBucket) Save(db custody.KVStore, addr custody.Address, acct *Account) error {
	if acct.Lamports == 0 {
		err := b.Delete(db, addr)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}
	return b.Put(db, addr, acct)
}

// RegisterQuery will register this bucket as "/accounts"
func RegisterQuery(qr custody.QueryRouter) {
	NewAccountBucket().Register("accounts", qr)
}
