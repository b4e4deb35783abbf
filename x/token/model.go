package token

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const (
	// MintSize is the size the rent of a mint account is computed for.
	MintSize = 82
	// HoldingSize is the size the rent of a holding account is computed
	// for.
	HoldingSize = 165

	// MaxDecimals is the highest precision a mint can use.
	MaxDecimals = 18
)

// Validate ensures the mint is consistent.
func (m *Mint) Validate() error {
	if err := custody.Address(m.Authority).Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if m.Decimals > MaxDecimals {
		return errors.Wrapf(errors.ErrInvalidArgument, "decimals %d", m.Decimals)
	}
	return nil
}

// Validate ensures the holding is consistent.
func (h *Holding) Validate() error {
	if err := custody.Address(h.Mint).Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := custody.Address(h.Owner).Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

// MintBucket stores mints keyed by the mint address.
type MintBucket struct {
	orm.Bucket
}

// NewMintBucket returns a bucket for managing mints.
func NewMintBucket() MintBucket {
	return MintBucket{orm.NewBucket("mint", &Mint{})}
}

// Get loads the mint, ErrNotFound if there is none at this address.
func (b MintBucket) Get(db custody.ReadOnlyKVStore, addr custody.Address) (*Mint, error) {
	var m Mint
	if err := b.One(db, addr, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// HoldingBucket stores holdings keyed by the holding address.
type HoldingBucket struct {
	orm.Bucket
}

// NewHoldingBucket returns a bucket for managing holdings, indexed by owner.
func NewHoldingBucket() HoldingBucket {
	return HoldingBucket{
		Bucket: orm.NewBucket("hold", &Holding{}).
			WithIndex("owner", holdingOwnerIndexer),
	}
}

func holdingOwnerIndexer(m orm.Model) ([]byte, error) {
	h, ok := m.(*Holding)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, m)
	}
	return h.Owner, nil
}

// Get loads the holding, ErrNotFound if there is none at this address.
func (b HoldingBucket) Get(db custody.ReadOnlyKVStore, addr custody.Address) (*Holding, error) {
	var h Holding
	if err := b.One(db, addr, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ByOwner returns the addresses of all holdings of the owner.
func (b HoldingBucket) ByOwner(db custody.ReadOnlyKVStore, owner custody.Address) ([]custody.Address, error) {
	idx, err := b.Index("owner")
	if err != nil {
		return nil, err
	}
	keys, err := idx.Keys(db, owner)
	if err != nil {
		return nil, err
	}
	res := make([]custody.Address, len(keys))
	for i, k := range keys {
		res[i] = custody.Address(k)
	}
	return res, nil
}

// RegisterQuery will register the buckets as "/mints" and "/holdings"
func RegisterQuery(qr custody.QueryRouter) {
	NewMintBucket().Register("mints", qr)
	NewHoldingBucket().Register("holdings", qr)
}
