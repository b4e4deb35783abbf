package token

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/system"
)

const optKey = "token"

// GenesisMint is used to parse a mint from the genesis file.
type GenesisMint struct {
	Address   custody.Address `json:"address"`
	Authority custody.Address `json:"authority"`
	Decimals  uint32          `json:"decimals"`
}

// GenesisHolding is used to parse a balance from the genesis file. The
// holding address is derived from the owner and the mint.
type GenesisHolding struct {
	Owner  custody.Address `json:"owner"`
	Mint   custody.Address `json:"mint"`
	Amount uint64          `json:"amount"`
}

// Genesis is the content of the "token" genesis key.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Holdings []GenesisHolding `json:"holdings"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file. It must run after the system initializer, as the rent
// of every account is computed from the system configuration.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis creates the mints and the holdings listed in genesis. Every
// account is given its rent exempt balance.
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrap(errors.ErrDecoding, err.Error())
	}

	accounts := system.NewAccountBucket()
	mints := NewMintBucket()
	holdings := NewHoldingBucket()

	for _, m := range gen.Mints {
		if err := m.Address.Validate(); err != nil {
			return errors.Wrap(err, "mint address")
		}
		if err := fundAccount(kv, accounts, m.Address, MintSize); err != nil {
			return errors.Wrapf(err, "mint %s", m.Address)
		}
		mint := &Mint{Authority: m.Authority, Decimals: m.Decimals}
		if err := mints.Put(kv, m.Address, mint); err != nil {
			return errors.Wrapf(err, "mint %s", m.Address)
		}
	}

	for _, h := range gen.Holdings {
		mint, err := mints.Get(kv, h.Mint)
		if err != nil {
			return errors.Wrapf(err, "holding mint %s", h.Mint)
		}
		addr, err := HoldingAddress(h.Owner, h.Mint)
		if err != nil {
			return err
		}
		if err := fundAccount(kv, accounts, addr, HoldingSize); err != nil {
			return errors.Wrapf(err, "holding %s", addr)
		}
		if err := holdings.Put(kv, addr, &Holding{Mint: h.Mint, Owner: h.Owner, Amount: h.Amount}); err != nil {
			return errors.Wrapf(err, "holding %s", addr)
		}
		mint.Supply += h.Amount
		if mint.Supply < h.Amount {
			return errors.Wrapf(errors.ErrOverflow, "supply of %s", h.Mint)
		}
		if err := mints.Put(kv, h.Mint, mint); err != nil {
			return err
		}
	}
	return nil
}

func fundAccount(kv custody.KVStore, accounts system.AccountBucket, addr custody.Address, size uint64) error {
	existing, err := accounts.Get(kv, addr)
	if err != nil {
		return err
	}
	if existing.Lamports != 0 {
		return errors.Wrap(errors.ErrDuplicate, "account exists")
	}
	lamports, err := system.MinimumBalance(kv, size)
	if err != nil {
		return err
	}
	return accounts.Save(kv, addr, &system.Account{Lamports: lamports, Owner: ProgramID})
}
