package system

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const optKey = "system"

// GenesisAccount is used to parse the json from genesis file
type GenesisAccount struct {
	Address  custody.Address `json:"address"`
	Lamports uint64          `json:"lamports"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse initial account balances and the rent
// configuration from genesis and save them to the database
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	var conf Configuration
	switch err := gconf.InitConfig(kv, opts, gconfPackage, &conf); {
	case err == nil, errors.ErrNotFound.Is(err):
		// defaults are used when not configured
	default:
		return err
	}

	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrDecoding, err.Error())
	}
	control := NewController(nil)
	for _, acct := range accts {
		if err := control.Mint(kv, acct.Address, acct.Lamports); err != nil {
			return errors.Wrapf(err, "account %s", acct.Address)
		}
	}
	return nil
}
