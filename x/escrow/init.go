package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// Initializer loads the escrow configuration from the genesis file.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis stores the "escrow" entry of the "conf" section. Without it
// the default configuration applies.
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(kv, opts, gconfPackage, &conf)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	return nil
}
