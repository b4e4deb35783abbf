package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/commands/server"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/system"
	"github.com/iov-one/custody/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
)

// genesisLamports is the balance given to the account created by init.
const genesisLamports = 1000000000000

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// The first argument is the address to fund. When missing a new key is
// generated and its seed printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr custody.Address
	if len(args) > 0 {
		a, err := custody.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		key, err := crypto.GenPrivateKey()
		if err != nil {
			return nil, err
		}
		addr = key.Address()
		fmt.Printf("address: %s\nseed:    %s\n", addr, key.Seed())
	}

	rent := system.DefaultConfiguration()
	state := map[string]interface{}{
		"system": []system.GenesisAccount{
			{Address: addr, Lamports: genesisLamports},
		},
		"token": token.Genesis{
			Mints:    []token.GenesisMint{},
			Holdings: []token.GenesisHolding{},
		},
		"conf": map[string]interface{}{
			"system": &rent,
			"escrow": &escrow.Configuration{StrictTerms: true},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

// Initializers returns the genesis loaders of all programs. System must
// run first as the rent of every other account depends on it.
func Initializers() custody.Initializer {
	return custody.ChainInitializers(
		system.Initializer{},
		token.Initializer{},
		escrow.Initializer{},
	)
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "custody.db")
	}

	stack, err := Stack(options.Registry)
	if err != nil {
		return nil, err
	}
	application, err := Application("custodyd", stack, TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(options.Logger)
	return application, nil
}
