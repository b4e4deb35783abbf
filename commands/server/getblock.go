package server

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody/errors"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

const (
	flagHeight = "height"
)

var cdc = amino.NewCodec()

func init() {
	ctypes.RegisterAmino(cdc)
}

func parseGetBlockArgs(args []string) (string, int64, error) {
	if len(args) == 0 {
		return "", 0, errors.Wrap(errors.ErrInvalidArgument, "usage: cmd getblock <path to blockstore.db> [-height=H]")
	}
	var height int64
	getBlockFlags := flag.NewFlagSet("getblock", flag.ExitOnError)
	getBlockFlags.Int64Var(&height, flagHeight, 0, "height of the block to extract (default latest)")
	err := getBlockFlags.Parse(args[1:])
	return args[0], height, err
}

// GetBlockCmd extracts a block from a blockstore.db and writes it as json
// to out. It takes the last block unless -height is explicitly specified.
func GetBlockCmd(out io.Writer, args []string) error {
	dbPath, height, err := parseGetBlockArgs(args)
	if err != nil {
		return err
	}
	db, err := openDb(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := blockchain.NewBlockStore(db)
	if height == 0 {
		height = store.Height()
	}
	return printBlock(out, store, height)
}

// openDb opens the leveldb stored in a directory named <name>.db
func openDb(dir string) (dbm.DB, error) {
	dir = strings.TrimSuffix(filepath.Clean(dir), string(filepath.Separator))
	if filepath.Ext(dir) != ".db" {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "database directory must end with .db")
	}
	name := strings.TrimSuffix(filepath.Base(dir), ".db")
	db, err := dbm.NewGoLevelDB(name, filepath.Dir(dir))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return db, nil
}

func printBlock(out io.Writer, store *blockchain.BlockStore, height int64) error {
	block := store.LoadBlock(height)
	if block == nil {
		return errors.Wrapf(errors.ErrNotFound, "no block for height: %d", height)
	}
	js, err := cdc.MarshalJSONIndent(block, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrDecoding, err.Error())
	}
	_, err = fmt.Fprintln(out, string(js))
	return err
}
