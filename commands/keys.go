package commands

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
)

// KeysCmd manages ed25519 account keys. It understands three sub commands:
//
//	new                          generate a random key
//	show <seed>                  print the address of a hex encoded key seed
//	derive -n N <master seed>    derive the n-th account key of a master seed
func KeysCmd(out io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.Wrap(errors.ErrInvalidArgument, "usage: keys new|show|derive")
	}
	switch cmd, rest := args[0], args[1:]; cmd {
	case "new":
		key, err := crypto.GenPrivateKey()
		if err != nil {
			return err
		}
		return printKey(out, key)
	case "show":
		if len(rest) != 1 {
			return errors.Wrap(errors.ErrInvalidArgument, "usage: keys show <seed>")
		}
		key, err := crypto.ParsePrivateKey(rest[0])
		if err != nil {
			return err
		}
		return printKey(out, key)
	case "derive":
		return deriveKey(out, rest)
	default:
		return errors.Wrapf(errors.ErrInvalidArgument, "unknown keys command: %s", cmd)
	}
}

func deriveKey(out io.Writer, args []string) error {
	var n uint
	fl := flag.NewFlagSet("derive", flag.ContinueOnError)
	fl.SetOutput(out)
	fl.UintVar(&n, "n", 0, "index of the account to derive")
	if err := fl.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	if fl.NArg() != 1 {
		return errors.Wrap(errors.ErrInvalidArgument, "usage: keys derive -n N <master seed>")
	}
	master, err := hex.DecodeString(fl.Arg(0))
	if err != nil {
		return errors.Wrap(errors.ErrDecoding, "hex master seed")
	}
	key, err := crypto.DeriveAccount(master, uint32(n))
	if err != nil {
		return err
	}
	return printKey(out, key)
}

func printKey(out io.Writer, key *crypto.PrivateKey) error {
	_, err := fmt.Fprintf(out, "address: %s\nseed:    %s\n", key.Address(), key.Seed())
	return err
}
