package commands

import (
	"fmt"
	"io"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/token"
)

// DeriveCmd prints program derived addresses:
//
//	escrow <mint>             escrow account and bump for an asset
//	holding <owner> <mint>    holding account of an owner for an asset
func DeriveCmd(out io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.Wrap(errors.ErrInvalidArgument, "usage: derive escrow|holding")
	}
	cmd, rest := args[0], args[1:]
	addrs, err := parseAddresses(rest)
	if err != nil {
		return err
	}

	switch cmd {
	case "escrow":
		if len(addrs) != 1 {
			return errors.Wrap(errors.ErrInvalidArgument, "usage: derive escrow <mint>")
		}
		addr, bump, err := escrow.Address(escrow.ProgramID, addrs[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "escrow: %s\nbump:   %d\n", addr, bump)
		return err
	case "holding":
		if len(addrs) != 2 {
			return errors.Wrap(errors.ErrInvalidArgument, "usage: derive holding <owner> <mint>")
		}
		addr, err := token.HoldingAddress(addrs[0], addrs[1])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "holding: %s\n", addr)
		return err
	default:
		return errors.Wrapf(errors.ErrInvalidArgument, "unknown derive command: %s", cmd)
	}
}

func parseAddresses(args []string) ([]custody.Address, error) {
	addrs := make([]custody.Address, len(args))
	for i, a := range args {
		addr, err := custody.ParseAddress(a)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
		if addr == nil {
			return nil, errors.Wrapf(errors.ErrEmpty, "argument %d", i)
		}
		addrs[i] = addr
	}
	return addrs, nil
}
