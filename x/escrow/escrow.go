package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/x/system"
	"github.com/iov-one/custody/x/token"
)

// ProgramID is the address the escrow program is registered under.
var ProgramID = custody.NewProgramID("escrow")

// Seed is the domain tag of every escrow address.
const Seed = "escrow"

const gconfPackage = "escrow"

// Seeds returns the seeds the escrow address of an asset is derived from.
func Seeds(mint custody.Address) [][]byte {
	return [][]byte{[]byte(Seed), mint}
}

// Address returns the escrow address of the asset for the program, and the
// bump that was used to derive it.
func Address(program, mint custody.Address) (custody.Address, uint8, error) {
	return custody.FindProgramAddress(Seeds(mint), program)
}

// loadConfiguration returns the configuration stored on chain, or the
// default one if there is none.
func loadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	err := gconf.Load(db, gconfPackage, &conf)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return nil, errors.Wrap(err, "load escrow configuration")
	}
	return &conf, nil
}

// NewCreateInstruction builds an instruction creating the escrow of mint
// for the seller.
func NewCreateInstruction(program, seller, mint custody.Address, price *uint64) (*custody.Instruction, error) {
	addr, _, err := Address(program, mint)
	if err != nil {
		return nil, err
	}
	msg := CreateMsg{}
	if price != nil {
		msg.Price, msg.HasPrice = *price, true
	}
	return custody.NewInstruction(program, msg.Encode(),
		custody.Signer(seller, true),
		custody.ReadOnly(mint),
		custody.Writable(addr),
		custody.ReadOnly(system.ProgramID),
	), nil
}

// NewDepositInstruction builds an instruction moving quantity of the asset
// from the holding of the owner into custody. The payer covers the rent of
// the escrow holding, if it does not exist yet.
func NewDepositInstruction(program, mint, owner, payer custody.Address, quantity uint64) (*custody.Instruction, error) {
	addr, bump, err := Address(program, mint)
	if err != nil {
		return nil, err
	}
	from, err := token.HoldingAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	to, err := token.HoldingAddress(addr, mint)
	if err != nil {
		return nil, err
	}
	msg := DepositMsg{Quantity: quantity, Bump: bump}
	return custody.NewInstruction(program, msg.Encode(),
		custody.ReadOnly(mint),
		custody.Writable(from),
		custody.Writable(to),
		custody.Signer(owner, false),
		custody.Writable(addr),
		custody.Signer(payer, true),
		custody.ReadOnly(system.ProgramID),
		custody.ReadOnly(token.ProgramID),
	), nil
}

// NewSettleInstruction builds an instruction releasing quantity of the
// asset to the buyer, who pays price lamports to the seller.
func NewSettleInstruction(program, mint, buyer, seller custody.Address, quantity, price uint64) (*custody.Instruction, error) {
	addr, bump, err := Address(program, mint)
	if err != nil {
		return nil, err
	}
	from, err := token.HoldingAddress(addr, mint)
	if err != nil {
		return nil, err
	}
	to, err := token.HoldingAddress(buyer, mint)
	if err != nil {
		return nil, err
	}
	msg := SettleMsg{Quantity: quantity, Bump: bump, Price: price}
	return custody.NewInstruction(program, msg.Encode(),
		custody.ReadOnly(mint),
		custody.Writable(from),
		custody.Writable(to),
		custody.Writable(addr),
		custody.ReadOnly(buyer),
		custody.Signer(buyer, true),
		custody.Writable(seller),
		custody.ReadOnly(system.ProgramID),
		custody.ReadOnly(token.ProgramID),
	), nil
}
