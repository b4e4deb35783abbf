package app

import (
	"github.com/iov-one/custody/commands"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/system"
	"github.com/iov-one/custody/x/token"
)

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	seller, err := crypto.GenPrivateKey()
	if err != nil {
		panic(err)
	}
	mint, err := crypto.GenPrivateKey()
	if err != nil {
		panic(err)
	}

	user := &sigs.UserData{
		Pubkey:   seller.PublicKey(),
		Sequence: 17,
	}
	account := &system.Account{
		Lamports: 2039280,
		Owner:    token.ProgramID,
	}

	price := uint64(5000)
	ins, err := escrow.NewCreateInstruction(escrow.ProgramID, seller.Address(), mint.Address(), &price)
	if err != nil {
		panic(err)
	}
	tx := &Tx{Instruction: ins}
	sig, err := sigs.SignTx(seller, tx, "test-123", 17)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	_, bump, err := escrow.Address(escrow.ProgramID, mint.Address())
	if err != nil {
		panic(err)
	}
	record := &escrow.Record{
		Seller:  seller.Address(),
		AssetID: mint.Address(),
		Price:   price,
		Status:  escrow.StatusFunded,
	}

	return []commands.Example{
		{Filename: "user", Obj: user},
		{Filename: "account", Obj: account},
		{Filename: "instruction", Obj: ins},
		{Filename: "unsigned_tx", Obj: &Tx{Instruction: ins}},
		{Filename: "signed_tx", Obj: tx},
		{Filename: "escrow_create", Obj: escrow.CreateMsg{Price: price, HasPrice: true}},
		{Filename: "escrow_deposit", Obj: escrow.DepositMsg{Quantity: 10, Bump: bump}},
		{Filename: "escrow_settle", Obj: escrow.SettleMsg{Quantity: 10, Bump: bump, Price: price}},
		{Filename: "escrow_record", Obj: record},
	}
}
