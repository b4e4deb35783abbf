package token

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
)

// Instruction tags understood by the token program.
const (
	TagInitializeMint uint8 = 0
	TagTransfer       uint8 = 3
	TagMintTo         uint8 = 7
)

// TagCreateHolding is the only instruction of the holding program.
const TagCreateHolding uint8 = 0

// InitializeMintMsg creates a new asset.
//
// Accounts: [mint (signer, writable), payer (signer, writable)]
type InitializeMintMsg struct {
	Decimals  uint8
	Authority custody.Address
}

// Encode returns the instruction data.
func (m InitializeMintMsg) Encode() []byte {
	return append([]byte{TagInitializeMint, m.Decimals}, m.Authority...)
}

// TransferMsg moves tokens between holdings.
//
// Accounts: [source holding (writable), destination holding (writable), owner (signer)]
type TransferMsg struct {
	Amount uint64
}

// Encode returns the instruction data.
func (m TransferMsg) Encode() []byte {
	return x.AppendUint64([]byte{TagTransfer}, m.Amount)
}

// MintToMsg issues new tokens.
//
// Accounts: [mint (writable), destination holding (writable), mint authority (signer)]
type MintToMsg struct {
	Amount uint64
}

// Encode returns the instruction data.
func (m MintToMsg) Encode() []byte {
	return x.AppendUint64([]byte{TagMintTo}, m.Amount)
}

// Decode parses token program instruction data.
func Decode(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrDecoding, "empty instruction data")
	}
	r := x.NewDataReader(data[1:])
	var msg interface{}
	switch data[0] {
	case TagInitializeMint:
		m := InitializeMintMsg{
			Decimals:  r.Uint8("decimals"),
			Authority: r.Address("authority"),
		}
		msg = m
	case TagTransfer:
		msg = TransferMsg{Amount: r.Uint64("amount")}
	case TagMintTo:
		msg = MintToMsg{Amount: r.Uint64("amount")}
	default:
		return nil, errors.Wrapf(errors.ErrUnknownInstruction, "token tag %d", data[0])
	}
	if err := r.Done(); err != nil {
		return nil, err
	}
	return msg, nil
}

// NewInitializeMintInstruction builds an instruction creating a new mint.
func NewInitializeMintInstruction(mint, payer, authority custody.Address, decimals uint8) *custody.Instruction {
	msg := InitializeMintMsg{Decimals: decimals, Authority: authority}
	return custody.NewInstruction(ProgramID, msg.Encode(),
		custody.Signer(mint, true),
		custody.Signer(payer, true),
	)
}

// NewTransferInstruction builds an instruction moving tokens signed by the
// owner of the source holding.
func NewTransferInstruction(from, to, owner custody.Address, amount uint64) *custody.Instruction {
	return custody.NewInstruction(ProgramID, TransferMsg{Amount: amount}.Encode(),
		custody.Writable(from),
		custody.Writable(to),
		custody.Signer(owner, false),
	)
}

// NewMintToInstruction builds an instruction issuing new tokens.
func NewMintToInstruction(mint, dest, authority custody.Address, amount uint64) *custody.Instruction {
	return custody.NewInstruction(ProgramID, MintToMsg{Amount: amount}.Encode(),
		custody.Writable(mint),
		custody.Writable(dest),
		custody.Signer(authority, false),
	)
}

// NewCreateHoldingInstruction builds an instruction for the holding program
// creating the holding account of the owner.
//
// Accounts: [payer (signer, writable), holding (writable), owner, mint]
func NewCreateHoldingInstruction(payer, owner, mint custody.Address) (*custody.Instruction, error) {
	holding, err := HoldingAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	return custody.NewInstruction(HoldingProgramID, []byte{TagCreateHolding},
		custody.Signer(payer, true),
		custody.Writable(holding),
		custody.ReadOnly(owner),
		custody.ReadOnly(mint),
	), nil
}
