package system

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
)

// ProgramID is the address the system program is registered under.
var ProgramID = custody.NewProgramID("system")

// Instruction tags understood by the system program.
const (
	TagCreateAccount uint8 = 0
	TagTransfer      uint8 = 1
)

// CreateAccountMsg funds and allocates a new account.
//
// Accounts: [funder (signer, writable), new account (signer, writable)]
type CreateAccountMsg struct {
	Lamports uint64
	Space    uint64
	Owner    custody.Address
}

// Encode returns the instruction data.
func (m CreateAccountMsg) Encode() []byte {
	data := []byte{TagCreateAccount}
	data = x.AppendUint64(data, m.Lamports)
	data = x.AppendUint64(data, m.Space)
	return append(data, m.Owner...)
}

// Validate ensures the message is well formed.
func (m CreateAccountMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

// TransferMsg moves lamports.
//
// Accounts: [source (signer, writable), destination (writable)]
type TransferMsg struct {
	Lamports uint64
}

// Encode returns the instruction data.
func (m TransferMsg) Encode() []byte {
	return x.AppendUint64([]byte{TagTransfer}, m.Lamports)
}

// Decode parses instruction data into one of the system messages.
func Decode(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrDecoding, "empty instruction data")
	}
	r := x.NewDataReader(data[1:])
	switch data[0] {
	case TagCreateAccount:
		msg := CreateAccountMsg{
			Lamports: r.Uint64("lamports"),
			Space:    r.Uint64("space"),
			Owner:    r.Address("owner"),
		}
		if err := r.Done(); err != nil {
			return nil, errors.Wrap(err, "create account")
		}
		return msg, msg.Validate()
	case TagTransfer:
		msg := TransferMsg{Lamports: r.Uint64("lamports")}
		if err := r.Done(); err != nil {
			return nil, errors.Wrap(err, "transfer")
		}
		return msg, nil
	default:
		return nil, errors.Wrapf(errors.ErrUnknownInstruction, "system tag %d", data[0])
	}
}

// NewCreateAccountInstruction builds an instruction to create an account
// signed by both the funder and the new address.
func NewCreateAccountInstruction(funder, addr custody.Address, lamports, space uint64, owner custody.Address) *custody.Instruction {
	msg := CreateAccountMsg{Lamports: lamports, Space: space, Owner: owner}
	return custody.NewInstruction(ProgramID, msg.Encode(),
		custody.Signer(funder, true),
		custody.Signer(addr, true),
	)
}

// NewTransferInstruction builds an instruction to move lamports.
func NewTransferInstruction(from, to custody.Address, lamports uint64) *custody.Instruction {
	msg := TransferMsg{Lamports: lamports}
	return custody.NewInstruction(ProgramID, msg.Encode(),
		custody.Signer(from, true),
		custody.Writable(to),
	)
}
