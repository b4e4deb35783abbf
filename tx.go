package custody

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
)

// Tx represent the data sent from the user to the chain.
// It includes the instruction to run, along with information needed
// to authenticate the sender (cryptographic signatures).
//
// Each Application defines its own tx type, with the middleware
// interfaces (eg. sigs.SignedTx) it wishes to support.
type Tx interface {
	// GetInstruction returns the action we wish to communicate
	GetInstruction() (*Instruction, error)
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)

// AccountMeta references one account used by an instruction. IsSigner is
// only a claim made by the sender, it is verified against the signatures
// of the transaction before a handler sees it.
type AccountMeta struct {
	Address    []byte `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	IsSigner   bool   `protobuf:"varint,2,opt,name=is_signer,json=isSigner,proto3" json:"is_signer,omitempty"`
	IsWritable bool   `protobuf:"varint,3,opt,name=is_writable,json=isWritable,proto3" json:"is_writable,omitempty"`
}

func (m *AccountMeta) Reset()         { *m = AccountMeta{} }
func (m *AccountMeta) String() string { return proto.CompactTextString(m) }
func (*AccountMeta) ProtoMessage()    {}

// Instruction is a single call into a program. Data is opaque to everyone
// but the receiving program.
type Instruction struct {
	Program  []byte         `protobuf:"bytes,1,opt,name=program,proto3" json:"program,omitempty"`
	Accounts []*AccountMeta `protobuf:"bytes,2,rep,name=accounts,proto3" json:"accounts,omitempty"`
	Data     []byte         `protobuf:"bytes,3,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *Instruction) Reset()         { *m = Instruction{} }
func (m *Instruction) String() string { return proto.CompactTextString(m) }
func (*Instruction) ProtoMessage()    {}

// NewInstruction builds an instruction for the program with the given
// accounts and data.
func NewInstruction(program Address, data []byte, accounts ...*AccountMeta) *Instruction {
	return &Instruction{
		Program:  program,
		Accounts: accounts,
		Data:     data,
	}
}

// ProgramAddress returns the address of the program this instruction is
// routed to.
func (m *Instruction) ProgramAddress() Address {
	return Address(m.Program)
}

// Validate checks that all addresses are well formed.
func (m *Instruction) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrEmpty, "instruction")
	}
	if err := m.ProgramAddress().Validate(); err != nil {
		return errors.Wrap(err, "program")
	}
	for i, a := range m.Accounts {
		if a == nil {
			return errors.Wrapf(errors.ErrEmpty, "account %d", i)
		}
		if err := Address(a.Address).Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}

// Signer returns a meta for a signing account.
func Signer(addr Address, writable bool) *AccountMeta {
	return &AccountMeta{Address: addr, IsSigner: true, IsWritable: writable}
}

// Writable returns a meta for a writable, non signing account.
func Writable(addr Address) *AccountMeta {
	return &AccountMeta{Address: addr, IsWritable: true}
}

// ReadOnly returns a meta for an account that is only read.
func ReadOnly(addr Address) *AccountMeta {
	return &AccountMeta{Address: addr}
}

// AccountInfo is the view of an account a program works with. Unlike
// AccountMeta, IsSigner is true only if the signature was verified.
type AccountInfo struct {
	Address    Address
	IsSigner   bool
	IsWritable bool
}
