package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/sigs"
)

// Tx is the envelope submitted to the chain: a single instruction and the
// signatures of the accounts it claims as signers.
type Tx struct {
	Instruction *custody.Instruction `protobuf:"bytes,1,opt,name=instruction,proto3" json:"instruction,omitempty"`
	Signatures  []*sigs.StdSignature `protobuf:"bytes,2,rep,name=signatures,proto3" json:"signatures,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

// make sure tx fulfills all interfaces
var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (custody.Tx, error) {
	tx := new(Tx)
	if err := proto.Unmarshal(bz, tx); err != nil {
		return nil, errors.Wrap(errors.ErrDecoding, err.Error())
	}
	return tx, nil
}

// GetInstruction returns the instruction carried by the transaction.
func (tx *Tx) GetInstruction() (*custody.Instruction, error) {
	if tx.Instruction == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "instruction")
	}
	return tx.Instruction, nil
}

// GetSignatures returns the signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures cover the instruction
// only, never previous signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	ins, err := tx.GetInstruction()
	if err != nil {
		return nil, err
	}
	bz, err := proto.Marshal(ins)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDecoding, err.Error())
	}
	return bz, nil
}

// Marshal returns the wire encoding of the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := proto.Marshal(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDecoding, err.Error())
	}
	return bz, nil
}
