package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
)

// Configuration is the escrow program configuration, stored with gconf.
type Configuration struct {
	// StrictTerms binds the deposit and the settlement to the terms kept
	// in the record. When false the record only tracks the status.
	StrictTerms bool `protobuf:"varint,1,opt,name=strict_terms,json=strictTerms,proto3" json:"strict_terms,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

// Validate always succeeds, every combination is allowed.
func (m *Configuration) Validate() error {
	return nil
}

// Instruction tags, the first byte of the instruction data.
const (
	TagCreate  uint8 = 0
	TagDeposit uint8 = 1
	TagSettle  uint8 = 2
)

// CreateMsg allocates the escrow record.
//
// Accounts: [seller (signer, writable), mint, escrow (writable), system program]
//
// The price is optional and only recorded with StrictTerms.
type CreateMsg struct {
	Price    uint64
	HasPrice bool
}

// Encode returns the instruction data.
func (m CreateMsg) Encode() []byte {
	data := []byte{TagCreate}
	if m.HasPrice {
		data = x.AppendUint64(data, m.Price)
	}
	return data
}

// DepositMsg moves the asset into custody.
//
// Accounts: [mint, source holding (writable), escrow holding (writable),
// owner (signer), escrow, payer (signer, writable), system program,
// token program]
type DepositMsg struct {
	Quantity uint64
	Bump     uint8
}

// Encode returns the instruction data.
func (m DepositMsg) Encode() []byte {
	data := x.AppendUint64([]byte{TagDeposit}, m.Quantity)
	return append(data, m.Bump)
}

// SettleMsg releases the asset to the buyer against the price.
//
// Accounts: [mint, escrow holding (writable), buyer holding (writable),
// escrow, buyer, payer (signer, writable), seller (writable),
// system program, token program]
type SettleMsg struct {
	Quantity uint64
	Bump     uint8
	Price    uint64
}

// Encode returns the instruction data.
func (m SettleMsg) Encode() []byte {
	data := x.AppendUint64([]byte{TagSettle}, m.Quantity)
	data = append(data, m.Bump)
	return x.AppendUint64(data, m.Price)
}

// Decode parses the instruction data into one of CreateMsg, DepositMsg or
// SettleMsg. Missing or extra bytes are rejected with ErrDecoding, a tag
// other than 0, 1 or 2 with ErrUnknownInstruction.
func Decode(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrDecoding, "empty instruction data")
	}
	r := x.NewDataReader(data[1:])
	var msg interface{}
	switch data[0] {
	case TagCreate:
		m := CreateMsg{}
		if r.Remaining() != 0 {
			m.Price = r.Uint64("price")
			m.HasPrice = true
		}
		msg = m
	case TagDeposit:
		msg = DepositMsg{
			Quantity: r.Uint64("quantity"),
			Bump:     r.Uint8("bump"),
		}
	case TagSettle:
		msg = SettleMsg{
			Quantity: r.Uint64("quantity"),
			Bump:     r.Uint8("bump"),
			Price:    r.Uint64("price"),
		}
	default:
		return nil, errors.Wrapf(errors.ErrUnknownInstruction, "escrow tag %d", data[0])
	}
	if err := r.Done(); err != nil {
		return nil, err
	}
	return msg, nil
}
