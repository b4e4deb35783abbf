package token

import (
	"github.com/gogo/protobuf/proto"
)

// Mint describes a fungible asset.
type Mint struct {
	// Authority is the only address allowed to issue new tokens.
	Authority []byte `protobuf:"bytes,1,opt,name=authority,proto3" json:"authority,omitempty"`
	// Supply is the total amount of tokens issued.
	Supply   uint64 `protobuf:"varint,2,opt,name=supply,proto3" json:"supply,omitempty"`
	Decimals uint32 `protobuf:"varint,3,opt,name=decimals,proto3" json:"decimals,omitempty"`
}

func (m *Mint) Reset()         { *m = Mint{} }
func (m *Mint) String() string { return proto.CompactTextString(m) }
func (*Mint) ProtoMessage()    {}

// Holding is the balance of a single owner for a single mint.
type Holding struct {
	Mint   []byte `protobuf:"bytes,1,opt,name=mint,proto3" json:"mint,omitempty"`
	Owner  []byte `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	Amount uint64 `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *Holding) Reset()         { *m = Holding{} }
func (m *Holding) String() string { return proto.CompactTextString(m) }
func (*Holding) ProtoMessage()    {}
