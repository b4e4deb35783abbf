package system

import (
	"github.com/gogo/protobuf/proto"
)

// Account is the native state of an address: its lamport balance, the
// program allowed to write its data and the data itself.
type Account struct {
	Lamports uint64 `protobuf:"varint,1,opt,name=lamports,proto3" json:"lamports,omitempty"`
	Owner    []byte `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	Data     []byte `protobuf:"bytes,3,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *Account) Reset()         { *m = Account{} }
func (m *Account) String() string { return proto.CompactTextString(m) }
func (*Account) ProtoMessage()    {}

// Configuration holds the rent parameters.
type Configuration struct {
	// AccountOverhead is the number of bytes charged for every account on
	// top of its data.
	AccountOverhead uint64 `protobuf:"varint,1,opt,name=account_overhead,json=accountOverhead,proto3" json:"account_overhead,omitempty"`
	// LamportsPerByteYear is the rent price of a single byte.
	LamportsPerByteYear uint64 `protobuf:"varint,2,opt,name=lamports_per_byte_year,json=lamportsPerByteYear,proto3" json:"lamports_per_byte_year,omitempty"`
	// ExemptionYears is how many years of rent an account must hold to
	// never be charged.
	ExemptionYears uint64 `protobuf:"varint,3,opt,name=exemption_years,json=exemptionYears,proto3" json:"exemption_years,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}
