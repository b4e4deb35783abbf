package escrow

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	// RecordLength is the size of the record terms: discriminator,
	// seller, asset id and price.
	RecordLength = 8 + custody.AddressLength + custody.AddressLength + 8

	// RecordSize is the size of the data allocated for an escrow account.
	// The status byte follows the terms.
	RecordSize = RecordLength + 1
)

// Discriminator marks the data of an account as an escrow record.
var Discriminator = discriminator("account:Escrow")

func discriminator(name string) []byte {
	sum := sha256.Sum256([]byte(name))
	return sum[:8]
}

// Status is the stage of the exchange an escrow is in.
type Status uint8

const (
	// StatusCreated is set by Create, the asset was not deposited yet.
	StatusCreated Status = 1
	// StatusFunded is set by Deposit, the asset is in custody.
	StatusFunded Status = 2
	// StatusSettled is set by Settle, the exchange happened.
	StatusSettled Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusFunded:
		return "funded"
	case StatusSettled:
		return "settled"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// MarshalJSON provides a human readable status.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Record is the persisted state of an escrow. A zero seller or asset means
// the field was not recorded.
type Record struct {
	Seller  custody.Address `json:"seller"`
	AssetID custody.Address `json:"asset_id"`
	Price   uint64          `json:"price"`
	Status  Status          `json:"status"`
}

// Encode returns the little endian layout of the record.
//
//	offset  size  field
//	0       8     discriminator
//	8       32    seller
//	40      32    asset id
//	72      8     price
//	80      1     status
func (r *Record) Encode() []byte {
	out := make([]byte, RecordSize)
	copy(out[0:8], Discriminator)
	copy(out[8:40], r.Seller)
	copy(out[40:72], r.AssetID)
	binary.LittleEndian.PutUint64(out[72:80], r.Price)
	out[80] = byte(r.Status)
	return out
}

// DecodeRecord parses the data of an escrow account.
func DecodeRecord(data []byte) (*Record, error) {
	if len(data) != RecordSize {
		return nil, errors.Wrapf(errors.ErrDecoding, "record size %d", len(data))
	}
	if !bytes.Equal(data[0:8], Discriminator) {
		return nil, errors.Wrap(errors.ErrInvalidState, "not an escrow record")
	}
	r := &Record{
		Seller:  custody.Address(data[8:40]).Clone(),
		AssetID: custody.Address(data[40:72]).Clone(),
		Price:   binary.LittleEndian.Uint64(data[72:80]),
		Status:  Status(data[80]),
	}
	switch r.Status {
	case StatusCreated, StatusFunded, StatusSettled:
	default:
		return nil, errors.Wrapf(errors.ErrInvalidState, "unknown status %d", data[80])
	}
	return r, nil
}

// HasSeller returns true if the seller was recorded.
func (r *Record) HasSeller() bool {
	return !bytes.Equal(r.Seller, make([]byte, custody.AddressLength))
}

// Advance moves the record from one status to the next one. It fails with
// ErrInvalidState if the record is not in the from status.
func (r *Record) Advance(from, to Status) error {
	if r.Status != from {
		return errors.Wrapf(errors.ErrInvalidState, "escrow is %s, must be %s", r.Status, from)
	}
	r.Status = to
	return nil
}
