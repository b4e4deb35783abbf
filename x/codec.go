package x

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// DataReader decodes the fixed size, little endian layout that instruction
// data is using. The first failure is remembered and every following read
// returns a zero value.
type DataReader struct {
	data []byte
	err  error
}

// NewDataReader returns a reader over the instruction data.
func NewDataReader(data []byte) *DataReader {
	return &DataReader{data: data}
}

func (r *DataReader) take(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.data) < n {
		r.err = errors.Wrapf(errors.ErrDecoding, "%s: want %d bytes, got %d", what, n, len(r.data))
		return nil
	}
	chunk := r.data[:n]
	r.data = r.data[n:]
	return chunk
}

// Uint8 reads a single byte.
func (r *DataReader) Uint8(what string) uint8 {
	b := r.take(1, what)
	if b == nil {
		return 0
	}
	return b[0]
}

// Uint64 reads an 8 byte little endian integer.
func (r *DataReader) Uint64(what string) uint64 {
	b := r.take(8, what)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// Address reads a 32 byte address.
func (r *DataReader) Address(what string) custody.Address {
	b := r.take(custody.AddressLength, what)
	if b == nil {
		return nil
	}
	return custody.Address(b).Clone()
}

// Remaining returns how many bytes were not read yet.
func (r *DataReader) Remaining() int {
	return len(r.data)
}

// Done returns the first read error. It fails with ErrDecoding if not all
// data was consumed.
func (r *DataReader) Done() error {
	if r.err != nil {
		return r.err
	}
	if len(r.data) != 0 {
		return errors.Wrapf(errors.ErrDecoding, "%d trailing bytes", len(r.data))
	}
	return nil
}

// AppendUint64 appends v to b using little endian encoding.
func AppendUint64(b []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(b, buf[:]...)
}

// RequireAccounts returns ErrInvalidArgument if the instruction did not
// reference at least n accounts.
func RequireAccounts(accounts []custody.AccountInfo, n int) error {
	if len(accounts) < n {
		return errors.Wrapf(errors.ErrInvalidArgument, "want %d accounts, got %d", n, len(accounts))
	}
	return nil
}
