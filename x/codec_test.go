package x

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
)

func TestDataReader(t *testing.T) {
	addr := make([]byte, custody.AddressLength)
	addr[0] = 9

	data := []byte{7}
	data = AppendUint64(data, 1234)
	data = append(data, addr...)

	r := NewDataReader(data)
	assert.Equal(t, uint8(7), r.Uint8("tag"))
	assert.Equal(t, uint64(1234), r.Uint64("amount"))
	assert.Equal(t, custody.Address(addr), r.Address("owner"))
	assert.Equal(t, 0, r.Remaining())
	assert.Nil(t, r.Done())

	short := NewDataReader([]byte{1, 2, 3})
	assert.Equal(t, uint64(0), short.Uint64("amount"))
	// failure is sticky even if later reads would fit
	assert.Equal(t, uint8(0), short.Uint8("tag"))
	assert.IsErr(t, errors.ErrDecoding, short.Done())

	trailing := NewDataReader([]byte{1, 2})
	trailing.Uint8("tag")
	assert.IsErr(t, errors.ErrDecoding, trailing.Done())
}

func TestRequireAccounts(t *testing.T) {
	accts := make([]custody.AccountInfo, 2)
	assert.Nil(t, RequireAccounts(accts, 2))
	assert.IsErr(t, errors.ErrInvalidArgument, RequireAccounts(accts, 3))
}
