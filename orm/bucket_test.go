package orm

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

type counter struct {
	Owner []byte `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Count uint64 `protobuf:"varint,2,opt,name=count,proto3" json:"count,omitempty"`
}

func (m *counter) Reset()         { *m = counter{} }
func (m *counter) String() string { return proto.CompactTextString(m) }
func (*counter) ProtoMessage()    {}

func (m *counter) Validate() error {
	if len(m.Owner) == 0 {
		return errors.Wrap(errors.ErrEmpty, "owner")
	}
	return nil
}

func byOwner(m Model) ([]byte, error) {
	c, ok := m.(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", m)
	}
	return c.Owner, nil
}

func TestBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", &counter{})

	var got counter
	err := b.One(db, []byte("a"), &got)
	assert.IsErr(t, errors.ErrNotFound, err)

	assert.Nil(t, b.Put(db, []byte("a"), &counter{Owner: []byte("alice"), Count: 5}))
	assert.Nil(t, b.One(db, []byte("a"), &got))
	assert.Equal(t, uint64(5), got.Count)
	assert.Equal(t, []byte("alice"), got.Owner)

	ok, err := b.Has(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	// invalid models are never written
	err = b.Put(db, []byte("b"), &counter{Count: 1})
	assert.IsErr(t, errors.ErrEmpty, err)
	ok, _ = b.Has(db, []byte("b"))
	assert.Equal(t, false, ok)

	assert.Nil(t, b.Delete(db, []byte("a")))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("a")))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("a"), &got))
}

func TestBucketIndex(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", &counter{}).WithIndex("owner", byOwner)
	idx, err := b.Index("owner")
	assert.Nil(t, err)

	assert.Nil(t, b.Put(db, []byte("a"), &counter{Owner: []byte("alice")}))
	assert.Nil(t, b.Put(db, []byte("b"), &counter{Owner: []byte("alice")}))
	assert.Nil(t, b.Put(db, []byte("c"), &counter{Owner: []byte("bob")}))

	keys, err := idx.Keys(db, []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, keys)

	// moving an entry updates the index
	assert.Nil(t, b.Put(db, []byte("a"), &counter{Owner: []byte("bob"), Count: 1}))
	keys, _ = idx.Keys(db, []byte("alice"))
	assert.Equal(t, [][]byte{[]byte("b")}, keys)
	keys, _ = idx.Keys(db, []byte("bob"))
	assert.Equal(t, [][]byte{[]byte("a"), []byte("c")}, keys)

	assert.Nil(t, b.Delete(db, []byte("c")))
	keys, _ = idx.Keys(db, []byte("bob"))
	assert.Equal(t, [][]byte{[]byte("a")}, keys)

	_, err = b.Index("missing")
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", &counter{}).WithIndex("owner", byOwner)
	qr := custody.NewQueryRouter()
	b.Register("counters", qr)

	assert.Nil(t, b.Put(db, []byte("aa"), &counter{Owner: []byte("alice")}))
	assert.Nil(t, b.Put(db, []byte("ab"), &counter{Owner: []byte("bob")}))
	assert.Nil(t, b.Put(db, []byte("b"), &counter{Owner: []byte("bob")}))

	res, err := qr.Handler("/counters").Query(db, custody.KeyQueryMod, []byte("aa"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, b.DBKey([]byte("aa")), res[0].Key)

	res, err = qr.Handler("/counters").Query(db, custody.KeyQueryMod, []byte("zz"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = qr.Handler("/counters").Query(db, custody.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	res, err = qr.Handler("/counters/owner").Query(db, custody.KeyQueryMod, []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	var c counter
	assert.Nil(t, Unmarshal(res[0].Value, &c))
	assert.Equal(t, []byte("bob"), c.Owner)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("ab"), prefixEnd([]byte("aa")))
	assert.Equal(t, []byte{0x02}, prefixEnd([]byte{0x01, 0xFF}))
	assert.Nil(t, prefixEnd([]byte{0xFF, 0xFF}))
}
