package orm

import (
	"bytes"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const idxPrefix = "_i."

// Indexer calculates the secondary index value for a given model. Returning
// nil leaves the model out of the index.
type Indexer func(Model) ([]byte, error)

// Index is a 1:N secondary index of a bucket. Every entry is stored under
// its own key: the index value, length prefixed, followed by the primary
// key.
type Index struct {
	bucket  Bucket
	name    string
	prefix  []byte
	indexer Indexer
}

var _ custody.QueryHandler = Index{}

func newIndex(b Bucket, name string, indexer Indexer) Index {
	return Index{
		bucket:  b,
		name:    name,
		prefix:  []byte(idxPrefix + b.name + "_" + name + ":"),
		indexer: indexer,
	}
}

// Name returns the name of this index.
func (i Index) Name() string {
	return i.name
}

func (i Index) valuePrefix(value []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+1+len(value))
	out = append(out, i.prefix...)
	out = append(out, byte(len(value)))
	return append(out, value...)
}

func (i Index) entryKey(value, key []byte) []byte {
	return append(i.valuePrefix(value), key...)
}

func (i Index) update(db custody.KVStore, key []byte, prev, next Model) error {
	var before, after []byte
	var err error
	if prev != nil {
		if before, err = i.indexer(prev); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}
	if next != nil {
		if after, err = i.indexer(next); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}
	if len(before) > 255 || len(after) > 255 {
		return errors.Wrapf(errors.ErrInvalidArgument, "index %s value too long", i.name)
	}
	if prev != nil && next != nil && bytes.Equal(before, after) {
		return nil
	}
	if before != nil {
		if err := db.Delete(i.entryKey(before, key)); err != nil {
			return err
		}
	}
	if after != nil {
		if err := db.Set(i.entryKey(after, key), key); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns all primary keys indexed under given value, in order.
func (i Index) Keys(db custody.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	models, err := queryPrefix(db, i.valuePrefix(value))
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(models))
	for n, m := range models {
		keys[n] = m.Value
	}
	return keys, nil
}

// Query returns the bucket models indexed under the value given as data.
func (i Index) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	if mod != custody.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "unknown mod: %s", mod)
	}
	keys, err := i.Keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]custody.Model, 0, len(keys))
	for _, k := range keys {
		dbkey := i.bucket.DBKey(k)
		value, err := db.Get(dbkey)
		if err != nil {
			return nil, err
		}
		if value != nil {
			res = append(res, custody.Pair(dbkey, value))
		}
	}
	return res, nil
}
