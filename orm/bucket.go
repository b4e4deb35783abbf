package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a prefixed subspace of the DB holding models of a single type.
// It keeps its secondary indexes up to date on every write.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Model
	indexes map[string]Index
}

var _ custody.QueryHandler = Bucket{}

// NewBucket creates a bucket to store models of the same type as proto.
func NewBucket(name string, proto Model) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	if reflect.TypeOf(proto).Kind() != reflect.Ptr {
		panic("bucket prototype must be a pointer")
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// WithIndex returns a copy of this bucket with a new secondary index.
// Panics if an index with this name already exists.
func (b Bucket) WithIndex(name string, indexer Indexer) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("Index %s registered twice", name))
	}
	indexes := make(map[string]Index, len(b.indexes)+1)
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	indexes[name] = newIndex(b, name, indexer)
	b.indexes = indexes
	return b
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// Index returns the index registered under given name.
func (b Bucket) Index(name string) (Index, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return Index{}, errors.Wrapf(errors.ErrNotFound, "index %q", name)
	}
	return idx, nil
}

// Register registers this Bucket and all indexes.
// You can define a name here for queries, which is
// different than the bucket name used to prefix the data
func (b Bucket) Register(name string, r custody.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, b)
	for n, idx := range b.indexes {
		r.Register(root+"/"+n, idx)
	}
}

// Query handles queries from the QueryRouter
func (b Bucket) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []custody.Model{custody.Pair(key, value)}, nil
	case custody.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "unknown mod: %s", mod)
	}
}

// DBKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Has returns true if a model is stored under the key.
func (b Bucket) Has(db custody.ReadOnlyKVStore, key []byte) (bool, error) {
	if len(key) == 0 {
		return false, errors.Wrap(errors.ErrEmpty, "key")
	}
	return db.Has(b.DBKey(key))
}

// One loads the model stored under key into dest. It returns ErrNotFound
// if nothing is stored under that key.
func (b Bucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if reflect.TypeOf(dest) != reflect.TypeOf(b.proto) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot hold %T", dest, b.proto)
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	dest.Reset()
	return Unmarshal(raw, dest)
}

// Put validates and saves the model under the key, updating all indexes.
func (b Bucket) Put(db custody.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if reflect.TypeOf(m) != reflect.TypeOf(b.proto) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be stored as %T", m, b.proto)
	}
	raw, err := Marshal(m)
	if err != nil {
		return errors.Wrapf(err, "%s %X", b.name, key)
	}
	if err := b.updateIndexes(db, key, m); err != nil {
		return err
	}
	return db.Set(b.DBKey(key), raw)
}

// Delete removes the model stored under key. It returns ErrNotFound if
// nothing is stored there.
func (b Bucket) Delete(db custody.KVStore, key []byte) error {
	if ok, err := b.Has(db, key); err != nil {
		return err
	} else if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

func (b Bucket) updateIndexes(db custody.KVStore, key []byte, next Model) error {
	if len(b.indexes) == 0 {
		return nil
	}
	var prev Model
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return err
	}
	if raw != nil {
		prev = newModel(b.proto)
		if err := Unmarshal(raw, prev); err != nil {
			return err
		}
	}
	for _, idx := range b.indexes {
		if err := idx.update(db, key, prev, next); err != nil {
			return err
		}
	}
	return nil
}
