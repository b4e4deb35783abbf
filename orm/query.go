package orm

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// queryPrefix returns all models whose key starts with the prefix.
func queryPrefix(db custody.ReadOnlyKVStore, prefix []byte) ([]custody.Model, error) {
	iter, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer iter.Release()

	var res []custody.Model
	for {
		key, value, err := iter.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, custody.Pair(key, value))
	}
}

// prefixEnd returns the first key that is not covered by the prefix, or nil
// if there is none.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
