package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
)

// TestSuite runs the behaviour the ledger expects from a KVStore against
// any implementation: bucket keys of the form "name:key", savepoints that
// are written or discarded per instruction, and prefix scans over a bucket
// that merge a savepoint with the state below it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// Savepoint checks that a delivered instruction becomes visible once its
// savepoint is written, and that a failed one leaves nothing behind.
func (s *TestSuite) Savepoint(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	seller := bucketKey("account", randBytes(32))
	escrow := bucketKey("account", randBytes(32))
	holding := bucketKey("holding", randBytes(32))

	s.AssertGetHas(t, base, seller, nil, false)
	assert.Nil(t, base.Set(seller, []byte("funded")))
	s.AssertGetHas(t, base, seller, []byte("funded"), true)

	// create: seller pays for the escrow account
	create := base.CacheWrap()
	s.AssertGetHas(t, create, seller, []byte("funded"), true)
	assert.Nil(t, create.Set(seller, []byte("paid rent")))
	assert.Nil(t, create.Set(escrow, []byte("created")))
	s.AssertGetHas(t, base, escrow, nil, false)
	s.AssertGetHas(t, base, seller, []byte("funded"), true)
	assert.Nil(t, create.Write())
	s.AssertGetHas(t, base, seller, []byte("paid rent"), true)
	s.AssertGetHas(t, base, escrow, []byte("created"), true)

	// deposit fails after creating the holding, nothing is kept
	failed := base.CacheWrap()
	assert.Nil(t, failed.Set(holding, []byte("empty")))
	assert.Nil(t, failed.Set(escrow, []byte("funded")))
	s.AssertGetHas(t, failed, holding, []byte("empty"), true)
	failed.Discard()
	s.AssertGetHas(t, base, holding, nil, false)
	s.AssertGetHas(t, base, escrow, []byte("created"), true)

	// a deleted account reads as missing, in the savepoint and after it
	closing := base.CacheWrap()
	assert.Nil(t, closing.Delete(seller))
	s.AssertGetHas(t, closing, seller, nil, false)
	s.AssertGetHas(t, base, seller, []byte("paid rent"), true)
	assert.Nil(t, closing.Write())
	s.AssertGetHas(t, base, seller, nil, false)
}

// NestedSavepoints checks a savepoint opened on top of another one, as an
// instruction runs inside the savepoint of its transaction.
func (s *TestSuite) NestedSavepoints(t *testing.T) {
	ks := randKeys(4, 32)
	vs := randKeys(6, 40)

	cases := map[string]struct {
		txOps           []Op
		insOps          []Op
		write           bool
		txQueries       []Model
		afterInsQueries []Model
	}{
		"instruction overwrites and deletes": {
			txOps:           []Op{SetOp(ks[0], vs[0]), SetOp(ks[1], vs[1])},
			insOps:          []Op{SetOp(ks[0], vs[2]), DelOp(ks[1]), SetOp(ks[2], vs[3])},
			write:           true,
			txQueries:       []Model{Pair(ks[0], vs[0]), Pair(ks[1], vs[1]), Pair(ks[2], nil)},
			afterInsQueries: []Model{Pair(ks[0], vs[2]), Pair(ks[1], nil), Pair(ks[2], vs[3])},
		},
		"failed instruction keeps the transaction state": {
			txOps:           []Op{SetOp(ks[0], vs[4]), SetOp(ks[3], vs[5])},
			insOps:          []Op{DelOp(ks[0]), SetOp(ks[3], vs[1])},
			write:           false,
			txQueries:       []Model{Pair(ks[0], vs[4]), Pair(ks[3], vs[5])},
			afterInsQueries: []Model{Pair(ks[0], vs[4]), Pair(ks[3], vs[5])},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			tx := base.CacheWrap()
			for _, op := range tc.txOps {
				assert.Nil(t, op.Apply(tx))
			}
			ins := tx.CacheWrap()
			for _, op := range tc.insOps {
				assert.Nil(t, op.Apply(ins))
			}
			for _, q := range tc.txQueries {
				s.AssertGetHas(t, tx, q.Key, q.Value, q.Value != nil)
			}

			if tc.write {
				assert.Nil(t, ins.Write())
			} else {
				ins.Discard()
			}
			for _, q := range tc.afterInsQueries {
				s.AssertGetHas(t, tx, q.Key, q.Value, q.Value != nil)
			}

			// nothing reaches the base before the transaction commits
			for _, q := range tc.afterInsQueries {
				s.AssertGetHas(t, base, q.Key, nil, false)
			}
			assert.Nil(t, tx.Write())
			for _, q := range tc.afterInsQueries {
				s.AssertGetHas(t, base, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// BucketScan checks iteration over the keys of one bucket, with the
// records split between a savepoint and the state below it.
func (s *TestSuite) BucketScan(t *testing.T) {
	const size = 20

	committed := randBucket("escrow", size)
	pending := randBucket("escrow", size)
	removed := committed[:5]
	// same keys, new values
	updated := make([]Model, 5)
	for i, m := range committed[5:10] {
		updated[i] = Pair(m.Key, randBytes(40))
	}
	noise := append(randBucket("holding", size), randBucket("account", size)...)

	final := append(append([]Model{}, committed[10:]...), updated...)
	final = sortModels(append(final, pending...))
	start, end := []byte("escrow:"), []byte("escrow;")

	cases := map[string]iterCase{
		"only committed records": {
			pre: append(makeSetOps(committed...), makeSetOps(noise...)...),
			queries: []rangeQuery{
				{start, end, false, sortModels(committed)},
				{start, end, true, reverse(sortModels(committed))},
			},
		},
		"only pending records": {
			pre:   makeSetOps(noise...),
			child: makeSetOps(pending...),
			queries: []rangeQuery{
				{start, end, false, sortModels(pending)},
				{nil, nil, false, sortModels(append(append([]Model{}, pending...), noise...))},
			},
		},
		"pending updates and deletes": {
			pre: append(makeSetOps(committed...), makeSetOps(noise...)...),
			child: append(append(makeSetOps(pending...), makeSetOps(updated...)...),
				makeDelOps(removed...)...),
			queries: []rangeQuery{
				{start, end, false, final},
				{final[3].Key, final[17].Key, false, final[3:17]},
				{start, end, true, reverse(final)},
				{final[6].Key, end, true, reverse(final[6:])},
			},
		},
		"every record deleted": {
			pre:   makeSetOps(committed...),
			child: makeDelOps(committed...),
			queries: []rangeQuery{
				{start, end, false, nil},
				{start, end, true, nil},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	rand.Read(res)
	return res
}

// randKeys returns a slice of count keys, all of a given size
func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := 0; i < count; i++ {
		res[i] = randBytes(size)
	}
	return res
}

func bucketKey(bucket string, key []byte) []byte {
	return append([]byte(bucket+":"), key...)
}

// randBucket returns count records stored under 32 byte addresses in the
// bucket.
func randBucket(bucket string, count int) []Model {
	models := make([]Model, count)
	for i := range models {
		models[i] = Pair(bucketKey(bucket, randBytes(32)), randBytes(40))
	}
	return models
}

// iterCase applies pre to the base and child to a savepoint over it, then
// runs the queries against the savepoint.
type iterCase struct {
	pre     []Op
	child   []Op
	queries []rangeQuery
}

func (i iterCase) verify(t testing.TB, base CacheableKVStore) {
	t.Helper()
	for _, op := range i.pre {
		assert.Nil(t, op.Apply(base))
	}

	child := base.CacheWrap()
	for _, op := range i.child {
		assert.Nil(t, op.Apply(child))
	}

	for _, q := range i.queries {
		var iter Iterator
		var err error
		if q.reverse {
			iter, err = child.ReverseIterator(q.start, q.end)
		} else {
			iter, err = child.Iterator(q.start, q.end)
		}
		assert.Nil(t, err)

		for n, want := range q.expected {
			key, value, err := iter.Next()
			assert.Nil(t, err)
			if !bytes.Equal(want.Key, key) {
				t.Fatalf("record %d: want key %X, got %X", n, want.Key, key)
			}
			assert.Equal(t, want.Value, value)
		}
		_, _, err = iter.Next()
		if !errors.ErrIteratorDone.Is(err) {
			t.Fatalf("want ErrIteratorDone, got %+v", err)
		}
		iter.Release()
	}
}

type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
