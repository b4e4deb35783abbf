package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/store"
)

func makeBase() (store.CacheableKVStore, func()) {
	commit, close := makeCommitStore()
	return commit.Adapter(), close
}

func makeCommitStore() (CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	close := func() { os.RemoveAll(tmpDir) }
	commit := NewCommitStore(tmpDir, "base")
	return commit, close
}

var suite = store.NewTestSuite(makeBase)

func TestIavlSavepoint(t *testing.T)        { suite.Savepoint(t) }
func TestIavlNestedSavepoints(t *testing.T) { suite.NestedSavepoints(t) }
func TestIavlBucketScan(t *testing.T)       { suite.BucketScan(t) }

func TestCommitLoad(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-commit-")
	assert.Nil(t, err)
	defer os.RemoveAll(tmpDir)

	k, v := []byte("french"), []byte("fry")

	commit := NewCommitStore(tmpDir, "commit")
	assert.Nil(t, commit.LoadLatestVersion())
	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set(k, v))

	// nothing committed yet
	got, err := commit.Get(k)
	assert.Nil(t, err)
	assert.Nil(t, got)

	assert.Nil(t, cache.Write())
	id, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)

	got, err = commit.Get(k)
	assert.Nil(t, err)
	assert.Equal(t, v, got)

	latest, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, id, latest)
}

func TestMockCommitStore(t *testing.T) {
	commit := MockCommitStore()
	assert.Nil(t, commit.LoadLatestVersion())

	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("a"), []byte("1")))
	assert.Nil(t, cache.Write())
	id, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.Equal(t, 32, len(id.Hash))
}
