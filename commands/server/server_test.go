package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func writeGenesis(t *testing.T, content string) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "custody-server")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0755))
	path := filepath.Join(home, "config", "genesis.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
	return home, func() { os.RemoveAll(home) }
}

func staticOptions(state string) GenOptions {
	return func([]string) (json.RawMessage, error) { return json.RawMessage(state), nil }
}

func TestInitCmd(t *testing.T) {
	home, cleanup := writeGenesis(t, `{"chain_id": "test-chain", "app_state": null}`)
	defer cleanup()
	logger := log.NewNopLogger()

	require.NoError(t, InitCmd(staticOptions(`{"system": []}`), logger, home, nil))
	bz, err := ioutil.ReadFile(filepath.Join(home, "config", "genesis.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"chain_id": "test-chain", "app_state": {"system": []}}`, string(bz))

	err = InitCmd(staticOptions(`{"token": {}}`), logger, home, nil)
	assert.True(t, errors.ErrDuplicate.Is(err))

	require.NoError(t, InitCmd(staticOptions(`{"token": {}}`), logger, home, []string{"-f"}))
	bz, err = ioutil.ReadFile(filepath.Join(home, "config", "genesis.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"chain_id": "test-chain", "app_state": {"token": {}}}`, string(bz))
}

func TestInitCmdMissingGenesis(t *testing.T) {
	err := InitCmd(staticOptions(`{}`), log.NewNopLogger(), "/no/such/home", nil)
	assert.True(t, errors.ErrNotFound.Is(err))
}

type countingInitializer struct {
	err   error
	calls int
}

func (c *countingInitializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	c.calls++
	return c.err
}

func TestValidateGenesis(t *testing.T) {
	home, cleanup := writeGenesis(t, `{"app_state": {"system": []}}`)
	defer cleanup()
	path := filepath.Join(home, "config", "genesis.json")

	var ok countingInitializer
	require.NoError(t, ValidateGenesis(&ok, []string{path, path}))
	assert.Equal(t, 2, ok.calls)

	failing := countingInitializer{err: errors.ErrInvalidArgument}
	err := ValidateGenesis(&failing, []string{path})
	assert.True(t, errors.ErrInvalidArgument.Is(err))

	err = ValidateGenesis(&ok, nil)
	assert.True(t, errors.ErrInvalidArgument.Is(err))

	bad, cleanupBad := writeGenesis(t, `not json`)
	defer cleanupBad()
	err = ValidateGenesis(&ok, []string{filepath.Join(bad, "config", "genesis.json")})
	assert.True(t, errors.ErrDecoding.Is(err))
}

func TestParseFlags(t *testing.T) {
	flags, err := parseFlags([]string{"-bind", "tcp://0.0.0.0:1234", "-debug", "-metrics", ":9090"})
	require.NoError(t, err)
	assert.Equal(t, "tcp://0.0.0.0:1234", flags.bind)
	assert.True(t, flags.debug)
	assert.Equal(t, ":9090", flags.metrics)
}

func TestGetBlockArgs(t *testing.T) {
	err := GetBlockCmd(ioutil.Discard, nil)
	assert.True(t, errors.ErrInvalidArgument.Is(err))

	_, err = openDb("/tmp/blockstore")
	assert.True(t, errors.ErrInvalidArgument.Is(err))

	path, height, err := parseGetBlockArgs([]string{"/data/blockstore.db", "-height", "7"})
	require.NoError(t, err)
	assert.Equal(t, "/data/blockstore.db", path)
	assert.Equal(t, int64(7), height)
}
