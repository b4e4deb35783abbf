package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/require"
)

type signedTx struct {
	custodytest.Tx
	data []byte
	sigs []*StdSignature
}

var _ SignedTx = (*signedTx)(nil)

func (s *signedTx) GetSignBytes() ([]byte, error) { return s.data, nil }

func (s *signedTx) GetSignatures() []*StdSignature { return s.sigs }

func sign(t testing.TB, key *crypto.PrivateKey, tx *signedTx, chainID string, seq int64) {
	t.Helper()
	sig, err := SignTx(key, tx, chainID, seq)
	require.NoError(t, err)
	tx.sigs = append(tx.sigs, sig)
}

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("foo"), "chain-one", 0)
	assert.Nil(t, err)
	assert.Equal(t, 64, len(a))

	// any change in input gives a different output
	b, err := BuildSignBytes([]byte("foo"), "chain-two", 0)
	assert.Nil(t, err)
	c, err := BuildSignBytes([]byte("foo"), "chain-one", 1)
	assert.Nil(t, err)
	d, err := BuildSignBytes([]byte("bar"), "chain-one", 0)
	assert.Nil(t, err)
	require.NotEqual(t, a, b)
	require.NotEqual(t, a, c)
	require.NotEqual(t, a, d)

	_, err = BuildSignBytes([]byte("foo"), "chain-one", -1)
	assert.IsErr(t, ErrInvalidSequence, err)
	_, err = BuildSignBytes([]byte("foo"), "no", 0)
	assert.IsErr(t, errors.ErrInvalidArgument, err)
}

func TestVerifySignature(t *testing.T) {
	const chainID = "test-chain"
	db := store.MemStore()
	key := custodytest.NewKey(t)
	tx := &signedTx{data: []byte("move it")}

	sign(t, key, tx, chainID, 0)
	signers, err := VerifyTxSignatures(db, tx, chainID)
	assert.Nil(t, err)
	assert.Equal(t, []custody.Address{key.Address()}, signers)

	// replaying the same signature fails as the sequence moved on
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	seq, err := NextSequence(db, key.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(1), seq)

	// signature for another chain is rejected
	other := &signedTx{data: []byte("move it")}
	sign(t, key, other, "other-chain", 1)
	_, err = VerifyTxSignatures(db, other, chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// signature over other bytes is rejected
	forged := &signedTx{data: []byte("move it")}
	sign(t, key, forged, chainID, 1)
	forged.data = []byte("move something else")
	_, err = VerifyTxSignatures(db, forged, chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// two signers at once
	second := custodytest.NewKey(t)
	multi := &signedTx{data: []byte("both")}
	sign(t, key, multi, chainID, 1)
	sign(t, second, multi, chainID, 0)
	signers, err = VerifyTxSignatures(db, multi, chainID)
	assert.Nil(t, err)
	assert.Equal(t, []custody.Address{key.Address(), second.Address()}, signers)
}

func TestCheckAndIncrementSequence(t *testing.T) {
	u := &UserData{Pubkey: custodytest.SequenceAddr(1)}
	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(1))
	assert.Nil(t, u.CheckAndIncrementSequence(0))
	assert.Equal(t, int64(1), u.Sequence)

	u.Sequence = (1 << 53) - 1
	assert.IsErr(t, errors.ErrOverflow, u.CheckAndIncrementSequence((1<<53)-1))
}

func TestDecorator(t *testing.T) {
	const chainID = "deco-chain"
	ctx := custody.WithChainID(context.Background(), chainID)
	db := store.MemStore()
	key := custodytest.NewKey(t)

	var auth Authenticate
	var signers []custody.Address
	h := &capture{fn: func(ctx custody.Context) { signers = auth.GetSigners(ctx) }}

	tx := &signedTx{data: []byte("hello")}
	sign(t, key, tx, chainID, 0)
	_, err := NewDecorator().Check(ctx, db, tx, h)
	assert.Nil(t, err)
	assert.Equal(t, []custody.Address{key.Address()}, signers)

	tx2 := &signedTx{data: []byte("hello")}
	sign(t, key, tx2, chainID, 1)
	_, err = NewDecorator().Deliver(ctx, db, tx2, h)
	assert.Nil(t, err)
	assert.Equal(t, 2, h.calls)

	// no signatures
	empty := &signedTx{data: []byte("hello")}
	_, err = NewDecorator().Check(ctx, db, empty, h)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = NewDecorator().AllowMissingSigs().Check(ctx, db, empty, h)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(signers))

	// not a signed tx at all
	_, err = NewDecorator().Check(ctx, db, &custodytest.Tx{}, h)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// invalid signature never reaches the handler
	calls := h.calls
	bad := &signedTx{data: []byte("hello")}
	sign(t, key, bad, chainID, 7)
	_, err = NewDecorator().Deliver(ctx, db, bad, h)
	assert.IsErr(t, ErrInvalidSequence, err)
	assert.Equal(t, calls, h.calls)
}

func TestAuthenticate(t *testing.T) {
	a := custodytest.SequenceAddr(1)
	b := custodytest.SequenceAddr(2)

	var auth Authenticate
	ctx := context.Background()
	assert.Equal(t, false, auth.HasAddress(ctx, a))

	ctx = withSigners(ctx, []custody.Address{a})
	assert.Equal(t, true, auth.HasAddress(ctx, a))
	assert.Equal(t, false, auth.HasAddress(ctx, b))
}

type capture struct {
	calls int
	fn    func(custody.Context)
}

func (c *capture) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	c.calls++
	c.fn(ctx)
	return &custody.CheckResult{}, nil
}

func (c *capture) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	c.calls++
	c.fn(ctx)
	return &custody.DeliverResult{}, nil
}
