package custodytest

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

func TestAuth(t *testing.T) {
	a, b, c := SequenceAddr(1), SequenceAddr(2), SequenceAddr(3)
	auth := &Auth{Signer: a, Signers: []custody.Address{b}}
	ctx := context.Background()

	assert.Equal(t, true, auth.HasAddress(ctx, a))
	assert.Equal(t, true, auth.HasAddress(ctx, b))
	assert.Equal(t, false, auth.HasAddress(ctx, c))

	ctxAuth := &CtxAuth{Key: "auth"}
	assert.Equal(t, false, ctxAuth.HasAddress(ctx, a))
	ctx = ctxAuth.SetSigners(ctx, a, c)
	assert.Equal(t, true, ctxAuth.HasAddress(ctx, c))
	assert.Equal(t, false, ctxAuth.HasAddress(ctx, b))
}

func TestDecoratedHandler(t *testing.T) {
	h := &Handler{}
	d := &Decorator{}
	stack := Decorate(h, d)
	db := store.MemStore()

	_, err := stack.Check(context.Background(), db, &Tx{})
	assert.Nil(t, err)
	_, err = stack.Deliver(context.Background(), db, &Tx{})
	assert.Nil(t, err)
	assert.Equal(t, 2, h.CallCount())
	assert.Equal(t, 2, d.CallCount())

	d.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(context.Background(), db, &Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestDecorateOrder(t *testing.T) {
	escrow, token := custody.NewProgramID("escrow"), custody.NewProgramID("token")
	outer, inner := &Decorator{}, &Decorator{}
	h := &Handler{}
	stack := Decorate(h, outer, inner)
	db := store.MemStore()

	_, err := stack.Deliver(context.Background(), db, &Tx{Instruction: custody.NewInstruction(escrow, nil)})
	assert.Nil(t, err)
	_, err = stack.Check(context.Background(), db, &Tx{Instruction: custody.NewInstruction(token, nil)})
	assert.Nil(t, err)
	assert.Equal(t, []custody.Address{escrow, token}, inner.Programs)

	// the outer decorator stops the call before the inner one sees it
	outer.CheckErr = errors.ErrUnauthorized
	_, err = stack.Check(context.Background(), db, &Tx{Instruction: custody.NewInstruction(escrow, nil)})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 3, len(outer.Programs))
	assert.Equal(t, 2, len(inner.Programs))
	assert.Equal(t, 1, inner.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())

	// a transaction without an instruction is not recorded
	outer.CheckErr = nil
	_, err = stack.Check(context.Background(), db, &Tx{Err: errors.ErrDecoding})
	assert.Nil(t, err)
	assert.Equal(t, 2, len(inner.Programs))
}
