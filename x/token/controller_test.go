package token

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/system"
)

type fixture struct {
	db      custody.KVStore
	auth    *custodytest.Auth
	system  system.BaseController
	control BaseController

	payer     custody.Address
	mint      custody.Address
	authority custody.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:        store.MemStore(),
		auth:      &custodytest.Auth{},
		payer:     custodytest.NewKey(t).Address(),
		mint:      custodytest.NewKey(t).Address(),
		authority: custodytest.NewKey(t).Address(),
	}
	f.system = system.NewController(f.auth)
	f.control = NewController(f.auth, f.system)
	assert.Nil(t, f.system.Mint(f.db, f.payer, 1000000000))

	f.auth.Signers = []custody.Address{f.payer, f.mint}
	assert.Nil(t, f.control.InitializeMint(context.Background(), f.db, f.payer, f.mint, f.authority, 0))
	f.auth.Signers = []custody.Address{f.payer}
	return f
}

func (f *fixture) holding(t testing.TB, owner custody.Address) custody.Address {
	t.Helper()
	addr, err := f.control.CreateHoldingAccount(context.Background(), f.db, f.payer, owner, f.mint)
	assert.Nil(t, err)
	return addr
}

func (f *fixture) balance(t testing.TB, holding custody.Address) uint64 {
	t.Helper()
	h, err := f.control.Holding(f.db, holding)
	assert.Nil(t, err)
	return h.Amount
}

func TestInitializeMint(t *testing.T) {
	f := newFixture(t)

	m, err := f.control.Mint(f.db, f.mint)
	assert.Nil(t, err)
	assert.Equal(t, []byte(f.authority), m.Authority)
	assert.Equal(t, uint64(0), m.Supply)

	rent, err := system.MinimumBalance(f.db, MintSize)
	assert.Nil(t, err)
	got, err := f.system.Balance(f.db, f.mint)
	assert.Nil(t, err)
	assert.Equal(t, rent, got)

	f.auth.Signers = append(f.auth.Signers, f.mint)
	err = f.control.InitializeMint(context.Background(), f.db, f.payer, f.mint, f.authority, 0)
	assert.IsErr(t, errors.ErrDuplicate, err)

	other := custodytest.NewKey(t).Address()
	err = f.control.InitializeMint(context.Background(), f.db, f.payer, other, f.authority, 0)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestCreateHoldingAccount(t *testing.T) {
	f := newFixture(t)
	owner := custodytest.RandomAddr(t)

	addr := f.holding(t, owner)
	want, err := HoldingAddress(owner, f.mint)
	assert.Nil(t, err)
	assert.Equal(t, want, addr)
	if custody.IsOnCurve(addr) {
		t.Fatal("holding address must not have a private key")
	}

	h, err := f.control.Holding(f.db, addr)
	assert.Nil(t, err)
	assert.Equal(t, []byte(owner), h.Owner)
	assert.Equal(t, []byte(f.mint), h.Mint)

	rent, err := system.MinimumBalance(f.db, HoldingSize)
	assert.Nil(t, err)
	lamports, err := f.system.Balance(f.db, addr)
	assert.Nil(t, err)
	assert.Equal(t, rent, lamports)

	// a second creation fails and changes nothing
	before, err := f.system.Balance(f.db, f.payer)
	assert.Nil(t, err)
	_, err = f.control.CreateHoldingAccount(context.Background(), f.db, f.payer, owner, f.mint)
	assert.IsErr(t, errors.ErrDuplicate, err)
	after, err := f.system.Balance(f.db, f.payer)
	assert.Nil(t, err)
	assert.Equal(t, before, after)

	// the owner can be a derived address as well
	proof, err := custody.DeriveAuthority(custodytest.RandomProgram(t), []byte("escrow"), f.mint)
	assert.Nil(t, err)
	f.holding(t, proof.Address())

	_, err = f.control.CreateHoldingAccount(context.Background(), f.db, f.payer, owner, custodytest.RandomAddr(t))
	assert.IsErr(t, errors.ErrNotFound, err)

	holdings, err := NewHoldingBucket().ByOwner(f.db, owner)
	assert.Nil(t, err)
	assert.Equal(t, []custody.Address{addr}, holdings)
}

func TestMintToAndTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := custodytest.NewKey(t).Address()
	bob := custodytest.NewKey(t).Address()
	aliceH := f.holding(t, alice)
	bobH := f.holding(t, bob)

	// only the authority issues tokens
	err := f.control.MintTo(ctx, f.db, f.mint, aliceH, f.authority, 10)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	err = f.control.MintTo(ctx, f.db, f.mint, aliceH, alice, 10)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	f.auth.Signers = []custody.Address{f.authority}
	assert.Nil(t, f.control.MintTo(ctx, f.db, f.mint, aliceH, f.authority, 10))
	assert.Equal(t, uint64(10), f.balance(t, aliceH))

	// only the owner moves tokens
	err = f.control.Transfer(ctx, f.db, aliceH, bobH, alice, 4)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	f.auth.Signers = []custody.Address{bob}
	err = f.control.Transfer(ctx, f.db, aliceH, bobH, bob, 4)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	f.auth.Signers = []custody.Address{alice}
	assert.Nil(t, f.control.Transfer(ctx, f.db, aliceH, bobH, alice, 4))
	assert.Equal(t, uint64(6), f.balance(t, aliceH))
	assert.Equal(t, uint64(4), f.balance(t, bobH))

	err = f.control.Transfer(ctx, f.db, aliceH, bobH, alice, 7)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	// missing destination
	err = f.control.Transfer(ctx, f.db, aliceH, custodytest.RandomAddr(t), alice, 1)
	assert.IsErr(t, errors.ErrNotFound, err)

	m, err := f.control.Mint(f.db, f.mint)
	assert.Nil(t, err)
	assert.Equal(t, uint64(10), m.Supply)
}

func TestTransferWithDerivedAuthority(t *testing.T) {
	f := newFixture(t)
	program := custodytest.RandomProgram(t)
	proof, err := custody.DeriveAuthority(program, []byte("escrow"), f.mint)
	assert.Nil(t, err)

	custodial := f.holding(t, proof.Address())
	buyer := f.holding(t, custodytest.RandomAddr(t))

	f.auth.Signers = []custody.Address{f.authority}
	assert.Nil(t, f.control.MintTo(context.Background(), f.db, f.mint, custodial, f.authority, 1))
	f.auth.Signers = nil

	// without the program running the proof is worthless
	err = f.control.Transfer(context.Background(), f.db, custodial, buyer, proof.Address(), 1, proof)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	ctx := custody.WithProgram(context.Background(), program)
	assert.Nil(t, f.control.Transfer(ctx, f.db, custodial, buyer, proof.Address(), 1, proof))
	assert.Equal(t, uint64(0), f.balance(t, custodial))
	assert.Equal(t, uint64(1), f.balance(t, buyer))
}
