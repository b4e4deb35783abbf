package token

import (
	"math"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/system"
)

var (
	// ProgramID is the address the token program is registered under.
	ProgramID = custody.NewProgramID("token")

	// HoldingProgramID is the program deriving holding addresses.
	HoldingProgramID = custody.NewProgramID("holding")
)

// HoldingAddress returns the address of the holding account of the owner
// for the given mint. It is the same for every caller.
func HoldingAddress(owner, mint custody.Address) (custody.Address, error) {
	addr, _, err := custody.FindProgramAddress(holdingSeeds(owner, mint), HoldingProgramID)
	return addr, err
}

func holdingSeeds(owner, mint custody.Address) [][]byte {
	return [][]byte{owner, ProgramID, mint}
}

// Controller is the functionality other programs need from the token
// program.
type Controller interface {
	// Mint returns the mint stored at the address.
	Mint(db custody.ReadOnlyKVStore, mint custody.Address) (*Mint, error)

	// Holding returns the holding stored at the address.
	Holding(db custody.ReadOnlyKVStore, addr custody.Address) (*Holding, error)

	// InitializeMint creates a new asset.
	InitializeMint(ctx custody.Context, db custody.KVStore, payer, mint, authority custody.Address, decimals uint32, proofs ...custody.DerivedAuthority) error

	// MintTo issues new tokens into a holding account.
	MintTo(ctx custody.Context, db custody.KVStore, mint, dest, authority custody.Address, amount uint64, proofs ...custody.DerivedAuthority) error

	// CreateHoldingAccount creates the holding account of the owner for
	// the mint, paid by the payer.
	CreateHoldingAccount(ctx custody.Context, db custody.KVStore, payer, owner, mint custody.Address) (custody.Address, error)

	// Transfer moves tokens between two holdings of the same mint. The
	// authority must own the source holding.
	Transfer(ctx custody.Context, db custody.KVStore, from, to, authority custody.Address, amount uint64, proofs ...custody.DerivedAuthority) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	auth     x.Authenticator
	system   system.Controller
	mints    MintBucket
	holdings HoldingBucket
}

var _ Controller = BaseController{}

// NewController returns a token controller using the system controller to
// fund new accounts.
func NewController(auth x.Authenticator, sys system.Controller) BaseController {
	return BaseController{
		auth:     auth,
		system:   sys,
		mints:    NewMintBucket(),
		holdings: NewHoldingBucket(),
	}
}

// Mint returns the mint stored at the address.
func (c BaseController) Mint(db custody.ReadOnlyKVStore, mint custody.Address) (*Mint, error) {
	return c.mints.Get(db, mint)
}

// Holding returns the holding stored at the address.
func (c BaseController) Holding(db custody.ReadOnlyKVStore, addr custody.Address) (*Holding, error) {
	return c.holdings.Get(db, addr)
}

// InitializeMint funds the mint account with the payer's lamports and
// stores an asset without supply.
func (c BaseController) InitializeMint(ctx custody.Context, db custody.KVStore, payer, mint, authority custody.Address, decimals uint32, proofs ...custody.DerivedAuthority) error {
	m := &Mint{Authority: authority, Decimals: decimals}
	if err := m.Validate(); err != nil {
		return err
	}
	if ok, err := c.mints.Has(db, mint); err != nil {
		return err
	} else if ok {
		return errors.Wrapf(errors.ErrDuplicate, "mint %s", mint)
	}

	lamports, err := system.MinimumBalance(db, MintSize)
	if err != nil {
		return err
	}
	if err := c.system.CreateAccount(ctx, db, payer, mint, lamports, 0, ProgramID, proofs...); err != nil {
		return errors.Wrap(err, "create mint account")
	}
	if err := c.mints.Put(db, mint, m); err != nil {
		return err
	}
	custody.GetLogger(ctx).Info("Mint initialized", "mint", mint, "authority", authority, "decimals", decimals)
	return nil
}

// MintTo issues amount of new tokens into the dest holding.
func (c BaseController) MintTo(ctx custody.Context, db custody.KVStore, mint, dest, authority custody.Address, amount uint64, proofs ...custody.DerivedAuthority) error {
	m, err := c.mints.Get(db, mint)
	if err != nil {
		return err
	}
	if !authority.Equals(m.Authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the mint authority", authority)
	}
	if !x.IsAuthorized(ctx, c.auth, authority, proofs...) {
		return errors.Wrap(errors.ErrUnauthorized, "mint authority signature missing")
	}
	h, err := c.holdings.Get(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !mint.Equals(h.Mint) {
		return errors.Wrap(errors.ErrInvalidArgument, "destination holds another mint")
	}
	if m.Supply > math.MaxUint64-amount || h.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}

	m.Supply += amount
	h.Amount += amount
	if err := c.mints.Put(db, mint, m); err != nil {
		return err
	}
	return c.holdings.Put(db, dest, h)
}

// CreateHoldingAccount derives the holding address of the owner for the
// mint and creates the account on behalf of the holding program. The payer
// covers the rent. It fails with ErrDuplicate if the account exists.
func (c BaseController) CreateHoldingAccount(ctx custody.Context, db custody.KVStore, payer, owner, mint custody.Address) (custody.Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	if _, err := c.mints.Get(db, mint); err != nil {
		return nil, errors.Wrap(err, "mint")
	}

	proof, err := custody.DeriveAuthority(HoldingProgramID, holdingSeeds(owner, mint)...)
	if err != nil {
		return nil, err
	}
	addr := proof.Address()

	balance, err := c.system.Balance(db, addr)
	if err != nil {
		return nil, err
	}
	if balance != 0 {
		return nil, errors.Wrapf(errors.ErrDuplicate, "holding %s", addr)
	}

	lamports, err := system.MinimumBalance(db, HoldingSize)
	if err != nil {
		return nil, err
	}
	// the proof is only valid while the holding program executes
	hctx := custody.WithProgram(ctx, HoldingProgramID)
	if err := c.system.CreateAccount(hctx, db, payer, addr, lamports, 0, ProgramID, proof); err != nil {
		return nil, errors.Wrap(err, "create holding account")
	}
	h := &Holding{Mint: mint, Owner: owner}
	if err := c.holdings.Put(db, addr, h); err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("Holding account created", "holding", addr, "owner", owner, "mint", mint)
	return addr, nil
}

// Transfer moves amount tokens from one holding to another.
func (c BaseController) Transfer(ctx custody.Context, db custody.KVStore, from, to, authority custody.Address, amount uint64, proofs ...custody.DerivedAuthority) error {
	src, err := c.holdings.Get(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dst, err := c.holdings.Get(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !custody.Address(src.Mint).Equals(dst.Mint) {
		return errors.Wrap(errors.ErrInvalidArgument, "holdings of different mints")
	}
	if !authority.Equals(src.Owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s does not own the source holding", authority)
	}
	if !x.IsAuthorized(ctx, c.auth, authority, proofs...) {
		return errors.Wrapf(errors.ErrUnauthorized, "owner %s", authority)
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, want %d", src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}
	if dst.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	src.Amount -= amount
	dst.Amount += amount
	if err := c.holdings.Put(db, from, src); err != nil {
		return err
	}
	if err := c.holdings.Put(db, to, dst); err != nil {
		return err
	}
	custody.GetLogger(ctx).Debug("tokens transferred", "from", from, "to", to, "amount", amount)
	return nil
}
