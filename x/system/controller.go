package system

import (
	"bytes"
	"math"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
)

// Controller is the functionality other programs need from the system
// program. Pass it to their handlers instead of the concrete type.
type Controller interface {
	// Balance returns the lamports held by the address, zero if the
	// account does not exist.
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error)

	// Account returns the account stored under the address, ErrNotFound
	// if it holds no lamports.
	Account(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error)

	// CreateAccount funds a new account and allocates space bytes of data
	// owned by the given program.
	CreateAccount(ctx custody.Context, db custody.KVStore, funder, addr custody.Address, lamports, space uint64, owner custody.Address, proofs ...custody.DerivedAuthority) error

	// Transfer moves lamports between two accounts.
	Transfer(ctx custody.Context, db custody.KVStore, from, to custody.Address, amount uint64, proofs ...custody.DerivedAuthority) error

	// WriteData overwrites the data of an account. Only the owning program
	// may do that.
	WriteData(ctx custody.Context, db custody.KVStore, addr custody.Address, data []byte) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	auth   x.Authenticator
	bucket AccountBucket
}

var _ Controller = BaseController{}

// NewController returns a controller that authorizes callers with the given
// authenticator.
func NewController(auth x.Authenticator) BaseController {
	return BaseController{
		auth:   auth,
		bucket: NewAccountBucket(),
	}
}

// Balance returns the lamports held by the address.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error) {
	acct, err := c.bucket.Get(db, addr)
	if err != nil {
		return 0, err
	}
	return acct.Lamports, nil
}

// Account returns the account stored under the address.
func (c BaseController) Account(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error) {
	acct, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if acct.Lamports == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	return acct, nil
}

// CreateAccount funds addr with lamports taken from funder and allocates
// space bytes of zeroed data owned by the owner program.
//
// Both the funder and the new address must be authorized, the latter
// usually by a derived authority. An address that already holds lamports
// cannot be created again.
func (c BaseController) CreateAccount(ctx custody.Context, db custody.KVStore, funder, addr custody.Address, lamports, space uint64, owner custody.Address, proofs ...custody.DerivedAuthority) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if funder.Equals(addr) {
		return errors.Wrap(errors.ErrInvalidArgument, "account cannot fund itself")
	}
	if !x.IsAuthorized(ctx, c.auth, funder, proofs...) {
		return errors.Wrapf(errors.ErrUnauthorized, "funder %s", funder)
	}
	if !x.IsAuthorized(ctx, c.auth, addr, proofs...) {
		return errors.Wrapf(errors.ErrUnauthorized, "new account %s", addr)
	}

	existing, err := c.bucket.Get(db, addr)
	if err != nil {
		return err
	}
	if existing.Lamports != 0 {
		return errors.Wrapf(errors.ErrDuplicate, "account %s already in use", addr)
	}

	minimum, err := MinimumBalance(db, space)
	if err != nil {
		return err
	}
	if lamports < minimum {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%d lamports is below the rent exempt minimum %d", lamports, minimum)
	}
	if space > math.MaxInt32 {
		return errors.Wrapf(errors.ErrInvalidArgument, "space %d", space)
	}

	if err := c.debit(db, funder, lamports); err != nil {
		return err
	}
	acct := &Account{
		Lamports: lamports,
		Owner:    owner,
		Data:     make([]byte, space),
	}
	if space == 0 {
		acct.Data = nil
	}
	if err := c.bucket.Save(db, addr, acct); err != nil {
		return errors.Wrap(err, "save account")
	}
	custody.GetLogger(ctx).Debug("account created", "address", addr, "lamports", lamports, "space", space, "owner", owner)
	return nil
}

// Transfer moves amount lamports from one account to another. The source
// must be authorized and must not carry data.
func (c BaseController) Transfer(ctx custody.Context, db custody.KVStore, from, to custody.Address, amount uint64, proofs ...custody.DerivedAuthority) error {
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if !x.IsAuthorized(ctx, c.auth, from, proofs...) {
		return errors.Wrapf(errors.ErrUnauthorized, "source %s", from)
	}

	src, err := c.bucket.Get(db, from)
	if err != nil {
		return err
	}
	if len(src.Data) != 0 {
		return errors.Wrapf(errors.ErrInvalidState, "source %s carries data", from)
	}
	if src.Lamports < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, want %d", src.Lamports, amount)
	}
	if amount == 0 || from.Equals(to) {
		return nil
	}
	dst, err := c.bucket.Get(db, to)
	if err != nil {
		return err
	}
	if dst.Lamports > math.MaxUint64-amount {
		return errors.Wrapf(errors.ErrOverflow, "balance of %s", to)
	}

	if err := c.debit(db, from, amount); err != nil {
		return err
	}
	if err := c.credit(db, to, amount); err != nil {
		return err
	}
	custody.GetLogger(ctx).Debug("lamports transferred", "from", from, "to", to, "amount", amount)
	return nil
}

// WriteData replaces the account data. The data size is fixed when the
// account is created and cannot change.
func (c BaseController) WriteData(ctx custody.Context, db custody.KVStore, addr custody.Address, data []byte) error {
	acct, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	program, ok := custody.GetProgram(ctx)
	if !ok || !program.Equals(acct.OwnerAddress()) {
		return errors.Wrapf(errors.ErrUnauthorized, "account %s is owned by %s", addr, acct.OwnerAddress())
	}
	if len(data) != len(acct.Data) {
		return errors.Wrapf(errors.ErrInvalidArgument, "data size %d, allocated %d", len(data), len(acct.Data))
	}
	if bytes.Equal(data, acct.Data) {
		return nil
	}
	acct.Data = append([]byte(nil), data...)
	return c.bucket.Save(db, addr, acct)
}

func (c BaseController) debit(db custody.KVStore, addr custody.Address, amount uint64) error {
	acct, err := c.bucket.Get(db, addr)
	if err != nil {
		return err
	}
	if len(acct.Data) != 0 {
		return errors.Wrapf(errors.ErrInvalidState, "%s carries data", addr)
	}
	if acct.Lamports < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, want %d", acct.Lamports, amount)
	}
	acct.Lamports -= amount
	return c.bucket.Save(db, addr, acct)
}

func (c BaseController) credit(db custody.KVStore, addr custody.Address, amount uint64) error {
	acct, err := c.bucket.Get(db, addr)
	if err != nil {
		return err
	}
	if acct.Lamports > math.MaxUint64-amount {
		return errors.Wrapf(errors.ErrOverflow, "balance of %s", addr)
	}
	acct.Lamports += amount
	return c.bucket.Save(db, addr, acct)
}

// Mint issues new lamports to the address. It is only used by genesis.
func (c BaseController) Mint(db custody.KVStore, addr custody.Address, amount uint64) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	return c.credit(db, addr, amount)
}
