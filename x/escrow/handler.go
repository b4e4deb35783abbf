package escrow

import (
	"fmt"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/system"
	"github.com/iov-one/custody/x/token"
)

const (
	createAccounts  = 4
	depositAccounts = 8
	settleAccounts  = 9
)

// RegisterRoutes will instantiate and register the escrow program.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, sys system.Controller, tok token.Controller) {
	r.Handle(ProgramID, NewHandler(auth, sys, tok))
}

// RegisterQuery will register the escrow records as "/escrows"
func RegisterQuery(qr custody.QueryRouter) {
	qr.Register("/escrows", NewQueryHandler(ProgramID))
}

// Handler routes the escrow instructions.
type Handler struct {
	auth    x.Authenticator
	system  system.Controller
	token   token.Controller
	program custody.Address
}

var _ custody.Handler = Handler{}

// NewHandler creates the escrow program handler.
func NewHandler(auth x.Authenticator, sys system.Controller, tok token.Controller) Handler {
	return Handler{
		auth:    auth,
		system:  sys,
		token:   tok,
		program: ProgramID,
	}
}

// WithProgram returns a copy of the handler that derives escrow addresses
// for another program id.
func (h Handler) WithProgram(program custody.Address) Handler {
	h.program = program.Clone()
	return h
}

// Check decodes the instruction and verifies the signatures it requires.
func (h Handler) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver executes the instruction. It must run inside a savepoint, a
// failure may leave partial writes behind.
func (h Handler) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, accounts, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConfiguration(store)
	if err != nil {
		return nil, err
	}

	switch msg := msg.(type) {
	case CreateMsg:
		return h.create(ctx, store, conf, accounts, msg)
	case DepositMsg:
		return h.deposit(ctx, store, conf, accounts, msg)
	case SettleMsg:
		return h.settle(ctx, store, conf, accounts, msg)
	}
	return nil, errors.Wrapf(errors.ErrUnknownInstruction, "%T", msg)
}

func (h Handler) validate(ctx custody.Context, tx custody.Tx) (interface{}, []custody.AccountInfo, error) {
	ins, err := tx.GetInstruction()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load instruction")
	}
	msg, err := Decode(ins.Data)
	if err != nil {
		return nil, nil, err
	}
	accounts := x.Accounts(ctx, h.auth, ins)

	switch msg.(type) {
	case CreateMsg:
		if err := x.RequireAccounts(accounts, createAccounts); err != nil {
			return nil, nil, err
		}
		if err := programs(accounts[3:], system.ProgramID); err != nil {
			return nil, nil, err
		}
		if !accounts[0].IsSigner {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "seller signature missing")
		}
	case DepositMsg:
		if err := x.RequireAccounts(accounts, depositAccounts); err != nil {
			return nil, nil, err
		}
		if err := programs(accounts[6:], system.ProgramID, token.ProgramID); err != nil {
			return nil, nil, err
		}
		if !accounts[3].IsSigner {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
		}
	case SettleMsg:
		if err := x.RequireAccounts(accounts, settleAccounts); err != nil {
			return nil, nil, err
		}
		if err := programs(accounts[7:], system.ProgramID, token.ProgramID); err != nil {
			return nil, nil, err
		}
		if !accounts[5].IsSigner {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
		}
	}
	return msg, accounts, nil
}

// programs checks that the trailing accounts name the programs the
// instruction invokes, in order.
func programs(accounts []custody.AccountInfo, want ...custody.Address) error {
	for i, p := range want {
		if !p.Equals(accounts[i].Address) {
			return errors.Wrapf(errors.ErrInvalidArgument, "program account %d: expected %s, got %s", i, p, accounts[i].Address)
		}
	}
	return nil
}

// derive recomputes the escrow address of the mint and compares it with
// the one the caller passed.
func (h Handler) derive(ctx custody.Context, mint, got custody.Address) (uint8, error) {
	want, bump, err := Address(h.program, mint)
	if err != nil {
		return 0, err
	}
	if !want.Equals(got) {
		custody.GetLogger(ctx).Info("PDA mismatch", "expected", want, "got", got)
		return 0, errors.Wrapf(errors.ErrInvalidArgument, "PDA mismatch: expected %s, got %s", want, got)
	}
	return bump, nil
}

func (h Handler) create(ctx custody.Context, db custody.KVStore, conf *Configuration, accounts []custody.AccountInfo, msg CreateMsg) (*custody.DeliverResult, error) {
	seller, mint, addr := accounts[0].Address, accounts[1].Address, accounts[2].Address
	if _, err := h.derive(ctx, mint, addr); err != nil {
		return nil, err
	}

	lamports, err := system.MinimumBalance(db, RecordSize)
	if err != nil {
		return nil, err
	}
	proof, err := custody.DeriveAuthority(h.program, Seeds(mint)...)
	if err != nil {
		return nil, err
	}

	custody.GetLogger(ctx).Info("Creating PDA", "escrow", addr, "mint", mint)
	if err := h.system.CreateAccount(ctx, db, seller, addr, lamports, RecordSize, h.program, proof); err != nil {
		return nil, errors.Wrap(err, "create escrow account")
	}

	record := &Record{Status: StatusCreated}
	if conf.StrictTerms {
		record.Seller = seller
		record.AssetID = mint
		record.Price = msg.Price
	}
	if err := h.system.WriteData(ctx, db, addr, record.Encode()); err != nil {
		return nil, errors.Wrap(err, "write record")
	}
	return &custody.DeliverResult{
		Data: addr,
		Log:  fmt.Sprintf("escrow %s created", addr),
	}, nil
}

func (h Handler) deposit(ctx custody.Context, db custody.KVStore, conf *Configuration, accounts []custody.AccountInfo, msg DepositMsg) (*custody.DeliverResult, error) {
	mint := accounts[0].Address
	from, to := accounts[1].Address, accounts[2].Address
	owner, recipient, payer := accounts[3].Address, accounts[4].Address, accounts[5].Address
	logger := custody.GetLogger(ctx)

	bump, err := h.derive(ctx, mint, recipient)
	if err != nil {
		return nil, err
	}
	if conf.StrictTerms && bump != msg.Bump {
		logger.Info("Bump seed mismatch", "expected", bump, "got", msg.Bump)
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "bump seed mismatch: expected %d, got %d", bump, msg.Bump)
	}

	if msg.Quantity == 0 {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "nothing to deposit")
	}
	if err := holdingOf(to, recipient, mint); err != nil {
		return nil, err
	}

	record, err := h.loadRecord(db, recipient)
	if err != nil {
		return nil, err
	}
	if conf.StrictTerms && !owner.Equals(record.Seller) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not the seller", owner)
	}
	if err := record.Advance(StatusCreated, StatusFunded); err != nil {
		return nil, err
	}

	if err := h.ensureHolding(ctx, db, payer, recipient, mint, to); err != nil {
		return nil, err
	}

	logger.Info("Transferring tokens", "quantity", msg.Quantity, "mint", mint, "from", from, "to", to)
	if err := h.token.Transfer(ctx, db, from, to, owner, msg.Quantity); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	if err := h.system.WriteData(ctx, db, recipient, record.Encode()); err != nil {
		return nil, errors.Wrap(err, "write record")
	}
	return &custody.DeliverResult{
		Log: fmt.Sprintf("%d tokens deposited into escrow %s", msg.Quantity, recipient),
	}, nil
}

func (h Handler) settle(ctx custody.Context, db custody.KVStore, conf *Configuration, accounts []custody.AccountInfo, msg SettleMsg) (*custody.DeliverResult, error) {
	mint := accounts[0].Address
	from, to := accounts[1].Address, accounts[2].Address
	escrow, buyer, payer, seller := accounts[3].Address, accounts[4].Address, accounts[5].Address, accounts[6].Address
	logger := custody.GetLogger(ctx)

	bump, err := h.derive(ctx, mint, escrow)
	if err != nil {
		return nil, err
	}
	if bump != msg.Bump {
		logger.Info("Bump seed mismatch", "expected", bump, "got", msg.Bump)
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "bump seed mismatch: expected %d, got %d", bump, msg.Bump)
	}

	record, err := h.loadRecord(db, escrow)
	if err != nil {
		return nil, err
	}
	if err := record.Advance(StatusFunded, StatusSettled); err != nil {
		return nil, err
	}

	if err := holdingOf(from, escrow, mint); err != nil {
		return nil, err
	}
	custodial, err := h.token.Holding(db, from)
	if err != nil {
		return nil, errors.Wrap(err, "escrow holding")
	}
	if msg.Quantity == 0 && custodial.Amount != 0 {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "nothing to release, %d tokens in custody", custodial.Amount)
	}

	if conf.StrictTerms {
		if msg.Price != record.Price {
			return nil, errors.Wrapf(errors.ErrInvalidArgument, "price %d, agreed %d", msg.Price, record.Price)
		}
		if !seller.Equals(record.Seller) {
			return nil, errors.Wrapf(errors.ErrInvalidArgument, "%s is not the seller", seller)
		}
		if msg.Quantity != custodial.Amount {
			return nil, errors.Wrapf(errors.ErrInvalidArgument, "quantity %d, deposited %d", msg.Quantity, custodial.Amount)
		}
		if err := holdingOf(to, buyer, mint); err != nil {
			return nil, err
		}
	}

	if err := h.ensureHolding(ctx, db, payer, buyer, mint, to); err != nil {
		return nil, err
	}

	proof, err := custody.ProveAuthority(h.program, msg.Bump, Seeds(mint)...)
	if err != nil {
		return nil, err
	}
	logger.Info("Transferring tokens", "quantity", msg.Quantity, "mint", mint, "from", from, "to", to)
	if err := h.token.Transfer(ctx, db, from, to, escrow, msg.Quantity, proof); err != nil {
		return nil, errors.Wrap(err, "release asset")
	}

	logger.Info("Transferring lamports from buyer to seller", "price", msg.Price, "buyer", payer, "seller", seller)
	if err := h.system.Transfer(ctx, db, payer, seller, msg.Price); err != nil {
		return nil, errors.Wrap(err, "pay seller")
	}

	if err := h.system.WriteData(ctx, db, escrow, record.Encode()); err != nil {
		return nil, errors.Wrap(err, "write record")
	}
	return &custody.DeliverResult{
		Log: fmt.Sprintf("escrow %s settled: %d tokens for %d lamports", escrow, msg.Quantity, msg.Price),
	}, nil
}

func (h Handler) loadRecord(db custody.ReadOnlyKVStore, addr custody.Address) (*Record, error) {
	acct, err := h.system.Account(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "escrow account")
	}
	if !h.program.Equals(acct.OwnerAddress()) {
		return nil, errors.Wrapf(errors.ErrInvalidState, "escrow account is owned by %s", acct.OwnerAddress())
	}
	return DecodeRecord(acct.Data)
}

// ensureHolding creates the holding account of the owner, unless the
// account at addr already holds lamports. The created account must be the
// one passed by the caller.
func (h Handler) ensureHolding(ctx custody.Context, db custody.KVStore, payer, owner, mint, addr custody.Address) error {
	lamports, err := h.system.Balance(db, addr)
	if err != nil {
		return err
	}
	logger := custody.GetLogger(ctx)
	if lamports != 0 {
		logger.Info("Holding account exists", "holding", addr)
		return nil
	}
	if err := holdingOf(addr, owner, mint); err != nil {
		return err
	}
	logger.Info("Creating holding account for recipient", "holding", addr, "owner", owner)
	if _, err := h.token.CreateHoldingAccount(ctx, db, payer, owner, mint); err != nil {
		return errors.Wrap(err, "create holding account")
	}
	return nil
}

// holdingOf returns ErrInvalidArgument unless addr is the holding address
// of the owner for the mint.
func holdingOf(addr, owner, mint custody.Address) error {
	want, err := token.HoldingAddress(owner, mint)
	if err != nil {
		return err
	}
	if !want.Equals(addr) {
		return errors.Wrapf(errors.ErrInvalidArgument, "holding address: expected %s, got %s", want, addr)
	}
	return nil
}
