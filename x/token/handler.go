package token

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
)

// RegisterRoutes will instantiate and register the token and the holding
// programs.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, control Controller) {
	r.Handle(ProgramID, NewHandler(auth, control))
	r.Handle(HoldingProgramID, NewHoldingHandler(auth, control))
}

// Handler executes the token program instructions.
type Handler struct {
	auth    x.Authenticator
	control Controller
}

var _ custody.Handler = Handler{}

// NewHandler creates the token program handler.
func NewHandler(auth x.Authenticator, control Controller) Handler {
	return Handler{
		auth:    auth,
		control: control,
	}
}

// Check verifies the instruction is well formed and signed.
func (h Handler) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver executes the instruction.
func (h Handler) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, accounts, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}

	switch msg := msg.(type) {
	case InitializeMintMsg:
		mint, payer := accounts[0].Address, accounts[1].Address
		err = h.control.InitializeMint(ctx, store, payer, mint, msg.Authority, uint32(msg.Decimals))
	case TransferMsg:
		from, to, owner := accounts[0].Address, accounts[1].Address, accounts[2].Address
		err = h.control.Transfer(ctx, store, from, to, owner, msg.Amount)
	case MintToMsg:
		mint, dest, authority := accounts[0].Address, accounts[1].Address, accounts[2].Address
		err = h.control.MintTo(ctx, store, mint, dest, authority, msg.Amount)
	}
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
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
	case InitializeMintMsg:
		if err := x.RequireAccounts(accounts, 2); err != nil {
			return nil, nil, err
		}
		if !accounts[0].IsSigner || !accounts[1].IsSigner {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "mint and payer must sign")
		}
	case TransferMsg, MintToMsg:
		if err := x.RequireAccounts(accounts, 3); err != nil {
			return nil, nil, err
		}
		if !accounts[2].IsSigner {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "authority signature missing")
		}
	}
	return msg, accounts, nil
}

// HoldingHandler executes the holding program instruction.
type HoldingHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ custody.Handler = HoldingHandler{}

// NewHoldingHandler creates the holding program handler.
func NewHoldingHandler(auth x.Authenticator, control Controller) HoldingHandler {
	return HoldingHandler{
		auth:    auth,
		control: control,
	}
}

// Check verifies the instruction is well formed and signed.
func (h HoldingHandler) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver creates the holding account.
func (h HoldingHandler) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	accounts, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	payer, owner, mint := accounts[0].Address, accounts[2].Address, accounts[3].Address
	addr, err := h.control.CreateHoldingAccount(ctx, store, payer, owner, mint)
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: addr}, nil
}

func (h HoldingHandler) validate(ctx custody.Context, tx custody.Tx) ([]custody.AccountInfo, error) {
	ins, err := tx.GetInstruction()
	if err != nil {
		return nil, errors.Wrap(err, "load instruction")
	}
	r := x.NewDataReader(ins.Data)
	if tag := r.Uint8("tag"); tag != TagCreateHolding {
		return nil, errors.Wrapf(errors.ErrUnknownInstruction, "holding tag %d", tag)
	}
	if err := r.Done(); err != nil {
		return nil, err
	}

	accounts := x.Accounts(ctx, h.auth, ins)
	if err := x.RequireAccounts(accounts, 4); err != nil {
		return nil, err
	}
	if !accounts[0].IsSigner {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	want, err := HoldingAddress(accounts[2].Address, accounts[3].Address)
	if err != nil {
		return nil, err
	}
	if !want.Equals(accounts[1].Address) {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "holding address: expected %s, got %s", want, accounts[1].Address)
	}
	return accounts, nil
}
