package system

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
)

// RegisterRoutes will instantiate and register the system program.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, control Controller) {
	r.Handle(ProgramID, NewHandler(auth, control))
}

// Handler executes the system program instructions.
type Handler struct {
	auth    x.Authenticator
	control Controller
}

var _ custody.Handler = Handler{}

// NewHandler creates the system program handler.
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
	case CreateAccountMsg:
		funder, addr := accounts[0].Address, accounts[1].Address
		if err := h.control.CreateAccount(ctx, store, funder, addr, msg.Lamports, msg.Space, msg.Owner); err != nil {
			return nil, err
		}
	case TransferMsg:
		from, to := accounts[0].Address, accounts[1].Address
		if err := h.control.Transfer(ctx, store, from, to, msg.Lamports); err != nil {
			return nil, err
		}
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
	if err := x.RequireAccounts(accounts, 2); err != nil {
		return nil, nil, err
	}

	switch msg.(type) {
	case CreateAccountMsg:
		if !accounts[0].IsSigner {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "funder signature missing")
		}
		if !accounts[1].IsSigner {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "new account signature missing")
		}
	case TransferMsg:
		if !accounts[0].IsSigner {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
		}
	}
	return msg, accounts, nil
}
