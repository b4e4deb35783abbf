package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Router dispatches an instruction to the program registered under its
// program address. The program becomes the one executing for the rest of
// the call, see custody.GetProgram.
type Router struct {
	programs map[string]custody.Handler
}

var _ custody.Registry = (*Router)(nil)
var _ custody.Handler = (*Router)(nil)

// NewRouter returns a router without any program.
func NewRouter() *Router {
	return &Router{
		programs: make(map[string]custody.Handler),
	}
}

// Handle registers the handler of a program. It panics on an invalid
// address or when the program is already registered.
func (r *Router) Handle(program custody.Address, h custody.Handler) {
	if err := program.Validate(); err != nil {
		panic(errors.Wrap(err, "program"))
	}
	key := string(program)
	if _, ok := r.programs[key]; ok {
		panic(errors.Wrapf(errors.ErrDuplicate, "program %s", program))
	}
	r.programs[key] = h
}

// Check dispatches to the Check method of the program handler.
func (r *Router) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	ctx, h, err := r.route(ctx, tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the Deliver method of the program handler.
func (r *Router) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	ctx, h, err := r.route(ctx, tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, store, tx)
}

func (r *Router) route(ctx custody.Context, tx custody.Tx) (custody.Context, custody.Handler, error) {
	ins, err := tx.GetInstruction()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load instruction")
	}
	if err := ins.Validate(); err != nil {
		return nil, nil, err
	}
	program := ins.ProgramAddress()
	h, ok := r.programs[string(program)]
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrUnknownInstruction, "no program %s", program)
	}
	return custody.WithProgram(ctx, program), h, nil
}
