package utils

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Recovery turns a panic inside an instruction into ErrPanic. The panic
// value is logged with the program that was executing, it never reaches
// the client unless errors are rendered in debug mode.
type Recovery struct{}

var _ custody.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (r Recovery) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (_ *custody.CheckResult, err error) {
	defer r.recover(ctx, "check", &err)
	return next.Check(ctx, store, tx)
}

func (r Recovery) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (_ *custody.DeliverResult, err error) {
	defer r.recover(ctx, "deliver", &err)
	return next.Deliver(ctx, store, tx)
}

// recover must be deferred directly, recover() is only effective there.
func (r Recovery) recover(ctx custody.Context, phase string, err *error) {
	v := recover()
	if v == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", v)
	program, _ := custody.GetProgram(ctx)
	custody.GetLogger(ctx).Error("Instruction panicked",
		"phase", phase,
		"program", program.String(),
		"panic", v,
	)
}
