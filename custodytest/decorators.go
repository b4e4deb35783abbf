package custodytest

import "github.com/iov-one/custody"

// Decorator is a mock custody.Decorator. It records the program of every
// instruction passing through it, then either fails with the configured
// error or calls down the stack.
type Decorator struct {
	checkCall   int
	deliverCall int

	// CheckErr and DeliverErr are returned instead of calling the next
	// handler, when set.
	CheckErr   error
	DeliverErr error

	// Programs lists the program of each instruction seen, in call order.
	Programs []custody.Address
}

var _ custody.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	d.checkCall++
	d.record(tx)
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	d.deliverCall++
	d.record(tx)
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) record(tx custody.Tx) {
	if tx == nil {
		return
	}
	if ins, err := tx.GetInstruction(); err == nil && ins != nil {
		d.Programs = append(d.Programs, custody.Address(ins.Program))
	}
}

func (d *Decorator) CheckCallCount() int   { return d.checkCall }
func (d *Decorator) DeliverCallCount() int { return d.deliverCall }
func (d *Decorator) CallCount() int        { return d.checkCall + d.deliverCall }

// Decorate wraps h with the decorators, the first one being the outermost,
// the way an application stack lists them.
func Decorate(h custody.Handler, decorators ...custody.Decorator) custody.Handler {
	for i := len(decorators) - 1; i >= 0; i-- {
		h = decorated{next: h, dec: decorators[i]}
	}
	return h
}

type decorated struct {
	next custody.Handler
	dec  custody.Decorator
}

func (d decorated) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
