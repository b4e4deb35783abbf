package utils

import (
	"github.com/iov-one/custody"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionTagger will inspect the instruction being executed and
// add a tag `program = <program address>`. This should be applied as
// a decorator so clients have a standard way to search / subscribe
// to eg. escrow settlements.
type ActionTagger struct{}

var _ custody.Decorator = ActionTagger{}

// ProgramKey is used by ActionTagger as the Key in the Tag it appends
const ProgramKey = "program"

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	ins, err := tx.GetInstruction()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	tag := common.KVPair{
		Key:   []byte(ProgramKey),
		Value: []byte(ins.ProgramAddress().String()),
	}
	res.Tags = append(res.Tags, tag)
	return res, nil
}
