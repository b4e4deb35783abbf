package custodytest

import "github.com/iov-one/custody"

// Tx is a mock transaction carrying a single instruction.
type Tx struct {
	// Instruction is returned by GetInstruction.
	Instruction *custody.Instruction
	// Err if set is returned by any method call.
	Err error
}

var _ custody.Tx = (*Tx)(nil)

func (tx *Tx) GetInstruction() (*custody.Instruction, error) {
	return tx.Instruction, tx.Err
}
