package escrow

import (
	"bytes"
	"encoding/json"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/system"
)

// QueryHandler returns escrow records as json, keyed by the escrow address.
type QueryHandler struct {
	program  custody.Address
	accounts system.AccountBucket
}

var _ custody.QueryHandler = QueryHandler{}

// NewQueryHandler returns a handler for the records of the given program.
func NewQueryHandler(program custody.Address) QueryHandler {
	return QueryHandler{
		program:  program,
		accounts: system.NewAccountBucket(),
	}
}

// Query loads a single record by address, or all records owned by the
// program whose address starts with the given prefix.
func (q QueryHandler) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		m, err := q.load(db, data)
		if err != nil || m == nil {
			return nil, err
		}
		return []custody.Model{*m}, nil
	case custody.PrefixQueryMod:
		idx, err := q.accounts.Index("owner")
		if err != nil {
			return nil, err
		}
		keys, err := idx.Keys(db, q.program)
		if err != nil {
			return nil, err
		}
		var res []custody.Model
		for _, k := range keys {
			if !bytes.HasPrefix(k, data) {
				continue
			}
			m, err := q.load(db, k)
			if err != nil {
				return nil, err
			}
			if m != nil {
				res = append(res, *m)
			}
		}
		return res, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "unknown mod: %s", mod)
	}
}

// load returns nil when there is no escrow record at the address.
func (q QueryHandler) load(db custody.ReadOnlyKVStore, addr []byte) (*custody.Model, error) {
	acct, err := q.accounts.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if acct.Lamports == 0 || !q.program.Equals(acct.OwnerAddress()) {
		return nil, nil
	}
	record, err := DecodeRecord(acct.Data)
	if err != nil {
		// data of another kind, owned by the same program
		return nil, nil
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDecoding, err.Error())
	}
	m := custody.Pair(addr, raw)
	return &m, nil
}
