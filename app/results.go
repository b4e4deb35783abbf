package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// ResultSet contains a list of keys or values
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []custody.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []custody.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]custody.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInvalidState, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]custody.Model, len(kref))
	for i := range mods {
		mods[i] = custody.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// QueryModels decodes the key and value result sets of a query response.
func QueryModels(key, value []byte) ([]custody.Model, error) {
	var keys, values ResultSet
	if err := proto.Unmarshal(key, &keys); err != nil {
		return nil, errors.Wrap(errors.ErrDecoding, err.Error())
	}
	if err := proto.Unmarshal(value, &values); err != nil {
		return nil, errors.Wrap(errors.ErrDecoding, err.Error())
	}
	return JoinResults(&keys, &values)
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o proto.Message) error {
	var res ResultSet
	if err := proto.Unmarshal(bz, &res); err != nil {
		return errors.Wrap(errors.ErrDecoding, err.Error())
	}
	// no results, do nothing
	if len(res.Results) == 0 {
		return nil
	}
	if err := proto.Unmarshal(res.Results[0], o); err != nil {
		return errors.Wrap(errors.ErrDecoding, err.Error())
	}
	return nil
}

func marshalResults(rs *ResultSet) ([]byte, error) {
	bz, err := proto.Marshal(rs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDecoding, err.Error())
	}
	return bz, nil
}
