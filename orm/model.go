package orm

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
)

// Model is implemented by any entity that can be stored in a Bucket.
type Model interface {
	proto.Message
	Validate() error
}

// Marshal serializes a model after validating it.
func Marshal(m Model) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return raw, nil
}

// Unmarshal loads raw data into the given model.
func Unmarshal(raw []byte, dest Model) error {
	if err := proto.Unmarshal(raw, dest); err != nil {
		return errors.Wrap(errors.ErrDecoding, err.Error())
	}
	return nil
}

// newModel returns a new, empty instance of the same type as proto.
func newModel(proto Model) Model {
	return reflect.New(reflect.TypeOf(proto).Elem()).Interface().(Model)
}
