package commands

import (
	"encoding/hex"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
)

// Encoder is implemented by the fixed layout encodings, such as the escrow
// instruction data and the escrow record.
type Encoder interface {
	Encode() []byte
}

// Example will be written out to a file. Filename should have no path and
// no extension. Obj must be a proto.Message or an Encoder.
type Example struct {
	Filename string
	Obj      interface{}
}

// TestGenCmd writes the json form and the binary encoding of every example
// into the directory named by the first argument, testdata by default.
// Protobuf messages are stored as .bin, fixed layout encodings as .bin and
// .hex so a client implementation can compare byte by byte.
func TestGenCmd(examples []Example, args []string) error {
	outdir := "testdata"
	if len(args) > 0 {
		outdir = args[0]
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return errors.Wrap(err, "output directory")
	}

	for _, ex := range examples {
		js, err := json.MarshalIndent(ex.Obj, "", "  ")
		if err != nil {
			return errors.Wrap(err, ex.Filename)
		}
		if err := write(outdir, ex.Filename+".json", js); err != nil {
			return err
		}

		switch obj := ex.Obj.(type) {
		case proto.Message:
			bin, err := proto.Marshal(obj)
			if err != nil {
				return errors.Wrap(err, ex.Filename)
			}
			if err := write(outdir, ex.Filename+".bin", bin); err != nil {
				return err
			}
		case Encoder:
			bin := obj.Encode()
			if err := write(outdir, ex.Filename+".bin", bin); err != nil {
				return err
			}
			if err := write(outdir, ex.Filename+".hex", []byte(hex.EncodeToString(bin)+"\n")); err != nil {
				return err
			}
		default:
			return errors.Wrapf(errors.ErrInvalidType, "%s: cannot encode %T", ex.Filename, ex.Obj)
		}
	}
	return nil
}

func write(dir, name string, data []byte) error {
	if err := ioutil.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return errors.Wrap(err, name)
	}
	return nil
}
