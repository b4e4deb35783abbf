package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all non nil errors into a single error. It returns
// nil if no error was provided. A group of errors reports the ABCI code of
// its first member.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

type multiErr []error

func (m multiErr) Error() string {
	points := make([]string, len(m))
	for i, err := range m {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(m), strings.Join(points, "\n\t"))
}

// Unpack implements the unpacker interface.
func (m multiErr) Unpack() []error {
	return m
}

// ABCICode returns the code of the first error, following the fail-fast
// convention used everywhere else.
func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}

func isNilErr(err error) bool {
	return errIsNil(err)
}
