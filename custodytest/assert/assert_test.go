package assert

import (
	"testing"

	"github.com/iov-one/custody/errors"
)

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		ErrWant  error
		ErrGot   error
		WantFail bool
	}{
		"same error": {
			ErrWant:  errors.ErrEmpty,
			ErrGot:   errors.ErrEmpty,
			WantFail: false,
		},
		"compared to nil": {
			ErrWant:  nil,
			ErrGot:   errors.ErrEmpty,
			WantFail: true,
		},
		"both nil": {
			ErrWant:  nil,
			ErrGot:   nil,
			WantFail: false,
		},
		"wrapped": {
			ErrWant:  errors.ErrEmpty,
			ErrGot:   errors.Wrap(errors.ErrEmpty, "test"),
			WantFail: false,
		},
		"different": {
			ErrWant:  errors.ErrEmpty,
			ErrGot:   errors.ErrNotFound,
			WantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{}
			IsErr(mock, tc.ErrWant, tc.ErrGot)
			if failed := mock.failcalls > 0; tc.WantFail != failed {
				t.Fatalf("want fail %v, got %v", tc.WantFail, failed)
			}
		})
	}
}

func TestNil(t *testing.T) {
	mock := &tmock{}
	var ptr *int
	Nil(mock, ptr)
	Nil(mock, nil)
	if mock.failcalls != 0 {
		t.Fatal("nil values must pass")
	}
	Nil(mock, 1)
	if mock.failcalls != 1 {
		t.Fatal("non nil value must fail")
	}
}

type tmock struct {
	failcalls int
}

func (t *tmock) Helper() {}

func (t *tmock) Fatal(args ...interface{}) {
	t.failcalls++
}

func (t *tmock) Fatalf(s string, args ...interface{}) {
	t.failcalls++
}
