package escrow

import (
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordLayout(t *testing.T) {
	Convey("Given an escrow record", t, func() {
		seller := custodytest.RandomAddr(t)
		asset := custodytest.RandomAddr(t)
		r := &Record{Seller: seller, AssetID: asset, Price: 0x0102, Status: StatusFunded}

		Convey("the encoding is little endian and fixed size", func() {
			raw := r.Encode()
			So(len(raw), ShouldEqual, RecordSize)
			So(raw[0:8], ShouldResemble, Discriminator)
			So(raw[8:40], ShouldResemble, []byte(seller))
			So(raw[40:72], ShouldResemble, []byte(asset))
			So(raw[72], ShouldEqual, byte(0x02))
			So(raw[73], ShouldEqual, byte(0x01))
			So(raw[80], ShouldEqual, byte(StatusFunded))

			back, err := DecodeRecord(raw)
			So(err, ShouldBeNil)
			So(back, ShouldResemble, r)
		})

		Convey("a zeroed region is not a record", func() {
			_, err := DecodeRecord(make([]byte, RecordSize))
			So(errors.ErrInvalidState.Is(err), ShouldBeTrue)
		})

		Convey("a region of another size is rejected", func() {
			_, err := DecodeRecord(r.Encode()[:RecordLength])
			So(errors.ErrDecoding.Is(err), ShouldBeTrue)
		})

		Convey("an unknown status is rejected", func() {
			raw := r.Encode()
			raw[80] = 9
			_, err := DecodeRecord(raw)
			So(errors.ErrInvalidState.Is(err), ShouldBeTrue)
		})

		Convey("the status only moves forward", func() {
			So(r.Advance(StatusCreated, StatusFunded), ShouldNotBeNil)
			So(r.Advance(StatusFunded, StatusSettled), ShouldBeNil)
			So(r.Status, ShouldEqual, StatusSettled)
			err := r.Advance(StatusFunded, StatusSettled)
			So(errors.ErrInvalidState.Is(err), ShouldBeTrue)
		})
	})
}

func TestRecordSeller(t *testing.T) {
	r := &Record{Status: StatusCreated}
	if r.HasSeller() {
		t.Fatal("unexpected seller")
	}
	back, err := DecodeRecord(r.Encode())
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	if back.HasSeller() {
		t.Fatal("unexpected seller after decoding")
	}
	r.Seller = custodytest.RandomAddr(t)
	if !r.HasSeller() {
		t.Fatal("seller expected")
	}
}

func TestDecode(t *testing.T) {
	cases := map[string]struct {
		data    []byte
		want    interface{}
		wantErr *errors.Error
	}{
		"create without price": {
			data: []byte{TagCreate},
			want: CreateMsg{},
		},
		"create with price": {
			data: CreateMsg{Price: 500, HasPrice: true}.Encode(),
			want: CreateMsg{Price: 500, HasPrice: true},
		},
		"deposit": {
			data: DepositMsg{Quantity: 10, Bump: 254}.Encode(),
			want: DepositMsg{Quantity: 10, Bump: 254},
		},
		"settle": {
			data: SettleMsg{Quantity: 10, Bump: 253, Price: 500}.Encode(),
			want: SettleMsg{Quantity: 10, Bump: 253, Price: 500},
		},
		"empty": {
			data:    nil,
			wantErr: errors.ErrDecoding,
		},
		"unknown tag": {
			data:    []byte{3},
			wantErr: errors.ErrUnknownInstruction,
		},
		"deposit without bump": {
			data:    DepositMsg{Quantity: 10}.Encode()[:9],
			wantErr: errors.ErrDecoding,
		},
		"settle with trailing bytes": {
			data:    append(SettleMsg{Quantity: 1}.Encode(), 0),
			wantErr: errors.ErrDecoding,
		},
		"create with short price": {
			data:    []byte{TagCreate, 1, 2, 3},
			wantErr: errors.ErrDecoding,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Decode(tc.data)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %s error, got %+v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %+v", err)
			}
			if got != tc.want {
				t.Fatalf("want %#v, got %#v", tc.want, got)
			}
		})
	}
}
