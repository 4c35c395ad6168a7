package booking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeatAccepts(t *testing.T) {
	seating := Seating{Rows: 20, SeatsInRow: 6}

	cases := []struct {
		name      string
		row, seat int
	}{
		{"first seat", 1, 1},
		{"last seat", 20, 6},
		{"middle", 10, 3},
		{"last row first seat", 20, 1},
		{"first row last seat", 1, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, ValidateSeat(tc.row, tc.seat, seating))
		})
	}
}

func TestValidateSeatRejects(t *testing.T) {
	seating := Seating{Rows: 20, SeatsInRow: 6}

	cases := []struct {
		name       string
		row, seat  int
		wantFields []string
	}{
		{"row too large", 21, 3, []string{"row"}},
		{"row zero", 0, 3, []string{"row"}},
		{"row negative", -1, 3, []string{"row"}},
		{"seat too large", 10, 7, []string{"seat"}},
		{"seat zero", 10, 0, []string{"seat"}},
		{"both out of range", 21, 7, []string{"row", "seat"}},
		{"both zero", 0, 0, []string{"row", "seat"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSeat(tc.row, tc.seat, seating)
			require.Error(t, err)

			var invalid InvalidSeatError
			require.True(t, errors.As(err, &invalid))
			require.Len(t, invalid, len(tc.wantFields))
			for i, f := range tc.wantFields {
				assert.Equal(t, f, invalid[i].Field)
			}
		})
	}
}

func TestSeatRangeErrorMessage(t *testing.T) {
	err := ValidateSeat(99, 3, Seating{Rows: 15, SeatsInRow: 4})
	require.Error(t, err)
	assert.Equal(t, "row number must be in available range: (1, 15)", err.Error())

	err = ValidateSeat(3, 99, Seating{Rows: 15, SeatsInRow: 4})
	require.Error(t, err)
	assert.Equal(t, "seat number must be in available range: (1, 4)", err.Error())
}

func TestValidateSeatBoundsFollowSeating(t *testing.T) {
	// The same coordinate can be valid on one layout and invalid on
	// another; validation depends only on the seating passed in.
	assert.NoError(t, ValidateSeat(12, 4, Seating{Rows: 15, SeatsInRow: 6}))
	assert.Error(t, ValidateSeat(12, 4, Seating{Rows: 10, SeatsInRow: 6}))
	assert.Error(t, ValidateSeat(12, 4, Seating{Rows: 15, SeatsInRow: 3}))
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 120, Seating{Rows: 20, SeatsInRow: 6}.Capacity())
	assert.Equal(t, 0, Seating{}.Capacity())
}
