package payment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	t.Run("converts common prices with round-half-up", func(t *testing.T) {
		cases := []struct {
			price float64
			want  int64
		}{
			{49.99, 4999},
			{10.00, 1000},
			{0.50, 50},
			{199.999, 20000},
			{10.005, 1001},
		}
		for _, tc := range cases {
			got, err := MinorUnits(tc.price)
			require.NoError(t, err, "price %v", tc.price)
			assert.Equal(t, tc.want, got, "price %v", tc.price)
		}
	})

	t.Run("rejects amounts below processor minimum", func(t *testing.T) {
		_, err := MinorUnits(0.30)
		assert.ErrorIs(t, err, ErrAmountTooSmall)

		_, err = MinorUnits(0.49)
		assert.ErrorIs(t, err, ErrAmountTooSmall)
	})

	t.Run("rejects non-positive and non-finite prices", func(t *testing.T) {
		for _, price := range []float64{0, -10, math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := MinorUnits(price)
			assert.ErrorIs(t, err, ErrInvalidAmount, "price %v", price)
		}
	})
}

func TestStatusTransitions(t *testing.T) {
	t.Run("pending can move to any terminal status", func(t *testing.T) {
		for _, to := range []Status{StatusSucceeded, StatusFailed, StatusExpired, StatusCanceled} {
			assert.True(t, StatusPending.CanBeUpdatedTo(to), "pending -> %s", to)
		}
	})

	t.Run("terminal statuses never move", func(t *testing.T) {
		for _, from := range []Status{StatusSucceeded, StatusFailed, StatusExpired, StatusCanceled} {
			for _, to := range AvailableStatuses {
				assert.False(t, from.CanBeUpdatedTo(to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("pending cannot move back to pending", func(t *testing.T) {
		assert.False(t, StatusPending.CanBeUpdatedTo(StatusPending))
	})

	t.Run("NewStatus rejects unknown values", func(t *testing.T) {
		_, err := NewStatus("requires_action")
		assert.Error(t, err)

		s, err := NewStatus("succeeded")
		require.NoError(t, err)
		assert.Equal(t, StatusSucceeded, s)
	})
}
