package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	t.Run("nil balance renders as zero", func(t *testing.T) {
		view := FormatBalance(nil)
		assert.Equal(t, "0.00", view.Available)
		assert.Equal(t, "0.00", view.Pending)
		assert.Equal(t, "0.00", view.PlatformCredit)
		assert.Equal(t, "0.00", view.ReferralEarnings)
		assert.Equal(t, "0.00", view.Total)
		assert.Equal(t, DefaultCurrency, view.Currency)
		assert.Empty(t, view.UserID)
	})

	t.Run("formats each bucket in major units", func(t *testing.T) {
		view := FormatBalance(&WalletBalance{
			UserID:           "user-1",
			Available:        10500,
			Pending:          50,
			PlatformCredit:   2000,
			ReferralEarnings: 0,
			Currency:         "USD",
		})
		assert.Equal(t, "user-1", view.UserID)
		assert.Equal(t, "105.00", view.Available)
		assert.Equal(t, "0.50", view.Pending)
		assert.Equal(t, "20.00", view.PlatformCredit)
		assert.Equal(t, "0.00", view.ReferralEarnings)
		assert.Equal(t, "125.50", view.Total)
		assert.Equal(t, "USD", view.Currency)
	})

	t.Run("zero-decimal currencies carry no fraction", func(t *testing.T) {
		view := FormatBalance(&WalletBalance{UserID: "user-2", Available: 1500, Currency: "JPY"})
		assert.Equal(t, "1500", view.Available)
		assert.Equal(t, "0", view.Pending)
		assert.Equal(t, "1500", view.Total)
	})
}
