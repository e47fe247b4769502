package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
)

func TestMinorUnitDigits(t *testing.T) {
	assert.Equal(t, int32(2), MinorUnitDigits("USD"))
	assert.Equal(t, int32(2), MinorUnitDigits("EUR"))
	assert.Equal(t, int32(0), MinorUnitDigits("JPY"))
	assert.Equal(t, int32(0), MinorUnitDigits("jpy"))
	assert.Equal(t, int32(3), MinorUnitDigits("BHD"))
	assert.Equal(t, int32(3), MinorUnitDigits("kwd"))
}

func TestValidateCurrency(t *testing.T) {
	t.Run("accepts three-letter codes", func(t *testing.T) {
		assert.NoError(t, ValidateCurrency("USD"))
		assert.NoError(t, ValidateCurrency("usd"))
		assert.NoError(t, ValidateCurrency(" JPY "))
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		for _, code := range []string{"", "US", "USDT", "U$D", "123"} {
			err := ValidateCurrency(code)
			assert.ErrorIs(t, err, errs.ErrInvalidCurrency, "code %q", code)
		}
	})
}

func TestFormatMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		currency string
		expected string
	}{
		{"two decimal currency", 1015, "USD", "10.15"},
		{"negative amount", -1015, "USD", "-10.15"},
		{"zero", 0, "USD", "0.00"},
		{"sub-unit amount", 5, "USD", "0.05"},
		{"zero decimal currency", 500, "JPY", "500"},
		{"three decimal currency", 1500, "BHD", "1.500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMinorUnits(tt.amount, tt.currency))
		})
	}
}

func TestParseMajorUnits(t *testing.T) {
	t.Run("parses valid amounts", func(t *testing.T) {
		amount, err := ParseMajorUnits("10.15", "USD")
		assert.NoError(t, err)
		assert.Equal(t, int64(1015), amount)

		amount, err = ParseMajorUnits("500", "JPY")
		assert.NoError(t, err)
		assert.Equal(t, int64(500), amount)

		amount, err = ParseMajorUnits("-3.50", "USD")
		assert.NoError(t, err)
		assert.Equal(t, int64(-350), amount)
	})

	t.Run("rejects sub-minor-unit precision", func(t *testing.T) {
		_, err := ParseMajorUnits("10.155", "USD")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		_, err = ParseMajorUnits("500.5", "JPY")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, input := range []string{"", "  ", "abc", "10..5"} {
			_, err := ParseMajorUnits(input, "USD")
			assert.ErrorIs(t, err, errs.ErrInvalidAmount, "input %q", input)
		}
	})

	t.Run("round trips with FormatMinorUnits", func(t *testing.T) {
		formatted := FormatMinorUnits(123456789, "USD")
		parsed, err := ParseMajorUnits(formatted, "USD")
		assert.NoError(t, err)
		assert.Equal(t, int64(123456789), parsed)
	})
}
