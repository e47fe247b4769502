package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
)

// DefaultCurrency is used when a balance has not been provisioned yet
const DefaultCurrency = "USD"

// zeroDecimalCurrencies have no minor unit (1 unit == 1 major unit)
var zeroDecimalCurrencies = map[string]struct{}{
	"JPY": {}, "KRW": {}, "VND": {}, "CLP": {}, "ISK": {}, "UGX": {},
}

// threeDecimalCurrencies use 1000 minor units per major unit
var threeDecimalCurrencies = map[string]struct{}{
	"BHD": {}, "JOD": {}, "KWD": {}, "OMR": {}, "TND": {},
}

// MinorUnitDigits returns the number of decimal digits of the currency's
// minor unit: 0 for yen-like currencies, 3 for dinar-like ones, 2 otherwise.
func MinorUnitDigits(currency string) int32 {
	code := strings.ToUpper(currency)
	if _, ok := zeroDecimalCurrencies[code]; ok {
		return 0
	}
	if _, ok := threeDecimalCurrencies[code]; ok {
		return 3
	}
	return 2
}

// ValidateCurrency checks the currency is a plausible ISO 4217 code
func ValidateCurrency(currency string) error {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if len(code) != 3 {
		return fmt.Errorf("%w: %q", errs.ErrInvalidCurrency, currency)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: %q", errs.ErrInvalidCurrency, currency)
		}
	}
	return nil
}

// FormatMinorUnits renders an amount held in minor units as a decimal string
// in major units, with the currency's fixed number of decimal places.
// For example 1015 cents formats as "10.15"; -1015 as "-10.15".
func FormatMinorUnits(amount int64, currency string) string {
	digits := MinorUnitDigits(currency)
	return decimal.New(amount, -digits).StringFixed(digits)
}

// ParseMajorUnits converts a decimal string in major units to an integer
// amount in the currency's minor units. Sub-minor-unit precision is rejected
// rather than rounded: "10.155" is not a valid USD amount.
func ParseMajorUnits(amount string, currency string) (int64, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}

	shifted := d.Shift(MinorUnitDigits(currency))
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: more decimal places than %s allows", errs.ErrInvalidAmount, strings.ToUpper(currency))
	}

	// decimal.IntPart silently truncates values beyond int64; reject them instead
	if !shifted.Equal(decimal.NewFromInt(shifted.IntPart())) {
		return 0, fmt.Errorf("%w: amount out of range", errs.ErrInvalidAmount)
	}

	return shifted.IntPart(), nil
}
