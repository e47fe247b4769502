package entity

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
)

func TestNormalizePaymentMetadata(t *testing.T) {
	t.Run("strings pass through unchanged", func(t *testing.T) {
		got := NormalizePaymentMetadata(map[string]any{"orderId": "ord-42"})
		assert.Equal(t, PaymentMetadata{"orderId": "ord-42"}, got)
	})

	t.Run("non-strings are JSON encoded", func(t *testing.T) {
		got := NormalizePaymentMetadata(map[string]any{
			"quantity": 3,
			"gift":     true,
			"ratio":    1.5,
			"tags":     []string{"vip", "early"},
			"nested":   map[string]any{"tier": "gold"},
		})
		assert.Equal(t, "3", got["quantity"])
		assert.Equal(t, "true", got["gift"])
		assert.Equal(t, "1.5", got["ratio"])
		assert.Equal(t, `["vip","early"]`, got["tags"])
		assert.Equal(t, `{"tier":"gold"}`, got["nested"])
	})

	t.Run("nil values are dropped", func(t *testing.T) {
		got := NormalizePaymentMetadata(map[string]any{"kept": "yes", "dropped": nil})
		assert.Equal(t, PaymentMetadata{"kept": "yes"}, got)
	})

	t.Run("oversized keys are dropped", func(t *testing.T) {
		longKey := strings.Repeat("k", MetadataMaxKeyLength+1)
		got := NormalizePaymentMetadata(map[string]any{longKey: "v", "ok": "v"})
		assert.Equal(t, PaymentMetadata{"ok": "v"}, got)
	})

	t.Run("oversized values are truncated", func(t *testing.T) {
		got := NormalizePaymentMetadata(map[string]any{
			"note": strings.Repeat("x", MetadataMaxValueLength+200),
		})
		assert.Len(t, got["note"], MetadataMaxValueLength)
	})

	t.Run("truncation never splits a multi-byte character", func(t *testing.T) {
		// Three-byte runes guarantee the cap lands mid-rune for some prefix.
		value := strings.Repeat("あ", MetadataMaxValueLength)
		got := NormalizePaymentMetadata(map[string]any{"note": value})

		assert.True(t, utf8.ValidString(got["note"]))
		assert.LessOrEqual(t, len(got["note"]), MetadataMaxValueLength)
		assert.True(t, strings.HasPrefix(value, got["note"]))
	})

	t.Run("nil input yields an empty map", func(t *testing.T) {
		got := NormalizePaymentMetadata(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("normalization is idempotent", func(t *testing.T) {
		first := NormalizePaymentMetadata(map[string]any{"quantity": 3, "orderId": "ord-42"})

		asAny := make(map[string]any, len(first))
		for k, v := range first {
			asAny[k] = v
		}
		second := NormalizePaymentMetadata(asAny)
		assert.Equal(t, first, second)
	})
}

func TestNewEventPaymentMetadata(t *testing.T) {
	fixedTime := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	tp := fixedTimeProvider(fixedTime)

	t.Run("computed keys always win", func(t *testing.T) {
		meta, err := NewEventPaymentMetadata("evt-7", map[string]any{
			"paymentType": "forged",
			"timestamp":   "1970-01-01T00:00:00Z",
			"eventId":     "evt-other",
			"seat":        "A12",
		}, tp)
		assert.NoError(t, err)
		assert.Equal(t, PaymentTypeEvent, meta[MetadataKeyPaymentType])
		assert.Equal(t, "2025-03-14T09:30:00Z", meta[MetadataKeyTimestamp])
		assert.Equal(t, "evt-7", meta[MetadataKeyEventID])
		assert.Equal(t, "A12", meta["seat"])
	})

	t.Run("requires an event id", func(t *testing.T) {
		_, err := NewEventPaymentMetadata("  ", nil, tp)
		assert.ErrorIs(t, err, errs.ErrMissingEventID)
	})
}

func TestNewProductPaymentMetadata(t *testing.T) {
	fixedTime := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	tp := fixedTimeProvider(fixedTime)

	t.Run("builds product metadata", func(t *testing.T) {
		meta, err := NewProductPaymentMetadata("prod-9", map[string]any{"quantity": 2}, tp)
		assert.NoError(t, err)
		assert.Equal(t, PaymentTypeProduct, meta[MetadataKeyPaymentType])
		assert.Equal(t, "prod-9", meta[MetadataKeyProductID])
		assert.Equal(t, "2", meta["quantity"])
	})

	t.Run("requires a product id", func(t *testing.T) {
		_, err := NewProductPaymentMetadata("", nil, tp)
		assert.ErrorIs(t, err, errs.ErrMissingProductID)
	})
}
