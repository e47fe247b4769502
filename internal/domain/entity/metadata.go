package entity

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
)

// Payment metadata keys computed by the builders. Caller-supplied fields may
// never override these.
const (
	MetadataKeyPaymentType = "paymentType"
	MetadataKeyTimestamp   = "timestamp"
	MetadataKeyEventID     = "eventId"
	MetadataKeyProductID   = "productId"
)

// Payment types
const (
	PaymentTypeEvent   = "event"
	PaymentTypeProduct = "product"
)

// Processor-imposed metadata limits. Keys beyond the limit are dropped,
// values are truncated.
const (
	MetadataMaxKeyLength   = 40
	MetadataMaxValueLength = 500
)

// PaymentMetadata is the flat string-keyed map the payment processor accepts.
// It is transient: validated and normalized here, then attached to a payment
// intent, never persisted as its own entity.
type PaymentMetadata map[string]string

// NewEventPaymentMetadata builds processor-facing metadata for an event
// purchase. The event ID is required; extra fields are normalized and merged,
// but the computed paymentType, timestamp and eventId always win.
func NewEventPaymentMetadata(eventID string, extra map[string]any, timeProvider coreport.TimeProvider) (PaymentMetadata, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, errs.ErrMissingEventID
	}

	meta := NormalizePaymentMetadata(extra)
	meta[MetadataKeyPaymentType] = PaymentTypeEvent
	meta[MetadataKeyTimestamp] = timeProvider.Now().UTC().Format(time.RFC3339)
	meta[MetadataKeyEventID] = eventID
	return meta, nil
}

// NewProductPaymentMetadata builds processor-facing metadata for a product
// purchase, keyed on the product ID. Symmetric to NewEventPaymentMetadata.
func NewProductPaymentMetadata(productID string, extra map[string]any, timeProvider coreport.TimeProvider) (PaymentMetadata, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, errs.ErrMissingProductID
	}

	meta := NormalizePaymentMetadata(extra)
	meta[MetadataKeyPaymentType] = PaymentTypeProduct
	meta[MetadataKeyTimestamp] = timeProvider.Now().UTC().Format(time.RFC3339)
	meta[MetadataKeyProductID] = productID
	return meta, nil
}

// NormalizePaymentMetadata flattens arbitrary structured payment context into
// the string-keyed map the processor accepts. Policy: nil values are dropped,
// strings pass through unchanged, everything else is JSON-encoded. A nil map
// yields an empty map, never an error. The function is idempotent: feeding
// an already-normalized map back in returns an identical map.
func NormalizePaymentMetadata(meta map[string]any) PaymentMetadata {
	normalized := make(PaymentMetadata, len(meta))
	for key, value := range meta {
		if value == nil {
			continue
		}
		if len(key) == 0 || len(key) > MetadataMaxKeyLength {
			continue
		}

		var str string
		if s, ok := value.(string); ok {
			str = s
		} else {
			encoded, err := json.Marshal(value)
			if err != nil {
				// Unencodable values (channels, funcs) have no processor representation
				continue
			}
			str = string(encoded)
		}

		if len(str) > MetadataMaxValueLength {
			// Back off to a rune boundary so the cut never splits a
			// multi-byte character.
			cut := MetadataMaxValueLength
			for cut > 0 && !utf8.RuneStart(str[cut]) {
				cut--
			}
			str = str[:cut]
		}
		normalized[key] = str
	}
	return normalized
}
