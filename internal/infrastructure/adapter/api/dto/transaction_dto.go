package dto

import (
	"encoding/json"
	"time"
)

// AmountValue accepts either an integer in minor units or a decimal string in
// major units ("10.15"). The string form is resolved against the request
// currency by the handler.
type AmountValue struct {
	MinorUnits int64
	Major      string
}

// UnmarshalJSON decodes the two accepted amount shapes
func (a *AmountValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &a.Major)
	}
	return json.Unmarshal(data, &a.MinorUnits)
}

// RecordTransactionRequest represents the API request for recording a ledger
// entry. Amount is a positive magnitude; the transaction type decides whether
// the entry credits or debits the wallet.
type RecordTransactionRequest struct {
	Type            string         `json:"type" binding:"required"`
	Amount          AmountValue    `json:"amount"`
	Currency        string         `json:"currency"`
	Description     string         `json:"description"`
	Metadata        map[string]any `json:"metadata"`
	PaymentMethodID string         `json:"paymentMethodId"`
	IdempotencyKey  string         `json:"idempotencyKey"`
}

// RefundRequest represents the API request for refunding a completed
// transaction. A zero or omitted amount means a full refund.
type RefundRequest struct {
	Amount int64 `json:"amount" binding:"gte=0"`
}

// ListTransactionsQuery represents the query parameters for listing a user's
// ledger entries
type ListTransactionsQuery struct {
	Types     []string   `form:"type"`
	Statuses  []string   `form:"status"`
	MinAmount *int64     `form:"minAmount"`
	MaxAmount *int64     `form:"maxAmount"`
	From      *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To        *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Search    string     `form:"search"`
	Limit     int        `form:"limit"`
}

// TransactionResponse represents a single ledger entry in API responses
type TransactionResponse struct {
	ID                   string            `json:"id"`
	UserID               string            `json:"userId"`
	Type                 string            `json:"type"`
	Amount               int64             `json:"amount"`
	FormattedAmount      string            `json:"formattedAmount"`
	Currency             string            `json:"currency"`
	Description          string            `json:"description"`
	Status               string            `json:"status"`
	Bucket               string            `json:"bucket"`
	CreatedAt            time.Time         `json:"createdAt"`
	ProcessedAt          *time.Time        `json:"processedAt,omitempty"`
	Metadata             map[string]string `json:"metadata,omitempty"`
	PaymentMethodID      string            `json:"paymentMethodId,omitempty"`
	RelatedTransactionID string            `json:"relatedTransactionId,omitempty"`
}

// ListTransactionsResponse represents the API response for a ledger listing
type ListTransactionsResponse struct {
	UserID       string                `json:"userId"`
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}
