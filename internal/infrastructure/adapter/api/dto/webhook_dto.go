package dto

// WebhookEventRequest represents an inbound payment-provider event
type WebhookEventRequest struct {
	EventType      string         `json:"eventType" binding:"required"`
	UserID         string         `json:"userId"`
	Type           string         `json:"type"`
	Amount         int64          `json:"amount"`
	Currency       string         `json:"currency"`
	Description    string         `json:"description"`
	Reference      string         `json:"reference"`
	Metadata       map[string]any `json:"metadata"`
	IdempotencyKey string         `json:"idempotencyKey"`
}

// WebhookAckResponse acknowledges receipt of a provider event
type WebhookAckResponse struct {
	Received bool `json:"received"`
}
