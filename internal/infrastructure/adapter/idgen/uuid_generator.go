package idgen

import (
	"github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/google/uuid"
)

// UUIDGenerator implements the IDGenerator interface using random UUIDs
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUID-based id generator
func NewUUIDGenerator() core.IDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new UUIDv4 string
func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}
