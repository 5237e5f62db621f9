package booking

import (
	"fmt"
	"math/rand"
	"time"
)

// NewBookingID builds a human-readable booking reference: a fixed prefix,
// the creation epoch in milliseconds and a 3-digit random suffix. Collision
// odds are treated as negligible; this is a readable reference, not a
// cryptographic id.
func NewBookingID() string {
	return fmt.Sprintf("SRV%d%d", time.Now().UnixMilli(), 100+rand.Intn(900))
}

// NewTxnID builds a synthetic payment transaction reference in the same shape.
func NewTxnID() string {
	return fmt.Sprintf("TXN%d%d", time.Now().UnixMilli(), 100+rand.Intn(900))
}
