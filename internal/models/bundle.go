// internal/models/bundle.go
package models

import "time"

// Bundle is an ephemeral combined-purchase offer synthesized right before a
// multi-item checkout attempt. It is never persisted past the attempt; the
// validity window is enforced by the provider, not by this system.
type Bundle struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"total_price"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
}
