package domain

import "time"

// Delivery outcome states
const (
	OutcomeForwarded = "FORWARDED" // remote reached, any status code
	OutcomeFailed    = "FAILED"    // transport-level failure (timeout, refused, DNS)
)

// Delivery records one accepted webhook and the result of its forwarding
// attempt. One row per accepted request; rejected payloads are never recorded.
type Delivery struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReceivedAt   time.Time `gorm:"index" json:"received_at"`
	Payload      string    `json:"payload"`
	Ticker       string    `gorm:"index" json:"ticker,omitempty"`
	Action       string    `json:"action,omitempty"`
	Outcome      string    `gorm:"index" json:"outcome"`
	RemoteStatus int       `json:"remote_status,omitempty"`
	LatencyMS    int64     `json:"latency_ms"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
