package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// AlertEnvelope holds the fields we can recognize inside a TradingView alert
// payload. Extraction is best-effort: the payload itself stays opaque and is
// relayed byte-for-byte whether or not any field parses.
type AlertEnvelope struct {
	Ticker   string          `json:"ticker,omitempty"`
	Action   string          `json:"action,omitempty"` // "buy", "sell", or whatever the alert template sends
	Price    decimal.Decimal `json:"price,omitempty"`
	Strategy string          `json:"strategy,omitempty"`
	Comment  string          `json:"comment,omitempty"`
}

// rawAlert mirrors the loosely-typed TradingView template fields.
// Price arrives as number or string depending on the template, so it is
// captured raw and parsed separately.
type rawAlert struct {
	Ticker   string          `json:"ticker"`
	Symbol   string          `json:"symbol"`
	Action   string          `json:"action"`
	Side     string          `json:"side"`
	Price    json.RawMessage `json:"price"`
	Strategy string          `json:"strategy"`
	Comment  string          `json:"comment"`
}

// ParseEnvelope extracts recognizable alert fields from a raw JSON payload.
// It never fails: unknown shapes simply yield an empty envelope.
func ParseEnvelope(payload []byte) AlertEnvelope {
	var raw rawAlert
	if err := json.Unmarshal(payload, &raw); err != nil {
		return AlertEnvelope{}
	}

	env := AlertEnvelope{
		Ticker:   raw.Ticker,
		Action:   strings.ToLower(raw.Action),
		Strategy: raw.Strategy,
		Comment:  raw.Comment,
	}
	if env.Ticker == "" {
		env.Ticker = raw.Symbol
	}
	if env.Action == "" {
		env.Action = strings.ToLower(raw.Side)
	}
	env.Price = parsePrice(raw.Price)

	return env
}

// parsePrice accepts both `"price": 67000.5` and `"price": "67000.5"`.
func parsePrice(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	s := strings.Trim(string(raw), `"`)
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// Summary renders a short human-readable form for journal and stream output,
// e.g. "BTCUSDT buy @ 67000.5". Empty envelopes yield "".
func (e AlertEnvelope) Summary() string {
	var b strings.Builder
	b.WriteString(e.Ticker)
	if e.Action != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.Action)
	}
	if !e.Price.IsZero() {
		b.WriteString(" @ ")
		b.WriteString(e.Price.String())
	}
	return b.String()
}

// IsEmpty reports whether nothing recognizable was extracted.
func (e AlertEnvelope) IsEmpty() bool {
	return e.Ticker == "" && e.Action == "" && e.Strategy == "" && e.Comment == "" && e.Price.IsZero()
}
