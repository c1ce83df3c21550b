package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseEnvelope_TypicalAlert(t *testing.T) {
	payload := []byte(`{"ticker":"BTCUSDT","action":"BUY","price":67000.5,"strategy":"sma_cross","comment":"golden cross"}`)

	env := ParseEnvelope(payload)

	if env.Ticker != "BTCUSDT" {
		t.Errorf("Expected ticker BTCUSDT, got %s", env.Ticker)
	}
	if env.Action != "buy" {
		t.Errorf("Expected action lowered to buy, got %s", env.Action)
	}
	if !env.Price.Equal(decimal.NewFromFloat(67000.5)) {
		t.Errorf("Expected price 67000.5, got %s", env.Price)
	}
	if env.Strategy != "sma_cross" {
		t.Errorf("Expected strategy sma_cross, got %s", env.Strategy)
	}
}

func TestParseEnvelope_AlternateFieldNames(t *testing.T) {
	t.Run("symbol instead of ticker", func(t *testing.T) {
		env := ParseEnvelope([]byte(`{"symbol":"ETHUSDT","side":"SELL"}`))
		if env.Ticker != "ETHUSDT" {
			t.Errorf("Expected ticker from symbol field, got %s", env.Ticker)
		}
		if env.Action != "sell" {
			t.Errorf("Expected action from side field, got %s", env.Action)
		}
	})

	t.Run("ticker wins over symbol", func(t *testing.T) {
		env := ParseEnvelope([]byte(`{"ticker":"BTCUSDT","symbol":"ETHUSDT"}`))
		if env.Ticker != "BTCUSDT" {
			t.Errorf("Expected ticker field to win, got %s", env.Ticker)
		}
	})
}

func TestParseEnvelope_StringPrice(t *testing.T) {
	env := ParseEnvelope([]byte(`{"ticker":"BTCUSDT","price":"67000.5"}`))
	if !env.Price.Equal(decimal.NewFromFloat(67000.5)) {
		t.Errorf("Expected string price to parse, got %s", env.Price)
	}
}

func TestParseEnvelope_UnknownShape(t *testing.T) {
	t.Run("array payload", func(t *testing.T) {
		env := ParseEnvelope([]byte(`[1,2,3]`))
		if !env.IsEmpty() {
			t.Error("Expected empty envelope for array payload")
		}
	})

	t.Run("unrelated object", func(t *testing.T) {
		env := ParseEnvelope([]byte(`{"hello":"world"}`))
		if !env.IsEmpty() {
			t.Error("Expected empty envelope for unrelated object")
		}
	})

	t.Run("unparseable price is ignored", func(t *testing.T) {
		env := ParseEnvelope([]byte(`{"ticker":"BTCUSDT","price":"n/a"}`))
		if !env.Price.IsZero() {
			t.Errorf("Expected zero price, got %s", env.Price)
		}
		if env.Ticker != "BTCUSDT" {
			t.Error("Bad price must not discard the rest of the envelope")
		}
	})
}

func TestAlertEnvelope_Summary(t *testing.T) {
	t.Run("full envelope", func(t *testing.T) {
		env := ParseEnvelope([]byte(`{"ticker":"BTCUSDT","action":"buy","price":67000.5}`))
		if got := env.Summary(); got != "BTCUSDT buy @ 67000.5" {
			t.Errorf("Summary = %q", got)
		}
	})

	t.Run("ticker only", func(t *testing.T) {
		env := AlertEnvelope{Ticker: "BTCUSDT"}
		if got := env.Summary(); got != "BTCUSDT" {
			t.Errorf("Summary = %q", got)
		}
	})

	t.Run("empty envelope", func(t *testing.T) {
		if got := (AlertEnvelope{}).Summary(); got != "" {
			t.Errorf("Expected empty summary, got %q", got)
		}
	})
}
