package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"alert_relay/internal/domain"
)

// Response bodies of POST /webhook. The field set is a fixed contract;
// callers scrape these.
type webhookAccepted struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	RemoteStatus int    `json:"remote_status"`
}

type webhookFailed struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

type webhookRejected struct {
	Error string `json:"error"`
}

// maxPayloadBytes caps inbound bodies. TradingView alerts are tiny; anything
// near this size is not an alert.
const maxPayloadBytes = 1 << 20

// handleWebhook is the relay path: parse, journal receipt, forward
// synchronously, journal outcome, answer the caller. One forwarding attempt
// per request, nothing shared across requests beyond the journal.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	buf := acquireBodyBuffer()
	defer releaseBodyBuffer(buf)

	if _, err := io.Copy(buf, io.LimitReader(r.Body, maxPayloadBytes)); err != nil {
		s.metrics.RecordRejected()
		writeJSON(w, http.StatusBadRequest, webhookRejected{Error: "Invalid JSON payload"})
		return
	}

	// Copy out: the payload outlives the pooled buffer (recorder, stream).
	payload := make([]byte, buf.Len())
	copy(payload, buf.Bytes())

	if !isJSONPayload(payload) {
		s.metrics.RecordRejected()
		writeJSON(w, http.StatusBadRequest, webhookRejected{Error: "Invalid JSON payload"})
		return
	}

	receivedAt := time.Now()
	envelope := domain.ParseEnvelope(payload)

	if err := s.journal.Event("TradingView Webhook Triggered: %s", payload); err != nil {
		s.logger.Error("Journal write failed", slog.Any("error", err))
	}
	s.metrics.RecordReceived()

	delivery := domain.Delivery{
		ReceivedAt: receivedAt,
		Payload:    string(payload),
		Ticker:     envelope.Ticker,
		Action:     envelope.Action,
	}

	result, err := s.forwarder.Forward(r.Context(), payload)
	if err != nil {
		if jerr := s.journal.Event("Error forwarding to remote: %v", err); jerr != nil {
			s.logger.Error("Journal write failed", slog.Any("error", jerr))
		}
		s.metrics.RecordForwardFailed()

		delivery.Outcome = domain.OutcomeFailed
		delivery.Error = err.Error()
		s.recorder.Enqueue(delivery, envelope)

		writeJSON(w, http.StatusInternalServerError, webhookFailed{
			Status:  "error",
			Message: "Failed to forward to remote",
			Error:   err.Error(),
		})
		return
	}

	if jerr := s.journal.Event("Forwarded to remote: %s | Status: %d | Response: %s",
		s.forwarder.RemoteURL(), result.Status, result.Body); jerr != nil {
		s.logger.Error("Journal write failed", slog.Any("error", jerr))
	}
	s.metrics.RecordForwarded(result.Latency)

	delivery.Outcome = domain.OutcomeForwarded
	delivery.RemoteStatus = result.Status
	delivery.LatencyMS = result.Latency.Milliseconds()
	s.recorder.Enqueue(delivery, envelope)

	writeJSON(w, http.StatusOK, webhookAccepted{
		Status:       "success",
		Message:      "Alert received and forwarded",
		RemoteStatus: result.Status,
	})
}

// isJSONPayload accepts any well-formed JSON document except a bare null,
// which is what a body-less request decodes to.
func isJSONPayload(payload []byte) bool {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false
	}
	return json.Valid(trimmed)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", slog.Any("error", err))
	}
}
