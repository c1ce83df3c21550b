package server

import (
	"context"
	"log/slog"
	"sync"

	"alert_relay/internal/domain"
	"alert_relay/internal/infra/storage"
)

// recordedDelivery pairs a delivery row with its parsed envelope so the hub
// can render a summary without re-parsing the payload.
type recordedDelivery struct {
	delivery domain.Delivery
	envelope domain.AlertEnvelope
}

// Recorder persists deliveries and feeds the live stream off the request
// path. The webhook handler enqueues and moves on; a full inbox drops the
// record rather than delaying the caller's response.
type Recorder struct {
	store  *storage.Storage
	hub    *Hub
	inbox  chan recordedDelivery
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewRecorder creates a recorder writing to the given store and hub.
func NewRecorder(store *storage.Storage, hub *Hub) *Recorder {
	return &Recorder{
		store:  store,
		hub:    hub,
		inbox:  make(chan recordedDelivery, 256),
		logger: slog.Default().With("module", "recorder"),
	}
}

// Start launches the consuming goroutine.
func (r *Recorder) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-ctx.Done():
				r.drain()
				return
			case rec := <-r.inbox:
				r.record(rec)
			}
		}
	}()
}

// Enqueue hands one delivery to the recorder. Non-blocking.
func (r *Recorder) Enqueue(d domain.Delivery, env domain.AlertEnvelope) {
	select {
	case r.inbox <- recordedDelivery{delivery: d, envelope: env}:
	default:
		r.logger.Warn("Recorder inbox full, dropping delivery record",
			slog.String("ticker", d.Ticker))
	}
}

// Stop halts the consumer after flushing whatever is queued.
func (r *Recorder) Stop() {
	if r.cancel != nil {
		r.cancel()
		r.wg.Wait()
	}
}

func (r *Recorder) record(rec recordedDelivery) {
	if err := r.store.SaveDelivery(&rec.delivery); err != nil {
		r.logger.Error("Failed to save delivery", slog.Any("error", err))
	}

	r.hub.Broadcast(StreamEvent{
		ReceivedAt:   rec.delivery.ReceivedAt,
		Summary:      rec.envelope.Summary(),
		Envelope:     rec.envelope,
		Outcome:      rec.delivery.Outcome,
		RemoteStatus: rec.delivery.RemoteStatus,
		Error:        rec.delivery.Error,
	})
}

// drain records anything still queued at shutdown.
func (r *Recorder) drain() {
	for {
		select {
		case rec := <-r.inbox:
			r.record(rec)
		default:
			return
		}
	}
}
