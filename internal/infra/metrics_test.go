package infra

import (
	"testing"
	"time"
)

func TestMetrics_RecordForwarded(t *testing.T) {
	m := &Metrics{}

	m.RecordForwarded(10 * time.Millisecond)
	m.RecordForwarded(20 * time.Millisecond)
	m.RecordForwarded(30 * time.Millisecond)

	snap := m.Snapshot()

	if snap.Forwarded != 3 {
		t.Errorf("Expected 3 forwarded, got %d", snap.Forwarded)
	}

	// Average latency: (10 + 20 + 30) / 3 = 20ms
	if snap.AvgForwardMS != 20 {
		t.Errorf("Expected avg latency 20ms, got %f", snap.AvgForwardMS)
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := &Metrics{}

	m.RecordReceived()
	m.RecordReceived()
	m.RecordRejected()
	m.RecordForwardFailed()

	snap := m.Snapshot()
	if snap.Received != 2 {
		t.Errorf("Expected 2 received, got %d", snap.Received)
	}
	if snap.Rejected != 1 {
		t.Errorf("Expected 1 rejected, got %d", snap.Rejected)
	}
	if snap.ForwardFailed != 1 {
		t.Errorf("Expected 1 forward failure, got %d", snap.ForwardFailed)
	}
}

func TestMetrics_StreamClients(t *testing.T) {
	m := &Metrics{}

	m.IncrementStreamClients()
	m.IncrementStreamClients()
	m.IncrementStreamClients()

	snap := m.Snapshot()
	if snap.StreamClients != 3 {
		t.Errorf("Expected 3 clients, got %d", snap.StreamClients)
	}

	m.DecrementStreamClients()
	snap = m.Snapshot()
	if snap.StreamClients != 2 {
		t.Errorf("Expected 2 clients, got %d", snap.StreamClients)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}

	m.RecordReceived()
	m.RecordForwarded(time.Millisecond)
	m.IncrementStreamClients()

	m.Reset()
	snap := m.Snapshot()

	if snap.Received != 0 {
		t.Error("Expected 0 received after reset")
	}
	if snap.Forwarded != 0 {
		t.Error("Expected 0 forwarded after reset")
	}
	if snap.AvgForwardMS != 0 {
		t.Error("Expected 0 avg latency after reset")
	}
	if snap.StreamClients != 0 {
		t.Error("Expected 0 clients after reset")
	}
}
