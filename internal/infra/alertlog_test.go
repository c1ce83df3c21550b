package infra

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"alert_relay/internal/domain"
)

// bufferSink is an in-memory io.WriteCloser safe for concurrent writes.
type bufferSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *bufferSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *bufferSink) Close() error { return nil }

func (s *bufferSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

var journalLine = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] .+$`)

func TestJournal_LineFormat(t *testing.T) {
	sink := &bufferSink{}
	j := NewJournalWithSink(sink)
	j.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }

	if err := j.Event("TradingView Webhook Triggered: %s", `{"ticker":"BTCUSDT"}`); err != nil {
		t.Fatalf("Event failed: %v", err)
	}

	got := sink.String()
	want := "[2024-03-01 09:30:00] TradingView Webhook Triggered: {\"ticker\":\"BTCUSDT\"}\n"
	if got != want {
		t.Errorf("Journal line = %q, want %q", got, want)
	}
}

func TestJournal_ConcurrentWritesAreLineAtomic(t *testing.T) {
	sink := &bufferSink{}
	j := NewJournalWithSink(sink)

	const writers = 20
	const perWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for n := 0; n < perWriter; n++ {
				if err := j.Event("writer=%d seq=%d", id, n); err != nil {
					t.Errorf("Event failed: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(sink.String(), "\n"), "\n")
	if len(lines) != writers*perWriter {
		t.Fatalf("Expected %d lines, got %d", writers*perWriter, len(lines))
	}
	for _, line := range lines {
		if !journalLine.MatchString(line) {
			t.Fatalf("Corrupted journal line: %q", line)
		}
	}
}

func TestJournal_WriteAfterClose(t *testing.T) {
	j := NewJournalWithSink(&bufferSink{})

	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Idempotent
	if err := j.Close(); err != nil {
		t.Fatalf("Second close failed: %v", err)
	}

	err := j.Event("late event")
	if !errors.Is(err, domain.ErrJournalClosed) {
		t.Errorf("Expected ErrJournalClosed, got %v", err)
	}
}
