package infra

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"alert_relay/internal/domain"
)

// journalTimeLayout matches the historical webhook.log line format.
const journalTimeLayout = "2006-01-02 15:04:05"

// Journal is the append-only relay log: one `[timestamp] event` line per
// write. Each line goes out as a single Write call under a mutex, so
// concurrent requests cannot interleave partial lines.
type Journal struct {
	mu     sync.Mutex
	sink   io.WriteCloser
	closed bool
	now    func() time.Time
}

// NewJournal opens the journal file with rotation per config.
func NewJournal(cfg *Config) (*Journal, error) {
	dir := filepath.Dir(cfg.Journal.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	sink := &lumberjack.Logger{
		Filename:   cfg.Journal.Path,
		MaxSize:    cfg.Journal.MaxSizeMB,
		MaxBackups: cfg.Journal.MaxBackups,
		MaxAge:     cfg.Journal.MaxAgeDays,
	}

	return &Journal{sink: sink, now: time.Now}, nil
}

// NewJournalWithSink wires an arbitrary sink, used by tests.
func NewJournalWithSink(sink io.WriteCloser) *Journal {
	return &Journal{sink: sink, now: time.Now}
}

// Event appends one timestamped line to the journal.
func (j *Journal) Event(format string, args ...any) error {
	line := fmt.Sprintf("[%s] %s\n", j.now().Format(journalTimeLayout), fmt.Sprintf(format, args...))

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return domain.ErrJournalClosed
	}
	_, err := io.WriteString(j.sink, line)
	return err
}

// Close flushes and closes the underlying sink. Further writes fail.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	return j.sink.Close()
}
