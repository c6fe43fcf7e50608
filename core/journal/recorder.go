package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/pagerbot/core/logger"
	"github.com/m3rciful/pagerbot/core/metrics"
)

const writeTimeout = 3 * time.Second

// Recorder writes entries in the background so a slow database never delays updates.
// When the buffer is full new entries are dropped and logged.
type Recorder struct {
	store   Store
	metrics *metrics.Metrics
	entries chan Entry

	mu     sync.RWMutex
	closed bool
	once   sync.Once
	done   chan struct{}
}

// NewRecorder starts a single writer over store with a buffer of size entries.
func NewRecorder(store Store, size int, m *metrics.Metrics) *Recorder {
	if size <= 0 {
		size = 128
	}
	r := &Recorder{
		store:   store,
		metrics: m,
		entries: make(chan Entry, size),
		done:    make(chan struct{}),
	}
	go r.loop()
	return r
}

// Submit queues e. It never blocks.
func (r *Recorder) Submit(ctx context.Context, e Entry) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.entries <- e:
	default:
		r.metrics.RecordJournalWrite("dropped")
		logger.Warn(ctx, logger.CompJournal, "journal.drop",
			slog.Int("update_id", e.UpdateID),
			slog.String("reason", "buffer_full"),
		)
	}
}

// Close flushes buffered entries and stops the writer.
func (r *Recorder) Close() {
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.entries)
		r.mu.Unlock()
		<-r.done
	})
}

func (r *Recorder) loop() {
	defer close(r.done)
	for e := range r.entries {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := r.store.Record(ctx, e)
		cancel()
		if err != nil {
			r.metrics.RecordJournalWrite("fail")
			logger.Error(logger.Background(), logger.CompJournal, "journal.write",
				slog.Int("update_id", e.UpdateID),
				slog.String("err", err.Error()),
			)
			continue
		}
		r.metrics.RecordJournalWrite("ok")
	}
}
