package journal

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/pagerbot/core/metrics"
)

const sqliteSchema = `CREATE TABLE dispatch_journal (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	update_id      INTEGER   NOT NULL,
	chat_id        INTEGER   NOT NULL,
	event_kind     TEXT      NOT NULL,
	payload        TEXT      NOT NULL DEFAULT '',
	handler        TEXT      NOT NULL DEFAULT '',
	action         TEXT      NOT NULL DEFAULT '',
	target_page    INTEGER   NOT NULL DEFAULT 0,
	outbound_count INTEGER   NOT NULL DEFAULT 0,
	created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)
	return db
}

func TestSQLStoreRecord(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLStore(db)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, Entry{UpdateID: 1, ChatID: 7, EventKind: "text", Handler: "text_command", OutboundCount: 2}))
	require.NoError(t, store.Record(ctx, Entry{UpdateID: 2, ChatID: 7, EventKind: "callback", Payload: "action:next:1", Handler: "callback_action", Action: "next", TargetPage: 2, OutboundCount: 1}))
	require.NoError(t, store.Record(ctx, Entry{UpdateID: 3, ChatID: 8, EventKind: "text"}))

	var got []Entry
	require.NoError(t, db.SelectContext(ctx, &got, `SELECT update_id, chat_id, event_kind, payload, handler, action,
		target_page, outbound_count, created_at FROM dispatch_journal WHERE chat_id = ? ORDER BY id DESC`, 7))
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].UpdateID)
	assert.Equal(t, "action:next:1", got[0].Payload)
	assert.Equal(t, 2, got[0].TargetPage)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.Equal(t, 1, got[1].UpdateID)
}

type memStore struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (m *memStore) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func TestRecorderFlushesOnClose(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	store := &memStore{}
	r := NewRecorder(store, 8, m)

	for i := 1; i <= 5; i++ {
		r.Submit(context.Background(), Entry{UpdateID: i})
	}
	r.Close()
	r.Submit(context.Background(), Entry{UpdateID: 99})
	r.Close()

	assert.Len(t, store.entries, 5)
	assert.InDelta(t, 5, testutil.ToFloat64(m.JournalWritesTotal.WithLabelValues("ok")), 0)
}

func TestRecorderCountsFailures(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	r := NewRecorder(&memStore{err: errors.New("db down")}, 4, m)
	r.Submit(context.Background(), Entry{UpdateID: 1})
	r.Close()

	assert.InDelta(t, 1, testutil.ToFloat64(m.JournalWritesTotal.WithLabelValues("fail")), 0)
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(Migrations, MigrationsDir+"/*.up.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations/000001_dispatch_journal.up.sql"}, names)
}
