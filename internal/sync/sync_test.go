package sync

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/alderbrook/civicd/internal/store/filedoc"
)

// mockDestination records calls to Write.
type mockDestination struct {
	writes atomic.Int64
	last   atomic.Value // []byte
}

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes.Add(1)
	cp := make([]byte, len(data))
	copy(cp, data)
	d.last.Store(cp)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerStartStop(t *testing.T) {
	st, err := filedoc.New(t.TempDir())
	if err != nil {
		t.Fatalf("filedoc.New() error = %v", err)
	}
	news := []model.Record{&model.NewsItem{ID: "news-1", Title: "Hello"}}
	if err := st.SaveList(context.Background(), model.CollectionNews, news); err != nil {
		t.Fatalf("SaveList() error = %v", err)
	}

	dest := &mockDestination{}
	sched := NewScheduler(st, []Destination{dest}, 50*time.Millisecond, testLogger())
	sched.Start()

	// Wait for at least the initial sync + one tick.
	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}

	data, ok := dest.last.Load().([]byte)
	if !ok || len(data) == 0 {
		t.Fatal("expected non-empty data")
	}

	lines := nonEmptyLines(string(data))
	// 1 header + 1 news record + 1 slide config = 3
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}

func TestSchedulerStop_NoStart(t *testing.T) {
	st, err := filedoc.New(t.TempDir())
	if err != nil {
		t.Fatalf("filedoc.New() error = %v", err)
	}
	sched := NewScheduler(st, nil, time.Minute, testLogger())
	// Stop without Start should not panic.
	sched.Stop()
}

func TestSchedulerMultipleDestinations(t *testing.T) {
	st, err := filedoc.New(t.TempDir())
	if err != nil {
		t.Fatalf("filedoc.New() error = %v", err)
	}
	dest1 := &mockDestination{}
	dest2 := &mockDestination{}

	sched := NewScheduler(st, []Destination{dest1, dest2}, time.Second, testLogger())
	sched.Start()

	// Wait for the initial sync.
	time.Sleep(50 * time.Millisecond)
	sched.Stop()

	if dest1.writes.Load() < 1 {
		t.Fatal("dest1 expected at least 1 write")
	}
	if dest2.writes.Load() < 1 {
		t.Fatal("dest2 expected at least 1 write")
	}
}
