package poller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/woozymasta/dstone/internal/config"
	"github.com/woozymasta/dstone/internal/lobby"
	"github.com/woozymasta/dstone/internal/models"
)

type recordingWriter struct {
	err     error
	batches [][]models.SimpleInfo
	mu      sync.Mutex
}

func (w *recordingWriter) UpsertSimpleInfo(_ context.Context, rows []models.SimpleInfo) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches = append(w.batches, rows)
	return w.err
}

func (w *recordingWriter) calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.batches)
}

type countingSource struct {
	n atomic.Int32
}

func (s *countingSource) FetchSnapshot(context.Context, []string, []string) []models.SimpleInfo {
	s.n.Add(1)
	return []models.SimpleInfo{{RowID: "KU_1"}}
}

func TestSyncUpsertsOnlySuccessfulPairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/a-Steam.json" {
			_, _ = io.WriteString(w, `{"GET":[{"__rowId":"KU_1","name":"one"},{"__rowId":"KU_2","name":"two"},{"__rowId":"KU_3","name":"three"}]}`)
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := lobby.New(config.Lobby{ListURL: srv.URL + "/{region}-{platform}.json"})
	writer := &recordingWriter{}

	n, err := NewSyncer(client, writer, []string{"a", "b"}, []string{"Steam"}).Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if n != 3 {
		t.Errorf("Sync reported %d rooms, want 3", n)
	}
	if writer.calls() != 1 {
		t.Fatalf("upsert called %d times, want exactly once", writer.calls())
	}
	if got := len(writer.batches[0]); got != 3 {
		t.Errorf("batch has %d rows, want 3", got)
	}
}

func TestSyncEmptyBatchSkipsUpsert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := lobby.New(config.Lobby{ListURL: srv.URL + "/{region}-{platform}.json"})
	writer := &recordingWriter{}

	n, err := NewSyncer(client, writer, []string{"a"}, []string{"Steam", "Rail"}).Sync(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("Sync = %d, %v; want 0, nil", n, err)
	}
	if writer.calls() != 0 {
		t.Errorf("upsert called for an empty batch")
	}
}

func TestSyncReportsStoreFailure(t *testing.T) {
	writer := &recordingWriter{err: errors.New("disk full")}

	_, err := NewSyncer(&countingSource{}, writer, nil, nil).Sync(context.Background())
	if err == nil {
		t.Fatal("expected the store error to be returned")
	}
}

func TestPollerStartStop(t *testing.T) {
	source := &countingSource{}
	writer := &recordingWriter{}
	p := New(NewSyncer(source, writer, nil, nil), 5*time.Millisecond, true)

	p.Start()

	deadline := time.Now().Add(2 * time.Second)
	for source.n.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if source.n.Load() < 3 {
		t.Fatalf("poller ran %d times within the deadline, want at least 3", source.n.Load())
	}

	p.Stop()
	p.Stop() // second Stop is a no-op
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	after := source.n.Load()
	time.Sleep(30 * time.Millisecond)
	if source.n.Load() != after {
		t.Errorf("poller kept running after Stop: %d -> %d", after, source.n.Load())
	}
}

func TestPollerWaitsForFirstInterval(t *testing.T) {
	source := &countingSource{}
	p := New(NewSyncer(source, &recordingWriter{}, nil, nil), time.Hour, false)

	p.Start()
	time.Sleep(20 * time.Millisecond)
	p.Stop()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if source.n.Load() != 0 {
		t.Errorf("poller ran %d times before the first interval", source.n.Load())
	}
}

// blockingSource holds FetchSnapshot until release is closed.
type blockingSource struct {
	started chan struct{}
	release chan struct{}
	n       atomic.Int32
}

func newBlockingSource() *blockingSource {
	return &blockingSource{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (s *blockingSource) FetchSnapshot(context.Context, []string, []string) []models.SimpleInfo {
	s.n.Add(1)
	s.started <- struct{}{}
	<-s.release
	return []models.SimpleInfo{{RowID: "KU_1"}}
}

func TestPollerStopLetsRunningSyncFinish(t *testing.T) {
	source := newBlockingSource()
	writer := &recordingWriter{}
	p := New(NewSyncer(source, writer, nil, nil), 5*time.Millisecond, true)

	p.Start()
	<-source.started

	p.Stop()
	close(source.release)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if writer.calls() != 1 {
		t.Errorf("upsert called %d times, want the in-flight batch stored once", writer.calls())
	}
	if n := source.n.Load(); n != 1 {
		t.Errorf("source fetched %d times, want no sync after Stop", n)
	}
}

func TestPollerWaitBoundedByContext(t *testing.T) {
	source := newBlockingSource()
	p := New(NewSyncer(source, &recordingWriter{}, nil, nil), time.Hour, true)
	t.Cleanup(func() { close(source.release) })

	p.Start()
	<-source.started
	p.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait = %v, want context.DeadlineExceeded while the lobby call hangs", err)
	}
}
