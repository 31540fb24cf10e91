package penumbra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStreamDeliversLifecycleEvents(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()

		for _, event := range []string{"Penumbra.Initialized", "Penumbra.Unknown", "Penumbra.Disposed"} {
			require.NoError(t, conn.WriteJSON(eventMessage{Event: event}))
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	t.Cleanup(server.Close)

	stream := &EventStream{BaseURL: server.URL, MinBackoff: time.Hour, Logger: zerolog.Nop()}

	var (
		mu     sync.Mutex
		events []domain.ServiceEvent
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- stream.WatchEvents(ctx, func(event domain.ServiceEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
			if len(events) == 3 {
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("event stream did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.ServiceEvent{domain.ServiceInitialized, domain.ServiceDisposed, domain.ServiceDisposed}, events)
}

func TestEventStreamRetriesUntilCanceled(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		attempts int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	stream := &EventStream{BaseURL: server.URL, MinBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond, Logger: zerolog.Nop()}
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err := stream.WatchEvents(ctx, func(domain.ServiceEvent) {
		t.Error("no events expected")
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, attempts, 1)
}

func TestParseEvent(t *testing.T) {
	t.Parallel()

	event, ok := parseEvent("penumbra.initialized")
	assert.True(t, ok)
	assert.Equal(t, domain.ServiceInitialized, event)

	_, ok = parseEvent("Penumbra.ModSettingChanged")
	assert.False(t, ok)
}
