package penumbra

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/bnema/animation-wardrobe/internal/ports"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	eventsPath          = "/events"
	eventInitialized    = "Penumbra.Initialized"
	eventDisposed       = "Penumbra.Disposed"
	defaultMinBackoff   = 500 * time.Millisecond
	defaultMaxBackoff   = 30 * time.Second
	maxEventMessageSize = 64 << 10
)

type eventMessage struct {
	Event string `json:"event"`
}

// EventStream follows the service lifecycle over a websocket and reconnects until ctx ends.
// A dropped connection is reported as a disposed event.
type EventStream struct {
	BaseURL    string
	Dialer     *websocket.Dialer
	MinBackoff time.Duration
	MaxBackoff time.Duration
	Logger     zerolog.Logger
}

var _ ports.ServiceEventSource = (*EventStream)(nil)

func (s *EventStream) WatchEvents(ctx context.Context, handle func(domain.ServiceEvent)) error {
	endpoint, err := buildURL(s.BaseURL, eventsPath, true)
	if err != nil {
		return err
	}

	backoff := s.minBackoff()
	for {
		connected, err := s.stream(ctx, endpoint, handle)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if connected {
			backoff = s.minBackoff()
		}

		s.Logger.Debug().Err(err).Dur("retry_in", backoff).Msg("mod service event stream interrupted")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
		if backoff > s.maxBackoff() {
			backoff = s.maxBackoff()
		}
	}
}

func (s *EventStream) stream(ctx context.Context, endpoint string, handle func(domain.ServiceEvent)) (bool, error) {
	conn, resp, err := s.dialer().DialContext(ctx, endpoint, http.Header{})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return false, fmt.Errorf("dial event stream: %w", err)
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxEventMessageSize)
	s.Logger.Debug().Str("url", endpoint).Msg("connected to mod service events")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var message eventMessage
		if err := conn.ReadJSON(&message); err != nil {
			if ctx.Err() != nil {
				return true, ctx.Err()
			}
			handle(domain.ServiceDisposed)
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return true, nil
			}
			return true, fmt.Errorf("read event: %w", err)
		}

		event, ok := parseEvent(message.Event)
		if !ok {
			s.Logger.Debug().Str("event", message.Event).Msg("ignoring unknown mod service event")
			continue
		}
		handle(event)
	}
}

func parseEvent(raw string) (domain.ServiceEvent, bool) {
	switch {
	case strings.EqualFold(raw, eventInitialized):
		return domain.ServiceInitialized, true
	case strings.EqualFold(raw, eventDisposed):
		return domain.ServiceDisposed, true
	default:
		return "", false
	}
}

func (s *EventStream) dialer() *websocket.Dialer {
	if s.Dialer != nil {
		return s.Dialer
	}
	return websocket.DefaultDialer
}

func (s *EventStream) minBackoff() time.Duration {
	if s.MinBackoff > 0 {
		return s.MinBackoff
	}
	return defaultMinBackoff
}

func (s *EventStream) maxBackoff() time.Duration {
	if s.MaxBackoff > 0 {
		return s.MaxBackoff
	}
	return defaultMaxBackoff
}
