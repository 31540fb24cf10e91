package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/animation-wardrobe/internal/ports"
)

// Sink offers each command to primary first and to fallback when primary does not take it.
type Sink struct {
	primary  ports.CommandSink
	fallback ports.CommandSink
}

var _ ports.CommandSink = (*Sink)(nil)

var (
	errNilPrimarySink  = errors.New("primary command sink is nil")
	errNilFallbackSink = errors.New("fallback command sink is nil")
)

func NewSink(primary ports.CommandSink, fallback ports.CommandSink) *Sink {
	sink, err := NewSinkChecked(primary, fallback)
	if err != nil {
		panic(err)
	}

	return sink
}

func NewSinkChecked(primary ports.CommandSink, fallback ports.CommandSink) (*Sink, error) {
	if primary == nil {
		return nil, errNilPrimarySink
	}
	if fallback == nil {
		return nil, errNilFallbackSink
	}

	return &Sink{primary: primary, fallback: fallback}, nil
}

// Chain nests sinks so that each one falls back to the next.
func Chain(first ports.CommandSink, rest ...ports.CommandSink) ports.CommandSink {
	if len(rest) == 0 {
		return first
	}

	return NewSink(first, Chain(rest[0], rest[1:]...))
}

func (s *Sink) Submit(ctx context.Context, text string) error {
	err := s.primary.Submit(ctx, text)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Submit(ctx, text)
	if fallbackErr == nil {
		return nil
	}
	if errors.Is(err, ports.ErrCommandNotHandled) {
		return fallbackErr
	}

	return fmt.Errorf("primary sink submit failed: %w; fallback sink submit failed: %w", err, fallbackErr)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ports.ErrCommandRejected)
}
