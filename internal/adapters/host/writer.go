package host

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bnema/animation-wardrobe/internal/ports"
)

// WriterSink prints commands instead of sending them anywhere.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

var _ ports.CommandSink = (*WriterSink)(nil)

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Submit(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintln(s.w, text); err != nil {
		return fmt.Errorf("write command: %w", err)
	}

	return nil
}
