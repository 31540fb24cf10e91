package ports

import (
	"context"
	"errors"
)

var (
	// ErrCommandNotHandled is returned by sinks that only accept some commands.
	ErrCommandNotHandled = errors.New("command not handled")
	// ErrCommandRejected marks a command a sink recognised but could not carry out.
	ErrCommandRejected = errors.New("command rejected")
)

type CommandSink interface {
	Submit(ctx context.Context, text string) error
}

type PoseReader interface {
	// CurrentPose returns 0 when there is no active subject.
	CurrentPose(ctx context.Context) (int, error)
}
