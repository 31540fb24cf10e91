package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bnema/animation-wardrobe/internal/application"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type probeMsg struct {
	probe application.Availability
}

type waitResultMsg struct {
	probe application.Availability
	err   error
}

// waitProgress shows elapsed time against the timeout and the number of probes so far.
type waitProgress struct {
	spinner  spinner.Model
	now      func() time.Time
	started  time.Time
	timeout  time.Duration
	attempts int
	last     application.Availability
	result   *waitResultMsg
}

func newWaitProgress(now func() time.Time, timeout time.Duration) waitProgress {
	return waitProgress{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("214"))),
		),
		now:     now,
		started: now(),
		timeout: timeout,
	}
}

func (m waitProgress) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m waitProgress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case probeMsg:
		m.attempts++
		m.last = msg.probe
		return m, nil
	case waitResultMsg:
		m.result = &msg
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m waitProgress) View() string {
	if m.result != nil {
		return ""
	}

	elapsed := m.now().Sub(m.started).Truncate(100 * time.Millisecond)
	details := []string{elapsed.String()}
	if m.timeout > 0 {
		details[0] += " of " + m.timeout.String()
	}
	if m.attempts > 0 {
		details = append(details, fmt.Sprintf("%d probes", m.attempts))
	}
	if m.last.Version > 0 && !m.last.Enabled {
		details = append(details, "mods disabled")
	}

	return fmt.Sprintf("%s Waiting for mod service (%s)", m.spinner.View(), strings.Join(details, ", "))
}

type waitFunc func(ctx context.Context, onProbe func(application.Availability)) (application.Availability, error)

// waitWithProgress runs wait under timeout while the progress line is drawn on output.
func waitWithProgress(ctx context.Context, output io.Writer, timeout time.Duration, wait waitFunc) (application.Availability, error) {
	waitCtx, cancel := context.WithCancel(ctx)
	if timeout > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	p := tea.NewProgram(
		newWaitProgress(time.Now, timeout),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		probe, err := wait(waitCtx, func(probe application.Availability) {
			p.Send(probeMsg{probe: probe})
		})
		p.Send(waitResultMsg{probe: probe, err: err})
	}()

	finalModel, runErr := p.Run()
	cancel()
	<-done
	if runErr != nil {
		return application.Availability{}, runErr
	}

	progress, ok := finalModel.(waitProgress)
	if !ok {
		return application.Availability{}, fmt.Errorf("unexpected final progress model type %T", finalModel)
	}
	if progress.result == nil {
		return application.Availability{}, errors.New("wait ended without a result")
	}

	return progress.result.probe, progress.result.err
}
