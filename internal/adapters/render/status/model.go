package status

import (
	"errors"
	"io"

	"github.com/bnema/animation-wardrobe/internal/application"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type block func() string

// blockMsg asks the model to render its next block.
type blockMsg struct{}

// model renders one block per update and quits once the layout is exhausted.
type model struct {
	queue    []block
	rendered []string
}

func newModel(status application.Status, opts RenderOptions) model {
	return model{queue: layout(status, opts, newStyles())}
}

func next() tea.Msg { return blockMsg{} }

func (m model) Init() tea.Cmd {
	if len(m.queue) == 0 {
		return tea.Quit
	}

	return next
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(blockMsg); !ok || len(m.queue) == 0 {
		return m, nil
	}

	m.rendered = append(m.rendered, m.queue[0]())
	m.queue = m.queue[1:]
	if len(m.queue) == 0 {
		return m, tea.Quit
	}

	return m, next
}

func (m model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.rendered...)
}

func Render(status application.Status, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(status, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}
	if len(rendered.queue) > 0 {
		return "", errors.New("status render stopped before the last block")
	}

	return rendered.View(), nil
}
