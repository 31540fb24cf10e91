package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/animation-wardrobe/internal/application"
	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
}

// layout lists the blocks of the status screen in display order.
func layout(status application.Status, opts RenderOptions, s styles) []block {
	blocks := []block{
		func() string { return s.title.Render("Animation Wardrobe") },
		func() string { return s.header.Render(fmt.Sprintf("entries: %d", entryCount(status))) },
		func() string { return s.section.Render(renderService(status.Service, s)) },
	}

	if len(status.Groups) == 0 {
		blocks = append(blocks, func() string {
			return s.section.Render(s.empty.Render("No entries configured."))
		})
	}
	for _, group := range status.Groups {
		group := group
		blocks = append(blocks, func() string { return s.section.Render(renderGroup(group, s)) })
	}

	if len(status.Pending) > 0 {
		blocks = append(blocks, func() string { return s.section.Render(renderPending(status.Pending, opts, s)) })
	}

	return blocks
}

func renderService(service application.ServiceStatus, s styles) string {
	if !service.Available {
		parts := []string{s.warning.Render("mod service: unavailable")}
		if service.Version > 0 {
			parts = append(parts, s.detail.Render(fmt.Sprintf("api version %d, enabled: %t", service.Version, service.Enabled)))
		}
		if service.Error != "" {
			parts = append(parts, s.detail.Render("error: "+service.Error))
		}
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	collection := service.Collection.Name
	if service.Collection.IsNone() {
		collection = s.warning.Render(domain.NoCollection.Name)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		s.ok.Render(fmt.Sprintf("mod service: available (api version %d)", service.Version)),
		s.detail.Render("collection: ")+collection,
		s.detail.Render(fmt.Sprintf("mods: %d", service.ModCount)),
	)
}

func renderGroup(group application.EntryGroup, s styles) string {
	title := group.Category
	if title == "" {
		title = "Uncategorised"
	}

	parts := []string{s.category.Render(title)}
	for _, entry := range group.Entries {
		parts = append(parts, entryLine(entry, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func entryLine(status application.EntryStatus, s styles) string {
	entry := status.Entry
	segments := []string{
		s.header.Render(fmt.Sprintf("%3s", entry.ID)),
		s.label.Render(entry.DisplayLabel()),
	}
	if entry.Label != "" && entry.Label != entry.ModName {
		segments = append(segments, s.detail.Render("("+entry.ModName+")"))
	}
	if entry.HasAnimation() {
		segments = append(segments, s.command.Render(domain.AnimationCommand(entry.Animation)))
	}
	if entry.WantsPose() {
		segments = append(segments, s.command.Render(fmt.Sprintf("pose %d", entry.Pose)))
	}
	if !status.Resolved {
		segments = append(segments, s.warning.Render("[missing]"))
	}

	return strings.Join(segments, " ")
}

func renderPending(pending []domain.PendingCommand, opts RenderOptions, s styles) string {
	parts := []string{s.category.Render("Pending")}
	for _, command := range pending {
		parts = append(parts, s.command.Render(command.Text)+" "+s.pendingAt.Render(formatDue(command.Due, opts.Now)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func formatDue(due, now time.Time) string {
	if now.IsZero() {
		return "at " + due.Format("15:04:05.000")
	}
	if !due.After(now) {
		return "due now"
	}

	return "in " + due.Sub(now).Round(10*time.Millisecond).String()
}

func entryCount(status application.Status) int {
	count := 0
	for _, group := range status.Groups {
		count += len(group.Entries)
	}
	return count
}
