// Package tui implements the interactive discard view: confirmation,
// live progress, and cancellation.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mariveth/lootsweep/internal/cli"
	"github.com/mariveth/lootsweep/internal/discard"
)

// tickInterval paces orchestrator steps. Each tick performs at most
// one external discard call.
const tickInterval = 50 * time.Millisecond

// previewLimit bounds how many batch items the confirmation screen lists.
const previewLimit = 10

type tickMsg struct{}

// Model holds the discard TUI state.
type Model struct {
	ctx          context.Context
	orchestrator *discard.Orchestrator
	progress     progress.Model
	width        int
	quitting     bool
}

// newModel creates a model around a staged (Confirming) batch.
func newModel(ctx context.Context, orch *discard.Orchestrator) Model {
	return Model{
		ctx:          ctx,
		orchestrator: orch,
		progress:     progress.New(progress.WithDefaultGradient()),
		width:        80,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.orchestrator.Tick(m.ctx)
		if m.orchestrator.State() == discard.StateDiscarding {
			return m, tick()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.orchestrator.State() {
	case discard.StateConfirming:
		switch msg.String() {
		case "y", "enter":
			if err := m.orchestrator.StartDiscarding(); err != nil {
				return m, nil
			}
			return m, tick()
		case "n", "q", "esc", "ctrl+c":
			m.orchestrator.CancelDiscard()
			m.quitting = true
			return m, tea.Quit
		}

	case discard.StateDiscarding:
		switch msg.String() {
		case "c", "q", "esc", "ctrl+c":
			// Cooperative: takes effect before the next item.
			m.orchestrator.CancelDiscard()
		}

	case discard.StateCompleted, discard.StateCancelled, discard.StateError:
		m.orchestrator.Acknowledge()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(cli.FormatTitle("lootsweep discard") + "\n\n")

	switch m.orchestrator.State() {
	case discard.StateConfirming:
		m.viewConfirming(&b)
	case discard.StateDiscarding:
		m.viewDiscarding(&b)
	case discard.StateCompleted:
		b.WriteString(cli.FormatSuccess(fmt.Sprintf("Discarded %d items.", m.orchestrator.Processed())) + "\n")
		b.WriteString(cli.SubtleStyle.Render("Press any key to exit.") + "\n")
	case discard.StateCancelled:
		b.WriteString(cli.FormatWarning(fmt.Sprintf("Cancelled after %d of %d items.",
			m.orchestrator.Processed(), m.orchestrator.Total())) + "\n")
		b.WriteString(cli.SubtleStyle.Render("Press any key to exit.") + "\n")
	case discard.StateError:
		b.WriteString(cli.FormatError(m.orchestrator.ErrMessage()) + "\n")
		b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf(
			"%d of %d items were discarded before the error; the rest are untouched.",
			m.orchestrator.Processed(), m.orchestrator.Total())) + "\n")
		b.WriteString(cli.SubtleStyle.Render("Press any key to exit.") + "\n")
	}

	return b.String()
}

func (m Model) viewConfirming(b *strings.Builder) {
	items := m.orchestrator.Items()
	fmt.Fprintf(b, "About to discard %d items. This cannot be undone.\n\n", len(items))

	for i, item := range items {
		if i == previewLimit {
			fmt.Fprintf(b, "  … and %d more\n", len(items)-previewLimit)
			break
		}
		fmt.Fprintf(b, "  %s ×%d  %s\n", item.Name, item.Quantity,
			cli.SubtleStyle.Render(item.Location.String()))
	}

	b.WriteString("\n" + cli.WarningStyle.Render("Proceed? [y/n]") + "\n")
}

func (m Model) viewDiscarding(b *strings.Builder) {
	processed, total := m.orchestrator.Processed(), m.orchestrator.Total()

	pct := 0.0
	if total > 0 {
		pct = float64(processed) / float64(total)
	}

	fmt.Fprintf(b, "Discarding… %d/%d\n\n", processed, total)
	b.WriteString(m.progress.ViewAs(pct) + "\n\n")
	b.WriteString(cli.SubtleStyle.Render("Press c to cancel before the next item.") + "\n")
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}
