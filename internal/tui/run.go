package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mariveth/lootsweep/internal/discard"
)

// RunDiscard drives a staged batch through the interactive view. The
// orchestrator must already be in the Confirming state; on return it
// is back in Idle.
func RunDiscard(ctx context.Context, orch *discard.Orchestrator) error {
	if orch.State() != discard.StateConfirming {
		return fmt.Errorf("no batch staged for confirmation")
	}

	p := tea.NewProgram(newModel(ctx, orch), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("discard view failed: %w", err)
	}

	// A ctrl+c that killed the program mid-batch leaves a terminal
	// state behind; clear it so the next batch can stage.
	orch.CancelDiscard()
	orch.Acknowledge()

	return nil
}
