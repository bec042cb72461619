package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/passkeep/passkeep-go/internal/ui"
)

func runUI(opts *RootOptions) error {
	api, err := opts.client()
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(ui.New(api, ui.Options{}), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
