package commands

import (
	"trainvoc-updates/internal/service"
	"trainvoc-updates/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func browseCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the changelog interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			browser := tui.NewBrowser(service.NewChangelogService(e.store))
			_, err := tea.NewProgram(browser, tea.WithAltScreen()).Run()
			return err
		},
	}
}
