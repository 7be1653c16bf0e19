package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"geofilter/internal/tui"
)

func viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [file]",
		Short: "Open the terminal viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runView,
	}
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, _, done, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer done()

	var m tea.Model
	if len(args) > 0 {
		m = tui.NewWithPath(cfg, args[0])
	} else {
		m = tui.New(cfg)
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return errors.Wrap(err, "viewer")
}
