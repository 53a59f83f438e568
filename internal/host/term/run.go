package term

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/cosmos/internal/surface"
)

// Run mounts a surface in the terminal and blocks until the user quits.
func Run(tps int, theme Theme, opts ...surface.Option) error {
	host := NewHost(80, 24)
	surf, err := surface.Mount(host, opts...)
	if err != nil {
		return err
	}
	defer surf.Unmount()

	p := tea.NewProgram(NewModel(host, surf, tps, theme), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("term: %w", err)
	}
	return nil
}
