package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"go.scnd.dev/open/crank"
)

var (
	StyleDone = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	StyleWarn = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

type App struct {
	Context context.Context
	Crank   crank.Crank
}

// Done prints a task summary line to stderr.
func (r *App) Done(message string) {
	_, _ = fmt.Fprintln(r.Crank.Stderr(), "\n"+StyleDone.Render(message))
}

func (r *App) Warn(message string) {
	_, _ = fmt.Fprintln(r.Crank.Stderr(), StyleWarn.Render(message))
}
