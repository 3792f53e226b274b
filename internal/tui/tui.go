package tui

import (
	"context"
	"errors"
	"time"

	"wishlist-cli/internal/apiclient"
	"wishlist-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Deps is what the TUI needs from the outside.
type Deps struct {
	API   apiclient.Service
	State store.Store
	Log   *zap.Logger
	// Timeout bounds each request; zero disables it.
	Timeout time.Duration
	TailGap int64
	Theme   string
	Mouse   bool
}

// Run starts the TUI and blocks until it exits. Quitting (or cancelling ctx)
// cancels requests still in flight.
func Run(ctx context.Context, deps Deps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	applyThemePreference(deps.Theme)
	applyColorProfilePreference()

	m := newAppModel(deps, apiclient.RequestContext(ctx, deps.Timeout))
	defer m.state.Close()
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if deps.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
