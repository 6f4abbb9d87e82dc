package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// askView is the question and answer view.
	askView *ask.View

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// Options tunes the TUI.
type Options struct {
	// TopK is the number of passages each answer is grounded on.
	TopK int
}

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, opts Options) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:   ports,
		ctx:     context.Background(),
		askView: ask.NewView(s, keymap.DefaultKeyMap(), ports.Answer, opts.TopK),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("yonerge - Yönerge Asistanı"),
		a.askView.Init(),
		a.loadStats(),
	)
}

// loadStats fetches collection statistics for the status bar.
func (a *App) loadStats() tea.Cmd {
	if a.ports.Stats == nil {
		return nil
	}
	svc, ctx := a.ports.Stats, a.ctx
	return func() tea.Msg {
		stats, err := svc.Stats(ctx)
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	a.askView, cmd = a.askView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return a.askView.View()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Result returns the last answer shown, or nil.
func (a *App) Result() *domain.AnswerResult {
	return a.askView.Result()
}

// Err returns the current error, if any.
func (a *App) Err() error {
	return a.askView.Err()
}

// Ready returns whether the app is ready to render.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.askView.SetDimensions(width, height)
}
