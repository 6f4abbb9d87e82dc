// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/yonerge/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driving"
)

const (
	emptyQuestionMsg = "Soru boş olamaz"
	notReadyMsg      = "RAG engine başlatılmadı"
)

// View holds the question input, the answer pane, the cited sources and
// the status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	answer    viewport.Model
	sources   *list.SourceList
	statusbar *status.Bar

	answerService driving.AnswerService
	topK          int
	ctx           context.Context

	width    int
	height   int
	ready    bool
	focus    messages.Focus
	asking   bool
	question string
	result   *domain.AnswerResult
	err      error
}

// NewView creates a new ask view. topK values below one use the default.
func NewView(s *styles.Styles, km *keymap.KeyMap, answerService driving.AnswerService, topK int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if topK < 1 {
		topK = domain.DefaultTopK
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQuestionInput(s),
		answer:        viewport.New(80, 10),
		sources:       list.NewSourceList(s),
		statusbar:     status.NewBar(s, km),
		answerService: answerService,
		topK:          topK,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focus:         messages.FocusInput,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerCompleted:
		v.handleAnswerCompleted(msg)
		return v, nil

	case messages.StatsLoaded:
		if msg.Err == nil && msg.Stats != nil {
			v.statusbar.SetMessage(fmt.Sprintf("%s: %d parça", msg.Stats.CollectionName, msg.Stats.TotalChunks))
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.Quit) {
		return v, tea.Quit
	}

	if keymap.Matches(msg.String(), v.keymap.FocusSources) {
		v.toggleFocus()
		return v, nil
	}

	if v.focus == messages.FocusSources {
		switch {
		case keymap.Matches(msg.String(), v.keymap.Up):
			v.sources.MoveUp()
		case keymap.Matches(msg.String(), v.keymap.Down):
			v.sources.MoveDown()
		case msg.String() == "pgup", msg.String() == "pgdown":
			var cmd tea.Cmd
			v.answer, cmd = v.answer.Update(msg)
			return v, cmd
		}
		return v, nil
	}

	if keymap.Matches(msg.String(), v.keymap.Ask) {
		if v.asking {
			return v, nil
		}
		question := v.input.Question()
		if question == "" {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(emptyQuestionMsg)
			return v, nil
		}
		v.asking = true
		v.question = question
		v.err = nil
		v.statusbar.SetState(status.StateAsking)
		return v, v.ask(question)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) toggleFocus() {
	if v.focus == messages.FocusInput {
		if v.sources.Count() == 0 {
			return
		}
		v.focus = messages.FocusSources
		v.input.Blur()
		return
	}
	v.focus = messages.FocusInput
	v.input.Focus()
}

// ask calls the answer service off the UI goroutine.
func (v *View) ask(question string) tea.Cmd {
	svc, ctx, topK := v.answerService, v.ctx, v.topK
	return func() tea.Msg {
		if svc == nil {
			return messages.AnswerCompleted{Question: question, Err: domain.ErrIndexUnavailable}
		}
		result, err := svc.GenerateAnswer(ctx, question, topK)
		return messages.AnswerCompleted{Question: question, Result: result, Err: err}
	}
}

func (v *View) handleAnswerCompleted(msg messages.AnswerCompleted) {
	v.asking = false
	if msg.Err == nil && msg.Result == nil {
		msg.Err = domain.ErrGeneration
	}
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.result = msg.Result
	v.err = nil
	v.sources.SetSources(msg.Result.Sources)
	v.answer.SetContent(v.renderAnswer())
	v.answer.GotoTop()
	v.statusbar.SetSourceCount(len(msg.Result.Sources))
	if msg.Result.Success {
		v.statusbar.SetState(status.StateAnswered)
	} else {
		v.statusbar.SetState(status.StateFailed)
	}
	v.input.Reset()
}

func (v *View) setError(err error) {
	v.asking = false
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(describeError(err))
}

// describeError turns domain errors into the messages users see.
func describeError(err error) string {
	switch {
	case errors.Is(err, domain.ErrIndexUnavailable):
		return notReadyMsg
	case errors.Is(err, domain.ErrValidation):
		return emptyQuestionMsg
	default:
		return err.Error()
	}
}

func (v *View) renderAnswer() string {
	if v.result == nil {
		return ""
	}
	width := v.answer.Width
	body := lipgloss.NewStyle().Width(width).Render(v.result.Answer)
	if !v.result.Success {
		body = v.styles.Warning.Width(width).Render(v.result.Answer)
	}
	return v.styles.Muted.Render("› "+v.question) + "\n\n" + body
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Bozok Üniversitesi Yönerge Asistanı"),
		"",
		v.input.View(),
		"",
	}

	if v.result != nil {
		sections = append(sections, v.styles.Answer.Render(v.answer.View()), "", v.sources.View())
	} else {
		sections = append(sections, v.styles.Muted.Render("Bir soru yazıp enter'a basın."))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Header, input, status and borders take about twelve lines; the answer
	// gets two thirds of the rest and the sources the remainder.
	free := max(height-12, 6)
	answerHeight := free * 2 / 3
	v.input.SetWidth(width)
	v.answer.Width = max(width-4, 20)
	v.answer.Height = answerHeight
	v.sources.SetDimensions(width, free-answerHeight)
	v.statusbar.SetWidth(width)
	if v.result != nil {
		v.answer.SetContent(v.renderAnswer())
	}
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Result returns the last answer, or nil.
func (v *View) Result() *domain.AnswerResult {
	return v.result
}

// Question returns the last question asked.
func (v *View) Question() string {
	return v.question
}

// Asking reports whether an answer is pending.
func (v *View) Asking() bool {
	return v.asking
}

// Focus returns the focused pane.
func (v *View) Focus() messages.Focus {
	return v.focus
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// SetQuestion sets the input text.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// SelectedSource returns the highlighted source, or nil.
func (v *View) SelectedSource() *domain.SourceRef {
	return v.sources.SelectedSource()
}
