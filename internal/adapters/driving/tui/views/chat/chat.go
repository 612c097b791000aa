// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragent/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragent/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/ragent/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
)

// ErrNoAskService indicates that no ask service was provided.
var ErrNoAskService = errors.New("ask service is required")

// Exchange is one question with its answer or error.
type Exchange struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// View shows the conversation, the question input and the sources panel.
// Each question is answered independently; earlier exchanges are not sent
// to the LLM.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	sources   *list.SourceList
	statusbar *status.Bar

	askService driving.AskService
	ctx        context.Context

	history     []Exchange
	pending     string
	showSources bool

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, askService driving.AskService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		sources:    list.NewSourceList(s),
		statusbar:  status.NewBar(s, km),
		askService: askService,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context used for questions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.showSources {
		return v.handleSourcesKey(msg)
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Status):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewStatus} }

	case keymap.Matches(msg.String(), v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }

	case keymap.Matches(msg.String(), v.keymap.Sources):
		if v.sources.Count() > 0 {
			v.showSources = true
			v.input.Blur()
			v.statusbar.SetState(status.StateSources)
		}
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Send):
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.pending != "" {
			return v, nil
		}
		v.pending = question
		v.input.Reset()
		v.statusbar.SetState(status.StateThinking)
		return v, v.ask(question)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleSourcesKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.sources.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.sources.MoveDown()
	case keymap.Matches(msg.String(), v.keymap.Back), keymap.Matches(msg.String(), v.keymap.Sources):
		v.showSources = false
		v.statusbar.SetState(status.StateAnswered)
		return v, v.input.Focus()
	}
	return v, nil
}

// ask runs the pipeline off the UI loop.
func (v *View) ask(question string) tea.Cmd {
	svc := v.askService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoAskService}
		}
		answer, err := svc.Answer(ctx, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.pending = ""
	v.history = append(v.history, Exchange{Question: msg.Question, Answer: msg.Answer, Err: msg.Err})

	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.sources.SetSources(msg.Answer.Sources)
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetSourceCount(len(msg.Answer.Sources))
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("ragent"), "", v.renderTranscript(), "")

	if v.showSources {
		sections = append(sections, v.sources.View(), "")
	} else {
		sections = append(sections, v.input.View(), "")
	}

	sections = append(sections, v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTranscript shows as many recent exchanges as fit above the input.
func (v *View) renderTranscript() string {
	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))

	blocks := make([]string, 0, len(v.history)+1)
	for _, ex := range v.history {
		block := v.styles.Question.Render("> " + ex.Question)
		switch {
		case ex.Err != nil:
			block += "\n" + v.styles.Error.Render(wrap.Render("Error: "+ex.Err.Error()))
		case ex.Answer != nil:
			block += "\n" + v.styles.Answer.Render(wrap.Render(ex.Answer.Text))
		}
		blocks = append(blocks, block)
	}
	if v.pending != "" {
		blocks = append(blocks, v.styles.Question.Render("> "+v.pending)+"\n"+v.styles.Muted.Render("  thinking..."))
	}
	if len(blocks) == 0 {
		return v.styles.Muted.Render("Ask anything about the ingested documents.")
	}

	budget := max(v.height-10, 3)
	if v.showSources {
		budget = max(budget-2*v.sources.Count()-2, 3)
	}

	var kept []string
	used := 0
	for i := len(blocks) - 1; i >= 0; i-- {
		h := lipgloss.Height(blocks[i]) + 1
		if used+h > budget && len(kept) > 0 {
			break
		}
		kept = append([]string{blocks[i]}, kept...)
		used += h
	}
	return strings.Join(kept, "\n\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.sources.SetDimensions(width, max(height/2, 6))
	v.statusbar.SetWidth(width)
}

// History returns the exchanges so far.
func (v *View) History() []Exchange {
	return v.history
}

// Pending returns the question awaiting an answer, if any.
func (v *View) Pending() string {
	return v.pending
}

// ShowingSources reports whether the sources panel is open.
func (v *View) ShowingSources() bool {
	return v.showSources
}

// SetQuestion fills the input.
func (v *View) SetQuestion(question string) {
	v.input.SetValue(question)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
