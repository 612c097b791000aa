// Package status provides the diagnostics view for the TUI.
package status

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
)

// View renders providers, credential checks and store statistics.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.StatusService
	ctx     context.Context

	status       *domain.Status
	err          error
	loading      bool
	checking     bool
	connectivity *messages.ConnectivityChecked

	width  int
	height int
}

// NewView creates a new status view. service may be nil.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.StatusService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{styles: s, keymap: km, service: service, ctx: context.Background(), width: 80, height: 24}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the status.
func (v *View) Init() tea.Cmd {
	if v.service == nil {
		return nil
	}
	v.loading = true
	svc, ctx := v.service, v.ctx
	return func() tea.Msg {
		st, err := svc.Status(ctx)
		return messages.StatusLoaded{Status: st, Err: err}
	}
}

// Update handles messages for the status view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.StatusLoaded:
		v.loading = false
		v.status, v.err = msg.Status, msg.Err
		return v, nil

	case messages.ConnectivityChecked:
		v.checking = false
		v.connectivity = &msg
		return v, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewChat} }
		case keymap.Matches(msg.String(), v.keymap.Refresh):
			return v, v.Init()
		case keymap.Matches(msg.String(), v.keymap.Check):
			return v, v.check()
		}
	}
	return v, nil
}

func (v *View) check() tea.Cmd {
	if v.service == nil || v.checking {
		return nil
	}
	v.checking = true
	svc, ctx := v.service, v.ctx
	return func() tea.Msg {
		embeddingErr, llmErr := svc.CheckConnectivity(ctx)
		return messages.ConnectivityChecked{EmbeddingErr: embeddingErr, LLMErr: llmErr}
	}
}

// View renders the status view.
func (v *View) View() string {
	sections := []string{v.styles.Title.Render("ragent status"), ""}

	switch {
	case v.service == nil:
		sections = append(sections, v.styles.Muted.Render("Status is not available."))
	case v.loading:
		sections = append(sections, v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	case v.status != nil:
		sections = append(sections, v.renderStatus(v.status))
	}

	if v.checking {
		sections = append(sections, "", v.styles.Muted.Render("Checking providers..."))
	} else if v.connectivity != nil {
		sections = append(sections, "",
			v.renderCheck("Embedder", v.connectivity.EmbeddingErr),
			v.renderCheck("LLM", v.connectivity.LLMErr))
	}

	hints := make([]string, 0, 3)
	for _, b := range v.keymap.StatusHelp() {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	sections = append(sections, "", v.styles.Help.Render(strings.Join(hints, " | ")))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderStatus(st *domain.Status) string {
	row := func(label, value string) string {
		return v.styles.Muted.Render(fmt.Sprintf("  %-12s", label)) + v.styles.Normal.Render(value)
	}

	lines := []string{
		v.styles.Subtitle.Render("Providers"),
		row("Embedding", fmt.Sprintf("%s / %s", st.Settings.Embedding.Provider, st.Settings.Embedding.Model)),
		row("LLM", fmt.Sprintf("%s / %s", st.Settings.LLM.Provider, st.Settings.LLM.Model)),
	}

	cred := st.Credential
	switch {
	case !cred.Required:
		lines = append(lines, row("API key", "not required"))
	case cred.Present:
		lines = append(lines, row("API key", cred.Masked))
	default:
		lines = append(lines, row("API key", v.styles.Error.Render("missing")))
	}
	if cred.Warning != "" {
		lines = append(lines, "  "+v.styles.Warning.Render("! "+cred.Warning))
	}

	lines = append(lines, "", v.styles.Subtitle.Render("Vector store"),
		row("Backend", st.Store.Backend.String()),
		row("Location", st.Store.Location))
	if !st.Store.Exists {
		lines = append(lines, row("Entries", v.styles.Warning.Render("not built yet, run ragent ingest")))
	} else {
		lines = append(lines,
			row("Entries", fmt.Sprintf("%d", st.Store.Entries)),
			row("Dimensions", fmt.Sprintf("%d", st.Store.Dimensions)))
		if st.Store.Model != "" {
			lines = append(lines, row("Model", st.Store.Model))
		}
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderCheck(label string, err error) string {
	if err != nil {
		return v.styles.Error.Render(fmt.Sprintf("  %-12sFAIL %v", label, err))
	}
	return v.styles.Success.Render(fmt.Sprintf("  %-12sOK", label))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Status returns the loaded status, if any.
func (v *View) Status() *domain.Status {
	return v.status
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
