// Package display provides the terminal dashboard using Bubble Tea.
//
// The [Model] shows the mission log in a sidebar with the two progress
// bars, and the selected recipe's briefing in a scrollable main panel.
// All state changes go through the engine; the model only keeps what it
// needs to draw.
package display

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/moat/internal/conversation"
	"github.com/hammamikhairi/moat/internal/domain"
	"github.com/hammamikhairi/moat/internal/engine"
	"github.com/hammamikhairi/moat/internal/logger"
)

const (
	sidebarWidth  = 40
	barWidth      = sidebarWidth - 4
	footerHeight  = 2
	shakeDuration = 400 * time.Millisecond
	alarmChaos    = 50.0
)

// shakeDoneMsg ends the shake started by unlock number id. Older ticks are
// ignored so rapid unlocks extend the effect.
type shakeDoneMsg struct{ id int }

// Option configures the dashboard.
type Option func(*Model)

// WithStyle sets the glamour style of the briefing panel.
func WithStyle(style string) Option {
	return func(m *Model) {
		m.style = style
	}
}

// Model is the Bubble Tea model of the dashboard.
type Model struct {
	ctx     context.Context
	eng     *engine.Engine
	parser  domain.IntentParser
	log     *logger.Logger
	recipes []domain.Recipe
	session *domain.Session
	style   string

	keys     keyMap
	security progress.Model
	chaos    progress.Model
	viewport viewport.Model
	input    textinput.Model
	md       *Markdown

	commanding bool
	showHelp   bool
	shaking    bool
	shakeID    int
	message    string
	width      int
	height     int
}

// New creates the dashboard for session. recipes is the catalog in order,
// read once by the caller.
func New(ctx context.Context, eng *engine.Engine, parser domain.IntentParser,
	recipes []domain.Recipe, session *domain.Session, log *logger.Logger, opts ...Option) Model {

	ti := textinput.New()
	// Plain-text prompt keeps the textinput width math correct.
	ti.Prompt = ": "
	ti.PromptStyle = promptStyle
	ti.CharLimit = 200

	m := Model{
		ctx:     ctx,
		eng:     eng,
		parser:  parser,
		log:     log,
		recipes: recipes,
		session: session,
		style:   "auto",
		keys:    defaultKeys(),
		security: progress.New(
			progress.WithGradient("#0ea5e9", "#34d399"),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		),
		chaos: progress.New(
			progress.WithGradient("#f59e0b", "#ef4444"),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		),
		viewport: viewport.New(80, 20),
		input:    ti,
		message:  conversation.LineWelcome(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.resize(termWidth(), termHeight())
	return m
}

// Session returns the session the dashboard is showing.
func (m Model) Session() *domain.Session { return m.session }

// Run starts the dashboard on the alternate screen and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("THE MOAT")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case shakeDoneMsg:
		if msg.id == m.shakeID {
			m.shaking = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.commanding {
			return m.updateCommand(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		return m.step(-1), nil
	case key.Matches(msg, m.keys.Down):
		return m.step(1), nil
	case key.Matches(msg, m.keys.Unlock):
		return m.unlock(m.session.Selected)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Command):
		m.commanding = true
		m.input.Reset()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.closeCommand()
		return m, nil
	case tea.KeyEnter:
		line := m.input.Value()
		m.closeCommand()
		return m.runCommand(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeCommand() {
	m.commanding = false
	m.input.Blur()
	m.input.Reset()
}

func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(line) == "" {
		return m, nil
	}

	intent, err := m.parser.Parse(m.ctx, line, m.session)
	if err != nil {
		m.log.Error("parsing input: %v", err)
		return m, nil
	}
	m.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)

	switch intent.Type {
	case domain.IntentQuit:
		m.message = conversation.LineBye()
		return m, tea.Quit
	case domain.IntentUnlock:
		id := m.session.Selected
		if intent.Payload != "" {
			resolved, ok := m.eng.Resolve(m.ctx, intent.Payload)
			if !ok {
				m.message = conversation.LineUnknownRecipe(intent.Payload)
				return m, nil
			}
			id = resolved
		}
		return m.unlock(id)
	case domain.IntentSelectRecipe:
		id, ok := m.eng.Resolve(m.ctx, intent.Payload)
		if !ok {
			m.message = conversation.LineUnknownRecipe(intent.Payload)
			return m, nil
		}
		return m.selectRecipe(id), nil
	case domain.IntentNext:
		return m.step(1), nil
	case domain.IntentPrev:
		return m.step(-1), nil
	case domain.IntentStatus:
		m.message = conversation.LineStatus(m.session.Progress, len(m.recipes))
	case domain.IntentListRecipes:
		list, err := m.eng.ListRecipes(m.ctx)
		if err != nil {
			m.log.Error("listing recipes: %v", err)
			return m, nil
		}
		m.message = conversation.LineMissionList(list, m.session.Progress)
	case domain.IntentSearch:
		results, err := m.eng.SearchRecipes(m.ctx, intent.Payload)
		if err != nil {
			m.log.Error("searching recipes: %v", err)
			return m, nil
		}
		m.message = conversation.LineSearchResults(intent.Payload, results)
	case domain.IntentHelp:
		m.showHelp = true
		m.refresh(true)
	default:
		m.message = conversation.LineUnknownCommand(intent.Payload)
	}
	return m, nil
}

func (m Model) unlock(id string) (tea.Model, tea.Cmd) {
	res, err := m.eng.Unlock(m.ctx, m.session.ID, id)
	if err != nil {
		m.engineError("unlock", err)
		return m, nil
	}
	m.session = res.Session

	if res.Recipe == nil {
		m.message = conversation.LineUnknownRecipe(id)
		return m, nil
	}

	m.showHelp = false
	m.refresh(true)

	switch {
	case !res.Fresh:
		m.message = conversation.LineAlreadyDeployed(res.Recipe)
	case m.session.Progress.SecurityScore >= domain.MaxScore:
		m.message = conversation.LineUnlocked(res.Recipe, res.SecurityDelta, res.ChaosDelta) +
			" " + conversation.LineMaxedOut()
	default:
		m.message = conversation.LineUnlocked(res.Recipe, res.SecurityDelta, res.ChaosDelta)
	}

	// Every known unlock shakes the screen, repeats included.
	m.shakeID++
	m.shaking = true
	shakeID := m.shakeID
	return m, tea.Tick(shakeDuration, func(time.Time) tea.Msg {
		return shakeDoneMsg{id: shakeID}
	})
}

func (m Model) selectRecipe(id string) Model {
	s, err := m.eng.Select(m.ctx, m.session.ID, id)
	if err != nil {
		m.engineError("select", err)
		return m
	}
	m.session = s
	m.showHelp = false
	m.refresh(true)
	return m
}

func (m Model) step(delta int) Model {
	s, err := m.eng.Step(m.ctx, m.session.ID, delta)
	if err != nil {
		m.engineError("step", err)
		return m
	}
	m.session = s
	m.showHelp = false
	m.refresh(true)
	return m
}

func (m *Model) engineError(op string, err error) {
	if errors.Is(err, domain.ErrSessionNotActive) {
		m.message = conversation.LineSessionOver()
		return
	}
	m.log.Error("%s: %v", op, err)
	m.message = err.Error()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	mainWidth := width - sidebarWidth - 3
	if mainWidth < 20 {
		mainWidth = 20
	}
	bodyHeight := height - footerHeight
	if bodyHeight < 5 {
		bodyHeight = 5
	}

	m.viewport.Width = mainWidth
	m.viewport.Height = bodyHeight
	m.input.Width = width - lipgloss.Width(m.input.Prompt) - 1

	if m.md == nil || m.md.Width() != mainWidth-2 {
		md, err := NewMarkdown(m.style, mainWidth-2)
		if err != nil {
			m.log.Warn("markdown renderer unavailable: %v", err)
		} else {
			m.md = md
		}
	}
	m.refresh(false)
}

// refresh redraws the main panel for the current selection. top scrolls
// back to the start of the briefing.
func (m *Model) refresh(top bool) {
	if m.showHelp {
		m.viewport.SetContent(strings.Join(conversation.HelpText(), "\n"))
		m.viewport.GotoTop()
		return
	}

	r, ok := m.selected()
	if !ok {
		m.viewport.SetContent("")
		return
	}

	text := RecipeMarkdown(r, engine.IsDone(m.session, r.ID))
	if m.md != nil {
		out, err := m.md.Render(text)
		if err != nil {
			m.log.Warn("%v", err)
		}
		text = out
	}
	m.viewport.SetContent(text)
	if top {
		m.viewport.GotoTop()
	}
}

func (m Model) selected() (domain.Recipe, bool) {
	for _, r := range m.recipes {
		if r.ID == m.session.Selected {
			return r, true
		}
	}
	return domain.Recipe{}, false
}

func (m Model) View() string {
	sidebar := sidebarStyle.
		Width(sidebarWidth).
		Height(m.viewport.Height).
		Render(m.renderSidebar())

	main := m.viewport.View()
	if m.shaking {
		main = lipgloss.NewStyle().PaddingLeft(2).Render(main)
	} else {
		main = lipgloss.NewStyle().PaddingLeft(1).Render(main)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	var footer string
	if m.commanding {
		footer = m.input.View()
	} else {
		footer = promptStyle.Render(m.keys.shortHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		statusStyle.Render(m.message),
		footer,
	)
}

func (m Model) renderSidebar() string {
	p := m.session.Progress
	var b strings.Builder

	b.WriteString(RenderBanner(sidebarWidth - 1))
	b.WriteString("\n\n")

	b.WriteString(m.renderBar("Job Security", p.SecurityScore, m.security))
	b.WriteString("\n")
	b.WriteString(m.renderBar("System Chaos", p.ChaosMeter, m.chaos))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("MISSION LOG"))
	b.WriteString("\n")
	titleWidth := sidebarWidth - 18
	for _, r := range m.recipes {
		line := badgeStyle.Render(fmt.Sprintf("%02d ", r.Level))
		title := truncate(r.Title, titleWidth)
		if r.ID == m.session.Selected {
			line += activeItemStyle.Render(title)
		} else {
			line += itemStyle.Render(title)
		}
		if engine.IsDone(m.session, r.ID) {
			line += " " + doneStyle.Render("✓ Fortified")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.alarmLine())
	return b.String()
}

func (m Model) renderBar(label string, value float64, bar progress.Model) string {
	head := labelStyle.Render(label) + " " + valueStyle.Render(fmt.Sprintf("%d%%", conversation.Percent(value)))
	return head + "\n" + bar.ViewAs(value/domain.MaxScore) + "\n"
}

func (m Model) alarmLine() string {
	chaos := m.session.Progress.ChaosMeter
	switch {
	case m.shaking:
		return alarmStyle.Render("⚠ ALARM: production is on fire")
	case chaos >= domain.MaxScore:
		return alarmStyle.Render("⚠ TOTAL CHAOS. Only you can fix this.")
	case chaos >= alarmChaos:
		return alarmStyle.Render("⚠ Pager volume rising")
	default:
		return statusStyle.Render("All systems nominal. For now.")
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
