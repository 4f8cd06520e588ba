package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moaiedu/staticsite/internal/domain"
)

type screen int

const (
	screenHome screen = iota
	screenStage
)

type stageItem struct {
	name      string
	path      string
	isDefault bool
}

func (s stageItem) Title() string {
	if s.isDefault {
		return s.name + " (default)"
	}
	return s.name
}

func (s stageItem) Description() string {
	if s.path == "" {
		return "process environment only"
	}
	return s.path
}

func (s stageItem) FilterValue() string { return s.name }

type model struct {
	theme Theme
	deps  Deps

	scr    screen
	menu   list.Model
	width  int
	loaded bool

	active  domain.Stage
	site    domain.SiteConfig
	latest  *domain.Deployment
	loading bool
	toast   string
}

// Run opens the stage browser. It only reads local files; nothing is built or provisioned.
func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	if deps.ErrorText == nil {
		deps.ErrorText = func(err error) string { return err.Error() }
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Stages"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return model{
		theme: DefaultTheme(),
		deps:  deps,
		scr:   screenHome,
		menu:  l,
	}
}

func (m model) Init() tea.Cmd { return cmdLoadStages(m.deps) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case stagesLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.toast = m.deps.ErrorText(msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.stages))
		for _, s := range msg.stages {
			items = append(items, s)
		}
		return m, m.menu.SetItems(items)

	case stageResolvedMsg:
		if msg.stage != m.active {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.toast = m.deps.ErrorText(msg.err)
			m.scr = screenHome
			return m, nil
		}
		m.site = msg.site
		m.latest = msg.latest
		return m, nil

	case tea.KeyMsg:
		if m.scr == screenHome && m.menu.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			if m.scr == screenHome {
				return m, tea.Quit
			}
			m.scr = screenHome
			return m, nil

		case "enter":
			if m.scr == screenHome {
				it, ok := m.menu.SelectedItem().(stageItem)
				if !ok {
					return m, nil
				}
				m.scr = screenStage
				m.active = domain.Stage(it.name)
				m.loading = true
				m.latest = nil
				m.toast = ""
				return m, cmdResolveStage(m.deps, m.active)
			}

		case "esc", "b":
			if m.scr != screenHome {
				m.scr = screenHome
				return m, nil
			}
		}
	}

	if m.scr == screenHome {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("staticsite") + "  " + m.theme.Subtitle.Render(m.deps.Root)

	toast := ""
	if m.toast != "" {
		toast = "\n" + m.theme.Fail.Render(m.toast)
	}

	switch m.scr {
	case screenHome:
		body := m.menu.View()
		if m.loaded && len(m.menu.Items()) == 0 {
			body = "No stages found. Add env/<stage>.yaml or set defaults.stage."
		}
		help := m.theme.Help.Render("↑/↓ navigate • enter resolve • / search • q quit")
		return wrap.Render(header + toast + "\n\n" + m.theme.Card.Render(body) + "\n" + help)

	case screenStage:
		body := "Resolving…"
		if !m.loading {
			body = renderSiteDetails(m.theme, m.site, m.latest, max(m.width-20, 20))
		}
		card := m.theme.Card.Render(fmt.Sprintf("%s\n\n%s", m.theme.Title.Render(string(m.active)), body))
		help := m.theme.Help.Render("esc/b back • q home")
		return wrap.Render(header + toast + "\n\n" + card + "\n" + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
