package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/internal/core/services"
	"github.com/torinwade/salib/pkg/ui"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactive asset browser",
	Long: `Browse the registered assets interactively.

Keys:
- j / ↓  : Move down
- k / ↑  : Move up
- tab    : Cycle type filter
- /      : Filter by name
- enter  : Toggle details for the selected asset
- q      : Quit`,
	RunE: runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	resp, err := libraryService.Find(ctx, services.FindRequest{})
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}
	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No assets registered."))
		return nil
	}

	m := newExploreModel(resp.Assets, libraryService.Types(true))
	m.restoreFilter(loadPrefs().LastTypeFilter)

	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(exploreModel); ok {
		savePrefs(prefs{LastTypeFilter: fm.types[fm.typeIndex]})
	}
	return nil
}

// prefs holds UI state remembered between sessions.
type prefs struct {
	LastTypeFilter string `yaml:"last_type_filter"`
}

func loadPrefs() prefs {
	var p prefs
	data, err := os.ReadFile(appVault.PrefsPath())
	if err != nil {
		return p
	}
	_ = yaml.Unmarshal(data, &p)
	return p
}

func savePrefs(p prefs) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return
	}
	// Best effort; a missing cache dir just loses the preference.
	_ = os.WriteFile(appVault.PrefsPath(), data, 0644)
}

// --- TUI Model ---

type exploreModel struct {
	assets      []domain.Asset
	types       []string
	typeIndex   int
	table       table.Model
	filter      textinput.Model
	filtering   bool
	visible     []domain.Asset
	showDetails bool
}

func newExploreModel(assets []domain.Asset, types []string) exploreModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 14},
		{Title: "Registered", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ui.ColorPrimary)
	styles.Selected = styles.Selected.Foreground(ui.ColorAccent).Bold(true)
	t.SetStyles(styles)

	ti := textinput.New()
	ti.Placeholder = "filter by name"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := exploreModel{
		assets: assets,
		types:  types,
		table:  t,
		filter: ti,
	}
	m.applyFilter()
	return m
}

// restoreFilter re-selects a remembered type filter if it still exists.
func (m *exploreModel) restoreFilter(name string) {
	if name == "" {
		return
	}
	for i, t := range m.types {
		if strings.EqualFold(t, name) {
			m.typeIndex = i
			m.applyFilter()
			return
		}
	}
}

// applyFilter rebuilds the table rows for the active type filter and name query.
func (m *exploreModel) applyFilter() {
	active := m.types[m.typeIndex]
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))

	m.visible = m.visible[:0]
	var rows []table.Row
	for _, a := range m.assets {
		if !strings.EqualFold(active, domain.FilterAll) && !strings.EqualFold(a.Type, active) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(a.Name), query) &&
			!strings.Contains(strings.ToLower(a.EffectiveDisplayName()), query) {
			continue
		}
		m.visible = append(m.visible, a)
		rows = append(rows, table.Row{
			a.EffectiveDisplayName(),
			a.Type,
			a.Category,
			a.RegisteredAt.Format("2006-01-02"),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc":
				m.filtering = false
				m.filter.Blur()
				m.filter.SetValue("")
				m.applyFilter()
				return m, nil
			case "enter":
				m.filtering = false
				m.filter.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "/":
			m.filtering = true
			m.showDetails = false
			return m, m.filter.Focus()

		case "tab":
			m.typeIndex = (m.typeIndex + 1) % len(m.types)
			m.showDetails = false
			m.applyFilter()
			return m, nil

		case "enter":
			m.showDetails = !m.showDetails
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m exploreModel) View() string {
	var b strings.Builder

	active := m.types[m.typeIndex]
	header := ui.StyleHeader.Render("salib explore") +
		ui.StyleMuted.Render(fmt.Sprintf("  type: %s  (%d assets)", active, len(m.visible)))
	b.WriteString(header)
	b.WriteString("\n")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
	}
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.showDetails && len(m.visible) > 0 {
		cursor := m.table.Cursor()
		if cursor >= 0 && cursor < len(m.visible) {
			b.WriteString(m.renderDetails(&m.visible[cursor]))
		}
	}

	b.WriteString(ui.StyleSubtle.Render("\nj/k: move  tab: filter type  /: filter name  enter: details  q: quit"))
	return b.String()
}

func (m exploreModel) renderDetails(a *domain.Asset) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	lines := []string{
		ui.RenderKeyValue("Stored as", a.Name),
		ui.RenderKeyValue("Original", a.OriginalName),
		ui.RenderKeyValue("Added by", a.AddedBy),
		ui.RenderKeyValue("Hash", shortHash(a.Hash)),
		ui.RenderKeyValue("Registered", a.RegisteredAt.Format("2006-01-02 15:04")),
	}
	return box.Render(strings.Join(lines, "\n"))
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
