package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/Steviegt6/TerraWeave/internal/patch"
	"github.com/Steviegt6/TerraWeave/internal/terraweave/styles"
	"github.com/Steviegt6/TerraWeave/internal/ui/colorize"
)

type browseMode int

const (
	browseRecords browseMode = iota
	browseDetail
	browseSummary
)

type recordItem struct {
	index      int
	record     patch.Record
	filterTerm string
}

func (i recordItem) Title() string {
	return fmt.Sprintf("%3d  %s  %s", i.index, i.record.Kind(), i.record.Target())
}

func (i recordItem) Description() string { return "" }

func (i recordItem) FilterValue() string { return i.filterTerm }

type recordDelegate struct{}

func (d recordDelegate) Height() int                               { return 1 }
func (d recordDelegate) Spacing() int                              { return 0 }
func (d recordDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d recordDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(recordItem)
	if !ok {
		return
	}

	indicator := " "
	indexStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Label))
	if index == m.Index() {
		indicator = ">"
		indexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Accent))
	}

	kindStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(kindColor(i.record.Kind())))
	fmt.Fprintf(w, " %s  %s  %s  %s",
		indicator,
		indexStyle.Render(fmt.Sprintf("%3d", i.index)),
		kindStyle.Render(fmt.Sprintf("%-16s", i.record.Kind())),
		i.record.Target())
}

func kindColor(k patch.Kind) string {
	switch k {
	case patch.KindTypeInject:
		return styles.Insert
	case patch.KindNestedTypeInject:
		return styles.Number
	default:
		return styles.Modify
	}
}

type browser struct {
	records  list.Model
	detail   viewport.Model
	summary  viewport.Model
	spinner  spinner.Model
	mode     browseMode
	path     string
	patch    []patch.Record
	loading  bool
	err      error
	selected int
	width    int
	height   int
}

type patchLoadedMsg struct {
	records []patch.Record
	err     error
}

func loadPatchCmd(path string) tea.Cmd {
	return func() tea.Msg {
		records, err := patch.ReadFile(path)
		return patchLoadedMsg{records: records, err: err}
	}
}

// NewBrowser returns the inspect -i model for the patch at path.
func NewBrowser(path string) browser {
	records := list.New([]list.Item{}, recordDelegate{}, 80, 24)
	records.SetShowStatusBar(false)
	records.SetFilteringEnabled(true)
	records.Title = "Records"
	records.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color(styles.Opcode)).
		MarginLeft(2)
	records.SetShowHelp(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Accent))

	detail := viewport.New()
	detail.SetWidth(80)
	detail.SetHeight(24)

	summary := viewport.New()
	summary.SetWidth(80)
	summary.SetHeight(24)

	m := browser{
		records: records,
		detail:  detail,
		summary: summary,
		spinner: s,
		mode:    browseSummary,
		path:    path,
		loading: true,
		width:   80,
		height:  24,
	}
	m.updateSummary()
	return m
}

func (m browser) Init() tea.Cmd {
	return tea.Batch(loadPatchCmd(m.path), m.spinner.Tick)
}

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case patchLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.patch = msg.records
		items := make([]list.Item, 0, len(msg.records))
		for i, rec := range msg.records {
			items = append(items, recordItem{
				index:      i,
				record:     rec,
				filterTerm: fmt.Sprintf("%s %s", rec.Kind(), rec.Target()),
			})
		}
		m.records.SetItems(items)
		m.records.Title = fmt.Sprintf("Records (%d total)", len(items))
		m.updateSummary()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateSummary()
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.records.SetWidth(msg.Width)
			m.records.SetHeight(msg.Height - 2)
			m.detail.SetWidth(msg.Width)
			m.detail.SetHeight(msg.Height - 2)
			m.summary.SetWidth(msg.Width)
			m.summary.SetHeight(msg.Height - 2)
			m.updateSummary()
			m.updateDetail()
		}

	case tea.KeyMsg:
		if m.mode == browseRecords && m.records.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.mode = browseSummary
			return m, nil
		case "r":
			if len(m.patch) > 0 {
				m.mode = browseRecords
			}
			return m, nil
		case "esc":
			if m.mode == browseDetail {
				m.mode = browseRecords
				return m, nil
			}
		case "enter":
			if m.mode == browseRecords {
				if item, ok := m.records.SelectedItem().(recordItem); ok {
					m.selected = item.index
					m.updateDetail()
					m.detail.GotoTop()
					m.mode = browseDetail
				}
				return m, nil
			}
		case "tab":
			if len(m.patch) == 0 {
				return m, nil
			}
			switch m.mode {
			case browseSummary:
				m.mode = browseRecords
			case browseRecords:
				m.mode = browseDetail
				m.updateDetail()
			case browseDetail:
				m.mode = browseSummary
			}
			return m, nil
		}
	}

	switch m.mode {
	case browseRecords:
		m.records, cmd = m.records.Update(msg)
	case browseDetail:
		m.detail, cmd = m.detail.Update(msg)
	default:
		m.summary, cmd = m.summary.Update(msg)
	}
	return m, cmd
}

func (m browser) View() string {
	var content, menu string
	switch m.mode {
	case browseRecords:
		content = m.records.View()
		menu = " Enter: show IL • S: summary • Tab: cycle • Q: quit "
	case browseDetail:
		content = m.detail.View()
		menu = " Esc: records • S: summary • Tab: cycle • Q: quit "
	default:
		content = m.summary.View()
		if len(m.patch) > 0 {
			menu = " R: records • Tab: cycle • Q: quit "
		} else {
			menu = " Q: quit "
		}
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

func (m *browser) updateSummary() {
	var markdown string
	switch {
	case m.loading:
		markdown = fmt.Sprintf("# %s\n\n%s Loading patch...", filepath.Base(m.path), m.spinner.View())
	case m.err != nil:
		markdown = fmt.Sprintf("# %s\n\nCould not load the patch:\n\n```\n%v\n```", filepath.Base(m.path), m.err)
	default:
		markdown = markdownReport(filepath.Base(m.path), m.patch)
	}

	width := m.width
	if width == 0 {
		width = 80
	}
	rendered := markdown
	if renderer, err := styles.MarkdownRenderer(width - 2); err == nil {
		if out, err := renderer.Render(markdown); err == nil {
			rendered = out
		}
	}
	m.summary.SetContent(strings.TrimSuffix(rendered, "\n"))
}

func (m *browser) updateDetail() {
	if m.selected < 0 || m.selected >= len(m.patch) {
		m.detail.SetContent("")
		return
	}
	m.detail.SetContent(colorize.Line(strings.TrimSuffix(recordListing(m.patch[m.selected]), "\n")))
}
