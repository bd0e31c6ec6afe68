package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/supersaver/internal/catalog"
	"github.com/MrJamesThe3rd/supersaver/internal/pos"
)

type CatalogModel struct {
	CommonModel
	svc *pos.Service

	table  table.Model
	items  []catalog.Item
	filter string
}

func NewCatalogModel(svc *pos.Service) CatalogModel {
	columns := []table.Column{
		{Title: "Code", Width: 10},
		{Title: "Name", Width: 28},
		{Title: "Size", Width: 10},
		{Title: "Price", Width: 10},
		{Title: "Discount", Width: 9},
		{Title: "Manufacturer", Width: 20},
		{Title: "Expiry", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := CatalogModel{svc: svc, table: t}
	m.refreshTable()

	return m
}

func (m CatalogModel) Title() string { return "Catalog" }

func (m CatalogModel) ShortHelp() string {
	return "Esc: back | type to filter by code or name | Backspace: edit filter"
}

func (m CatalogModel) Init() tea.Cmd {
	return nil
}

func (m CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyBackspace:
			if m.filter != "" {
				m.filter = m.filter[:len(m.filter)-1]
				m.refreshTable()
			}

			return m, nil
		case tea.KeyRunes:
			m.filter += string(msg.Runes)
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CatalogModel) View() string {
	header := fmt.Sprintf("%d item(s) | Filter: %s", len(m.items), activeStyle(m.filter))

	if m.svc.Catalog().Len() == 0 {
		return lipgloss.NewStyle().Padding(2).Render(
			noticeStyle.Render("The catalog is empty. Load a catalog file from the menu.") + "\n\n(Esc to go back)",
		)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	))
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *CatalogModel) refreshTable() {
	needle := strings.ToLower(m.filter)

	var items []catalog.Item
	for _, item := range m.svc.Catalog().Items() {
		if needle != "" &&
			!strings.Contains(strings.ToLower(item.Code), needle) &&
			!strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}

		items = append(items, item)
	}

	m.items = items

	rows := make([]table.Row, 0, len(m.items))
	for _, item := range m.items {
		rows = append(rows, table.Row{
			item.Code,
			item.Name,
			item.SizeOrWeight,
			FormatMoney(item.Price),
			fmt.Sprintf("%d%%", item.DiscountPercent),
			item.Manufacturer,
			item.Expiry,
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}
