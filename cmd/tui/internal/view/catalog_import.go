package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/supersaver/internal/pos"
)

type catalogImportState int

const (
	catalogImportStateFilePick catalogImportState = iota
	catalogImportStateLoading
	catalogImportStateResult
)

type CatalogImportModel struct {
	CommonModel
	svc *pos.Service

	state      catalogImportState
	filePicker filepicker.Model

	status string
	err    error
}

func NewCatalogImportModel(svc *pos.Service) CatalogImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return CatalogImportModel{
		svc:        svc,
		filePicker: fp,
	}
}

func (m CatalogImportModel) Title() string { return "Load Catalog" }

func (m CatalogImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m CatalogImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m CatalogImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case catalogLoadedMsg:
		m.state = catalogImportStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v. The previous catalog is still active.", msg.err)

			return m, nil
		}

		m.err = nil
		m.status = fmt.Sprintf("Loaded %d items from %s.", msg.count, msg.path)

		return m, nil
	}

	if m.state != catalogImportStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = catalogImportStateLoading
		m.status = fmt.Sprintf("Loading catalog from %s...", path)

		return m, m.loadCmd(path)
	}

	return m, cmd
}

func (m CatalogImportModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == catalogImportStateResult && m.err != nil {
		m.state = catalogImportStateFilePick
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m CatalogImportModel) View() string {
	switch m.state {
	case catalogImportStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select catalog file to load:\n\n%s", m.filePicker.View()),
		)
	case catalogImportStateLoading:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case catalogImportStateResult:
		style := lipgloss.NewStyle().Padding(2)
		if m.err != nil {
			return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to pick another file)")
		}

		return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return ""
}

// Messages

type catalogLoadedMsg struct {
	path  string
	count int
	err   error
}

func (m CatalogImportModel) loadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		n, err := m.svc.LoadCatalog(path)
		return catalogLoadedMsg{path: path, count: n, err: err}
	}
}
