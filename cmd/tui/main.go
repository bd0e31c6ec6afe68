package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrJamesThe3rd/supersaver/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/supersaver/internal/app"
	"github.com/MrJamesThe3rd/supersaver/internal/bill"
	"github.com/MrJamesThe3rd/supersaver/internal/config"
	"github.com/MrJamesThe3rd/supersaver/internal/pos"
)

type model struct {
	svc       *pos.Service
	appName   string
	storeName string

	currentView View
	notice      string
	err         error

	billView          view.BillModel
	reportView        view.ReportModel
	catalogView       view.CatalogModel
	catalogImportView view.CatalogImportModel
}

type View int

const (
	ViewMenu          View = 0
	ViewBill          View = 1
	ViewReport        View = 2
	ViewCatalog       View = 3
	ViewCatalogImport View = 4
)

func initialModel(a *app.App) model {
	return model{
		svc:         a.POS,
		appName:     a.Config.App.Name,
		storeName:   a.Config.App.StoreName,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewBill:
		var newModel tea.Model
		newModel, cmd = m.billView.Update(msg)
		m.billView = newModel.(view.BillModel)
	case ViewReport:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	case ViewCatalog:
		var newModel tea.Model
		newModel, cmd = m.catalogView.Update(msg)
		m.catalogView = newModel.(view.CatalogModel)
	case ViewCatalogImport:
		var newModel tea.Model
		newModel, cmd = m.catalogImportView.Update(msg)
		m.catalogImportView = newModel.(view.CatalogImportModel)
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.err = nil

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewBill
		m.billView = view.NewBillModel(m.svc, m.storeName)

		return m, m.billView.Init()
	case "2":
		b, err := m.svc.ResumeBill()
		if errors.Is(err, bill.ErrNoPendingBill) {
			m.notice = "There is no paused bill to load."
			return m, nil
		}

		if err != nil {
			m.err = err
			return m, nil
		}

		m.currentView = ViewBill
		m.billView = view.NewResumedBillModel(m.svc, m.storeName, b)

		return m, m.billView.Init()
	case "3":
		m.currentView = ViewReport
		m.reportView = view.NewReportModel(m.svc)

		return m, m.reportView.Init()
	case "4":
		m.currentView = ViewCatalog
		m.catalogView = view.NewCatalogModel(m.svc)

		return m, m.catalogView.Init()
	case "5":
		m.currentView = ViewCatalogImport
		m.catalogImportView = view.NewCatalogImportModel(m.svc)

		return m, m.catalogImportView.Init()
	}

	return m, nil
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return m.viewMenu()
	case ViewBill:
		return m.billView.View()
	case ViewReport:
		return m.reportView.View()
	case ViewCatalog:
		return m.catalogView.View()
	case ViewCatalogImport:
		return m.catalogImportView.View()
	}

	return "Unknown View"
}

func (m model) viewMenu() string {
	s := fmt.Sprintf("%s\n%s\n\n", m.appName, m.storeName) +
		"1. New Bill\n" +
		"2. Load Paused Bill\n" +
		"3. Revenue Report\n" +
		"4. Browse Catalog\n" +
		"5. Load Catalog\n\n" +
		"q. Quit"

	switch {
	case m.err != nil:
		s += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err))
	case m.notice != "":
		s += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(m.notice)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg, prometheus.NewRegistry())
	if err != nil {
		slog.Error("failed to start register", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		a.Close()
		os.Exit(1)
	}
}
