package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/supersaver/internal/pos"
)

type reportState int

const (
	reportStateTimeframe reportState = iota
	reportStateGenerating
	reportStateResult
)

type ReportModel struct {
	CommonModel
	svc *pos.Service

	state           reportState
	timeframePicker TimeframePicker
	spinner         spinner.Model

	result *pos.ReportResult
	err    error
}

func NewReportModel(svc *pos.Service) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ReportModel{
		svc:             svc,
		state:           reportStateTimeframe,
		timeframePicker: NewTimeframePicker(),
		spinner:         s,
	}
}

func (m ReportModel) Title() string { return "Revenue Report" }

func (m ReportModel) ShortHelp() string {
	switch m.state {
	case reportStateResult:
		return "Esc: back to menu"
	case reportStateGenerating:
		return "Generating..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.state = reportStateGenerating
		m.err = nil

		return m, tea.Batch(m.spinner.Tick, m.generateCmd(tfMsg.From, tfMsg.To))
	}

	switch m.state {
	case reportStateTimeframe:
		return m.updateTimeframe(msg)
	case reportStateGenerating:
		return m.updateGenerating(msg)
	case reportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ReportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ReportModel) updateGenerating(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(reportResultMsg); ok {
		m.state = reportStateResult
		m.result = result.result
		m.err = result.err

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ReportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ReportModel) View() string {
	switch m.state {
	case reportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case reportStateGenerating:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Generating revenue report...", m.spinner.View()),
		)

	case reportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ReportModel) viewResult() string {
	// A failed delivery still carries the written report.
	if m.result == nil {
		return lipgloss.NewStyle().Padding(1).Render(
			errorStyle.Render(fmt.Sprintf("Error generating the revenue report: %v", m.err)) + "\n\n(Esc to go back)",
		)
	}

	header := successStyle.Bold(true).Render("Revenue report generated successfully!")

	var delivery string

	switch {
	case m.result.Delivered:
		delivery = successStyle.Render("Report sent.")
	case errors.Is(m.err, pos.ErrDeliveryFailed):
		delivery = errorStyle.Render(fmt.Sprintf("Report not sent: %v", m.err))
	}

	lines := []string{
		header,
		"",
		m.result.Report.Text(),
		faintStyle.Render("Files: " + strings.Join(m.result.Files, ", ")),
	}

	if m.result.Report.Skipped > 0 {
		lines = append(lines, noticeStyle.Render(fmt.Sprintf("%d unreadable ledger line(s) were skipped.", m.result.Report.Skipped)))
	}

	if delivery != "" {
		lines = append(lines, delivery)
	}

	lines = append(lines, "", "(Esc to go back)")

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

type reportResultMsg struct {
	result *pos.ReportResult
	err    error
}

func (m ReportModel) generateCmd(from, to string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		res, err := m.svc.GenerateReport(ctx, from, to)

		return reportResultMsg{result: res, err: err}
	}
}
