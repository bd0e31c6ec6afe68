package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/supersaver/internal/bill"
	"github.com/MrJamesThe3rd/supersaver/internal/ledger"
	"github.com/MrJamesThe3rd/supersaver/internal/pos"
)

type billState int

const (
	billStateDetails billState = iota
	billStateEntry
	billStateConfirmDiscard
	billStateSaving
	billStateResult
)

// billDetails holds the form bindings. It is shared by pointer so the huh
// form keeps writing to the same values across model copies.
type billDetails struct {
	cashier  string
	customer string
}

type BillModel struct {
	CommonModel
	svc       *pos.Service
	storeName string

	state   billState
	form    *huh.Form
	details *billDetails
	bill    *bill.Bill

	codeInput  textinput.Model
	qtyInput   textinput.Model
	focusIndex int

	status string
	err    error
	result string
}

// NewBillModel starts a fresh bill by asking for the cashier and customer.
func NewBillModel(svc *pos.Service, storeName string) BillModel {
	m := BillModel{
		svc:       svc,
		storeName: storeName,
		state:     billStateDetails,
		details:   &billDetails{},
	}

	m.codeInput, m.qtyInput = newEntryInputs()
	m.form = m.buildDetailsForm()

	return m
}

// NewResumedBillModel continues a bill restored from the pending slot.
func NewResumedBillModel(svc *pos.Service, storeName string, b *bill.Bill) BillModel {
	m := BillModel{
		svc:       svc,
		storeName: storeName,
		state:     billStateEntry,
		details:   &billDetails{cashier: b.Cashier, customer: b.Customer},
		bill:      b,
		status:    fmt.Sprintf("Resumed bill with %d item(s).", len(b.Lines())),
	}

	m.codeInput, m.qtyInput = newEntryInputs()

	return m
}

func newEntryInputs() (textinput.Model, textinput.Model) {
	code := textinput.New()
	code.Placeholder = "Item code"
	code.CharLimit = 32
	code.Width = 20
	code.Focus()

	qty := textinput.New()
	qty.Placeholder = "1"
	qty.CharLimit = 6
	qty.Width = 8

	return code, qty
}

func (m BillModel) buildDetailsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("cashier").
				Title("Cashier").
				Value(&m.details.cashier).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("cashier cannot be empty")
					}

					if strings.Contains(s, ",") {
						return fmt.Errorf("cashier cannot contain a comma")
					}

					return nil
				}),

			huh.NewInput().
				Key("customer").
				Title("Customer").
				Placeholder("optional").
				Value(&m.details.customer),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m BillModel) Title() string { return "New Bill" }

func (m BillModel) ShortHelp() string {
	switch m.state {
	case billStateEntry:
		return "Tab: switch field | Enter: add item | Ctrl+S: pause | Ctrl+D: finalize | Esc: discard"
	case billStateConfirmDiscard:
		return "y: discard bill | n: keep editing"
	case billStateResult:
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m BillModel) Init() tea.Cmd {
	if m.form != nil {
		return m.form.Init()
	}

	return textinput.Blink
}

func (m BillModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case billPausedMsg:
		if msg.err != nil {
			m.state = billStateEntry
			m.err = msg.err

			return m, nil
		}

		m.state = billStateResult
		m.result = successStyle.Render("Bill paused. Load it from the menu to continue.")

		return m, nil

	case billFinalizedMsg:
		// Without a ledger entry nothing was written and finalizing can be retried.
		if msg.err != nil && msg.entry.Timestamp.IsZero() {
			m.state = billStateEntry
			m.err = msg.err

			return m, nil
		}

		m.state = billStateResult
		m.result = successStyle.Render(fmt.Sprintf("Bill finalized. Recorded %s.", FormatMoney(msg.entry.TotalCost)))

		if msg.err != nil {
			m.result += "\n" + noticeStyle.Render(fmt.Sprintf("Warning: %v", msg.err))
		}

		m.result += "\n\n" + m.bill.Render(m.storeName)

		return m, nil
	}

	switch m.state {
	case billStateDetails:
		return m.updateDetails(msg)
	case billStateEntry:
		return m.updateEntry(msg)
	case billStateConfirmDiscard:
		return m.updateConfirmDiscard(msg)
	case billStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m BillModel) updateDetails(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.bill = m.svc.NewBill(strings.TrimSpace(m.details.cashier), strings.TrimSpace(m.details.customer))
	m.form = nil
	m.state = billStateEntry

	return m, textinput.Blink
}

func (m BillModel) updateEntry(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.state = billStateConfirmDiscard
			return m, nil
		case "tab", "shift+tab":
			m.focusIndex = (m.focusIndex + 1) % 2
			if m.focusIndex == 0 {
				m.codeInput.Focus()
				m.qtyInput.Blur()
			} else {
				m.qtyInput.Focus()
				m.codeInput.Blur()
			}

			return m, textinput.Blink
		case "enter":
			return m.addItem(), nil
		case "ctrl+s":
			m.state = billStateSaving
			return m, m.pauseCmd()
		case "ctrl+d":
			if len(m.bill.Lines()) == 0 {
				m.err = errors.New("add at least one item before finalizing")
				return m, nil
			}

			m.state = billStateSaving

			return m, m.finalizeCmd()
		}
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.codeInput, cmd = m.codeInput.Update(msg)
	} else {
		m.qtyInput, cmd = m.qtyInput.Update(msg)
	}

	return m, cmd
}

func (m BillModel) addItem() BillModel {
	code := strings.TrimSpace(m.codeInput.Value())

	qty := 1
	if raw := strings.TrimSpace(m.qtyInput.Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			m.err = fmt.Errorf("%w: %q", bill.ErrInvalidQuantity, raw)
			return m
		}

		qty = n
	}

	line, err := m.svc.AddItem(m.bill, code, qty)
	if err != nil {
		m.err = err
		return m
	}

	m.err = nil
	m.status = "Added " + line.String()
	m.codeInput.SetValue("")
	m.qtyInput.SetValue("")
	m.focusIndex = 0
	m.codeInput.Focus()
	m.qtyInput.Blur()

	return m
}

func (m BillModel) updateConfirmDiscard(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		return m, Back
	case "n", "N", "esc":
		m.state = billStateEntry
	}

	return m, nil
}

func (m BillModel) View() string {
	switch m.state {
	case billStateDetails:
		return lipgloss.NewStyle().Padding(1).Render("Start a new bill\n\n" + m.form.View())
	case billStateEntry:
		return m.viewEntry()
	case billStateConfirmDiscard:
		return lipgloss.NewStyle().Padding(1).Render(
			m.viewBill() + "\n\n" + noticeStyle.Render("Discard this bill? Items not paused or finalized are lost. (y/n)"),
		)
	case billStateSaving:
		return lipgloss.NewStyle().Padding(2).Render("Saving bill...")
	case billStateResult:
		return lipgloss.NewStyle().Padding(1).Render(m.result + "\n\n(Esc to go back)")
	}

	return ""
}

func (m BillModel) viewEntry() string {
	inputs := fmt.Sprintf("Code: %s  Qty: %s", m.codeInput.View(), m.qtyInput.View())

	parts := []string{m.viewBill(), "", inputs}

	if m.err != nil {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.status != "" {
		parts = append(parts, faintStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m BillModel) viewBill() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Cashier: %s\n", m.bill.Cashier)
	fmt.Fprintf(&sb, "Customer: %s\n", m.bill.Customer)
	fmt.Fprintf(&sb, "Date: %s\n\n", m.bill.Timestamp())

	lines := m.bill.Lines()
	if len(lines) == 0 {
		sb.WriteString(faintStyle.Render("No items yet.") + "\n")
	}

	for i, l := range lines {
		fmt.Fprintf(&sb, "%2d. %s\n", i+1, l.String())
	}

	fmt.Fprintf(&sb, "\nTotal Discount: %s\n", FormatMoney(m.bill.TotalDiscount()))
	fmt.Fprintf(&sb, "Total Cost: %s", FormatMoney(m.bill.TotalCost()))

	return lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(sb.String())
}

// Messages

type billPausedMsg struct {
	err error
}

type billFinalizedMsg struct {
	entry ledger.Entry
	err   error
}

func (m BillModel) pauseCmd() tea.Cmd {
	b := m.bill

	return func() tea.Msg {
		return billPausedMsg{err: m.svc.PauseBill(b)}
	}
}

func (m BillModel) finalizeCmd() tea.Cmd {
	b := m.bill

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		entry, err := m.svc.FinalizeBill(ctx, b)

		return billFinalizedMsg{entry: entry, err: err}
	}
}
