package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ticketrik/ticketrik/internal/api"
	"github.com/ticketrik/ticketrik/internal/model"
)

type ticketsState int

const (
	ticketsNotLoaded ticketsState = iota
	ticketsLoading
	ticketsFailed
	ticketsLoaded
)

type ticketsMode int

const (
	ticketsBrowse ticketsMode = iota
	ticketsForm
	ticketsConfirmDelete
)

// Form field order: title, description, priority picker.
const (
	formFieldTitle = iota
	formFieldDescription
	formFieldPriority
	formFieldCount
)

type ticketsModel struct {
	client *api.Client
	logger *slog.Logger

	state   ticketsState
	mode    ticketsMode
	tickets []model.Ticket
	cursor  int
	errMsg  string
	notice  string
	spin    spinner.Model
	busy    bool

	// Create/edit form. editingID is empty when creating.
	editingID  string
	titleInput textinput.Model
	descInput  textinput.Model
	priority   model.Priority
	formFocus  int
	formErr    string

	// Pending delete; no request is issued until confirmed.
	confirmID string

	width  int
	height int
}

func newTicketsModel(client *api.Client, logger *slog.Logger) *ticketsModel {
	title := textinput.New()
	title.Placeholder = "Título"
	title.Prompt = "> "
	title.CharLimit = 200

	description := textinput.New()
	description.Placeholder = "Descripción"
	description.Prompt = "> "
	description.CharLimit = 500

	return &ticketsModel{
		client:     client,
		logger:     logger,
		state:      ticketsNotLoaded,
		titleInput: title,
		descInput:  description,
		priority:   model.PriorityMedium,
		spin:       spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m *ticketsModel) Init() tea.Cmd {
	m.state = ticketsLoading
	return tea.Batch(m.load(), m.spin.Tick)
}

func (m *ticketsModel) setSize(width, height int) {
	m.width, m.height = width, height
}

func (m *ticketsModel) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		tickets, err := client.ListTickets(context.Background())
		return ticketsLoadedMsg{tickets: tickets, err: err}
	}
}

func (m *ticketsModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch m.mode {
		case ticketsForm:
			return m.updateForm(msg)
		case ticketsConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)

	case ticketsLoadedMsg:
		if msg.err != nil {
			m.state = ticketsFailed
			m.errMsg = errorText(msg.err, connectError)
			return m, nil
		}
		m.state = ticketsLoaded
		m.tickets = msg.tickets
		m.errMsg = ""
		if m.cursor >= len(m.tickets) {
			m.cursor = len(m.tickets) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case ticketSavedMsg:
		m.busy = false
		if msg.err != nil {
			// Server is the final authority: its message verbatim.
			m.formErr = errorText(msg.err, connectError)
			return m, nil
		}
		m.closeForm()
		m.notice = "Guardado correctamente"
		m.state = ticketsLoading
		return m, tea.Batch(m.load(), m.spin.Tick)

	case ticketDeletedMsg:
		m.busy = false
		m.mode = ticketsBrowse
		m.confirmID = ""
		if msg.err != nil {
			m.errMsg = errorText(msg.err, "No se pudo eliminar")
			return m, nil
		}
		m.notice = msg.message
		if m.notice == "" {
			m.notice = "Eliminado"
		}
		// Reload from the server rather than removing locally; deletes
		// may cascade server-side.
		m.state = ticketsLoading
		return m, tea.Batch(m.load(), m.spin.Tick)

	case spinner.TickMsg:
		if m.state == ticketsLoading || m.busy {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.mode == ticketsForm {
		return m, m.updateFormInputs(msg)
	}
	return m, nil
}

func (m *ticketsModel) updateBrowse(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.tickets)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.View):
		if t := m.selected(); t != nil {
			id := t.ID
			return m, func() tea.Msg { return gotoTicketDetailMsg{ticketID: id} }
		}
	case key.Matches(msg, keys.New):
		m.openForm(nil)
	case key.Matches(msg, keys.Edit):
		if t := m.selected(); t != nil {
			m.openForm(t)
		}
	case key.Matches(msg, keys.Delete):
		if t := m.selected(); t != nil {
			m.confirmID = t.ID
			m.mode = ticketsConfirmDelete
		}
	case key.Matches(msg, keys.Refresh):
		m.state = ticketsLoading
		m.notice = ""
		return m, tea.Batch(m.load(), m.spin.Tick)
	case key.Matches(msg, keys.Dashboard):
		return m, func() tea.Msg { return gotoDashboardMsg{} }
	case key.Matches(msg, keys.Logout):
		return m, func() tea.Msg { return logoutMsg{} }
	}
	return m, nil
}

func (m *ticketsModel) updateForm(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.closeForm()
		return m, nil
	case key.Matches(msg, keys.NextField), msg.String() == "down":
		m.setFormFocus((m.formFocus + 1) % formFieldCount)
		return m, nil
	case msg.String() == "up", msg.String() == "shift+tab":
		m.setFormFocus((m.formFocus + formFieldCount - 1) % formFieldCount)
		return m, nil
	case key.Matches(msg, keys.Submit):
		if m.formFocus < formFieldPriority {
			m.setFormFocus(m.formFocus + 1)
			return m, nil
		}
		return m.submitForm()
	}

	if m.formFocus == formFieldPriority {
		switch msg.String() {
		case "left", "right", " ", "h", "l":
			m.priority = m.priority.Next()
		}
		return m, nil
	}
	return m, m.updateFormInputs(msg)
}

func (m *ticketsModel) updateConfirm(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := m.confirmID
		client := m.client
		m.busy = true
		deleteCmd := func() tea.Msg {
			message, err := client.DeleteTicket(context.Background(), id)
			return ticketDeletedMsg{message: message, err: err}
		}
		return m, tea.Batch(deleteCmd, m.spin.Tick)
	case "n", "esc":
		// Cancelled: no request was sent.
		m.mode = ticketsBrowse
		m.confirmID = ""
	}
	return m, nil
}

func (m *ticketsModel) selected() *model.Ticket {
	if m.state != ticketsLoaded || m.cursor < 0 || m.cursor >= len(m.tickets) {
		return nil
	}
	return &m.tickets[m.cursor]
}

func (m *ticketsModel) openForm(t *model.Ticket) {
	m.mode = ticketsForm
	m.formErr = ""
	m.notice = ""
	if t != nil {
		m.editingID = t.ID
		m.titleInput.SetValue(t.Title)
		m.descInput.SetValue(t.Description)
		m.priority = t.Priority
		if !m.priority.Valid() {
			m.priority = model.PriorityMedium
		}
	} else {
		m.editingID = ""
		m.titleInput.SetValue("")
		m.descInput.SetValue("")
		m.priority = model.PriorityMedium
	}
	m.setFormFocus(formFieldTitle)
}

func (m *ticketsModel) closeForm() {
	m.mode = ticketsBrowse
	m.editingID = ""
	m.formErr = ""
	m.titleInput.SetValue("")
	m.titleInput.Blur()
	m.descInput.SetValue("")
	m.descInput.Blur()
	m.priority = model.PriorityMedium
}

func (m *ticketsModel) setFormFocus(focus int) {
	m.formFocus = focus
	m.titleInput.Blur()
	m.descInput.Blur()
	switch focus {
	case formFieldTitle:
		m.titleInput.Focus()
	case formFieldDescription:
		m.descInput.Focus()
	}
}

func (m *ticketsModel) updateFormInputs(msg tea.Msg) tea.Cmd {
	var cmds [2]tea.Cmd
	m.titleInput, cmds[0] = m.titleInput.Update(msg)
	m.descInput, cmds[1] = m.descInput.Update(msg)
	return tea.Batch(cmds[0], cmds[1])
}

// submitForm validates client-side first: a whitespace-only title never
// reaches the network.
func (m *ticketsModel) submitForm() (screenModel, tea.Cmd) {
	draft := model.TicketDraft{
		Title:       m.titleInput.Value(),
		Description: m.descInput.Value(),
		Priority:    m.priority,
	}
	if err := draft.Validate(); err != nil {
		m.formErr = "El título no puede estar vacío"
		return m, nil
	}

	m.busy = true
	m.formErr = ""
	client := m.client
	editingID := m.editingID
	save := func() tea.Msg {
		var err error
		if editingID == "" {
			_, err = client.CreateTicket(context.Background(), draft)
		} else {
			patch := model.TicketPatch{
				Title:       &draft.Title,
				Description: &draft.Description,
				Priority:    &draft.Priority,
			}
			_, err = client.UpdateTicket(context.Background(), editingID, patch)
		}
		return ticketSavedMsg{err: err}
	}
	return m, tea.Batch(save, m.spin.Tick)
}

func (m *ticketsModel) View() string {
	if m.mode == ticketsForm {
		return m.viewForm()
	}

	lines := []string{header("Tickets"), ""}

	switch m.state {
	case ticketsNotLoaded:
		lines = append(lines, mutedStyle.Render("Sin cargar."))
	case ticketsLoading:
		lines = append(lines, m.spin.View()+" Cargando...")
	case ticketsFailed:
		lines = append(lines, errorStyle.Render(m.errMsg))
		lines = append(lines, mutedStyle.Render("Pulsa r para reintentar."))
	case ticketsLoaded:
		if len(m.tickets) == 0 {
			lines = append(lines, mutedStyle.Render("No hay tickets."))
		}
		for i, t := range m.tickets {
			prefix := "  "
			title := t.Title
			if i == m.cursor {
				prefix = selectedStyle.Render("> ")
				title = titleStyle.Render(title)
			}
			lines = append(lines,
				prefix+title,
				"    "+labelStyle.Render("Prioridad:")+" "+renderPriority(t.Priority)+
					"   "+labelStyle.Render("Estado:")+" "+renderStatus(t.Status),
				"    "+labelStyle.Render("Creado por:")+" "+t.CreatedBy.Display(),
			)
		}
	}

	if m.errMsg != "" && m.state == ticketsLoaded {
		lines = append(lines, "", errorStyle.Render(m.errMsg))
	} else if m.notice != "" {
		lines = append(lines, "", noticeStyle.Render(m.notice))
	}

	if m.mode == ticketsConfirmDelete {
		lines = append(lines, "", errorStyle.Render("¿Eliminar ticket?")+" "+helpStyle.Render("y: eliminar • n: cancelar"))
	} else {
		lines = append(lines, "", helpStyle.Render("enter/v: ver • n: nuevo • e: editar • d: eliminar • r: recargar • b: dashboard • x: cerrar sesión"))
	}
	return panel(joinLines(lines))
}

func (m *ticketsModel) viewForm() string {
	formTitle := "Crear ticket"
	if m.editingID != "" {
		formTitle = "Editar ticket"
	}

	priorityLine := ""
	for _, p := range model.Priorities {
		label := " " + string(p) + " "
		if p == m.priority {
			label = selectedStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		priorityLine += label + " "
	}
	priorityMarker := "  "
	if m.formFocus == formFieldPriority {
		priorityMarker = selectedStyle.Render("> ")
	}

	lines := []string{
		header("Tickets"),
		"",
		titleStyle.Render(formTitle),
		"",
		mutedStyle.Render("Título"),
		m.titleInput.View(),
		"",
		mutedStyle.Render("Descripción"),
		m.descInput.View(),
		"",
		mutedStyle.Render("Prioridad") + " " + helpStyle.Render("(←/→ para cambiar)"),
		priorityMarker + priorityLine,
		"",
	}

	switch {
	case m.busy:
		lines = append(lines, m.spin.View()+" Guardando...")
	case m.formErr != "":
		lines = append(lines, errorStyle.Render(m.formErr))
	}

	lines = append(lines, "", helpStyle.Render(fmt.Sprintf("enter: guardar • esc: cancelar • tab: campo (%d/%d)", m.formFocus+1, formFieldCount)))
	return panel(joinLines(lines))
}
