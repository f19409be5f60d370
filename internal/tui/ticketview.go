package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ticketrik/ticketrik/internal/api"
	"github.com/ticketrik/ticketrik/internal/model"
)

type ticketViewState int

const (
	ticketViewLoading ticketViewState = iota
	ticketViewNotFound
	ticketViewFailed
	ticketViewLoaded
)

type ticketViewMode int

const (
	ticketViewing ticketViewMode = iota
	ticketCommenting
	ticketEditing
	ticketConfirmDelete
)

const dateLayout = "02/01/2006 15:04"

type ticketViewModel struct {
	client *api.Client
	logger *slog.Logger

	ticketID string
	state    ticketViewState
	mode     ticketViewMode
	ticket   *model.Ticket
	errMsg   string
	notice   string
	spin     spinner.Model
	busy     bool

	// vp scrolls the ticket body and comment thread; status lines and
	// overlays render below it and never scroll away.
	vp viewport.Model

	comment    textarea.Model
	commentErr string

	// Status/assignee edit overlay. A blank assignee means "leave the
	// current assignment unchanged", never "clear it".
	editStatus model.Status
	assignee   textinput.Model
	editFocus  int // 0 status, 1 assignee

	width  int
	height int
}

func newTicketViewModel(client *api.Client, logger *slog.Logger, ticketID string) *ticketViewModel {
	comment := textarea.New()
	comment.Placeholder = "Escribe un comentario..."
	comment.SetHeight(3)
	comment.CharLimit = 1000

	assignee := textinput.New()
	assignee.Placeholder = "Técnico asignado (vacío: sin cambios)"
	assignee.Prompt = "> "
	assignee.CharLimit = 120

	return &ticketViewModel{
		client:   client,
		logger:   logger,
		ticketID: ticketID,
		state:    ticketViewLoading,
		comment:  comment,
		assignee: assignee,
		vp:       viewport.New(80, 20),
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m *ticketViewModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spin.Tick)
}

func (m *ticketViewModel) setSize(width, height int) {
	m.width, m.height = width, height
	if width <= 0 || height <= 0 {
		return
	}
	vpWidth := width - 6
	if vpWidth < 20 {
		vpWidth = 20
	}
	vpHeight := height - 12
	if vpHeight < 5 {
		vpHeight = 5
	}
	m.vp.Width = vpWidth
	m.vp.Height = vpHeight
}

func (m *ticketViewModel) load() tea.Cmd {
	client, id := m.client, m.ticketID
	return func() tea.Msg {
		ticket, err := client.GetTicket(context.Background(), id)
		return ticketLoadedMsg{ticket: ticket, err: err}
	}
}

func (m *ticketViewModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch m.mode {
		case ticketCommenting:
			return m.updateCommenting(msg)
		case ticketEditing:
			return m.updateEditing(msg)
		case ticketConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateViewing(msg)

	case ticketLoadedMsg:
		if msg.err != nil {
			if api.IsNotFound(msg.err) {
				m.state = ticketViewNotFound
				m.errMsg = "No se encontró el ticket"
			} else {
				m.state = ticketViewFailed
				m.errMsg = errorText(msg.err, connectError)
			}
			m.ticket = nil
			return m, nil
		}
		m.state = ticketViewLoaded
		m.ticket = msg.ticket
		m.errMsg = ""
		m.vp.SetContent(joinLines(m.viewTicket()))
		m.vp.GotoTop()
		return m, nil

	case ticketUpdatedMsg:
		m.busy = false
		if msg.err != nil {
			if m.mode == ticketCommenting {
				m.commentErr = errorText(msg.err, connectError)
			} else {
				m.errMsg = errorText(msg.err, connectError)
				m.mode = ticketViewing
			}
			return m, nil
		}
		if m.mode == ticketCommenting {
			m.comment.Reset()
		}
		m.mode = ticketViewing
		m.commentErr = ""
		m.notice = "Guardado correctamente"
		// The server owns ordering and author attribution: always
		// refetch instead of patching the local copy.
		m.state = ticketViewLoading
		return m, tea.Batch(m.load(), m.spin.Tick)

	case ticketDeletedMsg:
		m.busy = false
		if msg.err != nil {
			m.mode = ticketViewing
			m.errMsg = errorText(msg.err, "No se pudo eliminar")
			return m, nil
		}
		return m, func() tea.Msg { return gotoTicketsMsg{} }

	case spinner.TickMsg:
		if m.state == ticketViewLoading || m.busy {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.mode == ticketCommenting {
		var cmd tea.Cmd
		m.comment, cmd = m.comment.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *ticketViewModel) updateViewing(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		return m, func() tea.Msg { return gotoTicketsMsg{} }
	case key.Matches(msg, keys.Logout):
		return m, func() tea.Msg { return logoutMsg{} }
	case key.Matches(msg, keys.Refresh):
		m.state = ticketViewLoading
		m.notice = ""
		return m, tea.Batch(m.load(), m.spin.Tick)
	}

	if m.state != ticketViewLoaded {
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Comment):
		m.mode = ticketCommenting
		m.commentErr = ""
		m.notice = ""
		return m, m.comment.Focus()
	case key.Matches(msg, keys.Status), key.Matches(msg, keys.Assign):
		m.mode = ticketEditing
		m.notice = ""
		m.editStatus = m.ticket.Status
		if !m.editStatus.Valid() {
			m.editStatus = model.StatusOpen
		}
		m.assignee.SetValue("")
		m.editFocus = 0
		m.assignee.Blur()
		return m, nil
	case key.Matches(msg, keys.Delete):
		m.mode = ticketConfirmDelete
		return m, nil
	}

	// Remaining keys scroll the ticket body.
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *ticketViewModel) updateCommenting(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ticketViewing
		m.commentErr = ""
		m.comment.Blur()
		return m, nil
	case "ctrl+d":
		return m.submitComment()
	}
	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	return m, cmd
}

// submitComment appends the comment through a ticket update. Empty or
// whitespace-only input is a no-op: no request is sent.
func (m *ticketViewModel) submitComment() (screenModel, tea.Cmd) {
	text := strings.TrimSpace(m.comment.Value())
	if text == "" {
		m.commentErr = "El comentario no puede estar vacío"
		return m, nil
	}

	comments := append(append([]model.Comment{}, m.ticket.Comments...), model.Comment{Message: text})
	patch := model.TicketPatch{Comments: comments}

	m.busy = true
	m.commentErr = ""
	client, id := m.client, m.ticketID
	update := func() tea.Msg {
		_, err := client.UpdateTicket(context.Background(), id, patch)
		return ticketUpdatedMsg{err: err}
	}
	return m, tea.Batch(update, m.spin.Tick)
}

func (m *ticketViewModel) updateEditing(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ticketViewing
		m.assignee.Blur()
		return m, nil
	case "tab", "down":
		m.setEditFocus((m.editFocus + 1) % 2)
		return m, nil
	case "up", "shift+tab":
		m.setEditFocus((m.editFocus + 2 - 1) % 2)
		return m, nil
	case "enter":
		return m.submitEdit()
	}

	if m.editFocus == 0 {
		switch msg.String() {
		case "left", "right", " ", "h", "l":
			m.editStatus = m.editStatus.Next()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.assignee, cmd = m.assignee.Update(msg)
	return m, cmd
}

func (m *ticketViewModel) setEditFocus(focus int) {
	m.editFocus = focus
	if focus == 1 {
		m.assignee.Focus()
	} else {
		m.assignee.Blur()
	}
}

// submitEdit sends the status and, only when one was typed, the new
// assignee. The assignedTo key is absent from the request body otherwise
// so the server keeps the existing assignment.
func (m *ticketViewModel) submitEdit() (screenModel, tea.Cmd) {
	status := m.editStatus
	patch := model.TicketPatch{Status: &status}
	if assignee := strings.TrimSpace(m.assignee.Value()); assignee != "" {
		patch.AssignedTo = &assignee
	}

	m.busy = true
	client, id := m.client, m.ticketID
	update := func() tea.Msg {
		_, err := client.UpdateTicket(context.Background(), id, patch)
		return ticketUpdatedMsg{err: err}
	}
	return m, tea.Batch(update, m.spin.Tick)
}

func (m *ticketViewModel) updateConfirm(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.busy = true
		client, id := m.client, m.ticketID
		deleteCmd := func() tea.Msg {
			message, err := client.DeleteTicket(context.Background(), id)
			return ticketDeletedMsg{message: message, err: err}
		}
		return m, tea.Batch(deleteCmd, m.spin.Tick)
	case "n", "esc":
		m.mode = ticketViewing
	}
	return m, nil
}

func (m *ticketViewModel) View() string {
	lines := []string{header("Ticket"), ""}

	switch m.state {
	case ticketViewLoading:
		lines = append(lines, m.spin.View()+" Cargando...")
	case ticketViewNotFound, ticketViewFailed:
		lines = append(lines, errorStyle.Render(m.errMsg))
		lines = append(lines, mutedStyle.Render("Pulsa esc para volver a la lista."))
	case ticketViewLoaded:
		lines = append(lines, m.vp.View())
		if m.errMsg != "" {
			lines = append(lines, "", errorStyle.Render(m.errMsg))
		} else if m.notice != "" {
			lines = append(lines, "", noticeStyle.Render(m.notice))
		}
	}

	switch m.mode {
	case ticketCommenting:
		lines = append(lines, "", titleStyle.Render("Nuevo comentario"))
		lines = append(lines, m.comment.View())
		if m.commentErr != "" {
			lines = append(lines, errorStyle.Render(m.commentErr))
		}
		lines = append(lines, helpStyle.Render("C-d: enviar • esc: cancelar"))
	case ticketEditing:
		lines = append(lines, "", titleStyle.Render("Actualizar ticket"))
		lines = append(lines, m.viewEdit()...)
		lines = append(lines, helpStyle.Render("enter: guardar • tab: campo • esc: cancelar"))
	case ticketConfirmDelete:
		lines = append(lines, "", errorStyle.Render("¿Eliminar ticket?")+" "+helpStyle.Render("y: eliminar • n: cancelar"))
	default:
		if m.busy {
			lines = append(lines, "", m.spin.View()+" Guardando...")
		} else if m.state == ticketViewLoaded {
			lines = append(lines, "", helpStyle.Render("↑/↓: desplazar • c: comentar • s/a: estado y asignación • d: eliminar • r: recargar • esc: volver a lista • x: cerrar sesión"))
		}
	}
	return panel(joinLines(lines))
}

func (m *ticketViewModel) viewTicket() []string {
	t := m.ticket
	lines := []string{
		titleStyle.Render(t.Title),
		labelStyle.Render("Estado:") + " " + renderStatus(t.Status) +
			"   " + labelStyle.Render("Prioridad:") + " " + renderPriority(t.Priority),
		labelStyle.Render("Creado:") + " " + t.CreatedAt.Format(dateLayout),
		labelStyle.Render("Por:") + " " + t.CreatedBy.Display(),
	}
	if t.AssignedTo != "" {
		lines = append(lines, labelStyle.Render("Asignado a:")+" "+t.AssignedTo)
	}
	if t.Description != "" {
		lines = append(lines, "", t.Description)
	}

	lines = append(lines, "", titleStyle.Render("Comentarios"))
	if len(t.Comments) == 0 {
		lines = append(lines, mutedStyle.Render("No hay comentarios."))
	}
	for _, c := range t.Comments {
		lines = append(lines,
			accentStyle.Render(c.Author.Display())+" "+mutedStyle.Render(c.CreatedAt.Format(dateLayout)),
			"  "+c.Message,
		)
	}
	return lines
}

func (m *ticketViewModel) viewEdit() []string {
	statusLine := ""
	for _, s := range model.Statuses {
		label := " " + string(s) + " "
		if s == m.editStatus {
			label = selectedStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		statusLine += label + " "
	}
	statusMarker := "  "
	assigneeMarker := "  "
	if m.editFocus == 0 {
		statusMarker = selectedStyle.Render("> ")
	} else {
		assigneeMarker = selectedStyle.Render("> ")
	}

	return []string{
		mutedStyle.Render("Estado") + " " + helpStyle.Render("(←/→ para cambiar)"),
		statusMarker + statusLine,
		mutedStyle.Render("Asignado a"),
		assigneeMarker + m.assignee.View(),
	}
}
