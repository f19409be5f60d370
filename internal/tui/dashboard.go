package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ticketrik/ticketrik/internal/api"
)

type dashboardState int

const (
	dashboardLoading dashboardState = iota
	dashboardNotAuthenticated
	dashboardFailed
	dashboardLoaded
)

type dashboardModel struct {
	client *api.Client
	logger *slog.Logger

	state  dashboardState
	data   *api.DashboardData
	errMsg string
	spin   spinner.Model

	width  int
	height int
}

func newDashboardModel(client *api.Client, logger *slog.Logger) *dashboardModel {
	return &dashboardModel{
		client: client,
		logger: logger,
		state:  dashboardLoading,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spin.Tick)
}

func (m *dashboardModel) setSize(width, height int) {
	m.width, m.height = width, height
}

func (m *dashboardModel) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		data, err := client.Dashboard(context.Background())
		return dashboardLoadedMsg{data: data, err: err}
	}
}

func (m *dashboardModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Tickets):
			return m, func() tea.Msg { return gotoTicketsMsg{} }
		case key.Matches(msg, keys.Logout):
			return m, func() tea.Msg { return logoutMsg{} }
		case key.Matches(msg, keys.Refresh):
			m.state = dashboardLoading
			return m, tea.Batch(m.load(), m.spin.Tick)
		}

	case dashboardLoadedMsg:
		if msg.err != nil {
			// An unauthenticated session is its own state, not an
			// empty dashboard.
			if api.IsUnauthorized(msg.err) {
				m.state = dashboardNotAuthenticated
				m.errMsg = "Error: No autenticado"
			} else {
				m.state = dashboardFailed
				m.errMsg = errorText(msg.err, connectError)
			}
			m.data = nil
			return m, nil
		}
		m.state = dashboardLoaded
		m.data = msg.data
		m.errMsg = ""
		return m, nil

	case spinner.TickMsg:
		if m.state == dashboardLoading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *dashboardModel) View() string {
	lines := []string{header("Dashboard"), ""}

	switch m.state {
	case dashboardLoading:
		lines = append(lines, m.spin.View()+" Cargando...")

	case dashboardNotAuthenticated, dashboardFailed:
		lines = append(lines, errorStyle.Render(m.errMsg))
		lines = append(lines, "", mutedStyle.Render("Error al cargar los tickets."))

	case dashboardLoaded:
		lines = append(lines, titleStyle.Render(fmt.Sprintf("Bienvenido %s 👋", m.data.Username)))
		lines = append(lines, fmt.Sprintf("Tienes %d reportes registrados.", len(m.data.Tickets)))
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Usuario: %s | Email: %s", m.data.Username, m.data.Email)))
		lines = append(lines, "", titleStyle.Render("Mis Reportes"))
		if len(m.data.Tickets) == 0 {
			lines = append(lines, mutedStyle.Render("No tienes tickets registrados."))
		}
		for _, t := range m.data.Tickets {
			title := t.Title
			if title == "" {
				title = "Sin título"
			}
			description := t.Description
			if description == "" {
				description = "Sin descripción"
			}
			creator := t.CreatedBy.Display()
			if t.CreatedBy.Zero() {
				creator = m.data.Username
			}
			lines = append(lines,
				"  "+accentStyle.Render(title),
				"    "+mutedStyle.Render(description),
				"    "+labelStyle.Render("Prioridad:")+" "+renderPriority(t.Priority)+
					"  "+labelStyle.Render("Creado por:")+" "+creator,
			)
		}
		lines = append(lines, "", titleStyle.Render("Información"))
		lines = append(lines, mutedStyle.Render("Aquí puedes ver todos tus tickets registrados, su prioridad y quién los creó."))
		lines = append(lines, mutedStyle.Render("Si tienes dudas, contacta al soporte técnico."))
	}

	lines = append(lines, "", helpStyle.Render("t: ver reportes • r: recargar • x: cerrar sesión • C-c: salir"))
	return panel(joinLines(lines))
}
