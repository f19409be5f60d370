package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ticketrik/ticketrik/internal/api"
)

const connectError = "Error de conexión"

type registerModel struct {
	client *api.Client
	logger *slog.Logger

	inputs []textinput.Model // name, email, password
	focus  int

	submitting bool
	spin       spinner.Model
	errMsg     string

	width  int
	height int
}

func newRegisterModel(client *api.Client, logger *slog.Logger) *registerModel {
	name := textinput.New()
	name.Placeholder = "Nombre"
	name.Prompt = "> "
	name.CharLimit = 120
	name.Focus()

	email := textinput.New()
	email.Placeholder = "Correo"
	email.Prompt = "> "
	email.CharLimit = 120

	password := textinput.New()
	password.Placeholder = "Contraseña"
	password.Prompt = "> "
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &registerModel{
		client: client,
		logger: logger,
		inputs: []textinput.Model{name, email, password},
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m *registerModel) Init() tea.Cmd { return textinput.Blink }

func (m *registerModel) setSize(width, height int) {
	m.width, m.height = width, height
}

func (m *registerModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Back):
			return m, func() tea.Msg { return gotoLoginMsg{} }
		case key.Matches(msg, keys.NextField), msg.String() == "down":
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil
		case msg.String() == "up", msg.String() == "shift+tab":
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, nil
		case key.Matches(msg, keys.Submit):
			if m.focus < len(m.inputs)-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m.submit()
		}

	case registerResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = errorText(msg.err, connectError)
			return m, nil
		}
		// Registration does not auto-authenticate; back to login.
		return m, func() tea.Msg { return gotoLoginMsg{notice: "Usuario creado"} }

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, m.updateInputs(msg)
}

func (m *registerModel) setFocus(focus int) {
	m.focus = focus
	for i := range m.inputs {
		if i == focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *registerModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m *registerModel) submit() (screenModel, tea.Cmd) {
	m.submitting = true
	m.errMsg = ""
	client := m.client
	name, email, password := m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value()
	register := func() tea.Msg {
		return registerResultMsg{err: client.Register(context.Background(), name, email, password)}
	}
	return m, tea.Batch(register, m.spin.Tick)
}

func (m *registerModel) View() string {
	labels := []string{"Nombre", "Correo", "Contraseña"}
	lines := []string{
		header(""),
		"",
		titleStyle.Render("Registro"),
		"",
	}
	for i, input := range m.inputs {
		lines = append(lines, mutedStyle.Render(labels[i]), input.View(), "")
	}

	switch {
	case m.submitting:
		lines = append(lines, m.spin.View()+" Registrando...")
	case m.errMsg != "":
		lines = append(lines, errorStyle.Render(m.errMsg))
	}

	lines = append(lines, "", helpStyle.Render("enter: registrar • esc: ¿ya tienes cuenta? inicia sesión"))
	return panel(joinLines(lines))
}
