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

const connectLoginError = "Error al conectar con el servidor"

type loginModel struct {
	client *api.Client
	logger *slog.Logger

	email    textinput.Model
	password textinput.Model
	focus    int

	submitting bool
	spin       spinner.Model
	errMsg     string
	notice     string

	width  int
	height int
}

func newLoginModel(client *api.Client, logger *slog.Logger, notice string) *loginModel {
	email := textinput.New()
	email.Placeholder = "Correo"
	email.Prompt = "> "
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Contraseña"
	password.Prompt = "> "
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &loginModel{
		client:   client,
		logger:   logger,
		email:    email,
		password: password,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		notice:   notice,
	}
}

func (m *loginModel) Init() tea.Cmd { return textinput.Blink }

func (m *loginModel) setSize(width, height int) {
	m.width, m.height = width, height
}

func (m *loginModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Register):
			return m, func() tea.Msg { return gotoRegisterMsg{} }
		case key.Matches(msg, keys.NextField), msg.String() == "down":
			m.setFocus((m.focus + 1) % 2)
			return m, nil
		case msg.String() == "up", msg.String() == "shift+tab":
			m.setFocus((m.focus + 2 - 1) % 2)
			return m, nil
		case key.Matches(msg, keys.Submit):
			if m.focus == 0 {
				m.setFocus(1)
				return m, nil
			}
			return m.submit()
		}

	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = errorText(msg.err, connectLoginError)
			return m, nil
		}
		m.errMsg = ""
		token := msg.token
		return m, func() tea.Msg { return loginSuccessMsg{token: token} }

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

func (m *loginModel) setFocus(focus int) {
	m.focus = focus
	if focus == 0 {
		m.email.Focus()
		m.password.Blur()
	} else {
		m.email.Blur()
		m.password.Focus()
	}
}

func (m *loginModel) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds [2]tea.Cmd
	m.email, cmds[0] = m.email.Update(msg)
	m.password, cmds[1] = m.password.Update(msg)
	return tea.Batch(cmds[0], cmds[1])
}

func (m *loginModel) submit() (screenModel, tea.Cmd) {
	m.submitting = true
	m.errMsg = ""
	client := m.client
	email, password := m.email.Value(), m.password.Value()
	login := func() tea.Msg {
		token, err := client.Login(context.Background(), email, password)
		return loginResultMsg{token: token, err: err}
	}
	return m, tea.Batch(login, m.spin.Tick)
}

func (m *loginModel) View() string {
	lines := []string{
		header(""),
		"",
		titleStyle.Render("Iniciar sesión"),
		"",
		mutedStyle.Render("Correo"),
		m.email.View(),
		"",
		mutedStyle.Render("Contraseña"),
		m.password.View(),
		"",
	}

	switch {
	case m.submitting:
		lines = append(lines, m.spin.View()+" Entrando...")
	case m.errMsg != "":
		lines = append(lines, errorStyle.Render(m.errMsg))
	case m.notice != "":
		lines = append(lines, noticeStyle.Render(m.notice))
	}

	lines = append(lines, "", helpStyle.Render("enter: entrar • C-r: ¿no tienes cuenta? regístrate • C-c: salir"))
	return panel(joinLines(lines))
}
