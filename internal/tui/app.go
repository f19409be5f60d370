// Package tui implements the Ticketrik terminal front-end: one model per
// screen plus a root App model that owns the navigation state and the
// session. All business logic lives in the remote API; the screens only
// manage form state, issue requests and render the results.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ticketrik/ticketrik/internal/api"
	"github.com/ticketrik/ticketrik/internal/session"
)

// Screen identifies one full-page view state.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenDashboard
	ScreenTickets
	ScreenTicketDetail
)

// NavigationState is the single source of truth for what is visible.
// TicketID is set if and only if Screen == ScreenTicketDetail.
type NavigationState struct {
	Screen   Screen
	TicketID string
}

// screenModel is the contract between the App and its screens. Update
// returns the replacement model so screens stay value-style like the
// rest of the bubbletea ecosystem.
type screenModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screenModel, tea.Cmd)
	View() string
	setSize(width, height int)
}

// App is the navigation controller. It renders exactly one screen at a
// time and is the only writer of the navigation state and the session.
// Screens request transitions by emitting navigation messages; the App
// overwrites the state unconditionally, so a transition always lands on
// exactly the requested target.
type App struct {
	client *api.Client
	store  *session.Store
	logger *slog.Logger

	sess   session.Session
	nav    NavigationState
	active screenModel

	width  int
	height int
}

// New builds the App on the login screen. A persisted token is restored
// into the session but does not skip login: the API authenticates by
// cookie, and a fresh run has no cookie yet.
func New(client *api.Client, store *session.Store, logger *slog.Logger) *App {
	app := &App{
		client: client,
		store:  store,
		logger: logger,
	}
	if store != nil {
		if sess, err := store.Load(); err != nil {
			logger.Warn("restoring session failed", "error", err)
		} else {
			app.sess = sess
		}
	}
	app.nav = NavigationState{Screen: ScreenLogin}
	app.active = newLoginModel(client, logger, "")
	return app
}

// Navigation exposes the current state for assertions.
func (app *App) Navigation() NavigationState { return app.nav }

// Session exposes the current session for assertions.
func (app *App) Session() session.Session { return app.sess }

func (app *App) Init() tea.Cmd {
	return app.active.Init()
}

func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return app, tea.Quit
		}

	case tea.WindowSizeMsg:
		app.width, app.height = msg.Width, msg.Height
		app.active.setSize(msg.Width, msg.Height)
		return app, nil

	case loginSuccessMsg:
		app.sess = session.New(msg.token)
		if app.store != nil && app.sess.Active() {
			if err := app.store.Save(app.sess); err != nil {
				app.logger.Warn("persisting session failed", "error", err)
			}
		}
		return app, app.transition(NavigationState{Screen: ScreenDashboard}, "")

	case logoutMsg:
		return app, app.logout()

	case gotoLoginMsg:
		return app, app.transition(NavigationState{Screen: ScreenLogin}, msg.notice)

	case gotoRegisterMsg:
		return app, app.transition(NavigationState{Screen: ScreenRegister}, "")

	case gotoDashboardMsg:
		return app, app.transition(NavigationState{Screen: ScreenDashboard}, "")

	case gotoTicketsMsg:
		return app, app.transition(NavigationState{Screen: ScreenTickets}, "")

	case gotoTicketDetailMsg:
		return app, app.transition(NavigationState{Screen: ScreenTicketDetail, TicketID: msg.ticketID}, "")
	}

	// Everything else belongs to the active screen. Async results for a
	// screen the user already left land here too and are ignored by the
	// unrelated active model, which is the stale-response guard.
	var cmd tea.Cmd
	app.active, cmd = app.active.Update(msg)
	return app, cmd
}

func (app *App) View() string {
	return app.active.View()
}

// transition replaces the navigation state and instantiates the target
// screen. No validation beyond the TicketID invariant: any screen may
// jump to any other.
func (app *App) transition(nav NavigationState, notice string) tea.Cmd {
	if nav.Screen != ScreenTicketDetail {
		nav.TicketID = ""
	}
	app.nav = nav

	switch nav.Screen {
	case ScreenRegister:
		app.active = newRegisterModel(app.client, app.logger)
	case ScreenDashboard:
		app.active = newDashboardModel(app.client, app.logger)
	case ScreenTickets:
		app.active = newTicketsModel(app.client, app.logger)
	case ScreenTicketDetail:
		app.active = newTicketViewModel(app.client, app.logger, nav.TicketID)
	default:
		app.active = newLoginModel(app.client, app.logger, notice)
	}
	app.active.setSize(app.width, app.height)
	return app.active.Init()
}

// logout clears the session locally, notifies the server without waiting
// for it, and lands on the login screen. Reachable from every
// authenticated screen.
func (app *App) logout() tea.Cmd {
	app.sess = session.Session{}
	if app.store != nil {
		if err := app.store.Clear(); err != nil {
			app.logger.Warn("clearing stored session failed", "error", err)
		}
	}

	client, logger := app.client, app.logger
	notify := func() tea.Msg {
		// Best-effort: the local transition never blocks on this.
		if err := client.Logout(context.Background()); err != nil {
			logger.Warn("server logout failed", "error", err)
		}
		return nil
	}
	return tea.Batch(notify, app.transition(NavigationState{Screen: ScreenLogin}, ""))
}
