package tui

import (
	"errors"

	"github.com/ticketrik/ticketrik/internal/api"
	"github.com/ticketrik/ticketrik/internal/model"
)

// Navigation messages. The root App model is the only handler: it
// overwrites the navigation state unconditionally and instantiates the
// target screen. There is no back-stack; "volver" is an explicit forward
// transition to a named screen.

type gotoLoginMsg struct {
	// notice is an informational line shown on the login screen, e.g.
	// after a successful registration.
	notice string
}

type gotoRegisterMsg struct{}

type gotoDashboardMsg struct{}

type gotoTicketsMsg struct{}

type gotoTicketDetailMsg struct {
	ticketID string
}

// loginSuccessMsg carries the token from a successful login. The App
// stores the session and transitions to the dashboard.
type loginSuccessMsg struct {
	token string
}

// logoutMsg requests session teardown. The App clears the session
// (memory and store), fires a best-effort server notification, and lands
// on the login screen regardless of the originating screen.
type logoutMsg struct{}

// Async result messages. Each type belongs to exactly one screen model;
// the App forwards non-navigation messages only to the active screen, so
// a result arriving after the user navigated away is dropped rather than
// mutating an unrelated screen.

type loginResultMsg struct {
	token string
	err   error
}

type registerResultMsg struct {
	err error
}

type dashboardLoadedMsg struct {
	data *api.DashboardData
	err  error
}

type ticketsLoadedMsg struct {
	tickets []model.Ticket
	err     error
}

type ticketSavedMsg struct {
	err error
}

type ticketDeletedMsg struct {
	message string
	err     error
}

type ticketLoadedMsg struct {
	ticket *model.Ticket
	err    error
}

type ticketUpdatedMsg struct {
	err error
}

// errorText renders an error for the user. Server-reported messages are
// shown verbatim; anything else (transport failure, malformed body) is
// the connection-error class and gets the screen's generic message.
func errorText(err error, connectionMsg string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return connectionMsg
}
