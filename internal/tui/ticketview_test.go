package tui

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketrik/ticketrik/internal/api"
	"github.com/ticketrik/ticketrik/internal/model"
)

func loadedTicket(t *testing.T, m *ticketViewModel, ticket model.Ticket) {
	t.Helper()
	m.Update(ticketLoadedMsg{ticket: &ticket})
	require.Equal(t, ticketViewLoaded, m.state)
}

func TestWhitespaceCommentIsANoOp(t *testing.T) {
	m := newTicketViewModel(failingClient(t), testLogger(), "t1")
	loadedTicket(t, m, model.Ticket{ID: "t1", Title: "x"})

	m.Update(keyPress('c'))
	require.Equal(t, ticketCommenting, m.mode)

	m.comment.SetValue("   \n  ")
	_, cmd := m.submitComment()
	assert.Nil(t, cmd, "whitespace comment must not issue a request")
	assert.NotEmpty(t, m.commentErr)
}

func TestCommentSuccessClearsInputAndRefetches(t *testing.T) {
	existing := model.Comment{
		Author:    model.UserRef{Name: "Ana"},
		Message:   "primer comentario",
		CreatedAt: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /tickets/t1", func(w http.ResponseWriter, r *http.Request) {
		var patch struct {
			Comments []model.Comment `json:"comments"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		require.Len(t, patch.Comments, 2)
		assert.Equal(t, "hola", patch.Comments[1].Message)
		json.NewEncoder(w).Encode(model.Ticket{ID: "t1"})
	})
	mux.HandleFunc("GET /tickets/t1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Ticket{
			ID:       "t1",
			Title:    "x",
			Comments: []model.Comment{existing, {Author: model.UserRef{Name: "Yo"}, Message: "hola"}},
		})
	})

	m := newTicketViewModel(testClient(t, mux), testLogger(), "t1")
	loadedTicket(t, m, model.Ticket{ID: "t1", Title: "x", Comments: []model.Comment{existing}})

	m.Update(keyPress('c'))
	m.comment.SetValue("hola")

	_, cmd := m.submitComment()
	require.NotNil(t, cmd)
	for _, msg := range runCmd(cmd) {
		if updated, ok := msg.(ticketUpdatedMsg); ok {
			require.NoError(t, updated.err)
			_, reload := m.Update(updated)
			require.NotNil(t, reload, "a successful comment refetches the ticket")
			for _, loadMsg := range runCmd(reload) {
				m.Update(loadMsg)
			}
		}
	}

	assert.Empty(t, m.comment.Value(), "input is cleared after submission")
	require.NotNil(t, m.ticket)
	assert.Len(t, m.ticket.Comments, 2)
}

func TestBlankAssigneeLeavesAssignmentUnchanged(t *testing.T) {
	var patch map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /tickets/t1", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		json.NewEncoder(w).Encode(model.Ticket{ID: "t1"})
	})
	mux.HandleFunc("GET /tickets/t1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Ticket{ID: "t1", Status: model.StatusInProgress})
	})

	m := newTicketViewModel(testClient(t, mux), testLogger(), "t1")
	loadedTicket(t, m, model.Ticket{ID: "t1", Status: model.StatusOpen, AssignedTo: "tec-7"})

	m.Update(keyPress('s'))
	require.Equal(t, ticketEditing, m.mode)
	m.editStatus = model.StatusInProgress

	_, cmd := m.submitEdit()
	require.NotNil(t, cmd)
	for _, msg := range runCmd(cmd) {
		if updated, ok := msg.(ticketUpdatedMsg); ok {
			m.Update(updated)
		}
	}

	assert.Equal(t, "in_progress", patch["status"])
	assert.NotContains(t, patch, "assignedTo", "blank assignee must be sent as absent")
}

func TestTypedAssigneeIsSent(t *testing.T) {
	var patch map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /tickets/t1", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		json.NewEncoder(w).Encode(model.Ticket{ID: "t1"})
	})

	m := newTicketViewModel(testClient(t, mux), testLogger(), "t1")
	loadedTicket(t, m, model.Ticket{ID: "t1", Status: model.StatusOpen})

	m.Update(keyPress('a'))
	m.assignee.SetValue("  tec-9  ")

	_, cmd := m.submitEdit()
	for _, msg := range runCmd(cmd) {
		_ = msg // the PUT already ran; the reload is irrelevant here
	}

	assert.Equal(t, "tec-9", patch["assignedTo"])
}

func TestEditFocusCyclesBothWays(t *testing.T) {
	m := newTicketViewModel(failingClient(t), testLogger(), "t1")
	loadedTicket(t, m, model.Ticket{ID: "t1", Status: model.StatusOpen})

	m.Update(keyPress('s'))
	require.Equal(t, 0, m.editFocus)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.editFocus)
	assert.True(t, m.assignee.Focused())

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 0, m.editFocus)
	assert.False(t, m.assignee.Focused())
}

func TestNotFoundIsDistinctFromLoadError(t *testing.T) {
	m := newTicketViewModel(failingClient(t), testLogger(), "missing")

	m.Update(ticketLoadedMsg{err: &api.APIError{StatusCode: 404, Message: "Ticket no encontrado"}})
	assert.Equal(t, ticketViewNotFound, m.state)
	assert.Contains(t, m.View(), "No se encontró el ticket")

	m.Update(ticketLoadedMsg{err: errors.New("dial tcp: connection refused")})
	assert.Equal(t, ticketViewFailed, m.state)
	assert.Contains(t, m.View(), "Error de conexión")
}

func TestDeleteRequiresConfirmationAndNavigatesToList(t *testing.T) {
	deletes := 0
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /tickets/t1", func(w http.ResponseWriter, r *http.Request) {
		deletes++
		json.NewEncoder(w).Encode(map[string]string{"message": "Eliminado"})
	})

	m := newTicketViewModel(testClient(t, mux), testLogger(), "t1")
	loadedTicket(t, m, model.Ticket{ID: "t1", Title: "x"})

	// Cancelled: nothing sent.
	m.Update(keyPress('d'))
	require.Equal(t, ticketConfirmDelete, m.mode)
	m.Update(keyPress('n'))
	assert.Equal(t, 0, deletes)

	// Confirmed: request goes out, then we navigate back to the list.
	m.Update(keyPress('d'))
	_, cmd := m.Update(keyPress('y'))
	require.NotNil(t, cmd)

	var navigated bool
	for _, msg := range runCmd(cmd) {
		if deleted, ok := msg.(ticketDeletedMsg); ok {
			require.NoError(t, deleted.err)
			_, next := m.Update(deleted)
			for _, nextMsg := range runCmd(next) {
				if _, ok := nextMsg.(gotoTicketsMsg); ok {
					navigated = true
				}
			}
		}
	}
	assert.Equal(t, 1, deletes)
	assert.True(t, navigated, "a confirmed delete navigates away from the detail view")
}

func TestCommentListRendersAuthorsAndEmptyState(t *testing.T) {
	m := newTicketViewModel(failingClient(t), testLogger(), "t1")
	loadedTicket(t, m, model.Ticket{ID: "t1", Title: "x"})
	assert.Contains(t, m.View(), "No hay comentarios.")

	loadedTicket(t, m, model.Ticket{
		ID:    "t1",
		Title: "x",
		Comments: []model.Comment{
			{Author: model.UserRef{Name: "Ana"}, Message: "hola", CreatedAt: time.Now()},
		},
	})
	view := m.View()
	assert.Contains(t, view, "Ana")
	assert.Contains(t, view, "hola")
}
