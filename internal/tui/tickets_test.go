package tui

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketrik/ticketrik/internal/model"
)

func loadedTickets(t *testing.T, m *ticketsModel, tickets ...model.Ticket) {
	t.Helper()
	sm, _ := m.Update(ticketsLoadedMsg{tickets: tickets})
	require.Same(t, m, sm)
	require.Equal(t, ticketsLoaded, m.state)
}

func TestWhitespaceTitleIsRejectedWithoutRequest(t *testing.T) {
	m := newTicketsModel(failingClient(t), testLogger())
	loadedTickets(t, m)

	m.openForm(nil)
	m.titleInput.SetValue("  ")

	_, cmd := m.submitForm()
	assert.Nil(t, cmd, "validation failure must not issue a request")
	assert.NotEmpty(t, m.formErr)
	assert.Equal(t, ticketsForm, m.mode)
}

func TestDeleteWithoutConfirmationIssuesNoRequest(t *testing.T) {
	m := newTicketsModel(failingClient(t), testLogger())
	loadedTickets(t, m, model.Ticket{ID: "t1", Title: "Pantalla rota"})

	_, cmd := m.Update(keyPress('d'))
	assert.Nil(t, cmd)
	assert.Equal(t, ticketsConfirmDelete, m.mode)

	// Cancel: back to browsing, still no request.
	_, cmd = m.Update(keyPress('n'))
	assert.Nil(t, cmd)
	assert.Equal(t, ticketsBrowse, m.mode)
}

func TestConfirmedDeleteReloadsFromServer(t *testing.T) {
	deletes, lists := 0, 0
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /tickets/t1", func(w http.ResponseWriter, r *http.Request) {
		deletes++
		json.NewEncoder(w).Encode(map[string]string{"message": "Ticket eliminado"})
	})
	mux.HandleFunc("GET /tickets", func(w http.ResponseWriter, r *http.Request) {
		lists++
		io.WriteString(w, "[]")
	})

	m := newTicketsModel(testClient(t, mux), testLogger())
	loadedTickets(t, m, model.Ticket{ID: "t1", Title: "Pantalla rota"})

	m.Update(keyPress('d'))
	_, cmd := m.Update(keyPress('y'))
	require.NotNil(t, cmd)

	var deleted *ticketDeletedMsg
	for _, msg := range runCmd(cmd) {
		if dm, ok := msg.(ticketDeletedMsg); ok {
			deleted = &dm
		}
	}
	require.NotNil(t, deleted)
	require.NoError(t, deleted.err)
	assert.Equal(t, 1, deletes)

	// Feeding the result back triggers a reload, not a local removal.
	_, cmd = m.Update(*deleted)
	require.NotNil(t, cmd)
	assert.Equal(t, ticketsLoading, m.state)
	assert.Equal(t, "Ticket eliminado", m.notice)
	for _, msg := range runCmd(cmd) {
		m.Update(msg)
	}
	assert.Equal(t, 1, lists)
	assert.Equal(t, ticketsLoaded, m.state)
	assert.Empty(t, m.tickets)
}

func TestEmptyListIsAnExplicitState(t *testing.T) {
	m := newTicketsModel(failingClient(t), testLogger())

	assert.Contains(t, m.View(), "Sin cargar")

	loadedTickets(t, m)
	assert.Contains(t, m.View(), "No hay tickets.")
}

func TestLoadFailureIsDistinctFromEmpty(t *testing.T) {
	m := newTicketsModel(failingClient(t), testLogger())
	m.Update(ticketsLoadedMsg{err: errors.New("dial tcp: connection refused")})

	assert.Equal(t, ticketsFailed, m.state)
	view := m.View()
	assert.Contains(t, view, "Error de conexión")
	assert.NotContains(t, view, "No hay tickets.")
}

func TestServerRejectionShowsVerbatimMessageInForm(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tickets", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Título duplicado"})
	})

	m := newTicketsModel(testClient(t, mux), testLogger())
	loadedTickets(t, m)
	m.openForm(nil)
	m.titleInput.SetValue("Pantalla rota")

	_, cmd := m.submitForm()
	require.NotNil(t, cmd)
	for _, msg := range runCmd(cmd) {
		if saved, ok := msg.(ticketSavedMsg); ok {
			m.Update(saved)
		}
	}

	assert.Equal(t, ticketsForm, m.mode, "a rejected save keeps the form open")
	assert.Equal(t, "Título duplicado", m.formErr)
}

func TestEditSubmitsPatchAndReloads(t *testing.T) {
	var patch map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /tickets/t1", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		io.WriteString(w, `{"_id":"t1","title":"Nuevo título","status":"open","priority":"high"}`)
	})
	mux.HandleFunc("GET /tickets", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"_id":"t1","title":"Nuevo título","status":"open","priority":"high"}]`)
	})

	m := newTicketsModel(testClient(t, mux), testLogger())
	loadedTickets(t, m, model.Ticket{ID: "t1", Title: "Viejo", Priority: model.PriorityLow})

	m.Update(keyPress('e'))
	require.Equal(t, ticketsForm, m.mode)
	require.Equal(t, "t1", m.editingID)

	m.titleInput.SetValue("Nuevo título")
	m.priority = model.PriorityHigh

	_, cmd := m.submitForm()
	require.NotNil(t, cmd)
	for _, msg := range runCmd(cmd) {
		if saved, ok := msg.(ticketSavedMsg); ok {
			require.NoError(t, saved.err)
			m.Update(saved)
		}
	}

	assert.Equal(t, "Nuevo título", patch["title"])
	assert.Equal(t, "high", patch["priority"])
	assert.Equal(t, ticketsBrowse, m.mode)
	assert.Equal(t, ticketsLoading, m.state)
}

func TestViewOpensTicketDetail(t *testing.T) {
	m := newTicketsModel(failingClient(t), testLogger())
	loadedTickets(t, m, model.Ticket{ID: "t7", Title: "x"})

	_, cmd := m.Update(keyPress('v'))
	require.NotNil(t, cmd)
	msgs := runCmd(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, gotoTicketDetailMsg{ticketID: "t7"}, msgs[0])
}
