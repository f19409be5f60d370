package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is a ticket's lifecycle state as the server reports it.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Statuses lists the valid states in display/cycle order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Next returns the status after s in cycle order, wrapping around.
// Unknown values restart at open.
func (s Status) Next() Status {
	for i, v := range Statuses {
		if s == v {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusOpen
}

// Priority is a ticket's urgency level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Next returns the priority after p in cycle order, wrapping around.
// Unknown values restart at medium.
func (p Priority) Next() Priority {
	for i, v := range Priorities {
		if p == v {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityMedium
}

// UserRef is a reference to a user. The server sends it either as a bare
// id string or as a populated object, depending on whether the field was
// expanded server-side, so both forms must decode.
type UserRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *UserRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*u = UserRef{ID: id}
		return nil
	}
	type plain UserRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("user ref: %w", err)
	}
	*u = UserRef(p)
	return nil
}

func (u UserRef) MarshalJSON() ([]byte, error) {
	type plain UserRef
	return json.Marshal(plain(u))
}

// Display returns the best human-readable label available.
func (u UserRef) Display() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	case u.ID != "":
		return u.ID
	}
	return "n/a"
}

// Zero reports whether the reference carries no information at all.
func (u UserRef) Zero() bool {
	return u.ID == "" && u.Name == "" && u.Email == ""
}

// Comment is append-only from the client's perspective: comments are added
// through a ticket update and never edited or removed individually.
type Comment struct {
	Author    UserRef   `json:"author"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Ticket mirrors the server's wire representation. The id field is "_id"
// (Mongo-style backend).
type Ticket struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedBy   UserRef   `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	AssignedTo  string    `json:"assignedTo,omitempty"`
	Comments    []Comment `json:"comments"`
}

// TicketDraft is the client-side form state for creating or editing a
// ticket. Validate normalizes it before any request is made.
type TicketDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// Validate trims the fields, defaults the priority to medium and rejects
// drafts whose title is empty after trimming. Validation failures never
// reach the network.
func (d *TicketDraft) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if !d.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", d.Priority)
	}
	return nil
}

// TicketPatch is a partial update for PUT /tickets/:id. Absent fields are
// omitted from the request body entirely so the server can tell "leave
// unchanged" apart from "clear". AssignedTo in particular must stay nil,
// not point at "", when the assignment should be preserved.
type TicketPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
	Comments    []Comment `json:"comments,omitempty"`
}
