// Package api is the typed client for the Ticketrik HTTP API. The server
// owns all business logic; this package only issues requests and decodes
// responses. Session handling is cookie-based: the client keeps a cookie
// jar so every request after a successful login carries credentials
// implicitly, the way the original web client used credentials:include.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/ticketrik/ticketrik/internal/model"
)

// DefaultBaseURL matches the development server the original app talked to.
const DefaultBaseURL = "http://localhost:3000"

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the root URL for API requests. Defaults to
	// DefaultBaseURL.
	BaseURL string

	// HTTPClient is used for all requests. When nil a client with a
	// fresh cookie jar is created. Callers that supply their own client
	// are responsible for attaching a jar, or the session cookie will
	// be dropped. No timeout is set by default; supply a client with
	// one if a hung request must not stall a screen forever.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to the Ticketrik API. Safe for use from bubbletea commands:
// every method is a plain blocking call intended to run inside a tea.Cmd.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// DashboardData is the aggregate summary returned by GET /dashboard/data,
// scoped to the authenticated session.
type DashboardData struct {
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Tickets  []model.Ticket `json:"tickets"`
}

// NewClient creates a Client from the given configuration.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", baseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("api: cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Login authenticates with POST /auth/login and returns the session
// token. The session cookie lands in the jar as a side effect. Invalid
// credentials come back as an *APIError, not a transport error.
func (client *Client) Login(ctx context.Context, email, password string) (string, error) {
	request := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var response struct {
		Token string `json:"token"`
	}
	if err := client.post(ctx, "/auth/login", request, &response); err != nil {
		return "", err
	}
	client.logger.Info("logged in", "email", email)
	return response.Token, nil
}

// Register creates an account with POST /auth/register. Registration does
// not authenticate: the caller is expected to log in afterwards.
func (client *Client) Register(ctx context.Context, name, email, password string) error {
	request := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Name: name, Email: email, Password: password}

	return client.post(ctx, "/auth/register", request, nil)
}

// Logout invalidates the server-side session with POST /logout. Callers
// treat it as best-effort: the local session is cleared regardless of the
// outcome, and the UI never waits on this call to transition.
func (client *Client) Logout(ctx context.Context) error {
	return client.post(ctx, "/logout", nil, nil)
}

// Dashboard fetches the authenticated user's summary.
func (client *Client) Dashboard(ctx context.Context) (*DashboardData, error) {
	var data DashboardData
	if err := client.get(ctx, "/dashboard/data", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListTickets fetches every ticket visible to the session. An empty slice
// is a valid result, distinct from an error.
func (client *Client) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	var tickets []model.Ticket
	if err := client.get(ctx, "/tickets", &tickets); err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []model.Ticket{}
	}
	return tickets, nil
}

// CreateTicket submits a validated draft and returns the created ticket.
func (client *Client) CreateTicket(ctx context.Context, draft model.TicketDraft) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := client.post(ctx, "/tickets", draft, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetTicket fetches a single ticket. A missing id yields an *APIError
// for which IsNotFound returns true.
func (client *Client) GetTicket(ctx context.Context, id string) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := client.get(ctx, "/tickets/"+url.PathEscape(id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicket applies a partial update. Fields left nil in the patch are
// omitted from the request body so the server leaves them unchanged.
func (client *Client) UpdateTicket(ctx context.Context, id string, patch model.TicketPatch) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := client.do(ctx, http.MethodPut, "/tickets/"+url.PathEscape(id), patch, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// DeleteTicket removes a ticket and returns the server's confirmation
// message. The server may cascade; callers reload rather than assume.
func (client *Client) DeleteTicket(ctx context.Context, id string) (string, error) {
	var response struct {
		Message string `json:"message"`
	}
	if err := client.do(ctx, http.MethodDelete, "/tickets/"+url.PathEscape(id), nil, &response); err != nil {
		return "", err
	}
	return response.Message, nil
}

// get is a convenience wrapper for GET requests.
func (client *Client) get(ctx context.Context, path string, result any) error {
	return client.do(ctx, http.MethodGet, path, nil, result)
}

// post is a convenience wrapper for POST requests.
func (client *Client) post(ctx context.Context, path string, requestBody, result any) error {
	return client.do(ctx, http.MethodPost, path, requestBody, result)
}

// do executes a JSON request against the API. Non-2xx responses are
// parsed into *APIError (defensively: malformed bodies fall back to a
// generic message). Transport failures are returned as wrapped errors,
// which the UI treats as the connection-error class.
func (client *Client) do(ctx context.Context, method, path string, requestBody, result any) error {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("api: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("api: reading response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		apiErr := parseAPIError(response.StatusCode, body)
		client.logger.Warn("request failed",
			"method", method,
			"path", path,
			"status", response.StatusCode,
			"error", apiErr.Message,
		)
		return apiErr
	}

	if result != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("api: decoding response: %w", err)
		}
	}
	return nil
}
