package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// defaultTimeout bounds every gateway call. The service enforces its own
// limits too; this one just keeps a dead network from hanging the caller.
const defaultTimeout = 15 * time.Second

// Client is the HTTP implementation of Gateway against the calendar
// service's JSON API.
//
// Endpoints, relative to the base URL:
//
//	POST   /calendars/{calendarID}/events        create
//	PATCH  /calendars/{calendarID}/events/{id}   update
//	DELETE /calendars/{calendarID}/events/{id}   delete
//	GET    /calendars/{calendarID}/events/{id}   get
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (for tests and for
// callers that need custom transports).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a gateway client for the service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wireEvent is the JSON body shared by create and get responses.
type wireEvent struct {
	ID          string    `json:"id,omitempty"`
	UID         string    `json:"uid,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// Create inserts a new event and returns the server-assigned id.
//
// The request carries a client-generated UID so a retried create after a
// lost response lands on the same resource instead of duplicating it.
func (c *Client) Create(ctx context.Context, account Account, title, description string, start time.Time, durationMinutes int) (string, error) {
	body := wireEvent{
		UID:         uuid.NewString(),
		Summary:     title,
		Description: description,
		Start:       start,
		End:         start.Add(time.Duration(durationMinutes) * time.Minute),
	}

	resp, err := c.do(ctx, account, http.MethodPost, c.eventsURL(account, ""), body)
	if err != nil {
		return "", &CallError{Code: CodeRemoteUnavailable, Op: "create", Err: err}
	}
	defer drain(resp)

	if err := checkStatus("create", "", resp); err != nil {
		return "", err
	}

	var created wireEvent
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", &CallError{Code: CodeUnknown, Op: "create", Err: fmt.Errorf("decode response: %w", err)}
	}
	if created.ID == "" {
		return "", &CallError{Code: CodeUnknown, Op: "create", Err: fmt.Errorf("service returned no event id")}
	}
	return created.ID, nil
}

// Update moves an event to a new start time and duration.
func (c *Client) Update(ctx context.Context, account Account, id string, start time.Time, durationMinutes int) error {
	body := wireEvent{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}

	resp, err := c.do(ctx, account, http.MethodPatch, c.eventsURL(account, id), body)
	if err != nil {
		return &CallError{Code: CodeRemoteUnavailable, Op: "update", ID: id, Err: err}
	}
	defer drain(resp)

	return checkStatus("update", id, resp)
}

// Delete removes an event from the calendar.
func (c *Client) Delete(ctx context.Context, account Account, id string) error {
	resp, err := c.do(ctx, account, http.MethodDelete, c.eventsURL(account, id), nil)
	if err != nil {
		return &CallError{Code: CodeRemoteUnavailable, Op: "delete", ID: id, Err: err}
	}
	defer drain(resp)

	return checkStatus("delete", id, resp)
}

// Get fetches an event. A 404 or 410 from the service means the event no
// longer exists and is reported as (nil, nil), not as a failure.
func (c *Client) Get(ctx context.Context, account Account, id string) (*RemoteEvent, error) {
	resp, err := c.do(ctx, account, http.MethodGet, c.eventsURL(account, id), nil)
	if err != nil {
		return nil, &CallError{Code: CodeRemoteUnavailable, Op: "get", ID: id, Err: err}
	}
	defer drain(resp)

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, nil
	}
	if err := checkStatus("get", id, resp); err != nil {
		return nil, err
	}

	var we wireEvent
	if err := json.NewDecoder(resp.Body).Decode(&we); err != nil {
		return nil, &CallError{Code: CodeUnknown, Op: "get", ID: id, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &RemoteEvent{
		ID:          we.ID,
		Summary:     we.Summary,
		Description: we.Description,
		Start:       we.Start,
		End:         we.End,
	}, nil
}

func (c *Client) eventsURL(account Account, id string) string {
	u := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(account.CalendarID))
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (c *Client) do(ctx context.Context, account Account, method, u string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+account.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// checkStatus maps HTTP status codes onto the failure taxonomy.
func checkStatus(op, id string, resp *http.Response) error {
	code := codeForStatus(resp.StatusCode)
	if code == "" {
		return nil
	}
	return &CallError{Code: code, Op: op, ID: id, Status: resp.StatusCode}
}

func codeForStatus(status int) Code {
	switch {
	case status >= 200 && status < 300:
		return ""
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CodeUnauthorized
	case status == http.StatusNotFound || status == http.StatusGone:
		return CodeNotFound
	case status >= 400 && status < 500:
		return CodeRemoteRejected
	case status >= 500:
		return CodeRemoteUnavailable
	default:
		return CodeUnknown
	}
}

// drain discards and closes the response body so the connection can be
// reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
