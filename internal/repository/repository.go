// Package repository reads events from and writes registrations to the
// backend API. Every call is a single attempt bound to the caller's context.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Shivanand-hulikatti/event-reg-form/internal/model"
)

// ErrNotFound is returned when the organization has no event listing.
var ErrNotFound = errors.New("not found")

// ErrAccessDenied is returned when the backend refuses the lookup, which it
// does for disabled organizations.
var ErrAccessDenied = errors.New("access denied")

// maxBody caps how much of a backend response is read.
const maxBody = 1 << 20

// RemoteError is a non-success response from the backend.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded %d", e.Status)
	}
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

// Client is the shared transport for both repositories.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: strings.TrimRight(u.String(), "/"), http: httpClient}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	if len(data) > maxBody {
		return nil, nil, fmt.Errorf("%s %s: response exceeds %d bytes", method, path, maxBody)
	}
	return resp, data, nil
}

// remoteError decodes the {error} envelope of a failed response. Bodies that
// are not JSON leave the message empty.
func remoteError(status int, data []byte) *RemoteError {
	var env model.ErrorResponse
	if err := json.Unmarshal(data, &env); err != nil {
		return &RemoteError{Status: status}
	}
	return &RemoteError{Status: status, Message: strings.TrimSpace(env.Error)}
}

// EventRepository reads event listings.
type EventRepository struct {
	client *Client
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(client *Client) *EventRepository {
	return &EventRepository{client: client}
}

// ListByOrganization returns every event owned by an organization.
// A disabled organization yields ErrAccessDenied.
func (r *EventRepository) ListByOrganization(ctx context.Context, organization string) ([]model.Event, error) {
	resp, data, err := r.client.do(ctx, http.MethodGet, "/events/"+url.PathEscape(organization), nil)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrAccessDenied
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("list events: %w", remoteError(resp.StatusCode, data))
	}

	events, err := decodeEvents(data)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// decodeEvents accepts a bare array or an {"events": [...]} envelope.
func decodeEvents(data []byte) ([]model.Event, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var env struct {
			Events []model.Event `json:"events"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decode events: %w", err)
		}
		return env.Events, nil
	}
	var events []model.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// RegistrationRepository writes registrations.
type RegistrationRepository struct {
	client *Client
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(client *Client) *RegistrationRepository {
	return &RegistrationRepository{client: client}
}

// Create submits one registration. A rejected submission is returned as a
// *RemoteError carrying the backend's reason.
func (r *RegistrationRepository) Create(ctx context.Context, req model.RegistrationRequest) error {
	resp, data, err := r.client.do(ctx, http.MethodPost, "/registrations", req)
	if err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("create registration: %w", remoteError(resp.StatusCode, data))
	}
	return nil
}
