// notesbot/client/client.go

// Package client talks to the notes REST store.
//
// Every call is a single synchronous request with no retry. Failures are
// reported as *Error values whose Outcome separates a missing note, any other
// unexpected status, and requests that never completed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/notesbot/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. Zero leaves the transport default.
// The *http.Client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a client for the collection endpoint baseURL, for example
// "http://localhost:8000/notes/". Item URLs are baseURL + id + "/".
func New(baseURL string, opts ...Option) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) itemURL(id domain.NoteID) string {
	return c.baseURL + url.PathEscape(string(id)) + "/"
}

func (c *Client) doRequest(ctx context.Context, op, method, target string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Op: op, Outcome: OutcomeOther, Err: fmt.Errorf("failed to marshal request body: %w", err)}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, &Error{Op: op, Outcome: OutcomeOther, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("op", op).Str("method", method).Str("url", target).Msg("request failed")
		return nil, &Error{Op: op, Outcome: OutcomeTransport, Err: err}
	}
	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request done")
	return resp, nil
}

// expect closes resp unless its status is want, returning the matching error.
// notFound reports whether a 404 should be classified as OutcomeNotFound.
func expect(op string, resp *http.Response, want int, notFound bool) error {
	if resp.StatusCode == want {
		return nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if notFound && resp.StatusCode == http.StatusNotFound {
		return &Error{Op: op, Outcome: OutcomeNotFound, Status: resp.StatusCode}
	}
	return &Error{Op: op, Outcome: OutcomeOther, Status: resp.StatusCode}
}

// noteBody is the part of a note response the bot relies on. Timestamps
// are left out so a store formatting them differently still works.
type noteBody struct {
	ID      domain.NoteID `json:"id"`
	Title   string        `json:"title"`
	Content string        `json:"content"`
}

func decode(op string, resp *http.Response, target any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &Error{Op: op, Outcome: OutcomeOther, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// Create posts a new note and returns the id assigned by the store.
// Only 201 Created counts as success.
func (c *Client) Create(ctx context.Context, title, content string) (domain.NoteID, error) {
	const op = "create note"
	body := map[string]string{"title": title, "content": content}
	resp, err := c.doRequest(ctx, op, http.MethodPost, c.baseURL, body)
	if err != nil {
		return "", err
	}
	if err := expect(op, resp, http.StatusCreated, false); err != nil {
		return "", err
	}

	var created noteBody
	if err := decode(op, resp, &created); err != nil {
		c.log.Warn().Err(err).Msg("note created but response body was unreadable")
		return "", nil
	}
	return created.ID, nil
}

// ListAll returns summaries of every note in the order the store sent them.
func (c *Client) ListAll(ctx context.Context) ([]domain.NoteSummary, error) {
	const op = "list notes"
	resp, err := c.doRequest(ctx, op, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	if err := expect(op, resp, http.StatusOK, false); err != nil {
		return nil, err
	}

	var notes []domain.NoteSummary
	if err := decode(op, resp, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []domain.NoteSummary{}
	}
	return notes, nil
}

func (c *Client) Get(ctx context.Context, id domain.NoteID) (*domain.Note, error) {
	const op = "get note"
	resp, err := c.doRequest(ctx, op, http.MethodGet, c.itemURL(id), nil)
	if err != nil {
		return nil, err
	}
	if err := expect(op, resp, http.StatusOK, true); err != nil {
		return nil, err
	}

	var body noteBody
	if err := decode(op, resp, &body); err != nil {
		return nil, err
	}
	return &domain.Note{ID: body.ID, Title: body.Title, Content: body.Content}, nil
}

// Update replaces the content of a note, leaving its title untouched.
func (c *Client) Update(ctx context.Context, id domain.NoteID, content string) error {
	const op = "update note"
	body := map[string]string{"content": content}
	resp, err := c.doRequest(ctx, op, http.MethodPatch, c.itemURL(id), body)
	if err != nil {
		return err
	}
	if err := expect(op, resp, http.StatusOK, true); err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) Delete(ctx context.Context, id domain.NoteID) error {
	const op = "delete note"
	resp, err := c.doRequest(ctx, op, http.MethodDelete, c.itemURL(id), nil)
	if err != nil {
		return err
	}
	if err := expect(op, resp, http.StatusNoContent, true); err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
