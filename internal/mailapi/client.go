// Package mailapi is the HTTP client for the remote email storage API.
package mailapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"mailpane/internal/model"
)

// RequestIDHeader carries a per-call id so client and server logs line up.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client calls the list, get, create and update endpoints under baseURL.
// Calls are not retried and have no deadline beyond the context and the
// underlying http.Client.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for per-call debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse api url: unsupported scheme %q", u.Scheme)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	c := &Client{
		baseURL: u,
		http:    http.DefaultClient,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListMailbox fetches the messages of one mailbox in server order.
func (c *Client) ListMailbox(ctx context.Context, mailbox model.Mailbox) ([]model.Message, error) {
	const op = "list mailbox"
	resp, err := c.do(ctx, http.MethodGet, nil, "emails", string(mailbox))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, mailbox, err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return nil, statusError(op+" "+string(mailbox), resp, ErrInvalidMailbox)
	}
	var msgs []model.Message
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		return nil, fmt.Errorf("%s %s: decode: %w", op, mailbox, err)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return msgs, nil
}

// GetMessage fetches a single message by id.
func (c *Client) GetMessage(ctx context.Context, id int) (model.Message, error) {
	const op = "get email"
	resp, err := c.do(ctx, http.MethodGet, nil, "emails", strconv.Itoa(id))
	if err != nil {
		return model.Message{}, fmt.Errorf("%s %d: %w", op, id, err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return model.Message{}, statusError(fmt.Sprintf("%s %d", op, id), resp, ErrNotFound)
	}
	var msg model.Message
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return model.Message{}, fmt.Errorf("%s %d: decode: %w", op, id, err)
	}
	return msg, nil
}

// CreateMessage sends a draft and returns the id the server assigned. A
// response body carrying an "error" entry is returned as *RejectedError,
// whatever its status code; any other non-2xx response is a *StatusError.
func (c *Client) CreateMessage(ctx context.Context, draft model.Draft) (int, error) {
	const op = "create email"
	body, err := json.Marshal(draft)
	if err != nil {
		return 0, fmt.Errorf("%s: encode: %w", op, err)
	}
	resp, err := c.do(ctx, http.MethodPost, body, "emails")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return 0, fmt.Errorf("%s: read body: %w", op, err)
	}
	var payload struct {
		ID    int     `json:"id"`
		Error *string `json:"error"`
	}
	decodeErr := json.Unmarshal(raw, &payload)
	if decodeErr == nil && payload.Error != nil {
		return 0, &RejectedError{Reason: *payload.Error}
	}
	if !success(resp.StatusCode) {
		return 0, &StatusError{Op: op, StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(raw))}
	}
	if decodeErr != nil {
		return 0, fmt.Errorf("%s: decode: %w", op, decodeErr)
	}
	return payload.ID, nil
}

// UpdateMessage applies patch to the message with id.
func (c *Client) UpdateMessage(ctx context.Context, id int, patch model.Patch) error {
	const op = "update email"
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("%s %d: encode: %w", op, id, err)
	}
	resp, err := c.do(ctx, http.MethodPut, body, "emails", strconv.Itoa(id))
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return statusError(fmt.Sprintf("%s %d", op, id), resp, ErrNotFound)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(ctx context.Context, method string, body []byte, elem ...string) (*http.Response, error) {
	u := c.baseURL.JoinPath(elem...)
	path := u.Path

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("mail api call failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return nil, err
	}
	c.logger.Debug("mail api call", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID)
	return resp, nil
}

func success(code int) bool {
	return code >= 200 && code < 300
}

// statusError builds a StatusError, pulling the server's "error" text out of
// a JSON body when there is one. Every non-2xx response unwraps to kind.
func statusError(op string, resp *http.Response, kind error) *StatusError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := strings.TrimSpace(string(raw))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		detail = payload.Error
	}
	return &StatusError{Op: op, StatusCode: resp.StatusCode, Detail: detail, kind: kind}
}
