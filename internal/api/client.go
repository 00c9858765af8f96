// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the LawGPT backend.
//
// The backend exposes two surfaces the client consumes: chat-room CRUD
// plus message history (persistence), and the chat completion endpoint.
// All calls are context-aware; completion calls are rate limited on the
// client side.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the LawGPT API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type so wrapped instances still compare
// with errors.Is.
func (e *ClientError) Is(target error) bool {
	var ce *ClientError
	if errors.As(target, &ce) {
		return e.Type == ce.Type
	}
	return false
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnavailable
	ErrTypeTimeout
	ErrTypeUnauthorized
	ErrTypeNotFound
	ErrTypeServer
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnavailable  = &ClientError{Type: ErrTypeUnavailable, Message: "backend is unreachable"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "not authorized"}
	ErrNotFound     = &ClientError{Type: ErrTypeNotFound, Message: "resource not found"}
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatRoom is a conversation room as listed by the backend.
type ChatRoom struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

// MessagePair is one stored question/answer exchange.
type MessagePair struct {
	Question  string
	Response  string
	CreatedAt time.Time
}

// ChatResult is the outcome of a completion call. Refined reports
// whether the backend escalated a weak first-pass answer to its
// secondary model before responding.
type ChatResult struct {
	Answer         string
	Refined        bool
	ModelAvailable bool
}

type chatRoomWire struct {
	ID        json.Number `json:"id"`
	Title     string      `json:"title"`
	CreatedAt string      `json:"created_at"`
}

type messagePairWire struct {
	Question  string `json:"question"`
	Response  string `json:"response"`
	CreatedAt string `json:"created_at"`
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the LawGPT client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:5000)
	BaseURL string

	// Token is the bearer token presented on every request.
	Token string

	// Timeout for persistence requests (default: 15s)
	Timeout time.Duration

	// ChatTimeout for completion requests, which run a model (default: 120s)
	ChatTimeout time.Duration

	// ChatInterval is the minimum spacing between completion calls
	// (default: 1s). Guards the backend from accidental rapid resends.
	ChatInterval time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:      "http://127.0.0.1:5000",
		Timeout:      15 * time.Second,
		ChatTimeout:  120 * time.Second,
		ChatInterval: 1 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Shared transport for all clients. Connection pooling matters here: the
// TUI fires list, history, and completion calls against the same host.
var sharedTransport = &http.Transport{
	MaxIdleConns:        10,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// Client handles communication with the LawGPT backend.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	chatClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client, filling defaults for zero values.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:5000"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.ChatTimeout == 0 {
		config.ChatTimeout = 120 * time.Second
	}
	if config.ChatInterval == 0 {
		config.ChatInterval = 1 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout, Transport: sharedTransport},
		chatClient: &http.Client{Timeout: config.ChatTimeout, Transport: sharedTransport},
		limiter:    rate.NewLimiter(rate.Every(config.ChatInterval), 1),
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that the backend is reachable.
func (c *Client) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnavailable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnavailable
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	// Any response at all means the server is up; the root path may be a
	// login redirect.
	return nil
}

// =============================================================================
// CHAT ROOMS
// =============================================================================

// ListChatRooms returns the caller's chat rooms.
func (c *Client) ListChatRooms(ctx context.Context, userID string) ([]ChatRoom, error) {
	var out struct {
		ChatRooms []chatRoomWire `json:"chatrooms"`
		Count     int            `json:"count"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/chatrooms/user/"+userID, nil, &out); err != nil {
		return nil, err
	}

	rooms := make([]ChatRoom, 0, len(out.ChatRooms))
	for _, w := range out.ChatRooms {
		rooms = append(rooms, ChatRoom{
			ID:        w.ID.String(),
			Title:     w.Title,
			CreatedAt: parseServerTime(w.CreatedAt),
		})
	}
	return rooms, nil
}

// CreateChatRoom creates a room and returns its server-assigned ID.
func (c *Client) CreateChatRoom(ctx context.Context, userID, title string) (string, error) {
	body := map[string]any{
		"user_id": numericIfPossible(userID),
		"title":   title,
	}
	var out struct {
		RoomID json.Number `json:"room_id"`
		Title  string      `json:"title"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/chatrooms", body, &out); err != nil {
		return "", err
	}
	if out.RoomID.String() == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "create chatroom returned no room_id"}
	}
	return out.RoomID.String(), nil
}

// UpdateChatRoomTitle renames a room.
func (c *Client) UpdateChatRoomTitle(ctx context.Context, roomID, title string) error {
	body := map[string]any{"title": title}
	return c.doJSON(ctx, http.MethodPut, "/api/chatrooms/"+roomID, body, nil)
}

// DeleteChatRoom deletes a room and its stored messages.
func (c *Client) DeleteChatRoom(ctx context.Context, roomID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/chatrooms/"+roomID, nil, nil)
}

// =============================================================================
// MESSAGES
// =============================================================================

// ListMessages returns the stored question/answer pairs of a room in
// chronological order.
func (c *Client) ListMessages(ctx context.Context, roomID string) ([]MessagePair, error) {
	var out []messagePairWire
	if err := c.doJSON(ctx, http.MethodGet, "/chat/messages/"+roomID, nil, &out); err != nil {
		return nil, err
	}

	pairs := make([]MessagePair, 0, len(out))
	for _, w := range out {
		pairs = append(pairs, MessagePair{
			Question:  w.Question,
			Response:  w.Response,
			CreatedAt: parseServerTime(w.CreatedAt),
		})
	}
	return pairs, nil
}

// SaveMessagePair stores one question/answer exchange in a room.
func (c *Client) SaveMessagePair(ctx context.Context, userID, roomID, question, response string) error {
	body := map[string]any{
		"user_id":      numericIfPossible(userID),
		"chat_room_id": numericIfPossible(roomID),
		"question":     question,
		"response":     response,
	}
	return c.doJSON(ctx, http.MethodPost, "/chat/message", body, nil)
}

// =============================================================================
// CHAT COMPLETION
// =============================================================================

// Chat submits a question to the model and returns the answer. The call
// is rate limited; a canceled context aborts the wait.
func (c *Client) Chat(ctx context.Context, message string) (*ChatResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeTimeout, Message: "rate limit wait aborted", Cause: err}
	}

	body := map[string]any{"message": message}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnavailable, Message: "failed to create request", Cause: err}
	}
	c.setHeaders(req)

	resp, err := c.chatClient.Do(req)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read response", Cause: err}
	}
	if err := statusError(resp.StatusCode, raw); err != nil {
		return nil, err
	}

	var out struct {
		Answer         string `json:"answer"`
		Refined        bool   `json:"refined"`
		ModelAvailable bool   `json:"model_available"`
		Error          string `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid chat response", Cause: err}
	}
	if out.Error != "" {
		return nil, &ClientError{Type: ErrTypeServer, Message: out.Error}
	}

	return &ChatResult{
		Answer:         out.Answer,
		Refined:        out.Refined,
		ModelAvailable: out.ModelAvailable,
	}, nil
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// doJSON performs a persistence request with the standard timeout,
// encoding body (if any) and decoding into out (if non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return &ClientError{Type: ErrTypeUnavailable, Message: "failed to create request", Cause: err}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read response", Cause: err}
	}
	if err := statusError(resp.StatusCode, raw); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response body", Cause: err}
		}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
}

// wrapTransportError maps transport failures onto the sentinel taxonomy.
func wrapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request canceled", Cause: err}
	}
	return &ClientError{Type: ErrTypeUnavailable, Message: "backend is unreachable", Cause: err}
}

// statusError maps non-2xx responses onto the sentinel taxonomy, carrying
// any server-provided error text.
func statusError(code int, raw []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}

	msg := "unexpected status " + strconv.Itoa(code)
	var serverErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &serverErr) == nil && serverErr.Error != "" {
		msg = serverErr.Error
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &ClientError{Type: ErrTypeUnauthorized, Message: msg}
	case code == http.StatusNotFound:
		return &ClientError{Type: ErrTypeNotFound, Message: msg}
	case code >= 500:
		return &ClientError{Type: ErrTypeServer, Message: msg}
	default:
		return &ClientError{Type: ErrTypeUnknown, Message: msg}
	}
}

// numericIfPossible sends integer ids as JSON numbers, matching what the
// backend stores, while tolerating opaque string ids.
func numericIfPossible(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

// serverTimeLayouts covers the timestamp formats the backend emits.
var serverTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"Mon, 02 Jan 2006 15:04:05 GMT",
}

// parseServerTime parses a backend timestamp, returning the zero time on
// failure rather than erroring: timestamps only order the sidebar.
func parseServerTime(s string) time.Time {
	for _, layout := range serverTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
