// Package vfwapi provides the driven.Backend adapter for the Voice for the
// Weak HTTP API.
package vfwapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vfw-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Backend = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = domain.DefaultAPIURL
	DefaultTimeout   = domain.DefaultTimeout
	DefaultRateLimit = 2.0
	DefaultRateBurst = 4
)

// API paths.
const (
	pathLogin     = "/api/login"
	pathRegister  = "/api/register"
	pathRecommend = "/api/schemes/recommend"
)

// RequestIDHeader carries a per-request id for backend log correlation.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Config holds configuration for the API client.
type Config struct {
	// BaseURL is the API base URL (default: http://localhost:5000).
	BaseURL string

	// Timeout bounds each request (default: 120s). Negative disables it.
	Timeout time.Duration

	// RateLimit is the sustained requests per second (default: 2).
	RateLimit float64

	// RateBurst is the number of requests allowed at once (default: 4).
	RateBurst int

	// HTTPClient replaces the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the backend over HTTP.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a new API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveURL turns a server-relative path into an absolute URL.
// Absolute URLs and empty strings are returned unchanged.
func (c *Client) ResolveURL(u string) string {
	return domain.ResolveURL(c.baseURL, u)
}

// authResponse is the body of login and register responses.
type authResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  flexID `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Login exchanges email and password for credentials.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	return c.authenticate(ctx, pathLogin, req)
}

// Register creates an account and returns its credentials.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	return c.authenticate(ctx, pathRegister, req)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*domain.AuthResult, error) {
	var resp authResponse
	if err := c.postJSON(ctx, path, "", body, &resp, messageFirst); err != nil {
		return nil, err
	}
	return &domain.AuthResult{
		Credentials: domain.Credentials{
			Token:  resp.Token,
			UserID: string(resp.UserID),
			Name:   resp.Name,
			Email:  resp.Email,
		},
		Message: resp.Message,
	}, nil
}

// recommendResponse is the body of a scheme recommendation response.
type recommendResponse struct {
	Recommendations []domain.SchemeRecommendation `json:"recommendations"`
}

// RecommendSchemes returns government schemes matching a profile.
func (c *Client) RecommendSchemes(
	ctx context.Context, token string, req domain.SchemeRequest,
) ([]domain.SchemeRecommendation, error) {
	var resp recommendResponse
	if err := c.postJSON(ctx, pathRecommend, token, req, &resp, errorFirst); err != nil {
		return nil, err
	}
	if resp.Recommendations == nil {
		return []domain.SchemeRecommendation{}, nil
	}
	return resp.Recommendations, nil
}

func (c *Client) postJSON(ctx context.Context, path, token string, body, out any, order errorOrder) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, token, out, order)
}

// do sends a request and decodes a JSON success body into out.
func (c *Client) do(req *http.Request, token string, out any, order errorOrder) error {
	ctx := req.Context()
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	logger.Debug("%s %s [%s]", req.Method, req.URL.Path, requestID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	logger.Debug("%s %s -> %d in %s", req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, order)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorOrder selects which body field wins when both are present.
type errorOrder int

const (
	errorFirst errorOrder = iota
	messageFirst
)

// errorBody is the shape of backend failure responses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodeError builds a BackendError from a non-2xx response.
func decodeError(resp *http.Response, order errorOrder) error {
	msg := fmt.Sprintf("Server responded with %d", resp.StatusCode)
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		var body errorBody
		if json.Unmarshal(data, &body) == nil {
			first, second := body.Error, body.Message
			if order == messageFirst {
				first, second = second, first
			}
			switch {
			case first != "":
				msg = first
			case second != "":
				msg = second
			}
		}
	}
	return &domain.BackendError{Status: resp.StatusCode, Message: msg}
}

// flexID accepts a JSON string or number.
type flexID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user_id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}
