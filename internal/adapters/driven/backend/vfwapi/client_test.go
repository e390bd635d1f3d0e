package vfwapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL + "/", RateLimit: 1000, RateBurst: 100})
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{})

	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
	assert.Equal(t, DefaultRateBurst, c.limiter.Burst())
}

func TestNewClient_NegativeTimeoutDisablesBound(t *testing.T) {
	c := NewClient(Config{Timeout: -1})
	assert.Zero(t, c.client.Timeout)
}

func TestClient_ResolveURL(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://api.test/"})

	assert.Equal(t, "http://api.test/static/a.mp3", c.ResolveURL("/static/a.mp3"))
	assert.Equal(t, "https://cdn.test/a.mp3", c.ResolveURL("https://cdn.test/a.mp3"))
	assert.Equal(t, "", c.ResolveURL(""))
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, pathLogin, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req domain.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.c", req.Email)
		assert.Equal(t, "pw", req.Password)

		_, _ = io.WriteString(w, `{"message":"Login successful","token":"tok","user_id":42,"email":"a@b.c","name":"Asha"}`)
	})

	res, err := c.Login(context.Background(), domain.LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Credentials.Token)
	assert.Equal(t, "42", res.Credentials.UserID)
	assert.Equal(t, "Asha", res.Credentials.Name)
	assert.Equal(t, "a@b.c", res.Credentials.Email)
	assert.Equal(t, "Login successful", res.Message)
}

func TestLogin_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid email or password"}`)
	})

	_, err := c.Login(context.Background(), domain.LoginRequest{Email: "a@b.c", Password: "bad"})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	assert.ErrorIs(t, err, domain.ErrBackend)

	var be *domain.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusUnauthorized, be.Status)
}

func TestRegister_StringUserID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathRegister, r.URL.Path)

		var req domain.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Asha", req.Name)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"User registered successfully","token":"tok","user_id":"u-1"}`)
	})

	res, err := c.Register(context.Background(), domain.RegisterRequest{Name: "Asha", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", res.Credentials.UserID)
	assert.Equal(t, "User registered successfully", res.Message)
}

func TestRecommendSchemes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathRecommend, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req domain.SchemeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 30, req.Age)

		_, _ = io.WriteString(w, `{"recommendations":[{"scheme_name":"PM Kisan"}]}`)
	})

	recs, err := c.RecommendSchemes(context.Background(), "tok", domain.SchemeRequest{Age: 30})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "PM Kisan", recs[0].Name())
}

func TestRecommendSchemes_EmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	recs, err := c.RecommendSchemes(context.Background(), "tok", domain.SchemeRequest{})
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestDecodeError_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		order  errorOrder
		want   string
	}{
		{"error field", 500, `{"error":"model failed"}`, errorFirst, "model failed"},
		{"message field", 400, `{"message":"All fields are required"}`, errorFirst, "All fields are required"},
		{"message wins for auth", 500, `{"message":"Something went wrong.","error":"trace"}`, messageFirst, "Something went wrong."},
		{"error wins for chat", 500, `{"message":"m","error":"e"}`, errorFirst, "e"},
		{"not json", 502, `<html>bad gateway</html>`, errorFirst, "Server responded with 502"},
		{"empty", 503, ``, errorFirst, "Server responded with 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rec.WriteHeader(tt.status)
			_, _ = io.WriteString(rec, tt.body)

			err := decodeError(rec.Result(), tt.order)
			assert.Equal(t, tt.want, err.Error())
			assert.ErrorIs(t, err, domain.ErrBackend)
		})
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Login(ctx, domain.LoginRequest{Email: "a@b.c", Password: "pw"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_RateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	c = &Client{client: c.client, baseURL: c.baseURL, limiter: NewClient(Config{RateLimit: 0.001, RateBurst: 1}).limiter}

	_, err := c.RecommendSchemes(context.Background(), "", domain.SchemeRequest{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = c.RecommendSchemes(ctx, "", domain.SchemeRequest{})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestFlexID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`7`, "7"},
		{`"abc"`, "abc"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var id flexID
		require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
		assert.Equal(t, tt.want, string(id))
	}

	var id flexID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}
