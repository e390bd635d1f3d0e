package domain

import "strings"

// Credentials identify the signed-in user.
// The token is attached to protected backend requests as a bearer token.
type Credentials struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// IsAuthenticated returns true if a token is present.
func (c *Credentials) IsAuthenticated() bool {
	return c != nil && c.Token != ""
}

// DisplayName returns the best available name for greeting the user.
func (c *Credentials) DisplayName() string {
	if c == nil {
		return "User"
	}
	if c.Name != "" {
		return c.Name
	}
	if c.Email != "" {
		return c.Email
	}
	return "User"
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that all fields are present.
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return ErrMissingFields
	}
	return nil
}

// RegisterRequest is the body of a registration call.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that all fields are present.
func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return ErrMissingFields
	}
	return nil
}
