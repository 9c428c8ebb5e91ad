package api

import (
	"context"
	"net/http"
)

// Credentials is the login/signup payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued bearer credential and user identity.
type AuthResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Login authenticates against the backend. It is the only operation allowed
// to run without a stored credential.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.send(ctx, http.MethodPost, "/auth/login", nil, "", Credentials{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers a new account and returns a fresh credential.
func (c *Client) Signup(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.send(ctx, http.MethodPost, "/auth/signup", nil, "", Credentials{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
