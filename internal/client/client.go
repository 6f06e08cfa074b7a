package client

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

	"github.com/you/leadsvc/domain"
)

// APIError is a non-2xx response carrying the server's error message
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// User mirrors the user object returned by the auth endpoints
type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	IsVerified bool       `json:"isVerified"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

// AuthResponse is returned by verify and signin
type AuthResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	User      User   `json:"user"`
}

// SignupResponse is returned by signup
type SignupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// Booking mirrors the booking object returned by /api/booking/create
type Booking struct {
	BookingID string    `json:"bookingId"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Gender    string    `json:"gender"`
	Country   string    `json:"country"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Services  []string  `json:"services"`
	CreatedAt time.Time `json:"createdAt"`
}

// Health is the /health payload
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client calls the leadsvc REST API
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken starts the client with a bearer token
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the server at baseURL (e.g. http://localhost:5000)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current bearer token
func (c *Client) Token() string { return c.token }

// SetToken sets the bearer token sent on protected calls
func (c *Client) SetToken(token string) { c.token = token }

// Signup registers an account and triggers the verification e-mail
func (c *Client) Signup(ctx context.Context, name, email, password string) (*SignupResponse, error) {
	var out SignupResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify submits the e-mailed code. On success the returned token is kept.
func (c *Client) Verify(ctx context.Context, email, code string) (*AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/verify", map[string]string{"email": email, "code": code})
}

// Signin exchanges credentials for a token. On success the token is kept.
func (c *Client) Signin(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/signin", map[string]string{"email": email, "password": password})
}

// ResendCode asks for a fresh verification code
func (c *Client) ResendCode(ctx context.Context, email string) (string, error) {
	return c.message(ctx, http.MethodPost, "/api/auth/resend-code", map[string]string{"email": email})
}

// SendCode asks the server to issue and mail a verification code
func (c *Client) SendCode(ctx context.Context, email string) (string, error) {
	return c.message(ctx, http.MethodPost, "/api/auth/send-code", map[string]string{"email": email})
}

// Me returns the signed-in user's profile
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Signout revokes the session and forgets the token
func (c *Client) Signout(ctx context.Context) (string, error) {
	msg, err := c.message(ctx, http.MethodPost, "/api/auth/signout", nil)
	if err != nil {
		return "", err
	}
	c.token = ""
	return msg, nil
}

// UpdateProfile changes the display name
func (c *Client) UpdateProfile(ctx context.Context, name string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/auth/update-profile", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ChangePassword replaces the account password
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	return c.message(ctx, http.MethodPut, "/api/auth/change-password", body)
}

// CreateBooking submits a consultation booking
func (c *Client) CreateBooking(ctx context.Context, form domain.BookingForm) (*Booking, error) {
	var out struct {
		Booking Booking `json:"booking"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/booking/create", form, &out); err != nil {
		return nil, err
	}
	return &out.Booking, nil
}

// Health calls the liveness endpoint
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

func (c *Client) message(ctx context.Context, method, path string, body interface{}) (string, error) {
	var out envelope
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var env envelope
		if json.Unmarshal(raw, &env) != nil || env.Error == "" {
			env.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
