// Package auth performs the dashboard sign-in call against an authentication endpoint.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	signInPath      = "/api/auth/signin"
	defaultTimeout  = 10 * time.Second
	redirectOnLogin = "/dashboard"
)

// Credentials are the contents of the sign-in form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Result is a successful sign-in.
type Result struct {
	Redirect string `json:"redirect"`
}

type errorBody struct {
	Message string `json:"message"`
}

// Config points the client at an authentication service.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the sign-in endpoint. Each attempt is terminal; nothing is retried.
type Client struct {
	http    *resty.Client
	metrics Metrics
	logger  *zap.Logger
}

// NewClient builds a Client with dependencies.
func NewClient(cfg Config, metrics Metrics, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("auth base url is required")
	}
	if metrics == nil {
		return nil, errors.New("auth metrics is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:    http,
		metrics: metrics,
		logger:  logger.Named("auth"),
	}, nil
}

// SignIn posts the credentials. A 2xx answer redirects to the dashboard; anything else
// is a *SignInError carrying the message to display.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (res *Result, err error) {
	started := time.Now()
	defer func() {
		c.metrics.ObserveSignIn(err, started)
	}()

	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(creds).
		Post(signInPath)
	if err != nil {
		c.logger.Warn("sign in request failed", zap.Error(err))
		return nil, &SignInError{Message: MsgFailed, Err: err}
	}
	if resp.IsSuccess() {
		return &Result{Redirect: redirectOnLogin}, nil
	}

	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &SignInError{Status: resp.StatusCode(), Message: MsgFailed, Err: err}
	}
	message := body.Message
	if message == "" {
		message = MsgRejected
	}
	c.logger.Debug("sign in rejected", zap.Int("status", resp.StatusCode()))

	return nil, &SignInError{Status: resp.StatusCode(), Message: message}
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}
