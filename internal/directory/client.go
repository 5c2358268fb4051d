// Package directory authenticates users against the corporate directory
// gateway, which speaks XML over HTTP.
package directory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ubora-rdc/ubora-auth/internal/config"
	"github.com/ubora-rdc/ubora-auth/internal/logger"
	"github.com/ubora-rdc/ubora-auth/internal/model"
	"github.com/ubora-rdc/ubora-auth/internal/phone"
)

const maxAnswerSize = 1 << 20

// Client is an HTTP model.DirectoryClient.
type Client struct {
	httpClient *http.Client
	url        string
	appName    string
	timeout    time.Duration
	attempts   int
	newBackOff func() backoff.BackOff
	now        func() time.Time
	logger     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBackOff sets the delay policy between attempts.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(cl *Client) {
		cl.newBackOff = newBackOff
	}
}

// WithClock sets the time source used for the request DATE field.
func WithClock(now func() time.Time) Option {
	return func(cl *Client) {
		cl.now = now
	}
}

func NewClient(cfg config.Directory, logger *logger.Logger, opts ...Option) *Client {
	attempts := cfg.Retry
	if attempts < 1 {
		attempts = 1
	}

	c := &Client{
		httpClient: &http.Client{},
		url:        strings.TrimRight(cfg.APIURL, "/") + cfg.Endpoint,
		appName:    cfg.AppName,
		timeout:    cfg.Timeout,
		attempts:   attempts,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate checks the credentials and returns the directory profile.
// Failures are *model.DirectoryError values.
func (c *Client) Authenticate(ctx context.Context, cuid, password string) (model.DirectoryProfile, error) {
	body, err := encodeAuthCommand(c.appName, cuid, password, c.now())
	if err != nil {
		return model.DirectoryProfile{}, &model.DirectoryError{Kind: model.DirectoryTransport, Err: err}
	}

	var raw []byte
	attempt := 0
	operation := func() error {
		attempt++
		raw, err = c.post(ctx, body)
		if err != nil {
			c.logger.Warn("Directory client: request failed",
				"cuid", cuid,
				"attempt", attempt,
				"error", err.Error())
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(c.newBackOff(), uint64(c.attempts-1)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return model.DirectoryProfile{}, &model.DirectoryError{Kind: model.DirectoryTransport, Err: err}
	}

	profile, err := c.profileFromAnswer(cuid, raw)
	if err != nil {
		c.logger.Info("Directory client: authentication rejected",
			"cuid", cuid,
			"reason", model.DirectoryErrorKindOf(err).String())
		return model.DirectoryProfile{}, err
	}

	c.logger.Debug("Directory client: user authenticated",
		"cuid", cuid,
		"has_email", profile.Email != "",
		"phone", phone.MaskForLog(profile.Phone))

	return profile, nil
}

// post sends one request. Errors worth retrying are returned as is,
// everything else is wrapped with backoff.Permanent.
func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/xml")
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, backoff.Permanent(fmt.Errorf("directory returned status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAnswerSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read directory answer: %w", err)
	}
	return raw, nil
}

func (c *Client) profileFromAnswer(cuid string, raw []byte) (model.DirectoryProfile, error) {
	a, err := parseAnswer(bytes.NewReader(raw))
	if err != nil {
		return model.DirectoryProfile{}, &model.DirectoryError{Kind: model.DirectoryTransport, Err: err}
	}

	if a.hasError {
		code := a.first(errorCodeTags)
		return model.DirectoryProfile{}, &model.DirectoryError{Kind: classifyCode(code), Code: code}
	}

	profile := model.DirectoryProfile{
		ExternalID:  a.first(cuidTags),
		DisplayName: a.first(nameTags),
		Email:       a.first(emailTags),
		Department:  a.first(departmentTags),
		Status:      a.first(statusTags),
	}
	if profile.ExternalID == "" {
		profile.ExternalID = cuid
	}
	profile.Status = profile.StatusOrDefault()

	switch strings.ToLower(profile.Status) {
	case "locked", "blocked", "disabled":
		return model.DirectoryProfile{}, &model.DirectoryError{Kind: model.DirectoryAccountLocked, Code: profile.Status}
	}

	profile.Phone = phone.Normalize(a.first(phoneTags))
	if profile.Phone == "" {
		return model.DirectoryProfile{}, &model.DirectoryError{Kind: model.DirectoryNoPhoneOnFile}
	}

	return profile, nil
}

func classifyCode(code string) model.DirectoryErrorKind {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "49", "INVALID_CREDENTIALS", "BAD_CREDENTIALS", "AUTH_FAILED":
		return model.DirectoryBadCredentials
	case "775", "19", "ACCOUNT_LOCKED", "LOCKED":
		return model.DirectoryAccountLocked
	default:
		return model.DirectoryTransport
	}
}
