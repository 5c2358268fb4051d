// Package otp talks to the SMS one-time-password gateway.
package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/ubora-rdc/ubora-auth/internal/config"
	"github.com/ubora-rdc/ubora-auth/internal/logger"
	"github.com/ubora-rdc/ubora-auth/internal/model"
	"github.com/ubora-rdc/ubora-auth/internal/phone"
)

type generateRequest struct {
	Reference          string `json:"reference"`
	Origin             string `json:"origin"`
	OverOutLine        int    `json:"otpOveroutLine"`
	CustomerMessage    string `json:"customerMessage"`
	SenderName         string `json:"senderName"`
	IgnoreOrangeNumber bool   `json:"ignoreOrangeNumber"`
}

type verifyRequest struct {
	Reference   string `json:"reference"`
	Origin      string `json:"origin"`
	ReceivedOtp string `json:"receivedOtp"`
}

type gatewayResponse struct {
	Success  bool   `json:"success"`
	Verified bool   `json:"verified"`
	Valid    bool   `json:"valid"`
	Message  string `json:"message"`
}

// errServer marks a 5xx answer.
var errServer = errors.New("otp gateway server error")

// Client is an HTTP model.OtpGateway.
type Client struct {
	httpClient  *http.Client
	generateURL string
	verifyURL   string
	cfg         config.OTP
	attempts    int
	newBackOff  func() backoff.BackOff
	logger      *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBackOff sets the delay policy between generate attempts.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(cl *Client) {
		cl.newBackOff = newBackOff
	}
}

func NewClient(cfg config.OTP, logger *logger.Logger, opts ...Option) *Client {
	attempts := cfg.Retry
	if attempts < 1 {
		attempts = 1
	}

	base := strings.TrimRight(cfg.APIURL, "/")
	c := &Client{
		httpClient:  &http.Client{},
		generateURL: base + cfg.GenerateEndpoint,
		verifyURL:   base + cfg.VerifyEndpoint,
		cfg:         cfg,
		attempts:    attempts,
		newBackOff:  func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateOtp asks the gateway to send a fresh code to phone number p.
func (c *Client) GenerateOtp(ctx context.Context, p string) error {
	req := generateRequest{
		Reference:          p,
		Origin:             c.cfg.Origin,
		OverOutLine:        c.cfg.OverOutLine,
		CustomerMessage:    c.cfg.CustomerMessage,
		SenderName:         c.cfg.SenderName,
		IgnoreOrangeNumber: c.cfg.IgnoreOrangeNumber,
	}

	var resp gatewayResponse
	var status int
	operation := func() error {
		var err error
		status, resp, err = c.post(ctx, c.generateURL, req)
		if err != nil {
			return err
		}
		if status >= http.StatusInternalServerError {
			return errServer
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(c.newBackOff(), uint64(c.attempts-1)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		c.logger.Error("OTP client: generation failed",
			"phone", phone.MaskForLog(p),
			"error", err.Error())
		return fmt.Errorf("%w: %w", model.ErrOtpDispatchFailed, err)
	}

	if status >= http.StatusBadRequest || !resp.Success {
		c.logger.Error("OTP client: generation rejected",
			"phone", phone.MaskForLog(p),
			"status", status,
			"message", resp.Message)
		return fmt.Errorf("%w: status %d", model.ErrOtpDispatchFailed, status)
	}

	c.logger.Info("OTP client: code sent",
		"phone", phone.MaskForLog(p))

	return nil
}

// VerifyOtp checks code against the last code sent to p. It is never retried.
func (c *Client) VerifyOtp(ctx context.Context, p, code string) (bool, error) {
	status, resp, err := c.post(ctx, c.verifyURL, verifyRequest{
		Reference:   p,
		Origin:      c.cfg.Origin,
		ReceivedOtp: code,
	})
	if err != nil {
		c.logger.Error("OTP client: verification failed",
			"phone", phone.MaskForLog(p),
			"error", err.Error())
		return false, fmt.Errorf("%w: %w", model.ErrOtpGatewayUnavailable, err)
	}

	if status >= http.StatusInternalServerError {
		c.logger.Error("OTP client: verification failed",
			"phone", phone.MaskForLog(p),
			"status", status)
		return false, fmt.Errorf("%w: status %d", model.ErrOtpGatewayUnavailable, status)
	}

	verified := status < http.StatusBadRequest && (resp.Verified || resp.Success || resp.Valid)

	c.logger.Debug("OTP client: verification answered",
		"phone", phone.MaskForLog(p),
		"status", status,
		"verified", verified)

	return verified, nil
}

// post sends one JSON request. A body that is not JSON is treated as an
// empty answer.
func (c *Client) post(ctx context.Context, url string, payload any) (int, gatewayResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, gatewayResponse{}, backoff.Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, gatewayResponse{}, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, gatewayResponse{}, fmt.Errorf("failed to call otp gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return 0, gatewayResponse{}, fmt.Errorf("failed to read otp gateway answer: %w", err)
	}

	var out gatewayResponse
	_ = json.Unmarshal(raw, &out)

	return resp.StatusCode, out, nil
}
