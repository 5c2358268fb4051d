package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ubora-rdc/ubora-auth/internal/model"
)

// PendingStore keeps the short-lived login state of each cuid in the cache:
// the pending session, the failed OTP counter and the last OTP send time.
type PendingStore struct {
	cache model.Cache
}

func NewPendingStore(cache model.Cache) *PendingStore {
	return &PendingStore{cache: cache}
}

func pendingKey(cuid string) string {
	return model.PendingKeyPrefix + cuid
}

func failureKey(cuid string) string {
	return model.OtpFailureKeyPrefix + cuid
}

func resendKey(cuid string) string {
	return model.OtpResendKeyPrefix + cuid
}

// SavePending stores the session, replacing any previous one for the cuid.
func (s *PendingStore) SavePending(ctx context.Context, cuid string, session model.PendingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal pending session: %w", err)
	}

	if err := s.cache.Put(ctx, pendingKey(cuid), data, model.PendingSessionTTL); err != nil {
		return fmt.Errorf("failed to save pending session: %w", err)
	}
	return nil
}

// LoadPending returns model.ErrNotFound when there is no live session.
func (s *PendingStore) LoadPending(ctx context.Context, cuid string) (model.PendingSession, error) {
	data, err := s.cache.Get(ctx, pendingKey(cuid))
	if errors.Is(err, model.ErrCacheMiss) {
		return model.PendingSession{}, model.ErrNotFound
	}
	if err != nil {
		return model.PendingSession{}, fmt.Errorf("failed to load pending session: %w", err)
	}

	var session model.PendingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return model.PendingSession{}, fmt.Errorf("failed to unmarshal pending session: %w", err)
	}
	return session, nil
}

func (s *PendingStore) DeletePending(ctx context.Context, cuid string) error {
	return s.cache.Delete(ctx, pendingKey(cuid))
}

// FailureCount returns the failed OTP attempts in the current window.
func (s *PendingStore) FailureCount(ctx context.Context, cuid string) (int64, error) {
	data, err := s.cache.Get(ctx, failureKey(cuid))
	if errors.Is(err, model.ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load otp failures: %w", err)
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse otp failures: %w", err)
	}
	return n, nil
}

// RecordFailure counts one failed attempt and returns the new total. The
// window starts at the first failure.
func (s *PendingStore) RecordFailure(ctx context.Context, cuid string) (int64, error) {
	n, err := s.cache.Increment(ctx, failureKey(cuid), model.OtpFailureWindow)
	if err != nil {
		return 0, fmt.Errorf("failed to record otp failure: %w", err)
	}
	return n, nil
}

// Clear removes the pending session and the failure counter.
func (s *PendingStore) Clear(ctx context.Context, cuid string) error {
	return s.cache.Delete(ctx, pendingKey(cuid), failureKey(cuid))
}

// LastSent returns when an OTP was last sent, or the zero time.
func (s *PendingStore) LastSent(ctx context.Context, cuid string) (time.Time, error) {
	data, err := s.cache.Get(ctx, resendKey(cuid))
	if errors.Is(err, model.ErrCacheMiss) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load last otp send: %w", err)
	}

	ns, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse last otp send: %w", err)
	}
	return time.Unix(0, ns), nil
}

func (s *PendingStore) MarkSent(ctx context.Context, cuid string, at time.Time) error {
	v := strconv.FormatInt(at.UnixNano(), 10)
	if err := s.cache.Put(ctx, resendKey(cuid), []byte(v), model.OtpResendKeyTTL); err != nil {
		return fmt.Errorf("failed to mark otp sent: %w", err)
	}
	return nil
}
