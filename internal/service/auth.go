package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/ubora-rdc/ubora-auth/internal/logger"
	"github.com/ubora-rdc/ubora-auth/internal/model"
	"github.com/ubora-rdc/ubora-auth/internal/phone"
)

const (
	msgOtpSent       = "Un code de vérification a été envoyé à votre numéro de téléphone."
	msgAuthenticated = "Connexion réussie"
)

// Auth runs the two-step login: directory credentials first, then a one-time
// code sent by SMS. It keeps no state of its own; everything between the
// two steps lives in the cache.
type Auth struct {
	directory model.DirectoryClient
	otp       model.OtpGateway
	pending   *PendingStore
	userStore model.UserStore
	issuer    model.CredentialIssuer
	logger    *logger.Logger
	now       func() time.Time
}

func NewAuth(
	directory model.DirectoryClient,
	otp model.OtpGateway,
	cache model.Cache,
	userStore model.UserStore,
	issuer model.CredentialIssuer,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		directory: directory,
		otp:       otp,
		pending:   NewPendingStore(cache),
		userStore: userStore,
		issuer:    issuer,
		logger:    logger,
		now:       time.Now,
	}
}

// Login checks the credentials against the directory, opens a pending
// session and sends an OTP to the phone on file.
func (a *Auth) Login(ctx context.Context, cuid, password string) (model.LoginResult, error) {
	cuid = strings.TrimSpace(cuid)
	if cuid == "" || password == "" {
		a.logger.Info("Auth service: login rejected, missing credentials",
			"cuid", cuid)
		return model.LoginResult{}, model.NewAuthError(model.KindBadCredentials)
	}

	a.logger.Debug("Auth service: starting login",
		"cuid", cuid)

	profile, err := a.directory.Authenticate(ctx, cuid, password)
	if err != nil {
		kind := directoryFailure(err)
		a.logger.Warn("Auth service: login failed",
			"cuid", cuid,
			"reason", string(kind),
			"error", err.Error())
		return model.LoginResult{}, model.NewAuthError(kind)
	}

	session := model.PendingSession{
		Profile:   profile,
		CreatedAt: a.now(),
	}
	if err := a.pending.SavePending(ctx, cuid, session); err != nil {
		a.logger.Error("Auth service: failed to save pending session",
			"cuid", cuid,
			"error", err.Error())
		return model.LoginResult{}, model.NewAuthError(model.KindInternal)
	}

	if err := a.otp.GenerateOtp(ctx, profile.Phone); err != nil {
		a.logger.Error("Auth service: failed to send otp",
			"cuid", cuid,
			"phone", phone.MaskForLog(profile.Phone),
			"error", err.Error())
		return model.LoginResult{}, model.NewAuthError(model.KindOtpDispatchFailed)
	}

	a.logger.Info("Auth service: login initiated",
		"cuid", cuid,
		"status", model.StatusOtpSent,
		"phone", phone.MaskForLog(profile.Phone))

	return model.LoginResult{
		Status:      model.StatusOtpSent,
		Cuid:        cuid,
		Message:     msgOtpSent,
		HasPhone:    profile.Phone != "",
		HasEmail:    profile.Email != "",
		PhoneMasked: phone.MaskForDisplay(profile.Phone),
	}, nil
}

// VerifyOtp checks the code sent at login and, when it matches, issues a
// bearer credential for the directory user.
func (a *Auth) VerifyOtp(ctx context.Context, cuid, otp string) (model.AuthResult, error) {
	cuid = strings.TrimSpace(cuid)

	session, err := a.pending.LoadPending(ctx, cuid)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Auth service: failed to load pending session",
				"cuid", cuid,
				"error", err.Error())
		}
		if err := a.pending.Clear(ctx, cuid); err != nil {
			a.logger.Warn("Auth service: failed to clear pending state",
				"cuid", cuid,
				"error", err.Error())
		}
		a.logger.Info("Auth service: otp verification without session",
			"cuid", cuid)
		return model.AuthResult{}, model.NewAuthError(model.KindSessionExpired)
	}
	p := session.Profile.Phone

	failures, err := a.pending.FailureCount(ctx, cuid)
	if err != nil {
		a.logger.Error("Auth service: failed to read otp failures",
			"cuid", cuid,
			"error", err.Error())
	}
	if failures >= model.MaxOtpAttempts {
		a.logger.Warn("Auth service: otp verification locked",
			"cuid", cuid,
			"phone", phone.MaskForLog(p),
			"attempts", failures)
		return model.AuthResult{}, model.NewAuthError(model.KindTooManyAttempts)
	}

	ok, err := a.otp.VerifyOtp(ctx, p, otp)
	if err != nil {
		a.logger.Error("Auth service: otp gateway unavailable",
			"cuid", cuid,
			"phone", phone.MaskForLog(p),
			"error", err.Error())
		return model.AuthResult{}, model.NewAuthError(model.KindOtpGatewayUnavailable)
	}

	if !ok {
		return model.AuthResult{}, a.recordFailure(ctx, cuid, p)
	}

	user, err := a.userStore.FindOrCreate(ctx, cuid, session.Profile)
	if err != nil {
		a.logger.Error("Auth service: failed to materialize user",
			"cuid", cuid,
			"error", err.Error())
		return model.AuthResult{}, model.NewAuthError(model.KindInternal)
	}

	token, err := a.issuer.Issue(ctx, user, model.AccessTokenTTL)
	if err != nil {
		a.logger.Error("Auth service: failed to issue access token",
			"cuid", cuid,
			"user_id", user.ID,
			"error", err.Error())
		return model.AuthResult{}, model.NewAuthError(model.KindInternal)
	}

	if err := a.pending.Clear(ctx, cuid); err != nil {
		a.logger.Warn("Auth service: failed to clear pending state",
			"cuid", cuid,
			"error", err.Error())
	}

	a.logger.Info("Auth service: user authenticated",
		"cuid", cuid,
		"user_id", user.ID,
		"phone", phone.MaskForLog(p))

	return model.AuthResult{
		Status:    model.StatusAuthenticated,
		User:      model.NewUserView(user),
		Token:     token,
		TokenType: model.TokenTypeBearer,
		ExpiresIn: int64(model.AccessTokenTTL / time.Second),
		Message:   msgAuthenticated,
	}, nil
}

func (a *Auth) recordFailure(ctx context.Context, cuid, p string) error {
	count, err := a.pending.RecordFailure(ctx, cuid)
	if err != nil {
		a.logger.Error("Auth service: failed to record otp failure",
			"cuid", cuid,
			"error", err.Error())
		return model.NewAuthError(model.KindInternal)
	}

	a.logger.Warn("Auth service: otp verification failed",
		"cuid", cuid,
		"phone", phone.MaskForLog(p),
		"attempt", count)

	if count >= model.MaxOtpAttempts {
		return model.NewAuthError(model.KindTooManyAttempts)
	}
	return model.NewInvalidOtpError(model.MaxOtpAttempts - int(count))
}

// HasPendingSession reports whether cuid passed the directory check and is
// still waiting for OTP verification.
func (a *Auth) HasPendingSession(ctx context.Context, cuid string) (bool, error) {
	_, err := a.pending.LoadPending(ctx, strings.TrimSpace(cuid))
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ResendOtp sends a new code to the phone of the pending session, at most
// once per cooldown period.
func (a *Auth) ResendOtp(ctx context.Context, cuid string) error {
	cuid = strings.TrimSpace(cuid)
	now := a.now()

	last, err := a.pending.LastSent(ctx, cuid)
	if err != nil {
		a.logger.Error("Auth service: failed to read resend throttle",
			"cuid", cuid,
			"error", err.Error())
	}
	if !last.IsZero() {
		if wait := model.OtpResendCooldown - now.Sub(last); wait > 0 {
			secs := int(math.Ceil(wait.Seconds()))
			a.logger.Info("Auth service: otp resend throttled",
				"cuid", cuid,
				"retry_after", secs)
			return model.NewThrottleError(secs)
		}
	}

	session, err := a.pending.LoadPending(ctx, cuid)
	if err != nil {
		a.logger.Info("Auth service: otp resend without session",
			"cuid", cuid)
		return model.NewAuthError(model.KindSessionExpired)
	}
	p := session.Profile.Phone

	if err := a.otp.GenerateOtp(ctx, p); err != nil {
		a.logger.Error("Auth service: failed to resend otp",
			"cuid", cuid,
			"phone", phone.MaskForLog(p),
			"error", err.Error())
		return model.NewAuthError(model.KindOtpDispatchFailed)
	}

	if err := a.pending.MarkSent(ctx, cuid, now); err != nil {
		a.logger.Warn("Auth service: failed to record otp resend",
			"cuid", cuid,
			"error", err.Error())
	}

	a.logger.Info("Auth service: otp resent",
		"cuid", cuid,
		"phone", phone.MaskForLog(p))

	return nil
}

// Logout revokes the caller's credential and drops any pending login of
// the same cuid. A nil principal is a no-op.
func (a *Auth) Logout(ctx context.Context, principal *model.Principal) error {
	if principal == nil {
		return nil
	}

	if err := a.issuer.Revoke(ctx, principal.Token); err != nil {
		a.logger.Error("Auth service: failed to revoke access token",
			"user_id", principal.UserID,
			"error", err.Error())
		return model.NewAuthError(model.KindLogoutFailed)
	}

	if err := a.pending.DeletePending(ctx, principal.Cuid); err != nil {
		a.logger.Warn("Auth service: failed to clear pending session",
			"cuid", principal.Cuid,
			"error", err.Error())
	}

	a.logger.Info("Auth service: user logged out",
		"user_id", principal.UserID)

	return nil
}

// CurrentUser returns the user behind an authenticated principal.
func (a *Auth) CurrentUser(ctx context.Context, principal model.Principal) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, principal.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.NewAuthError(model.KindUnauthenticated)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user",
			"user_id", principal.UserID,
			"error", err.Error())
		return model.User{}, model.NewAuthError(model.KindInternal)
	}
	return user, nil
}

func directoryFailure(err error) model.AuthErrorKind {
	switch model.DirectoryErrorKindOf(err) {
	case model.DirectoryBadCredentials:
		return model.KindBadCredentials
	case model.DirectoryAccountLocked:
		return model.KindAccountLocked
	case model.DirectoryNoPhoneOnFile:
		return model.KindNoPhoneOnFile
	default:
		return model.KindDirectoryUnavailable
	}
}
