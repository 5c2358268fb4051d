package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ubora-rdc/ubora-auth/internal/cache"
	servermocks "github.com/ubora-rdc/ubora-auth/internal/mocks"
	"github.com/ubora-rdc/ubora-auth/internal/model"
	"github.com/ubora-rdc/ubora-auth/internal/testutil"
)

var testProfile = model.DirectoryProfile{
	ExternalID:  "cuid1",
	DisplayName: "Jean Mukendi",
	Email:       "jean.mukendi@example.cd",
	Phone:       "243991234567",
	Department:  "Finance",
	Status:      "active",
}

type authFixture struct {
	auth      *Auth
	cache     *cache.Memory
	clock     *testutil.Clock
	directory *servermocks.DirectoryClient
	otp       *servermocks.OtpGateway
	users     *servermocks.UserStore
	issuer    *servermocks.CredentialIssuer
	logs      *testutil.LogBuffer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		clock:     testutil.NewClock(time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)),
		directory: servermocks.NewDirectoryClient(t),
		otp:       servermocks.NewOtpGateway(t),
		users:     servermocks.NewUserStore(t),
		issuer:    servermocks.NewCredentialIssuer(t),
	}
	f.cache = cache.NewMemory(cache.WithClock(f.clock.Now))

	log, buf := testutil.MakeBufferLogger()
	f.logs = buf

	f.auth = NewAuth(f.directory, f.otp, f.cache, f.users, f.issuer, log)
	f.auth.now = f.clock.Now
	return f
}

// startLogin runs a successful login for cuid1.
func (f *authFixture) startLogin(t *testing.T) {
	t.Helper()

	f.directory.On("Authenticate", mock.Anything, "cuid1", "pw").Return(testProfile, nil).Once()
	f.otp.On("GenerateOtp", mock.Anything, testProfile.Phone).Return(nil).Once()

	_, err := f.auth.Login(context.Background(), "cuid1", "pw")
	require.NoError(t, err)
}

func requireKind(t *testing.T, err error, kind model.AuthErrorKind) *model.AuthError {
	t.Helper()

	var authErr *model.AuthError
	require.True(t, errors.As(err, &authErr), "expected *model.AuthError, got %v", err)
	require.Equal(t, kind, authErr.Kind)
	return authErr
}

func TestAuth_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.directory.On("Authenticate", ctx, "cuid1", "pw").Return(testProfile, nil).Once()
	f.otp.On("GenerateOtp", ctx, "243991234567").Return(nil).Once()

	res, err := f.auth.Login(ctx, "cuid1", "pw")
	require.NoError(t, err)

	assert.Equal(t, model.LoginResult{
		Status:      model.StatusOtpSent,
		Cuid:        "cuid1",
		Message:     msgOtpSent,
		HasPhone:    true,
		HasEmail:    true,
		PhoneMasked: "*** **** 4567",
	}, res)

	session, err := f.auth.pending.LoadPending(ctx, "cuid1")
	require.NoError(t, err)
	assert.Equal(t, testProfile, session.Profile)

	f.clock.Advance(model.PendingSessionTTL - time.Second)
	_, err = f.auth.pending.LoadPending(ctx, "cuid1")
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	_, err = f.auth.pending.LoadPending(ctx, "cuid1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	logs := f.logs.String()
	assert.Contains(t, logs, "243*******67")
	assert.NotContains(t, logs, "243991234567")
	assert.NotContains(t, logs, "pw")
}

func TestAuth_Login_EmptyCredentials(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.Login(context.Background(), "  ", "pw")
	requireKind(t, err, model.KindBadCredentials)

	_, err = f.auth.Login(context.Background(), "cuid1", "")
	requireKind(t, err, model.KindBadCredentials)

	f.directory.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuth_Login_DirectoryFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    model.AuthErrorKind
		message string
	}{
		{
			name:    "bad credentials",
			err:     &model.DirectoryError{Kind: model.DirectoryBadCredentials, Code: "49"},
			want:    model.KindBadCredentials,
			message: "Identifiants incorrects.",
		},
		{
			name:    "locked",
			err:     &model.DirectoryError{Kind: model.DirectoryAccountLocked},
			want:    model.KindAccountLocked,
			message: "Votre compte est temporairement bloqué.",
		},
		{
			name:    "no phone",
			err:     &model.DirectoryError{Kind: model.DirectoryNoPhoneOnFile},
			want:    model.KindNoPhoneOnFile,
			message: "Aucun numéro de téléphone valide trouvé pour votre compte.",
		},
		{
			name:    "transport",
			err:     &model.DirectoryError{Kind: model.DirectoryTransport, Err: errors.New("dial tcp: connection refused")},
			want:    model.KindDirectoryUnavailable,
			message: "Échec de l'authentification. Veuillez réessayer.",
		},
		{
			name:    "untyped error",
			err:     errors.New("Identifiants incorrects"),
			want:    model.KindDirectoryUnavailable,
			message: "Échec de l'authentification. Veuillez réessayer.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			ctx := context.Background()

			f.directory.On("Authenticate", ctx, "cuid1", "pw").Return(model.DirectoryProfile{}, tt.err).Once()

			_, err := f.auth.Login(ctx, "cuid1", "pw")
			authErr := requireKind(t, err, tt.want)
			assert.Equal(t, tt.message, authErr.Error())

			ok, err := f.auth.HasPendingSession(ctx, "cuid1")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestAuth_Login_DispatchFailureKeepsSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.directory.On("Authenticate", ctx, "cuid1", "pw").Return(testProfile, nil).Once()
	f.otp.On("GenerateOtp", ctx, testProfile.Phone).Return(model.ErrOtpDispatchFailed).Once()

	_, err := f.auth.Login(ctx, "cuid1", "pw")
	requireKind(t, err, model.KindOtpDispatchFailed)

	ok, err := f.auth.HasPendingSession(ctx, "cuid1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuth_VerifyOtp_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.startLogin(t)

	user := model.User{
		ID:         uuid.New(),
		Cuid:       "cuid1",
		Name:       "Jean Mukendi",
		Email:      "jean.mukendi@example.cd",
		Phone:      "243991234567",
		Department: "Finance",
	}

	f.otp.On("VerifyOtp", ctx, testProfile.Phone, "123456").Return(true, nil).Once()
	f.users.On("FindOrCreate", ctx, "cuid1", testProfile).Return(user, nil).Once()
	f.issuer.On("Issue", ctx, user, model.AccessTokenTTL).Return("bearer-token", nil).Once()

	res, err := f.auth.VerifyOtp(ctx, "cuid1", "123456")
	require.NoError(t, err)

	assert.Equal(t, model.StatusAuthenticated, res.Status)
	assert.Equal(t, "bearer-token", res.Token)
	assert.Equal(t, model.TokenTypeBearer, res.TokenType)
	assert.Equal(t, int64(604800), res.ExpiresIn)
	assert.Equal(t, model.NewUserView(user), res.User)

	// Both the session and the counter are gone.
	_, err = f.auth.VerifyOtp(ctx, "cuid1", "123456")
	requireKind(t, err, model.KindSessionExpired)
}

func TestAuth_VerifyOtp_SuccessClearsFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.startLogin(t)

	f.otp.On("VerifyOtp", ctx, testProfile.Phone, "111111").Return(false, nil).Once()
	f.otp.On("VerifyOtp", ctx, testProfile.Phone, "123456").Return(true, nil).Once()
	f.users.On("FindOrCreate", ctx, "cuid1", testProfile).Return(model.User{Cuid: "cuid1"}, nil).Once()
	f.issuer.On("Issue", ctx, mock.Anything, model.AccessTokenTTL).Return("bearer-token", nil).Once()

	_, err := f.auth.VerifyOtp(ctx, "cuid1", "111111")
	requireKind(t, err, model.KindInvalidOtp)

	_, err = f.auth.VerifyOtp(ctx, "cuid1", "123456")
	require.NoError(t, err)

	n, err := f.auth.pending.FailureCount(ctx, "cuid1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuth_VerifyOtp_NoSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.cache.Increment(ctx, model.OtpFailureKeyPrefix+"cuid1", model.OtpFailureWindow)
	require.NoError(t, err)

	_, err = f.auth.VerifyOtp(ctx, "cuid1", "000000")
	authErr := requireKind(t, err, model.KindSessionExpired)
	assert.Equal(t, "Session expirée. Veuillez vous reconnecter.", authErr.Error())

	f.otp.AssertNotCalled(t, "VerifyOtp", mock.Anything, mock.Anything, mock.Anything)

	_, err = f.cache.Get(ctx, model.OtpFailureKeyPrefix+"cuid1")
	assert.ErrorIs(t, err, model.ErrCacheMiss)
}

func TestAuth_VerifyOtp_SessionExpiredAfterTTL(t *testing.T) {
	f := newAuthFixture(t)
	f.startLogin(t)

	f.clock.Advance(model.PendingSessionTTL)

	_, err := f.auth.VerifyOtp(context.Background(), "cuid1", "123456")
	requireKind(t, err, model.KindSessionExpired)
}

func TestAuth_VerifyOtp_AttemptLockout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.startLogin(t)

	f.otp.On("VerifyOtp", ctx, testProfile.Phone, "999999").Return(false, nil).Times(3)

	_, err := f.auth.VerifyOtp(ctx, "cuid1", "999999")
	authErr := requireKind(t, err, model.KindInvalidOtp)
	assert.Equal(t, 2, authErr.Remaining)
	assert.Equal(t, "Code OTP incorrect. Il vous reste 2 tentative(s).", authErr.Error())

	_, err = f.auth.VerifyOtp(ctx, "cuid1", "999999")
	authErr = requireKind(t, err, model.KindInvalidOtp)
	assert.Equal(t, 1, authErr.Remaining)

	_, err = f.auth.VerifyOtp(ctx, "cuid1", "999999")
	authErr = requireKind(t, err, model.KindTooManyAttempts)
	assert.Equal(t, "Trop de tentatives échouées. Veuillez réessayer plus tard.", authErr.Error())

	// Locked: the gateway is no longer consulted, even for a correct code.
	_, err = f.auth.VerifyOtp(ctx, "cuid1", "123456")
	requireKind(t, err, model.KindTooManyAttempts)
	f.otp.AssertNumberOfCalls(t, "VerifyOtp", 3)
}

func TestAuth_VerifyOtp_ConcurrentWrongCodes(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.startLogin(t)

	f.otp.On("VerifyOtp", mock.Anything, testProfile.Phone, "999999").Return(false, nil)

	const callers = 20
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.auth.VerifyOtp(ctx, "cuid1", "999999")
		}(i)
	}
	wg.Wait()

	invalid := 0
	for _, err := range errs {
		var authErr *model.AuthError
		require.True(t, errors.As(err, &authErr), "expected *model.AuthError, got %v", err)
		switch authErr.Kind {
		case model.KindInvalidOtp:
			invalid++
		case model.KindTooManyAttempts:
		default:
			t.Fatalf("unexpected error kind %s", authErr.Kind)
		}
	}
	assert.LessOrEqual(t, invalid, model.MaxOtpAttempts-1)

	_, err := f.auth.VerifyOtp(ctx, "cuid1", "999999")
	requireKind(t, err, model.KindTooManyAttempts)
}

func TestAuth_VerifyOtp_CounterWindowRestarts(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.startLogin(t)

	f.otp.On("VerifyOtp", ctx, testProfile.Phone, "999999").Return(false, nil).Times(3)

	_, err := f.auth.VerifyOtp(ctx, "cuid1", "999999")
	requireKind(t, err, model.KindInvalidOtp)

	f.clock.Advance(4 * time.Minute)
	_, err = f.auth.VerifyOtp(ctx, "cuid1", "999999")
	authErr := requireKind(t, err, model.KindInvalidOtp)
	assert.Equal(t, 1, authErr.Remaining)

	// Five minutes after the first failure the counter is gone.
	f.clock.Advance(time.Minute)
	_, err = f.auth.VerifyOtp(ctx, "cuid1", "999999")
	authErr = requireKind(t, err, model.KindInvalidOtp)
	assert.Equal(t, 2, authErr.Remaining)
}

func TestAuth_VerifyOtp_GatewayUnavailable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.startLogin(t)

	f.otp.On("VerifyOtp", ctx, testProfile.Phone, "123456").Return(false, model.ErrOtpGatewayUnavailable).Once()

	_, err := f.auth.VerifyOtp(ctx, "cuid1", "123456")
	authErr := requireKind(t, err, model.KindOtpGatewayUnavailable)
	assert.Equal(t, "Erreur lors de la vérification du code OTP.", authErr.Error())

	n, err := f.auth.pending.FailureCount(ctx, "cuid1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuth_VerifyOtp_UsesSessionPhone(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.startLogin(t)

	f.otp.On("VerifyOtp", ctx, "243991234567", "123456").Return(false, nil).Once()

	_, err := f.auth.VerifyOtp(ctx, "cuid1", "123456")
	requireKind(t, err, model.KindInvalidOtp)
	f.otp.AssertExpectations(t)
}

func TestAuth_VerifyOtp_IssueFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.startLogin(t)

	f.otp.On("VerifyOtp", ctx, testProfile.Phone, "123456").Return(true, nil).Once()
	f.users.On("FindOrCreate", ctx, "cuid1", testProfile).Return(model.User{Cuid: "cuid1"}, nil).Once()
	f.issuer.On("Issue", ctx, mock.Anything, model.AccessTokenTTL).Return("", assert.AnError).Once()

	_, err := f.auth.VerifyOtp(ctx, "cuid1", "123456")
	requireKind(t, err, model.KindInternal)

	ok, err := f.auth.HasPendingSession(ctx, "cuid1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuth_ResendOtp_Throttle(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.startLogin(t)

	f.otp.On("GenerateOtp", ctx, testProfile.Phone).Return(nil).Twice()

	require.NoError(t, f.auth.ResendOtp(ctx, "cuid1"))

	f.clock.Advance(20*time.Second + 500*time.Millisecond)
	err := f.auth.ResendOtp(ctx, "cuid1")
	authErr := requireKind(t, err, model.KindThrottleActive)
	assert.Equal(t, 40, authErr.RetryAfter)

	f.clock.Advance(40 * time.Second)
	require.NoError(t, f.auth.ResendOtp(ctx, "cuid1"))

	// The second successful send restarted the cooldown.
	f.clock.Advance(time.Second)
	err = f.auth.ResendOtp(ctx, "cuid1")
	authErr = requireKind(t, err, model.KindThrottleActive)
	assert.Equal(t, 59, authErr.RetryAfter)
}

func TestAuth_ResendOtp_NoSession(t *testing.T) {
	f := newAuthFixture(t)

	err := f.auth.ResendOtp(context.Background(), "cuid1")
	requireKind(t, err, model.KindSessionExpired)
	f.otp.AssertNotCalled(t, "GenerateOtp", mock.Anything, mock.Anything)
}

func TestAuth_ResendOtp_DispatchFailureDoesNotThrottle(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.startLogin(t)

	f.otp.On("GenerateOtp", ctx, testProfile.Phone).Return(model.ErrOtpDispatchFailed).Once()
	f.otp.On("GenerateOtp", ctx, testProfile.Phone).Return(nil).Once()

	err := f.auth.ResendOtp(ctx, "cuid1")
	requireKind(t, err, model.KindOtpDispatchFailed)

	require.NoError(t, f.auth.ResendOtp(ctx, "cuid1"))
}

func TestAuth_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.startLogin(t)

	principal := &model.Principal{UserID: uuid.New(), Cuid: "cuid1", JTI: "jti", Token: "bearer-token"}
	f.issuer.On("Revoke", ctx, "bearer-token").Return(nil).Once()

	require.NoError(t, f.auth.Logout(ctx, principal))

	ok, err := f.auth.HasPendingSession(ctx, "cuid1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuth_Logout_NilPrincipal(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.auth.Logout(context.Background(), nil))
	f.issuer.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
}

func TestAuth_Logout_RevokeFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.issuer.On("Revoke", ctx, "bearer-token").Return(assert.AnError).Once()

	err := f.auth.Logout(ctx, &model.Principal{Cuid: "cuid1", Token: "bearer-token"})
	authErr := requireKind(t, err, model.KindLogoutFailed)
	assert.Equal(t, "Erreur lors de la déconnexion.", authErr.Error())
}

func TestAuth_CurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.users.On("GetByID", ctx, id).Return(model.User{ID: id, Cuid: "cuid1"}, nil).Once()

	user, err := f.auth.CurrentUser(ctx, model.Principal{UserID: id})
	require.NoError(t, err)
	assert.Equal(t, "cuid1", user.Cuid)

	missing := uuid.New()
	f.users.On("GetByID", ctx, missing).Return(model.User{}, model.ErrNotFound).Once()

	_, err = f.auth.CurrentUser(ctx, model.Principal{UserID: missing})
	requireKind(t, err, model.KindUnauthenticated)
}
