package casbinAuthorization

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cristalhq/jwt/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendexa/Drush-Booking/domain"
)

type stubDenylist struct {
	denied map[string]bool
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{denied: make(map[string]bool)}
}

func (s *stubDenylist) PostCacheData(ctx context.Context, key string, value string) error {
	return nil
}

func (s *stubDenylist) GetCachedValue(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (s *stubDenylist) DelCachedValue(ctx context.Context, key string) error {
	return nil
}

func (s *stubDenylist) DenylistToken(ctx context.Context, tokenID string, until time.Duration) error {
	s.denied[tokenID] = true
	return nil
}

func (s *stubDenylist) IsTokenDenylisted(ctx context.Context, tokenID string) (bool, error) {
	return s.denied[tokenID], nil
}

// newGuard wraps a recording handler in the full middleware using the real
// model and policy files, so these tests enforce exactly what production does.
func newGuard(t *testing.T, denylist domain.AuthCache) (http.Handler, *bool) {
	t.Helper()

	enforcer, err := InitializeEnforcer("../rbac_model.conf", "../policy.csv")
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	return CasbinMiddleware(enforcer, denylist, logger)(next), &reached
}

func signToken(t *testing.T, role domain.UserRole) string {
	t.Helper()

	signer, err := jwt.NewSignerHS(jwt.HS256, []byte("test-secret"))
	require.NoError(t, err)

	token, err := jwt.NewBuilder(signer).Build(&domain.Claims{
		UserID:    "64f000000000000000000001",
		Email:     "mika@example.com",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	return token.String()
}

func TestGuardRejectsUnauthenticatedOnProtectedRoute(t *testing.T) {
	guard, reached := newGuard(t, newStubDenylist())

	request := httptest.NewRequest("GET", "/bookings", nil)
	recorder := httptest.NewRecorder()
	guard.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, *reached, "handler must not run for unauthenticated requests")
}

func TestGuardAllowsPublicRoute(t *testing.T) {
	guard, reached := newGuard(t, newStubDenylist())

	request := httptest.NewRequest("GET", "/rooms", nil)
	recorder := httptest.NewRecorder()
	guard.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, *reached)
}

func TestGuardAllowsGuestOnProtectedRoute(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	guard, reached := newGuard(t, newStubDenylist())

	request := httptest.NewRequest("GET", "/bookings", nil)
	request.Header.Set("Authorization", "Bearer "+signToken(t, domain.Guest))
	recorder := httptest.NewRecorder()
	guard.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, *reached)
}

func TestGuardRejectsDenylistedToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	denylist := newStubDenylist()
	guard, reached := newGuard(t, denylist)

	token := signToken(t, domain.Guest)
	require.NoError(t, denylist.DenylistToken(context.Background(), token, time.Hour))

	request := httptest.NewRequest("GET", "/bookings", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	guard.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, *reached, "signed-out tokens must not reach a handler")
}

func TestGuardForbidsGuestOnAdminRoute(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	guard, reached := newGuard(t, newStubDenylist())

	request := httptest.NewRequest("POST", "/rooms", nil)
	request.Header.Set("Authorization", "Bearer "+signToken(t, domain.Guest))
	recorder := httptest.NewRecorder()
	guard.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.False(t, *reached)
}

func TestGuardRejectsExpiredToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	guard, reached := newGuard(t, newStubDenylist())

	signer, err := jwt.NewSignerHS(jwt.HS256, []byte("test-secret"))
	require.NoError(t, err)
	token, err := jwt.NewBuilder(signer).Build(&domain.Claims{
		UserID:    "64f000000000000000000001",
		Email:     "mika@example.com",
		Role:      domain.Guest,
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	request := httptest.NewRequest("GET", "/bookings", nil)
	request.Header.Set("Authorization", "Bearer "+token.String())
	recorder := httptest.NewRecorder()
	guard.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, *reached)
}
