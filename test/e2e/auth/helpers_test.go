package auth_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mundocomputo/authd/internal/auth/domain"
	authhttp "github.com/mundocomputo/authd/internal/auth/http"
	"github.com/mundocomputo/authd/internal/auth/mail"
	"github.com/mundocomputo/authd/internal/auth/service"
	"github.com/mundocomputo/authd/internal/auth/store/drivers/sqlite"
	"github.com/mundocomputo/authd/pkg/guard"
	"github.com/mundocomputo/authd/pkg/idx"
	"github.com/mundocomputo/authd/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var sessionSecret = []byte("e2e-session-secret")

// memoryMailer captures outbound mail so tests can read the codes a real
// deployment would deliver by email.
type memoryMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *memoryMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *memoryMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type env struct {
	baseURL string
	store   *sqlite.Store
	mailer  *memoryMailer
}

// setupService starts an in-process service instance on a local listener,
// backed by the sqlite store driver and a capturing mailer.
func setupService(t *testing.T) *env {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mailer := &memoryMailer{}
	verifier, err := jwtx.NewVerifier(sessionSecret)
	require.NoError(t, err)

	router := authhttp.NewRouter(verifier, "e2e", st, true, slog.New(slog.DiscardHandler))
	router.IssuerService = &service.IssuerService{Store: st, Mailer: mailer, From: "auth@mundocomputo.cl"}
	router.VerifierService = &service.VerifierService{Store: st}
	router.SessionService = &service.SessionService{Store: st}
	router.InvoiceService = &service.InvoiceService{Mailer: mailer, From: "ventas@mundocomputo.cl"}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &env{baseURL: srv.URL, store: st, mailer: mailer}
}

func (e *env) seedProfile(t *testing.T, email string) domain.Profile {
	t.Helper()

	p := domain.Profile{ID: idx.New().String(), Email: email}
	require.NoError(t, e.store.Profiles().CreateProfile(context.Background(), p))
	return p
}

// assignRole emulates the onboarding backoffice assigning a role after the
// second factor completes.
func (e *env) assignRole(t *testing.T, profileID string, role guard.Role) {
	t.Helper()
	require.NoError(t, e.store.Profiles().SetRole(context.Background(), profileID, role))
}

// storedCode reads the outstanding code straight from the store; e2e flows
// normally read it from the captured mail instead.
func (e *env) storedCode(t *testing.T, email string) string {
	t.Helper()

	p, err := e.store.Profiles().GetProfileByEmail(context.Background(), email)
	require.NoError(t, err)
	require.True(t, p.HasPendingCode())
	return *p.MFACode
}

// mintToken issues the HS256 session token the primary auth provider would
// hand the browser at login.
func mintToken(t *testing.T, email string) string {
	t.Helper()

	claims := jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: email,
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sessionSecret)
	require.NoError(t, err)
	return raw
}
