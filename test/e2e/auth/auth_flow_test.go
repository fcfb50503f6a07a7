package auth_test

import (
	"regexp"
	"testing"

	"github.com/mundocomputo/authd/pkg/authsdk"
	"github.com/mundocomputo/authd/pkg/guard"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// TestVerificationFlow walks the full second-factor journey: login hands the
// browser a session token, the user requests a code, reads it from their
// inbox, submits it, and the guard lets them onto their role's pages.
func TestVerificationFlow(t *testing.T) {
	env := setupService(t)
	profile := env.seedProfile(t, "tech@mundocomputo.cl")

	client := authsdk.NewSDKClient(env.baseURL)
	session, err := client.NewSession(mintToken(t, "tech@mundocomputo.cl"))
	require.NoError(t, err)
	require.Equal(t, "tech@mundocomputo.cl", session.Email)

	// Before the observer resolves, every protected route shows a loader.
	state := guard.Resolve(session.Snapshot())
	require.Equal(t, guard.ShowLoading, guard.Evaluate(state, guard.RoleTechnician))

	// The freshly logged-in user has no role yet: the guard must send them
	// to the verification page, not back to login.
	require.NoError(t, session.Refresh(t.Context()))
	state = guard.Resolve(session.Snapshot())
	require.Equal(t, guard.RedirectVerify, guard.Evaluate(state, guard.RoleTechnician))

	// Request a code; it arrives by mail.
	require.NoError(t, session.RequestCode(t.Context()))
	require.Equal(t, 1, env.mailer.count())
	mailed := codePattern.FindString(env.mailer.sent[0].HTML)
	require.NotEmpty(t, mailed, "verification mail should contain a 6-digit code")
	require.Equal(t, env.storedCode(t, "tech@mundocomputo.cl"), mailed)

	// A wrong guess is rejected and does not burn the real code.
	wrong := "000000"
	if wrong == mailed {
		wrong = "000001"
	}
	err = session.SubmitCode(t.Context(), wrong)
	require.Error(t, err)
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 400, apiErr.StatusCode)

	// Onboarding assigns the role out of band; the right code completes the
	// second factor and the refresh inside SubmitCode picks the role up.
	env.assignRole(t, profile.ID, guard.RoleTechnician)
	require.NoError(t, session.SubmitCode(t.Context(), mailed))
	require.True(t, session.MFAVerified)
	require.NotNil(t, session.Role)
	require.Equal(t, guard.RoleTechnician, *session.Role)

	// The guard now renders the technician pages and blocks the admin ones.
	state = guard.Resolve(session.Snapshot())
	require.Equal(t, guard.Render, guard.Evaluate(state, guard.RoleTechnician))
	require.Equal(t, guard.RedirectUnauthorized, guard.Evaluate(state, guard.RoleAdministrator))

	// The accepted code is spent.
	err = session.SubmitCode(t.Context(), mailed)
	require.Error(t, err)
}

func TestResendReplacesCode(t *testing.T) {
	env := setupService(t)
	env.seedProfile(t, "sales@mundocomputo.cl")

	client := authsdk.NewSDKClient(env.baseURL)
	session, err := client.NewSession(mintToken(t, "sales@mundocomputo.cl"))
	require.NoError(t, err)

	require.NoError(t, session.RequestCode(t.Context()))
	first := env.storedCode(t, "sales@mundocomputo.cl")

	// Resend until the replacement actually differs; two draws of a six
	// digit code can collide.
	var second string
	for {
		require.NoError(t, session.RequestCode(t.Context()))
		second = env.storedCode(t, "sales@mundocomputo.cl")
		if second != first {
			break
		}
	}

	// The stale code is dead, the fresh one works.
	require.Error(t, session.SubmitCode(t.Context(), first))
	require.NoError(t, session.SubmitCode(t.Context(), second))
	require.True(t, session.MFAVerified)
}

func TestSendCodeForUnknownEmail(t *testing.T) {
	env := setupService(t)

	client := authsdk.NewSDKClient(env.baseURL)

	// The issue endpoint does not disclose whether an account exists; the
	// mail goes out either way and nothing is stored.
	require.NoError(t, client.SendCode(t.Context(), "ghost@mundocomputo.cl"))
	require.Equal(t, 1, env.mailer.count())
}

func TestVerifyUnknownEmail(t *testing.T) {
	env := setupService(t)

	client := authsdk.NewSDKClient(env.baseURL)
	err := client.VerifyCode(t.Context(), "ghost@mundocomputo.cl", "123456")

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 404, apiErr.StatusCode)
}

func TestInvoiceDispatch(t *testing.T) {
	env := setupService(t)

	client := authsdk.NewSDKClient(env.baseURL)
	client.AccessToken = mintToken(t, "seller@mundocomputo.cl")

	err := client.SendInvoice(t.Context(), authsdk.InvoiceRequest{
		ClientEmail:   "client@example.cl",
		ClientName:    "Cliente",
		InvoiceNumber: "F-0042",
		Items: []authsdk.InvoiceItemRequest{
			{Product: "SSD 1TB", Quantity: 1, Price: 45000, Subtotal: 45000},
		},
		Total: 45000,
		Date:  "2026-09-01",
	})
	require.NoError(t, err)
	require.Equal(t, 1, env.mailer.count())
	require.Equal(t, "Factura #F-0042", env.mailer.sent[0].Subject)
}
