package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-session-secret")

func mintToken(t *testing.T, secret []byte, claims Claims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return raw
}

func TestVerify(t *testing.T) {
	t.Parallel()

	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	valid := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-id-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "user@mundocomputo.cl",
	}

	t.Run("valid token yields its email identity", func(t *testing.T) {
		claims, err := v.Verify(mintToken(t, testSecret, valid))
		require.NoError(t, err)
		require.Equal(t, "user@mundocomputo.cl", claims.Identity())
	})

	t.Run("subject is the fallback identity", func(t *testing.T) {
		noEmail := valid
		noEmail.Email = ""
		claims, err := v.Verify(mintToken(t, testSecret, noEmail))
		require.NoError(t, err)
		require.Equal(t, "user-id-1", claims.Identity())
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		_, err := v.Verify(mintToken(t, []byte("other-secret"), valid))
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := valid
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := v.Verify(mintToken(t, testSecret, expired))
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token without expiry is rejected", func(t *testing.T) {
		noExp := valid
		noExp.ExpiresAt = nil
		_, err := v.Verify(mintToken(t, testSecret, noExp))
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token without any identity is rejected", func(t *testing.T) {
		anon := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		_, err := v.Verify(mintToken(t, testSecret, anon))
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none is rejected", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, valid)
		raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = v.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := v.Verify("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPeekIdentity(t *testing.T) {
	t.Parallel()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "user@mundocomputo.cl",
	}

	t.Run("reads identity without the secret", func(t *testing.T) {
		email, err := PeekIdentity(mintToken(t, []byte("whatever"), claims))
		require.NoError(t, err)
		require.Equal(t, "user@mundocomputo.cl", email)
	})

	t.Run("rejects malformed tokens", func(t *testing.T) {
		_, err := PeekIdentity("garbage")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
