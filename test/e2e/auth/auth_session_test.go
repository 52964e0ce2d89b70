package auth_test

import (
	"testing"

	"github.com/capmanage/capmanage/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestRefreshRotatesTokens(t *testing.T) {
	c := setupAuthContainer(t)
	ctx := t.Context()
	email := "rotate@capmanage.test"
	registerAndVerify(t, c, email)

	first, err := c.Client.LoginRaw(ctx, email, userPassword)
	require.NoError(t, err)
	require.Equal(t, "Bearer", first.TokenType)

	second, err := c.Client.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The rotated-out refresh token is dead.
	_, err = c.Client.Refresh(ctx, first.RefreshToken)
	assertAPIError(t, err, authsdk.ErrInvalidRefresh)

	session, err := c.Client.AuthenticateWithRefreshToken(ctx, second.RefreshToken)
	require.NoError(t, err)
	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, email, me.Email)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	c := setupAuthContainer(t)
	ctx := t.Context()
	email := "logout@capmanage.test"
	registerAndVerify(t, c, email)

	session, err := c.Client.Login(ctx, email, userPassword)
	require.NoError(t, err)
	refresh := session.RefreshToken()

	require.NoError(t, session.Logout(ctx))

	_, err = c.Client.Refresh(ctx, refresh)
	assertAPIError(t, err, authsdk.ErrInvalidRefresh)

	// Logging out twice is harmless.
	require.NoError(t, c.Client.Logout(ctx, refresh))
}

func TestMeRequiresAccessToken(t *testing.T) {
	c := setupAuthContainer(t)
	ctx := t.Context()
	email := "me@capmanage.test"
	registerAndVerify(t, c, email)

	login, err := c.Client.LoginRaw(ctx, email, userPassword)
	require.NoError(t, err)

	// A refresh token presented as an access token is rejected.
	wrong := c.Client.NewSessionFromTokens(login.RefreshToken, "", login.AccessTokenExpiresAt)
	_, err = wrong.Me(ctx)
	assertAPIError(t, err, authsdk.ErrUnauthenticated)

	right := c.Client.NewSessionFromTokens(login.AccessToken, login.RefreshToken, login.AccessTokenExpiresAt)
	me, err := right.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, email, me.Email)
}

func TestLockoutAfterRepeatedFailures(t *testing.T) {
	c := setupAuthContainer(t)
	ctx := t.Context()
	email := "locked@capmanage.test"
	registerAndVerify(t, c, email)

	for i := 0; i < 4; i++ {
		_, err := c.Client.Login(ctx, email, "Wr0ng-password!")
		assertAPIError(t, err, authsdk.ErrInvalidCredentials)
	}

	_, err := c.Client.Login(ctx, email, "Wr0ng-password!")
	assertAPIError(t, err, authsdk.ErrAccountLocked)

	// The right password does not help while locked.
	_, err = c.Client.Login(ctx, email, userPassword)
	assertAPIError(t, err, authsdk.ErrAccountLocked)

	// Resetting the password unlocks the account.
	require.NoError(t, c.Client.RequestPasswordReset(ctx, email))
	const newPassword = "Unl0cked-again!"
	require.NoError(t, c.Client.ResetPassword(ctx, c.mailToken(t, email, "/reset-password"), newPassword))

	_, err = c.Client.Login(ctx, email, newPassword)
	require.NoError(t, err)
}

func TestAdminBootstrapLogin(t *testing.T) {
	c := setupAuthContainer(t)
	ctx := t.Context()

	session, err := c.Client.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	require.Equal(t, "admin", session.User().Role)
	require.True(t, session.User().IsEmailVerified)
}
