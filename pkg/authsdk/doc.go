/*
Package authsdk provides a client SDK for the CapManage authentication service.

# Overview

The service speaks JSON over HTTP. Every response is an envelope:

	{"success": true, "data": {...}}
	{"success": false, "error": {"message": "...", "code": 409, "reason": "already_used"}}

The SDK unwraps successful envelopes into typed responses and turns error
envelopes into *APIError values that can be matched with errors.Is against
the predefined errors in this package.

# SDKClient vs Session

  - SDKClient: the public endpoints (register, verify, login, password reset, health)
  - Session: calls made on behalf of a logged in user, with automatic refresh

	client := authsdk.NewSDKClient("https://auth.example.com")

	if _, err := client.Register(ctx, authsdk.RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "Sup3r-secret!",
	}); err != nil {
		return err
	}

	// The token arrives by email.
	if _, err := client.VerifyEmail(ctx, token); err != nil {
		if errors.Is(err, authsdk.ErrAlreadyUsed) {
			// the link was clicked twice
		}
		return err
	}

	session, err := client.Login(ctx, "ada@example.com", "Sup3r-secret!")
	if err != nil {
		return err
	}
	defer session.Logout(ctx)

	me, err := session.Me(ctx)

# Token rotation

Refresh tokens are single use. Every refresh hands back a new refresh token
and revokes the old one, so a Session serialises its refreshes and always
keeps the newest pair. Sessions are safe for concurrent use.

# Server side

The predefined *APIError values are also what the service writes, through
APIError.WriteError, so client and server agree on status codes and reasons.
*/
package authsdk
