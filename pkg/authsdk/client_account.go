package authsdk

import (
	"context"
	"net/http"
)

// Register creates a student account. The account cannot log in until the
// emailed verification token has been redeemed with VerifyEmail.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	resp, err := c.postJSON(ctx, APIPrefix+"/register", req)
	if err != nil {
		return nil, err
	}

	out, err := decodeData[UserResponse](resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterFaculty asks for a faculty account. The request answers 202; the
// account can log in once its email is verified and an admin has approved
// the request.
func (c *SDKClient) RegisterFaculty(ctx context.Context, req RegisterFacultyRequest) (*FacultyRequestResponse, error) {
	resp, err := c.postJSON(ctx, APIPrefix+"/register/faculty", req)
	if err != nil {
		return nil, err
	}

	out, err := decodeData[FacultyRequestResponse](resp, http.StatusAccepted)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail redeems an email verification token.
func (c *SDKClient) VerifyEmail(ctx context.Context, token string) (*UserResponse, error) {
	resp, err := c.postJSON(ctx, APIPrefix+"/verify-email", TokenRequest{Token: token})
	if err != nil {
		return nil, err
	}

	out, err := decodeData[UserResponse](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendVerification asks for a new verification email. The service answers
// the same way whether or not the account exists.
func (c *SDKClient) ResendVerification(ctx context.Context, email string) error {
	return c.postMessage(ctx, "/verify-email/resend", EmailRequest{Email: email})
}

// RequestPasswordReset asks for a password reset email. The service answers
// the same way whether or not the account exists.
func (c *SDKClient) RequestPasswordReset(ctx context.Context, email string) error {
	return c.postMessage(ctx, "/password/request-reset", EmailRequest{Email: email})
}

// ResetPassword redeems a password reset token and sets a new password. Every
// refresh token of the account is revoked.
func (c *SDKClient) ResetPassword(ctx context.Context, token, password string) error {
	return c.postMessage(ctx, "/password/reset", ResetPasswordRequest{Token: token, Password: password})
}

func (c *SDKClient) postMessage(ctx context.Context, path string, payload any) error {
	resp, err := c.postJSON(ctx, APIPrefix+path, payload)
	if err != nil {
		return err
	}

	_, err = decodeData[MessageResponse](resp, http.StatusOK)
	return err
}
