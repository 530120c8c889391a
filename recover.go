package gotrue

import (
	"context"
	"net/http"
)

// ResetPasswordOptions tweak a ResetPasswordForEmail call.
type ResetPasswordOptions struct {
	// RedirectTo is where the user lands after clicking the reset link
	RedirectTo string

	// CaptchaToken is the verification token from a completed captcha
	CaptchaToken string
}

// ResetPasswordForEmail sends a password reset request to an email address.
//
// Clients configured for the PKCE flow generate a code verifier here, stash
// it in session storage, and send the derived challenge with the request so
// the later code exchange can complete.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email string, opts ResetPasswordOptions) error {
	if email == "" {
		return NewValidationError("you must provide an email address")
	}

	body := map[string]any{
		"email": email,
	}
	if opts.RedirectTo != "" {
		body["redirect_to"] = opts.RedirectTo
	}
	if opts.CaptchaToken != "" {
		body["gotrue_meta_security"] = GoTrueMetaSecurity{CaptchaToken: opts.CaptchaToken}
	}

	if c.flowType == FlowTypePKCE {
		pkce, err := GeneratePKCEChallenge()
		if err != nil {
			return err
		}
		if err := c.storage.Set(c.codeVerifierKey(), pkce.Verifier); err != nil {
			return err
		}
		body["code_challenge"] = pkce.Challenge
		body["code_challenge_method"] = pkce.Method
	}

	return c.callInto(ctx, http.MethodPut, "/recover", "", body, nil)
}
