package gotrue

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AdminClient exposes privileged operations against the /admin endpoints.
// These should only be used in a trusted server-side environment: the parent
// client must be constructed with the service-level key, not the anon key.
type AdminClient struct {
	client *Client
}

// ============================================================================
// User CRUD
// ============================================================================

// AdminCreateUserRequest creates a user directly, bypassing the sign-up
// confirmation flow when the confirm flags are set.
type AdminCreateUserRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password,omitempty"`

	// EmailConfirm / PhoneConfirm auto-confirm the corresponding channel
	EmailConfirm bool `json:"email_confirm,omitempty"`
	PhoneConfirm bool `json:"phone_confirm,omitempty"`

	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`

	Role string `json:"role,omitempty"`
}

// CreateUser creates a new user with the given attributes.
func (a *AdminClient) CreateUser(ctx context.Context, req AdminCreateUserRequest) (*User, error) {
	if req.Email == "" && req.Phone == "" {
		return nil, ErrMissingCredentials
	}

	user := &User{}
	if err := a.client.callInto(ctx, http.MethodPost, "/admin/users", "", req, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user with the given id.
func (a *AdminClient) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return NewValidationError("you must provide a user id")
	}
	return a.client.callInto(ctx, http.MethodDelete, "/admin/users/"+userID, "", nil, nil)
}

// UserList is one page of users.
type UserList struct {
	Users []User `json:"users"`
	Aud   string `json:"aud,omitempty"`
}

// ListUsers returns a page of users. Page numbering starts at 1; zero values
// leave the server defaults in place.
func (a *AdminClient) ListUsers(ctx context.Context, page, perPage int) (*UserList, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if perPage > 0 {
		params.Set("per_page", fmt.Sprint(perPage))
	}
	path := "/admin/users"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	list := &UserList{}
	if err := a.client.callInto(ctx, http.MethodGet, path, "", nil, list); err != nil {
		return nil, err
	}
	return list, nil
}

// ============================================================================
// Action Links
// ============================================================================

// Action link types accepted by GenerateLink.
const (
	LinkTypeSignup             = "signup"
	LinkTypeInvite             = "invite"
	LinkTypeMagicLink          = "magiclink"
	LinkTypeRecovery           = "recovery"
	LinkTypeEmailChangeCurrent = "email_change_current"
	LinkTypeEmailChangeNew     = "email_change_new"
)

// GenerateLinkRequest asks the server to mint an email action link of the
// given type. Email is always required; NewEmail is required for the email
// change types, and Password only applies to signup links.
type GenerateLinkRequest struct {
	Type       string         `json:"type"`
	Email      string         `json:"email"`
	NewEmail   string         `json:"new_email,omitempty"`
	Password   string         `json:"password,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	RedirectTo string         `json:"redirect_to,omitempty"`
}

func (r GenerateLinkRequest) validate() error {
	switch r.Type {
	case LinkTypeSignup, LinkTypeInvite, LinkTypeMagicLink, LinkTypeRecovery:
		if r.Email == "" {
			return NewValidationError("%s links require an email address", r.Type)
		}
	case LinkTypeEmailChangeCurrent, LinkTypeEmailChangeNew:
		if r.Email == "" || r.NewEmail == "" {
			return NewValidationError("email change links require both the current and the new email address")
		}
	default:
		return NewValidationError("unknown link type %q", r.Type)
	}
	return nil
}

// GenerateLinkResponse is the minted link plus the token material embedded
// in it and the affected user record.
type GenerateLinkResponse struct {
	ActionLink       string `json:"action_link"`
	EmailOTP         string `json:"email_otp"`
	HashedToken      string `json:"hashed_token"`
	VerificationType string `json:"verification_type"`
	RedirectTo       string `json:"redirect_to"`

	User
}

// GenerateLink creates an email action link without sending an email,
// letting the caller deliver it through their own channel.
func (a *AdminClient) GenerateLink(ctx context.Context, req GenerateLinkRequest) (*GenerateLinkResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	resp := &GenerateLinkResponse{}
	if err := a.client.callInto(ctx, http.MethodPost, "/admin/generate_link", "", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ============================================================================
// Invites and Revocation
// ============================================================================

// InviteOptions tweak an InviteUserByEmail call.
type InviteOptions struct {
	// Data is arbitrary user metadata stored with the invited user
	Data map[string]any

	// RedirectTo is where the user lands after accepting the invite
	RedirectTo string
}

// InviteUserByEmail sends an invite email and returns the pre-created user.
func (a *AdminClient) InviteUserByEmail(ctx context.Context, email string, opts *InviteOptions) (*User, error) {
	if email == "" {
		return nil, NewValidationError("you must provide an email address")
	}

	body := map[string]any{"email": email}
	path := "/invite"
	if opts != nil {
		if opts.Data != nil {
			body["data"] = opts.Data
		}
		if opts.RedirectTo != "" {
			path += "?redirect_to=" + url.QueryEscape(opts.RedirectTo)
		}
	}

	user := &User{}
	if err := a.client.callInto(ctx, http.MethodPost, path, "", body, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignOut revokes all refresh tokens behind the given access token. The
// access token itself stays valid until it expires.
func (a *AdminClient) SignOut(ctx context.Context, jwt string) error {
	if jwt == "" {
		return ErrMissingToken
	}
	return a.client.callInto(ctx, http.MethodPost, "/logout", jwt, nil, nil)
}
