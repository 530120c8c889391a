package gotrue

import (
	"time"
)

// ============================================================================
// Auth Change Events
// ============================================================================

// AuthChangeEvent identifies a session state transition delivered to
// subscribers registered with OnAuthStateChange.
type AuthChangeEvent string

const (
	// SignedIn fires after a successful sign-up (with autoconfirm), sign-in,
	// SetSession with a live token, or URL-based session detection.
	SignedIn AuthChangeEvent = "SIGNED_IN"

	// SignedOut fires after SignOut has cleared the local session.
	SignedOut AuthChangeEvent = "SIGNED_OUT"

	// TokenRefreshed fires whenever a refresh grant produces a new session.
	TokenRefreshed AuthChangeEvent = "TOKEN_REFRESHED"

	// PasswordRecovery fires when a session is detected in a redirect URL
	// whose redirect type is "recovery".
	PasswordRecovery AuthChangeEvent = "PASSWORD_RECOVERY"

	// UserUpdated fires after a successful UpdateUser call.
	UserUpdated AuthChangeEvent = "USER_UPDATED"
)

// ============================================================================
// Flow Types
// ============================================================================

// FlowType selects the redirect-based sign-in flow variant the client is
// configured for.
type FlowType string

const (
	// FlowTypeImplicit returns tokens directly in the redirect URL fragment.
	FlowTypeImplicit FlowType = "implicit"

	// FlowTypePKCE requires a code verifier/challenge pair per RFC 7636.
	FlowTypePKCE FlowType = "pkce"
)

// ============================================================================
// Session
// ============================================================================

// Session is the server-issued token bundle. The client never mutates a
// session's fields after the server returns it; a refresh replaces the whole
// object.
type Session struct {
	// AccessToken is the signed, time-bound JWT used to authenticate requests
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds
	ExpiresIn int64 `json:"expires_in"`

	// ExpiresAt is the epoch-second instant the access token expires at.
	// Derived from ExpiresIn when the server omits it.
	ExpiresAt int64 `json:"expires_at,omitempty"`

	// RefreshToken is the opaque, long-lived token used to obtain new sessions
	RefreshToken string `json:"refresh_token"`

	// User is the profile record embedded in the session
	User *User `json:"user,omitempty"`
}

// Expired reports whether the session's access token has expired, with a
// small margin so tokens are not used right at the expiry boundary.
func (s *Session) Expired() bool {
	return s.ExpiresAt-expiryMarginSeconds <= time.Now().Unix()
}

const expiryMarginSeconds = 30

// ============================================================================
// User
// ============================================================================

// User is the server-issued profile record, including the identity list and
// any enrolled MFA factors.
type User struct {
	ID    string `json:"id"`
	Aud   string `json:"aud,omitempty"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	PhoneConfirmedAt *time.Time `json:"phone_confirmed_at,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	LastSignInAt     *time.Time `json:"last_sign_in_at,omitempty"`

	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`

	Identities []Identity `json:"identities,omitempty"`
	Factors    []Factor   `json:"factors,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is a single linked identity on a user (e.g. an email identity or
// a social provider identity).
type Identity struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	IdentityData map[string]any `json:"identity_data,omitempty"`
	Provider     string         `json:"provider"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	LastSignInAt *time.Time     `json:"last_sign_in_at,omitempty"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
}

// ============================================================================
// MFA Factors
// ============================================================================

// Factor lifecycle states.
const (
	FactorStatusUnverified = "unverified"
	FactorStatusVerified   = "verified"
)

// FactorTypeTOTP is the only factor type the client filters on.
const FactorTypeTOTP = "totp"

// Factor is a registered secondary authentication method on a user.
type Factor struct {
	ID           string    `json:"id"`
	FriendlyName string    `json:"friendly_name,omitempty"`
	FactorType   string    `json:"factor_type"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FactorList is the result of ListFactors: every factor on the user plus the
// subset usable as a second factor (verified TOTP factors).
type FactorList struct {
	All  []Factor `json:"all"`
	TOTP []Factor `json:"totp"`
}

// ============================================================================
// Credentials
// ============================================================================

// GoTrueMetaSecurity carries a captcha verification token alongside a
// request body.
type GoTrueMetaSecurity struct {
	CaptchaToken string `json:"captcha_token"`
}

// SignUpRequest creates a new user with an email+password or phone+password
// pair. Exactly one identifier channel must be present.
type SignUpRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password,omitempty"`

	// Data is arbitrary user metadata stored with the new user
	Data map[string]any `json:"data,omitempty"`

	// Channel selects the messaging channel for phone sign-ups ("sms" or
	// "whatsapp")
	Channel string `json:"channel,omitempty"`

	Security *GoTrueMetaSecurity `json:"gotrue_meta_security,omitempty"`

	// RedirectTo is sent as the redirect_to query parameter, not in the
	// body
	RedirectTo string `json:"-"`
}

func (r SignUpRequest) validate() error {
	if r.Email == "" && r.Phone == "" {
		return ErrMissingCredentials
	}
	if r.Password == "" {
		return ErrMissingPassword
	}
	return nil
}

// PasswordCredentials signs in an existing user with an email+password or
// phone+password pair.
type PasswordCredentials struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`

	Security *GoTrueMetaSecurity `json:"gotrue_meta_security,omitempty"`
}

func (r PasswordCredentials) validate() error {
	if r.Email == "" && r.Phone == "" {
		return ErrMissingCredentials
	}
	if r.Password == "" {
		return ErrMissingPassword
	}
	return nil
}

// OTPCredentials signs a user in with a magic link or one-time password.
// No password is involved; the server sends a code or link over the chosen
// channel.
type OTPCredentials struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	// CreateUser controls whether a missing user is created on the fly
	CreateUser bool `json:"create_user"`

	// Channel selects the messaging channel for phone OTPs ("sms" or
	// "whatsapp")
	Channel string `json:"channel,omitempty"`

	// Data is arbitrary user metadata stored if a user is created
	Data map[string]any `json:"data,omitempty"`

	Security *GoTrueMetaSecurity `json:"gotrue_meta_security,omitempty"`

	RedirectTo string `json:"-"`
}

func (r OTPCredentials) validate() error {
	if r.Email == "" && r.Phone == "" {
		return ErrMissingCredentials
	}
	return nil
}

// ============================================================================
// Operation Results
// ============================================================================

// AuthResponse pairs the user record with the session, when one was issued.
// Session is nil when the server requires confirmation before issuing tokens.
type AuthResponse struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}

// UserAttributes are the updatable fields on the current user. Zero-valued
// fields are omitted from the request.
type UserAttributes struct {
	Email    string         `json:"email,omitempty"`
	Phone    string         `json:"phone,omitempty"`
	Password string         `json:"password,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Nonce    string         `json:"nonce,omitempty"`
}

// AuthenticatorAssuranceLevel describes the session's current assurance
// level and the highest level it can be raised to. Levels are "" when no
// session material exists.
type AuthenticatorAssuranceLevel struct {
	CurrentLevel string `json:"currentLevel"`
	NextLevel    string `json:"nextLevel"`

	// CurrentAuthenticationMethods is the ordered amr claim of the access
	// token
	CurrentAuthenticationMethods []AMREntry `json:"currentAuthenticationMethods"`
}

// AALLevel values as issued by the server.
const (
	AAL1 = "aal1"
	AAL2 = "aal2"
)
