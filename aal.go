package gotrue

import (
	"context"
)

// ListFactors returns every factor enrolled on the user behind jwt, plus the
// subset usable as a second factor: verified TOTP factors.
func (c *Client) ListFactors(ctx context.Context, jwt string) (*FactorList, error) {
	user, err := c.GetUser(ctx, jwt)
	if err != nil {
		return nil, err
	}

	all := user.Factors
	totp := make([]Factor, 0, len(all))
	for _, factor := range all {
		if factor.FactorType == FactorTypeTOTP && factor.Status == FactorStatusVerified {
			totp = append(totp, factor)
		}
	}

	return &FactorList{All: all, TOTP: totp}, nil
}

// GetAuthenticatorAssuranceLevel computes the assurance level of the session
// behind jwt.
//
// The current level is the token's aal claim. The next level starts equal to
// it, but any verified factor on the user forces it to aal2: a verified
// second factor always means the user can reach aal2, independent of what
// the current token claims.
func (c *Client) GetAuthenticatorAssuranceLevel(ctx context.Context, jwt string) (*AuthenticatorAssuranceLevel, error) {
	if jwt == "" {
		return nil, ErrMissingToken
	}

	user, err := c.GetUser(ctx, jwt)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID == "" {
		return &AuthenticatorAssuranceLevel{
			CurrentAuthenticationMethods: []AMREntry{},
		}, nil
	}

	claims, err := DecodeAccessToken(jwt)
	if err != nil {
		return nil, err
	}

	currentLevel := claims.AuthenticatorAssuranceLevel
	nextLevel := currentLevel
	for _, factor := range user.Factors {
		if factor.Status == FactorStatusVerified {
			nextLevel = AAL2
			break
		}
	}

	methods := claims.AuthenticationMethods
	if methods == nil {
		methods = []AMREntry{}
	}

	return &AuthenticatorAssuranceLevel{
		CurrentLevel:                 currentLevel,
		NextLevel:                    nextLevel,
		CurrentAuthenticationMethods: methods,
	}, nil
}
