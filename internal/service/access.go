package service

import (
	"crypto/subtle"
	"strings"
)

type View string

const (
	ViewFull    View = "full"
	ViewPreview View = "preview"
)

// Caller identifies who is asking. Token is the bearer token, if any.
type Caller struct {
	ClientIP string
	Token    string
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func (s *Service) authenticated(c Caller) bool {
	if c.Token == "" {
		return false
	}
	for _, t := range s.flags.AccessTokens {
		if subtle.ConstantTimeCompare([]byte(t), []byte(c.Token)) == 1 {
			return true
		}
	}
	return false
}

// ViewFor decides how much of a report the caller may see. Beta mode shows
// everyone a preview; with monetization off everyone gets the full report;
// otherwise only token holders do.
func (s *Service) ViewFor(c Caller) View {
	switch {
	case s.flags.BetaMode:
		return ViewPreview
	case !s.flags.MonetizationEnabled:
		return ViewFull
	case s.authenticated(c):
		return ViewFull
	default:
		return ViewPreview
	}
}

// quotaApplies reports whether the free-preview quota limits this caller.
func (s *Service) quotaApplies(c Caller) bool {
	return s.limiter != nil && !s.flags.BetaMode && !s.authenticated(c)
}

// canManage gates project settings changes.
func (s *Service) canManage(c Caller) bool {
	return !s.flags.MonetizationEnabled || s.authenticated(c)
}
