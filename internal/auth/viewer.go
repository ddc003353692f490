package auth

import "strings"

// Viewer gate defaults.
const (
	DefaultViewerDomain = "@haguroko.ed.jp"
	ViewerCookieName    = "lf_viewer_verified"
	ViewerCookieDays    = 7
)

// IsAllowedViewerEmail reports whether email belongs to the school domain.
// The check is a deterrent for casual browsing, not an authentication step.
func IsAllowedViewerEmail(email, domain string) bool {
	if domain == "" {
		domain = DefaultViewerDomain
	}
	email = strings.ToLower(strings.TrimSpace(email))
	domain = strings.ToLower(domain)
	if !strings.HasSuffix(email, domain) {
		return false
	}
	// Something has to precede the domain.
	return len(email) > len(domain)
}
