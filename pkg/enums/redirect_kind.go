package enums

import "fmt"

// RedirectKind describes how a card gateway hands the shopper off: a hosted
// iframe URL to embed, or raw 3-D-Secure challenge markup to inject.
type RedirectKind string

const (
	RedirectKindIframeURL     RedirectKind = "iframe_url"
	RedirectKindHTMLChallenge RedirectKind = "html_challenge"
)

var validRedirectKinds = []RedirectKind{
	RedirectKindIframeURL,
	RedirectKindHTMLChallenge,
}

// String implements fmt.Stringer.
func (r RedirectKind) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RedirectKind.
func (r RedirectKind) IsValid() bool {
	for _, candidate := range validRedirectKinds {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRedirectKind converts raw input into a RedirectKind.
func ParseRedirectKind(value string) (RedirectKind, error) {
	for _, candidate := range validRedirectKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid redirect kind %q", value)
}
