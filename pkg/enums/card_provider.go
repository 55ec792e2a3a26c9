package enums

import "fmt"

// CardProvider identifies one of the hosted card payment gateways.
type CardProvider string

const (
	// CardProviderIyzico collects card fields inline and answers with a
	// 3-D-Secure HTML challenge.
	CardProviderIyzico CardProvider = "iyzico"
	// CardProviderPaytr answers with a hosted iframe URL.
	CardProviderPaytr CardProvider = "paytr"
)

var validCardProviders = []CardProvider{
	CardProviderIyzico,
	CardProviderPaytr,
}

// String implements fmt.Stringer.
func (c CardProvider) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CardProvider.
func (c CardProvider) IsValid() bool {
	for _, candidate := range validCardProviders {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCardProvider converts raw input into a CardProvider.
func ParseCardProvider(value string) (CardProvider, error) {
	for _, candidate := range validCardProviders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid card provider %q", value)
}
