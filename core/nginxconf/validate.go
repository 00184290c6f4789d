package nginxconf

import (
	"errors"
	"strings"
)

// ErrInvalidDomain is returned when a domain cannot be used as an nginx server_name.
var ErrInvalidDomain = errors.New("invalid domain name")

const maxDomainLength = 253

// ValidateDomain checks that domain is a plain DNS hostname: dot-separated labels of
// letters, digits and hyphens, no leading or trailing hyphen in a label, at least two
// labels. It does not check DNS records or ownership.
func ValidateDomain(domain string) error {
	if domain == "" || len(domain) > maxDomainLength {
		return ErrInvalidDomain
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return ErrInvalidDomain
	}

	for _, label := range labels {
		if !validLabel(label) {
			return ErrInvalidDomain
		}
	}
	return nil
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}
