package provision

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrymomot/sslsetup/core/nginxconf"
)

// Request asks for a certificate for Domain. An empty Email registers the
// ACME account without an email address.
type Request struct {
	Domain string `json:"domain"`
	Email  string `json:"email,omitempty"`
}

// Normalize trims whitespace and lowercases the domain.
func (r Request) Normalize() Request {
	return Request{
		Domain: strings.ToLower(strings.TrimSuffix(strings.TrimSpace(r.Domain), ".")),
		Email:  strings.TrimSpace(r.Email),
	}
}

// Validate checks the domain and, when present, the email.
func (r Request) Validate() error {
	if err := nginxconf.ValidateDomain(r.Domain); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidRequest, r.Domain, err)
	}
	if r.Email == "" {
		return nil
	}
	addr, err := mail.ParseAddress(r.Email)
	if err != nil || addr.Address != r.Email || strings.ContainsAny(r.Email, " \t\r\n") {
		return fmt.Errorf("%w: %q: %w", ErrInvalidRequest, r.Email, ErrInvalidEmail)
	}
	return nil
}
