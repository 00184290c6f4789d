package letsencrypt

import "errors"

var (
	// ErrCertificateNotFound is returned when no certificate file exists for a domain.
	ErrCertificateNotFound = errors.New("certificate not found")

	// ErrInvalidCertificate is returned when a certificate file cannot be parsed
	// or does not match the expected domain.
	ErrInvalidCertificate = errors.New("invalid certificate")
)
