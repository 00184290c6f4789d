package letsencrypt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-acme/lego/v4/certcrypto"
)

// CertificateInfo summarizes the leaf of an issued certificate bundle.
type CertificateInfo struct {
	Subject   string
	DNSNames  []string
	Issuer    string
	NotBefore time.Time
	NotAfter  time.Time
}

// Expired reports whether the certificate is no longer valid at now.
func (c *CertificateInfo) Expired(now time.Time) bool {
	return now.After(c.NotAfter)
}

// Covers reports whether domain is one of the certificate's names.
func (c *CertificateInfo) Covers(domain string) bool {
	for _, name := range c.DNSNames {
		if name == domain {
			return true
		}
	}
	return false
}

// Inspect parses a PEM bundle and describes its first (leaf) certificate.
func Inspect(bundle []byte) (*CertificateInfo, error) {
	certs, err := certcrypto.ParsePEMBundle(bundle)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCertificate, err)
	}
	if len(certs) == 0 {
		return nil, ErrInvalidCertificate
	}

	leaf := certs[0]
	return &CertificateInfo{
		Subject:   leaf.Subject.CommonName,
		DNSNames:  certcrypto.ExtractDomains(leaf),
		Issuer:    leaf.Issuer.CommonName,
		NotBefore: leaf.NotBefore,
		NotAfter:  leaf.NotAfter,
	}, nil
}

// InspectFile reads and inspects a PEM bundle from disk.
func InspectFile(path string) (*CertificateInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCertificateNotFound, path)
		}
		return nil, fmt.Errorf("read certificate %s: %w", path, err)
	}
	return Inspect(data)
}

// InspectDomain inspects the live full chain of domain under a certbot config root.
func InspectDomain(root, domain string) (*CertificateInfo, error) {
	info, err := InspectFile(FullchainPath(root, domain))
	if err != nil {
		return nil, err
	}
	if !info.Covers(domain) {
		return nil, fmt.Errorf("%w: certificate does not cover %s", ErrInvalidCertificate, domain)
	}
	return info, nil
}
