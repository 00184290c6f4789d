package nginxconf_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sslsetup/core/nginxconf"
)

func TestRenderHTTPOnly(t *testing.T) {
	t.Parallel()

	conf := nginxconf.RenderHTTPOnly("example.com")

	assert.Equal(t, conf, nginxconf.RenderHTTPOnly("example.com"), "rendering must be deterministic")
	assert.Contains(t, conf, "listen 80;")
	assert.Contains(t, conf, "server_name example.com;")
	assert.Contains(t, conf, "location /.well-known/acme-challenge/ {\n        root /var/www/certbot;")
	assert.Contains(t, conf, "root /usr/share/nginx/html;")
	assert.NotContains(t, conf, "443")
	assert.NotContains(t, conf, "ssl_certificate")
}

func TestRenderHTTPS(t *testing.T) {
	t.Parallel()

	conf := nginxconf.RenderHTTPS("example.com")

	assert.Equal(t, conf, nginxconf.RenderHTTPS("example.com"))
	assert.Equal(t, 2, strings.Count(conf, "server_name example.com;"), "redirect and TLS blocks")
	assert.Contains(t, conf, "return 301 https://$host$request_uri;")
	assert.Contains(t, conf, "listen 443 ssl;")
	assert.Contains(t, conf, "ssl_certificate /etc/letsencrypt/live/example.com/fullchain.pem;")
	assert.Contains(t, conf, "ssl_certificate_key /etc/letsencrypt/live/example.com/privkey.pem;")
	assert.Contains(t, conf, "ssl_protocols TLSv1.2 TLSv1.3;")
	assert.Contains(t, conf, "ssl_ciphers HIGH:!aNULL:!MD5;")
	assert.NotContains(t, conf, "acme-challenge")
}

func TestRenderEmbedsOnlyGivenDomain(t *testing.T) {
	t.Parallel()

	conf := nginxconf.RenderHTTPS("a.example.org")
	assert.NotContains(t, conf, "example.com")
	assert.Equal(t, 4, strings.Count(conf, "a.example.org"))
}

func TestPaths(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/etc/letsencrypt/live/example.com/fullchain.pem", nginxconf.CertificatePath("example.com"))
	assert.Equal(t, "/etc/letsencrypt/live/example.com/privkey.pem", nginxconf.KeyPath("example.com"))
}

func TestValidateDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		domain string
		valid  bool
	}{
		{"example.com", true},
		{"sub-domain.example.co.uk", true},
		{"xn--80ak6aa92e.com", true},
		{"", false},
		{"localhost", false},
		{"-bad.example.com", false},
		{"bad-.example.com", false},
		{"exa mple.com", false},
		{"example.com; include /etc/passwd", false},
		{"example..com", false},
		{strings.Repeat("a", 64) + ".com", false},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			err := nginxconf.ValidateDomain(tt.domain)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, nginxconf.ErrInvalidDomain)
			}
		})
	}
}
