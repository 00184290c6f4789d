package provision_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sslsetup/core/nginxconf"
	"github.com/dmitrymomot/sslsetup/core/provision"
)

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     provision.Request
		wantErr error
	}{
		{"domain and email", provision.Request{Domain: "example.com", Email: "a@b.com"}, nil},
		{"no email", provision.Request{Domain: "www.example.com"}, nil},
		{"empty domain", provision.Request{}, nginxconf.ErrInvalidDomain},
		{"directive injection", provision.Request{Domain: "example.com; return 200"}, nginxconf.ErrInvalidDomain},
		{"display name email", provision.Request{Domain: "example.com", Email: "Bob <a@b.com>"}, provision.ErrInvalidEmail},
		{"email with flag", provision.Request{Domain: "example.com", Email: "a@b.com --staging"}, provision.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, provision.ErrInvalidRequest)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRequestNormalize(t *testing.T) {
	t.Parallel()

	got := provision.Request{Domain: " WWW.Example.com. ", Email: " a@b.com "}.Normalize()
	assert.Equal(t, provision.Request{Domain: "www.example.com", Email: "a@b.com"}, got)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := provision.DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "/nginx/conf/default.conf", cfg.ConfPath())

	cfg.CertbotImage = ""
	err := cfg.Validate()
	assert.ErrorIs(t, err, provision.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "certbot image is empty")
}
