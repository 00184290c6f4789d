package provision

import (
	"errors"
	"path/filepath"
)

// Config holds the images, container names and host paths used by the pipeline.
type Config struct {
	NginxImage       string `env:"NGINX_IMAGE" envDefault:"nginx:alpine"`
	CertbotImage     string `env:"CERTBOT_IMAGE" envDefault:"certbot/certbot"`
	NginxContainer   string `env:"NGINX_CONTAINER" envDefault:"nginx"`
	CertbotContainer string `env:"CERTBOT_CONTAINER" envDefault:"certbot"`

	NginxConfDir  string `env:"NGINX_CONF_DIR" envDefault:"/nginx/conf"`
	NginxConfFile string `env:"NGINX_CONF_FILE" envDefault:"default.conf"`
	WebrootDir    string `env:"CERT_WEBROOT_DIR" envDefault:"/cert/www"`
	CertDir       string `env:"CERT_CONF_DIR" envDefault:"/cert/conf"`
	LogsDir       string `env:"CERT_LOGS_DIR" envDefault:"/cert/logs"`

	// Staging requests certificates from the Let's Encrypt staging environment.
	Staging bool `env:"CERTBOT_STAGING" envDefault:"false"`
}

// DefaultConfig returns the layout used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		NginxImage:       "nginx:alpine",
		CertbotImage:     "certbot/certbot",
		NginxContainer:   "nginx",
		CertbotContainer: "certbot",
		NginxConfDir:     "/nginx/conf",
		NginxConfFile:    "default.conf",
		WebrootDir:       "/cert/www",
		CertDir:          "/cert/conf",
		LogsDir:          "/cert/logs",
	}
}

// ConfPath is the live nginx config file.
func (c Config) ConfPath() string {
	return filepath.Join(c.NginxConfDir, c.NginxConfFile)
}

// Validate reports missing fields.
func (c Config) Validate() error {
	var errs []error
	required := []struct{ name, value string }{
		{"nginx image", c.NginxImage},
		{"certbot image", c.CertbotImage},
		{"nginx container", c.NginxContainer},
		{"certbot container", c.CertbotContainer},
		{"nginx conf dir", c.NginxConfDir},
		{"nginx conf file", c.NginxConfFile},
		{"webroot dir", c.WebrootDir},
		{"cert dir", c.CertDir},
		{"logs dir", c.LogsDir},
	}
	for _, f := range required {
		if f.value == "" {
			errs = append(errs, errors.New(f.name+" is empty"))
		}
	}
	if len(errs) > 0 {
		return errors.Join(ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
