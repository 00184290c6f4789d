package nginxconf

import (
	"bytes"
	"path"
	"text/template"
)

// Paths inside the reverse-proxy and issuance-agent containers.
const (
	// ConfDir is where nginx loads server blocks from.
	ConfDir = "/etc/nginx/conf.d"

	// WebrootDir is the ACME challenge webroot shared by both containers.
	WebrootDir = "/var/www/certbot"

	// LetsEncryptDir is the certificate store shared by both containers.
	LetsEncryptDir = "/etc/letsencrypt"

	// LetsEncryptLogDir is where certbot writes its logs.
	LetsEncryptLogDir = "/var/log/letsencrypt"

	// HTMLRoot is the default document root of the nginx image.
	HTMLRoot = "/usr/share/nginx/html"
)

// CertificatePath returns the in-container path of the issued full chain.
func CertificatePath(domain string) string {
	return path.Join(LetsEncryptDir, "live", domain, "fullchain.pem")
}

// KeyPath returns the in-container path of the issued private key.
func KeyPath(domain string) string {
	return path.Join(LetsEncryptDir, "live", domain, "privkey.pem")
}

type templateData struct {
	Domain   string
	Webroot  string
	HTMLRoot string
	CertPath string
	KeyPath  string
}

var (
	httpOnlyTmpl = template.Must(template.New("http").Parse(httpOnlyTemplate))
	httpsTmpl    = template.Must(template.New("https").Parse(httpsTemplate))
)

// RenderHTTPOnly renders the challenge-serving configuration for domain.
func RenderHTTPOnly(domain string) string {
	return render(httpOnlyTmpl, domain)
}

// RenderHTTPS renders the TLS configuration for domain, with a plain HTTP
// server block that redirects every request to HTTPS.
func RenderHTTPS(domain string) string {
	return render(httpsTmpl, domain)
}

func render(tmpl *template.Template, domain string) string {
	data := templateData{
		Domain:   domain,
		Webroot:  WebrootDir,
		HTMLRoot: HTMLRoot,
		CertPath: CertificatePath(domain),
		KeyPath:  KeyPath(domain),
	}

	var buf bytes.Buffer
	// Both templates are static and reference only string fields of templateData,
	// so execution cannot fail.
	if err := tmpl.Execute(&buf, data); err != nil {
		panic("nginxconf: " + err.Error())
	}
	return buf.String()
}

const httpOnlyTemplate = `server {
    listen 80;
    server_name {{.Domain}};

    location / {
        root {{.HTMLRoot}};
        index index.html index.htm;
    }

    location /.well-known/acme-challenge/ {
        root {{.Webroot}};
    }
}
`

const httpsTemplate = `server {
    listen 80;
    server_name {{.Domain}};
    return 301 https://$host$request_uri;
}

server {
    listen 443 ssl;
    server_name {{.Domain}};

    ssl_certificate {{.CertPath}};
    ssl_certificate_key {{.KeyPath}};
    ssl_protocols TLSv1.2 TLSv1.3;
    ssl_ciphers HIGH:!aNULL:!MD5;

    location / {
        root {{.HTMLRoot}};
        index index.html index.htm;
    }
}
`
