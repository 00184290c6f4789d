package netinfo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint returns the caller's public IP as plain text.
const DefaultEndpoint = "https://api.ipify.org"

var (
	// ErrNoPublicIP is returned when the endpoint answers with something that is not an IP.
	ErrNoPublicIP = errors.New("public ip not available")

	// ErrNoReverseRecord is returned when the address has no PTR record.
	ErrNoReverseRecord = errors.New("no reverse dns record")
)

// Resolver looks up PTR records. *net.Resolver satisfies it.
type Resolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// Config holds environment configuration for Lookup.
type Config struct {
	Endpoint string        `env:"PUBLIC_IP_URL" envDefault:"https://api.ipify.org"`
	Timeout  time.Duration `env:"PUBLIC_IP_TIMEOUT" envDefault:"5s"`
}

// Lookup resolves network facts about the host.
type Lookup struct {
	endpoint string
	client   *http.Client
	resolver Resolver
}

// Option configures a Lookup.
type Option func(*Lookup)

// WithEndpoint overrides the public IP endpoint.
func WithEndpoint(url string) Option {
	return func(l *Lookup) {
		if url = strings.TrimSpace(url); url != "" {
			l.endpoint = url
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Lookup) {
		if c != nil {
			l.client = c
		}
	}
}

// WithResolver overrides the DNS resolver.
func WithResolver(r Resolver) Option {
	return func(l *Lookup) {
		if r != nil {
			l.resolver = r
		}
	}
}

// New creates a Lookup with a 5 second HTTP timeout and the default resolver.
func New(opts ...Option) *Lookup {
	l := &Lookup{
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
		resolver: net.DefaultResolver,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewFromConfig creates a Lookup from Config.
func NewFromConfig(cfg Config, opts ...Option) *Lookup {
	base := []Option{WithEndpoint(cfg.Endpoint)}
	if cfg.Timeout > 0 {
		base = append(base, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	return New(append(base, opts...)...)
}

// PublicIP asks the configured endpoint for the host's public address.
func (l *Lookup) PublicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build public ip request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("public ip request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: endpoint returned %s", ErrNoPublicIP, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", fmt.Errorf("read public ip response: %w", err)
	}

	ip := net.ParseIP(strings.TrimSpace(string(body)))
	if ip == nil {
		return "", ErrNoPublicIP
	}
	return ip.String(), nil
}

// ReverseLookup returns the first PTR name of ip without its trailing dot.
func (l *Lookup) ReverseLookup(ctx context.Context, ip string) (string, error) {
	names, err := l.resolver.LookupAddr(ctx, ip)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return "", ErrNoReverseRecord
		}
		return "", fmt.Errorf("reverse lookup %s: %w", ip, err)
	}
	for _, name := range names {
		if name = strings.TrimSuffix(name, "."); name != "" {
			return name, nil
		}
	}
	return "", ErrNoReverseRecord
}

// SuggestDomains returns the public IP and the domains worth offering for it.
// Failures yield empty results; the form still works without suggestions.
func (l *Lookup) SuggestDomains(ctx context.Context) (string, []string) {
	ip, err := l.PublicIP(ctx)
	if err != nil {
		return "", nil
	}
	name, err := l.ReverseLookup(ctx, ip)
	if err != nil {
		return ip, nil
	}
	return ip, []string{name}
}
