package netinfo_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sslsetup/pkg/netinfo"
)

type fakeResolver struct {
	names []string
	err   error
}

func (f fakeResolver) LookupAddr(ctx context.Context, addr string) ([]string, error) {
	return f.names, f.err
}

func ipServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPublicIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{"ipv4", http.StatusOK, "203.0.113.7\n", "203.0.113.7", nil},
		{"ipv6", http.StatusOK, "2001:db8::1", "2001:db8::1", nil},
		{"garbage", http.StatusOK, "<html>", "", netinfo.ErrNoPublicIP},
		{"server error", http.StatusBadGateway, "", "", netinfo.ErrNoPublicIP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := ipServer(t, tt.status, tt.body)
			l := netinfo.New(netinfo.WithEndpoint(srv.URL), netinfo.WithHTTPClient(srv.Client()))

			ip, err := l.PublicIP(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ip)
		})
	}
}

func TestReverseLookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	l := netinfo.New(netinfo.WithResolver(fakeResolver{names: []string{"host.example.com."}}))
	name, err := l.ReverseLookup(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "host.example.com", name)

	l = netinfo.New(netinfo.WithResolver(fakeResolver{err: &net.DNSError{Err: "not found", IsNotFound: true}}))
	_, err = l.ReverseLookup(ctx, "203.0.113.7")
	assert.ErrorIs(t, err, netinfo.ErrNoReverseRecord)

	boom := errors.New("resolver down")
	l = netinfo.New(netinfo.WithResolver(fakeResolver{err: boom}))
	_, err = l.ReverseLookup(ctx, "203.0.113.7")
	assert.ErrorIs(t, err, boom)
}

func TestSuggestDomains(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := ipServer(t, http.StatusOK, "203.0.113.7")

	l := netinfo.New(
		netinfo.WithEndpoint(srv.URL),
		netinfo.WithResolver(fakeResolver{names: []string{"vps-1.example.net."}}),
	)
	ip, domains := l.SuggestDomains(ctx)
	assert.Equal(t, "203.0.113.7", ip)
	assert.Equal(t, []string{"vps-1.example.net"}, domains)

	l = netinfo.New(netinfo.WithEndpoint(srv.URL), netinfo.WithResolver(fakeResolver{}))
	ip, domains = l.SuggestDomains(ctx)
	assert.Equal(t, "203.0.113.7", ip)
	assert.Empty(t, domains)

	down := ipServer(t, http.StatusServiceUnavailable, "")
	ip, domains = netinfo.New(netinfo.WithEndpoint(down.URL)).SuggestDomains(ctx)
	assert.Empty(t, ip)
	assert.Empty(t, domains)
}
