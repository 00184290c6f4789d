// Package netinfo discovers the host's public IP address and the hostname its
// reverse DNS record points at. The provisioning form uses both to suggest a
// domain.
//
//	r := netinfo.New(netinfo.WithEndpoint("https://api.ipify.org"))
//	ip, domains := r.SuggestDomains(ctx)
package netinfo
