// Package letsencrypt reads what certbot leaves on disk.
//
// certbot keeps the current certificate of a domain under
// <config root>/live/<domain>/ as fullchain.pem, privkey.pem, chain.pem and
// cert.pem. The layout helpers build those paths for a host-side config root;
// Inspect parses a bundle and describes its leaf certificate.
//
//	info, err := letsencrypt.InspectDomain("/cert/conf", "example.com")
//	if errors.Is(err, letsencrypt.ErrCertificateNotFound) {
//		// certbot has not issued anything yet
//	}
//	fmt.Println(info.NotAfter)
package letsencrypt
