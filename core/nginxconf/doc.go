// Package nginxconf renders the reverse-proxy configuration used while provisioning
// a certificate for a single domain.
//
// Two phases are supported:
//
//   - RenderHTTPOnly: port 80 only, serves the ACME webroot challenge path.
//   - RenderHTTPS: port 80 redirects to HTTPS, port 443 terminates TLS with the
//     certificate issued into /etc/letsencrypt/live/<domain>/.
//
// Both functions are pure: the same domain always yields the same text. Writing
// the result to disk is the caller's job.
//
// Rendering does not validate its input. Call ValidateDomain at the request
// boundary before a domain ever reaches a renderer.
package nginxconf
