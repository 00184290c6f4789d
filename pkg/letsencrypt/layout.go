package letsencrypt

import "path/filepath"

// certbot keeps the current certificate of every lineage under
// <config-dir>/live/<domain>/ as symlinks into archive/.
const (
	liveDirName   = "live"
	fullchainFile = "fullchain.pem"
	privkeyFile   = "privkey.pem"
	chainFile     = "chain.pem"
	certFile      = "cert.pem"
)

// LiveDir returns the live directory of domain under a certbot config root
// such as /etc/letsencrypt.
func LiveDir(root, domain string) string {
	return filepath.Join(root, liveDirName, domain)
}

// FullchainPath returns the path of the leaf certificate followed by its chain.
func FullchainPath(root, domain string) string {
	return filepath.Join(LiveDir(root, domain), fullchainFile)
}

// PrivkeyPath returns the path of the certificate's private key.
func PrivkeyPath(root, domain string) string {
	return filepath.Join(LiveDir(root, domain), privkeyFile)
}

// ChainPath returns the path of the intermediate chain without the leaf.
func ChainPath(root, domain string) string {
	return filepath.Join(LiveDir(root, domain), chainFile)
}

// CertPath returns the path of the leaf certificate alone.
func CertPath(root, domain string) string {
	return filepath.Join(LiveDir(root, domain), certFile)
}
