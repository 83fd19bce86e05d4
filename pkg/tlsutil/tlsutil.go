// Package tlsutil builds tls.Config values from in-memory certificate
// material, for gateways whose HTTPS configuration arrives as bytes
// (embedded config, secrets manager payloads) rather than file paths.
package tlsutil

import (
	"crypto/tls"
	"crypto/x509"

	"github.com/sembus/apigw/errors"
)

// ServerConfig describes the TLS material needed to terminate HTTPS.
type ServerConfig struct {
	// Cert and Key are PEM-encoded certificate and private key bytes.
	Cert []byte
	Key  []byte

	// MinVersion is "1.2" or "1.3". Empty defaults to "1.2".
	MinVersion string
}

// LoadServerTLSConfig builds a tls.Config from in-memory PEM bytes.
func LoadServerTLSConfig(cfg ServerConfig) (*tls.Config, error) {
	if len(cfg.Cert) == 0 || len(cfg.Key) == 0 {
		return nil, errors.WrapInvalid(
			errNoCertificate, "tlsutil", "LoadServerTLSConfig", "cert and key must both be set")
	}

	cert, err := tls.X509KeyPair(cfg.Cert, cfg.Key)
	if err != nil {
		return nil, errors.WrapFatal(err, "tlsutil", "LoadServerTLSConfig", "parse certificate pair")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   parseTLSVersion(cfg.MinVersion),
	}, nil
}

// ClientConfig describes additional trust roots for outbound TLS.
type ClientConfig struct {
	// CACerts are additional PEM-encoded CA certificates to trust,
	// appended to the system root pool.
	CACerts [][]byte

	InsecureSkipVerify bool
	MinVersion         string
}

// LoadClientTLSConfig builds a tls.Config for outbound connections,
// starting from the system CA pool and adding any CACerts.
func LoadClientTLSConfig(cfg ClientConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:         parseTLSVersion(cfg.MinVersion),
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	rootCAs, err := x509.SystemCertPool()
	if err != nil || rootCAs == nil {
		rootCAs = x509.NewCertPool()
	}

	for _, ca := range cfg.CACerts {
		if !rootCAs.AppendCertsFromPEM(ca) {
			return nil, errors.WrapInvalid(
				errBadCA, "tlsutil", "LoadClientTLSConfig", "append CA certificate")
		}
	}

	tlsConfig.RootCAs = rootCAs
	return tlsConfig, nil
}

func parseTLSVersion(version string) uint16 {
	switch version {
	case "1.3":
		return tls.VersionTLS13
	case "1.2", "":
		return tls.VersionTLS12
	default:
		return tls.VersionTLS12
	}
}

var (
	errNoCertificate = errNoCertificateSentinel("cert and key required to enable https")
	errBadCA         = errNoCertificateSentinel("invalid PEM data in CA certificate")
)

type errNoCertificateSentinel string

func (e errNoCertificateSentinel) Error() string { return string(e) }
