package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// APITLS builds a *tls.Config for the CRM API client.
// Returns nil, nil if nothing is configured (system roots, no client cert).
func (c *Config) APITLS() (*tls.Config, error) {
	t := c.CRMAPITLS
	if t.CACert == "" && t.Cert == "" && t.Key == "" && t.ServerName == "" {
		return nil, nil
	}

	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if t.Cert != "" || t.Key != "" {
		if t.Cert == "" || t.Key == "" {
			return nil, fmt.Errorf("CRM_API_TLS_CERT and CRM_API_TLS_KEY must be set together")
		}
		cert, err := tls.LoadX509KeyPair(t.Cert, t.Key)
		if err != nil {
			return nil, fmt.Errorf("load CRM API client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if t.CACert != "" {
		caPEM, err := os.ReadFile(t.CACert)
		if err != nil {
			return nil, fmt.Errorf("read CRM API CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("failed to parse CRM API CA cert")
		}
		tlsConfig.RootCAs = pool
	}

	if t.ServerName != "" {
		tlsConfig.ServerName = t.ServerName
	}

	return tlsConfig, nil
}
