package domainproof

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"
)

// PeerCertificate is the subset of a served certificate the TLS check
// inspects: its subjects and validity window.
type PeerCertificate struct {
	SubjectCN       string
	SubjectAltNames []string
	NotBefore       time.Time
	NotAfter        time.Time
}

// CertProbe retrieves the certificate a host actually serves on its HTTPS
// port. The production implementation dials; tests substitute a stub.
type CertProbe interface {
	PeerCertificate(ctx context.Context, host string) (*PeerCertificate, error)
}

// TLSProbe connects to host:port and exposes the peer certificate without
// requiring it to chain to a trusted root — the point is to inspect what
// is served, not to act as a trust anchor.
type TLSProbe struct {
	Port    int           // default 443
	Timeout time.Duration // connect bound; default 5s
}

func (p *TLSProbe) PeerCertificate(ctx context.Context, host string) (*PeerCertificate, error) {
	port := p.Port
	if port == 0 {
		port = 443
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: timeout},
		Config: &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: true, //nolint:gosec // inspecting the served cert, not trusting it
		},
	}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("tls connect %s: %w", host, err)
	}
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return nil, fmt.Errorf("tls connect %s: unexpected connection type", host)
	}

	certs := tlsConn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return nil, fmt.Errorf("tls connect %s: no peer certificate presented", host)
	}

	leaf := certs[0]
	return &PeerCertificate{
		SubjectCN:       leaf.Subject.CommonName,
		SubjectAltNames: leaf.DNSNames,
		NotBefore:       leaf.NotBefore,
		NotAfter:        leaf.NotAfter,
	}, nil
}
