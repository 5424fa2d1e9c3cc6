// Package domainproof implements the protocol-level checks that gate a
// tenant's custom domain: DNS control (CNAME or A, plus a TXT ownership
// token) and TLS readiness (a served certificate that actually covers the
// domain). It performs lookups and probes but never mutates anything on
// the network.
package domainproof

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// txtRecordPrefix is the label under which tenants publish their ownership token.
const txtRecordPrefix = "_helio-verify."

// RecordType identifies the DNS record type of an ExpectedRecord.
type RecordType string

const (
	RecordTypeCNAME RecordType = "CNAME"
	RecordTypeTXT   RecordType = "TXT"
)

// ExpectedRecord is one DNS record a tenant must publish before their
// custom domain can verify.
type ExpectedRecord struct {
	Type  RecordType `json:"type"`
	Name  string     `json:"name"`
	Value string     `json:"value"`
	TTL   int        `json:"ttl"`
}

// NewOwnershipToken generates a 256-bit cryptographically random token,
// hex-encoded. It is the value of the TXT record that proves domain control.
func NewOwnershipToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate ownership token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// VerificationHost returns the DNS hostname where the ownership TXT record
// must be placed for domain.
func VerificationHost(domain string) string {
	return txtRecordPrefix + strings.TrimSuffix(domain, ".")
}

// ExpectedRecords builds the exact record set a tenant must publish:
// a CNAME from the candidate domain to the platform edge, and a TXT
// record carrying the ownership token at the verification subdomain.
func ExpectedRecords(domain, edgeHostname, token string) []ExpectedRecord {
	return []ExpectedRecord{
		{
			Type:  RecordTypeCNAME,
			Name:  strings.TrimSuffix(domain, "."),
			Value: edgeHostname,
			TTL:   3600,
		},
		{
			Type:  RecordTypeTXT,
			Name:  VerificationHost(domain),
			Value: token,
			TTL:   300,
		},
	}
}
