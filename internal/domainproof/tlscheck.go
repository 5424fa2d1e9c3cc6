package domainproof

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CheckTLS confirms the certificate actually served on port 443 is
// currently time-valid and covers the candidate domain via its common
// name or one of its subject alternative names, including wildcards.
// Connection errors and timeouts are logged and reported as an invalid
// check, never as an error.
func (c *Checker) CheckTLS(ctx context.Context, domain string) TLSResult {
	cert, err := c.Probe.PeerCertificate(ctx, domain)
	if err != nil {
		c.Logger.Info("tls check: probe failed",
			zap.String("domain", domain),
			zap.Error(err),
		)
		return TLSResult{}
	}

	now := time.Now()
	details := TLSDetails{
		TimeValid:      !now.Before(cert.NotBefore) && !now.After(cert.NotAfter),
		SubjectMatched: subjectCovers(cert, domain),
	}

	res := TLSResult{
		Valid:   details.TimeValid && details.SubjectMatched,
		Details: details,
	}
	if !res.Valid {
		c.Logger.Info("tls check: certificate not ready",
			zap.String("domain", domain),
			zap.Bool("time_valid", details.TimeValid),
			zap.Bool("subject_matched", details.SubjectMatched),
			zap.Time("not_before", cert.NotBefore),
			zap.Time("not_after", cert.NotAfter),
		)
	}
	return res
}

// subjectCovers reports whether any certificate subject (CN or SAN)
// matches the target domain.
func subjectCovers(cert *PeerCertificate, domain string) bool {
	subjects := make([]string, 0, len(cert.SubjectAltNames)+1)
	if cert.SubjectCN != "" {
		subjects = append(subjects, cert.SubjectCN)
	}
	subjects = append(subjects, cert.SubjectAltNames...)

	for _, s := range subjects {
		if matchSubject(s, domain) {
			return true
		}
	}
	return false
}

// matchSubject replicates TLS hostname-verification semantics for one
// subject: exact equality, or a *. wildcard covering exactly one label
// depth — *.example.com matches foo.example.com but neither
// foo.bar.example.com nor example.com itself.
func matchSubject(subject, domain string) bool {
	subject = normalizeHost(subject)
	target := normalizeHost(domain)
	if subject == "" || target == "" {
		return false
	}
	if subject == target {
		return true
	}
	if !strings.HasPrefix(subject, "*.") {
		return false
	}

	base := subject[2:]
	if !strings.HasSuffix(target, "."+base) {
		return false
	}
	// One more label than the base, no more.
	return strings.Count(target, ".") == strings.Count(base, ".")+1
}
