package domainproof

import (
	"context"
	"errors"
	"net"
	"strings"

	"go.uber.org/zap"
)

// CheckCNAME confirms the candidate domain aliases the platform edge.
// If no CNAME exists (apex domains cannot carry one), it falls back to an
// A lookup against the published front-door IP set. Lookup failures are
// logged and reported as an invalid check, never as an error — the tenant
// simply has not set up DNS yet.
func (c *Checker) CheckCNAME(ctx context.Context, domain string) CheckResult {
	target := normalizeHost(domain)
	edge := normalizeHost(c.EdgeHostname)

	cname, err := c.Resolver.LookupCNAME(ctx, domain)
	switch {
	case err == nil && normalizeHost(cname) == edge:
		return CheckResult{Valid: true, ObservedRecords: []string{cname}}

	case err == nil && normalizeHost(cname) != target:
		// A CNAME exists but points elsewhere. No fallback: the tenant
		// aliased the wrong host.
		c.Logger.Info("cname check: target mismatch",
			zap.String("domain", domain),
			zap.String("observed", cname),
			zap.String("expected", c.EdgeHostname),
		)
		return CheckResult{ObservedRecords: []string{cname}}

	case err != nil && !isNotFound(err):
		c.Logger.Info("cname check: lookup failed",
			zap.String("domain", domain),
			zap.Error(err),
		)
		return CheckResult{}
	}

	// No CNAME present (canonical name is the host itself, or the record
	// does not exist) — the tenant may have used an A record instead.
	return c.checkARecords(ctx, domain)
}

// checkARecords is the apex fallback: at least one resolved address must
// be in the platform's published front-door set.
func (c *Checker) checkARecords(ctx context.Context, domain string) CheckResult {
	addrs, err := c.Resolver.LookupAddrs(ctx, domain)
	if err != nil {
		c.Logger.Info("a-record fallback: lookup failed",
			zap.String("domain", domain),
			zap.Error(err),
		)
		return CheckResult{}
	}

	allowed := make(map[string]struct{}, len(c.FrontDoorIPs))
	for _, ip := range c.FrontDoorIPs {
		allowed[ip] = struct{}{}
	}

	res := CheckResult{ObservedRecords: addrs}
	for _, a := range addrs {
		if _, ok := allowed[a]; ok {
			res.Valid = true
			break
		}
	}
	if !res.Valid {
		c.Logger.Info("a-record fallback: no address in front-door set",
			zap.String("domain", domain),
			zap.Strings("observed", addrs),
		)
	}
	return res
}

// CheckTXT confirms the ownership token is published at the verification
// subdomain. Each TXT record arrives as chunk sequences that are
// concatenated before comparison. A record containing the token as a
// substring also passes, tolerating tenants who prepend a description.
func (c *Checker) CheckTXT(ctx context.Context, domain, token string) CheckResult {
	host := VerificationHost(domain)

	records, err := c.Resolver.LookupTXT(ctx, host)
	if err != nil {
		c.Logger.Info("txt check: lookup failed",
			zap.String("host", host),
			zap.Error(err),
		)
		return CheckResult{}
	}

	res := CheckResult{ObservedRecords: make([]string, 0, len(records))}
	for _, chunks := range records {
		joined := strings.Join(chunks, "")
		res.ObservedRecords = append(res.ObservedRecords, joined)
		// An empty token must never match.
		if token != "" && strings.Contains(joined, token) {
			res.Valid = true
		}
	}
	if !res.Valid {
		c.Logger.Info("txt check: token not found",
			zap.String("host", host),
			zap.Int("records", len(records)),
		)
	}
	return res
}

// isNotFound reports whether err signals NXDOMAIN or an empty answer, the
// conditions under which the A-record fallback applies.
func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}
