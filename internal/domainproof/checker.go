package domainproof

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// CheckResult is the outcome of one DNS-side check.
type CheckResult struct {
	Valid           bool     `json:"valid"`
	ObservedRecords []string `json:"observed_records"`
}

// TLSDetails breaks the certificate check into its two requirements.
type TLSDetails struct {
	SubjectMatched bool `json:"subject_matched"`
	TimeValid      bool `json:"time_valid"`
}

// TLSResult is the outcome of the certificate check.
type TLSResult struct {
	Valid   bool       `json:"valid"`
	Details TLSDetails `json:"details"`
}

// Result aggregates one full verification run. Overall is the logical AND
// of the three sub-checks.
type Result struct {
	CNAMEOrA CheckResult `json:"cname_or_a"`
	TXT      CheckResult `json:"txt"`
	TLS      TLSResult   `json:"tls"`
	Overall  bool        `json:"overall"`
}

// Checker runs the three readiness checks for a candidate domain.
// It holds no mutable state; a single Checker is safe for concurrent runs.
type Checker struct {
	Resolver     Resolver
	Probe        CertProbe
	EdgeHostname string   // platform canonical edge, the required CNAME target
	FrontDoorIPs []string // published A-record fallback set
	Logger       *zap.Logger
}

// Run executes the CNAME/A, TXT, and TLS checks concurrently and joins
// them before aggregating. No check short-circuits another: the result
// must report all three sub-statuses even when an early one fails.
func (c *Checker) Run(ctx context.Context, domain, token string) Result {
	var res Result

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		res.CNAMEOrA = c.CheckCNAME(ctx, domain)
	}()
	go func() {
		defer wg.Done()
		res.TXT = c.CheckTXT(ctx, domain, token)
	}()
	go func() {
		defer wg.Done()
		res.TLS = c.CheckTLS(ctx, domain)
	}()
	wg.Wait()

	res.Overall = res.CNAMEOrA.Valid && res.TXT.Valid && res.TLS.Valid
	return res
}

// normalizeHost lowercases a hostname and strips the optional trailing
// root-label dot so that "Edge.Example.COM." and "edge.example.com"
// compare equal.
func normalizeHost(h string) string {
	return strings.ToLower(strings.TrimSuffix(h, "."))
}
