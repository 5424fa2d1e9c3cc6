//go:build ignore

// preflight-domains.go checks a list of candidate custom domains against the
// Helio edge without touching the database: CNAME target, A-record fallback,
// _helio-verify TXT presence, and whether an HTTPS endpoint answers at all.
// Useful when onboarding a batch of tenants before their records propagate.
//
// Run with: go run scripts/preflight-domains.go portal.acme.com app.example.org
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
)

const (
	edgeHostname = "edge.helioapp.com"
	txtPrefix    = "_helio-verify."
	probeTimeout = 5 * time.Second
)

var frontDoorIPs = map[string]bool{
	"203.0.113.10": true,
	"203.0.113.20": true,
}

type probeResult struct {
	domain string
	cname  string
	aMatch bool
	txt    int
	https  string
}

func main() {
	domains := os.Args[1:]
	if len(domains) == 0 {
		fmt.Fprintln(os.Stderr, "usage: go run scripts/preflight-domains.go <domain> [domain...]")
		os.Exit(1)
	}

	results := make([]probeResult, len(domains))
	var wg sync.WaitGroup
	for i, d := range domains {
		wg.Add(1)
		go func(i int, d string) {
			defer wg.Done()
			results[i] = probe(d)
		}(i, strings.ToLower(strings.TrimSpace(d)))
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].domain < results[j].domain })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tCNAME\tA-FALLBACK\tTXT\tHTTPS")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%t\t%d\t%s\n", r.domain, r.cname, r.aMatch, r.txt, r.https)
	}
	w.Flush()
}

func probe(domain string) probeResult {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	res := probeResult{domain: domain, cname: "-", https: "-"}
	resolver := &net.Resolver{}

	if cname, err := resolver.LookupCNAME(ctx, domain); err == nil {
		canonical := strings.ToLower(strings.TrimSuffix(cname, "."))
		if canonical != domain {
			res.cname = canonical
		}
	}

	if addrs, err := resolver.LookupHost(ctx, domain); err == nil {
		for _, a := range addrs {
			if frontDoorIPs[a] {
				res.aMatch = true
				break
			}
		}
	}

	if txts, err := resolver.LookupTXT(ctx, txtPrefix+domain); err == nil {
		res.txt = len(txts)
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: probeTimeout},
		Config:    &tls.Config{ServerName: domain, InsecureSkipVerify: true},
	}
	conn, err := dialer.DialContext(ctx, "tcp", domain+":443")
	if err != nil {
		res.https = "unreachable"
		return res
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) > 0 {
		leaf := state.PeerCertificates[0]
		subject := leaf.Subject.CommonName
		if subject == "" && len(leaf.DNSNames) > 0 {
			subject = leaf.DNSNames[0]
		}
		res.https = subject
	}
	return res
}
