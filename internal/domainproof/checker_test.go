package domainproof_test

import (
	"context"
	"errors"
	"testing"

	"github.com/helio-platform/brandgate/internal/domainproof"
	"go.uber.org/zap"
)

func fullChecker(r domainproof.Resolver, p domainproof.CertProbe) *domainproof.Checker {
	return &domainproof.Checker{
		Resolver:     r,
		Probe:        p,
		EdgeHostname: "edge.helioapp.com",
		FrontDoorIPs: []string{"203.0.113.10", "203.0.113.20"},
		Logger:       zap.NewNop(),
	}
}

func TestRun_allChecksPass(t *testing.T) {
	c := fullChecker(
		&fakeResolver{
			cname: "edge.helioapp.com.",
			txt:   [][]string{{"tok-abc123"}},
		},
		&fakeProbe{cert: certFor("portal.acme.com")},
	)

	res := c.Run(context.Background(), "portal.acme.com", "tok-abc123")
	if !res.Overall {
		t.Fatalf("expected overall=true: %+v", res)
	}
	if !res.CNAMEOrA.Valid || !res.TXT.Valid || !res.TLS.Valid {
		t.Errorf("all sub-checks must be valid: %+v", res)
	}
}

func TestRun_aRecordOutsideSet_failsOverall(t *testing.T) {
	c := fullChecker(
		&fakeResolver{
			cnameErr: notFoundErr(),
			addrs:    []string{"203.0.113.5"}, // not in the front-door set
			txt:      [][]string{{"tok-abc123"}},
		},
		&fakeProbe{cert: certFor("portal.acme.com")},
	)

	res := c.Run(context.Background(), "portal.acme.com", "tok-abc123")
	if res.CNAMEOrA.Valid {
		t.Error("cname/a check must fail")
	}
	if res.Overall {
		t.Error("overall must be false when any check fails")
	}
	// The other checks still report their own outcome.
	if !res.TXT.Valid || !res.TLS.Valid {
		t.Errorf("independent checks must still run: %+v", res)
	}
}

func TestRun_tlsTimeout_failsOverall(t *testing.T) {
	c := fullChecker(
		&fakeResolver{
			cname: "edge.helioapp.com.",
			txt:   [][]string{{"tok-abc123"}},
		},
		&fakeProbe{err: errors.New("dial tcp 203.0.113.10:443: i/o timeout")},
	)

	res := c.Run(context.Background(), "portal.acme.com", "tok-abc123")
	if !res.CNAMEOrA.Valid || !res.TXT.Valid {
		t.Errorf("dns checks must pass: %+v", res)
	}
	if res.TLS.Valid || res.Overall {
		t.Errorf("tls timeout must fail the run: %+v", res)
	}
}

func TestRun_noShortCircuit(t *testing.T) {
	// Every sub-check must report observed records even when the first
	// one already failed.
	c := fullChecker(
		&fakeResolver{
			cname: "wrong.example.net.",
			txt:   [][]string{{"unrelated"}},
		},
		&fakeProbe{cert: certFor("portal.acme.com")},
	)

	res := c.Run(context.Background(), "portal.acme.com", "tok-abc123")
	if res.Overall {
		t.Error("overall must be false")
	}
	if len(res.CNAMEOrA.ObservedRecords) == 0 {
		t.Error("cname observations missing")
	}
	if len(res.TXT.ObservedRecords) == 0 {
		t.Error("txt observations missing")
	}
	if !res.TLS.Valid {
		t.Error("tls check must still have run to completion")
	}
}
