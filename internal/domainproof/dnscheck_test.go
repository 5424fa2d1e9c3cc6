package domainproof_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/helio-platform/brandgate/internal/domainproof"
	"go.uber.org/zap"
)

// ── Canned resolver ────────────────────────────────────────────────────────

type fakeResolver struct {
	cname    string
	cnameErr error
	addrs    []string
	addrsErr error
	txt      [][]string
	txtErr   error
}

func (f *fakeResolver) LookupCNAME(_ context.Context, _ string) (string, error) {
	return f.cname, f.cnameErr
}

func (f *fakeResolver) LookupAddrs(_ context.Context, _ string) ([]string, error) {
	return f.addrs, f.addrsErr
}

func (f *fakeResolver) LookupTXT(_ context.Context, _ string) ([][]string, error) {
	return f.txt, f.txtErr
}

func notFoundErr() error {
	return &net.DNSError{Err: "no such host", Name: "portal.acme.com", IsNotFound: true}
}

func newChecker(r domainproof.Resolver) *domainproof.Checker {
	return &domainproof.Checker{
		Resolver:     r,
		Probe:        &fakeProbe{err: errors.New("probe unused")},
		EdgeHostname: "edge.helioapp.com",
		FrontDoorIPs: []string{"203.0.113.10", "203.0.113.20"},
		Logger:       zap.NewNop(),
	}
}

// ── CNAME / A ──────────────────────────────────────────────────────────────

func TestCheckCNAME_matchesEdge(t *testing.T) {
	c := newChecker(&fakeResolver{cname: "edge.helioapp.com."})

	res := c.CheckCNAME(context.Background(), "portal.acme.com")
	if !res.Valid {
		t.Error("expected valid CNAME check")
	}
	if len(res.ObservedRecords) != 1 || res.ObservedRecords[0] != "edge.helioapp.com." {
		t.Errorf("observed records: %v", res.ObservedRecords)
	}
}

func TestCheckCNAME_trailingDotAndCaseEquivalence(t *testing.T) {
	// A resolved name may or may not carry the trailing root-label dot and
	// may differ in case; all forms must compare equal.
	for _, cname := range []string{"edge.helioapp.com", "edge.helioapp.com.", "EDGE.HelioApp.COM."} {
		c := newChecker(&fakeResolver{cname: cname})

		with := c.CheckCNAME(context.Background(), "portal.acme.com.")
		without := c.CheckCNAME(context.Background(), "portal.acme.com")
		if !with.Valid || !without.Valid {
			t.Errorf("cname %q: with=%v without=%v, want both valid", cname, with.Valid, without.Valid)
		}
	}
}

func TestCheckCNAME_wrongTarget_noFallback(t *testing.T) {
	// CNAME exists but aliases some other host: fail without consulting A records.
	c := newChecker(&fakeResolver{
		cname: "ghs.googlehosted.com.",
		addrs: []string{"203.0.113.10"}, // would pass if the fallback ran
	})

	res := c.CheckCNAME(context.Background(), "portal.acme.com")
	if res.Valid {
		t.Error("mismatched CNAME must fail even when A records would match")
	}
}

func TestCheckCNAME_fallbackToA_success(t *testing.T) {
	c := newChecker(&fakeResolver{
		cnameErr: notFoundErr(),
		addrs:    []string{"198.51.100.7", "203.0.113.20"},
	})

	res := c.CheckCNAME(context.Background(), "acme.com")
	if !res.Valid {
		t.Error("expected A-record fallback to pass")
	}
	if len(res.ObservedRecords) != 2 {
		t.Errorf("observed records: %v", res.ObservedRecords)
	}
}

func TestCheckCNAME_fallbackToA_addressNotInSet(t *testing.T) {
	c := newChecker(&fakeResolver{
		cnameErr: notFoundErr(),
		addrs:    []string{"203.0.113.5"},
	})

	res := c.CheckCNAME(context.Background(), "acme.com")
	if res.Valid {
		t.Error("address outside the front-door set must fail")
	}
}

func TestCheckCNAME_selfCanonicalName_triggersFallback(t *testing.T) {
	// Resolvers report "no CNAME" by returning the host as its own
	// canonical name.
	c := newChecker(&fakeResolver{
		cname: "acme.com.",
		addrs: []string{"203.0.113.10"},
	})

	res := c.CheckCNAME(context.Background(), "acme.com")
	if !res.Valid {
		t.Error("self canonical name should fall back to A records")
	}
}

func TestCheckCNAME_lookupFailure_isFalseNotError(t *testing.T) {
	c := newChecker(&fakeResolver{
		cnameErr: errors.New("read udp: i/o timeout"),
	})

	res := c.CheckCNAME(context.Background(), "portal.acme.com")
	if res.Valid {
		t.Error("transient lookup failure must yield an invalid check")
	}
}

func TestCheckCNAME_fallbackLookupFailure(t *testing.T) {
	c := newChecker(&fakeResolver{
		cnameErr: notFoundErr(),
		addrsErr: errors.New("read udp: i/o timeout"),
	})

	res := c.CheckCNAME(context.Background(), "acme.com")
	if res.Valid {
		t.Error("failed A lookup must yield an invalid check")
	}
}

// ── TXT ────────────────────────────────────────────────────────────────────

func TestCheckTXT_exactToken(t *testing.T) {
	c := newChecker(&fakeResolver{txt: [][]string{{"tok-abc123"}}})

	res := c.CheckTXT(context.Background(), "portal.acme.com", "tok-abc123")
	if !res.Valid {
		t.Error("exact token must verify")
	}
}

func TestCheckTXT_chunkedRecordConcatenation(t *testing.T) {
	// A single TXT value can be split across wire-format chunks; they must
	// be joined per record before comparison.
	c := newChecker(&fakeResolver{txt: [][]string{{"tok-ab", "c123"}}})

	res := c.CheckTXT(context.Background(), "portal.acme.com", "tok-abc123")
	if !res.Valid {
		t.Error("chunked token must verify after concatenation")
	}
	if res.ObservedRecords[0] != "tok-abc123" {
		t.Errorf("observed record not concatenated: %q", res.ObservedRecords[0])
	}
}

func TestCheckTXT_substringTolerance(t *testing.T) {
	c := newChecker(&fakeResolver{txt: [][]string{
		{"v=spf1 include:_spf.example.com ~all"},
		{"helio verification: tok-abc123"},
	}})

	res := c.CheckTXT(context.Background(), "portal.acme.com", "tok-abc123")
	if !res.Valid {
		t.Error("token embedded in a longer record must verify")
	}
}

func TestCheckTXT_tokenAbsent(t *testing.T) {
	c := newChecker(&fakeResolver{txt: [][]string{{"some-other-value"}}})

	res := c.CheckTXT(context.Background(), "portal.acme.com", "tok-abc123")
	if res.Valid {
		t.Error("missing token must fail")
	}
}

func TestCheckTXT_lookupFailure_isFalseNotError(t *testing.T) {
	c := newChecker(&fakeResolver{txtErr: notFoundErr()})

	res := c.CheckTXT(context.Background(), "portal.acme.com", "tok-abc123")
	if res.Valid {
		t.Error("failed TXT lookup must yield an invalid check")
	}
}

func TestCheckTXT_emptyTokenNeverMatches(t *testing.T) {
	c := newChecker(&fakeResolver{txt: [][]string{{"anything"}}})

	res := c.CheckTXT(context.Background(), "portal.acme.com", "")
	if res.Valid {
		t.Error("empty expected token must never match")
	}
}

func TestCheckTXT_idempotent(t *testing.T) {
	c := newChecker(&fakeResolver{txt: [][]string{{"tok-abc123"}}})

	first := c.CheckTXT(context.Background(), "portal.acme.com", "tok-abc123")
	second := c.CheckTXT(context.Background(), "portal.acme.com", "tok-abc123")
	if first.Valid != second.Valid {
		t.Error("repeated check against an unchanged resolver must not flip")
	}
}
