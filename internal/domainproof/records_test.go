package domainproof_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/helio-platform/brandgate/internal/domainproof"
)

func TestNewOwnershipToken(t *testing.T) {
	tok, err := domainproof.NewOwnershipToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tok) != 64 {
		t.Errorf("token length: got %d, want 64 hex chars", len(tok))
	}
	if _, err := hex.DecodeString(tok); err != nil {
		t.Errorf("token is not hex: %v", err)
	}

	other, _ := domainproof.NewOwnershipToken()
	if tok == other {
		t.Error("two generated tokens must not collide")
	}
}

func TestVerificationHost(t *testing.T) {
	host := domainproof.VerificationHost("portal.acme.com")
	if host != "_helio-verify.portal.acme.com" {
		t.Errorf("unexpected host: %q", host)
	}
	// Trailing root-label dot must not leak into the TXT host.
	if got := domainproof.VerificationHost("portal.acme.com."); got != host {
		t.Errorf("trailing dot not normalized: %q", got)
	}
}

func TestExpectedRecords(t *testing.T) {
	recs := domainproof.ExpectedRecords("portal.acme.com", "edge.helioapp.com", "tok123")
	if len(recs) != 2 {
		t.Fatalf("expected exactly 2 records, got %d", len(recs))
	}

	cname := recs[0]
	if cname.Type != domainproof.RecordTypeCNAME {
		t.Errorf("first record type: got %q", cname.Type)
	}
	if cname.Name != "portal.acme.com" || cname.Value != "edge.helioapp.com" {
		t.Errorf("cname record: %+v", cname)
	}

	txt := recs[1]
	if txt.Type != domainproof.RecordTypeTXT {
		t.Errorf("second record type: got %q", txt.Type)
	}
	if !strings.HasPrefix(txt.Name, "_helio-verify.") {
		t.Errorf("txt name missing verification prefix: %q", txt.Name)
	}
	if txt.Value != "tok123" {
		t.Errorf("txt value: got %q", txt.Value)
	}
}

func TestValidFQDN(t *testing.T) {
	valid := []string{
		"portal.acme.com",
		"acme.com",
		"a-b.example.co.uk",
		"x1.y2.z3.io",
	}
	invalid := []string{
		"",
		"acme",
		"-portal.acme.com",
		"portal-.acme.com",
		"portal..acme.com",
		"portal.acme.com.",
		"portal.acme.c0m",
		"under_score.acme.com",
		strings.Repeat("a", 64) + ".com",
	}

	for _, d := range valid {
		if !domainproof.ValidFQDN(d) {
			t.Errorf("ValidFQDN(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if domainproof.ValidFQDN(d) {
			t.Errorf("ValidFQDN(%q) = true, want false", d)
		}
	}
}
