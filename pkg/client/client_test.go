package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/helio-platform/brandgate/pkg/client"
)

func TestConfigureDomain_sendsTokenAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization header: %q", got)
		}
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/tenants/t1/domain" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"configuration": {"tenant_id":"t1","domain":"portal.acme.com"},
			"expected_records": [
				{"type":"CNAME","name":"portal.acme.com","value":"edge.helioapp.com","ttl":3600},
				{"type":"TXT","name":"_helio-verify.portal.acme.com","value":"tok123","ttl":300}
			]
		}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithAPIToken("tok"))
	res, err := c.ConfigureDomain(context.Background(), "t1", "portal.acme.com")
	if err != nil {
		t.Fatalf("ConfigureDomain: %v", err)
	}
	if len(res.ExpectedRecords) != 2 || res.ExpectedRecords[1].Type != "TXT" {
		t.Errorf("records not decoded: %+v", res.ExpectedRecords)
	}
}

func TestVerifyDomain_outcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"verified": true}`))
	}))
	defer srv.Close()

	ok, err := client.New(srv.URL).VerifyDomain(context.Background(), "t1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected verified=true")
	}
}

func TestGetDomain_notFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no custom domain configured"}`))
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).GetDomain(context.Background(), "t1")
	if !errors.Is(err, client.ErrNoDomainConfigured) {
		t.Errorf("expected ErrNoDomainConfigured, got %v", err)
	}
}

func TestAPIError_surfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"domain is already verified by another tenant"}`))
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).ConfigureDomain(context.Background(), "t1", "portal.acme.com")
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "already verified"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q should contain %q", err.Error(), want)
	}
}
