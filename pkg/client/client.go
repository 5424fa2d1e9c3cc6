// Package client provides a small Go SDK for the brandgate custom-domain
// API: configuring a tenant's domain, fetching the DNS records to publish,
// and running verification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoDomainConfigured is returned when the tenant has no custom domain.
var ErrNoDomainConfigured = errors.New("no custom domain configured for tenant")

// ExpectedRecord mirrors one DNS record the tenant must publish.
type ExpectedRecord struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
	TTL   int    `json:"ttl"`
}

// DomainConfiguration mirrors the server-side configuration record.
type DomainConfiguration struct {
	TenantID        string           `json:"tenant_id"`
	Domain          string           `json:"domain"`
	ExpectedRecords []ExpectedRecord `json:"expected_records"`
	Verified        bool             `json:"verified"`
	LastCheckedAt   *time.Time       `json:"last_checked_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ConfigureResult is the response to ConfigureDomain.
type ConfigureResult struct {
	Configuration   DomainConfiguration `json:"configuration"`
	ExpectedRecords []ExpectedRecord    `json:"expected_records"`
	Instructions    string              `json:"instructions"`
}

// CheckStatus mirrors one DNS-side check outcome.
type CheckStatus struct {
	Valid           bool     `json:"valid"`
	ObservedRecords []string `json:"observed_records"`
}

// TLSStatus mirrors the certificate check outcome.
type TLSStatus struct {
	Valid   bool `json:"valid"`
	Details struct {
		SubjectMatched bool `json:"subject_matched"`
		TimeValid      bool `json:"time_valid"`
	} `json:"details"`
}

// VerificationResult mirrors the full diagnostic breakdown.
type VerificationResult struct {
	CNAMEOrA CheckStatus `json:"cname_or_a"`
	TXT      CheckStatus `json:"txt"`
	TLS      TLSStatus   `json:"tls"`
	Overall  bool        `json:"overall"`
}

// Client is the brandgate SDK entry point.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIToken sets the bearer token sent with every request.
func WithAPIToken(token string) Option {
	return func(c *Client) { c.apiToken = token }
}

// New creates a Client for the given brandgate base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ConfigureDomain submits a candidate domain for the tenant and returns
// the DNS records to publish.
func (c *Client) ConfigureDomain(ctx context.Context, tenantID, domain string) (*ConfigureResult, error) {
	var out ConfigureResult
	err := c.do(ctx, http.MethodPost, "/api/v1/tenants/"+tenantID+"/domain",
		map[string]string{"domain": domain}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDomain returns the tenant's current configuration.
func (c *Client) GetDomain(ctx context.Context, tenantID string) (*DomainConfiguration, error) {
	var out DomainConfiguration
	if err := c.do(ctx, http.MethodGet, "/api/v1/tenants/"+tenantID+"/domain", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyDomain runs a verification and returns the aggregate outcome.
func (c *Client) VerifyDomain(ctx context.Context, tenantID string) (bool, error) {
	var out struct {
		Verified bool `json:"verified"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/tenants/"+tenantID+"/domain/verify", nil, &out); err != nil {
		return false, err
	}
	return out.Verified, nil
}

// VerificationDetails returns the full per-check breakdown.
func (c *Client) VerificationDetails(ctx context.Context, tenantID string) (*VerificationResult, error) {
	var out VerificationResult
	if err := c.do(ctx, http.MethodGet, "/api/v1/tenants/"+tenantID+"/domain/verification", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DisableDomain removes the tenant's custom domain.
func (c *Client) DisableDomain(ctx context.Context, tenantID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tenants/"+tenantID+"/domain", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNoDomainConfigured
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("brandgate: %s (HTTP %d)", payload.Error, resp.StatusCode)
	}
	return fmt.Errorf("brandgate: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
