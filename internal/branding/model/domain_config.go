package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/helio-platform/brandgate/internal/domainproof"
)

// DomainConfiguration is a tenant's custom-domain state: the candidate
// domain, the DNS records the tenant must publish, and the last known
// verification outcome. Each tenant has at most one active configuration.
type DomainConfiguration struct {
	TenantID        uuid.UUID                    `json:"tenant_id"`
	Domain          string                       `json:"domain"`
	ExpectedRecords []domainproof.ExpectedRecord `json:"expected_records"`
	Verified        bool                         `json:"verified"`
	LastCheckedAt   *time.Time                   `json:"last_checked_at,omitempty"`
	CreatedAt       time.Time                    `json:"created_at"`
	UpdatedAt       time.Time                    `json:"updated_at"`
}

// OwnershipToken returns the token value from the TXT expectation, or ""
// if the record set has no TXT entry.
func (c *DomainConfiguration) OwnershipToken() string {
	for _, r := range c.ExpectedRecords {
		if r.Type == domainproof.RecordTypeTXT {
			return r.Value
		}
	}
	return ""
}
