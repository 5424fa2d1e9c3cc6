package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/helio-platform/brandgate/internal/branding/model"
	"github.com/helio-platform/brandgate/internal/domainproof"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrConfigNotFound is returned when a tenant has no domain configuration.
var ErrConfigNotFound = errors.New("domain configuration not found")

// DomainConfigRepository provides persistence for tenant custom-domain
// configurations.
type DomainConfigRepository struct {
	db *pgxpool.Pool
}

// NewDomainConfigRepository creates a new DomainConfigRepository.
func NewDomainConfigRepository(db *pgxpool.Pool) *DomainConfigRepository {
	return &DomainConfigRepository{db: db}
}

// Upsert replaces a tenant's configuration as a whole record. A
// reconfiguration overwrites the expected records and resets the
// verification outcome; there is no partial-field update path.
func (r *DomainConfigRepository) Upsert(ctx context.Context, cfg *model.DomainConfiguration) error {
	records, err := json.Marshal(cfg.ExpectedRecords)
	if err != nil {
		return fmt.Errorf("marshal expected records: %w", err)
	}

	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	cfg.Verified = false
	cfg.LastCheckedAt = nil

	_, err = r.db.Exec(ctx,
		`INSERT INTO domain_configurations (tenant_id, domain, expected_records, verified, last_checked_at, created_at, updated_at)
		 VALUES ($1, $2, $3, false, NULL, $4, $4)
		 ON CONFLICT (tenant_id) DO UPDATE SET
		   domain           = EXCLUDED.domain,
		   expected_records = EXCLUDED.expected_records,
		   verified         = false,
		   last_checked_at  = NULL,
		   updated_at       = EXCLUDED.updated_at`,
		cfg.TenantID, cfg.Domain, records, now,
	)
	if err != nil {
		return fmt.Errorf("upsert domain configuration: %w", err)
	}
	return nil
}

// GetByTenant returns the tenant's configuration, or ErrConfigNotFound.
func (r *DomainConfigRepository) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*model.DomainConfiguration, error) {
	row := r.db.QueryRow(ctx,
		`SELECT tenant_id, domain, expected_records, verified, last_checked_at, created_at, updated_at
		 FROM domain_configurations WHERE tenant_id = $1`, tenantID,
	)
	cfg, err := scanConfig(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("get domain configuration: %w", err)
	}
	return cfg, nil
}

// UpdateVerification records the outcome of one verification run.
func (r *DomainConfigRepository) UpdateVerification(ctx context.Context, tenantID uuid.UUID, verified bool, checkedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE domain_configurations
		 SET verified = $2, last_checked_at = $3, updated_at = $3
		 WHERE tenant_id = $1`,
		tenantID, verified, checkedAt,
	)
	if err != nil {
		return fmt.Errorf("update verification outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConfigNotFound
	}
	return nil
}

// FindVerifiedDomain returns another tenant's verified configuration for
// the given domain, or ErrConfigNotFound if no such configuration exists.
// Used to enforce the one-verified-owner invariant at configuration time.
func (r *DomainConfigRepository) FindVerifiedDomain(ctx context.Context, domain string, excludingTenant uuid.UUID) (*model.DomainConfiguration, error) {
	row := r.db.QueryRow(ctx,
		`SELECT tenant_id, domain, expected_records, verified, last_checked_at, created_at, updated_at
		 FROM domain_configurations
		 WHERE domain = $1 AND verified = true AND tenant_id <> $2
		 LIMIT 1`,
		domain, excludingTenant,
	)
	cfg, err := scanConfig(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("find verified domain: %w", err)
	}
	return cfg, nil
}

// Delete removes a tenant's configuration.
func (r *DomainConfigRepository) Delete(ctx context.Context, tenantID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM domain_configurations WHERE tenant_id = $1`, tenantID,
	)
	if err != nil {
		return fmt.Errorf("delete domain configuration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConfigNotFound
	}
	return nil
}

// ListConfigured returns every tenant configuration, for the scheduled
// re-verification sweep.
func (r *DomainConfigRepository) ListConfigured(ctx context.Context) ([]*model.DomainConfiguration, error) {
	rows, err := r.db.Query(ctx,
		`SELECT tenant_id, domain, expected_records, verified, last_checked_at, created_at, updated_at
		 FROM domain_configurations ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list domain configurations: %w", err)
	}
	defer rows.Close()

	var out []*model.DomainConfiguration
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan domain configuration: %w", err)
		}
		out = append(out, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list domain configurations: %w", err)
	}
	return out, nil
}

func scanConfig(row pgx.Row) (*model.DomainConfiguration, error) {
	cfg := &model.DomainConfiguration{}
	var records []byte
	if err := row.Scan(&cfg.TenantID, &cfg.Domain, &records, &cfg.Verified, &cfg.LastCheckedAt, &cfg.CreatedAt, &cfg.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(records, &cfg.ExpectedRecords); err != nil {
		return nil, fmt.Errorf("unmarshal expected records: %w", err)
	}
	if cfg.ExpectedRecords == nil {
		cfg.ExpectedRecords = []domainproof.ExpectedRecord{}
	}
	return cfg, nil
}
