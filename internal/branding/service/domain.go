package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/helio-platform/brandgate/internal/branding/model"
	"github.com/helio-platform/brandgate/internal/branding/repository"
	"github.com/helio-platform/brandgate/internal/domainproof"
	"go.uber.org/zap"
)

// Sentinel errors for the domain service. Configuration errors are always
// surfaced to the caller; check failures never are — they only flip the
// verified flag.
var (
	ErrInvalidDomainFormat   = errors.New("candidate domain is not a valid fully-qualified domain name")
	ErrDomainAlreadyVerified = errors.New("domain is already verified by another tenant")
	ErrNoDomainConfigured    = errors.New("no custom domain configured for tenant")
)

// configStore is the persistence interface required by DomainService.
// *repository.DomainConfigRepository satisfies this interface.
type configStore interface {
	Upsert(ctx context.Context, cfg *model.DomainConfiguration) error
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*model.DomainConfiguration, error)
	UpdateVerification(ctx context.Context, tenantID uuid.UUID, verified bool, checkedAt time.Time) error
	FindVerifiedDomain(ctx context.Context, domain string, excludingTenant uuid.UUID) (*model.DomainConfiguration, error)
	Delete(ctx context.Context, tenantID uuid.UUID) error
}

// checkRunner runs the three readiness checks for a domain.
// *domainproof.Checker satisfies this interface; tests stub it.
type checkRunner interface {
	Run(ctx context.Context, domain, token string) domainproof.Result
}

// MetricsRecordFunc is an optional callback for recording verification runs.
type MetricsRecordFunc func(overall bool, elapsed time.Duration)

// DomainService owns the custom-domain lifecycle: record generation,
// verification orchestration, and the snapshot cache for diagnostics.
type DomainService struct {
	store        configStore
	checker      checkRunner
	snapshots    *snapshotCache // nil = snapshot caching disabled
	edgeHostname string
	onMetrics    MetricsRecordFunc
	logger       *zap.Logger
}

// NewDomainService creates a DomainService. snapshotTTL <= 0 disables the
// verification snapshot cache.
func NewDomainService(store configStore, checker checkRunner, edgeHostname string, snapshotTTL time.Duration, logger *zap.Logger) *DomainService {
	s := &DomainService{
		store:        store,
		checker:      checker,
		edgeHostname: edgeHostname,
		logger:       logger,
	}
	if snapshotTTL > 0 {
		s.snapshots = newSnapshotCache(snapshotTTL)
	}
	return s
}

// SetMetricsRecord configures the metrics recording callback.
func (s *DomainService) SetMetricsRecord(fn MetricsRecordFunc) {
	s.onMetrics = fn
}

// ConfigureCustomDomain generates the expected record set for a candidate
// domain and persists it as the tenant's new baseline, resetting any
// previous verification outcome. It rejects domains already verified by a
// different tenant; a domain may be provisionally configured by several
// tenants, but only one can ever hold it verified.
func (s *DomainService) ConfigureCustomDomain(ctx context.Context, tenantID uuid.UUID, domain string) (*model.DomainConfiguration, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !domainproof.ValidFQDN(domain) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDomainFormat, domain)
	}

	_, err := s.store.FindVerifiedDomain(ctx, domain, tenantID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", ErrDomainAlreadyVerified, domain)
	case !errors.Is(err, repository.ErrConfigNotFound):
		return nil, fmt.Errorf("check domain uniqueness: %w", err)
	}

	token, err := domainproof.NewOwnershipToken()
	if err != nil {
		return nil, err
	}

	cfg := &model.DomainConfiguration{
		TenantID:        tenantID,
		Domain:          domain,
		ExpectedRecords: domainproof.ExpectedRecords(domain, s.edgeHostname, token),
	}
	if err := s.store.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("persist domain configuration: %w", err)
	}

	if s.snapshots != nil {
		s.snapshots.invalidate(tenantID)
	}

	s.logger.Info("custom domain configured",
		zap.String("tenant_id", tenantID.String()),
		zap.String("domain", domain),
		zap.String("txt_host", domainproof.VerificationHost(domain)),
	)
	return cfg, nil
}

// GetConfiguration returns the tenant's current domain configuration.
func (s *DomainService) GetConfiguration(ctx context.Context, tenantID uuid.UUID) (*model.DomainConfiguration, error) {
	cfg, err := s.store.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrConfigNotFound) {
			return nil, ErrNoDomainConfigured
		}
		return nil, fmt.Errorf("get domain configuration: %w", err)
	}
	return cfg, nil
}

// VerifyCustomDomain runs a full verification and returns the aggregate
// outcome. Check failures are reflected in the boolean, never as errors;
// an error means the caller misused the API (no domain configured) or the
// platform's own persistence failed.
func (s *DomainService) VerifyCustomDomain(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	res, err := s.runVerification(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return res.Overall, nil
}

// GetVerificationDetails returns the full per-check diagnostic breakdown.
// Within the snapshot TTL it serves the cached result of the last run so
// that dashboard polling does not re-probe tenant DNS; otherwise it runs
// a fresh verification.
func (s *DomainService) GetVerificationDetails(ctx context.Context, tenantID uuid.UUID) (*domainproof.Result, error) {
	if s.snapshots != nil {
		cfg, err := s.GetConfiguration(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if res, ok := s.snapshots.get(tenantID, cfg.Domain); ok {
			return &res, nil
		}
	}

	res, err := s.runVerification(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DisableCustomDomain removes the tenant's configuration entirely, e.g.
// when branding is reset to platform defaults.
func (s *DomainService) DisableCustomDomain(ctx context.Context, tenantID uuid.UUID) error {
	if err := s.store.Delete(ctx, tenantID); err != nil {
		if errors.Is(err, repository.ErrConfigNotFound) {
			return ErrNoDomainConfigured
		}
		return fmt.Errorf("delete domain configuration: %w", err)
	}
	if s.snapshots != nil {
		s.snapshots.invalidate(tenantID)
	}
	s.logger.Info("custom domain disabled", zap.String("tenant_id", tenantID.String()))
	return nil
}

// runVerification is the orchestration core: fetch the baseline, fan out
// the three checks, persist the outcome, cache the snapshot. The verified
// flag is evaluated fresh on every run and can flip in either direction.
func (s *DomainService) runVerification(ctx context.Context, tenantID uuid.UUID) (*domainproof.Result, error) {
	cfg, err := s.store.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrConfigNotFound) {
			return nil, ErrNoDomainConfigured
		}
		return nil, fmt.Errorf("get domain configuration: %w", err)
	}

	started := time.Now()
	res := s.checker.Run(ctx, cfg.Domain, cfg.OwnershipToken())
	elapsed := time.Since(started)

	// Losing the outcome is a platform-side fault, unlike a failed check.
	if err := s.store.UpdateVerification(ctx, tenantID, res.Overall, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("persist verification outcome: %w", err)
	}

	if s.snapshots != nil {
		s.snapshots.set(tenantID, cfg.Domain, res)
	}
	if s.onMetrics != nil {
		s.onMetrics(res.Overall, elapsed)
	}

	s.logger.Info("domain verification run",
		zap.String("tenant_id", tenantID.String()),
		zap.String("domain", cfg.Domain),
		zap.Bool("cname_or_a", res.CNAMEOrA.Valid),
		zap.Bool("txt", res.TXT.Valid),
		zap.Bool("tls", res.TLS.Valid),
		zap.Bool("overall", res.Overall),
		zap.Duration("elapsed", elapsed),
	)
	return &res, nil
}
