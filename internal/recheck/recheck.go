// Package recheck runs the scheduled re-verification sweep: every
// configured custom domain is re-verified periodically so that a tenant
// whose DNS or certificate regresses loses the verified flag without
// having to trigger a check by hand.
package recheck

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/helio-platform/brandgate/internal/branding/model"
	"github.com/helio-platform/brandgate/internal/branding/service"
	"go.uber.org/zap"
)

// Config holds re-verification sweep configuration.
type Config struct {
	SweepInterval time.Duration // default 15m
	Concurrency   int           // default 10
}

// ConfigLister returns all tenant domain configurations to sweep.
// *repository.DomainConfigRepository satisfies this interface.
type ConfigLister interface {
	ListConfigured(ctx context.Context) ([]*model.DomainConfiguration, error)
}

// Verifier runs one verification for a tenant.
// *service.DomainService satisfies this interface.
type Verifier interface {
	VerifyCustomDomain(ctx context.Context, tenantID uuid.UUID) (bool, error)
}

// SweepDoneFunc is an optional callback invoked after each completed sweep
// with the number of configurations visited.
type SweepDoneFunc func(domains int)

// Rechecker runs periodic verification sweeps over all configured domains.
type Rechecker struct {
	lister   ConfigLister
	verifier Verifier
	cfg      Config
	onSweep  SweepDoneFunc
	logger   *zap.Logger
}

// New creates a Rechecker.
func New(lister ConfigLister, verifier Verifier, cfg Config, logger *zap.Logger) *Rechecker {
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 15 * time.Minute
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 10
	}
	return &Rechecker{
		lister:   lister,
		verifier: verifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// SetSweepDone configures the post-sweep callback.
func (r *Rechecker) SetSweepDone(fn SweepDoneFunc) {
	r.onSweep = fn
}

// Start runs the sweep loop until quit is signalled.
func (r *Rechecker) Start(quit <-chan os.Signal) {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), r.cfg.SweepInterval-time.Second)
			r.SweepAll(ctx)
			cancel()
		case <-quit:
			return
		}
	}
}

// SweepAll re-verifies every configured domain with bounded concurrency.
// Each run is independent; a failing tenant never blocks the rest.
func (r *Rechecker) SweepAll(ctx context.Context) {
	configs, err := r.lister.ListConfigured(ctx)
	if err != nil {
		r.logger.Error("recheck: list configurations", zap.Error(err))
		return
	}

	sem := make(chan struct{}, r.cfg.Concurrency)
	var wg sync.WaitGroup

	for _, cfg := range configs {
		wg.Add(1)
		go func(cfg *model.DomainConfiguration) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			verified, err := r.verifier.VerifyCustomDomain(ctx, cfg.TenantID)
			if err != nil {
				// The tenant may have disabled the domain mid-sweep.
				if errors.Is(err, service.ErrNoDomainConfigured) {
					return
				}
				r.logger.Warn("recheck: verification run failed",
					zap.String("tenant_id", cfg.TenantID.String()),
					zap.String("domain", cfg.Domain),
					zap.Error(err),
				)
				return
			}

			switch {
			case cfg.Verified && !verified:
				r.logger.Warn("recheck: domain regressed to unverified",
					zap.String("tenant_id", cfg.TenantID.String()),
					zap.String("domain", cfg.Domain),
				)
			case !cfg.Verified && verified:
				r.logger.Info("recheck: domain became verified",
					zap.String("tenant_id", cfg.TenantID.String()),
					zap.String("domain", cfg.Domain),
				)
			}
		}(cfg)
	}

	wg.Wait()

	if r.onSweep != nil {
		r.onSweep(len(configs))
	}
}
