package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/helio-platform/brandgate/internal/branding/service"
	"go.uber.org/zap"
)

// DomainHandler handles HTTP requests for the custom-domain lifecycle.
type DomainHandler struct {
	svc    *service.DomainService
	logger *zap.Logger
}

// NewDomainHandler creates a new DomainHandler.
func NewDomainHandler(svc *service.DomainService, logger *zap.Logger) *DomainHandler {
	return &DomainHandler{svc: svc, logger: logger}
}

// Register mounts the custom-domain routes on the given router group.
func (h *DomainHandler) Register(rg *gin.RouterGroup) {
	d := rg.Group("/tenants/:tenant_id/domain")
	{
		d.POST("", h.Configure)
		d.GET("", h.GetConfiguration)
		d.DELETE("", h.Disable)
		d.POST("/verify", h.Verify)
		d.GET("/verification", h.VerificationDetails)
	}
}

func tenantID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("tenant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant ID"})
		return uuid.Nil, false
	}
	return id, true
}

// Configure handles POST /tenants/:tenant_id/domain.
//
// Request body: {"domain": "portal.customer.com"}
//
// Response: the configuration including the DNS records the tenant must
// publish before verification can pass.
func (h *DomainHandler) Configure(c *gin.Context) {
	id, ok := tenantID(c)
	if !ok {
		return
	}

	var req struct {
		Domain string `json:"domain" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.svc.ConfigureCustomDomain(c.Request.Context(), id, req.Domain)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDomainFormat):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrDomainAlreadyVerified):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("configure custom domain", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to configure domain"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"configuration":    cfg,
		"expected_records": cfg.ExpectedRecords,
		"instructions":     "Publish the DNS records above, then call POST /api/v1/tenants/" + id.String() + "/domain/verify",
	})
}

// GetConfiguration handles GET /tenants/:tenant_id/domain.
func (h *DomainHandler) GetConfiguration(c *gin.Context) {
	id, ok := tenantID(c)
	if !ok {
		return
	}

	cfg, err := h.svc.GetConfiguration(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNoDomainConfigured) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no custom domain configured"})
			return
		}
		h.logger.Error("get domain configuration", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get configuration"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// Verify handles POST /tenants/:tenant_id/domain/verify. It runs all three
// readiness checks and returns the aggregate outcome; a failed check is a
// 200 with verified=false — the run itself succeeded.
func (h *DomainHandler) Verify(c *gin.Context) {
	id, ok := tenantID(c)
	if !ok {
		return
	}

	verified, err := h.svc.VerifyCustomDomain(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNoDomainConfigured) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no custom domain configured"})
			return
		}
		h.logger.Error("verify custom domain", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification outcome could not be stored"})
		return
	}

	resp := gin.H{"verified": verified}
	if !verified {
		resp["hint"] = "call GET /api/v1/tenants/" + id.String() + "/domain/verification for the per-check breakdown"
	}
	c.JSON(http.StatusOK, resp)
}

// VerificationDetails handles GET /tenants/:tenant_id/domain/verification —
// the full per-check diagnostic breakdown for tenant self-service.
func (h *DomainHandler) VerificationDetails(c *gin.Context) {
	id, ok := tenantID(c)
	if !ok {
		return
	}

	res, err := h.svc.GetVerificationDetails(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNoDomainConfigured) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no custom domain configured"})
			return
		}
		h.logger.Error("get verification details", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get verification details"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// Disable handles DELETE /tenants/:tenant_id/domain.
func (h *DomainHandler) Disable(c *gin.Context) {
	id, ok := tenantID(c)
	if !ok {
		return
	}

	if err := h.svc.DisableCustomDomain(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNoDomainConfigured) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no custom domain configured"})
			return
		}
		h.logger.Error("disable custom domain", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to disable domain"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "custom domain disabled"})
}
