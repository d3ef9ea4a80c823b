package handlers

import (
	"encoding/json"
	"net/http"

	"tls-constraints/internal/middlewares"
	"tls-constraints/internal/relay"

	"github.com/go-chi/chi/v5"
)

// POSTTenantRequest accepts a tenant's CSR for admission. The request is
// recorded as outstanding before the event is queued, so the admission
// snapshot sees it. Acceptance here means "queued", not "admitted": denial is
// an internal outcome the tenant never observes directly.
func POSTTenantRequest(ctx *middlewares.AppContext) {
	tenantID := chi.URLParam(ctx.Request, "tenantID")
	if tenantID == "" {
		ctx.SetJSONError(http.StatusBadRequest, "tenant id is required")
		return
	}

	var req struct {
		CSR  []byte `json:"csr"`
		IsCA bool   `json:"is_ca"`
	}

	if err := json.NewDecoder(ctx.Request.Body).Decode(&req); err != nil {
		ctx.Logger.Error("failed to decode request body", "error", err)
		ctx.SetJSONError(http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	if len(req.CSR) == 0 {
		ctx.SetJSONError(http.StatusBadRequest, "csr is required")
		return
	}

	ctx.Registry.AddRequest(tenantID, req.CSR, req.IsCA)
	ctx.Engine.Submit(relay.CreateRequest{
		TenantID: tenantID,
		CSR:      req.CSR,
		IsCA:     req.IsCA,
	})

	ctx.Logger.Debug("certificate request queued", "tenant_id", tenantID, "is_ca", req.IsCA)
	ctx.SetJSONStatus(http.StatusAccepted, "queued")
}

// POSTTenantRevocation withdraws a tenant's CSR and forwards the revocation
// upstream.
func POSTTenantRevocation(ctx *middlewares.AppContext) {
	tenantID := chi.URLParam(ctx.Request, "tenantID")
	if tenantID == "" {
		ctx.SetJSONError(http.StatusBadRequest, "tenant id is required")
		return
	}

	var req struct {
		CSR []byte `json:"csr"`
	}

	if err := json.NewDecoder(ctx.Request.Body).Decode(&req); err != nil {
		ctx.Logger.Error("failed to decode request body", "error", err)
		ctx.SetJSONError(http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	if len(req.CSR) == 0 {
		ctx.SetJSONError(http.StatusBadRequest, "csr is required")
		return
	}

	ctx.Registry.RemoveRequest(tenantID, req.CSR)
	ctx.Engine.Submit(relay.RevokeRequest{
		TenantID: tenantID,
		CSR:      req.CSR,
	})

	ctx.Logger.Debug("revocation request queued", "tenant_id", tenantID)
	ctx.SetJSONStatus(http.StatusAccepted, "queued")
}

// GETTenantCertificates returns the certificates currently published to a
// tenant.
func GETTenantCertificates(ctx *middlewares.AppContext) {
	tenantID := chi.URLParam(ctx.Request, "tenantID")
	if tenantID == "" {
		ctx.SetJSONError(http.StatusBadRequest, "tenant id is required")
		return
	}

	ctx.WriteJSON(http.StatusOK, ctx.Registry.Certificates(tenantID))
}
