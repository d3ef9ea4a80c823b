package handlers

import (
	"encoding/json"
	"net/http"

	"tls-constraints/internal/middlewares"
	"tls-constraints/internal/models"
	"tls-constraints/internal/relay"
)

// POSTUpstreamCertificate is the upstream CA's callback for an issued
// certificate.
func POSTUpstreamCertificate(ctx *middlewares.AppContext) {
	var req struct {
		CSR         []byte   `json:"csr"`
		Certificate []byte   `json:"certificate"`
		CA          []byte   `json:"ca"`
		Chain       [][]byte `json:"chain"`
	}

	if err := json.NewDecoder(ctx.Request.Body).Decode(&req); err != nil {
		ctx.Logger.Error("failed to decode request body", "error", err)
		ctx.SetJSONError(http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	if len(req.CSR) == 0 || len(req.Certificate) == 0 {
		ctx.SetJSONError(http.StatusBadRequest, "csr and certificate are required")
		return
	}

	ctx.Engine.Submit(relay.CertificateAvailable{
		Certificate: models.IssuedCertificate{
			CSR:         req.CSR,
			Certificate: req.Certificate,
			CA:          req.CA,
			Chain:       req.Chain,
		},
	})

	ctx.SetJSONStatus(http.StatusAccepted, "queued")
}

// POSTUpstreamInvalidation is the upstream CA's callback for a single
// invalidated certificate.
func POSTUpstreamInvalidation(ctx *middlewares.AppContext) {
	var req struct {
		Certificate []byte `json:"certificate"`
		Reason      string `json:"reason"`
	}

	if err := json.NewDecoder(ctx.Request.Body).Decode(&req); err != nil {
		ctx.Logger.Error("failed to decode request body", "error", err)
		ctx.SetJSONError(http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	if len(req.Certificate) == 0 {
		ctx.SetJSONError(http.StatusBadRequest, "certificate is required")
		return
	}

	ctx.Engine.Submit(relay.CertificateInvalidated{
		Certificate: req.Certificate,
		Reason:      req.Reason,
	})

	ctx.SetJSONStatus(http.StatusAccepted, "queued")
}

// POSTUpstreamInvalidateAll is the upstream CA's callback for a full
// invalidation of everything it issued.
func POSTUpstreamInvalidateAll(ctx *middlewares.AppContext) {
	ctx.Engine.Submit(relay.AllInvalidated{})
	ctx.SetJSONStatus(http.StatusAccepted, "queued")
}
