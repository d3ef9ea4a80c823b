// Package tenants tracks, per tenant channel, the set of outstanding
// certificate requests and the certificates issued against them. It is the
// in-process side of the tenant channel port; transport to the actual tenants
// stays outside this service.
package tenants

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"tls-constraints/internal/models"
)

type Registry struct {
	mutex       sync.RWMutex
	logger      *slog.Logger
	outstanding []models.OutstandingRequest
	issued      map[string][]models.IssuedCertificate
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger,
		issued: make(map[string][]models.IssuedCertificate),
	}
}

// AddRequest records a tenant's CSR in the outstanding set. Resubmitting the
// identical CSR is a no-op: the request already occupies its slot. The CSR
// must be recorded before the admission event is submitted, so the decision
// snapshot includes it.
func (r *Registry) AddRequest(tenantID string, csrPEM []byte, isCA bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, req := range r.outstanding {
		if req.TenantID == tenantID && bytes.Equal(req.CSR, csrPEM) {
			return
		}
	}

	r.outstanding = append(r.outstanding, models.OutstandingRequest{
		TenantID: tenantID,
		CSR:      csrPEM,
		IsCA:     isCA,
	})
}

// RemoveRequest drops a tenant's CSR from the outstanding set.
func (r *Registry) RemoveRequest(tenantID string, csrPEM []byte) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	kept := r.outstanding[:0]
	for _, req := range r.outstanding {
		if req.TenantID == tenantID && bytes.Equal(req.CSR, csrPEM) {
			continue
		}
		kept = append(kept, req)
	}
	r.outstanding = kept
}

// Outstanding returns a fresh copy of every pending request.
func (r *Registry) Outstanding(ctx context.Context) ([]models.OutstandingRequest, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	snapshot := make([]models.OutstandingRequest, len(r.outstanding))
	copy(snapshot, r.outstanding)
	return snapshot, nil
}

// PublishCertificate stores an issued certificate for a tenant. A certificate
// answering the same CSR replaces the previous one (renewal); anything else
// is appended.
func (r *Registry) PublishCertificate(ctx context.Context, tenantID string, cert models.IssuedCertificate) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, existing := range r.issued[tenantID] {
		if bytes.Equal(existing.CSR, cert.CSR) {
			r.issued[tenantID][i] = cert
			return nil
		}
	}

	r.issued[tenantID] = append(r.issued[tenantID], cert)
	return nil
}

// RemoveCertificate withdraws an invalidated certificate wherever it was
// published.
func (r *Registry) RemoveCertificate(ctx context.Context, certificate []byte) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for tenantID, certs := range r.issued {
		kept := certs[:0]
		for _, cert := range certs {
			if bytes.Equal(cert.Certificate, certificate) {
				r.logger.Info("removed invalidated certificate", "tenant_id", tenantID)
				continue
			}
			kept = append(kept, cert)
		}
		r.issued[tenantID] = kept
	}
	return nil
}

// RevokeAll withdraws every published certificate from every tenant.
func (r *Registry) RevokeAll(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.issued = make(map[string][]models.IssuedCertificate)
	return nil
}

// Certificates returns the certificates currently published to a tenant.
func (r *Registry) Certificates(tenantID string) []models.IssuedCertificate {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	certs := make([]models.IssuedCertificate, len(r.issued[tenantID]))
	copy(certs, r.issued[tenantID])
	return certs
}
