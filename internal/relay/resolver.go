package relay

import (
	"bytes"
	"errors"

	"tls-constraints/internal/models"
)

var (
	// ErrNoMatchingTenant means no outstanding request carries the CSR an
	// issued certificate answers; the certificate cannot be delivered.
	ErrNoMatchingTenant = errors.New("no tenant found for certificate signing request")

	// ErrAmbiguousMatch means more than one tenant submitted byte-identical
	// CSRs. That implies a duplicated private key, which the relay refuses to
	// arbitrate: delivering to any one of them would leak the certificate.
	ErrAmbiguousMatch = errors.New("multiple tenants share the same certificate signing request")
)

// ResolveTenant maps an issued certificate back to the tenant that requested
// it by exact byte comparison of CSRs, not semantic equivalence.
func ResolveTenant(csrPEM []byte, outstanding []models.OutstandingRequest) (string, error) {
	tenants := make(map[string]struct{})
	for _, req := range outstanding {
		if bytes.Equal(req.CSR, csrPEM) {
			tenants[req.TenantID] = struct{}{}
		}
	}

	if len(tenants) == 0 {
		return "", ErrNoMatchingTenant
	}
	if len(tenants) > 1 {
		return "", ErrAmbiguousMatch
	}

	for tenantID := range tenants {
		return tenantID, nil
	}
	return "", ErrNoMatchingTenant
}
