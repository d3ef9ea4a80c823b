package relay

import (
	"context"

	"tls-constraints/internal/models"
)

//go:generate mockgen -source=ports.go -destination=../mocks/relay.go -package=mocks

// UpstreamClient is the outbound port to the certificate authority that
// actually signs admitted CSRs.
type UpstreamClient interface {
	// Connected reports whether the upstream CA link exists. While it does
	// not, creation requests are deferred and revocations dropped.
	Connected() bool
	RequestCreation(ctx context.Context, csrPEM []byte, isCA bool) error
	RequestRevocation(ctx context.Context, csrPEM []byte) error
}

// TenantChannel is the port to the downstream tenants: it supplies the
// outstanding-request snapshot and accepts certificate notifications.
type TenantChannel interface {
	// Outstanding returns a fresh snapshot of every pending (tenant, CSR)
	// pair. The engine never caches it between decisions.
	Outstanding(ctx context.Context) ([]models.OutstandingRequest, error)
	PublishCertificate(ctx context.Context, tenantID string, cert models.IssuedCertificate) error
	RemoveCertificate(ctx context.Context, certificate []byte) error
	RevokeAll(ctx context.Context) error
}
