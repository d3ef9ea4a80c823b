package relay

import (
	"tls-constraints/internal/models"
)

// Event is a single inbound occurrence from either side of the relay. Events
// are processed one at a time, run to completion, by the Engine.
type Event interface {
	Type() string
}

const (
	EventTypeCreateRequest          = "create-request"
	EventTypeRevokeRequest          = "revoke-request"
	EventTypeCertificateAvailable   = "certificate-available"
	EventTypeCertificateInvalidated = "certificate-invalidated"
	EventTypeAllInvalidated         = "all-invalidated"
)

// ReasonExpired marks an invalidation caused by plain certificate expiry. The
// engine ignores it and lets the tenant renew on its own schedule.
const ReasonExpired = "expired"

// CreateRequest asks for a new certificate on behalf of a tenant. The CSR
// must already be recorded in the tenant channel's outstanding set before the
// event is submitted.
type CreateRequest struct {
	TenantID string
	CSR      []byte
	IsCA     bool
}

func (CreateRequest) Type() string { return EventTypeCreateRequest }

// RevokeRequest forwards a tenant's revocation upstream.
type RevokeRequest struct {
	TenantID string
	CSR      []byte
}

func (RevokeRequest) Type() string { return EventTypeRevokeRequest }

// CertificateAvailable reports a certificate issued by the upstream CA.
type CertificateAvailable struct {
	Certificate models.IssuedCertificate
}

func (CertificateAvailable) Type() string { return EventTypeCertificateAvailable }

// CertificateInvalidated reports an upstream invalidation of a single
// certificate.
type CertificateInvalidated struct {
	Certificate []byte
	Reason      string
}

func (CertificateInvalidated) Type() string { return EventTypeCertificateInvalidated }

// AllInvalidated reports that the upstream CA invalidated every certificate
// it issued.
type AllInvalidated struct{}

func (AllInvalidated) Type() string { return EventTypeAllInvalidated }

// Outcome reports how the engine disposed of an event.
type Outcome int

const (
	// OutcomeHandled means the event was fully processed (including
	// deny-and-log dispositions) and will not be seen again.
	OutcomeHandled Outcome = iota
	// OutcomeDeferred means the event could not be processed yet and the
	// engine owns redelivering it later.
	OutcomeDeferred
)
