package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"tls-constraints/internal/admission"
	"tls-constraints/internal/mocks"
	"tls-constraints/internal/models"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newTestEngine(t *testing.T) (*Engine, *mocks.MockTenantChannel, *mocks.MockUpstreamClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	channel := mocks.NewMockTenantChannel(ctrl)
	upstreamClient := mocks.NewMockUpstreamClient(ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	controller := admission.NewController(nil, logger)

	engine := NewEngine(controller, channel, upstreamClient, clock.NewFake(), 16, time.Second, logger)
	return engine, channel, upstreamClient
}

func TestCreateRequestDeferredWithoutUpstream(t *testing.T) {
	engine, _, upstreamClient := newTestEngine(t)
	upstreamClient.EXPECT().Connected().Return(false)

	csrPEM := []byte("csr-bytes")
	engine.process(context.Background(), queuedEvent{id: "ev-1", event: CreateRequest{TenantID: "tenant-1", CSR: csrPEM}})

	assert.Len(t, engine.deferred, 1)
}

func TestDeferredCreateRequestReplayedOnceUpstreamExists(t *testing.T) {
	engine, channel, upstreamClient := newTestEngine(t)
	ctx := context.Background()
	csrPEM := []byte("csr-bytes")

	upstreamClient.EXPECT().Connected().Return(false)
	engine.process(ctx, queuedEvent{id: "ev-1", event: CreateRequest{TenantID: "tenant-1", CSR: csrPEM}})
	assert.Len(t, engine.deferred, 1)

	upstreamClient.EXPECT().Connected().Return(true)
	channel.EXPECT().Outstanding(gomock.Any()).Return([]models.OutstandingRequest{
		{TenantID: "tenant-1", CSR: csrPEM},
	}, nil)
	upstreamClient.EXPECT().RequestCreation(gomock.Any(), csrPEM, false).Return(nil)

	engine.replayDeferred(ctx)
	assert.Empty(t, engine.deferred)
}

func TestCreateRequestForwardedWhenAllowed(t *testing.T) {
	engine, channel, upstreamClient := newTestEngine(t)
	csrPEM := []byte("csr-bytes")

	upstreamClient.EXPECT().Connected().Return(true)
	channel.EXPECT().Outstanding(gomock.Any()).Return([]models.OutstandingRequest{
		{TenantID: "tenant-1", CSR: csrPEM},
	}, nil)
	upstreamClient.EXPECT().RequestCreation(gomock.Any(), csrPEM, true).Return(nil)

	outcome := engine.handle(context.Background(), queuedEvent{
		id:    "ev-1",
		event: CreateRequest{TenantID: "tenant-1", CSR: csrPEM, IsCA: true},
	})
	assert.Equal(t, OutcomeHandled, outcome)
}

func TestCreateRequestDeferredWhenForwardFails(t *testing.T) {
	engine, channel, upstreamClient := newTestEngine(t)
	csrPEM := []byte("csr-bytes")

	upstreamClient.EXPECT().Connected().Return(true)
	channel.EXPECT().Outstanding(gomock.Any()).Return(nil, nil)
	upstreamClient.EXPECT().RequestCreation(gomock.Any(), csrPEM, false).Return(errors.New("upstream unreachable"))

	outcome := engine.handle(context.Background(), queuedEvent{
		id:    "ev-1",
		event: CreateRequest{TenantID: "tenant-1", CSR: csrPEM},
	})
	assert.Equal(t, OutcomeDeferred, outcome)
}

func TestCreateRequestDroppedWhenSnapshotFails(t *testing.T) {
	engine, channel, upstreamClient := newTestEngine(t)

	upstreamClient.EXPECT().Connected().Return(true)
	channel.EXPECT().Outstanding(gomock.Any()).Return(nil, errors.New("channel gone"))

	outcome := engine.handle(context.Background(), queuedEvent{
		id:    "ev-1",
		event: CreateRequest{TenantID: "tenant-1", CSR: []byte("csr-bytes")},
	})
	assert.Equal(t, OutcomeHandled, outcome)
}

func TestRevokeRequestDroppedWithoutUpstream(t *testing.T) {
	engine, _, upstreamClient := newTestEngine(t)

	// Revocations are never deferred; they are ignored until an upstream
	// exists.
	upstreamClient.EXPECT().Connected().Return(false)

	outcome := engine.handle(context.Background(), queuedEvent{
		id:    "ev-1",
		event: RevokeRequest{TenantID: "tenant-1", CSR: []byte("csr-bytes")},
	})
	assert.Equal(t, OutcomeHandled, outcome)
	assert.Empty(t, engine.deferred)
}

func TestRevokeRequestForwarded(t *testing.T) {
	engine, _, upstreamClient := newTestEngine(t)
	csrPEM := []byte("csr-bytes")

	upstreamClient.EXPECT().Connected().Return(true)
	upstreamClient.EXPECT().RequestRevocation(gomock.Any(), csrPEM).Return(nil)

	outcome := engine.handle(context.Background(), queuedEvent{
		id:    "ev-1",
		event: RevokeRequest{TenantID: "tenant-1", CSR: csrPEM},
	})
	assert.Equal(t, OutcomeHandled, outcome)
}

func TestCertificateAvailableDelivered(t *testing.T) {
	engine, channel, _ := newTestEngine(t)
	csrPEM := []byte("csr-bytes")
	cert := models.IssuedCertificate{CSR: csrPEM, Certificate: []byte("cert-bytes")}

	channel.EXPECT().Outstanding(gomock.Any()).Return([]models.OutstandingRequest{
		{TenantID: "tenant-1", CSR: csrPEM},
	}, nil)
	channel.EXPECT().PublishCertificate(gomock.Any(), "tenant-1", cert).Return(nil)

	outcome := engine.handle(context.Background(), queuedEvent{
		id:    "ev-1",
		event: CertificateAvailable{Certificate: cert},
	})
	assert.Equal(t, OutcomeHandled, outcome)
}

func TestCertificateAvailableDroppedWhenAmbiguous(t *testing.T) {
	engine, channel, _ := newTestEngine(t)
	csrPEM := []byte("csr-bytes")

	channel.EXPECT().Outstanding(gomock.Any()).Return([]models.OutstandingRequest{
		{TenantID: "tenant-1", CSR: csrPEM},
		{TenantID: "tenant-2", CSR: csrPEM},
	}, nil)
	// No PublishCertificate expectation: delivering to either tenant would
	// leak a certificate for a shared private key.

	outcome := engine.handle(context.Background(), queuedEvent{
		id:    "ev-1",
		event: CertificateAvailable{Certificate: models.IssuedCertificate{CSR: csrPEM}},
	})
	assert.Equal(t, OutcomeHandled, outcome)
}

func TestCertificateAvailableDroppedWhenUnmatched(t *testing.T) {
	engine, channel, _ := newTestEngine(t)

	channel.EXPECT().Outstanding(gomock.Any()).Return(nil, nil)

	outcome := engine.handle(context.Background(), queuedEvent{
		id:    "ev-1",
		event: CertificateAvailable{Certificate: models.IssuedCertificate{CSR: []byte("unknown")}},
	})
	assert.Equal(t, OutcomeHandled, outcome)
}

func TestExpiredInvalidationIsIgnored(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	// No RemoveCertificate expectation: expiry is left to the tenant.
	outcome := engine.handle(context.Background(), queuedEvent{
		id:    "ev-1",
		event: CertificateInvalidated{Certificate: []byte("cert-bytes"), Reason: ReasonExpired},
	})
	assert.Equal(t, OutcomeHandled, outcome)
}

func TestOtherInvalidationRemovesCertificate(t *testing.T) {
	engine, channel, _ := newTestEngine(t)
	cert := []byte("cert-bytes")

	channel.EXPECT().RemoveCertificate(gomock.Any(), cert).Return(nil)

	outcome := engine.handle(context.Background(), queuedEvent{
		id:    "ev-1",
		event: CertificateInvalidated{Certificate: cert, Reason: "revoked"},
	})
	assert.Equal(t, OutcomeHandled, outcome)
}

func TestAllInvalidatedRevokesEverything(t *testing.T) {
	engine, channel, _ := newTestEngine(t)

	channel.EXPECT().RevokeAll(gomock.Any()).Return(nil)

	outcome := engine.handle(context.Background(), queuedEvent{id: "ev-1", event: AllInvalidated{}})
	assert.Equal(t, OutcomeHandled, outcome)
}
