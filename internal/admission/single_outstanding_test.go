package admission_test

import (
	"context"
	"testing"

	"tls-constraints/internal/admission"
	"tls-constraints/internal/models"
	"tls-constraints/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestSingleOutstandingRequest(t *testing.T) {
	csrA := testutil.GenerateCSR(t, testutil.CSROptions{DNSNames: []string{"a.example.com"}})
	csrB := testutil.GenerateCSR(t, testutil.CSROptions{DNSNames: []string{"b.example.com"}})

	logger, _ := testutil.NewTestLogger()
	filter := admission.NewSingleOutstandingRequest(logger)

	tests := []struct {
		name        string
		tenantID    string
		csr         []byte
		outstanding []models.OutstandingRequest
		want        bool
	}{
		{
			name:        "first request from a tenant",
			tenantID:    "tenant-1",
			csr:         csrA,
			outstanding: []models.OutstandingRequest{{TenantID: "tenant-1", CSR: csrA}},
			want:        true,
		},
		{
			name:     "second distinct request is denied",
			tenantID: "tenant-1",
			csr:      csrB,
			outstanding: []models.OutstandingRequest{
				{TenantID: "tenant-1", CSR: csrA},
				{TenantID: "tenant-1", CSR: csrB},
			},
			want: false,
		},
		{
			name:     "renewal resubmission occupies the same slot",
			tenantID: "tenant-1",
			csr:      csrA,
			outstanding: []models.OutstandingRequest{
				{TenantID: "tenant-1", CSR: csrA},
			},
			want: true,
		},
		{
			name:     "other tenants do not count",
			tenantID: "tenant-1",
			csr:      csrA,
			outstanding: []models.OutstandingRequest{
				{TenantID: "tenant-1", CSR: csrA},
				{TenantID: "tenant-2", CSR: csrB},
				{TenantID: "tenant-3", CSR: csrB},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Evaluate(context.Background(), tt.csr, tt.tenantID, tt.outstanding)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSingleOutstandingRequestCommitIsNoOp(t *testing.T) {
	logger, _ := testutil.NewTestLogger()
	filter := admission.NewSingleOutstandingRequest(logger)

	assert.NoError(t, filter.Commit(context.Background(), []byte("anything"), "tenant-1"))
}
