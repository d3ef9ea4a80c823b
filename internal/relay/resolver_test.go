package relay

import (
	"testing"

	"tls-constraints/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTenant(t *testing.T) {
	csrX := []byte("-----BEGIN CERTIFICATE REQUEST-----\nxxx\n-----END CERTIFICATE REQUEST-----\n")
	csrY := []byte("-----BEGIN CERTIFICATE REQUEST-----\nyyy\n-----END CERTIFICATE REQUEST-----\n")

	tests := []struct {
		name        string
		csr         []byte
		outstanding []models.OutstandingRequest
		wantTenant  string
		wantErr     error
	}{
		{
			name:        "single match",
			csr:         csrX,
			outstanding: []models.OutstandingRequest{{TenantID: "tenant-1", CSR: csrX}},
			wantTenant:  "tenant-1",
		},
		{
			name: "no match",
			csr:  csrY,
			outstanding: []models.OutstandingRequest{
				{TenantID: "tenant-1", CSR: csrX},
			},
			wantErr: ErrNoMatchingTenant,
		},
		{
			name:        "empty outstanding set",
			csr:         csrX,
			outstanding: nil,
			wantErr:     ErrNoMatchingTenant,
		},
		{
			name: "identical bytes from two tenants is ambiguous",
			csr:  csrX,
			outstanding: []models.OutstandingRequest{
				{TenantID: "tenant-1", CSR: csrX},
				{TenantID: "tenant-2", CSR: csrX},
			},
			wantErr: ErrAmbiguousMatch,
		},
		{
			name: "same tenant twice is not ambiguous",
			csr:  csrX,
			outstanding: []models.OutstandingRequest{
				{TenantID: "tenant-1", CSR: csrX},
				{TenantID: "tenant-1", CSR: csrX},
			},
			wantTenant: "tenant-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenantID, err := ResolveTenant(tt.csr, tt.outstanding)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTenant, tenantID)
		})
	}
}
