package csr_test

import (
	"errors"
	"testing"

	"tls-constraints/internal/csr"
	"tls-constraints/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtractsAllIdentifiers(t *testing.T) {
	pemBytes := testutil.GenerateCSR(t, testutil.CSROptions{
		CommonName:  "service.example.com",
		DNSNames:    []string{"api.example.com", "www.example.com"},
		IPAddresses: []string{"10.0.0.1"},
		OIDs:        []string{"1.3.6.1.4.1.999"},
	})

	details, err := csr.Parse(pemBytes)
	require.NoError(t, err)

	assert.Equal(t, []string{"service.example.com"}, details.CommonNames)
	assert.Equal(t, []string{"api.example.com", "www.example.com"}, details.DNSNames)
	assert.Equal(t, []string{"10.0.0.1"}, details.IPAddresses)
	assert.Equal(t, []string{"1.3.6.1.4.1.999"}, details.OIDs)
	assert.True(t, details.HasSAN)
}

func TestParseCanonicalizesIPAddresses(t *testing.T) {
	pemBytes := testutil.GenerateCSR(t, testutil.CSROptions{
		IPAddresses: []string{"2001:db8:0:0:0:0:0:1"},
	})

	details, err := csr.Parse(pemBytes)
	require.NoError(t, err)

	assert.Equal(t, []string{"2001:db8::1"}, details.IPAddresses)
}

func TestParseWithoutSAN(t *testing.T) {
	pemBytes := testutil.GenerateCSR(t, testutil.CSROptions{
		CommonName: "bare.example.com",
		NoSAN:      true,
	})

	details, err := csr.Parse(pemBytes)
	require.NoError(t, err)

	assert.False(t, details.HasSAN)
	assert.Empty(t, details.DNSNames)
	assert.Empty(t, details.IPAddresses)
	assert.Empty(t, details.OIDs)
	assert.Equal(t, []string{"bare.example.com"}, details.CommonNames)
}

func TestParseEmptySANIsNotAnError(t *testing.T) {
	pemBytes := testutil.GenerateCSR(t, testutil.CSROptions{
		CommonName: "empty-san.example.com",
	})

	details, err := csr.Parse(pemBytes)
	require.NoError(t, err)

	assert.True(t, details.HasSAN)
	assert.Empty(t, details.DNSNames)
	assert.Empty(t, details.OIDs)
}

func TestParseMalformedRequests(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "not PEM",
			data: []byte("this is not a certificate signing request"),
		},
		{
			name: "empty input",
			data: nil,
		},
		{
			name: "PEM with garbage DER",
			data: []byte("-----BEGIN CERTIFICATE REQUEST-----\nZ2FyYmFnZQ==\n-----END CERTIFICATE REQUEST-----\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := csr.Parse(tt.data)
			require.Error(t, err)

			var malformed *csr.MalformedRequestError
			assert.True(t, errors.As(err, &malformed))
		})
	}
}

func TestParseRecomputesDetailsPerCall(t *testing.T) {
	pemBytes := testutil.GenerateCSR(t, testutil.CSROptions{
		DNSNames: []string{"a.example.com"},
	})

	first, err := csr.Parse(pemBytes)
	require.NoError(t, err)
	first.DNSNames[0] = "mutated.example.com"

	second, err := csr.Parse(pemBytes)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.example.com"}, second.DNSNames)
}
