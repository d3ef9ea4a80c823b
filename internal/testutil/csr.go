package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"net"
	"strconv"
	"strings"
	"testing"
)

var oidExtensionSubjectAltName = asn1.ObjectIdentifier{2, 5, 29, 17}

// CSROptions describes the test CSR to generate. Identical options do NOT
// yield identical bytes (a fresh key is generated each time); reuse the
// returned PEM when a test needs a byte-identical resubmission.
type CSROptions struct {
	CommonName  string
	DNSNames    []string
	IPAddresses []string
	OIDs        []string
	// NoSAN omits the subjectAltName extension entirely.
	NoSAN bool
}

// GenerateCSR returns a PEM-encoded, properly signed certificate request.
func GenerateCSR(t *testing.T, opts CSROptions) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	template := &x509.CertificateRequest{}
	if opts.CommonName != "" {
		template.Subject = pkix.Name{CommonName: opts.CommonName}
	}

	if !opts.NoSAN {
		ext, err := buildSANExtension(opts)
		if err != nil {
			t.Fatalf("failed to build SAN extension: %v", err)
		}
		template.ExtraExtensions = []pkix.Extension{ext}
	}

	der, err := x509.CreateCertificateRequest(rand.Reader, template, key)
	if err != nil {
		t.Fatalf("failed to create CSR: %v", err)
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE REQUEST",
		Bytes: der,
	})
}

// buildSANExtension encodes dNSName, iPAddress and registeredID general names
// by hand, because the standard library cannot emit registeredID entries.
func buildSANExtension(opts CSROptions) (pkix.Extension, error) {
	var names []asn1.RawValue

	for _, dns := range opts.DNSNames {
		names = append(names, asn1.RawValue{
			Class: asn1.ClassContextSpecific,
			Tag:   2,
			Bytes: []byte(dns),
		})
	}

	for _, raw := range opts.IPAddresses {
		ip := net.ParseIP(raw)
		if ip4 := ip.To4(); ip4 != nil {
			ip = ip4
		}
		names = append(names, asn1.RawValue{
			Class: asn1.ClassContextSpecific,
			Tag:   7,
			Bytes: ip,
		})
	}

	for _, dotted := range opts.OIDs {
		oid, err := parseOID(dotted)
		if err != nil {
			return pkix.Extension{}, err
		}
		der, err := asn1.Marshal(oid)
		if err != nil {
			return pkix.Extension{}, err
		}
		var rv asn1.RawValue
		if _, err := asn1.Unmarshal(der, &rv); err != nil {
			return pkix.Extension{}, err
		}
		names = append(names, asn1.RawValue{
			Class: asn1.ClassContextSpecific,
			Tag:   8,
			Bytes: rv.Bytes,
		})
	}

	value, err := asn1.Marshal(names)
	if err != nil {
		return pkix.Extension{}, err
	}

	return pkix.Extension{
		Id:    oidExtensionSubjectAltName,
		Value: value,
	}, nil
}

func parseOID(dotted string) (asn1.ObjectIdentifier, error) {
	parts := strings.Split(dotted, ".")
	oid := make(asn1.ObjectIdentifier, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		oid = append(oid, n)
	}
	return oid, nil
}
