package csr

import (
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
)

var oidExtensionSubjectAltName = asn1.ObjectIdentifier{2, 5, 29, 17}

// SAN GeneralName context tags (RFC 5280 section 4.2.1.6).
const (
	sanTagDNSName      = 2
	sanTagIPAddress    = 7
	sanTagRegisteredID = 8
)

// oidCommonName is the X.500 attribute type for CN (2.5.4.3).
var oidCommonName = asn1.ObjectIdentifier{2, 5, 4, 3}

// MalformedRequestError reports CSR bytes that could not be parsed into a
// valid certificate signing request.
type MalformedRequestError struct {
	Err error
}

func (e *MalformedRequestError) Error() string {
	return fmt.Sprintf("malformed certificate signing request: %v", e.Err)
}

func (e *MalformedRequestError) Unwrap() error {
	return e.Err
}

// Details are the admission-relevant facts extracted from a CSR. They are
// recomputed from the raw bytes on every Parse call and never cached.
type Details struct {
	// CommonNames holds every CN attribute of the Subject, in order.
	CommonNames []string
	// DNSNames, IPAddresses and OIDs come from the Subject Alternative Name
	// extension. IP addresses are in canonical string form, OIDs in dotted
	// form.
	DNSNames    []string
	IPAddresses []string
	OIDs        []string
	// HasSAN is false when the CSR carries no SAN extension at all. The
	// filters decide what absence means; it is not a parse error.
	HasSAN bool
}

// Parse extracts Details from a PEM-encoded CSR. It returns a
// *MalformedRequestError when the bytes do not decode as PEM, do not parse as
// a CSR, or carry an invalid signature.
func Parse(pemBytes []byte) (*Details, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, &MalformedRequestError{Err: fmt.Errorf("no PEM data found")}
	}

	req, err := x509.ParseCertificateRequest(block.Bytes)
	if err != nil {
		return nil, &MalformedRequestError{Err: err}
	}

	if err := req.CheckSignature(); err != nil {
		return nil, &MalformedRequestError{Err: err}
	}

	details := &Details{
		DNSNames: req.DNSNames,
	}

	for _, name := range req.Subject.Names {
		if name.Type.Equal(oidCommonName) {
			if cn, ok := name.Value.(string); ok {
				details.CommonNames = append(details.CommonNames, cn)
			}
		}
	}

	for _, ip := range req.IPAddresses {
		details.IPAddresses = append(details.IPAddresses, ip.String())
	}

	for _, ext := range req.Extensions {
		if !ext.Id.Equal(oidExtensionSubjectAltName) {
			continue
		}
		details.HasSAN = true

		oids, err := registeredIDs(ext.Value)
		if err != nil {
			return nil, &MalformedRequestError{Err: err}
		}
		details.OIDs = oids
	}

	return details, nil
}

// registeredIDs walks the raw SAN extension value and collects the
// RegisteredID entries as dotted strings. The standard library parses DNS and
// IP general names but drops RegisteredIDs, so this re-reads the extension.
func registeredIDs(value []byte) ([]string, error) {
	var seq asn1.RawValue
	rest, err := asn1.Unmarshal(value, &seq)
	if err != nil {
		return nil, fmt.Errorf("invalid subjectAltName extension: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trailing data after subjectAltName extension")
	}
	if !seq.IsCompound || seq.Tag != asn1.TagSequence || seq.Class != asn1.ClassUniversal {
		return nil, fmt.Errorf("invalid subjectAltName sequence")
	}

	var oids []string
	data := seq.Bytes
	for len(data) > 0 {
		var name asn1.RawValue
		data, err = asn1.Unmarshal(data, &name)
		if err != nil {
			return nil, fmt.Errorf("invalid subjectAltName entry: %w", err)
		}
		if name.Class != asn1.ClassContextSpecific || name.Tag != sanTagRegisteredID {
			continue
		}

		// The registeredID content octets are an implicitly tagged OBJECT
		// IDENTIFIER; restore the universal tag before decoding.
		der := append([]byte{asn1.TagOID, byte(len(name.Bytes))}, name.Bytes...)
		var oid asn1.ObjectIdentifier
		if _, err := asn1.Unmarshal(der, &oid); err != nil {
			return nil, fmt.Errorf("invalid registeredID in subjectAltName: %w", err)
		}
		oids = append(oids, oid.String())
	}

	return oids, nil
}
