package models

// OutstandingRequest is a single pending certificate signing request as seen
// on the tenant channel. The CSR bytes are the canonical identity of the
// request: two requests are the same request iff their bytes are equal.
type OutstandingRequest struct {
	TenantID string `json:"tenant_id"`
	CSR      []byte `json:"csr"`
	IsCA     bool   `json:"is_ca"`
}

// IssuedCertificate is a certificate reported by the upstream CA for a
// previously forwarded CSR, together with the issuing chain.
type IssuedCertificate struct {
	CSR         []byte   `json:"csr"`
	Certificate []byte   `json:"certificate"`
	CA          []byte   `json:"ca"`
	Chain       [][]byte `json:"chain"`
}
