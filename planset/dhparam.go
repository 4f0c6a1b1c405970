package planset

import (
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"

	"github.com/genesis-community/genesis/store"
)

// DHParamPlan is the `dhparam[s] <bits> [fixed]` cred-line kind (§3, §6).
type DHParamPlan struct {
	path  string
	Size  int
	fixed bool
}

func (p *DHParamPlan) Path() string { return p.path }
func (p *DHParamPlan) Kind() Kind   { return KindDHParam }
func (p *DHParamPlan) Fixed() bool  { return p.fixed }

func (p *DHParamPlan) Describe() map[string]interface{} {
	return map[string]interface{}{"path": p.path, "type": string(KindDHParam), "size": p.Size, "fixed": p.fixed}
}

func (p *DHParamPlan) ExpectedKeys() []string { return []string{"dhparam-pem"} }

func (p *DHParamPlan) Generate(c *store.Client, opts GenOpts) error {
	return c.GenDHParam(p.path, p.Size, opts.NoClobber)
}

func (p *DHParamPlan) RemovePaths() []string { return []string{p.path} }

// dhParamsASN1 is the PKCS#3 DHParameter ASN.1 structure a `DH PARAMETERS`
// PEM block encodes.
type dhParamsASN1 struct {
	P *big.Int
	G *big.Int
}

// Validate implements Validatable (§4.F). Full primality verification
// (openssl's `dhparam -check`) is out of reach of the standard library and
// of this plan's Generatable-scoped store client, so this checks what the
// stored PEM itself can prove: it parses as DH parameters and the prime's
// bit length matches the declared size.
func (p *DHParamPlan) Validate(snap store.Snapshot) []Check {
	values := snap[p.path]
	if values == nil || values.Empty() {
		return []Check{{Name: "existence", Outcome: OutcomeMissing, Detail: "no values found at " + p.path}}
	}

	block, _ := pem.Decode([]byte(values.Get("dhparam-pem")))
	if block == nil {
		return []Check{{Name: "dhparam", Outcome: OutcomeError, Detail: "no PEM block found"}}
	}
	var params dhParamsASN1
	if _, err := asn1.Unmarshal(block.Bytes, &params); err != nil {
		return []Check{{Name: "dhparam", Outcome: OutcomeError, Detail: err.Error()}}
	}

	checks := []Check{{Name: "dhparam", Outcome: OutcomeOK}}
	if bits := params.P.BitLen(); bits != p.Size {
		checks = append(checks, Check{Name: "size", Outcome: OutcomeWarn, Detail: fmt.Sprintf("prime is %d bits, declared %d", bits, p.Size)})
	} else {
		checks = append(checks, Check{Name: "size", Outcome: OutcomeOK})
	}
	return checks
}
