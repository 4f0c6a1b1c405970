package planset

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/genesis-community/genesis/store"
)

// RSAPlan is the `rsa <bits> [fixed]` cred-line kind (§3, §6).
type RSAPlan struct {
	path  string
	Size  int
	fixed bool
}

func (p *RSAPlan) Path() string { return p.path }
func (p *RSAPlan) Kind() Kind   { return KindRSA }
func (p *RSAPlan) Fixed() bool  { return p.fixed }

func (p *RSAPlan) Describe() map[string]interface{} {
	return map[string]interface{}{"path": p.path, "type": string(KindRSA), "size": p.Size, "fixed": p.fixed}
}

func (p *RSAPlan) ExpectedKeys() []string { return []string{"private", "public"} }

func (p *RSAPlan) Generate(c *store.Client, opts GenOpts) error {
	return c.GenRSA(p.path, p.Size, opts.NoClobber)
}

func (p *RSAPlan) RemovePaths() []string { return []string{p.path} }

// Validate implements Validatable (§4.F): both halves parse, their moduli
// agree, and the key size matches what was declared.
func (p *RSAPlan) Validate(snap store.Snapshot) []Check {
	values := snap[p.path]
	if values == nil || values.Empty() {
		return []Check{{Name: "existence", Outcome: OutcomeMissing, Detail: "no values found at " + p.path}}
	}

	var checks []Check
	priv, err := parseRSAKeyPEM(values.Get("private"))
	if err != nil {
		return append(checks, Check{Name: "private", Outcome: OutcomeError, Detail: err.Error()})
	}
	checks = append(checks, Check{Name: "private", Outcome: OutcomeOK})

	pub, err := parseRSAPublicPEM(values.Get("public"))
	if err != nil {
		checks = append(checks, Check{Name: "public", Outcome: OutcomeError, Detail: err.Error()})
	} else {
		checks = append(checks, Check{Name: "public", Outcome: OutcomeOK})
		if pub.N.Cmp(priv.N) != 0 {
			checks = append(checks, Check{Name: "modulus", Outcome: OutcomeError, Detail: "public and private moduli disagree"})
		} else {
			checks = append(checks, Check{Name: "modulus", Outcome: OutcomeOK})
		}
	}

	if bits := priv.N.BitLen(); bits != p.Size {
		checks = append(checks, Check{Name: "size", Outcome: OutcomeWarn, Detail: fmt.Sprintf("key is %d bits, declared %d", bits, p.Size)})
	} else {
		checks = append(checks, Check{Name: "size", Outcome: OutcomeOK})
	}

	return checks
}

func parseRSAPublicPEM(raw string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in public key")
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("key is not an RSA public key")
	}
	return pub, nil
}
