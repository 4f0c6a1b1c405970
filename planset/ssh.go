package planset

import (
	"crypto/rsa"
	"fmt"

	"golang.org/x/crypto/ssh"

	"github.com/genesis-community/genesis/store"
)

// SSHPlan is the `ssh <bits> [fixed]` cred-line kind (§3, §6).
type SSHPlan struct {
	path  string
	Size  int
	fixed bool
}

func (p *SSHPlan) Path() string { return p.path }
func (p *SSHPlan) Kind() Kind   { return KindSSH }
func (p *SSHPlan) Fixed() bool  { return p.fixed }

func (p *SSHPlan) Describe() map[string]interface{} {
	return map[string]interface{}{"path": p.path, "type": string(KindSSH), "size": p.Size, "fixed": p.fixed}
}

func (p *SSHPlan) ExpectedKeys() []string { return []string{"private", "public", "fingerprint"} }

func (p *SSHPlan) Generate(c *store.Client, opts GenOpts) error {
	return c.GenSSH(p.path, p.Size, opts.NoClobber)
}

func (p *SSHPlan) RemovePaths() []string { return []string{p.path} }

// Validate implements Validatable (§4.F): both keys parse, the private key
// re-derives the declared public key, and the fingerprint's key size
// matches what was declared.
func (p *SSHPlan) Validate(snap store.Snapshot) []Check {
	values := snap[p.path]
	if values == nil || values.Empty() {
		return []Check{{Name: "existence", Outcome: OutcomeMissing, Detail: "no values found at " + p.path}}
	}

	var checks []Check
	signer, err := ssh.ParsePrivateKey([]byte(values.Get("private")))
	if err != nil {
		return append(checks, Check{Name: "private", Outcome: OutcomeError, Detail: err.Error()})
	}
	checks = append(checks, Check{Name: "private", Outcome: OutcomeOK})

	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(values.Get("public")))
	if err != nil {
		checks = append(checks, Check{Name: "public", Outcome: OutcomeError, Detail: err.Error()})
	} else {
		checks = append(checks, Check{Name: "public", Outcome: OutcomeOK})
		if string(pub.Marshal()) != string(signer.PublicKey().Marshal()) {
			checks = append(checks, Check{Name: "keypair", Outcome: OutcomeError, Detail: "public key does not match private key"})
		} else {
			checks = append(checks, Check{Name: "keypair", Outcome: OutcomeOK})
		}
	}

	wantFP := ssh.FingerprintSHA256(signer.PublicKey())
	if gotFP := values.Get("fingerprint"); gotFP != "" && gotFP != wantFP {
		checks = append(checks, Check{Name: "fingerprint", Outcome: OutcomeWarn, Detail: fmt.Sprintf("stored fingerprint %q does not match recomputed %q", gotFP, wantFP)})
	} else {
		checks = append(checks, Check{Name: "fingerprint", Outcome: OutcomeOK})
	}

	if rsaKey, ok := signer.PublicKey().(ssh.CryptoPublicKey); ok {
		if bits := rsaKeyBits(rsaKey); bits != 0 && bits != p.Size {
			checks = append(checks, Check{Name: "size", Outcome: OutcomeWarn, Detail: fmt.Sprintf("key is %d bits, declared %d", bits, p.Size)})
		} else {
			checks = append(checks, Check{Name: "size", Outcome: OutcomeOK})
		}
	}

	return checks
}

// rsaKeyBits returns an RSA public key's modulus size in bits, or 0 for
// any other key type (the bit-size check only applies to RSA SSH keys).
func rsaKeyBits(key ssh.CryptoPublicKey) int {
	if pub, ok := key.CryptoPublicKey().(*rsa.PublicKey); ok {
		return pub.N.BitLen()
	}
	return 0
}
