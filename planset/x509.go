package planset

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"
	"time"

	"github.com/genesis-community/genesis/store"
)

// SelfSigned distinguishes the two self-signed cases §3/Glossary call out:
// 1 means "unsigned leaf treated as self-signed", 2 means "explicit
// self-reference in signed_by" (the resolver's front-of-line CA case).
type SelfSigned int

const (
	NotSelfSigned    SelfSigned = 0
	ImplicitSelf     SelfSigned = 1
	ExplicitSelf     SelfSigned = 2
)

// X509Plan is the certificate/CA plan kind (§3).
type X509Plan struct {
	path             string
	BasePath         string
	IsCA             bool
	Self             SelfSigned
	SignedBy         string
	SignedByAbsPath  bool
	Names            []string
	Usage            []string
	ValidFor         string
	fixed            bool

	// processed is internal resolver scratch; never exposed to callers
	// beyond the ordered sequence it produces (§3 invariant).
	processed bool
}

func (p *X509Plan) Path() string { return p.path }
func (p *X509Plan) Kind() Kind   { return KindX509 }
func (p *X509Plan) Fixed() bool  { return p.fixed }

func (p *X509Plan) Describe() map[string]interface{} {
	return map[string]interface{}{
		"path":        p.path,
		"type":        string(KindX509),
		"base_path":   p.BasePath,
		"is_ca":       p.IsCA,
		"self_signed": int(p.Self),
		"signed_by":   p.SignedBy,
		"names":       append([]string{}, p.Names...),
		"usage":       append([]string{}, p.Usage...),
		"valid_for":   p.ValidFor,
	}
}

// ExpectedKeys returns the x509 store shape: certificate/combined/key for
// leaves, plus crl/serial for CAs (§4.F).
func (p *X509Plan) ExpectedKeys() []string {
	keys := []string{"certificate", "combined", "key"}
	if p.IsCA {
		keys = append(keys, "crl", "serial")
	}
	return keys
}

func (p *X509Plan) Generate(c *store.Client, opts GenOpts) error {
	signedBy := p.SignedBy
	if p.Self != NotSelfSigned {
		signedBy = ""
	}
	ttl := p.ValidFor
	if ttl == "" {
		ttl = "10y"
	}
	usage := p.Usage
	if len(usage) == 0 {
		usage = p.defaultKeyUsage()
	}
	x509opts := store.X509Opts{
		Names:    p.Names,
		TTL:      ttl,
		SignedBy: signedBy,
		IsCA:     p.IsCA,
		Usage:    usage,
	}
	if len(p.Names) > 0 {
		x509opts.CommonName = p.Names[0]
	}
	return c.X509Issue(p.path, x509opts)
}

func (p *X509Plan) Renew(c *store.Client, subject string) (string, error) {
	return c.X509Renew(p.path, subject)
}

func (p *X509Plan) RemovePaths() []string {
	return []string{p.path}
}

// defaultKeyUsage returns the key-usage set §4.F says a plan defaults to
// when it declares none: the CA set for issuing certs, the leaf set
// otherwise.
func (p *X509Plan) defaultKeyUsage() []string {
	if p.IsCA {
		return []string{"server_auth", "client_auth", "crl_sign", "key_cert_sign"}
	}
	return []string{"server_auth", "client_auth"}
}

// keyUsageSynonyms normalizes non_repudiation/content_commitment, which
// §4.F declares interchangeable.
func keyUsageSynonyms(usage []string) map[string]bool {
	set := map[string]bool{}
	for _, u := range usage {
		u = strings.ToLower(u)
		if u == "non_repudiation" || u == "content_commitment" {
			set["non_repudiation"] = true
			set["content_commitment"] = true
			continue
		}
		set[u] = true
	}
	return set
}

// legacySignedByRewrite applies the documented POC-compatibility rewrite
// of `base.application/certs.ca` -> `application/certs/ca` (§4.B, §9 Open
// Questions).
func legacySignedByRewrite(signedBy string) string {
	if !strings.HasPrefix(signedBy, "base.") {
		return signedBy
	}
	rest := strings.TrimPrefix(signedBy, "base.")
	idx := strings.LastIndex(rest, ".")
	if idx < 0 {
		return signedBy
	}
	return rest[:idx] + "/" + rest[idx+1:]
}

func validateX509Plan(p *X509Plan) error {
	if p.SignedBy != "" && p.Self == ExplicitSelf {
		return fmt.Errorf("x509 plan %q cannot declare both signed_by and an explicit self-signed reference", p.path)
	}
	return nil
}

// Validate implements Validatable (§4.F): it parses the stored certificate
// and private key, then checks CN, SANs, CA flag, self-signage or chain
// signage against the declared signer, key modulus agreement, TTL, and
// key usage.
func (p *X509Plan) Validate(snap store.Snapshot) []Check {
	values := snap[p.path]
	if values == nil || values.Empty() {
		return []Check{{Name: "existence", Outcome: OutcomeMissing, Detail: "no values found at " + p.path}}
	}

	var checks []Check
	cert, certErr := parseCertificatePEM(values.Get("certificate"))
	if certErr != nil {
		return append(checks, Check{Name: "certificate", Outcome: OutcomeError, Detail: certErr.Error()})
	}
	checks = append(checks, Check{Name: "certificate", Outcome: OutcomeOK})

	key, keyErr := parseRSAKeyPEM(values.Get("key"))
	if keyErr != nil {
		checks = append(checks, Check{Name: "key", Outcome: OutcomeError, Detail: keyErr.Error()})
	} else {
		checks = append(checks, Check{Name: "key", Outcome: OutcomeOK})
		if pub, ok := cert.PublicKey.(*rsa.PublicKey); ok {
			if pub.N.Cmp(key.N) != 0 {
				checks = append(checks, Check{Name: "modulus", Outcome: OutcomeError, Detail: "certificate and key moduli disagree"})
			} else {
				checks = append(checks, Check{Name: "modulus", Outcome: OutcomeOK})
			}
		}
	}

	if len(p.Names) > 0 && cert.Subject.CommonName != p.Names[0] {
		checks = append(checks, Check{Name: "cn", Outcome: OutcomeWarn, Detail: fmt.Sprintf("CN %q does not match declared %q", cert.Subject.CommonName, p.Names[0])})
	} else {
		checks = append(checks, Check{Name: "cn", Outcome: OutcomeOK})
	}
	checks = append(checks, p.checkSANs(cert))
	checks = append(checks, p.checkCAFlag(cert))
	checks = append(checks, p.checkSignage(cert, snap))
	checks = append(checks, p.checkTTL(cert))
	checks = append(checks, p.checkKeyUsage(cert))

	return checks
}

func (p *X509Plan) checkSANs(cert *x509.Certificate) Check {
	declared := map[string]bool{}
	for _, n := range p.Names {
		declared[n] = true
	}
	actual := map[string]bool{}
	for _, n := range cert.DNSNames {
		actual[n] = true
	}
	for _, ip := range cert.IPAddresses {
		actual[ip.String()] = true
	}
	var missing, extra []string
	for n := range declared {
		if !actual[n] {
			missing = append(missing, n)
		}
	}
	for n := range actual {
		if !declared[n] {
			extra = append(extra, n)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return Check{Name: "san", Outcome: OutcomeOK}
	}
	return Check{Name: "san", Outcome: OutcomeWarn, Detail: fmt.Sprintf("missing=%v extra=%v", missing, extra)}
}

func (p *X509Plan) checkCAFlag(cert *x509.Certificate) Check {
	if cert.IsCA == p.IsCA {
		return Check{Name: "is_ca", Outcome: OutcomeOK}
	}
	return Check{Name: "is_ca", Outcome: OutcomeError, Detail: fmt.Sprintf("certificate CA flag is %v, declared %v", cert.IsCA, p.IsCA)}
}

// checkSignage prefers subject/authority key-id equality, falls back to
// issuer==subject for self-signed plans, and otherwise verifies the
// signature against the signer's certificate when it's present in snap.
func (p *X509Plan) checkSignage(cert *x509.Certificate, snap store.Snapshot) Check {
	if p.Self != NotSelfSigned {
		if bytes.Equal(cert.SubjectKeyId, cert.AuthorityKeyId) || cert.Issuer.String() == cert.Subject.String() {
			return Check{Name: "signage", Outcome: OutcomeOK}
		}
		return Check{Name: "signage", Outcome: OutcomeError, Detail: "certificate is not actually self-signed"}
	}
	if p.SignedByAbsPath || p.SignedBy == "" {
		return Check{Name: "signage", Outcome: OutcomeWarn, Detail: "signer is outside this environment; signage not independently verified"}
	}
	signerValues := snap[p.SignedBy]
	if signerValues == nil || signerValues.Empty() {
		return Check{Name: "signage", Outcome: OutcomeMissing, Detail: "signer " + p.SignedBy + " not found in snapshot"}
	}
	signerCert, err := parseCertificatePEM(signerValues.Get("certificate"))
	if err != nil {
		return Check{Name: "signage", Outcome: OutcomeError, Detail: "could not parse signer certificate: " + err.Error()}
	}
	if len(cert.AuthorityKeyId) > 0 && bytes.Equal(cert.AuthorityKeyId, signerCert.SubjectKeyId) {
		return Check{Name: "signage", Outcome: OutcomeOK}
	}
	if err := cert.CheckSignatureFrom(signerCert); err != nil {
		return Check{Name: "signage", Outcome: OutcomeError, Detail: err.Error()}
	}
	return Check{Name: "signage", Outcome: OutcomeOK}
}

func (p *X509Plan) checkTTL(cert *x509.Certificate) Check {
	now := time.Now()
	if now.Before(cert.NotBefore) {
		return Check{Name: "ttl", Outcome: OutcomeError, Detail: "certificate is not yet valid"}
	}
	remaining := cert.NotAfter.Sub(now)
	switch {
	case remaining <= 0:
		return Check{Name: "ttl", Outcome: OutcomeError, Detail: "certificate has expired"}
	case remaining <= 30*24*time.Hour:
		return Check{Name: "ttl", Outcome: OutcomeWarn, Detail: fmt.Sprintf("expires in %s", remaining.Round(time.Hour))}
	default:
		return Check{Name: "ttl", Outcome: OutcomeOK, Detail: fmt.Sprintf("expires in %s", remaining.Round(time.Hour))}
	}
}

func (p *X509Plan) checkKeyUsage(cert *x509.Certificate) Check {
	declared := p.Usage
	if len(declared) == 0 {
		declared = p.defaultKeyUsage()
	}
	want := keyUsageSynonyms(declared)
	have := actualKeyUsageSet(cert)
	var missing []string
	for u := range want {
		if !have[u] {
			missing = append(missing, u)
		}
	}
	if len(missing) == 0 {
		return Check{Name: "key_usage", Outcome: OutcomeOK}
	}
	return Check{Name: "key_usage", Outcome: OutcomeWarn, Detail: fmt.Sprintf("missing usages: %v", missing)}
}

// actualKeyUsageSet translates x509.Certificate's bitmask/extended-usage
// fields into the same name vocabulary keyUsageSynonyms normalizes,
// covering every key usage token in the Glossary.
func actualKeyUsageSet(cert *x509.Certificate) map[string]bool {
	set := map[string]bool{}
	if cert.KeyUsage&x509.KeyUsageDigitalSignature != 0 {
		set["digital_signature"] = true
	}
	if cert.KeyUsage&x509.KeyUsageContentCommitment != 0 {
		set["non_repudiation"] = true
		set["content_commitment"] = true
	}
	if cert.KeyUsage&x509.KeyUsageKeyEncipherment != 0 {
		set["key_encipherment"] = true
	}
	if cert.KeyUsage&x509.KeyUsageDataEncipherment != 0 {
		set["data_encipherment"] = true
	}
	if cert.KeyUsage&x509.KeyUsageKeyAgreement != 0 {
		set["key_agreement"] = true
	}
	if cert.KeyUsage&x509.KeyUsageCertSign != 0 {
		set["key_cert_sign"] = true
	}
	if cert.KeyUsage&x509.KeyUsageCRLSign != 0 {
		set["crl_sign"] = true
	}
	if cert.KeyUsage&x509.KeyUsageEncipherOnly != 0 {
		set["encipher_only"] = true
	}
	if cert.KeyUsage&x509.KeyUsageDecipherOnly != 0 {
		set["decipher_only"] = true
	}
	for _, eku := range cert.ExtKeyUsage {
		switch eku {
		case x509.ExtKeyUsageServerAuth:
			set["server_auth"] = true
		case x509.ExtKeyUsageClientAuth:
			set["client_auth"] = true
		case x509.ExtKeyUsageCodeSigning:
			set["code_signing"] = true
		case x509.ExtKeyUsageEmailProtection:
			set["email_protection"] = true
		case x509.ExtKeyUsageTimeStamping:
			set["timestamping"] = true
		}
	}
	return set
}

func parseCertificatePEM(raw string) (*x509.Certificate, error) {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in certificate")
	}
	return x509.ParseCertificate(block.Bytes)
}

func parseRSAKeyPEM(raw string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in key")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is not an RSA private key")
	}
	return rsaKey, nil
}
