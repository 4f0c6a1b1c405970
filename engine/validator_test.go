package engine_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/genesis-community/genesis/engine"
	"github.com/genesis-community/genesis/planset"
	"github.com/genesis-community/genesis/report"
	"github.com/genesis-community/genesis/resolve"
	"github.com/genesis-community/genesis/store"
)

func pemEncodeCert(der []byte) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}

func pemEncodeRSAKey(key *rsa.PrivateKey) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}))
}

func selfSignedCA(cn string) (*rsa.PrivateKey, *x509.Certificate, string) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	Expect(err).ToNot(HaveOccurred())
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		SubjectKeyId:          []byte{1, 2, 3},
		AuthorityKeyId:        []byte{1, 2, 3},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	Expect(err).ToNot(HaveOccurred())
	cert, err := x509.ParseCertificate(der)
	Expect(err).ToNot(HaveOccurred())
	return key, cert, pemEncodeCert(der)
}

func leafSignedBy(cn string, signerKey *rsa.PrivateKey, signerCert *x509.Certificate) (*rsa.PrivateKey, string) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	Expect(err).ToNot(HaveOccurred())
	tmpl := &x509.Certificate{
		SerialNumber:   big.NewInt(2),
		Subject:        pkix.Name{CommonName: cn},
		DNSNames:       []string{cn},
		NotBefore:      time.Now().Add(-time.Hour),
		NotAfter:       time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:       x509.KeyUsageDigitalSignature,
		ExtKeyUsage:    []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		AuthorityKeyId: signerCert.SubjectKeyId,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, signerCert, &key.PublicKey, signerKey)
	Expect(err).ToNot(HaveOccurred())
	return key, pemEncodeCert(der)
}

var _ = Describe("Validator", func() {
	It("passes a self-signed root CA with matching key and usage", func() {
		key, _, certPEM := selfSignedCA("root ca")

		meta := planset.Metadata{
			Certificates: map[string]map[string]map[string]planset.X509Spec{
				"base": {"pki/root": {"ca": {IsCA: true}}},
			},
		}
		ps := resolve.Resolve(planset.Parse(meta, []string{"base"}, planset.ParseOpts{}), "")
		plan, ok := ps.Get("pki/root/ca")
		Expect(ok).To(BeTrue())

		values := store.NewValues()
		Expect(values.Set("certificate", certPEM, false)).To(Succeed())
		Expect(values.Set("key", pemEncodeRSAKey(key), false)).To(Succeed())
		Expect(values.Set("combined", certPEM, false)).To(Succeed())

		snap := store.Snapshot{"pki/root/ca": values}
		v := engine.NewValidator(report.NewBufferSink(nil, nil))
		rep := v.Validate([]planset.Plan{plan}, snap)

		Expect(rep.Worst()).To(Equal(planset.OutcomeOK))
	})

	It("verifies a leaf's signature chains to its declared signer", func() {
		caKey, caCert, caCertPEM := selfSignedCA("root ca")
		leafKey, leafCertPEM := leafSignedBy("app.example.com", caKey, caCert)

		meta := planset.Metadata{
			Certificates: map[string]map[string]map[string]planset.X509Spec{
				"base": {
					"pki/root": {"ca": {IsCA: true}},
					"pki/app":  {"cert": {SignedBy: "pki/root/ca", Names: []string{"app.example.com"}}},
				},
			},
		}
		ps := resolve.Resolve(planset.Parse(meta, []string{"base"}, planset.ParseOpts{}), "")
		leafPlan, ok := ps.Get("pki/app/cert")
		Expect(ok).To(BeTrue())

		caValues := store.NewValues()
		Expect(caValues.Set("certificate", caCertPEM, false)).To(Succeed())
		Expect(caValues.Set("key", pemEncodeRSAKey(caKey), false)).To(Succeed())

		leafValues := store.NewValues()
		Expect(leafValues.Set("certificate", leafCertPEM, false)).To(Succeed())
		Expect(leafValues.Set("key", pemEncodeRSAKey(leafKey), false)).To(Succeed())

		snap := store.Snapshot{"pki/root/ca": caValues, "pki/app/cert": leafValues}
		v := engine.NewValidator(report.NewBufferSink(nil, nil))
		rep := v.Validate([]planset.Plan{leafPlan}, snap)

		Expect(rep.Worst()).To(Equal(planset.OutcomeOK))
	})

	It("reports missing when the snapshot has nothing at the plan's path", func() {
		meta := planset.Metadata{
			Certificates: map[string]map[string]map[string]planset.X509Spec{
				"base": {"pki/root": {"ca": {IsCA: true}}},
			},
		}
		ps := resolve.Resolve(planset.Parse(meta, []string{"base"}, planset.ParseOpts{}), "")
		plan, _ := ps.Get("pki/root/ca")

		v := engine.NewValidator(report.NewBufferSink(nil, nil))
		rep := v.Validate([]planset.Plan{plan}, store.Snapshot{})

		Expect(rep.Worst()).To(Equal(planset.OutcomeMissing))
	})

	It("flags a certificate/key modulus mismatch as an error", func() {
		_, _, certPEM := selfSignedCA("root ca")
		otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
		Expect(err).ToNot(HaveOccurred())

		meta := planset.Metadata{
			Certificates: map[string]map[string]map[string]planset.X509Spec{
				"base": {"pki/root": {"ca": {IsCA: true}}},
			},
		}
		ps := resolve.Resolve(planset.Parse(meta, []string{"base"}, planset.ParseOpts{}), "")
		plan, _ := ps.Get("pki/root/ca")

		values := store.NewValues()
		Expect(values.Set("certificate", certPEM, false)).To(Succeed())
		Expect(values.Set("key", pemEncodeRSAKey(otherKey), false)).To(Succeed())

		snap := store.Snapshot{"pki/root/ca": values}
		v := engine.NewValidator(report.NewBufferSink(nil, nil))
		rep := v.Validate([]planset.Plan{plan}, snap)

		Expect(rep.Worst()).To(Equal(planset.OutcomeError))
		var modulus planset.Check
		for _, c := range rep.Results[0].Checks {
			if c.Name == "modulus" {
				modulus = c
			}
		}
		Expect(modulus.Outcome).To(Equal(planset.OutcomeError))
	})
})
