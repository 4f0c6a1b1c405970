package resolve_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/genesis-community/genesis/planset"
	"github.com/genesis-community/genesis/resolve"
)

func x509Meta(leaves map[string]planset.X509Spec) planset.Metadata {
	return planset.Metadata{
		Certificates: map[string]map[string]map[string]planset.X509Spec{
			"base": {"app": leaves},
		},
	}
}

var _ = Describe("Resolve", func() {
	It("signs an unsigned leaf with its group's sole CA candidate and emits CA before leaf", func() {
		meta := x509Meta(map[string]planset.X509Spec{
			"ca":     {IsCA: true},
			"server": {Names: []string{"srv.example"}},
		})
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		resolve.Resolve(ps, "")

		Expect(ps.Paths()).To(Equal([]string{"app/ca", "app/server"}))

		ca, _ := ps.Get("app/ca")
		Expect(ca.(*planset.X509Plan).Self).To(Equal(planset.ImplicitSelf))

		server, _ := ps.Get("app/server")
		Expect(server.(*planset.X509Plan).SignedBy).To(Equal("app/ca"))
	})

	It("binds the group CA to an external root when one is configured", func() {
		meta := x509Meta(map[string]planset.X509Spec{
			"ca": {IsCA: true},
		})
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		resolve.Resolve(ps, "root/ca")

		ca, _ := ps.Get("app/ca")
		plan := ca.(*planset.X509Plan)
		Expect(plan.SignedBy).To(Equal("root/ca"))
		Expect(plan.SignedByAbsPath).To(BeTrue())
	})

	It("marks every unsigned leaf as an error when the group CA is ambiguous", func() {
		meta := x509Meta(map[string]planset.X509Spec{
			"primary":   {IsCA: true},
			"secondary": {IsCA: true},
			"leaf":      {},
		})
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		resolve.Resolve(ps, "")

		for _, path := range []string{"app/primary", "app/secondary", "app/leaf"} {
			p, ok := ps.Get(path)
			Expect(ok).To(BeTrue())
			Expect(p.Kind()).To(Equal(planset.KindError))
		}
	})

	It("resolves an ambiguous CA when one candidate is literally named ca", func() {
		meta := x509Meta(map[string]planset.X509Spec{
			"ca":   {IsCA: true},
			"odd":  {IsCA: true},
			"leaf": {},
		})
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		resolve.Resolve(ps, "")

		leaf, ok := ps.Get("app/leaf")
		Expect(ok).To(BeTrue())
		Expect(leaf.(*planset.X509Plan).SignedBy).To(Equal("app/ca"))
	})

	It("treats an explicit signer==signee reference as self-signed and puts it first", func() {
		meta := x509Meta(map[string]planset.X509Spec{
			"ca": {IsCA: true, SignedBy: "app/ca"},
		})
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		resolve.Resolve(ps, "")

		ca, _ := ps.Get("app/ca")
		plan := ca.(*planset.X509Plan)
		Expect(plan.Self).To(Equal(planset.ExplicitSelf))
		Expect(plan.SignedBy).To(Equal(""))
		Expect(ps.Paths()[0]).To(Equal("app/ca"))
	})

	It("flags a dangling signed_by reference as missing, not cyclical", func() {
		meta := x509Meta(map[string]planset.X509Spec{
			"leaf": {SignedBy: "app/ghost"},
		})
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		resolve.Resolve(ps, "")

		leaf, _ := ps.Get("app/leaf")
		Expect(leaf.Kind()).To(Equal(planset.KindError))
		Expect(leaf.Describe()["error"]).To(Equal("Could not find associated signing CA"))
	})

	It("detects a genuine mutual signer cycle", func() {
		meta := x509Meta(map[string]planset.X509Spec{
			"a": {SignedBy: "app/b"},
			"b": {SignedBy: "app/a"},
		})
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		resolve.Resolve(ps, "")

		a, _ := ps.Get("app/a")
		b, _ := ps.Get("app/b")
		Expect(a.Describe()["error"]).To(Equal("Cyclical CA signage detected"))
		Expect(b.Describe()["error"]).To(Equal("Cyclical CA signage detected"))
	})

	It("appends non-x509 plans in lexicographic order after the x509 sequence", func() {
		meta := planset.Metadata{
			Certificates: map[string]map[string]map[string]planset.X509Spec{
				"base": {"app": {"ca": {IsCA: true}}},
			},
			Credentials: map[string]map[string]planset.CredentialSpec{
				"base": {
					"zzz/key": mustCredSpecFor("rsa 2048"),
					"aaa/key": mustCredSpecFor("rsa 2048"),
				},
			},
		}
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		resolve.Resolve(ps, "")

		Expect(ps.Paths()).To(Equal([]string{"app/ca", "aaa/key", "zzz/key"}))
	})
})

func mustCredSpecFor(line string) planset.CredentialSpec {
	var spec planset.CredentialSpec
	_ = spec.UnmarshalYAML(func(out interface{}) error {
		*(out.(*interface{})) = line
		return nil
	})
	return spec
}
