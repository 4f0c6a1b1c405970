package planset_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/genesis-community/genesis/planset"
)

var _ = Describe("Parse", func() {
	It("produces one x509 plan per leaf, keyed by base-path/leaf", func() {
		meta := planset.Metadata{
			Certificates: map[string]map[string]map[string]planset.X509Spec{
				"base": {
					"my-cert": {
						"ca":     {IsCA: true},
						"server": {Names: []string{"srv.example"}},
					},
				},
			},
		}
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		Expect(ps.Len()).To(Equal(2))

		ca, ok := ps.Get("my-cert/ca")
		Expect(ok).To(BeTrue())
		Expect(ca.Kind()).To(Equal(planset.KindX509))
		Expect(ca.Describe()["is_ca"]).To(BeTrue())

		server, ok := ps.Get("my-cert/server")
		Expect(ok).To(BeTrue())
		Expect(server.Describe()["names"]).To(Equal([]string{"srv.example"}))
	})

	It("rewrites the legacy base.application/certs.ca signed_by form", func() {
		meta := planset.Metadata{
			Certificates: map[string]map[string]map[string]planset.X509Spec{
				"base": {
					"thing": {
						"leaf": {SignedBy: "base.application/certs.ca"},
					},
				},
			},
		}
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		leaf, _ := ps.Get("thing/leaf")
		Expect(leaf.Describe()["signed_by"]).To(Equal("application/certs/ca"))
	})

	It("parses per-key random and uuid cred-lines", func() {
		meta := planset.Metadata{
			Credentials: map[string]map[string]planset.CredentialSpec{
				"base": {
					"crazy/thing": mustCredSpec(map[string]string{
						"id":    "random 32 fixed",
						"token": "random 16",
					}),
				},
			},
		}
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		Expect(ps.Len()).To(Equal(2))

		id, ok := ps.Get("crazy/thing:id")
		Expect(ok).To(BeTrue())
		Expect(id.Fixed()).To(BeTrue())
		Expect(id.Describe()["size"]).To(Equal(32))

		token, ok := ps.Get("crazy/thing:token")
		Expect(ok).To(BeTrue())
		Expect(token.Fixed()).To(BeFalse())
	})

	It("rejects a bare random cred-line at the path level", func() {
		meta := planset.Metadata{
			Credentials: map[string]map[string]planset.CredentialSpec{
				"base": {
					"oops": mustCredSpec("random 32"),
				},
			},
		}
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		plan, ok := ps.Get("oops")
		Expect(ok).To(BeTrue())
		Expect(plan.Kind()).To(Equal(planset.KindError))
	})

	It("parses a bare rsa string-spec", func() {
		meta := planset.Metadata{
			Credentials: map[string]map[string]planset.CredentialSpec{
				"base": {
					"work/signing_key": mustCredSpec("rsa 2048 fixed"),
				},
			},
		}
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		plan, ok := ps.Get("work/signing_key")
		Expect(ok).To(BeTrue())
		Expect(plan.Kind()).To(Equal(planset.KindRSA))
		Expect(plan.Fixed()).To(BeTrue())
	})

	It("parses provided entries into one plan per key", func() {
		meta := planset.Metadata{
			Provided: map[string]map[string]planset.ProvidedSpec{
				"base": {
					"app/creds": {
						Type: "generic",
						Keys: map[string]planset.ProvidedKeySpec{
							"username": {Prompt: "Username: "},
						},
					},
				},
			},
		}
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		plan, ok := ps.Get("app/creds:username")
		Expect(ok).To(BeTrue())
		Expect(plan.Kind()).To(Equal(planset.KindProvided))
	})

	It("only includes features that are active", func() {
		meta := planset.Metadata{
			Credentials: map[string]map[string]planset.CredentialSpec{
				"extra": {
					"path": mustCredSpec("rsa 2048"),
				},
			},
		}
		ps := planset.Parse(meta, []string{"base"}, planset.ParseOpts{})
		Expect(ps.Len()).To(Equal(0))
	})
})

func mustCredSpec(v interface{}) planset.CredentialSpec {
	var spec planset.CredentialSpec
	switch val := v.(type) {
	case string:
		_ = spec.UnmarshalYAML(func(out interface{}) error {
			*(out.(*interface{})) = val
			return nil
		})
	case map[string]string:
		m := map[interface{}]interface{}{}
		for k, v := range val {
			m[k] = v
		}
		_ = spec.UnmarshalYAML(func(out interface{}) error {
			*(out.(*interface{})) = m
			return nil
		})
	}
	return spec
}
