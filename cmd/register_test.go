package cmd

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/genesis-community/genesis/app"
)

var _ = Describe("RegisterAll", func() {
	It("registers every lifecycle, target, auth, secret and generate verb", func() {
		r := app.NewRunner()
		RegisterAll(r, NewOptions(), "1.2.3")

		for _, cmd := range []string{
			"add", "recreate", "renew", "remove", "validate", "paths",
			"target", "target delete", "targets", "status", "whoami",
			"store-paths", "tree",
			"auth", "logout",
			"get", "set", "delete",
			"gen", "uuid", "ssh", "rsa", "dhparam", "x509 issue", "x509 renew",
			"version", "help",
		} {
			Expect(r.Handlers).To(HaveKey(cmd), "expected %q to be registered", cmd)
		}
	})

	It("registers the envvars help topic", func() {
		r := app.NewRunner()
		RegisterAll(r, NewOptions(), "")
		Expect(r.Topics).To(HaveKey("envvars"))
	})

	It("does not register the dropped admin or migration verbs", func() {
		r := app.NewRunner()
		RegisterAll(r, NewOptions(), "")
		for _, cmd := range []string{"seal", "unseal", "init", "rekey", "migrate", "import", "export"} {
			Expect(r.Handlers).ToNot(HaveKey(cmd))
		}
	})
})
