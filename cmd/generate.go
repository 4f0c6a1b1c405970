package cmd

import (
	"strconv"

	fmt "github.com/jhunt/go-ansi"

	"github.com/genesis-community/genesis/app"
	"github.com/genesis-community/genesis/store"

	pborman "github.com/pborman/uuid"
)

// registerGenerateCommands wires the teacher's retained ad-hoc generation
// surface (gen/ssh/rsa/dhparam/uuid/x509 issue/renew): generation against
// a path the caller names directly, rather than a kit-declared plan.
func registerGenerateCommands(r *app.Runner, opt *Options) {
	r.Dispatch("gen", &app.Help{
		Summary: "Generate a random password at PATH:KEY",
		Usage:   "genesis gen [-l LENGTH] [-p POLICY] PATH:KEY",
		Type:    app.DestructiveCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		if len(args) != 1 {
			r.ExitWithUsage("gen")
		}
		length := opt.Gen.Length
		if length == 0 {
			length = 64
		}
		path, key := store.ParsePath(args[0])
		client := app.Connect(true)
		return client.GenRandom(path, key, length, opt.Gen.Policy, !opt.Clobber)
	})

	r.Dispatch("uuid", &app.Help{
		Summary: "Generate a new random (v4) UUID at PATH[:KEY]",
		Usage:   "genesis uuid PATH[:KEY]",
		Type:    app.DestructiveCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		if len(args) != 1 {
			r.ExitWithUsage("uuid")
		}
		path, key := store.ParsePath(args[0])
		if key == "" {
			key = "uuid"
		}
		client := app.Connect(true)
		return client.UUIDSet(path, key, pborman.NewRandom().String(), !opt.Clobber)
	})

	r.Dispatch("ssh", &app.Help{
		Summary: "Generate a new SSH RSA keypair",
		Usage:   "genesis ssh [NBITS] PATH",
		Type:    app.DestructiveCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		bits, args := popBits(args, 2048)
		if len(args) != 1 {
			r.ExitWithUsage("ssh")
		}
		client := app.Connect(true)
		return client.GenSSH(args[0], bits, !opt.Clobber)
	})

	r.Dispatch("rsa", &app.Help{
		Summary: "Generate a new RSA keypair",
		Usage:   "genesis rsa [NBITS] PATH",
		Type:    app.DestructiveCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		bits, args := popBits(args, 2048)
		if len(args) != 1 {
			r.ExitWithUsage("rsa")
		}
		client := app.Connect(true)
		return client.GenRSA(args[0], bits, !opt.Clobber)
	})

	r.Dispatch("dhparam", &app.Help{
		Summary: "Generate Diffie-Hellman key exchange parameters",
		Usage:   "genesis dhparam [NBITS] PATH",
		Type:    app.DestructiveCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		bits, args := popBits(args, 2048)
		if len(args) != 1 {
			r.ExitWithUsage("dhparam")
		}
		client := app.Connect(true)
		return client.GenDHParam(args[0], bits, !opt.Clobber)
	})

	r.Dispatch("x509 issue", &app.Help{
		Summary: "Issue a new x509 certificate",
		Usage:   "genesis x509 issue [-A] [-s SUBJECT] [-b BITS] [-i SIGNED-BY] PATH",
		Type:    app.DestructiveCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		if len(args) != 1 {
			r.ExitWithUsage("x509 issue")
		}
		client := app.Connect(true)
		return client.X509Issue(args[0], store.X509Opts{
			CommonName: opt.X509.Issue.Subject,
			Names:      opt.X509.Issue.Name,
			TTL:        opt.X509.Issue.TTL,
			SignedBy:   opt.X509.Issue.SignedBy,
			IsCA:       opt.X509.Issue.CA,
		})
	})

	r.Dispatch("x509 renew", &app.Help{
		Summary: "Renew an x509 certificate in place",
		Usage:   "genesis x509 renew [-s SUBJECT] PATH",
		Type:    app.DestructiveCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		if len(args) != 1 {
			r.ExitWithUsage("x509 renew")
		}
		client := app.Connect(true)
		expiry, err := client.X509Renew(args[0], opt.X509.Renew.Subject)
		if err != nil {
			return err
		}
		fmt.Printf("@G{Renewed} @C{%s}, new expiry @Y{%s}\n", args[0], expiry)
		return nil
	})
}

func popBits(args []string, def int) (int, []string) {
	if len(args) > 0 {
		if u, err := strconv.ParseUint(args[0], 10, 16); err == nil {
			return int(u), args[1:]
		}
	}
	return def, args
}
