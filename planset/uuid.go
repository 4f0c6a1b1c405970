package planset

import (
	"fmt"
	"strings"

	pborman "github.com/pborman/uuid"

	"github.com/genesis-community/genesis/store"
)

// UUIDVersion enumerates the RFC-4122 variants the `uuid` cred-line grammar
// accepts (§6): v1/time are equivalent spellings of the same kind, as are
// v3/md5 and v4/random and v5/sha1.
type UUIDVersion string

const (
	UUIDv1 UUIDVersion = "v1"
	UUIDv3 UUIDVersion = "v3"
	UUIDv4 UUIDVersion = "v4"
	UUIDv5 UUIDVersion = "v5"
)

// UUIDPlan is the `uuid [v1|...] [namespace ...] [name ...] [fixed]`
// cred-line kind. Its Path is always the "P:K" notation (§3).
type UUIDPlan struct {
	BasePath  string
	Key       string
	Version   UUIDVersion
	Namespace string // well-known token (dns/url/oid/x500) or a literal UUID
	Name      string
	fixed     bool
}

func (p *UUIDPlan) Path() string { return store.EncodePath(p.BasePath, p.Key) }
func (p *UUIDPlan) Kind() Kind   { return KindUUID }
func (p *UUIDPlan) Fixed() bool  { return p.fixed }

func (p *UUIDPlan) Describe() map[string]interface{} {
	return map[string]interface{}{
		"path":      p.Path(),
		"type":      string(KindUUID),
		"version":   string(p.Version),
		"namespace": p.Namespace,
		"name":      p.Name,
		"fixed":     p.fixed,
	}
}

func (p *UUIDPlan) ExpectedKeys() []string { return []string{p.Key} }

// namespaceUUID resolves the `namespace` token to the well-known namespace
// UUID or parses it as a literal UUID, per §6's `<dns|url|oid|x500|UUID>`.
func namespaceUUID(token string) (pborman.UUID, error) {
	switch token {
	case "", "dns":
		return pborman.NameSpace_DNS, nil
	case "url":
		return pborman.NameSpace_URL, nil
	case "oid":
		return pborman.NameSpace_OID, nil
	case "x500":
		return pborman.NameSpace_X500, nil
	default:
		u := pborman.Parse(token)
		if u == nil {
			return nil, fmt.Errorf("invalid uuid namespace %q", token)
		}
		return u, nil
	}
}

// Compute derives this plan's UUID value. v1/v4 are
// random per call (idempotence relies on `add`'s --no-clobber rather than
// determinism); v3/v5 are fully deterministic from namespace+name, which
// is what lets the validator's hash check recompute and compare (§4.F,
// end-to-end scenario 5).
func (p *UUIDPlan) Compute() (string, error) {
	switch p.Version {
	case UUIDv1, "":
		return pborman.NewUUID().String(), nil
	case UUIDv4:
		return pborman.NewRandom().String(), nil
	case UUIDv3:
		ns, err := namespaceUUID(p.Namespace)
		if err != nil {
			return "", err
		}
		return pborman.NewMD5(ns, []byte(p.Name)).String(), nil
	case UUIDv5:
		ns, err := namespaceUUID(p.Namespace)
		if err != nil {
			return "", err
		}
		return pborman.NewSHA1(ns, []byte(p.Name)).String(), nil
	default:
		return "", fmt.Errorf("unknown uuid version %q", p.Version)
	}
}

func (p *UUIDPlan) Generate(c *store.Client, opts GenOpts) error {
	value, err := p.Compute()
	if err != nil {
		return err
	}
	return c.UUIDSet(p.BasePath, p.Key, value, opts.NoClobber)
}

func (p *UUIDPlan) RemovePaths() []string {
	return []string{store.EncodePath(p.BasePath, p.Key)}
}

// Validate implements Validatable (§4.F): the stored value parses as a
// UUID, and for v3/v5 recomputing from the declared namespace+name
// reproduces it exactly.
func (p *UUIDPlan) Validate(snap store.Snapshot) []Check {
	values := snap[p.BasePath]
	if values == nil || !values.Has(p.Key) {
		return []Check{{Name: "existence", Outcome: OutcomeMissing, Detail: "no value found at " + p.Path()}}
	}

	raw := values.Get(p.Key)
	if pborman.Parse(raw) == nil {
		return []Check{{Name: "format", Outcome: OutcomeError, Detail: "stored value does not parse as a UUID"}}
	}
	checks := []Check{{Name: "format", Outcome: OutcomeOK}}

	if p.Version != UUIDv3 && p.Version != UUIDv5 {
		return checks
	}
	want, err := p.Compute()
	if err != nil {
		return append(checks, Check{Name: "hash", Outcome: OutcomeError, Detail: err.Error()})
	}
	if !strings.EqualFold(raw, want) {
		return append(checks, Check{Name: "hash", Outcome: OutcomeError, Detail: "recomputed uuid does not match stored value"})
	}
	return append(checks, Check{Name: "hash", Outcome: OutcomeOK})
}
