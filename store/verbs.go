package store

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// SetOpts controls how Set behaves when the target key is already present.
type SetOpts struct {
	// SkipIfExists implements --no-clobber: an existing key is left alone
	// and no error is raised, matching `add`'s idempotence contract.
	SkipIfExists bool
}

// Get reads every key under path. A missing path returns an empty Values,
// not an error, per §4.A's "absence returns empty, not an error" contract.
func (c *Client) Get(path string) (*Values, error) {
	stdout, stderr, rc, err := c.Run("get", "--yaml", path)
	if err != nil {
		return nil, err
	}
	if rc != 0 {
		if isNotFoundOutput(stderr) {
			return NewValues(), nil
		}
		return nil, classify(stderr, rc)
	}
	doc := map[string]map[string]string{}
	if err := yaml.Unmarshal([]byte(stdout), &doc); err != nil {
		return nil, NewStoreError(Protocol, "could not parse response from "+c.cfg.Binary, err)
	}
	v := NewValues()
	for k, val := range doc[path] {
		v.data = ensureMap(v.data)
		v.data[k] = val
	}
	return v, nil
}

// GetKey reads a single key, distinguishing a missing secret from a
// missing key within an existing one.
func (c *Client) GetKey(path, key string) (string, error) {
	v, err := c.Get(path)
	if err != nil {
		return "", err
	}
	if v.Empty() {
		return "", NewSecretNotFoundError(path)
	}
	if !v.Has(key) {
		return "", NewKeyNotFoundError(path, key)
	}
	return v.Get(key), nil
}

// Has is a boolean-only wrapper over Get/GetKey.
func (c *Client) Has(path string, key string) bool {
	if key == "" {
		v, err := c.Get(path)
		return err == nil && !v.Empty()
	}
	_, err := c.GetKey(path, key)
	return err == nil
}

// Set writes a single key/value pair at path. Interactive set (value=="")
// requires a controlling terminal upstream; Client itself never prompts —
// it is handed the resolved value by the caller (the report.Sink owns the
// prompt, per §4.G's "executor never writes to standard streams directly").
func (c *Client) Set(path, key, value string, opts SetOpts) error {
	args := []string{"set", path, key + "=" + value}
	if opts.SkipIfExists {
		args = append(args, "--no-clobber")
	}
	_, stderr, rc, err := c.Run(args...)
	if err != nil {
		return err
	}
	if rc != 0 {
		return classify(stderr, rc)
	}
	return nil
}

// Delete removes the secret or single key at path (P or P:K notation) by
// shelling out to the CLI's own delete verb, the same non-implementing
// posture as every other generation verb in this file.
func (c *Client) Delete(path string) error {
	_, stderr, rc, err := c.Run("delete", "-f", path)
	if err != nil {
		return err
	}
	if rc != 0 {
		if isNotFoundOutput(stderr) {
			return nil
		}
		return classify(stderr, rc)
	}
	return nil
}

// Snapshot is the populated mapping vault-path -> Values that a validation
// or idempotence check diffs declared plans against.
type Snapshot map[string]*Values

// Export runs a single `safe export` over every prefix given (the
// environment prefix plus, optionally, a root-CA path) and decodes the
// result into one Snapshot — the
// store-side half of §4.F's "one full export... populates the
// SecretSnapshot."
func (c *Client) Export(prefixes ...string) (Snapshot, error) {
	args := append([]string{"export"}, prefixes...)
	stdout, stderr, rc, err := c.Run(args...)
	if err != nil {
		return nil, err
	}
	if rc != 0 {
		return nil, classify(stderr, rc)
	}
	raw := map[string]map[string]string{}
	if err := yaml.Unmarshal([]byte(stdout), &raw); err != nil {
		return nil, NewStoreError(Protocol, "could not parse export output", err)
	}
	snap := Snapshot{}
	for path, kv := range raw {
		v := NewValues()
		v.data = kv
		snap[path] = v
	}
	return snap, nil
}

// Paths lists every secret path under prefixes (bare `safe paths`), the
// raw store-browsing verb the `store-paths` CLI command sits on top of —
// distinct from the kit-declared paths a PlanSet resolves.
func (c *Client) Paths(prefixes ...string) ([]string, error) {
	args := append([]string{"paths"}, prefixes...)
	stdout, stderr, rc, err := c.Run(args...)
	if err != nil {
		return nil, err
	}
	if rc != 0 {
		return nil, classify(stderr, rc)
	}
	var out []string
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

// Tree renders prefixes as the store's own ASCII tree (bare `safe tree`);
// Client passes its stdout straight through rather than re-implementing
// the tree layout.
func (c *Client) Tree(prefixes ...string) (string, error) {
	args := append([]string{"tree"}, prefixes...)
	stdout, stderr, rc, err := c.Run(args...)
	if err != nil {
		return "", err
	}
	if rc != 0 {
		return "", classify(stderr, rc)
	}
	return stdout, nil
}

// GenRandom invokes the CLI's random-string generator (`safe gen`).
func (c *Client) GenRandom(path, key string, length int, policy string, noClobber bool) error {
	args := []string{"gen", "-l", strconv.Itoa(length)}
	if policy != "" {
		args = append(args, "-p", policy)
	}
	if noClobber {
		args = append(args, "--no-clobber")
	}
	args = append(args, EncodePath(path, key))
	return c.runGenerate(args)
}

// GenSSH invokes `safe ssh`.
func (c *Client) GenSSH(path string, bits int, noClobber bool) error {
	args := []string{"ssh", strconv.Itoa(bits), path}
	if noClobber {
		args = append(args, "--no-clobber")
	}
	return c.runGenerate(args)
}

// GenRSA invokes `safe rsa`.
func (c *Client) GenRSA(path string, bits int, noClobber bool) error {
	args := []string{"rsa", strconv.Itoa(bits), path}
	if noClobber {
		args = append(args, "--no-clobber")
	}
	return c.runGenerate(args)
}

// GenDHParam invokes `safe dhparam`.
func (c *Client) GenDHParam(path string, bits int, noClobber bool) error {
	args := []string{"dhparam", strconv.Itoa(bits), path}
	if noClobber {
		args = append(args, "--no-clobber")
	}
	return c.runGenerate(args)
}

// UUIDSet writes a precomputed UUID string (v1/v3/v4/v5 are all computed
// by the planset package; Client only ever persists the result) to path:key.
func (c *Client) UUIDSet(path, key, value string, noClobber bool) error {
	return c.Set(path, key, value, SetOpts{SkipIfExists: noClobber})
}

// X509Opts mirrors the teacher's CertOptions for certificate issuance.
type X509Opts struct {
	CommonName string
	Names      []string
	TTL        string
	SignedBy   string
	IsCA       bool
	Usage      []string
}

// X509Issue invokes `safe x509 issue`.
func (c *Client) X509Issue(path string, opts X509Opts) error {
	args := []string{"x509", "issue"}
	if opts.SignedBy != "" {
		args = append(args, "--signed-by", opts.SignedBy)
	}
	if opts.IsCA {
		args = append(args, "--ca")
	}
	if opts.TTL != "" {
		args = append(args, "--ttl", opts.TTL)
	}
	for _, n := range opts.Names {
		args = append(args, "--name", n)
	}
	for _, u := range opts.Usage {
		args = append(args, "--key-usage", u)
	}
	args = append(args, path)
	return c.runGenerate(args)
}

var renewedExpiryRE = regexp.MustCompile(`(?i)Renewed .* expiry set to (.+)$`)

// X509Renew invokes `safe x509 renew` and parses the resulting
// "Renewed ... expiry set to <DATE>" line, returning the reported expiry.
func (c *Client) X509Renew(path string, subject string) (string, error) {
	args := []string{"x509", "renew", path}
	if subject != "" {
		args = append(args, "--subject", subject)
	}
	stdout, stderr, rc, err := c.Run(args...)
	if err != nil {
		return "", err
	}
	if rc != 0 {
		return "", classify(stderr, rc)
	}
	for _, line := range strings.Split(stdout, "\n") {
		if m := renewedExpiryRE.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return strings.TrimSpace(m[1]), nil
		}
	}
	return "", nil
}

func (c *Client) runGenerate(args []string) error {
	_, stderr, rc, err := c.Run(args...)
	if err != nil {
		return err
	}
	if rc != 0 {
		return classify(stderr, rc)
	}
	return nil
}

func ensureMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func isNotFoundOutput(stderr string) bool {
	return strings.Contains(strings.ToLower(stderr), "no such secret") ||
		strings.Contains(strings.ToLower(stderr), "not found")
}

// classify maps the external CLI's stderr/exit-code back into the §7
// StoreError taxonomy.
func classify(stderr string, rc int) error {
	low := strings.ToLower(stderr)
	switch {
	case strings.Contains(low, "connection refused"), strings.Contains(low, "no route to host"), strings.Contains(low, "timeout"):
		return NewStoreError(Unreachable, "could not reach the secret store", fmt.Errorf(stderr))
	case strings.Contains(low, "sealed"):
		return NewStoreError(Sealed, "the secret store is sealed", fmt.Errorf(stderr))
	case strings.Contains(low, "permission denied"), strings.Contains(low, "not authenticated"), strings.Contains(low, "invalid token"):
		return NewStoreError(Unauthenticated, "not authenticated to the secret store", fmt.Errorf(stderr))
	case strings.Contains(low, "not initialized"):
		return NewStoreError(Uninitialized, "the secret store has not been initialized", fmt.Errorf(stderr))
	case isNotFoundOutput(stderr):
		return NewStoreError(NotFound, "not found", fmt.Errorf(stderr))
	default:
		return NewStoreError(Protocol, fmt.Sprintf("unexpected response (exit %d)", rc), fmt.Errorf(stderr))
	}
}
