package planset

// Metadata is the already-merged kit.yml shape the Parser consumes (§6):
//
//	certificates: { <feature>: { <base-path>: { <leaf>: <x509-spec> } } }
//	credentials:  { <feature>: { <path>: <string-spec> | { <key>: <cred-line> } } }
//	provided:     { <feature>: { <path>: { type: generic, keys: {...} } } }
type Metadata struct {
	Certificates map[string]map[string]map[string]X509Spec    `yaml:"certificates"`
	Credentials  map[string]map[string]CredentialSpec         `yaml:"credentials"`
	Provided     map[string]map[string]ProvidedSpec           `yaml:"provided"`
}

// X509Spec is one leaf under certificates[feature][base-path][leaf].
type X509Spec struct {
	IsCA     bool     `yaml:"is_ca"`
	SignedBy string   `yaml:"signed_by"`
	Names    []string `yaml:"names"`
	Usage    []string `yaml:"usage"`
	ValidFor string   `yaml:"valid_for"`
}

// CredentialSpec holds either a bare string-spec ("ssh 2048 fixed") or a
// map of key -> cred-line, decoded loosely since YAML doesn't let a single
// Go field distinguish the two shapes ahead of time.
type CredentialSpec struct {
	raw interface{}
}

// UnmarshalYAML captures the node verbatim; parse.go interprets its shape.
func (c *CredentialSpec) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v interface{}
	if err := unmarshal(&v); err != nil {
		return err
	}
	c.raw = v
	return nil
}

// AsString returns the spec as a bare string, if that's the shape it has.
func (c CredentialSpec) AsString() (string, bool) {
	s, ok := c.raw.(string)
	return s, ok
}

// AsMap returns the spec as a key -> cred-line map, if that's the shape it
// has.
func (c CredentialSpec) AsMap() (map[string]string, bool) {
	m, ok := c.raw.(map[interface{}]interface{})
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		ks, kok := k.(string)
		vs, vok := v.(string)
		if !kok || !vok {
			return nil, false
		}
		out[ks] = vs
	}
	return out, true
}

// ProvidedSpec is one provided[feature][path] declaration.
type ProvidedSpec struct {
	Type string                     `yaml:"type"`
	Keys map[string]ProvidedKeySpec `yaml:"keys"`
}

// ProvidedKeySpec is one entry of a ProvidedSpec's keys submap.
type ProvidedKeySpec struct {
	Type      string `yaml:"type"`
	Sensitive *bool  `yaml:"sensitive"`
	Multiline bool   `yaml:"multiline"`
	Prompt    string `yaml:"prompt"`
	Fixed     bool   `yaml:"fixed"`
}
