package planset

import (
	"fmt"
	"sort"
	"strings"
)

// ParseOpts tunes optional parse-time behavior.
type ParseOpts struct {
	// Validate runs each kind's optional pre-validation (ssh/rsa/dhparam
	// bit-size bounds, random length) and converts failures to error plans,
	// rather than deferring everything to the resolver/validator (§4.C).
	// The v3/v5 uuid name requirement is not gated by this flag: the
	// cred-line parser enforces it on every parse.
	Validate bool
}

// hasActiveFeature reports whether feature is in the active set; "base" is
// always implicitly active per §4.B.
func hasActiveFeature(active []string, feature string) bool {
	if feature == "base" {
		return true
	}
	for _, f := range active {
		if f == feature {
			return true
		}
	}
	return false
}

// Parse scans metadata's certificates/credentials/provided groupings for
// every active feature and produces a PlanSet, capturing every failure as
// an error plan instead of aborting (§4.B).
func Parse(metadata Metadata, features []string, opts ParseOpts) *PlanSet {
	ps := NewPlanSet()

	parseCertificates(ps, metadata, features)
	parseCredentials(ps, metadata, features, opts)
	parseProvided(ps, metadata, features)

	return ps
}

func badPath(path string) error {
	if strings.Contains(path, ":") {
		return fmt.Errorf("path %q must not contain `:`", path)
	}
	return nil
}

func parseCertificates(ps *PlanSet, metadata Metadata, features []string) {
	var featureNames []string
	for f := range metadata.Certificates {
		featureNames = append(featureNames, f)
	}
	sort.Strings(featureNames)

	for _, feature := range featureNames {
		if !hasActiveFeature(features, feature) {
			continue
		}
		bases := metadata.Certificates[feature]
		var baseNames []string
		for b := range bases {
			baseNames = append(baseNames, b)
		}
		sort.Strings(baseNames)

		for _, basePath := range baseNames {
			leaves := bases[basePath]
			var leafNames []string
			for l := range leaves {
				leafNames = append(leafNames, l)
			}
			sort.Strings(leafNames)

			for _, leaf := range leafNames {
				spec := leaves[leaf]
				path := basePath + "/" + leaf
				if err := badPath(path); err != nil {
					ps.Add(NewErrorPlan(path, err.Error()))
					continue
				}
				signedBy := legacySignedByRewrite(spec.SignedBy)
				plan := &X509Plan{
					path:     path,
					BasePath: basePath,
					IsCA:     spec.IsCA || leaf == "ca",
					SignedBy: signedBy,
					Names:    spec.Names,
					Usage:    spec.Usage,
					ValidFor: spec.ValidFor,
				}
				if err := validateX509Plan(plan); err != nil {
					ps.Add(NewErrorPlan(path, err.Error()))
					continue
				}
				ps.Add(plan)
			}
		}
	}
}

func parseCredentials(ps *PlanSet, metadata Metadata, features []string, opts ParseOpts) {
	var featureNames []string
	for f := range metadata.Credentials {
		featureNames = append(featureNames, f)
	}
	sort.Strings(featureNames)

	for _, feature := range featureNames {
		if !hasActiveFeature(features, feature) {
			continue
		}
		paths := metadata.Credentials[feature]
		var pathNames []string
		for p := range paths {
			pathNames = append(pathNames, p)
		}
		sort.Strings(pathNames)

		for _, path := range pathNames {
			spec := paths[path]
			if err := badPath(path); err != nil {
				ps.Add(NewErrorPlan(path, err.Error()))
				continue
			}

			if s, ok := spec.AsString(); ok {
				parseStringSpecInto(ps, path, s, opts)
				continue
			}
			if m, ok := spec.AsMap(); ok {
				parseKeyedSpecInto(ps, path, m, opts)
				continue
			}
			ps.Add(NewErrorPlan(path, "credentials entry must be a string cred-line or a map of key -> cred-line"))
		}
	}
}

func parseStringSpecInto(ps *PlanSet, path, line string, opts ParseOpts) {
	tokens := tokenize(line)
	if len(tokens) > 0 && (tokens[0] == "random" || tokens[0] == "uuid") {
		ps.Add(NewErrorPlan(path, fmt.Sprintf("`%s` cred-line is not valid at the path level; it must be nested under a key", tokens[0])))
		return
	}
	spec, err := parseStringCredLine(tokens)
	if err != nil {
		ps.Add(NewErrorPlan(path, err.Error()))
		return
	}
	if opts.Validate {
		if err := validateSizeBounds(spec.Kind, spec.Size); err != nil {
			ps.Add(NewErrorPlan(path, err.Error()))
			return
		}
	}
	switch spec.Kind {
	case KindSSH:
		ps.Add(&SSHPlan{path: path, Size: spec.Size, fixed: spec.Fixed})
	case KindRSA:
		ps.Add(&RSAPlan{path: path, Size: spec.Size, fixed: spec.Fixed})
	case KindDHParam:
		ps.Add(&DHParamPlan{path: path, Size: spec.Size, fixed: spec.Fixed})
	}
}

func parseKeyedSpecInto(ps *PlanSet, basePath string, keys map[string]string, opts ParseOpts) {
	var keyNames []string
	for k := range keys {
		keyNames = append(keyNames, k)
	}
	sort.Strings(keyNames)

	for _, key := range keyNames {
		line := keys[key]
		planPath := basePath + ":" + key
		if strings.Contains(key, ":") {
			ps.Add(NewErrorPlan(planPath, fmt.Sprintf("key %q must not contain `:`", key)))
			continue
		}
		parsed, err := parseCredLine(line)
		if err != nil {
			ps.Add(NewErrorPlan(planPath, err.Error()))
			continue
		}
		switch v := parsed.(type) {
		case *randomCredLine:
			if opts.Validate && v.Size <= 0 {
				ps.Add(NewErrorPlan(planPath, "random size must be positive"))
				continue
			}
			ps.Add(&RandomPlan{
				BasePath: basePath, Key: key, Size: v.Size,
				Format: v.Format, Destination: v.Destination,
				ValidChars: v.ValidChars, fixed: v.Fixed,
			})
		case *uuidCredLine:
			ps.Add(&UUIDPlan{
				BasePath: basePath, Key: key, Version: v.Version,
				Namespace: v.Namespace, Name: v.Name, fixed: v.Fixed,
			})
		}
	}
}

func parseProvided(ps *PlanSet, metadata Metadata, features []string) {
	var featureNames []string
	for f := range metadata.Provided {
		featureNames = append(featureNames, f)
	}
	sort.Strings(featureNames)

	for _, feature := range featureNames {
		if !hasActiveFeature(features, feature) {
			continue
		}
		paths := metadata.Provided[feature]
		var pathNames []string
		for p := range paths {
			pathNames = append(pathNames, p)
		}
		sort.Strings(pathNames)

		for _, basePath := range pathNames {
			spec := paths[basePath]
			if spec.Type != "" && spec.Type != "generic" {
				ps.Add(NewErrorPlan(basePath, fmt.Sprintf("unknown provided type %q", spec.Type)))
				continue
			}
			if len(spec.Keys) == 0 {
				ps.Add(NewErrorPlan(basePath, "provided entry requires a non-empty `keys` map"))
				continue
			}
			var keyNames []string
			for k := range spec.Keys {
				keyNames = append(keyNames, k)
			}
			sort.Strings(keyNames)

			for _, key := range keyNames {
				ks := spec.Keys[key]
				planPath := basePath + ":" + key
				sensitive := true
				if ks.Sensitive != nil {
					sensitive = *ks.Sensitive
				}
				subtype := ks.Type
				if subtype == "" {
					subtype = "generic"
				}
				ps.Add(&ProvidedPlan{
					BasePath: basePath, Key: key, Subtype: subtype,
					Sensitive: sensitive, Multiline: ks.Multiline,
					Prompt: ks.Prompt, fixed: ks.Fixed,
				})
			}
		}
	}
}

// validateSizeBounds enforces the optional pre-validation §4.C mentions
// for ssh/rsa size bounds.
func validateSizeBounds(kind Kind, size int) error {
	switch kind {
	case KindSSH, KindRSA:
		if size < 1024 || size > 16384 {
			return fmt.Errorf("%s key size %d is outside the supported 1024..16384 range", kind, size)
		}
	case KindDHParam:
		if size < 512 {
			return fmt.Errorf("dhparam size %d is too small", size)
		}
	}
	return nil
}
