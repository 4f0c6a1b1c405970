package planset

import (
	"fmt"
	"strconv"
	"strings"
)

// tokenize splits a cred-line on whitespace. The grammar (§6) has no
// quoted-string forms, so a plain whitespace split is sufficient; this is
// the hand-rolled tokenizer the Design Notes ask for in place of a
// regex-only parser, so the "bare random/uuid at path level" diagnostic
// stays precise rather than falling out of a failed regex match.
func tokenize(line string) []string {
	return strings.Fields(line)
}

// randomCredLine is the parsed form of `random <N> [fmt <F> [at <K>]]
// [allowed-chars <S>] [fixed]`.
type randomCredLine struct {
	Size        int
	Format      string
	Destination string
	ValidChars  string
	Fixed       bool
}

// uuidCredLine is the parsed form of `uuid [v1|time|v3|md5|v4|random|v5|sha1]
// [namespace <dns|url|oid|x500|UUID>] [name <s>] [fixed]`.
type uuidCredLine struct {
	Version   UUIDVersion
	Namespace string
	Name      string
	Fixed     bool
}

// stringCredLine is the parsed form of `ssh|rsa|dhparam[s] <bits> [fixed]`.
type stringCredLine struct {
	Kind  Kind
	Size  int
	Fixed bool
}

var uuidVersionAliases = map[string]UUIDVersion{
	"v1": UUIDv1, "time": UUIDv1,
	"v3": UUIDv3, "md5": UUIDv3,
	"v4": UUIDv4, "random": UUIDv4,
	"v5": UUIDv5, "sha1": UUIDv5,
}

// parseRandomCredLine parses a cred-line already known to start with "random".
func parseRandomCredLine(tokens []string) (*randomCredLine, error) {
	if len(tokens) < 2 {
		return nil, fmt.Errorf("`random` requires a size: random <N> [fmt <F> [at <K>]] [allowed-chars <S>] [fixed]")
	}
	size, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, fmt.Errorf("`random` size %q is not an integer", tokens[1])
	}
	spec := &randomCredLine{Size: size}
	i := 2
	for i < len(tokens) {
		switch tokens[i] {
		case "fmt":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("`fmt` requires a format name")
			}
			spec.Format = tokens[i+1]
			i += 2
			if i < len(tokens) && tokens[i] == "at" {
				if i+1 >= len(tokens) {
					return nil, fmt.Errorf("`at` requires a destination key")
				}
				spec.Destination = tokens[i+1]
				i += 2
			}
		case "allowed-chars":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("`allowed-chars` requires a character set")
			}
			spec.ValidChars = tokens[i+1]
			i += 2
		case "fixed":
			spec.Fixed = true
			i++
		default:
			return nil, fmt.Errorf("unrecognized token %q in random cred-line", tokens[i])
		}
	}
	return spec, nil
}

// parseUUIDCredLine parses a cred-line already known to start with "uuid".
func parseUUIDCredLine(tokens []string) (*uuidCredLine, error) {
	spec := &uuidCredLine{Version: UUIDv4}
	i := 1
	if i < len(tokens) {
		if v, ok := uuidVersionAliases[tokens[i]]; ok {
			spec.Version = v
			i++
		}
	}
	for i < len(tokens) {
		switch tokens[i] {
		case "namespace":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("`namespace` requires a value")
			}
			spec.Namespace = tokens[i+1]
			i += 2
		case "name":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("`name` requires a value")
			}
			spec.Name = tokens[i+1]
			i += 2
		case "fixed":
			spec.Fixed = true
			i++
		default:
			return nil, fmt.Errorf("unrecognized token %q in uuid cred-line", tokens[i])
		}
	}
	if spec.Version == UUIDv3 || spec.Version == UUIDv5 {
		if spec.Name == "" {
			return nil, fmt.Errorf("uuid %s requires a `name`", spec.Version)
		}
	}
	return spec, nil
}

// parseStringCredLine parses `ssh|rsa|dhparam[s] <bits> [fixed]`.
func parseStringCredLine(tokens []string) (*stringCredLine, error) {
	if len(tokens) < 2 {
		return nil, fmt.Errorf("cred-line %q is missing a bit size", strings.Join(tokens, " "))
	}
	var kind Kind
	switch tokens[0] {
	case "ssh":
		kind = KindSSH
	case "rsa":
		kind = KindRSA
	case "dhparam", "dhparams":
		kind = KindDHParam
	default:
		return nil, fmt.Errorf("unrecognized cred-line type %q", tokens[0])
	}
	size, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, fmt.Errorf("%s size %q is not an integer", tokens[0], tokens[1])
	}
	fixed := false
	if len(tokens) >= 3 {
		if tokens[2] == "fixed" {
			fixed = true
		} else {
			return nil, fmt.Errorf("unrecognized token %q in %s cred-line", tokens[2], tokens[0])
		}
	}
	return &stringCredLine{Kind: kind, Size: size, Fixed: fixed}, nil
}

// parseCredLine parses a per-key cred-line (used inside a credentials map),
// accepting only `random` and `uuid` per §4.B.
func parseCredLine(line string) (interface{}, error) {
	tokens := tokenize(line)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty cred-line")
	}
	switch tokens[0] {
	case "random":
		return parseRandomCredLine(tokens)
	case "uuid":
		return parseUUIDCredLine(tokens)
	default:
		return nil, fmt.Errorf("a per-key cred-line must be `random ...` or `uuid ...`, got %q", tokens[0])
	}
}
