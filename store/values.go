package store

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"hash"
	"math/rand"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v2"
)

// Values holds the key/value pairs read from or destined for a single path
// in the secret store, the way the teacher's vault.Secret wraps one Vault
// path's map of keys. It is the unit the store package reads and writes.
type Values struct {
	data map[string]string
}

// NewValues returns an empty Values.
func NewValues() *Values {
	return &Values{data: map[string]string{}}
}

// Has reports whether key is present.
func (v *Values) Has(key string) bool {
	_, ok := v.data[key]
	return ok
}

// Get returns the value at key, or "" if absent.
func (v *Values) Get(key string) string {
	return v.data[key]
}

// Set stores val at key. If skipIfExists is true and key is already
// present, it returns an error and leaves the existing value untouched —
// the primitive `add`'s --no-clobber semantics are built on.
func (v *Values) Set(key, val string, skipIfExists bool) error {
	if v.data == nil {
		v.data = map[string]string{}
	}
	if skipIfExists {
		if _, exists := v.data[key]; exists {
			return fmt.Errorf("key `%s` already existed", key)
		}
	}
	v.data[key] = val
	return nil
}

// Delete removes key, reporting whether it was present.
func (v *Values) Delete(key string) bool {
	if _, ok := v.data[key]; !ok {
		return false
	}
	delete(v.data, key)
	return true
}

// Keys returns all keys, sorted.
func (v *Values) Keys() []string {
	keys := make([]string, 0, len(v.data))
	for k := range v.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Empty reports whether there are no keys left.
func (v *Values) Empty() bool {
	return len(v.data) == 0
}

// JSON renders the values as a compact JSON object.
func (v *Values) JSON() string {
	b, _ := json.Marshal(v.data)
	return string(b)
}

// YAML renders the values as a YAML mapping document.
func (v *Values) YAML() string {
	b, _ := yaml.Marshal(v.data)
	return string(b)
}

// MarshalJSON implements json.Marshaler.
func (v *Values) MarshalJSON() ([]byte, error) {
	if v.data == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v.data)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Values) UnmarshalJSON(b []byte) error {
	m := map[string]string{}
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	v.data = m
	return nil
}

// SingleValue returns the lone value held, erroring unless there is
// exactly one key — used by `get PATH:KEY` style single-value reads.
func (v *Values) SingleValue() (string, error) {
	switch len(v.data) {
	case 0:
		return "", fmt.Errorf("0 results found inside path")
	case 1:
		for _, val := range v.data {
			return val, nil
		}
	}
	return "", fmt.Errorf("%d results found inside path, expecting 1", len(v.data))
}

// Format derives dstKey from srcKey's value under the named encoding,
// generalizing the teacher's Secret.Format used by "genesis format"-style
// random-secret post-processing.
func (v *Values) Format(srcKey, dstKey, encoding string, skipIfExists bool) error {
	if !v.Has(srcKey) {
		return NewSecretNotFoundError(srcKey)
	}
	if skipIfExists && v.Has(dstKey) {
		return fmt.Errorf("key `%s` already existed", dstKey)
	}
	raw := v.Get(srcKey)

	var out string
	switch encoding {
	case "base64":
		out = base64.StdEncoding.EncodeToString([]byte(raw))
	case "crypt-md5":
		out = crypt(md5.New, "$1$", raw)
	case "crypt-sha256":
		out = crypt(sha256.New, "$5$", raw)
	case "crypt-sha512":
		out = crypt(sha512.New, "$6$", raw)
	case "bcrypt":
		hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		out = string(hashed)
	default:
		return fmt.Errorf("'%s' is not a valid encoding", encoding)
	}
	v.data[dstKey] = out
	return nil
}

// Password generates a random password of the given length drawn from the
// supplied policy alphabet ranges (e.g. "a-zA-Z0-9"), stores it at key.
func (v *Values) Password(key string, length int, policy string, skipIfExists bool) error {
	if skipIfExists && v.Has(key) {
		return fmt.Errorf("key `%s` already existed", key)
	}
	alphabet := expandPolicy(policy)
	if len(alphabet) == 0 {
		return fmt.Errorf("empty character policy `%s`", policy)
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphabet[rand.Intn(len(alphabet))]
	}
	if v.data == nil {
		v.data = map[string]string{}
	}
	v.data[key] = string(buf)
	return nil
}

func expandPolicy(policy string) []byte {
	var out []byte
	runes := []rune(policy)
	for i := 0; i < len(runes); i++ {
		if i+2 < len(runes) && runes[i+1] == '-' {
			for c := runes[i]; c <= runes[i+2]; c++ {
				out = append(out, byte(c))
			}
			i += 2
			continue
		}
		out = append(out, byte(runes[i]))
	}
	return out
}

func crypt(newHash func() hash.Hash, prefix, raw string) string {
	sum := newHash().Sum([]byte(raw))
	enc := base64.RawURLEncoding.EncodeToString(sum)
	enc = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return 'a'
		}
		return r
	}, enc)
	if len(enc) < 8 {
		enc = enc + strings.Repeat("a", 8-len(enc))
	}
	salt := enc[:8]
	return prefix + salt + "$" + base64.RawStdEncoding.EncodeToString([]byte(raw+salt))
}
