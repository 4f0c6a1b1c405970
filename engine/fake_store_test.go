package engine_test

import (
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/genesis-community/genesis/store"
)

// fakeStoreScriptTemplate stands in for the `safe` binary: it persists
// keys as files under a per-path directory so state survives across the
// separate processes each store.Client.Run call spawns. The state
// directory is baked into the script text rather than passed through the
// environment, since Client.env() deliberately forwards only an allow-list
// of variables to the child process.
const fakeStoreScriptTemplate = `#!/bin/sh
state="%s"
sanitize() { echo "$1" | tr '/:' '__'; }

case "$1" in
  get)
    shift
    [ "$1" = "--yaml" ] && shift
    path="$1"
    dir="$state/$(sanitize "$path")"
    if [ ! -d "$dir" ] || [ -z "$(ls -A "$dir" 2>/dev/null)" ]; then
      echo "no such secret" 1>&2
      exit 1
    fi
    echo "$path:"
    for f in "$dir"/*; do
      k=$(basename "$f")
      v=$(cat "$f")
      echo "  $k: \"$v\""
    done
    exit 0
    ;;
  set)
    shift
    path="$1"; kv="$2"; shift 2
    noclobber=0
    for a in "$@"; do [ "$a" = "--no-clobber" ] && noclobber=1; done
    key="${kv%%=*}"
    val="${kv#*=}"
    dir="$state/$(sanitize "$path")"
    mkdir -p "$dir"
    if [ "$noclobber" = "1" ] && [ -f "$dir/$key" ]; then
      exit 0
    fi
    printf '%%s' "$val" > "$dir/$key"
    exit 0
    ;;
  rsa|ssh|dhparam)
    kind="$1"; shift
    bits="$1"; path="$2"; shift 2
    noclobber=0
    for a in "$@"; do [ "$a" = "--no-clobber" ] && noclobber=1; done
    dir="$state/$(sanitize "$path")"
    if [ "$noclobber" = "1" ] && [ -d "$dir" ] && [ -n "$(ls -A "$dir" 2>/dev/null)" ]; then
      exit 0
    fi
    mkdir -p "$dir"
    case "$kind" in
      rsa) printf 'fake-private' > "$dir/private"; printf 'fake-public' > "$dir/public" ;;
      ssh) printf 'fake-private' > "$dir/private"; printf 'fake-public' > "$dir/public"; printf 'fake-fp' > "$dir/fingerprint" ;;
      dhparam) printf 'fake-dhparam' > "$dir/dhparam-pem" ;;
    esac
    exit 0
    ;;
  delete)
    shift
    [ "$1" = "-f" ] && shift
    path="$1"
    rm -rf "$state/$(sanitize "$path")"
    exit 0
    ;;
  x509)
    sub="$2"
    if [ "$sub" = "renew" ]; then
      echo "Renewed cert; expiry set to 2030-01-01"
      exit 0
    fi
    exit 1
    ;;
  *)
    exit 1
    ;;
esac
`

func newFakeClient(dir string) *store.Client {
	state := filepath.Join(dir, "state")
	Expect(os.MkdirAll(state, 0755)).To(Succeed())
	bin := filepath.Join(dir, "fake-safe")
	script := fmt.Sprintf(fakeStoreScriptTemplate, state)
	Expect(os.WriteFile(bin, []byte(script), 0755)).To(Succeed())

	c, err := store.NewClient(store.Config{URL: "http://vault.example.com:8200", Binary: bin})
	Expect(err).ToNot(HaveOccurred())
	return c
}
