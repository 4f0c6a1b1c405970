package app

import (
	"encoding/json"

	ansi "github.com/jhunt/go-ansi"

	"github.com/genesis-community/genesis/store"
)

// WhoAmI is the `genesis whoami` display (SPEC_FULL's supplemental
// feature adapted from the teacher's token_status.go): since genesis never
// talks to the store's API directly, it can only report what probing the
// external CLI's own status verb reveals, not the rich token metadata
// vaultkv.TokenInfo exposed when the teacher called the Vault API.
type WhoAmI struct {
	URL    string
	Status store.StatusToken
}

func (w WhoAmI) String() string {
	switch w.Status {
	case store.StatusOK:
		return ansi.Sprintf("@G{Authenticated}\nTarget: @C{%s}\n", w.URL)
	case store.StatusUnauthenticated:
		return ansi.Sprintf("@R{Not authenticated}\nTarget: @C{%s}\n", w.URL)
	default:
		return ansi.Sprintf("@Y{Target %s is %s}\n", w.URL, w.Status)
	}
}

func (w WhoAmI) MarshalJSON() ([]byte, error) {
	out := struct {
		URL    string `json:"url"`
		Status string `json:"status"`
	}{URL: w.URL, Status: string(w.Status)}
	return json.Marshal(&out)
}

// WhoAmIFor probes client's target and builds its WhoAmI display.
func WhoAmIFor(client *store.Client) WhoAmI {
	return WhoAmI{URL: client.URL(), Status: client.Status()}
}
