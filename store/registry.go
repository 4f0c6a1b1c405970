package store

import "fmt"

// Registry holds named Clients, replacing the teacher's module-level
// `@all_vaults`/`$current_vault` globals (Design Notes) with an explicit
// object. The executor and validator take a *Client directly, not a
// Registry. Tests construct a fresh Registry instead of resetting package
// state.
type Registry struct {
	clients map[string]*Client
	current string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{clients: map[string]*Client{}}
}

// Register adds or replaces the named Client.
func (r *Registry) Register(name string, c *Client) {
	r.clients[name] = c
}

// Get returns the named Client, or an error if it was never registered.
func (r *Registry) Get(name string) (*Client, error) {
	c, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("store: no target named `%s` registered", name)
	}
	return c, nil
}

// SetCurrent pins which registered name subsequent Current() calls resolve
// to, the explicit analogue of the teacher's `$current_vault` global.
func (r *Registry) SetCurrent(name string) error {
	if _, err := r.Get(name); err != nil {
		return err
	}
	r.current = name
	return nil
}

// Current returns the pinned Client, or an error if none has been set.
func (r *Registry) Current() (*Client, error) {
	if r.current == "" {
		return nil, fmt.Errorf("store: no current target selected")
	}
	return r.Get(r.current)
}

// Names lists every registered target name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.clients))
	for n := range r.clients {
		names = append(names, n)
	}
	return names
}
