package inventory

import "fmt"

// Registry holds item definitions indexed by ID and remembers registration order.
type Registry struct {
	items map[string]*ItemDef
	order []*ItemDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*ItemDef)}
}

// RegisterItem adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterItem: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	r.order = append(r.order, d)
	return nil
}

// Item returns the ItemDef for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	d, ok := r.items[id]
	return d, ok
}

// AllItems returns all registered ItemDefs in registration order.
func (r *Registry) AllItems() []*ItemDef {
	out := make([]*ItemDef, len(r.order))
	copy(out, r.order)
	return out
}

// withCustom resolves custom definitions first, then falls back to base.
type withCustom struct {
	base   ItemLookup
	custom map[string]*ItemDef
}

// WithCustom returns a lookup over base extended by the player's custom items.
func WithCustom(base ItemLookup, custom []*ItemDef) ItemLookup {
	m := make(map[string]*ItemDef, len(custom))
	for _, d := range custom {
		m[d.ID] = d
	}
	return withCustom{base: base, custom: m}
}

func (w withCustom) Item(id string) (*ItemDef, bool) {
	if d, ok := w.custom[id]; ok {
		return d, true
	}
	if w.base == nil {
		return nil, false
	}
	return w.base.Item(id)
}
