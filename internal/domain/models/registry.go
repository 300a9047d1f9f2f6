package models

import (
	"fmt"
	"strings"

	"github.com/streamtide/deploy-cli/internal/domain"
)

// RegistryEntry describes one deployed contract in the registry document.
type RegistryEntry struct {
	// Name is the logical artifact name, e.g. "MVPCLR" or "MutableForwarder"
	Name string
	// Address is empty until the contract is deployed
	Address string
	// ForwardsTo is the key of another entry in the same table
	ForwardsTo string
	// Extra keeps attributes this tool doesn't interpret, in document order,
	// as registry notation text.
	Extra []RegistryField
}

// RegistryField is an uninterpreted entry attribute.
type RegistryField struct {
	Key   string
	Value string
}

// Equal compares two entries field by field.
func (e RegistryEntry) Equal(o RegistryEntry) bool {
	if e.Name != o.Name || e.Address != o.Address || e.ForwardsTo != o.ForwardsTo || len(e.Extra) != len(o.Extra) {
		return false
	}
	for i := range e.Extra {
		if e.Extra[i] != o.Extra[i] {
			return false
		}
	}
	return true
}

func (e RegistryEntry) clone() *RegistryEntry {
	c := e
	c.Extra = append([]RegistryField(nil), e.Extra...)
	return &c
}

// NormalizeKey strips the keyword colon so ":streamtide-fwd" and
// "streamtide-fwd" address the same entry.
func NormalizeKey(key string) string {
	return strings.TrimPrefix(strings.TrimSpace(key), ":")
}

// RegistryTable maps entry keys to entries, keeping insertion order.
type RegistryTable struct {
	keys    []string
	entries map[string]*RegistryEntry
}

// NewRegistryTable creates an empty table
func NewRegistryTable() *RegistryTable {
	return &RegistryTable{entries: make(map[string]*RegistryEntry)}
}

// Len returns the number of entries
func (t *RegistryTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns entry keys in insertion order
func (t *RegistryTable) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Entry returns a copy of the entry stored under key
func (t *RegistryTable) Entry(key string) (RegistryEntry, bool) {
	if t == nil {
		return RegistryEntry{}, false
	}
	e, ok := t.entries[NormalizeKey(key)]
	if !ok {
		return RegistryEntry{}, false
	}
	return *e.clone(), true
}

// Put inserts or replaces the entry under key. Replacing keeps the key's position.
func (t *RegistryTable) Put(key string, entry RegistryEntry) {
	key = NormalizeKey(key)
	if _, exists := t.entries[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = entry.clone()
}

// Clone returns a deep copy
func (t *RegistryTable) Clone() *RegistryTable {
	if t == nil {
		return nil
	}
	c := NewRegistryTable()
	for _, k := range t.keys {
		c.Put(k, *t.entries[k])
	}
	return c
}

// GetAddress returns the address recorded for key. The boolean is false when
// the key is absent or the entry has no address yet.
func (t *RegistryTable) GetAddress(key string) (string, bool) {
	e, ok := t.Entry(key)
	if !ok || e.Address == "" {
		return "", false
	}
	return e.Address, true
}

// DanglingReferences lists keys whose ForwardsTo names a missing entry.
func (t *RegistryTable) DanglingReferences() []string {
	var dangling []string
	for _, k := range t.Keys() {
		e := t.entries[k]
		if e.ForwardsTo == "" {
			continue
		}
		if _, ok := t.entries[NormalizeKey(e.ForwardsTo)]; !ok {
			dangling = append(dangling, k)
		}
	}
	return dangling
}

// Validate fails when a forwards-to reference names a missing entry.
func (t *RegistryTable) Validate() error {
	if d := t.DanglingReferences(); len(d) > 0 {
		return fmt.Errorf("entries %s forward to missing keys", strings.Join(d, ", "))
	}
	return nil
}

// Equal compares tables entry by entry, ignoring order.
func (t *RegistryTable) Equal(o *RegistryTable) bool {
	if t == nil || o == nil {
		return t == nil && o == nil
	}
	if t.Len() != o.Len() {
		return false
	}
	for k, e := range t.entries {
		other, ok := o.entries[k]
		if !ok || !e.Equal(*other) {
			return false
		}
	}
	return true
}

// SetAddress returns a copy of t where only the entry under key has a new
// address. Every other entry, including forwarding references to key, is left
// as is. Setting a missing key is a caller bug and fails with EntryNotFoundError.
func SetAddress(t *RegistryTable, key, address string) (*RegistryTable, error) {
	key = NormalizeKey(key)
	if t == nil {
		return nil, &domain.EntryNotFoundError{Key: key}
	}
	if _, ok := t.entries[key]; !ok {
		return nil, &domain.EntryNotFoundError{Key: key}
	}
	out := t.Clone()
	out.entries[key].Address = address
	return out, nil
}

// MultichainTable holds one registry table per network identifier.
type MultichainTable struct {
	networks []string
	tables   map[string]*RegistryTable
}

// NewMultichainTable creates an empty multichain table
func NewMultichainTable() *MultichainTable {
	return &MultichainTable{tables: make(map[string]*RegistryTable)}
}

// Networks returns network identifiers in insertion order
func (m *MultichainTable) Networks() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.networks...)
}

// Table returns the table for a network. A missing network means nothing has
// been deployed there yet.
func (m *MultichainTable) Table(network string) (*RegistryTable, bool) {
	if m == nil {
		return nil, false
	}
	t, ok := m.tables[NormalizeKey(network)]
	return t, ok
}

// Put stores the table for a network, replacing any previous one.
func (m *MultichainTable) Put(network string, table *RegistryTable) {
	network = NormalizeKey(network)
	if _, exists := m.tables[network]; !exists {
		m.networks = append(m.networks, network)
	}
	if table == nil {
		table = NewRegistryTable()
	}
	m.tables[network] = table
}

// Clone returns a deep copy
func (m *MultichainTable) Clone() *MultichainTable {
	if m == nil {
		return nil
	}
	c := NewMultichainTable()
	for _, n := range m.networks {
		c.Put(n, m.tables[n].Clone())
	}
	return c
}

// GetAddress resolves the network first, then the entry.
func (m *MultichainTable) GetAddress(network, key string) (string, bool) {
	t, ok := m.Table(network)
	if !ok {
		return "", false
	}
	return t.GetAddress(key)
}

// Equal compares per-network tables, ignoring order.
func (m *MultichainTable) Equal(o *MultichainTable) bool {
	if m == nil || o == nil {
		return m == nil && o == nil
	}
	if len(m.networks) != len(o.networks) {
		return false
	}
	for n, t := range m.tables {
		other, ok := o.tables[n]
		if !ok || !t.Equal(other) {
			return false
		}
	}
	return true
}

// SetChainAddress is SetAddress for the table of one network.
func SetChainAddress(m *MultichainTable, network, key, address string) (*MultichainTable, error) {
	network = NormalizeKey(network)
	t, ok := m.Table(network)
	if !ok {
		return nil, &domain.EntryNotFoundError{Key: NormalizeKey(key), Network: network}
	}
	updated, err := SetAddress(t, key, address)
	if err != nil {
		return nil, &domain.EntryNotFoundError{Key: NormalizeKey(key), Network: network}
	}
	out := m.Clone()
	out.tables[network] = updated
	return out, nil
}

// Registry is the decoded registry document: a flat table and a per-network
// table. Either may be nil when the document binds it to nil.
type Registry struct {
	Contracts  *RegistryTable
	Multichain *MultichainTable
}

// Equal compares both halves.
func (r *Registry) Equal(o *Registry) bool {
	if r == nil || o == nil {
		return r == nil && o == nil
	}
	return r.Contracts.Equal(o.Contracts) && r.Multichain.Equal(o.Multichain)
}

// String summarizes the registry for logs.
func (r *Registry) String() string {
	return fmt.Sprintf("registry{contracts: %d, networks: %d}", r.Contracts.Len(), len(r.Multichain.Networks()))
}
