// Package registry converts between the smart contract registry document and
// the typed registry model.
//
// A document is a Clojure source file holding a namespace form and two
// top-level bindings:
//
//	(ns streamtide.shared.smart-contracts-dev)
//	(def smart-contracts {...})
//	(def multichain-smart-contracts {...})
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/models"
	"github.com/streamtide/deploy-cli/pkg/edn"
)

const (
	// ContractsBinding names the flat table binding
	ContractsBinding = "smart-contracts"
	// MultichainBinding names the per-network table binding
	MultichainBinding = "multichain-smart-contracts"

	keyName       = edn.Keyword("name")
	keyAddress    = edn.Keyword("address")
	keyForwardsTo = edn.Keyword("forwards-to")
)

// Decode parses a registry document. A missing binding, or one bound to nil,
// leaves that half of the registry nil.
func Decode(text []byte) (*models.Registry, error) {
	forms, err := edn.Parse(text)
	if err != nil {
		return nil, decodeError(err)
	}

	reg := &models.Registry{}
	for _, form := range forms {
		name, value, ok := definition(form)
		if !ok {
			continue
		}
		switch name {
		case ContractsBinding:
			table, err := decodeTable(value, ContractsBinding)
			if err != nil {
				return nil, err
			}
			reg.Contracts = table
		case MultichainBinding:
			chains, err := decodeMultichain(value)
			if err != nil {
				return nil, err
			}
			reg.Multichain = chains
		}
	}
	return reg, nil
}

// Encode writes both bindings under a (ns namespace) header. Absent tables
// are written as nil so readers always find both bindings.
func Encode(reg *models.Registry, namespace string) ([]byte, error) {
	if namespace == "" {
		return nil, errors.New("registry namespace is required")
	}
	if reg == nil {
		reg = &models.Registry{}
	}

	var contracts, chains any
	if reg.Contracts != nil {
		table, err := encodeTable(reg.Contracts)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", ContractsBinding, err)
		}
		contracts = table
	}
	if reg.Multichain != nil {
		m := &edn.Map{}
		for _, network := range reg.Multichain.Networks() {
			table, _ := reg.Multichain.Table(network)
			encoded, err := encodeTable(table)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s %s: %w", MultichainBinding, network, err)
			}
			m.Set(encodeKey(network), encoded)
		}
		chains = m
	}

	contractsText, err := edn.MarshalIndent(contracts, 4)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", ContractsBinding, err)
	}
	chainsText, err := edn.MarshalIndent(chains, 4)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", MultichainBinding, err)
	}

	doc := fmt.Sprintf("(ns %s)\n\n(def %s\n    %s)\n\n(def %s\n    %s)\n",
		namespace, ContractsBinding, contractsText, MultichainBinding, chainsText)
	return []byte(doc), nil
}

// Namespace returns the namespace named by the document's ns form, if any.
func Namespace(text []byte) (string, bool) {
	forms, err := edn.Parse(text)
	if err != nil {
		return "", false
	}
	for _, form := range forms {
		list, ok := form.(edn.List)
		if !ok || len(list) < 2 || list[0] != edn.Symbol("ns") {
			continue
		}
		if sym, ok := list[1].(edn.Symbol); ok {
			return string(sym), true
		}
	}
	return "", false
}

func definition(form any) (string, any, bool) {
	list, ok := form.(edn.List)
	if !ok || len(list) != 3 || list[0] != edn.Symbol("def") {
		return "", nil, false
	}
	name, ok := list[1].(edn.Symbol)
	if !ok {
		return "", nil, false
	}
	return string(name), list[2], true
}

func decodeError(err error) error {
	var syntax *edn.SyntaxError
	if errors.As(err, &syntax) {
		return &domain.RegistryDecodeError{Line: syntax.Line, Col: syntax.Col, Msg: syntax.Msg}
	}
	return &domain.RegistryDecodeError{Msg: err.Error()}
}

func decodeTable(v any, where string) (*models.RegistryTable, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(*edn.Map)
	if !ok {
		return nil, &domain.RegistryDecodeError{Msg: fmt.Sprintf("%s: expected a map, got %T", where, v)}
	}

	table := models.NewRegistryTable()
	for _, e := range m.Entries() {
		key, err := entryKey(e.Key)
		if err != nil {
			return nil, &domain.RegistryDecodeError{Msg: fmt.Sprintf("%s: %v", where, err)}
		}
		if _, dup := table.Entry(key); dup {
			return nil, &domain.RegistryDecodeError{Msg: fmt.Sprintf("%s: duplicate key %s", where, edn.Keyword(models.NormalizeKey(key)))}
		}
		entry, err := decodeEntry(e.Value)
		if err != nil {
			return nil, &domain.RegistryDecodeError{Msg: fmt.Sprintf("%s :%s: %v", where, key, err)}
		}
		table.Put(key, entry)
	}
	return table, nil
}

func decodeEntry(v any) (models.RegistryEntry, error) {
	m, ok := v.(*edn.Map)
	if !ok {
		return models.RegistryEntry{}, fmt.Errorf("expected a map, got %T", v)
	}

	var entry models.RegistryEntry
	for _, e := range m.Entries() {
		switch e.Key {
		case keyName:
			s, err := leafString(e.Value)
			if err != nil {
				return entry, fmt.Errorf(":name %w", err)
			}
			entry.Name = s
		case keyAddress:
			s, err := leafString(e.Value)
			if err != nil {
				return entry, fmt.Errorf(":address %w", err)
			}
			entry.Address = s
		case keyForwardsTo:
			switch ref := e.Value.(type) {
			case edn.Keyword:
				entry.ForwardsTo = string(ref)
			case nil:
			default:
				return entry, fmt.Errorf(":forwards-to must be a keyword, got %T", e.Value)
			}
		default:
			key, err := edn.Marshal(e.Key)
			if err != nil {
				return entry, err
			}
			value, err := edn.Marshal(e.Value)
			if err != nil {
				return entry, err
			}
			entry.Extra = append(entry.Extra, models.RegistryField{Key: string(key), Value: string(value)})
		}
	}
	return entry, nil
}

func decodeMultichain(v any) (*models.MultichainTable, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(*edn.Map)
	if !ok {
		return nil, &domain.RegistryDecodeError{Msg: fmt.Sprintf("%s: expected a map, got %T", MultichainBinding, v)}
	}

	chains := models.NewMultichainTable()
	for _, e := range m.Entries() {
		network, err := entryKey(e.Key)
		if err != nil {
			return nil, &domain.RegistryDecodeError{Msg: fmt.Sprintf("%s: %v", MultichainBinding, err)}
		}
		if _, dup := chains.Table(network); dup {
			return nil, &domain.RegistryDecodeError{Msg: fmt.Sprintf("%s: duplicate network %s", MultichainBinding, network)}
		}
		table, err := decodeTable(e.Value, MultichainBinding+" :"+network)
		if err != nil {
			return nil, err
		}
		chains.Put(network, table)
	}
	return chains, nil
}

// entryKey accepts keywords, and for network tables bare numbers and strings.
func entryKey(k any) (string, error) {
	switch key := k.(type) {
	case edn.Keyword:
		return string(key), nil
	case int64:
		return strconv.FormatInt(key, 10), nil
	case string:
		return key, nil
	default:
		return "", fmt.Errorf("unsupported key %T", k)
	}
}

func leafString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	case edn.Keyword:
		return string(s), nil
	case edn.Symbol:
		return string(s), nil
	default:
		return "", fmt.Errorf("must be a string, got %T", v)
	}
}

// encodeKey writes a key as a keyword when it reads back as one, and as a
// string otherwise.
func encodeKey(key string) any {
	if k := edn.Keyword(key); k.Valid() {
		return k
	}
	return key
}

func encodeTable(t *models.RegistryTable) (*edn.Map, error) {
	m := &edn.Map{}
	for _, key := range t.Keys() {
		entry, _ := t.Entry(key)
		encoded, err := encodeEntry(entry)
		if err != nil {
			return nil, fmt.Errorf(":%s: %w", key, err)
		}
		m.Set(encodeKey(key), encoded)
	}
	return m, nil
}

func encodeEntry(e models.RegistryEntry) (*edn.Map, error) {
	m := &edn.Map{}
	m.Set(keyName, e.Name)
	if e.Address != "" {
		m.Set(keyAddress, e.Address)
	}
	if e.ForwardsTo != "" {
		m.Set(keyForwardsTo, edn.Keyword(models.NormalizeKey(e.ForwardsTo)))
	}
	for _, f := range e.Extra {
		key, err := edn.ParseOne([]byte(f.Key))
		if err != nil {
			return nil, fmt.Errorf("field key %q: %w", f.Key, err)
		}
		value, err := edn.ParseOne([]byte(f.Value))
		if err != nil {
			return nil, fmt.Errorf("field %s value %q: %w", f.Key, f.Value, err)
		}
		m.Set(key, value)
	}
	return m, nil
}

// SortedNetworks returns network keys ordered numerically when possible.
func SortedNetworks(m *models.MultichainTable) []string {
	networks := m.Networks()
	sort.SliceStable(networks, func(i, j int) bool {
		a, errA := strconv.ParseUint(networks[i], 10, 64)
		b, errB := strconv.ParseUint(networks[j], 10, 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return networks[i] < networks[j]
	})
	return networks
}
