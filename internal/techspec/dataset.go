// Package techspec holds per-technology specification datasets: one entry per
// technology plus a dataset-wide defaults entry.
package techspec

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// DefaultsKey is the entry that supplies values missing from every other entry.
const DefaultsKey = "defaults"

// Entry is one technology's sparse set of fields.
type Entry struct {
	Key    string
	Fields map[string]Value
}

// Get returns the field's value when the entry defines it.
func (e Entry) Get(field string) (Value, bool) {
	v, ok := e.Fields[field]
	return v, ok
}

// Dataset is a parsed specification document.
type Dataset struct {
	Source   string
	Entries  map[string]Entry
	Defaults Entry
}

// Entry looks up an entry by its document key.
func (d *Dataset) Entry(key string) (Entry, bool) {
	e, ok := d.Entries[key]
	return e, ok
}

// Has reports whether key names an entry (defaults excluded).
func (d *Dataset) Has(key string) bool {
	_, ok := d.Entries[key]
	return ok
}

// Keys returns entry keys in sorted order.
func (d *Dataset) Keys() []string {
	keys := make([]string, 0, len(d.Entries))
	for k := range d.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load reads a TOML specification document.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification %s: %w", path, err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse specification %s: %w", path, err)
	}
	ds.Source = path
	return ds, nil
}

// Parse decodes a TOML document whose top-level tables are technology entries.
// Top-level keys that are not tables, and nested tables inside an entry, are
// ignored.
func Parse(data []byte) (*Dataset, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	ds := &Dataset{
		Entries:  make(map[string]Entry, len(raw)),
		Defaults: Entry{Key: DefaultsKey, Fields: map[string]Value{}},
	}

	for key, item := range raw {
		table, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry, err := newEntry(key, table)
		if err != nil {
			return nil, err
		}
		if key == DefaultsKey {
			ds.Defaults = entry
			continue
		}
		ds.Entries[key] = entry
	}
	return ds, nil
}

// NewEntry builds an entry from already-decoded field values.
func NewEntry(key string, fields map[string]any) (Entry, error) {
	return newEntry(key, fields)
}

func newEntry(key string, table map[string]any) (Entry, error) {
	entry := Entry{Key: key, Fields: make(map[string]Value, len(table))}
	for field, raw := range table {
		if _, nested := raw.(map[string]any); nested {
			continue
		}
		if _, flag := raw.(bool); flag {
			continue
		}
		v, err := FromAny(raw)
		if err != nil {
			return Entry{}, fmt.Errorf("entry %q field %q: %w", key, field, err)
		}
		entry.Fields[field] = v
	}
	return entry, nil
}
