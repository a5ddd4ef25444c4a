// snapshot.go: Immutable section/key/value snapshot with copy-on-write updates
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

// Section is a named, immutable grouping of key/value pairs corresponding to
// one [name] block of the file. Key order is document order: the order keys
// were parsed or created in.
type Section struct {
	name   string
	keys   []string
	values map[string]string
}

func newSection(name string) *Section {
	return &Section{
		name:   name,
		values: make(map[string]string),
	}
}

// Name returns the section name.
func (sec *Section) Name() string { return sec.name }

// Len returns the number of keys in the section.
func (sec *Section) Len() int { return len(sec.keys) }

// Keys returns the section's keys in document order.
func (sec *Section) Keys() []string {
	out := make([]string, len(sec.keys))
	copy(out, sec.keys)
	return out
}

// Value returns the raw value for key.
func (sec *Section) Value(key string) (string, bool) {
	v, ok := sec.values[key]
	return v, ok
}

// clone returns a deep copy of the section for copy-on-write updates.
func (sec *Section) clone() *Section {
	dup := &Section{
		name:   sec.name,
		keys:   make([]string, len(sec.keys)),
		values: make(map[string]string, len(sec.values)),
	}
	copy(dup.keys, sec.keys)
	for k, v := range sec.values {
		dup.values[k] = v
	}
	return dup
}

// set inserts or replaces a key. Only valid on sections still under
// construction (parser) or freshly cloned (withValue).
func (sec *Section) set(key, value string) {
	if _, exists := sec.values[key]; !exists {
		sec.keys = append(sec.keys, key)
	}
	sec.values[key] = value
}

// Snapshot is the full immutable section/key/value structure representing the
// configuration at one point in time. Section order is document order, so a
// parse/serialize/parse cycle is stable.
//
// A Snapshot is only ever replaced wholesale, never mutated in place; any
// goroutine holding one keeps a consistent view regardless of later updates.
type Snapshot struct {
	names    []string
	sections map[string]*Section
}

func newSnapshot() *Snapshot {
	return &Snapshot{sections: make(map[string]*Section)}
}

// SectionNames returns the section names in document order.
func (snap *Snapshot) SectionNames() []string {
	out := make([]string, len(snap.names))
	copy(out, snap.names)
	return out
}

// Section returns the named section.
func (snap *Snapshot) Section(name string) (*Section, bool) {
	sec, ok := snap.sections[name]
	return sec, ok
}

// Value returns the raw value of section/key.
func (snap *Snapshot) Value(section, key string) (string, bool) {
	sec, ok := snap.sections[section]
	if !ok {
		return "", false
	}
	return sec.Value(key)
}

// SectionCount returns the number of sections.
func (snap *Snapshot) SectionCount() int { return len(snap.names) }

// KeyCount returns the total number of keys across all sections.
func (snap *Snapshot) KeyCount() int {
	total := 0
	for _, sec := range snap.sections {
		total += len(sec.keys)
	}
	return total
}

// Equal reports whether two snapshots hold the same sections, keys and
// values, ignoring order.
func (snap *Snapshot) Equal(other *Snapshot) bool {
	if snap == nil || other == nil {
		return snap == other
	}
	if len(snap.sections) != len(other.sections) {
		return false
	}
	for name, sec := range snap.sections {
		osec, ok := other.sections[name]
		if !ok || len(sec.values) != len(osec.values) {
			return false
		}
		for k, v := range sec.values {
			if ov, ok := osec.values[k]; !ok || ov != v {
				return false
			}
		}
	}
	return true
}

// commit adds a fully assembled section, failing on a duplicate name.
// Used during snapshot construction only.
func (snap *Snapshot) commit(sec *Section) error {
	if _, dup := snap.sections[sec.name]; dup {
		return duplicateSectionError(sec.name)
	}
	snap.sections[sec.name] = sec
	snap.names = append(snap.names, sec.name)
	return nil
}

// withValue returns a new Snapshot equal to snap with one key replaced or
// inserted. New sections and keys are appended in document order. The
// receiver is never modified.
func (snap *Snapshot) withValue(section, key, value string) *Snapshot {
	next := &Snapshot{
		names:    make([]string, len(snap.names)),
		sections: make(map[string]*Section, len(snap.sections)+1),
	}
	copy(next.names, snap.names)
	for name, sec := range snap.sections {
		next.sections[name] = sec
	}

	target, exists := snap.sections[section]
	if exists {
		target = target.clone()
	} else {
		target = newSection(section)
		next.names = append(next.names, section)
	}
	target.set(key, value)
	next.sections[section] = target

	return next
}
