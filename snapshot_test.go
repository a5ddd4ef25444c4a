// snapshot_test.go: Tests for the immutable snapshot structure
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

import (
	"reflect"
	"testing"
)

func TestWithValueDoesNotMutateReceiver(t *testing.T) {
	base, err := parseSnapshot([]byte("[general]\nInitialDir=/old\n"))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	next := base.withValue("general", "InitialDir", "/new")

	if v, _ := base.Value("general", "InitialDir"); v != "/old" {
		t.Errorf("Receiver snapshot was mutated: got %q", v)
	}
	if v, _ := next.Value("general", "InitialDir"); v != "/new" {
		t.Errorf("New snapshot missing update: got %q", v)
	}
}

func TestWithValueAppendsInDocumentOrder(t *testing.T) {
	snap := newSnapshot().
		withValue("general", "A", "1").
		withValue("general", "B", "2").
		withValue("ui", "C", "3")

	if got := snap.SectionNames(); !reflect.DeepEqual(got, []string{"general", "ui"}) {
		t.Errorf("Unexpected section order: %v", got)
	}

	sec, _ := snap.Section("general")
	if got := sec.Keys(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Unexpected key order: %v", got)
	}
}

func TestWithValueReplaceKeepsPosition(t *testing.T) {
	snap := newSnapshot().
		withValue("s", "first", "1").
		withValue("s", "second", "2").
		withValue("s", "first", "changed")

	sec, _ := snap.Section("s")
	if got := sec.Keys(); !reflect.DeepEqual(got, []string{"first", "second"}) {
		t.Errorf("Replacing a value must not move the key: %v", got)
	}
	if v, _ := sec.Value("first"); v != "changed" {
		t.Errorf("Expected replaced value, got %q", v)
	}
}

func TestSnapshotCounts(t *testing.T) {
	snap := newSnapshot().
		withValue("a", "k1", "v").
		withValue("a", "k2", "v").
		withValue("b", "k1", "v")

	if snap.SectionCount() != 2 {
		t.Errorf("Expected 2 sections, got %d", snap.SectionCount())
	}
	if snap.KeyCount() != 3 {
		t.Errorf("Expected 3 keys, got %d", snap.KeyCount())
	}
}

func TestSnapshotEqualIgnoresOrder(t *testing.T) {
	left, err := parseSnapshot([]byte("[a]\nk=1\n[b]\nj=2\n"))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	right, err := parseSnapshot([]byte("[b]\nj=2\n[a]\nk=1\n"))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if !left.Equal(right) {
		t.Error("Snapshots with identical content must be equal regardless of order")
	}

	different := right.withValue("a", "k", "other")
	if left.Equal(different) {
		t.Error("Snapshots with different values must not be equal")
	}
}

func TestSectionAccessors(t *testing.T) {
	snap := newSnapshot().withValue("general", "InitialDir", "/music")

	sec, ok := snap.Section("general")
	if !ok {
		t.Fatal("Section not found")
	}
	if sec.Name() != "general" {
		t.Errorf("Unexpected name %q", sec.Name())
	}
	if sec.Len() != 1 {
		t.Errorf("Unexpected length %d", sec.Len())
	}
	if _, ok := sec.Value("Missing"); ok {
		t.Error("Missing key reported as present")
	}
}
