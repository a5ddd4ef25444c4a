// parser_test.go: Tests for INI text parsing
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

import (
	"testing"

	"github.com/agilira/go-errors"
)

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error with code %s, got nil", code)
	}
	coder, ok := err.(errors.ErrorCoder)
	if !ok {
		t.Fatalf("Expected coded error, got %T: %v", err, err)
	}
	if string(coder.ErrorCode()) != code {
		t.Errorf("Expected error code %s, got %s (%v)", code, coder.ErrorCode(), err)
	}
}

func TestParseBasicSections(t *testing.T) {
	text := "[general]\nInitialDir=/home/user/Music\nPlayerDir=/usr/bin\n\n[playback]\nVolume=80\n"

	snap, err := parseSnapshot([]byte(text))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if snap.SectionCount() != 2 {
		t.Errorf("Expected 2 sections, got %d", snap.SectionCount())
	}
	if snap.KeyCount() != 3 {
		t.Errorf("Expected 3 keys, got %d", snap.KeyCount())
	}

	if v, ok := snap.Value("general", "InitialDir"); !ok || v != "/home/user/Music" {
		t.Errorf("Expected general/InitialDir=/home/user/Music, got %q (ok=%v)", v, ok)
	}
	if v, ok := snap.Value("playback", "Volume"); !ok || v != "80" {
		t.Errorf("Expected playback/Volume=80, got %q (ok=%v)", v, ok)
	}
}

func TestParseTrimsSectionNamesAndKeys(t *testing.T) {
	text := "  [  general  ]  \n  SomeKey  = value \n"

	snap, err := parseSnapshot([]byte(text))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	sec, ok := snap.Section("general")
	if !ok {
		t.Fatalf("Section name was not trimmed: sections=%v", snap.SectionNames())
	}
	if _, ok := sec.Value("SomeKey"); !ok {
		t.Fatalf("Key was not trimmed: keys=%v", sec.Keys())
	}
}

func TestParsePreservesRawValue(t *testing.T) {
	// Only the whole line is trimmed; text right of the first '=' is kept
	// verbatim, including leading spaces and further '=' characters.
	text := "[general]\nCmdLine=  --gain=0.5 --shuffle\n"

	snap, err := parseSnapshot([]byte(text))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	v, ok := snap.Value("general", "CmdLine")
	if !ok {
		t.Fatal("CmdLine not found")
	}
	if v != "  --gain=0.5 --shuffle" {
		t.Errorf("Value was altered: %q", v)
	}
}

func TestParseSkipsUnrecognizedLines(t *testing.T) {
	text := "garbage before anything\n[general]\nKey=v\nnot a pair\n-- also junk\n"

	snap, err := parseSnapshot([]byte(text))
	if err != nil {
		t.Fatalf("Unrecognized lines must be skipped, got error: %v", err)
	}
	if snap.KeyCount() != 1 {
		t.Errorf("Expected exactly 1 key, got %d", snap.KeyCount())
	}
}

func TestParseDuplicateSectionFails(t *testing.T) {
	text := "[A]\nk=1\n[B]\nk=2\n[A]\nj=3\n"

	_, err := parseSnapshot([]byte(text))
	assertErrorCode(t, err, ErrCodeDuplicateSection)
}

func TestParseDuplicateKeyFails(t *testing.T) {
	text := "[A]\nk=1\nk=2\n"

	_, err := parseSnapshot([]byte(text))
	assertErrorCode(t, err, ErrCodeDuplicateKey)
}

func TestParseOrphanKeyFails(t *testing.T) {
	text := "k=1\n[A]\nj=2\n"

	_, err := parseSnapshot([]byte(text))
	assertErrorCode(t, err, ErrCodeOrphanKey)
}

func TestParseEmptyInput(t *testing.T) {
	snap, err := parseSnapshot(nil)
	if err != nil {
		t.Fatalf("Empty input must parse: %v", err)
	}
	if snap.SectionCount() != 0 || snap.KeyCount() != 0 {
		t.Errorf("Expected empty snapshot, got %d sections, %d keys",
			snap.SectionCount(), snap.KeyCount())
	}
}

func TestParseEmptySection(t *testing.T) {
	snap, err := parseSnapshot([]byte("[empty]\n\n[full]\nk=v\n"))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	sec, ok := snap.Section("empty")
	if !ok {
		t.Fatal("Empty section was dropped")
	}
	if sec.Len() != 0 {
		t.Errorf("Expected empty section, got %d keys", sec.Len())
	}
}

func TestParseSerializeRoundTrip(t *testing.T) {
	text := "[general]\nInitialDir=/srv/music\nPlayerDir=/usr/bin\n\n[ui]\nTheme=dark\nTrayIcon=true\n"

	first, err := parseSnapshot([]byte(text))
	if err != nil {
		t.Fatalf("First parse failed: %v", err)
	}

	second, err := parseSnapshot(serializeSnapshot(first))
	if err != nil {
		t.Fatalf("Re-parse of serialized output failed: %v", err)
	}

	if !first.Equal(second) {
		t.Errorf("Round trip changed the snapshot:\nfirst:  %v\nsecond: %v",
			string(serializeSnapshot(first)), string(serializeSnapshot(second)))
	}
}

func TestValidateSectionName(t *testing.T) {
	cases := []struct {
		name    string
		wantErr bool
	}{
		{"general", false},
		{"with space", false},
		{"", true},
		{"   ", true},
		{"nested[brackets]", true},
		{"null\x00byte", true},
	}
	for _, tc := range cases {
		err := validateSectionName(tc.name)
		if tc.wantErr && err == nil {
			t.Errorf("validateSectionName(%q): expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("validateSectionName(%q): unexpected error %v", tc.name, err)
		}
	}
}

func TestValidateKey(t *testing.T) {
	cases := []struct {
		key     string
		wantErr bool
	}{
		{"InitialDir", false},
		{"", true},
		{" padded ", true},
		{"has=equals", true},
		{"ctrl\x01char", true},
	}
	for _, tc := range cases {
		err := validateKey(tc.key)
		if tc.wantErr && err == nil {
			t.Errorf("validateKey(%q): expected error", tc.key)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("validateKey(%q): unexpected error %v", tc.key, err)
		}
	}
}
