// typed.go: Typed access to string values through pluggable parse functions
//
// The store itself performs no type coercion: values are strings on disk and
// strings in the Snapshot. Callers that want a bool, an int or a duration
// supply the parse function and keep full control over the accepted syntax.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/agilira/go-errors"
)

// ParseFunc converts a raw string value into a caller-specified type.
type ParseFunc[T any] func(raw string) (T, error)

// GetAs looks up section/key and runs the value through parse.
//
// A missing section or key is ok=false with a nil error, exactly like
// Store.Get. A present value that fails to parse is reported as an
// ErrCodeInvalidConfig error with ok=true, so callers can distinguish
// "not configured" from "configured badly".
func GetAs[T any](s *Store, section, key string, parse ParseFunc[T]) (value T, ok bool, err error) {
	var zero T
	raw, ok, err := s.Get(section, key)
	if err != nil || !ok {
		return zero, ok, err
	}
	parsed, perr := parse(raw)
	if perr != nil {
		return zero, true, errors.Wrap(perr, ErrCodeInvalidConfig,
			fmt.Sprintf("value of %s/%s cannot be parsed", section, key))
	}
	return parsed, true, nil
}

// Stock parse functions for common value shapes. All of them tolerate the
// surrounding whitespace a hand-edited INI value tends to carry.

// ParseBool accepts the strconv boolean forms (1/0, t/f, true/false...).
func ParseBool(raw string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(raw))
}

// ParseInt parses a base-10 integer.
func ParseInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// ParseDuration parses a Go duration string such as "1.5s" or "300ms".
func ParseDuration(raw string) (time.Duration, error) {
	return time.ParseDuration(strings.TrimSpace(raw))
}

// ParsePath cleans a filesystem path value.
func ParsePath(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	return filepath.Clean(trimmed), nil
}
