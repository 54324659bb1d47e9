// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package recommend

import "errors"

var (
	// ErrInvalidInput marks malformed caller input (bad id, unknown kind, bad limit).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned by stores when a referenced item does not exist.
	ErrNotFound = errors.New("item not found")

	// ErrNoDNA is returned when a reference item exists but has no descriptor.
	ErrNoDNA = errors.New("item has no content dna")

	// ErrUserNotFound is returned by stores when a user id has no account.
	ErrUserNotFound = errors.New("user not found")
)
