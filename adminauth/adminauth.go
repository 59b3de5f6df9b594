// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package adminauth gates the node's operator-facing admin channel with a
// single bearer token, per spec's AuthorizationError taxonomy entry. It
// intentionally stops at the token check: the operator console/TUI itself
// is out of scope for the coordination core.
package adminauth

import (
	"crypto/subtle"
	"errors"
)

// ErrMissingToken is returned when the caller supplied no token at all.
var ErrMissingToken = errors.New("adminauth: no token supplied")

// ErrBadToken is returned when the supplied token does not match.
var ErrBadToken = errors.New("adminauth: token does not match")

// Checker validates bearer tokens against one configured operator secret.
type Checker struct {
	token string
}

// NewChecker builds a Checker that accepts exactly token.
func NewChecker(token string) *Checker {
	return &Checker{token: token}
}

// Check validates supplied against the configured token using a
// constant-time comparison, since this gates a privileged channel.
func (c *Checker) Check(supplied string) error {
	if supplied == "" {
		return ErrMissingToken
	}
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(c.token)) != 1 {
		return ErrBadToken
	}
	return nil
}
