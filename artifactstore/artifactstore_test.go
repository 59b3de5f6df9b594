// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package artifactstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutThenGetRoundTrips(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put("cid-1", []byte("hello")))

	got, err := s.Get("cid-1")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestGetMissingCIDReturnsErrNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetReturnsACopyNotTheInternalSlice(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put("cid-1", []byte("hello")))

	got, err := s.Get("cid-1")
	require.NoError(t, err)
	got[0] = 'H'

	got2, err := s.Get("cid-1")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got2)
}
