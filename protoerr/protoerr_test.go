// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package protoerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRPCCodesMatchTaxonomy(t *testing.T) {
	require.Equal(t, -32602, Validation.RPCCode())
	require.Equal(t, -32000, Protocol.RPCCode())
	require.Equal(t, -32000, Reputation.RPCCode())
	require.Equal(t, 401, Authorization.RPCCode())
	require.Equal(t, 0, Parse.RPCCode())
}

func TestSurfacesOnlyExternalFacingKinds(t *testing.T) {
	require.True(t, Parse.Surfaces())
	require.True(t, Validation.Surfaces())
	require.True(t, Authorization.Surfaces())
	require.False(t, Protocol.Surfaces())
	require.False(t, Participation.Surfaces())
	require.False(t, Transport.Surfaces())
	require.False(t, Reputation.Surfaces())
}

func TestAsUnwrapsWrappedError(t *testing.T) {
	cause := errors.New("bad hash")
	wrapped := fmt.Errorf("while checking commit: %w", New(Protocol, "rfp.record_reveal", cause))

	pe, ok := As(wrapped)
	require.True(t, ok)
	require.Equal(t, Protocol, pe.Kind)
	require.ErrorIs(t, pe, cause)
}

func TestAsFailsForPlainError(t *testing.T) {
	_, ok := As(errors.New("plain"))
	require.False(t, ok)
}
