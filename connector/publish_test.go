// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openswarm/swarmcore/identity"
	"github.com/openswarm/swarmcore/protocol"
	"github.com/openswarm/swarmcore/transport/transportmock"
)

func TestPublisherSignsAndPublishesEachOutbound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mt := transportmock.NewMockTransport(ctrl)
	key, err := identity.Generate()
	require.NoError(t, err)

	var published []byte
	mt.EXPECT().Publish(gomock.Any(), "topic-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, payload []byte) error {
			published = payload
			return nil
		},
	)

	pub := NewPublisher(mt, key, func() string { return "req-1" })
	err = pub.Publish(context.Background(), []Outbound{{
		Topic:  "topic-1",
		Method: protocol.MethodKeepAlive,
		Params: protocol.KeepAliveParams{AgentID: "agent-0"},
	}})
	require.NoError(t, err)
	require.NotEmpty(t, published)
}

func TestPublisherPutDHTRecordsMarshalsValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	mt := transportmock.NewMockTransport(ctrl)

	mt.EXPECT().PutDHTRecord(gomock.Any(), "registry/public", []byte(`"v1"`)).Return(nil)

	pub := NewPublisher(mt, nil, nil)
	err := pub.PutDHTRecords(context.Background(), []DHTWrite{{Key: "registry/public", Value: "v1"}})
	require.NoError(t, err)
}
