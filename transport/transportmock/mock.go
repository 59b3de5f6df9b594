// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package transportmock provides a gomock-generated-style mock of
// transport.Transport, following the shape of the teacher's
// networking/sender/sendermock package.
package transportmock

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"
)

// MockTransport is a mock of the transport.Transport interface.
type MockTransport struct {
	ctrl     *gomock.Controller
	recorder *MockTransportMockRecorder
}

// MockTransportMockRecorder is the mock recorder for MockTransport.
type MockTransportMockRecorder struct {
	mock *MockTransport
}

// NewMockTransport creates a new mock instance.
func NewMockTransport(ctrl *gomock.Controller) *MockTransport {
	mock := &MockTransport{ctrl: ctrl}
	mock.recorder = &MockTransportMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockTransport) EXPECT() *MockTransportMockRecorder {
	return m.recorder
}

// Publish mocks base method.
func (m *MockTransport) Publish(ctx context.Context, topic string, payload []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Publish", ctx, topic, payload)
	ret0, _ := ret[0].(error)
	return ret0
}

// Publish indicates an expected call of Publish.
func (mr *MockTransportMockRecorder) Publish(ctx, topic, payload interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Publish", reflect.TypeOf((*MockTransport)(nil).Publish), ctx, topic, payload)
}

// Subscribe mocks base method.
func (m *MockTransport) Subscribe(ctx context.Context, topic string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Subscribe", ctx, topic)
	ret0, _ := ret[0].(error)
	return ret0
}

// Subscribe indicates an expected call of Subscribe.
func (mr *MockTransportMockRecorder) Subscribe(ctx, topic interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Subscribe", reflect.TypeOf((*MockTransport)(nil).Subscribe), ctx, topic)
}

// Dial mocks base method.
func (m *MockTransport) Dial(ctx context.Context, addr string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Dial", ctx, addr)
	ret0, _ := ret[0].(error)
	return ret0
}

// Dial indicates an expected call of Dial.
func (mr *MockTransportMockRecorder) Dial(ctx, addr interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Dial", reflect.TypeOf((*MockTransport)(nil).Dial), ctx, addr)
}

// PutDHTRecord mocks base method.
func (m *MockTransport) PutDHTRecord(ctx context.Context, key string, value []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PutDHTRecord", ctx, key, value)
	ret0, _ := ret[0].(error)
	return ret0
}

// PutDHTRecord indicates an expected call of PutDHTRecord.
func (mr *MockTransportMockRecorder) PutDHTRecord(ctx, key, value interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutDHTRecord", reflect.TypeOf((*MockTransport)(nil).PutDHTRecord), ctx, key, value)
}

// Bootstrap mocks base method.
func (m *MockTransport) Bootstrap(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Bootstrap", ctx)
	ret0, _ := ret[0].(error)
	return ret0
}

// Bootstrap indicates an expected call of Bootstrap.
func (mr *MockTransportMockRecorder) Bootstrap(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Bootstrap", reflect.TypeOf((*MockTransport)(nil).Bootstrap), ctx)
}

// EstimatedSwarmSize mocks base method.
func (m *MockTransport) EstimatedSwarmSize() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EstimatedSwarmSize")
	ret0, _ := ret[0].(uint64)
	return ret0
}

// EstimatedSwarmSize indicates an expected call of EstimatedSwarmSize.
func (mr *MockTransportMockRecorder) EstimatedSwarmSize() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EstimatedSwarmSize", reflect.TypeOf((*MockTransport)(nil).EstimatedSwarmSize))
}

// LocalPeerID mocks base method.
func (m *MockTransport) LocalPeerID() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LocalPeerID")
	ret0, _ := ret[0].(string)
	return ret0
}

// LocalPeerID indicates an expected call of LocalPeerID.
func (mr *MockTransportMockRecorder) LocalPeerID() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LocalPeerID", reflect.TypeOf((*MockTransport)(nil).LocalPeerID))
}
