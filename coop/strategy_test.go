// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coop

import (
	"errors"
	"testing"
	"time"

	"github.com/gogama/reqflow"
	"github.com/gogama/reqflow/clienterr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewStrategy(t *testing.T) {
	t.Run("nil loop", func(t *testing.T) {
		s, err := NewStrategy(nil)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, reqflow.ErrUnsupported)
	})
	t.Run("happy path", func(t *testing.T) {
		s, err := NewStrategy(NewLoop())
		assert.NotNil(t, s)
		assert.NoError(t, err)
	})
}

func TestStrategy_Send(t *testing.T) {
	t.Run("blocking client", func(t *testing.T) {
		l := NewLoop()
		s, err := NewStrategy(l)
		require.NoError(t, err)
		c := newMockClient(t)
		c.On("Send", "req").Return("resp", nil).Once()
		cb := newMockSendCallback(t)
		cb.On("OnSuccess", "resp").Return("final", nil).Once()
		v, err := s.Send(c, "req", cb)
		assert.Equal(t, "final", v)
		assert.NoError(t, err)
		c.AssertExpectations(t)
		cb.AssertExpectations(t)
	})
	t.Run("blocking client failure", func(t *testing.T) {
		l := NewLoop()
		s, err := NewStrategy(l)
		require.NoError(t, err)
		sendErr := errors.New("send failed")
		c := newMockClient(t)
		c.On("Send", "req").Return(nil, sendErr).Once()
		cb := newMockSendCallback(t)
		cb.On("OnFailure", sendErr).Return(nil, sendErr).Once()
		v, err := s.Send(c, "req", cb)
		assert.Nil(t, v)
		assert.Same(t, sendErr, err)
		c.AssertExpectations(t)
		cb.AssertExpectations(t)
	})
	t.Run("deferred client", func(t *testing.T) {
		l := NewLoop()
		s, err := NewStrategy(l)
		require.NoError(t, err)
		pending := NewPromise(l)
		c := newMockClient(t)
		c.On("Send", "req").Return(pending, nil).Once()
		cb := newMockSendCallback(t)
		cb.On("OnSuccess", "resp").Return("final", nil).Once()
		v, err := s.Send(c, "req", cb)
		require.NoError(t, err)
		p, ok := v.(*Promise)
		require.True(t, ok)
		pending.Complete("resp", nil)
		v, err = l.RunUntil(p)
		assert.Equal(t, "final", v)
		assert.NoError(t, err)
		c.AssertExpectations(t)
		cb.AssertExpectations(t)
	})
}

func TestStrategy_Sleep(t *testing.T) {
	l := NewLoop()
	s, err := NewStrategy(l)
	require.NoError(t, err)
	cb := newMockSleepCallback(t)
	cb.On("OnSuccess").Return("woke", nil).Once()
	start := time.Now()
	v, err := s.Sleep(20*time.Millisecond, cb)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 20*time.Millisecond)
	p, ok := v.(*Promise)
	require.True(t, ok)
	v, err = l.RunUntil(p)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, "woke", v)
	assert.NoError(t, err)
	cb.AssertExpectations(t)
}

func TestStrategy_FinishFail(t *testing.T) {
	s, err := NewStrategy(NewLoop())
	require.NoError(t, err)
	t.Run("Finish", func(t *testing.T) {
		v, err := s.Finish("done")
		assert.Equal(t, "done", v)
		assert.NoError(t, err)
	})
	t.Run("Fail", func(t *testing.T) {
		terminal := errors.New("terminal")
		v, err := s.Fail(terminal)
		assert.Nil(t, v)
		assert.Same(t, terminal, err)
	})
}

func TestStrategy_Execute(t *testing.T) {
	l := NewLoop()
	s, err := NewStrategy(l)
	require.NoError(t, err)
	ex := newMockExecutable(t)
	ex.On("Execute").Return("outcome", nil).Once()
	v, err := s.Execute(ex)
	require.NoError(t, err)
	p, ok := v.(*Promise)
	require.True(t, ok)
	v, err = l.RunUntil(p)
	assert.Equal(t, "outcome", v)
	assert.NoError(t, err)
	ex.AssertExpectations(t)
}

func TestStrategy_ExecutionsInterleave(t *testing.T) {
	// Two executions sleeping concurrently finish in roughly the time
	// of the longer sleep, not the sum.
	l := NewLoop()
	s, err := NewStrategy(l)
	require.NoError(t, err)
	sleepThenWake := func() (interface{}, error) {
		cb := newMockSleepCallback(t)
		cb.On("OnSuccess").Return("woke", nil).Once()
		return s.Sleep(30*time.Millisecond, cb)
	}
	start := time.Now()
	v1, err := s.Execute(executableFunc(sleepThenWake))
	require.NoError(t, err)
	v2, err := s.Execute(executableFunc(sleepThenWake))
	require.NoError(t, err)
	_, err = l.RunUntil(v1.(*Promise))
	require.NoError(t, err)
	_, err = l.RunUntil(v2.(*Promise))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 60*time.Millisecond)
}

type executableFunc func() (interface{}, error)

func (f executableFunc) Execute() (interface{}, error) {
	return f()
}

type mockClient struct {
	mock.Mock
}

func newMockClient(t *testing.T) *mockClient {
	m := &mockClient{}
	m.Test(t)
	return m
}

func (m *mockClient) Send(request interface{}) (interface{}, error) {
	args := m.Called(request)
	return args.Get(0), args.Error(1)
}

func (m *mockClient) ApplyCallback(cb reqflow.Callback, response interface{}) (interface{}, error) {
	args := m.Called(cb, response)
	return args.Get(0), args.Error(1)
}

func (m *mockClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockClient) Errors() *clienterr.Table {
	args := m.Called()
	table, _ := args.Get(0).(*clienterr.Table)
	return table
}

type mockSendCallback struct {
	mock.Mock
}

func newMockSendCallback(t *testing.T) *mockSendCallback {
	m := &mockSendCallback{}
	m.Test(t)
	return m
}

func (m *mockSendCallback) OnSuccess(response interface{}) (interface{}, error) {
	args := m.Called(response)
	return args.Get(0), args.Error(1)
}

func (m *mockSendCallback) OnFailure(err error) (interface{}, error) {
	args := m.Called(err)
	return args.Get(0), args.Error(1)
}

type mockSleepCallback struct {
	mock.Mock
}

func newMockSleepCallback(t *testing.T) *mockSleepCallback {
	m := &mockSleepCallback{}
	m.Test(t)
	return m
}

func (m *mockSleepCallback) OnSuccess() (interface{}, error) {
	args := m.Called()
	return args.Get(0), args.Error(1)
}

func (m *mockSleepCallback) OnFailure(err error) (interface{}, error) {
	args := m.Called(err)
	return args.Get(0), args.Error(1)
}

type mockExecutable struct {
	mock.Mock
}

func newMockExecutable(t *testing.T) *mockExecutable {
	m := &mockExecutable{}
	m.Test(t)
	return m
}

func (m *mockExecutable) Execute() (interface{}, error) {
	args := m.Called()
	return args.Get(0), args.Error(1)
}
