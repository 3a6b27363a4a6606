// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBodyBytes(t *testing.T) {
	t.Run("conversions", func(t *testing.T) {
		testCases := []struct {
			name     string
			body     interface{}
			expected []byte
		}{
			{name: "nil", body: nil, expected: nil},
			{name: "string", body: "twine", expected: []byte("twine")},
			{name: "byte slice", body: []byte{0xca, 0xfe}, expected: []byte{0xca, 0xfe}},
			{name: "io.Reader", body: strings.NewReader("rope"), expected: []byte("rope")},
			{name: "io.ReadCloser", body: io.NopCloser(strings.NewReader("cord")), expected: []byte("cord")},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				b, err := BodyBytes(testCase.body)
				assert.NoError(t, err)
				assert.Equal(t, testCase.expected, b)
			})
		}
	})
	t.Run("byte slice is not copied", func(t *testing.T) {
		in := []byte("shared")
		b, err := BodyBytes(in)
		assert.NoError(t, err)
		assert.Equal(t, &in[0], &b[0])
	})
	t.Run("unsupported type", func(t *testing.T) {
		b, err := BodyBytes(struct{}{})
		assert.Nil(t, b)
		assert.EqualError(t, err, badBodyTypeMsg)
	})
	t.Run("read error propagates", func(t *testing.T) {
		readErr := errors.New("short tape")
		m := newMockReadCloser(t)
		m.On("Read", mock.Anything).Return(0, readErr).Once()
		b, err := BodyBytes(m)
		assert.Nil(t, b)
		assert.Same(t, readErr, err)
		m.AssertExpectations(t)
	})
	t.Run("close error propagates", func(t *testing.T) {
		closeErr := errors.New("stuck lid")
		m := newMockReadCloser(t)
		m.On("Read", mock.Anything).Return(0, io.EOF).Once()
		m.On("Close").Return(closeErr).Once()
		b, err := BodyBytes(m)
		assert.Nil(t, b)
		assert.Same(t, closeErr, err)
		m.AssertExpectations(t)
	})
}

type mockReadCloser struct {
	mock.Mock
}

func newMockReadCloser(t *testing.T) *mockReadCloser {
	m := &mockReadCloser{}
	m.Test(t)
	return m
}

func (m *mockReadCloser) Read(p []byte) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *mockReadCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}
