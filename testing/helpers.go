// Package testing provides test utilities and helpers for linkz-based applications.
//
// This package includes a mock consumer and assertion helpers to make
// testing chains easier: drop a MockConsumer in place of a real downstream
// node and assert on what reached it.
//
// Example usage:
//
//	func TestParseStage(t *testing.T) {
//		parse, _ := linkz.NewTransform("parse", strconv.Atoi)
//		mock := linktest.NewMockConsumer(t, "mock", linktest.TypesOf(0)...)
//		if err := parse.SetConsumer(mock); err != nil {
//			t.Fatal(err)
//		}
//
//		_ = parse.Consume(context.Background(), "42")
//		linktest.AssertConsumedWith(t, mock, 42)
//	}
package testing

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/linkz"
)

// MockConsumer provides a configurable mock implementation of linkz.Consumer.
// It tracks calls, allows configuring an error or panic, and provides
// assertion methods for testing chain behavior.
type MockConsumer struct { //nolint:govet // fieldalignment: Test helper struct optimized for functionality over memory efficiency
	t           *testing.T
	name        string
	inputs      []reflect.Type
	returnErr   error
	panicMsg    string
	mu          sync.RWMutex
	callCount   int
	lastValues  linkz.Tuple
	callHistory []MockCall
	maxHistory  int
}

// MockCall represents a single call to the mock consumer.
type MockCall struct {
	Values    linkz.Tuple
	Timestamp time.Time
	Context   context.Context
}

// NewMockConsumer creates a mock consumer accepting the given input types.
func NewMockConsumer(t *testing.T, name string, inputs ...reflect.Type) *MockConsumer {
	return &MockConsumer{
		t:          t,
		name:       name,
		inputs:     inputs,
		maxHistory: 100, // Keep last 100 calls by default
	}
}

// TypesOf returns the dynamic types of values, for declaring mock inputs.
func TypesOf(values ...any) []reflect.Type {
	types := make([]reflect.Type, len(values))
	for i, v := range values {
		types[i] = reflect.TypeOf(v)
	}
	return types
}

// WithError configures the mock to return err from every Consume.
func (m *MockConsumer) WithError(err error) *MockConsumer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnErr = err
	return m
}

// WithPanic configures the mock to panic with a specific message.
func (m *MockConsumer) WithPanic(msg string) *MockConsumer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicMsg = msg
	return m
}

// WithHistorySize configures how many calls to keep in history.
// Set to 0 to disable history tracking.
func (m *MockConsumer) WithHistorySize(size int) *MockConsumer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxHistory = size
	if size == 0 {
		m.callHistory = nil
	} else if len(m.callHistory) > size {
		m.callHistory = m.callHistory[len(m.callHistory)-size:]
	}
	return m
}

// Name returns the name of the mock consumer.
func (m *MockConsumer) Name() linkz.Name {
	return m.name
}

// Inputs returns the declared input types.
func (m *MockConsumer) Inputs() []reflect.Type {
	out := make([]reflect.Type, len(m.inputs))
	copy(out, m.inputs)
	return out
}

// Consume implements linkz.Consumer. It records the call and returns the
// configured error, or panics if configured to.
func (m *MockConsumer) Consume(ctx context.Context, values ...any) error {
	m.mu.Lock()
	m.callCount++
	m.lastValues = linkz.Tuple(values)
	if m.maxHistory > 0 {
		m.callHistory = append(m.callHistory, MockCall{
			Values:    linkz.Tuple(values),
			Timestamp: time.Now(),
			Context:   ctx,
		})
		if len(m.callHistory) > m.maxHistory {
			m.callHistory = m.callHistory[1:]
		}
	}
	returnErr := m.returnErr
	panicMsg := m.panicMsg
	m.mu.Unlock()

	if panicMsg != "" {
		panic(panicMsg)
	}
	return returnErr
}

// CallCount returns the number of times Consume has been called.
func (m *MockConsumer) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.callCount
}

// LastValues returns the tuple from the most recent call.
func (m *MockConsumer) LastValues() linkz.Tuple {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastValues
}

// CallHistory returns a copy of all recorded calls.
// Returns nil if history tracking is disabled.
func (m *MockConsumer) CallHistory() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.maxHistory == 0 {
		return nil
	}
	history := make([]MockCall, len(m.callHistory))
	copy(history, m.callHistory)
	return history
}

// Reset clears all call tracking.
func (m *MockConsumer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastValues = nil
	m.callHistory = nil
}

// Assertion Helpers

// AssertConsumed verifies that a mock consumer was called exactly n times.
func AssertConsumed(t *testing.T, mock *MockConsumer, expectedCalls int) {
	t.Helper()
	actualCalls := mock.CallCount()
	if actualCalls != expectedCalls {
		t.Errorf("expected mock consumer %s to be called %d times, but was called %d times",
			mock.name, expectedCalls, actualCalls)
	}
}

// AssertNotConsumed verifies that a mock consumer was never called.
func AssertNotConsumed(t *testing.T, mock *MockConsumer) {
	t.Helper()
	AssertConsumed(t, mock, 0)
}

// AssertConsumedWith verifies that the most recent call received values.
func AssertConsumedWith(t *testing.T, mock *MockConsumer, values ...any) {
	t.Helper()
	if mock.CallCount() == 0 {
		t.Errorf("expected mock consumer %s to be called with %v, but it was never called",
			mock.name, values)
		return
	}

	if diff := cmp.Diff(linkz.Tuple(values), mock.LastValues()); diff != "" {
		t.Errorf("mock consumer %s values mismatch (-want +got):\n%s", mock.name, diff)
	}
}
