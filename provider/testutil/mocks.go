package testutil

import (
	"context"
	"fmt"
	"sync"

	"rtui/model"
)

// MockProvider implements model.Provider for testing. CompleteFunc decides
// each response; every request is recorded.
type MockProvider struct {
	CompleteFunc func(ctx context.Context, req model.Request) (*model.Response, error)

	mu           sync.Mutex
	requests     []model.Request
	currentModel string
}

// NewMockProvider creates a mock provider that answers every request with
// "Mock response".
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{currentModel: modelName}
	mock.CompleteFunc = func(context.Context, model.Request) (*model.Response, error) {
		return FinalResponse("resp_mock", "Mock response"), nil
	}
	return mock
}

// NewScriptedProvider returns the scripted responses in order, one per
// request. A nil response with a non-nil error fails that request. Running
// past the end of the script is an error.
func NewScriptedProvider(steps ...Step) *MockProvider {
	mock := &MockProvider{currentModel: "scripted"}
	var next int
	mock.CompleteFunc = func(context.Context, model.Request) (*model.Response, error) {
		mock.mu.Lock()
		defer mock.mu.Unlock()
		if next >= len(steps) {
			return nil, fmt.Errorf("scripted provider: unexpected request %d", next+1)
		}
		step := steps[next]
		next++
		return step.Response, step.Err
	}
	return mock
}

// Step is one scripted provider reply.
type Step struct {
	Response *model.Response
	Err      error
}

func (m *MockProvider) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.CompleteFunc(ctx, req)
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentModel
}

func (m *MockProvider) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentModel = model
}

// Requests returns the recorded requests.
func (m *MockProvider) Requests() []model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Request(nil), m.requests...)
}
