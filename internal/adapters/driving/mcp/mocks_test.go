package mcp

import (
	"context"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	result *domain.RetrievalResult
	count  int
	err    error

	gotQuery string
	gotK     int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string, k int) (*domain.RetrievalResult, error) {
	m.gotQuery, m.gotK = query, k
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.RetrievalResult{}, nil
	}
	return m.result, nil
}

func (m *mockRetrievalService) Embed(_ context.Context, _ string) ([]float64, error) {
	return []float64{1, 0}, m.err
}

func (m *mockRetrievalService) Count(_ context.Context) (int, error) {
	return m.count, m.err
}

// mockIntentService is a mock implementation of driving.IntentService.
type mockIntentService struct {
	patch   domain.ControlPatch
	err     error
	gotTopK int
}

func (m *mockIntentService) Intent(_ context.Context, _ string, topK int) (*domain.ControlPatch, error) {
	m.gotTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	p := m.patch
	return &p, nil
}
