package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
	"github.com/custodia-labs/microverse/internal/core/ports/driving"
	"github.com/custodia-labs/microverse/internal/logger"
)

// Ensure IntentService implements the interface.
var _ driving.IntentService = (*IntentService)(nil)

// IntentService turns a query into a control patch by retrieving the
// closest passages and handing them to a ControlMapper.
type IntentService struct {
	retrieval driving.RetrievalService
	mapper    driven.ControlMapper
}

// NewIntentService creates an intent service.
func NewIntentService(retrieval driving.RetrievalService, mapper driven.ControlMapper) *IntentService {
	return &IntentService{
		retrieval: retrieval,
		mapper:    mapper,
	}
}

// Intent retrieves up to topK passages for query and maps them to a patch.
// Retrieval stats are attached to the patch even when nothing matched.
func (s *IntentService) Intent(ctx context.Context, query string, topK int) (*domain.ControlPatch, error) {
	if topK <= 0 {
		topK = driving.DefaultIntentTopK
	}

	result, err := s.retrieval.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("intent: %w", err)
	}
	stats := result.Stats

	var patch domain.ControlPatch
	if len(result.Results) == 0 || s.mapper == nil {
		patch = domain.NeutralPatch()
	} else {
		patch = s.mapper.Map(result.Results)
	}
	patch.Meta.Stats = &stats

	logger.Debug("Intent ops: %d, sources: %d", len(patch.Visual.Ops), len(patch.Meta.Sources))
	return &patch, nil
}
