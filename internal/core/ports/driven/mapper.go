package driven

import "github.com/custodia-labs/microverse/internal/core/domain"

// ControlMapper translates ranked documents into a control patch.
// Implementations must be pure and total: an empty input yields
// domain.NeutralPatch().
type ControlMapper interface {
	Map(results []domain.ScoredDocument) domain.ControlPatch
}
