package driving

import (
	"context"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// DefaultIntentTopK is the result count used to build a control patch.
const DefaultIntentTopK = 3

// IntentService maps a query to a visual/audio control patch.
type IntentService interface {
	// Intent retrieves up to topK documents for query and maps them.
	// Non-positive topK selects DefaultIntentTopK.
	Intent(ctx context.Context, query string, topK int) (*domain.ControlPatch, error)
}
