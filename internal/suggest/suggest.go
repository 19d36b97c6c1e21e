// Package suggest asks a language model to review flashcards and report
// suspected content errors.
package suggest

import (
	"context"

	"github.com/JonMunkholm/flashmaint/internal/flashcard"
)

// Auditor reviews a batch of cards and returns the findings it suspects.
// An empty result means nothing was flagged. Callers treat any error as an
// empty result for that batch.
type Auditor interface {
	Audit(ctx context.Context, cards []flashcard.Projection) ([]flashcard.Finding, error)
}
